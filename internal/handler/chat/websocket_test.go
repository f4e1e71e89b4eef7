package chat

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/zhouzirui/hair-care-chat/backend/internal/store/memory"
)

func TestWebSocketRepliesPerMessage(t *testing.T) {
	st := memory.New()
	r := setupRouter(t, &scriptedGenerator{verdict: "true", reply: "Use a silk pillowcase 😊"}, st)

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(chatRequest{Message: "How do I reduce hair breakage?"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var out wsOutgoing
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatalf("read: %v", err)
	}
	if out.Type != "reply" || out.Response != "Use a silk pillowcase 😊" {
		t.Fatalf("unexpected frame %+v", out)
	}

	if err := conn.WriteJSON(chatRequest{Message: "  "}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatalf("read: %v", err)
	}
	if out.Type != "error" || out.Error != "Message is required" {
		t.Fatalf("expected error frame, got %+v", out)
	}

	if st.Len() != 2 {
		t.Fatalf("expected 2 stored records, got %d", st.Len())
	}
}
