package chat

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type wsOutgoing struct {
	Type     string `json:"type"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// handleWebSocket 在一条连接上循环处理消息，每条入站 {message} 对应一条回复。
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	for {
		var in chatRequest
		if err := conn.ReadJSON(&in); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				h.logger.Debug("websocket read ended", zap.Error(err))
			}
			return
		}

		out := wsOutgoing{Type: "reply"}
		reply, err := h.chatSvc.Reply(ctx, in.Message)
		if err != nil {
			_, message := Describe(err)
			out = wsOutgoing{Type: "error", Error: message}
		} else {
			out.Response = reply.Text
		}

		if err := conn.WriteJSON(out); err != nil {
			h.logger.Debug("websocket write failed", zap.Error(err))
			return
		}
	}
}
