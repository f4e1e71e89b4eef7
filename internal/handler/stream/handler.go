package stream

import (
	"net/http"

	"go.uber.org/zap"

	chatHandler "github.com/zhouzirui/hair-care-chat/backend/internal/handler/chat"
	"github.com/zhouzirui/hair-care-chat/backend/internal/model/persona"
	chatService "github.com/zhouzirui/hair-care-chat/backend/internal/service/chat"
	"github.com/zhouzirui/hair-care-chat/backend/pkg/utils"
)

// Handler 通过 Server-Sent Events 交付回复
type Handler struct {
	chatSvc  *chatService.Service
	personas persona.Store
	logger   *zap.Logger
}

// New creates a new stream handler
func New(chatSvc *chatService.Service, personas persona.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		chatSvc:  chatSvc,
		personas: personas,
		logger:   logger.Named("handler.stream"),
	}
}

// Event 是一条SSE消息的数据体
type Event struct {
	Content  string `json:"content,omitempty"`
	Route    string `json:"route,omitempty"`
	Finished bool   `json:"finished,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ServeHTTP 处理 GET /chat/stream?message=
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	message := r.URL.Query().Get("message")
	if message == "" {
		utils.RespondError(w, http.StatusBadRequest, "Message is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)

	p := persona.Default(h.personas)
	utils.SendSSEEvent(w, flusher, "start", Event{Content: p.Name + ":"})

	reply, err := h.chatSvc.Reply(r.Context(), message)
	if err != nil {
		_, text := chatHandler.Describe(err)
		h.logger.Warn("stream reply failed", zap.Error(err))
		utils.SendSSEEvent(w, flusher, "error", Event{Error: text})
		return
	}

	utils.SendSSEEvent(w, flusher, "message", Event{Content: reply.Text, Route: string(reply.Route)})
	utils.SendSSEEvent(w, flusher, "end", Event{Finished: true})
}
