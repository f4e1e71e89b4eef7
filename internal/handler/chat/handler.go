package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zhouzirui/hair-care-chat/backend/internal/model/chat"
	"github.com/zhouzirui/hair-care-chat/backend/internal/service/ai"
	chatService "github.com/zhouzirui/hair-care-chat/backend/internal/service/chat"
	"github.com/zhouzirui/hair-care-chat/backend/pkg/utils"
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc  *chatService.Service
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		chatSvc: chatSvc,
		logger:  logger.Named("handler.chat"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/chat/history", h.handleHistory)
	r.Get("/chat/ws", h.handleWebSocket)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// handleChat 处理一条用户消息
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Message is required")
		return
	}

	reply, err := h.chatSvc.Reply(r.Context(), payload.Message)
	if err != nil {
		status, message := Describe(err)
		utils.RespondError(w, status, message)
		return
	}

	utils.RespondJSON(w, http.StatusOK, chatResponse{Response: reply.Text})
}

// handleHistory 返回最近的聊天记录
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	history, err := h.chatSvc.History(r.Context(), limit)
	if err != nil {
		h.logger.Error("error fetching chat history", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch chat history")
		return
	}
	if history == nil {
		history = []chat.Message{}
	}

	utils.RespondJSON(w, http.StatusOK, history)
}

// Describe 将对话错误映射为 HTTP 状态码与面向用户的错误信息。
func Describe(err error) (int, string) {
	var aiErr *ai.Error
	switch {
	case errors.Is(err, chatService.ErrMessageRequired):
		return http.StatusBadRequest, "Message is required"
	case errors.Is(err, ai.ErrModelConfiguration):
		return http.StatusInternalServerError, "AI model configuration error. Please check the model name."
	case errors.Is(err, ai.ErrTryAgainLater):
		return http.StatusInternalServerError, "Failed to generate response. Please try again later."
	case errors.Is(err, chatService.ErrEmptyReply):
		return http.StatusInternalServerError, "Failed to generate response"
	case errors.Is(err, ai.ErrModelUnavailable):
		return http.StatusInternalServerError, "AI model is not initialized"
	case errors.As(err, &aiErr):
		return http.StatusInternalServerError, "AI service error: " + aiErr.Err.Error()
	default:
		return http.StatusInternalServerError, "An unexpected error occurred. Please try again."
	}
}
