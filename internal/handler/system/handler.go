package system

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/hair-care-chat/backend/internal/service/ai"
	"github.com/zhouzirui/hair-care-chat/backend/internal/store"
	"github.com/zhouzirui/hair-care-chat/backend/pkg/utils"
)

// StatusReporter 报告存储连接状态。
type StatusReporter interface {
	StoreStatus() store.Status
}

// ModelReporter 报告模型客户端是否可用。
type ModelReporter interface {
	Available() bool
}

// Handler 提供健康检查与模型列表。
type Handler struct {
	status    StatusReporter
	model     ModelReporter
	generator ai.Generator
	logger    *zap.Logger
}

// New 创建系统处理器。model 决定健康检查中的模型状态，generator 用于列出模型。
func New(status StatusReporter, model ModelReporter, generator ai.Generator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		status:    status,
		model:     model,
		generator: generator,
		logger:    logger.Named("handler.system"),
	}
}

// RegisterRoutes 注册健康检查与模型列表路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Get("/models", h.handleModels)
}

type healthResponse struct {
	Status   string         `json:"status"`
	Services healthServices `json:"services"`
}

type healthServices struct {
	Store string `json:"store"`
	Model string `json:"model"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	model := "not initialized"
	if h.model != nil && h.model.Available() {
		model = "initialized"
	}

	storeStatus := store.StatusDisconnected
	if h.status != nil {
		storeStatus = h.status.StoreStatus()
	}

	utils.RespondJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Services: healthServices{
			Store: string(storeStatus),
			Model: model,
		},
	})
}

type modelsResponse struct {
	Models []ai.ModelInfo `json:"models"`
}

func (h *Handler) handleModels(w http.ResponseWriter, r *http.Request) {
	lister, ok := h.generator.(ai.ModelLister)
	if !ok {
		utils.RespondError(w, http.StatusNotImplemented, "Model listing is not supported by the configured provider")
		return
	}

	models, err := lister.ListModels(r.Context())
	if err != nil {
		h.logger.Error("error listing models", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "Failed to list models: "+err.Error())
		return
	}
	if models == nil {
		models = []ai.ModelInfo{}
	}

	utils.RespondJSON(w, http.StatusOK, modelsResponse{Models: models})
}
