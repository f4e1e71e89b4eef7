package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zhouzirui/hair-care-chat/backend/internal/handler/chat"
	"github.com/zhouzirui/hair-care-chat/backend/internal/handler/persona"
	"github.com/zhouzirui/hair-care-chat/backend/internal/handler/stream"
	"github.com/zhouzirui/hair-care-chat/backend/internal/handler/system"
	"github.com/zhouzirui/hair-care-chat/backend/internal/metrics"
	middlewarePkg "github.com/zhouzirui/hair-care-chat/backend/internal/middleware"
	personaModel "github.com/zhouzirui/hair-care-chat/backend/internal/model/persona"
	"github.com/zhouzirui/hair-care-chat/backend/internal/service/ai"
	chatService "github.com/zhouzirui/hair-care-chat/backend/internal/service/chat"
)

// Deps 汇总路由所需的服务。Replier、Generator 与 Metrics 可以为 nil。
type Deps struct {
	Personas  personaModel.Store
	Chat      *chatService.Service
	Replier   *ai.Replier
	Generator ai.Generator
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger))
	r.Use(middlewarePkg.Recoverer(logger))
	r.Use(middlewarePkg.CORS)

	personaHandler := persona.New(deps.Personas)
	chatHandler := chat.New(deps.Chat, logger)
	streamHandler := stream.New(deps.Chat, deps.Personas, logger)
	systemHandler := system.New(deps.Chat, deps.Replier, deps.Generator, logger)

	r.Route("/api", func(api chi.Router) {
		personaHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
		systemHandler.RegisterRoutes(api)

		api.Method(http.MethodGet, "/chat/stream", streamHandler)
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	return r
}
