package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/hair-care-chat/backend/internal/config"
	"github.com/zhouzirui/hair-care-chat/backend/internal/handler"
	"github.com/zhouzirui/hair-care-chat/backend/internal/logging"
	"github.com/zhouzirui/hair-care-chat/backend/internal/metrics"
	"github.com/zhouzirui/hair-care-chat/backend/internal/model/persona"
	"github.com/zhouzirui/hair-care-chat/backend/internal/service/ai"
	"github.com/zhouzirui/hair-care-chat/backend/internal/service/chat"
	"github.com/zhouzirui/hair-care-chat/backend/internal/service/classifier"
	"github.com/zhouzirui/hair-care-chat/backend/internal/store"
	"github.com/zhouzirui/hair-care-chat/backend/internal/store/memory"
	"github.com/zhouzirui/hair-care-chat/backend/internal/store/mongostore"
	"github.com/zhouzirui/hair-care-chat/backend/internal/store/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Warn("failed to load .env file, continuing with system environment variables only", zap.Error(envErr))
	}

	m := metrics.New("haircare")

	personaStore := persona.NewMemoryStore(persona.Seed())
	assistant := persona.Default(personaStore)

	generator := newGenerator(ctx, cfg.AI, logger)
	chatStore := newStore(cfg.Store, logger)

	replier := ai.NewReplier(generator, assistant, logger)
	chatService := chat.NewService(
		replier,
		classifier.NewService(generator, assistant, logger),
		chatStore,
		m,
		logger,
	)

	router := handler.NewRouter(handler.Deps{
		Personas:  personaStore,
		Chat:      chatService,
		Replier:   replier,
		Generator: generator,
		Metrics:   m,
		Logger:    logger,
	})

	startServer(ctx, cfg.Server, router, logger)

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := chatStore.Close(closeCtx); err != nil {
		logger.Warn("failed to close chat store", zap.Error(err))
	}
}

// newGenerator 按配置的供应商创建模型客户端；失败时返回 nil，服务以“模型未初始化”状态继续运行。
func newGenerator(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) ai.Generator {
	switch cfg.Provider {
	case config.ProviderArk:
		gen, err := ai.NewArkGenerator(ctx, cfg)
		if err != nil {
			logger.Error("failed to initialize ark model", zap.Error(err))
			return nil
		}
		logger.Info("AI model initialized", zap.String("provider", cfg.Provider), zap.String("model", cfg.Model))
		return gen
	default:
		gen, err := ai.NewGeminiGenerator(ctx, cfg)
		if err != nil {
			logger.Error("failed to initialize gemini model", zap.Error(err))
			return nil
		}
		logger.Info("AI model initialized", zap.String("provider", cfg.Provider), zap.String("model", cfg.GeminiModel))
		return gen
	}
}

func newStore(cfg config.StoreConfig, logger *zap.Logger) store.Store {
	switch cfg.Driver {
	case config.DriverMongo:
		return mongostore.Open(mongostore.Config{
			URI:           cfg.MongoURI,
			Database:      cfg.MongoDatabase,
			Collection:    cfg.MongoCollection,
			RetryInterval: cfg.RetryInterval,
		}, logger)
	case config.DriverPostgres:
		return postgres.Open(postgres.Config{
			DSN:           cfg.PostgresDSN,
			RetryInterval: cfg.RetryInterval,
		}, logger)
	default:
		logger.Warn("using in-memory chat store, history is lost on restart")
		return memory.New()
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("hair care chat backend listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
