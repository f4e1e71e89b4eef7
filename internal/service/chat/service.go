package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zhouzirui/hair-care-chat/backend/internal/metrics"
	"github.com/zhouzirui/hair-care-chat/backend/internal/model/chat"
	"github.com/zhouzirui/hair-care-chat/backend/internal/service/ai"
	"github.com/zhouzirui/hair-care-chat/backend/internal/service/classifier"
	"github.com/zhouzirui/hair-care-chat/backend/internal/store"
)

var (
	ErrMessageRequired = errors.New("message is required")
	ErrEmptyReply      = errors.New("failed to generate response")
)

// Route 标识一次请求走的回复分支。
type Route string

const (
	RouteWelcome     Route = "welcome"
	RouteInDomain    Route = "in_domain"
	RouteOutOfDomain Route = "out_of_domain"
)

// Replier generates the three reply variants.
type Replier interface {
	Welcome(ctx context.Context) (string, error)
	InDomain(ctx context.Context, message string) (string, error)
	OutOfDomain(ctx context.Context, message string) (string, error)
}

// Classifier decides whether a message is in-domain. It never fails.
type Classifier interface {
	Classify(ctx context.Context, message string) classifier.Verdict
}

// Reply 是一次对话的结果。PersistErr 记录尽力而为的持久化结果，不影响回复的交付。
type Reply struct {
	Text       string
	Route      Route
	PersistErr error
}

// Service 是对话编排入口：问候识别、分类路由、生成回复并持久化两条记录。
type Service struct {
	replier    Replier
	classifier Classifier
	store      store.Store
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time

	clockMu sync.Mutex
	last    time.Time
}

// NewService wires the orchestrator. metrics may be nil.
func NewService(replier Replier, cls Classifier, st store.Store, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		replier:    replier,
		classifier: cls,
		store:      st,
		metrics:    m,
		logger:     logger.Named("chat"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Reply 处理一条用户消息并返回助手回复。
func (s *Service) Reply(ctx context.Context, message string) (Reply, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return Reply{}, ErrMessageRequired
	}

	start := time.Now()
	route := s.route(ctx, message)

	text, err := s.generate(ctx, route, message)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyReply
	}
	if err != nil {
		s.metrics.ObserveChat(string(route), "error", time.Since(start))
		s.logger.Error("error processing chat", zap.String("route", string(route)), zap.Error(err))
		return Reply{Route: route}, err
	}

	persistErr := s.persist(ctx, trimmed, strings.TrimSpace(text))
	s.metrics.ObserveChat(string(route), "ok", time.Since(start))

	return Reply{Text: text, Route: route, PersistErr: persistErr}, nil
}

// History returns up to limit stored records, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]chat.Message, error) {
	messages, err := s.store.Recent(ctx, store.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("fetch chat history: %w", err)
	}
	return messages, nil
}

// StoreStatus reports the store connection state.
func (s *Service) StoreStatus() store.Status {
	return s.store.Status()
}

func (s *Service) route(ctx context.Context, message string) Route {
	if ai.IsGreeting(message) {
		return RouteWelcome
	}

	verdict := s.classifier.Classify(ctx, message)
	s.metrics.ObserveClassification(string(verdict.Source), verdict.InDomain)
	if verdict.InDomain {
		return RouteInDomain
	}
	return RouteOutOfDomain
}

func (s *Service) generate(ctx context.Context, route Route, message string) (string, error) {
	switch route {
	case RouteWelcome:
		return s.replier.Welcome(ctx)
	case RouteInDomain:
		return s.replier.InDomain(ctx, message)
	default:
		return s.replier.OutOfDomain(ctx, message)
	}
}

// persist 并发写入用户与机器人两条记录，等待两者完成；失败仅记录日志。
func (s *Service) persist(ctx context.Context, userText, botText string) error {
	userAt := s.stamp()
	botAt := s.stamp()

	userMsg := chat.Message{Type: chat.TypeUser, Content: userText, Timestamp: userAt}
	botMsg := chat.Message{Type: chat.TypeBot, Content: botText, Timestamp: botAt}

	var g errgroup.Group
	g.Go(func() error { return s.store.Append(ctx, userMsg) })
	g.Go(func() error { return s.store.Append(ctx, botMsg) })

	err := g.Wait()
	s.metrics.ObservePersistence(err)
	if err != nil {
		s.logger.Error("error saving chat to database", zap.Error(err))
		return err
	}
	s.logger.Debug("chat saved successfully")
	return nil
}

// stamp 返回毫秒精度、在本进程内严格递增的时间戳。
// 存储只保证毫秒精度，同一毫秒内的并发请求依靠它保持历史记录的严格顺序。
func (s *Service) stamp() time.Time {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()

	t := s.now().Truncate(time.Millisecond)
	if !t.After(s.last) {
		t = s.last.Add(time.Millisecond)
	}
	s.last = t
	return t
}
