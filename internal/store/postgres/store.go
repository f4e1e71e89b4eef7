package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zhouzirui/hair-care-chat/backend/internal/model/chat"
	"github.com/zhouzirui/hair-care-chat/backend/internal/store"
)

// Config 描述 PostgreSQL 连接参数。
type Config struct {
	DSN           string
	RetryInterval time.Duration
}

// record 对应 chat_messages 表。
type record struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Type      string    `gorm:"size:8;not null"`
	Content   string    `gorm:"type:text;not null"`
	Timestamp time.Time `gorm:"not null;index"`
}

func (record) TableName() string {
	return "chat_messages"
}

// Store persists chat records in PostgreSQL through gorm.
type Store struct {
	cfg    Config
	logger *zap.Logger
	ready  atomic.Bool

	mu sync.RWMutex
	db *gorm.DB

	cancel context.CancelFunc
	done   chan struct{}
}

// Open returns immediately and connects in the background, retrying until it succeeds.
func Open(cfg Config, log *zap.Logger) *Store {
	s := newStore(cfg, log)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		if err := store.ConnectWithRetry(ctx, s.logger, "postgres", cfg.RetryInterval, s.connect); err != nil {
			s.logger.Info("postgres connect loop stopped", zap.Error(err))
		}
	}()
	return s
}

func newStore(cfg Config, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	done := make(chan struct{})
	close(done)
	return &Store{cfg: cfg, logger: log.Named("postgres"), cancel: func() {}, done: done}
}

func (s *Store) connect(ctx context.Context) error {
	db, err := gorm.Open(postgres.Open(s.cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&record{}); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}

	s.mu.Lock()
	s.db = db
	s.mu.Unlock()
	s.ready.Store(true)
	return nil
}

func (s *Store) conn() (*gorm.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, store.ErrUnavailable
	}
	return s.db, nil
}

// Append implements store.Store.
func (s *Store) Append(ctx context.Context, msg chat.Message) error {
	if err := store.Validate(msg); err != nil {
		return err
	}
	db, err := s.conn()
	if err != nil {
		return err
	}

	rec := toRecord(msg)
	if err := db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

// Recent implements store.Store.
func (s *Store) Recent(ctx context.Context, limit int) ([]chat.Message, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	var records []record
	err = db.WithContext(ctx).
		Order("timestamp DESC").
		Order("id DESC").
		Limit(store.ClampLimit(limit)).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("query chat history: %w", err)
	}

	messages := make([]chat.Message, 0, len(records))
	for _, rec := range records {
		messages = append(messages, fromRecord(rec))
	}
	return messages, nil
}

// Status implements store.Store.
func (s *Store) Status() store.Status {
	db, err := s.conn()
	if err != nil {
		if s.ready.Load() {
			return store.StatusDisconnected
		}
		return store.StatusConnecting
	}

	sqlDB, err := db.DB()
	if err != nil {
		return store.StatusDisconnected
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return store.StatusDisconnected
	}
	return store.StatusConnected
}

// Close stops the connect loop, waits for it to exit and closes the pool.
func (s *Store) Close(ctx context.Context) error {
	s.cancel()

	var waitErr error
	select {
	case <-s.done:
	case <-ctx.Done():
		waitErr = fmt.Errorf("waiting for postgres connect loop: %w", ctx.Err())
	}

	s.mu.Lock()
	db := s.db
	s.db = nil
	s.mu.Unlock()

	if db == nil {
		return waitErr
	}
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Join(waitErr, err)
	}
	return errors.Join(waitErr, sqlDB.Close())
}

func toRecord(msg chat.Message) record {
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return record{Type: string(msg.Type), Content: msg.Content, Timestamp: ts}
}

func fromRecord(rec record) chat.Message {
	return chat.Message{
		ID:        strconv.FormatUint(rec.ID, 10),
		Type:      chat.Type(rec.Type),
		Content:   rec.Content,
		Timestamp: rec.Timestamp.UTC(),
	}
}
