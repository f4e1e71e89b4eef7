package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/hair-care-chat/backend/internal/model/chat"
	"github.com/zhouzirui/hair-care-chat/backend/internal/store"
)

// Store keeps chat records in process memory; suitable for tests and local runs.
type Store struct {
	mu       sync.RWMutex
	messages []chat.Message
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{messages: make([]chat.Message, 0, 64)}
}

// Append implements store.Store.
func (s *Store) Append(_ context.Context, msg chat.Message) error {
	if err := store.Validate(msg); err != nil {
		return err
	}

	msg.ID = uuid.NewString()
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	return nil
}

// Recent implements store.Store.
func (s *Store) Recent(_ context.Context, limit int) ([]chat.Message, error) {
	limit = store.ClampLimit(limit)

	s.mu.RLock()
	copied := make([]chat.Message, len(s.messages))
	copy(copied, s.messages)
	s.mu.RUnlock()

	// 同一时间戳下后写入的记录排在前面。
	slices.Reverse(copied)
	slices.SortStableFunc(copied, func(a, b chat.Message) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	if len(copied) > limit {
		copied = copied[:limit]
	}
	return copied, nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Status implements store.Store.
func (s *Store) Status() store.Status {
	return store.StatusConnected
}

// Close implements store.Store.
func (s *Store) Close(context.Context) error {
	return nil
}
