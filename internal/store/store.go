package store

import (
	"context"
	"errors"

	"github.com/zhouzirui/hair-care-chat/backend/internal/model/chat"
)

// MaxRecent 是一次历史查询返回的最大记录数。
const MaxRecent = 50

var (
	// ErrUnavailable 表示存储尚未建立连接。
	ErrUnavailable = errors.New("chat store unavailable")
	// ErrInvalidMessage 表示记录缺少类型或内容。
	ErrInvalidMessage = errors.New("invalid chat message")
)

// Status 描述存储连接状态。
type Status string

const (
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
)

// Store 是只追加的聊天记录存储。
type Store interface {
	// Append writes one immutable record.
	Append(ctx context.Context, msg chat.Message) error
	// Recent returns up to limit records ordered newest-first.
	Recent(ctx context.Context, limit int) ([]chat.Message, error)
	Status() Status
	Close(ctx context.Context) error
}

// ClampLimit bounds a requested history size to 1..MaxRecent.
func ClampLimit(limit int) int {
	if limit <= 0 || limit > MaxRecent {
		return MaxRecent
	}
	return limit
}

// Validate checks the invariants every stored record must satisfy.
func Validate(msg chat.Message) error {
	if !msg.Type.Valid() {
		return errors.Join(ErrInvalidMessage, errors.New("unknown message type "+string(msg.Type)))
	}
	if msg.Content == "" {
		return errors.Join(ErrInvalidMessage, errors.New("empty content"))
	}
	return nil
}
