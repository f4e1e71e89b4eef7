package chat

import "time"

// Type 标识消息的发送方。
type Type string

const (
	TypeUser Type = "user"
	TypeBot  Type = "bot"
)

// Valid reports whether t is one of the known sender types.
func (t Type) Valid() bool {
	return t == TypeUser || t == TypeBot
}

// Message persists individual turns; records are immutable once written.
type Message struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
