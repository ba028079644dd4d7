// Package session implements the conversation ledger: durable sessions and
// their append-only message log.
package session

import (
	"context"
	"time"
)

// MessageRole identifies who produced a message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Session is a durable conversation thread with exactly one owner. Ownership
// is fixed at creation. ModelID goes nil when the referenced catalog entry is
// deleted; the session and its messages survive.
type Session struct {
	ID        uint
	PublicID  string
	UserID    uint
	Title     *string
	ModelID   *uint
	Messages  []Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message is one turn in a session. Messages are append-only and ordered by
// creation time; the ordered sequence is the conversational context.
type Message struct {
	ID         uint
	PublicID   string
	SessionID  uint
	Role       MessageRole
	Content    string
	TokenCount int
	CreatedAt  time.Time
}

// Repository defines storage operations for sessions and their messages.
type Repository interface {
	Create(ctx context.Context, sess *Session) error
	FindByID(ctx context.Context, id uint) (*Session, error)
	FindByPublicID(ctx context.Context, publicID string) (*Session, error)
	FindByUserID(ctx context.Context, userID uint) ([]*Session, error)
	Touch(ctx context.Context, id uint, at time.Time) error
	Delete(ctx context.Context, id uint) error
	PurgeDeleted(ctx context.Context, before time.Time) (int64, error)

	AppendMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, sessionID uint) ([]Message, error)
}
