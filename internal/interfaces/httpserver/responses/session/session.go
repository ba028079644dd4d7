package sessionresponses

import (
	"time"

	"github.com/relaybase/chat-api/internal/domain/session"
	"github.com/relaybase/chat-api/internal/utils/functional"
)

// SessionSummary is one entry in the session list.
type SessionSummary struct {
	ID        string    `json:"id"`
	Title     *string   `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionDetail is a session with its full message history, oldest first.
type SessionDetail struct {
	SessionSummary
	Messages []MessageResponse `json:"messages"`
}

// MessageResponse is one stored turn.
type MessageResponse struct {
	ID         string    `json:"id"`
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	TokenCount int       `json:"token_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewSessionSummary converts a domain session to its list representation.
func NewSessionSummary(sess *session.Session) SessionSummary {
	return SessionSummary{
		ID:        sess.PublicID,
		Title:     sess.Title,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
}

// NewSessionDetail converts a domain session and its messages to the detail
// representation.
func NewSessionDetail(sess *session.Session, messages []session.Message) SessionDetail {
	return SessionDetail{
		SessionSummary: NewSessionSummary(sess),
		Messages: functional.Map(messages, func(msg session.Message) MessageResponse {
			return MessageResponse{
				ID:         msg.PublicID,
				Role:       string(msg.Role),
				Content:    msg.Content,
				TokenCount: msg.TokenCount,
				CreatedAt:  msg.CreatedAt,
			}
		}),
	}
}
