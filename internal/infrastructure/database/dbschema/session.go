package dbschema

import (
	"github.com/relaybase/chat-api/internal/domain/session"
	"github.com/relaybase/chat-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Session{})
	database.RegisterSchemaForAutoMigrate(Message{})
}

// Session represents a durable conversation thread owned by exactly one user.
// ModelID is nullable and set to NULL when the referenced catalog entry is
// removed; the session itself survives model deletion.
type Session struct {
	BaseModel
	PublicID string  `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID   uint    `gorm:"index:idx_sessions_user_updated;not null"`
	User     User    `gorm:"foreignKey:UserID"`
	Title    *string `gorm:"type:varchar(256)"`
	ModelID  *uint   `gorm:"index"`
	Model    *Model  `gorm:"foreignKey:ModelID;constraint:OnDelete:SET NULL"`

	Messages []Message `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

// Message is one turn within a session. Rows are append-only and ordered by
// creation time.
type Message struct {
	BaseModel
	PublicID   string              `gorm:"type:varchar(50);uniqueIndex;not null"`
	SessionID  uint                `gorm:"index:idx_messages_session_created;not null"`
	Session    Session             `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	Role       session.MessageRole `gorm:"type:varchar(20);not null"`
	Content    string              `gorm:"type:text;not null"`
	TokenCount int                 `gorm:"not null;default:0"`
}

// NewSchemaSession creates a database schema from a domain session.
func NewSchemaSession(s *session.Session) *Session {
	if s == nil {
		return nil
	}

	return &Session{
		BaseModel: BaseModel{
			ID:        s.ID,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		},
		PublicID: s.PublicID,
		UserID:   s.UserID,
		Title:    s.Title,
		ModelID:  s.ModelID,
	}
}

// EtoD converts a schema session to the domain representation, including any
// preloaded messages in creation order.
func (s *Session) EtoD() *session.Session {
	if s == nil {
		return nil
	}

	out := &session.Session{
		ID:        s.ID,
		PublicID:  s.PublicID,
		UserID:    s.UserID,
		Title:     s.Title,
		ModelID:   s.ModelID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}

	if len(s.Messages) > 0 {
		out.Messages = make([]session.Message, 0, len(s.Messages))
		for i := range s.Messages {
			out.Messages = append(out.Messages, *s.Messages[i].EtoD())
		}
	}

	return out
}

// NewSchemaMessage creates a database schema from a domain message.
func NewSchemaMessage(m *session.Message) *Message {
	if m == nil {
		return nil
	}

	return &Message{
		BaseModel: BaseModel{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
		},
		PublicID:   m.PublicID,
		SessionID:  m.SessionID,
		Role:       m.Role,
		Content:    m.Content,
		TokenCount: m.TokenCount,
	}
}

// EtoD converts a schema message to the domain representation.
func (m *Message) EtoD() *session.Message {
	if m == nil {
		return nil
	}

	return &session.Message{
		ID:         m.ID,
		PublicID:   m.PublicID,
		SessionID:  m.SessionID,
		Role:       m.Role,
		Content:    m.Content,
		TokenCount: m.TokenCount,
		CreatedAt:  m.CreatedAt,
	}
}
