package dbschema

import (
	"github.com/relaybase/chat-api/internal/domain/usage"
	"github.com/relaybase/chat-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(TokenUsage{})
}

// TokenUsage is one completion's token spend, insert-only.
type TokenUsage struct {
	BaseModel
	UserID           uint  `gorm:"index;not null"`
	SessionID        *uint `gorm:"index"`
	Model            string `gorm:"type:varchar(255);index;not null"`
	PromptTokens     int    `gorm:"not null;default:0"`
	CompletionTokens int    `gorm:"not null;default:0"`
	TotalTokens      int    `gorm:"not null;default:0"`
}

// NewSchemaTokenUsage creates a database schema row from a domain record.
func NewSchemaTokenUsage(r *usage.Record) *TokenUsage {
	if r == nil {
		return nil
	}

	return &TokenUsage{
		BaseModel: BaseModel{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
		},
		UserID:           r.UserID,
		SessionID:        r.SessionID,
		Model:            r.Model,
		PromptTokens:     r.PromptTokens,
		CompletionTokens: r.CompletionTokens,
		TotalTokens:      r.TotalTokens,
	}
}

// EtoD converts a schema row to the domain representation.
func (t *TokenUsage) EtoD() *usage.Record {
	if t == nil {
		return nil
	}

	return &usage.Record{
		ID:               t.ID,
		UserID:           t.UserID,
		SessionID:        t.SessionID,
		Model:            t.Model,
		PromptTokens:     t.PromptTokens,
		CompletionTokens: t.CompletionTokens,
		TotalTokens:      t.TotalTokens,
		CreatedAt:        t.CreatedAt,
	}
}
