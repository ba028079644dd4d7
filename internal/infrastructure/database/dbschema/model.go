package dbschema

import (
	"github.com/relaybase/chat-api/internal/domain/model"
	"github.com/relaybase/chat-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Model{})
}

// Model represents a catalog entry routable to the completion provider.
// The catalog is owned by the admin surface; the chat path only reads it.
type Model struct {
	BaseModel
	PublicID        string `gorm:"type:varchar(50);uniqueIndex;not null"`
	DisplayName     string `gorm:"type:varchar(255);not null"`
	ProviderModelID string `gorm:"type:varchar(255);not null"`
	IsActive        bool   `gorm:"not null;default:true"`
}

// NewSchemaModel creates a database schema from a domain model.
func NewSchemaModel(m *model.Model) *Model {
	if m == nil {
		return nil
	}

	return &Model{
		BaseModel: BaseModel{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		PublicID:        m.PublicID,
		DisplayName:     m.DisplayName,
		ProviderModelID: m.ProviderModelID,
		IsActive:        m.IsActive,
	}
}

// EtoD converts a schema model to the domain representation.
func (m *Model) EtoD() *model.Model {
	if m == nil {
		return nil
	}

	return &model.Model{
		ID:              m.ID,
		PublicID:        m.PublicID,
		DisplayName:     m.DisplayName,
		ProviderModelID: m.ProviderModelID,
		IsActive:        m.IsActive,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
