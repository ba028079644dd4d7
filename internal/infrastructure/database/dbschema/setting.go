package dbschema

import (
	"github.com/relaybase/chat-api/internal/domain/setting"
	"github.com/relaybase/chat-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Setting{})
}

// Setting is a key/value row for operator-managed configuration such as the
// provider credential.
type Setting struct {
	BaseModel
	Key   string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Value string `gorm:"type:text;not null"`
}

// NewSchemaSetting creates a database schema from a domain setting.
func NewSchemaSetting(s *setting.Setting) *Setting {
	if s == nil {
		return nil
	}

	return &Setting{
		BaseModel: BaseModel{
			ID:        s.ID,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		},
		Key:   s.Key,
		Value: s.Value,
	}
}

// EtoD converts a schema setting to the domain representation.
func (s *Setting) EtoD() *setting.Setting {
	if s == nil {
		return nil
	}

	return &setting.Setting{
		ID:        s.ID,
		Key:       s.Key,
		Value:     s.Value,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
