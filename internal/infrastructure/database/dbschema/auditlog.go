package dbschema

import (
	"github.com/relaybase/chat-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(AuditLog{})
}

// AuditLog is one recorded destructive action. Rows are insert-only.
type AuditLog struct {
	BaseModel
	Subject      string `gorm:"type:varchar(255);index;not null"`
	Email        string `gorm:"type:varchar(255)"`
	Action       string `gorm:"type:varchar(100);index;not null"`
	ResourceType string `gorm:"type:varchar(100)"`
	ResourceID   string `gorm:"type:varchar(64)"`
	RequestID    string `gorm:"type:varchar(64)"`
	IPAddress    string `gorm:"type:varchar(64)"`
	UserAgent    string `gorm:"type:varchar(512)"`
	StatusCode   int
	ErrorMessage string `gorm:"type:text"`
}
