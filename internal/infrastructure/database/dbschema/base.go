// Package dbschema declares the persisted table layouts and their converters
// to and from the domain types.
package dbschema

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel is embedded by every schema struct.
type BaseModel struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
