package dbschema

import (
	"github.com/relaybase/chat-api/internal/domain/user"
	"github.com/relaybase/chat-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(User{})
}

// User represents the persisted user schema tied to an external identity provider.
type User struct {
	BaseModel
	Issuer  string  `gorm:"type:varchar(255);not null;uniqueIndex:ux_users_issuer_subject"`
	Subject string  `gorm:"type:varchar(255);not null;uniqueIndex:ux_users_issuer_subject"`
	Email   *string `gorm:"type:varchar(320)"`
	Name    *string `gorm:"type:varchar(255)"`
	Role    string  `gorm:"type:varchar(50);not null;default:'user'"`
}

// NewSchemaUser converts a domain user into a schema instance.
func NewSchemaUser(u *user.User) *User {
	if u == nil {
		return nil
	}

	return &User{
		BaseModel: BaseModel{
			ID:        u.ID,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		},
		Issuer:  u.Issuer,
		Subject: u.Subject,
		Email:   u.Email,
		Name:    u.Name,
		Role:    u.Role,
	}
}

// EtoD converts a schema user back to the domain representation.
func (u *User) EtoD() *user.User {
	if u == nil {
		return nil
	}

	return &user.User{
		ID:        u.ID,
		Issuer:    u.Issuer,
		Subject:   u.Subject,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
