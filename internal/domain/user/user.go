// Package user provides user domain models and behaviors.
package user

import (
	"context"
	"errors"
	"time"
)

// DefaultRole is assigned to users created from a plain bearer token.
const DefaultRole = "user"

// User models an application user resolved from an external identity provider.
type User struct {
	ID        uint
	Issuer    string
	Subject   string
	Email     *string
	Name      *string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity encapsulates the externally provided identity attributes.
type Identity struct {
	Issuer  string
	Subject string
	Email   *string
	Name    *string
	Role    string
}

// Repository defines storage operations for users.
type Repository interface {
	FindByIssuerAndSubject(ctx context.Context, issuer, subject string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	Upsert(ctx context.Context, user *User) (*User, error)
}

// ErrInvalidIdentity indicates missing issuer or subject on the identity payload.
var ErrInvalidIdentity = errors.New("invalid identity: issuer and subject are required")

// Service persists and resolves users from external identities.
type Service struct {
	repo Repository
}

// NewService constructs a Service with required dependencies.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// EnsureUser persists the given identity and returns the internal user
// record. The underlying upsert is keyed on issuer+subject, so verifying the
// same token repeatedly always resolves to the same row.
func (s *Service) EnsureUser(ctx context.Context, identity Identity) (*User, error) {
	if identity.Issuer == "" || identity.Subject == "" {
		return nil, ErrInvalidIdentity
	}

	role := identity.Role
	if role == "" {
		role = DefaultRole
	}

	user := &User{
		Issuer:  identity.Issuer,
		Subject: identity.Subject,
		Email:   identity.Email,
		Name:    identity.Name,
		Role:    role,
	}

	return s.repo.Upsert(ctx, user)
}

// FindByID resolves a user by internal id.
func (s *Service) FindByID(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}
