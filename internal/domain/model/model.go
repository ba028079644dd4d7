// Package model provides the read side of the model catalog and resolves
// client-supplied model ids into provider-routable targets.
package model

import (
	"context"
	"time"
)

// Model is one catalog entry. The catalog is owned by the admin surface;
// this core treats it as read-only.
type Model struct {
	ID              uint
	PublicID        string
	DisplayName     string
	ProviderModelID string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Filter narrows catalog lookups.
type Filter struct {
	PublicID *string
	IsActive *bool
}

// Repository defines storage operations for catalog entries. Upsert exists
// for startup seeding; the request path never writes the catalog.
type Repository interface {
	FindByPublicID(ctx context.Context, publicID string) (*Model, error)
	FindByFilter(ctx context.Context, filter Filter) ([]*Model, error)
	Upsert(ctx context.Context, model *Model) (*Model, error)
}
