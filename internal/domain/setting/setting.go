// Package setting exposes the operator-managed key/value settings store. The
// chat path only reads it; writes belong to the admin surface.
package setting

import (
	"context"
	"time"
)

// Well-known setting keys.
const (
	KeyProviderAPIKey = "provider_api_key"
)

// Setting is one operator-managed configuration row.
type Setting struct {
	ID        uint
	Key       string
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository defines storage operations for settings.
type Repository interface {
	// Get returns the value for key, or "" when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
