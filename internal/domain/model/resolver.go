package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/relaybase/chat-api/internal/domain/setting"
	"github.com/relaybase/chat-api/internal/utils/crypto"
	"github.com/relaybase/chat-api/internal/utils/platformerrors"
)

// ResolvedModel is a catalog entry paired with the credential needed to
// invoke it.
type ResolvedModel struct {
	Model           *Model
	ProviderModelID string
	APIKey          string
}

// Resolver maps client model ids to provider-routable model strings and the
// system-wide provider credential.
type Resolver struct {
	repo             Repository
	settings         setting.Repository
	fallbackKey      string
	credentialSecret string
}

// NewResolver constructs a Resolver. fallbackKey is the environment-supplied
// credential used when the settings store carries none. credentialSecret,
// when set, is the AES key used to decrypt the credential stored in settings.
func NewResolver(repo Repository, settings setting.Repository, fallbackKey, credentialSecret string) *Resolver {
	return &Resolver{
		repo:             repo,
		settings:         settings,
		fallbackKey:      fallbackKey,
		credentialSecret: credentialSecret,
	}
}

// Resolve looks up the catalog entry for publicID and the provider
// credential. Inactive models still resolve: sessions that already use a
// deactivated model keep working, the catalog flag only gates new listings.
func (r *Resolver) Resolve(ctx context.Context, publicID string) (*ResolvedModel, error) {
	entry, err := r.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("model not found: %s", publicID), err, "4a0de9fb-8f07-4c2a-9df3-6f1b1f7a9a31")
	}
	if entry == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("model not found: %s", publicID), nil, "0d93f64d-36ec-47f7-8f2c-2d7ed0c2fb5c")
	}

	apiKey, err := r.settings.Get(ctx, setting.KeyProviderAPIKey)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to read provider credential")
	}
	if apiKey != "" && r.credentialSecret != "" {
		apiKey, err = crypto.DecryptString(r.credentialSecret, apiKey)
		if err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
				"failed to decrypt provider credential", err, "c1e7b2a9-5d34-4f08-9b61-3e8a0d7c4f52")
		}
	}
	if strings.TrimSpace(apiKey) == "" {
		apiKey = r.fallbackKey
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"provider credential not configured", nil, "8f4f9a2e-41f7-4ab5-b0ce-6d21b5e7f18d")
	}

	return &ResolvedModel{
		Model:           entry,
		ProviderModelID: entry.ProviderModelID,
		APIKey:          apiKey,
	}, nil
}

// ListActive returns the catalog entries exposed to clients.
func (r *Resolver) ListActive(ctx context.Context) ([]*Model, error) {
	active := true
	models, err := r.repo.FindByFilter(ctx, Filter{IsActive: &active})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list models")
	}
	return models, nil
}
