package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaybase/chat-api/internal/utils/crypto"
	"github.com/relaybase/chat-api/internal/utils/platformerrors"
)

type stubModelRepo struct {
	models map[string]*Model
}

func (r *stubModelRepo) FindByPublicID(_ context.Context, publicID string) (*Model, error) {
	return r.models[publicID], nil
}

func (r *stubModelRepo) FindByFilter(_ context.Context, filter Filter) ([]*Model, error) {
	var out []*Model
	for _, m := range r.models {
		if filter.IsActive != nil && m.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *stubModelRepo) Upsert(_ context.Context, m *Model) (*Model, error) {
	r.models[m.PublicID] = m
	return m, nil
}

type stubSettingRepo struct {
	values map[string]string
}

func (r *stubSettingRepo) Get(_ context.Context, key string) (string, error) {
	return r.values[key], nil
}

func (r *stubSettingRepo) Set(_ context.Context, key, value string) error {
	r.values[key] = value
	return nil
}

func newStubRepos() (*stubModelRepo, *stubSettingRepo) {
	return &stubModelRepo{models: map[string]*Model{
		"gpt-test": {ID: 1, PublicID: "gpt-test", DisplayName: "GPT Test", ProviderModelID: "vendor/gpt-test", IsActive: true},
		"retired":  {ID: 2, PublicID: "retired", DisplayName: "Retired", ProviderModelID: "vendor/retired", IsActive: false},
	}}, &stubSettingRepo{values: map[string]string{}}
}

func TestResolvePrefersStoredCredential(t *testing.T) {
	repo, settings := newStubRepos()
	settings.values["provider_api_key"] = "sk-stored"

	resolver := NewResolver(repo, settings, "sk-fallback", "")
	resolved, err := resolver.Resolve(context.Background(), "gpt-test")

	require.NoError(t, err)
	assert.Equal(t, "sk-stored", resolved.APIKey)
	assert.Equal(t, "vendor/gpt-test", resolved.ProviderModelID)
}

func TestResolveDecryptsStoredCredential(t *testing.T) {
	repo, settings := newStubRepos()

	secret := "unit-test-credential-secret"
	encrypted, err := crypto.EncryptString(secret, "sk-encrypted")
	require.NoError(t, err)
	settings.values["provider_api_key"] = encrypted

	resolver := NewResolver(repo, settings, "sk-fallback", secret)
	resolved, err := resolver.Resolve(context.Background(), "gpt-test")

	require.NoError(t, err)
	assert.Equal(t, "sk-encrypted", resolved.APIKey)
}

func TestResolveRejectsUndecryptableCredential(t *testing.T) {
	repo, settings := newStubRepos()
	settings.values["provider_api_key"] = "not-a-ciphertext"

	resolver := NewResolver(repo, settings, "sk-fallback", "unit-test-credential-secret")
	_, err := resolver.Resolve(context.Background(), "gpt-test")

	require.Error(t, err)
	var perr *platformerrors.PlatformError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, platformerrors.ErrorTypeInternal, perr.Type)
}

func TestResolveFallsBackToEnvironmentCredential(t *testing.T) {
	repo, settings := newStubRepos()

	resolver := NewResolver(repo, settings, "sk-fallback", "")
	resolved, err := resolver.Resolve(context.Background(), "gpt-test")

	require.NoError(t, err)
	assert.Equal(t, "sk-fallback", resolved.APIKey)
}

func TestResolveWithoutAnyCredentialFails(t *testing.T) {
	repo, settings := newStubRepos()

	resolver := NewResolver(repo, settings, "", "")
	_, err := resolver.Resolve(context.Background(), "gpt-test")

	require.Error(t, err)
	var perr *platformerrors.PlatformError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, platformerrors.ErrorTypeInternal, perr.Type)
}

func TestResolveUnknownModelIsNotFound(t *testing.T) {
	repo, settings := newStubRepos()

	resolver := NewResolver(repo, settings, "sk-fallback", "")
	_, err := resolver.Resolve(context.Background(), "no-such-model")

	require.Error(t, err)
	var perr *platformerrors.PlatformError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, platformerrors.ErrorTypeNotFound, perr.Type)
}

func TestResolveInactiveModelStillWorks(t *testing.T) {
	repo, settings := newStubRepos()

	resolver := NewResolver(repo, settings, "sk-fallback", "")
	resolved, err := resolver.Resolve(context.Background(), "retired")

	require.NoError(t, err)
	assert.False(t, resolved.Model.IsActive)
}

func TestListActiveHidesRetiredModels(t *testing.T) {
	repo, settings := newStubRepos()

	resolver := NewResolver(repo, settings, "sk-fallback", "")
	models, err := resolver.ListActive(context.Background())

	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "gpt-test", models[0].PublicID)
}
