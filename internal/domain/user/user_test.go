package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUserRepo struct {
	nextID uint
	users  map[string]*User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*User)}
}

func userKey(issuer, subject string) string {
	return issuer + "|" + subject
}

func (r *memoryUserRepo) FindByIssuerAndSubject(_ context.Context, issuer, subject string) (*User, error) {
	if u, ok := r.users[userKey(issuer, subject)]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (r *memoryUserRepo) FindByID(_ context.Context, id uint) (*User, error) {
	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) Upsert(_ context.Context, user *User) (*User, error) {
	key := userKey(user.Issuer, user.Subject)
	if existing, ok := r.users[key]; ok {
		existing.Email = user.Email
		existing.Name = user.Name
		existing.Role = user.Role
		copied := *existing
		return &copied, nil
	}

	r.nextID++
	stored := *user
	stored.ID = r.nextID
	r.users[key] = &stored
	copied := stored
	return &copied, nil
}

func TestEnsureUserIsIdempotentPerIdentity(t *testing.T) {
	repo := newMemoryUserRepo()
	service := NewService(repo)
	ctx := context.Background()

	email := "ada@example.com"
	identity := Identity{Issuer: "https://idp.example.com", Subject: "user-123", Email: &email}

	first, err := service.EnsureUser(ctx, identity)
	require.NoError(t, err)

	second, err := service.EnsureUser(ctx, identity)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.users, 1)
}

func TestEnsureUserDistinguishesSubjects(t *testing.T) {
	repo := newMemoryUserRepo()
	service := NewService(repo)
	ctx := context.Background()

	first, err := service.EnsureUser(ctx, Identity{Issuer: "https://idp.example.com", Subject: "user-123"})
	require.NoError(t, err)

	second, err := service.EnsureUser(ctx, Identity{Issuer: "https://idp.example.com", Subject: "user-456"})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, repo.users, 2)
}

func TestEnsureUserRefreshesProfileAttributes(t *testing.T) {
	repo := newMemoryUserRepo()
	service := NewService(repo)
	ctx := context.Background()

	identity := Identity{Issuer: "https://idp.example.com", Subject: "user-123"}
	first, err := service.EnsureUser(ctx, identity)
	require.NoError(t, err)
	assert.Nil(t, first.Email)

	email := "ada@example.com"
	identity.Email = &email
	second, err := service.EnsureUser(ctx, identity)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.Email)
	assert.Equal(t, email, *second.Email)
}

func TestEnsureUserDefaultsRole(t *testing.T) {
	repo := newMemoryUserRepo()
	service := NewService(repo)

	resolved, err := service.EnsureUser(context.Background(), Identity{Issuer: "https://idp.example.com", Subject: "user-123"})
	require.NoError(t, err)
	assert.Equal(t, DefaultRole, resolved.Role)
}

func TestEnsureUserRejectsIncompleteIdentity(t *testing.T) {
	service := NewService(newMemoryUserRepo())

	_, err := service.EnsureUser(context.Background(), Identity{Subject: "user-123"})
	assert.ErrorIs(t, err, ErrInvalidIdentity)

	_, err = service.EnsureUser(context.Background(), Identity{Issuer: "https://idp.example.com"})
	assert.ErrorIs(t, err, ErrInvalidIdentity)
}
