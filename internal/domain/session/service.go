package session

import (
	"context"
	"time"

	"github.com/relaybase/chat-api/internal/infrastructure/logger"
	"github.com/relaybase/chat-api/internal/utils/idgen"
	"github.com/relaybase/chat-api/internal/utils/platformerrors"
	"github.com/relaybase/chat-api/internal/utils/stringutils"
)

// Service is the session ledger. Writes for a single request are issued
// sequentially: create session (if needed), append the user turn, then append
// the assistant turn only after the provider call succeeded. A provider
// failure leaves the user turn persisted with no paired reply.
type Service struct {
	repo Repository
}

// NewService constructs a Service with required dependencies.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// EnsureSession returns the session identified by publicID after verifying
// ownership, or lazily creates a new one when publicID is nil. The title of a
// new session derives from the first user message.
func (s *Service) EnsureSession(ctx context.Context, ownerID uint, publicID *string, seedMessage string, modelID *uint) (*Session, error) {
	if publicID != nil && *publicID != "" {
		return s.GetOwnedSession(ctx, ownerID, *publicID)
	}

	id, err := idgen.GenerateSecureID("sess", 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate session ID")
	}

	sess := &Session{
		PublicID: id,
		UserID:   ownerID,
		ModelID:  modelID,
	}
	if title := stringutils.DeriveSessionTitle(seedMessage); title != "" {
		sess.Title = &title
	}

	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create session")
	}

	return sess, nil
}

// GetOwnedSession loads a session by public id and verifies the caller owns
// it. A session owned by someone else reports forbidden, not not-found, so
// the handler can answer 403.
func (s *Service) GetOwnedSession(ctx context.Context, ownerID uint, publicID string) (*Session, error) {
	if !idgen.ValidateIDFormat(publicID, "sess") {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"invalid session ID", nil, "c2f3b7e8-6a31-4f82-bd9a-7e4c1d2f8b93")
	}

	sess, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load session")
	}
	if sess == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"session not found", nil, "5b8f2c1d-9e47-4a63-8f21-0c3d5e7a9b14")
	}
	if sess.UserID != ownerID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden,
			"session not owned by caller", nil, "e7a1d4f2-3c58-49b6-a0e9-8d2f6b4c1a75")
	}

	return sess, nil
}

// AppendMessage appends one turn to a session and touches the session's
// updated_at. Prior messages are never mutated.
func (s *Service) AppendMessage(ctx context.Context, sessionID uint, role MessageRole, content string, tokenCount int) (*Message, error) {
	id, err := idgen.GenerateSecureID("msg", 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate message ID")
	}

	msg := &Message{
		PublicID:   id,
		SessionID:  sessionID,
		Role:       role,
		Content:    content,
		TokenCount: tokenCount,
	}

	if err := s.repo.AppendMessage(ctx, msg); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to append message")
	}

	if err := s.repo.Touch(ctx, sessionID, msg.CreatedAt); err != nil {
		// The append itself succeeded; a stale updated_at only skews list order.
		log := logger.GetLogger()
		log.Warn().
			Err(err).
			Uint("session_id", sessionID).
			Msg("failed to touch session timestamp")
	}

	return msg, nil
}

// History returns every message of a session oldest-first. It is rebuilt from
// storage on each call so the context always reflects durable state.
func (s *Service) History(ctx context.Context, sessionID uint) ([]Message, error) {
	messages, err := s.repo.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load messages")
	}
	return messages, nil
}

// ListByOwner returns the caller's sessions, most recently updated first.
func (s *Service) ListByOwner(ctx context.Context, ownerID uint) ([]*Session, error) {
	sessions, err := s.repo.FindByUserID(ctx, ownerID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list sessions")
	}
	return sessions, nil
}

// DeleteOwnedSession removes a session and all its messages after verifying
// ownership.
func (s *Service) DeleteOwnedSession(ctx context.Context, ownerID uint, publicID string) error {
	sess, err := s.GetOwnedSession(ctx, ownerID, publicID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, sess.ID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete session")
	}
	return nil
}

// PurgeDeleted hard-deletes sessions soft-deleted before the retention
// cutoff. Returns the number of purged sessions.
func (s *Service) PurgeDeleted(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	purged, err := s.repo.PurgeDeleted(ctx, cutoff)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to purge sessions")
	}
	return purged, nil
}
