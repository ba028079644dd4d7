package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaybase/chat-api/internal/utils/platformerrors"
)

type memoryRepo struct {
	sessions   map[uint]*Session
	messages   map[uint][]Message
	nextSessID uint
	nextMsgID  uint
	purgedWith time.Time
	touchErr   error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		sessions:   map[uint]*Session{},
		messages:   map[uint][]Message{},
		nextSessID: 1,
		nextMsgID:  1,
	}
}

func (r *memoryRepo) Create(_ context.Context, sess *Session) error {
	sess.ID = r.nextSessID
	r.nextSessID++
	now := time.Now()
	sess.CreatedAt = now
	sess.UpdatedAt = now
	stored := *sess
	r.sessions[sess.ID] = &stored
	return nil
}

func (r *memoryRepo) FindByID(_ context.Context, id uint) (*Session, error) {
	return r.sessions[id], nil
}

func (r *memoryRepo) FindByPublicID(_ context.Context, publicID string) (*Session, error) {
	for _, sess := range r.sessions {
		if sess.PublicID == publicID {
			return sess, nil
		}
	}
	return nil, nil
}

func (r *memoryRepo) FindByUserID(_ context.Context, userID uint) ([]*Session, error) {
	var out []*Session
	for _, sess := range r.sessions {
		if sess.UserID == userID {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (r *memoryRepo) Touch(_ context.Context, id uint, at time.Time) error {
	if r.touchErr != nil {
		return r.touchErr
	}
	if sess, ok := r.sessions[id]; ok {
		sess.UpdatedAt = at
	}
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id uint) error {
	delete(r.sessions, id)
	delete(r.messages, id)
	return nil
}

func (r *memoryRepo) PurgeDeleted(_ context.Context, before time.Time) (int64, error) {
	r.purgedWith = before
	return 3, nil
}

func (r *memoryRepo) AppendMessage(_ context.Context, msg *Message) error {
	msg.ID = r.nextMsgID
	r.nextMsgID++
	msg.CreatedAt = time.Now()
	r.messages[msg.SessionID] = append(r.messages[msg.SessionID], *msg)
	return nil
}

func (r *memoryRepo) ListMessages(_ context.Context, sessionID uint) ([]Message, error) {
	return r.messages[sessionID], nil
}

func TestEnsureSessionCreatesLazily(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	modelID := uint(7)
	sess, err := svc.EnsureSession(context.Background(), 1, nil, "How do I brew a decent espresso at home?", &modelID)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sess.PublicID, "sess_"))
	require.NotNil(t, sess.Title)
	assert.Equal(t, "How do I brew a decent espresso at home", *sess.Title)
	require.NotNil(t, sess.ModelID)
	assert.Equal(t, uint(7), *sess.ModelID)
	assert.Len(t, repo.sessions, 1)
}

func TestEnsureSessionEllipsizesLongTitle(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	seed := strings.Repeat("long message ", 20)
	sess, err := svc.EnsureSession(context.Background(), 1, nil, seed, nil)

	require.NoError(t, err)
	require.NotNil(t, sess.Title)
	assert.LessOrEqual(t, len(*sess.Title), 53)
	assert.True(t, strings.HasSuffix(*sess.Title, "..."))
}

func TestEnsureSessionReusesExisting(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	created, err := svc.EnsureSession(context.Background(), 1, nil, "first", nil)
	require.NoError(t, err)

	reused, err := svc.EnsureSession(context.Background(), 1, &created.PublicID, "second", nil)
	require.NoError(t, err)
	assert.Equal(t, created.ID, reused.ID)
	assert.Len(t, repo.sessions, 1)
}

func TestGetOwnedSessionRejectsForeignOwner(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	created, err := svc.EnsureSession(context.Background(), 1, nil, "mine", nil)
	require.NoError(t, err)

	_, err = svc.GetOwnedSession(context.Background(), 2, created.PublicID)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))
}

func TestGetOwnedSessionRejectsMalformedID(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	_, err := svc.GetOwnedSession(context.Background(), 1, "msg_0123456789abcdef")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestGetOwnedSessionUnknownIDIsNotFound(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	_, err := svc.GetOwnedSession(context.Background(), 1, "sess_0123456789abcdef")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestAppendMessageTouchesSession(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	sess, err := svc.EnsureSession(context.Background(), 1, nil, "hello", nil)
	require.NoError(t, err)

	msg, err := svc.AppendMessage(context.Background(), sess.ID, RoleUser, "hello", 1)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(msg.PublicID, "msg_"))
	assert.Equal(t, msg.CreatedAt, repo.sessions[sess.ID].UpdatedAt)
}

func TestAppendMessageSurvivesTouchFailure(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	sess, err := svc.EnsureSession(context.Background(), 1, nil, "hello", nil)
	require.NoError(t, err)

	repo.touchErr = errors.New("deadlock detected")
	msg, err := svc.AppendMessage(context.Background(), sess.ID, RoleUser, "hello", 1)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Len(t, repo.messages[sess.ID], 1)
}

func TestDeleteOwnedSessionRemovesMessages(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	sess, err := svc.EnsureSession(context.Background(), 1, nil, "doomed", nil)
	require.NoError(t, err)
	_, err = svc.AppendMessage(context.Background(), sess.ID, RoleUser, "doomed", 1)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOwnedSession(context.Background(), 1, sess.PublicID))
	assert.Empty(t, repo.sessions)
	assert.Empty(t, repo.messages)
}

func TestPurgeDeletedComputesCutoff(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	purged, err := svc.PurgeDeleted(context.Background(), 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3), purged)
	assert.WithinDuration(t, time.Now().Add(-30*24*time.Hour), repo.purgedWith, 5*time.Second)
}