package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaybase/chat-api/internal/domain/model"
	"github.com/relaybase/chat-api/internal/domain/session"
	"github.com/relaybase/chat-api/internal/domain/usage"
	"github.com/relaybase/chat-api/internal/domain/user"
	"github.com/relaybase/chat-api/internal/utils/platformerrors"
)

type fakeUserRepo struct {
	users  map[string]*user.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*user.User{}, nextID: 1}
}

func (r *fakeUserRepo) key(issuer, subject string) string { return issuer + "|" + subject }

func (r *fakeUserRepo) FindByIssuerAndSubject(_ context.Context, issuer, subject string) (*user.User, error) {
	u, ok := r.users[r.key(issuer, subject)]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*user.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Upsert(_ context.Context, usr *user.User) (*user.User, error) {
	k := r.key(usr.Issuer, usr.Subject)
	if existing, ok := r.users[k]; ok {
		existing.Email = usr.Email
		existing.Name = usr.Name
		return existing, nil
	}
	stored := *usr
	stored.ID = r.nextID
	r.nextID++
	r.users[k] = &stored
	return &stored, nil
}

type fakeModelRepo struct {
	models []*model.Model
}

func (r *fakeModelRepo) FindByPublicID(_ context.Context, publicID string) (*model.Model, error) {
	for _, m := range r.models {
		if m.PublicID == publicID {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeModelRepo) FindByFilter(_ context.Context, filter model.Filter) ([]*model.Model, error) {
	var out []*model.Model
	for _, m := range r.models {
		if filter.PublicID != nil && m.PublicID != *filter.PublicID {
			continue
		}
		if filter.IsActive != nil && m.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeModelRepo) Upsert(_ context.Context, m *model.Model) (*model.Model, error) {
	for i, existing := range r.models {
		if existing.PublicID == m.PublicID {
			r.models[i] = m
			return m, nil
		}
	}
	r.models = append(r.models, m)
	return m, nil
}

type fakeSettingRepo struct {
	values map[string]string
}

func (r *fakeSettingRepo) Get(_ context.Context, key string) (string, error) {
	return r.values[key], nil
}

func (r *fakeSettingRepo) Set(_ context.Context, key, value string) error {
	if r.values == nil {
		r.values = map[string]string{}
	}
	r.values[key] = value
	return nil
}

type fakeSessionRepo struct {
	sessions    map[uint]*session.Session
	messages    map[uint][]session.Message
	nextSessID  uint
	nextMsgID   uint
	failAppends bool
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions:   map[uint]*session.Session{},
		messages:   map[uint][]session.Message{},
		nextSessID: 1,
		nextMsgID:  1,
	}
}

func (r *fakeSessionRepo) Create(_ context.Context, sess *session.Session) error {
	sess.ID = r.nextSessID
	r.nextSessID++
	now := time.Now()
	sess.CreatedAt = now
	sess.UpdatedAt = now
	stored := *sess
	r.sessions[sess.ID] = &stored
	return nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, id uint) (*session.Session, error) {
	sess, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	return sess, nil
}

func (r *fakeSessionRepo) FindByPublicID(_ context.Context, publicID string) (*session.Session, error) {
	for _, sess := range r.sessions {
		if sess.PublicID == publicID {
			return sess, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindByUserID(_ context.Context, userID uint) ([]*session.Session, error) {
	var out []*session.Session
	for _, sess := range r.sessions {
		if sess.UserID == userID {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) Touch(_ context.Context, id uint, at time.Time) error {
	if sess, ok := r.sessions[id]; ok {
		sess.UpdatedAt = at
	}
	return nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id uint) error {
	delete(r.sessions, id)
	delete(r.messages, id)
	return nil
}

func (r *fakeSessionRepo) PurgeDeleted(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeSessionRepo) AppendMessage(_ context.Context, msg *session.Message) error {
	if r.failAppends {
		return platformerrors.NewError(context.Background(), platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "append failed", nil, "00000000-0000-0000-0000-000000000000")
	}
	msg.ID = r.nextMsgID
	r.nextMsgID++
	msg.CreatedAt = time.Now()
	r.messages[msg.SessionID] = append(r.messages[msg.SessionID], *msg)
	return nil
}

func (r *fakeSessionRepo) ListMessages(_ context.Context, sessionID uint) ([]session.Message, error) {
	return r.messages[sessionID], nil
}

type fakeUsageRepo struct {
	records []*usage.Record
}

func (r *fakeUsageRepo) Record(_ context.Context, record *usage.Record) error {
	record.ID = uint(len(r.records) + 1)
	r.records = append(r.records, record)
	return nil
}

func (r *fakeUsageRepo) SummarizeByUser(_ context.Context, userID uint, _, _ time.Time) ([]usage.Summary, error) {
	byModel := map[string]*usage.Summary{}
	for _, record := range r.records {
		if record.UserID != userID {
			continue
		}
		s, ok := byModel[record.Model]
		if !ok {
			s = &usage.Summary{Model: record.Model}
			byModel[record.Model] = s
		}
		s.PromptTokens += int64(record.PromptTokens)
		s.CompletionTokens += int64(record.CompletionTokens)
		s.TotalTokens += int64(record.TotalTokens)
		s.Requests++
	}
	var out []usage.Summary
	for _, s := range byModel {
		out = append(out, *s)
	}
	return out, nil
}

type fakeCompleter struct {
	lastRequest *CompletionRequest
	result      *CompletionResult
	err         error
	calls       int
}

func (c *fakeCompleter) Complete(_ context.Context, req CompletionRequest) (*CompletionResult, error) {
	c.calls++
	c.lastRequest = &req
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

type orchestratorFixture struct {
	orchestrator *Orchestrator
	userRepo     *fakeUserRepo
	sessionRepo  *fakeSessionRepo
	usageRepo    *fakeUsageRepo
	completer    *fakeCompleter
}

func newFixture(t *testing.T) *orchestratorFixture {
	t.Helper()

	userRepo := newFakeUserRepo()
	sessionRepo := newFakeSessionRepo()
	modelRepo := &fakeModelRepo{models: []*model.Model{
		{ID: 1, PublicID: "gpt-test", DisplayName: "GPT Test", ProviderModelID: "vendor/gpt-test", IsActive: true},
		{ID: 2, PublicID: "legacy-model", DisplayName: "Legacy", ProviderModelID: "vendor/legacy", IsActive: false},
	}}
	settingRepo := &fakeSettingRepo{values: map[string]string{}}
	usageRepo := &fakeUsageRepo{}
	completer := &fakeCompleter{result: &CompletionResult{Content: "assistant reply", PromptTokens: 21, CompletionTokens: 9, TotalTokens: 30}}

	orchestrator := NewOrchestrator(
		user.NewService(userRepo),
		model.NewResolver(modelRepo, settingRepo, "sk-fallback", ""),
		session.NewService(sessionRepo),
		usage.NewService(usageRepo),
		completer,
		Options{ProviderTimeout: 5 * time.Second},
	)

	return &orchestratorFixture{
		orchestrator: orchestrator,
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		usageRepo:    usageRepo,
		completer:    completer,
	}
}

func testIdentity() *user.Identity {
	email := "ada@example.com"
	name := "Ada"
	return &user.Identity{
		Issuer:  "https://idp.example.com",
		Subject: "user-123",
		Email:   &email,
		Name:    &name,
	}
}

func TestSendGuestDoesNotPersist(t *testing.T) {
	f := newFixture(t)

	result, err := f.orchestrator.Send(context.Background(), SendInput{
		Message:       "hello from a guest",
		ModelPublicID: "gpt-test",
		GuestFlag:     true,
		Identity:      testIdentity(),
	})

	require.NoError(t, err)
	assert.Equal(t, "assistant reply", result.Content)
	assert.Equal(t, 30, result.TokenCount)
	assert.Nil(t, result.SessionPublicID)
	assert.Empty(t, f.sessionRepo.sessions)
	assert.Empty(t, f.sessionRepo.messages)
	assert.Empty(t, f.userRepo.users)
	assert.Empty(t, f.usageRepo.records)

	// the provider still sees the single-turn context
	require.NotNil(t, f.completer.lastRequest)
	require.Len(t, f.completer.lastRequest.Messages, 1)
	assert.Equal(t, "hello from a guest", f.completer.lastRequest.Messages[0].Content)
}

func TestSendWithoutIdentityIsGuest(t *testing.T) {
	f := newFixture(t)

	result, err := f.orchestrator.Send(context.Background(), SendInput{
		Message:       "anonymous hello",
		ModelPublicID: "gpt-test",
	})

	require.NoError(t, err)
	assert.Nil(t, result.SessionPublicID)
	assert.Empty(t, f.sessionRepo.sessions)
}

func TestSendCreatesSessionLazily(t *testing.T) {
	f := newFixture(t)

	result, err := f.orchestrator.Send(context.Background(), SendInput{
		Message:       "Explain how tides work in simple terms for a school project",
		ModelPublicID: "gpt-test",
		Identity:      testIdentity(),
	})

	require.NoError(t, err)
	require.NotNil(t, result.SessionPublicID)
	assert.True(t, strings.HasPrefix(*result.SessionPublicID, "sess_"))
	assert.Equal(t, 30, result.TokenCount)

	require.Len(t, f.sessionRepo.sessions, 1)
	var sess *session.Session
	for _, s := range f.sessionRepo.sessions {
		sess = s
	}
	require.NotNil(t, sess.Title)
	assert.LessOrEqual(t, len(*sess.Title), 53)

	messages := f.sessionRepo.messages[sess.ID]
	require.Len(t, messages, 2)
	assert.Equal(t, session.RoleUser, messages[0].Role)
	assert.Equal(t, "Explain how tides work in simple terms for a school project", messages[0].Content)
	assert.Equal(t, session.RoleAssistant, messages[1].Role)
	assert.Equal(t, "assistant reply", messages[1].Content)
	assert.Equal(t, 9, messages[1].TokenCount)

	// the completion was accounted against the owner
	require.Len(t, f.usageRepo.records, 1)
	record := f.usageRepo.records[0]
	assert.Equal(t, "gpt-test", record.Model)
	assert.Equal(t, 21, record.PromptTokens)
	assert.Equal(t, 9, record.CompletionTokens)
	assert.Equal(t, 30, record.TotalTokens)
}

func TestSendReusesExistingSessionAndAssemblesContext(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.orchestrator.Send(ctx, SendInput{
		Message:       "first question",
		ModelPublicID: "gpt-test",
		Identity:      testIdentity(),
	})
	require.NoError(t, err)
	require.NotNil(t, first.SessionPublicID)

	second, err := f.orchestrator.Send(ctx, SendInput{
		Message:         "follow-up question",
		ModelPublicID:   "gpt-test",
		SessionPublicID: first.SessionPublicID,
		Identity:        testIdentity(),
	})
	require.NoError(t, err)
	require.NotNil(t, second.SessionPublicID)
	assert.Equal(t, *first.SessionPublicID, *second.SessionPublicID)
	require.Len(t, f.sessionRepo.sessions, 1)

	// second call saw the two stored turns plus the new one, oldest first
	require.NotNil(t, f.completer.lastRequest)
	msgs := f.completer.lastRequest.Messages
	require.Len(t, msgs, 3)
	assert.Equal(t, "first question", msgs[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, msgs[0].Role)
	assert.Equal(t, "assistant reply", msgs[1].Content)
	assert.Equal(t, openai.ChatMessageRoleAssistant, msgs[1].Role)
	assert.Equal(t, "follow-up question", msgs[2].Content)
}

func TestSendProviderFailureKeepsUserMessage(t *testing.T) {
	f := newFixture(t)
	f.completer.err = platformerrors.NewError(context.Background(), platformerrors.LayerInfrastructure,
		platformerrors.ErrorTypeExternal, "provider unavailable", nil, "11111111-1111-1111-1111-111111111111")

	_, err := f.orchestrator.Send(context.Background(), SendInput{
		Message:       "this will fail",
		ModelPublicID: "gpt-test",
		Identity:      testIdentity(),
	})

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))

	// session and user turn survive, no assistant reply is stored
	require.Len(t, f.sessionRepo.sessions, 1)
	var sessID uint
	for id := range f.sessionRepo.sessions {
		sessID = id
	}
	messages := f.sessionRepo.messages[sessID]
	require.Len(t, messages, 1)
	assert.Equal(t, session.RoleUser, messages[0].Role)
	assert.Empty(t, f.usageRepo.records)
}

func TestSendUnknownModel(t *testing.T) {
	f := newFixture(t)

	_, err := f.orchestrator.Send(context.Background(), SendInput{
		Message:       "hello",
		ModelPublicID: "no-such-model",
		Identity:      testIdentity(),
	})

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
	assert.Zero(t, f.completer.calls)
}

func TestSendInactiveModelStillResolves(t *testing.T) {
	f := newFixture(t)

	result, err := f.orchestrator.Send(context.Background(), SendInput{
		Message:       "hello on a retired model",
		ModelPublicID: "legacy-model",
		Identity:      testIdentity(),
	})

	require.NoError(t, err)
	assert.Equal(t, "assistant reply", result.Content)
	assert.Equal(t, "vendor/legacy", f.completer.lastRequest.Model)
}

func TestSendForeignSessionIsForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.orchestrator.Send(ctx, SendInput{
		Message:       "owner's message",
		ModelPublicID: "gpt-test",
		Identity:      testIdentity(),
	})
	require.NoError(t, err)

	otherEmail := "eve@example.com"
	other := &user.Identity{
		Issuer:  "https://idp.example.com",
		Subject: "user-999",
		Email:   &otherEmail,
	}

	_, err = f.orchestrator.Send(ctx, SendInput{
		Message:         "intruder message",
		ModelPublicID:   "gpt-test",
		SessionPublicID: first.SessionPublicID,
		Identity:        other,
	})

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))
	assert.Equal(t, 1, f.completer.calls)
}

func TestSendEmptyMessageRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.orchestrator.Send(context.Background(), SendInput{
		Message:       "   ",
		ModelPublicID: "gpt-test",
		Identity:      testIdentity(),
	})

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	assert.Zero(t, f.completer.calls)
}

func TestSendUsesStoredProviderCredential(t *testing.T) {
	f := newFixture(t)

	_, err := f.orchestrator.Send(context.Background(), SendInput{
		Message:       "hello",
		ModelPublicID: "gpt-test",
		GuestFlag:     true,
	})

	require.NoError(t, err)
	assert.Equal(t, "sk-fallback", f.completer.lastRequest.APIKey)
}
