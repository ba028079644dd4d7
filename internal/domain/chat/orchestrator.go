// Package chat sequences a user prompt through identity, model resolution,
// context assembly, the provider call and session persistence.
package chat

import (
	"context"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"

	"github.com/relaybase/chat-api/internal/domain/model"
	"github.com/relaybase/chat-api/internal/domain/session"
	"github.com/relaybase/chat-api/internal/domain/usage"
	"github.com/relaybase/chat-api/internal/domain/user"
	"github.com/relaybase/chat-api/internal/infrastructure/logger"
	"github.com/relaybase/chat-api/internal/infrastructure/observability"
	"github.com/relaybase/chat-api/internal/utils/platformerrors"
)

// Completer issues one synchronous completion call against the provider.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error)
}

// CompletionRequest is the normalized provider-facing request.
type CompletionRequest struct {
	Model    string
	Messages []openai.ChatCompletionMessage
	APIKey   string
}

// CompletionResult is the normalized provider response.
type CompletionResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Options carry the request-shaping policy values; they are configuration,
// not protocol.
type Options struct {
	ProviderTimeout time.Duration
}

// SendInput is one inbound chat request after transport decoding.
type SendInput struct {
	Message         string
	ModelPublicID   string
	SessionPublicID *string
	GuestFlag       bool
	Identity        *user.Identity
}

// SendResult is returned to the caller on success. SessionPublicID is nil on
// the guest branch.
type SendResult struct {
	Content         string
	SessionPublicID *string
	TokenCount      int
}

// Orchestrator wires the chat pipeline together.
type Orchestrator struct {
	users      *user.Service
	resolver   *model.Resolver
	ledger     *session.Service
	accounting *usage.Service
	provider   Completer
	opts       Options
}

// NewOrchestrator constructs an Orchestrator with required dependencies.
func NewOrchestrator(
	users *user.Service,
	resolver *model.Resolver,
	ledger *session.Service,
	accounting *usage.Service,
	provider Completer,
	opts Options,
) *Orchestrator {
	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = 120 * time.Second
	}
	return &Orchestrator{
		users:      users,
		resolver:   resolver,
		ledger:     ledger,
		accounting: accounting,
		provider:   provider,
		opts:       opts,
	}
}

// Send runs one message through the pipeline. The guest decision is made
// exactly once, up front, and holds for the whole request: a guest-flagged or
// unidentified request never creates session or message rows. For the
// authenticated branch the user turn is persisted before the provider call,
// so a provider failure leaves it durable with no paired reply.
func (o *Orchestrator) Send(ctx context.Context, input SendInput) (*SendResult, error) {
	ctx, span := observability.StartSpan(ctx, "chat-api", "Orchestrator.Send")
	defer span.End()

	if strings.TrimSpace(input.Message) == "" {
		err := platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"message cannot be empty", nil, "f3c1a8d6-2b74-4e95-a1c8-9d6e3f2b7a40")
		observability.RecordError(ctx, err)
		return nil, err
	}

	isGuest := input.GuestFlag || input.Identity == nil
	observability.AddSpanAttributes(ctx,
		attribute.String("chat.model", input.ModelPublicID),
		attribute.Bool("chat.guest", isGuest),
	)

	resolved, err := o.resolver.Resolve(ctx, input.ModelPublicID)
	if err != nil {
		observability.RecordError(ctx, err)
		return nil, err
	}

	var (
		owner   *user.User
		sess    *session.Session
		history []session.Message
	)

	if !isGuest {
		owner, err = o.users.EnsureUser(ctx, *input.Identity)
		if err != nil {
			observability.RecordError(ctx, err)
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to resolve user")
		}

		modelID := resolved.Model.ID
		sess, err = o.ledger.EnsureSession(ctx, owner.ID, input.SessionPublicID, input.Message, &modelID)
		if err != nil {
			observability.RecordError(ctx, err)
			return nil, err
		}
		observability.AddSpanAttributes(ctx, attribute.String("session.id", sess.PublicID))

		history, err = o.ledger.History(ctx, sess.ID)
		if err != nil {
			observability.RecordError(ctx, err)
			return nil, err
		}

		// Persist the user turn before calling the provider so it survives a
		// provider failure. The context below was assembled from the history
		// read above, so the new turn appears in it exactly once.
		if _, err := o.ledger.AppendMessage(ctx, sess.ID, session.RoleUser, input.Message, estimateTokens(input.Message)); err != nil {
			observability.RecordError(ctx, err)
			return nil, err
		}
	}

	messages := assembleContext(history, input.Message)
	observability.AddSpanAttributes(ctx, attribute.Int("chat.context_size", len(messages)))

	callCtx, cancel := context.WithTimeout(ctx, o.opts.ProviderTimeout)
	defer cancel()

	observability.AddSpanEvent(ctx, "calling_provider")
	result, err := o.provider.Complete(callCtx, CompletionRequest{
		Model:    resolved.ProviderModelID,
		Messages: messages,
		APIKey:   resolved.APIKey,
	})
	if err != nil {
		observability.RecordError(ctx, err)
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "completion failed")
	}

	out := &SendResult{
		Content:    result.Content,
		TokenCount: result.TotalTokens,
	}

	if !isGuest {
		if _, err := o.ledger.AppendMessage(ctx, sess.ID, session.RoleAssistant, result.Content, result.CompletionTokens); err != nil {
			// The reply was produced; losing the stored copy is logged, not fatal.
			log := logger.GetLogger()
			log.Warn().
				Err(err).
				Str("session_id", sess.PublicID).
				Msg("failed to store assistant message")
		}

		sessionID := sess.ID
		if err := o.accounting.Record(ctx, &usage.Record{
			UserID:           owner.ID,
			SessionID:        &sessionID,
			Model:            resolved.Model.PublicID,
			PromptTokens:     result.PromptTokens,
			CompletionTokens: result.CompletionTokens,
		}); err != nil {
			log := logger.GetLogger()
			log.Warn().
				Err(err).
				Str("session_id", sess.PublicID).
				Msg("failed to record token usage")
		}

		id := sess.PublicID
		out.SessionPublicID = &id
	}

	return out, nil
}

// assembleContext rebuilds the provider-facing message list: the persisted
// history oldest-first, then the new user turn as the final element. No
// truncation is applied; an oversized context is the provider's error to
// report.
func assembleContext(history []session.Message, newMessage string) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	for _, msg := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: newMessage,
	})
	return messages
}

// estimateTokens is the cheap word-count estimate used for the user turn; the
// provider-reported usage covers the assistant turn.
func estimateTokens(content string) int {
	return len(strings.Fields(content))
}
