// Package inference is the outbound gateway to the OpenAI-compatible
// completion provider.
package inference

import (
	"context"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/relaybase/chat-api/internal/config"
	"github.com/relaybase/chat-api/internal/domain/chat"
	"github.com/relaybase/chat-api/internal/infrastructure/logger"
	"github.com/relaybase/chat-api/internal/infrastructure/metrics"
	"github.com/relaybase/chat-api/internal/utils/httpclients"
	chatclient "github.com/relaybase/chat-api/internal/utils/httpclients/chat"
	"github.com/relaybase/chat-api/internal/utils/platformerrors"
)

// CompletionGateway issues synchronous chat completions against a single
// configured provider endpoint. Streaming is not supported.
type CompletionGateway struct {
	client      *chatclient.ChatCompletionClient
	maxTokens   int
	temperature float32
}

var _ chat.Completer = (*CompletionGateway)(nil)

// NewCompletionGateway constructs the gateway from service configuration.
func NewCompletionGateway(cfg *config.Config) *CompletionGateway {
	restyClient := httpclients.NewClient("CompletionProviderClient")
	restyClient.SetBaseURL(cfg.ProviderBaseURL)

	return &CompletionGateway{
		client:      chatclient.NewChatCompletionClient(restyClient, "completion-provider", cfg.ProviderBaseURL),
		maxTokens:   cfg.ProviderMaxTokens,
		temperature: cfg.ProviderTemperature,
	}
}

// Complete sends one completion request and normalizes the response. A
// well-formed reply with no choices is treated the same as a provider
// failure.
func (g *CompletionGateway) Complete(ctx context.Context, req chat.CompletionRequest) (*chat.CompletionResult, error) {
	request := openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req.APIKey, request)
	metrics.RecordCompletionDuration(req.Model, time.Since(start).Seconds())
	if err != nil {
		metrics.RecordProviderError(req.Model)
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal) {
			return nil, err
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			"completion request failed",
			err,
			"7b5e3a9c-2f14-4d86-b0a7-9e1c6f3d8b52",
		)
	}

	if len(resp.Choices) == 0 {
		metrics.RecordProviderError(req.Model)
		log := logger.GetLogger()
		log.Error().
			Str("model", req.Model).
			Str("response_id", resp.ID).
			Msg("provider returned no choices")
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			"provider returned an empty response",
			nil,
			"1e8c4f6a-9d27-43b5-a2e8-5f0b7c3d9a16",
		)
	}

	metrics.RecordTokenUsage(req.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	totalTokens := resp.Usage.TotalTokens
	if totalTokens == 0 {
		totalTokens = resp.Usage.PromptTokens + resp.Usage.CompletionTokens
	}

	return &chat.CompletionResult{
		Content:          resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      totalTokens,
	}, nil
}
