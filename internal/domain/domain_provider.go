package domain

import (
	"github.com/google/wire"

	"github.com/relaybase/chat-api/internal/config"
	"github.com/relaybase/chat-api/internal/domain/chat"
	"github.com/relaybase/chat-api/internal/domain/model"
	"github.com/relaybase/chat-api/internal/domain/session"
	"github.com/relaybase/chat-api/internal/domain/setting"
	"github.com/relaybase/chat-api/internal/domain/usage"
	"github.com/relaybase/chat-api/internal/domain/user"
)

// ProvideModelResolver wires the catalog resolver with the configured
// fallback provider credential.
func ProvideModelResolver(repo model.Repository, settings setting.Repository, cfg *config.Config) *model.Resolver {
	return model.NewResolver(repo, settings, cfg.ProviderAPIKey, cfg.CredentialSecret)
}

// ProvideChatOptions derives orchestration options from configuration.
func ProvideChatOptions(cfg *config.Config) chat.Options {
	return chat.Options{
		ProviderTimeout: cfg.ProviderTimeout,
	}
}

// ServiceProvider provides all domain services
var ServiceProvider = wire.NewSet(
	user.NewService,
	session.NewService,
	usage.NewService,
	ProvideModelResolver,
	ProvideChatOptions,
	chat.NewOrchestrator,
)
