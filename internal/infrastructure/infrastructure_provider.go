package infrastructure

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/relaybase/chat-api/internal/application/audit"
	"github.com/relaybase/chat-api/internal/config"
	"github.com/relaybase/chat-api/internal/infrastructure/auth"
	"github.com/relaybase/chat-api/internal/infrastructure/crontab"
	"github.com/relaybase/chat-api/internal/infrastructure/database"
	"github.com/relaybase/chat-api/internal/infrastructure/database/repository"
	"github.com/relaybase/chat-api/internal/infrastructure/inference"
	"github.com/relaybase/chat-api/internal/infrastructure/logger"
)

// ProvideConfig loads and provides the application configuration
func ProvideConfig() (*config.Config, error) {
	return config.Load()
}

// ProvideTokenVerifier provides a JWT verifier backed by the identity
// provider's JWKS endpoint.
func ProvideTokenVerifier(cfg *config.Config, log zerolog.Logger) (*auth.TokenVerifier, error) {
	ctx := context.Background()
	jwksURL, err := cfg.ResolveJWKSURL(ctx)
	if err != nil {
		return nil, err
	}
	return auth.NewTokenVerifier(
		ctx,
		jwksURL,
		cfg.Issuer,
		cfg.Audience,
		cfg.RefreshJWKSInterval,
		cfg.ClockSkew,
		log,
	)
}

// ProvideDatabase provides a database connection
func ProvideDatabase(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// Run migrations if AUTO_MIGRATE is enabled
	if cfg.AutoMigrate {
		log.Info().Msg("Running database migrations...")
		if err := database.Migration(db, "chat_api."); err != nil {
			log.Error().Err(err).Msg("Failed to run database migrations")
			return nil, err
		}
		log.Info().Msg("Database migrations completed successfully")
	}

	return db, nil
}

// Infrastructure holds all infrastructure dependencies
type Infrastructure struct {
	DB            *gorm.DB
	TokenVerifier *auth.TokenVerifier
	Logger        zerolog.Logger
}

// NewInfrastructure creates a new infrastructure instance
func NewInfrastructure(
	db *gorm.DB,
	tokenVerifier *auth.TokenVerifier,
	logger zerolog.Logger,
) *Infrastructure {
	return &Infrastructure{
		DB:            db,
		TokenVerifier: tokenVerifier,
		Logger:        logger,
	}
}

// InfrastructureProvider provides all infrastructure dependencies
var InfrastructureProvider = wire.NewSet(
	// Config
	ProvideConfig,

	// Database
	ProvideDatabase,

	// Repositories
	repository.RepositoryProvider,

	// Provider gateway
	inference.NewCompletionGateway,

	// Logger
	logger.GetLogger,

	// Token verification
	ProvideTokenVerifier,

	// Audit trail
	audit.NewLogger,

	// Crontab for session retention
	crontab.NewCrontab,

	// Infrastructure struct
	NewInfrastructure,
)
