package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Global singleton so the periodic reload job can refresh configuration.
var globalConfig *Config

// Config holds all environment backed configuration for chat-api.
type Config struct {
	// HTTP Server
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"9091"`
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`

	// Identity provider
	JWKSURL             string        `env:"JWKS_URL"`
	OIDCDiscoveryURL    string        `env:"OIDC_DISCOVERY_URL"`
	Issuer              string        `env:"ISSUER,notEmpty"`
	Audience            string        `env:"AUDIENCE,notEmpty"`
	RefreshJWKSInterval time.Duration `env:"JWKS_REFRESH_INTERVAL" envDefault:"5m"`
	ClockSkew           time.Duration `env:"AUTH_CLOCK_SKEW" envDefault:"30s"`

	// Completion provider
	ProviderBaseURL     string        `env:"PROVIDER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	ProviderAPIKey      string        `env:"PROVIDER_API_KEY"`
	ProviderMaxTokens   int           `env:"PROVIDER_MAX_TOKENS" envDefault:"1024"`
	ProviderTemperature float32       `env:"PROVIDER_TEMPERATURE" envDefault:"0.7"`
	ProviderTimeout     time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"120s"`
	// CredentialSecret, when set, is the AES key used to encrypt the provider
	// credential stored in the settings table.
	CredentialSecret string `env:"CREDENTIAL_SECRET"`

	// Session retention
	SessionRetentionDays  int  `env:"SESSION_RETENTION_DAYS" envDefault:"30"`
	SessionPurgeEnabled   bool `env:"SESSION_PURGE_ENABLED" envDefault:"true"`
	SessionPurgeFrequency int  `env:"SESSION_PURGE_FREQUENCY_MINUTES" envDefault:"60"`

	// Observability / Logging
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	OTLPEndpoint     string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPHeaders      string        `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	ServiceName      string        `env:"SERVICE_NAME" envDefault:"chat-api"`
	ServiceNamespace string        `env:"SERVICE_NAMESPACE" envDefault:"relaybase"`
	Environment      string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string        `env:"LOG_FORMAT" envDefault:"console"`

	// Features
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"true"`
	// ChatRateLimitPerMinute caps chat sends per principal (or client IP for
	// guests). Zero disables the limiter.
	ChatRateLimitPerMinute float64 `env:"CHAT_RATE_LIMIT_PER_MINUTE" envDefault:"60"`
	// ModelBootstrap is a JSON array seeding the model catalog on startup,
	// e.g. [{"id":"gpt-4o-mini","display_name":"GPT-4o mini","provider_model_id":"openai/gpt-4o-mini"}]
	ModelBootstrap string `env:"MODEL_BOOTSTRAP"`

	// Internal
	EnvReloadedAt time.Time
}

// Load parses environment variables into Config and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.JWKSURL == "" && cfg.OIDCDiscoveryURL == "" {
		return nil, errors.New("either JWKS_URL or OIDC_DISCOVERY_URL must be provided")
	}

	if cfg.JWKSURL != "" {
		if _, err := url.ParseRequestURI(cfg.JWKSURL); err != nil {
			return nil, fmt.Errorf("invalid JWKS_URL: %w", err)
		}
	}

	if cfg.OIDCDiscoveryURL != "" {
		if _, err := url.ParseRequestURI(cfg.OIDCDiscoveryURL); err != nil {
			return nil, fmt.Errorf("invalid OIDC_DISCOVERY_URL: %w", err)
		}
	}

	if _, err := url.ParseRequestURI(cfg.ProviderBaseURL); err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_BASE_URL: %w", err)
	}

	if cfg.ProviderMaxTokens <= 0 {
		return nil, errors.New("PROVIDER_MAX_TOKENS must be positive")
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.EnvReloadedAt = time.Now()

	globalConfig = cfg

	return cfg, nil
}

// ResolveJWKSURL returns the JWKS endpoint using either the explicit JWKS_URL or the OIDC discovery document.
func (c *Config) ResolveJWKSURL(ctx context.Context) (string, error) {
	if c.JWKSURL != "" {
		return c.JWKSURL, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.OIDCDiscoveryURL, nil)
	if err != nil {
		return "", fmt.Errorf("oidc discovery request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch oidc discovery: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oidc discovery unexpected status: %s", resp.Status)
	}

	var doc struct {
		JWKSURL string `json:"jwks_uri"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", fmt.Errorf("decode oidc discovery: %w", err)
	}

	if doc.JWKSURL == "" {
		return "", errors.New("jwks_uri not found in discovery document")
	}

	return doc.JWKSURL, nil
}

// ModelBootstrapEntry is one catalog entry seeded from the environment.
type ModelBootstrapEntry struct {
	ID              string `json:"id"`
	DisplayName     string `json:"display_name"`
	ProviderModelID string `json:"provider_model_id"`
	IsActive        *bool  `json:"is_active,omitempty"`
}

// ModelBootstrapEntries parses MODEL_BOOTSTRAP. An empty variable yields no
// entries; malformed JSON is an error so a typo cannot silently skip seeding.
func (c *Config) ModelBootstrapEntries() ([]ModelBootstrapEntry, error) {
	raw := strings.TrimSpace(c.ModelBootstrap)
	if raw == "" {
		return nil, nil
	}

	var entries []ModelBootstrapEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("parse MODEL_BOOTSTRAP: %w", err)
	}
	return entries, nil
}

// GetGlobal returns the global config instance for code that runs outside the
// request path, such as scheduled jobs.
func GetGlobal() *Config {
	return globalConfig
}

var Version = "dev"

func IsDev() bool {
	return strings.HasPrefix(Version, "dev")
}
