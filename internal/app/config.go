package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/florianilch/claudine-genkit/internal/credentials"
	"github.com/florianilch/claudine-genkit/internal/observability"
)

// TokenStorageType selects where the Anthropic API key is kept.
type TokenStorageType string

const (
	TokenStorageTypeEnv     TokenStorageType = "env"
	TokenStorageTypeFile    TokenStorageType = "file"
	TokenStorageTypeKeyring TokenStorageType = "keyring"
)

// Config is the application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Anthropic AnthropicConfig `koanf:"anthropic"`
	Auth      AuthConfig      `koanf:"auth"`
	Log       LogConfig       `koanf:"log"`
}

// ServerConfig configures the flow server.
type ServerConfig struct {
	Addr string `koanf:"addr" validate:"required,hostname_port"`
	// APIKeys protect the generate flow. Without keys the flow is open.
	APIKeys         []string `koanf:"api_keys"`
	MaxRequestBytes int64    `koanf:"max_request_bytes" validate:"min=0"`
}

// AnthropicConfig configures the Messages API runner.
type AnthropicConfig struct {
	BaseURL           string   `koanf:"base_url" validate:"omitempty,url"`
	DefaultModel      string   `koanf:"default_model" validate:"required"`
	MaxOutputTokens   int      `koanf:"max_output_tokens" validate:"min=0"`
	CacheSystemPrompt bool     `koanf:"cache_system_prompt"`
	BetaAPIs          []string `koanf:"beta_apis"`
}

// AuthConfig configures API key storage.
type AuthConfig struct {
	Storage TokenStorageType `koanf:"storage" validate:"oneof=env file keyring"`
	EnvVar  string           `koanf:"env_var" validate:"required_if=Storage env"`
	File    string           `koanf:"file" validate:"required_if=Storage file"`
	Keyring KeyringConfig    `koanf:"keyring"`
}

// KeyringConfig names the keyring entry.
type KeyringConfig struct {
	Service string `koanf:"service" validate:"required"`
	User    string `koanf:"user" validate:"required"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level    string `koanf:"level" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Format   string `koanf:"format" validate:"oneof=text json"`
	Exporter string `koanf:"exporter" validate:"omitempty,oneof=stdout otlp-grpc otlp-http"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() map[string]any {
	return map[string]any{
		"server.addr":                   "127.0.0.1:4000",
		"server.max_request_bytes":      int64(32 << 20),
		"anthropic.default_model":       "claude-sonnet-4-5",
		"anthropic.max_output_tokens":   4096,
		"anthropic.cache_system_prompt": false,
		"anthropic.beta_apis":           []string{},
		"auth.storage":                  string(TokenStorageTypeKeyring),
		"auth.env_var":                  "ANTHROPIC_API_KEY",
		"auth.file":                     defaultKeyFile(),
		"auth.keyring.service":          "claudine",
		"auth.keyring.user":             "anthropic",
		"log.level":                     "info",
		"log.format":                    "text",
		"log.exporter":                  "",
	}
}

func defaultKeyFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "claudine/api_key"
	}
	return filepath.Join(dir, "claudine", "api_key")
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// NewTokenStore returns the configured credential store.
func (a AuthConfig) NewTokenStore() (credentials.Store, error) {
	switch a.Storage {
	case TokenStorageTypeEnv:
		return credentials.EnvStore{Var: a.EnvVar}, nil
	case TokenStorageTypeFile:
		return credentials.FileStore{Path: a.File}, nil
	case TokenStorageTypeKeyring:
		return credentials.KeyringStore{Service: a.Keyring.Service, User: a.Keyring.User}, nil
	default:
		return nil, fmt.Errorf("unsupported token storage %q", a.Storage)
	}
}

// Observability converts the log settings.
func (l LogConfig) Observability() (observability.Config, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return observability.Config{}, fmt.Errorf("log level: %w", err)
	}
	return observability.Config{Level: level, Format: l.Format, Exporter: l.Exporter}, nil
}
