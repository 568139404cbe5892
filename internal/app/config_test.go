package app

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/florianilch/claudine-genkit/internal/credentials"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad addr", func(c *Config) { c.Server.Addr = "nope" }, "Addr"},
		{"bad storage", func(c *Config) { c.Auth.Storage = "vault" }, "Storage"},
		{"file storage without path", func(c *Config) {
			c.Auth.Storage = TokenStorageTypeFile
			c.Auth.File = ""
		}, "File"},
		{"bad base url", func(c *Config) { c.Anthropic.BaseURL = "::" }, "BaseURL"},
		{"missing model", func(c *Config) { c.Anthropic.DefaultModel = "" }, "DefaultModel"},
		{"bad exporter", func(c *Config) { c.Log.Exporter = "syslog" }, "Exporter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestAuthConfig_NewTokenStore(t *testing.T) {
	tests := []struct {
		cfg  AuthConfig
		want credentials.Store
	}{
		{AuthConfig{Storage: TokenStorageTypeEnv, EnvVar: "K"}, credentials.EnvStore{Var: "K"}},
		{AuthConfig{Storage: TokenStorageTypeFile, File: "/tmp/k"}, credentials.FileStore{Path: "/tmp/k"}},
		{AuthConfig{Storage: TokenStorageTypeKeyring, Keyring: KeyringConfig{Service: "s", User: "u"}},
			credentials.KeyringStore{Service: "s", User: "u"}},
	}
	for _, tt := range tests {
		got, err := tt.cfg.NewTokenStore()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := AuthConfig{Storage: "vault"}.NewTokenStore()
	require.Error(t, err)
}

func TestLogConfig_Observability(t *testing.T) {
	got, err := LogConfig{Level: "warn", Format: "json", Exporter: "otlp-http"}.Observability()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, got.Level)
	assert.Equal(t, "json", got.Format)
	assert.Equal(t, "otlp-http", got.Exporter)

	_, err = LogConfig{Level: "loud"}.Observability()
	require.Error(t, err)
}
