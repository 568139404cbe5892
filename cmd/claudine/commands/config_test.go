package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/florianilch/claudine-genkit/internal/app"
)

func environ(vars ...string) func() []string {
	return func() []string { return vars }
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("", nil, environ())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:4000", cfg.Server.Addr)
	assert.Equal(t, "claude-sonnet-4-5", cfg.Anthropic.DefaultModel)
	assert.Equal(t, 4096, cfg.Anthropic.MaxOutputTokens)
	assert.Equal(t, app.TokenStorageTypeKeyring, cfg.Auth.Storage)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_Layers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claudine.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
addr = "0.0.0.0:8080"
api_keys = ["from-file"]

[anthropic]
default_model = "claude-opus-4-1"
cache_system_prompt = true
beta_apis = ["pdfs-2024-09-25"]

[auth]
storage = "file"
file = "/tmp/claudine/key"
`), 0o600))

	cfg, err := loadConfig(path, nil, environ(
		"CLAUDINE_ANTHROPIC__DEFAULT_MODEL=claude-haiku-4-5",
		"CLAUDINE_ANTHROPIC__BETA_APIS=pdfs-2024-09-25, files-api-2025-04-14",
		"CLAUDINE_ANTHROPIC__MAX_OUTPUT_TOKENS=2048",
		"UNRELATED=1",
	))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, []string{"from-file"}, cfg.Server.APIKeys)
	assert.Equal(t, "claude-haiku-4-5", cfg.Anthropic.DefaultModel)
	assert.Equal(t, 2048, cfg.Anthropic.MaxOutputTokens)
	assert.True(t, cfg.Anthropic.CacheSystemPrompt)
	assert.Equal(t, []string{"pdfs-2024-09-25", "files-api-2025-04-14"}, cfg.Anthropic.BetaAPIs)
	assert.Equal(t, app.TokenStorageTypeFile, cfg.Auth.Storage)
	assert.Equal(t, "/tmp/claudine/key", cfg.Auth.File)
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	var got app.Config
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr"},
			&cli.StringFlag{Name: "model"},
			&cli.StringFlag{Name: "log-level", Value: "info"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			var err error
			got, err = loadConfig("", cmd, environ("CLAUDINE_SERVER__ADDR=127.0.0.1:5000", "CLAUDINE_LOG__LEVEL=warn"))
			return err
		},
	}

	require.NoError(t, cmd.Run(context.Background(), []string{"test", "--model", "claude-opus-4-1"}))

	assert.Equal(t, "claude-opus-4-1", got.Anthropic.DefaultModel)
	// Unset flags keep lower layers, even when the flag has a default.
	assert.Equal(t, "127.0.0.1:5000", got.Server.Addr)
	assert.Equal(t, "warn", got.Log.Level)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := loadConfig("", nil, environ("CLAUDINE_AUTH__STORAGE=vault"))
	require.ErrorContains(t, err, "invalid configuration")

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.toml"), nil, environ())
	require.ErrorContains(t, err, "load config file")
}

func TestTransformEnv(t *testing.T) {
	key, value := transformEnv("CLAUDINE_SERVER__MAX_REQUEST_BYTES", "1024")
	assert.Equal(t, "server.max_request_bytes", key)
	assert.Equal(t, "1024", value)

	key, value = transformEnv("CLAUDINE_SERVER__API_KEYS", "a, ,b")
	assert.Equal(t, "server.api_keys", key)
	assert.Equal(t, []string{"a", "b"}, value)
}
