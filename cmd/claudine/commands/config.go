package commands

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v3"

	"github.com/florianilch/claudine-genkit/internal/app"
)

// envPrefix marks environment variables read as configuration.
// Nested keys are separated by a double underscore: CLAUDINE_SERVER__ADDR.
const envPrefix = "CLAUDINE_"

// listKeys are read from comma-separated environment values.
var listKeys = map[string]bool{
	"server.api_keys":     true,
	"anthropic.beta_apis": true,
}

// flagKeys maps CLI flags to configuration keys. Only flags the user set
// explicitly override lower layers.
var flagKeys = map[string]string{
	"log-level":    "log.level",
	"log-format":   "log.format",
	"log-exporter": "log.exporter",
	"addr":         "server.addr",
	"model":        "anthropic.default_model",
	"storage":      "auth.storage",
}

// loadConfig layers defaults, the TOML file at path, CLAUDINE_* environment
// variables and explicitly set flags, in that order, and validates the result.
func loadConfig(path string, cmd *cli.Command, environ func() []string) (app.Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(app.DefaultConfig(), "."), nil); err != nil {
		return app.Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return app.Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        envPrefix,
		TransformFunc: transformEnv,
		EnvironFunc:   environ,
	}), nil); err != nil {
		return app.Config{}, fmt.Errorf("load environment: %w", err)
	}

	if cmd != nil {
		flags := make(map[string]any)
		for name, key := range flagKeys {
			if cmd.IsSet(name) {
				flags[key] = cmd.String(name)
			}
		}
		if err := k.Load(confmap.Provider(flags, "."), nil); err != nil {
			return app.Config{}, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg app.Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return app.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return app.Config{}, err
	}
	return cfg, nil
}

// transformEnv maps CLAUDINE_ANTHROPIC__DEFAULT_MODEL to anthropic.default_model.
func transformEnv(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	key = strings.ReplaceAll(key, "__", ".")

	if listKeys[key] {
		var items []string
		for item := range strings.SplitSeq(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return key, items
	}
	return key, value
}
