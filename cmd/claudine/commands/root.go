package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/claudine-genkit/internal/app"
	"github.com/florianilch/claudine-genkit/internal/observability"
)

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string, version, commit string) error {
	cmd := &cli.Command{
		Name:    "claudine",
		Usage:   "Genkit-style generate flows on Anthropic Claude",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to a TOML config file",
				Sources: cli.EnvVars("CLAUDINE_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug|info|warn|error)",
				Value: slog.LevelInfo.String(),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (text|json)",
				Value: "text",
			},
			&cli.StringFlag{
				Name:  "log-exporter",
				Usage: "export logs via OpenTelemetry (stdout|otlp-grpc|otlp-http)",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			generateCommand(),
			authCommand(),
		},
	}

	return cmd.Run(ctx, args)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serves the generate flow over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address",
			},
			&cli.StringFlag{
				Name:  "model",
				Usage: "default Claude model",
			},
		},
		Action: serveAction,
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"), cmd, os.Environ)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	shutdownObservability, err := instrument(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdownObservability()

	application, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}

	slog.InfoContext(ctx, "starting")

	if err := application.Start(ctx); err != nil {
		return fmt.Errorf("app failed to start: %w", err)
	}

	slog.InfoContext(ctx, "stopped gracefully")
	return nil
}

// instrument sets up the observability layer before anything logs. The
// returned function flushes exported logs.
func instrument(ctx context.Context, cfg app.Config) (func(), error) {
	obsCfg, err := cfg.Log.Observability()
	if err != nil {
		return nil, err
	}
	shutdown, err := observability.Instrument(ctx, obsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up observability layer: %w", err)
	}
	return func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			fmt.Fprintf(os.Stderr, "failed to flush logs: %v\n", err)
		}
	}, nil
}
