// Package app wires configuration, credentials, the Anthropic runner and the
// flow server into one supervised process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter/anthropicclaude"
	"github.com/florianilch/claudine-genkit/internal/observability/middleware"
	"github.com/florianilch/claudine-genkit/internal/server"
)

// shutdownTimeout bounds the graceful shutdown of all services.
const shutdownTimeout = 5 * time.Second

// App orchestrates the lifecycle of the flow server and related services.
type App struct {
	server *server.Server
	health *Health
	addr   string
}

// Option customizes App construction.
type Option func(*options)

type options struct {
	transport http.RoundTripper
}

// WithTransport sets the HTTP transport used for Anthropic API calls.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// New creates a new App instance from cfg. It reads the API key from the
// configured credential store.
func New(ctx context.Context, cfg Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	runner, err := NewRunner(ctx, cfg, o.transport)
	if err != nil {
		return nil, err
	}

	health := NewHealth()

	auth := server.NoAuth()
	if len(cfg.Server.APIKeys) > 0 {
		auth = server.APIKeyAuth(cfg.Server.APIKeys...)
	} else {
		slog.WarnContext(ctx, "generate flow has no auth policy", "addr", cfg.Server.Addr)
	}

	srv, err := server.New(server.Options{
		Adapter:         runner,
		Readiness:       health,
		Auth:            auth,
		MaxRequestBytes: cfg.Server.MaxRequestBytes,
		Logger:          slog.Default(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &App{
		server: srv,
		health: health,
		addr:   cfg.Server.Addr,
	}, nil
}

// NewRunner builds the Anthropic runner from cfg.
func NewRunner(ctx context.Context, cfg Config, transport http.RoundTripper) (*anthropicclaude.Runner, error) {
	store, err := cfg.Auth.NewTokenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to create token store: %w", err)
	}
	apiKey, err := store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read API key: %w", err)
	}

	client, err := anthropicclaude.NewClient(anthropicclaude.ClientConfig{
		APIKey:    apiKey,
		BaseURL:   cfg.Anthropic.BaseURL,
		Transport: middleware.TracePropagatingTransport(transport),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create anthropic client: %w", err)
	}

	runner, err := anthropicclaude.New(&client.Messages, anthropicclaude.Options{
		DefaultModel:      cfg.Anthropic.DefaultModel,
		MaxOutputTokens:   cfg.Anthropic.MaxOutputTokens,
		CacheSystemPrompt: cfg.Anthropic.CacheSystemPrompt,
		BetaAPIs:          cfg.Anthropic.BetaAPIs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}
	return runner, nil
}

// Start starts all services and blocks until shutdown is triggered.
// Uses errgroup for runtime error monitoring and shutdown function collection for coordinated cleanup.
func (a *App) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	var shutdownFuncs []func(context.Context) error

	// Startup phase: Start services
	slog.InfoContext(gCtx, "starting flow server")
	serverErrCh, err := a.server.Start(gCtx, a.addr)
	if err != nil {
		return fmt.Errorf("server startup failed: %w", err)
	}
	shutdownFuncs = append(shutdownFuncs, a.server.Shutdown)

	a.health.SetReady(true)

	// Monitor runtime errors - errgroup cancels context on first error
	g.Go(func() error {
		select {
		case err := <-serverErrCh:
			if err != nil {
				slog.ErrorContext(gCtx, "server runtime error", "error", err)
				return fmt.Errorf("server: %w", err)
			}
			return nil
		case <-gCtx.Done():
			return nil
		}
	})

	runtimeErr := g.Wait()

	a.health.SetReady(false)
	slog.InfoContext(gCtx, "shutting down services")

	// Shutdown phase: Stop all services
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if runtimeErr != nil {
		errs = append(errs, fmt.Errorf("runtime: %w", runtimeErr))
	}

	for i := len(shutdownFuncs) - 1; i >= 0; i-- {
		if err := shutdownFuncs[i](shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "service shutdown failed", "error", err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	slog.Info("application stopped")
	return nil
}

// Addr returns the server's listening address once started.
func (a *App) Addr() string {
	if addr := a.server.Addr(); addr != nil {
		return addr.String()
	}
	return a.addr
}

// Ready reports whether the application serves traffic.
func (a *App) Ready() bool {
	return a.health.IsReady()
}
