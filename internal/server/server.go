// Package server exposes generate flows over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter"
	"github.com/florianilch/claudine-genkit/internal/observability/middleware"
)

// DefaultMaxRequestBytes bounds request bodies when Options leaves it unset.
const DefaultMaxRequestBytes = 32 << 20

// Options configures a Server.
type Options struct {
	Adapter   genkitadapter.GenerateAdapter
	Readiness ReadinessChecker
	// Auth defaults to NoAuth.
	Auth            AuthPolicy
	MaxRequestBytes int64
	Logger          *slog.Logger
}

// Server serves the generate flow and health endpoints.
type Server struct {
	server   *http.Server
	listener net.Listener
}

// New builds the HTTP handler tree. The server does not listen until Start.
func New(opts Options) (*Server, error) {
	if opts.Adapter == nil {
		return nil, errors.New("generate adapter is required")
	}
	if opts.Readiness == nil {
		return nil, errors.New("readiness checker is required")
	}
	if opts.Auth == nil {
		opts.Auth = NoAuth()
	}
	if opts.MaxRequestBytes <= 0 {
		opts.MaxRequestBytes = DefaultMaxRequestBytes
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	generate := &GenerateHandler{
		Adapter:  opts.Adapter,
		Validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	mux := http.NewServeMux()
	mux.Handle("POST /flows/generate", applyMiddlewares(generate,
		requireAuth(opts.Auth),
		RequestSizeLimit(opts.MaxRequestBytes),
	))
	mux.Handle("GET /healthz", livenessHandler())
	mux.Handle("GET /readyz", readinessHandler(opts.Readiness))

	handler := applyMiddlewares(mux,
		middleware.RequestIDGeneration,
		middleware.TraceContextExtraction,
		middleware.Logging(opts.Logger),
		middleware.RequestIDPropagation,
		Recovery,
	)

	return &Server{
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			// No WriteTimeout: streamed generations can run for minutes.
		},
	}, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start listens on addr and serves in the background. The returned channel
// receives the serve error, or nil after a clean shutdown, and is then closed.
func (s *Server) Start(ctx context.Context, addr string) (<-chan error, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.listener = ln
	s.server.BaseContext = func(net.Listener) context.Context {
		return context.WithoutCancel(ctx)
	}

	slog.InfoContext(ctx, "server listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	return errCh, nil
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
