// Package observability sets up process-wide logging and trace propagation.
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/processors/minsev"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// Log exporters. ExporterNone keeps logs on stdout as text or JSON.
const (
	ExporterNone     = ""
	ExporterStdout   = "stdout"
	ExporterOTLPGRPC = "otlp-grpc"
	ExporterOTLPHTTP = "otlp-http"
)

// instrumentationName identifies log records bridged from slog.
const instrumentationName = "github.com/florianilch/claudine-genkit"

// Config selects the log pipeline.
type Config struct {
	Level slog.Level
	// Format is "text" or "json"; only used without an exporter.
	Format string
	// Exporter is one of the Exporter constants. OTLP exporters read their
	// endpoint from the standard OTEL_EXPORTER_OTLP_* variables.
	Exporter string
}

// Instrument installs the default slog logger and the W3C trace context
// propagator. The returned function flushes and stops the log pipeline.
func Instrument(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if cfg.Exporter == ExporterNone {
		handler, err := newStdoutHandler(cfg.Level, cfg.Format)
		if err != nil {
			return nil, err
		}
		slog.SetDefault(slog.New(newTraceContextHandler(handler)))
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := newExporter(ctx, cfg.Exporter)
	if err != nil {
		return nil, err
	}

	processor := minsev.NewLogProcessor(sdklog.NewBatchProcessor(exporter), toSeverity(cfg.Level))
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(processor))
	global.SetLoggerProvider(provider)

	slog.SetDefault(slog.New(otelslog.NewHandler(instrumentationName, otelslog.WithLoggerProvider(provider))))

	return func(ctx context.Context) error {
		if err := provider.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown log provider: %w", err)
		}
		return nil
	}, nil
}

// newStdoutHandler creates a handler for human-readable logs.
func newStdoutHandler(level slog.Level, logFormat string) (slog.Handler, error) {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch strings.ToLower(logFormat) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	case "text", "":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		return nil, fmt.Errorf("unsupported log format %q (expected: json, text)", logFormat)
	}

	return handler, nil
}

func newExporter(ctx context.Context, name string) (sdklog.Exporter, error) {
	switch name {
	case ExporterStdout:
		return stdoutlog.New()
	case ExporterOTLPGRPC:
		return otlploggrpc.New(ctx)
	case ExporterOTLPHTTP:
		return otlploghttp.New(ctx)
	default:
		return nil, fmt.Errorf("unsupported log exporter %q (expected: stdout, otlp-grpc, otlp-http)", name)
	}
}

// toSeverity maps an slog level to the minimum OpenTelemetry severity.
func toSeverity(level slog.Level) minsev.Severity {
	switch {
	case level >= slog.LevelError:
		return minsev.SeverityError
	case level >= slog.LevelWarn:
		return minsev.SeverityWarn
	case level >= slog.LevelInfo:
		return minsev.SeverityInfo
	default:
		return minsev.SeverityDebug
	}
}
