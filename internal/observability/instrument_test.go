package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/processors/minsev"
	"go.opentelemetry.io/otel/trace"

	"github.com/florianilch/claudine-genkit/internal/observability/middleware"
)

func restoreDefaultLogger(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestInstrument_Stdout(t *testing.T) {
	restoreDefaultLogger(t)

	shutdown, err := Instrument(context.Background(), Config{Level: slog.LevelWarn, Format: "json"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelError))
}

func TestInstrument_StdoutExporter(t *testing.T) {
	restoreDefaultLogger(t)

	shutdown, err := Instrument(context.Background(), Config{Level: slog.LevelInfo, Exporter: ExporterStdout})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInstrument_Errors(t *testing.T) {
	restoreDefaultLogger(t)

	_, err := Instrument(context.Background(), Config{Format: "xml"})
	require.ErrorContains(t, err, "unsupported log format")

	_, err = Instrument(context.Background(), Config{Exporter: "syslog"})
	require.ErrorContains(t, err, "unsupported log exporter")
}

func TestToSeverity(t *testing.T) {
	assert.Equal(t, minsev.SeverityDebug, toSeverity(slog.LevelDebug))
	assert.Equal(t, minsev.SeverityInfo, toSeverity(slog.LevelInfo))
	assert.Equal(t, minsev.SeverityWarn, toSeverity(slog.LevelWarn))
	assert.Equal(t, minsev.SeverityError, toSeverity(slog.LevelError+4))
}

func TestTraceContextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newTraceContextHandler(slog.NewJSONHandler(&buf, nil)))

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.InfoContext(ctx, "hello")
	assert.Contains(t, buf.String(), `"trace_id":"4bf92f3577b34da6a3ce929d0e0e4736"`)
	assert.Contains(t, buf.String(), `"span_id":"00f067aa0ba902b7"`)

	buf.Reset()
	logger.InfoContext(middleware.WithRequestID(context.Background(), "req-1"), "no trace")
	assert.NotContains(t, buf.String(), "trace_id")
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
}
