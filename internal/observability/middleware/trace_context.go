package middleware

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TraceContextExtraction reads W3C trace context from the incoming headers into
// the request context and adds trace_id and span_id to the request log. No
// spans are created.
func TraceContextExtraction(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			SetLogAttrs(ctx,
				slog.String("trace_id", sc.TraceID().String()),
				slog.String("span_id", sc.SpanID().String()),
			)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TracePropagatingTransport injects the trace context and request ID of the
// request context into outgoing requests, so upstream calls join the caller's
// trace. A nil base uses http.DefaultTransport.
func TracePropagatingTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		ctx := req.Context()
		sc := trace.SpanContextFromContext(ctx)
		id := RequestID(ctx)
		if !sc.IsValid() && id == "" {
			return base.RoundTrip(req)
		}

		// RoundTrippers must not modify the caller's request.
		req = req.Clone(ctx)
		if sc.IsValid() {
			otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
		}
		if id != "" {
			req.Header.Set(RequestIDHeader, id)
		}
		return base.RoundTrip(req)
	})
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }
