package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen bounds client-supplied request IDs.
const maxRequestIDLen = 128

type requestIDKey struct{}

// RequestID returns the request ID stored by RequestIDGeneration, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithRequestID returns a context carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// validRequestID accepts printable ASCII IDs of reasonable length.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// RequestIDGeneration reuses a well-formed client request ID or generates one,
// and stores it in the request context.
func RequestIDGeneration(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if !validRequestID(id) {
			id = RequestID(r.Context())
		}
		if id == "" {
			id = uuid.NewString()
		}

		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}

// RequestIDPropagation echoes the request ID in the response header and adds
// it to the request log. It must run after Logging.
func RequestIDPropagation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := RequestID(r.Context()); id != "" {
			// Set before the handler runs so recovered panics still carry it.
			w.Header().Set(RequestIDHeader, id)
			SetLogAttrs(r.Context(), slog.String("request_id", id))
		}

		next.ServeHTTP(w, r)
	})
}
