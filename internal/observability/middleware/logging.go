package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/httplog/v3"
)

// probePaths are not logged when they succeed.
var probePaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
}

// Logging logs one record per HTTP request with method, path, status and duration.
// Successful health probes are skipped. Bodies are never logged: generate
// requests carry prompts and media.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		Schema: httplog.SchemaECS.Concise(true),

		Skip: func(r *http.Request, status int) bool {
			return probePaths[r.URL.Path] && status < http.StatusBadRequest
		},

		LogRequestHeaders:  []string{"Content-Type", "Origin", "User-Agent"},
		LogResponseHeaders: []string{},
		LogRequestBody:     nil,
		LogResponseBody:    nil,

		// Recovery is a separate middleware; panics are logged either way.
		RecoverPanics: false,
	})
}

// SetLogAttrs adds attributes to the current request's log record. It is a
// no-op outside the Logging middleware.
func SetLogAttrs(ctx context.Context, attrs ...slog.Attr) {
	httplog.SetAttrs(ctx, attrs...)
}
