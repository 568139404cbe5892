package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter"
)

// writeJSON writes a JSON response with the given status code.
// Logs encoding failures internally using the provided context.
func writeJSON(ctx context.Context, w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	// Headers and status are written before encoding to avoid buffering.
	// If encoding fails, the client may receive a partial response.
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.ErrorContext(ctx, "failed to encode JSON response", "error", err)
	}
}

// writeJSONError writes the error envelope with the status derived from the error type.
func writeJSONError(ctx context.Context, w http.ResponseWriter, errResp *genkitadapter.ErrorResponse) {
	status := http.StatusInternalServerError
	if errResp.Err != nil {
		status = errResp.Err.StatusCode()
	}
	writeJSON(ctx, w, errResp, status)
}

// newError builds an error envelope.
func newError(message, errType string) *genkitadapter.ErrorResponse {
	return &genkitadapter.ErrorResponse{
		Err: &genkitadapter.GenerateError{Message: message, Type: errType},
	}
}
