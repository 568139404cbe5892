package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter"
	"github.com/florianilch/claudine-genkit/internal/observability/middleware"
)

// GenerateHandler serves the generate flow. A request with "stream": true is
// answered with SSE, anything else with a single JSON response.
//
// Stream events follow the flow protocol: every chunk is sent as
// {"message": chunk}, the final response as {"result": response}, and a
// failure as an "error" event carrying the error envelope.
type GenerateHandler struct {
	Adapter  genkitadapter.GenerateAdapter
	Validate *validator.Validate
}

// Compile-time check to ensure GenerateHandler implements http.Handler
var _ http.Handler = (*GenerateHandler)(nil)

type streamMessage struct {
	Message *genkitadapter.GenerateChunk `json:"message"`
}

type streamResult struct {
	Result *genkitadapter.GenerateResponse `json:"result"`
}

// ServeHTTP implements http.Handler interface for streaming or non-streaming requests.
func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req genkitadapter.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			slog.WarnContext(ctx, "request exceeds size limit", "limit_bytes", maxBytesErr.Limit)
			writeJSONError(ctx, w, newError(
				http.StatusText(http.StatusRequestEntityTooLarge),
				genkitadapter.ErrorTypeInvalidRequest,
			))
			return
		}
		slog.ErrorContext(ctx, "failed to decode request", "error", err)
		writeJSONError(ctx, w, newError(
			http.StatusText(http.StatusBadRequest),
			genkitadapter.ErrorTypeInvalidRequest,
		))
		return
	}

	if h.Validate != nil {
		if err := h.Validate.StructCtx(ctx, req); err != nil {
			slog.WarnContext(ctx, "invalid request", "error", err)
			writeJSONError(ctx, w, newError(err.Error(), genkitadapter.ErrorTypeInvalidRequest))
			return
		}
	}

	middleware.SetLogAttrs(ctx,
		slog.String("model", req.Model),
		slog.Bool("stream", req.Stream),
	)

	if req.Stream {
		h.streamResponse(ctx, w, req)
	} else {
		h.writeResponse(ctx, w, req)
	}
}

// writeResponse handles non-streaming generate requests.
func (h *GenerateHandler) writeResponse(ctx context.Context, w http.ResponseWriter, req genkitadapter.GenerateRequest) {
	if ctx.Err() != nil {
		return
	}
	response, err := h.Adapter.Generate(ctx, req)
	if err != nil {
		slog.ErrorContext(ctx, "request failed", "error", err)
		writeJSONError(ctx, w, asErrorResponse(err))
		return
	}

	writeJSON(ctx, w, response, http.StatusOK)
}

// streamResponse streams generate chunks using SSE.
func (h *GenerateHandler) streamResponse(ctx context.Context, w http.ResponseWriter, req genkitadapter.GenerateRequest) {
	if ctx.Err() != nil {
		return
	}
	stream, err := h.Adapter.GenerateStream(ctx, req)
	if err != nil {
		slog.ErrorContext(ctx, "streaming request failed", "error", err)
		writeJSONError(ctx, w, asErrorResponse(err))
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		slog.ErrorContext(ctx, "SSE not supported", "error", err)
		writeJSONError(ctx, w, newError(
			http.StatusText(http.StatusInternalServerError),
			genkitadapter.ErrorTypeServer,
		))
		return
	}

	for chunk, err := range stream {
		// Check for client disconnect before processing chunk
		if ctx.Err() != nil {
			slog.DebugContext(ctx, "client disconnected during stream")
			return
		}

		if err != nil {
			slog.ErrorContext(ctx, "stream error", "error", err)
			if writeErr := sse.WriteEvent("error"); writeErr != nil {
				slog.ErrorContext(ctx, "failed to write error event type", "error", writeErr)
				return
			}
			if writeErr := sse.WriteData(asErrorResponse(err)); writeErr != nil {
				slog.ErrorContext(ctx, "failed to write error", "error", writeErr)
			}
			return
		}

		var payload any = streamMessage{Message: chunk}
		if chunk.Response != nil {
			payload = streamResult{Result: chunk.Response}
		}
		if err := sse.WriteData(payload); err != nil {
			slog.ErrorContext(ctx, "failed to write chunk", "error", err)
			return
		}
	}
}

// asErrorResponse returns err as an error envelope, wrapping unexpected errors
// as server errors.
func asErrorResponse(err error) *genkitadapter.ErrorResponse {
	var errResp *genkitadapter.ErrorResponse
	if errors.As(err, &errResp) && errResp.Err != nil {
		return errResp
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return newError(err.Error(), genkitadapter.ErrorTypeServer)
	}
	return newError(http.StatusText(http.StatusInternalServerError), genkitadapter.ErrorTypeServer)
}
