package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// SSEWriter writes Server-Sent Events and flushes after every event.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter sets the event-stream headers on w. It fails when w cannot flush.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("response writer does not support flushing")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	// Disable response buffering in nginx-style reverse proxies.
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent writes an event type line. The next WriteData completes the event.
func (s *SSEWriter) WriteEvent(event string) error {
	_, err := fmt.Fprintf(s.w, "event: %s\n", event)
	return err
}

// WriteData writes v as a JSON data line and ends the event.
func (s *SSEWriter) WriteData(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode event data: %w", err)
	}
	return s.WriteRaw(string(data))
}

// WriteRaw writes data verbatim as a data line and ends the event.
func (s *SSEWriter) WriteRaw(data string) error {
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
