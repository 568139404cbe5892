package genkitadapter

import "net/http"

// Error types reported by adapters. They mirror the vendor taxonomy closely
// enough for callers to pick an HTTP status.
const (
	ErrorTypeInvalidRequest = "invalid_request_error"
	ErrorTypeAuthentication = "authentication_error"
	ErrorTypePermission     = "permission_error"
	ErrorTypeNotFound       = "not_found_error"
	ErrorTypeRateLimit      = "rate_limit_error"
	ErrorTypeOverloaded     = "overloaded_error"
	ErrorTypeAPI            = "api_error"
	ErrorTypeServer         = "server_error"
)

// GenerateError is the normalized error returned by adapters.
type GenerateError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Error implements the error interface, returning the error message.
func (e *GenerateError) Error() string {
	return e.Message
}

// StatusCode maps the error type to an HTTP status code.
func (e *GenerateError) StatusCode() int {
	switch e.Type {
	case ErrorTypeInvalidRequest:
		return http.StatusBadRequest
	case ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case ErrorTypePermission:
		return http.StatusForbidden
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	case ErrorTypeOverloaded:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse wraps GenerateError in the envelope clients expect: {"error": {...}}
type ErrorResponse struct {
	// Err is the underlying error detail. JSON tag ensures it serializes as "error".
	Err *GenerateError `json:"error"`
}

// Error implements the error interface, returning the underlying error message.
func (e *ErrorResponse) Error() string {
	if e.Err == nil {
		return "unknown error"
	}
	return e.Err.Message
}

// Unwrap exposes the underlying GenerateError to errors.As.
func (e *ErrorResponse) Unwrap() error {
	if e.Err == nil {
		return nil
	}
	return e.Err
}
