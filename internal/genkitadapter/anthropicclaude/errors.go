package anthropicclaude

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter"
	"github.com/florianilch/claudine-genkit/internal/genkitadapter/types"
	"github.com/florianilch/claudine-genkit/internal/parts"
)

// MissingSignatureError reports a reasoning part sent back without the
// thinking signature the vendor issued for it.
type MissingSignatureError struct {
	Reasoning string
}

func (e *MissingSignatureError) Error() string {
	return fmt.Sprintf("thinking parts require a signature when sent back to the API; preserve custom.%s.signature from the original response", types.ThinkingSignatureKey)
}

// MissingToolRefError reports a tool request or response without a ref.
type MissingToolRefError struct {
	// Field is "toolRequest" or "toolResponse".
	Field string
	Name  string
}

func (e *MissingToolRefError) Error() string {
	return fmt.Sprintf("%s ref is required for tool %q", e.Field, e.Name)
}

// UnsupportedPartShapeError reports a part with none of the convertible fields set.
type UnsupportedPartShapeError struct {
	Part *types.Part
}

func (e *UnsupportedPartShapeError) Error() string {
	data, _ := json.Marshal(e.Part)
	return fmt.Sprintf("unsupported part fields for current message role: %s", data)
}

// toGenerateError converts any error into the normalized error envelope.
// The Anthropic SDK returns different error shapes for streaming vs non-streaming requests,
// so we normalize both into a consistent ErrorResponse for SSE/JSON responses.
// Conversion failures are the caller's fault and become invalid_request_error;
// other non-Anthropic errors (network, timeouts) are wrapped as server_error.
func toGenerateError(err error) *genkitadapter.ErrorResponse {
	if err == nil {
		return nil
	}

	var errResp *genkitadapter.ErrorResponse
	if errors.As(err, &errResp) {
		return errResp
	}

	// Non-streaming: *anthropic.Error provides structured error via RawJSON()
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		if parsed, parseErr := parseErrorResponseJSON(apiErr.RawJSON()); parseErr == nil {
			return newErrorResponse(parsed.Error.Message, mapAnthropicErrorType(parsed.Error.Type))
		}
		return newErrorResponse(apiErr.Error(), genkitadapter.ErrorTypeAPI)
	}

	// streamingErrorPrefix is the prefix used by the Anthropic SDK when wrapping streaming errors.
	const streamingErrorPrefix = "received error while streaming: "

	// Streaming: SDK embeds JSON in error string with known prefix
	if jsonStr, ok := strings.CutPrefix(err.Error(), streamingErrorPrefix); ok {
		if parsed, parseErr := parseErrorResponseJSON(jsonStr); parseErr == nil {
			return newErrorResponse(parsed.Error.Message, mapAnthropicErrorType(parsed.Error.Type))
		}
	}

	if isConversionError(err) {
		return newErrorResponse(err.Error(), genkitadapter.ErrorTypeInvalidRequest)
	}

	return newErrorResponse(err.Error(), genkitadapter.ErrorTypeServer)
}

func newErrorResponse(message, errType string) *genkitadapter.ErrorResponse {
	return &genkitadapter.ErrorResponse{
		Err: &genkitadapter.GenerateError{Message: message, Type: errType},
	}
}

// isConversionError reports whether err stems from translating content in
// either direction.
func isConversionError(err error) bool {
	var (
		missingSig  *MissingSignatureError
		missingRef  *MissingToolRefError
		shape       *UnsupportedPartShapeError
		invalidReq  *invalidRequestError
		unsupported *parts.UnsupportedBlockError
		feature     *parts.UnsupportedFeatureError
	)
	return errors.As(err, &missingSig) ||
		errors.As(err, &missingRef) ||
		errors.As(err, &shape) ||
		errors.As(err, &invalidReq) ||
		errors.As(err, &unsupported) ||
		errors.As(err, &feature)
}

// invalidRequestError marks request-building failures caused by the caller.
type invalidRequestError struct {
	err error
}

func (e *invalidRequestError) Error() string { return e.err.Error() }
func (e *invalidRequestError) Unwrap() error { return e.err }

func invalidRequestf(format string, args ...any) error {
	return &invalidRequestError{err: fmt.Errorf(format, args...)}
}

// parseErrorResponseJSON parses Anthropic error JSON into structured ErrorResponse.
// Shared by both non-streaming (RawJSON) and streaming (error string) error paths.
func parseErrorResponseJSON(jsonStr string) (*anthropic.ErrorResponse, error) {
	var errorResp anthropic.ErrorResponse
	if err := json.Unmarshal([]byte(jsonStr), &errorResp); err != nil {
		return nil, fmt.Errorf("failed to parse Anthropic error JSON: %w", err)
	}
	return &errorResp, nil
}

// mapAnthropicErrorType folds the Anthropic error taxonomy into the adapter's error types.
func mapAnthropicErrorType(anthropicType string) string {
	switch anthropicType {
	case "invalid_request_error", "request_too_large":
		return genkitadapter.ErrorTypeInvalidRequest
	case "authentication_error":
		return genkitadapter.ErrorTypeAuthentication
	case "permission_error", "billing_error":
		return genkitadapter.ErrorTypePermission
	case "not_found_error":
		return genkitadapter.ErrorTypeNotFound
	case "rate_limit_error":
		return genkitadapter.ErrorTypeRateLimit
	case "overloaded_error":
		return genkitadapter.ErrorTypeOverloaded
	case "timeout_error":
		return genkitadapter.ErrorTypeServer
	default:
		// Unknown error types default to api_error for safe handling
		return genkitadapter.ErrorTypeAPI
	}
}
