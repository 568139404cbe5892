package anthropicclaude

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter"
	"github.com/florianilch/claudine-genkit/internal/parts"
)

func TestToGenerateError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantType    string
		wantMessage string
	}{
		{
			name:        "streaming error event",
			err:         errors.New(`received error while streaming: {"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`),
			wantType:    genkitadapter.ErrorTypeRateLimit,
			wantMessage: "slow down",
		},
		{
			name:        "streaming prefix with invalid json",
			err:         errors.New("received error while streaming: not json"),
			wantType:    genkitadapter.ErrorTypeServer,
			wantMessage: "received error while streaming: not json",
		},
		{
			name:        "missing signature",
			err:         fmt.Errorf("message 1 part 0: %w", &MissingSignatureError{Reasoning: "hm"}),
			wantType:    genkitadapter.ErrorTypeInvalidRequest,
			wantMessage: "message 1 part 0: thinking parts require a signature when sent back to the API; preserve custom.anthropicThinking.signature from the original response",
		},
		{
			name:        "unsupported block",
			err:         &parts.UnsupportedBlockError{Kind: parts.KindText, Context: parts.StreamEnd, Domain: parts.ContentBlock},
			wantType:    genkitadapter.ErrorTypeInvalidRequest,
			wantMessage: (&parts.UnsupportedBlockError{Kind: parts.KindText, Context: parts.StreamEnd, Domain: parts.ContentBlock}).Error(),
		},
		{
			name:        "other error",
			err:         context.DeadlineExceeded,
			wantType:    genkitadapter.ErrorTypeServer,
			wantMessage: "context deadline exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toGenerateError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantType, got.Err.Type)
			assert.Equal(t, tt.wantMessage, got.Err.Message)
		})
	}
}

func TestToGenerateError_PassThrough(t *testing.T) {
	assert.Nil(t, toGenerateError(nil))

	original := newErrorResponse("bad", genkitadapter.ErrorTypeNotFound)
	assert.Same(t, original, toGenerateError(fmt.Errorf("wrapped: %w", original)))
}

func TestMapAnthropicErrorType(t *testing.T) {
	tests := map[string]string{
		"invalid_request_error": genkitadapter.ErrorTypeInvalidRequest,
		"request_too_large":     genkitadapter.ErrorTypeInvalidRequest,
		"authentication_error":  genkitadapter.ErrorTypeAuthentication,
		"permission_error":      genkitadapter.ErrorTypePermission,
		"billing_error":         genkitadapter.ErrorTypePermission,
		"not_found_error":       genkitadapter.ErrorTypeNotFound,
		"rate_limit_error":      genkitadapter.ErrorTypeRateLimit,
		"overloaded_error":      genkitadapter.ErrorTypeOverloaded,
		"timeout_error":         genkitadapter.ErrorTypeServer,
		"api_error":             genkitadapter.ErrorTypeAPI,
		"something_new":         genkitadapter.ErrorTypeAPI,
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, mapAnthropicErrorType(in))
		})
	}
}

func TestToFinishReason(t *testing.T) {
	tests := []struct {
		in   anthropic.StopReason
		want string
	}{
		{anthropic.StopReasonEndTurn, "stop"},
		{anthropic.StopReasonStopSequence, "stop"},
		{anthropic.StopReasonToolUse, "stop"},
		{anthropic.StopReasonMaxTokens, "length"},
		{anthropic.StopReason("pause_turn"), "other"},
		{"", "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, string(toFinishReason(tt.in)), "stop reason %q", tt.in)
	}
}

func TestNewIDs(t *testing.T) {
	id := newResponseID()
	assert.Regexp(t, `^msg_[A-Za-z0-9_-]{24}$`, id)
	assert.NotEqual(t, id, newResponseID())

	assert.Regexp(t, `^toolu_[0-9a-f]{8}$`, newToolUseID())
}
