package anthropicclaude

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter/types"
	"github.com/florianilch/claudine-genkit/internal/parts"
)

// toFinishReason maps Anthropic stop reasons to finish reasons.
//
// tool_use counts as a regular stop: the caller resolves tool requests and
// continues the conversation. Refusals and pause_turn have no dedicated
// finish reason and map to "other".
func toFinishReason(stopReason anthropic.StopReason) types.FinishReason {
	switch stopReason {
	case anthropic.StopReasonMaxTokens:
		return types.FinishReasonLength
	case anthropic.StopReasonEndTurn, anthropic.StopReasonStopSequence, anthropic.StopReasonToolUse:
		return types.FinishReasonStop
	case "":
		return types.FinishReasonUnknown
	default:
		return types.FinishReasonOther
	}
}

// toGenerateResponse converts a complete Anthropic message, dispatching each
// content block through registry in the non-streaming context.
func toGenerateResponse(msg *anthropic.Message, registry *parts.Registry) (*types.GenerateResponse, error) {
	if msg == nil {
		return nil, fmt.Errorf("response message is nil")
	}

	blocks := make([]parts.Block, 0, len(msg.Content))
	for i, union := range msg.Content {
		block, err := toBlock(union)
		if err != nil {
			return nil, fmt.Errorf("content block %d: %w", i, err)
		}
		blocks = append(blocks, withToolUseID(block))
	}

	content, err := convertBlocks(registry, blocks)
	if err != nil {
		return nil, err
	}

	id := msg.ID
	if id == "" {
		id = newResponseID()
	}

	return &types.GenerateResponse{
		ID:           id,
		Message:      &types.Message{Role: types.RoleModel, Content: content},
		FinishReason: toFinishReason(msg.StopReason),
		Usage:        toUsage(msg.Usage),
	}, nil
}

// convertBlocks dispatches finished blocks in the non-streaming context. A
// failing block fails the whole response so no content is silently dropped.
func convertBlocks(registry *parts.Registry, blocks []parts.Block) ([]*types.Part, error) {
	content := make([]*types.Part, 0, len(blocks))
	for i, block := range blocks {
		part, err := registry.Dispatch(parts.NonStream, parts.ContentBlock, block)
		if err != nil {
			return nil, fmt.Errorf("content block %d: %w", i, err)
		}
		if part != nil {
			content = append(content, part)
		}
	}
	return content, nil
}

// newResponseID generates a response ID (msg_<token>).
// Used as fallback when Anthropic doesn't provide an ID in the response.
func newResponseID() string {
	b := make([]byte, 18) // 18 bytes yields 24 URL-safe base64 characters
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	// Use RawURLEncoding to avoid '+', '/' and trailing '='
	token := base64.RawURLEncoding.EncodeToString(b)
	return "msg_" + token
}
