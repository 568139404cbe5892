package anthropicclaude

import (
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter/types"
)

// fromMessages converts a conversation into Anthropic messages.
//
// System messages are hoisted into the returned system prompt while preserving
// conversation order. Tool messages become user messages, and consecutive
// messages that map to the same Anthropic role are merged (required by
// Anthropic's role alternation rules).
func fromMessages(msgs []*types.Message) (system string, params []anthropic.MessageParam, err error) {
	var systemParts []string

	for i, msg := range msgs {
		if msg == nil {
			return "", nil, invalidRequestf("message %d is null", i)
		}

		if msg.Role == types.RoleSystem {
			text, err := systemText(msg)
			if err != nil {
				return "", nil, fmt.Errorf("message %d: %w", i, err)
			}
			if text != "" {
				systemParts = append(systemParts, text)
			}
			continue
		}

		role, err := toMessageRole(msg.Role)
		if err != nil {
			return "", nil, fmt.Errorf("message %d: %w", i, err)
		}

		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Content))
		for j, part := range msg.Content {
			block, err := toContentBlockParam(part)
			if err != nil {
				return "", nil, fmt.Errorf("message %d part %d: %w", i, j, err)
			}
			blocks = append(blocks, block)
		}
		if len(blocks) == 0 {
			continue
		}

		if n := len(params); n > 0 && params[n-1].Role == role {
			params[n-1].Content = append(params[n-1].Content, blocks...)
			continue
		}
		params = append(params, anthropic.MessageParam{Role: role, Content: blocks})
	}

	if len(params) == 0 {
		return "", nil, invalidRequestf("at least one user or model message is required")
	}
	return strings.Join(systemParts, "\n\n"), params, nil
}

// systemText returns the text of a system message. System prompts are text only.
func systemText(msg *types.Message) (string, error) {
	var texts []string
	for j, part := range msg.Content {
		if part == nil {
			continue
		}
		if part.Media != nil || part.ToolRequest != nil || part.ToolResponse != nil || part.Reasoning != "" {
			return "", invalidRequestf("system message part %d: only text is supported", j)
		}
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, ""), nil
}

func toMessageRole(role types.Role) (anthropic.MessageParamRole, error) {
	switch role {
	case types.RoleUser, types.RoleTool:
		return anthropic.MessageParamRoleUser, nil
	case types.RoleModel:
		return anthropic.MessageParamRoleAssistant, nil
	default:
		return "", invalidRequestf("unsupported message role %q", role)
	}
}
