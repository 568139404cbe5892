package parts

import (
	"encoding/json"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter/types"
)

// unknownToolName stands in for tool calls that arrive without a name.
const unknownToolName = "unknown_tool"

// ToolUseAbility converts tool_use blocks into tool requests. At stream start
// the input is whatever the start event carried (usually empty); the
// complete input is only known once the block stops.
func ToolUseAbility() Ability {
	return NewAbility(
		[]Kind{KindToolUse},
		[]Context{NonStream, StreamStart},
		[]Domain{ContentBlock},
		func(_ Context, _ Domain, block ToolUseBlock) (*types.Part, error) {
			name := block.Name
			if name == "" {
				name = unknownToolName
			}
			return types.NewToolRequestPart(&types.ToolRequest{
				Ref:   block.ID,
				Name:  name,
				Input: cloneRaw(block.Input),
			}), nil
		},
	)
}

// cloneRaw copies raw JSON so parts never alias block buffers.
func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	return append(json.RawMessage(nil), raw...)
}
