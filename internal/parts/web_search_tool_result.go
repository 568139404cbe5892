package parts

import "github.com/florianilch/claudine-genkit/internal/genkitadapter/types"

// WebSearchToolResultAbility passes web search results through as custom
// metadata without interpreting the payload.
func WebSearchToolResultAbility() Ability {
	return NewAbility(
		[]Kind{KindWebSearchToolResult},
		[]Context{NonStream, StreamStart},
		[]Domain{ContentBlock},
		func(_ Context, _ Domain, block WebSearchToolResultBlock) (*types.Part, error) {
			return &types.Part{
				Custom: &types.Custom{
					ServerToolResult: &types.ServerToolResult{
						Type:      string(KindWebSearchToolResult),
						ToolUseID: block.ToolUseID,
						Content:   cloneRaw(block.Content),
					},
				},
			}, nil
		},
	)
}
