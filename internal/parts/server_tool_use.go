package parts

import (
	"fmt"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter/types"
)

// ServerToolUseAbility reports vendor-executed tool calls. They are surfaced
// as readable text for observability, with the call details in Custom.
func ServerToolUseAbility() Ability {
	return NewAbility(
		[]Kind{KindServerToolUse},
		[]Context{NonStream, StreamStart},
		[]Domain{ContentBlock},
		func(_ Context, _ Domain, block ServerToolUseBlock) (*types.Part, error) {
			name := serverToolName(block.ServerName, block.Name)
			input := cloneRaw(block.Input)
			return &types.Part{
				Text: fmt.Sprintf("[server tool %s] input: %s", name, compactJSON(input)),
				Custom: &types.Custom{
					ServerToolUse: &types.ServerToolUse{
						ID:    block.ID,
						Name:  name,
						Input: input,
					},
				},
			}, nil
		},
	)
}

// serverToolName qualifies name with its server namespace when present.
func serverToolName(serverName, name string) string {
	if name == "" {
		name = unknownToolName
	}
	if serverName != "" {
		return serverName + "/" + name
	}
	return name
}
