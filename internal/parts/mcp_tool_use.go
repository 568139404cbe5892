package parts

import "github.com/florianilch/claudine-genkit/internal/genkitadapter/types"

// MCPToolUseAbility recognizes MCP connector tool calls and rejects them:
// the beta capability is not implemented yet.
func MCPToolUseAbility() Ability {
	return NewAbility(
		[]Kind{KindMCPToolUse},
		[]Context{NonStream},
		[]Domain{ContentBlock},
		func(Context, Domain, MCPToolUseBlock) (*types.Part, error) {
			return nil, &UnsupportedFeatureError{Feature: string(KindMCPToolUse)}
		},
	)
}
