package parts

import "github.com/florianilch/claudine-genkit/internal/genkitadapter/types"

// RedactedThinkingAbility preserves redacted thinking as opaque custom data.
func RedactedThinkingAbility() Ability {
	return NewAbility(
		[]Kind{KindRedactedThinking},
		[]Context{NonStream, StreamStart},
		[]Domain{ContentBlock},
		func(_ Context, _ Domain, block RedactedThinkingBlock) (*types.Part, error) {
			return &types.Part{
				Custom: &types.Custom{
					RedactedThinking: &types.RedactedThinking{Data: block.Data},
				},
			}, nil
		},
	)
}
