package parts

import "github.com/florianilch/claudine-genkit/internal/genkitadapter/types"

// TextAbility converts text blocks and text deltas into text parts.
func TextAbility() Ability {
	return NewAbility(
		[]Kind{KindText, KindTextDelta},
		[]Context{NonStream, StreamStart, StreamDelta},
		[]Domain{ContentBlock},
		func(_ Context, _ Domain, block TextBlock) (*types.Part, error) {
			return types.NewTextPart(block.Text), nil
		},
	)
}
