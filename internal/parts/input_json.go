package parts

import "github.com/florianilch/claudine-genkit/internal/genkitadapter/types"

// InputJSONDeltaAbility accepts streamed tool input fragments. The fragments
// are accumulated by the Assembler and parsed when the block stops, so the
// delta itself yields no part.
func InputJSONDeltaAbility() Ability {
	return NewAbility(
		[]Kind{KindInputJSONDelta},
		[]Context{StreamDelta},
		[]Domain{ContentBlock},
		func(Context, Domain, InputJSONDelta) (*types.Part, error) {
			return nil, nil
		},
	)
}
