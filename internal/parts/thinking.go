package parts

import "github.com/florianilch/claudine-genkit/internal/genkitadapter/types"

// ThinkingAbility converts complete thinking blocks into reasoning parts that
// carry the signature needed to send the block back to the vendor.
func ThinkingAbility() Ability {
	return NewAbility(
		[]Kind{KindThinking},
		[]Context{NonStream, StreamStart},
		[]Domain{ContentBlock},
		func(_ Context, _ Domain, block ThinkingBlock) (*types.Part, error) {
			return newThinkingPart(block.Thinking, block.Signature), nil
		},
	)
}

// ThinkingDeltaAbility converts thinking deltas into bare reasoning parts.
// Signatures only arrive when the block is finalized.
func ThinkingDeltaAbility() Ability {
	return NewAbility(
		[]Kind{KindThinkingDelta},
		[]Context{StreamDelta},
		[]Domain{ContentBlock},
		func(_ Context, _ Domain, delta ThinkingDelta) (*types.Part, error) {
			return types.NewReasoningPart(delta.Thinking), nil
		},
	)
}

// SignatureDeltaAbility accepts the signature delta of a streamed thinking
// block. The Assembler stores it on the block; no part is emitted.
func SignatureDeltaAbility() Ability {
	return NewAbility(
		[]Kind{KindSignatureDelta},
		[]Context{StreamDelta},
		[]Domain{ContentBlock},
		func(Context, Domain, SignatureDelta) (*types.Part, error) {
			return nil, nil
		},
	)
}

// newThinkingPart omits Custom entirely when there is no signature.
func newThinkingPart(thinking, signature string) *types.Part {
	part := types.NewReasoningPart(thinking)
	if signature != "" {
		part.Custom = &types.Custom{
			ThinkingSignature: &types.ThinkingSignature{Signature: signature},
		}
	}
	return part
}
