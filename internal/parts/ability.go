package parts

import (
	"slices"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter/types"
)

// ConvertFunc converts a block narrowed to B into a part. A nil part with a
// nil error means the block contributes no part (e.g. accumulation-only deltas).
type ConvertFunc[B Block] func(when Context, what Domain, block B) (*types.Part, error)

// Ability describes how one or more block kinds convert to parts and in which
// contexts and domains that conversion is valid.
type Ability struct {
	kinds    []Kind
	contexts []Context
	domains  []Domain
	convert  func(Context, Domain, Block) (*types.Part, error)
}

// NewAbility builds an Ability whose conversion function receives the block
// already narrowed to B. Convert re-checks the tag and the Go type before
// calling fn, so the ability stays correct even when invoked directly.
// It panics if kinds, contexts or domains is empty.
func NewAbility[B Block](kinds []Kind, contexts []Context, domains []Domain, fn ConvertFunc[B]) Ability {
	if len(kinds) == 0 || len(contexts) == 0 || len(domains) == 0 {
		panic("parts: ability requires at least one kind, context and domain")
	}

	a := Ability{
		kinds:    slices.Clone(kinds),
		contexts: slices.Clone(contexts),
		domains:  slices.Clone(domains),
	}
	a.convert = func(when Context, what Domain, block Block) (*types.Part, error) {
		if block == nil || !slices.Contains(a.kinds, block.Kind()) {
			return nil, a.mismatch(when, what, block)
		}
		narrowed, ok := block.(B)
		if !ok {
			return nil, a.mismatch(when, what, block)
		}
		return fn(when, what, narrowed)
	}
	return a
}

// Kinds returns the block kinds the ability handles.
func (a Ability) Kinds() []Kind { return slices.Clone(a.kinds) }

// Handles reports whether the ability accepts kind in the given context and domain.
func (a Ability) Handles(kind Kind, when Context, what Domain) bool {
	return slices.Contains(a.kinds, kind) &&
		slices.Contains(a.contexts, when) &&
		slices.Contains(a.domains, what)
}

// Convert converts block into a part, failing with *TypeMismatchError when the
// block's tag is not one of the ability's kinds.
func (a Ability) Convert(when Context, what Domain, block Block) (*types.Part, error) {
	return a.convert(when, what, block)
}

func (a Ability) mismatch(when Context, what Domain, block Block) error {
	var got Kind
	if block != nil {
		got = block.Kind()
	}
	return &TypeMismatchError{Kinds: a.Kinds(), Got: got, Context: when, Domain: what}
}
