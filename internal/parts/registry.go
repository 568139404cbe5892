package parts

import (
	"github.com/florianilch/claudine-genkit/internal/genkitadapter/types"
)

// Registry dispatches blocks to abilities by kind tag. Abilities sharing a tag
// are tried in registration order.
//
// A Registry is populated at construction and read-only afterwards; Dispatch
// is safe for concurrent use.
type Registry struct {
	byKind map[Kind][]Ability
}

// NewRegistry returns a registry holding the given abilities.
func NewRegistry(abilities ...Ability) (*Registry, error) {
	r := &Registry{byKind: make(map[Kind][]Ability)}
	for _, a := range abilities {
		if err := r.register(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRegistry returns a registry with every built-in ability.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultAbilities()...)
	if err != nil {
		// Built-in abilities never overlap.
		panic(err)
	}
	return r
}

// register appends a, rejecting any overlap with an ability already
// registered for the same kind, context and domain.
func (r *Registry) register(a Ability) error {
	for _, kind := range a.kinds {
		for _, existing := range r.byKind[kind] {
			for _, when := range a.contexts {
				for _, what := range a.domains {
					if existing.Handles(kind, when, what) {
						return &DuplicateAbilityError{Kind: kind, Context: when, Domain: what}
					}
				}
			}
		}
	}
	for _, kind := range a.kinds {
		r.byKind[kind] = append(r.byKind[kind], a)
	}
	return nil
}

// Supports reports whether some ability converts kind in the given context and domain.
func (r *Registry) Supports(kind Kind, when Context, what Domain) bool {
	_, ok := r.lookup(kind, when, what)
	return ok
}

// Dispatch converts block with the first ability registered for its kind,
// context and domain. It fails with *UnsupportedBlockError when none matches.
func (r *Registry) Dispatch(when Context, what Domain, block Block) (*types.Part, error) {
	if block == nil {
		return nil, &UnsupportedBlockError{Context: when, Domain: what}
	}
	a, ok := r.lookup(block.Kind(), when, what)
	if !ok {
		return nil, &UnsupportedBlockError{Kind: block.Kind(), Context: when, Domain: what}
	}
	return a.Convert(when, what, block)
}

func (r *Registry) lookup(kind Kind, when Context, what Domain) (Ability, bool) {
	for _, a := range r.byKind[kind] {
		if a.Handles(kind, when, what) {
			return a, true
		}
	}
	return Ability{}, false
}
