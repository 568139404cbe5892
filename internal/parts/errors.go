package parts

import (
	"fmt"
	"strings"
)

// TypeMismatchError reports an ability invoked with a block it does not
// declare. It always indicates a programming error.
type TypeMismatchError struct {
	Kinds   []Kind
	Got     Kind
	Context Context
	Domain  Domain
}

func (e *TypeMismatchError) Error() string {
	expected := make([]string, len(e.Kinds))
	for i, k := range e.Kinds {
		expected[i] = string(k)
	}
	return fmt.Sprintf("part %q is not supported for %s in %s (ability handles %s)",
		e.Got, e.Context, e.Domain, strings.Join(expected, ", "))
}

// UnsupportedBlockError reports that no registered ability handles the block
// kind in the given context and domain.
type UnsupportedBlockError struct {
	Kind    Kind
	Context Context
	Domain  Domain
}

func (e *UnsupportedBlockError) Error() string {
	return fmt.Sprintf("unsupported content block %q for %s in %s", e.Kind, e.Context, e.Domain)
}

// UnsupportedFeatureError reports a recognized vendor feature that is
// deliberately not implemented.
type UnsupportedFeatureError struct {
	Feature string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("Anthropic beta server tool block %q is not supported yet", e.Feature)
}

// DuplicateAbilityError reports an ability whose kind, context and domain
// overlap an already registered ability.
type DuplicateAbilityError struct {
	Kind    Kind
	Context Context
	Domain  Domain
}

func (e *DuplicateAbilityError) Error() string {
	return fmt.Sprintf("ability for %q at %s in %s already registered", e.Kind, e.Context, e.Domain)
}

// MalformedToolInputError reports a streamed tool input that is not a valid
// JSON document once all fragments arrived. The stream cannot continue.
type MalformedToolInputError struct {
	Index int
	Input string
	Err   error
}

func (e *MalformedToolInputError) Error() string {
	return fmt.Sprintf("malformed tool input JSON for block %d: %v", e.Index, e.Err)
}

func (e *MalformedToolInputError) Unwrap() error {
	return e.Err
}
