// Package parts converts Anthropic content blocks into generic message parts.
//
// Each supported block kind is described by an Ability: the kind tags it
// accepts, the temporal contexts it is valid in (stream start, stream delta,
// stream end, non-stream) and a typed conversion function. Abilities are
// collected in a Registry, which dispatches an incoming block to the first
// ability registered for its tag, context and domain.
//
// Adding a new vendor block kind means adding one Ability:
//
//	reg, err := parts.NewRegistry(append(parts.DefaultAbilities(), myAbility)...)
//
// The Assembler merges stream events (block start, deltas, block stop) into
// complete blocks and routes every event through the Registry with the
// matching context. Tool input JSON streamed as input_json_delta fragments is
// parsed exactly once, when its block stops.
package parts
