package parts

import (
	"bytes"
	"encoding/json"
)

// DefaultAbilities returns the built-in abilities in registration order.
func DefaultAbilities() []Ability {
	return []Ability{
		TextAbility(),
		ToolUseAbility(),
		InputJSONDeltaAbility(),
		ThinkingAbility(),
		ThinkingDeltaAbility(),
		SignatureDeltaAbility(),
		RedactedThinkingAbility(),
		ServerToolUseAbility(),
		WebSearchToolResultAbility(),
		MCPToolUseAbility(),
	}
}

// compactJSON renders raw JSON without insignificant whitespace. Empty input
// renders as null, invalid input verbatim.
func compactJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
