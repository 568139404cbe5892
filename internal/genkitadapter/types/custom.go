package types

import (
	"encoding/json"
	"fmt"
	"maps"
)

// Keys of the vendor extensions carried in Part.Custom. The thinking signature
// key is read back when a reasoning part is sent to the vendor again, so
// producers and consumers must agree on it.
const (
	ThinkingSignatureKey = "anthropicThinking"
	RedactedThinkingKey  = "redactedThinking"
	ServerToolUseKey     = "anthropicServerToolUse"
	ServerToolResultKey  = "anthropicServerToolResult"
)

// Custom holds vendor-specific metadata attached to a Part.
type Custom struct {
	ThinkingSignature *ThinkingSignature
	RedactedThinking  *RedactedThinking
	ServerToolUse     *ServerToolUse
	ServerToolResult  *ServerToolResult

	// Extra keeps unrecognised keys verbatim.
	Extra map[string]json.RawMessage
}

// ThinkingSignature is the opaque signature of a thinking block. The vendor
// requires it to be echoed back unchanged.
type ThinkingSignature struct {
	Signature string `json:"signature"`
}

// RedactedThinking is an encrypted reasoning trace; preserved, never displayed.
type RedactedThinking struct {
	Data string
}

// ServerToolUse records a tool the vendor executed on its side.
type ServerToolUse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input,omitempty"`
}

// ServerToolResult records the outcome of a server-side tool call. Content is
// passed through uninterpreted.
type ServerToolResult struct {
	Type      string          `json:"type"`
	ToolUseID string          `json:"toolUseId"`
	Content   json.RawMessage `json:"content,omitempty"`
}

// IsEmpty reports whether no extension is set.
func (c *Custom) IsEmpty() bool {
	if c == nil {
		return true
	}
	return c.ThinkingSignature == nil && c.RedactedThinking == nil &&
		c.ServerToolUse == nil && c.ServerToolResult == nil && len(c.Extra) == 0
}

// MarshalJSON flattens the typed extensions and Extra into one object.
func (c Custom) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Extra)+4)
	for k, v := range c.Extra {
		out[k] = v
	}
	if c.ThinkingSignature != nil {
		out[ThinkingSignatureKey] = c.ThinkingSignature
	}
	if c.RedactedThinking != nil {
		out[RedactedThinkingKey] = c.RedactedThinking.Data
	}
	if c.ServerToolUse != nil {
		out[ServerToolUseKey] = c.ServerToolUse
	}
	if c.ServerToolResult != nil {
		out[ServerToolResultKey] = c.ServerToolResult
	}
	return json.Marshal(out)
}

// UnmarshalJSON routes known keys into their typed payloads.
func (c *Custom) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode custom part data: %w", err)
	}

	*c = Custom{}
	for key, value := range raw {
		var err error
		switch key {
		case ThinkingSignatureKey:
			c.ThinkingSignature = &ThinkingSignature{}
			err = json.Unmarshal(value, c.ThinkingSignature)
		case RedactedThinkingKey:
			c.RedactedThinking = &RedactedThinking{}
			err = json.Unmarshal(value, &c.RedactedThinking.Data)
		case ServerToolUseKey:
			c.ServerToolUse = &ServerToolUse{}
			err = json.Unmarshal(value, c.ServerToolUse)
		case ServerToolResultKey:
			c.ServerToolResult = &ServerToolResult{}
			err = json.Unmarshal(value, c.ServerToolResult)
		default:
			if c.Extra == nil {
				c.Extra = make(map[string]json.RawMessage)
			}
			c.Extra[key] = value
		}
		if err != nil {
			return fmt.Errorf("decode custom %q: %w", key, err)
		}
	}
	return nil
}

// Clone returns a deep copy of the typed payloads and a shallow copy of Extra.
func (c *Custom) Clone() *Custom {
	if c == nil {
		return nil
	}
	out := *c
	if c.ThinkingSignature != nil {
		v := *c.ThinkingSignature
		out.ThinkingSignature = &v
	}
	if c.RedactedThinking != nil {
		v := *c.RedactedThinking
		out.RedactedThinking = &v
	}
	if c.ServerToolUse != nil {
		v := *c.ServerToolUse
		out.ServerToolUse = &v
	}
	if c.ServerToolResult != nil {
		v := *c.ServerToolResult
		out.ServerToolResult = &v
	}
	out.Extra = maps.Clone(c.Extra)
	return &out
}
