package parts

import (
	"encoding/json"
	"fmt"
)

// Kind is the vendor type tag of a content block or delta.
type Kind string

const (
	KindText                Kind = "text"
	KindTextDelta           Kind = "text_delta"
	KindToolUse             Kind = "tool_use"
	KindInputJSONDelta      Kind = "input_json_delta"
	KindThinking            Kind = "thinking"
	KindThinkingDelta       Kind = "thinking_delta"
	KindSignatureDelta      Kind = "signature_delta"
	KindRedactedThinking    Kind = "redacted_thinking"
	KindServerToolUse       Kind = "server_tool_use"
	KindWebSearchToolResult Kind = "web_search_tool_result"
	KindMCPToolUse          Kind = "mcp_tool_use"
)

// Block is a vendor content block or stream delta, tagged by its Kind.
type Block interface {
	Kind() Kind
}

// TextBlock is a text run. Delta marks a text_delta fragment.
type TextBlock struct {
	Text  string
	Delta bool
}

func (b TextBlock) Kind() Kind {
	if b.Delta {
		return KindTextDelta
	}
	return KindText
}

// ToolUseBlock is a model request to call a client-side tool.
type ToolUseBlock struct {
	ID    string
	Name  string
	Input json.RawMessage
}

func (ToolUseBlock) Kind() Kind { return KindToolUse }

// InputJSONDelta is a raw fragment of a streamed tool input document.
type InputJSONDelta struct {
	PartialJSON string
}

func (InputJSONDelta) Kind() Kind { return KindInputJSONDelta }

// ThinkingBlock is a reasoning trace with its round-trip signature.
type ThinkingBlock struct {
	Thinking  string
	Signature string
}

func (ThinkingBlock) Kind() Kind { return KindThinking }

// ThinkingDelta is a reasoning fragment.
type ThinkingDelta struct {
	Thinking string
}

func (ThinkingDelta) Kind() Kind { return KindThinkingDelta }

// SignatureDelta delivers the signature of a streamed thinking block.
type SignatureDelta struct {
	Signature string
}

func (SignatureDelta) Kind() Kind { return KindSignatureDelta }

// RedactedThinkingBlock is an encrypted reasoning trace.
type RedactedThinkingBlock struct {
	Data string
}

func (RedactedThinkingBlock) Kind() Kind { return KindRedactedThinking }

// ServerToolUseBlock is a tool call executed by the vendor. ServerName is set
// for namespaced (MCP connector) tools.
type ServerToolUseBlock struct {
	ID         string
	Name       string
	ServerName string
	Input      json.RawMessage
}

func (ServerToolUseBlock) Kind() Kind { return KindServerToolUse }

// WebSearchToolResultBlock is the result of the vendor's web search tool.
type WebSearchToolResultBlock struct {
	ToolUseID string
	Content   json.RawMessage
}

func (WebSearchToolResultBlock) Kind() Kind { return KindWebSearchToolResult }

// MCPToolUseBlock is a beta MCP connector call. It is recognized but not supported.
type MCPToolUseBlock struct {
	ID         string
	Name       string
	ServerName string
	Input      json.RawMessage
}

func (MCPToolUseBlock) Kind() Kind { return KindMCPToolUse }

// UnknownBlock preserves a block whose tag this package does not model.
type UnknownBlock struct {
	Type string
	Raw  json.RawMessage
}

func (b UnknownBlock) Kind() Kind { return Kind(b.Type) }

// wireBlock is the union of all fields read from vendor block JSON.
type wireBlock struct {
	Type        string          `json:"type"`
	Text        string          `json:"text"`
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	ServerName  string          `json:"server_name"`
	Input       json.RawMessage `json:"input"`
	PartialJSON string          `json:"partial_json"`
	Thinking    string          `json:"thinking"`
	Signature   string          `json:"signature"`
	Data        string          `json:"data"`
	ToolUseID   string          `json:"tool_use_id"`
	Content     json.RawMessage `json:"content"`
}

// DecodeBlock decodes a vendor content block or delta from its JSON form,
// selecting the variant by the "type" tag. Unmodelled tags decode to UnknownBlock.
func DecodeBlock(data []byte) (Block, error) {
	var w wireBlock
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode content block: %w", err)
	}

	switch Kind(w.Type) {
	case KindText:
		return TextBlock{Text: w.Text}, nil
	case KindTextDelta:
		return TextBlock{Text: w.Text, Delta: true}, nil
	case KindToolUse:
		return ToolUseBlock{ID: w.ID, Name: w.Name, Input: w.Input}, nil
	case KindInputJSONDelta:
		return InputJSONDelta{PartialJSON: w.PartialJSON}, nil
	case KindThinking:
		return ThinkingBlock{Thinking: w.Thinking, Signature: w.Signature}, nil
	case KindThinkingDelta:
		return ThinkingDelta{Thinking: w.Thinking}, nil
	case KindSignatureDelta:
		return SignatureDelta{Signature: w.Signature}, nil
	case KindRedactedThinking:
		return RedactedThinkingBlock{Data: w.Data}, nil
	case KindServerToolUse:
		return ServerToolUseBlock{ID: w.ID, Name: w.Name, ServerName: w.ServerName, Input: w.Input}, nil
	case KindWebSearchToolResult:
		return WebSearchToolResultBlock{ToolUseID: w.ToolUseID, Content: w.Content}, nil
	case KindMCPToolUse:
		return MCPToolUseBlock{ID: w.ID, Name: w.Name, ServerName: w.ServerName, Input: w.Input}, nil
	case "":
		return nil, fmt.Errorf("decode content block: missing type tag")
	default:
		return UnknownBlock{Type: w.Type, Raw: append(json.RawMessage(nil), data...)}, nil
	}
}
