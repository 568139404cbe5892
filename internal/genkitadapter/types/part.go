package types

import "encoding/json"

// Part is one piece of message content. At most one of Text, Reasoning, Media,
// ToolRequest and ToolResponse is expected to be set; Custom may accompany any
// of them.
type Part struct {
	Text         string        `json:"text,omitempty"`
	Reasoning    string        `json:"reasoning,omitempty"`
	Media        *Media        `json:"media,omitempty"`
	ToolRequest  *ToolRequest  `json:"toolRequest,omitempty"`
	ToolResponse *ToolResponse `json:"toolResponse,omitempty"`
	Custom       *Custom       `json:"custom,omitempty"`
}

// Media references inline (data: URL) or remote content.
type Media struct {
	URL         string `json:"url"`
	ContentType string `json:"contentType,omitempty"`
}

// ToolRequest is a model-issued call of a client-side tool.
type ToolRequest struct {
	Ref   string          `json:"ref,omitempty"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input,omitempty"`
}

// ToolResponse carries the client's result for a previous ToolRequest.
type ToolResponse struct {
	Ref    string `json:"ref,omitempty"`
	Name   string `json:"name"`
	Output any    `json:"output,omitempty"`
}

// NewTextPart returns a text part.
func NewTextPart(text string) *Part {
	return &Part{Text: text}
}

// NewReasoningPart returns a reasoning part.
func NewReasoningPart(reasoning string) *Part {
	return &Part{Reasoning: reasoning}
}

// NewMediaPart returns a media part.
func NewMediaPart(contentType, url string) *Part {
	return &Part{Media: &Media{URL: url, ContentType: contentType}}
}

// NewToolRequestPart returns a tool request part.
func NewToolRequestPart(req *ToolRequest) *Part {
	return &Part{ToolRequest: req}
}

// NewToolResponsePart returns a tool response part.
func NewToolResponsePart(resp *ToolResponse) *Part {
	return &Part{ToolResponse: resp}
}

// IsEmpty reports whether the part carries neither content nor custom metadata.
// Stream-start text blocks typically produce empty parts.
func (p *Part) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.Text == "" && p.Reasoning == "" && p.Media == nil &&
		p.ToolRequest == nil && p.ToolResponse == nil && p.Custom.IsEmpty()
}
