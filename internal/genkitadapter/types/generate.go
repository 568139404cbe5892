package types

// Role identifies the author of a message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
	RoleModel  Role = "model"
	RoleTool   Role = "tool"
)

// Message is an ordered list of parts from a single author.
type Message struct {
	Role    Role    `json:"role"`
	Content []*Part `json:"content"`
}

// Text concatenates the text of all parts.
func (m *Message) Text() string {
	if m == nil {
		return ""
	}
	var text string
	for _, p := range m.Content {
		text += p.Text
	}
	return text
}

// Reasoning concatenates the reasoning of all parts.
func (m *Message) Reasoning() string {
	if m == nil {
		return ""
	}
	var reasoning string
	for _, p := range m.Content {
		reasoning += p.Reasoning
	}
	return reasoning
}

// ToolDefinition describes a client-side tool the model may call.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"inputSchema,omitempty"`
}

// ToolChoice constrains which tool the model uses.
type ToolChoice struct {
	// Type is one of "auto", "any" or "tool".
	Type string `json:"type" validate:"oneof=auto any tool"`
	// Name is required when Type is "tool".
	Name string `json:"name,omitempty" validate:"required_if=Type tool"`
}

// ThinkingConfig enables extended thinking.
type ThinkingConfig struct {
	Enabled      bool `json:"enabled,omitempty"`
	BudgetTokens int  `json:"budgetTokens,omitempty" validate:"omitempty,min=1024"`
}

// BetaConfig selects vendor beta surfaces for a request.
type BetaConfig struct {
	Enabled *bool    `json:"enabled,omitempty"`
	APIs    []string `json:"apis,omitempty"`
}

// GenerationConfig holds sampling parameters and vendor options.
type GenerationConfig struct {
	// Version overrides the vendor model identifier.
	Version         string          `json:"version,omitempty"`
	MaxOutputTokens int             `json:"maxOutputTokens,omitempty" validate:"omitempty,min=1"`
	Temperature     *float64        `json:"temperature,omitempty" validate:"omitempty,min=0,max=1"`
	TopK            *int            `json:"topK,omitempty" validate:"omitempty,min=0"`
	TopP            *float64        `json:"topP,omitempty" validate:"omitempty,min=0,max=1"`
	StopSequences   []string        `json:"stopSequences,omitempty"`
	UserID          string          `json:"userId,omitempty"`
	ToolChoice      *ToolChoice     `json:"toolChoice,omitempty"`
	Thinking        *ThinkingConfig `json:"thinking,omitempty"`
	Beta            *BetaConfig     `json:"beta,omitempty"`
	// WebSearch enables the vendor-executed web search tool with the given
	// maximum number of uses.
	WebSearch *WebSearchConfig `json:"webSearch,omitempty"`
}

// WebSearchConfig configures the server-side web search tool.
type WebSearchConfig struct {
	MaxUses int `json:"maxUses,omitempty" validate:"omitempty,min=1"`
}

// OutputConfig requests a response format.
type OutputConfig struct {
	Format string `json:"format,omitempty"`
}

// GenerateRequest is a vendor-neutral generation request.
type GenerateRequest struct {
	Model    string            `json:"model,omitempty"`
	Messages []*Message        `json:"messages" validate:"required,min=1"`
	Config   *GenerationConfig `json:"config,omitempty"`
	Tools    []*ToolDefinition `json:"tools,omitempty"`
	Output   *OutputConfig     `json:"output,omitempty"`
	Stream   bool              `json:"stream,omitempty"`
}

// FinishReason explains why generation stopped.
type FinishReason string

const (
	FinishReasonStop    FinishReason = "stop"
	FinishReasonLength  FinishReason = "length"
	FinishReasonOther   FinishReason = "other"
	FinishReasonUnknown FinishReason = "unknown"
)

// Usage reports token accounting.
type Usage struct {
	InputTokens         int `json:"inputTokens"`
	OutputTokens        int `json:"outputTokens"`
	CachedContentTokens int `json:"cachedContentTokens,omitempty"`
	CacheWriteTokens    int `json:"cacheWriteTokens,omitempty"`
}

// GenerateResponse is the final result of a generation.
type GenerateResponse struct {
	ID            string       `json:"id,omitempty"`
	Message       *Message     `json:"message"`
	FinishReason  FinishReason `json:"finishReason"`
	FinishMessage string       `json:"finishMessage,omitempty"`
	Usage         *Usage       `json:"usage,omitempty"`
}

// GenerateChunk is one streamed increment. Exactly one of Content or Response
// is set: content chunks while streaming, the final response last.
type GenerateChunk struct {
	Index    int               `json:"index"`
	Role     Role              `json:"role,omitempty"`
	Content  []*Part           `json:"content,omitempty"`
	Response *GenerateResponse `json:"response,omitempty"`
}
