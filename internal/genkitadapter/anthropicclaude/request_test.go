package anthropicclaude

import (
	"encoding/json"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter/types"
)

func ptr[T any](v T) *T { return &v }

func textMessage(role types.Role, text string) *types.Message {
	return &types.Message{Role: role, Content: []*types.Part{types.NewTextPart(text)}}
}

// paramsJSON renders params the way they are sent on the wire.
func paramsJSON(t *testing.T, params anthropic.MessageNewParams) map[string]any {
	t.Helper()
	data, err := json.Marshal(params)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestBuildRequest_SystemAndRoles(t *testing.T) {
	r := newTestRunner(t, &stubMessagesClient{}, Options{CacheSystemPrompt: true})

	params, err := r.buildRequest(&types.GenerateRequest{
		Messages: []*types.Message{
			textMessage(types.RoleSystem, "Be brief."),
			textMessage(types.RoleUser, "Weather in Tokyo?"),
			{Role: types.RoleModel, Content: []*types.Part{types.NewToolRequestPart(&types.ToolRequest{
				Ref: "t1", Name: "lookup", Input: json.RawMessage(`{"city":"Tokyo"}`),
			})}},
			{Role: types.RoleTool, Content: []*types.Part{types.NewToolResponsePart(&types.ToolResponse{
				Ref: "t1", Name: "lookup", Output: "sunny",
			})}},
			textMessage(types.RoleUser, "And tomorrow?"),
			textMessage(types.RoleSystem, "Use Celsius."),
		},
	})
	require.NoError(t, err)

	require.Len(t, params.System, 1)
	assert.Equal(t, "Be brief.\n\nUse Celsius.", params.System[0].Text)

	// The tool message and the following user message share the user role.
	require.Len(t, params.Messages, 3)
	assert.Equal(t, anthropic.MessageParamRoleUser, params.Messages[0].Role)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, params.Messages[1].Role)
	assert.Equal(t, anthropic.MessageParamRoleUser, params.Messages[2].Role)
	require.Len(t, params.Messages[2].Content, 2)
	assert.NotNil(t, params.Messages[2].Content[0].OfToolResult)
	assert.NotNil(t, params.Messages[2].Content[1].OfText)

	wire := paramsJSON(t, params)
	system := wire["system"].([]any)[0].(map[string]any)
	assert.Equal(t, map[string]any{"type": "ephemeral"}, system["cache_control"])
}

func TestBuildRequest_SystemWithoutCache(t *testing.T) {
	r := newTestRunner(t, &stubMessagesClient{}, Options{})

	params, err := r.buildRequest(&types.GenerateRequest{
		Messages: []*types.Message{
			textMessage(types.RoleSystem, "Be brief."),
			textMessage(types.RoleUser, "hi"),
		},
	})
	require.NoError(t, err)

	system := paramsJSON(t, params)["system"].([]any)[0].(map[string]any)
	assert.NotContains(t, system, "cache_control")
}

func TestBuildRequest_Defaults(t *testing.T) {
	r := newTestRunner(t, &stubMessagesClient{}, Options{DefaultModel: "claude-haiku-4-5"})

	params, err := r.buildRequest(&types.GenerateRequest{
		Messages: []*types.Message{textMessage(types.RoleUser, "hi")},
	})
	require.NoError(t, err)

	assert.Equal(t, anthropic.Model("claude-haiku-4-5"), params.Model)
	assert.Equal(t, int64(DefaultMaxOutputTokens), params.MaxTokens)
	assert.Empty(t, params.System)
	assert.Empty(t, params.Tools)

	wire := paramsJSON(t, params)
	for _, key := range []string{"thinking", "tool_choice", "top_k", "top_p", "temperature", "metadata"} {
		assert.NotContains(t, wire, key)
	}
}

func TestBuildRequest_ModelResolution(t *testing.T) {
	r := newTestRunner(t, &stubMessagesClient{}, Options{DefaultModel: "claude-default"})

	tests := []struct {
		name    string
		model   string
		version string
		want    anthropic.Model
	}{
		{"default", "", "", "claude-default"},
		{"requested", "claude-opus-4-1", "", "claude-opus-4-1"},
		{"namespaced", "anthropic/claude-opus-4-1", "", "claude-opus-4-1"},
		{"version wins", "anthropic/claude-opus-4-1", "claude-opus-4-1-20250805", "claude-opus-4-1-20250805"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := r.buildRequest(&types.GenerateRequest{
				Model:    tt.model,
				Messages: []*types.Message{textMessage(types.RoleUser, "hi")},
				Config:   &types.GenerationConfig{Version: tt.version},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, params.Model)
		})
	}
}

func TestBuildRequest_MissingModel(t *testing.T) {
	r, err := New(&stubMessagesClient{}, Options{})
	require.NoError(t, err)

	_, err = r.buildRequest(&types.GenerateRequest{
		Messages: []*types.Message{textMessage(types.RoleUser, "hi")},
	})
	require.ErrorContains(t, err, "model identifier is required")
}

func TestBuildRequest_SamplingAndMetadata(t *testing.T) {
	r := newTestRunner(t, &stubMessagesClient{}, Options{MaxOutputTokens: 2048})

	params, err := r.buildRequest(&types.GenerateRequest{
		Messages: []*types.Message{textMessage(types.RoleUser, "hi")},
		Config: &types.GenerationConfig{
			MaxOutputTokens: 512,
			Temperature:     ptr(0.2),
			TopK:            ptr(40),
			TopP:            ptr(0.9),
			StopSequences:   []string{"END"},
			UserID:          "user-42",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(512), params.MaxTokens)
	assert.Equal(t, []string{"END"}, params.StopSequences)

	wire := paramsJSON(t, params)
	assert.InDelta(t, 0.2, wire["temperature"], 1e-9)
	assert.InDelta(t, 40, wire["top_k"], 1e-9)
	assert.InDelta(t, 0.9, wire["top_p"], 1e-9)
	assert.Equal(t, map[string]any{"user_id": "user-42"}, wire["metadata"])
}

func TestBuildRequest_RunnerMaxTokens(t *testing.T) {
	r := newTestRunner(t, &stubMessagesClient{}, Options{MaxOutputTokens: 2048})

	params, err := r.buildRequest(&types.GenerateRequest{
		Messages: []*types.Message{textMessage(types.RoleUser, "hi")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2048), params.MaxTokens)
}

func TestBuildRequest_Tools(t *testing.T) {
	r := newTestRunner(t, &stubMessagesClient{}, Options{})

	params, err := r.buildRequest(&types.GenerateRequest{
		Messages: []*types.Message{textMessage(types.RoleUser, "Weather in Tokyo?")},
		Tools: []*types.ToolDefinition{{
			Name:        "lookup",
			Description: "Look up the weather",
			InputSchema: map[string]any{
				"type":                 "object",
				"properties":           map[string]any{"city": map[string]any{"type": "string"}},
				"required":             []any{"city"},
				"additionalProperties": false,
			},
		}},
		Config: &types.GenerationConfig{
			ToolChoice: &types.ToolChoice{Type: "tool", Name: "lookup"},
			WebSearch:  &types.WebSearchConfig{MaxUses: 3},
		},
	})
	require.NoError(t, err)

	require.Len(t, params.Tools, 2)
	require.NotNil(t, params.Tools[0].OfWebSearchTool20250305)
	require.NotNil(t, params.Tools[1].OfTool)
	assert.Equal(t, []string{"city"}, params.Tools[1].OfTool.InputSchema.Required)

	wire := paramsJSON(t, params)
	tools := wire["tools"].([]any)

	search := tools[0].(map[string]any)
	assert.Equal(t, "web_search", search["name"])
	assert.InDelta(t, 3, search["max_uses"], 1e-9)

	lookup := tools[1].(map[string]any)
	assert.Equal(t, "lookup", lookup["name"])
	assert.Equal(t, "Look up the weather", lookup["description"])
	schema := lookup["input_schema"].(map[string]any)
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, false, schema["additionalProperties"])
	assert.Equal(t, []any{"city"}, schema["required"])

	assert.Equal(t, map[string]any{"type": "tool", "name": "lookup"}, wire["tool_choice"])
}

func TestBuildRequest_ToolChoice(t *testing.T) {
	r := newTestRunner(t, &stubMessagesClient{}, Options{})
	tools := []*types.ToolDefinition{{Name: "lookup"}}

	tests := []struct {
		name    string
		choice  *types.ToolChoice
		wantErr string
		check   func(t *testing.T, c anthropic.ToolChoiceUnionParam)
	}{
		{name: "auto", choice: &types.ToolChoice{Type: "auto"}, check: func(t *testing.T, c anthropic.ToolChoiceUnionParam) {
			assert.NotNil(t, c.OfAuto)
		}},
		{name: "any", choice: &types.ToolChoice{Type: "any"}, check: func(t *testing.T, c anthropic.ToolChoiceUnionParam) {
			assert.NotNil(t, c.OfAny)
		}},
		{name: "unknown tool", choice: &types.ToolChoice{Type: "tool", Name: "missing"}, wantErr: "does not match any tool"},
		{name: "tool without name", choice: &types.ToolChoice{Type: "tool"}, wantErr: "requires a tool name"},
		{name: "none", choice: &types.ToolChoice{Type: "none"}, wantErr: "unsupported tool choice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := r.buildRequest(&types.GenerateRequest{
				Messages: []*types.Message{textMessage(types.RoleUser, "hi")},
				Tools:    tools,
				Config:   &types.GenerationConfig{ToolChoice: tt.choice},
			})
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				assert.True(t, isConversionError(err))
				return
			}
			require.NoError(t, err)
			tt.check(t, params.ToolChoice)
		})
	}
}

func TestBuildRequest_InvalidToolSchema(t *testing.T) {
	r := newTestRunner(t, &stubMessagesClient{}, Options{})

	tests := []struct {
		name string
		tool *types.ToolDefinition
	}{
		{"null tool", nil},
		{"missing name", &types.ToolDefinition{}},
		{"non-object schema", &types.ToolDefinition{Name: "x", InputSchema: map[string]any{"type": "string"}}},
		{"bad keyword value", &types.ToolDefinition{Name: "x", InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"n": map[string]any{"type": 12}},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.buildRequest(&types.GenerateRequest{
				Messages: []*types.Message{textMessage(types.RoleUser, "hi")},
				Tools:    []*types.ToolDefinition{tt.tool},
			})
			require.Error(t, err)
			assert.True(t, isConversionError(err))
		})
	}
}

func TestBuildRequest_Thinking(t *testing.T) {
	r := newTestRunner(t, &stubMessagesClient{}, Options{})

	tests := []struct {
		name     string
		thinking *types.ThinkingConfig
		wantErr  string
		wantWire map[string]any
	}{
		{name: "enabled", thinking: &types.ThinkingConfig{Enabled: true, BudgetTokens: 2048},
			wantWire: map[string]any{"type": "enabled", "budget_tokens": float64(2048)}},
		{name: "disabled", thinking: &types.ThinkingConfig{},
			wantWire: map[string]any{"type": "disabled"}},
		{name: "missing budget", thinking: &types.ThinkingConfig{Enabled: true}, wantErr: "budgetTokens is required"},
		{name: "budget too small", thinking: &types.ThinkingConfig{Enabled: true, BudgetTokens: 512}, wantErr: "must be >= 1024"},
		{name: "budget above max tokens", thinking: &types.ThinkingConfig{Enabled: true, BudgetTokens: DefaultMaxOutputTokens}, wantErr: "less than max output tokens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := r.buildRequest(&types.GenerateRequest{
				Messages: []*types.Message{textMessage(types.RoleUser, "hi")},
				Config:   &types.GenerationConfig{Thinking: tt.thinking},
			})
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantWire, paramsJSON(t, params)["thinking"])
		})
	}
}

func TestBuildRequest_RejectsInput(t *testing.T) {
	r := newTestRunner(t, &stubMessagesClient{}, Options{})

	tests := []struct {
		name    string
		req     *types.GenerateRequest
		wantErr string
	}{
		{"json output", &types.GenerateRequest{
			Messages: []*types.Message{textMessage(types.RoleUser, "hi")},
			Output:   &types.OutputConfig{Format: "json"},
		}, "only text output format"},
		{"system only", &types.GenerateRequest{
			Messages: []*types.Message{textMessage(types.RoleSystem, "Be brief.")},
		}, "at least one user or model message"},
		{"media in system", &types.GenerateRequest{
			Messages: []*types.Message{
				{Role: types.RoleSystem, Content: []*types.Part{types.NewMediaPart("image/png", "https://example.com/a.png")}},
				textMessage(types.RoleUser, "hi"),
			},
		}, "only text is supported"},
		{"unknown role", &types.GenerateRequest{
			Messages: []*types.Message{textMessage("narrator", "hi")},
		}, "unsupported message role"},
		{"null message", &types.GenerateRequest{
			Messages: []*types.Message{nil},
		}, "message 0 is null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.buildRequest(tt.req)
			require.ErrorContains(t, err, tt.wantErr)
			assert.True(t, isConversionError(err))
		})
	}
}

func TestBetaRequestOptions(t *testing.T) {
	assert.Empty(t, betaRequestOptions(nil, nil))
	assert.Len(t, betaRequestOptions(nil, []string{BetaPDFs}), 1)

	assert.Equal(t, []string{BetaPDFs, BetaFilesAPI}, betaAPIs(nil, []string{BetaPDFs, " ", BetaFilesAPI, BetaPDFs}))
	assert.Equal(t, []string{"custom-beta"}, betaAPIs(&types.GenerationConfig{
		Beta: &types.BetaConfig{Enabled: ptr(false), APIs: []string{"custom-beta"}},
	}, []string{BetaPDFs}))
}
