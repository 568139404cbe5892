package anthropicclaude

import (
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter/types"
)

// DefaultMaxOutputTokens is used when neither the request nor the runner sets a limit.
const DefaultMaxOutputTokens = 4096

// modelPrefix is stripped from namespaced model names ("anthropic/claude-…").
const modelPrefix = "anthropic/"

// buildRequest builds the Messages request body shared by the streaming and
// non-streaming paths.
func (r *Runner) buildRequest(req *types.GenerateRequest) (anthropic.MessageNewParams, error) {
	cfg := req.Config
	if cfg == nil {
		cfg = &types.GenerationConfig{}
	}

	if req.Output != nil && req.Output.Format != "" && req.Output.Format != "text" {
		return anthropic.MessageNewParams{}, invalidRequestf("only text output format is supported for Claude models currently")
	}

	modelName := r.resolveModel(req.Model, cfg.Version)
	if modelName == "" {
		return anthropic.MessageNewParams{}, invalidRequestf("model identifier is required")
	}

	system, messages, err := fromMessages(req.Messages)
	if err != nil {
		return anthropic.MessageNewParams{}, err
	}

	maxTokens := int64(r.maxOutputTokens)
	if cfg.MaxOutputTokens > 0 {
		maxTokens = int64(cfg.MaxOutputTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(modelName),
		MaxTokens: maxTokens,
		Messages:  messages,
	}

	if system != "" {
		block := anthropic.TextBlockParam{Text: system}
		if r.cacheSystemPrompt {
			block.CacheControl = anthropic.NewCacheControlEphemeralParam()
		}
		params.System = []anthropic.TextBlockParam{block}
	}

	tools, err := fromToolDefinitions(req.Tools, cfg.WebSearch)
	if err != nil {
		return anthropic.MessageNewParams{}, err
	}
	params.Tools = tools

	if cfg.TopK != nil {
		params.TopK = anthropic.Int(int64(*cfg.TopK))
	}
	if cfg.TopP != nil {
		params.TopP = anthropic.Float(*cfg.TopP)
	}
	if cfg.Temperature != nil {
		params.Temperature = anthropic.Float(*cfg.Temperature)
	}
	if len(cfg.StopSequences) > 0 {
		params.StopSequences = cfg.StopSequences
	}
	if cfg.UserID != "" {
		params.Metadata = anthropic.MetadataParam{UserID: anthropic.String(cfg.UserID)}
	}

	toolChoice, err := fromToolChoice(cfg.ToolChoice, req.Tools)
	if err != nil {
		return anthropic.MessageNewParams{}, err
	}
	params.ToolChoice = toolChoice

	thinking, err := buildThinking(cfg.Thinking, maxTokens)
	if err != nil {
		return anthropic.MessageNewParams{}, err
	}
	params.Thinking = thinking

	return params, nil
}

// resolveModel picks the version override, then the requested model, then the
// runner default.
func (r *Runner) resolveModel(requested, version string) string {
	if version != "" {
		return version
	}
	if requested != "" {
		return strings.TrimPrefix(requested, modelPrefix)
	}
	return r.defaultModel
}
