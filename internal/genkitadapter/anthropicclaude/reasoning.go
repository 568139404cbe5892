package anthropicclaude

import (
	"github.com/anthropics/anthropic-sdk-go"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter/types"
)

// minThinkingBudget is the smallest budget Anthropic accepts for extended thinking.
const minThinkingBudget = 1024

// buildThinking builds Anthropic's thinking configuration.
//
// An enabled config requires an explicit budget of at least 1,024 tokens that
// stays below max_tokens. A config with Enabled=false disables thinking
// explicitly; a nil config leaves the field unset.
func buildThinking(cfg *types.ThinkingConfig, maxTokens int64) (anthropic.ThinkingConfigParamUnion, error) {
	var thinking anthropic.ThinkingConfigParamUnion
	if cfg == nil {
		return thinking, nil
	}

	if !cfg.Enabled {
		return anthropic.ThinkingConfigParamUnion{
			OfDisabled: &anthropic.ThinkingConfigDisabledParam{},
		}, nil
	}

	budget := int64(cfg.BudgetTokens)
	switch {
	case budget == 0:
		return thinking, invalidRequestf("thinking.budgetTokens is required when thinking is enabled")
	case budget < minThinkingBudget:
		return thinking, invalidRequestf("thinking.budgetTokens %d must be >= %d", budget, minThinkingBudget)
	case budget >= maxTokens:
		return thinking, invalidRequestf("thinking.budgetTokens %d must be less than max output tokens %d", budget, maxTokens)
	}

	return anthropic.ThinkingConfigParamOfEnabled(budget), nil
}
