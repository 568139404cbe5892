package anthropicclaude

import (
	"github.com/anthropics/anthropic-sdk-go"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter/types"
)

// toUsage converts Anthropic usage metadata, including prompt caching counts.
func toUsage(usage anthropic.Usage) *types.Usage {
	return &types.Usage{
		InputTokens:         int(usage.InputTokens),
		OutputTokens:        int(usage.OutputTokens),
		CachedContentTokens: int(usage.CacheReadInputTokens),
		CacheWriteTokens:    int(usage.CacheCreationInputTokens),
	}
}

// mergeDeltaUsage applies the cumulative counts of a message_delta event.
// Anthropic reports input and cache counts on message_start; message_delta
// carries the final output count and repeats the others when known.
func mergeDeltaUsage(usage *types.Usage, delta anthropic.MessageDeltaUsage) {
	if delta.InputTokens > 0 {
		usage.InputTokens = int(delta.InputTokens)
	}
	if delta.CacheReadInputTokens > 0 {
		usage.CachedContentTokens = int(delta.CacheReadInputTokens)
	}
	if delta.CacheCreationInputTokens > 0 {
		usage.CacheWriteTokens = int(delta.CacheCreationInputTokens)
	}
	usage.OutputTokens = int(delta.OutputTokens)
}
