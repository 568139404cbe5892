package anthropicclaude

import (
	"slices"
	"strings"

	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter/types"
)

// Beta API identifiers the adapter knows to be useful with Messages.
const (
	BetaPDFs     = "pdfs-2024-09-25"
	BetaFilesAPI = "files-api-2025-04-14"
)

// betaHeader is the request header selecting Anthropic beta surfaces.
const betaHeader = "anthropic-beta"

// resolveBetaEnabled reports whether a request uses the beta surface.
// It is always on; the per-request Enabled flag is ignored.
func resolveBetaEnabled(_ *types.GenerationConfig, _ []string) bool {
	return true
}

// betaAPIs returns the beta identifiers for a request: the request's own list
// when given, the configured defaults otherwise, deduplicated in order.
func betaAPIs(cfg *types.GenerationConfig, defaults []string) []string {
	apis := defaults
	if cfg != nil && cfg.Beta != nil && len(cfg.Beta.APIs) > 0 {
		apis = cfg.Beta.APIs
	}

	out := make([]string, 0, len(apis))
	for _, api := range apis {
		api = strings.TrimSpace(api)
		if api != "" && !slices.Contains(out, api) {
			out = append(out, api)
		}
	}
	return out
}

// betaRequestOptions returns the per-request options selecting beta surfaces.
func betaRequestOptions(cfg *types.GenerationConfig, defaults []string) []option.RequestOption {
	if !resolveBetaEnabled(cfg, defaults) {
		return nil
	}
	apis := betaAPIs(cfg, defaults)
	if len(apis) == 0 {
		return nil
	}
	return []option.RequestOption{option.WithHeader(betaHeader, strings.Join(apis, ","))}
}
