package anthropicclaude

import (
	"fmt"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ClientConfig configures the Anthropic HTTP client.
type ClientConfig struct {
	APIKey  string
	BaseURL string
	// Transport defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// NewClient creates a new Anthropic client authenticated with an API key.
func NewClient(cfg ClientConfig) (*anthropic.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key cannot be empty")
	}

	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	httpClient := &http.Client{
		Transport: transport,
		// Client.Timeout = 0 allows long-running SSE streams
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		// Generous RequestTimeout bypasses SDK maxTokens checks
		option.WithRequestTimeout(1 * time.Hour),
		// Retries belong to the caller.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := anthropic.NewClient(opts...)
	return &client, nil
}
