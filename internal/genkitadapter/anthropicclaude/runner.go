package anthropicclaude

import (
	"context"
	"errors"
	"iter"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter"
	"github.com/florianilch/claudine-genkit/internal/parts"
)

// MessagesClient captures the subset of the Anthropic SDK client used by the
// runner. It is satisfied by *anthropic.MessageService.
type MessagesClient interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
	NewStreaming(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) *ssestream.Stream[anthropic.MessageStreamEventUnion]
}

// Options configures a Runner.
type Options struct {
	// DefaultModel is used when a request names no model.
	DefaultModel string
	// MaxOutputTokens defaults to DefaultMaxOutputTokens.
	MaxOutputTokens int
	// CacheSystemPrompt marks the system prompt as an ephemeral cache breakpoint.
	CacheSystemPrompt bool
	// BetaAPIs are sent with every request that does not list its own.
	BetaAPIs []string
	// Registry defaults to parts.DefaultRegistry().
	Registry *parts.Registry
}

// Runner serves generate requests with Anthropic Messages.
// It is safe for concurrent use; each stream gets its own assembly state.
type Runner struct {
	msg               MessagesClient
	registry          *parts.Registry
	defaultModel      string
	maxOutputTokens   int
	cacheSystemPrompt bool
	betaAPIs          []string
}

// Compile-time check to ensure Runner implements the generate adapter.
var _ genkitadapter.GenerateAdapter = (*Runner)(nil)

// New builds a Runner on top of an Anthropic Messages client.
func New(msg MessagesClient, opts Options) (*Runner, error) {
	if msg == nil {
		return nil, errors.New("anthropic messages client is required")
	}

	registry := opts.Registry
	if registry == nil {
		registry = parts.DefaultRegistry()
	}
	maxTokens := opts.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxOutputTokens
	}

	return &Runner{
		msg:               msg,
		registry:          registry,
		defaultModel:      opts.DefaultModel,
		maxOutputTokens:   maxTokens,
		cacheSystemPrompt: opts.CacheSystemPrompt,
		betaAPIs:          append([]string(nil), opts.BetaAPIs...),
	}, nil
}

// Generate issues a non-streaming Messages request and converts the response.
// Errors are returned as *genkitadapter.ErrorResponse.
func (r *Runner) Generate(ctx context.Context, clientReq genkitadapter.GenerateRequest) (*genkitadapter.GenerateResponse, error) {
	params, err := r.buildRequest(&clientReq)
	if err != nil {
		return nil, toGenerateError(err)
	}

	slog.DebugContext(ctx, "sending anthropic request", "model", params.Model, "stream", false)

	msg, err := r.msg.New(ctx, params, betaRequestOptions(clientReq.Config, r.betaAPIs)...)
	if err != nil {
		return nil, toGenerateError(err)
	}

	resp, err := toGenerateResponse(msg, r.registry)
	if err != nil {
		return nil, toGenerateError(err)
	}
	return resp, nil
}

// GenerateStream issues a streaming Messages request. The returned iterator
// yields content chunks as blocks arrive and a final chunk carrying the
// complete response. Setup errors are returned directly; errors during the
// stream are yielded once and end the iteration.
func (r *Runner) GenerateStream(ctx context.Context, clientReq genkitadapter.GenerateRequest) (iter.Seq2[*genkitadapter.GenerateChunk, error], error) {
	params, err := r.buildRequest(&clientReq)
	if err != nil {
		return nil, toGenerateError(err)
	}

	slog.DebugContext(ctx, "sending anthropic request", "model", params.Model, "stream", true)

	stream := r.msg.NewStreaming(ctx, params, betaRequestOptions(clientReq.Config, r.betaAPIs)...)
	if err := stream.Err(); err != nil {
		_ = stream.Close()
		return nil, toGenerateError(err)
	}

	return func(yield func(*genkitadapter.GenerateChunk, error) bool) {
		defer func() {
			if err := stream.Close(); err != nil {
				slog.DebugContext(ctx, "failed to close anthropic stream", "error", err)
			}
		}()

		state := newStreamState(r.registry)
		for stream.Next() {
			// Cancellation discards partial state; no further parts are emitted.
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			chunk, err := state.handle(stream.Current())
			if err != nil {
				yield(nil, toGenerateError(err))
				return
			}
			if chunk != nil && !yield(chunk, nil) {
				return
			}
			if state.done {
				return
			}
		}

		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return
		}
		if err := stream.Err(); err != nil {
			yield(nil, toGenerateError(err))
			return
		}
		yield(nil, toGenerateError(errStreamIncomplete))
	}, nil
}
