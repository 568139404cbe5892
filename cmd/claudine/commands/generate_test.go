package commands

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter"
	"github.com/florianilch/claudine-genkit/internal/genkitadapter/types"
)

type chunkAdapter struct {
	chunks []*genkitadapter.GenerateChunk
	err    error
}

func (a chunkAdapter) Generate(context.Context, genkitadapter.GenerateRequest) (*genkitadapter.GenerateResponse, error) {
	return nil, errors.New("not used")
}

func (a chunkAdapter) GenerateStream(context.Context, genkitadapter.GenerateRequest) (iter.Seq2[*genkitadapter.GenerateChunk, error], error) {
	return func(yield func(*genkitadapter.GenerateChunk, error) bool) {
		for _, c := range a.chunks {
			if !yield(c, nil) {
				return
			}
		}
		if a.err != nil {
			yield(nil, a.err)
		}
	}, nil
}

func serverToolPart(text string) *types.Part {
	return &types.Part{Text: text, Custom: &types.Custom{ServerToolUse: &types.ServerToolUse{ID: "s1", Name: "web_search"}}}
}

func TestBuildGenerateRequest(t *testing.T) {
	req := buildGenerateRequest(generateFlags{
		prompt:         "Weather in Tokyo?",
		system:         "Be brief.",
		stream:         true,
		webSearch:      true,
		webSearchUses:  2,
		thinkingBudget: 2048,
	})

	require.Len(t, req.Messages, 2)
	assert.Equal(t, types.RoleSystem, req.Messages[0].Role)
	assert.Equal(t, "Weather in Tokyo?", req.Messages[1].Text())
	assert.True(t, req.Stream)
	assert.Equal(t, &types.WebSearchConfig{MaxUses: 2}, req.Config.WebSearch)
	assert.Equal(t, &types.ThinkingConfig{Enabled: true, BudgetTokens: 2048}, req.Config.Thinking)

	plain := buildGenerateRequest(generateFlags{prompt: "hi"})
	require.Len(t, plain.Messages, 1)
	assert.Nil(t, plain.Config.WebSearch)
	assert.Nil(t, plain.Config.Thinking)
}

func TestStreamGenerate(t *testing.T) {
	adapter := chunkAdapter{chunks: []*genkitadapter.GenerateChunk{
		{Content: []*types.Part{serverToolPart("[server tool web_search] input: {}")}},
		{Content: []*types.Part{types.NewTextPart("Sun")}},
		{Content: []*types.Part{types.NewTextPart("ny.")}},
		{Response: &types.GenerateResponse{
			Message: &types.Message{Content: []*types.Part{
				serverToolPart("[server tool web_search] input: {}"),
				types.NewTextPart("Sunny."),
			}},
			FinishReason: types.FinishReasonStop,
			Usage:        &types.Usage{InputTokens: 10, OutputTokens: 2},
		}},
	}}

	var out bytes.Buffer
	require.NoError(t, streamGenerate(context.Background(), &out, adapter, genkitadapter.GenerateRequest{}))

	assert.Equal(t, "Sunny.\n[server tool web_search] input: {}\n[stop] input=10 output=2 cached=0\n", out.String())
}

func TestStreamGenerate_Errors(t *testing.T) {
	var out bytes.Buffer

	err := streamGenerate(context.Background(), &out, chunkAdapter{err: errors.New("boom")}, genkitadapter.GenerateRequest{})
	require.EqualError(t, err, "boom")

	err = streamGenerate(context.Background(), &out, chunkAdapter{}, genkitadapter.GenerateRequest{})
	require.ErrorContains(t, err, "without a response")
}

func TestPrintResponse(t *testing.T) {
	var out bytes.Buffer
	printResponse(&out, &types.GenerateResponse{
		Message: &types.Message{Content: []*types.Part{
			types.NewReasoningPart("Check the forecast."),
			types.NewTextPart("Sunny."),
		}},
		FinishReason: types.FinishReasonLength,
	})

	assert.Equal(t, "--- reasoning ---\nCheck the forecast.\n--- answer ---\nSunny.\n", out.String())
}
