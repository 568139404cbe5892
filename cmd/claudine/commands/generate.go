package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/claudine-genkit/internal/app"
	"github.com/florianilch/claudine-genkit/internal/genkitadapter"
	"github.com/florianilch/claudine-genkit/internal/genkitadapter/types"
)

// generateCommand returns the 'generate' subcommand running a single prompt.
func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Runs a prompt against Claude and prints the answer",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "prompt",
				Aliases:  []string{"p"},
				Usage:    "user prompt",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "system",
				Usage: "system prompt",
			},
			&cli.StringFlag{
				Name:  "model",
				Usage: "Claude model",
			},
			&cli.BoolFlag{
				Name:  "stream",
				Usage: "print the answer as it arrives",
			},
			&cli.BoolFlag{
				Name:  "web-search",
				Usage: "let Claude search the web",
			},
			&cli.IntFlag{
				Name:  "web-search-max-uses",
				Usage: "maximum number of web searches",
				Value: 5,
			},
			&cli.IntFlag{
				Name:  "thinking-budget",
				Usage: "enable extended thinking with this token budget (>= 1024)",
			},
			&cli.IntFlag{
				Name:  "max-tokens",
				Usage: "maximum output tokens",
			},
		},
		Action: generateAction,
	}
}

func generateAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"), cmd, os.Environ)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	shutdownObservability, err := instrument(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdownObservability()

	runner, err := app.NewRunner(ctx, cfg, nil)
	if err != nil {
		return err
	}

	req := buildGenerateRequest(generateFlags{
		prompt:         cmd.String("prompt"),
		system:         cmd.String("system"),
		stream:         cmd.Bool("stream"),
		webSearch:      cmd.Bool("web-search"),
		webSearchUses:  cmd.Int("web-search-max-uses"),
		thinkingBudget: cmd.Int("thinking-budget"),
		maxTokens:      cmd.Int("max-tokens"),
	})

	if req.Stream {
		return streamGenerate(ctx, os.Stdout, runner, req)
	}
	resp, err := runner.Generate(ctx, req)
	if err != nil {
		return err
	}
	printResponse(os.Stdout, resp)
	return nil
}

type generateFlags struct {
	prompt         string
	system         string
	stream         bool
	webSearch      bool
	webSearchUses  int
	thinkingBudget int
	maxTokens      int
}

func buildGenerateRequest(f generateFlags) genkitadapter.GenerateRequest {
	var messages []*types.Message
	if f.system != "" {
		messages = append(messages, &types.Message{
			Role:    types.RoleSystem,
			Content: []*types.Part{types.NewTextPart(f.system)},
		})
	}
	messages = append(messages, &types.Message{
		Role:    types.RoleUser,
		Content: []*types.Part{types.NewTextPart(f.prompt)},
	})

	cfg := &types.GenerationConfig{MaxOutputTokens: f.maxTokens}
	if f.webSearch {
		cfg.WebSearch = &types.WebSearchConfig{MaxUses: f.webSearchUses}
	}
	if f.thinkingBudget > 0 {
		cfg.Thinking = &types.ThinkingConfig{Enabled: true, BudgetTokens: f.thinkingBudget}
	}

	return genkitadapter.GenerateRequest{
		Messages: messages,
		Config:   cfg,
		Stream:   f.stream,
	}
}

// streamGenerate prints text as it arrives and the provenance of server tool
// calls once the response is complete.
func streamGenerate(ctx context.Context, w io.Writer, runner genkitadapter.GenerateAdapter, req genkitadapter.GenerateRequest) error {
	stream, err := runner.GenerateStream(ctx, req)
	if err != nil {
		return err
	}

	var final *types.GenerateResponse
	for chunk, err := range stream {
		if err != nil {
			return err
		}
		if chunk.Response != nil {
			final = chunk.Response
			continue
		}
		for _, part := range chunk.Content {
			if part.Custom != nil && part.Custom.ServerToolUse != nil {
				continue
			}
			fmt.Fprint(w, part.Text)
		}
	}
	fmt.Fprintln(w)

	if final == nil {
		return errors.New("stream ended without a response")
	}
	printProvenance(w, final)
	return nil
}

func printResponse(w io.Writer, resp *types.GenerateResponse) {
	if reasoning := resp.Message.Reasoning(); reasoning != "" {
		fmt.Fprintf(w, "--- reasoning ---\n%s\n--- answer ---\n", reasoning)
	}
	for _, part := range resp.Message.Content {
		if part.Custom != nil && part.Custom.ServerToolUse != nil {
			continue
		}
		fmt.Fprint(w, part.Text)
	}
	fmt.Fprintln(w)
	printProvenance(w, resp)
}

// printProvenance lists server tool calls and the usage summary.
func printProvenance(w io.Writer, resp *types.GenerateResponse) {
	for _, part := range resp.Message.Content {
		if part.Custom != nil && part.Custom.ServerToolUse != nil {
			fmt.Fprintln(w, part.Text)
		}
	}
	if u := resp.Usage; u != nil {
		fmt.Fprintf(w, "[%s] input=%d output=%d cached=%d\n", resp.FinishReason, u.InputTokens, u.OutputTokens, u.CachedContentTokens)
	}
}
