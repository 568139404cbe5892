package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/florianilch/claudine-genkit/internal/app"
	"github.com/florianilch/claudine-genkit/internal/credentials"
)

// authCommand returns the 'auth' subcommand for managing the API key.
func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the Anthropic API key",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "storage",
				Usage: "credential storage (env|file|keyring)",
			},
		},
		Commands: []*cli.Command{
			authSetKeyCommand(),
			authClearKeyCommand(),
		},
	}
}

// authSetKeyCommand returns the 'auth set-key' subcommand.
func authSetKeyCommand() *cli.Command {
	return &cli.Command{
		Name:  "set-key",
		Usage: "Save an Anthropic API key to the configured storage",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "stdin",
				Usage: "read the key from standard input instead of prompting",
			},
		},
		Action: authSetKeyAction,
	}
}

// authClearKeyCommand returns the 'auth clear-key' subcommand.
func authClearKeyCommand() *cli.Command {
	return &cli.Command{
		Name:   "clear-key",
		Usage:  "Remove the Anthropic API key from the configured storage",
		Action: authClearKeyAction,
	}
}

func writableStore(cmd *cli.Command) (credentials.Store, error) {
	cfg, err := loadConfig(cmd.String("config"), cmd, os.Environ)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Auth.Storage == app.TokenStorageTypeEnv {
		return nil, fmt.Errorf("cannot change credentials with env storage (read-only). Configure file or keyring storage")
	}

	store, err := cfg.Auth.NewTokenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to create token store: %w", err)
	}
	return store, nil
}

// authSetKeyAction stores an API key read without echo.
func authSetKeyAction(ctx context.Context, cmd *cli.Command) error {
	store, err := writableStore(cmd)
	if err != nil {
		return err
	}

	var key string
	if cmd.Bool("stdin") {
		key, err = readLine(os.Stdin)
	} else {
		key, err = readSecureInput(ctx, "Enter Anthropic API key: ")
	}
	if err != nil {
		return err
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("API key cannot be empty")
	}

	if err := store.Write(ctx, key); err != nil {
		return fmt.Errorf("failed to write API key: %w", err)
	}

	fmt.Println("API key saved to configured storage")
	return nil
}

// authClearKeyAction removes the stored API key.
func authClearKeyAction(ctx context.Context, cmd *cli.Command) error {
	store, err := writableStore(cmd)
	if err != nil {
		return err
	}

	// Clear token via empty string write to maintain storage abstraction
	if err := store.Write(ctx, ""); err != nil {
		return fmt.Errorf("failed to clear API key: %w", err)
	}

	fmt.Println("API key cleared from configured storage")
	return nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return line, nil
}

// readSecureInput reads user input with hidden display and context cancellation support.
// Goroutine+select pattern required because term.ReadPassword has no native context support.
func readSecureInput(ctx context.Context, prompt string) (string, error) {
	fmt.Print(prompt)
	defer fmt.Println()

	type result struct {
		value string
		err   error
	}
	resultCh := make(chan result, 1)

	go func() {
		inputBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		resultCh <- result{value: string(inputBytes), err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-resultCh:
		if res.err != nil {
			return "", fmt.Errorf("failed to read input: %w", res.err)
		}
		return res.value, nil
	}
}
