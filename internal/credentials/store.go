// Package credentials stores the Anthropic API key.
//
// Three storage backends are available:
//
//   - env: read-only, the key comes from an environment variable
//   - file: a plain file with 0600 permissions
//   - keyring: the operating system keyring
//
// Writing an empty key clears the stored credential.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
)

// ErrNotFound is returned when no credential is stored.
var ErrNotFound = errors.New("credential not found")

// ErrReadOnly is returned when writing to a store that cannot be written.
var ErrReadOnly = errors.New("credential store is read-only")

// Store reads and writes a single secret.
type Store interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, secret string) error
}

// EnvStore reads the secret from an environment variable.
type EnvStore struct {
	Var string
}

func (s EnvStore) Read(context.Context) (string, error) {
	v := strings.TrimSpace(os.Getenv(s.Var))
	if v == "" {
		return "", fmt.Errorf("%w: %s is not set", ErrNotFound, s.Var)
	}
	return v, nil
}

func (s EnvStore) Write(context.Context, string) error {
	return ErrReadOnly
}

// FileStore keeps the secret in a file.
type FileStore struct {
	Path string
}

func (s FileStore) Read(context.Context) (string, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, s.Path)
	}
	if err != nil {
		return "", fmt.Errorf("read credential file: %w", err)
	}
	v := strings.TrimSpace(string(data))
	if v == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrNotFound, s.Path)
	}
	return v, nil
}

func (s FileStore) Write(_ context.Context, secret string) error {
	if secret == "" {
		if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove credential file: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("create credential directory: %w", err)
	}
	if err := os.WriteFile(s.Path, []byte(secret+"\n"), 0o600); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}
	return nil
}

// KeyringStore keeps the secret in the OS keyring.
type KeyringStore struct {
	Service string
	User    string
}

func (s KeyringStore) Read(context.Context) (string, error) {
	v, err := keyring.Get(s.Service, s.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w: keyring %s/%s", ErrNotFound, s.Service, s.User)
	}
	if err != nil {
		return "", fmt.Errorf("read keyring: %w", err)
	}
	return v, nil
}

func (s KeyringStore) Write(_ context.Context, secret string) error {
	if secret == "" {
		if err := keyring.Delete(s.Service, s.User); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("delete keyring entry: %w", err)
		}
		return nil
	}
	if err := keyring.Set(s.Service, s.User, secret); err != nil {
		return fmt.Errorf("write keyring: %w", err)
	}
	return nil
}
