// Package auth resolves and stores the Perplexity API key. Credentials come
// from an ordered list of providers: the environment variable first, then a
// key file under the user's data directory.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/quocvuong92/px-cli/internal/constants"
)

// ErrNoAPIKey is returned when no provider can supply a key.
var ErrNoAPIKey = fmt.Errorf(
	"no API key found. Set %s or run 'px login'", constants.APIKeyEnvVar)

// Provider supplies an API key from one source.
type Provider interface {
	// Name identifies the source for user-facing messages
	Name() string
	// Key returns the API key and whether the source had one
	Key() (string, bool)
}

// EnvProvider reads the key from the environment.
type EnvProvider struct{}

// Name implements Provider
func (EnvProvider) Name() string { return "environment variable " + constants.APIKeyEnvVar }

// Key implements Provider
func (EnvProvider) Key() (string, bool) {
	key := strings.TrimSpace(os.Getenv(constants.APIKeyEnvVar))
	return key, key != ""
}

// FileProvider reads the key stored by 'px login'.
type FileProvider struct{}

// Name implements Provider
func (FileProvider) Name() string {
	path, err := KeyPath()
	if err != nil {
		return "key file"
	}
	return "key file " + path
}

// Key implements Provider
func (FileProvider) Key() (string, bool) {
	key, err := LoadKey()
	return key, err == nil && key != ""
}

// DefaultProviders is the ordered credential chain.
func DefaultProviders() []Provider {
	return []Provider{EnvProvider{}, FileProvider{}}
}

// ResolveKey walks the provider chain and returns the first key found along
// with the name of its source.
func ResolveKey() (key, source string, err error) {
	for _, p := range DefaultProviders() {
		if key, ok := p.Key(); ok {
			return key, p.Name(), nil
		}
	}
	return "", "", ErrNoAPIKey
}

// KeyPath returns the path where the API key is stored.
func KeyPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "px", "api-key"), nil
}

// SaveKey writes the API key to disk with restricted permissions.
func SaveKey(key string) error {
	keyPath, err := KeyPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(keyPath), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(keyPath, []byte(key), 0600); err != nil {
		return fmt.Errorf("failed to write key: %w", err)
	}

	return nil
}

// LoadKey reads the stored API key from disk.
func LoadKey() (string, error) {
	keyPath, err := KeyPath()
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(keyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("no stored key, run 'px login' first")
		}
		return "", fmt.Errorf("failed to read key: %w", err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("key file is empty, run 'px login' again")
	}

	return key, nil
}

// DeleteKey removes the stored API key.
func DeleteKey() error {
	keyPath, err := KeyPath()
	if err != nil {
		return err
	}

	if err := os.Remove(keyPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key: %w", err)
	}

	return nil
}

// HasStoredKey reports whether a non-empty key file exists.
func HasStoredKey() bool {
	key, err := LoadKey()
	return err == nil && key != ""
}

// Probe validates an API key against the chat completions endpoint with a
// minimal one-token request. A 2xx status means the key is valid; any other
// status is returned as an error carrying the status code and body.
func Probe(ctx context.Context, baseURL, key string) error {
	payload := map[string]interface{}{
		"model": constants.AvailableModels[0],
		"messages": []map[string]string{
			{"role": "user", "content": "hi"},
		},
		"max_tokens": 1,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal probe request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimSuffix(baseURL, "/")+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create probe request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)

	client := &http.Client{Timeout: constants.DefaultProbeTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("invalid API key: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}
