package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrAPIKeyNotFound is surfaced once at session creation as a blocking
// configuration error, never retried.
var ErrAPIKeyNotFound = fmt.Errorf("API_KEY_NOT_FOUND")

// providerEnvVars maps provider IDs to their conventional env var names,
// checked before the credentials file.
var providerEnvVars = map[string]string{
	"gemini":    "GEMINI_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

type credentialsFile struct {
	Keys map[string]string `toml:"keys"`
}

// APIKey resolves the model API credential for a provider. Resolution order:
// PSCOPILOT_API_KEY, the provider's own env var, then credentials.toml in the
// data directory. Returns ErrAPIKeyNotFound when nothing is set.
func APIKey(provider, dataDir string) (string, error) {
	if key := os.Getenv("PSCOPILOT_API_KEY"); key != "" {
		return key, nil
	}

	if envVar, ok := providerEnvVars[strings.ToLower(provider)]; ok {
		if key := os.Getenv(envVar); key != "" {
			return key, nil
		}
	}

	credsPath := filepath.Join(ExpandPath(dataDir), "credentials.toml")
	if FileExists(credsPath) {
		var creds credentialsFile
		if _, err := toml.DecodeFile(credsPath, &creds); err != nil {
			return "", fmt.Errorf("failed to parse credentials file: %w", err)
		}
		if key := creds.Keys[strings.ToLower(provider)]; key != "" {
			return key, nil
		}
	}

	return "", ErrAPIKeyNotFound
}

// SaveAPIKey stores a provider credential in credentials.toml (0600).
func SaveAPIKey(provider, key, dataDir string) error {
	dir := ExpandPath(dataDir)
	if err := EnsureDir(dir); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	credsPath := filepath.Join(dir, "credentials.toml")
	creds := credentialsFile{Keys: map[string]string{}}
	if FileExists(credsPath) {
		if _, err := toml.DecodeFile(credsPath, &creds); err != nil {
			return fmt.Errorf("failed to parse credentials file: %w", err)
		}
		if creds.Keys == nil {
			creds.Keys = map[string]string{}
		}
	}
	creds.Keys[strings.ToLower(provider)] = key

	f, err := os.OpenFile(credsPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open credentials file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(&creds)
}
