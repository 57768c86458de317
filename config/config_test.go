package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("PSCOPILOT_PROVIDER", "")
	t.Setenv("PSCOPILOT_BASE_URL", "")
	t.Setenv("PSCOPILOT_MODEL", "")
	t.Setenv("PSCOPILOT_DATA_DIR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != "gemini" {
		t.Errorf("default provider = %q", cfg.Provider)
	}
	if cfg.DataDir() != filepath.Join(tmp, ".local", "share", "pscopilot") {
		t.Errorf("data dir = %q", cfg.DataDir())
	}
	if _, err := os.Stat(cfg.DataDir()); err != nil {
		t.Errorf("Load should create the data directory: %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("PSCOPILOT_PROVIDER", "openai")
	t.Setenv("PSCOPILOT_BASE_URL", "http://localhost:11434/v1")
	t.Setenv("PSCOPILOT_MODEL", "gpt-4o-mini")
	t.Setenv("PSCOPILOT_DATA_DIR", filepath.Join(tmp, "data"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != "openai" {
		t.Errorf("provider = %q", cfg.Provider)
	}
	if cfg.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("base URL = %q", cfg.BaseURL)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", cfg.Model)
	}
	if cfg.DataDir() != filepath.Join(tmp, "data") {
		t.Errorf("data dir = %q", cfg.DataDir())
	}
}

func TestSettingsFileRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("PSCOPILOT_PROVIDER", "")
	t.Setenv("PSCOPILOT_BASE_URL", "")
	t.Setenv("PSCOPILOT_MODEL", "")
	t.Setenv("PSCOPILOT_DATA_DIR", "")

	err := Save(&Settings{
		Provider: ProviderSettings{ID: "anthropic", Model: "claude-sonnet-4-5"},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != "anthropic" {
		t.Errorf("provider = %q", cfg.Provider)
	}
	if cfg.Model != "claude-sonnet-4-5" {
		t.Errorf("model = %q", cfg.Model)
	}
}

func TestExpandPath(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	if got := ExpandPath("~/notes"); got != filepath.Join(tmp, "notes") {
		t.Errorf("ExpandPath(~/notes) = %q", got)
	}
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(empty) = %q", got)
	}
}

func TestAPIKeyResolution(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("PSCOPILOT_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	// Nothing set anywhere.
	if _, err := APIKey("gemini", tmp); !errors.Is(err, ErrAPIKeyNotFound) {
		t.Errorf("expected ErrAPIKeyNotFound, got %v", err)
	}

	// Provider env var.
	t.Setenv("GEMINI_API_KEY", "from-provider-env")
	key, err := APIKey("gemini", tmp)
	if err != nil || key != "from-provider-env" {
		t.Errorf("APIKey = %q, %v", key, err)
	}

	// The generic override wins over the provider env var.
	t.Setenv("PSCOPILOT_API_KEY", "from-generic-env")
	key, err = APIKey("gemini", tmp)
	if err != nil || key != "from-generic-env" {
		t.Errorf("APIKey = %q, %v", key, err)
	}
}

func TestAPIKeyFromCredentialsFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("PSCOPILOT_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	if err := SaveAPIKey("OpenAI", "stored-key", tmp); err != nil {
		t.Fatalf("SaveAPIKey: %v", err)
	}

	// Lookup is case-insensitive on the provider name.
	key, err := APIKey("openai", tmp)
	if err != nil || key != "stored-key" {
		t.Errorf("APIKey = %q, %v", key, err)
	}

	// A second provider's key does not clobber the first.
	if err := SaveAPIKey("anthropic", "other-key", tmp); err != nil {
		t.Fatalf("SaveAPIKey: %v", err)
	}
	key, err = APIKey("openai", tmp)
	if err != nil || key != "stored-key" {
		t.Errorf("APIKey after second save = %q, %v", key, err)
	}

	info, err := os.Stat(filepath.Join(tmp, "credentials.toml"))
	if err != nil {
		t.Fatalf("stat credentials: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("credentials file mode = %v, want 0600", info.Mode().Perm())
	}
}
