package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Settings is the on-disk shape of settings.toml.
type Settings struct {
	Provider      ProviderSettings `toml:"provider"`
	DataDirectory string           `toml:"data_directory,omitempty"`
}

type ProviderSettings struct {
	ID      string `toml:"id"`
	BaseURL string `toml:"base_url,omitempty"`
	Model   string `toml:"model,omitempty"`
}

// Config is the resolved runtime configuration.
type Config struct {
	Provider      string
	BaseURL       string
	Model         string
	DataDirectory string
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if p := os.Getenv("PSCOPILOT_PROVIDER"); p != "" {
		c.Provider = p
	}
	if u := os.Getenv("PSCOPILOT_BASE_URL"); u != "" {
		c.BaseURL = u
	}
	if m := os.Getenv("PSCOPILOT_MODEL"); m != "" {
		c.Model = m
	}
	if d := os.Getenv("PSCOPILOT_DATA_DIR"); d != "" {
		c.DataDirectory = d
	}
}

// Load reads settings.toml (when present), applies environment overrides,
// and ensures the data directory exists.
func Load() (*Config, error) {
	cfg := &Config{
		Provider:      "gemini",
		DataDirectory: GetDefaultDataDir(),
	}

	settingsPath := GetSettingsFilePath()
	if FileExists(settingsPath) {
		var s Settings
		if _, err := toml.DecodeFile(settingsPath, &s); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", settingsPath, err)
		}
		if s.Provider.ID != "" {
			cfg.Provider = s.Provider.ID
		}
		cfg.BaseURL = s.Provider.BaseURL
		cfg.Model = s.Provider.Model
		if s.DataDirectory != "" {
			cfg.DataDirectory = s.DataDirectory
		}
	}

	cfg.applyEnvOverrides()

	if err := EnsureDir(cfg.DataDir()); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// Save writes settings back to settings.toml with 0600 permissions.
func Save(s *Settings) error {
	if err := EnsureDir(GetConfigDir()); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(GetSettingsFilePath(), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open settings file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(s)
}

func CheckDebug() bool {
	debug := os.Getenv("PSCOPILOT_DEBUG")
	return debug == "true" || debug == "1"
}

// InitDebugLog opens debug.log in the data directory when PSCOPILOT_DEBUG is set.
func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started ===")
}

// Debugf writes to the debug log when enabled.
func Debugf(format string, args ...any) {
	if DebugLog != nil {
		DebugLog.Printf(format, args...)
	}
}
