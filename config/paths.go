package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// homeDir resolves the user's home directory, with a root fallback for
// headless environments where nothing is set.
func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home
	}
	if runtime.GOOS == "windows" {
		return `C:\`
	}
	return "/"
}

// GetConfigDir returns ~/.config/pscopilot on every platform.
func GetConfigDir() string {
	return filepath.Join(homeDir(), ".config", "pscopilot")
}

// GetDefaultDataDir returns ~/.local/share/pscopilot, or the local
// application-data directory on Windows.
func GetDefaultDataDir() string {
	if runtime.GOOS == "windows" {
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "pscopilot")
		}
		return filepath.Join(homeDir(), "AppData", "Local", "pscopilot")
	}
	return filepath.Join(homeDir(), ".local", "share", "pscopilot")
}

// GetSettingsFilePath returns the path to settings.toml.
func GetSettingsFilePath() string {
	return filepath.Join(GetConfigDir(), "settings.toml")
}

// ExpandPath expands a leading ~ and any environment variables in a path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(homeDir(), path[2:])
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// EnsureDir creates a directory with user-only access.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0700)
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
