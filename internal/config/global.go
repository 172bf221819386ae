// Package config handles the ldx configuration file and environment overrides.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "ldx"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// HistoryFile is the visit history database name under XDG_DATA_HOME.
	HistoryFile = "history.db"
)

// Environment variables that override the config file.
const (
	EnvEndpoint = "LDX_ENDPOINT"
	EnvLang     = "LDX_LANG"
)

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/ldx/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// DefaultHistoryPath returns where visit history lives when history_path is unset.
// Respects XDG_DATA_HOME, defaults to ~/.local/share/ldx/history.db.
func DefaultHistoryPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, GlobalConfigDir, HistoryFile)
}

// GetConfigValue returns the environment variable if set, else the config value.
func GetConfigValue(envKey, configValue string) string {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		return v
	}
	return configValue
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
