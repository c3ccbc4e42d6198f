package config

import (
	"os"
	"path/filepath"
)

// GetConfigPath returns the configuration file path using kubectl-style behavior.
// It first checks the VDW_CONFIG environment variable, then falls back
// to the default location (~/.vdw-server/config).
func GetConfigPath() (string, error) {
	// Check for environment variable override
	if configPath := os.Getenv("VDW_CONFIG"); configPath != "" {
		return configPath, nil
	}

	// Get user home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	// Default config location: ~/.vdw-server/config
	configDir := filepath.Join(homeDir, ".vdw-server")
	configPath := filepath.Join(configDir, "config")

	return configPath, nil
}

// EnsureConfigDir ensures that the configuration directory exists.
func EnsureConfigDir() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	return os.MkdirAll(configDir, 0755)
}

// DefaultDraftDir returns the default draft directory for the fs backend
// (~/.vdw-server/drafts).
func DefaultDraftDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".vdw-server", "drafts"), nil
}

// DefaultDatabasePath returns the default SQLite database path for the
// sqlite backend (~/.vdw-server/drafts.db).
func DefaultDatabasePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".vdw-server", "drafts.db"), nil
}
