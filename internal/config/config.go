package config

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config represents the application configuration.
type Config struct {
	// Global options that apply to all commands
	Global map[string]string
	// Command-specific options
	Commands map[string]map[string]string
	// Guard configuration controls the edit guard's timings and markers.
	// Parsed from the [guard] config section.
	Guard GuardConfig
	// Drafts configuration controls draft storage and retention.
	// Parsed from the [drafts] config section.
	Drafts DraftConfig
	// Warnings contains any warnings generated during config loading
	Warnings []string
}

// NewConfig creates a new configuration populated with defaults.
func NewConfig() *Config {
	return &Config{
		Global:   make(map[string]string),
		Commands: make(map[string]map[string]string),
		Guard: GuardConfig{
			DebounceMillis:  750,
			AutosaveSeconds: 30,
			AdminPrefix:     "/admin/",
		},
		Drafts: DraftConfig{
			Backend:              "fs",
			MaxAgeDays:           90,
			MaxCount:             100,
			AutoCleanupEnabled:   true,
			CleanupIntervalHours: 24,
		},
		Warnings: make([]string, 0),
	}
}

// GuardConfig controls the edit guard's behavior.
type GuardConfig struct {
	// DebounceMillis is the trailing-edge autosave delay in milliseconds.
	DebounceMillis int `json:"debounceMillis" default:"750"`
	// AutosaveSeconds is the period of the force-save timer in seconds.
	AutosaveSeconds int `json:"autosaveSeconds" default:"30"`
	// AdminPrefix is the path prefix under which editable-record pages live.
	AdminPrefix string `json:"adminPrefix" default:"/admin/"`
}

// DraftConfig controls draft storage and cleanup behavior.
type DraftConfig struct {
	// Backend selects the store implementation: fs, memory, or sqlite.
	Backend string `json:"backend" default:"fs"`
	// Dir is the draft directory for the fs backend. Empty means the
	// default location under the user's home directory.
	Dir string `json:"dir"`
	// DatabasePath is the SQLite database path for the sqlite backend.
	// Empty means the default location.
	DatabasePath string `json:"databasePath"`

	MaxAgeDays int `json:"maxAgeDays" default:"90"`
	MaxCount   int `json:"maxCount" default:"100"`
	// AutoCleanupEnabled controls whether commands that open a draft store
	// start a background cleanup scheduler. When true (the default),
	// cleanup runs on command startup and then at the configured
	// interval (CleanupIntervalHours).
	AutoCleanupEnabled bool `json:"autoCleanupEnabled" default:"true"`
	// CleanupIntervalHours is the number of hours between automatic
	// cleanup runs. Only used when AutoCleanupEnabled is true.
	CleanupIntervalHours int `json:"cleanupIntervalHours" default:"24"`
}

// Load loads configuration from the default config file path.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads configuration from the specified file path.
// The file uses dnsmasq-style format: optionName remainingLineIsTheValue
//
// SECURITY: This function rejects symlinks to prevent symlink attacks
// that could read sensitive files through symlink traversal.
func LoadFromPath(path string) (*Config, error) {
	// Security: Lstat checks the final path component for symlinks.
	// This prevents symlink-to-file attacks (e.g., config -> /etc/passwd).
	// Intermediate directory symlinks are NOT checked, by design:
	// the threat model targets direct file symlink substitution.
	fi, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return default config if file doesn't exist
			return NewConfig(), nil
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	// Reject symlinks to prevent reading sensitive files through symlink attacks
	if fi.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("symlink not allowed in config path: %s", path)
	}

	// Open the file (symlinks already rejected by Lstat check above)
	file, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return LoadFromReader(file)
}

// LoadFromReader loads configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	config := NewConfig()
	scanner := bufio.NewScanner(r)

	var currentCommand string
	var inGuardSection bool
	var inDraftsSection bool

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Check for section header [section_name]
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			sectionName := strings.Trim(line, "[]")
			switch sectionName {
			case "guard":
				inGuardSection = true
				inDraftsSection = false
				currentCommand = ""
			case "drafts":
				inDraftsSection = true
				inGuardSection = false
				currentCommand = ""
			default:
				inGuardSection = false
				inDraftsSection = false
				currentCommand = sectionName
				if config.Commands[currentCommand] == nil {
					config.Commands[currentCommand] = make(map[string]string)
				}
			}
			continue
		}

		// Parse option line: optionName remainingLineIsTheValue
		parts := strings.SplitN(line, " ", 2)
		if len(parts) < 1 {
			continue
		}

		optionName := parts[0]
		var value string
		if len(parts) > 1 {
			value = parts[1]
		}

		// Store in appropriate section
		if inGuardSection {
			if err := parseGuardOption(&config.Guard, optionName, value); err != nil {
				return nil, fmt.Errorf("invalid guard option %q: %w", optionName, err)
			}
		} else if inDraftsSection {
			if err := parseDraftOption(&config.Drafts, optionName, value); err != nil {
				return nil, fmt.Errorf("invalid drafts option %q: %w", optionName, err)
			}
		} else if currentCommand == "" {
			// Global option
			config.Global[optionName] = value
		} else {
			// Command-specific option
			config.Commands[currentCommand][optionName] = value
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	// Validate config against schema: detect unknown options and type mismatches.
	for _, issue := range ValidateConfig(config, DefaultSchema()) {
		config.addWarning("%s", issue)
	}

	return config, nil
}

// addWarning adds a warning to the config's warnings list.
func (c *Config) addWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.Warnings = append(c.Warnings, msg)
	slog.Warn("[Config] " + msg)
}

// parseGuardOption parses a guard configuration option and updates the GuardConfig.
// Supported options:
//   - debounceMillis <int>: Trailing-edge autosave delay in ms (default: 750)
//   - autosaveSeconds <int>: Force-save period in seconds (default: 30)
//   - adminPrefix <string>: Path prefix of editable-record pages (default: /admin/)
func parseGuardOption(gc *GuardConfig, name, value string) error {
	switch name {
	case "debounceMillis":
		ms, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value %q: %w", value, err)
		}
		if ms < 1 {
			return fmt.Errorf("debounceMillis must be at least 1: %d", ms)
		}
		gc.DebounceMillis = ms

	case "autosaveSeconds":
		sec, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value %q: %w", value, err)
		}
		if sec < 0 {
			return fmt.Errorf("autosaveSeconds cannot be negative: %d", sec)
		}
		gc.AutosaveSeconds = sec

	case "adminPrefix":
		if !strings.HasPrefix(value, "/") || !strings.HasSuffix(value, "/") {
			return fmt.Errorf("adminPrefix must start and end with '/': %q", value)
		}
		gc.AdminPrefix = value

	default:
		return fmt.Errorf("unknown guard option: %s", name)
	}
	return nil
}

// parseDraftOption parses a drafts configuration option and updates the DraftConfig.
// Supported options:
//   - backend <string>: Store backend: fs, memory, or sqlite (default: fs)
//   - dir <path>: Draft directory for the fs backend
//   - databasePath <path>: SQLite database path for the sqlite backend
//   - maxAgeDays <int>: Maximum age of drafts in days (default: 90)
//   - maxCount <int>: Maximum number of drafts to keep (default: 100)
//   - autoCleanupEnabled <bool>: Whether automatic cleanup is enabled (default: true)
//   - cleanupIntervalHours <int>: Hours between cleanup runs (default: 24)
func parseDraftOption(dc *DraftConfig, name, value string) error {
	switch name {
	case "backend":
		switch value {
		case "fs", "memory", "sqlite":
			dc.Backend = value
		default:
			return fmt.Errorf("unknown backend %q (expected fs, memory, or sqlite)", value)
		}

	case "dir":
		dc.Dir = value

	case "databasePath":
		dc.DatabasePath = value

	case "maxAgeDays":
		age, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value %q: %w", value, err)
		}
		if age < 0 {
			return fmt.Errorf("maxAgeDays cannot be negative: %d", age)
		}
		dc.MaxAgeDays = age

	case "maxCount":
		count, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value %q: %w", value, err)
		}
		if count < 0 {
			return fmt.Errorf("maxCount cannot be negative: %d", count)
		}
		dc.MaxCount = count

	case "autoCleanupEnabled":
		enabled, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value %q: %w", value, err)
		}
		dc.AutoCleanupEnabled = enabled

	case "cleanupIntervalHours":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value %q: %w", value, err)
		}
		if interval < 1 {
			return fmt.Errorf("cleanupIntervalHours must be at least 1: %d", interval)
		}
		dc.CleanupIntervalHours = interval

	default:
		return fmt.Errorf("unknown drafts option: %s", name)
	}
	return nil
}

// parseBool parses a boolean value from string.
// Accepts: true, false, 1, 0, yes, no (case-insensitive)
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value: %s", s)
	}
}

// GetGlobalOption returns a global configuration option.
func (c *Config) GetGlobalOption(name string) (string, bool) {
	value, exists := c.Global[name]
	return value, exists
}

// GetCommandOption returns a command-specific configuration option.
// It first checks command-specific options, then falls back to global options.
func (c *Config) GetCommandOption(command, name string) (string, bool) {
	if cmdOptions, exists := c.Commands[command]; exists {
		if value, exists := cmdOptions[name]; exists {
			return value, true
		}
	}

	// Fall back to global options
	return c.GetGlobalOption(name)
}

// SetGlobalOption sets a global configuration option.
func (c *Config) SetGlobalOption(name, value string) {
	c.Global[name] = value
}

// SetCommandOption sets a command-specific configuration option.
func (c *Config) SetCommandOption(command, name, value string) {
	if c.Commands[command] == nil {
		c.Commands[command] = make(map[string]string)
	}
	c.Commands[command][name] = value
}

// GetWarnings returns any warnings generated during config loading.
func (c *Config) GetWarnings() []string {
	return c.Warnings
}

// HasWarnings returns true if there are any warnings.
func (c *Config) HasWarnings() bool {
	return len(c.Warnings) > 0
}
