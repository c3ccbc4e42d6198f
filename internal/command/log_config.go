package command

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/evolvingstuff/vdw-server/internal/config"
)

// logConfig holds resolved logging configuration.
type logConfig struct {
	level   slog.Level
	logFile io.WriteCloser // nil if no file logging
}

// resolveLogConfig resolves log configuration from flags and config defaults.
// Flag values take precedence; config values are used when flags have their
// zero/default value. The caller must Close() the returned logConfig.logFile
// when done (if non-nil).
func resolveLogConfig(flagPath, flagLevel string, cfg *config.Config) (logConfig, error) {
	schema := config.DefaultSchema()
	var lc logConfig

	// Helper to safely resolve config values when cfg may be nil.
	resolveStr := func(key string) string {
		if cfg == nil {
			return ""
		}
		return schema.Resolve(cfg, key)
	}

	// Resolve log level: flag → config → "info".
	levelStr := flagLevel
	if levelStr == "" || levelStr == "info" {
		if v := resolveStr("log.level"); v != "" {
			levelStr = v
		}
	}
	switch strings.ToLower(levelStr) {
	case "debug":
		lc.level = slog.LevelDebug
	case "info", "":
		lc.level = slog.LevelInfo
	case "warn":
		lc.level = slog.LevelWarn
	case "error":
		lc.level = slog.LevelError
	default:
		return lc, fmt.Errorf("invalid log level: %s", levelStr)
	}

	// Resolve log path: flag → config → "".
	logPath := flagPath
	if logPath == "" {
		logPath = resolveStr("log.file")
	}

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return lc, fmt.Errorf("failed to open log file %s: %w", logPath, err)
		}
		lc.logFile = f
	}

	return lc, nil
}

// newLogger builds a slog.Logger from a resolved logConfig. File logging
// emits JSON lines; without a file, logs go to stderr as text.
func newLogger(lc logConfig, stderr io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: lc.level}
	if lc.logFile != nil {
		return slog.New(slog.NewJSONHandler(lc.logFile, opts))
	}
	return slog.New(slog.NewTextHandler(stderr, opts))
}
