package command

import (
	"fmt"
	"log/slog"

	"github.com/evolvingstuff/vdw-server/internal/config"
	"github.com/evolvingstuff/vdw-server/internal/draft"
)

// resolveDraftDir returns the draft directory for the fs backend,
// falling back to the default location when the config leaves it empty.
func resolveDraftDir(cfg *config.Config) (string, error) {
	if cfg != nil && cfg.Drafts.Dir != "" {
		return cfg.Drafts.Dir, nil
	}
	return config.DefaultDraftDir()
}

// resolveDatabasePath returns the SQLite database path for the sqlite
// backend, falling back to the default location when unset.
func resolveDatabasePath(cfg *config.Config) (string, error) {
	if cfg != nil && cfg.Drafts.DatabasePath != "" {
		return cfg.Drafts.DatabasePath, nil
	}
	return config.DefaultDatabasePath()
}

// openStore builds a draft.Store from the configured backend. The returned
// close function releases any backend resources; callers must defer it.
func openStore(cfg *config.Config, logger *slog.Logger) (draft.Store, func(), error) {
	backend := "fs"
	if cfg != nil && cfg.Drafts.Backend != "" {
		backend = cfg.Drafts.Backend
	}

	switch backend {
	case "memory":
		return draft.NewMemoryStore(), func() {}, nil

	case "sqlite":
		path, err := resolveDatabasePath(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
		store, err := draft.OpenSQLiteStore(path, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open draft database: %w", err)
		}
		return store, func() { _ = store.Close() }, nil

	case "fs":
		dir, err := resolveDraftDir(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve draft directory: %w", err)
		}
		return draft.NewFileStore(dir, logger), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown draft backend: %s", backend)
	}
}
