package draft

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS drafts (
	key        TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

// SQLiteStore persists drafts in a single SQLite database. It survives
// concurrent writers via WAL and a busy timeout, which the file-per-draft
// store cannot offer on network filesystems.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLiteStore opens (creating if necessary) the draft database at
// path. Opening can fail; once open, the Store methods are fail-soft
// like every other backend.
func OpenSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create draft database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open draft database: %w", err)
	}
	if path == ":memory:" {
		// Each connection to :memory: would otherwise get its own database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create drafts table: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load fetches and decodes the draft row for the key.
func (s *SQLiteStore) Load(key Key) (*Draft, bool) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM drafts WHERE key = ?`, key.String()).Scan(&payload)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Warn("failed to query draft", "key", key.String(), "error", err)
		}
		return nil, false
	}

	d, err := Decode([]byte(payload))
	if err != nil {
		s.logger.Warn("ignoring corrupt draft row", "key", key.String(), "error", err)
		return nil, false
	}
	return d, true
}

// Save upserts the draft row for the key.
func (s *SQLiteStore) Save(key Key, d *Draft) bool {
	if d == nil {
		return false
	}

	payload, err := d.Encode()
	if err != nil {
		s.logger.Warn("failed to encode draft", "key", key.String(), "error", err)
		return false
	}

	_, err = s.db.Exec(
		`INSERT INTO drafts (key, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		key.String(), string(payload), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		s.logger.Warn("failed to save draft", "key", key.String(), "error", err)
		return false
	}
	return true
}

// Clear deletes the draft row for the key, if any.
func (s *SQLiteStore) Clear(key Key) {
	if _, err := s.db.Exec(`DELETE FROM drafts WHERE key = ?`, key.String()); err != nil {
		s.logger.Warn("failed to clear draft", "key", key.String(), "error", err)
	}
}
