package draft

import (
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// draftFileSuffix is the extension shared by every persisted draft file.
const draftFileSuffix = ".draft.json"

// FileStore persists drafts as individual JSON files under a directory,
// one file per key. Writes are atomic (temp file + rename). All failures
// are logged and absorbed, per the Store contract.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates a store rooted at dir. The directory is created
// lazily on first write. A nil logger falls back to slog.Default.
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{dir: dir, logger: logger}
}

// Dir returns the directory the store writes into.
func (s *FileStore) Dir() string { return s.dir }

// Load reads and decodes the draft file for the key. Missing files,
// unreadable files, and corrupt content all report absence.
func (s *FileStore) Load(key Key) (*Draft, bool) {
	path := s.path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read draft file", "key", key.String(), "path", path, "error", err)
		}
		return nil, false
	}

	d, err := Decode(data)
	if err != nil {
		s.logger.Warn("ignoring corrupt draft file", "key", key.String(), "path", path, "error", err)
		return nil, false
	}
	return d, true
}

// Save encodes and atomically writes the draft. It reports false on any
// failure instead of returning an error.
func (s *FileStore) Save(key Key, d *Draft) bool {
	if d == nil {
		return false
	}

	data, err := d.Encode()
	if err != nil {
		s.logger.Warn("failed to encode draft", "key", key.String(), "error", err)
		return false
	}

	if err := AtomicWriteFile(s.path(key), data, 0644); err != nil {
		s.logger.Warn("failed to write draft file", "key", key.String(), "error", err)
		return false
	}
	return true
}

// Clear removes the draft file for the key. A missing file is success.
func (s *FileStore) Clear(key Key) {
	path := s.path(key)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove draft file", "key", key.String(), "path", path, "error", err)
	}
}

// path maps a key to its file path.
func (s *FileStore) path(key Key) string {
	return FilePath(s.dir, key)
}

// FilePath returns the on-disk path a key maps to under dir.
func FilePath(dir string, key Key) string {
	return filepath.Join(dir, encodeKeyFileName(key))
}

// encodeKeyFileName maps a key to a portable file name. Each segment is
// query-escaped individually, then the segments are joined with '=',
// which the escaper never emits. That keeps the common case readable
// (letters, digits, '.', '_' and '-' pass through) while round-tripping
// any segment content, including ':', '%', and '__'.
func encodeKeyFileName(key Key) string {
	return KeyPrefix + "=" +
		url.QueryEscape(key.Resource) + "=" +
		url.QueryEscape(key.Record) + "=" +
		url.QueryEscape(key.Identity) + draftFileSuffix
}

// decodeKeyFileName reverses encodeKeyFileName. It reports false for
// names that are not draft files or do not decode back into a key.
func decodeKeyFileName(name string) (Key, bool) {
	base, ok := strings.CutSuffix(name, draftFileSuffix)
	if !ok {
		return Key{}, false
	}
	parts := strings.Split(base, "=")
	if len(parts) != 4 || parts[0] != KeyPrefix {
		return Key{}, false
	}
	resource, err1 := url.QueryUnescape(parts[1])
	record, err2 := url.QueryUnescape(parts[2])
	identity, err3 := url.QueryUnescape(parts[3])
	if err1 != nil || err2 != nil || err3 != nil {
		return Key{}, false
	}
	if resource == "" || record == "" || identity == "" {
		return Key{}, false
	}
	return Key{Resource: resource, Record: record, Identity: identity}, true
}
