package draft

import "sync"

// MemoryStore is an in-process Store used by tests and by hosts that do
// not want drafts to outlive the process. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]*Draft
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]*Draft)}
}

// Load returns a copy of the stored draft, if any.
func (s *MemoryStore) Load(key Key) (*Draft, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drafts[key.String()]
	if !ok {
		return nil, false
	}
	return copyDraft(d), true
}

// Save stores a copy of the draft. It only fails for a nil draft.
func (s *MemoryStore) Save(key Key, d *Draft) bool {
	if d == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts[key.String()] = copyDraft(d)
	return true
}

// Clear removes the draft for the key, if present.
func (s *MemoryStore) Clear(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, key.String())
}

// Len reports the number of stored drafts.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.drafts)
}

// copyDraft deep-copies a draft so callers and the store never share a
// snapshot.
func copyDraft(d *Draft) *Draft {
	return &Draft{
		SchemaVersion: d.SchemaVersion,
		CapturedAt:    d.CapturedAt,
		Snapshot:      d.Snapshot.Clone(),
	}
}
