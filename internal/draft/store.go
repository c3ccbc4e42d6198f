package draft

// Store is the persistence contract consumed by the guard. Every
// implementation is fail-soft: no method panics or returns an error.
//
//   - Load reports (nil, false) when the key is absent, the content is
//     corrupt, or the backing storage is unavailable.
//   - Save reports false when the draft could not be persisted.
//   - Clear is best-effort; failures are swallowed.
type Store interface {
	Load(key Key) (*Draft, bool)
	Save(key Key, d *Draft) bool
	Clear(key Key)
}
