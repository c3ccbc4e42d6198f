package draft

import (
	"fmt"
	"strings"
)

// KeyPrefix is the fixed namespace shared by every draft key, keeping
// drafts distinguishable from any other data in the same store.
const KeyPrefix = "vdwFormDraft"

// CreateIdentity is the identity segment used for records that do not
// exist yet. It mirrors the literal trailing segment of a create-view
// URL, so the create view of a resource never collides with any edit
// view of the same resource.
const CreateIdentity = "add"

// Key identifies one draft: which kind of record, which record, and
// whether the user was creating or editing it.
type Key struct {
	// Resource is the owning application or subsystem (e.g. "pages").
	Resource string
	// Record is the record kind within the resource (e.g. "page").
	Record string
	// Identity is the record identifier from the URL, or CreateIdentity
	// for the create view.
	Identity string
}

// String renders the canonical persisted form:
// "<prefix>:<resource>.<record>:<identity>".
func (k Key) String() string {
	return KeyPrefix + ":" + k.Resource + "." + k.Record + ":" + k.Identity
}

// IsCreate reports whether this key belongs to a create view.
func (k Key) IsCreate() bool {
	return k.Identity == CreateIdentity
}

// CreateKey returns the create-view counterpart of this key. After a
// successful creation both the create key and the newly-resolved edit
// key must be cleared, so callers frequently need both.
func (k Key) CreateKey() Key {
	return Key{Resource: k.Resource, Record: k.Record, Identity: CreateIdentity}
}

// ParseKey parses the canonical string form back into a Key. It is the
// inverse of Key.String for any key whose segments are free of ':' and
// whose record kind is free of '.'.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Key{}, fmt.Errorf("malformed draft key %q: expected 3 colon-separated segments, got %d", s, len(parts))
	}
	if parts[0] != KeyPrefix {
		return Key{}, fmt.Errorf("malformed draft key %q: unknown prefix %q", s, parts[0])
	}
	dot := strings.LastIndex(parts[1], ".")
	if dot <= 0 || dot == len(parts[1])-1 {
		return Key{}, fmt.Errorf("malformed draft key %q: middle segment %q is not <resource>.<record>", s, parts[1])
	}
	k := Key{
		Resource: parts[1][:dot],
		Record:   parts[1][dot+1:],
		Identity: parts[2],
	}
	if k.Identity == "" {
		return Key{}, fmt.Errorf("malformed draft key %q: empty identity", s)
	}
	return k, nil
}
