// Package draft persists unsaved form snapshots so an interrupted edit
// can be offered back to the user when the same record is reopened.
//
// Persistence is strictly best-effort: a store never propagates a failure
// to the caller. A read that cannot produce a valid draft reports absence,
// a write that cannot complete reports false, and a clear that fails is
// swallowed. The worst outcome of a broken store is "no autosave
// protection", never a broken editor.
package draft

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/evolvingstuff/vdw-server/internal/form"
)

// CurrentSchemaVersion is the version stamped on every draft this code
// writes. Drafts carrying any other version are treated as absent.
const CurrentSchemaVersion = 1

// Draft is a timestamped, versioned snapshot of unsaved form state.
type Draft struct {
	SchemaVersion int           `json:"schemaVersion"`
	CapturedAt    time.Time     `json:"capturedAt"`
	Snapshot      form.Snapshot `json:"snapshot"`
}

// NewDraft stamps the given snapshot with the current schema version and
// capture time. The snapshot is cloned so later form edits cannot mutate
// the draft retroactively.
func NewDraft(snap form.Snapshot, now time.Time) *Draft {
	return &Draft{
		SchemaVersion: CurrentSchemaVersion,
		CapturedAt:    now.UTC(),
		Snapshot:      snap.Clone(),
	}
}

// Encode serializes the draft to its persisted JSON shape.
func (d *Draft) Encode() ([]byte, error) {
	if d.SchemaVersion != CurrentSchemaVersion {
		return nil, fmt.Errorf("cannot encode draft with schema version %d (current is %d)", d.SchemaVersion, CurrentSchemaVersion)
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft: %w", err)
	}
	return data, nil
}

// Decode parses a persisted draft. Content that does not parse, or that
// carries an unexpected schema version, is an error; callers map that
// error to "no draft".
func Decode(data []byte) (*Draft, error) {
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	if d.SchemaVersion != CurrentSchemaVersion {
		return nil, fmt.Errorf("unsupported draft schema version %d (current is %d)", d.SchemaVersion, CurrentSchemaVersion)
	}
	if d.Snapshot == nil {
		d.Snapshot = form.Snapshot{}
	}
	return &d, nil
}
