// Package guard protects an administrator editing a record from losing
// unsaved work. A Session watches one form for one page lifetime: it
// detects when the live form diverges from the server-rendered baseline,
// persists debounced drafts into a draft store, offers a prior unsaved
// draft back when the same record is reopened, and intercepts
// destructive navigation while edits are unsaved.
//
// Every storage interaction is best-effort. The guard degrades to "no
// autosave protection" on failure and never takes the hosting page down.
package guard

import "time"

// State is the session's position in its page lifetime.
type State int

const (
	// Clean means the live form is equivalent to the baseline.
	Clean State = iota
	// Dirty means the live form has diverged from the baseline.
	Dirty
	// Submitting means the form was submitted; the page is expected to
	// navigate away as the intended outcome, so the unload guard is
	// suppressed.
	Submitting
	// Navigating means the user explicitly approved leaving with unsaved
	// changes; further interception is suppressed.
	Navigating
)

func (s State) String() string {
	switch s {
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	case Submitting:
		return "submitting"
	case Navigating:
		return "navigating"
	default:
		return "unknown"
	}
}

const (
	// DefaultDebounce is the trailing-edge delay between the last
	// qualifying edit and the draft write it triggers.
	DefaultDebounce = 750 * time.Millisecond
	// DefaultAutosaveInterval is the period of the force-save timer that
	// guards against edit bursts that never settle.
	DefaultAutosaveInterval = 30 * time.Second

	// DefaultCreatedMarker and DefaultUpdatedMarker are the feedback
	// substrings recognized as successful saves. They mirror the admin's
	// banner wording; hosts with a structured success signal should
	// override them via Options.
	DefaultCreatedMarker = "was added successfully"
	DefaultUpdatedMarker = "was changed successfully"
)
