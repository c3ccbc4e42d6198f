package guard

import (
	"strings"
	"time"

	"github.com/evolvingstuff/vdw-server/internal/draft"
	"github.com/evolvingstuff/vdw-server/internal/form"
)

// RestoreOffer represents a restorable prior draft. The host renders it
// (typically as a dismissible bar showing the capture time) and invokes
// exactly one of Restore or Discard.
type RestoreOffer struct {
	draft   *draft.Draft
	session *Session
}

// Offer returns the pending restore offer, or nil when there is none
// (no stored draft, a draft equivalent to the baseline, or an offer
// already acted on).
func (s *Session) Offer() *RestoreOffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offer
}

// CapturedAt is the capture time of the offered draft, for display.
func (o *RestoreOffer) CapturedAt() time.Time {
	return o.draft.CapturedAt
}

// Snapshot returns the offered draft's snapshot.
func (o *RestoreOffer) Snapshot() form.Snapshot {
	return o.draft.Snapshot.Clone()
}

// Restore applies the draft to the live form, recomputes dirtiness, and
// immediately reschedules an autosave so the restored state itself
// becomes the persisted draft. The offer is consumed.
func (o *RestoreOffer) Restore() {
	s := o.session

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.offer != o {
		return
	}
	s.offer = nil

	form.Apply(s.form, o.draft.Snapshot)
	s.recomputeLocked()
	s.resetDebounceLocked()

	s.logger.Debug("draft restored",
		"session", s.id, "key", s.key.String(), "capturedAt", o.draft.CapturedAt)
}

// Discard deletes the stored draft and removes the offer. The live form
// is left untouched. The debounce timer is reset so no in-flight write
// races the deletion.
func (o *RestoreOffer) Discard() {
	s := o.session

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.offer != o {
		return
	}
	s.offer = nil

	s.store.Clear(s.key)
	s.resetDebounceLocked()

	s.logger.Debug("draft discarded", "session", s.id, "key", s.key.String())
}

// FeedbackRendered inspects post-save feedback text for success markers.
// On an update marker the record's draft is cleared; on a creation
// marker both the record's draft and the create-view draft are cleared,
// because an accepted "add" lands on the new record's edit view while
// the stale create-view draft would otherwise survive.
func (s *Session) FeedbackRendered(text string) {
	lower := strings.ToLower(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case strings.Contains(lower, strings.ToLower(s.createdMarker)):
		s.store.Clear(s.key)
		s.store.Clear(s.key.CreateKey())
		s.logger.Debug("creation detected, drafts cleared",
			"session", s.id, "key", s.key.String())
	case strings.Contains(lower, strings.ToLower(s.updatedMarker)):
		s.store.Clear(s.key)
		s.logger.Debug("update detected, draft cleared",
			"session", s.id, "key", s.key.String())
	}
}
