package guard

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/evolvingstuff/vdw-server/internal/draft"
	"github.com/evolvingstuff/vdw-server/internal/form"
)

// Options configures a Session. Form, Store, and Key are required;
// everything else has a default.
type Options struct {
	// Form is the live form the session watches and restores into.
	Form *form.Form
	// Store persists drafts. All its operations are fail-soft.
	Store draft.Store
	// Key identifies the record under edit.
	Key draft.Key

	// Debounce is the trailing-edge save delay. Zero means
	// DefaultDebounce.
	Debounce time.Duration
	// AutosaveInterval is the period of the force-save timer. Zero means
	// DefaultAutosaveInterval; negative disables the periodic timer.
	AutosaveInterval time.Duration

	// CreatedMarker and UpdatedMarker are the feedback substrings that
	// signal a successful creation or update. Empty means the defaults.
	CreatedMarker string
	UpdatedMarker string

	// Timers overrides timer construction for deterministic tests.
	Timers TimerFactory
	// Clock overrides time.Now for draft capture timestamps.
	Clock func() time.Time
	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Session is the guard for one form over one page lifetime. All methods
// are safe for concurrent use; the session serializes its own work.
type Session struct {
	mu sync.Mutex

	id     string
	form   *form.Form
	store  draft.Store
	key    draft.Key
	logger *slog.Logger
	clock  func() time.Time

	debounce         time.Duration
	autosaveInterval time.Duration
	createdMarker    string
	updatedMarker    string

	baseline form.Snapshot
	state    State
	approved bool

	offer *RestoreOffer

	newTimer      TimerFactory
	debounceTimer Timer
	periodicTimer Timer
	stopped       bool
}

// New captures the baseline from the form, consults the store for an
// existing draft, starts the periodic force-save timer, and returns the
// ready session. A draft equivalent to the baseline is suppressed, not
// offered.
func New(opts Options) (*Session, error) {
	if opts.Form == nil {
		return nil, fmt.Errorf("guard: Options.Form is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("guard: Options.Store is required")
	}
	if opts.Key == (draft.Key{}) {
		return nil, fmt.Errorf("guard: Options.Key is required")
	}

	s := &Session{
		id:               uuid.NewString(),
		form:             opts.Form,
		store:            opts.Store,
		key:              opts.Key,
		logger:           opts.Logger,
		clock:            opts.Clock,
		debounce:         opts.Debounce,
		autosaveInterval: opts.AutosaveInterval,
		createdMarker:    opts.CreatedMarker,
		updatedMarker:    opts.UpdatedMarker,
		newTimer:         opts.Timers,
		state:            Clean,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.debounce == 0 {
		s.debounce = DefaultDebounce
	}
	if s.autosaveInterval == 0 {
		s.autosaveInterval = DefaultAutosaveInterval
	}
	if s.createdMarker == "" {
		s.createdMarker = DefaultCreatedMarker
	}
	if s.updatedMarker == "" {
		s.updatedMarker = DefaultUpdatedMarker
	}
	if s.newTimer == nil {
		s.newTimer = realTimerFactory
	}

	s.baseline = form.Capture(s.form)

	if d, ok := s.store.Load(s.key); ok && !d.Snapshot.Equivalent(s.baseline) {
		s.offer = &RestoreOffer{draft: d, session: s}
		s.logger.Debug("found restorable draft",
			"session", s.id, "key", s.key.String(), "capturedAt", d.CapturedAt)
	}

	if s.autosaveInterval > 0 {
		s.periodicTimer = s.newTimer(s.autosaveInterval, s.periodicFire)
	}

	s.logger.Debug("guard session started",
		"session", s.id, "key", s.key.String(), "fields", len(s.baseline))
	return s, nil
}

// Key returns the draft key the session persists under.
func (s *Session) Key() draft.Key { return s.key }

// State returns the current lifecycle state. Dirtiness is recomputed
// from the live form, so a form edited back to its original values
// reports Clean.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recomputeLocked()
	return s.state
}

// Dirty reports whether the live form differs from the baseline.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recomputeLocked()
}

// FieldChanged is the field-level input/change event. It recomputes
// dirtiness and (re)schedules the debounced save; a burst of events
// results in a single trailing write.
func (s *Session) FieldChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	if s.recomputeLocked() {
		s.resetDebounceLocked()
	} else if s.debounceTimer != nil {
		// Round-tripped back to baseline; a pending write would no-op
		// anyway, so drop it.
		s.debounceTimer.Stop()
	}
}

// SubmitStarted marks the form as submitted. While Submitting, the
// unload guard is suppressed: navigation is the intended outcome.
func (s *Session) SubmitStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Submitting
	s.logger.Debug("form submitted", "session", s.id, "key", s.key.String())
}

// Rebaseline adopts the current live form as the new baseline, e.g.
// after a host performed an in-place save. The session returns to Clean
// and any pending debounced write is dropped.
func (s *Session) Rebaseline() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.baseline = form.Capture(s.form)
	s.state = Clean
	s.approved = false
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.logger.Debug("rebaselined", "session", s.id, "key", s.key.String())
}

// SaveNow forces an immediate save attempt, subject to the same dirty
// gating as scheduled saves. It reports whether a draft was written.
func (s *Session) SaveNow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// Stop cancels the session's timers. The session remains usable for
// synchronous queries but schedules no further saves.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	if s.periodicTimer != nil {
		s.periodicTimer.Stop()
	}
}

// recomputeLocked recomputes dirtiness from the live form and maintains
// the Clean<->Dirty transition. Submitting and Navigating are sticky.
func (s *Session) recomputeLocked() bool {
	live := form.Capture(s.form)
	dirty := !live.Equivalent(s.baseline)

	switch s.state {
	case Clean:
		if dirty {
			s.state = Dirty
			s.logger.Debug("form became dirty", "session", s.id, "key", s.key.String())
		}
	case Dirty:
		if !dirty {
			s.state = Clean
			s.logger.Debug("form back to clean", "session", s.id, "key", s.key.String())
		}
	}
	return dirty
}

// resetDebounceLocked (re)schedules the trailing-edge save. The timer is
// always reset, never stacked.
func (s *Session) resetDebounceLocked() {
	if s.stopped {
		return
	}
	if s.debounceTimer == nil {
		s.debounceTimer = s.newTimer(s.debounce, s.debounceFire)
		return
	}
	s.debounceTimer.Reset(s.debounce)
}

func (s *Session) debounceFire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveLocked()
}

func (s *Session) periodicFire() {
	s.mu.Lock()
	if !s.stopped {
		s.saveLocked()
		if s.periodicTimer != nil {
			s.periodicTimer.Reset(s.autosaveInterval)
		}
	}
	s.mu.Unlock()
}

// saveLocked recomputes dirtiness at write time, so the persisted
// snapshot always reflects the latest form state. Clean forms produce
// no draft churn.
func (s *Session) saveLocked() bool {
	if s.stopped {
		return false
	}

	live := form.Capture(s.form)
	if live.Equivalent(s.baseline) {
		if s.state == Dirty {
			s.state = Clean
		}
		return false
	}
	if s.state == Clean {
		s.state = Dirty
	}

	d := draft.NewDraft(live, s.clock())
	if !s.store.Save(s.key, d) {
		s.logger.Warn("draft save skipped", "session", s.id, "key", s.key.String())
		return false
	}
	s.logger.Debug("draft saved", "session", s.id, "key", s.key.String())
	return true
}
