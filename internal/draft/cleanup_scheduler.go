package draft

import (
	"context"
	"time"
)

// CleanupScheduler runs periodic draft cleanup in a background goroutine.
// It executes cleanup immediately on Run, then at the configured interval.
type CleanupScheduler struct {
	// Cleaner defines the retention policy to apply.
	Cleaner *Cleaner
	// Exclude is a draft key to exclude from cleanup (e.g., the record
	// currently open in an editor). The zero Key means no exclusion.
	Exclude Key
	// Interval is the time between cleanup runs. If <= 0, only the initial
	// cleanup on startup is performed and Run returns immediately after.
	Interval time.Duration

	// NewTicker creates a ticker channel and its stop function.
	// If nil, time.NewTicker is used. Inject a custom implementation for
	// deterministic testing without real timers.
	NewTicker func(d time.Duration) (tick <-chan time.Time, stop func())
}

// Run executes cleanup immediately, then at intervals until ctx is
// cancelled. It blocks until ctx.Done() fires. Cleanup errors are
// silently ignored because cleanup is best-effort; the cleaner already
// handles concurrent access safely via the global cleanup lock.
func (s *CleanupScheduler) Run(ctx context.Context) {
	s.runOnce()

	if s.Interval <= 0 {
		<-ctx.Done()
		return
	}

	newTicker := s.NewTicker
	if newTicker == nil {
		newTicker = defaultNewTicker
	}

	ch, stop := newTicker(s.Interval)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			s.runOnce()
		}
	}
}

func (s *CleanupScheduler) runOnce() {
	_, _ = s.Cleaner.ExecuteCleanup(s.Exclude)
}

// defaultNewTicker wraps time.NewTicker to match the NewTicker signature.
func defaultNewTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}
