package guard

import "time"

// Timer is the subset of time.Timer the session needs. It exists so
// tests can fire timers deterministically instead of sleeping.
type Timer interface {
	// Stop prevents the timer from firing. It reports whether the call
	// stopped a pending fire.
	Stop() bool
	// Reset reschedules the timer to fire after d.
	Reset(d time.Duration) bool
}

// TimerFactory creates a timer that calls fn after d, analogous to
// time.AfterFunc. If nil, the session uses real timers.
type TimerFactory func(d time.Duration, fn func()) Timer

func realTimerFactory(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
