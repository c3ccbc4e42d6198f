package command

import (
	"context"
	"time"

	"github.com/evolvingstuff/vdw-server/internal/config"
	"github.com/evolvingstuff/vdw-server/internal/draft"
)

// maybeStartCleanupScheduler starts a background cleanup scheduler if
// automatic cleanup is enabled in the configuration. It returns a stop
// function that cancels the scheduler; callers must defer it.
//
// Cleanup only applies to the fs backend: the scheduler prunes draft
// files on disk. When cfg is nil, AutoCleanupEnabled is false, or the
// backend is not fs, the returned stop function is a no-op.
func maybeStartCleanupScheduler(cfg *config.Config, exclude draft.Key) (stop func()) {
	if cfg == nil || !cfg.Drafts.AutoCleanupEnabled || cfg.Drafts.Backend != "fs" {
		return func() {}
	}

	dir, err := resolveDraftDir(cfg)
	if err != nil {
		return func() {}
	}

	cleaner := &draft.Cleaner{
		Dir:        dir,
		MaxAgeDays: cfg.Drafts.MaxAgeDays,
		MaxCount:   cfg.Drafts.MaxCount,
	}

	interval := time.Duration(cfg.Drafts.CleanupIntervalHours) * time.Hour

	scheduler := &draft.CleanupScheduler{
		Cleaner:  cleaner,
		Exclude:  exclude,
		Interval: interval,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go scheduler.Run(ctx)

	return cancel
}
