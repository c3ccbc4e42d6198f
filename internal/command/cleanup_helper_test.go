package command

import (
	"os"
	"testing"
	"time"

	"github.com/evolvingstuff/vdw-server/internal/config"
	"github.com/evolvingstuff/vdw-server/internal/draft"
)

func TestMaybeStartCleanupSchedulerDisabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Drafts.AutoCleanupEnabled = false

	stop := maybeStartCleanupScheduler(cfg, draft.Key{})
	stop() // must be a callable no-op
}

func TestMaybeStartCleanupSchedulerNilConfig(t *testing.T) {
	stop := maybeStartCleanupScheduler(nil, draft.Key{})
	stop()
}

func TestMaybeStartCleanupSchedulerNonFSBackend(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Drafts.Backend = "memory"

	stop := maybeStartCleanupScheduler(cfg, draft.Key{})
	stop()
}

func TestMaybeStartCleanupSchedulerRunsImmediately(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Drafts.Dir = t.TempDir()
	cfg.Drafts.MaxAgeDays = 7
	cfg.Drafts.CleanupIntervalHours = 1

	stale := editKey()
	seedDraft(t, cfg, stale, 30*24*time.Hour)

	stop := maybeStartCleanupScheduler(cfg, draft.Key{})
	defer stop()

	// The scheduler runs one cleanup on startup; give it a moment.
	path := draft.FilePath(cfg.Drafts.Dir, stale)
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expected the startup cleanup run to remove the stale draft")
}

func TestMaybeStartCleanupSchedulerExcludesActiveKey(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Drafts.Dir = t.TempDir()
	cfg.Drafts.MaxAgeDays = 7
	cfg.Drafts.CleanupIntervalHours = 1

	active := editKey()
	other := draft.Key{Resource: "pages", Record: "page", Identity: "7"}
	seedDraft(t, cfg, active, 30*24*time.Hour)
	seedDraft(t, cfg, other, 30*24*time.Hour)

	stop := maybeStartCleanupScheduler(cfg, active)
	defer stop()

	otherPath := draft.FilePath(cfg.Drafts.Dir, other)
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(otherPath); os.IsNotExist(err) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if _, err := os.Stat(draft.FilePath(cfg.Drafts.Dir, active)); err != nil {
		t.Fatalf("excluded key must survive cleanup: %v", err)
	}
}
