package draft

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeDraftFile creates a draft file for key and backdates its mtime.
func writeDraftFile(t *testing.T, dir string, key Key, age time.Duration) string {
	t.Helper()

	store := NewFileStore(dir, nil)
	if !store.Save(key, NewDraft(testSnapshot(), time.Now().Add(-age))) {
		t.Fatalf("failed to seed draft for %s", key)
	}

	path := filepath.Join(dir, encodeKeyFileName(key))
	mtime := time.Now().Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCleanerAgeBased(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeDraftFile(t, dir, Key{Resource: "pages", Record: "page", Identity: "old"}, 48*time.Hour)
	newPath := writeDraftFile(t, dir, Key{Resource: "pages", Record: "page", Identity: "new"}, time.Minute)

	cleaner := &Cleaner{Dir: dir, MaxAgeDays: 1}
	report, err := cleaner.ExecuteCleanup(Key{})
	if err != nil {
		t.Fatal(err)
	}

	if len(report.Removed) != 1 || report.Removed[0].Identity != "old" {
		t.Fatalf("Removed = %v, want only the old draft", report.Removed)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Fatalf("old draft should be gone, stat err: %v", err)
	}
	if _, err := os.Stat(newPath); err != nil {
		t.Fatalf("new draft should remain, stat err: %v", err)
	}
}

func TestCleanerCountBased(t *testing.T) {
	dir := t.TempDir()
	writeDraftFile(t, dir, Key{Resource: "pages", Record: "page", Identity: "1"}, 3*time.Hour)
	writeDraftFile(t, dir, Key{Resource: "pages", Record: "page", Identity: "2"}, 2*time.Hour)
	writeDraftFile(t, dir, Key{Resource: "pages", Record: "page", Identity: "3"}, time.Hour)

	cleaner := &Cleaner{Dir: dir, MaxCount: 2}
	report, err := cleaner.ExecuteCleanup(Key{})
	if err != nil {
		t.Fatal(err)
	}

	// Oldest draft (identity "1") is pruned; the two newest survive.
	if len(report.Removed) != 1 || report.Removed[0].Identity != "1" {
		t.Fatalf("Removed = %v, want only identity 1", report.Removed)
	}

	remaining, err := ScanDrafts(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 drafts remaining, got %d", len(remaining))
	}
}

func TestCleanerPurge(t *testing.T) {
	dir := t.TempDir()
	writeDraftFile(t, dir, Key{Resource: "pages", Record: "page", Identity: "1"}, time.Minute)
	writeDraftFile(t, dir, Key{Resource: "pages", Record: "page", Identity: "2"}, time.Minute)

	cleaner := &Cleaner{Dir: dir, Purge: true}
	report, err := cleaner.ExecuteCleanup(Key{})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Removed) != 2 {
		t.Fatalf("Removed = %v, want both drafts", report.Removed)
	}

	remaining, err := ScanDrafts(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected empty directory after purge, got %d drafts", len(remaining))
	}
}

func TestCleanerExcludesCurrentKey(t *testing.T) {
	dir := t.TempDir()
	current := Key{Resource: "pages", Record: "page", Identity: "42"}
	writeDraftFile(t, dir, current, 48*time.Hour)
	writeDraftFile(t, dir, Key{Resource: "pages", Record: "page", Identity: "7"}, 48*time.Hour)

	cleaner := &Cleaner{Dir: dir, Purge: true}
	report, err := cleaner.ExecuteCleanup(current)
	if err != nil {
		t.Fatal(err)
	}

	if len(report.Removed) != 1 || report.Removed[0].Identity != "7" {
		t.Fatalf("Removed = %v, want only identity 7", report.Removed)
	}
	if len(report.Skipped) != 1 || report.Skipped[0] != current {
		t.Fatalf("Skipped = %v, want the excluded key", report.Skipped)
	}

	store := NewFileStore(dir, nil)
	if _, ok := store.Load(current); !ok {
		t.Fatal("excluded draft must survive cleanup")
	}
}

func TestCleanerDryRun(t *testing.T) {
	dir := t.TempDir()
	path := writeDraftFile(t, dir, Key{Resource: "pages", Record: "page", Identity: "old"}, 48*time.Hour)

	cleaner := &Cleaner{Dir: dir, MaxAgeDays: 1, DryRun: true}
	report, err := cleaner.ExecuteCleanup(Key{})
	if err != nil {
		t.Fatal(err)
	}

	if len(report.Removed) != 1 {
		t.Fatalf("dry run should list the candidate, got %v", report.Removed)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("dry run must not delete anything, stat err: %v", err)
	}
}

func TestCleanerEmptyDirectory(t *testing.T) {
	cleaner := &Cleaner{Dir: filepath.Join(t.TempDir(), "missing"), MaxAgeDays: 1}
	report, err := cleaner.ExecuteCleanup(Key{})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Removed) != 0 || len(report.Skipped) != 0 {
		t.Fatalf("unexpected report for missing directory: %+v", report)
	}
}

func TestCleanerGlobalLockContention(t *testing.T) {
	dir := t.TempDir()

	// Hold the global cleanup lock to simulate a concurrent cleaner.
	lock, err := acquireFileLock(filepath.Join(dir, "cleanup.lock"))
	if err != nil {
		t.Fatal(err)
	}
	defer releaseFileLock(lock)

	cleaner := &Cleaner{Dir: dir, Purge: true}
	if _, err := cleaner.ExecuteCleanup(Key{}); err == nil {
		t.Fatal("expected error while another cleaner holds the global lock")
	}
}
