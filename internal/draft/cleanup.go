package draft

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// errWouldBlock is returned by acquireFileLock when another process
// already holds the lock.
var errWouldBlock = errors.New("lock is held by another process")

// Cleaner enforces retention policies for on-disk draft files.
type Cleaner struct {
	// Dir is the draft directory to clean.
	Dir string
	// MaxAgeDays removes drafts not updated within this many days. Zero
	// disables age-based pruning.
	MaxAgeDays int
	// MaxCount keeps only the newest MaxCount drafts. Zero disables
	// count-based pruning.
	MaxCount int
	// DryRun when true makes ExecuteCleanup report what it would remove
	// but does not actually delete any files.
	DryRun bool
	// Purge when true instructs the cleaner to ignore retention policies
	// and consider all non-excluded drafts for removal.
	Purge bool
}

// CleanupReport summarizes what was removed and what was skipped.
type CleanupReport struct {
	Removed []Key
	Skipped []Key
}

// ExecuteCleanup runs the cleanup process and returns a report.
// exclude is a key to never delete (e.g., the draft of the record
// currently being edited); pass the zero Key for no exclusion.
func (c *Cleaner) ExecuteCleanup(exclude Key) (*CleanupReport, error) {
	// A directory that was never created holds no drafts.
	if _, err := os.Stat(c.Dir); os.IsNotExist(err) {
		return &CleanupReport{}, nil
	}

	// Acquire a global cleanup lock to avoid concurrent cleaners
	// double-deleting or racing an inspector.
	globalLockPath := filepath.Join(c.Dir, "cleanup.lock")

	globalLock, err := acquireFileLock(globalLockPath)
	if err != nil {
		// If we can't acquire the global lock, bail out to avoid a race.
		return nil, fmt.Errorf("failed to acquire global cleanup lock: %w", err)
	}
	defer releaseFileLock(globalLock)

	drafts, err := ScanDrafts(c.Dir)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var candidates []Info
	var report CleanupReport

	for _, d := range drafts {
		if d.Key == exclude && exclude != (Key{}) {
			report.Skipped = append(report.Skipped, d.Key)
			continue
		}
		candidates = append(candidates, d)
	}

	toRemove := map[string]Info{}

	// Age-based deletions
	if c.MaxAgeDays > 0 {
		cutoff := now.Add(-time.Duration(c.MaxAgeDays) * 24 * time.Hour)
		for _, d := range candidates {
			if d.UpdatedAt.Before(cutoff) {
				toRemove[d.Key.String()] = d
			}
		}
	}

	// Purge mode: select all candidates
	if c.Purge {
		for _, d := range candidates {
			toRemove[d.Key.String()] = d
		}
	}

	// Count-based pruning: keep newest MaxCount
	if c.MaxCount > 0 && len(candidates) > c.MaxCount {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].UpdatedAt.After(candidates[j].UpdatedAt)
		})
		for _, d := range candidates[c.MaxCount:] {
			toRemove[d.Key.String()] = d
		}
	}

	for _, d := range toRemove {
		if c.DryRun {
			report.Removed = append(report.Removed, d.Key)
			continue
		}
		if err := os.Remove(d.Path); err != nil && !os.IsNotExist(err) {
			report.Skipped = append(report.Skipped, d.Key)
			continue
		}
		report.Removed = append(report.Removed, d.Key)
	}

	// Deterministic report order for callers that print it.
	sort.Slice(report.Removed, func(i, j int) bool {
		return report.Removed[i].String() < report.Removed[j].String()
	})
	sort.Slice(report.Skipped, func(i, j int) bool {
		return report.Skipped[i].String() < report.Skipped[j].String()
	})

	return &report, nil
}
