package draft

import (
	"testing"
	"time"

	"github.com/evolvingstuff/vdw-server/internal/form"
)

func openTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLiteStore(":memory:", nil)
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreSaveLoadClear(t *testing.T) {
	store := openTestSQLiteStore(t)
	key := Key{Resource: "pages", Record: "page", Identity: "42"}

	if _, ok := store.Load(key); ok {
		t.Fatal("expected no draft before first save")
	}

	d := NewDraft(testSnapshot(), time.Now())
	if !store.Save(key, d) {
		t.Fatal("Save reported failure")
	}

	got, ok := store.Load(key)
	if !ok {
		t.Fatal("expected draft after save")
	}
	if !got.Snapshot.Equivalent(d.Snapshot) {
		t.Fatalf("loaded snapshot %s, want %s", got.Snapshot.Canonical(), d.Snapshot.Canonical())
	}

	store.Clear(key)
	if _, ok := store.Load(key); ok {
		t.Fatal("expected no draft after clear")
	}
}

func TestSQLiteStoreUpsert(t *testing.T) {
	store := openTestSQLiteStore(t)
	key := Key{Resource: "pages", Record: "page", Identity: "42"}

	store.Save(key, NewDraft(form.Snapshot{"title": form.StringValue("A")}, time.Now()))
	store.Save(key, NewDraft(form.Snapshot{"title": form.StringValue("AB")}, time.Now()))

	got, ok := store.Load(key)
	if !ok {
		t.Fatal("expected draft after overwrite")
	}
	if title, _ := got.Snapshot["title"].String(); title != "AB" {
		t.Fatalf("title = %q, want %q", title, "AB")
	}
}

func TestSQLiteStoreCorruptRowReportsAbsent(t *testing.T) {
	store := openTestSQLiteStore(t)
	key := Key{Resource: "pages", Record: "page", Identity: "42"}

	_, err := store.db.Exec(
		`INSERT INTO drafts (key, payload, updated_at) VALUES (?, ?, ?)`,
		key.String(), "not json", time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := store.Load(key); ok {
		t.Fatal("corrupt row must be treated as no draft")
	}
}

func TestSQLiteStoreFileBacked(t *testing.T) {
	path := t.TempDir() + "/drafts.db"

	store, err := OpenSQLiteStore(path, nil)
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}

	key := Key{Resource: "pages", Record: "page", Identity: "7"}
	store.Save(key, NewDraft(testSnapshot(), time.Now()))
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopen and verify the draft survived.
	store, err = OpenSQLiteStore(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()

	if _, ok := store.Load(key); !ok {
		t.Fatal("draft did not survive close/reopen")
	}
}
