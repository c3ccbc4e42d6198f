package draft

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/evolvingstuff/vdw-server/internal/form"
)

func TestFileStoreSaveLoadClear(t *testing.T) {
	store := NewFileStore(t.TempDir(), nil)
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

func TestFileStoreKeysDoNotCollide(t *testing.T) {
	store := NewFileStore(t.TempDir(), nil)
	edit := Key{Resource: "pages", Record: "page", Identity: "42"}
	create := edit.CreateKey()

	store.Save(edit, NewDraft(form.Snapshot{"title": form.StringValue("edit")}, time.Now()))
	store.Save(create, NewDraft(form.Snapshot{"title": form.StringValue("create")}, time.Now()))

	gotEdit, ok := store.Load(edit)
	if !ok {
		t.Fatalf("edit draft missing")
	}
	if title, _ := gotEdit.Snapshot["title"].String(); title != "edit" {
		t.Fatalf("edit draft corrupted: %+v", gotEdit)
	}
	gotCreate, ok := store.Load(create)
	if !ok {
		t.Fatalf("create draft missing")
	}
	if title, _ := gotCreate.Snapshot["title"].String(); title != "create" {
		t.Fatalf("create draft corrupted: %+v", gotCreate)
	}

	// Clearing one key must not touch the other.
	store.Clear(create)
	if _, ok := store.Load(edit); !ok {
		t.Fatal("clearing the create draft removed the edit draft")
	}
}

func TestFileStoreCorruptFileReportsAbsent(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, nil)
	key := Key{Resource: "pages", Record: "page", Identity: "42"}

	path := filepath.Join(dir, encodeKeyFileName(key))
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, ok := store.Load(key); ok {
		t.Fatal("corrupt content must be treated as no draft")
	}
}

func TestFileStoreStaleSchemaReportsAbsent(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, nil)
	key := Key{Resource: "pages", Record: "page", Identity: "42"}

	path := filepath.Join(dir, encodeKeyFileName(key))
	stale := `{"schemaVersion":99,"capturedAt":"2026-08-26T10:30:00Z","snapshot":{}}`
	if err := os.WriteFile(path, []byte(stale), 0644); err != nil {
		t.Fatal(err)
	}

	if _, ok := store.Load(key); ok {
		t.Fatal("unknown schema version must be treated as no draft")
	}
}

func TestFileStoreUnwritableDirReportsFalse(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	dir := t.TempDir()
	if err := os.Chmod(dir, 0555); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(dir, 0755)

	store := NewFileStore(filepath.Join(dir, "drafts"), nil)
	key := Key{Resource: "pages", Record: "page", Identity: "42"}

	if store.Save(key, NewDraft(testSnapshot(), time.Now())) {
		t.Fatal("Save into an unwritable directory must report false, not panic")
	}
	// Clear must swallow the failure.
	store.Clear(key)
}

func TestFileNameEncodingRoundTrip(t *testing.T) {
	keys := []Key{
		{Resource: "pages", Record: "page", Identity: "add"},
		{Resource: "pages", Record: "page", Identity: "42"},
		// Hostile segments must survive the encoding unchanged.
		{Resource: "pages", Record: "page", Identity: "a__b"},
		{Resource: "pages", Record: "page", Identity: "with:colon"},
		{Resource: "pages", Record: "page", Identity: "50%done"},
		{Resource: "pages", Record: "page", Identity: "a/b\\c d+e=f"},
		{Resource: "my.app", Record: "page", Identity: "7"},
	}
	for _, key := range keys {
		name := encodeKeyFileName(key)
		if filepath.Base(name) != name {
			t.Fatalf("encoded name %q must not contain path separators", name)
		}
		if strings.ContainsAny(name, ":/\\") {
			t.Fatalf("encoded name %q must be filename-portable", name)
		}

		got, ok := decodeKeyFileName(name)
		if !ok {
			t.Fatalf("decodeKeyFileName(%q) failed", name)
		}
		if got != key {
			t.Fatalf("decodeKeyFileName(%q) = %+v, want %+v", name, got, key)
		}
	}

	if _, ok := decodeKeyFileName("random.txt"); ok {
		t.Fatal("non-draft file names must be rejected")
	}
}
