package draft

import (
	"testing"
	"time"

	"github.com/evolvingstuff/vdw-server/internal/form"
)

func TestMemoryStoreSaveLoadClear(t *testing.T) {
	store := NewMemoryStore()
	key := Key{Resource: "pages", Record: "page", Identity: "42"}

	if _, ok := store.Load(key); ok {
		t.Fatal("expected empty store")
	}

	d := NewDraft(testSnapshot(), time.Now())
	if !store.Save(key, d) {
		t.Fatal("Save reported failure")
	}
	if store.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", store.Len())
	}

	got, ok := store.Load(key)
	if !ok || !got.Snapshot.Equivalent(d.Snapshot) {
		t.Fatalf("Load() = %+v ok=%v", got, ok)
	}

	store.Clear(key)
	if _, ok := store.Load(key); ok {
		t.Fatal("expected no draft after clear")
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	store := NewMemoryStore()
	key := Key{Resource: "pages", Record: "page", Identity: "42"}

	d := NewDraft(form.Snapshot{"title": form.StringValue("A")}, time.Now())
	store.Save(key, d)

	// Mutating the saved draft must not affect the stored copy.
	d.Snapshot["title"] = form.StringValue("mutated")

	got, _ := store.Load(key)
	if title, _ := got.Snapshot["title"].String(); title != "A" {
		t.Fatal("store must hold its own copy of the draft")
	}

	// Mutating a loaded draft must not affect subsequent loads.
	got.Snapshot["title"] = form.StringValue("mutated")
	again, _ := store.Load(key)
	if title, _ := again.Snapshot["title"].String(); title != "A" {
		t.Fatal("loaded drafts must be independent copies")
	}
}

func TestMemoryStoreNilDraft(t *testing.T) {
	store := NewMemoryStore()
	if store.Save(Key{Resource: "pages", Record: "page", Identity: "1"}, nil) {
		t.Fatal("saving a nil draft must report false")
	}
}
