package draft

import (
	"strings"
	"testing"
	"time"

	"github.com/evolvingstuff/vdw-server/internal/form"
)

func testSnapshot() form.Snapshot {
	return form.Snapshot{
		"title":   form.StringValue("A"),
		"noindex": form.BoolValue(false),
		"tags":    form.ListValue([]string{"2", "5"}),
	}
}

func TestDraftEncodeDecodeRoundTrip(t *testing.T) {
	now := time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC)
	d := NewDraft(testSnapshot(), now)

	data, err := d.Encode()
	if err != nil {
		t.Fatal(err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.SchemaVersion != CurrentSchemaVersion {
		t.Fatalf("SchemaVersion = %d, want %d", got.SchemaVersion, CurrentSchemaVersion)
	}
	if !got.CapturedAt.Equal(now) {
		t.Fatalf("CapturedAt = %v, want %v", got.CapturedAt, now)
	}
	if !got.Snapshot.Equivalent(d.Snapshot) {
		t.Fatalf("snapshot changed over round trip: %s vs %s", got.Snapshot.Canonical(), d.Snapshot.Canonical())
	}
}

func TestDraftPersistedShape(t *testing.T) {
	now := time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC)
	d := NewDraft(form.Snapshot{"title": form.StringValue("AB")}, now)

	data, err := d.Encode()
	if err != nil {
		t.Fatal(err)
	}

	// Field values are encoded bare, not wrapped in type tags.
	for _, want := range []string{
		`"schemaVersion":1`,
		`"capturedAt":"2026-08-26T10:30:00Z"`,
		`"snapshot":{"title":"AB"}`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("encoded draft %s missing %s", data, want)
		}
	}
}

func TestDecodeRejectsWrongSchemaVersion(t *testing.T) {
	if _, err := Decode([]byte(`{"schemaVersion":2,"capturedAt":"2026-08-26T10:30:00Z","snapshot":{}}`)); err == nil {
		t.Fatal("expected error for future schema version")
	}
	if _, err := Decode([]byte(`{"capturedAt":"2026-08-26T10:30:00Z","snapshot":{}}`)); err == nil {
		t.Fatal("expected error for missing schema version")
	}
}

func TestDecodeRejectsCorruptContent(t *testing.T) {
	for _, data := range []string{"", "not json", `[]`, `{"schemaVersion":"one"}`} {
		if _, err := Decode([]byte(data)); err == nil {
			t.Errorf("Decode(%q): expected error, got nil", data)
		}
	}
}

func TestNewDraftClonesSnapshot(t *testing.T) {
	snap := testSnapshot()
	d := NewDraft(snap, time.Now())

	snap["title"] = form.StringValue("mutated")
	if got, _ := d.Snapshot["title"].String(); got != "A" {
		t.Fatal("draft snapshot must be isolated from later mutation of the source")
	}
}
