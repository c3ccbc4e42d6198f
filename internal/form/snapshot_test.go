package form

import (
	"encoding/json"
	"testing"
)

func TestCanonicalIsOrderInsensitive(t *testing.T) {
	a := Snapshot{
		"title": StringValue("Vitamin D"),
		"tags":  ListValue([]string{"3", "1", "2"}),
		"live":  BoolValue(true),
	}
	b := Snapshot{
		"live":  BoolValue(true),
		"tags":  ListValue([]string{"1", "2", "3"}),
		"title": StringValue("Vitamin D"),
	}

	if a.Canonical() != b.Canonical() {
		t.Errorf("canonical encodings differ:\n a=%s\n b=%s", a.Canonical(), b.Canonical())
	}
	if !a.Equivalent(b) {
		t.Error("snapshots with reordered keys/members should be equivalent")
	}
}

func TestCanonicalIsValueSensitive(t *testing.T) {
	a := Snapshot{"title": StringValue("A")}
	b := Snapshot{"title": StringValue("AB")}
	if a.Equivalent(b) {
		t.Error("snapshots with different values should not be equivalent")
	}

	c := Snapshot{"tags": ListValue([]string{"1"})}
	d := Snapshot{"tags": ListValue([]string{"1", "2"})}
	if c.Equivalent(d) {
		t.Error("snapshots with different member sets should not be equivalent")
	}
}

func TestCanonicalDistinguishesValueShapes(t *testing.T) {
	a := Snapshot{"x": StringValue("true")}
	b := Snapshot{"x": BoolValue(true)}
	if a.Equivalent(b) {
		t.Error(`string "true" and boolean true should not be equivalent`)
	}
}

func TestFieldValueJSONRoundTrip(t *testing.T) {
	snap := Snapshot{
		"title":  StringValue("A & B"),
		"live":   BoolValue(false),
		"tags":   ListValue([]string{"2", "1"}),
		"spare":  ListValue(nil),
		"remark": StringValue(""),
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Snapshot
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !snap.Equivalent(back) {
		t.Errorf("round trip changed snapshot:\n in=%s\nout=%s", snap.Canonical(), back.Canonical())
	}

	// The persisted form keeps source order for multi-values.
	tags, ok := back["tags"].List()
	if !ok {
		t.Fatal("tags should unmarshal as a list")
	}
	if len(tags) != 2 || tags[0] != "2" || tags[1] != "1" {
		t.Errorf("persisted list order not preserved: %v", tags)
	}
}

func TestFieldValueUnmarshalRejectsBadShapes(t *testing.T) {
	for _, raw := range []string{`42`, `{"a":1}`, `[1,2]`, `null`} {
		var v FieldValue
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			t.Errorf("expected error unmarshaling %s", raw)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := Snapshot{"tags": ListValue([]string{"1", "2"})}
	clone := orig.Clone()

	list, _ := clone["tags"].List()
	list[0] = "mutated"

	want := Snapshot{"tags": ListValue([]string{"1", "2"})}
	if orig.Canonical() != want.Canonical() {
		t.Error("mutating data obtained from a clone must not affect the original")
	}
}
