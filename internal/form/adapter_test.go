package form

import (
	"testing"
)

// pageForm builds a form resembling the admin page editor: text inputs,
// a status radio group, a checkbox, a single select, and control fields
// that must never be captured.
func pageForm() *Form {
	return New(
		&Control{ID: "id_title", Name: "title", Type: TypeTextarea, Value: "Vitamin D"},
		&Control{ID: "id_slug", Name: "slug", Type: TypeText, Value: "vitamin-d"},
		&Control{ID: "id_status_0", Name: "status", Type: TypeRadio, Value: "draft", Checked: true},
		&Control{ID: "id_status_1", Name: "status", Type: TypeRadio, Value: "published"},
		&Control{ID: "id_noindex", Name: "noindex", Type: TypeCheckbox, Checked: false},
		&Control{ID: "id_template", Name: "template", Type: TypeSelect, Value: "default", Options: []Option{
			{Value: "default", Label: "Default", Selected: true},
			{Value: "wide", Label: "Wide"},
		}},
		&Control{Name: "csrfmiddlewaretoken", Type: TypeHidden, Value: "token"},
		&Control{ID: "id_save", Name: "_save", Type: TypeSubmit, Value: "Save"},
		&Control{ID: "id_upload", Name: "upload", Type: TypeFile},
		&Control{ID: "id_internal", Name: "internal", Type: TypeText, Value: "x", Disabled: true},
		&Control{Type: TypeText, Value: "anonymous"},
	)
}

func TestCaptureExcludesControlFields(t *testing.T) {
	snap := Capture(pageForm())

	for _, excluded := range []string{"csrfmiddlewaretoken", "_save", "upload", "internal"} {
		if _, ok := snap[excluded]; ok {
			t.Errorf("field %q should be excluded from snapshots", excluded)
		}
	}
	if len(snap) != 5 {
		t.Errorf("expected 5 captured fields, got %d: %s", len(snap), snap.Canonical())
	}
}

func TestCaptureFieldValues(t *testing.T) {
	snap := Capture(pageForm())

	if v, _ := snap["title"].String(); v != "Vitamin D" {
		t.Errorf("title = %q", v)
	}
	if v, _ := snap["status"].String(); v != "draft" {
		t.Errorf("status = %q", v)
	}
	if b, _ := snap["noindex"].Bool(); b {
		t.Error("noindex should be false")
	}
	if v, _ := snap["template"].String(); v != "default" {
		t.Errorf("template = %q", v)
	}
}

func TestCaptureRadioGroupWithNoActiveMemberIsAbsent(t *testing.T) {
	f := New(
		&Control{ID: "id_status_0", Name: "status", Type: TypeRadio, Value: "draft"},
		&Control{ID: "id_status_1", Name: "status", Type: TypeRadio, Value: "published"},
	)
	snap := Capture(f)
	if _, ok := snap["status"]; ok {
		t.Error("radio group without an active member should be absent")
	}
}

func TestApplyThenCaptureIsIdempotent(t *testing.T) {
	source := pageForm()
	source.Lookup("title").Value = "Vitamin D and Sunlight"
	source.Lookup("noindex").Checked = true
	applyRadioGroup(source, "status", "published")
	want := Capture(source)

	target := pageForm()
	Apply(target, want)
	got := Capture(target)

	if !want.Equivalent(got) {
		t.Errorf("apply/capture round trip diverged:\nwant %s\n got %s", want.Canonical(), got.Canonical())
	}
}

func TestApplyIgnoresStaleValues(t *testing.T) {
	f := pageForm()
	stale := Snapshot{
		"status":   StringValue("archived"),  // no such radio member anymore
		"template": StringValue("obsolete"),  // option removed since capture
		"gone":     StringValue("whatever"),  // field removed entirely
		"noindex":  StringValue("not-bool"),  // shape changed across revisions
	}

	Apply(f, stale)

	if v, _ := radioGroupValue(f, "status"); v != "draft" {
		t.Errorf("stale radio value should leave group untouched, got %q", v)
	}
	if f.Lookup("template").Value != "default" {
		t.Errorf("stale option should leave select untouched, got %q", f.Lookup("template").Value)
	}
	if f.Lookup("noindex").Checked {
		t.Error("mismatched value shape should leave checkbox untouched")
	}
}

func TestApplyMultiSelect(t *testing.T) {
	f := New(
		&Control{ID: "id_related", Name: "related", Type: TypeSelectMulti, Options: []Option{
			{Value: "1", Selected: true},
			{Value: "2"},
			{Value: "3", Selected: true},
		}},
	)

	Apply(f, Snapshot{"related": ListValue([]string{"2", "3", "404"})})

	got := f.Lookup("related").SelectedValues()
	if len(got) != 2 || got[0] != "2" || got[1] != "3" {
		t.Errorf("selected = %v, want [2 3]", got)
	}
}

func TestClassifyKinds(t *testing.T) {
	f := New(
		&Control{ID: "id_tags_to", Name: "tags", Type: TypeSelectMulti},
		&Control{ID: "id_tags_from", Type: TypeSelectMulti},
		&Control{ID: "id_plain", Name: "plain", Type: TypeSelectMulti},
	)

	tests := []struct {
		id       string
		kind     Kind
		eligible bool
	}{
		{"id_tags_to", KindDualList, true},
		{"id_tags_from", KindText, false},
		{"id_plain", KindMultiSelect, true},
	}
	for _, tt := range tests {
		c := f.lookupID(tt.id)
		kind, ok := Classify(f, c)
		if ok != tt.eligible {
			t.Errorf("%s: eligible = %v, want %v", tt.id, ok, tt.eligible)
		}
		if tt.eligible && kind != tt.kind {
			t.Errorf("%s: kind = %v, want %v", tt.id, kind, tt.kind)
		}
	}
}
