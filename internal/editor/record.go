package editor

import "github.com/evolvingstuff/vdw-server/internal/form"

// Record holds the initial values the editor renders for a record. The
// zero value is a sensible blank record for create pages.
type Record struct {
	Title     string
	Slug      string
	Status    string // one of StatusValues
	Published bool
	Content   string
	// Tags is the chosen tag set; AvailableTags is the rest of the pool.
	Tags          []form.Entry
	AvailableTags []form.Entry
}

// StatusValues are the status radio group's members, in render order.
var StatusValues = []string{"draft", "published", "archived"}

// Dual-list box ids for the tags widget.
const (
	tagsChosenBoxID    = "id_tags_to"
	tagsAvailableBoxID = "id_tags_from"
)

// BuildForm renders a Record into the control set of the admin page
// form, wires up the dual-list selector cache, and returns both. The
// control roster mirrors the page: an anti-forgery token, text inputs,
// a status radio group, a checkbox, a textarea, and a tags dual-list
// whose chosen half carries the field name.
func BuildForm(rec Record) (*form.Form, *form.SelectorCache) {
	status := rec.Status
	if status == "" {
		status = StatusValues[0]
	}

	controls := []*form.Control{
		{Name: "csrfmiddlewaretoken", Type: form.TypeHidden, Value: "token"},
		{ID: "id_title", Name: "title", Type: form.TypeText, Value: rec.Title},
		{ID: "id_slug", Name: "slug", Type: form.TypeText, Value: rec.Slug},
	}
	for _, v := range StatusValues {
		controls = append(controls, &form.Control{
			ID:      "id_status_" + v,
			Name:    "status",
			Type:    form.TypeRadio,
			Value:   v,
			Checked: v == status,
		})
	}
	controls = append(controls,
		&form.Control{ID: "id_published", Name: "published", Type: form.TypeCheckbox, Checked: rec.Published},
		&form.Control{ID: "id_content", Name: "content", Type: form.TypeTextarea, Value: rec.Content},
		&form.Control{ID: tagsChosenBoxID, Name: "tags", Type: form.TypeSelectMulti, Options: entriesToOptions(rec.Tags)},
		&form.Control{ID: tagsAvailableBoxID, Type: form.TypeSelectMulti, Options: entriesToOptions(rec.AvailableTags)},
	)

	f := form.New(controls...)
	cache := form.NewSelectorCache(nil)
	cache.Set(tagsChosenBoxID, rec.Tags)
	cache.Set(tagsAvailableBoxID, rec.AvailableTags)
	f.AttachSelectorCache(cache)
	return f, cache
}

func entriesToOptions(entries []form.Entry) []form.Option {
	out := make([]form.Option, 0, len(entries))
	for _, e := range entries {
		out = append(out, form.Option{Value: e.Value, Label: e.Label, Selected: true})
	}
	return out
}

// SampleRecord returns the demo record the edit command loads when no
// real backend is attached.
func SampleRecord() Record {
	return Record{
		Title:     "Vitamin D and calcium absorption",
		Slug:      "vitamin-d-calcium-absorption",
		Status:    "published",
		Published: true,
		Content:   "Calcium absorption rises with serum 25(OH)D up to about 80 nmol/L.",
		Tags: []form.Entry{
			{Value: "7", Label: "calcium", Visible: true},
		},
		AvailableTags: []form.Entry{
			{Value: "3", Label: "bone-health", Visible: true},
			{Value: "12", Label: "supplementation", Visible: true},
			{Value: "19", Label: "research", Visible: true},
		},
	}
}
