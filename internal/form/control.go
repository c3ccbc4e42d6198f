// Package form models the controls of a record-editing form and the
// snapshots taken of them. It provides the field classification,
// extraction, and restore logic the edit guard is built on, including
// the bridge to dual-list ("available"/"chosen") selector widgets whose
// true state lives in an externally owned cache.
package form

import "strings"

// Kind classifies how a control's value is extracted and restored.
type Kind int

const (
	// KindText covers free-text inputs, text areas, and hidden values.
	KindText Kind = iota
	// KindBoolean covers checkboxes.
	KindBoolean
	// KindRadioGroup covers mutually-exclusive grouped inputs sharing a name.
	KindRadioGroup
	// KindSingleSelect covers single-choice selects.
	KindSingleSelect
	// KindMultiSelect covers plain multiple-choice selects.
	KindMultiSelect
	// KindDualList covers the chosen half of a dual-list selector widget.
	KindDualList
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBoolean:
		return "boolean"
	case KindRadioGroup:
		return "radio-group"
	case KindSingleSelect:
		return "single-select"
	case KindMultiSelect:
		return "multi-select"
	case KindDualList:
		return "dual-list"
	}
	return "unknown"
}

// Control element types, mirroring the widget vocabulary of the admin form.
const (
	TypeText        = "text"
	TypeTextarea    = "textarea"
	TypeHidden      = "hidden"
	TypePassword    = "password"
	TypeCheckbox    = "checkbox"
	TypeRadio       = "radio"
	TypeSelect      = "select"
	TypeSelectMulti = "select-multiple"
	TypeSubmit      = "submit"
	TypeReset       = "reset"
	TypeButton      = "button"
	TypeFile        = "file"
)

// antiForgeryField is the request-forgery token the admin form carries.
// It is server-issued per response and must never round-trip through a draft.
const antiForgeryField = "csrfmiddlewaretoken"

// Dual-list selector widgets split one logical field across two sibling
// boxes; the chosen half keeps the field's form name, the available half
// is a shadow control that never submits.
const (
	chosenSuffix    = "_to"
	availableSuffix = "_from"
)

// Option is a single choice of a select-like control.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Control is one form control as rendered. Radio groups appear as
// several Controls sharing a Name, matching how the page renders them.
type Control struct {
	ID       string
	Name     string
	Type     string
	Disabled bool

	// Value holds the current value for text-like and single-select
	// controls, and the member value for radios.
	Value string
	// Checked holds the active state for checkboxes and radios.
	Checked bool
	// Options holds the rendered choices of select controls, in source
	// order. For multi-selects the Selected flags are authoritative.
	Options []Option
}

// Identifier returns the control's stable field identifier: its form
// name when present, otherwise its element id. Empty means the control
// has no stable identity and cannot participate in snapshots.
func (c *Control) Identifier() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// SelectedValues returns the values of the currently selected options,
// in source order.
func (c *Control) SelectedValues() []string {
	var out []string
	for _, o := range c.Options {
		if o.Selected {
			out = append(out, o.Value)
		}
	}
	return out
}

// OptionValues returns every rendered option value, in source order.
func (c *Control) OptionValues() []string {
	out := make([]string, 0, len(c.Options))
	for _, o := range c.Options {
		out = append(out, o.Value)
	}
	return out
}

// Form is the live set of controls under guard, plus the selector cache
// shared with any dual-list widgets on the page. The cache is owned by
// the widget; the form only holds a reference for the bridge.
type Form struct {
	controls []*Control
	cache    *SelectorCache
}

// New creates a Form over the given controls. Controls are kept in the
// order given, which is the page's source order.
func New(controls ...*Control) *Form {
	return &Form{controls: controls}
}

// Controls returns the controls in source order.
func (f *Form) Controls() []*Control {
	return f.controls
}

// Lookup returns the first control whose identifier matches.
func (f *Form) Lookup(identifier string) *Control {
	for _, c := range f.controls {
		if c.Identifier() == identifier {
			return c
		}
	}
	return nil
}

// lookupID returns the control with the given element id, if any.
func (f *Form) lookupID(id string) *Control {
	if id == "" {
		return nil
	}
	for _, c := range f.controls {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// AttachSelectorCache points the form at the dual-list widget cache.
func (f *Form) AttachSelectorCache(cache *SelectorCache) {
	f.cache = cache
}

// SelectorCache returns the attached dual-list cache, or nil.
func (f *Form) SelectorCache() *SelectorCache {
	return f.cache
}

// Classify reports the control's kind and whether it is eligible for
// snapshots. Ineligible controls are skipped entirely: controls without
// a stable identifier, disabled controls, button-like and file controls,
// the anti-forgery token, and the shadow half of a dual-list widget.
func Classify(f *Form, c *Control) (Kind, bool) {
	if c.Identifier() == "" || c.Disabled {
		return KindText, false
	}
	switch c.Type {
	case TypeSubmit, TypeReset, TypeButton, TypeFile:
		return KindText, false
	}
	if c.Name == antiForgeryField {
		return KindText, false
	}
	if isAvailableHalf(f, c) {
		return KindText, false
	}
	switch c.Type {
	case TypeCheckbox:
		return KindBoolean, true
	case TypeRadio:
		return KindRadioGroup, true
	case TypeSelect:
		return KindSingleSelect, true
	case TypeSelectMulti:
		if isChosenHalf(f, c) {
			return KindDualList, true
		}
		return KindMultiSelect, true
	default:
		return KindText, true
	}
}

// isChosenHalf reports whether the control is the chosen box of a
// dual-list widget: its id carries the chosen suffix and the sibling
// available box exists on the form.
func isChosenHalf(f *Form, c *Control) bool {
	base, ok := strings.CutSuffix(c.ID, chosenSuffix)
	if !ok || base == "" {
		return false
	}
	return f.lookupID(base+availableSuffix) != nil
}

// isAvailableHalf reports whether the control is the shadow available
// box of a dual-list widget.
func isAvailableHalf(f *Form, c *Control) bool {
	base, ok := strings.CutSuffix(c.ID, availableSuffix)
	if !ok || base == "" {
		return false
	}
	return f.lookupID(base+chosenSuffix) != nil
}
