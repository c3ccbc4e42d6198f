package form

// Capture reads the live form into a new, independent Snapshot. Radio
// groups collapse to one field holding the active member's value, and
// are absent entirely when no member is active. Dual-list fields read
// through the selector cache (see readDualList). Ineligible controls
// never appear.
func Capture(f *Form) Snapshot {
	snap := make(Snapshot)
	seenGroups := make(map[string]bool)

	for _, c := range f.Controls() {
		kind, ok := Classify(f, c)
		if !ok {
			continue
		}
		id := c.Identifier()

		switch kind {
		case KindBoolean:
			snap[id] = BoolValue(c.Checked)

		case KindRadioGroup:
			if seenGroups[id] {
				continue
			}
			seenGroups[id] = true
			if value, active := radioGroupValue(f, id); active {
				snap[id] = StringValue(value)
			}

		case KindSingleSelect, KindText:
			snap[id] = StringValue(c.Value)

		case KindMultiSelect:
			snap[id] = ListValue(c.SelectedValues())

		case KindDualList:
			snap[id] = ListValue(readDualList(f, c))
		}
	}

	return snap
}

// Apply restores a snapshot onto the live form, mirroring Capture.
// Restoration is best-effort by design: values that no longer match any
// rendered option are silently skipped, leaving the control at its
// current state, because drafts routinely outlive form revisions.
// Apply never fails.
func Apply(f *Form, snap Snapshot) {
	seenGroups := make(map[string]bool)

	for _, c := range f.Controls() {
		kind, ok := Classify(f, c)
		if !ok {
			continue
		}
		id := c.Identifier()
		value, present := snap[id]
		if !present {
			continue
		}

		switch kind {
		case KindBoolean:
			if b, ok := value.Bool(); ok {
				c.Checked = b
			}

		case KindRadioGroup:
			if seenGroups[id] {
				continue
			}
			seenGroups[id] = true
			if s, ok := value.String(); ok {
				applyRadioGroup(f, id, s)
			}

		case KindText:
			if s, ok := value.String(); ok {
				c.Value = s
			}

		case KindSingleSelect:
			if s, ok := value.String(); ok {
				applySingleSelect(c, s)
			}

		case KindMultiSelect:
			if list, ok := value.List(); ok {
				applyMultiSelect(c, list)
			}

		case KindDualList:
			if list, ok := value.List(); ok {
				applyDualList(f, c, list)
			}
		}
	}
}

// radioGroupValue returns the value of the active member of the radio
// group with the given name, if any member is active.
func radioGroupValue(f *Form, name string) (string, bool) {
	for _, c := range f.Controls() {
		if c.Type == TypeRadio && c.Identifier() == name && c.Checked {
			return c.Value, true
		}
	}
	return "", false
}

// applyRadioGroup activates the member whose value matches the target
// and deactivates the rest. A stale target that matches no member
// leaves the group untouched.
func applyRadioGroup(f *Form, name, target string) {
	var members []*Control
	matched := false
	for _, c := range f.Controls() {
		if c.Type == TypeRadio && c.Identifier() == name {
			members = append(members, c)
			if c.Value == target {
				matched = true
			}
		}
	}
	if !matched {
		return
	}
	for _, m := range members {
		m.Checked = m.Value == target
	}
}

// applySingleSelect sets the select's value only when the target still
// matches a rendered option.
func applySingleSelect(c *Control, target string) {
	matched := false
	for _, o := range c.Options {
		if o.Value == target {
			matched = true
			break
		}
	}
	if !matched {
		return
	}
	c.Value = target
	for i := range c.Options {
		c.Options[i].Selected = c.Options[i].Value == target
	}
}

// applyMultiSelect selects exactly the rendered options whose values
// are in the target set; stale target values are dropped.
func applyMultiSelect(c *Control, targets []string) {
	want := make(map[string]bool, len(targets))
	for _, t := range targets {
		want[t] = true
	}
	for i := range c.Options {
		c.Options[i].Selected = want[c.Options[i].Value]
	}
}
