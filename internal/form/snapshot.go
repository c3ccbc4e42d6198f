package form

import (
	"encoding/json"
	"fmt"
	"sort"
)

type valueKind int

const (
	valueString valueKind = iota
	valueBool
	valueList
)

// FieldValue is the value of one snapshot field: a string, a boolean,
// or an ordered set of strings for multi-valued fields. It marshals to
// the bare JSON form (`"x"`, `true`, `["a","b"]`).
type FieldValue struct {
	kind valueKind
	str  string
	b    bool
	list []string
}

// StringValue wraps a string field value.
func StringValue(s string) FieldValue {
	return FieldValue{kind: valueString, str: s}
}

// BoolValue wraps a boolean field value.
func BoolValue(b bool) FieldValue {
	return FieldValue{kind: valueBool, b: b}
}

// ListValue wraps a multi-valued field. The slice is copied; snapshot
// values never alias live widget state.
func ListValue(values []string) FieldValue {
	list := make([]string, len(values))
	copy(list, values)
	return FieldValue{kind: valueList, list: list}
}

// String returns the string form and whether the value is a string.
func (v FieldValue) String() (string, bool) {
	return v.str, v.kind == valueString
}

// Bool returns the boolean form and whether the value is a boolean.
func (v FieldValue) Bool() (bool, bool) {
	return v.b, v.kind == valueBool
}

// List returns a copy of the multi-value form and whether the value is
// multi-valued.
func (v FieldValue) List() ([]string, bool) {
	if v.kind != valueList {
		return nil, false
	}
	out := make([]string, len(v.list))
	copy(out, v.list)
	return out, true
}

// MarshalJSON implements json.Marshaler.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case valueBool:
		return json.Marshal(v.b)
	case valueList:
		if v.list == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.list)
	default:
		return json.Marshal(v.str)
	}
}

// UnmarshalJSON implements json.Unmarshaler, accepting the three wire
// forms a persisted draft may carry.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case string:
		*v = StringValue(t)
	case bool:
		*v = BoolValue(t)
	case []any:
		list := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("field value list contains non-string element %T", item)
			}
			list = append(list, s)
		}
		*v = FieldValue{kind: valueList, list: list}
	default:
		return fmt.Errorf("unsupported field value type %T", raw)
	}
	return nil
}

// Snapshot maps field identifiers to their values at capture time.
// A snapshot is immutable once taken; Capture copies widget state and
// accessors copy it back out.
type Snapshot map[string]FieldValue

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		if v.kind == valueList {
			out[k] = ListValue(v.list)
		} else {
			out[k] = v
		}
	}
	return out
}

// Canonical returns the order-independent textual encoding of the
// snapshot: field identifiers sorted, each multi-valued field's members
// sorted, encoded as JSON. Two snapshots are equivalent iff their
// canonical encodings are character-identical. Encoding a map of
// marshalable values cannot fail, so Canonical never does.
func (s Snapshot) Canonical() string {
	norm := make(map[string]FieldValue, len(s))
	for k, v := range s {
		if v.kind == valueList {
			sorted := make([]string, len(v.list))
			copy(sorted, v.list)
			sort.Strings(sorted)
			norm[k] = FieldValue{kind: valueList, list: sorted}
		} else {
			norm[k] = v
		}
	}
	// encoding/json emits map keys in sorted order.
	data, err := json.Marshal(norm)
	if err != nil {
		panic(fmt.Sprintf("form: snapshot canonicalization failed: %v", err))
	}
	return string(data)
}

// Equivalent reports whether two snapshots canonicalize identically:
// insensitive to enumeration order and multi-select reordering,
// sensitive to any value change.
func (s Snapshot) Equivalent(other Snapshot) bool {
	return s.Canonical() == other.Canonical()
}
