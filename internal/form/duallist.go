package form

import "strings"

// Entry is one pooled option of a dual-list selector widget. Label and
// Visible are display metadata owned by the widget; the bridge carries
// them through untouched.
type Entry struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	Visible bool   `json:"visible"`
}

// SelectorCache is the externally owned cache backing dual-list
// selector widgets, keyed by box element id (the "_to" and "_from"
// halves each have their own entry list). The widget re-derives its
// rendered options from this cache on every redisplay, which is why
// restores must write here rather than to the rendered options: a DOM
// only write would be clobbered by the widget's next refresh.
//
// Only the bridge in this package mutates the cache on behalf of the
// guard, keeping the partition invariant auditable in one place.
type SelectorCache struct {
	entries   map[string][]Entry
	redisplay func(boxID string)
}

// NewSelectorCache creates a cache. redisplay, if non-nil, is invoked
// with a box id whenever that box must re-render from the cache.
func NewSelectorCache(redisplay func(boxID string)) *SelectorCache {
	return &SelectorCache{
		entries:   make(map[string][]Entry),
		redisplay: redisplay,
	}
}

// Set replaces the entry list for a box. The slice is copied.
func (sc *SelectorCache) Set(boxID string, entries []Entry) {
	list := make([]Entry, len(entries))
	copy(list, entries)
	sc.entries[boxID] = list
}

// Get returns a copy of the entry list for a box and whether the box
// has been populated.
func (sc *SelectorCache) Get(boxID string) ([]Entry, bool) {
	entries, ok := sc.entries[boxID]
	if !ok {
		return nil, false
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out, true
}

// Redisplay asks the widget to re-render a box from the cache.
func (sc *SelectorCache) Redisplay(boxID string) {
	if sc.redisplay != nil {
		sc.redisplay(boxID)
	}
}

// readDualList returns the chosen values of a dual-list field. The
// cache is authoritative when populated: the rendered option list may
// be a filtered subset and must not be trusted. Before the widget has
// populated the cache, the rendered options of the chosen box are an
// acceptable approximation.
func readDualList(f *Form, chosen *Control) []string {
	if cache := f.SelectorCache(); cache != nil {
		if entries, ok := cache.Get(chosen.ID); ok {
			values := make([]string, 0, len(entries))
			for _, e := range entries {
				values = append(values, e.Value)
			}
			return values
		}
	}
	return chosen.OptionValues()
}

// applyDualList restores a dual-list field to the target chosen set.
// The combined pool of both boxes is repartitioned: every pooled entry
// lands in exactly one box, chosen when its value is in the target set,
// available otherwise, keeping its label and visibility. Both cache
// lists are replaced in place and both boxes redisplayed. When the
// cache holds nothing for this widget, the bridge degrades to a plain
// multi-select application on the chosen box.
func applyDualList(f *Form, chosen *Control, targets []string) {
	base := strings.TrimSuffix(chosen.ID, chosenSuffix)
	chosenID := chosen.ID
	availableID := base + availableSuffix

	cache := f.SelectorCache()
	if cache == nil {
		applyMultiSelect(chosen, targets)
		return
	}
	chosenEntries, okChosen := cache.Get(chosenID)
	availableEntries, okAvailable := cache.Get(availableID)
	if !okChosen && !okAvailable {
		applyMultiSelect(chosen, targets)
		return
	}

	want := make(map[string]bool, len(targets))
	for _, t := range targets {
		want[t] = true
	}

	pool := make([]Entry, 0, len(chosenEntries)+len(availableEntries))
	pool = append(pool, chosenEntries...)
	pool = append(pool, availableEntries...)

	var nextChosen, nextAvailable []Entry
	for _, e := range pool {
		if want[e.Value] {
			nextChosen = append(nextChosen, e)
		} else {
			nextAvailable = append(nextAvailable, e)
		}
	}

	cache.Set(chosenID, nextChosen)
	cache.Set(availableID, nextAvailable)
	cache.Redisplay(chosenID)
	cache.Redisplay(availableID)
}
