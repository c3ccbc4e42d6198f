// Package locator recognizes editable-record pages from their URL path.
//
// The admin exposes two canonical shapes:
//
//	<prefix><resource>/<record>/add/          create view
//	<prefix><resource>/<record>/<id>/change/  edit view
//
// Anything else is not an editable-record page and gets no guard.
package locator

import (
	"strings"

	"github.com/evolvingstuff/vdw-server/internal/draft"
)

// View distinguishes the create view from the edit view of a record.
type View int

const (
	ViewCreate View = iota
	ViewEdit
)

func (v View) String() string {
	if v == ViewCreate {
		return "create"
	}
	return "edit"
}

// PageRef identifies the record a page edits.
type PageRef struct {
	Resource string
	Record   string
	Identity string
	View     View
}

// Key derives the draft key for this page.
func (r PageRef) Key() draft.Key {
	return draft.Key{Resource: r.Resource, Record: r.Record, Identity: r.Identity}
}

// Locator parses page paths under a fixed admin prefix.
type Locator struct {
	// Prefix is the leading path under which editable-record pages live,
	// e.g. "/admin/". Empty means DefaultPrefix.
	Prefix string
}

// DefaultPrefix is the admin mount point of the original deployment.
const DefaultPrefix = "/admin/"

// Locate parses a page path. It reports false when the path is not an
// editable-record page.
func (l Locator) Locate(path string) (PageRef, bool) {
	prefix := l.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	// Ignore query string and fragment; only the path shape matters.
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}

	rest, ok := strings.CutPrefix(path, prefix)
	if !ok {
		return PageRef{}, false
	}
	rest = strings.TrimSuffix(rest, "/")

	segs := strings.Split(rest, "/")
	for _, s := range segs {
		if s == "" {
			return PageRef{}, false
		}
	}

	switch {
	case len(segs) == 3 && segs[2] == draft.CreateIdentity:
		return PageRef{
			Resource: segs[0],
			Record:   segs[1],
			Identity: draft.CreateIdentity,
			View:     ViewCreate,
		}, true
	case len(segs) == 4 && segs[3] == "change":
		return PageRef{
			Resource: segs[0],
			Record:   segs[1],
			Identity: segs[2],
			View:     ViewEdit,
		}, true
	}
	return PageRef{}, false
}
