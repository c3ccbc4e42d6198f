package locator

import "testing"

func TestLocate(t *testing.T) {
	l := Locator{}

	tests := []struct {
		name string
		path string
		want PageRef
		ok   bool
	}{
		{
			name: "edit view",
			path: "/admin/pages/page/42/change/",
			want: PageRef{Resource: "pages", Record: "page", Identity: "42", View: ViewEdit},
			ok:   true,
		},
		{
			name: "create view",
			path: "/admin/pages/page/add/",
			want: PageRef{Resource: "pages", Record: "page", Identity: "add", View: ViewCreate},
			ok:   true,
		},
		{
			name: "non-numeric identity",
			path: "/admin/blog/post/draft-2026/change/",
			want: PageRef{Resource: "blog", Record: "post", Identity: "draft-2026", View: ViewEdit},
			ok:   true,
		},
		{
			name: "trailing slash optional",
			path: "/admin/pages/page/42/change",
			want: PageRef{Resource: "pages", Record: "page", Identity: "42", View: ViewEdit},
			ok:   true,
		},
		{
			name: "query string ignored",
			path: "/admin/pages/page/add/?_popup=1",
			want: PageRef{Resource: "pages", Record: "page", Identity: "add", View: ViewCreate},
			ok:   true,
		},
		{name: "list view", path: "/admin/pages/page/"},
		{name: "admin index", path: "/admin/"},
		{name: "delete view", path: "/admin/pages/page/42/delete/"},
		{name: "outside prefix", path: "/pages/page/42/change/"},
		{name: "nested extra segment", path: "/admin/pages/page/42/change/extra/"},
		{name: "empty segment", path: "/admin/pages//add/"},
		{name: "history view", path: "/admin/pages/page/42/history/"},
		{name: "empty path", path: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := l.Locate(tt.path)
			if ok != tt.ok {
				t.Fatalf("Locate(%q) ok = %v, want %v", tt.path, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("Locate(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}

func TestLocateCustomPrefix(t *testing.T) {
	l := Locator{Prefix: "/manage/"}

	if _, ok := l.Locate("/admin/pages/page/add/"); ok {
		t.Fatal("default prefix must not match a custom-prefix locator")
	}

	got, ok := l.Locate("/manage/pages/page/add/")
	if !ok {
		t.Fatal("expected match under custom prefix")
	}
	if got.View != ViewCreate {
		t.Fatalf("View = %v, want create", got.View)
	}
}

func TestPageRefKey(t *testing.T) {
	ref := PageRef{Resource: "pages", Record: "page", Identity: "42", View: ViewEdit}
	if got, want := ref.Key().String(), "vdwFormDraft:pages.page:42"; got != want {
		t.Fatalf("Key() = %q, want %q", got, want)
	}

	create := PageRef{Resource: "pages", Record: "page", Identity: "add", View: ViewCreate}
	if !create.Key().IsCreate() {
		t.Fatal("create view must derive a create key")
	}
}
