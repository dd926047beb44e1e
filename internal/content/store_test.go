package content

import (
	"context"
	"testing"
	"testing/fstest"
)

func testContentFS() fstest.MapFS {
	return fstest.MapFS{
		"posts/2024-05-01-hello-world.md": &fstest.MapFile{
			Data: []byte("---\ntitle: Hello World\ntags:\n  - go\n  - meta\n---\nFirst post.\n"),
		},
		"posts/2024-06-10-second-post.md": &fstest.MapFile{
			Data: []byte("---\ntitle: Second Post\ntags:\n  - go\n---\nAnother one.\n"),
		},
		"posts/undated-note.md": &fstest.MapFile{
			Data: []byte("---\ntitle: Undated Note\n---\nNo date at all.\n"),
		},
		"projects/inkpress.md": &fstest.MapFile{
			Data: []byte("---\ntitle: inkpress\nstack:\n  - Go\n---\nSite engine.\n"),
		},
		"about.md": &fstest.MapFile{
			Data: []byte("---\ntitle: About\npermalink: /about/\n---\nHi.\n"),
		},
		"reading/index.md": &fstest.MapFile{
			Data: []byte("---\ntitle: Reading\n---\nBook log.\n"),
		},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(Config{
		FS: testContentFS(),
		Collections: map[string]CollectionRules{
			"posts": {DefaultLayout: "post", DateFromFilename: true},
		},
	}, Dependencies{})
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	return store
}

func TestStoreLoadCollections(t *testing.T) {
	store := newTestStore(t)

	kinds := store.Kinds()
	if len(kinds) != 4 {
		t.Fatalf("Kinds = %v, want 4 collections", kinds)
	}

	posts := store.Collection("posts")
	if len(posts) != 3 {
		t.Fatalf("posts collection has %d documents, want 3", len(posts))
	}
	// Date-descending, undated entries last.
	if posts[0].Slug != "second-post" {
		t.Fatalf("first post = %q, want second-post", posts[0].Slug)
	}
	if posts[1].Slug != "hello-world" {
		t.Fatalf("second post = %q, want hello-world", posts[1].Slug)
	}
	if posts[2].Slug != "undated-note" {
		t.Fatalf("last post = %q, want undated-note", posts[2].Slug)
	}
}

func TestStoreDateFromFilename(t *testing.T) {
	store := newTestStore(t)

	doc, ok := store.Lookup("/posts/hello-world/")
	if !ok {
		t.Fatal("lookup /posts/hello-world/ failed")
	}
	if got := doc.FrontMatter.Date.Format("2006-01-02"); got != "2024-05-01" {
		t.Fatalf("date fallback = %q, want 2024-05-01", got)
	}
}

func TestStoreRoutes(t *testing.T) {
	store := newTestStore(t)

	cases := []struct {
		route string
		slug  string
	}{
		{"/posts/hello-world/", "hello-world"},
		{"/projects/inkpress/", "inkpress"},
		{"/about/", "about"},   // explicit permalink
		{"/reading/", "index"}, // index document maps to its directory
	}

	for _, tc := range cases {
		doc, ok := store.Lookup(tc.route)
		if !ok {
			t.Fatalf("lookup %q failed", tc.route)
		}
		if doc.Slug != tc.slug {
			t.Fatalf("lookup %q slug = %q, want %q", tc.route, doc.Slug, tc.slug)
		}
	}

	// Trailing slash differences are forgiven.
	if _, ok := store.Lookup("/posts/hello-world"); !ok {
		t.Fatal("lookup without trailing slash failed")
	}
}

func TestStoreTags(t *testing.T) {
	store := newTestStore(t)

	tags := store.Tags()
	if len(tags["go"]) != 2 {
		t.Fatalf("tag go has %d documents, want 2", len(tags["go"]))
	}
	if len(tags["meta"]) != 1 {
		t.Fatalf("tag meta has %d documents, want 1", len(tags["meta"]))
	}
	// Tag members keep collection ordering.
	if tags["go"][0].Slug != "second-post" {
		t.Fatalf("tag go first = %q, want second-post", tags["go"][0].Slug)
	}
}

func TestStoreDuplicateRoutes(t *testing.T) {
	fsys := testContentFS()
	fsys["other/clash.md"] = &fstest.MapFile{
		Data: []byte("---\ntitle: Clash\npermalink: /about/\n---\nCollides.\n"),
	}

	store, err := NewStore(Config{FS: fsys}, Dependencies{})
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	dups := store.DuplicateRoutes()
	if len(dups) != 1 || dups[0] != "/about/" {
		t.Fatalf("DuplicateRoutes = %v, want [/about/]", dups)
	}
}

func TestStoreCollectionOverride(t *testing.T) {
	fsys := fstest.MapFS{
		"misc/promoted.md": &fstest.MapFile{
			Data: []byte("---\ntitle: Promoted\ncollection: posts\n---\nMoved.\n"),
		},
	}
	store, err := NewStore(Config{FS: fsys}, Dependencies{})
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if got := len(store.Collection("posts")); got != 1 {
		t.Fatalf("posts collection has %d documents, want 1", got)
	}
	if got := len(store.Collection("misc")); got != 0 {
		t.Fatalf("misc collection has %d documents, want 0", got)
	}
}

func TestStoreMissingTitleFallsBackToSlug(t *testing.T) {
	fsys := fstest.MapFS{
		"notes/weekly-update.md": &fstest.MapFile{
			Data: []byte("---\ntags:\n  - notes\n---\nSome text.\n"),
		},
	}
	store, err := NewStore(Config{FS: fsys}, Dependencies{})
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	doc, ok := store.Lookup("/notes/weekly-update/")
	if !ok {
		t.Fatal("lookup failed")
	}
	if doc.FrontMatter.Title != "Weekly Update" {
		t.Fatalf("fallback title = %q, want Weekly Update", doc.FrontMatter.Title)
	}
}
