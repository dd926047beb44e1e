package markdown

import (
	"context"
	"testing"
	"testing/fstest"
	"time"
)

func testSiteFS() fstest.MapFS {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return fstest.MapFS{
		"posts/2024-05-01-hello.md": &fstest.MapFile{
			Data:    []byte("---\ntitle: Hello\n---\nFirst post.\n"),
			ModTime: now,
		},
		"posts/2024-06-10-second.md": &fstest.MapFile{
			Data:    []byte("---\ntitle: Second\n---\nAnother one.\n"),
			ModTime: now,
		},
		"posts/drafts/wip.md": &fstest.MapFile{
			Data:    []byte("---\ntitle: WIP\n---\nNot done.\n"),
			ModTime: now,
		},
		"posts/notes.txt": &fstest.MapFile{
			Data:    []byte("not markdown"),
			ModTime: now,
		},
		"about.md": &fstest.MapFile{
			Data:    []byte("Plain page without metadata.\n"),
			ModTime: now,
		},
	}
}

func TestLoaderLoadFile(t *testing.T) {
	loader := NewLoader(testSiteFS(), LoaderConfig{})

	result, err := loader.LoadFile(context.Background(), "posts/2024-05-01-hello.md", LoadParams{})
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}

	doc := result.Document
	if doc.FrontMatter.Title != "Hello" {
		t.Fatalf("Title = %q", doc.FrontMatter.Title)
	}
	if doc.FilePath != "posts/2024-05-01-hello.md" {
		t.Fatalf("FilePath = %q", doc.FilePath)
	}
	if len(doc.Checksum) != 32 {
		t.Fatalf("Checksum length = %d, want 32", len(doc.Checksum))
	}
	if len(result.Source) == 0 {
		t.Fatal("Source should carry raw file bytes")
	}
}

func TestLoaderLoadFileWithoutFrontMatter(t *testing.T) {
	loader := NewLoader(testSiteFS(), LoaderConfig{})

	result, err := loader.LoadFile(context.Background(), "about.md", LoadParams{})
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if result.Document.FrontMatter.Title != "" {
		t.Fatalf("expected empty metadata, got title %q", result.Document.FrontMatter.Title)
	}
	if string(result.Document.Body) != "Plain page without metadata.\n" {
		t.Fatalf("Body = %q", result.Document.Body)
	}
}

func TestLoaderLoadDirectoryRecursive(t *testing.T) {
	loader := NewLoader(testSiteFS(), LoaderConfig{Recursive: true})

	results, err := loader.LoadDirectory(context.Background(), "posts", LoadParams{})
	if err != nil {
		t.Fatalf("LoadDirectory returned error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("loaded %d documents, want 3", len(results))
	}
	// Results come back ordered by path.
	if results[0].Document.FilePath != "posts/2024-05-01-hello.md" {
		t.Fatalf("first path = %q", results[0].Document.FilePath)
	}
	if results[2].Document.FilePath != "posts/drafts/wip.md" {
		t.Fatalf("last path = %q", results[2].Document.FilePath)
	}
}

func TestLoaderLoadDirectoryNonRecursive(t *testing.T) {
	loader := NewLoader(testSiteFS(), LoaderConfig{Recursive: false})

	results, err := loader.LoadDirectory(context.Background(), "posts", LoadParams{})
	if err != nil {
		t.Fatalf("LoadDirectory returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("loaded %d documents, want 2", len(results))
	}
	for _, r := range results {
		if r.Document.FilePath == "posts/drafts/wip.md" {
			t.Fatal("non-recursive load should skip sub-directories")
		}
	}
}

func TestLoaderPatternFilter(t *testing.T) {
	loader := NewLoader(testSiteFS(), LoaderConfig{Recursive: true, Pattern: "*.md"})

	results, err := loader.LoadDirectory(context.Background(), "posts", LoadParams{})
	if err != nil {
		t.Fatalf("LoadDirectory returned error: %v", err)
	}
	for _, r := range results {
		if r.Document.FilePath == "posts/notes.txt" {
			t.Fatal("pattern filter should exclude non-markdown files")
		}
	}
}

func TestLoaderContextCancellation(t *testing.T) {
	loader := NewLoader(testSiteFS(), LoaderConfig{Recursive: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := loader.LoadDirectory(ctx, "posts", LoadParams{}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
