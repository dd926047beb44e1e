package content

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2024, 7, 15, 9, 30, 0, 0, time.UTC)
}

func newTestScaffolder(t *testing.T) (*Scaffolder, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewScaffolder(ScaffoldConfig{ContentDir: dir, Now: fixedNow}, nil)
	if err != nil {
		t.Fatalf("NewScaffolder returned error: %v", err)
	}
	return s, dir
}

func TestScaffoldRejectsUnknownKind(t *testing.T) {
	dir := t.TempDir()
	s, err := NewScaffolder(ScaffoldConfig{
		ContentDir: dir,
		Kinds:      []string{"posts", "projects"},
		Now:        fixedNow,
	}, nil)
	if err != nil {
		t.Fatalf("NewScaffolder returned error: %v", err)
	}

	if _, err := s.NewPage("Stray", "drafts"); !errors.Is(err, ErrUnknownCollection) {
		t.Fatalf("NewPage error = %v, want ErrUnknownCollection", err)
	}
	if _, err := s.NewPage("Kept", "projects"); err != nil {
		t.Fatalf("NewPage returned error for configured kind: %v", err)
	}
}

func TestScaffoldNewPost(t *testing.T) {
	s, dir := newTestScaffolder(t)

	result, err := s.NewPost("Shipping A Side Project")
	if err != nil {
		t.Fatalf("NewPost returned error: %v", err)
	}
	if result.Path != "posts/2024-07-15-shipping-a-side-project.md" {
		t.Fatalf("Path = %q", result.Path)
	}
	if result.Slug != "shipping-a-side-project" {
		t.Fatalf("Slug = %q", result.Slug)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(result.Path)))
	if err != nil {
		t.Fatalf("reading scaffolded file: %v", err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "---\n") {
		t.Fatalf("missing opening fence: %q", text)
	}
	for _, want := range []string{`title: "Shipping A Side Project"`, "date: 2024-07-15", "layout: post"} {
		if !strings.Contains(text, want) {
			t.Fatalf("scaffolded file missing %q:\n%s", want, text)
		}
	}
}

func TestScaffoldNewPage(t *testing.T) {
	s, dir := newTestScaffolder(t)

	result, err := s.NewPage("About Me", "")
	if err != nil {
		t.Fatalf("NewPage returned error: %v", err)
	}
	if result.Path != "about-me.md" {
		t.Fatalf("Path = %q", result.Path)
	}

	if _, err := os.Stat(filepath.Join(dir, "about-me.md")); err != nil {
		t.Fatalf("scaffolded page missing: %v", err)
	}

	// Pages inside a collection land in the collection directory.
	result, err = s.NewPage("inkpress", "projects")
	if err != nil {
		t.Fatalf("NewPage returned error: %v", err)
	}
	if result.Path != "projects/inkpress.md" {
		t.Fatalf("Path = %q", result.Path)
	}
}

func TestScaffoldRefusesOverwrite(t *testing.T) {
	s, _ := newTestScaffolder(t)

	if _, err := s.NewPost("Once"); err != nil {
		t.Fatalf("first NewPost returned error: %v", err)
	}
	if _, err := s.NewPost("Once"); !errors.Is(err, ErrDocumentExists) {
		t.Fatalf("second NewPost error = %v, want ErrDocumentExists", err)
	}
}

func TestScaffoldRequiresTitle(t *testing.T) {
	s, _ := newTestScaffolder(t)

	if _, err := s.NewPost("   "); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("NewPost error = %v, want ErrTitleRequired", err)
	}
}
