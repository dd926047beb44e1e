package markdown

import (
	"strings"
	"testing"
	"time"
)

func TestParseFrontMatterKnownKeys(t *testing.T) {
	source := []byte(strings.Join([]string{
		"---",
		"title: Shipping A Side Project",
		"excerpt: Lessons from a weekend build.",
		"date: 2024-05-01",
		"layout: post",
		"permalink: /writing/shipping-a-side-project/",
		"tags:",
		"  - go",
		"  - projects",
		"toc: true",
		"showtags: true",
		"classes: wide",
		"---",
		"",
		"Body content.",
		"",
	}, "\n"))

	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("ParseFrontMatter returned error: %v", err)
	}

	if meta.Title != "Shipping A Side Project" {
		t.Fatalf("Title = %q", meta.Title)
	}
	if meta.Excerpt != "Lessons from a weekend build." {
		t.Fatalf("Excerpt = %q", meta.Excerpt)
	}
	if meta.Date.IsZero() || meta.Date.Format("2006-01-02") != "2024-05-01" {
		t.Fatalf("Date = %v", meta.Date)
	}
	if meta.Layout != "post" {
		t.Fatalf("Layout = %q", meta.Layout)
	}
	if meta.Permalink != "/writing/shipping-a-side-project/" {
		t.Fatalf("Permalink = %q", meta.Permalink)
	}
	if len(meta.Tags) != 2 || meta.Tags[0] != "go" || meta.Tags[1] != "projects" {
		t.Fatalf("Tags = %v", meta.Tags)
	}
	if !meta.TOC || !meta.ShowTags {
		t.Fatalf("TOC/ShowTags = %v/%v", meta.TOC, meta.ShowTags)
	}
	if meta.Classes != "wide" {
		t.Fatalf("Classes = %q", meta.Classes)
	}
	if got := strings.TrimSpace(string(body)); got != "Body content." {
		t.Fatalf("body = %q", got)
	}
}

func TestParseFrontMatterCustomKeys(t *testing.T) {
	source := []byte("---\ntitle: Custom\nseries: weekend-builds\nfeatured: true\n---\nbody\n")

	meta, _, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("ParseFrontMatter returned error: %v", err)
	}

	if got, ok := meta.Custom["series"]; !ok || got != "weekend-builds" {
		t.Fatalf("Custom[series] = %v (present=%v)", got, ok)
	}
	if got, ok := meta.Custom["featured"]; !ok || got != true {
		t.Fatalf("Custom[featured] = %v (present=%v)", got, ok)
	}
	if _, reserved := meta.Custom["title"]; reserved {
		t.Fatalf("known key leaked into Custom: %v", meta.Custom)
	}
	if meta.Raw["title"] != "Custom" {
		t.Fatalf("Raw[title] = %v", meta.Raw["title"])
	}
}

func TestParseFrontMatterProjectKeys(t *testing.T) {
	source := []byte(strings.Join([]string{
		"---",
		"title: inkpress",
		"links:",
		"  - icon: github",
		"    url: https://github.com/example/inkpress",
		"stack:",
		"  - Go",
		"  - SQLite",
		"sidebar:",
		"  - title: Status",
		"    text: Active",
		"---",
		"A flat-file site engine.",
		"",
	}, "\n"))

	meta, _, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("ParseFrontMatter returned error: %v", err)
	}

	if len(meta.Links) != 1 || meta.Links[0].Icon != "github" {
		t.Fatalf("Links = %+v", meta.Links)
	}
	if len(meta.Stack) != 2 || meta.Stack[1] != "SQLite" {
		t.Fatalf("Stack = %v", meta.Stack)
	}
	if len(meta.Sidebar) != 1 || meta.Sidebar[0].Title != "Status" || meta.Sidebar[0].Text != "Active" {
		t.Fatalf("Sidebar = %+v", meta.Sidebar)
	}
}

func TestBuildDocument(t *testing.T) {
	source := []byte("---\ntitle: Doc\n---\nhello\n")
	modified := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	doc, err := BuildDocument("posts/doc.md", source, modified)
	if err != nil {
		t.Fatalf("BuildDocument returned error: %v", err)
	}
	if doc.FilePath != "posts/doc.md" {
		t.Fatalf("FilePath = %q", doc.FilePath)
	}
	if doc.FrontMatter.Title != "Doc" {
		t.Fatalf("Title = %q", doc.FrontMatter.Title)
	}
	if !doc.LastModified.Equal(modified) {
		t.Fatalf("LastModified = %v", doc.LastModified)
	}
	if len(doc.BodyHTML) != 0 {
		t.Fatalf("BodyHTML should be empty until rendered, got %q", doc.BodyHTML)
	}
}
