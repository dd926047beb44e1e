package content

import "testing"

func TestSplitDatedName(t *testing.T) {
	date, slug, ok := SplitDatedName("2024-05-01-hello-world")
	if !ok {
		t.Fatal("expected dated name to parse")
	}
	if date.Format("2006-01-02") != "2024-05-01" {
		t.Fatalf("date = %v", date)
	}
	if slug != "hello-world" {
		t.Fatalf("slug = %q", slug)
	}

	for _, stem := range []string{"hello-world", "2024-05-01", "2024-05-01-", "24-05-01-x", "2024-13-40-bad"} {
		if _, _, ok := SplitDatedName(stem); ok {
			t.Fatalf("SplitDatedName(%q) unexpectedly ok", stem)
		}
	}
}

func TestFileStem(t *testing.T) {
	if got := FileStem("posts/2024-05-01-hello.md"); got != "2024-05-01-hello" {
		t.Fatalf("FileStem = %q", got)
	}
	if got := FileStem("about.md"); got != "about" {
		t.Fatalf("FileStem = %q", got)
	}
}

func TestTitleFromSlug(t *testing.T) {
	if got := TitleFromSlug("weekly-update"); got != "Weekly Update" {
		t.Fatalf("TitleFromSlug = %q", got)
	}
	if got := TitleFromSlug("notes_from_the_road"); got != "Notes From The Road" {
		t.Fatalf("TitleFromSlug = %q", got)
	}
}

func TestNormalizeSlug(t *testing.T) {
	got, err := NormalizeSlug("Hello, World!")
	if err != nil {
		t.Fatalf("NormalizeSlug returned error: %v", err)
	}
	if got != "hello-world" {
		t.Fatalf("NormalizeSlug = %q", got)
	}
	if !IsValidSlug(got) {
		t.Fatalf("IsValidSlug(%q) = false", got)
	}
}
