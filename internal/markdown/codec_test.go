package markdown

import (
	"bytes"
	"errors"
	"testing"
)

func TestSplitJoinRoundTrip(t *testing.T) {
	source := []byte("---\ntitle: Hello\ntags:\n  - go\n---\n\n# Heading\n\nBody text.\n")

	parts, err := Split(source)
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if got, want := string(parts.FrontMatter), "title: Hello\ntags:\n  - go\n"; got != want {
		t.Fatalf("front-matter = %q, want %q", got, want)
	}
	if got, want := string(parts.Body), "\n# Heading\n\nBody text.\n"; got != want {
		t.Fatalf("body = %q, want %q", got, want)
	}

	joined := Join(parts)
	if !bytes.Equal(joined, source) {
		t.Fatalf("Join(Split(x)) = %q, want %q", joined, source)
	}
}

func TestSplitMissingFrontMatter(t *testing.T) {
	cases := []struct {
		name   string
		source string
	}{
		{"no fence", "# Just Markdown\n"},
		{"fence not on own line", "--- title\nbody\n"},
		{"empty file", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Split([]byte(tc.source)); !errors.Is(err, ErrNoFrontMatter) {
				t.Fatalf("Split error = %v, want ErrNoFrontMatter", err)
			}
		})
	}
}

func TestSplitEmptyBlock(t *testing.T) {
	cases := []struct {
		name   string
		source string
		body   string
	}{
		{"with body", "---\n---\n# Heading\n", "# Heading\n"},
		{"fences only", "---\n---\n", ""},
		{"fences without trailing newline", "---\n---", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parts, err := Split([]byte(tc.source))
			if err != nil {
				t.Fatalf("Split returned error: %v", err)
			}
			if len(parts.FrontMatter) != 0 {
				t.Fatalf("front-matter = %q, want empty", parts.FrontMatter)
			}
			if got := string(parts.Body); got != tc.body {
				t.Fatalf("body = %q, want %q", got, tc.body)
			}
		})
	}
}

func TestSplitCRLFFences(t *testing.T) {
	source := []byte("---\r\ntitle: Windows\r\n---\r\nbody line\r\n")

	parts, err := Split(source)
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if got, want := string(parts.FrontMatter), "title: Windows\r\n"; got != want {
		t.Fatalf("front-matter = %q, want %q", got, want)
	}
	if got, want := string(parts.Body), "body line\r\n"; got != want {
		t.Fatalf("body = %q, want %q", got, want)
	}

	empty := []byte("---\r\n---\r\nbody\r\n")
	parts, err = Split(empty)
	if err != nil {
		t.Fatalf("Split of empty CRLF block returned error: %v", err)
	}
	if len(parts.FrontMatter) != 0 || string(parts.Body) != "body\r\n" {
		t.Fatalf("Split of empty CRLF block = %+v", parts)
	}
}

func TestSplitUnterminated(t *testing.T) {
	source := []byte("---\ntitle: Broken\n\nNo closing fence here.\n")
	if _, err := Split(source); !errors.Is(err, ErrUnterminatedFrontMatter) {
		t.Fatalf("Split error = %v, want ErrUnterminatedFrontMatter", err)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	source := []byte("---\ntitle:    Spacing Oddities\ntags: [go, blog]\ndraft: false\n---\nBody stays put.\n")

	once, err := Normalize(source)
	if err != nil {
		t.Fatalf("first Normalize returned error: %v", err)
	}
	twice, err := Normalize(once)
	if err != nil {
		t.Fatalf("second Normalize returned error: %v", err)
	}
	if !bytes.Equal(once, twice) {
		t.Fatalf("Normalize is not idempotent:\nfirst:  %q\nsecond: %q", once, twice)
	}
}

func TestNormalizeEmptyBlock(t *testing.T) {
	source := []byte("---\n---\nbody stays\n")

	out, err := Normalize(source)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if got, want := string(out), "---\n---\nbody stays\n"; got != want {
		t.Fatalf("Normalize = %q, want %q", got, want)
	}

	again, err := Normalize(out)
	if err != nil {
		t.Fatalf("second Normalize returned error: %v", err)
	}
	if !bytes.Equal(out, again) {
		t.Fatalf("Normalize of empty block is not idempotent: %q vs %q", out, again)
	}
}

func TestNormalizePreservesKeyOrderAndBody(t *testing.T) {
	source := []byte("---\nzebra: last-declared-first\ntitle: Ordering\nalpha: 1\n---\n\n> body with | pipes and --- dashes\n")

	out, err := Normalize(source)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	parts, err := Split(out)
	if err != nil {
		t.Fatalf("Split of normalized output returned error: %v", err)
	}
	if got, want := string(parts.Body), "\n> body with | pipes and --- dashes\n"; got != want {
		t.Fatalf("body changed during Normalize: %q, want %q", got, want)
	}

	zebra := bytes.Index(parts.FrontMatter, []byte("zebra:"))
	title := bytes.Index(parts.FrontMatter, []byte("title:"))
	alpha := bytes.Index(parts.FrontMatter, []byte("alpha:"))
	if zebra < 0 || title < 0 || alpha < 0 {
		t.Fatalf("normalized front-matter lost keys: %q", parts.FrontMatter)
	}
	if !(zebra < title && title < alpha) {
		t.Fatalf("key order not preserved: %q", parts.FrontMatter)
	}
}

func TestDuplicateKeys(t *testing.T) {
	source := []byte("---\ntitle: First\ntags:\n  - a\ntitle: Second\ndate: 2024-01-01\ntags:\n  - b\n---\nbody\n")

	dups, err := DuplicateKeys(source)
	if err != nil {
		t.Fatalf("DuplicateKeys returned error: %v", err)
	}
	if len(dups) != 2 {
		t.Fatalf("DuplicateKeys = %v, want 2 entries", dups)
	}
	if dups[0] != "title" || dups[1] != "tags" {
		t.Fatalf("DuplicateKeys = %v, want [title tags]", dups)
	}
}

func TestDuplicateKeysClean(t *testing.T) {
	source := []byte("---\ntitle: Clean\ndate: 2024-01-01\n---\nbody\n")

	dups, err := DuplicateKeys(source)
	if err != nil {
		t.Fatalf("DuplicateKeys returned error: %v", err)
	}
	if len(dups) != 0 {
		t.Fatalf("DuplicateKeys = %v, want none", dups)
	}
}
