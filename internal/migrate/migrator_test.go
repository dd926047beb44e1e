package migrate

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func sourceTree() fstest.MapFS {
	return fstest.MapFS{
		"posts/2024-05-01-hello.md": &fstest.MapFile{
			Data: []byte("---\ntitle:   Hello\ntags: [go]\n---\nBody one.\n"),
		},
		"about.md": &fstest.MapFile{
			Data: []byte("---\ntitle: About\n---\nBody two.\n"),
		},
		"plain.md": &fstest.MapFile{
			Data: []byte("No metadata here.\n"),
		},
		"notes.txt": &fstest.MapFile{
			Data: []byte("not content"),
		},
	}
}

func TestMigratorRun(t *testing.T) {
	target := t.TempDir()
	m, err := NewMigrator(Config{SourceFS: sourceTree(), TargetDir: target}, nil)
	if err != nil {
		t.Fatalf("NewMigrator returned error: %v", err)
	}

	result, err := m.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(result.Migrated) != 3 {
		t.Fatalf("Migrated = %v, want 3 entries", result.Migrated)
	}

	data, err := os.ReadFile(filepath.Join(target, "posts", "2024-05-01-hello.md"))
	if err != nil {
		t.Fatalf("reading migrated file: %v", err)
	}
	// Extra spacing collapsed, body intact.
	if !bytes.Contains(data, []byte("title: Hello\n")) {
		t.Fatalf("front-matter not normalized: %q", data)
	}
	if !bytes.Contains(data, []byte("Body one.\n")) {
		t.Fatalf("body lost: %q", data)
	}

	// Files without metadata are carried over byte for byte.
	plain, err := os.ReadFile(filepath.Join(target, "plain.md"))
	if err != nil {
		t.Fatalf("reading plain file: %v", err)
	}
	if string(plain) != "No metadata here.\n" {
		t.Fatalf("plain file rewritten: %q", plain)
	}

	// Non-markdown files are not migrated.
	if _, err := os.Stat(filepath.Join(target, "notes.txt")); err == nil {
		t.Fatal("non-markdown file was migrated")
	}
}

func TestMigratorIdempotent(t *testing.T) {
	target := t.TempDir()
	m, err := NewMigrator(Config{SourceFS: sourceTree(), TargetDir: target}, nil)
	if err != nil {
		t.Fatalf("NewMigrator returned error: %v", err)
	}

	if _, err := m.Run(context.Background(), Options{}); err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}
	first, err := os.ReadFile(filepath.Join(target, "about.md"))
	if err != nil {
		t.Fatalf("reading first output: %v", err)
	}

	// Migrating the migrated tree again reproduces it byte for byte.
	m2, err := NewMigrator(Config{SourceFS: os.DirFS(target), TargetDir: t.TempDir()}, nil)
	if err != nil {
		t.Fatalf("NewMigrator returned error: %v", err)
	}
	result, err := m2.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}
	second, err := os.ReadFile(filepath.Join(m2.cfg.TargetDir, "about.md"))
	if err != nil {
		t.Fatalf("reading second output: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("migration not idempotent:\nfirst:  %q\nsecond: %q", first, second)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("second run errors: %v", result.Errors)
	}
}

func TestMigratorDryRun(t *testing.T) {
	target := t.TempDir()
	m, err := NewMigrator(Config{SourceFS: sourceTree(), TargetDir: target}, nil)
	if err != nil {
		t.Fatalf("NewMigrator returned error: %v", err)
	}

	result, err := m.Run(context.Background(), Options{DryRun: true})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !result.DryRun || len(result.Migrated) != 3 {
		t.Fatalf("dry run result = %+v", result)
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		t.Fatalf("ReadDir returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("dry run wrote files: %v", entries)
	}
}

func TestMigratorSkipsExisting(t *testing.T) {
	target := t.TempDir()
	existing := filepath.Join(target, "about.md")
	if err := os.WriteFile(existing, []byte("already here"), 0o644); err != nil {
		t.Fatalf("seeding target: %v", err)
	}

	m, err := NewMigrator(Config{SourceFS: sourceTree(), TargetDir: target}, nil)
	if err != nil {
		t.Fatalf("NewMigrator returned error: %v", err)
	}

	result, err := m.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != "about.md" {
		t.Fatalf("Skipped = %v", result.Skipped)
	}

	data, _ := os.ReadFile(existing)
	if string(data) != "already here" {
		t.Fatalf("existing file overwritten: %q", data)
	}

	// Overwrite replaces it.
	if _, err := m.Run(context.Background(), Options{Overwrite: true}); err != nil {
		t.Fatalf("overwrite Run returned error: %v", err)
	}
	data, _ = os.ReadFile(existing)
	if string(data) == "already here" {
		t.Fatal("overwrite did not replace file")
	}
}
