package sitecmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	goerrors "github.com/goliatone/go-errors"

	"github.com/inkpress/inkpress/internal/check"
	"github.com/inkpress/inkpress/internal/content"
	"github.com/inkpress/inkpress/internal/generator"
	"github.com/inkpress/inkpress/internal/migrate"
)

type stubGenerator struct {
	built  *generator.BuildOptions
	result *generator.BuildResult
	err    error
}

func (s *stubGenerator) Build(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
	s.built = &opts
	if s.err != nil {
		return nil, s.err
	}
	if s.result == nil {
		s.result = &generator.BuildResult{PagesBuilt: 1}
	}
	return s.result, nil
}

func (s *stubGenerator) Clean(ctx context.Context) error { return nil }

func TestBuildSiteHandler(t *testing.T) {
	stub := &stubGenerator{}
	var got *generator.BuildResult
	h := NewBuildSiteHandler(stub, nil, func(r *generator.BuildResult) { got = r })

	msg := BuildSiteCommand{Routes: []string{"/about/"}, DryRun: true}
	if err := h.Execute(context.Background(), msg); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if stub.built == nil || !stub.built.DryRun || len(stub.built.Routes) != 1 {
		t.Fatalf("build options = %+v", stub.built)
	}
	if got == nil || got.PagesBuilt != 1 {
		t.Fatalf("sink result = %+v", got)
	}
}

func TestBuildSiteHandlerWrapsFailure(t *testing.T) {
	stub := &stubGenerator{err: errors.New("render failed")}
	h := NewBuildSiteHandler(stub, nil, nil)

	err := h.Execute(context.Background(), BuildSiteCommand{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestCheckSiteHandlerFailsOnErrors(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.md": &fstest.MapFile{
			Data: []byte("---\ntitle: One\ntitle: Two\n---\nbody\n"),
		},
	}
	checker, err := check.NewChecker(check.Config{ContentFS: fsys}, check.Dependencies{})
	if err != nil {
		t.Fatalf("NewChecker returned error: %v", err)
	}

	var report *check.Report
	h := NewCheckSiteHandler(checker, nil, func(r *check.Report) { report = r })

	execErr := h.Execute(context.Background(), CheckSiteCommand{})
	if execErr == nil {
		t.Fatal("expected check failure")
	}
	if !errors.Is(execErr, ErrCheckFailed) {
		t.Fatalf("error = %v, want ErrCheckFailed", execErr)
	}
	if report == nil || !report.HasErrors() {
		t.Fatalf("sink report = %+v", report)
	}
}

func TestCheckSiteHandlerPasses(t *testing.T) {
	fsys := fstest.MapFS{
		"ok.md": &fstest.MapFile{
			Data: []byte("---\ntitle: Fine\n---\nbody\n"),
		},
	}
	checker, err := check.NewChecker(check.Config{ContentFS: fsys}, check.Dependencies{})
	if err != nil {
		t.Fatalf("NewChecker returned error: %v", err)
	}

	h := NewCheckSiteHandler(checker, nil, nil)
	if err := h.Execute(context.Background(), CheckSiteCommand{}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
}

func TestMigrateContentHandler(t *testing.T) {
	source := t.TempDir()
	if err := os.WriteFile(filepath.Join(source, "a.md"), []byte("---\ntitle: A\n---\nx\n"), 0o644); err != nil {
		t.Fatalf("seeding source: %v", err)
	}
	target := t.TempDir()

	var result *migrate.Result
	h := NewMigrateContentHandler(nil, func(r *migrate.Result) { result = r })

	msg := MigrateContentCommand{Source: source, Target: target}
	if err := h.Execute(context.Background(), msg); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result == nil || len(result.Migrated) != 1 {
		t.Fatalf("sink result = %+v", result)
	}
	if _, err := os.Stat(filepath.Join(target, "a.md")); err != nil {
		t.Fatalf("migrated file missing: %v", err)
	}
}

func TestMigrateContentHandlerValidation(t *testing.T) {
	h := NewMigrateContentHandler(nil, nil)

	err := h.Execute(context.Background(), MigrateContentCommand{Source: "", Target: ""})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestNewDocumentHandler(t *testing.T) {
	dir := t.TempDir()
	scaffolder, err := content.NewScaffolder(content.ScaffoldConfig{ContentDir: dir}, nil)
	if err != nil {
		t.Fatalf("NewScaffolder returned error: %v", err)
	}

	var result *content.ScaffoldResult
	h := NewNewDocumentHandler(scaffolder, nil, func(r *content.ScaffoldResult) { result = r })

	if err := h.Execute(context.Background(), NewDocumentCommand{Title: "My Post", Kind: "post"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result == nil || result.Slug != "my-post" {
		t.Fatalf("sink result = %+v", result)
	}

	// Missing title fails validation before the scaffolder runs.
	err = h.Execute(context.Background(), NewDocumentCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}
