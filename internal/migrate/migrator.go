package migrate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/inkpress/inkpress/internal/logging"
	"github.com/inkpress/inkpress/internal/markdown"
	"github.com/inkpress/inkpress/pkg/interfaces"
)

var (
	// ErrSourceRequired indicates a migration without a source tree.
	ErrSourceRequired = errors.New("migrate: source directory is required")
	// ErrTargetRequired indicates a migration without a target tree.
	ErrTargetRequired = errors.New("migrate: target directory is required")
)

// Config configures a migration run.
type Config struct {
	// SourceFS is the filesystem rooted at the source content tree.
	SourceFS fs.FS
	// TargetDir is the destination directory on the real filesystem.
	TargetDir string
	// Pattern limits migrated files (defaults to "*.md").
	Pattern string
}

// Options tune one migration run.
type Options struct {
	// DryRun previews the migration without writing files.
	DryRun bool
	// Overwrite replaces files already present in the target tree.
	Overwrite bool
}

// Result aggregates migration counts in document order.
type Result struct {
	Migrated []string
	Skipped  []string
	Errors   []error
	DryRun   bool
}

// Migrator copies a content tree into a target directory, normalizing every
// front-matter block through the codec on the way.
type Migrator struct {
	cfg    Config
	logger interfaces.Logger
}

// NewMigrator builds a Migrator.
func NewMigrator(cfg Config, logger interfaces.Logger) (*Migrator, error) {
	if cfg.SourceFS == nil {
		return nil, ErrSourceRequired
	}
	if cfg.TargetDir == "" {
		return nil, ErrTargetRequired
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Migrator{cfg: cfg, logger: logger}, nil
}

// Run walks the source tree and migrates every matching document. Per-file
// failures accumulate in the result; only infrastructure failures abort the
// walk.
func (m *Migrator) Run(ctx context.Context, opts Options) (*Result, error) {
	acc := newAccumulator(opts.DryRun)

	pattern := m.cfg.Pattern
	if pattern == "" {
		pattern = "*.md"
	}

	err := fs.WalkDir(m.cfg.SourceFS, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if match, _ := path.Match(pattern, path.Base(p)); !match {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		m.migrateFile(p, opts, acc)
		return nil
	})
	if err != nil {
		return acc.result(), err
	}

	result := acc.result()
	m.logger.Info("migration complete", "migrated", len(result.Migrated),
		"skipped", len(result.Skipped), "errors", len(result.Errors),
		"dry_run", opts.DryRun)
	return result, errors.Join(result.Errors...)
}

func (m *Migrator) migrateFile(p string, opts Options, acc *accumulator) {
	source, err := fs.ReadFile(m.cfg.SourceFS, p)
	if err != nil {
		acc.addError(fmt.Errorf("migrate: read %s: %w", p, err))
		return
	}

	// Validate first so broken documents never land in the target tree.
	if _, _, err := markdown.ParseFrontMatter(source); err != nil {
		acc.addError(fmt.Errorf("migrate: %s: %w", p, err))
		return
	}

	normalized, err := markdown.Normalize(source)
	if err != nil {
		if errors.Is(err, markdown.ErrNoFrontMatter) {
			// Documents without metadata are carried over untouched.
			normalized = source
		} else {
			acc.addError(fmt.Errorf("migrate: normalize %s: %w", p, err))
			return
		}
	}

	// Idempotence guard: an already-normalized file must re-normalize to the
	// same bytes.
	if check, err := markdown.Normalize(normalized); err == nil && !bytes.Equal(check, normalized) {
		acc.addError(fmt.Errorf("migrate: %s: normalizing transform is not stable", p))
		return
	}

	target := filepath.Join(m.cfg.TargetDir, filepath.FromSlash(p))
	if !opts.Overwrite {
		if _, err := os.Stat(target); err == nil {
			acc.addSkipped(p)
			return
		}
	}

	if opts.DryRun {
		acc.addMigrated(p)
		return
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		acc.addError(fmt.Errorf("migrate: directory for %s: %w", p, err))
		return
	}
	if err := os.WriteFile(target, normalized, 0o644); err != nil {
		acc.addError(fmt.Errorf("migrate: write %s: %w", p, err))
		return
	}

	m.logger.Debug("migrated document", "path", p)
	acc.addMigrated(p)
}

type accumulator struct {
	migrated []string
	skipped  []string
	errors   []error
	dryRun   bool
}

func newAccumulator(dryRun bool) *accumulator {
	return &accumulator{dryRun: dryRun}
}

func (a *accumulator) addMigrated(p string) { a.migrated = append(a.migrated, p) }
func (a *accumulator) addSkipped(p string)  { a.skipped = append(a.skipped, p) }
func (a *accumulator) addError(err error)   { a.errors = append(a.errors, err) }

func (a *accumulator) result() *Result {
	return &Result{
		Migrated: a.migrated,
		Skipped:  a.skipped,
		Errors:   a.errors,
		DryRun:   a.dryRun,
	}
}
