package sitecmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	command "github.com/goliatone/go-command"

	"github.com/inkpress/inkpress/internal/check"
	"github.com/inkpress/inkpress/internal/commands"
	"github.com/inkpress/inkpress/internal/content"
	"github.com/inkpress/inkpress/internal/generator"
	"github.com/inkpress/inkpress/internal/migrate"
	"github.com/inkpress/inkpress/pkg/interfaces"
)

const (
	buildOperation   = "site.build"
	checkOperation   = "site.check"
	migrateOperation = "site.migrate"
	newDocOperation  = "site.new_document"
)

// ErrCheckFailed is returned when an integrity run reports error findings.
var ErrCheckFailed = errors.New("site command: integrity check failed")

var (
	_ command.Commander[BuildSiteCommand]      = (*BuildSiteHandler)(nil)
	_ command.Commander[CheckSiteCommand]      = (*CheckSiteHandler)(nil)
	_ command.Commander[MigrateContentCommand] = (*MigrateContentHandler)(nil)
	_ command.Commander[NewDocumentCommand]    = (*NewDocumentHandler)(nil)
)

// BuildSiteHandler drives the generator through the shared command handler
// foundation.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteCommand]
}

// NewBuildSiteHandler creates a handler bound to the supplied generator. The
// optional sink receives the build result on success.
func NewBuildSiteHandler(svc generator.Service, logger interfaces.Logger, sink func(*generator.BuildResult), opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		result, err := svc.Build(ctx, generator.BuildOptions{
			Routes: msg.Routes,
			DryRun: msg.DryRun,
		})
		if err != nil {
			return err
		}
		if sink != nil {
			sink(result)
		}
		return nil
	}

	options := append([]commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](logger),
		commands.WithOperation[BuildSiteCommand](buildOperation),
	}, opts...)
	return &BuildSiteHandler{inner: commands.NewHandler(exec, options...)}
}

// Execute implements command.Commander.
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CheckSiteHandler runs the integrity checker and fails on error findings.
type CheckSiteHandler struct {
	inner *commands.Handler[CheckSiteCommand]
}

// NewCheckSiteHandler creates a handler bound to the supplied checker. The
// optional sink receives the report whether or not the check passes.
func NewCheckSiteHandler(checker *check.Checker, logger interfaces.Logger, sink func(*check.Report), opts ...commands.HandlerOption[CheckSiteCommand]) *CheckSiteHandler {
	exec := func(ctx context.Context, msg CheckSiteCommand) error {
		report, err := checker.Run(ctx)
		if err != nil {
			return err
		}
		if sink != nil {
			sink(report)
		}
		if report.HasErrors() {
			return fmt.Errorf("%w: %d errors", ErrCheckFailed, len(report.Errors()))
		}
		if msg.FailOnWarnings && len(report.Issues) > 0 {
			return fmt.Errorf("%w: %d findings", ErrCheckFailed, len(report.Issues))
		}
		return nil
	}

	options := append([]commands.HandlerOption[CheckSiteCommand]{
		commands.WithLogger[CheckSiteCommand](logger),
		commands.WithOperation[CheckSiteCommand](checkOperation),
	}, opts...)
	return &CheckSiteHandler{inner: commands.NewHandler(exec, options...)}
}

// Execute implements command.Commander.
func (h *CheckSiteHandler) Execute(ctx context.Context, msg CheckSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// MigrateContentHandler migrates a source tree into a target tree.
type MigrateContentHandler struct {
	inner *commands.Handler[MigrateContentCommand]
}

// NewMigrateContentHandler creates a handler. The optional sink receives the
// migration result on success.
func NewMigrateContentHandler(logger interfaces.Logger, sink func(*migrate.Result), opts ...commands.HandlerOption[MigrateContentCommand]) *MigrateContentHandler {
	exec := func(ctx context.Context, msg MigrateContentCommand) error {
		migrator, err := migrate.NewMigrator(migrate.Config{
			SourceFS:  os.DirFS(msg.Source),
			TargetDir: msg.Target,
		}, logger)
		if err != nil {
			return err
		}
		result, err := migrator.Run(ctx, migrate.Options{
			DryRun:    msg.DryRun,
			Overwrite: msg.Overwrite,
		})
		if sink != nil && result != nil {
			sink(result)
		}
		return err
	}

	options := append([]commands.HandlerOption[MigrateContentCommand]{
		commands.WithLogger[MigrateContentCommand](logger),
		commands.WithOperation[MigrateContentCommand](migrateOperation),
	}, opts...)
	return &MigrateContentHandler{inner: commands.NewHandler(exec, options...)}
}

// Execute implements command.Commander.
func (h *MigrateContentHandler) Execute(ctx context.Context, msg MigrateContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// NewDocumentHandler scaffolds posts and pages.
type NewDocumentHandler struct {
	inner *commands.Handler[NewDocumentCommand]
}

// NewNewDocumentHandler creates a handler bound to the supplied scaffolder.
// The optional sink receives the created file description.
func NewNewDocumentHandler(scaffolder *content.Scaffolder, logger interfaces.Logger, sink func(*content.ScaffoldResult), opts ...commands.HandlerOption[NewDocumentCommand]) *NewDocumentHandler {
	exec := func(ctx context.Context, msg NewDocumentCommand) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var (
			result *content.ScaffoldResult
			err    error
		)
		switch msg.Kind {
		case "", "post", "posts":
			if msg.Kind == "" {
				result, err = scaffolder.NewPage(msg.Title, "")
			} else {
				result, err = scaffolder.NewPost(msg.Title)
			}
		default:
			result, err = scaffolder.NewPage(msg.Title, msg.Kind)
		}
		if err != nil {
			return err
		}
		if sink != nil {
			sink(result)
		}
		return nil
	}

	options := append([]commands.HandlerOption[NewDocumentCommand]{
		commands.WithLogger[NewDocumentCommand](logger),
		commands.WithOperation[NewDocumentCommand](newDocOperation),
	}, opts...)
	return &NewDocumentHandler{inner: commands.NewHandler(exec, options...)}
}

// Execute implements command.Commander.
func (h *NewDocumentHandler) Execute(ctx context.Context, msg NewDocumentCommand) error {
	return h.inner.Execute(ctx, msg)
}
