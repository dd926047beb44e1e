package inkpress

import (
	"github.com/inkpress/inkpress/internal/check"
	"github.com/inkpress/inkpress/internal/content"
	"github.com/inkpress/inkpress/internal/di"
	"github.com/inkpress/inkpress/internal/generator"
	"github.com/inkpress/inkpress/internal/layouts"
	"github.com/inkpress/inkpress/internal/migrate"
	"github.com/inkpress/inkpress/internal/serve"
	"github.com/inkpress/inkpress/pkg/interfaces"
)

// ContentStore exports the content store contract for consumers of the
// inkpress package.
type ContentStore = interfaces.ContentStore

// Document exports the parsed content file DTO.
type Document = interfaces.Document

// FrontMatter exports the parsed front-matter DTO.
type FrontMatter = interfaces.FrontMatter

// GeneratorService exports the static site generator contract.
type GeneratorService = generator.Service

// BuildOptions exports the generator run options.
type BuildOptions = generator.BuildOptions

// BuildResult exports the generator run summary.
type BuildResult = generator.BuildResult

// CheckReport exports the integrity checker report.
type CheckReport = check.Report

// CheckIssue exports a single integrity finding.
type CheckIssue = check.Issue

// MigrateOptions exports per-run migration options.
type MigrateOptions = migrate.Options

// MigrateResult exports the migration run summary.
type MigrateResult = migrate.Result

// ScaffoldResult exports the scaffolder's created-document summary.
type ScaffoldResult = content.ScaffoldResult

// Module represents the top level inkpress runtime façade.
type Module struct {
	container *di.Container
}

// New constructs an inkpress module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Store returns the configured content store.
func (m *Module) Store() *content.Store {
	return m.container.Store()
}

// Layouts returns the configured layout registry; nil when no layouts
// directory exists.
func (m *Module) Layouts() *layouts.Registry {
	return m.container.Layouts()
}

// Parser returns the configured markdown parser.
func (m *Module) Parser() interfaces.MarkdownParser {
	return m.container.Parser()
}

// Generator returns the configured generator service.
func (m *Module) Generator() GeneratorService {
	return m.container.Generator()
}

// Checker returns the configured integrity checker; nil when disabled.
func (m *Module) Checker() *check.Checker {
	return m.container.Checker()
}

// Scaffolder returns the document scaffolder.
func (m *Module) Scaffolder() *content.Scaffolder {
	return m.container.Scaffolder()
}

// Migrator builds a migration runner for the given source and target trees.
func (m *Module) Migrator(sourceDir, targetDir string) (*migrate.Migrator, error) {
	return m.container.Migrator(sourceDir, targetDir)
}

// DevSession builds the watch-and-serve development session.
func (m *Module) DevSession() (*serve.Session, error) {
	return m.container.DevSession()
}

// LoggerProvider returns the configured logger provider; nil when the logging
// feature is disabled.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	return m.container.LoggerProvider()
}
