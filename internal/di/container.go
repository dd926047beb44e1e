package di

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/inkpress/inkpress/internal/check"
	"github.com/inkpress/inkpress/internal/content"
	"github.com/inkpress/inkpress/internal/generator"
	"github.com/inkpress/inkpress/internal/layouts"
	"github.com/inkpress/inkpress/internal/logging"
	"github.com/inkpress/inkpress/internal/logging/console"
	"github.com/inkpress/inkpress/internal/logging/gologger"
	"github.com/inkpress/inkpress/internal/markdown"
	"github.com/inkpress/inkpress/internal/migrate"
	"github.com/inkpress/inkpress/internal/runtimeconfig"
	"github.com/inkpress/inkpress/internal/serve"
	"github.com/inkpress/inkpress/pkg/interfaces"
)

// Container wires module dependencies from a validated runtime configuration.
// Filesystems default to os.DirFS over the configured directories; tests
// override them with fstest.MapFS via options.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	contentFS fs.FS
	layoutsFS fs.FS
	staticFS  fs.FS
	schemaFS  fs.FS

	clock func() time.Time

	parser     interfaces.MarkdownParser
	store      *content.Store
	registry   *layouts.Registry
	checker    *check.Checker
	generator  generator.Service
	scaffolder *content.Scaffolder
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider derived from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithContentFS overrides the content filesystem.
func WithContentFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.contentFS = fsys
	}
}

// WithLayoutsFS overrides the layouts filesystem.
func WithLayoutsFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.layoutsFS = fsys
	}
}

// WithStaticFS overrides the static asset filesystem.
func WithStaticFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.staticFS = fsys
	}
}

// WithSchemaFS overrides the front-matter schema filesystem.
func WithSchemaFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.schemaFS = fsys
	}
}

// WithParser overrides the default goldmark parser binding.
func WithParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		c.parser = parser
	}
}

// WithClock overrides the time source used for builds and scaffolding.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.loggerProvider == nil {
		provider, err := buildLoggerProvider(cfg)
		if err != nil {
			return nil, err
		}
		c.loggerProvider = provider
	}

	if c.contentFS == nil {
		c.contentFS = os.DirFS(cfg.Content.Dir)
	}
	if c.layoutsFS == nil {
		if _, err := os.Stat(cfg.Layouts.Dir); err == nil {
			c.layoutsFS = os.DirFS(cfg.Layouts.Dir)
		}
	}
	if c.staticFS == nil && cfg.Build.StaticDir != "" {
		if _, err := os.Stat(cfg.Build.StaticDir); err == nil {
			c.staticFS = os.DirFS(cfg.Build.StaticDir)
		}
	}
	if c.schemaFS == nil && cfg.Check.SchemaDir != "" {
		if _, err := os.Stat(cfg.Check.SchemaDir); err == nil {
			c.schemaFS = os.DirFS(cfg.Check.SchemaDir)
		}
	}

	if c.parser == nil {
		c.parser = markdown.NewGoldmarkParser(interfaces.ParseOptions{
			Extensions: cfg.Content.Parser.Extensions,
			Sanitize:   cfg.Content.Parser.Sanitize,
			HardWraps:  cfg.Content.Parser.HardWraps,
			SafeMode:   cfg.Content.Parser.SafeMode,
		})
	}

	store, err := content.NewStore(content.Config{
		FS:          c.contentFS,
		Pattern:     cfg.Content.Pattern,
		Collections: collectionRules(cfg.Content.Collections),
	}, content.Dependencies{
		Logger: logging.ContentLogger(c.loggerProvider),
	})
	if err != nil {
		return nil, err
	}
	c.store = store

	if c.layoutsFS != nil {
		registry, err := layouts.NewRegistry(layouts.Config{FS: c.layoutsFS}, layouts.Dependencies{
			Logger: logging.BuildLogger(c.loggerProvider),
		})
		if err != nil {
			return nil, err
		}
		if err := registry.Load(); err != nil {
			if !errors.Is(err, layouts.ErrNoLayouts) {
				return nil, err
			}
			// An empty layouts directory only matters once the generator
			// needs templates; checking and migration still work.
			registry = nil
		}
		c.registry = registry
	}

	if cfg.Features.Checker {
		checker, err := check.NewChecker(check.Config{
			ContentFS:       c.contentFS,
			StaticFS:        c.staticFS,
			SchemaFS:        c.schemaFS,
			Pattern:         cfg.Content.Pattern,
			ExternalSchemes: cfg.Check.ExternalSchemes,
			SkipRoundTrip:   !cfg.Check.RoundTrip,
		}, check.Dependencies{
			Store:   c.store,
			Layouts: c.registry,
			Logger:  logging.CheckLogger(c.loggerProvider),
		})
		if err != nil {
			return nil, err
		}
		c.checker = checker
	}

	if cfg.Features.Generator && cfg.Build.Enabled {
		if c.registry == nil {
			return nil, fmt.Errorf("inkpress: generator enabled but no layouts found in %s", cfg.Layouts.Dir)
		}
		feeds := feedCollections(cfg.Content.Collections)
		svc, err := generator.NewService(generator.Config{
			OutputDir:        cfg.Build.OutputDir,
			Site:             siteMetadata(cfg.Site),
			CleanBuild:       cfg.Build.CleanBuild,
			Incremental:      cfg.Build.Incremental,
			CopyAssets:       cfg.Build.CopyAssets,
			GenerateSitemap:  cfg.Build.GenerateSitemap,
			GenerateRobots:   cfg.Build.GenerateRobots,
			GenerateFeed:     cfg.Build.GenerateFeed && len(feeds) > 0,
			GenerateTagPages: cfg.Build.TagPages,
			FeedCollections:  feeds,
			RenderTimeout:    cfg.Build.RenderTimeout,
			Workers:          cfg.Build.Workers,
		}, generator.Dependencies{
			Store:    c.store,
			Layouts:  c.registry,
			Parser:   c.parser,
			StaticFS: c.staticFS,
			Logger:   logging.BuildLogger(c.loggerProvider),
		})
		if err != nil {
			return nil, err
		}
		c.generator = svc
	} else {
		c.generator = generator.NewDisabledService()
	}

	scaffolder, err := content.NewScaffolder(content.ScaffoldConfig{
		ContentDir: cfg.Content.Dir,
		Kinds:      scaffoldKinds(cfg.Content.Collections),
		Now:        c.clock,
	}, logging.ContentLogger(c.loggerProvider))
	if err != nil {
		return nil, err
	}
	c.scaffolder = scaffolder

	return c, nil
}

func buildLoggerProvider(cfg runtimeconfig.Config) (interfaces.LoggerProvider, error) {
	if !cfg.Features.Logger {
		return nil, nil
	}
	switch cfg.Logging.Provider {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		level := console.ParseLevel(cfg.Logging.Level)
		return console.NewProvider(console.Options{MinLevel: &level}), nil
	}
}

func collectionRules(collections map[string]runtimeconfig.CollectionConfig) map[string]content.CollectionRules {
	rules := make(map[string]content.CollectionRules, len(collections))
	for kind, collection := range collections {
		rules[kind] = content.CollectionRules{
			DefaultLayout:    collection.Layout,
			RoutePrefix:      collection.RoutePrefix,
			DateFromFilename: collection.DateFromFilename,
		}
	}
	return rules
}

// scaffoldKinds lists the collection directories `new` may scaffold into.
func scaffoldKinds(collections map[string]runtimeconfig.CollectionConfig) []string {
	kinds := make([]string, 0, len(collections)+1)
	for kind := range collections {
		kinds = append(kinds, kind)
	}
	kinds = append(kinds, "pages")
	sort.Strings(kinds)
	return kinds
}

// feedCollections lists the collections flagged for feed membership, sorted
// so the generator configuration stays deterministic across runs.
func feedCollections(collections map[string]runtimeconfig.CollectionConfig) []string {
	var kinds []string
	for kind, collection := range collections {
		if collection.Feed {
			kinds = append(kinds, kind)
		}
	}
	sort.Strings(kinds)
	return kinds
}

func siteMetadata(site runtimeconfig.SiteConfig) generator.SiteMetadata {
	return generator.SiteMetadata{
		Title:       site.Title,
		Description: site.Description,
		Author:      site.Author,
		BaseURL:     site.BaseURL,
	}
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// Store exposes the content store.
func (c *Container) Store() *content.Store { return c.store }

// Layouts exposes the layout registry; nil when no layouts directory exists.
func (c *Container) Layouts() *layouts.Registry { return c.registry }

// Parser exposes the markdown parser.
func (c *Container) Parser() interfaces.MarkdownParser { return c.parser }

// Checker exposes the integrity checker; nil when the feature is disabled.
func (c *Container) Checker() *check.Checker { return c.checker }

// Generator exposes the site generator, a disabled stub when turned off.
func (c *Container) Generator() generator.Service { return c.generator }

// Scaffolder exposes the document scaffolder.
func (c *Container) Scaffolder() *content.Scaffolder { return c.scaffolder }

// Migrator builds a migration runner for the given source tree. Source and
// target are per-run inputs rather than module configuration.
func (c *Container) Migrator(sourceDir, targetDir string) (*migrate.Migrator, error) {
	return migrate.NewMigrator(migrate.Config{
		SourceFS:  os.DirFS(sourceDir),
		TargetDir: targetDir,
		Pattern:   c.Config.Content.Pattern,
	}, logging.MigrateLogger(c.loggerProvider))
}

// DevSession builds a watch-and-serve session that rebuilds through the
// configured generator.
func (c *Container) DevSession() (*serve.Session, error) {
	if !c.Config.Features.Serve || !c.Config.Serve.Enabled {
		return nil, errors.New("inkpress: dev server is disabled")
	}

	watchPaths := []string{c.Config.Content.Dir, c.Config.Layouts.Dir}
	if c.Config.Build.StaticDir != "" {
		watchPaths = append(watchPaths, c.Config.Build.StaticDir)
	}

	rebuild := serve.RebuildFunc(func(ctx context.Context) error {
		_, err := c.generator.Build(ctx, generator.BuildOptions{})
		return err
	})

	return serve.NewSession(serve.SessionConfig{
		Server: serve.ServerConfig{
			Addr:       c.Config.Serve.Addr,
			OutputDir:  c.Config.Build.OutputDir,
			LiveReload: c.Config.Serve.LiveReload,
		},
		Watcher: serve.WatcherConfig{
			Paths:    watchPaths,
			Debounce: c.Config.Serve.Debounce,
		},
	}, rebuild, logging.ServeLogger(c.loggerProvider))
}
