package generator

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkpress/inkpress/internal/content"
	"github.com/inkpress/inkpress/internal/layouts"
	"github.com/inkpress/inkpress/internal/logging"
	"github.com/inkpress/inkpress/pkg/interfaces"
)

var (
	// ErrServiceDisabled indicates the generator feature is disabled.
	ErrServiceDisabled = errors.New("generator: service disabled")
	errStoreRequired   = errors.New("generator: content store is required")
	errLayoutsRequired = errors.New("generator: layout registry is required")
	errParserRequired  = errors.New("generator: markdown parser is required")
	errOutputRequired  = errors.New("generator: output directory is required")
)

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir        string
	Site             SiteMetadata
	CleanBuild       bool
	Incremental      bool
	CopyAssets       bool
	GenerateSitemap  bool
	GenerateRobots   bool
	GenerateFeed     bool
	GenerateTagPages bool
	// FeedCollections names the collections whose documents feed entries are
	// built from (defaults to "posts").
	FeedCollections []string
	// RenderTimeout bounds a single document render; zero disables the bound.
	RenderTimeout time.Duration
	Workers       int
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	// Routes limits the build to the named routes; empty builds everything.
	Routes []string
	DryRun bool
}

// RenderedPage reports one emitted document.
type RenderedPage struct {
	Path     string
	Route    string
	Output   string
	Layout   string
	Checksum string
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	BuildID       uuid.UUID
	PagesBuilt    int
	PagesSkipped  int
	AssetsBuilt   int
	AssetsSkipped int
	Duration      time.Duration
	Rendered      []RenderedPage
	Errors        []error
	DryRun        bool
}

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	Store    *content.Store
	Layouts  *layouts.Registry
	Parser   interfaces.MarkdownParser
	StaticFS fs.FS
	Logger   interfaces.Logger
}

// NewService wires a generator implementation with the provided configuration
// and dependencies.
func NewService(cfg Config, deps Dependencies) (Service, error) {
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return nil, errOutputRequired
	}
	if deps.Store == nil {
		return nil, errStoreRequired
	}
	if deps.Layouts == nil {
		return nil, errLayoutsRequired
	}
	if deps.Parser == nil {
		return nil, errParserRequired
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &service{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
		now:    time.Now,
	}, nil
}

// NewDisabledService returns a Service that fails all operations with
// ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg    Config
	deps   Dependencies
	logger interfaces.Logger
	now    func() time.Time
}

type disabledService struct{}

func (disabledService) Build(context.Context, BuildOptions) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Clean(context.Context) error { return ErrServiceDisabled }

type renderOutcome struct {
	page    RenderedPage
	skipped bool
	err     error
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := s.now()
	build := BuildInfo{
		ID:          uuid.New(),
		GeneratedAt: start.UTC(),
		DryRun:      opts.DryRun,
	}

	if !s.deps.Store.Loaded() {
		if err := s.deps.Store.Load(ctx); err != nil {
			return nil, err
		}
	}

	if s.cfg.CleanBuild && !opts.DryRun {
		if err := s.Clean(ctx); err != nil {
			return nil, err
		}
	}
	if !opts.DryRun {
		if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("generator: output directory: %w", err)
		}
	}

	manifest := newBuildManifest()
	if s.cfg.Incremental && !s.cfg.CleanBuild {
		manifest = loadManifest(s.cfg.OutputDir)
	}

	docs := s.selectDocuments(opts)
	collections := s.collectionContexts()
	tagNames := sortedTagNames(s.deps.Store.Tags())

	result := &BuildResult{
		BuildID: build.ID,
		DryRun:  opts.DryRun,
	}

	var (
		mu          sync.Mutex
		rendered    = make([]RenderedPage, 0, len(docs))
		errorsSlice []error
	)
	collect := func(outcome renderOutcome) {
		mu.Lock()
		defer mu.Unlock()
		if outcome.err != nil {
			errorsSlice = append(errorsSlice, outcome.err)
			return
		}
		if outcome.skipped {
			result.PagesSkipped++
			return
		}
		result.PagesBuilt++
		rendered = append(rendered, outcome.page)
	}

	workers := s.effectiveWorkerCount(len(docs))
	if workers <= 1 || len(docs) <= 1 {
		for _, doc := range docs {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			collect(s.renderDocument(ctx, build, collections, tagNames, doc, manifest, opts.DryRun))
		}
	} else {
		s.renderConcurrently(ctx, build, collections, tagNames, docs, manifest, workers, opts.DryRun, collect)
	}

	if s.cfg.CopyAssets && !opts.DryRun {
		summary, err := copyStatic(ctx, s.deps.StaticFS, s.cfg.OutputDir, manifest, build.GeneratedAt)
		if err != nil {
			errorsSlice = append(errorsSlice, err)
		}
		result.AssetsBuilt += summary.Built
		result.AssetsSkipped += summary.Skipped
	}

	if s.cfg.GenerateTagPages && !opts.DryRun {
		if err := s.writeTagPages(ctx, build); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if s.cfg.GenerateSitemap && !opts.DryRun {
		if err := s.writeSitemap(build); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}
	if s.cfg.GenerateRobots && !opts.DryRun {
		if err := s.writeFile(outputPath("/robots.txt"), []byte(buildRobots(s.cfg.Site.BaseURL))); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}
	if s.cfg.GenerateFeed && !opts.DryRun {
		items := buildFeedItems(s.cfg.Site, s.feedDocuments(), build.GeneratedAt)
		feed := buildAtomFeed(s.cfg.Site, items, build.GeneratedAt)
		if err := s.writeFile(feedFileName, []byte(feed)); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if !opts.DryRun && len(errorsSlice) == 0 {
		manifest.GeneratedAt = build.GeneratedAt
		for _, page := range rendered {
			manifest.Documents[page.Path] = manifestEntry{
				Path:       page.Path,
				Route:      page.Route,
				Output:     page.Output,
				Checksum:   page.Checksum,
				RenderedAt: build.GeneratedAt,
			}
		}
		if err := persistManifest(s.cfg.OutputDir, manifest); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	result.Rendered = rendered
	result.Duration = time.Since(start)
	s.logger.Info("build complete", "build_id", build.ID.String(),
		"pages", result.PagesBuilt, "skipped", result.PagesSkipped,
		"assets", result.AssetsBuilt, "duration", result.Duration.String(),
		"dry_run", opts.DryRun)

	if len(errorsSlice) > 0 {
		result.Errors = append(result.Errors, errorsSlice...)
		return result, errors.Join(errorsSlice...)
	}
	return result, nil
}

// Clean removes the output directory contents.
func (s *service) Clean(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.RemoveAll(s.cfg.OutputDir); err != nil {
		return fmt.Errorf("generator: clean output: %w", err)
	}
	return nil
}

func (s *service) selectDocuments(opts BuildOptions) []*interfaces.Document {
	docs := s.deps.Store.Documents()
	if len(opts.Routes) == 0 {
		return docs
	}
	wanted := make(map[string]struct{}, len(opts.Routes))
	for _, route := range opts.Routes {
		wanted[route] = struct{}{}
	}
	var selected []*interfaces.Document
	for _, doc := range docs {
		if _, ok := wanted[doc.Route]; ok {
			selected = append(selected, doc)
		}
	}
	return selected
}

// feedDocuments gathers the collections marked for feed membership, newest
// first across collections.
func (s *service) feedDocuments() []*interfaces.Document {
	kinds := s.cfg.FeedCollections
	if len(kinds) == 0 {
		kinds = []string{"posts"}
	}
	var docs []*interfaces.Document
	for _, kind := range kinds {
		docs = append(docs, s.deps.Store.Collection(kind)...)
	}
	if len(kinds) > 1 {
		sort.SliceStable(docs, func(i, j int) bool {
			di, dj := docs[i].FrontMatter.Date, docs[j].FrontMatter.Date
			if di.Equal(dj) {
				return docs[i].FilePath < docs[j].FilePath
			}
			return di.After(dj)
		})
	}
	return docs
}

// collectionContexts projects every collection into template views without
// rendered bodies, for use in listing layouts.
func (s *service) collectionContexts() map[string][]PageContext {
	out := map[string][]PageContext{}
	for _, kind := range s.deps.Store.Kinds() {
		docs := s.deps.Store.Collection(kind)
		contexts := make([]PageContext, 0, len(docs))
		for _, doc := range docs {
			contexts = append(contexts, pageContext(s.cfg.Site, doc, nil))
		}
		out[kind] = contexts
	}
	return out
}

func (s *service) renderConcurrently(
	ctx context.Context,
	build BuildInfo,
	collections map[string][]PageContext,
	tagNames []string,
	docs []*interfaces.Document,
	manifest *buildManifest,
	workers int,
	dryRun bool,
	collect func(renderOutcome),
) {
	jobs := make(chan *interfaces.Document)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doc := range jobs {
				select {
				case <-ctx.Done():
					collect(renderOutcome{err: ctx.Err()})
					return
				default:
					collect(s.renderDocument(ctx, build, collections, tagNames, doc, manifest, dryRun))
				}
			}
		}()
	}

	for _, doc := range docs {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		case jobs <- doc:
		}
	}
	close(jobs)
	wg.Wait()
}

// renderDocument applies the per-render deadline around renderOnce. Template
// execution cannot be interrupted mid-flight, so a timed-out render is
// reported while the goroutine drains into the buffered channel.
func (s *service) renderDocument(
	ctx context.Context,
	build BuildInfo,
	collections map[string][]PageContext,
	tagNames []string,
	doc *interfaces.Document,
	manifest *buildManifest,
	dryRun bool,
) renderOutcome {
	if s.cfg.RenderTimeout <= 0 {
		return s.renderOnce(ctx, build, collections, tagNames, doc, manifest, dryRun)
	}

	rctx, cancel := context.WithTimeout(ctx, s.cfg.RenderTimeout)
	defer cancel()

	done := make(chan renderOutcome, 1)
	go func() {
		done <- s.renderOnce(rctx, build, collections, tagNames, doc, manifest, dryRun)
	}()
	select {
	case outcome := <-done:
		return outcome
	case <-rctx.Done():
		return renderOutcome{err: fmt.Errorf("generator: render %s: %w", doc.FilePath, rctx.Err())}
	}
}

func (s *service) renderOnce(
	ctx context.Context,
	build BuildInfo,
	collections map[string][]PageContext,
	tagNames []string,
	doc *interfaces.Document,
	manifest *buildManifest,
	dryRun bool,
) renderOutcome {
	checksum := hex.EncodeToString(doc.Checksum)
	output := outputPath(doc.Route)

	if s.cfg.Incremental && !dryRun {
		if entry, ok := manifest.Documents[doc.FilePath]; ok && entry.Checksum == checksum {
			if _, err := os.Stat(filepath.Join(s.cfg.OutputDir, filepath.FromSlash(output))); err == nil {
				return renderOutcome{skipped: true}
			}
		}
	}

	body, err := s.deps.Parser.Parse(doc.Body)
	if err != nil {
		return renderOutcome{err: fmt.Errorf("generator: render %s: %w", doc.FilePath, err)}
	}
	doc.BodyHTML = body

	rules := s.deps.Store.Rules(doc.Kind)
	tmpl, err := s.deps.Layouts.Resolve(doc.FrontMatter.Layout, rules.DefaultLayout)
	if err != nil {
		return renderOutcome{err: fmt.Errorf("generator: layout for %s: %w", doc.FilePath, err)}
	}

	tctx := TemplateContext{
		Site:        s.cfg.Site,
		Page:        pageContext(s.cfg.Site, doc, body),
		Collections: collections,
		Tags:        tagNames,
		Build:       build,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, tctx); err != nil {
		return renderOutcome{err: fmt.Errorf("generator: execute layout for %s: %w", doc.FilePath, err)}
	}

	if !dryRun {
		if err := s.writeFile(output, buf.Bytes()); err != nil {
			return renderOutcome{err: err}
		}
	}

	logging.WithDocumentContext(s.logger, doc.FilePath, doc.Kind, doc.Route).Debug("rendered document")
	return renderOutcome{page: RenderedPage{
		Path:     doc.FilePath,
		Route:    doc.Route,
		Output:   output,
		Layout:   tmpl.Name(),
		Checksum: checksum,
	}}
}

func (s *service) writeTagPages(ctx context.Context, build BuildInfo) error {
	pages := collectTagPages(s.deps.Store.Tags())
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		rendered, err := renderTagPage(s.deps.Layouts, s.cfg.Site, build, page)
		if err != nil {
			return err
		}
		if err := s.writeFile(page.Output, rendered); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) writeSitemap(build BuildInfo) error {
	var entries []sitemapEntry
	for _, doc := range s.deps.Store.Documents() {
		entries = append(entries, sitemapEntry{Location: doc.Route, LastMod: doc.LastModified})
	}
	if s.cfg.GenerateTagPages {
		for _, page := range collectTagPages(s.deps.Store.Tags()) {
			entries = append(entries, sitemapEntry{Location: page.Route})
		}
	}
	sitemap := buildSitemap(s.cfg.Site.BaseURL, entries, build.GeneratedAt)
	return s.writeFile("sitemap.xml", []byte(sitemap))
}

func (s *service) writeFile(relative string, data []byte) error {
	target := filepath.Join(s.cfg.OutputDir, filepath.FromSlash(relative))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("generator: directory for %s: %w", relative, err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("generator: write %s: %w", relative, err)
	}
	return nil
}

func (s *service) effectiveWorkerCount(jobCount int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > jobCount {
		workers = jobCount
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

func sortedTagNames(tags map[string][]*interfaces.Document) []string {
	names := make([]string, 0, len(tags))
	for tag := range tags {
		names = append(names, tag)
	}
	sort.Strings(names)
	return names
}
