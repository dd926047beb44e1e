package check

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/inkpress/inkpress/internal/content"
	"github.com/inkpress/inkpress/internal/layouts"
	"github.com/inkpress/inkpress/internal/logging"
	"github.com/inkpress/inkpress/internal/markdown"
	"github.com/inkpress/inkpress/pkg/interfaces"
)

// Rule names reported by the checker.
const (
	RuleFrontMatter    = "frontmatter"
	RuleDuplicateKeys  = "duplicate-keys"
	RuleRoute          = "route"
	RuleDuplicateRoute = "duplicate-route"
	RuleLinks          = "links"
	RuleRoundTrip      = "roundtrip"
	RuleLayout         = "layout"
	RuleSchema         = "schema"
)

// routePattern accepts absolute paths without whitespace.
var routePattern = regexp.MustCompile(`^/\S*$`)

// Config configures an integrity check run.
type Config struct {
	// ContentFS is the filesystem rooted at the content directory.
	ContentFS fs.FS
	// StaticFS, when set, lets internal links resolve against copied assets.
	StaticFS fs.FS
	// SchemaFS, when set, supplies `<kind>.schema.json` files.
	SchemaFS fs.FS
	// Pattern limits checked files (defaults to "*.md").
	Pattern string
	// ExternalSchemes lists URL schemes accepted without resolution (defaults
	// to http, https, mailto, tel). Links with any other scheme are reported
	// as warnings.
	ExternalSchemes []string
	// SkipRoundTrip disables the normalizing-transform idempotence rule.
	SkipRoundTrip bool
}

// Dependencies carries checker collaborators. Store and Layouts are optional:
// without a store, link and duplicate-route rules are skipped; without a
// registry, layout resolution is skipped.
type Dependencies struct {
	Store   *content.Store
	Layouts *layouts.Registry
	Logger  interfaces.Logger
}

// Checker runs the document integrity rules and produces a Report.
type Checker struct {
	cfg        Config
	store      *content.Store
	layouts    *layouts.Registry
	logger     interfaces.Logger
	schemas    *SchemaSet
	schemes    map[string]bool
	byPath     map[string]*interfaces.Document
	storeReady bool
}

// NewChecker builds a Checker, compiling collection schemas up front so a
// broken schema file fails loudly rather than silently passing documents.
func NewChecker(cfg Config, deps Dependencies) (*Checker, error) {
	if cfg.ContentFS == nil {
		return nil, errors.New("check: content filesystem is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	schemas, err := LoadSchemas(cfg.SchemaFS)
	if err != nil {
		return nil, err
	}

	allowed := cfg.ExternalSchemes
	if len(allowed) == 0 {
		allowed = []string{"http", "https", "mailto", "tel"}
	}
	schemes := make(map[string]bool, len(allowed)+1)
	for _, scheme := range allowed {
		schemes[strings.ToLower(scheme)] = true
	}
	// Scheme-relative links inherit the site scheme.
	schemes["//"] = true

	return &Checker{
		cfg:     cfg,
		store:   deps.Store,
		layouts: deps.Layouts,
		logger:  logger,
		schemas: schemas,
		schemes: schemes,
	}, nil
}

// Run walks every document and applies the integrity rules. The returned
// error covers infrastructure failures only; rule violations land in the
// report.
func (c *Checker) Run(ctx context.Context) (*Report, error) {
	report := NewReport()

	// Load the content index on demand. A tree broken enough that indexing
	// fails is exactly what the checker exists to report, so a failed load
	// downgrades the link and duplicate-route rules instead of aborting.
	c.storeReady = c.store != nil
	if c.store != nil && !c.store.Loaded() {
		if err := c.store.Load(ctx); err != nil {
			c.logger.Warn("content index unavailable, skipping link and route rules", "error", err)
			c.storeReady = false
		}
	}

	c.byPath = map[string]*interfaces.Document{}
	if c.storeReady {
		for _, doc := range c.store.Documents() {
			c.byPath[doc.FilePath] = doc
		}
	}

	pattern := c.cfg.Pattern
	if pattern == "" {
		pattern = "*.md"
	}

	err := fs.WalkDir(c.cfg.ContentFS, ".", func(p string, d fs.DirEntry, walkErr error) error {
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

		source, err := fs.ReadFile(c.cfg.ContentFS, p)
		if err != nil {
			return fmt.Errorf("check: read %s: %w", p, err)
		}

		report.Documents++
		c.checkDocument(report, p, source)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if c.storeReady {
		for _, route := range c.store.DuplicateRoutes() {
			report.Add(RuleDuplicateRoute, SeverityError, route,
				"more than one document resolves to this route")
		}
	}

	c.logger.Info("check complete", "documents", report.Documents,
		"issues", len(report.Issues), "errors", len(report.Errors()))
	return report, nil
}

func (c *Checker) checkDocument(report *Report, p string, source []byte) {
	meta, body, parseErr := markdown.ParseFrontMatter(source)
	if parseErr != nil {
		report.Add(RuleFrontMatter, SeverityError, p, "front-matter does not parse: %v", parseErr)
		return
	}

	c.checkCodec(report, p, source)
	c.checkRoute(report, p, meta)
	c.checkLayout(report, p, meta)
	c.checkLinks(report, p, body)
	c.checkSchema(report, p, meta)
}

// checkCodec covers the fence structure, duplicate keys, and round-trip
// idempotence of the normalizing transform.
func (c *Checker) checkCodec(report *Report, p string, source []byte) {
	if _, err := markdown.Split(source); err != nil {
		if errors.Is(err, markdown.ErrNoFrontMatter) {
			report.Add(RuleFrontMatter, SeverityWarning, p, "document has no front-matter block")
			return
		}
		report.Add(RuleFrontMatter, SeverityError, p, "%v", err)
		return
	}

	dups, err := markdown.DuplicateKeys(source)
	if err != nil {
		report.Add(RuleDuplicateKeys, SeverityError, p, "%v", err)
	} else {
		for _, key := range dups {
			report.Add(RuleDuplicateKeys, SeverityError, p, "duplicate front-matter key %q", key)
		}
	}

	if c.cfg.SkipRoundTrip {
		return
	}
	once, err := markdown.Normalize(source)
	if err != nil {
		report.Add(RuleRoundTrip, SeverityError, p, "normalize failed: %v", err)
		return
	}
	twice, err := markdown.Normalize(once)
	if err != nil {
		report.Add(RuleRoundTrip, SeverityError, p, "re-normalize failed: %v", err)
		return
	}
	if !bytes.Equal(once, twice) {
		report.Add(RuleRoundTrip, SeverityError, p, "normalizing transform is not idempotent")
	}
}

func (c *Checker) checkRoute(report *Report, p string, meta interfaces.FrontMatter) {
	override := meta.RouteOverride()
	if override == "" {
		return
	}
	err := validation.Validate(override,
		validation.Match(routePattern).Error("must be an absolute path starting with /"))
	if err != nil {
		report.Add(RuleRoute, SeverityError, p, "route override %q: %v", override, err)
	}
}

func (c *Checker) checkLayout(report *Report, p string, meta interfaces.FrontMatter) {
	if c.layouts == nil || meta.Layout == "" {
		return
	}
	if !c.layouts.Has(meta.Layout) {
		report.Add(RuleLayout, SeverityError, p, "layout %q is not defined", meta.Layout)
	}
}

func (c *Checker) checkLinks(report *Report, p string, body []byte) {
	if !c.storeReady {
		return
	}

	links, err := markdown.ExtractLinks(body)
	if err != nil {
		report.Add(RuleLinks, SeverityError, p, "link extraction failed: %v", err)
		return
	}

	doc := c.byPath[p]
	for _, link := range links {
		if scheme := link.Scheme(); scheme != "" {
			if !c.schemes[scheme] {
				report.Add(RuleLinks, SeverityWarning, p,
					"link %q uses unrecognized scheme %q", link.Destination, scheme)
			}
			continue
		}
		if !link.IsInternal() {
			continue
		}
		target := link.NormalizeInternal()
		if target == "" {
			continue
		}
		if !strings.HasPrefix(target, "/") {
			base := "/"
			if doc != nil {
				base = doc.Route
			}
			target = path.Join(base, target)
		}
		if c.resolves(target) {
			continue
		}
		report.Add(RuleLinks, SeverityError, p, "internal link %q does not resolve", link.Destination)
	}
}

// resolves reports whether an internal target maps to a document route or a
// static asset.
func (c *Checker) resolves(target string) bool {
	if _, ok := c.store.Lookup(target); ok {
		return true
	}
	if c.cfg.StaticFS == nil {
		return false
	}
	rel := strings.TrimPrefix(path.Clean(target), "/")
	if rel == "" || rel == "." {
		return false
	}
	if _, err := fs.Stat(c.cfg.StaticFS, rel); err == nil {
		return true
	}
	return false
}

func (c *Checker) checkSchema(report *Report, p string, meta interfaces.FrontMatter) {
	kind := c.kindForPath(p)
	if !c.schemas.Has(kind) {
		return
	}
	messages, err := c.schemas.Validate(kind, meta.Raw)
	if err != nil {
		report.Add(RuleSchema, SeverityError, p, "%v", err)
		return
	}
	for _, msg := range messages {
		report.Add(RuleSchema, SeverityError, p, "%s", msg)
	}
}

func (c *Checker) kindForPath(p string) string {
	if doc, ok := c.byPath[p]; ok {
		return doc.Kind
	}
	dir := path.Dir(p)
	if dir == "." {
		return "pages"
	}
	parts := strings.SplitN(dir, "/", 2)
	return parts[0]
}
