package content

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/inkpress/inkpress/internal/logging"
	"github.com/inkpress/inkpress/internal/markdown"
	"github.com/inkpress/inkpress/pkg/interfaces"
)

// CollectionRules control how documents of one kind derive routes, dates, and
// layouts.
type CollectionRules struct {
	// DefaultLayout is used when a document names no layout of its own.
	DefaultLayout string
	// RoutePrefix overrides the derived "/<kind>" prefix.
	RoutePrefix string
	// DateFromFilename enables the `YYYY-MM-DD-slug.md` fallback.
	DateFromFilename bool
}

// Config configures a content store.
type Config struct {
	// FS is the filesystem rooted at the content directory.
	FS fs.FS
	// Pattern limits which files are treated as documents (defaults to "*.md").
	Pattern string
	// Collections maps a kind (top-level directory name) to its rules. Kinds
	// without an entry fall back to page-like defaults.
	Collections map[string]CollectionRules
}

// Dependencies carries collaborators for the store.
type Dependencies struct {
	Logger interfaces.Logger
}

// Store loads a content tree once and serves read-only queries over it. It is
// safe for concurrent reads after Load returns.
type Store struct {
	cfg    Config
	logger interfaces.Logger
	loader *markdown.Loader

	mu       sync.RWMutex
	loaded   bool
	docs     []*interfaces.Document
	byKind   map[string][]*interfaces.Document
	byRoute  map[string]*interfaces.Document
	tagIndex map[string][]*interfaces.Document
	// routes that more than one document resolved to, in discovery order
	duplicateRoutes []string
}

// NewStore builds a Store from configuration and dependencies. A nil logger
// falls back to a no-op implementation.
func NewStore(cfg Config, deps Dependencies) (*Store, error) {
	if cfg.FS == nil {
		return nil, ErrContentRootMissing
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	loader := markdown.NewLoader(cfg.FS, markdown.LoaderConfig{
		Pattern:   cfg.Pattern,
		Recursive: true,
	})

	return &Store{
		cfg:    cfg,
		logger: logger,
		loader: loader,
	}, nil
}

// Load walks the content tree, parses every document, and builds the route,
// collection, and tag indexes. Calling Load again replaces the indexes.
func (s *Store) Load(ctx context.Context) error {
	results, err := s.loader.LoadDirectory(ctx, ".", markdown.LoadParams{})
	if err != nil {
		return fmt.Errorf("content: load tree: %w", err)
	}

	docs := make([]*interfaces.Document, 0, len(results))
	byKind := map[string][]*interfaces.Document{}
	byRoute := map[string]*interfaces.Document{}
	tagIndex := map[string][]*interfaces.Document{}
	var duplicates []string

	for _, result := range results {
		doc := result.Document
		s.annotate(doc)

		docs = append(docs, doc)
		byKind[doc.Kind] = append(byKind[doc.Kind], doc)
		if existing, ok := byRoute[doc.Route]; ok {
			duplicates = append(duplicates, doc.Route)
			s.logger.Warn("duplicate route", "route", doc.Route,
				"path", doc.FilePath, "existing", existing.FilePath)
		} else {
			byRoute[doc.Route] = doc
		}
		for _, tag := range doc.FrontMatter.Tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			tagIndex[tag] = append(tagIndex[tag], doc)
		}
	}

	for kind := range byKind {
		sortCollection(byKind[kind])
	}
	for tag := range tagIndex {
		sortCollection(tagIndex[tag])
	}

	s.mu.Lock()
	s.loaded = true
	s.docs = docs
	s.byKind = byKind
	s.byRoute = byRoute
	s.tagIndex = tagIndex
	s.duplicateRoutes = duplicates
	s.mu.Unlock()

	s.logger.Info("content store loaded", "documents", len(docs), "collections", len(byKind))
	return nil
}

// annotate fills the derived Document fields: kind, slug, date fallback, and
// route.
func (s *Store) annotate(doc *interfaces.Document) {
	doc.Kind = s.kindFor(doc)
	rules := s.rulesFor(doc.Kind)

	stem := FileStem(doc.FilePath)
	slug := stem
	if date, rest, ok := SplitDatedName(stem); ok {
		slug = rest
		if rules.DateFromFilename && doc.FrontMatter.Date.IsZero() {
			doc.FrontMatter.Date = date
		}
	}
	doc.Slug = slug

	if doc.FrontMatter.Title == "" {
		doc.FrontMatter.Title = TitleFromSlug(slug)
	}

	doc.Route = s.routeFor(doc, rules)
}

// kindFor derives the collection from the top-level directory, honouring an
// explicit `collection` front-matter key.
func (s *Store) kindFor(doc *interfaces.Document) string {
	if override, ok := doc.FrontMatter.Custom["collection"].(string); ok && override != "" {
		return override
	}
	dir := path.Dir(doc.FilePath)
	if dir == "." {
		return "pages"
	}
	parts := strings.SplitN(dir, "/", 2)
	return parts[0]
}

func (s *Store) rulesFor(kind string) CollectionRules {
	if rules, ok := s.cfg.Collections[kind]; ok {
		return rules
	}
	return CollectionRules{DefaultLayout: "page"}
}

func (s *Store) routeFor(doc *interfaces.Document, rules CollectionRules) string {
	if override := doc.FrontMatter.RouteOverride(); override != "" {
		return normalizeRoute(override)
	}

	if doc.Slug == "index" {
		dir := path.Dir(doc.FilePath)
		if dir == "." {
			return "/"
		}
		return normalizeRoute("/" + dir)
	}

	prefix := rules.RoutePrefix
	if prefix == "" {
		if doc.Kind == "pages" {
			prefix = "/"
		} else {
			prefix = "/" + doc.Kind
		}
	}
	return normalizeRoute(path.Join(prefix, doc.Slug))
}

// normalizeRoute guarantees a leading slash and a trailing slash, the
// directory-style URLs the output tree uses.
func normalizeRoute(route string) string {
	route = strings.TrimSpace(route)
	if route == "" || route == "/" {
		return "/"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	if !strings.HasSuffix(route, "/") {
		// Keep file-like overrides (e.g. "/feed.xml") untouched.
		if path.Ext(route) == "" {
			route += "/"
		}
	}
	return route
}

// sortCollection orders documents date-descending where dates exist; dated
// documents come before undated ones, ties and undated runs fall back to
// path order.
func sortCollection(docs []*interfaces.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		di, dj := docs[i].FrontMatter.Date, docs[j].FrontMatter.Date
		switch {
		case !di.IsZero() && !dj.IsZero():
			if di.Equal(dj) {
				return docs[i].FilePath < docs[j].FilePath
			}
			return di.After(dj)
		case !di.IsZero():
			return true
		case !dj.IsZero():
			return false
		default:
			return docs[i].FilePath < docs[j].FilePath
		}
	})
}

// Loaded reports whether Load has completed at least once.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Documents returns every loaded document ordered by kind then collection
// order.
func (s *Store) Documents() []*interfaces.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	kinds := make([]string, 0, len(s.byKind))
	for kind := range s.byKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	out := make([]*interfaces.Document, 0, len(s.docs))
	for _, kind := range kinds {
		out = append(out, s.byKind[kind]...)
	}
	return out
}

// Collection returns the ordered documents of one kind.
func (s *Store) Collection(kind string) []*interfaces.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := s.byKind[kind]
	out := make([]*interfaces.Document, len(docs))
	copy(out, docs)
	return out
}

// Lookup resolves a route to its document. Trailing-slash differences are
// forgiven.
func (s *Store) Lookup(route string) (*interfaces.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if doc, ok := s.byRoute[route]; ok {
		return doc, true
	}
	doc, ok := s.byRoute[normalizeRoute(route)]
	return doc, ok
}

// Tags returns the tag index: tag name to ordered documents.
func (s *Store) Tags() map[string][]*interfaces.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]*interfaces.Document, len(s.tagIndex))
	for tag, docs := range s.tagIndex {
		copied := make([]*interfaces.Document, len(docs))
		copy(copied, docs)
		out[tag] = copied
	}
	return out
}

// Kinds returns the loaded collection names sorted alphabetically.
func (s *Store) Kinds() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kinds := make([]string, 0, len(s.byKind))
	for kind := range s.byKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// DuplicateRoutes lists routes claimed by more than one document during the
// last Load.
func (s *Store) DuplicateRoutes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.duplicateRoutes))
	copy(out, s.duplicateRoutes)
	return out
}

// Rules exposes the effective collection rules, used by the generator for
// default layouts.
func (s *Store) Rules(kind string) CollectionRules {
	return s.rulesFor(kind)
}

var _ interfaces.ContentStore = (*Store)(nil)
