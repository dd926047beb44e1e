package interfaces

import (
	"context"
	"time"
)

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
// Implementations should be reusable across documents so hosts can share a
// single instance without additional locking.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// Document represents a single content file (post, page, or project entry)
// with parsed metadata and body. The struct is shared between the interfaces
// package and internal implementations so consumers can depend on a stable
// contract.
type Document struct {
	// FilePath is the slash-separated path relative to the content root.
	FilePath string
	// Kind names the collection the document belongs to (posts, pages, ...).
	Kind string
	// Slug identifies the document within its collection.
	Slug string
	// Route is the site-absolute path the document renders at ("/posts/foo/").
	Route string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	// Checksum stores a SHA-256 digest of the original file content so build
	// and migration workflows can detect changes without re-reading files.
	Checksum []byte
}

// FrontMatter models the metadata header preceding a document body. Named
// fields cover the keys the bundled layouts read; everything else lands in
// Custom so unknown keys are carried, never rejected.
type FrontMatter struct {
	Title     string         `yaml:"title" json:"title"`
	Excerpt   string         `yaml:"excerpt" json:"excerpt"`
	Summary   string         `yaml:"summary" json:"summary"`
	Date      time.Time      `yaml:"date" json:"date"`
	Layout    string         `yaml:"layout" json:"layout"`
	Permalink string         `yaml:"permalink" json:"permalink"`
	URL       string         `yaml:"url" json:"url"`
	Tags      []string       `yaml:"tags" json:"tags"`
	TOC       bool           `yaml:"toc" json:"toc"`
	MathJax   bool           `yaml:"mathjax" json:"mathjax"`
	Classes   string         `yaml:"classes" json:"classes"`
	ShowTags  bool           `yaml:"showtags" json:"showtags"`
	Links     []LinkRef      `yaml:"links" json:"links"`
	Stack     []string       `yaml:"stack" json:"stack"`
	Sidebar   []SidebarNote  `yaml:"sidebar" json:"sidebar"`
	Custom    map[string]any `yaml:",inline" json:"custom"`
	// Raw merges named fields and custom keys into a single lookup map for
	// templates and schema validation.
	Raw map[string]any `yaml:"-" json:"raw"`
}

// LinkRef is one entry of a front-matter `links` block, used by project pages
// to render icon links.
type LinkRef struct {
	Icon string `yaml:"icon" json:"icon"`
	URL  string `yaml:"url" json:"url"`
}

// SidebarNote is one entry of a front-matter `sidebar` block.
type SidebarNote struct {
	Title string `yaml:"title" json:"title"`
	Text  string `yaml:"text" json:"text"`
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
	Parser    ParseOptions
}

// ContentStore exposes the read-only content collection contract consumed by
// the checker, the generator, and the CLI.
type ContentStore interface {
	Load(ctx context.Context) error
	Documents() []*Document
	Collection(kind string) []*Document
	Lookup(route string) (*Document, bool)
	Tags() map[string][]*Document
}

// RouteOverride reports the explicit route for a front-matter block: an
// explicit permalink wins over an explicit url; both win over derived routes.
func (fm FrontMatter) RouteOverride() string {
	if fm.Permalink != "" {
		return fm.Permalink
	}
	return fm.URL
}
