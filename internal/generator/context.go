package generator

import (
	"html/template"
	"time"

	"github.com/google/uuid"

	"github.com/inkpress/inkpress/pkg/interfaces"
)

// SiteMetadata carries site-wide values exposed to every template.
type SiteMetadata struct {
	Title       string
	Description string
	Author      string
	BaseURL     string
}

// BuildInfo identifies one generator run.
type BuildInfo struct {
	ID          uuid.UUID
	GeneratedAt time.Time
	DryRun      bool
}

// PageContext is the per-document view handed to layouts.
type PageContext struct {
	Title    string
	Excerpt  string
	Summary  string
	Date     time.Time
	Route    string
	URL      string
	Tags     []string
	TOC      bool
	MathJax  bool
	Classes  string
	ShowTags bool
	Links    []interfaces.LinkRef
	Stack    []string
	Sidebar  []interfaces.SidebarNote
	Custom   map[string]any
	Content  template.HTML
}

// TemplateContext is the root object layouts execute against.
type TemplateContext struct {
	Site        SiteMetadata
	Page        PageContext
	Collections map[string][]PageContext
	Tags        []string
	Build       BuildInfo
}

// pageContext projects a rendered document into its template view.
func pageContext(site SiteMetadata, doc *interfaces.Document, content []byte) PageContext {
	fm := doc.FrontMatter
	return PageContext{
		Title:    fm.Title,
		Excerpt:  fm.Excerpt,
		Summary:  fm.Summary,
		Date:     fm.Date,
		Route:    doc.Route,
		URL:      absoluteURL(site.BaseURL, doc.Route),
		Tags:     fm.Tags,
		TOC:      fm.TOC,
		MathJax:  fm.MathJax,
		Classes:  fm.Classes,
		ShowTags: fm.ShowTags,
		Links:    fm.Links,
		Stack:    fm.Stack,
		Sidebar:  fm.Sidebar,
		Custom:   fm.Custom,
		Content:  template.HTML(content),
	}
}
