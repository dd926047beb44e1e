package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/inkpress/inkpress/pkg/interfaces"
)

// ParseFrontMatter extracts metadata and Markdown body content from the
// provided source bytes. It returns the structured front-matter, the Markdown
// body without delimiters, and any error encountered. Unknown keys are kept in
// the Custom map, never rejected: different layouts read different optional
// keys.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

// BuildDocument assembles an interfaces.Document from the supplied file path,
// raw content, and modification time. BodyHTML is intentionally left empty so
// callers can render lazily.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		FilePath:     path,
		FrontMatter:  meta,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title     string                   `yaml:"title"`
	Excerpt   string                   `yaml:"excerpt"`
	Summary   string                   `yaml:"summary"`
	Date      *time.Time               `yaml:"date"`
	Layout    string                   `yaml:"layout"`
	Permalink string                   `yaml:"permalink"`
	URL       string                   `yaml:"url"`
	Tags      []string                 `yaml:"tags"`
	TOC       bool                     `yaml:"toc"`
	MathJax   bool                     `yaml:"mathjax"`
	Classes   string                   `yaml:"classes"`
	ShowTags  bool                     `yaml:"showtags"`
	Links     []interfaces.LinkRef     `yaml:"links"`
	Stack     []string                 `yaml:"stack"`
	Sidebar   []interfaces.SidebarNote `yaml:"sidebar"`
	Custom    map[string]any           `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	if env.Custom == nil {
		env.Custom = map[string]any{}
	}

	raw := make(map[string]any, len(env.Custom)+12)
	for key, value := range env.Custom {
		raw[key] = value
	}

	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Excerpt != "" {
		raw["excerpt"] = env.Excerpt
	}
	if env.Summary != "" {
		raw["summary"] = env.Summary
	}
	if env.Date != nil && !env.Date.IsZero() {
		raw["date"] = *env.Date
	}
	if env.Layout != "" {
		raw["layout"] = env.Layout
	}
	if env.Permalink != "" {
		raw["permalink"] = env.Permalink
	}
	if env.URL != "" {
		raw["url"] = env.URL
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	if env.TOC {
		raw["toc"] = true
	}
	if env.MathJax {
		raw["mathjax"] = true
	}
	if env.Classes != "" {
		raw["classes"] = env.Classes
	}
	if env.ShowTags {
		raw["showtags"] = true
	}
	if len(env.Links) > 0 {
		raw["links"] = append([]interfaces.LinkRef(nil), env.Links...)
	}
	if len(env.Stack) > 0 {
		raw["stack"] = append([]string(nil), env.Stack...)
	}
	if len(env.Sidebar) > 0 {
		raw["sidebar"] = append([]interfaces.SidebarNote(nil), env.Sidebar...)
	}

	var date time.Time
	if env.Date != nil {
		date = *env.Date
	}

	return interfaces.FrontMatter{
		Title:     env.Title,
		Excerpt:   env.Excerpt,
		Summary:   env.Summary,
		Date:      date,
		Layout:    env.Layout,
		Permalink: env.Permalink,
		URL:       env.URL,
		Tags:      append([]string(nil), env.Tags...),
		TOC:       env.TOC,
		MathJax:   env.MathJax,
		Classes:   env.Classes,
		ShowTags:  env.ShowTags,
		Links:     append([]interfaces.LinkRef(nil), env.Links...),
		Stack:     append([]string(nil), env.Stack...),
		Sidebar:   append([]interfaces.SidebarNote(nil), env.Sidebar...),
		Custom:    cloneMap(env.Custom),
		Raw:       raw,
	}
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
