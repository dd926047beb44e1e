package generator

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"

	"github.com/inkpress/inkpress/internal/layouts"
	"github.com/inkpress/inkpress/pkg/interfaces"
)

// tagLayoutName is the layout used for tag archive pages when defined.
const tagLayoutName = "tag"

// fallbackTagTemplate renders a plain archive list when the site defines no
// tag layout.
var fallbackTagTemplate = template.Must(template.New("tag").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Page.Title}} | {{.Site.Title}}</title></head>
<body>
<h1>{{.Page.Title}}</h1>
<ul>
{{range .Collections.tagged}}<li><a href="{{.Route}}">{{.Title}}</a></li>
{{end}}</ul>
</body>
</html>
`))

// tagPage describes one tag archive to emit.
type tagPage struct {
	Tag    string
	Route  string
	Output string
	Docs   []*interfaces.Document
}

// collectTagPages builds the archive page list from the store's tag index,
// sorted by tag for deterministic output.
func collectTagPages(tags map[string][]*interfaces.Document) []tagPage {
	pages := make([]tagPage, 0, len(tags))
	for tag, docs := range tags {
		route := tagRoute(tag)
		pages = append(pages, tagPage{
			Tag:    tag,
			Route:  route,
			Output: outputPath(route),
			Docs:   docs,
		})
	}
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Tag < pages[j].Tag
	})
	return pages
}

// renderTagPage renders one archive through the site's tag layout, or the
// builtin fallback when none is defined.
func renderTagPage(registry *layouts.Registry, site SiteMetadata, build BuildInfo, page tagPage) ([]byte, error) {
	members := make([]PageContext, 0, len(page.Docs))
	for _, doc := range page.Docs {
		members = append(members, pageContext(site, doc, doc.BodyHTML))
	}

	ctx := TemplateContext{
		Site: site,
		Page: PageContext{
			Title: page.Tag,
			Route: page.Route,
			URL:   absoluteURL(site.BaseURL, page.Route),
		},
		Collections: map[string][]PageContext{"tagged": members},
		Build:       build,
	}

	tmpl := fallbackTagTemplate
	if registry != nil && registry.Has(tagLayoutName) {
		resolved, err := registry.Resolve(tagLayoutName, "")
		if err != nil {
			return nil, err
		}
		tmpl = resolved
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return nil, fmt.Errorf("generator: render tag %q: %w", page.Tag, err)
	}
	return buf.Bytes(), nil
}
