package generator

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"
)

type sitemapEntry struct {
	Location string
	LastMod  time.Time
}

// buildSitemap renders sitemap.xml content for the given routes. Entries are
// de-duplicated and sorted so output is deterministic.
func buildSitemap(baseURL string, entries []sitemapEntry, fallback time.Time) string {
	seen := map[string]struct{}{}
	unique := make([]sitemapEntry, 0, len(entries))
	for _, entry := range entries {
		location := absoluteURL(baseURL, entry.Location)
		if _, ok := seen[location]; ok {
			continue
		}
		seen[location] = struct{}{}
		lastMod := entry.LastMod
		if lastMod.IsZero() {
			lastMod = fallback
		}
		unique = append(unique, sitemapEntry{Location: location, LastMod: lastMod})
	}

	sort.Slice(unique, func(i, j int) bool {
		return unique[i].Location < unique[j].Location
	})

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, entry := range unique {
		builder.WriteString("  <url>\n")
		builder.WriteString(fmt.Sprintf("    <loc>%s</loc>\n", html.EscapeString(entry.Location)))
		if !entry.LastMod.IsZero() {
			builder.WriteString(fmt.Sprintf("    <lastmod>%s</lastmod>\n", entry.LastMod.UTC().Format(time.RFC3339)))
		}
		builder.WriteString("  </url>\n")
	}
	builder.WriteString("</urlset>\n")
	return builder.String()
}

// buildRobots renders robots.txt pointing crawlers at the sitemap.
func buildRobots(baseURL string) string {
	var builder strings.Builder
	builder.WriteString("User-agent: *\n")
	builder.WriteString("Allow: /\n")
	builder.WriteString(fmt.Sprintf("Sitemap: %s\n", absoluteURL(baseURL, "/sitemap.xml")))
	return builder.String()
}
