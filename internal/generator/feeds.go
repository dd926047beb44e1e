package generator

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/inkpress/inkpress/pkg/interfaces"
)

const (
	feedFileName = "feed.xml"
	maxFeedItems = 50
)

type feedItem struct {
	Title     string
	Summary   string
	Link      string
	ID        string
	Updated   time.Time
	Published time.Time
}

// buildFeedItems projects the posts collection into feed entries, newest
// first, capped at maxFeedItems.
func buildFeedItems(site SiteMetadata, posts []*interfaces.Document, generatedAt time.Time) []feedItem {
	items := make([]feedItem, 0, len(posts))
	for _, doc := range posts {
		if len(items) >= maxFeedItems {
			break
		}
		link := absoluteURL(site.BaseURL, doc.Route)

		published := doc.FrontMatter.Date
		if published.IsZero() {
			published = doc.LastModified
		}
		if published.IsZero() {
			published = generatedAt
		}
		updated := doc.LastModified
		if updated.IsZero() {
			updated = published
		}

		summary := doc.FrontMatter.Excerpt
		if summary == "" {
			summary = doc.FrontMatter.Summary
		}

		items = append(items, feedItem{
			Title:     doc.FrontMatter.Title,
			Summary:   summary,
			Link:      link,
			ID:        link,
			Updated:   updated,
			Published: published,
		})
	}
	return items
}

// buildAtomFeed renders an Atom document for the site's posts.
func buildAtomFeed(site SiteMetadata, items []feedItem, generatedAt time.Time) string {
	updated := generatedAt
	if len(items) > 0 && !items[0].Updated.IsZero() {
		updated = items[0].Updated
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	builder.WriteString(`<feed xmlns="http://www.w3.org/2005/Atom">` + "\n")
	builder.WriteString(fmt.Sprintf("  <title>%s</title>\n", html.EscapeString(site.Title)))
	if site.Description != "" {
		builder.WriteString(fmt.Sprintf("  <subtitle>%s</subtitle>\n", html.EscapeString(site.Description)))
	}
	builder.WriteString(fmt.Sprintf("  <id>%s</id>\n", html.EscapeString(absoluteURL(site.BaseURL, "/"))))
	builder.WriteString(fmt.Sprintf(`  <link href=%q/>`+"\n", absoluteURL(site.BaseURL, "/")))
	builder.WriteString(fmt.Sprintf(`  <link href=%q rel="self"/>`+"\n", absoluteURL(site.BaseURL, "/"+feedFileName)))
	builder.WriteString(fmt.Sprintf("  <updated>%s</updated>\n", updated.UTC().Format(time.RFC3339)))
	if site.Author != "" {
		builder.WriteString("  <author>\n")
		builder.WriteString(fmt.Sprintf("    <name>%s</name>\n", html.EscapeString(site.Author)))
		builder.WriteString("  </author>\n")
	}

	for _, item := range items {
		builder.WriteString("  <entry>\n")
		builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(item.Title)))
		builder.WriteString(fmt.Sprintf("    <id>%s</id>\n", html.EscapeString(item.ID)))
		builder.WriteString(fmt.Sprintf(`    <link href=%q/>`+"\n", item.Link))
		builder.WriteString(fmt.Sprintf("    <published>%s</published>\n", item.Published.UTC().Format(time.RFC3339)))
		builder.WriteString(fmt.Sprintf("    <updated>%s</updated>\n", item.Updated.UTC().Format(time.RFC3339)))
		if item.Summary != "" {
			builder.WriteString(fmt.Sprintf(`    <summary type="text">%s</summary>`+"\n", html.EscapeString(item.Summary)))
		}
		builder.WriteString("  </entry>\n")
	}

	builder.WriteString("</feed>\n")
	return builder.String()
}
