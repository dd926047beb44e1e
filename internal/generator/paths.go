package generator

import (
	"path"
	"strings"
)

// outputPath maps a route to its file inside the output tree. Directory-style
// routes become `<route>/index.html`; routes with an extension map straight to
// the file.
func outputPath(route string) string {
	route = strings.TrimSpace(route)
	if route == "" || route == "/" {
		return "index.html"
	}
	trimmed := strings.Trim(route, "/")
	if path.Ext(trimmed) != "" {
		return trimmed
	}
	return path.Join(trimmed, "index.html")
}

// absoluteURL joins the site base URL with a route.
func absoluteURL(baseURL, route string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if route == "" {
		route = "/"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return base + route
}

// tagRoute is the route a tag archive page renders at.
func tagRoute(tag string) string {
	return "/tags/" + strings.ToLower(strings.ReplaceAll(strings.TrimSpace(tag), " ", "-")) + "/"
}
