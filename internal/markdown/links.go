package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// LinkKind distinguishes the Markdown construct a reference came from.
type LinkKind string

const (
	LinkKindLink     LinkKind = "link"
	LinkKindImage    LinkKind = "image"
	LinkKindAutoLink LinkKind = "autolink"
)

// Link is a single outgoing reference found in a Markdown body.
type Link struct {
	Destination string
	Kind        LinkKind
}

// ExtractLinks parses the Markdown body and returns every link, image, and
// autolink destination in document order.
func ExtractLinks(body []byte) ([]Link, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Footnote))
	root := md.Parser().Parse(text.NewReader(body))

	var links []Link
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			links = append(links, Link{Destination: string(node.Destination), Kind: LinkKindLink})
		case *ast.Image:
			links = append(links, Link{Destination: string(node.Destination), Kind: LinkKindImage})
		case *ast.AutoLink:
			links = append(links, Link{Destination: string(node.URL(body)), Kind: LinkKindAutoLink})
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("markdown links: %w", err)
	}

	return links, nil
}

// IsInternal reports whether the destination refers to a document or asset
// within the site rather than an external resource.
func (l Link) IsInternal() bool {
	dest := strings.TrimSpace(l.Destination)
	if dest == "" {
		return false
	}
	if strings.HasPrefix(dest, "#") {
		return false
	}
	if strings.HasPrefix(dest, "//") {
		return false
	}
	if strings.Contains(dest, "://") {
		return false
	}
	if strings.HasPrefix(dest, "mailto:") || strings.HasPrefix(dest, "tel:") {
		return false
	}
	return true
}

// Scheme returns the URL scheme of an external destination, lowercased, or ""
// for internal references. Scheme-relative destinations report "//".
func (l Link) Scheme() string {
	dest := strings.TrimSpace(l.Destination)
	if strings.HasPrefix(dest, "//") {
		return "//"
	}
	idx := strings.Index(dest, ":")
	if idx <= 0 {
		return ""
	}
	candidate := dest[:idx]
	for i, r := range candidate {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return ""
		}
	}
	return strings.ToLower(candidate)
}

// NormalizeInternal strips any fragment or query component and returns the
// path portion of an internal destination.
func (l Link) NormalizeInternal() string {
	dest := l.Destination
	if idx := strings.IndexAny(dest, "#?"); idx >= 0 {
		dest = dest[:idx]
	}
	return dest
}
