package content

import (
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeSlug applies the default slug normalization rules.
func NormalizeSlug(value string) (string, error) {
	return slug.Normalize(value)
}

// IsValidSlug reports whether the slug matches the default rules.
func IsValidSlug(value string) bool {
	return slug.IsValid(value)
}

const datedNameLayout = "2006-01-02"

// SplitDatedName parses a `YYYY-MM-DD-title` file stem. It returns the
// embedded date and the remaining slug, or ok=false when the stem carries no
// date prefix.
func SplitDatedName(stem string) (time.Time, string, bool) {
	if len(stem) < len(datedNameLayout)+2 {
		return time.Time{}, "", false
	}
	prefix := stem[:len(datedNameLayout)]
	if stem[len(datedNameLayout)] != '-' {
		return time.Time{}, "", false
	}
	date, err := time.Parse(datedNameLayout, prefix)
	if err != nil {
		return time.Time{}, "", false
	}
	rest := stem[len(datedNameLayout)+1:]
	if rest == "" {
		return time.Time{}, "", false
	}
	return date, rest, true
}

// FileStem strips the directory and extension from a content path.
func FileStem(filePath string) string {
	base := path.Base(filePath)
	return strings.TrimSuffix(base, path.Ext(base))
}

var titleCaser = cases.Title(language.English)

// TitleFromSlug produces a human-readable fallback title from a slug when the
// front-matter carries none.
func TitleFromSlug(value string) string {
	cleaned := strings.NewReplacer("-", " ", "_", " ").Replace(value)
	return titleCaser.String(cleaned)
}
