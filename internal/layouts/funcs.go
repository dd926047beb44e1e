package layouts

import (
	"html/template"
	"strings"
	"time"
)

// defaultFuncs returns the function map available to every layout.
func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time, layout string) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(layout)
		},
		"isoDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
		"joinClasses": func(classes ...string) string {
			var kept []string
			for _, c := range classes {
				if c = strings.TrimSpace(c); c != "" {
					kept = append(kept, c)
				}
			}
			return strings.Join(kept, " ")
		},
		"lower": strings.ToLower,
		"trim":  strings.TrimSpace,
	}
}
