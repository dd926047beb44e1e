package check

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Severity ranks an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding against one document.
type Issue struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Detail   string   `json:"detail"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s [%s] %s: %s", i.Severity, i.Rule, i.Path, i.Detail)
}

// Report collects the findings of one check run.
type Report struct {
	ID          uuid.UUID `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Documents   int       `json:"documents"`
	Issues      []Issue   `json:"issues"`
}

// NewReport creates an empty report stamped with a fresh run identifier.
func NewReport() *Report {
	return &Report{
		ID:          uuid.New(),
		GeneratedAt: time.Now().UTC(),
	}
}

// Add records a finding.
func (r *Report) Add(rule string, severity Severity, path, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Rule:     rule,
		Severity: severity,
		Path:     path,
		Detail:   fmt.Sprintf(format, args...),
	})
}

// Errors returns only the error-severity findings.
func (r *Report) Errors() []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			out = append(out, issue)
		}
	}
	return out
}

// HasErrors reports whether any finding is error severity.
func (r *Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ByRule groups findings by rule name.
func (r *Report) ByRule() map[string][]Issue {
	out := map[string][]Issue{}
	for _, issue := range r.Issues {
		out[issue.Rule] = append(out[issue.Rule], issue)
	}
	return out
}
