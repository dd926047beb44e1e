package sitecmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	buildSiteMessageType      = "inkpress.site.build"
	checkSiteMessageType      = "inkpress.site.check"
	migrateContentMessageType = "inkpress.site.migrate"
	newDocumentMessageType    = "inkpress.site.new_document"
)

// BuildSiteCommand triggers a static site build.
type BuildSiteCommand struct {
	// Routes narrows the build to the named routes; empty builds everything.
	Routes []string `json:"routes,omitempty"`
	// DryRun renders without writing the output tree.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate implements command.Message validation; builds carry no required
// input.
func (cmd BuildSiteCommand) Validate() error { return nil }

// CheckSiteCommand runs the content integrity rules.
type CheckSiteCommand struct {
	// FailOnWarnings escalates warning findings to failures.
	FailOnWarnings bool `json:"fail_on_warnings,omitempty"`
}

// Type implements command.Message.
func (CheckSiteCommand) Type() string { return checkSiteMessageType }

// Validate implements command.Message validation.
func (cmd CheckSiteCommand) Validate() error { return nil }

// MigrateContentCommand copies a content tree into the configured store,
// normalizing front-matter on the way.
type MigrateContentCommand struct {
	// Source selects the directory to migrate from.
	Source string `json:"source"`
	// Target selects the directory to migrate into.
	Target string `json:"target"`
	// DryRun previews the migration without writing files.
	DryRun bool `json:"dry_run,omitempty"`
	// Overwrite replaces files already present in the target tree.
	Overwrite bool `json:"overwrite,omitempty"`
}

// Type implements command.Message.
func (MigrateContentCommand) Type() string { return migrateContentMessageType }

// Validate ensures both trees are named before handlers execute.
func (cmd MigrateContentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Source, validation.Required, validation.By(requireNonBlank("inkpress.site.migrate.source_required", "source is required"))),
		validation.Field(&cmd.Target, validation.Required, validation.By(requireNonBlank("inkpress.site.migrate.target_required", "target is required"))),
	)
}

// NewDocumentCommand scaffolds a content file.
type NewDocumentCommand struct {
	// Title is the human title; the filename slug derives from it.
	Title string `json:"title"`
	// Kind selects the collection ("post" or a page collection; empty means a
	// root-level page).
	Kind string `json:"kind,omitempty"`
}

// Type implements command.Message.
func (NewDocumentCommand) Type() string { return newDocumentMessageType }

// Validate ensures a title is present before handlers execute.
func (cmd NewDocumentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Title, validation.Required, validation.By(requireNonBlank("inkpress.site.new_document.title_required", "title is required"))),
	)
}

func requireNonBlank(code, message string) func(value any) error {
	return func(value any) error {
		if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
