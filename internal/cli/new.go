package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	sitecmd "github.com/inkpress/inkpress/internal/commands/site"
	"github.com/inkpress/inkpress/internal/content"
	"github.com/inkpress/inkpress/internal/logging"
)

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Scaffold a new document",
	Long: `Create a new content file with front-matter derived from the title.
Posts get a dated filename under the posts collection; other kinds become
pages in their collection directory.

Examples:
  inkpress new "Shipping my side project"           # post (default)
  inkpress new "About" --kind page                  # root-level page
  inkpress new "Terrain renderer" --kind projects   # collection entry`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

var newKind string

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().StringVarP(&newKind, "kind", "k", "post", "document kind (post, page, or a collection name)")
}

func runNew(cmd *cobra.Command, args []string) error {
	module, err := newModule()
	if err != nil {
		return err
	}

	kind := newKind
	if kind == "page" {
		kind = ""
	}

	var result *content.ScaffoldResult
	handler := sitecmd.NewNewDocumentHandler(
		module.Scaffolder(),
		logging.ContentLogger(module.LoggerProvider()),
		func(r *content.ScaffoldResult) { result = r },
	)

	if err := handler.Execute(cmd.Context(), sitecmd.NewDocumentCommand{
		Title: args[0],
		Kind:  kind,
	}); err != nil {
		return err
	}

	if result != nil {
		fmt.Fprintf(os.Stdout, "created %s\n", result.Path)
	}
	return nil
}
