package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	sitecmd "github.com/inkpress/inkpress/internal/commands/site"
	"github.com/inkpress/inkpress/internal/logging"
	"github.com/inkpress/inkpress/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <source> <target>",
	Short: "Import an existing content tree, normalizing front-matter",
	Long: `Copy Markdown files from a source tree into a target tree, rewriting
each document through the front-matter codec so the result is normalized and
stable: migrating a second time produces byte-identical output.

Files without front-matter are carried over verbatim.

Examples:
  inkpress migrate ../old-blog/content content
  inkpress migrate ../old-blog/content content --dry-run
  inkpress migrate ../old-blog/content content --overwrite`,
	Args: cobra.ExactArgs(2),
	RunE: runMigrate,
}

var (
	migrateDryRun    bool
	migrateOverwrite bool
)

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "report without writing files")
	migrateCmd.Flags().BoolVar(&migrateOverwrite, "overwrite", false, "replace files already present in the target")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	module, err := newModule()
	if err != nil {
		return err
	}

	var result *migrate.Result
	handler := sitecmd.NewMigrateContentHandler(
		logging.MigrateLogger(module.LoggerProvider()),
		func(r *migrate.Result) { result = r },
	)

	if err := handler.Execute(cmd.Context(), sitecmd.MigrateContentCommand{
		Source:    args[0],
		Target:    args[1],
		DryRun:    migrateDryRun,
		Overwrite: migrateOverwrite,
	}); err != nil {
		return err
	}

	if result != nil {
		suffix := ""
		if result.DryRun {
			suffix = " (dry run)"
		}
		fmt.Fprintf(os.Stdout, "%d migrated, %d skipped, %d errors%s\n",
			len(result.Migrated), len(result.Skipped), len(result.Errors), suffix)
	}
	return nil
}
