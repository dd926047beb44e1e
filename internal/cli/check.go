package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inkpress/inkpress/internal/check"
	sitecmd "github.com/inkpress/inkpress/internal/commands/site"
	"github.com/inkpress/inkpress/internal/logging"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate front-matter, routes, links, and layouts",
	Long: `Walk the content tree and report integrity problems: malformed or
missing front-matter, duplicate keys, invalid route overrides, duplicate
routes, broken internal links, unknown layouts, and schema violations.

The command exits non-zero when any error-severity issue is found.`,
	RunE: runCheck,
}

var checkFailOnWarnings bool

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkFailOnWarnings, "fail-on-warnings", false, "treat warnings as failures")
}

func runCheck(cmd *cobra.Command, args []string) error {
	module, err := newModule()
	if err != nil {
		return err
	}
	checker := module.Checker()
	if checker == nil {
		return errors.New("checker feature is disabled in configuration")
	}

	var report *check.Report
	handler := sitecmd.NewCheckSiteHandler(
		checker,
		logging.CheckLogger(module.LoggerProvider()),
		func(r *check.Report) { report = r },
	)

	execErr := handler.Execute(cmd.Context(), sitecmd.CheckSiteCommand{
		FailOnWarnings: checkFailOnWarnings,
	})

	printReport(report)
	if execErr != nil {
		return execErr
	}
	return nil
}

func printReport(report *check.Report) {
	if report == nil {
		return
	}
	for _, issue := range report.Issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s: %s\n", issue.Severity, issue.Path, issue.Rule, issue.Detail)
	}
	fmt.Fprintf(os.Stdout, "%d documents checked, %d errors, %d warnings\n",
		report.Documents, len(report.Errors()), len(report.Issues)-len(report.Errors()))
}
