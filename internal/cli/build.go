package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	sitecmd "github.com/inkpress/inkpress/internal/commands/site"
	"github.com/inkpress/inkpress/internal/generator"
	"github.com/inkpress/inkpress/internal/logging"
	"github.com/inkpress/inkpress/internal/runtimeconfig"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the static site",
	Long: `Generate the static site from the content tree into the output
directory, including tag pages, the sitemap, robots.txt, and the Atom feed.

Examples:
  inkpress build
  inkpress build --output dist --clean
  inkpress build --incremental
  inkpress build --dry-run --route /posts/hello-world/`,
	RunE: runBuild,
}

var (
	buildOutput      string
	buildClean       bool
	buildIncremental bool
	buildDryRun      bool
	buildRoutes      []string
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output directory override")
	buildCmd.Flags().BoolVar(&buildClean, "clean", false, "remove the output directory before building")
	buildCmd.Flags().BoolVar(&buildIncremental, "incremental", false, "skip pages whose source is unchanged")
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "render without writing files")
	buildCmd.Flags().StringArrayVar(&buildRoutes, "route", nil, "limit the build to the given routes (repeatable)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	module, err := newModule(func(cfg *runtimeconfig.Config) {
		if buildOutput != "" {
			cfg.Build.OutputDir = buildOutput
		}
		if buildClean {
			cfg.Build.CleanBuild = true
		}
		if buildIncremental {
			cfg.Build.Incremental = true
			cfg.Build.CleanBuild = false
		}
	})
	if err != nil {
		return err
	}

	var result *generator.BuildResult
	handler := sitecmd.NewBuildSiteHandler(
		module.Generator(),
		logging.BuildLogger(module.LoggerProvider()),
		func(r *generator.BuildResult) { result = r },
	)

	if err := handler.Execute(cmd.Context(), sitecmd.BuildSiteCommand{
		Routes: buildRoutes,
		DryRun: buildDryRun,
	}); err != nil {
		return err
	}

	printBuildResult(result)
	return nil
}

func printBuildResult(result *generator.BuildResult) {
	if result == nil {
		return
	}
	verb := "built"
	if result.DryRun {
		verb = "rendered (dry run)"
	}
	fmt.Fprintf(os.Stdout, "%d pages %s, %d skipped, %d assets copied in %s\n",
		result.PagesBuilt, verb, result.PagesSkipped, result.AssetsBuilt,
		result.Duration.Round(time.Millisecond))
}
