// Package cli provides the inkpress command-line interface. Configuration is
// layered: command-line flags override INKPRESS_* environment variables, which
// override the inkpress.yml site configuration file, which overrides built-in
// defaults.
package cli

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	inkpress "github.com/inkpress/inkpress"
	"github.com/inkpress/inkpress/internal/runtimeconfig"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "inkpress",
	Short: "A flat-file blog and portfolio site engine",
	Long: `Inkpress turns a tree of Markdown files with YAML front-matter into a
static site: posts, pages, and project entries with layouts, tag pages,
an Atom feed, and a sitemap.

Quick start:
  inkpress new "My first post"   Scaffold a post under content/posts
  inkpress build                 Generate the site into public/
  inkpress serve                 Serve with watch and live reload
  inkpress check                 Validate front-matter, routes, and links`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default inkpress.yml)")
	rootCmd.PersistentFlags().String("content-dir", "", "content directory override")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")

	viper.BindPFlag("content.dir", rootCmd.PersistentFlags().Lookup("content-dir"))
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("inkpress")
	}

	viper.SetEnvPrefix("INKPRESS")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing config file is fine; defaults and env vars still apply.
	_ = viper.ReadInConfig()
}

// loadConfig merges the layered configuration into the runtime config.
func loadConfig() (runtimeconfig.Config, error) {
	cfg := runtimeconfig.DefaultConfig()
	if err := viper.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		// Runtime config carries yaml tags so the same struct reads both the
		// site file and viper's merged settings.
		dc.TagName = "yaml"
	}); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newModule builds the module from the layered configuration. Mutators adjust
// the config before wiring, e.g. enabling the dev server for `serve`.
func newModule(mutators ...func(*runtimeconfig.Config)) (*inkpress.Module, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	// The CLI always logs; library consumers opt in instead.
	cfg.Features.Logger = true
	for _, mutate := range mutators {
		mutate(&cfg)
	}
	return inkpress.New(cfg)
}
