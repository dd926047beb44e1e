package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/inkpress/inkpress/internal/runtimeconfig"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site with watch and live reload",
	Long: `Build the site, serve the output directory over HTTP, and watch the
content, layouts, and static directories. Changes trigger a rebuild and
connected browsers reload automatically.

Examples:
  inkpress serve
  inkpress serve --addr 127.0.0.1:3000
  inkpress serve --no-reload`,
	RunE: runServe,
}

var (
	serveAddr     string
	serveNoReload bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address override")
	serveCmd.Flags().BoolVar(&serveNoReload, "no-reload", false, "disable live reload script injection")
}

func runServe(cmd *cobra.Command, args []string) error {
	module, err := newModule(func(cfg *runtimeconfig.Config) {
		cfg.Features.Serve = true
		cfg.Serve.Enabled = true
		if serveAddr != "" {
			cfg.Serve.Addr = serveAddr
		}
		if serveNoReload {
			cfg.Serve.LiveReload = false
		}
		// Dev rebuilds favour latency over pristine output.
		cfg.Build.CleanBuild = false
		cfg.Build.Incremental = true
	})
	if err != nil {
		return err
	}

	session, err := module.DevSession()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stdout, "serving on http://%s (ctrl-c to stop)\n", displayAddr(session.Addr()))
	return session.Run(ctx)
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
