package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/inkpress/inkpress/internal/markdown"
)

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Render a document in the terminal",
	Long: `Parse a Markdown file and render its body in the terminal, with the
parsed front-matter printed as a header.

Examples:
  inkpress preview content/posts/2024-03-10-first-post.md
  inkpress preview drafts/idea.md --raw
  inkpress preview content/about.md --width 100`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

var (
	previewRaw   bool
	previewWidth int
	previewStyle string
)

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().BoolVar(&previewRaw, "raw", false, "print the markdown body without terminal styling")
	previewCmd.Flags().IntVar(&previewWidth, "width", 80, "word wrap width")
	previewCmd.Flags().StringVar(&previewStyle, "style", "", "glamour style (dark, light, notty; default auto)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	meta, body, err := markdown.ParseFrontMatter(source)
	if err != nil {
		return fmt.Errorf("parse front-matter: %w", err)
	}

	printMeta(meta.Raw)

	if previewRaw {
		fmt.Fprintln(os.Stdout, string(body))
		return nil
	}

	styleOption := glamour.WithAutoStyle()
	if previewStyle != "" {
		styleOption = glamour.WithStandardStyle(previewStyle)
	}
	renderer, err := glamour.NewTermRenderer(
		styleOption,
		glamour.WithWordWrap(previewWidth),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	rendered, err := renderer.Render(string(body))
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	fmt.Fprint(os.Stdout, rendered)
	return nil
}

func printMeta(raw map[string]any) {
	if len(raw) == 0 {
		return
	}
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(os.Stdout, "%s: %v\n", key, raw[key])
	}
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 40))
}
