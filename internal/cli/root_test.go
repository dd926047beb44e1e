package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadConfigDefaults(t *testing.T) {
	resetViper(t)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Content.Dir != "content" {
		t.Fatalf("expected default content dir, got %q", cfg.Content.Dir)
	}
	if cfg.Build.OutputDir != "public" {
		t.Fatalf("expected default output dir, got %q", cfg.Build.OutputDir)
	}
	if !cfg.Build.GenerateFeed {
		t.Fatal("expected feed generation enabled by default")
	}
}

func TestLoadConfigReadsSiteFile(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	configPath := filepath.Join(dir, "inkpress.yml")
	site := `site:
  title: Field Notes
  base_url: https://example.com
build:
  output_dir: dist
  incremental: true
serve:
  debounce: 500ms
`
	if err := os.WriteFile(configPath, []byte(site), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	viper.SetConfigFile(configPath)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("read config: %v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Site.Title != "Field Notes" {
		t.Fatalf("expected site title from file, got %q", cfg.Site.Title)
	}
	if cfg.Build.OutputDir != "dist" {
		t.Fatalf("expected output dir from file, got %q", cfg.Build.OutputDir)
	}
	if !cfg.Build.Incremental {
		t.Fatal("expected incremental from file")
	}
	if cfg.Serve.Debounce != 500*time.Millisecond {
		t.Fatalf("expected debounce parsed as duration, got %v", cfg.Serve.Debounce)
	}
	// Values the file does not mention keep their defaults.
	if cfg.Content.Dir != "content" {
		t.Fatalf("expected default content dir, got %q", cfg.Content.Dir)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	resetViper(t)

	t.Setenv("INKPRESS_SITE_TITLE", "From Env")
	viper.BindEnv("site.title", "INKPRESS_SITE_TITLE")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Site.Title != "From Env" {
		t.Fatalf("expected env override, got %q", cfg.Site.Title)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	expected := []string{"build", "check", "migrate", "new", "preview", "serve"}
	for _, name := range expected {
		found := false
		for _, command := range rootCmd.Commands() {
			if command.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected %q subcommand to be registered", name)
		}
	}
}
