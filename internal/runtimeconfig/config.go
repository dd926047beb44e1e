package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrSiteBaseURLInvalid = errors.New("inkpress config: site base URL must start with http:// or https://")
var ErrContentDirRequired = errors.New("inkpress config: content directory is required")
var ErrLayoutsDirRequired = errors.New("inkpress config: layouts directory is required")
var ErrBuildOutputDirRequired = errors.New("inkpress config: build output directory is required when the generator is enabled")
var ErrCollectionRouteInvalid = errors.New("inkpress config: collection route prefix must start with /")
var ErrServeAddrRequired = errors.New("inkpress config: serve address is required when the dev server is enabled")
var ErrLoggingProviderRequired = errors.New("inkpress config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("inkpress config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("inkpress config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("inkpress config: logging format is invalid")

// Config aggregates feature flags and subsystem options for the inkpress
// runtime. Fields intentionally use simple types so host applications and the
// YAML site config can populate them without adapters.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Content  ContentConfig  `yaml:"content"`
	Layouts  LayoutsConfig  `yaml:"layouts"`
	Build    BuildConfig    `yaml:"build"`
	Check    CheckConfig    `yaml:"check"`
	Serve    ServeConfig    `yaml:"serve"`
	Logging  LoggingConfig  `yaml:"logging"`
	Features Features       `yaml:"features"`
}

// SiteConfig carries site-wide metadata injected into every template context.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	BaseURL     string `yaml:"base_url"`
	Language    string `yaml:"language"`
}

// ContentConfig captures filesystem behaviour for content discovery.
type ContentConfig struct {
	Dir         string                      `yaml:"dir"`
	Pattern     string                      `yaml:"pattern"`
	Recursive   bool                        `yaml:"recursive"`
	Collections map[string]CollectionConfig `yaml:"collections"`
	Parser      ParserConfig                `yaml:"parser"`
}

// CollectionConfig overrides per-collection behaviour. The map key is the
// collection kind, which defaults to the top-level directory name.
type CollectionConfig struct {
	// Layout names the default layout applied when front-matter omits one.
	Layout string `yaml:"layout"`
	// RoutePrefix overrides the derived route prefix ("/posts").
	RoutePrefix string `yaml:"route_prefix"`
	// DateFromFilename enables the YYYY-MM-DD-slug.md fallback.
	DateFromFilename bool `yaml:"date_from_filename"`
	// Feed includes the collection in the generated Atom feed.
	Feed bool `yaml:"feed"`
}

// ParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type ParserConfig struct {
	Extensions []string `yaml:"extensions"`
	Sanitize   bool     `yaml:"sanitize"`
	HardWraps  bool     `yaml:"hard_wraps"`
	SafeMode   bool     `yaml:"safe_mode"`
}

// LayoutsConfig captures template discovery behaviour.
type LayoutsConfig struct {
	Dir     string `yaml:"dir"`
	Base    string `yaml:"base"`
	Default string `yaml:"default"`
}

// BuildConfig captures behaviour for the static site generator.
type BuildConfig struct {
	Enabled         bool          `yaml:"enabled"`
	OutputDir       string        `yaml:"output_dir"`
	StaticDir       string        `yaml:"static_dir"`
	CleanBuild      bool          `yaml:"clean_build"`
	Incremental     bool          `yaml:"incremental"`
	CopyAssets      bool          `yaml:"copy_assets"`
	GenerateSitemap bool          `yaml:"generate_sitemap"`
	GenerateRobots  bool          `yaml:"generate_robots"`
	GenerateFeed    bool          `yaml:"generate_feed"`
	TagPages        bool          `yaml:"tag_pages"`
	Workers         int           `yaml:"workers"`
	RenderTimeout   time.Duration `yaml:"render_timeout"`
}

// CheckConfig captures behaviour for the content integrity checker.
type CheckConfig struct {
	// SchemaDir holds optional per-collection front-matter JSON schemas
	// (<kind>.schema.json). Empty disables schema validation.
	SchemaDir string `yaml:"schema_dir"`
	// ExternalSchemes lists URL schemes treated as resolvable without lookup.
	ExternalSchemes []string `yaml:"external_schemes"`
	// RoundTrip enables the migration idempotence check.
	RoundTrip bool `yaml:"round_trip"`
}

// ServeConfig captures dev server behaviour.
type ServeConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Addr       string        `yaml:"addr"`
	LiveReload bool          `yaml:"live_reload"`
	Debounce   time.Duration `yaml:"debounce"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// Features toggles module functionality.
type Features struct {
	Generator bool `yaml:"generator"`
	Checker   bool `yaml:"checker"`
	Serve     bool `yaml:"serve"`
	Logger    bool `yaml:"logger"`
}

// DefaultConfig returns opinionated defaults matching a conventional blog
// repository layout: ./content, ./layouts, ./static, output under ./public.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			Title:    "Untitled Site",
			BaseURL:  "http://localhost:8080",
			Language: "en",
		},
		Content: ContentConfig{
			Dir:       "content",
			Pattern:   "*.md",
			Recursive: true,
			Collections: map[string]CollectionConfig{
				"posts": {
					Layout:           "post",
					RoutePrefix:      "/posts",
					DateFromFilename: true,
					Feed:             true,
				},
				"projects": {
					Layout:      "project",
					RoutePrefix: "/projects",
				},
			},
			Parser: ParserConfig{},
		},
		Layouts: LayoutsConfig{
			Dir:     "layouts",
			Base:    "base.html",
			Default: "page",
		},
		Build: BuildConfig{
			Enabled:         true,
			OutputDir:       "public",
			StaticDir:       "static",
			CleanBuild:      true,
			Incremental:     false,
			CopyAssets:      true,
			GenerateSitemap: true,
			GenerateRobots:  true,
			GenerateFeed:    true,
			TagPages:        true,
			Workers:         0,
		},
		Check: CheckConfig{
			ExternalSchemes: []string{"http", "https", "mailto", "tel"},
			RoundTrip:       true,
		},
		Serve: ServeConfig{
			Addr:       ":8080",
			LiveReload: true,
			Debounce:   300 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Features: Features{
			Generator: true,
			Checker:   true,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if base := strings.TrimSpace(cfg.Site.BaseURL); base != "" {
		if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
			return ErrSiteBaseURLInvalid
		}
	}
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	if strings.TrimSpace(cfg.Layouts.Dir) == "" {
		return ErrLayoutsDirRequired
	}
	if cfg.Features.Generator && cfg.Build.Enabled {
		if strings.TrimSpace(cfg.Build.OutputDir) == "" {
			return ErrBuildOutputDirRequired
		}
	}
	for kind, collection := range cfg.Content.Collections {
		prefix := strings.TrimSpace(collection.RoutePrefix)
		if prefix != "" && !strings.HasPrefix(prefix, "/") {
			return fmt.Errorf("%w: %s", ErrCollectionRouteInvalid, kind)
		}
	}
	if cfg.Features.Serve && cfg.Serve.Enabled {
		if strings.TrimSpace(cfg.Serve.Addr) == "" {
			return ErrServeAddrRequired
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
