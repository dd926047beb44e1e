package inkpress

import "github.com/inkpress/inkpress/internal/runtimeconfig"

// Config aggregates feature flags and subsystem options for the module.
type Config = runtimeconfig.Config

// SiteConfig carries site-wide metadata injected into template contexts.
type SiteConfig = runtimeconfig.SiteConfig

// ContentConfig captures filesystem behaviour for content discovery.
type ContentConfig = runtimeconfig.ContentConfig

// CollectionConfig overrides per-collection behaviour.
type CollectionConfig = runtimeconfig.CollectionConfig

// ParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type ParserConfig = runtimeconfig.ParserConfig

// LayoutsConfig captures template discovery behaviour.
type LayoutsConfig = runtimeconfig.LayoutsConfig

// BuildConfig captures behaviour for the static site generator.
type BuildConfig = runtimeconfig.BuildConfig

// CheckConfig captures behaviour for the content integrity checker.
type CheckConfig = runtimeconfig.CheckConfig

// ServeConfig captures dev server behaviour.
type ServeConfig = runtimeconfig.ServeConfig

// LoggingConfig captures provider-specific logging options.
type LoggingConfig = runtimeconfig.LoggingConfig

// Features toggles module functionality.
type Features = runtimeconfig.Features

// DefaultConfig returns opinionated defaults matching a conventional blog
// repository layout.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
