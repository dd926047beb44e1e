package layouts

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/inkpress/inkpress/internal/logging"
	"github.com/inkpress/inkpress/pkg/interfaces"
)

var (
	// ErrLayoutNotFound indicates an explicit layout name has no template file.
	ErrLayoutNotFound = errors.New("layouts: layout not found")
	// ErrNoLayouts indicates the layouts directory holds no usable templates.
	ErrNoLayouts = errors.New("layouts: no templates found")
)

// BaseLayout is the template every unresolved lookup falls back to.
const BaseLayout = "base"

// Config configures a layout registry.
type Config struct {
	// FS is the filesystem rooted at the layouts directory.
	FS fs.FS
	// Funcs extends the default template function map.
	Funcs template.FuncMap
}

// Dependencies carries registry collaborators.
type Dependencies struct {
	Logger interfaces.Logger
}

// Registry loads html/template layouts from a directory: top-level
// `<name>.html` files are layouts, `partials/*.html` are shared fragments
// parsed into every layout's template set.
type Registry struct {
	cfg       Config
	logger    interfaces.Logger
	templates map[string]*template.Template
}

// NewRegistry builds a Registry. Call Load before resolving layouts.
func NewRegistry(cfg Config, deps Dependencies) (*Registry, error) {
	if cfg.FS == nil {
		return nil, errors.New("layouts: filesystem is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Registry{
		cfg:       cfg,
		logger:    logger,
		templates: map[string]*template.Template{},
	}, nil
}

// Load parses every layout together with the shared partials. Calling Load
// again replaces the registry contents.
func (r *Registry) Load() error {
	layoutFiles, err := fs.Glob(r.cfg.FS, "*.html")
	if err != nil {
		return fmt.Errorf("layouts: glob layouts: %w", err)
	}
	if len(layoutFiles) == 0 {
		return ErrNoLayouts
	}

	partials, err := fs.Glob(r.cfg.FS, "partials/*.html")
	if err != nil {
		return fmt.Errorf("layouts: glob partials: %w", err)
	}

	funcs := defaultFuncs()
	for name, fn := range r.cfg.Funcs {
		funcs[name] = fn
	}

	templates := make(map[string]*template.Template, len(layoutFiles))
	for _, file := range layoutFiles {
		name := strings.TrimSuffix(path.Base(file), ".html")

		patterns := make([]string, 0, len(partials)+1)
		patterns = append(patterns, file)
		patterns = append(patterns, partials...)

		tmpl, err := template.New(path.Base(file)).Funcs(funcs).ParseFS(r.cfg.FS, patterns...)
		if err != nil {
			return fmt.Errorf("layouts: parse %s: %w", file, err)
		}
		templates[name] = tmpl
	}

	r.templates = templates
	r.logger.Debug("layouts loaded", "count", len(templates), "partials", len(partials))
	return nil
}

// Resolve walks the fallback chain: the explicit name when set, then the
// collection default, then the base layout. An explicit name that resolves to
// nothing is an error; missing defaults fall through silently.
func (r *Registry) Resolve(explicit, collectionDefault string) (*template.Template, error) {
	if explicit != "" {
		tmpl, ok := r.templates[explicit]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrLayoutNotFound, explicit)
		}
		return tmpl, nil
	}
	if collectionDefault != "" {
		if tmpl, ok := r.templates[collectionDefault]; ok {
			return tmpl, nil
		}
	}
	if tmpl, ok := r.templates[BaseLayout]; ok {
		return tmpl, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrLayoutNotFound, BaseLayout)
}

// Has reports whether a layout name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Names returns the registered layout names sorted alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
