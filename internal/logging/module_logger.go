package logging

import (
	"context"
	"strings"

	"github.com/inkpress/inkpress/pkg/interfaces"
)

const (
	rootModule    = "inkpress"
	contentModule = "inkpress.content"
	checkModule   = "inkpress.check"
	buildModule   = "inkpress.build"
	migrateModule = "inkpress.migrate"
	serveModule   = "inkpress.serve"
)

const (
	fieldDocumentPath = "document_path"
	fieldCollection   = "collection"
	fieldRoute        = "route"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ContentLogger returns the logger namespace reserved for the content store.
func ContentLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, contentModule)
}

// CheckLogger returns the logger namespace reserved for the integrity checker.
func CheckLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, checkModule)
}

// BuildLogger returns the logger namespace reserved for the site generator.
func BuildLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, buildModule)
}

// MigrateLogger returns the logger namespace reserved for migration runs.
func MigrateLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, migrateModule)
}

// ServeLogger returns the logger namespace reserved for the dev server.
func ServeLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, serveModule)
}

// WithDocumentContext enriches the provided logger with common document fields
// such as file path, collection, and route. Empty values are ignored.
func WithDocumentContext(logger interfaces.Logger, path, collection, route string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldDocumentPath] = trimmed
	}
	if trimmed := strings.TrimSpace(collection); trimmed != "" {
		fields[fieldCollection] = trimmed
	}
	if trimmed := strings.TrimSpace(route); trimmed != "" {
		fields[fieldRoute] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that discards every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (l noopLogger) WithContext(context.Context) interfaces.Logger   { return l }
func (l noopLogger) WithFields(map[string]any) interfaces.Logger     { return l }
