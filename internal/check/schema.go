package check

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrSchemaInvalid indicates a collection schema file failed to compile.
var ErrSchemaInvalid = errors.New("check: invalid schema")

// SchemaSet holds compiled per-collection front-matter schemas, loaded from
// `<kind>.schema.json` files.
type SchemaSet struct {
	schemas map[string]*jsonschema.Schema
}

// LoadSchemas discovers and compiles every `<kind>.schema.json` in the given
// filesystem. A nil filesystem yields an empty set.
func LoadSchemas(fsys fs.FS) (*SchemaSet, error) {
	set := &SchemaSet{schemas: map[string]*jsonschema.Schema{}}
	if fsys == nil {
		return set, nil
	}

	files, err := fs.Glob(fsys, "*.schema.json")
	if err != nil {
		return nil, fmt.Errorf("check: glob schemas: %w", err)
	}

	for _, file := range files {
		kind := strings.TrimSuffix(file, ".schema.json")
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("check: read schema %s: %w", file, err)
		}
		schema, err := compileSchema(file, data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSchemaInvalid, file, err)
		}
		set.schemas[kind] = schema
	}
	return set, nil
}

func compileSchema(name string, data []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return compiler.Compile(name)
}

// Has reports whether a schema exists for the collection kind.
func (s *SchemaSet) Has(kind string) bool {
	_, ok := s.schemas[kind]
	return ok
}

// Kinds returns the collection kinds with a compiled schema.
func (s *SchemaSet) Kinds() []string {
	out := make([]string, 0, len(s.schemas))
	for kind := range s.schemas {
		out = append(out, kind)
	}
	return out
}

// Validate checks a front-matter map against the collection schema and
// returns one message per violation. Kinds without a schema pass.
func (s *SchemaSet) Validate(kind string, meta map[string]any) ([]string, error) {
	schema, ok := s.schemas[kind]
	if !ok {
		return nil, nil
	}

	// Round-trip through JSON so YAML-native values (time.Time, nested maps)
	// become the plain types the validator understands.
	encoded, err := json.Marshal(jsonSafe(meta))
	if err != nil {
		return nil, fmt.Errorf("check: encode front-matter: %w", err)
	}
	var payload any
	if err := json.Unmarshal(encoded, &payload); err != nil {
		return nil, fmt.Errorf("check: decode front-matter: %w", err)
	}

	err = schema.Validate(payload)
	if err == nil {
		return nil, nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return nil, fmt.Errorf("check: schema validate: %w", err)
	}
	return collectMessages(validationErr), nil
}

// jsonSafe rewrites YAML decoder output into JSON-encodable values. The YAML
// library produces map[interface{}]interface{} for nested maps.
func jsonSafe(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, v := range typed {
			out[key] = jsonSafe(v)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, v := range typed {
			out[fmt.Sprint(key)] = jsonSafe(v)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = jsonSafe(v)
		}
		return out
	default:
		return typed
	}
}

func collectMessages(err *jsonschema.ValidationError) []string {
	var messages []string
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			location := strings.TrimSpace(node.InstanceLocation)
			if location == "" {
				location = "#"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, strings.TrimSpace(node.Message)))
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return messages
}
