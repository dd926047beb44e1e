package markdown

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoFrontMatter indicates the source has no leading front-matter fence.
	ErrNoFrontMatter = errors.New("markdown codec: no front-matter block")
	// ErrUnterminatedFrontMatter indicates an opening fence without a closing one.
	ErrUnterminatedFrontMatter = errors.New("markdown codec: unterminated front-matter block")
)

var fence = []byte("---")

// FileParts separates a content file into its front-matter block and body. The
// front-matter bytes exclude the fences; the body keeps its bytes untouched so
// transforms never disturb Markdown content.
type FileParts struct {
	FrontMatter []byte
	Body        []byte
}

// Split divides source into front-matter and body. The expected shape is a
// leading "---" fence, a YAML block, a closing "---" fence, then the body. The
// block may be empty, and fence lines may end in either LF or CRLF.
func Split(source []byte) (FileParts, error) {
	rest, ok := bytes.CutPrefix(source, fence)
	if !ok {
		return FileParts{}, ErrNoFrontMatter
	}
	rest, ok = cutLineBreak(rest)
	if !ok {
		// "---" must be the entire first line.
		return FileParts{}, ErrNoFrontMatter
	}

	// A closing fence directly after the opening one means an empty block.
	if after, ok := bytes.CutPrefix(rest, fence); ok {
		if len(after) == 0 {
			return FileParts{}, nil
		}
		if body, ok := cutLineBreak(after); ok {
			return FileParts{Body: body}, nil
		}
	}

	closing := append([]byte("\n"), fence...)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		return FileParts{}, ErrUnterminatedFrontMatter
	}

	meta := rest[:idx+1]
	body := rest[idx+len(closing):]
	if cut, ok := cutLineBreak(body); ok {
		body = cut
	}
	return FileParts{FrontMatter: meta, Body: body}, nil
}

// cutLineBreak trims a single leading LF or CRLF.
func cutLineBreak(b []byte) ([]byte, bool) {
	if rest, ok := bytes.CutPrefix(b, []byte("\r\n")); ok {
		return rest, true
	}
	return bytes.CutPrefix(b, []byte("\n"))
}

// Join reassembles file parts into canonical form: fenced front-matter, a
// closing fence line, then the body verbatim. Join(Split(x)) reproduces x for
// any well-formed LF-fenced input, which keeps Normalize idempotent; CRLF
// fences come out as LF.
func Join(parts FileParts) []byte {
	var buf bytes.Buffer
	buf.Grow(len(parts.FrontMatter) + len(parts.Body) + 16)
	buf.Write(fence)
	buf.WriteByte('\n')
	buf.Write(parts.FrontMatter)
	if len(parts.FrontMatter) > 0 && parts.FrontMatter[len(parts.FrontMatter)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.Write(fence)
	buf.WriteByte('\n')
	buf.Write(parts.Body)
	return buf.Bytes()
}

// Normalize re-serializes the front-matter block through an order-preserving
// YAML round-trip and reassembles the file. The transform is idempotent:
// normalizing already-normalized output reproduces it byte for byte, which is
// the invariant migration runs rely on. The body is never modified.
func Normalize(source []byte) ([]byte, error) {
	parts, err := Split(source)
	if err != nil {
		return nil, err
	}

	// An empty block has nothing to re-serialize, and the YAML encoder
	// rejects a zero-value node.
	if len(bytes.TrimSpace(parts.FrontMatter)) == 0 {
		return Join(FileParts{Body: parts.Body}), nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(parts.FrontMatter, &node); err != nil {
		return nil, fmt.Errorf("markdown codec: decode front-matter: %w", err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("markdown codec: encode front-matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("markdown codec: close encoder: %w", err)
	}

	return Join(FileParts{FrontMatter: buf.Bytes(), Body: parts.Body}), nil
}

// DuplicateKeys reports repeated top-level front-matter keys in document
// order. YAML decoding into typed structs silently keeps the last value, so
// duplicate detection has to walk the raw node tree.
func DuplicateKeys(source []byte) ([]string, error) {
	parts, err := Split(source)
	if err != nil {
		return nil, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(parts.FrontMatter, &node); err != nil {
		return nil, fmt.Errorf("markdown codec: decode front-matter: %w", err)
	}

	mapping := &node
	if mapping.Kind == yaml.DocumentNode && len(mapping.Content) > 0 {
		mapping = mapping.Content[0]
	}
	if mapping.Kind != yaml.MappingNode {
		return nil, nil
	}

	seen := map[string]struct{}{}
	var duplicates []string
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i].Value
		if _, ok := seen[key]; ok {
			duplicates = append(duplicates, key)
			continue
		}
		seen[key] = struct{}{}
	}
	return duplicates, nil
}
