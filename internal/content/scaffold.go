package content

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/inkpress/inkpress/internal/logging"
	"github.com/inkpress/inkpress/internal/markdown"
	"github.com/inkpress/inkpress/pkg/interfaces"
)

// ScaffoldConfig configures document scaffolding.
type ScaffoldConfig struct {
	// ContentDir is the content root on the real filesystem.
	ContentDir string
	// Kinds lists the collection directories new documents may target. Empty
	// accepts any kind.
	Kinds []string
	// Now supplies timestamps, overridable in tests.
	Now func() time.Time
}

// ScaffoldResult describes a created document.
type ScaffoldResult struct {
	// Path is the created file path relative to the content root.
	Path string
	// Slug is the normalized slug derived from the title.
	Slug string
}

// Scaffolder creates new content files with serialized front-matter.
type Scaffolder struct {
	cfg    ScaffoldConfig
	logger interfaces.Logger
}

// NewScaffolder builds a Scaffolder. A nil Now falls back to time.Now.
func NewScaffolder(cfg ScaffoldConfig, logger interfaces.Logger) (*Scaffolder, error) {
	if strings.TrimSpace(cfg.ContentDir) == "" {
		return nil, ErrContentRootMissing
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Scaffolder{cfg: cfg, logger: logger}, nil
}

// NewPost creates `posts/YYYY-MM-DD-<slug>.md` with post front-matter.
func (s *Scaffolder) NewPost(title string) (*ScaffoldResult, error) {
	slugValue, err := s.slugFor(title)
	if err != nil {
		return nil, err
	}

	now := s.cfg.Now()
	name := fmt.Sprintf("%s-%s.md", now.Format(datedNameLayout), slugValue)
	rel := filepath.Join("posts", name)

	meta := fmt.Sprintf("title: %q\ndate: %s\nlayout: post\ntags: []\n",
		title, now.Format(datedNameLayout))
	if err := s.write(rel, meta); err != nil {
		return nil, err
	}
	return &ScaffoldResult{Path: filepath.ToSlash(rel), Slug: slugValue}, nil
}

// NewPage creates `<slug>.md` at the content root with page front-matter. An
// optional kind places the file into that collection directory instead.
func (s *Scaffolder) NewPage(title, kind string) (*ScaffoldResult, error) {
	slugValue, err := s.slugFor(title)
	if err != nil {
		return nil, err
	}

	rel := slugValue + ".md"
	if kind != "" && kind != "pages" {
		if !s.allowsKind(kind) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, kind)
		}
		rel = filepath.Join(kind, rel)
	}

	meta := fmt.Sprintf("title: %q\nlayout: page\n", title)
	if err := s.write(rel, meta); err != nil {
		return nil, err
	}
	return &ScaffoldResult{Path: filepath.ToSlash(rel), Slug: slugValue}, nil
}

func (s *Scaffolder) allowsKind(kind string) bool {
	if len(s.cfg.Kinds) == 0 {
		return true
	}
	for _, allowed := range s.cfg.Kinds {
		if allowed == kind {
			return true
		}
	}
	return false
}

func (s *Scaffolder) slugFor(title string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", ErrTitleRequired
	}
	slugValue, err := NormalizeSlug(title)
	if err != nil || slugValue == "" {
		return "", fmt.Errorf("content: slug for %q: %w", title, err)
	}
	return slugValue, nil
}

func (s *Scaffolder) write(rel, meta string) error {
	full := filepath.Join(s.cfg.ContentDir, rel)
	if _, err := os.Stat(full); err == nil {
		return fmt.Errorf("%w: %s", ErrDocumentExists, rel)
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("content: create directory: %w", err)
	}

	data := markdown.Join(markdown.FileParts{
		FrontMatter: []byte(meta),
		Body:        []byte("\n"),
	})
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("content: write %s: %w", rel, err)
	}
	s.logger.Info("scaffolded document", "path", rel)
	return nil
}
