package markdown

import (
	"strings"
	"testing"

	"github.com/inkpress/inkpress/pkg/interfaces"
)

func TestGoldmarkParserBasics(t *testing.T) {
	p := NewGoldmarkParser(interfaces.ParseOptions{})

	out, err := p.Parse([]byte("# Title\n\nSome *emphasis* here.\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	html := string(out)
	if !strings.Contains(html, "<h1") {
		t.Fatalf("expected heading in output: %s", html)
	}
	if !strings.Contains(html, "<em>emphasis</em>") {
		t.Fatalf("expected emphasis in output: %s", html)
	}
}

func TestGoldmarkParserAutoHeadingIDs(t *testing.T) {
	p := NewGoldmarkParser(interfaces.ParseOptions{})

	out, err := p.Parse([]byte("## Getting Started\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !strings.Contains(string(out), `id="getting-started"`) {
		t.Fatalf("expected auto heading id, got: %s", out)
	}
}

func TestGoldmarkParserGFMTable(t *testing.T) {
	p := NewGoldmarkParser(interfaces.ParseOptions{})

	src := "| a | b |\n|---|---|\n| 1 | 2 |\n"
	out, err := p.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !strings.Contains(string(out), "<table>") {
		t.Fatalf("expected table rendering, got: %s", out)
	}
}

func TestGoldmarkParserUnsafeHTML(t *testing.T) {
	p := NewGoldmarkParser(interfaces.ParseOptions{})
	src := []byte("<div class=\"note\">raw</div>\n")

	safe, err := p.ParseWithOptions(src, interfaces.ParseOptions{})
	if err != nil {
		t.Fatalf("ParseWithOptions returned error: %v", err)
	}
	if strings.Contains(string(safe), "<div") {
		t.Fatalf("raw HTML should be escaped by default, got: %s", safe)
	}

	unsafe, err := p.ParseWithOptions(src, interfaces.ParseOptions{Unsafe: true})
	if err != nil {
		t.Fatalf("ParseWithOptions returned error: %v", err)
	}
	if !strings.Contains(string(unsafe), "<div class=\"note\">") {
		t.Fatalf("unsafe mode should keep raw HTML, got: %s", unsafe)
	}
}
