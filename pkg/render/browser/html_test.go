package browser

import (
	"strings"
	"testing"

	"github.com/mermview/mermview/pkg/diagram"
)

func mustCode(t *testing.T, text string) diagram.Code {
	t.Helper()
	code, err := diagram.NewCode(text)
	if err != nil {
		t.Fatalf("NewCode error: %v", err)
	}
	return code
}

func TestRenderHTML(t *testing.T) {
	code := mustCode(t, "graph TD\n  A-->B")
	cfg := diagram.DefaultConfig()

	html, err := renderHTML(code, cfg)
	if err != nil {
		t.Fatalf("renderHTML error: %v", err)
	}

	if !strings.Contains(html, "graph TD") {
		t.Error("document should contain the diagram text")
	}
	if !strings.Contains(html, `<div class="mermaid">`) {
		t.Error("document should contain the mermaid container")
	}
	if !strings.Contains(html, MermaidCDNURL) {
		t.Error("document should load mermaid from the pinned CDN URL")
	}
	if !strings.Contains(html, "background-color: white") {
		t.Error("default background should be white")
	}
	if !strings.Contains(html, "padding: 20px") {
		t.Error("default padding should be 20px")
	}
	if !strings.Contains(html, "await mermaid.run()") {
		t.Error("document should run mermaid explicitly")
	}
}

func TestRenderHTMLEscapesCode(t *testing.T) {
	// Diagram labels may carry markup-significant characters; they must
	// not reach the document unescaped.
	code := mustCode(t, "graph TD\n  A[\"<script>alert(1)</script>\"] --> B[x & y]")

	html, err := renderHTML(code, diagram.DefaultConfig())
	if err != nil {
		t.Fatalf("renderHTML error: %v", err)
	}
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("markup in diagram text must be escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Error("escaped markup should be present")
	}
}

func TestRenderHTMLTransparentBackground(t *testing.T) {
	cfg, err := diagram.ConfigForPNG(800, 600, diagram.ThemeDefault, 1.0, true)
	if err != nil {
		t.Fatalf("ConfigForPNG error: %v", err)
	}

	html, err := renderHTML(mustCode(t, "graph TD\n  A-->B"), cfg)
	if err != nil {
		t.Fatalf("renderHTML error: %v", err)
	}
	if !strings.Contains(html, "background-color: transparent") {
		t.Error("transparent config should set a transparent background")
	}
}

func TestRenderHTMLThemeInConfig(t *testing.T) {
	cfg := diagram.DefaultConfig()
	cfg.Theme = diagram.ThemeDark

	html, err := renderHTML(mustCode(t, "graph TD\n  A-->B"), cfg)
	if err != nil {
		t.Fatalf("renderHTML error: %v", err)
	}
	if !strings.Contains(html, `"theme":"dark"`) {
		t.Error("mermaid config should carry the theme")
	}
	if !strings.Contains(html, `"securityLevel":"loose"`) {
		t.Error("mermaid config should set the security level")
	}
}

func TestCSSColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"white", "white"},
		{"transparent", "transparent"},
		{"#FF0000", "#FF0000"},
		{"rgb(10, 20, 30)", "rgb(10, 20, 30)"},
		{"", "white"},
		{"url(javascript:alert(1))", "white"},
	}

	for _, tt := range tests {
		if got := string(cssColor(tt.in)); got != tt.want {
			t.Errorf("cssColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"red;}body{display:none", "white\"><script>", "a{b}"} {
		if got := string(cssColor(bad)); got != "white" {
			t.Errorf("cssColor(%q) = %q, want fallback white", bad, got)
		}
	}
}

func TestMermaidConfig(t *testing.T) {
	cfg := diagram.DefaultConfig()
	mc, err := mermaidConfig(cfg)
	if err != nil {
		t.Fatalf("mermaidConfig error: %v", err)
	}

	s := string(mc)
	for _, want := range []string{`"startOnLoad":true`, `"theme":"default"`, `"useMaxWidth":true`, `"htmlLabels":true`} {
		if !strings.Contains(s, want) {
			t.Errorf("config missing %s: %s", want, s)
		}
	}
}
