package site

import (
	"context"
	"strings"
	"testing"
)

func TestPageLink(t *testing.T) {
	tests := []struct {
		base, href string
		want       string
		ok         bool
	}{
		{".", "setup.md", "setup.html", true},
		{".", "setup.md#flags", "setup.html#flags", true},
		{".", "./Setup.markdown", "Setup.html", true},
		{"guides", "setup.md", "guides-setup.html", true},
		{"guides", "../intro.md", "intro.html", true},
		{".", "../outside.md", "", false},
		{".", "/abs/page.md", "", false},
		{".", "https://example.com/readme.md", "", false},
		{".", "image.png", "", false},
		{".", "#local", "", false},
		{".", "setup.html", "", false},
	}
	for _, tt := range tests {
		got, ok := pageLink(tt.base, tt.href)
		if got != tt.want || ok != tt.ok {
			t.Errorf("pageLink(%q, %q) = %q, %v; want %q, %v", tt.base, tt.href, got, ok, tt.want, tt.ok)
		}
	}
}

func TestGenerateRewritesSourceLinks(t *testing.T) {
	g, out := newTestGenerator(t, Options{Prerender: true})
	g.Add(Page{
		ID:      "guides-setup",
		Title:   "Setup",
		Source:  "guides/setup.md",
		Content: `<p>See <a href="../faq.md#install">the FAQ</a> and <a href="https://example.com/x.md">upstream</a>.</p>`,
	})

	if _, err := g.Generate(context.Background()); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	page := readOutput(t, out, "guides-setup.html")
	if !strings.Contains(page, `<a href="faq.html#install">the FAQ</a>`) {
		t.Errorf("relative source link not rewritten:\n%s", page)
	}
	if !strings.Contains(page, `<a href="https://example.com/x.md">upstream</a>`) {
		t.Error("external link should be left alone")
	}
}
