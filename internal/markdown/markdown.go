// Package markdown turns manual source files into HTML fragments together
// with the metadata the site generator needs: title, summary and outline.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Heading is one heading of a converted document.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// Document is the result of converting one markdown source.
type Document struct {
	Title    string // first level-1 heading, overridden by front matter
	Summary  string // text of the first paragraph
	HTML     string
	Headings []Heading
	Meta     FrontMatter
}

// Converter renders markdown with the extensions the manual uses.
type Converter struct {
	md goldmark.Markdown
}

// NewConverter creates a Converter. highlightStyle names a chroma style for
// fenced code blocks; "" disables highlighting.
func NewConverter(highlightStyle string) *Converter {
	extensions := []goldmark.Extender{extension.GFM}
	if highlightStyle != "" {
		extensions = append(extensions, highlighting.NewHighlighting(
			highlighting.WithStyle(highlightStyle),
		))
	}

	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	return &Converter{md: md}
}

var defaultConverter = NewConverter("github")

// Convert renders src with the default converter.
func Convert(src []byte) (*Document, error) {
	return defaultConverter.Convert(src)
}

// Convert parses src, assigns heading ids and renders HTML.
func (c *Converter) Convert(src []byte) (*Document, error) {
	meta, body, err := SplitFrontMatter(src)
	if err != nil {
		return nil, err
	}

	// Each document gets its own id registry so duplicates are numbered per page.
	ctx := parser.NewContext(parser.WithIDs(newHeadingIDs()))
	root := c.md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, body, root); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}

	doc := &Document{
		HTML: buf.String(),
		Meta: meta,
	}
	collectMetadata(doc, root, body)
	if meta.Title != "" {
		doc.Title = meta.Title
	}
	return doc, nil
}

func collectMetadata(doc *Document, root ast.Node, src []byte) {
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			h := Heading{
				Level: node.Level,
				ID:    attrString(node, "id"),
				Text:  plainText(node, src),
			}
			doc.Headings = append(doc.Headings, h)
			if node.Level == 1 && doc.Title == "" {
				doc.Title = h.Text
			}
		case *ast.Paragraph:
			if doc.Summary == "" {
				doc.Summary = strings.TrimSpace(plainText(node, src))
			}
		}
	}
}

func attrString(n ast.Node, name string) string {
	v, ok := n.AttributeString(name)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case []byte:
		return string(s)
	case string:
		return s
	}
	return ""
}

// plainText concatenates the literal text below n, dropping markup.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
