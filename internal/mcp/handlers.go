package mcp

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/mdmanual/internal/dom"
	"github.com/ziadkadry99/mdmanual/internal/enhance"
	"github.com/ziadkadry99/mdmanual/internal/markdown"
	"github.com/ziadkadry99/mdmanual/internal/walker"
)

// page is a published source together with its converted form.
type page struct {
	src     walker.Source
	content []byte
	doc     *markdown.Document
}

// pages walks the sources and converts them, leaving out drafts and files
// that cannot be read or converted, the same way the manual build does.
func (s *Server) pages() ([]page, error) {
	sources, err := walker.Walk(s.sources)
	if err != nil {
		return nil, err
	}
	var out []page
	for _, src := range sources {
		content, err := os.ReadFile(src.Path)
		if err != nil {
			continue
		}
		doc, err := s.conv.Convert(content)
		if err != nil || doc.Meta.Draft {
			continue
		}
		out = append(out, page{src: src, content: content, doc: doc})
	}
	return out, nil
}

// handleListPages lists the manual's pages.
func (s *Server) handleListPages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pages, err := s.pages()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list sources: %v", err)), nil
	}
	if len(pages) == 0 {
		return mcp.NewToolResultText("No pages found. Check input_dir in .mdmanual.yml."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d page(s):\n", len(pages)))
	for _, p := range pages {
		title := p.doc.Title
		if title == "" {
			title = p.src.ID
		}
		sb.WriteString(fmt.Sprintf("\n- %s: %s", p.src.ID, title))
		if p.doc.Summary != "" {
			sb.WriteString("\n  " + p.doc.Summary)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetPage returns a page's markdown source.
func (s *Server) handleGetPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	p, ok, err := s.find(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list sources: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("No page with id %q. Use list_pages to see available ids.", id)), nil
	}
	return mcp.NewToolResultText(string(p.content)), nil
}

// handleGetTOC returns the outline the manual shows for a page.
func (s *Server) handleGetTOC(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	p, ok, err := s.find(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list sources: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("No page with id %q. Use list_pages to see available ids.", id)), nil
	}

	toc, err := s.outline(p.doc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build table of contents: %v", err)), nil
	}
	if len(toc) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Page %q has no headings.", id)), nil
	}
	return mcp.NewToolResultText(formatTOC(id, toc)), nil
}

func (s *Server) find(id string) (page, bool, error) {
	pages, err := s.pages()
	if err != nil {
		return page{}, false, err
	}
	for _, p := range pages {
		if p.src.ID == id {
			return p, true, nil
		}
	}
	return page{}, false, nil
}

// outline collects the headings of a converted page the way the page
// template presents them, inside the content region.
func (s *Server) outline(doc *markdown.Document) (enhance.TOC, error) {
	html, err := dom.ParseString(`<main class="content">` + doc.HTML + `</main>`)
	if err != nil {
		return nil, err
	}
	return enhance.Outline(html, s.toc), nil
}

// formatTOC renders an outline as an indented list, one anchor per line.
func formatTOC(id string, toc enhance.TOC) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Table of contents for %s:\n", id))
	for _, e := range toc {
		indent := strings.Repeat("  ", max(e.Level-2, 0))
		sb.WriteString(fmt.Sprintf("\n%s- %s (%s.html%s)", indent, e.Text, id, e.Href()))
	}
	return sb.String()
}
