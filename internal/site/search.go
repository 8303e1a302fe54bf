package site

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ziadkadry99/mdmanual/internal/dom"
	"github.com/ziadkadry99/mdmanual/internal/enhance"
)

// SearchIndexFile is the name of the client-side search index.
const SearchIndexFile = "search-index.json"

// maxSearchContent caps the indexed text per page, in runes.
const maxSearchContent = 2000

// SearchEntry represents a single searchable page in the manual.
type SearchEntry struct {
	Path    string          `json:"path"`
	Title   string          `json:"title"`
	Summary string          `json:"summary"`
	Content string          `json:"content"`
	TOC     []enhance.Entry `json:"toc,omitempty"`
}

// BuildSearchIndex builds one entry per page, in the order given.
func BuildSearchIndex(pages []Page) []SearchEntry {
	entries := make([]SearchEntry, 0, len(pages))
	for _, p := range pages {
		entries = append(entries, SearchEntry{
			Path:    p.Filename(),
			Title:   p.Title,
			Summary: p.Summary,
			Content: plainContent(p.Content),
			TOC:     p.TOC,
		})
	}
	return entries
}

// plainContent strips markup from an HTML fragment and collapses whitespace.
func plainContent(fragment string) string {
	doc, err := dom.ParseString(fragment)
	if err != nil {
		return ""
	}
	var text string
	if body := doc.QuerySelectorAll("body"); len(body) > 0 {
		text = body[0].TextContent()
	}
	text = strings.Join(strings.Fields(text), " ")
	if r := []rune(text); len(r) > maxSearchContent {
		text = string(r[:maxSearchContent])
	}
	return text
}

// WriteSearchIndex writes the search index as JSON to the given path.
func WriteSearchIndex(entries []SearchEntry, outputPath string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding search index: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("writing search index: %w", err)
	}
	return nil
}

// ReadSearchIndex loads a previously written search index.
func ReadSearchIndex(path string) ([]SearchEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []SearchEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding search index: %w", err)
	}
	return entries, nil
}
