// Package enhance applies the page enhancements every manual page carries:
// highlighting the navigation link of the current page and appending a
// generated table of contents. Both steps operate on an explicit
// dom.Document so they run the same at build time and in tests.
package enhance

import (
	"strings"

	"github.com/ziadkadry99/mdmanual/internal/dom"
)

// MissingIDPolicy decides what happens to headings without an id attribute.
type MissingIDPolicy string

const (
	// MissingIDPreserve keeps the heading and links it to "#".
	MissingIDPreserve MissingIDPolicy = "preserve"
	// MissingIDSkip leaves the heading out of the table of contents.
	MissingIDSkip MissingIDPolicy = "skip"
)

// Valid reports whether p is one of the known policies.
func (p MissingIDPolicy) Valid() bool {
	return p == MissingIDPreserve || p == MissingIDSkip
}

// Options holds the selectors and literals the enhancer works with.
type Options struct {
	NavSelector     string
	ActiveClass     string
	HeadingSelector string
	ContainerID     string
	Title           string
	ListClass       string
	ItemClass       string
	MissingID       MissingIDPolicy
}

// DefaultOptions returns the markup contract the manual templates follow.
func DefaultOptions() Options {
	return Options{
		NavSelector:     ".nav-link",
		ActiveClass:     "active",
		HeadingSelector: ".content h2, .content h3, .content h4",
		ContainerID:     "toc",
		Title:           "Table of Contents",
		ListClass:       "toc-list",
		ItemClass:       "toc-item",
		MissingID:       MissingIDPreserve,
	}
}

// WithDefaults returns o with every empty field taken from DefaultOptions.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&o.NavSelector, d.NavSelector)
	fill(&o.ActiveClass, d.ActiveClass)
	fill(&o.HeadingSelector, d.HeadingSelector)
	fill(&o.ContainerID, d.ContainerID)
	fill(&o.Title, d.Title)
	fill(&o.ListClass, d.ListClass)
	fill(&o.ItemClass, d.ItemClass)
	if o.MissingID == "" {
		o.MissingID = d.MissingID
	}
	return o
}

// Result reports what Init changed.
type Result struct {
	Highlighted int
	TOC         TOC
	TOCBuilt    bool
}

// Init runs both enhancements once against doc, as the page-ready hook
// would. currentPath is the page's location path, e.g. "/docs/guide.html".
func Init(doc *dom.Document, currentPath string, opts Options) Result {
	n := HighlightNav(doc, currentPath, opts)
	toc, built := BuildTOC(doc, opts)
	return Result{Highlighted: n, TOC: toc, TOCBuilt: built}
}

// CurrentPage returns the final segment of a location path: the text after
// the last "/". A path ending in "/" yields "".
func CurrentPage(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// HighlightNav adds the active class to every navigation link whose href
// equals the final segment of currentPath and returns how many were marked.
func HighlightNav(doc *dom.Document, currentPath string, opts Options) int {
	page := CurrentPage(currentPath)
	marked := 0
	for _, link := range doc.QuerySelectorAll(opts.NavSelector) {
		href, ok := link.Attr("href")
		if !ok || href != page {
			continue
		}
		link.AddClass(opts.ActiveClass)
		marked++
	}
	return marked
}
