package enhance

import (
	"github.com/ziadkadry99/mdmanual/internal/dom"
)

// Entry is one line of a table of contents.
type Entry struct {
	Level int    `json:"level"`
	Tag   string `json:"tag"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// Href is the same-page fragment the entry links to.
func (e Entry) Href() string { return "#" + e.ID }

// TOC is an ordered outline of a page's headings.
type TOC []Entry

// Outline collects the headings BuildTOC would list, in document order,
// without touching the document.
func Outline(doc *dom.Document, opts Options) TOC {
	var toc TOC
	for _, h := range doc.QuerySelectorAll(opts.HeadingSelector) {
		id, ok := h.Attr("id")
		if !ok && opts.MissingID == MissingIDSkip {
			continue
		}
		toc = append(toc, Entry{
			Level: headingLevel(h.Tag()),
			Tag:   h.Tag(),
			ID:    id,
			Text:  h.TextContent(),
		})
	}
	return toc
}

// BuildTOC appends a title and a listing of the page's headings to the
// container element. When the container is missing or there is nothing to
// list, the document is left untouched and ok is false.
//
// BuildTOC does not look at what the container already holds: calling it
// twice appends a second title and listing.
func BuildTOC(doc *dom.Document, opts Options) (toc TOC, ok bool) {
	container := doc.GetElementByID(opts.ContainerID)
	if container == nil {
		return nil, false
	}
	toc = Outline(doc, opts)
	if len(toc) == 0 {
		return nil, false
	}

	title := doc.CreateElement("h2")
	title.SetTextContent(opts.Title)
	container.AppendChild(title)

	list := doc.CreateElement("ul")
	list.AddClass(opts.ListClass)
	for _, entry := range toc {
		item := doc.CreateElement("li")
		item.AddClass(opts.ItemClass, "toc-"+entry.Tag)

		link := doc.CreateElement("a")
		link.SetTextContent(entry.Text)
		link.SetAttr("href", entry.Href())

		item.AppendChild(link)
		list.AppendChild(item)
	}
	container.AppendChild(list)

	return toc, true
}

// headingLevel maps h1..h6 to 1..6 and anything else to 0.
func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}
