package dom

import (
	"errors"
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html><body>
<nav><a class="nav-link" href="index.html">Home</a><a class="nav-link extra" href="guide.html">Guide</a></nav>
<main class="content">
<h1>Title</h1>
<div id="toc"></div>
<h2 id="intro">Intro</h2>
<section><h3 id="deep">Deep <em>dive</em></h3></section>
<h4 id="last">Last</h4>
</main>
<h2 id="outside">Outside</h2>
</body></html>`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseString(s)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	return doc
}

func ids(els []*Element) []string {
	out := make([]string, len(els))
	for i, e := range els {
		out[i] = e.ID()
	}
	return out
}

func TestQuerySelectorAll(t *testing.T) {
	doc := mustParse(t, samplePage)

	tests := []struct {
		selector string
		want     int
	}{
		{".nav-link", 2},
		{"a.nav-link.extra", 1},
		{"h2", 2},
		{".content h2", 1},
		{"main .content", 0},
		{"body main h3", 1},
		{"#toc", 1},
		{"div#toc", 1},
		{"span", 0},
		{"nav > a", 2},
		{"a[href='guide.html']", 1},
		{"main h2:first-of-type", 1},
	}
	for _, tt := range tests {
		got := doc.QuerySelectorAll(tt.selector)
		if len(got) != tt.want {
			t.Errorf("QuerySelectorAll(%q) = %d elements, want %d", tt.selector, len(got), tt.want)
		}
	}

	if all := doc.QuerySelectorAll("*"); len(all) < 10 {
		t.Errorf("QuerySelectorAll(*) = %d elements, want at least 10", len(all))
	}
}

func TestQuerySelectorListDocumentOrder(t *testing.T) {
	doc := mustParse(t, samplePage)

	got := ids(doc.QuerySelectorAll(".content h4, .content h2, .content h3"))
	want := []string{"intro", "deep", "last"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", got, want)
	}

	// An element matched by two selectors of the list appears once.
	dup := doc.QuerySelectorAll("h2, #intro")
	if len(dup) != 2 {
		t.Errorf("duplicate match count = %d, want 2", len(dup))
	}
}

func TestQueryInvalidSelector(t *testing.T) {
	doc := mustParse(t, samplePage)
	for _, sel := range []string{"", "h2,", ".", "##", "a[href"} {
		_, err := doc.Query(sel)
		if !errors.Is(err, ErrInvalidSelector) {
			t.Errorf("Query(%q) error = %v, want ErrInvalidSelector", sel, err)
		}
		if got := doc.QuerySelectorAll(sel); got != nil {
			t.Errorf("QuerySelectorAll(%q) = %v, want nil", sel, got)
		}
	}
}

func TestGetElementByID(t *testing.T) {
	doc := mustParse(t, samplePage)

	toc := doc.GetElementByID("toc")
	if toc == nil || toc.Tag() != "div" {
		t.Fatalf("GetElementByID(toc) = %v, want div", toc)
	}
	if doc.GetElementByID("missing") != nil {
		t.Error("GetElementByID(missing) should be nil")
	}
}

func TestElementClassesAndText(t *testing.T) {
	doc := mustParse(t, samplePage)

	link := doc.QuerySelectorAll(".extra")[0]
	link.AddClass("active", "extra", "active")
	if got := strings.Join(link.ClassList(), " "); got != "nav-link extra active" {
		t.Errorf("class = %q, want %q", got, "nav-link extra active")
	}
	if !link.HasClass("active") || link.HasClass("act") {
		t.Error("HasClass mismatch")
	}

	deep := doc.GetElementByID("deep")
	if got := deep.TextContent(); got != "Deep dive" {
		t.Errorf("TextContent = %q, want %q", got, "Deep dive")
	}
	deep.SetTextContent("Replaced")
	if got := deep.TextContent(); got != "Replaced" {
		t.Errorf("after SetTextContent = %q", got)
	}
	if len(deep.Children()) != 0 {
		t.Error("SetTextContent should drop element children")
	}
}

func TestCreateAndAppend(t *testing.T) {
	doc := mustParse(t, samplePage)
	toc := doc.GetElementByID("toc")

	ul := doc.CreateElement("UL")
	ul.AddClass("toc-list")
	li := doc.CreateElement("li")
	a := doc.CreateElement("a")
	a.SetAttr("href", "#intro")
	a.SetAttr("href", "#intro2")
	a.SetTextContent("Intro")
	li.AppendChild(a)
	ul.AppendChild(li)
	toc.AppendChild(ul)

	out := doc.String()
	if !strings.Contains(out, `<div id="toc"><ul class="toc-list"><li><a href="#intro2">Intro</a></li></ul></div>`) {
		t.Errorf("rendered output missing appended list:\n%s", out)
	}

	// Appending an attached element moves it.
	nav := doc.QuerySelectorAll("nav")[0]
	nav.AppendChild(ul)
	if len(toc.Children()) != 0 {
		t.Error("moved element should leave its old parent")
	}
}
