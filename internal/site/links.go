package site

import (
	"net/url"
	"path"
	"strings"

	"github.com/ziadkadry99/mdmanual/internal/dom"
	"github.com/ziadkadry99/mdmanual/internal/walker"
)

// rewriteSourceLinks points relative links to markdown sources at the pages
// generated from them. source is the linking page's slash separated source
// path; links resolve against its directory. It returns how many links
// were rewritten.
func rewriteSourceLinks(doc *dom.Document, source string) int {
	base := path.Dir(source)
	n := 0
	for _, a := range doc.QuerySelectorAll("a") {
		href, ok := a.Attr("href")
		if !ok {
			continue
		}
		if target, ok := pageLink(base, href); ok {
			a.SetAttr("href", target)
			n++
		}
	}
	return n
}

// pageLink maps "setup.md#flags" to "setup.html#flags". Absolute paths,
// links with a scheme or host, and non-markdown targets are left alone.
func pageLink(base, href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" || strings.HasPrefix(u.Path, "/") {
		return "", false
	}
	if !hasMarkdownExt(u.Path) {
		return "", false
	}
	rel := path.Clean(path.Join(base, u.Path))
	if strings.HasPrefix(rel, "../") {
		return "", false
	}
	target := walker.PageID(rel) + ".html"
	if u.Fragment != "" {
		target += "#" + u.Fragment
	}
	return target, true
}

func hasMarkdownExt(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	for _, e := range walker.DefaultExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
