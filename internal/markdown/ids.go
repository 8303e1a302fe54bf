package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gosimple/slug"
	"github.com/yuin/goldmark/ast"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Slugify builds the anchor id for a heading: markup removed, lower case,
// words joined by single hyphens, nothing but [a-z0-9-].
func Slugify(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	// Markdown emphasis and code markers never belong in an id.
	s = strings.NewReplacer("*", "", "`", "", "_", " ").Replace(s)
	return slug.Make(s)
}

// headingIDs implements parser.IDs with Slugify and per-document
// de-duplication: the second "Usage" becomes "usage-1".
type headingIDs struct {
	seen map[string]int
}

func newHeadingIDs() *headingIDs {
	return &headingIDs{seen: make(map[string]int)}
}

func (s *headingIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	base := Slugify(string(value))
	if base == "" {
		if kind == ast.KindHeading {
			base = "heading"
		} else {
			base = "id"
		}
	}

	id := base
	if n, taken := s.seen[base]; taken {
		for {
			n++
			id = fmt.Sprintf("%s-%d", base, n)
			if _, used := s.seen[id]; !used {
				break
			}
		}
		s.seen[base] = n
	}
	s.seen[id] = 0
	return []byte(id)
}

func (s *headingIDs) Put(value []byte) {
	s.seen[string(value)] = 0
}
