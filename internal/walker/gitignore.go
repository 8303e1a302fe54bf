package walker

import (
	"bufio"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ignoreRule is one line of a .gitignore file.
type ignoreRule struct {
	pattern  string
	negate   bool
	dirOnly  bool
	anchored bool
}

// ignoreRules holds the rules of the .gitignore at the walk root. The last
// matching rule decides; a "!" rule re-includes what an earlier rule ignored.
type ignoreRules []ignoreRule

func loadIgnoreRules(path string) ignoreRules {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var rules ignoreRules
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var r ignoreRule
		if strings.HasPrefix(line, "!") {
			r.negate = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			r.dirOnly = true
			line = strings.TrimSuffix(line, "/")
		}
		r.anchored = strings.Contains(line, "/")
		r.pattern = strings.TrimPrefix(line, "/")
		if r.pattern != "" {
			rules = append(rules, r)
		}
	}
	return rules
}

// ignored reports whether rel (slash separated) is excluded. Directories are
// checked as the walk enters them, so a file inside an ignored directory is
// never looked at and cannot be re-included.
func (rules ignoreRules) ignored(rel string, isDir bool) bool {
	name := rel
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		name = rel[i+1:]
	}

	ignored := false
	for _, r := range rules {
		if r.dirOnly && !isDir {
			continue
		}
		target := name
		if r.anchored {
			target = rel
		}
		if ok, _ := doublestar.Match(r.pattern, target); ok {
			ignored = !r.negate
		}
	}
	return ignored
}
