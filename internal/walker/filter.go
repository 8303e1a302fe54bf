package walker

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrBadPattern is returned for include or exclude globs doublestar rejects.
var ErrBadPattern = errors.New("walker: bad glob pattern")

// DefaultExcludeDirs are directory names never descended into, in addition
// to hidden directories.
var DefaultExcludeDirs = []string{"node_modules", "vendor", "_build", "site-packages"}

func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." {
		return true
	}
	for _, excl := range DefaultExcludeDirs {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

// Filter decides which relative paths are sources. A path is kept when it
// matches an include pattern (or there are none) and no exclude pattern.
// Patterns support ** and are also tried against the bare file name, so
// "CHANGELOG.md" excludes the file in any directory.
type Filter struct {
	include []string
	exclude []string
}

// NewFilter validates the patterns and normalizes them to slash form.
func NewFilter(include, exclude []string) (*Filter, error) {
	inc, err := normalizePatterns(include)
	if err != nil {
		return nil, err
	}
	exc, err := normalizePatterns(exclude)
	if err != nil {
		return nil, err
	}
	return &Filter{include: inc, exclude: exc}, nil
}

func normalizePatterns(patterns []string) ([]string, error) {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = filepath.ToSlash(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: %q", ErrBadPattern, p)
		}
		out = append(out, p)
	}
	return out, nil
}

// Keep reports whether relPath passes the filter.
func (f *Filter) Keep(relPath string) bool {
	rel := filepath.ToSlash(relPath)
	if len(f.include) > 0 && !matchAny(f.include, rel) {
		return false
	}
	return !matchAny(f.exclude, rel)
}

func matchAny(patterns []string, rel string) bool {
	base := path.Base(rel)
	for _, p := range patterns {
		if doublestar.MatchUnvalidated(p, rel) || doublestar.MatchUnvalidated(p, base) {
			return true
		}
	}
	return false
}
