package markdown

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FrontMatter is the optional YAML block at the top of a source file.
type FrontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Weight      int    `yaml:"weight"`
	Draft       bool   `yaml:"draft"`
}

var (
	fence     = []byte("---")
	fenceLine = []byte("---\n")
)

// SplitFrontMatter separates a leading "---" delimited YAML block from the
// markdown body. Sources without one are returned unchanged.
func SplitFrontMatter(src []byte) (FrontMatter, []byte, error) {
	var meta FrontMatter

	normalized := bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, fenceLine) {
		return meta, src, nil
	}

	rest := normalized[len(fenceLine):]
	var block, body []byte
	switch {
	case bytes.HasPrefix(rest, fenceLine):
		body = rest[len(fenceLine):]
	case bytes.Equal(rest, fence):
		body = nil
	default:
		end := bytes.Index(rest, []byte("\n---\n"))
		if end < 0 {
			if !bytes.HasSuffix(rest, []byte("\n---")) {
				// An unterminated fence is a thematic break, not metadata.
				return meta, src, nil
			}
			end = len(rest) - len("\n---")
			block, body = rest[:end], nil
		} else {
			block, body = rest[:end], rest[end+len("\n---\n"):]
		}
	}

	if err := yaml.Unmarshal(block, &meta); err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parsing front matter: %w", err)
	}
	return meta, body, nil
}
