package dom

import (
	"errors"
	"fmt"

	"github.com/andybalholm/cascadia"
)

// ErrInvalidSelector is returned when a selector cannot be parsed.
var ErrInvalidSelector = errors.New("dom: invalid selector")

// Query returns the elements matching the CSS selector list in document
// order, each at most once, however many selectors of the list it matches.
func (d *Document) Query(selector string) ([]*Element, error) {
	group, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelector, selector, err)
	}

	nodes := cascadia.QueryAll(d.root, group)
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &Element{node: n})
	}
	return out, nil
}

// QuerySelectorAll is Query without the error; invalid selectors match nothing.
func (d *Document) QuerySelectorAll(selector string) []*Element {
	out, err := d.Query(selector)
	if err != nil {
		return nil
	}
	return out
}
