package site

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ziadkadry99/mdmanual/internal/markdown"
	"github.com/ziadkadry99/mdmanual/internal/walker"
)

// AddSources converts every source with conv and registers the result.
// Draft pages are skipped. Sources that fail to read or convert, or whose
// page id is already taken, are left out and reported together; the rest
// are still added.
func (g *Generator) AddSources(sources []walker.Source, conv *markdown.Converter) error {
	owner := make(map[string]string, len(g.pages)+len(sources))
	for _, p := range g.pages {
		if p.Source != "" {
			owner[p.ID] = p.Source
		} else {
			owner[p.ID] = "page " + p.ID
		}
	}

	var errs error
	for _, src := range sources {
		if prev, taken := owner[src.ID]; taken {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s and %s both map to %s.html",
				ErrDuplicatePage, prev, src.RelPath, src.ID))
			continue
		}
		content, err := os.ReadFile(src.Path)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("reading %s: %w", src.RelPath, err))
			continue
		}
		doc, err := conv.Convert(content)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("converting %s: %w", src.RelPath, err))
			continue
		}
		if doc.Meta.Draft {
			g.log.Debug("skipping draft", zap.String("path", src.RelPath))
			continue
		}
		owner[src.ID] = src.RelPath
		g.Add(Page{
			ID:      src.ID,
			Title:   doc.Title,
			Content: doc.HTML,
			Summary: doc.Summary,
			Weight:  doc.Meta.Weight,
			Source:  src.RelPath,
			Hash:    src.ContentHash,
		})
	}
	return errs
}
