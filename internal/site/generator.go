// Package site renders a set of converted pages into a static reference
// manual: a sidebar-navigated index, one HTML file per page, shared
// stylesheet and script, and an optional search index.
package site

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ziadkadry99/mdmanual/internal/buildcache"
	"github.com/ziadkadry99/mdmanual/internal/dom"
	"github.com/ziadkadry99/mdmanual/internal/enhance"
	"github.com/ziadkadry99/mdmanual/internal/progress"
)

// Page ordering in the navigation and on the index page.
const (
	SortTitle   = "title"
	SortNatural = "natural"
	SortWeight  = "weight"
)

// IndexFile is the manual's landing page.
const IndexFile = "index.html"

// ErrNoOutputDir is returned by Generate when no output directory is set.
var ErrNoOutputDir = errors.New("site: output directory is required")

// ErrDuplicatePage is returned when two pages would be written to the same file.
var ErrDuplicatePage = errors.New("site: duplicate page id")

// Page is one manual page.
type Page struct {
	ID      string
	Title   string
	Content string // rendered HTML body
	Summary string
	Weight  int
	Source  string      // slash separated source path, for resolving links
	Hash    string      // content hash used by the build cache
	TOC     enhance.TOC // filled in by Generate
}

// Filename is the page's output file, relative to the output directory.
func (p Page) Filename() string { return p.ID + ".html" }

// Options configures a Generator.
type Options struct {
	Title     string
	Author    string
	OutputDir string
	Sort      string
	Prerender bool // run the enhancer at build time
	Search    bool // write search-index.json
	CSSFile   string
	JSFile    string
	Enhance   enhance.Options

	Cache    *buildcache.Cache
	Reporter progress.Reporter
}

// Stats summarises a Generate run.
type Stats struct {
	BuildID   string
	Pages     int
	Unchanged int
	Duration  time.Duration
}

// Generator collects pages and writes the manual.
type Generator struct {
	opts  Options
	log   *zap.Logger
	pages []Page
}

// New creates a Generator. A nil logger discards output.
func New(opts Options, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Reporter == nil {
		opts.Reporter = progress.Nop{}
	}
	opts.Enhance = opts.Enhance.WithDefaults()
	return &Generator{opts: opts, log: log}
}

// AddPage registers a page. An empty title falls back to the id.
func (g *Generator) AddPage(id, title, content string) {
	g.Add(Page{ID: id, Title: title, Content: content})
}

// Add registers a fully populated page.
func (g *Generator) Add(p Page) {
	if p.Title == "" {
		p.Title = p.ID
	}
	if p.Hash == "" {
		sum := sha256.Sum256([]byte(p.Content))
		p.Hash = hex.EncodeToString(sum[:])
	}
	g.pages = append(g.pages, p)
}

// checkUniqueIDs fails when two registered pages share an id, since the
// second would overwrite the first's output file.
func (g *Generator) checkUniqueIDs() error {
	seen := make(map[string]bool, len(g.pages))
	var errs error
	for _, p := range g.pages {
		if seen[p.ID] {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q", ErrDuplicatePage, p.ID))
			continue
		}
		seen[p.ID] = true
	}
	return errs
}

// Pages returns the registered pages in their current order.
func (g *Generator) Pages() []Page {
	out := make([]Page, len(g.pages))
	copy(out, g.pages)
	return out
}

// layoutData is what the templates see.
type layoutData struct {
	DocTitle string
	Manual   string
	Author   string
	Pages    []Page
	Page     Page
	Content  template.HTML
}

// Generate sorts the pages and writes the whole manual to the output
// directory. Per-page failures do not stop the build; they are returned
// together once every page has been attempted.
func (g *Generator) Generate(ctx context.Context) (Stats, error) {
	start := time.Now()
	var stats Stats

	if g.opts.OutputDir == "" {
		return stats, ErrNoOutputDir
	}
	if err := g.checkUniqueIDs(); err != nil {
		return stats, err
	}

	g.sortPages()

	for _, dir := range []string{"css", "js"} {
		if err := os.MkdirAll(filepath.Join(g.opts.OutputDir, dir), 0o755); err != nil {
			return stats, fmt.Errorf("creating output directory: %w", err)
		}
	}

	css := g.asset(g.opts.CSSFile, cssContent, "stylesheet")
	js := g.asset(g.opts.JSFile, jsContent, "script")
	if err := writeFile(filepath.Join(g.opts.OutputDir, "css", "style.css"), css); err != nil {
		return stats, err
	}
	if err := writeFile(filepath.Join(g.opts.OutputDir, "js", "script.js"), js); err != nil {
		return stats, err
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return stats, err
	}

	signature := g.signature(css, js)
	var build *buildcache.Build
	if g.opts.Cache != nil {
		build, err = g.opts.Cache.BeginBuild(ctx, signature)
		if err != nil {
			g.log.Warn("build cache unavailable", zap.Error(err))
		} else {
			stats.BuildID = build.ID
		}
	}

	var errs error
	if err := g.writeIndex(tmpl); err != nil {
		errs = multierr.Append(errs, err)
	}

	g.opts.Reporter.Start(len(g.pages))
	for i := range g.pages {
		if err := ctx.Err(); err != nil {
			errs = multierr.Append(errs, err)
			break
		}
		p := &g.pages[i]
		g.opts.Reporter.Update(i+1, p.ID)

		unchanged := g.unchanged(ctx, p, signature)
		if err := g.writePage(tmpl, p); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("page %s: %w", p.ID, err))
			continue
		}
		stats.Pages++
		if unchanged {
			stats.Unchanged++
		}
		g.log.Debug("page written",
			zap.String("id", p.ID),
			zap.Int("toc_entries", len(p.TOC)),
			zap.Bool("unchanged", unchanged))

		if build != nil {
			rec := buildcache.PageRecord{
				PageID:     p.ID,
				SourceHash: p.Hash,
				OutputPath: p.Filename(),
				Unchanged:  unchanged,
			}
			if err := g.opts.Cache.RecordPage(ctx, build.ID, rec); err != nil {
				g.log.Warn("recording page", zap.String("id", p.ID), zap.Error(err))
			}
		}
	}
	g.opts.Reporter.Finish()

	if g.opts.Search {
		if err := WriteSearchIndex(BuildSearchIndex(g.pages), filepath.Join(g.opts.OutputDir, SearchIndexFile)); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if build != nil {
		status := buildcache.StatusSucceeded
		if errs != nil {
			status = buildcache.StatusFailed
		}
		// The build outcome is recorded even when ctx was cancelled.
		if err := g.opts.Cache.FinishBuild(context.WithoutCancel(ctx), build.ID, status, stats.Pages); err != nil {
			g.log.Warn("finishing build record", zap.Error(err))
		}
	}

	stats.Duration = time.Since(start)
	return stats, errs
}

func (g *Generator) sortPages() {
	switch g.opts.Sort {
	case SortNatural:
		sort.SliceStable(g.pages, func(i, j int) bool {
			return natural.Less(g.pages[i].Title, g.pages[j].Title)
		})
	case SortWeight:
		sort.SliceStable(g.pages, func(i, j int) bool {
			a, b := g.pages[i], g.pages[j]
			if a.Weight != b.Weight {
				return a.Weight < b.Weight
			}
			return a.Title < b.Title
		})
	default:
		sort.SliceStable(g.pages, func(i, j int) bool {
			return g.pages[i].Title < g.pages[j].Title
		})
	}
}

// asset returns the override file's content, or the embedded fallback when
// no override is set or it cannot be read.
func (g *Generator) asset(path, fallback, kind string) string {
	if path == "" {
		return fallback
	}
	data, err := os.ReadFile(path)
	if err != nil {
		g.log.Warn("could not open "+kind+" template, using built-in",
			zap.String("path", path), zap.Error(err))
		return fallback
	}
	return string(data)
}

// signature identifies everything besides a page's own source that ends up
// in its output: the manual metadata, the navigation and the assets.
func (g *Generator) signature(css, js string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%t\x00%+v\x00", g.opts.Title, g.opts.Author, g.opts.Prerender, g.opts.Enhance)
	for _, p := range g.pages {
		fmt.Fprintf(h, "%s\x00%s\x00", p.ID, p.Title)
	}
	h.Write([]byte(css))
	h.Write([]byte(js))
	return hex.EncodeToString(h.Sum(nil))
}

func (g *Generator) unchanged(ctx context.Context, p *Page, signature string) bool {
	if g.opts.Cache == nil {
		return false
	}
	hash, ok, err := g.opts.Cache.LastHash(ctx, p.ID, signature)
	if err != nil {
		g.log.Debug("cache lookup failed", zap.String("id", p.ID), zap.Error(err))
		return false
	}
	return ok && hash == p.Hash
}

func (g *Generator) writeIndex(tmpl *template.Template) error {
	data := layoutData{
		DocTitle: g.opts.Title,
		Manual:   g.opts.Title,
		Author:   g.opts.Author,
		Pages:    g.pages,
	}
	out, _, err := g.render(tmpl, "index", IndexFile, data)
	if err != nil {
		return fmt.Errorf("index page: %w", err)
	}
	return writeFile(filepath.Join(g.opts.OutputDir, IndexFile), out)
}

func (g *Generator) writePage(tmpl *template.Template, p *Page) error {
	data := layoutData{
		DocTitle: p.Title + " - " + g.opts.Title,
		Manual:   g.opts.Title,
		Pages:    g.pages,
		Page:     *p,
		Content:  template.HTML(p.Content),
	}
	out, toc, err := g.render(tmpl, "page", p.Filename(), data)
	if err != nil {
		return err
	}
	p.TOC = toc
	return writeFile(filepath.Join(g.opts.OutputDir, p.Filename()), out)
}

// render executes a template, points links to markdown sources at their
// pages and, when pre-rendering, runs the enhancer over the result as if the
// page were loaded from /<filename>.
func (g *Generator) render(tmpl *template.Template, name, filename string, data layoutData) (string, enhance.TOC, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", nil, fmt.Errorf("executing %s template: %w", name, err)
	}

	doc, err := dom.Parse(&buf)
	if err != nil {
		return "", nil, fmt.Errorf("parsing rendered page: %w", err)
	}
	if name == "page" {
		rewriteSourceLinks(doc, data.Page.Source)
	}
	g.annotateTOC(doc)
	if !g.opts.Prerender {
		return doc.String(), enhance.Outline(doc, g.opts.Enhance), nil
	}

	res := enhance.Init(doc, "/"+filename, g.opts.Enhance)
	g.log.Debug("page enhanced",
		zap.String("file", filename),
		zap.Int("highlighted", res.Highlighted),
		zap.Bool("toc", res.TOCBuilt))
	return doc.String(), res.TOC, nil
}

// annotateTOC copies the TOC settings onto the container as data attributes
// for the browser script. A pre-rendered container is marked final so the
// script leaves it alone even when nothing was listed.
func (g *Generator) annotateTOC(doc *dom.Document) {
	container := doc.GetElementByID(g.opts.Enhance.ContainerID)
	if container == nil {
		return
	}
	container.SetAttr("data-title", g.opts.Enhance.Title)
	container.SetAttr("data-headings", g.opts.Enhance.HeadingSelector)
	container.SetAttr("data-missing-ids", string(g.opts.Enhance.MissingID))
	if g.opts.Prerender {
		container.SetAttr("data-rendered", "true")
	}
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("layout").Parse(layoutTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing layout template: %w", err)
	}
	if _, err := tmpl.New("index").Parse(indexTemplate); err != nil {
		return nil, fmt.Errorf("parsing index template: %w", err)
	}
	if _, err := tmpl.New("page").Parse(pageTemplate); err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	return tmpl, nil
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
