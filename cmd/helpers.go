package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ziadkadry99/mdmanual/internal/buildcache"
	"github.com/ziadkadry99/mdmanual/internal/config"
	"github.com/ziadkadry99/mdmanual/internal/enhance"
	"github.com/ziadkadry99/mdmanual/internal/markdown"
	"github.com/ziadkadry99/mdmanual/internal/progress"
	"github.com/ziadkadry99/mdmanual/internal/site"
	"github.com/ziadkadry99/mdmanual/internal/walker"
)

// newLogger returns a console logger at debug level when verbose, and a
// production logger at warn level otherwise. Both write to stderr.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `mdmanual init` to create a config file", err)
	}
	return cfg, nil
}

// enhanceOptions maps the TOC settings onto the enhancer's options.
func enhanceOptions(cfg *config.Config) enhance.Options {
	return enhance.Options{
		Title:     cfg.TOC.Title,
		MissingID: cfg.TOC.MissingIDs,
	}.WithDefaults()
}

func walkerConfig(cfg *config.Config) walker.Config {
	return walker.Config{
		RootDir:   cfg.InputDir,
		Recursive: cfg.Recursive,
		Include:   cfg.Include,
		Exclude:   cfg.Exclude,
	}
}

// cachePath resolves the cache database path against the output directory.
func cachePath(cfg *config.Config) string {
	if filepath.IsAbs(cfg.Cache.Path) {
		return cfg.Cache.Path
	}
	return filepath.Join(cfg.OutputDir, cfg.Cache.Path)
}

// buildManual runs one complete build: discover sources, convert them and
// write the manual. The returned pages carry their tables of contents.
func buildManual(ctx context.Context, cfg *config.Config, reporter progress.Reporter) (site.Stats, []site.Page, error) {
	sources, err := walker.Walk(walkerConfig(cfg))
	if err != nil {
		return site.Stats{}, nil, fmt.Errorf("input directory %s: %w", cfg.InputDir, err)
	}
	if len(sources) == 0 {
		return site.Stats{}, nil, fmt.Errorf("no markdown files found in %s", cfg.InputDir)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return site.Stats{}, nil, fmt.Errorf("creating output directory: %w", err)
	}

	var cache *buildcache.Cache
	if cfg.Cache.Enabled {
		cache, err = buildcache.Open(cachePath(cfg))
		if err != nil {
			logger.Warn("build cache disabled", zap.Error(err))
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	gen := site.New(site.Options{
		Title:     cfg.Title,
		Author:    cfg.Author,
		OutputDir: cfg.OutputDir,
		Sort:      string(cfg.Sort),
		Prerender: cfg.Prerender,
		Search:    cfg.Search,
		CSSFile:   cfg.Templates.CSS,
		JSFile:    cfg.Templates.JS,
		Enhance:   enhanceOptions(cfg),
		Cache:     cache,
		Reporter:  reporter,
	}, logger)

	conv := markdown.NewConverter(cfg.Highlight)
	if err := gen.AddSources(sources, conv); err != nil {
		logger.Warn("some sources were skipped", zap.Error(err))
	}

	stats, err := gen.Generate(ctx)
	return stats, gen.Pages(), err
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
