package config

import "github.com/ziadkadry99/mdmanual/internal/enhance"

// DefaultConfigFile is the config path used when --config is not given.
const DefaultConfigFile = ".mdmanual.yml"

// DefaultExcludes are glob patterns never treated as manual pages.
var DefaultExcludes = []string{
	"node_modules/**",
	".git/**",
	"vendor/**",
	"CHANGELOG.md",
	"LICENSE.md",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Title:     "Reference Manual",
		InputDir:  "docs",
		OutputDir: "manual",
		Include:   []string{"**/*.md"},
		Exclude:   DefaultExcludes,
		Sort:      SortTitle,
		Highlight: "github",
		Prerender: true,
		Search:    true,
		TOC: TOCConfig{
			Title:      "Table of Contents",
			MissingIDs: enhance.MissingIDPreserve,
		},
		Serve: ServeConfig{
			Port:  8080,
			Watch: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    ".mdmanual/cache.db",
		},
	}
}
