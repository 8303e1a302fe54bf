package config

import "github.com/ziadkadry99/mdmanual/internal/enhance"

// SortOrder controls how pages are ordered in the navigation.
type SortOrder string

const (
	SortTitle   SortOrder = "title"
	SortNatural SortOrder = "natural"
	SortWeight  SortOrder = "weight"
)

// Config is the top-level mdmanual configuration, corresponding to .mdmanual.yml.
type Config struct {
	Title     string          `yaml:"title" koanf:"title"`
	Author    string          `yaml:"author" koanf:"author"`
	InputDir  string          `yaml:"input_dir" koanf:"input_dir"`
	OutputDir string          `yaml:"output_dir" koanf:"output_dir"`
	Recursive bool            `yaml:"recursive" koanf:"recursive"`
	Include   []string        `yaml:"include" koanf:"include"`
	Exclude   []string        `yaml:"exclude" koanf:"exclude"`
	Sort      SortOrder       `yaml:"sort" koanf:"sort"`
	Highlight string          `yaml:"highlight" koanf:"highlight"`
	Prerender bool            `yaml:"prerender" koanf:"prerender"`
	Search    bool            `yaml:"search" koanf:"search"`
	TOC       TOCConfig       `yaml:"toc" koanf:"toc"`
	Templates TemplatesConfig `yaml:"templates" koanf:"templates"`
	Serve     ServeConfig     `yaml:"serve" koanf:"serve"`
	Cache     CacheConfig     `yaml:"cache" koanf:"cache"`
}

// TOCConfig holds table-of-contents settings.
type TOCConfig struct {
	Title      string                  `yaml:"title" koanf:"title"`
	MissingIDs enhance.MissingIDPolicy `yaml:"missing_ids" koanf:"missing_ids"`
}

// TemplatesConfig points at optional stylesheet/script overrides.
type TemplatesConfig struct {
	CSS string `yaml:"css" koanf:"css"`
	JS  string `yaml:"js" koanf:"js"`
}

// ServeConfig holds preview server settings.
type ServeConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	Open            bool `yaml:"open" koanf:"open"`
	Watch           bool `yaml:"watch" koanf:"watch"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// CacheConfig controls the build history database.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" koanf:"enabled"`
	Path    string `yaml:"path" koanf:"path"` // relative paths resolve against output_dir
}
