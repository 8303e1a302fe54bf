package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/multierr"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "MDMANUAL_"

// Load starts from DefaultConfig, merges the YAML file at path when it
// exists, then applies MDMANUAL_* environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	switch _, err := os.Stat(path); {
	case err == nil:
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// envKey maps MDMANUAL_SERVE__PORT to serve.port.
func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// ErrInvalid wraps every problem Validate reports.
var ErrInvalid = errors.New("invalid config")

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs error
	fail := func(format string, args ...any) {
		errs = multierr.Append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Title == "" {
		fail("title is required")
	}
	if c.InputDir == "" {
		fail("input_dir is required")
	}
	if c.OutputDir == "" {
		fail("output_dir is required")
	}
	switch c.Sort {
	case "", SortTitle, SortNatural, SortWeight:
	default:
		fail("sort %q must be one of title, natural, weight", c.Sort)
	}
	if c.TOC.MissingIDs != "" && !c.TOC.MissingIDs.Valid() {
		fail("toc.missing_ids %q must be preserve or skip", c.TOC.MissingIDs)
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		fail("serve.port %d out of range", c.Serve.Port)
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		fail("cache.path is required when the cache is enabled")
	}
	return errs
}
