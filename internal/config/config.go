package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"

	apperrors "cratemap/internal/core/errors"
)

type Config struct {
	PackageName     string  `toml:"package_name"`
	RegistryURL     string  `toml:"registry_url"`
	TestMode        bool    `toml:"test_mode"`
	MaxDepth        int     `toml:"max_depth"`
	FilterSubstring string  `toml:"filter_substring"`
	Exclude         Exclude `toml:"exclude"`
	Output          Output  `toml:"output"`
	Fetch           Fetch   `toml:"fetch"`
	History         History `toml:"history"`
	Observability   Obs     `toml:"observability"`
	Watch           Watch   `toml:"watch"`
}

type Exclude struct {
	Crates []string `toml:"crates"` // glob patterns, dropped wholesale
}

type Output struct {
	Markdown string `toml:"markdown"`
	TSV      string `toml:"tsv"`
	DOT      string `toml:"dot"`
}

type Fetch struct {
	Timeout time.Duration `toml:"timeout"`
	Rate    float64       `toml:"rate"`
	Burst   int           `toml:"burst"`
}

type History struct {
	Path string `toml:"path"` // "" disables run history
}

type Obs struct {
	Addr         string `toml:"addr"`          // promhttp + health listener, "" disables
	OTLPEndpoint string `toml:"otlp_endpoint"` // trace exporter, "" disables
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeConfig, "read config file")
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeConfig, "parse config file")
	}

	// An absent max_depth means unlimited; an explicit 0 is a valid bound.
	if !md.IsDefined("max_depth") {
		cfg.MaxDepth = -1
	}

	// The default only covers an absent key. An explicit empty registry_url
	// must still fail validation outside test mode.
	if !md.IsDefined("registry_url") {
		cfg.RegistryURL = "https://crates.io"
	}
	if cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = 10 * time.Second
	}
	if cfg.Fetch.Rate == 0 {
		cfg.Fetch.Rate = 2
	}
	if cfg.Fetch.Burst == 0 {
		cfg.Fetch.Burst = 1
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.PackageName == "" {
		return apperrors.New(apperrors.CodeConfig, "package_name is required")
	}
	if c.MaxDepth < -1 {
		return apperrors.Newf(apperrors.CodeConfig, "max_depth must be -1 (unlimited) or >= 0, got %d", c.MaxDepth)
	}
	if !c.TestMode && c.RegistryURL == "" {
		return apperrors.New(apperrors.CodeConfig, "registry_url is required when test_mode is false")
	}
	if _, err := c.CompileExcludes(); err != nil {
		return err
	}
	return nil
}

// CompileExcludes compiles the exclude patterns once per build.
func (c *Config) CompileExcludes() ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(c.Exclude.Crates))
	for _, pattern := range c.Exclude.Crates {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeConfig, "invalid exclude pattern "+pattern)
		}
		globs = append(globs, g)
	}
	return globs, nil
}
