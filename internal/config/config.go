package config

import (
	"fmt"
	"runtime"

	"github.com/srcschema/srcschema/internal/treesit"
)

// Config represents the complete extraction configuration.
// It can be loaded from srcschema.yml with environment variable overrides.
type Config struct {
	Languages []string      `yaml:"languages" mapstructure:"languages"`
	Paths     PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Crawl     CrawlConfig   `yaml:"crawl" mapstructure:"crawl"`
	Output    OutputConfig  `yaml:"output" mapstructure:"output"`
	Dedupe    DedupeConfig  `yaml:"dedupe" mapstructure:"dedupe"`
	License   LicenseConfig `yaml:"license" mapstructure:"license"`
}

// PathsConfig defines which files to extract and which to skip.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for source files
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to skip
}

// CrawlConfig controls repository cloning and worker parallelism.
type CrawlConfig struct {
	Workers     int    `yaml:"workers" mapstructure:"workers"`             // concurrent file workers
	CloneDir    string `yaml:"clone_dir" mapstructure:"clone_dir"`         // where remote repos are cloned
	CloneDepth  int    `yaml:"clone_depth" mapstructure:"clone_depth"`     // shallow clone depth, 0 = full
	MaxFileSize int64  `yaml:"max_file_size" mapstructure:"max_file_size"` // bytes, larger files are skipped
}

// OutputConfig defines where extraction records are written.
type OutputConfig struct {
	Path     string `yaml:"path" mapstructure:"path"`         // output file, "-" for stdout
	Compress bool   `yaml:"compress" mapstructure:"compress"` // gzip the JSONL stream
}

// DedupeConfig controls content-hash deduplication across files.
type DedupeConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"` // sqlite index location
}

// LicenseConfig controls license header handling.
type LicenseConfig struct {
	Strip bool `yaml:"strip" mapstructure:"strip"` // capture and remove leading license headers
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	langs := make([]string, 0, len(treesit.Languages()))
	for _, l := range treesit.Languages() {
		langs = append(langs, string(l))
	}
	return &Config{
		Languages: langs,
		Paths: PathsConfig{
			Include: []string{"**"},
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				".git/**",
				"dist/**",
				"build/**",
				"target/**",
				"__pycache__/**",
				"*.min.js",
			},
		},
		Crawl: CrawlConfig{
			Workers:     runtime.NumCPU(),
			CloneDir:    "",
			CloneDepth:  1,
			MaxFileSize: 2 << 20,
		},
		Output: OutputConfig{
			Path:     "records.jsonl.gz",
			Compress: true,
		},
		Dedupe: DedupeConfig{
			Enabled: false,
			Path:    "dedupe.db",
		},
		License: LicenseConfig{
			Strip: true,
		},
	}
}

// Validate checks the configuration for contradictions before a crawl.
func (c *Config) Validate() error {
	if len(c.Languages) == 0 {
		return fmt.Errorf("config: no languages selected")
	}
	for _, tag := range c.Languages {
		if _, err := treesit.ParseLanguage(tag); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if c.Crawl.Workers < 1 {
		return fmt.Errorf("config: workers must be >= 1, got %d", c.Crawl.Workers)
	}
	if c.Output.Path == "" {
		return fmt.Errorf("config: output path is empty")
	}
	if c.Dedupe.Enabled && c.Dedupe.Path == "" {
		return fmt.Errorf("config: dedupe enabled without an index path")
	}
	return nil
}

// SelectedLanguages resolves the configured language tags. Dialect tags
// collapse onto their family, so "tsx" selects the typescript coverage.
func (c *Config) SelectedLanguages() ([]treesit.Language, error) {
	out := make([]treesit.Language, 0, len(c.Languages))
	for _, tag := range c.Languages {
		lang, err := treesit.ParseLanguage(tag)
		if err != nil {
			return nil, err
		}
		out = append(out, lang.Family())
	}
	return out, nil
}
