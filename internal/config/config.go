package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/apbook-dev/apbook/internal/importer"
)

// Config represents the top-level apbook.yaml configuration.
type Config struct {
	Source SourceConfig `yaml:"source"`
	Parser ParserConfig `yaml:"parser"`
}

// SourceConfig locates the advance/prepayment export to load.
type SourceConfig struct {
	Path string `yaml:"path"`
}

// ParserConfig overrides the parser's detection and coercion strategy.
// Empty lists keep the built-in markers; Strict surfaces every numeric or
// date coercion as a warning for data-quality review.
type ParserConfig struct {
	HeaderMarkers []string `yaml:"header_markers,omitempty"`
	DataMarkers   []string `yaml:"data_markers,omitempty"`
	RowSentinels  []string `yaml:"row_sentinels,omitempty"`
	Strict        bool     `yaml:"strict"`
}

// Load reads an apbook.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Source: SourceConfig{Path: "advance-payments.csv"},
	}
}

// NewParser builds an importer.Parser with this config's overrides
// applied on top of the defaults.
func (c *Config) NewParser() *importer.Parser {
	p := importer.New()
	if len(c.Parser.HeaderMarkers) > 0 {
		p.Header.HeaderMarkers = c.Parser.HeaderMarkers
	}
	if len(c.Parser.DataMarkers) > 0 {
		p.Header.DataMarkers = c.Parser.DataMarkers
	}
	if len(c.Parser.RowSentinels) > 0 {
		p.Sentinels = c.Parser.RowSentinels
	}
	p.Policy.Strict = c.Parser.Strict
	return p
}
