package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"learnpath/internal/types"

	"gopkg.in/yaml.v3"
)

// Config holds all learnpath configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Knowledge base source
	KB KBConfig `yaml:"kb"`

	// Search and analytics bounds
	Limits LimitsConfig `yaml:"limits"`

	// A* and enumeration defaults
	Search SearchConfig `yaml:"search"`

	// Relational analytics
	Analytics AnalyticsConfig `yaml:"analytics"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// KB source kinds.
const (
	SourceEmbedded = "embedded"
	SourceYAML     = "yaml"
	SourceSQLite   = "sqlite"
)

// ValidSources lists the supported knowledge base sources.
var ValidSources = []string{SourceEmbedded, SourceYAML, SourceSQLite}

// KBConfig selects where the knowledge base comes from.
type KBConfig struct {
	Source string `yaml:"source"` // embedded, yaml, sqlite
	Path   string `yaml:"path"`   // file for yaml and sqlite sources
}

// SearchConfig configures graph searches.
type SearchConfig struct {
	Heuristic       string `yaml:"heuristic"`         // goal_duration, duration, zero
	DefaultMaxDepth int    `yaml:"default_max_depth"` // enumeration depth when none is given
}

// AnalyticsConfig bounds the relational analytics report.
type AnalyticsConfig struct {
	DurationPairCap   int    `yaml:"duration_pair_cap"`
	DifficultyPairCap int    `yaml:"difficulty_pair_cap"`
	ShortThreshold    int    `yaml:"short_threshold"` // hours; short < threshold <= long
	UniversalTopic    string `yaml:"universal_topic"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "learnpath",
		Version: "1.0.0",

		KB: KBConfig{
			Source: SourceEmbedded,
		},

		Limits: DefaultLimits(),

		Search: SearchConfig{
			Heuristic:       "goal_duration",
			DefaultMaxDepth: 4,
		},

		Analytics: AnalyticsConfig{
			DurationPairCap:   15,
			DifficultyPairCap: 10,
			ShortThreshold:    8,
			UniversalTopic:    "react",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("LEARNPATH_KB_PATH"); path != "" {
		c.KB.Path = path
		if c.KB.Source == SourceEmbedded || c.KB.Source == "" {
			c.KB.Source = SourceYAML
		}
	}
	if source := os.Getenv("LEARNPATH_KB_SOURCE"); source != "" {
		c.KB.Source = source
	}
	if level := os.Getenv("LEARNPATH_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
		c.Logging.DebugMode = true
	}
	if h := os.Getenv("LEARNPATH_HEURISTIC"); h != "" {
		c.Search.Heuristic = h
	}
}

// ValidHeuristics lists the accepted A* heuristic names.
var ValidHeuristics = []string{"goal_duration", "duration", "zero"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !slices.Contains(ValidSources, c.KB.Source) {
		return fmt.Errorf("invalid kb source: %s (valid: %v): %w", c.KB.Source, ValidSources, types.ErrInvalidInput)
	}
	if c.KB.Source != SourceEmbedded && c.KB.Path == "" {
		return fmt.Errorf("kb source %s needs kb.path (or LEARNPATH_KB_PATH): %w", c.KB.Source, types.ErrInvalidInput)
	}
	if !slices.Contains(ValidHeuristics, c.Search.Heuristic) {
		return fmt.Errorf("invalid heuristic: %s (valid: %v): %w", c.Search.Heuristic, ValidHeuristics, types.ErrInvalidInput)
	}
	if c.Search.DefaultMaxDepth < 1 {
		return fmt.Errorf("search.default_max_depth must be >= 1: %w", types.ErrInvalidInput)
	}
	if c.Analytics.ShortThreshold < 1 {
		return fmt.Errorf("analytics.short_threshold must be >= 1: %w", types.ErrInvalidInput)
	}
	if err := c.ValidateLimits(); err != nil {
		return err
	}
	return c.Logging.Validate()
}
