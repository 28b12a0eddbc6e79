package config

import (
	"fmt"
	"slices"

	"learnpath/internal/logging"
	"learnpath/internal/types"
)

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level" json:"level,omitempty"`           // debug, info, warn, error
	Format     string          `yaml:"format" json:"format,omitempty"`         // json, text
	File       string          `yaml:"file" json:"file,omitempty"`             // empty = stderr
	DebugMode  bool            `yaml:"debug_mode" json:"debug_mode,omitempty"` // false = warnings and errors only
	Categories map[string]bool `yaml:"categories" json:"categories,omitempty"` // Per-category toggles
}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Returns true if the category is enabled or not specified.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}

// Validate checks level and format.
func (c *LoggingConfig) Validate() error {
	if !slices.Contains([]string{"", "debug", "info", "warn", "warning", "error"}, c.Level) {
		return fmt.Errorf("invalid log level: %s: %w", c.Level, types.ErrInvalidInput)
	}
	if !slices.Contains([]string{"", "json", "text"}, c.Format) {
		return fmt.Errorf("invalid log format: %s: %w", c.Format, types.ErrInvalidInput)
	}
	return nil
}

// LoggerConfig converts to the logging package's config.
func (c *LoggingConfig) LoggerConfig() logging.Config {
	return logging.Config{
		Level:      c.Level,
		Format:     c.Format,
		DebugMode:  c.DebugMode,
		Categories: c.Categories,
		OutputPath: c.File,
	}
}
