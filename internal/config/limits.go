package config

import (
	"fmt"

	"learnpath/internal/types"
)

// LimitsConfig bounds the work a single request may do.
type LimitsConfig struct {
	MaxPlanIterations   int `yaml:"max_plan_iterations" json:"max_plan_iterations"`     // Kahn loop ceiling
	MaxEnumeratedPaths  int `yaml:"max_enumerated_paths" json:"max_enumerated_paths"`   // enumerator result cap
	MaxEnumerationDepth int `yaml:"max_enumeration_depth" json:"max_enumeration_depth"` // largest depth a caller may ask for
	ClosureLimit        int `yaml:"closure_limit" json:"closure_limit"`                 // ids per prerequisite closure
	ClosureMapTopics    int `yaml:"closure_map_topics" json:"closure_map_topics"`       // topics per closure map
}

// DefaultLimits returns the default bounds.
func DefaultLimits() LimitsConfig {
	return LimitsConfig{
		MaxPlanIterations:   10000,
		MaxEnumeratedPaths:  1000,
		MaxEnumerationDepth: 8,
		ClosureLimit:        256,
		ClosureMapTopics:    5,
	}
}

// ValidateLimits checks that limits are within acceptable ranges.
func (c *Config) ValidateLimits() error {
	l := c.Limits
	if l.MaxPlanIterations < 1 {
		return fmt.Errorf("max_plan_iterations must be >= 1: %w", types.ErrInvalidInput)
	}
	if l.MaxEnumeratedPaths < 1 {
		return fmt.Errorf("max_enumerated_paths must be >= 1: %w", types.ErrInvalidInput)
	}
	if l.MaxEnumerationDepth < 1 {
		return fmt.Errorf("max_enumeration_depth must be >= 1: %w", types.ErrInvalidInput)
	}
	if c.Search.DefaultMaxDepth > l.MaxEnumerationDepth {
		return fmt.Errorf("search.default_max_depth %d exceeds max_enumeration_depth %d: %w",
			c.Search.DefaultMaxDepth, l.MaxEnumerationDepth, types.ErrInvalidInput)
	}
	if l.ClosureLimit < 1 {
		return fmt.Errorf("closure_limit must be >= 1: %w", types.ErrInvalidInput)
	}
	if l.ClosureMapTopics < 0 {
		return fmt.Errorf("closure_map_topics must be >= 0: %w", types.ErrInvalidInput)
	}
	return nil
}
