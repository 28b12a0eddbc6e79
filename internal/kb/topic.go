// Package kb holds the read-only topic knowledge base: topics with their
// prerequisite edges, goals, and AND/OR strategies. A KnowledgeBase is
// immutable once built and safe to share across goroutines.
package kb

import (
	"fmt"
	"strings"

	"learnpath/internal/types"
)

// Difficulty is a topic's difficulty level.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Difficulties lists the levels in ascending order.
var Difficulties = []Difficulty{Beginner, Intermediate, Advanced}

// ParseDifficulty normalizes s and checks it names a level.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if d.Rank() < 0 {
		return "", fmt.Errorf("difficulty %q: %w", s, types.ErrInvalidInput)
	}
	return d, nil
}

// Rank orders levels from 0 (beginner); unknown levels rank -1.
func (d Difficulty) Rank() int {
	for i, v := range Difficulties {
		if v == d {
			return i
		}
	}
	return -1
}

// Topic is a learnable unit.
type Topic struct {
	ID            string     `yaml:"id" json:"id"`
	Prerequisites []string   `yaml:"prerequisites" json:"prerequisites"`
	Duration      int        `yaml:"duration" json:"duration"` // hours
	Difficulty    Difficulty `yaml:"difficulty" json:"difficulty"`
	Category      string     `yaml:"category" json:"category"`
	Description   string     `yaml:"description" json:"description"`
}

func (t Topic) clone() Topic {
	t.Prerequisites = append([]string(nil), t.Prerequisites...)
	return t
}

// Goal is a named target made of a topic set.
type Goal struct {
	Name   string   `yaml:"name" json:"name"`
	Topics []string `yaml:"topics" json:"topics"`
}

// Strategy is one alternative for an AND/OR root: every requirement must be
// satisfied, at Cost plus the cost of the requirements.
type Strategy struct {
	Root     string   `json:"root"`
	Index    int      `json:"index"`
	Requires []string `json:"requires"`
	Cost     int      `json:"cost"`
}

// NormalizeID trims and lower-cases a user supplied identifier.
func NormalizeID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidID reports whether s is a well-formed identifier: a lower-case letter
// followed by lower-case letters, digits, or underscores.
func ValidID(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case i > 0 && (r >= '0' && r <= '9' || r == '_'):
		default:
			return false
		}
	}
	return true
}
