// Package facts holds the per-request session overlay: the user's goal, time
// budget, level, learning style, and the known and completed topic sets.
// A Session belongs to exactly one request and is never shared.
package facts

import (
	"fmt"
	"slices"
	"strings"

	"learnpath/internal/kb"
	"learnpath/internal/logging"
	"learnpath/internal/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Level is the user's self-assessed experience.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Style is the user's preferred learning style.
type Style string

const (
	StylePractical   Style = "practical"
	StyleTheoretical Style = "theoretical"
	StyleVisual      Style = "visual"
	StyleMixed       Style = "mixed"
)

// Levels and Styles list the accepted values.
var (
	Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}
	Styles = []Style{StylePractical, StyleTheoretical, StyleVisual, StyleMixed}
)

// Session is the mutable fact overlay for one request.
type Session struct {
	id         string
	goal       string
	timeBudget int
	level      Level
	style      Style
	known      map[string]struct{}
	completed  map[string]struct{}
}

// NewSession returns an empty session with the default level and style.
func NewSession() *Session {
	s := &Session{id: uuid.NewString()}
	s.clear()
	return s
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// Reset clears every fact.
func (s *Session) Reset() {
	n := len(s.known) + len(s.completed)
	s.clear()
	logging.AuditWithSession(s.id).FactsReset(n)
}

func (s *Session) clear() {
	s.goal = ""
	s.timeBudget = 0
	s.level = LevelBeginner
	s.style = StylePractical
	s.known = make(map[string]struct{})
	s.completed = make(map[string]struct{})
}

// SetGoal records the goal name.
func (s *Session) SetGoal(goal string) error {
	g := kb.NormalizeID(goal)
	if !kb.ValidID(g) {
		return fmt.Errorf("goal %q: %w", goal, types.ErrInvalidInput)
	}
	s.goal = g
	return nil
}

// SetTimeBudget records the available hours.
func (s *Session) SetTimeBudget(hours int) error {
	if hours < 0 {
		return fmt.Errorf("time budget %d: must not be negative: %w", hours, types.ErrInvalidInput)
	}
	s.timeBudget = hours
	return nil
}

// SetLevel records the user level.
func (s *Session) SetLevel(level string) error {
	l := Level(kb.NormalizeID(level))
	if !slices.Contains(Levels, l) {
		return fmt.Errorf("level %q: %w", level, types.ErrInvalidInput)
	}
	s.level = l
	return nil
}

// SetStyle records the learning style.
func (s *Session) SetStyle(style string) error {
	st := Style(kb.NormalizeID(style))
	if !slices.Contains(Styles, st) {
		return fmt.Errorf("learning style %q: %w", style, types.ErrInvalidInput)
	}
	s.style = st
	return nil
}

// DeclareKnown adds topics to the known set. Either every id is accepted or
// the session is left untouched.
func (s *Session) DeclareKnown(ids ...string) error {
	norm, err := normalizeAll(ids)
	if err != nil {
		return fmt.Errorf("declare known: %w", err)
	}
	for _, id := range norm {
		s.known[id] = struct{}{}
	}
	logging.SessionDebug("declared known", zap.String("session", s.id), zap.Strings("topics", norm))
	return nil
}

// DeclareComplete marks topics as completed, all-or-nothing.
func (s *Session) DeclareComplete(ids ...string) error {
	norm, err := normalizeAll(ids)
	if err != nil {
		return fmt.Errorf("declare complete: %w", err)
	}
	for _, id := range norm {
		s.completed[id] = struct{}{}
	}
	return nil
}

// ForgetKnown removes a topic from the known set. Forgetting a topic that
// was never known succeeds.
func (s *Session) ForgetKnown(id string) error {
	n := kb.NormalizeID(id)
	if !kb.ValidID(n) {
		return fmt.Errorf("forget known %q: %w", id, types.ErrInvalidInput)
	}
	delete(s.known, n)
	logging.AuditWithSession(s.id).FactForgotten(n)
	return nil
}

// ParseSkills splits a comma separated skill list, dropping empty entries.
func ParseSkills(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeAll(ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	for _, raw := range ids {
		id := kb.NormalizeID(raw)
		if id == "" {
			continue
		}
		if !kb.ValidID(id) {
			return nil, fmt.Errorf("topic id %q: %w", raw, types.ErrInvalidInput)
		}
		out = append(out, id)
	}
	return out, nil
}

func (s *Session) Goal() string    { return s.goal }
func (s *Session) TimeBudget() int { return s.timeBudget }
func (s *Session) Level() Level    { return s.level }
func (s *Session) Style() Style    { return s.style }

// IsKnown reports whether id is in the known set.
func (s *Session) IsKnown(id string) bool {
	_, ok := s.known[id]
	return ok
}

// IsComplete reports whether id was marked completed.
func (s *Session) IsComplete(id string) bool {
	_, ok := s.completed[id]
	return ok
}

// Known returns a copy of the known set.
func (s *Session) Known() map[string]bool {
	out := make(map[string]bool, len(s.known))
	for id := range s.known {
		out[id] = true
	}
	return out
}

// KnownList returns the known topics sorted.
func (s *Session) KnownList() []string {
	out := make([]string, 0, len(s.known))
	for id := range s.known {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// CompletedList returns the completed topics sorted.
func (s *Session) CompletedList() []string {
	out := make([]string, 0, len(s.completed))
	for id := range s.completed {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
