package kb

import (
	"errors"
	"fmt"
	"strings"

	"learnpath/internal/types"
)

// KnowledgeBase is an immutable topic graph. Accessors return copies.
type KnowledgeBase struct {
	version    string
	topics     []Topic
	index      map[string]int
	goals      []Goal
	goalIndex  map[string]int
	roots      []string
	strategies map[string][]Strategy
	dependents map[string][]string
}

// New validates and indexes the given data. It rejects duplicates, dangling
// references, malformed ids and non-positive durations. It does not check for
// prerequisite cycles; loaders call CheckAcyclic for that.
func New(version string, topics []Topic, goals []Goal, strategies []Strategy) (*KnowledgeBase, error) {
	k := &KnowledgeBase{
		version:    version,
		index:      make(map[string]int, len(topics)),
		goalIndex:  make(map[string]int, len(goals)),
		strategies: make(map[string][]Strategy),
		dependents: make(map[string][]string),
	}

	var errs []error
	for _, t := range topics {
		if !ValidID(t.ID) {
			errs = append(errs, fmt.Errorf("topic id %q: %w", t.ID, types.ErrInvalidInput))
			continue
		}
		if _, dup := k.index[t.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate topic %q: %w", t.ID, types.ErrInvalidInput))
			continue
		}
		if t.Duration <= 0 {
			errs = append(errs, fmt.Errorf("topic %q: duration must be positive, got %d: %w", t.ID, t.Duration, types.ErrInvalidInput))
		}
		if t.Difficulty.Rank() < 0 {
			errs = append(errs, fmt.Errorf("topic %q: difficulty %q: %w", t.ID, t.Difficulty, types.ErrInvalidInput))
		}
		k.index[t.ID] = len(k.topics)
		k.topics = append(k.topics, t.clone())
	}

	for _, t := range k.topics {
		seen := make(map[string]bool, len(t.Prerequisites))
		for _, p := range t.Prerequisites {
			if seen[p] {
				errs = append(errs, fmt.Errorf("topic %q lists prerequisite %q twice: %w", t.ID, p, types.ErrInvalidInput))
				continue
			}
			seen[p] = true
			if _, ok := k.index[p]; !ok {
				errs = append(errs, fmt.Errorf("topic %q prerequisite %q: %w", t.ID, p, types.ErrNotFound))
				continue
			}
			k.dependents[p] = append(k.dependents[p], t.ID)
		}
	}

	for _, g := range goals {
		if !ValidID(g.Name) {
			errs = append(errs, fmt.Errorf("goal name %q: %w", g.Name, types.ErrInvalidInput))
			continue
		}
		if _, dup := k.goalIndex[g.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate goal %q: %w", g.Name, types.ErrInvalidInput))
			continue
		}
		if len(g.Topics) == 0 {
			errs = append(errs, fmt.Errorf("goal %q has no topics: %w", g.Name, types.ErrInvalidInput))
		}
		members := make(map[string]bool, len(g.Topics))
		for _, id := range g.Topics {
			if _, ok := k.index[id]; !ok {
				errs = append(errs, fmt.Errorf("goal %q topic %q: %w", g.Name, id, types.ErrNotFound))
			}
			if members[id] {
				errs = append(errs, fmt.Errorf("goal %q lists topic %q twice: %w", g.Name, id, types.ErrInvalidInput))
			}
			members[id] = true
		}
		k.goalIndex[g.Name] = len(k.goals)
		k.goals = append(k.goals, Goal{Name: g.Name, Topics: append([]string(nil), g.Topics...)})
	}

	for _, s := range strategies {
		if !ValidID(s.Root) {
			errs = append(errs, fmt.Errorf("strategy root %q: %w", s.Root, types.ErrInvalidInput))
			continue
		}
		if _, clash := k.index[s.Root]; clash {
			errs = append(errs, fmt.Errorf("strategy root %q collides with a topic id: %w", s.Root, types.ErrInvalidInput))
			continue
		}
		if _, ok := k.strategies[s.Root]; !ok {
			k.roots = append(k.roots, s.Root)
		}
		s.Index = len(k.strategies[s.Root])
		s.Requires = append([]string(nil), s.Requires...)
		if len(s.Requires) == 0 {
			errs = append(errs, fmt.Errorf("strategy %s#%d has no requirements: %w", s.Root, s.Index, types.ErrInvalidInput))
		}
		if s.Cost < 0 {
			errs = append(errs, fmt.Errorf("strategy %s#%d: negative cost %d: %w", s.Root, s.Index, s.Cost, types.ErrInvalidInput))
		}
		k.strategies[s.Root] = append(k.strategies[s.Root], s)
	}
	for _, root := range k.roots {
		for _, s := range k.strategies[root] {
			for _, req := range s.Requires {
				_, isTopic := k.index[req]
				_, isRoot := k.strategies[req]
				if !isTopic && !isRoot {
					errs = append(errs, fmt.Errorf("strategy %s#%d requirement %q: %w", root, s.Index, req, types.ErrNotFound))
				}
			}
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return k, nil
}

// Version returns the version label the KB was loaded with.
func (k *KnowledgeBase) Version() string { return k.version }

// Len returns the number of topics.
func (k *KnowledgeBase) Len() int { return len(k.topics) }

// LookupTopic returns the topic with the given id.
func (k *KnowledgeBase) LookupTopic(id string) (Topic, error) {
	i, ok := k.index[id]
	if !ok {
		return Topic{}, fmt.Errorf("topic %q: %w", id, types.ErrNotFound)
	}
	return k.topics[i].clone(), nil
}

// HasTopic reports whether id names a topic.
func (k *KnowledgeBase) HasTopic(id string) bool {
	_, ok := k.index[id]
	return ok
}

// Duration returns a topic's duration, or 0 for unknown ids.
func (k *KnowledgeBase) Duration(id string) int {
	if i, ok := k.index[id]; ok {
		return k.topics[i].Duration
	}
	return 0
}

// Prerequisites returns a topic's direct prerequisites in declaration order.
func (k *KnowledgeBase) Prerequisites(id string) ([]string, error) {
	i, ok := k.index[id]
	if !ok {
		return nil, fmt.Errorf("topic %q: %w", id, types.ErrNotFound)
	}
	return append([]string(nil), k.topics[i].Prerequisites...), nil
}

// AllTopics returns topic ids in load order.
func (k *KnowledgeBase) AllTopics() []string {
	ids := make([]string, len(k.topics))
	for i, t := range k.topics {
		ids[i] = t.ID
	}
	return ids
}

// Topics returns every topic in load order.
func (k *KnowledgeBase) Topics() []Topic {
	out := make([]Topic, len(k.topics))
	for i, t := range k.topics {
		out[i] = t.clone()
	}
	return out
}

// TopicsOfGoal returns the goal's topic ids in declaration order.
func (k *KnowledgeBase) TopicsOfGoal(goal string) ([]string, error) {
	i, ok := k.goalIndex[goal]
	if !ok {
		return nil, fmt.Errorf("goal %q: %w", goal, types.ErrNotFound)
	}
	return append([]string(nil), k.goals[i].Topics...), nil
}

// Goals returns every goal in load order.
func (k *KnowledgeBase) Goals() []Goal {
	out := make([]Goal, len(k.goals))
	for i, g := range k.goals {
		out[i] = Goal{Name: g.Name, Topics: append([]string(nil), g.Topics...)}
	}
	return out
}

// GoalNames returns goal names in load order.
func (k *KnowledgeBase) GoalNames() []string {
	names := make([]string, len(k.goals))
	for i, g := range k.goals {
		names[i] = g.Name
	}
	return names
}

// Dependents returns the topics that list id as a prerequisite, in load order.
func (k *KnowledgeBase) Dependents(id string) []string {
	return append([]string(nil), k.dependents[id]...)
}

// Roots returns AND/OR strategy roots in load order.
func (k *KnowledgeBase) Roots() []string {
	return append([]string(nil), k.roots...)
}

// IsRoot reports whether name has strategies.
func (k *KnowledgeBase) IsRoot(name string) bool {
	_, ok := k.strategies[name]
	return ok
}

// Strategies returns the alternatives of root in declaration order.
func (k *KnowledgeBase) Strategies(root string) ([]Strategy, error) {
	alts, ok := k.strategies[root]
	if !ok {
		return nil, fmt.Errorf("strategy root %q: %w", root, types.ErrNotFound)
	}
	out := make([]Strategy, len(alts))
	for i, s := range alts {
		s.Requires = append([]string(nil), s.Requires...)
		out[i] = s
	}
	return out, nil
}

// CheckAcyclic walks the prerequisite relation from every goal topic and
// fails with ErrCycleDetected on the first cycle found.
func (k *KnowledgeBase) CheckAcyclic() error {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(k.topics))
	var stack []string

	var visit func(id string) error
	visit = func(id string) error {
		switch color[id] {
		case grey:
			start := 0
			for i, s := range stack {
				if s == id {
					start = i
					break
				}
			}
			loop := append(append([]string(nil), stack[start:]...), id)
			return fmt.Errorf("prerequisite cycle %s: %w", strings.Join(loop, " -> "), types.ErrCycleDetected)
		case black:
			return nil
		}
		color[id] = grey
		stack = append(stack, id)
		for _, p := range k.topics[k.index[id]].Prerequisites {
			if err := visit(p); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return nil
	}

	for _, g := range k.goals {
		for _, id := range g.Topics {
			if err := visit(id); err != nil {
				return fmt.Errorf("goal %q: %w", g.Name, err)
			}
		}
	}
	return nil
}
