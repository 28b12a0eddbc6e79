// Package planner orders the topics a user still has to learn for a goal so
// that every unknown prerequisite comes before the topics that need it.
package planner

import (
	"fmt"

	"learnpath/internal/kb"
	"learnpath/internal/logging"
	"learnpath/internal/types"

	"go.uber.org/zap"
)

// DefaultMaxIterations bounds the ordering loop when Options leaves it unset.
const DefaultMaxIterations = 10000

// Options tunes Plan.
type Options struct {
	MaxIterations int
}

// Plan returns the goal's unknown topics and their unknown transitive
// prerequisites in a prerequisite-respecting order. Among ready topics the
// shortest is taken first, ties broken by id. Known topics are omitted and
// their prerequisites are not pulled in. The result is empty when every goal
// topic is already known.
func Plan(k *kb.KnowledgeBase, goal string, known map[string]bool, opts Options) ([]string, error) {
	goalTopics, err := k.TopicsOfGoal(goal)
	if err != nil {
		return nil, fmt.Errorf("unknown goal: %w", err)
	}
	limit := opts.MaxIterations
	if limit <= 0 {
		limit = DefaultMaxIterations
	}

	needed := induced(k, goalTopics, known)

	indegree := make(map[string]int, len(needed))
	dependents := make(map[string][]string, len(needed))
	for id := range needed {
		prereqs, _ := k.Prerequisites(id)
		for _, p := range prereqs {
			if needed[p] {
				indegree[id]++
				dependents[p] = append(dependents[p], id)
			}
		}
	}

	ready := make([]string, 0, len(needed))
	for id := range needed {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]string, 0, len(needed))
	for iter := 0; len(ready) > 0; iter++ {
		if iter >= limit {
			return nil, fmt.Errorf("plan for %q exceeded %d iterations: %w", goal, limit, types.ErrUnsatisfiable)
		}
		best := 0
		for i := 1; i < len(ready); i++ {
			if less(k, ready[i], ready[best]) {
				best = i
			}
		}
		next := ready[best]
		ready[best] = ready[len(ready)-1]
		ready = ready[:len(ready)-1]

		order = append(order, next)
		for _, d := range dependents[next] {
			indegree[d]--
			if indegree[d] == 0 {
				ready = append(ready, d)
			}
		}
	}

	if len(order) != len(needed) {
		logging.Get(logging.CategoryPlanner).Warn("prerequisite cycle blocks plan",
			zap.String("goal", goal), zap.Int("ordered", len(order)), zap.Int("needed", len(needed)))
		return nil, fmt.Errorf("no eligible topics for %q: %w", goal, types.ErrCycleDetected)
	}

	logging.PlannerDebug("plan built", zap.String("goal", goal), zap.Strings("order", order))
	return order, nil
}

// induced collects the unknown goal topics and, transitively, their unknown
// prerequisites.
func induced(k *kb.KnowledgeBase, goalTopics []string, known map[string]bool) map[string]bool {
	needed := make(map[string]bool)
	work := make([]string, 0, len(goalTopics))
	for _, id := range goalTopics {
		if !known[id] && !needed[id] {
			needed[id] = true
			work = append(work, id)
		}
	}
	for len(work) > 0 {
		id := work[len(work)-1]
		work = work[:len(work)-1]
		prereqs, _ := k.Prerequisites(id)
		for _, p := range prereqs {
			if known[p] || needed[p] {
				continue
			}
			needed[p] = true
			work = append(work, p)
		}
	}
	return needed
}

func less(k *kb.KnowledgeBase, a, b string) bool {
	da, db := k.Duration(a), k.Duration(b)
	if da != db {
		return da < db
	}
	return a < b
}

// TotalDuration sums the durations of ids.
func TotalDuration(k *kb.KnowledgeBase, ids []string) int {
	total := 0
	for _, id := range ids {
		total += k.Duration(id)
	}
	return total
}
