package search

import (
	"container/heap"
	"fmt"
	"slices"

	"learnpath/internal/logging"
	"learnpath/internal/types"

	"go.uber.org/zap"
)

// Heuristic estimates the remaining cost from a topic to goal.
type Heuristic func(g *Graph, id, goal string) int

// ZeroHeuristic turns A* into uniform-cost search.
func ZeroHeuristic(*Graph, string, string) int { return 0 }

// GoalDurationHeuristic charges the goal's duration until the goal is
// reached. Every path into the goal pays that duration on its last step, so
// the estimate never overstates and is consistent.
func GoalDurationHeuristic(g *Graph, id, goal string) int {
	if id == goal {
		return 0
	}
	return g.Cost(goal)
}

// DurationHeuristic charges the current topic's own duration. It can
// overstate the remaining cost, so paths are not guaranteed minimal.
func DurationHeuristic(g *Graph, id, _ string) int {
	return g.Cost(id)
}

// Heuristic names accepted by HeuristicByName.
const (
	HeuristicGoalDuration = "goal_duration"
	HeuristicDuration     = "duration"
	HeuristicZero         = "zero"
)

// HeuristicByName resolves a configured heuristic name. An empty name selects
// the goal-duration heuristic.
func HeuristicByName(name string) (Heuristic, error) {
	switch name {
	case "", HeuristicGoalDuration:
		return GoalDurationHeuristic, nil
	case HeuristicDuration:
		return DurationHeuristic, nil
	case HeuristicZero:
		return ZeroHeuristic, nil
	default:
		return nil, fmt.Errorf("heuristic %q: %w", name, types.ErrInvalidInput)
	}
}

type frontierItem struct {
	id  string
	g   int
	f   int
	seq int
}

// frontier orders by f, then by insertion so equal-f entries leave FIFO.
type frontier []frontierItem

func (q frontier) Len() int { return len(q) }
func (q frontier) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}
func (q frontier) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *frontier) Push(x any)   { *q = append(*q, x.(frontierItem)) }
func (q *frontier) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// AStar finds a cheapest path from start to goal. A nil heuristic selects
// GoalDurationHeuristic. An unreachable goal yields an empty Result and
// ErrUnsatisfiable.
func AStar(g *Graph, start, goal string, h Heuristic) (Result, error) {
	if err := g.checkEndpoints(start, goal); err != nil {
		return Result{}, err
	}
	if h == nil {
		h = GoalDurationHeuristic
	}

	best := map[string]int{start: 0}
	parent := make(map[string]string)
	closed := make(map[string]bool)
	q := &frontier{}
	seq := 0
	heap.Push(q, frontierItem{id: start, g: 0, f: h(g, start, goal), seq: seq})

	expanded := 0
	for q.Len() > 0 {
		cur := heap.Pop(q).(frontierItem)
		if closed[cur.id] {
			continue
		}
		closed[cur.id] = true
		expanded++

		if cur.id == goal {
			path := walkBack(parent, start, goal)
			logging.SearchDebug("astar found path",
				zap.String("start", start), zap.String("goal", goal),
				zap.Strings("path", path), zap.Int("cost", cur.g), zap.Int("expanded", expanded))
			return Result{Path: path, Cost: cur.g, Expanded: expanded}, nil
		}

		for _, next := range g.adj[cur.id] {
			if closed[next] {
				continue
			}
			cost := cur.g + g.Cost(next)
			if prev, ok := best[next]; ok && cost >= prev {
				continue
			}
			best[next] = cost
			parent[next] = cur.id
			seq++
			heap.Push(q, frontierItem{id: next, g: cost, f: cost + h(g, next, goal), seq: seq})
		}
	}

	logging.SearchDebug("astar exhausted frontier",
		zap.String("start", start), zap.String("goal", goal), zap.Int("expanded", expanded))
	return Result{Expanded: expanded}, fmt.Errorf("no path from %q to %q: %w", start, goal, types.ErrUnsatisfiable)
}

func walkBack(parent map[string]string, start, goal string) []string {
	path := []string{goal}
	for id := goal; id != start; {
		id = parent[id]
		path = append(path, id)
	}
	slices.Reverse(path)
	return path
}
