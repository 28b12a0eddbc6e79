// Package search implements the graph searches over a knowledge base: A*
// with pluggable heuristics, an uninformed depth-first baseline, a bounded
// simple-path enumerator, and AND/OR (AO*) resolution of strategy roots.
package search

import (
	"fmt"

	"learnpath/internal/kb"
	"learnpath/internal/types"
)

// Graph is the topic adjacency used by A*, the DFS baseline and the
// enumerator. It is built once per knowledge base snapshot and is read-only.
//
// A topic's neighbours are, in order: the topics that list it as a
// prerequisite (KB order), then the topics co-listed with it in a goal (goal
// order, then member order). Duplicates and self-loops are dropped. Moving to
// a topic costs that topic's duration.
type Graph struct {
	k   *kb.KnowledgeBase
	adj map[string][]string
}

// NewGraph indexes the adjacency of every topic in k.
func NewGraph(k *kb.KnowledgeBase) *Graph {
	g := &Graph{k: k, adj: make(map[string][]string, k.Len())}

	peers := make(map[string][]string)
	for _, goal := range k.Goals() {
		for _, member := range goal.Topics {
			peers[member] = append(peers[member], goal.Topics...)
		}
	}

	for _, id := range k.AllTopics() {
		seen := map[string]bool{id: true}
		var out []string
		for _, next := range k.Dependents(id) {
			if !seen[next] {
				seen[next] = true
				out = append(out, next)
			}
		}
		for _, next := range peers[id] {
			if !seen[next] {
				seen[next] = true
				out = append(out, next)
			}
		}
		g.adj[id] = out
	}
	return g
}

// KB returns the knowledge base the graph was built from.
func (g *Graph) KB() *kb.KnowledgeBase { return g.k }

// Neighbors returns the outgoing edges of id in traversal order.
func (g *Graph) Neighbors(id string) []string {
	return append([]string(nil), g.adj[id]...)
}

// Cost is the price of stepping onto id.
func (g *Graph) Cost(id string) int {
	return g.k.Duration(id)
}

// PathCost sums the step costs along path, excluding the first topic.
func (g *Graph) PathCost(path []string) int {
	total := 0
	for i := 1; i < len(path); i++ {
		total += g.Cost(path[i])
	}
	return total
}

func (g *Graph) checkEndpoints(start, goal string) error {
	if !g.k.HasTopic(start) {
		return fmt.Errorf("start topic %q: %w", start, types.ErrNotFound)
	}
	if !g.k.HasTopic(goal) {
		return fmt.Errorf("goal topic %q: %w", goal, types.ErrNotFound)
	}
	return nil
}

// Result is the outcome of a point-to-point search.
type Result struct {
	Path     []string `json:"path"`
	Cost     int      `json:"cost"`
	Expanded int      `json:"expanded"`
}

// Found reports whether the search produced a path.
func (r Result) Found() bool { return len(r.Path) > 0 }
