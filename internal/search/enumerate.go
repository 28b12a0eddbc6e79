package search

import (
	"fmt"

	"learnpath/internal/logging"
	"learnpath/internal/types"

	"go.uber.org/zap"
)

// DefaultMaxPaths caps enumeration when the caller passes no limit.
const DefaultMaxPaths = 1000

// Enumeration is the set of simple paths found between two topics.
type Enumeration struct {
	Paths     [][]string `json:"paths"`
	MaxDepth  int        `json:"max_depth"`
	Truncated bool       `json:"truncated"`
}

// EnumeratePaths lists every simple path from start to goal with at most
// maxDepth topics, in adjacency order. Enumeration stops once maxPaths paths
// have been collected; maxPaths <= 0 means DefaultMaxPaths.
func EnumeratePaths(g *Graph, start, goal string, maxDepth, maxPaths int) (Enumeration, error) {
	if maxDepth < 1 {
		return Enumeration{}, fmt.Errorf("max depth %d: must be at least 1: %w", maxDepth, types.ErrInvalidInput)
	}
	if err := g.checkEndpoints(start, goal); err != nil {
		return Enumeration{}, err
	}
	if maxPaths <= 0 {
		maxPaths = DefaultMaxPaths
	}

	out := Enumeration{Paths: [][]string{}, MaxDepth: maxDepth}
	onPath := make(map[string]bool)
	path := make([]string, 0, maxDepth)

	var walk func(id string)
	walk = func(id string) {
		if out.Truncated {
			return
		}
		path = append(path, id)
		onPath[id] = true
		defer func() {
			path = path[:len(path)-1]
			delete(onPath, id)
		}()

		if id == goal {
			if len(out.Paths) >= maxPaths {
				out.Truncated = true
				return
			}
			out.Paths = append(out.Paths, append([]string(nil), path...))
			return
		}
		if len(path) >= maxDepth {
			return
		}
		for _, next := range g.adj[id] {
			if !onPath[next] {
				walk(next)
			}
		}
	}
	walk(start)

	logging.SearchDebug("enumerated paths",
		zap.String("start", start), zap.String("goal", goal),
		zap.Int("max_depth", maxDepth), zap.Int("paths", len(out.Paths)), zap.Bool("truncated", out.Truncated))
	return out, nil
}
