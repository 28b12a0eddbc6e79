package search

import (
	"fmt"

	"learnpath/internal/logging"
	"learnpath/internal/types"

	"go.uber.org/zap"
)

// UninformedDFS returns the first path a plain depth-first walk finds from
// start to goal. Neighbours are tried in adjacency order and every topic is
// visited at most once. The path is not necessarily the cheapest; it serves
// as a baseline for A*.
func UninformedDFS(g *Graph, start, goal string) (Result, error) {
	if err := g.checkEndpoints(start, goal); err != nil {
		return Result{}, err
	}

	visited := make(map[string]bool)
	var path []string
	expanded := 0

	var walk func(id string) bool
	walk = func(id string) bool {
		visited[id] = true
		expanded++
		path = append(path, id)
		if id == goal {
			return true
		}
		for _, next := range g.adj[id] {
			if !visited[next] && walk(next) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}

	if !walk(start) {
		return Result{Expanded: expanded}, fmt.Errorf("no path from %q to %q: %w", start, goal, types.ErrUnsatisfiable)
	}
	res := Result{Path: path, Cost: g.PathCost(path), Expanded: expanded}
	logging.SearchDebug("dfs found path",
		zap.String("start", start), zap.String("goal", goal),
		zap.Strings("path", res.Path), zap.Int("cost", res.Cost), zap.Int("expanded", expanded))
	return res, nil
}
