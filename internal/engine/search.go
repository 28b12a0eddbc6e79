package engine

import (
	"context"
	"fmt"
	"time"

	"learnpath/internal/kb"
	"learnpath/internal/logging"
	"learnpath/internal/metrics"
	"learnpath/internal/search"
	"learnpath/internal/types"
)

// Comparison puts A* and the DFS baseline side by side.
type Comparison struct {
	AStar    search.Result `json:"astar"`
	DFS      search.Result `json:"dfs"`
	Savings  int           `json:"savings"`
	Complete bool          `json:"complete"`
}

// AStar finds the cheapest path between two topics with the configured
// heuristic.
func (e *Engine) AStar(ctx context.Context, req SearchRequest) (search.Result, error) {
	if err := e.checkSearch(ctx, &req); err != nil {
		return search.Result{}, err
	}
	_, g := e.snapshot()
	start := time.Now()
	res, err := search.AStar(g, req.Start, req.Goal, e.heuristic)
	e.recordSearch(metrics.AlgorithmAStar, req.Start+"->"+req.Goal, res.Expanded, start, err)
	return res, err
}

// UninformedDFS runs the depth-first baseline.
func (e *Engine) UninformedDFS(ctx context.Context, req SearchRequest) (search.Result, error) {
	if err := e.checkSearch(ctx, &req); err != nil {
		return search.Result{}, err
	}
	_, g := e.snapshot()
	start := time.Now()
	res, err := search.UninformedDFS(g, req.Start, req.Goal)
	e.recordSearch(metrics.AlgorithmDFS, req.Start+"->"+req.Goal, res.Expanded, start, err)
	return res, err
}

// CompareSearch runs A* and the DFS baseline on the same endpoints. Both
// searches share reachability, so either both succeed or both fail.
func (e *Engine) CompareSearch(ctx context.Context, req SearchRequest) (Comparison, error) {
	astar, err := e.AStar(ctx, req)
	if err != nil {
		return Comparison{}, err
	}
	dfs, err := e.UninformedDFS(ctx, req)
	if err != nil {
		return Comparison{AStar: astar}, err
	}
	return Comparison{AStar: astar, DFS: dfs, Savings: dfs.Cost - astar.Cost, Complete: true}, nil
}

// AOStar resolves a strategy root to its cheapest AND-set.
func (e *Engine) AOStar(ctx context.Context, root string) (*search.Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root = kb.NormalizeID(root)
	if !kb.ValidID(root) {
		return nil, fmt.Errorf("strategy root %q: %w", root, types.ErrInvalidInput)
	}
	k, _ := e.snapshot()
	start := time.Now()
	sol, err := search.AOStar(k, root)
	n := 0
	if sol != nil {
		n = len(sol.Topics())
	}
	e.recordSearch(metrics.AlgorithmAOStar, root, n, start, err)
	return sol, err
}

// EnumeratePaths lists simple paths up to req.MaxDepth topics. A zero
// MaxDepth uses the configured default; depths above the configured ceiling
// are rejected.
func (e *Engine) EnumeratePaths(ctx context.Context, req SearchRequest) (search.Enumeration, error) {
	if err := e.checkSearch(ctx, &req); err != nil {
		return search.Enumeration{}, err
	}
	if req.MaxDepth == 0 {
		req.MaxDepth = e.cfg.Search.DefaultMaxDepth
	}
	if req.MaxDepth > e.cfg.Limits.MaxEnumerationDepth {
		return search.Enumeration{}, fmt.Errorf("max depth %d exceeds limit %d: %w",
			req.MaxDepth, e.cfg.Limits.MaxEnumerationDepth, types.ErrInvalidInput)
	}
	_, g := e.snapshot()
	start := time.Now()
	out, err := search.EnumeratePaths(g, req.Start, req.Goal, req.MaxDepth, e.cfg.Limits.MaxEnumeratedPaths)
	e.recordSearch(metrics.AlgorithmEnumerate, req.Start+"->"+req.Goal, len(out.Paths), start, err)
	return out, err
}

func (e *Engine) checkSearch(ctx context.Context, req *SearchRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	req.normalize()
	return validate(req)
}

func (e *Engine) recordSearch(algorithm, target string, count int, start time.Time, err error) {
	elapsed := time.Since(start)
	e.metrics.RecordSearch(algorithm, err, count, elapsed)
	logging.AuditWithSession("").SearchRun(algorithm, target, count, elapsed, err)
}
