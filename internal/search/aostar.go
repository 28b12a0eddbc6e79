package search

import (
	"fmt"

	"learnpath/internal/kb"
	"learnpath/internal/logging"
	"learnpath/internal/types"

	"go.uber.org/zap"
)

// Solution is the cheapest AND-set chosen for a strategy root. Requirements
// that are themselves roots carry their own Solution in Children; the rest
// are topics costed at their duration.
type Solution struct {
	Root        string               `json:"root"`
	Alternative int                  `json:"alternative"`
	Requires    []string             `json:"requires"`
	Cost        int                  `json:"cost"`
	Intrinsic   int                  `json:"intrinsic"`
	Children    map[string]*Solution `json:"children,omitempty"`
}

// Topics flattens the solution tree into its terminal topics, keeping the
// first occurrence of each.
func (s *Solution) Topics() []string {
	seen := make(map[string]bool)
	var out []string
	var walk func(*Solution)
	walk = func(n *Solution) {
		for _, req := range n.Requires {
			if child, ok := n.Children[req]; ok {
				walk(child)
				continue
			}
			if !seen[req] {
				seen[req] = true
				out = append(out, req)
			}
		}
	}
	walk(s)
	return out
}

// Recompute re-derives the cost of the chosen tree from k.
func (s *Solution) Recompute(k *kb.KnowledgeBase) int {
	total := s.Intrinsic
	for _, req := range s.Requires {
		if child, ok := s.Children[req]; ok {
			total += child.Recompute(k)
			continue
		}
		total += k.Duration(req)
	}
	return total
}

type aoSolver struct {
	k          *kb.KnowledgeBase
	memo       map[string]*Solution
	inProgress map[string]bool
	visits     int
}

// AOStar resolves root to its cheapest alternative. A requirement names a
// root when the KB has strategies for it and a topic otherwise. A root that
// is re-entered while still being resolved costs infinity on that branch.
// When every alternative is infinite the root is unsolvable.
func AOStar(k *kb.KnowledgeBase, root string) (*Solution, error) {
	if !k.IsRoot(root) {
		return nil, fmt.Errorf("strategy root %q: %w", root, types.ErrNotFound)
	}
	s := &aoSolver{
		k:          k,
		memo:       make(map[string]*Solution),
		inProgress: make(map[string]bool),
	}
	sol, _ := s.solve(root)
	if sol == nil {
		logging.SearchDebug("aostar unsolvable", zap.String("root", root), zap.Int("visits", s.visits))
		return nil, fmt.Errorf("root %q is unsolvable: %w", root, types.ErrUnsatisfiable)
	}
	logging.SearchDebug("aostar solved",
		zap.String("root", root), zap.Int("alternative", sol.Alternative),
		zap.Int("cost", sol.Cost), zap.Int("visits", s.visits))
	return sol, nil
}

// solve returns nil for an infinite cost. cyclic reports whether the result
// depended on a root that was in progress, in which case it is not memoized.
func (s *aoSolver) solve(root string) (sol *Solution, cyclic bool) {
	if memo, ok := s.memo[root]; ok {
		return memo, false
	}
	if s.inProgress[root] {
		return nil, true
	}
	s.inProgress[root] = true
	defer delete(s.inProgress, root)
	s.visits++

	alts, _ := s.k.Strategies(root)
	var best *Solution
	for _, alt := range alts {
		cand := &Solution{
			Root:        root,
			Alternative: alt.Index,
			Requires:    alt.Requires,
			Cost:        alt.Cost,
			Intrinsic:   alt.Cost,
		}
		feasible := true
		for _, req := range alt.Requires {
			switch {
			case s.k.IsRoot(req):
				child, c := s.solve(req)
				cyclic = cyclic || c
				if child == nil {
					feasible = false
				} else {
					if cand.Children == nil {
						cand.Children = make(map[string]*Solution)
					}
					cand.Children[req] = child
					cand.Cost += child.Cost
				}
			case s.k.HasTopic(req):
				cand.Cost += s.k.Duration(req)
			default:
				feasible = false
			}
			if !feasible {
				break
			}
		}
		if feasible && (best == nil || cand.Cost < best.Cost) {
			best = cand
		}
	}

	if !cyclic {
		s.memo[root] = best
	}
	return best, cyclic
}
