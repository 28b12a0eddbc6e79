package main

import (
	"fmt"
	"strconv"

	"learnpath/cmd/learnpath/ui"
	"learnpath/internal/engine"
	"learnpath/internal/search"

	"github.com/spf13/cobra"
)

func (a *app) astarCmd() *cobra.Command {
	var compare bool
	cmd := &cobra.Command{
		Use:   "astar <start> <goal>",
		Short: "Find the cheapest topic path with A*",
		Long: `Finds the cheapest path between two topics. Edges lead from a topic to
the topics that depend on it and to the topics sharing a goal with it; the
cost of a step is the duration of the topic stepped onto.

With --compare the uninformed depth-first baseline runs on the same pair.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			req := engine.SearchRequest{Start: args[0], Goal: args[1]}
			if !compare {
				res, err := e.AStar(cmd.Context(), req)
				if err != nil {
					return err
				}
				v := view{Title: fmt.Sprintf("A*: %s -> %s", req.Start, req.Goal), Data: res}
				v.add("Heuristic", e.Config().Search.Heuristic)
				addResult(&v, "A*", res, e)
				return render(cmd.OutOrStdout(), a.format, v)
			}

			cmp, err := e.CompareSearch(cmd.Context(), req)
			if err != nil {
				return err
			}
			v := view{Title: fmt.Sprintf("A* vs DFS: %s -> %s", req.Start, req.Goal), Data: cmp}
			v.add("Heuristic", e.Config().Search.Heuristic)
			v.addf("Savings", "%d hours", cmp.Savings)
			addResult(&v, "A*", cmp.AStar, e)
			addResult(&v, "DFS", cmp.DFS, e)
			return render(cmd.OutOrStdout(), a.format, v)
		},
	}
	cmd.Flags().BoolVar(&compare, "compare", false, "Also run the depth-first baseline")
	return cmd
}

// addResult appends a path table with running costs.
func addResult(v *view, label string, res search.Result, e *engine.Engine) {
	t := ui.NewSimpleTable(label+" path", []string{"#", "Topic", "Step", "Total"})
	total := 0
	for i, id := range res.Path {
		step := 0
		if i > 0 {
			step = e.KB().Duration(id)
		}
		total += step
		t.AddRow(strconv.Itoa(i+1), id, strconv.Itoa(step), strconv.Itoa(total))
	}
	t.Footer = fmt.Sprintf("cost %d, %d nodes expanded", res.Cost, res.Expanded)
	v.table(t)
}

func (a *app) aostarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "aostar [root]",
		Short: "Choose the cheapest strategy for a technology stack",
		Long: `Solves an AND/OR strategy root: each alternative needs all of its
requirements, and the cheapest alternative wins. Without a root every
strategy root in the knowledge base is solved.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			roots := args
			if len(roots) == 0 {
				roots = e.KB().Roots()
			}

			v := view{Title: "AO* strategies"}
			summary := ui.NewSimpleTable("Solutions", []string{"Root", "Alternative", "Cost", "Requires", "Topics"})
			solutions := make([]*search.Solution, 0, len(roots))
			for _, root := range roots {
				sol, err := e.AOStar(cmd.Context(), root)
				if err != nil {
					return err
				}
				solutions = append(solutions, sol)
				summary.AddRow(sol.Root, strconv.Itoa(sol.Alternative), strconv.Itoa(sol.Cost),
					joinOrDash(sol.Requires), joinOrDash(sol.Topics()))
			}
			v.table(summary)
			if len(solutions) == 1 {
				v.Data = solutions[0]
			} else {
				v.Data = solutions
			}
			return render(cmd.OutOrStdout(), a.format, v)
		},
	}
}

func (a *app) pathsCmd() *cobra.Command {
	var maxDepth int
	cmd := &cobra.Command{
		Use:   "paths <start> <goal>",
		Short: "List every simple path up to a depth",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			out, err := e.EnumeratePaths(cmd.Context(), engine.SearchRequest{
				Start: args[0], Goal: args[1], MaxDepth: maxDepth,
			})
			if err != nil {
				return err
			}
			v := view{Title: fmt.Sprintf("Paths: %s -> %s", args[0], args[1]), Data: out}
			v.addf("Max depth", "%d", out.MaxDepth)
			t := ui.NewSimpleTable("Paths", []string{"#", "Topics", "Length"})
			for i, p := range out.Paths {
				t.AddRow(strconv.Itoa(i+1), joinOrDash(p), strconv.Itoa(len(p)))
			}
			v.table(t)
			if out.Truncated {
				v.note("Output truncated at %d paths.", len(out.Paths))
			}
			return render(cmd.OutOrStdout(), a.format, v)
		},
	}
	cmd.Flags().IntVarP(&maxDepth, "max-depth", "d", 0, "Maximum topics per path (0 uses the configured default)")
	return cmd
}
