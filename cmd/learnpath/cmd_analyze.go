package main

import (
	"fmt"
	"sort"
	"strconv"

	"learnpath/cmd/learnpath/ui"
	"learnpath/internal/kb"
	"learnpath/internal/types"

	"github.com/spf13/cobra"
)

func (a *app) analyzeCmd() *cobra.Command {
	var known []string
	cmd := &cobra.Command{
		Use:   "analyze <goal>",
		Short: "Report topic pairs, blocked topics and duration buckets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			s := e.NewSession()
			if err := s.SetGoal(args[0]); err != nil {
				return err
			}
			if err := s.DeclareKnown(known...); err != nil {
				return err
			}
			report, err := e.Analyze(cmd.Context(), s)
			if err != nil {
				return err
			}
			v := view{Title: "Analytics: " + s.Goal(), Data: report}
			addReport(&v, report)
			return render(cmd.OutOrStdout(), a.format, v)
		},
	}
	cmd.Flags().StringSliceVarP(&known, "known", "k", nil, "Topics already known (comma separated)")
	return cmd
}

func (a *app) unlearnableCmd() *cobra.Command {
	var known []string
	cmd := &cobra.Command{
		Use:   "unlearnable",
		Short: "List topics blocked by unknown prerequisites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			blocked := e.Unlearnable(known)
			v := view{Title: "Unlearnable topics", Data: blocked}
			v.add("Known", joinOrDash(known))
			v.table(blockedTable(blocked))
			return render(cmd.OutOrStdout(), a.format, v)
		},
	}
	cmd.Flags().StringSliceVarP(&known, "known", "k", nil, "Topics already known (comma separated)")
	return cmd
}

func (a *app) closureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "closure <topic>",
		Short: "List every transitive prerequisite of a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			id := kb.NormalizeID(args[0])
			if !e.KB().HasTopic(id) {
				return fmt.Errorf("topic %q: %w", id, types.ErrNotFound)
			}
			closure := e.Closure(id)
			v := view{Title: "Prerequisites of " + id, Data: map[string][]string{id: closure}}
			t := ui.NewSimpleTable("Closure", []string{"#", "Topic", "Hours"})
			hours := 0
			for i, p := range closure {
				d := e.KB().Duration(p)
				hours += d
				t.AddRow(strconv.Itoa(i+1), p, strconv.Itoa(d))
			}
			t.Footer = fmt.Sprintf("%d prerequisites, %d hours", len(closure), hours)
			v.table(t)
			return render(cmd.OutOrStdout(), a.format, v)
		},
	}
}

func (a *app) topicsCmd() *cobra.Command {
	var goal string
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List the topics of the knowledge base",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			k := e.KB()
			topics := k.Topics()
			if goal != "" {
				ids, err := k.TopicsOfGoal(kb.NormalizeID(goal))
				if err != nil {
					return err
				}
				topics = topics[:0]
				for _, id := range ids {
					t, err := k.LookupTopic(id)
					if err != nil {
						return err
					}
					topics = append(topics, t)
				}
			}
			v := view{Title: "Topics", Data: topics}
			v.add("Knowledge base", k.Version())
			t := ui.NewSimpleTable("", []string{"Topic", "Hours", "Difficulty", "Category", "Prerequisites"})
			for _, tp := range topics {
				t.AddRow(tp.ID, strconv.Itoa(tp.Duration), string(tp.Difficulty), tp.Category, joinOrDash(tp.Prerequisites))
			}
			t.StyleColumn(2, ui.Styles.DifficultyBadge)
			t.Footer = fmt.Sprintf("%d topics", len(topics))
			v.table(t)
			return render(cmd.OutOrStdout(), a.format, v)
		},
	}
	cmd.Flags().StringVarP(&goal, "goal", "g", "", "Only list the topics of this goal")
	return cmd
}

func (a *app) goalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "goals",
		Short: "List goals and strategy roots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			k := e.KB()
			goals := k.Goals()
			v := view{Title: "Goals", Data: map[string]any{"goals": goals, "roots": k.Roots()}}
			t := ui.NewSimpleTable("", []string{"Goal", "Topics", "Hours"})
			for _, g := range goals {
				hours := 0
				for _, id := range g.Topics {
					hours += k.Duration(id)
				}
				t.AddRow(g.Name, joinOrDash(g.Topics), strconv.Itoa(hours))
			}
			v.table(t)
			v.add("Strategy roots", joinOrDash(k.Roots()))
			return render(cmd.OutOrStdout(), a.format, v)
		},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
