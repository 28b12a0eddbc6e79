package main

import (
	"fmt"
	"strconv"
	"strings"

	"learnpath/cmd/learnpath/ui"
	"learnpath/internal/analytics"
	"learnpath/internal/engine"
	"learnpath/internal/planner"

	"github.com/spf13/cobra"
)

type planOptions struct {
	known     []string
	completed []string
	hours     int
	level     string
	style     string
	analytics bool
}

func (a *app) planCmd() *cobra.Command {
	opts := &planOptions{}
	cmd := &cobra.Command{
		Use:   "plan <goal>",
		Short: "Plan the study order for a goal",
		Long: `Plans every topic the goal needs that is not already known, with
prerequisites first and the shortest ready topic next.

Example:
  learnpath plan frontend_developer --known html,css --hours 40`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := e.Recommend(cmd.Context(), engine.Request{
				Goal:       args[0],
				Known:      opts.known,
				Completed:  opts.completed,
				TimeBudget: opts.hours,
				Level:      opts.level,
				Style:      opts.style,
			})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.format, planView(rec, opts.analytics))
		},
	}
	f := cmd.Flags()
	f.StringSliceVarP(&opts.known, "known", "k", nil, "Topics already known (comma separated)")
	f.StringSliceVar(&opts.completed, "completed", nil, "Planned topics already completed")
	f.IntVar(&opts.hours, "hours", 0, "Hours available for study")
	f.StringVar(&opts.level, "level", "", "Experience level: beginner, intermediate, advanced")
	f.StringVar(&opts.style, "style", "", "Learning style: practical, theoretical, visual, mixed")
	f.BoolVar(&opts.analytics, "analytics", false, "Include the analytics report")
	return cmd
}

func planView(rec *engine.Recommendation, withAnalytics bool) view {
	v := view{Title: "Study plan: " + rec.Goal, Data: rec}
	v.add("Session", rec.SessionID)
	if rec.Level != "" {
		v.add("Level", string(rec.Level))
	}
	if rec.Style != "" {
		v.add("Style", string(rec.Style))
	}
	v.addf("Total hours", "%d", rec.TotalHours)
	v.addf("Available hours", "%d", rec.TimeBudget)
	v.add("Suggestion", string(rec.Suggestion))

	items := ui.NewSimpleTable("Topics", []string{"#", "Topic", "Hours", "Difficulty", "Category", "Done"})
	for i, it := range rec.Items {
		done := ""
		if it.Completed {
			done = "yes"
		}
		items.AddRow(strconv.Itoa(i+1), it.Topic, strconv.Itoa(it.Duration), string(it.Difficulty), it.Category, done)
	}
	if len(rec.Items) == 0 {
		v.note("Every topic of %s is already known.", rec.Goal)
	} else {
		items.Footer = fmt.Sprintf("%d topics, %d hours", rec.Stats.TopicCount, rec.Stats.TotalHours)
	}
	items.StyleColumn(3, ui.Styles.DifficultyBadge)
	v.table(items)
	if rec.Suggestion == planner.SuggestionOver {
		v.warn("%s", rec.Advice)
	} else {
		v.note("%s", rec.Advice)
	}

	if withAnalytics {
		addReport(&v, rec.Analytics)
		closures := ui.NewSimpleTable("Prerequisite closures", []string{"Topic", "Needs"})
		for _, id := range sortedKeys(rec.Closures) {
			closures.AddRow(id, joinOrDash(rec.Closures[id]))
		}
		v.table(closures)
	}
	return v
}

// addReport appends the analytics tables to v.
func addReport(v *view, r analytics.Report) {
	first := r.FirstAvailable
	if first == "" {
		first = "-"
	}
	v.add("First available", first)
	v.addf("Any available", "%t", r.AnyAvailable)
	v.addf("All prerequisites of "+r.UniversalTopic+" known", "%t", r.UniversalKnown)

	v.table(pairTable("Equal-duration pairs", r.EqualDurationPairs))
	v.table(pairTable("Equal-difficulty pairs", r.EqualDifficultyPairs))
	v.table(blockedTable(r.Unlearnable))

	buckets := ui.NewSimpleTable(
		fmt.Sprintf("Duration buckets (short < %dh)", r.ShortThreshold),
		[]string{"Bucket", "Topics"})
	buckets.AddRow("short", joinOrDash(r.ShortTopics))
	buckets.AddRow("long", joinOrDash(r.LongTopics))
	buckets.AddRow("short in goal", joinOrDash(r.GoalShortTopics))
	v.table(buckets)
}

func pairTable(title string, pairs []analytics.Pair) *ui.SimpleTable {
	t := ui.NewSimpleTable(title, []string{"A", "B"})
	for _, p := range pairs {
		t.AddRow(p.A, p.B)
	}
	return t
}

func blockedTable(blocked []analytics.Blocked) *ui.SimpleTable {
	t := ui.NewSimpleTable("Unlearnable", []string{"Topic", "Missing"})
	for _, b := range blocked {
		t.AddRow(b.Topic, strings.Join(b.Missing, ", "))
	}
	return t
}
