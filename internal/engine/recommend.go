package engine

import (
	"context"
	"fmt"
	"time"

	"learnpath/internal/analytics"
	"learnpath/internal/facts"
	"learnpath/internal/kb"
	"learnpath/internal/logging"
	"learnpath/internal/metrics"
	"learnpath/internal/planner"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PlanItem is one planned topic with its display attributes.
type PlanItem struct {
	Topic       string        `json:"topic"`
	Duration    int           `json:"duration"`
	Difficulty  kb.Difficulty `json:"difficulty"`
	Category    string        `json:"category"`
	Description string        `json:"description"`
	Completed   bool          `json:"completed"`
}

// Recommendation is the full answer to a Request.
type Recommendation struct {
	SessionID  string              `json:"session_id"`
	KBVersion  string              `json:"kb_version"`
	Goal       string              `json:"goal"`
	Level      facts.Level         `json:"level"`
	Style      facts.Style         `json:"style"`
	Items      []PlanItem          `json:"items"`
	TotalHours int                 `json:"total_hours"`
	TimeBudget int                 `json:"time_budget"`
	Suggestion planner.Suggestion  `json:"suggestion"`
	Advice     string              `json:"advice"`
	Stats      analytics.Stats     `json:"stats"`
	Analytics  analytics.Report    `json:"analytics"`
	Closures   map[string][]string `json:"closures"`
}

// Topics returns the planned topic ids in order.
func (r *Recommendation) Topics() []string {
	out := make([]string, len(r.Items))
	for i, it := range r.Items {
		out[i] = it.Topic
	}
	return out
}

// Recommend validates req, records it as session facts, plans the goal and
// gathers the secondary outputs concurrently.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Recommendation, error) {
	start := time.Now()
	req.normalize()
	if err := validate(&req); err != nil {
		e.metrics.RecordPlan(metrics.GoalInvalid, err, 0, time.Since(start))
		return nil, fmt.Errorf("recommend: %w", err)
	}

	s, err := e.sessionFor(req)
	if err != nil {
		e.metrics.RecordPlan(metrics.GoalInvalid, err, 0, time.Since(start))
		return nil, fmt.Errorf("recommend: %w", err)
	}
	return e.run(ctx, s, start)
}

// RecommendSession plans for an already populated session.
func (e *Engine) RecommendSession(ctx context.Context, s *facts.Session) (*Recommendation, error) {
	return e.run(ctx, s, time.Now())
}

// run plans s against the live snapshot with metrics and audit events.
func (e *Engine) run(ctx context.Context, s *facts.Session, start time.Time) (*Recommendation, error) {
	k, _ := e.snapshot()
	audit := logging.AuditWithSession(s.ID())
	audit.RequestStart(s.Goal())

	rec, err := e.recommend(ctx, k, s)
	topics := 0
	if rec != nil {
		topics = len(rec.Items)
	}
	elapsed := time.Since(start)
	e.metrics.RecordPlan(goalLabel(k, s.Goal()), err, topics, elapsed)
	audit.RequestEnd(s.Goal(), topics, elapsed, err)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// goalLabel bounds the goal metric label to the goals of k.
func goalLabel(k *kb.KnowledgeBase, goal string) string {
	if _, err := k.TopicsOfGoal(goal); err != nil {
		return metrics.GoalUnknown
	}
	return goal
}

func (e *Engine) sessionFor(req Request) (*facts.Session, error) {
	s := e.NewSession()
	if err := s.SetGoal(req.Goal); err != nil {
		return nil, err
	}
	if err := s.SetTimeBudget(req.TimeBudget); err != nil {
		return nil, err
	}
	if req.Level != "" {
		if err := s.SetLevel(req.Level); err != nil {
			return nil, err
		}
	}
	if req.Style != "" {
		if err := s.SetStyle(req.Style); err != nil {
			return nil, err
		}
	}
	if err := s.DeclareKnown(req.Known...); err != nil {
		return nil, err
	}
	if err := s.DeclareComplete(req.Completed...); err != nil {
		return nil, err
	}
	logging.AuditWithSession(s.ID()).FactsDeclared(len(req.Known) + len(req.Completed))
	return s, nil
}

func (e *Engine) recommend(ctx context.Context, k *kb.KnowledgeBase, s *facts.Session) (*Recommendation, error) {
	known := s.Known()
	order, err := planner.Plan(k, s.Goal(), known, planner.Options{MaxIterations: e.cfg.Limits.MaxPlanIterations})
	if err != nil {
		logging.Get(logging.CategoryPlanner).Info("plan failed",
			zap.String("session", s.ID()), zap.String("goal", s.Goal()), zap.Error(err))
		return nil, err
	}

	rec := &Recommendation{
		SessionID:  s.ID(),
		KBVersion:  k.Version(),
		Goal:       s.Goal(),
		Level:      s.Level(),
		Style:      s.Style(),
		Items:      make([]PlanItem, 0, len(order)),
		TimeBudget: s.TimeBudget(),
	}
	planned := make([]kb.Topic, 0, len(order))
	for _, id := range order {
		t, err := k.LookupTopic(id)
		if err != nil {
			return nil, err
		}
		planned = append(planned, t)
		rec.Items = append(rec.Items, PlanItem{
			Topic:       t.ID,
			Duration:    t.Duration,
			Difficulty:  t.Difficulty,
			Category:    t.Category,
			Description: t.Description,
			Completed:   s.IsComplete(t.ID),
		})
	}
	rec.TotalHours = planner.TotalDuration(k, order)
	rec.Suggestion = planner.StudySuggestion(rec.TotalHours, s.TimeBudget())
	rec.Advice = rec.Suggestion.Message()
	rec.Stats = analytics.PathStats(planned)

	goalTopics, _ := k.TopicsOfGoal(s.Goal())
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := egCtx.Err(); err != nil {
			return err
		}
		rec.Analytics = analytics.Analyze(k, s.Goal(), known, e.analyticsOptions())
		return nil
	})
	eg.Go(func() error {
		if err := egCtx.Err(); err != nil {
			return err
		}
		rec.Closures = analytics.ClosureMap(k, goalTopics, e.cfg.Limits.ClosureMapTopics, e.cfg.Limits.ClosureLimit)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("recommend %q: %w", s.Goal(), err)
	}

	logging.Planner("recommendation ready",
		zap.String("session", s.ID()), zap.String("goal", s.Goal()),
		zap.Int("topics", len(rec.Items)), zap.Int("total_hours", rec.TotalHours),
		zap.String("suggestion", string(rec.Suggestion)))
	return rec, nil
}

func (e *Engine) analyticsOptions() analytics.Options {
	a := e.cfg.Analytics
	return analytics.Options{
		DurationPairCap:   a.DurationPairCap,
		DifficultyPairCap: a.DifficultyPairCap,
		ShortThreshold:    a.ShortThreshold,
		UniversalTopic:    a.UniversalTopic,
	}
}

// Analyze returns the analytics report for a session's goal and known set.
func (e *Engine) Analyze(ctx context.Context, s *facts.Session) (analytics.Report, error) {
	if err := ctx.Err(); err != nil {
		return analytics.Report{}, err
	}
	k, _ := e.snapshot()
	return analytics.Analyze(k, s.Goal(), s.Known(), e.analyticsOptions()), nil
}

// Unlearnable lists topics blocked by prerequisites outside known.
func (e *Engine) Unlearnable(known []string) []analytics.Blocked {
	set := make(map[string]bool, len(known))
	for _, id := range normalizeList(known) {
		set[id] = true
	}
	k, _ := e.snapshot()
	return analytics.Unlearnable(k, set)
}

// Closure returns the transitive prerequisites of topic.
func (e *Engine) Closure(topic string) []string {
	k, _ := e.snapshot()
	return analytics.PrerequisiteClosure(k, kb.NormalizeID(topic), e.cfg.Limits.ClosureLimit)
}
