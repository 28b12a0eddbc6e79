// Package metrics provides Prometheus collectors for the engine.
//
// Metrics Categories:
//   - Plans: requests by goal and outcome, plan length, latency
//   - Searches: runs by algorithm and outcome, nodes expanded, latency
//   - Knowledge base: reloads and failed reloads, topic count
//
// Usage:
//
//	m := metrics.New(prometheus.DefaultRegisterer)
//	m.RecordPlan("frontend_developer", nil, 8, time.Since(start))
//	m.RecordSearch(metrics.AlgorithmAStar, err, res.Expanded, time.Since(start))
package metrics

import (
	"time"

	"learnpath/internal/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Algorithm labels for search metrics.
const (
	AlgorithmAStar     = "astar"
	AlgorithmDFS       = "dfs"
	AlgorithmAOStar    = "aostar"
	AlgorithmEnumerate = "enumerate"
)

// Goal labels for plans that never reached a known goal.
const (
	GoalInvalid = "invalid"
	GoalUnknown = "unknown"
)

// Metrics holds the engine collectors. A nil *Metrics records nothing.
type Metrics struct {
	// PlansTotal counts plan requests by goal and outcome.
	PlansTotal *prometheus.CounterVec

	// PlanTopics tracks how many topics a successful plan contains.
	PlanTopics prometheus.Histogram

	// PlanDuration tracks the latency of Recommend.
	PlanDuration prometheus.Histogram

	// SearchesTotal counts searches by algorithm and outcome.
	SearchesTotal *prometheus.CounterVec

	// SearchExpanded tracks nodes expanded per search.
	SearchExpanded *prometheus.HistogramVec

	// SearchDuration tracks search latency by algorithm.
	SearchDuration *prometheus.HistogramVec

	// KBReloadsTotal counts knowledge base reload attempts by result.
	KBReloadsTotal *prometheus.CounterVec

	// KBTopics is the topic count of the live snapshot.
	KBTopics prometheus.Gauge
}

// New registers the collectors with reg. A nil reg creates unregistered
// collectors, which is what tests use.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PlansTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "learnpath_plans_total",
				Help: "Total number of learning path plan requests",
			},
			[]string{"goal", "outcome"},
		),
		PlanTopics: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "learnpath_plan_topics",
				Help:    "Number of topics in successful plans",
				Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
			},
		),
		PlanDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "learnpath_plan_duration_seconds",
				Help:    "Duration of plan requests in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),
		SearchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "learnpath_searches_total",
				Help: "Total number of graph searches",
			},
			[]string{"algorithm", "outcome"},
		),
		SearchExpanded: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "learnpath_search_expanded_nodes",
				Help:    "Nodes expanded or paths produced per search",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
			[]string{"algorithm"},
		),
		SearchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "learnpath_search_duration_seconds",
				Help:    "Duration of graph searches in seconds",
				Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
			},
			[]string{"algorithm"},
		),
		KBReloadsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "learnpath_kb_reloads_total",
				Help: "Total number of knowledge base reload attempts",
			},
			[]string{"result"}, // "ok", "failed"
		),
		KBTopics: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "learnpath_kb_topics",
				Help: "Number of topics in the live knowledge base",
			},
		),
	}
}

// Outcome maps an error to a metric label: "ok" or its error kind.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return string(types.KindOf(err))
}

// RecordPlan records a Recommend call. goal must come from a bounded set:
// a knowledge base goal, GoalInvalid or GoalUnknown.
func (m *Metrics) RecordPlan(goal string, err error, topics int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.PlansTotal.WithLabelValues(goal, Outcome(err)).Inc()
	m.PlanDuration.Observe(elapsed.Seconds())
	if err == nil {
		m.PlanTopics.Observe(float64(topics))
	}
}

// RecordSearch records one search run.
func (m *Metrics) RecordSearch(algorithm string, err error, expanded int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(algorithm, Outcome(err)).Inc()
	m.SearchExpanded.WithLabelValues(algorithm).Observe(float64(expanded))
	m.SearchDuration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
}

// RecordReload records a knowledge base reload attempt.
func (m *Metrics) RecordReload(err error, topics int) {
	if m == nil {
		return
	}
	if err != nil {
		m.KBReloadsTotal.WithLabelValues("failed").Inc()
		return
	}
	m.KBReloadsTotal.WithLabelValues("ok").Inc()
	m.KBTopics.Set(float64(topics))
}
