package analytics

import (
	"learnpath/internal/kb"
	"learnpath/internal/logging"

	"go.uber.org/zap"
)

// Defaults for Options fields left at zero.
const (
	DefaultDurationPairCap   = 15
	DefaultDifficultyPairCap = 10
	DefaultShortThreshold    = 8
	DefaultUniversalTopic    = "react"
)

// Options bounds the report.
type Options struct {
	DurationPairCap   int
	DifficultyPairCap int
	ShortThreshold    int
	UniversalTopic    string
}

func (o Options) withDefaults() Options {
	if o.DurationPairCap <= 0 {
		o.DurationPairCap = DefaultDurationPairCap
	}
	if o.DifficultyPairCap <= 0 {
		o.DifficultyPairCap = DefaultDifficultyPairCap
	}
	if o.ShortThreshold <= 0 {
		o.ShortThreshold = DefaultShortThreshold
	}
	if o.UniversalTopic == "" {
		o.UniversalTopic = DefaultUniversalTopic
	}
	return o
}

// Report gathers every derivation for one goal and known set.
type Report struct {
	Goal                 string    `json:"goal"`
	EqualDurationPairs   []Pair    `json:"equal_duration_pairs"`
	EqualDifficultyPairs []Pair    `json:"equal_difficulty_pairs"`
	FirstAvailable       string    `json:"first_available,omitempty"`
	Unlearnable          []Blocked `json:"unlearnable"`
	ShortTopics          []string  `json:"short_topics"`
	LongTopics           []string  `json:"long_topics"`
	GoalShortTopics      []string  `json:"goal_short_topics"`
	ShortThreshold       int       `json:"short_threshold"`
	AnyAvailable         bool      `json:"any_available"`
	UniversalTopic       string    `json:"universal_topic"`
	UniversalKnown       bool      `json:"universal_known"`
}

// Analyze builds the full report.
func Analyze(k *kb.KnowledgeBase, goal string, known map[string]bool, opts Options) Report {
	opts = opts.withDefaults()
	r := Report{
		Goal:                 goal,
		EqualDurationPairs:   EqualDurationPairs(k, goal, opts.DurationPairCap),
		EqualDifficultyPairs: EqualDifficultyPairs(k, opts.DifficultyPairCap),
		Unlearnable:          Unlearnable(k, known),
		GoalShortTopics:      GoalShortIntersection(k, goal, opts.ShortThreshold),
		ShortThreshold:       opts.ShortThreshold,
		UniversalTopic:       opts.UniversalTopic,
		UniversalKnown:       AllPrerequisitesKnown(k, opts.UniversalTopic, known),
	}
	if r.EqualDurationPairs == nil {
		r.EqualDurationPairs = []Pair{}
	}
	r.FirstAvailable, r.AnyAvailable = FirstAvailable(k, known)
	r.ShortTopics, r.LongTopics = DurationBuckets(k, opts.ShortThreshold)

	logging.AnalyticsDebug("analytics report",
		zap.String("goal", goal), zap.Int("known", len(known)),
		zap.Int("unlearnable", len(r.Unlearnable)), zap.String("first_available", r.FirstAvailable))
	return r
}
