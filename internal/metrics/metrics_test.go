package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"learnpath/internal/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "not_found", Outcome(fmt.Errorf("goal x: %w", types.ErrNotFound)))
	assert.Equal(t, "internal", Outcome(errors.New("boom")))
}

func TestRecordPlan(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordPlan("frontend_developer", nil, 8, time.Millisecond)
	m.RecordPlan("frontend_developer", nil, 3, time.Millisecond)
	m.RecordPlan(GoalUnknown, fmt.Errorf("unknown goal: %w", types.ErrNotFound), 0, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PlansTotal.WithLabelValues("frontend_developer", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PlansTotal.WithLabelValues(GoalUnknown, "not_found")))

	n, err := testutil.GatherAndCount(reg, "learnpath_plans_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRecordSearchAndReload(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordSearch(AlgorithmAStar, nil, 12, time.Microsecond)
	m.RecordSearch(AlgorithmAStar, types.ErrUnsatisfiable, 30, time.Microsecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues(AlgorithmAStar, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues(AlgorithmAStar, "unsatisfiable")))

	m.RecordReload(nil, 32)
	m.RecordReload(errors.New("bad yaml"), 0)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.KBReloadsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.KBReloadsTotal.WithLabelValues("failed")))
	assert.Equal(t, 32.0, testutil.ToFloat64(m.KBTopics))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordPlan("g", nil, 1, time.Second)
		m.RecordSearch(AlgorithmDFS, nil, 1, time.Second)
		m.RecordReload(nil, 1)
	})
}

func TestNew_UnregisteredWithNilRegisterer(t *testing.T) {
	a := New(nil)
	b := New(nil)
	a.RecordReload(nil, 1)
	assert.Zero(t, testutil.ToFloat64(b.KBReloadsTotal.WithLabelValues("ok")))
}
