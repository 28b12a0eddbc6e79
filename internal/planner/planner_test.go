package planner

import (
	"math/rand"
	"testing"

	"learnpath/internal/kb"
	"learnpath/internal/kb/kbtest"
	"learnpath/internal/types"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_TriangleNothingKnown(t *testing.T) {
	k := kbtest.Triangle(t)

	order, err := Plan(k, "g", nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 8, TotalDuration(k, order))
}

func TestPlan_TriangleKnownRootOmitted(t *testing.T) {
	k := kbtest.Triangle(t)

	order, err := Plan(k, "g", map[string]bool{"a": true}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, order)
}

func TestPlan_EverythingKnown(t *testing.T) {
	k := kbtest.Triangle(t)

	order, err := Plan(k, "g", map[string]bool{"b": true, "c": true}, Options{})
	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestPlan_KnownTopicPrerequisitesNotPulledIn(t *testing.T) {
	k := kbtest.Ladder(t)

	order, err := Plan(k, "route", map[string]bool{"pricey": true}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"start", "cheap", "finish"}, order, "side is only needed through the known pricey topic")
}

func TestPlan_UnknownGoal(t *testing.T) {
	_, err := Plan(kbtest.Triangle(t), "astronaut", nil, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Contains(t, err.Error(), "unknown goal")
}

func TestPlan_CycleDetected(t *testing.T) {
	_, err := Plan(kbtest.Cyclic(t), "loop", nil, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrCycleDetected)
	assert.Contains(t, err.Error(), "no eligible topics")
}

func TestPlan_IterationCeiling(t *testing.T) {
	_, err := Plan(kbtest.Triangle(t), "g", nil, Options{MaxIterations: 2})
	assert.ErrorIs(t, err, types.ErrUnsatisfiable)
}

func TestPlan_DefaultKBFrontend(t *testing.T) {
	k, err := kb.Default()
	require.NoError(t, err)

	order, err := Plan(k, "frontend_developer", nil, Options{})
	require.NoError(t, err)

	want := []string{"html", "css", "web_accessibility", "responsive_design", "javascript", "dom", "react", "state_management"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 49, TotalDuration(k, order))
}

func TestPlan_Properties(t *testing.T) {
	k, err := kb.Default()
	require.NoError(t, err)
	all := k.AllTopics()
	rng := rand.New(rand.NewSource(7))

	for _, goal := range k.GoalNames() {
		for trial := 0; trial < 25; trial++ {
			known := map[string]bool{}
			for _, id := range all {
				if rng.Intn(4) == 0 {
					known[id] = true
				}
			}

			order, err := Plan(k, goal, known, Options{})
			require.NoError(t, err)
			assertPrerequisiteOrder(t, k, order, known)

			again, err := Plan(k, goal, known, Options{})
			require.NoError(t, err)
			assert.Equal(t, order, again, "plan must be deterministic")

			superset := map[string]bool{}
			for id := range known {
				superset[id] = true
			}
			for _, id := range all {
				if rng.Intn(5) == 0 {
					superset[id] = true
				}
			}
			smaller, err := Plan(k, goal, superset, Options{})
			require.NoError(t, err)
			inOrder := map[string]bool{}
			for _, id := range order {
				inOrder[id] = true
			}
			for _, id := range smaller {
				assert.True(t, inOrder[id], "goal %s: %s appeared only after adding known skills", goal, id)
			}
		}
	}
}

func assertPrerequisiteOrder(t *testing.T, k *kb.KnowledgeBase, order []string, known map[string]bool) {
	t.Helper()
	pos := make(map[string]int, len(order))
	for i, id := range order {
		_, dup := pos[id]
		require.False(t, dup, "duplicate topic %s in %v", id, order)
		require.False(t, known[id], "known topic %s in plan", id)
		pos[id] = i
	}
	for i, id := range order {
		prereqs, err := k.Prerequisites(id)
		require.NoError(t, err)
		for _, p := range prereqs {
			if known[p] {
				continue
			}
			j, ok := pos[p]
			require.True(t, ok, "unknown prerequisite %s of %s missing from plan", p, id)
			require.Less(t, j, i, "prerequisite %s must precede %s", p, id)
		}
	}
}

func TestStudySuggestion(t *testing.T) {
	tests := []struct {
		total, available int
		want             Suggestion
	}{
		{40, 40, SuggestionExact},
		{40, 44, SuggestionWithinBand},
		{40, 36, SuggestionWithinBand},
		{40, 60, SuggestionUnder},
		{40, 20, SuggestionOver},
		{5, 6, SuggestionWithinBand},
		{5, 7, SuggestionUnder},
		{8, 0, SuggestionOver},
		{0, 0, SuggestionExact},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StudySuggestion(tt.total, tt.available), "total=%d available=%d", tt.total, tt.available)
	}
	for _, s := range []Suggestion{SuggestionExact, SuggestionWithinBand, SuggestionUnder, SuggestionOver} {
		assert.NotEmpty(t, s.Message())
	}
}
