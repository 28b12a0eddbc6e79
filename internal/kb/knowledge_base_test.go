package kb_test

import (
	"errors"
	"testing"

	"learnpath/internal/kb"
	"learnpath/internal/kb/kbtest"
	"learnpath/internal/types"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnowledgeBase_Lookups(t *testing.T) {
	k := kbtest.Triangle(t)

	topic, err := k.LookupTopic("b")
	require.NoError(t, err)
	assert.Equal(t, 3, topic.Duration)
	assert.Equal(t, []string{"a"}, topic.Prerequisites)

	_, err = k.LookupTopic("rust")
	assert.ErrorIs(t, err, types.ErrNotFound)

	goalTopics, err := k.TopicsOfGoal("g")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, goalTopics)

	_, err = k.TopicsOfGoal("astronaut")
	assert.ErrorIs(t, err, types.ErrNotFound)

	if diff := cmp.Diff([]string{"a", "b", "c"}, k.AllTopics()); diff != "" {
		t.Errorf("AllTopics mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"b", "c"}, k.Dependents("a"))
	assert.Empty(t, k.Dependents("b"))
	assert.Equal(t, 0, k.Duration("nope"))
}

func TestKnowledgeBase_AccessorsReturnCopies(t *testing.T) {
	k := kbtest.Triangle(t)

	topic, err := k.LookupTopic("b")
	require.NoError(t, err)
	topic.Prerequisites[0] = "mutated"

	again, err := k.LookupTopic("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, again.Prerequisites)

	goalTopics, _ := k.TopicsOfGoal("g")
	goalTopics[0] = "mutated"
	fresh, _ := k.TopicsOfGoal("g")
	assert.Equal(t, "b", fresh[0])
}

func TestNew_RejectsBadData(t *testing.T) {
	tests := []struct {
		name   string
		topics []kb.Topic
		goals  []kb.Goal
		strats []kb.Strategy
		is     error
	}{
		{
			name:   "duplicate topic",
			topics: []kb.Topic{kbtest.Topic("a", 1, kb.Beginner), kbtest.Topic("a", 2, kb.Beginner)},
			is:     types.ErrInvalidInput,
		},
		{
			name:   "dangling prerequisite",
			topics: []kb.Topic{kbtest.Topic("a", 1, kb.Beginner, "ghost")},
			is:     types.ErrNotFound,
		},
		{
			name:   "non positive duration",
			topics: []kb.Topic{kbtest.Topic("a", 0, kb.Beginner)},
			is:     types.ErrInvalidInput,
		},
		{
			name:   "bad difficulty",
			topics: []kb.Topic{kbtest.Topic("a", 1, kb.Difficulty("expert"))},
			is:     types.ErrInvalidInput,
		},
		{
			name:   "malformed id",
			topics: []kb.Topic{kbtest.Topic("Bad Id", 1, kb.Beginner)},
			is:     types.ErrInvalidInput,
		},
		{
			name:   "goal with unknown topic",
			topics: []kb.Topic{kbtest.Topic("a", 1, kb.Beginner)},
			goals:  []kb.Goal{{Name: "g", Topics: []string{"a", "ghost"}}},
			is:     types.ErrNotFound,
		},
		{
			name:   "duplicate goal",
			topics: []kb.Topic{kbtest.Topic("a", 1, kb.Beginner)},
			goals:  []kb.Goal{{Name: "g", Topics: []string{"a"}}, {Name: "g", Topics: []string{"a"}}},
			is:     types.ErrInvalidInput,
		},
		{
			name:   "strategy root clashes with topic",
			topics: []kb.Topic{kbtest.Topic("a", 1, kb.Beginner)},
			strats: []kb.Strategy{{Root: "a", Requires: []string{"a"}}},
			is:     types.ErrInvalidInput,
		},
		{
			name:   "strategy with unknown requirement",
			topics: []kb.Topic{kbtest.Topic("a", 1, kb.Beginner)},
			strats: []kb.Strategy{{Root: "r", Requires: []string{"a", "ghost"}}},
			is:     types.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := kb.New("test", tt.topics, tt.goals, tt.strats)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.is), "got %v", err)
		})
	}
}

func TestCheckAcyclic(t *testing.T) {
	assert.NoError(t, kbtest.Triangle(t).CheckAcyclic())

	err := kbtest.Cyclic(t).CheckAcyclic()
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrCycleDetected)
	assert.Contains(t, err.Error(), "x -> y -> x")
}

func TestCheckAcyclic_IgnoresUnreachableCycles(t *testing.T) {
	k := kbtest.MustNew(t,
		[]kb.Topic{
			kbtest.Topic("a", 1, kb.Beginner),
			kbtest.Topic("p", 1, kb.Beginner, "q"),
			kbtest.Topic("q", 1, kb.Beginner, "p"),
		},
		[]kb.Goal{{Name: "g", Topics: []string{"a"}}},
		nil,
	)
	assert.NoError(t, k.CheckAcyclic())
}

func TestStrategies(t *testing.T) {
	k := kbtest.Stacks(t)
	assert.Equal(t, []string{"web", "front", "back"}, k.Roots())
	assert.True(t, k.IsRoot("front"))
	assert.False(t, k.IsRoot("html"))

	alts, err := k.Strategies("front")
	require.NoError(t, err)
	require.Len(t, alts, 2)
	assert.Equal(t, 0, alts[0].Index)
	assert.Equal(t, 1, alts[1].Index)
	assert.Equal(t, []string{"html", "js"}, alts[1].Requires)

	_, err = k.Strategies("nope")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestValidID(t *testing.T) {
	for _, ok := range []string{"html", "rest_api", "css3"} {
		assert.True(t, kb.ValidID(ok), ok)
	}
	for _, bad := range []string{"", "3d", "_x", "Html", "rest-api", "a b"} {
		assert.False(t, kb.ValidID(bad), bad)
	}
	assert.Equal(t, "react", kb.NormalizeID("  React "))
}

func TestParseDifficulty(t *testing.T) {
	d, err := kb.ParseDifficulty(" Advanced ")
	require.NoError(t, err)
	assert.Equal(t, kb.Advanced, d)
	assert.Equal(t, 2, d.Rank())

	_, err = kb.ParseDifficulty("expert")
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}
