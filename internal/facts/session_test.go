package facts

import (
	"testing"

	"learnpath/internal/logging"
	"learnpath/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewSession_Defaults(t *testing.T) {
	s := NewSession()
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, LevelBeginner, s.Level())
	assert.Equal(t, StylePractical, s.Style())
	assert.Empty(t, s.KnownList())
	assert.NotEqual(t, s.ID(), NewSession().ID())
}

func TestDeclareKnown_NormalizesAndSkipsBlanks(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.DeclareKnown(" HTML", "css ", ""))
	assert.Equal(t, []string{"css", "html"}, s.KnownList())
	assert.True(t, s.IsKnown("html"))
}

func TestDeclareKnown_AllOrNothing(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.DeclareKnown("html"))

	err := s.DeclareKnown("css", "not valid!", "javascript")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidInput)
	assert.Equal(t, []string{"html"}, s.KnownList(), "a failed declare must not add anything")
}

func TestDeclareComplete_AllOrNothing(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.DeclareComplete("html"))
	assert.True(t, s.IsComplete("html"))

	assert.ErrorIs(t, s.DeclareComplete("css", "9lives"), types.ErrInvalidInput)
	assert.Equal(t, []string{"html"}, s.CompletedList())
}

func TestForgetKnown_Idempotent(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.DeclareKnown("html", "css"))

	require.NoError(t, s.ForgetKnown("HTML"))
	require.NoError(t, s.ForgetKnown("html"))
	require.NoError(t, s.ForgetKnown("never_known"))
	assert.Equal(t, []string{"css"}, s.KnownList())

	assert.ErrorIs(t, s.ForgetKnown("!!"), types.ErrInvalidInput)
}

func TestSetters(t *testing.T) {
	s := NewSession()

	require.NoError(t, s.SetGoal(" Frontend_Developer "))
	assert.Equal(t, "frontend_developer", s.Goal())
	assert.ErrorIs(t, s.SetGoal("front end"), types.ErrInvalidInput)

	require.NoError(t, s.SetTimeBudget(0))
	require.NoError(t, s.SetTimeBudget(40))
	assert.Equal(t, 40, s.TimeBudget())
	assert.ErrorIs(t, s.SetTimeBudget(-1), types.ErrInvalidInput)
	assert.Equal(t, 40, s.TimeBudget())

	require.NoError(t, s.SetLevel("Advanced"))
	assert.Equal(t, LevelAdvanced, s.Level())
	assert.ErrorIs(t, s.SetLevel("guru"), types.ErrInvalidInput)

	require.NoError(t, s.SetStyle("visual"))
	assert.Equal(t, StyleVisual, s.Style())
	assert.ErrorIs(t, s.SetStyle("osmosis"), types.ErrInvalidInput)
}

func TestReset(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.SetGoal("g"))
	require.NoError(t, s.DeclareKnown("a"))
	require.NoError(t, s.DeclareComplete("b"))
	require.NoError(t, s.SetLevel("advanced"))

	s.Reset()
	assert.Empty(t, s.Goal())
	assert.Empty(t, s.KnownList())
	assert.Empty(t, s.CompletedList())
	assert.Equal(t, LevelBeginner, s.Level())
}

func TestKnown_ReturnsCopy(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.DeclareKnown("a"))
	k := s.Known()
	k["b"] = true
	assert.False(t, s.IsKnown("b"))
}

func TestParseSkills(t *testing.T) {
	assert.Equal(t, []string{"html", "css", "react"}, ParseSkills("html, css,, react ,"))
	assert.Empty(t, ParseSkills(" , "))
}

func TestForgetAndReset_AreAudited(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logging.UseLogger(zap.New(core), logging.Config{DebugMode: true})
	t.Cleanup(func() { logging.UseLogger(zap.NewNop(), logging.Config{}) })

	s := NewSession()
	assert.Zero(t, logs.FilterMessage(string(logging.AuditFactReset)).Len(), "new sessions are not audited as resets")

	require.NoError(t, s.DeclareKnown("html", "css"))
	require.NoError(t, s.DeclareComplete("dom"))
	require.NoError(t, s.ForgetKnown("html"))
	s.Reset()

	forget := logs.FilterMessage(string(logging.AuditFactForget)).All()
	require.Len(t, forget, 1)
	assert.Equal(t, "html", forget[0].ContextMap()["target"])
	assert.Equal(t, s.ID(), forget[0].ContextMap()["session"])

	reset := logs.FilterMessage(string(logging.AuditFactReset)).All()
	require.Len(t, reset, 1)
	assert.EqualValues(t, 2, reset[0].ContextMap()["count"])
	assert.Contains(t, reset[0].ContextMap()["fact"], "/fact_reset")
}
