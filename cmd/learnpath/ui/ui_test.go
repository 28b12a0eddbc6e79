package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleTable_View(t *testing.T) {
	table := NewSimpleTable("Plan", []string{"#", "Topic", "Hours"})
	table.AddRow("1", "html", "4")
	table.AddRow("2", "css")
	table.Footer = "total 10h"

	view := table.View(NewStyles(LightTheme()))
	assert.Contains(t, view, "Plan")
	assert.Contains(t, view, "html")
	assert.Contains(t, view, "total 10h")
	assert.Equal(t, 2, table.Len())
	assert.Len(t, table.Rows[1], 3, "short rows are padded")
}

func TestSimpleTable_EmptyView(t *testing.T) {
	table := NewSimpleTable("Unlearnable", []string{"Topic"})
	view := table.View(NewStyles(DarkTheme()))
	assert.Contains(t, view, "Unlearnable")
	assert.Contains(t, view, "(none)")
}

func TestSimpleTable_Markdown(t *testing.T) {
	table := NewSimpleTable("Pairs", []string{"A", "B"})
	table.AddRow("a|b", "c")
	md := table.Markdown()

	lines := strings.Split(strings.TrimSpace(md), "\n")
	assert.Equal(t, "## Pairs", lines[0])
	assert.Equal(t, "| A | B |", lines[2])
	assert.Equal(t, "| --- | --- |", lines[3])
	assert.Equal(t, `| a\|b | c |`, lines[4])

	assert.Contains(t, NewSimpleTable("Empty", []string{"x"}).Markdown(), "_none_")
}

func TestDetectTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "15;0")
	assert.Equal(t, DarkTheme(), DetectTheme())

	t.Setenv("COLORFGBG", "0;15")
	t.Setenv("LEARNPATH_DARK_MODE", "")
	assert.Equal(t, LightTheme(), DetectTheme())

	t.Setenv("LEARNPATH_DARK_MODE", "1")
	assert.Equal(t, DarkTheme(), DetectTheme())
}

func TestSimpleTable_StyledColumn(t *testing.T) {
	table := NewSimpleTable("Topics", []string{"Topic", "Difficulty"})
	table.StyleColumn(1, Styles.DifficultyBadge)
	table.AddRow("html", "beginner")
	table.AddRow("react", "")

	calls := 0
	table.StyleColumn(0, func(s Styles, cell string) string {
		calls++
		return s.Bold.Render(cell)
	})
	view := table.View(NewStyles(LightTheme()))
	assert.Contains(t, view, "beginner")
	assert.Equal(t, 2, calls)
	assert.NotContains(t, table.Markdown(), "\x1b", "markdown stays unstyled")
	assert.Equal(t, []string{"html", "beginner"}, table.Rows[0], "styling never rewrites rows")
}

func TestDifficultyBadge(t *testing.T) {
	s := NewStyles(LightTheme())
	assert.Contains(t, s.DifficultyBadge("advanced"), "advanced")
	assert.Contains(t, s.DifficultyBadge("mystery"), "mystery")
	assert.Contains(t, s.KeyValue("Goal", "frontend_developer"), "frontend_developer")
}
