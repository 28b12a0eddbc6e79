package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"learnpath/internal/analytics"
	"learnpath/internal/engine"
	"learnpath/internal/kb"
	"learnpath/internal/kb/kbtest"
	"learnpath/internal/search"
	"learnpath/internal/types"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LEARNPATH_KB_PATH", "LEARNPATH_KB_SOURCE", "LEARNPATH_LOG_LEVEL", "LEARNPATH_HEURISTIC"} {
		t.Setenv(k, "")
	}
}

// execute runs the CLI with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	clearEnv(t)
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func writeKB(t *testing.T, k *kb.KnowledgeBase) string {
	t.Helper()
	data, err := kb.Marshal(k)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "kb.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestPlan_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "plan", "frontend_developer", "--hours", "49")
	require.NoError(t, err)

	rec := decode[engine.Recommendation](t, out)
	assert.Equal(t, []string{
		"html", "css", "web_accessibility", "responsive_design",
		"javascript", "dom", "react", "state_management",
	}, rec.Topics())
	assert.Equal(t, 49, rec.TotalHours)
	assert.EqualValues(t, "exact", rec.Suggestion)
}

func TestPlan_TableWithKnownAndAnalytics(t *testing.T) {
	out, err := execute(t, "plan", "Frontend_Developer", "--known", "html,css", "--analytics")
	require.NoError(t, err)
	assert.Contains(t, out, "Study plan: frontend_developer")
	assert.Contains(t, out, "javascript")
	assert.Contains(t, out, "Equal-duration pairs")
	assert.Contains(t, out, "Prerequisite closures")
}

func TestPlan_AllKnown(t *testing.T) {
	path := writeKB(t, kbtest.Triangle(t))
	out, err := execute(t, "--kb", path, "plan", "g", "--known", "a,b,c")
	require.NoError(t, err)
	assert.Contains(t, out, "already known")
}

func TestPlan_Markdown(t *testing.T) {
	out, err := execute(t, "--format", "markdown", "plan", "frontend_developer")
	require.NoError(t, err)
	assert.Contains(t, out, "state_management")
}

func TestPlan_Errors(t *testing.T) {
	_, err := execute(t, "plan", "astronaut")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, exitCorrective, exitCode(err))

	_, err = execute(t, "plan", "frontend_developer", "--hours", "-1")
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = execute(t, "plan")
	assert.Error(t, err)
}

func TestFlagErrorsAreInvalidInput(t *testing.T) {
	_, err := execute(t, "plan", "frontend_developer", "--hours", "lots")
	assert.ErrorIs(t, err, types.ErrInvalidInput)
	assert.Equal(t, exitCorrective, exitCode(err))

	_, err = execute(t, "paths", "start", "finish", "--no-such-flag")
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestPlan_OverBudgetWarningAndLabels(t *testing.T) {
	out, err := execute(t, "plan", "frontend_developer", "--hours", "1", "--analytics")
	require.NoError(t, err)
	assert.Contains(t, out, "! The plan needs more time than you have.")
	assert.Contains(t, out, "All prerequisites of react known")
	assert.NotContains(t, out, "Knows react")

	out, err = execute(t, "--format", "markdown", "plan", "frontend_developer", "--hours", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Warning:")

	out, err = execute(t, "plan", "frontend_developer", "--hours", "49")
	require.NoError(t, err)
	assert.NotContains(t, out, "! The plan")
}

func TestGlobalFlagValidation(t *testing.T) {
	_, err := execute(t, "--format", "xml", "topics")
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = execute(t, "--heuristic", "oracle", "topics")
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = execute(t, "--kb", filepath.Join(t.TempDir(), "missing.yaml"), "topics")
	assert.Error(t, err)
	assert.Equal(t, exitInternal, exitCode(err))
}

func TestAStar_CompareOnLadder(t *testing.T) {
	path := writeKB(t, kbtest.Ladder(t))

	out, err := execute(t, "--kb", path, "--format", "json", "astar", "start", "finish", "--compare")
	require.NoError(t, err)
	cmp := decode[engine.Comparison](t, out)
	assert.Equal(t, []string{"start", "cheap", "finish"}, cmp.AStar.Path)
	assert.Equal(t, []string{"start", "side", "pricey", "finish"}, cmp.DFS.Path)
	assert.Equal(t, 11, cmp.Savings)

	out, err = execute(t, "--kb", path, "astar", "start", "finish")
	require.NoError(t, err)
	assert.Contains(t, out, "cost 4")

	_, err = execute(t, "--kb", path, "astar", "finish", "start")
	assert.ErrorIs(t, err, types.ErrUnsatisfiable)
	assert.Equal(t, exitUnsatisfiable, exitCode(err))
}

func TestAOStar_AllRoots(t *testing.T) {
	out, err := execute(t, "--format", "json", "aostar")
	require.NoError(t, err)
	sols := decode[[]search.Solution](t, out)

	got := make(map[string]string, len(sols))
	for _, s := range sols {
		got[s.Root] = fmt.Sprintf("%d/%d", s.Alternative, s.Cost)
	}
	assert.Equal(t, map[string]string{
		"frontend_stack": "1/28",
		"backend_stack":  "0/20",
		"fullstack":      "1/20",
		"data_stack":     "1/15",
		"ml_stack":       "1/30",
	}, got)
}

func TestAOStar_SingleRoot(t *testing.T) {
	out, err := execute(t, "--format", "json", "aostar", "backend_stack")
	require.NoError(t, err)
	sol := decode[search.Solution](t, out)
	assert.Equal(t, 20, sol.Cost)

	_, err = execute(t, "aostar", "nowhere")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestPaths(t *testing.T) {
	path := writeKB(t, kbtest.Ladder(t))

	out, err := execute(t, "--kb", path, "--format", "json", "paths", "start", "finish", "--max-depth", "4")
	require.NoError(t, err)
	e := decode[search.Enumeration](t, out)
	assert.Len(t, e.Paths, 3)
	assert.False(t, e.Truncated)

	_, err = execute(t, "--kb", path, "paths", "start", "finish", "--max-depth", "50")
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestAnalyzeAndUnlearnable(t *testing.T) {
	path := writeKB(t, kbtest.Triangle(t))

	out, err := execute(t, "--kb", path, "--format", "json", "analyze", "g", "--known", "a")
	require.NoError(t, err)
	r := decode[analytics.Report](t, out)
	assert.Equal(t, "b", r.FirstAvailable)
	assert.Empty(t, r.Unlearnable)

	path = writeKB(t, kbtest.Ladder(t))
	out, err = execute(t, "--kb", path, "--format", "json", "unlearnable")
	require.NoError(t, err)
	blocked := decode[[]analytics.Blocked](t, out)
	assert.Len(t, blocked, 4)

	out, err = execute(t, "--kb", path, "unlearnable", "--known", "start,side,pricey,cheap")
	require.NoError(t, err)
	assert.Contains(t, out, "(none)")
}

func TestClosure(t *testing.T) {
	out, err := execute(t, "--format", "json", "closure", "react")
	require.NoError(t, err)
	got := decode[map[string][]string](t, out)
	assert.Equal(t, []string{"html", "javascript", "dom"}, got["react"])

	_, err = execute(t, "closure", "ghost")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestTopicsAndGoals(t *testing.T) {
	out, err := execute(t, "--format", "json", "topics", "--goal", "frontend_developer")
	require.NoError(t, err)
	topics := decode[[]kb.Topic](t, out)
	assert.NotEmpty(t, topics)

	_, err = execute(t, "topics", "--goal", "astronaut")
	assert.ErrorIs(t, err, types.ErrNotFound)

	out, err = execute(t, "goals")
	require.NoError(t, err)
	assert.Contains(t, out, "devops_engineer")
	assert.Contains(t, out, "ml_stack")
}

func TestKBExportAndValidate(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "kb.db")

	_, err := execute(t, "kb", "export", "--out", dbPath)
	require.NoError(t, err)

	out, err := execute(t, "--kb", dbPath, "--format", "json", "kb", "validate")
	require.NoError(t, err)
	summary := decode[map[string]any](t, out)
	assert.NotContains(t, out, "knowledge base is valid")
	assert.Equal(t, "sqlite", summary["source"])
	assert.EqualValues(t, 32, summary["topics"])
	assert.Equal(t, true, summary["acyclic"])

	out, err = execute(t, "--kb", dbPath, "kb", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ knowledge base is valid")

	yamlPath := filepath.Join(dir, "kb.yaml")
	_, err = execute(t, "--kb", dbPath, "kb", "export", "--out", yamlPath)
	require.NoError(t, err)
	k, err := kb.LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 32, k.Len())

	_, err = execute(t, "kb", "export")
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestKBWatch_RequiresYAML(t *testing.T) {
	_, err := execute(t, "kb", "watch")
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestSourceForPath(t *testing.T) {
	assert.Equal(t, "sqlite", sourceForPath("x.DB"))
	assert.Equal(t, "sqlite", sourceForPath("x.sqlite3"))
	assert.Equal(t, "yaml", sourceForPath("x.yaml"))
	assert.Equal(t, "yaml", sourceForPath("kb"))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitOK, exitCode(context.Canceled))
	assert.Equal(t, exitCorrective, exitCode(fmt.Errorf("x: %w", types.ErrInvalidInput)))
	assert.Equal(t, exitUnsatisfiable, exitCode(types.ErrCycleDetected))
	assert.Equal(t, exitInternal, exitCode(io.ErrUnexpectedEOF))
}
