package kb_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"learnpath/internal/kb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestHolder_Swap(t *testing.T) {
	first, err := kb.Parse([]byte(tinyKB))
	require.NoError(t, err)
	second, err := kb.Default()
	require.NoError(t, err)

	h := kb.NewHolder(first)
	assert.Same(t, first, h.Load())
	assert.Same(t, first, h.Swap(second))
	assert.Same(t, second, h.Load())
	assert.EqualValues(t, 1, h.Reloads())
}

func TestWatcher_ReloadsValidAndKeepsOldOnInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(tinyKB), 0o644))

	initial, err := kb.LoadFile(path)
	require.NoError(t, err)
	holder := kb.NewHolder(initial)

	var hookCalls atomic.Int32
	w, err := kb.NewWatcher(path, holder, nil, func(*kb.KnowledgeBase, error) { hookCalls.Add(1) })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	updated := []byte(`
version: "t2"
topics:
  - {id: go, duration: 8, difficulty: beginner}
goals:
  - {name: gopher, topics: [go]}
`)
	require.NoError(t, os.WriteFile(path, updated, 0o644))

	require.Eventually(t, func() bool {
		return holder.Load().Version() == "t2"
	}, 5*time.Second, 20*time.Millisecond)

	failedBefore := w.Stats().FailedReloads
	require.NoError(t, os.WriteFile(path, []byte("topics: [broken"), 0o644))
	require.Eventually(t, func() bool {
		return w.Stats().FailedReloads > failedBefore
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, "t2", holder.Load().Version(), "invalid file must not replace the live snapshot")
	assert.GreaterOrEqual(t, hookCalls.Load(), int32(2))
	assert.NotEmpty(t, w.Stats().LastError)
}

func TestWatcher_ReloadNow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(tinyKB), 0o644))

	holder := kb.NewHolder(nil)
	w, err := kb.NewWatcher(path, holder, nil, nil)
	require.NoError(t, err)
	defer w.Stop()

	w.Reload()
	require.NotNil(t, holder.Load())
	assert.Equal(t, "t1", holder.Load().Version())
	assert.Equal(t, 1, w.Stats().Reloads)
}
