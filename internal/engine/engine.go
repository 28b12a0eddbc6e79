// Package engine is the facade callers use: it validates requests, builds a
// per-request session over the live knowledge base snapshot, and runs the
// planner, searches and analytics with metrics and audit logging.
package engine

import (
	"context"
	"fmt"
	"sync/atomic"

	"learnpath/internal/config"
	"learnpath/internal/facts"
	"learnpath/internal/kb"
	"learnpath/internal/logging"
	"learnpath/internal/metrics"
	"learnpath/internal/search"

	"go.uber.org/zap"
)

// Engine is safe for concurrent use. Each call reads one knowledge base
// snapshot and never mutates it.
type Engine struct {
	holder    *kb.Holder
	cfg       *config.Config
	metrics   *metrics.Metrics
	heuristic search.Heuristic
	graph     atomic.Pointer[search.Graph]
}

// New creates an engine over holder. A nil cfg uses config.DefaultConfig; a
// nil m records no metrics.
func New(holder *kb.Holder, cfg *config.Config, m *metrics.Metrics) (*Engine, error) {
	if holder == nil || holder.Load() == nil {
		return nil, fmt.Errorf("engine needs a loaded knowledge base")
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	h, err := search.HeuristicByName(cfg.Search.Heuristic)
	if err != nil {
		return nil, err
	}
	e := &Engine{holder: holder, cfg: cfg, metrics: m, heuristic: h}
	if m != nil {
		m.KBTopics.Set(float64(holder.Load().Len()))
	}
	logging.Boot("engine ready",
		zap.String("kb_version", holder.Load().Version()),
		zap.Int("topics", holder.Load().Len()),
		zap.String("heuristic", cfg.Search.Heuristic))
	return e, nil
}

// KB returns the live snapshot.
func (e *Engine) KB() *kb.KnowledgeBase { return e.holder.Load() }

// Config returns the engine configuration.
func (e *Engine) Config() *config.Config { return e.cfg }

// NewSession returns an empty session for callers that build facts
// incrementally.
func (e *Engine) NewSession() *facts.Session {
	s := facts.NewSession()
	logging.SessionDebug("session created", zap.String("session", s.ID()))
	return s
}

// snapshot returns the live KB with its search graph, rebuilding the graph
// when the snapshot has been swapped.
func (e *Engine) snapshot() (*kb.KnowledgeBase, *search.Graph) {
	k := e.holder.Load()
	if g := e.graph.Load(); g != nil && g.KB() == k {
		return k, g
	}
	g := search.NewGraph(k)
	e.graph.Store(g)
	return k, g
}

// OnReload is a kb.ReloadHook that records reload metrics and audit facts.
func (e *Engine) OnReload(path string) kb.ReloadHook {
	return func(k *kb.KnowledgeBase, err error) {
		topics := 0
		if k != nil {
			topics = k.Len()
		}
		e.metrics.RecordReload(err, topics)
		logging.AuditWithSession("").KBReload(path, err)
	}
}

// Watch starts hot reloading the configured YAML knowledge base into the
// engine's holder. The caller stops the returned watcher.
func (e *Engine) Watch(ctx context.Context) (*kb.Watcher, error) {
	w, err := kb.NewWatcher(e.cfg.KB.Path, e.holder, kb.LoadFile, e.OnReload(e.cfg.KB.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to create kb watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return nil, err
	}
	return w, nil
}
