package kb

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"learnpath/internal/logging"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// LoaderFunc builds a knowledge base from a file.
type LoaderFunc func(path string) (*KnowledgeBase, error)

// ReloadHook is told about every reload attempt.
type ReloadHook func(k *KnowledgeBase, err error)

// Watcher watches a knowledge base file and publishes a new snapshot into a
// Holder whenever the file changes and still validates. An invalid file is
// logged and the previous snapshot stays live.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	holder      *Holder
	path        string
	load        LoaderFunc
	hook        ReloadHook
	debounceDur time.Duration
	pendingAt   time.Time
	pending     bool
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	closeOnce   sync.Once

	stats WatcherStats
}

// WatcherStats tracks watcher activity.
type WatcherStats struct {
	Events        int
	Reloads       int
	FailedReloads int
	Errors        int
	LastEventTime time.Time
	LastError     string
}

// NewWatcher creates a watcher for path. load defaults to LoadFile.
func NewWatcher(path string, holder *Holder, load LoaderFunc, hook ReloadHook) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if load == nil {
		load = LoadFile
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return &Watcher{
		watcher:     fw,
		holder:      holder,
		path:        abs,
		load:        load,
		hook:        hook,
		debounceDur: 200 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. It watches the parent directory so that editors
// that replace the file by rename are still seen. Non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logging.Watcher("watching knowledge base", zap.String("path", w.path))

	go w.run(ctx)
	return nil
}

// Stop stops the watcher, waits for its goroutine to exit, and releases the
// underlying fsnotify watcher. Safe to call on a watcher that never started.
func (w *Watcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}

	w.closeOnce.Do(func() {
		if err := w.watcher.Close(); err != nil {
			logging.Get(logging.CategoryWatcher).Error("error closing watcher", zap.Error(err))
		}
	})
}

// Stats returns a copy of the watcher counters.
func (w *Watcher) Stats() WatcherStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryWatcher).Error("watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case <-ticker.C:
			w.processPending()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}
	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEventTime = time.Now()
	w.pending = true
	w.pendingAt = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processPending() {
	w.mu.Lock()
	if !w.pending || time.Since(w.pendingAt) < w.debounceDur {
		w.mu.Unlock()
		return
	}
	w.pending = false
	w.mu.Unlock()

	w.Reload()
}

// Reload loads the file now and publishes it when valid.
func (w *Watcher) Reload() {
	k, err := w.load(w.path)

	w.mu.Lock()
	if err != nil {
		w.stats.FailedReloads++
		w.stats.LastError = err.Error()
	} else {
		w.stats.Reloads++
		w.stats.LastError = ""
	}
	w.mu.Unlock()

	if err != nil {
		logging.Get(logging.CategoryWatcher).Warn("knowledge base reload rejected, keeping previous snapshot",
			zap.String("path", w.path), zap.Error(err))
	} else {
		w.holder.Swap(k)
		logging.Watcher("knowledge base reloaded", zap.String("version", k.Version()), zap.Int("topics", k.Len()))
	}
	if w.hook != nil {
		w.hook(k, err)
	}
}
