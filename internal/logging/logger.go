// Package logging provides config-driven categorized logging for learnpath.
// Every subsystem logs through a named zap logger for its category.
// When debug_mode is false only warnings and errors are emitted; disabled
// categories get a no-op logger.
package logging

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup, config loading
	CategoryKB        Category = "kb"        // Knowledge base loading and validation
	CategorySession   Category = "session"   // Session fact declarations
	CategoryPlanner   Category = "planner"   // Path planning
	CategorySearch    Category = "search"    // A*, DFS, AO*, enumeration
	CategoryAnalytics Category = "analytics" // Relational derivations
	CategoryWatcher   Category = "watcher"   // KB file watching and reloads
)

// Config mirrors config.LoggingConfig to avoid an import cycle.
type Config struct {
	Level      string          // debug, info, warn, error
	Format     string          // json, text
	DebugMode  bool            // false = warn and above only
	Categories map[string]bool // per-category toggles, all enabled when nil
	OutputPath string          // empty = stderr
}

var (
	mu      sync.RWMutex
	base    = zap.NewNop()
	cfg     Config
	loggers = make(map[Category]*zap.Logger)
)

// Initialize builds the base zap logger. Safe to call again; previously
// handed-out category loggers keep their old core.
func Initialize(c Config) error {
	zc := zap.NewProductionConfig()
	if c.Format == "text" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(parseLevel(c))
	if c.OutputPath != "" {
		zc.OutputPaths = []string{c.OutputPath}
	} else {
		zc.OutputPaths = []string{"stderr"}
	}
	zc.ErrorOutputPaths = []string{"stderr"}

	l, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	base = l
	cfg = c
	loggers = make(map[Category]*zap.Logger)
	return nil
}

// UseLogger installs an already built logger, mainly for tests.
func UseLogger(l *zap.Logger, c Config) {
	mu.Lock()
	defer mu.Unlock()
	base = l
	cfg = c
	loggers = make(map[Category]*zap.Logger)
}

func parseLevel(c Config) zapcore.Level {
	if !c.DebugMode {
		return zapcore.WarnLevel
	}
	switch c.Level {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return categoryEnabled(category)
}

func categoryEnabled(category Category) bool {
	if cfg.Categories == nil {
		return true
	}
	enabled, exists := cfg.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) the logger for the given category.
func Get(category Category) *zap.Logger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	var l *zap.Logger
	if categoryEnabled(category) {
		l = base.Named(string(category))
	} else {
		l = zap.NewNop()
	}
	loggers[category] = l
	return l
}

// Sync flushes the base logger.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}

// =============================================================================
// CONVENIENCE FUNCTIONS
// =============================================================================

// Boot logs to the boot category
func Boot(msg string, fields ...zap.Field) {
	Get(CategoryBoot).Info(msg, fields...)
}

// KB logs to the kb category
func KB(msg string, fields ...zap.Field) {
	Get(CategoryKB).Info(msg, fields...)
}

// KBDebug logs debug to the kb category
func KBDebug(msg string, fields ...zap.Field) {
	Get(CategoryKB).Debug(msg, fields...)
}

// SessionDebug logs debug to the session category
func SessionDebug(msg string, fields ...zap.Field) {
	Get(CategorySession).Debug(msg, fields...)
}

// Planner logs to the planner category
func Planner(msg string, fields ...zap.Field) {
	Get(CategoryPlanner).Info(msg, fields...)
}

// PlannerDebug logs debug to the planner category
func PlannerDebug(msg string, fields ...zap.Field) {
	Get(CategoryPlanner).Debug(msg, fields...)
}

// SearchDebug logs debug to the search category
func SearchDebug(msg string, fields ...zap.Field) {
	Get(CategorySearch).Debug(msg, fields...)
}

// AnalyticsDebug logs debug to the analytics category
func AnalyticsDebug(msg string, fields ...zap.Field) {
	Get(CategoryAnalytics).Debug(msg, fields...)
}

// Watcher logs to the watcher category
func Watcher(msg string, fields ...zap.Field) {
	Get(CategoryWatcher).Info(msg, fields...)
}
