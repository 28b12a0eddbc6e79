// Command learnpath recommends study plans over a topic knowledge base.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"learnpath/cmd/learnpath/ui"
	"learnpath/internal/config"
	"learnpath/internal/engine"
	"learnpath/internal/kb"
	"learnpath/internal/logging"
	"learnpath/internal/metrics"
	"learnpath/internal/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Exit codes by error kind.
const (
	exitOK = iota
	exitInternal
	exitCorrective
	exitUnsatisfiable
)

// app carries the global flags and the lazily built engine for one command
// invocation.
type app struct {
	configPath string
	kbPath     string
	kbSource   string
	heuristic  string
	format     string
	verbose    bool

	cfg      *config.Config
	registry *prometheus.Registry
	engine   *engine.Engine
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "learnpath",
		Short: "learnpath - prerequisite-aware study planner",
		Long: `learnpath plans the order in which to study topics toward a career goal.

Topics form a prerequisite graph. A plan lists every unknown topic the goal
needs, prerequisites first, cheapest first among ready topics. Searches
compare A* with an uninformed depth-first baseline, AO* picks the cheapest
strategy for a stack, and analytics report pairs, blocked topics and
duration buckets.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync()
		},
	}

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%s: %w: %w", cmd.CommandPath(), err, types.ErrInvalidInput)
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "Path to a YAML config file")
	pf.StringVar(&a.kbPath, "kb", "", "Knowledge base file (.db for SQLite, otherwise YAML)")
	pf.StringVar(&a.kbSource, "kb-source", "", "Knowledge base source: embedded, yaml, sqlite")
	pf.StringVar(&a.heuristic, "heuristic", "", "A* heuristic: goal_duration, duration, zero")
	pf.StringVarP(&a.format, "format", "f", formatTable, "Output format: table, json, markdown")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		a.planCmd(),
		a.astarCmd(),
		a.aostarCmd(),
		a.pathsCmd(),
		a.analyzeCmd(),
		a.unlearnableCmd(),
		a.closureCmd(),
		a.topicsCmd(),
		a.goalsCmd(),
		a.kbCmd(),
	)
	return rootCmd
}

// setup loads config, applies flag overrides and initializes logging.
func (a *app) setup() error {
	if !validFormat(a.format) {
		return fmt.Errorf("unknown format %q (valid: %s): %w",
			a.format, strings.Join(formats, ", "), types.ErrInvalidInput)
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.kbPath != "" {
		cfg.KB.Path = a.kbPath
		cfg.KB.Source = sourceForPath(a.kbPath)
	}
	if a.kbSource != "" {
		cfg.KB.Source = a.kbSource
	}
	if a.heuristic != "" {
		cfg.Search.Heuristic = a.heuristic
	}
	if a.verbose {
		cfg.Logging.DebugMode = true
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logging.Initialize(cfg.Logging.LoggerConfig()); err != nil {
		return err
	}
	a.cfg = cfg
	logging.Boot("config loaded",
		zap.String("config", a.configPath),
		zap.String("kb_source", cfg.KB.Source),
		zap.String("kb_path", cfg.KB.Path))
	return nil
}

func sourceForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return config.SourceSQLite
	default:
		return config.SourceYAML
	}
}

// loadEngine builds the engine on first use.
func (a *app) loadEngine(ctx context.Context) (*engine.Engine, error) {
	if a.engine != nil {
		return a.engine, nil
	}
	k, err := engine.LoadKB(ctx, a.cfg.KB)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge base: %w", err)
	}
	a.registry = prometheus.NewRegistry()
	e, err := engine.New(kb.NewHolder(k), a.cfg, metrics.New(a.registry))
	if err != nil {
		return nil, err
	}
	a.engine = e
	return e, nil
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, context.Canceled) {
		return exitOK
	}
	kind := types.KindOf(err)
	switch {
	case kind.Corrective():
		return exitCorrective
	case kind == types.KindUnsatisfiable || kind == types.KindCycleDetected:
		return exitUnsatisfiable
	default:
		return exitInternal
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, ui.DefaultStyles().Error.Render("Error: "+err.Error()))
	}
	code := exitCode(err)
	stop()
	os.Exit(code)
}
