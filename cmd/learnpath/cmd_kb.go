package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"learnpath/internal/config"
	"learnpath/internal/kb"
	"learnpath/internal/logging"
	"learnpath/internal/types"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) kbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Validate, export and watch knowledge bases",
	}
	cmd.AddCommand(a.kbValidateCmd(), a.kbExportCmd(), a.kbWatchCmd())
	return cmd
}

func (a *app) kbValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configured knowledge base and check it",
		Long: `Loads the knowledge base named by --kb (or the config file) and reports
its size. Loading fails on unknown prerequisites, duplicate ids, malformed
identifiers, and prerequisite cycles reachable from a goal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			k := e.KB()
			summary := map[string]any{
				"source":     a.cfg.KB.Source,
				"path":       a.cfg.KB.Path,
				"version":    k.Version(),
				"topics":     k.Len(),
				"goals":      len(k.GoalNames()),
				"roots":      len(k.Roots()),
				"acyclic":    k.CheckAcyclic() == nil,
				"checked_at": time.Now().UTC().Format(time.RFC3339),
			}
			v := view{Title: "Knowledge base", Data: summary}
			v.add("Source", a.cfg.KB.Source)
			if a.cfg.KB.Path != "" {
				v.add("Path", a.cfg.KB.Path)
			}
			v.add("Version", k.Version())
			v.add("Topics", strconv.Itoa(k.Len()))
			v.add("Goals", strconv.Itoa(len(k.GoalNames())))
			v.add("Strategy roots", strconv.Itoa(len(k.Roots())))
			v.success("knowledge base is valid")
			return render(cmd.OutOrStdout(), a.format, v)
		},
	}
}

func (a *app) kbExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the knowledge base to SQLite or YAML",
		Long: `Writes the loaded knowledge base to --out. A .db, .sqlite or .sqlite3
extension writes SQLite; anything else writes YAML.

Example:
  learnpath kb export --out topics.db
  learnpath --kb topics.db kb export --out topics.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("--out is required: %w", types.ErrInvalidInput)
			}
			e, err := a.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			k := e.KB()
			format := sourceForPath(out)
			if format == config.SourceSQLite {
				err = kb.ExportSQLite(cmd.Context(), k, out)
			} else {
				var data []byte
				if data, err = kb.Marshal(k); err == nil {
					err = os.WriteFile(out, data, 0644)
				}
			}
			if err != nil {
				return fmt.Errorf("failed to export knowledge base: %w", err)
			}
			v := view{
				Title: "Knowledge base exported",
				Data:  map[string]any{"path": out, "format": format, "topics": k.Len()},
			}
			v.add("Path", out)
			v.add("Format", format)
			v.add("Topics", strconv.Itoa(k.Len()))
			v.success("wrote %s", out)
			return render(cmd.OutOrStdout(), a.format, v)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file")
	return cmd
}

func (a *app) kbWatchCmd() *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Hot-reload a YAML knowledge base and serve metrics",
		Long: `Watches the YAML knowledge base file and swaps in every edit that still
validates; invalid edits are logged and the previous snapshot stays live.
Prometheus metrics are served on --metrics-addr until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.KB.Source != config.SourceYAML {
				return fmt.Errorf("watch needs a yaml knowledge base, got %s: %w", a.cfg.KB.Source, types.ErrInvalidInput)
			}
			ctx := cmd.Context()
			e, err := a.loadEngine(ctx)
			if err != nil {
				return err
			}
			w, err := e.Watch(ctx)
			if err != nil {
				return err
			}
			defer w.Stop()

			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
			srv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
			errCh := make(chan error, 1)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			logging.Watcher("watching knowledge base",
				zap.String("path", a.cfg.KB.Path), zap.String("metrics_addr", metricsAddr))
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s, metrics on http://%s/metrics\n", a.cfg.KB.Path, metricsAddr)

			select {
			case <-ctx.Done():
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("metrics server: %w", err)
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			stats := w.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "Stopped after %d reloads (%d failed)\n", stats.Reloads, stats.FailedReloads)
			return nil
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "127.0.0.1:9464", "Address for the Prometheus /metrics endpoint")
	return cmd
}
