package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/geodiscover/construction"
	"github.com/katalvlaran/geodiscover/logging"
	"github.com/katalvlaran/geodiscover/report"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		focus    string
		addr     string
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch <script.yaml>",
		Short: "Rerun discovery whenever the script changes",
		Long: `watch runs discovery once, then again after every save of the script.
With --metrics-addr (or metrics.addr) it serves Prometheus metrics on /metrics.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Metrics.Addr
			}
			return a.watch(cmd.Context(), args[0], focus, addr, debounce, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&focus, "focus", "f", "", "focus point (default: the script's focus)")
	cmd.Flags().StringVar(&addr, "metrics-addr", "", "listen address of the /metrics endpoint")
	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "quiet period before a rerun")

	return cmd
}

// watch reruns discovery on path until ctx ends. Reruns share one graph
// id so the prover cache serves relations whose solved forms are unchanged.
func (a *app) watch(ctx context.Context, path, focus, addr string, debounce time.Duration, out io.Writer) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if addr != "" {
		stop := a.serveMetrics(addr)
		defer stop()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	// editors often replace the file, so watch its directory
	if err = w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	graphID := "watch:" + path
	rerun := func() {
		// a replayed script restarts at the same version, so the cached
		// constraint set cannot be told apart from the new one
		a.alg.Forget(graphID)
		sc, err := construction.LoadScript(path)
		if err == nil {
			var rep *report.Report
			rep, err = a.run(ctx, sc, focus, construction.WithID(graphID))
			if err == nil {
				fmt.Fprintf(out, "# %s (version %d)\n", filepath.Base(path), rep.Version)
				err = a.print(out, rep)
			}
		}
		if err != nil && ctx.Err() == nil {
			a.log.Warn("watch rerun failed", logging.String("path", path), logging.Err(err))
			fmt.Fprintf(out, "# %s: %v\n", filepath.Base(path), err)
		}
	}
	rerun()

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) == path && ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				timer.Reset(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.log.Warn("watch error", logging.Err(err))
		case <-timer.C:
			rerun()
		}
	}
}

// serveMetrics exposes the collector on addr and returns its shutdown.
func (a *app) serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("metrics server failed", logging.String("addr", addr), logging.Err(err))
		}
	}()
	a.log.Info("serving metrics", logging.String("addr", addr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		<-done
	}
}
