package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/geodiscover/algebra"
	"github.com/katalvlaran/geodiscover/config"
	"github.com/katalvlaran/geodiscover/construction"
	"github.com/katalvlaran/geodiscover/discover"
	"github.com/katalvlaran/geodiscover/logging"
	"github.com/katalvlaran/geodiscover/metrics"
	"github.com/katalvlaran/geodiscover/prover"
	"github.com/katalvlaran/geodiscover/report"
	"github.com/katalvlaran/geodiscover/store"
)

// app holds the components shared by every subcommand.
type app struct {
	cfgPath   string
	storePath string
	logLevel  string
	jsonOut   bool

	cfg     *config.Config
	log     logging.Logger
	metrics *metrics.Collector
	archive *store.Archive
	prover  *prover.Prover
	alg     *algebra.Algebraizer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "geodiscover",
		Short: "Discover theorems in planar constructions",
		Long: `geodiscover replays construction scripts and reports the relations
that hold around a focus point: identities, collinear and concyclic groups,
parallel and perpendicular lines and congruent segments. Every statement is
confirmed symbolically.`,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "YAML config file (GEODISCOVER_* variables override it)")
	pf.StringVar(&a.storePath, "store", "", "SQLite verdict archive (overrides store.path)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&a.jsonOut, "json", false, "print reports as JSON")

	root.AddCommand(
		newDiscoverCmd(a),
		newWatchCmd(a),
		newScenarioCmd(a),
		newConstraintsCmd(a),
		newBatchCmd(a),
	)

	return root
}

// setup loads the config and builds the shared components.
func (a *app) setup() error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.storePath != "" {
		cfg.Store.Path = a.storePath
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if a.log, err = logging.NewLogger(cfg.Log); err != nil {
		return err
	}
	if a.metrics, err = metrics.New(cfg.Collector()); err != nil {
		return err
	}
	opts := append(cfg.ProverOptions(),
		prover.WithLogger(a.log.Named("prover")),
		prover.WithMetrics(a.metrics))
	if cfg.Store.Path != "" {
		if a.archive, err = store.Open(cfg.Store.Path); err != nil {
			return err
		}
		opts = append(opts, prover.WithArchive(a.archive))
	}
	a.prover = prover.New(opts...)
	a.alg = algebra.NewAlgebraizer(algebra.WithLimits(cfg.Limits()))

	return nil
}

func (a *app) close() error {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.archive != nil {
		return a.archive.Close()
	}

	return nil
}

// engine returns an engine over g sharing the app's prover and algebraizer.
func (a *app) engine(g *construction.Graph) *discover.Engine {
	opts := append(a.cfg.EngineOptions(),
		discover.WithProver(a.prover),
		discover.WithAlgebraizer(a.alg),
		discover.WithLogger(a.log.Named("engine")),
		discover.WithMetrics(a.metrics))

	return discover.New(g, opts...)
}

// run replays sc onto a fresh graph and discovers around focus, or the
// script's own focus when focus is empty.
func (a *app) run(ctx context.Context, sc *construction.Script, focus string, opts ...construction.GraphOption) (*report.Report, error) {
	if focus == "" {
		focus = sc.Focus
	}
	if focus == "" {
		return nil, fmt.Errorf("script %q: %w", sc.Name, errNoFocus)
	}
	g := construction.NewGraph(opts...)
	if err := sc.Apply(g); err != nil {
		return nil, err
	}

	return a.engine(g).Discover(ctx, focus)
}

// print writes rep as text or JSON.
func (a *app) print(w io.Writer, rep *report.Report) error {
	if !a.jsonOut {
		_, err := io.WriteString(w, rep.String())
		return err
	}
	data, err := rep.JSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))

	return err
}
