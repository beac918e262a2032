package discover

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/geodiscover/aggregate"
	"github.com/katalvlaran/geodiscover/algebra"
	"github.com/katalvlaran/geodiscover/candidate"
	"github.com/katalvlaran/geodiscover/construction"
	"github.com/katalvlaran/geodiscover/logging"
	"github.com/katalvlaran/geodiscover/prover"
	"github.com/katalvlaran/geodiscover/report"
)

var (
	// ErrNotPoint is returned when the focus is not a point.
	ErrNotPoint = errors.New("discover: focus is not a point")

	// ErrConstructionChanged is returned when the graph kept changing
	// through every restart.
	ErrConstructionChanged = errors.New("discover: construction changed during discovery")

	// ErrNoReport is returned by Extend without a previous report.
	ErrNoReport = errors.New("discover: no report to extend")

	// errRestart aborts one attempt; Discover retries.
	errRestart = errors.New("discover: restart")
)

// Recorder receives engine measurements. *metrics.Collector implements it.
type Recorder interface {
	Run(outcome string, d time.Duration, statements int)
	Restart()
}

type nopRecorder struct{}

func (nopRecorder) Run(string, time.Duration, int) {}
func (nopRecorder) Restart()                       {}

// BranchChoice selects the branch of a multi-valued intersection.
type BranchChoice struct {
	Object string
	// Index is 1 or 2.
	Index int
}

// Engine discovers relations in one construction graph.
//
// Concurrency:
//   - Discover calls are serialized.
//   - A run holds the edit gate for reading; Apply cancels the runs in
//     flight and takes it for writing.
type Engine struct {
	g   *construction.Graph
	agg *aggregate.Aggregator
	alg *algebra.Algebraizer
	prv *prover.Prover

	radius      int
	tol         float64
	maxRestarts int
	log         logging.Logger
	rec         Recorder

	mu       sync.Mutex   // one Discover at a time
	gate     sync.RWMutex // runs read, Apply writes
	applying atomic.Int32
	cmu      sync.Mutex
	cancels  map[int]context.CancelCauseFunc
	nextRun  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithProver shares a prover between engines.
func WithProver(p *prover.Prover) Option {
	return func(e *Engine) { e.prv = p }
}

// WithAlgebraizer shares an algebraizer between engines.
func WithAlgebraizer(a *algebra.Algebraizer) Option {
	return func(e *Engine) { e.alg = a }
}

// WithRadius bounds the hop distance of candidate points from the focus
// (default 8; negative means unbounded).
func WithRadius(r int) Option {
	return func(e *Engine) { e.radius = r }
}

// WithTolerance sets the numeric tolerance of the candidate generator.
func WithTolerance(tol float64) Option {
	if tol <= 0 {
		panic("discover: WithTolerance needs tol > 0")
	}

	return func(e *Engine) { e.tol = tol }
}

// WithMaxRestarts bounds the restarts of one Discover call (default 3).
func WithMaxRestarts(n int) Option {
	if n < 0 {
		panic("discover: WithMaxRestarts needs n >= 0")
	}

	return func(e *Engine) { e.maxRestarts = n }
}

// WithLogger sets the logger (default: no-op).
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics sets the measurement sink.
func WithMetrics(r Recorder) Option {
	return func(e *Engine) { e.rec = r }
}

// New returns an Engine over g.
func New(g *construction.Graph, opts ...Option) *Engine {
	e := &Engine{
		g:           g,
		agg:         aggregate.New(),
		radius:      8,
		tol:         1e-8,
		maxRestarts: 3,
		log:         logging.NewNopLogger(),
		rec:         nopRecorder{},
		cancels:     make(map[int]context.CancelCauseFunc),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.alg == nil {
		e.alg = algebra.NewAlgebraizer()
	}
	if e.prv == nil {
		e.prv = prover.New(prover.WithLogger(e.log))
	}

	return e
}

// Graph returns the engine's graph.
func (e *Engine) Graph() *construction.Graph { return e.g }

// Reset forgets every pooled relation.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.agg = aggregate.New()
}

// Apply cancels the run in flight, waits for it to stop and applies fn to
// the graph. The canceled Discover restarts against the edited graph.
func (e *Engine) Apply(ctx context.Context, fn func(g *construction.Graph) error) error {
	e.applying.Add(1)
	defer e.applying.Add(-1)

	e.cmu.Lock()
	for _, cancel := range e.cancels {
		cancel(errRestart)
	}
	e.cmu.Unlock()

	e.gate.Lock()
	defer e.gate.Unlock()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("Apply: %w", err)
	}

	return fn(e.g)
}

// Extend confirms or changes a branch choice and extends prev: relations
// that survive the choice are kept and new ones are added.
func (e *Engine) Extend(ctx context.Context, prev *report.Report, choice BranchChoice) (*report.Report, error) {
	if prev == nil {
		return nil, ErrNoReport
	}
	err := e.Apply(ctx, func(g *construction.Graph) error {
		_, err := g.ResolveBranch(choice.Object, choice.Index)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("Extend %s: %w", choice.Object, err)
	}

	return e.Discover(ctx, prev.Focus)
}

// Discover reports the relations found around focus.
//
// Errors:
//   - construction.ErrUnknownObject: no object focus.
//   - ErrNotPoint: focus is not a point.
//   - ErrConstructionChanged: the graph changed through every restart.
//   - ctx errors when ctx ends first.
func (e *Engine) Discover(ctx context.Context, focus string) (*report.Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	for attempt := 0; ; attempt++ {
		rep, err := e.run(ctx, focus)
		if errors.Is(err, errRestart) {
			if attempt >= e.maxRestarts {
				e.rec.Run("changed", time.Since(start), 0)
				return nil, fmt.Errorf("Discover %s after %d restarts: %w", focus, attempt, ErrConstructionChanged)
			}
			e.rec.Restart()
			e.log.Info("discovery restarted", logging.String("focus", focus), logging.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			e.rec.Run("error", time.Since(start), 0)
			return nil, err
		}
		e.rec.Run("ok", time.Since(start), len(rep.Statements))

		return rep, nil
	}
}

// run is one attempt at Discover.
//
// Implementation:
//   - Stage 1: snapshot, focus checks and the constraint set.
//   - Stage 2: drop pooled relations over redefined points.
//   - Stage 3: verify candidates; relations that hold join the pool
//     before the next candidate is formed.
//   - Stage 4: render the pool for the focus.
func (e *Engine) run(ctx context.Context, focus string) (*report.Report, error) {
	e.gate.RLock()
	defer e.gate.RUnlock()

	rctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	e.cmu.Lock()
	id := e.nextRun
	e.nextRun++
	e.cancels[id] = cancel
	e.cmu.Unlock()
	defer func() {
		e.cmu.Lock()
		delete(e.cancels, id)
		e.cmu.Unlock()
	}()

	// Stage 1
	start := time.Now()
	snap := e.g.Snapshot()
	o, ok := snap.Object(focus)
	if !ok {
		return nil, fmt.Errorf("Discover %s: %w", focus, construction.ErrUnknownObject)
	}
	if o.Kind != construction.KindPoint {
		return nil, fmt.Errorf("Discover %s (%s): %w", focus, o.Kind, ErrNotPoint)
	}
	cs, err := e.alg.ConstraintsFor(rctx, snap)
	if err != nil {
		return nil, e.stopped(ctx, rctx, err)
	}

	// Stage 2
	dropped := e.agg.Invalidate(cs)

	// Stage 3
	rep := &report.Report{RunID: uuid.NewString(), Focus: focus, GraphID: snap.GraphID, Version: snap.Version}
	counts := make(map[candidate.Kind]int)
	proved := 0
	gen := candidate.NewGenerator(cs, e.agg, candidate.WithRadius(e.radius), candidate.WithTolerance(e.tol))
	for c := range gen.Candidates(focus) {
		if e.applying.Load() > 0 || e.g.Version() != snap.Version {
			return nil, errRestart
		}
		if rctx.Err() != nil {
			return nil, e.stopped(ctx, rctx, rctx.Err())
		}
		vr := e.prv.Verify(rctx, c, cs)
		if rctx.Err() != nil {
			return nil, e.stopped(ctx, rctx, rctx.Err())
		}
		rep.Candidates++
		counts[c.Kind]++
		switch vr.Verdict {
		case prover.Holds:
			if e.agg.Add(vr) {
				proved++
			}
		case prover.Inconclusive:
			rep.Inconclusive = append(rep.Inconclusive, c.String())
		}
		e.log.Debug("candidate verified",
			logging.String("relation", c.String()),
			logging.String("verdict", vr.Verdict.String()),
			logging.String("method", vr.Method.String()),
			logging.Bool("cached", vr.Cached))
	}
	if e.applying.Load() > 0 || e.g.Version() != snap.Version {
		return nil, errRestart
	}

	// Stage 4
	for _, p := range snap.Points() {
		if cs.Degenerate(p) != nil {
			rep.Degenerate = append(rep.Degenerate, p)
		}
	}
	rep.Statements, rep.Provisional = e.agg.Statements(focus, snap)
	rep.Pending = pendingBranches(cs, rep.Provisional)

	fields := []logging.Field{
		logging.String("run", rep.RunID),
		logging.String("focus", focus),
		logging.String("graph", snap.GraphID),
		logging.Uint64("version", snap.Version),
		logging.Int("candidates", rep.Candidates),
		logging.Int("proved", proved),
		logging.Int("dropped", dropped),
		logging.Int("statements", len(rep.Statements)),
		logging.Int("inconclusive", len(rep.Inconclusive)),
		logging.Duration("elapsed", time.Since(start)),
	}
	for _, k := range candidate.Kinds {
		fields = append(fields, logging.Int(k.String(), counts[k]))
	}
	e.log.Info("discovery finished", fields...)

	return rep, nil
}

// stopped maps a canceled attempt: Apply asks for a restart, anything else
// is the caller's context ending.
func (e *Engine) stopped(ctx, rctx context.Context, err error) error {
	if errors.Is(context.Cause(rctx), errRestart) {
		return errRestart
	}
	if ctx.Err() != nil {
		return fmt.Errorf("Discover: %w", ctx.Err())
	}

	return err
}

// pendingBranches returns the unresolved branches behind provisional
// statements.
func pendingBranches(cs *algebra.ConstraintSet, provisional []report.Statement) []algebra.Branch {
	need := make(map[string]struct{})
	for _, s := range provisional {
		for _, p := range s.Pending {
			need[p] = struct{}{}
		}
	}
	var out []algebra.Branch
	for _, b := range cs.Branches() {
		if _, ok := need[b.Object]; ok && !b.Resolved {
			out = append(out, b)
		}
	}

	return out
}
