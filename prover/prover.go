package prover

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/katalvlaran/geodiscover/algebra"
	"github.com/katalvlaran/geodiscover/candidate"
	"github.com/katalvlaran/geodiscover/cas"
	"github.com/katalvlaran/geodiscover/logging"
	"github.com/katalvlaran/geodiscover/numeric"
)

// Prover verifies candidates. It is safe for concurrent use; one Prover may
// serve several engines because every cache key carries the graph id.
type Prover struct {
	tol      float64
	identity float64
	timeout  time.Duration
	lim      cas.Limits
	size     int
	log      logging.Logger
	rec      Recorder
	archive  Archive

	cache  *cache
	flight singleflight.Group
}

// Option configures a Prover.
type Option func(*Prover)

// WithTolerance sets the numeric pre-filter threshold (default 1e-8).
func WithTolerance(tol float64) Option {
	if tol <= 0 {
		panic("prover: WithTolerance needs tol > 0")
	}

	return func(p *Prover) { p.tol = tol }
}

// WithIdentityThreshold sets the distance under which two points are
// numerically identical (default 1e-6).
func WithIdentityThreshold(d float64) Option {
	if d <= 0 {
		panic("prover: WithIdentityThreshold needs d > 0")
	}

	return func(p *Prover) { p.identity = d }
}

// WithProofTimeout bounds one symbolic check (default 5s; 0 disables).
func WithProofTimeout(d time.Duration) Option {
	if d < 0 {
		panic("prover: WithProofTimeout needs d >= 0")
	}

	return func(p *Prover) { p.timeout = d }
}

// WithLimits sets the term and degree budget of symbolic checks.
func WithLimits(lim cas.Limits) Option {
	return func(p *Prover) { p.lim = lim }
}

// WithCacheSize bounds the verdict cache (default 5000).
func WithCacheSize(n int) Option {
	if n <= 0 {
		panic("prover: WithCacheSize needs n > 0")
	}

	return func(p *Prover) { p.size = n }
}

// WithLogger sets the logger (default: no-op).
func WithLogger(l logging.Logger) Option {
	return func(p *Prover) { p.log = l }
}

// WithMetrics sets the measurement sink.
func WithMetrics(r Recorder) Option {
	return func(p *Prover) { p.rec = r }
}

// WithArchive consults a and stores symbolic verdicts in it.
func WithArchive(a Archive) Option {
	return func(p *Prover) { p.archive = a }
}

// New returns a Prover.
func New(opts ...Option) *Prover {
	p := &Prover{
		tol:      1e-8,
		identity: 1e-6,
		timeout:  5 * time.Second,
		lim:      cas.DefaultLimits(),
		size:     5000,
		log:      logging.NewNopLogger(),
		rec:      nopRecorder{},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.cache = newCache(p.size)

	return p
}

// CacheLen returns the number of cached verdicts.
func (p *Prover) CacheLen() int { return p.cache.len() }

// Verify decides c against cs.
//
// Implementation:
//   - Stage 1: definitional candidates hold without further work.
//   - Stage 2: degenerate or unplaced points give Degenerate.
//   - Stage 3: the numeric measure at the drawing rejects most candidates.
//   - Stage 4: cache, then archive, then cas.Decide on the solved forms
//     under ProofTimeout; concurrent identical checks share one run that
//     no single caller can cancel.
//
// Inconclusive results are never cached.
func (p *Prover) Verify(ctx context.Context, c candidate.Candidate, cs *algebra.ConstraintSet) VerifiedRelation {
	vr := p.verify(ctx, c, cs)
	p.rec.Verdict(c.Kind.String(), vr.Verdict.String(), vr.Method.String())
	if vr.Verdict == Inconclusive {
		p.log.Warn("relation inconclusive",
			logging.String("relation", c.String()),
			logging.String("graph", vr.GraphID),
			logging.Uint64("version", vr.Version),
			logging.Err(vr.Err))
	}

	return vr
}

func (p *Prover) verify(ctx context.Context, c candidate.Candidate, cs *algebra.ConstraintSet) VerifiedRelation {
	snap := cs.Snapshot()
	vr := VerifiedRelation{Candidate: c, GraphID: cs.GraphID, Version: cs.Version}
	for _, id := range c.Points {
		if s := snap.Stamp(id); s > vr.Stamp {
			vr.Stamp = s
		}
	}
	vr.Pending = cs.Pending(c.Points...)

	// Stage 1
	if c.Trivial {
		vr.Verdict, vr.Method = Holds, Definition
		return vr
	}

	// Stage 2
	pos := make([]numeric.Vec, len(c.Points))
	for i, id := range c.Points {
		if err := cs.Degenerate(id); err != nil {
			vr.Verdict, vr.Err = Degenerate, err
			return vr
		}
		v, ok := cs.Position(id)
		if !ok {
			vr.Verdict = Degenerate
			vr.Err = fmt.Errorf("Verify %s: %s has no position: %w", c, id, algebra.ErrDegenerateConstruction)
			return vr
		}
		pos[i] = v
	}

	// Stage 3
	limit := p.tol
	if c.Kind == candidate.Identical {
		limit = p.identity
	}
	if m := measure(c, pos); !(m < limit) {
		vr.Verdict, vr.Method = DoesNotHold, Numeric
		return vr
	}

	// Stage 4
	vr.Method = Symbolic
	digest := cs.Digest(c.Points...)
	key := strings.Join([]string{cs.GraphID, c.Signature(), strconv.FormatUint(vr.Stamp, 10), digest}, "|")
	if v, ok := p.cache.get(key); ok {
		p.rec.CacheHit()
		vr.Verdict, vr.Cached = v, true
		return vr
	}
	p.rec.CacheMiss()

	if err := ctx.Err(); err != nil {
		vr.Err = fmt.Errorf("Verify %s: %w: %w", c, ErrInconclusive, err)
		return vr
	}
	// The shared run outlives any single caller; each caller only stops
	// waiting on its own cancellation.
	shared := context.WithoutCancel(ctx)
	ch := p.flight.DoChan(key, func() (any, error) {
		return p.prove(shared, c, cs, key, c.Signature()+"|"+digest), nil
	})
	select {
	case res := <-ch:
		out := res.Val.(outcome)
		vr.Verdict, vr.Cached, vr.Err = out.verdict, out.archived, out.err
	case <-ctx.Done():
		vr.Err = fmt.Errorf("Verify %s: %w: %w", c, ErrInconclusive, context.Cause(ctx))
	}

	return vr
}

// outcome is what one symbolic run shares with its concurrent duplicates.
type outcome struct {
	verdict  Verdict
	archived bool
	err      error
}

func (p *Prover) prove(ctx context.Context, c candidate.Candidate, cs *algebra.ConstraintSet, key, archiveKey string) outcome {
	if p.archive != nil {
		v, ok, err := p.archive.Load(ctx, archiveKey)
		switch {
		case err != nil:
			p.log.Warn("archive load failed", logging.String("key", archiveKey), logging.Err(err))
		case ok:
			p.rec.ArchiveHit()
			p.cache.put(key, v)
			return outcome{verdict: v, archived: true}
		}
	}

	pctx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	start := time.Now()
	d, err := cas.Decide(pctx, cs.Field(), cs, Conditions(c), p.lim)
	p.rec.ProofLatency(time.Since(start))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("proof timeout %s: %w", p.timeout, err)
		}
		return outcome{err: fmt.Errorf("Verify %s: %w: %w", c, ErrInconclusive, err)}
	}

	v := DoesNotHold
	if d == cas.Holds {
		v = Holds
	}
	p.cache.put(key, v)
	if p.archive != nil {
		if err := p.archive.Save(ctx, archiveKey, v); err != nil {
			p.log.Warn("archive save failed", logging.String("key", archiveKey), logging.Err(err))
		}
	}
	p.log.Debug("relation decided",
		logging.String("relation", c.String()),
		logging.String("verdict", v.String()),
		logging.Duration("elapsed", time.Since(start)))

	return outcome{verdict: v}
}
