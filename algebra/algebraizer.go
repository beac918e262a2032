package algebra

import (
	"context"
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/katalvlaran/geodiscover/cas"
	"github.com/katalvlaran/geodiscover/construction"
)

// Algebraizer caches one ConstraintSet per graph. A structural version
// change rebuilds the set; a drag only refreshes its numbers.
type Algebraizer struct {
	mu    sync.Mutex
	cache *lru.Cache
	lim   cas.Limits
}

// Option configures an Algebraizer.
type Option func(*Algebraizer)

// WithLimits bounds intermediate element sizes while solving.
func WithLimits(lim cas.Limits) Option {
	return func(a *Algebraizer) { a.lim = lim }
}

// WithGraphs sets how many graphs keep a cached set (default 16).
func WithGraphs(n int) Option {
	if n <= 0 {
		panic("algebra: WithGraphs needs n > 0")
	}

	return func(a *Algebraizer) { a.cache = lru.New(n) }
}

// NewAlgebraizer returns an Algebraizer.
func NewAlgebraizer(opts ...Option) *Algebraizer {
	a := &Algebraizer{cache: lru.New(16), lim: cas.DefaultLimits()}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// ConstraintsFor returns the set for snap's graph version, building or
// refreshing as needed. Writers are serialized; concurrent callers for the
// same version get the same set.
func (a *Algebraizer) ConstraintsFor(ctx context.Context, snap *construction.Snapshot) (*ConstraintSet, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var prev *ConstraintSet
	if v, ok := a.cache.Get(snap.GraphID); ok {
		prev = v.(*ConstraintSet)
		if prev.Version == snap.Version && prev.Moves == snap.Moves {
			return prev, nil
		}
	}
	cs, err := Refresh(ctx, prev, snap, a.lim)
	if err != nil {
		return nil, err
	}
	a.cache.Add(snap.GraphID, cs)

	return cs, nil
}

// Forget drops the cached set of a graph.
func (a *Algebraizer) Forget(graphID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cache.Remove(graphID)
}
