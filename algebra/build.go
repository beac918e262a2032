package algebra

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/katalvlaran/geodiscover/cas"
	"github.com/katalvlaran/geodiscover/construction"
	"github.com/katalvlaran/geodiscover/numeric"
)

// eps is the numeric collapse threshold in the normalized frame.
const eps = 1e-10

type vec struct{ x, y cas.Elem }

type form struct {
	kind construction.Kind
	// point
	p vec
	// line: base point and direction
	base, dir   vec
	baseE, dirE evec
	// circle: center, squared radius, a point on it
	center, start   vec
	r2              cas.Elem
	centerE, startE evec
	r2E             *cas.Expr
	// polygon: vertices V1..Vn and their labels
	verts   []vec
	vertIDs []string
	cos     cas.Elem
	sin     cas.Elem
}

type builder struct {
	ctx   context.Context
	snap  *construction.Snapshot
	lim   cas.Limits
	cs    *ConstraintSet
	f     *cas.Field
	val   *cas.Valuation
	s     *cas.Scope
	forms map[string]*form
	pidx  map[string]int // param name -> field index
}

// Build algebraizes snap. Degenerate steps are recorded per object; the
// returned error is non-nil only when ctx ends or snap is nil.
//
// Implementation:
//   - Stage 1: pick the frame and the parameters (topological order).
//   - Stage 2: encode every object: equations, solved forms, checks.
//   - Stage 3: evaluate the snapshot numerically and propagate degeneracy.
func Build(ctx context.Context, snap *construction.Snapshot, lim cas.Limits) (*ConstraintSet, error) {
	if snap == nil {
		return nil, fmt.Errorf("Build: nil snapshot: %w", ErrUnsupported)
	}
	cs := &ConstraintSet{
		GraphID:  snap.GraphID,
		Version:  snap.Version,
		Moves:    snap.Moves,
		snap:     snap,
		solved:   make(map[string]cas.Elem),
		symbolic: make(map[string]error),
		checks:   make(map[string][]check),
		digests:  new(sync.Map),
	}
	b := &builder{ctx: ctx, snap: snap, lim: lim, cs: cs, forms: make(map[string]*form), pidx: make(map[string]int)}

	// Stage 1: frame and parameters.
	var names []string
	for _, o := range snap.Objects() {
		switch {
		case o.IsFree() && len(cs.frame) < 2:
			cs.frame = append(cs.frame, o.ID)
		case o.IsFree():
			for _, c := range []string{"x_", "y_"} {
				b.pidx[c+o.ID] = len(names)
				names = append(names, c+o.ID)
				cs.params = append(cs.params, Param{Name: c + o.ID, Object: o.ID})
			}
		case o.OnPath():
			b.pidx["t_"+o.ID] = len(names)
			names = append(names, "t_"+o.ID)
			cs.params = append(cs.params, Param{Name: "t_" + o.ID, Object: o.ID})
		}
	}
	b.f = cas.NewField(names)
	cs.field = b.f
	values, ok := cs.paramValues()
	if !ok {
		// Frame points coincide: nothing can be placed.
		cs.rebuild = true
		for _, id := range snap.Order() {
			cs.symbolic[id] = fmt.Errorf("%s: frame points coincide: %w", id, ErrDegenerateConstruction)
		}
		cs.evaluate(values)
		cs.resolve()

		return cs, nil
	}
	b.val = cas.NewValuation(values)

	// Stage 2: encode in topological order.
	for _, o := range snap.Objects() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("Build: %w", err)
		}
		if err := b.inherit(o); err != nil {
			cs.symbolic[o.ID] = err
			continue
		}
		b.s = cas.NewScope(ctx, b.f, lim)
		err := b.encode(o)
		if err == nil {
			err = b.s.Err()
		}
		if err != nil {
			if errors.Is(err, cas.ErrDivisionByZero) {
				err = fmt.Errorf("%w: %w", ErrDegenerateConstruction, err)
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("Build: %w", ctxErr)
			}
			cs.symbolic[o.ID] = fmt.Errorf("%s: %w", o.ID, err)
		}
	}

	// Stage 3: numbers and branch states.
	cs.evaluate(values)
	cs.resolve()

	return cs, nil
}

// Refresh re-evaluates cs for the drag state of snap. When snap has a
// different structure, or a sign choice made at build time flips, the set
// is rebuilt from scratch.
func Refresh(ctx context.Context, cs *ConstraintSet, snap *construction.Snapshot, lim cas.Limits) (*ConstraintSet, error) {
	if cs == nil || snap == nil || cs.GraphID != snap.GraphID || cs.Version != snap.Version || cs.rebuild {
		return Build(ctx, snap, lim)
	}
	next := *cs
	next.snap = snap
	next.Moves = snap.Moves
	values, ok := next.paramValues()
	if !ok {
		return Build(ctx, snap, lim)
	}
	if !next.evaluate(values) {
		return Build(ctx, snap, lim)
	}
	next.resolve()

	return &next, nil
}

// paramValues maps the drawing into the frame. It reports false when the
// frame points coincide.
func (cs *ConstraintSet) paramValues() ([]float64, bool) {
	var p0, w numeric.Vec
	w = numeric.Vec{X: 1}
	if len(cs.frame) > 0 {
		o, _ := cs.snap.Object(cs.frame[0])
		p0 = numeric.Vec{X: o.X, Y: o.Y}
	}
	if len(cs.frame) > 1 {
		o, _ := cs.snap.Object(cs.frame[1])
		w = numeric.Vec{X: o.X, Y: o.Y}.Sub(p0)
	}
	n2 := w.Norm2()
	values := make([]float64, len(cs.params))
	if n2 < eps*eps {
		return values, false
	}
	for i, p := range cs.params {
		o, _ := cs.snap.Object(p.Object)
		z := numeric.Vec{X: o.X, Y: o.Y}.Sub(p0)
		switch p.Name[0] {
		case 'x':
			values[i] = (z.X*w.X + z.Y*w.Y) / n2
		case 'y':
			values[i] = (z.Y*w.X - z.X*w.Y) / n2
		default:
			values[i] = o.T
		}
	}

	return values, true
}

// evaluate recomputes positions and degeneracy. It reports false when a
// sign check fails and the set must be rebuilt.
func (cs *ConstraintSet) evaluate(values []float64) bool {
	v := cs.field.Valuate(values)
	params := make([]Param, len(cs.params))
	copy(params, cs.params)
	for i := range params {
		params[i].Value = values[i]
	}
	cs.params = params
	cs.valuation = v
	cs.positions = make(map[string]numeric.Vec)
	cs.degenerate = make(map[string]error)

	for _, id := range cs.snap.Order() {
		if err := cs.symbolic[id]; err != nil {
			cs.degenerate[id] = err
			continue
		}
		for _, in := range cs.snap.Inputs(id) {
			if err := cs.degenerate[in]; err != nil {
				cs.degenerate[id] = fmt.Errorf("%s depends on %s: %w", id, in, ErrDegenerateConstruction)
				break
			}
		}
		if cs.degenerate[id] != nil {
			continue
		}
		for _, c := range cs.checks[id] {
			x := v.Eval(c.x)
			if c.sign {
				if x < -eps {
					return false
				}
				continue
			}
			if math.IsNaN(x) || math.Abs(x) < eps {
				cs.degenerate[id] = fmt.Errorf("%s: %s vanishes: %w", id, c.what, ErrDegenerateConstruction)
				break
			}
		}
		if cs.degenerate[id] != nil {
			continue
		}
		x, y, ok := cs.Solved(id)
		if !ok {
			continue
		}
		p := numeric.Vec{X: v.Eval(x), Y: v.Eval(y)}
		if !p.Finite() {
			cs.degenerate[id] = fmt.Errorf("%s: no real position: %w", id, ErrDegenerateConstruction)
			continue
		}
		cs.positions[id] = p
	}

	return true
}

// inherit fails when an input could not be solved.
func (b *builder) inherit(o construction.Object) error {
	for _, in := range b.snap.Inputs(o.ID) {
		if err := b.cs.symbolic[in]; err != nil {
			return fmt.Errorf("%s depends on %s: %w", o.ID, in, ErrDegenerateConstruction)
		}
	}

	return nil
}

// resolve recomputes branch states and, per object, the unresolved
// branch choices it depends on.
func (cs *ConstraintSet) resolve() {
	branches := make([]Branch, len(cs.branches))
	for i, br := range cs.branches {
		o, _ := cs.snap.Object(br.Object)
		br.Resolved = o.IndexGiven
		branches[i] = br
	}
	cs.branches = branches

	cs.pending = make(map[string][]string)
	for _, o := range cs.snap.Objects() {
		seen := map[string]struct{}{}
		var out []string
		add := func(id string) {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
		for _, in := range cs.snap.Inputs(o.ID) {
			for _, p := range cs.pending[in] {
				add(p)
			}
		}
		if o.Multivalued() && !o.IndexGiven {
			add(o.ID)
		}
		if len(out) > 0 {
			cs.pending[o.ID] = out
		}
	}
}

// --- solved-form bookkeeping ---

func (b *builder) solve(name string, x cas.Elem) {
	if _, ok := b.cs.solved[name]; !ok {
		b.cs.order = append(b.cs.order, name)
	}
	b.cs.solved[name] = x
}

func (b *builder) point(id string, p vec) {
	b.forms[id] = &form{kind: construction.KindPoint, p: p}
	b.solve("x_"+id, p.x)
	b.solve("y_"+id, p.y)
}

func (b *builder) eq(o construction.Object, residual *cas.Expr) {
	b.cs.equations = append(b.cs.equations, Equation{Object: o.ID, Residual: residual, Note: o.Def.String()})
}

// nonzero records a quantity that must not vanish; an exact zero is a
// structural degeneracy, a numeric one is checked at evaluation.
func (b *builder) nonzero(id string, x cas.Elem, what string) error {
	if err := b.s.Err(); err != nil {
		return err
	}
	if b.f.IsZero(x) {
		return fmt.Errorf("%s is identically zero: %w", what, ErrDegenerateConstruction)
	}
	b.cs.checks[id] = append(b.cs.checks[id], check{x: x, what: what})

	return nil
}

// sqrt takes the snapshot-positive root of x.
func (b *builder) sqrt(id string, x cas.Elem, what string) (cas.Elem, error) {
	if err := b.s.Err(); err != nil {
		return cas.Elem{}, err
	}
	r, err := b.f.SquareRoot(x, b.val)
	if err != nil {
		b.cs.rebuild = true

		return cas.Elem{}, fmt.Errorf("%s: %w: %w", what, ErrDegenerateConstruction, err)
	}
	b.cs.checks[id] = append(b.cs.checks[id], check{x: r, what: what, sign: true})

	return r, nil
}

// --- exact vector arithmetic through the object's scope ---

func (b *builder) add(u, v vec) vec { return vec{b.s.Add(u.x, v.x), b.s.Add(u.y, v.y)} }

func (b *builder) sub(u, v vec) vec { return vec{b.s.Sub(u.x, v.x), b.s.Sub(u.y, v.y)} }

func (b *builder) scale(k cas.Elem, u vec) vec { return vec{b.s.Mul(k, u.x), b.s.Mul(k, u.y)} }

func (b *builder) dot(u, v vec) cas.Elem { return b.s.Add(b.s.Mul(u.x, v.x), b.s.Mul(u.y, v.y)) }

func (b *builder) cross(u, v vec) cas.Elem { return b.s.Sub(b.s.Mul(u.x, v.y), b.s.Mul(u.y, v.x)) }

func (b *builder) perp(u vec) vec { return vec{b.s.Neg(u.y), u.x} }

// rotate turns u by the angle with cosine c and sine s.
func (b *builder) rotate(u vec, c, s cas.Elem) vec {
	return vec{b.s.Sub(b.s.Mul(c, u.x), b.s.Mul(s, u.y)), b.s.Add(b.s.Mul(s, u.x), b.s.Mul(c, u.y))}
}
