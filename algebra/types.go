package algebra

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/katalvlaran/geodiscover/cas"
	"github.com/katalvlaran/geodiscover/construction"
	"github.com/katalvlaran/geodiscover/numeric"
)

var (
	// ErrDegenerateConstruction marks objects whose definition collapses.
	ErrDegenerateConstruction = errors.New("algebra: degenerate construction")

	// ErrUnsupported marks steps that have no exact encoding (for example
	// regular polygons whose angle has no quadratic surd form).
	ErrUnsupported = errors.New("algebra: unsupported construction")
)

// Equation is one hypothesis: Residual = 0.
type Equation struct {
	Object   string
	Residual *cas.Expr
	Note     string
}

// String renders "residual = 0".
func (e Equation) String() string { return e.Residual.String() + " = 0" }

// Param is a free parameter of the tower's base field.
type Param struct {
	// Name is the variable name (x_P, y_P or t_P).
	Name string
	// Object is the point the parameter belongs to.
	Object string
	// Value is the snapshot value in the normalized frame.
	Value float64
}

// Branch records the selected solution of a multi-valued intersection.
type Branch struct {
	Object   string
	Index    int
	Of       int
	Resolved bool
	// Root is the auxiliary variable holding √Δ.
	Root string
}

// String renders e.g. "C: branch 2 of 2 (resolved)".
func (b Branch) String() string {
	state := "unresolved"
	if b.Resolved {
		state = "resolved"
	}

	return fmt.Sprintf("%s: branch %d of %d (%s)", b.Object, b.Index, b.Of, state)
}

// check is a snapshot condition re-evaluated on every refresh.
type check struct {
	x    cas.Elem
	what string
	// sign checks guard roots picked by snapshot sign; a flip needs a rebuild.
	sign bool
}

// ConstraintSet is the algebraic image of one graph version.
//
// A ConstraintSet is immutable once returned and safe for concurrent reads.
type ConstraintSet struct {
	GraphID string
	Version uint64
	Moves   uint64

	snap      *construction.Snapshot
	field     *cas.Field
	frame     []string
	params    []Param
	valuation *cas.Valuation
	equations []Equation
	branches  []Branch
	solved    map[string]cas.Elem
	order     []string // solved variable names in solving order

	symbolic   map[string]error
	checks     map[string][]check
	rebuild    bool
	degenerate map[string]error
	positions  map[string]numeric.Vec
	pending    map[string][]string

	// digests is shared by every Refresh of the same build.
	digests *sync.Map
}

// Snapshot returns the snapshot the set was built from.
func (cs *ConstraintSet) Snapshot() *construction.Snapshot { return cs.snap }

// Field returns the tower field of the solved forms.
func (cs *ConstraintSet) Field() *cas.Field { return cs.field }

// Valuation returns the numeric snapshot of the field.
func (cs *ConstraintSet) Valuation() *cas.Valuation { return cs.valuation }

// Frame returns the points pinned at (0,0) and (1,0).
func (cs *ConstraintSet) Frame() []string { return append([]string(nil), cs.frame...) }

// Params returns the free parameters in field order.
func (cs *ConstraintSet) Params() []Param { return append([]Param(nil), cs.params...) }

// Equations returns the hypothesis equations in solving order.
func (cs *ConstraintSet) Equations() []Equation { return append([]Equation(nil), cs.equations...) }

// Branches returns all branch records in construction order.
func (cs *ConstraintSet) Branches() []Branch { return append([]Branch(nil), cs.branches...) }

// Lookup implements cas.Env over the solved forms.
func (cs *ConstraintSet) Lookup(name string) (cas.Elem, bool) {
	x, ok := cs.solved[name]

	return x, ok
}

// Solved returns the exact coordinates of point id.
func (cs *ConstraintSet) Solved(id string) (x, y cas.Elem, ok bool) {
	x, okx := cs.solved["x_"+id]
	y, oky := cs.solved["y_"+id]

	return x, y, okx && oky
}

// Position returns the snapshot position of point id in the normalized frame.
func (cs *ConstraintSet) Position(id string) (numeric.Vec, bool) {
	p, ok := cs.positions[id]

	return p, ok
}

// Degenerate returns the degeneracy of id, or nil.
func (cs *ConstraintSet) Degenerate(id string) error { return cs.degenerate[id] }

// Pending returns the unresolved branch objects that id depends on.
func (cs *ConstraintSet) Pending(ids ...string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, id := range ids {
		for _, b := range cs.pending[id] {
			if _, ok := seen[b]; !ok {
				seen[b] = struct{}{}
				out = append(out, b)
			}
		}
	}
	sort.Strings(out)

	return out
}

// Describe lists the solved forms, tower generators first.
func (cs *ConstraintSet) Describe() []string {
	out := cs.field.Describe()
	for _, name := range cs.order {
		out = append(out, fmt.Sprintf("%s = %s", name, cs.field.Format(cs.solved[name])))
	}

	return out
}
