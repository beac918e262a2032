package candidate

import (
	"sort"
	"strings"
)

// Kind is a relation kind. The order of the constants is the order in
// which the Generator emits them.
type Kind uint8

const (
	Identical Kind = iota + 1
	Collinear
	Concyclic
	Parallel
	EqualLength
	Perpendicular
)

// Kinds lists every kind in emission order.
var Kinds = []Kind{Identical, Collinear, Concyclic, Parallel, EqualLength, Perpendicular}

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Identical:
		return "identical"
	case Collinear:
		return "collinear"
	case Concyclic:
		return "concyclic"
	case Parallel:
		return "parallel"
	case EqualLength:
		return "equal-length"
	case Perpendicular:
		return "perpendicular"
	}

	return "unknown"
}

// Arity is the number of points a candidate of kind k carries.
func (k Kind) Arity() int {
	switch k {
	case Identical:
		return 2
	case Collinear:
		return 3
	}

	return 4
}

// Paired reports whether the points of k read as two pairs (two lines or
// two segments) rather than as one group.
func (k Kind) Paired() bool { return k == Parallel || k == EqualLength || k == Perpendicular }

// Candidate is a proposed relation among points.
//
// Points is ordered: for paired kinds, Points[0:2] and Points[2:4] are the
// two lines (or segments).
type Candidate struct {
	Kind   Kind
	Points []string
	// Trivial marks relations that hold by construction.
	Trivial bool
}

// Signature is the canonical key of c: equal for candidates that state the
// same relation ("par:A,B|D,E" for DE ∥ AB as well as BA ∥ ED).
func (c Candidate) Signature() string {
	if !c.Kind.Paired() {
		ps := append([]string(nil), c.Points...)
		sort.Strings(ps)

		return c.Kind.short() + ":" + strings.Join(ps, ",")
	}
	pair := func(a, b string) string {
		if b < a {
			a, b = b, a
		}

		return a + "," + b
	}
	l, r := pair(c.Points[0], c.Points[1]), pair(c.Points[2], c.Points[3])
	if r < l {
		l, r = r, l
	}

	return c.Kind.short() + ":" + l + "|" + r
}

func (k Kind) short() string {
	switch k {
	case Identical:
		return "id"
	case Collinear:
		return "col"
	case Concyclic:
		return "cyc"
	case Parallel:
		return "par"
	case EqualLength:
		return "eq"
	case Perpendicular:
		return "perp"
	}

	return "?"
}

// String renders c in statement syntax, e.g. "AB ∥ DE" or "collinear A, B, C".
func (c Candidate) String() string {
	p := c.Points
	switch c.Kind {
	case Identical:
		return p[0] + "=" + p[1]
	case Parallel:
		return p[0] + p[1] + " ∥ " + p[2] + p[3]
	case Perpendicular:
		return p[0] + p[1] + " ⟂ " + p[2] + p[3]
	case EqualLength:
		return p[0] + p[1] + " = " + p[2] + p[3]
	}

	return c.Kind.String() + " " + strings.Join(p, ", ")
}
