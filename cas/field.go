// SPDX-License-Identifier: MIT
// Package: geodiscover/cas
//
// field.go - towers of quadratic extensions over Q(params).
//
// Level 0 is the field of rational functions in the parameters. Level k
// adjoins a generator s_k with s_k² = d_k, where d_k lives below level k
// and is not a square there. An element of level k is a + b·s_k with a, b
// of lower level and b ≠ 0; elements whose b vanishes collapse to a.
// Because every element is stored in this reduced shape, an element is
// zero exactly when it is a zero rational function at level 0.

package cas

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// Elem is an element of a Field. The zero value is 0.
type Elem struct {
	level int
	rf    RatFunc
	a, b  *Elem
}

// Level returns the tower level of x.
func (x Elem) Level() int { return x.level }

// Rat returns the value of x when it is a rational constant.
func (x Elem) Rat() (*big.Rat, bool) {
	if x.level != 0 {
		return nil, false
	}
	if _, ok := x.rf.denom().Const(); !ok {
		return nil, false
	}
	n, ok := x.rf.num.Const()
	if !ok {
		return nil, false
	}
	d, _ := x.rf.denom().Const()

	return n.Quo(n, d), true
}

func (x Elem) size() int {
	if x.level == 0 {
		return x.rf.size()
	}

	return x.a.size() + x.b.size()
}

func (x Elem) degree() int {
	if x.level == 0 {
		return x.rf.degree()
	}
	d := x.a.degree()
	if e := x.b.degree(); e > d {
		d = e
	}

	return d
}

// Field is a tower Q(params)(s_1)...(s_n).
type Field struct {
	names []string
	rads  []Elem
}

// NewField returns the base field Q(names...).
func NewField(names []string) *Field {
	return &Field{names: append([]string(nil), names...)}
}

// Names returns the parameter names.
func (f *Field) Names() []string { return append([]string(nil), f.names...) }

// Depth returns the number of adjoined generators.
func (f *Field) Depth() int { return len(f.rads) }

// Radicand returns d_k for 1 <= k <= Depth().
func (f *Field) Radicand(k int) Elem { return f.rads[k-1] }

// Generator returns s_k.
func (f *Field) Generator(k int) Elem {
	z, o := Elem{}, f.One()

	return Elem{level: k, a: &z, b: &o}
}

// One returns 1.
func (f *Field) One() Elem { return Elem{rf: PolyFunc(one)} }

// Int returns n.
func (f *Field) Int(n int64) Elem { return Elem{rf: PolyFunc(NewInt(n))} }

// Rat returns r.
func (f *Field) Rat(r *big.Rat) Elem { return Elem{rf: PolyFunc(NewConst(r))} }

// Frac returns n/d.
func (f *Field) Frac(n, d int64) Elem { return f.Rat(big.NewRat(n, d)) }

// Param returns the i-th parameter.
func (f *Field) Param(i int) Elem { return Elem{rf: PolyFunc(NewVar(i))} }

// FromRatFunc wraps a rational function.
func (f *Field) FromRatFunc(r RatFunc) Elem { return Elem{rf: r} }

func mk(level int, a, b Elem) Elem {
	if b.level == 0 && b.rf.IsZero() {
		return a
	}

	return Elem{level: level, a: &a, b: &b}
}

// parts splits x as a + b·s_level.
func parts(x Elem, level int) (Elem, Elem) {
	if x.level < level {
		return x, Elem{}
	}

	return *x.a, *x.b
}

// IsZero reports whether x is exactly zero.
func (f *Field) IsZero(x Elem) bool { return x.level == 0 && x.rf.IsZero() }

// Equal reports whether x and y are equal.
func (f *Field) Equal(x, y Elem) bool { return f.IsZero(f.Sub(x, y)) }

// Add returns x+y.
func (f *Field) Add(x, y Elem) Elem {
	lv := max(x.level, y.level)
	if lv == 0 {
		return Elem{rf: x.rf.Add(y.rf)}
	}
	xa, xb := parts(x, lv)
	ya, yb := parts(y, lv)

	return mk(lv, f.Add(xa, ya), f.Add(xb, yb))
}

// Neg returns -x.
func (f *Field) Neg(x Elem) Elem {
	if x.level == 0 {
		return Elem{rf: x.rf.Neg()}
	}

	return mk(x.level, f.Neg(*x.a), f.Neg(*x.b))
}

// Sub returns x-y.
func (f *Field) Sub(x, y Elem) Elem { return f.Add(x, f.Neg(y)) }

// Mul returns x·y.
func (f *Field) Mul(x, y Elem) Elem {
	lv := max(x.level, y.level)
	switch {
	case lv == 0:
		return Elem{rf: x.rf.Mul(y.rf)}
	case x.level < lv:
		return mk(lv, f.Mul(x, *y.a), f.Mul(x, *y.b))
	case y.level < lv:
		return mk(lv, f.Mul(*x.a, y), f.Mul(*x.b, y))
	}
	d := f.rads[lv-1]
	a := f.Add(f.Mul(*x.a, *y.a), f.Mul(f.Mul(*x.b, *y.b), d))
	b := f.Add(f.Mul(*x.a, *y.b), f.Mul(*x.b, *y.a))

	return mk(lv, a, b)
}

// Square returns x².
func (f *Field) Square(x Elem) Elem { return f.Mul(x, x) }

// Inv returns 1/x.
func (f *Field) Inv(x Elem) (Elem, error) {
	if x.level == 0 {
		r, err := x.rf.Inv()
		if err != nil {
			return Elem{}, err
		}

		return Elem{rf: r}, nil
	}
	d := f.rads[x.level-1]
	// (a + b·s)⁻¹ = (a - b·s) / (a² - d·b²)
	norm := f.Sub(f.Square(*x.a), f.Mul(d, f.Square(*x.b)))
	ni, err := f.Inv(norm)
	if err != nil {
		return Elem{}, err
	}

	return mk(x.level, f.Mul(*x.a, ni), f.Neg(f.Mul(*x.b, ni))), nil
}

// Div returns x/y.
func (f *Field) Div(x, y Elem) (Elem, error) {
	yi, err := f.Inv(y)
	if err != nil {
		return Elem{}, err
	}

	return f.Mul(x, yi), nil
}

// FindSqrt returns r with r² = x when such r already exists in the tower.
// The sign of r is unspecified.
func (f *Field) FindSqrt(x Elem) (Elem, bool) {
	return f.sqrtAt(x, len(f.rads))
}

// sqrtAt searches a root of x (level ≤ lv) inside level lv.
//
// For x = a + b·s with b ≠ 0, a root x' + y'·s needs
// x'² + d·y'² = a and 2x'y' = b, hence (x'² - d·y'²)² = a² - d·b² = n².
// Then x'² = (a ± n)/2 and y' = b/(2x'). For b = 0 either y' = 0
// (root of a below) or x' = 0 (root of a/d below).
func (f *Field) sqrtAt(x Elem, lv int) (Elem, bool) {
	if lv == 0 {
		r, ok := x.rf.sqrt()

		return Elem{rf: r}, ok
	}
	d := f.rads[lv-1]
	if x.level < lv {
		if r, ok := f.sqrtAt(x, lv-1); ok {
			return r, true
		}
		q, err := f.Div(x, d)
		if err != nil {
			return Elem{}, false
		}
		if r, ok := f.sqrtAt(q, lv-1); ok {
			return mk(lv, Elem{}, r), true
		}

		return Elem{}, false
	}
	a, b := *x.a, *x.b
	n, ok := f.sqrtAt(f.Sub(f.Square(a), f.Mul(d, f.Square(b))), lv-1)
	if !ok {
		return Elem{}, false
	}
	half := f.Frac(1, 2)
	for _, s := range []Elem{n, f.Neg(n)} {
		x2 := f.Mul(f.Add(a, s), half)
		if f.IsZero(x2) {
			continue
		}
		xr, ok := f.sqrtAt(x2, lv-1)
		if !ok {
			continue
		}
		y, err := f.Div(b, f.Mul(f.Int(2), xr))
		if err != nil {
			continue
		}

		return mk(lv, xr, y), true
	}

	return Elem{}, false
}

// SquareRoot returns the non-negative (at v) square root of x, adjoining
// a new generator when x is not a square in the tower. v gains the
// numeric value of the new generator.
func (f *Field) SquareRoot(x Elem, v *Valuation) (Elem, error) {
	if f.IsZero(x) {
		return Elem{}, nil
	}
	xv := v.Eval(x)
	if math.IsNaN(xv) || xv < 0 {
		return Elem{}, fmt.Errorf("SquareRoot: value %g: %w", xv, ErrNoRealRoot)
	}
	if r, ok := f.FindSqrt(x); ok {
		if v.Eval(r) < 0 {
			r = f.Neg(r)
		}

		return r, nil
	}
	f.rads = append(f.rads, x)
	v.roots = append(v.roots, math.Sqrt(xv))

	return f.Generator(len(f.rads)), nil
}

// Format renders x with parameter names and generators s1, s2, ...
func (f *Field) Format(x Elem) string {
	if x.level == 0 {
		return x.rf.Format(f.names)
	}
	a, b := *x.a, *x.b
	var sb strings.Builder
	if !f.IsZero(a) {
		sb.WriteString("(")
		sb.WriteString(f.Format(a))
		sb.WriteString(") + ")
	}
	fmt.Fprintf(&sb, "(%s)*s%d", f.Format(b), x.level)

	return sb.String()
}

// Describe lists the generators of the tower, one per line.
func (f *Field) Describe() []string {
	out := make([]string, len(f.rads))
	for i, d := range f.rads {
		out[i] = fmt.Sprintf("s%d = sqrt(%s)", i+1, f.Format(d))
	}

	return out
}
