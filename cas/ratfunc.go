// SPDX-License-Identifier: MIT
// Package: geodiscover/cas
//
// ratfunc.go - rational functions num/den over Q.
//
// Invariants:
//   - den is never zero and always monic.
//   - num and den share no common factor found within the gcd limit.
//   - the zero function is 0/1.

package cas

import (
	"fmt"
	"math/big"
)

// RatFunc is a quotient of polynomials.
type RatFunc struct {
	num, den Poly
}

// NewRatFunc builds num/den in reduced form.
func NewRatFunc(num, den Poly) (RatFunc, error) {
	if den.IsZero() {
		return RatFunc{}, ErrDivisionByZero
	}

	return reduce(num, den), nil
}

// PolyFunc lifts a polynomial.
func PolyFunc(p Poly) RatFunc { return RatFunc{num: p, den: one} }

func reduce(num, den Poly) RatFunc {
	if num.IsZero() {
		return RatFunc{num: Poly{}, den: one}
	}
	if g, ok := GCD(num, den); ok {
		if _, isConst := g.Const(); !isConst {
			num, _ = num.DivExact(g)
			den, _ = den.DivExact(g)
		}
	}
	lc := den.LeadCoef()
	if lc.Cmp(big.NewRat(1, 1)) != 0 {
		inv := new(big.Rat).Inv(lc)
		num = num.Scale(inv)
		den = den.Scale(inv)
	}

	return RatFunc{num: num, den: den}
}

func (r RatFunc) denom() Poly {
	if r.den.IsZero() {
		return one
	}

	return r.den
}

// Num returns the numerator.
func (r RatFunc) Num() Poly { return r.num }

// Den returns the (monic) denominator.
func (r RatFunc) Den() Poly { return r.denom() }

// IsZero reports whether r is identically zero.
func (r RatFunc) IsZero() bool { return r.num.IsZero() }

// Add returns r+s.
func (r RatFunc) Add(s RatFunc) RatFunc {
	rd, sd := r.denom(), s.denom()
	if rd.Equal(sd) {
		return reduce(r.num.Add(s.num), rd)
	}

	return reduce(r.num.Mul(sd).Add(s.num.Mul(rd)), rd.Mul(sd))
}

// Neg returns -r.
func (r RatFunc) Neg() RatFunc { return RatFunc{num: r.num.Neg(), den: r.denom()} }

// Sub returns r-s.
func (r RatFunc) Sub(s RatFunc) RatFunc { return r.Add(s.Neg()) }

// Mul returns r·s.
func (r RatFunc) Mul(s RatFunc) RatFunc {
	if r.IsZero() || s.IsZero() {
		return RatFunc{num: Poly{}, den: one}
	}

	return reduce(r.num.Mul(s.num), r.denom().Mul(s.denom()))
}

// Inv returns 1/r.
func (r RatFunc) Inv() (RatFunc, error) {
	if r.IsZero() {
		return RatFunc{}, ErrDivisionByZero
	}

	return reduce(r.denom(), r.num), nil
}

// Equal reports whether r and s are the same function.
func (r RatFunc) Equal(s RatFunc) bool {
	return r.num.Mul(s.denom()).Equal(s.num.Mul(r.denom()))
}

// Eval evaluates r at vals; a vanishing denominator yields ±Inf or NaN.
func (r RatFunc) Eval(vals []float64) float64 {
	return r.num.Eval(vals) / r.denom().Eval(vals)
}

// size is the number of stored terms.
func (r RatFunc) size() int { return r.num.Len() + r.denom().Len() }

// degree is the larger total degree of numerator and denominator.
func (r RatFunc) degree() int {
	d := r.num.Degree()
	if e := r.denom().Degree(); e > d {
		d = e
	}

	return d
}

// Format renders r with the given variable names.
func (r RatFunc) Format(names []string) string {
	if _, ok := r.denom().Const(); ok {
		return r.num.Format(names)
	}

	return fmt.Sprintf("(%s)/(%s)", r.num.Format(names), r.denom().Format(names))
}

// sqrt returns s with s² = r when r is a square in Q(params).
func (r RatFunc) sqrt() (RatFunc, bool) {
	if r.IsZero() {
		return r, true
	}
	s, ok := polySqrt(r.num.Mul(r.denom()))
	if !ok {
		return RatFunc{}, false
	}

	return reduce(s, r.denom()), true
}
