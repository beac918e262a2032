// SPDX-License-Identifier: MIT
// Package: geodiscover/cas
//
// sqrt.go - exact square roots of rationals and polynomials.

package cas

import "math/big"

// ratSqrt returns √r when r is the square of a rational.
func ratSqrt(r *big.Rat) (*big.Rat, bool) {
	if r.Sign() < 0 {
		return nil, false
	}
	n, ok := intSqrt(r.Num())
	if !ok {
		return nil, false
	}
	d, ok := intSqrt(r.Denom())
	if !ok {
		return nil, false
	}

	return new(big.Rat).SetFrac(n, d), true
}

func intSqrt(n *big.Int) (*big.Int, bool) {
	s := new(big.Int).Sqrt(n)
	if new(big.Int).Mul(s, s).Cmp(n) != 0 {
		return nil, false
	}

	return s, true
}

// polySqrt returns s with s² = p and positive leading coefficient, when p
// is a perfect square.
//
// Implementation: peel terms off the top. With s built so far and r = p-s²,
// the next term of the root is lt(r) / (2·lt(s)). The candidate term must
// keep decreasing and stay above half the trailing monomial of p; otherwise
// p is not a square. Graded order makes the search finite.
func polySqrt(p Poly) (Poly, bool) {
	if p.IsZero() {
		return Poly{}, true
	}
	lt, last := p.terms[0], p.terms[len(p.terms)-1]
	hl, ok := halfMono(lt.mono)
	if !ok {
		return Poly{}, false
	}
	hl = trimMono(hl)
	floor, ok := halfMono(last.mono)
	if !ok {
		return Poly{}, false
	}
	c, ok := ratSqrt(lt.coef)
	if !ok {
		return Poly{}, false
	}
	s := Poly{terms: []term{{mono: hl, coef: c}}}
	twice := new(big.Rat).Mul(big.NewRat(2, 1), c)
	prev := hl
	for r := p.Sub(s.Mul(s)); !r.IsZero(); r = p.Sub(s.Mul(s)) {
		lr := r.terms[0]
		m, ok := divMono(lr.mono, hl)
		if !ok || cmpMono(m, prev) >= 0 || cmpMono(m, floor) < 0 {
			return Poly{}, false
		}
		s = s.Add(Poly{terms: []term{{mono: m, coef: new(big.Rat).Quo(lr.coef, twice)}}})
		prev = m
	}

	return s, true
}
