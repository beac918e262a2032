// SPDX-License-Identifier: MIT
// Package: geodiscover/cas
//
// gcd.go - multivariate gcd over Q by recursive primitive pseudo-remainder
// sequences.
//
// Implementation:
//   - Stage 1: pick the main variable v (highest index present).
//   - Stage 2: split both inputs into content (gcd of coefficients in v,
//     computed recursively) and primitive part.
//   - Stage 3: run the primitive PRS on the primitive parts.
//   - Stage 4: gcd = gcd(contents) · last non-zero remainder, made monic.
//
// Every intermediate is checked against a term limit; past it the routine
// gives up and reports ok=false. Callers treat that as "no common factor
// found", which keeps quotients correct but less reduced.

package cas

// gcdTermLimit bounds intermediate remainders inside gcd.
const gcdTermLimit = 600

var one = NewInt(1)

// GCD returns the monic greatest common divisor of a and b, or ok=false
// when the term limit was hit.
func GCD(a, b Poly) (Poly, bool) {
	return gcd(a, b, gcdTermLimit)
}

func gcd(a, b Poly, limit int) (Poly, bool) {
	if a.IsZero() {
		return b.Monic(), true
	}
	if b.IsZero() {
		return a.Monic(), true
	}
	if _, ok := a.Const(); ok {
		return one, true
	}
	if _, ok := b.Const(); ok {
		return one, true
	}
	if a.Len() > limit || b.Len() > limit {
		return one, false
	}
	if a.Equal(b) {
		return a.Monic(), true
	}

	// Stage 1
	v := a.maxVar()
	if w := b.maxVar(); w > v {
		v = w
	}

	// Stage 2
	ca, pa, ok := splitContent(a, v, limit)
	if !ok {
		return one, false
	}
	cb, pb, ok := splitContent(b, v, limit)
	if !ok {
		return one, false
	}
	c, ok := gcd(ca, cb, limit)
	if !ok {
		return one, false
	}
	if pa.DegreeIn(v) == 0 || pb.DegreeIn(v) == 0 {
		return c, true
	}

	// Stage 3
	r0, r1 := pa, pb
	if r0.DegreeIn(v) < r1.DegreeIn(v) {
		r0, r1 = r1, r0
	}
	for {
		r, ok := prem(r0, r1, v, limit)
		if !ok {
			return one, false
		}
		if r.IsZero() {
			break
		}
		if r.DegreeIn(v) == 0 {
			r1 = one
			break
		}
		if _, r, ok = splitContent(r, v, limit); !ok {
			return one, false
		}
		r0, r1 = r1, r
	}

	// Stage 4
	return c.Mul(r1).Monic(), true
}

// splitContent returns p's content with respect to v and its primitive part.
func splitContent(p Poly, v, limit int) (Poly, Poly, bool) {
	var g Poly
	for _, c := range p.coeffsIn(v) {
		if c.IsZero() {
			continue
		}
		var ok bool
		if g, ok = gcd(g, c, limit); !ok {
			return Poly{}, Poly{}, false
		}
		if _, isConst := g.Const(); isConst {
			g = one
			break
		}
	}
	prim, ok := p.DivExact(g)

	return g, prim, ok
}

// prem returns a pseudo-remainder of a by b with respect to v.
func prem(a, b Poly, v, limit int) (Poly, bool) {
	db := b.DegreeIn(v)
	lb := b.leadIn(v)
	r := a
	for !r.IsZero() && r.DegreeIn(v) >= db {
		dr := r.DegreeIn(v)
		lr := r.leadIn(v)
		r = r.Mul(lb).Sub(lr.Mul(varPow(v, dr-db)).Mul(b))
		if r.Len() > limit {
			return Poly{}, false
		}
	}

	return r, true
}
