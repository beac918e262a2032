// SPDX-License-Identifier: MIT
// Package: geodiscover/cas
//
// poly.go - sparse multivariate polynomials over Q.
//
// Contract:
//   - Terms are sorted in descending graded lexicographic order.
//   - No term carries a zero coefficient; the zero polynomial has no terms.
//   - Values are immutable: every operation allocates fresh coefficients.

package cas

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"
)

type term struct {
	mono monomial
	coef *big.Rat
}

// Poly is a sparse polynomial in variables x0, x1, ... with rational
// coefficients. The zero value is the zero polynomial.
type Poly struct {
	terms []term
}

// NewConst returns the constant polynomial r.
func NewConst(r *big.Rat) Poly {
	if r.Sign() == 0 {
		return Poly{}
	}

	return Poly{terms: []term{{mono: nil, coef: new(big.Rat).Set(r)}}}
}

// NewInt returns the constant polynomial n.
func NewInt(n int64) Poly {
	return NewConst(new(big.Rat).SetInt64(n))
}

// NewVar returns the polynomial x_i.
func NewVar(i int) Poly {
	m := make(monomial, i+1)
	m[i] = 1

	return Poly{terms: []term{{mono: m, coef: big.NewRat(1, 1)}}}
}

// IsZero reports whether p is the zero polynomial.
func (p Poly) IsZero() bool { return len(p.terms) == 0 }

// Len returns the number of terms.
func (p Poly) Len() int { return len(p.terms) }

// Const returns the value of p when it is a constant.
func (p Poly) Const() (*big.Rat, bool) {
	switch {
	case len(p.terms) == 0:
		return new(big.Rat), true
	case len(p.terms) == 1 && len(p.terms[0].mono) == 0:
		return new(big.Rat).Set(p.terms[0].coef), true
	}

	return nil, false
}

// Degree returns the total degree; the zero polynomial has degree -1.
func (p Poly) Degree() int {
	if p.IsZero() {
		return -1
	}

	return p.terms[0].mono.degree()
}

// DegreeIn returns the degree of p in variable v.
func (p Poly) DegreeIn(v int) int {
	d := 0
	for _, t := range p.terms {
		if e := t.mono.exp(v); e > d {
			d = e
		}
	}

	return d
}

// maxVar returns the highest variable index that occurs in p, or -1.
func (p Poly) maxVar() int {
	v := -1
	for _, t := range p.terms {
		if len(t.mono)-1 > v {
			v = len(t.mono) - 1
		}
	}

	return v
}

// LeadCoef returns the coefficient of the leading term (zero for zero).
func (p Poly) LeadCoef() *big.Rat {
	if p.IsZero() {
		return new(big.Rat)
	}

	return new(big.Rat).Set(p.terms[0].coef)
}

// Add returns p+q.
func (p Poly) Add(q Poly) Poly {
	out := make([]term, 0, len(p.terms)+len(q.terms))
	i, j := 0, 0
	for i < len(p.terms) && j < len(q.terms) {
		switch c := cmpMono(p.terms[i].mono, q.terms[j].mono); {
		case c > 0:
			out = append(out, p.terms[i])
			i++
		case c < 0:
			out = append(out, q.terms[j])
			j++
		default:
			s := new(big.Rat).Add(p.terms[i].coef, q.terms[j].coef)
			if s.Sign() != 0 {
				out = append(out, term{mono: p.terms[i].mono, coef: s})
			}
			i++
			j++
		}
	}
	out = append(out, p.terms[i:]...)
	out = append(out, q.terms[j:]...)

	return Poly{terms: out}
}

// Neg returns -p.
func (p Poly) Neg() Poly {
	out := make([]term, len(p.terms))
	for i, t := range p.terms {
		out[i] = term{mono: t.mono, coef: new(big.Rat).Neg(t.coef)}
	}

	return Poly{terms: out}
}

// Sub returns p-q.
func (p Poly) Sub(q Poly) Poly { return p.Add(q.Neg()) }

// Scale returns r·p.
func (p Poly) Scale(r *big.Rat) Poly {
	if r.Sign() == 0 {
		return Poly{}
	}
	out := make([]term, len(p.terms))
	for i, t := range p.terms {
		out[i] = term{mono: t.mono, coef: new(big.Rat).Mul(t.coef, r)}
	}

	return Poly{terms: out}
}

// Mul returns p·q.
func (p Poly) Mul(q Poly) Poly {
	if p.IsZero() || q.IsZero() {
		return Poly{}
	}
	if r, ok := p.Const(); ok {
		return q.Scale(r)
	}
	if r, ok := q.Const(); ok {
		return p.Scale(r)
	}
	acc := make(map[string]*term, len(p.terms)*len(q.terms))
	for _, a := range p.terms {
		for _, b := range q.terms {
			m := mulMono(a.mono, b.mono)
			c := new(big.Rat).Mul(a.coef, b.coef)
			k := m.key()
			if t, ok := acc[k]; ok {
				t.coef.Add(t.coef, c)
				continue
			}
			acc[k] = &term{mono: m, coef: c}
		}
	}

	return fromTerms(acc)
}

// Pow returns p^n for n >= 0.
func (p Poly) Pow(n int) Poly {
	res := NewInt(1)
	base := p
	for n > 0 {
		if n&1 == 1 {
			res = res.Mul(base)
		}
		n >>= 1
		if n > 0 {
			base = base.Mul(base)
		}
	}

	return res
}

// Equal reports whether p and q are the same polynomial.
func (p Poly) Equal(q Poly) bool {
	if len(p.terms) != len(q.terms) {
		return false
	}
	for i := range p.terms {
		if cmpMono(p.terms[i].mono, q.terms[i].mono) != 0 || p.terms[i].coef.Cmp(q.terms[i].coef) != 0 {
			return false
		}
	}

	return true
}

// Monic divides p by its leading coefficient.
func (p Poly) Monic() Poly {
	if p.IsZero() {
		return p
	}
	lc := p.terms[0].coef
	if lc.Cmp(big.NewRat(1, 1)) == 0 {
		return p
	}

	return p.Scale(new(big.Rat).Inv(lc))
}

// Eval evaluates p at vals; missing variables count as zero.
func (p Poly) Eval(vals []float64) float64 {
	sum := 0.0
	for _, t := range p.terms {
		c, _ := t.coef.Float64()
		for i, e := range t.mono {
			if e == 0 {
				continue
			}
			x := 0.0
			if i < len(vals) {
				x = vals[i]
			}
			c *= math.Pow(x, float64(e))
		}
		sum += c
	}

	return sum
}

// DivExact returns p/q when q divides p exactly.
// The division runs on leading terms; any admissible order works for
// exact quotients since lt(q·s) = lt(q)·lt(s).
func (p Poly) DivExact(q Poly) (Poly, bool) {
	if q.IsZero() {
		return Poly{}, false
	}
	if p.IsZero() {
		return Poly{}, true
	}
	if r, ok := q.Const(); ok {
		return p.Scale(new(big.Rat).Inv(r)), true
	}
	lq := q.terms[0]
	var quo Poly
	rem := p
	for !rem.IsZero() {
		lr := rem.terms[0]
		m, ok := divMono(lr.mono, lq.mono)
		if !ok {
			return Poly{}, false
		}
		t := Poly{terms: []term{{mono: m, coef: new(big.Rat).Quo(lr.coef, lq.coef)}}}
		quo = quo.Add(t)
		rem = rem.Sub(t.Mul(q))
	}

	return quo, true
}

// coeffsIn splits p by powers of v: p = Σ out[k]·v^k.
func (p Poly) coeffsIn(v int) []Poly {
	out := make([]Poly, p.DegreeIn(v)+1)
	buckets := make([]map[string]*term, len(out))
	for _, t := range p.terms {
		k := t.mono.exp(v)
		m := make(monomial, len(t.mono))
		copy(m, t.mono)
		if v < len(m) {
			m[v] = 0
		}
		m = trimMono(m)
		if buckets[k] == nil {
			buckets[k] = make(map[string]*term)
		}
		buckets[k][m.key()] = &term{mono: m, coef: t.coef}
	}
	for k, b := range buckets {
		if b != nil {
			out[k] = fromTerms(b)
		}
	}

	return out
}

// leadIn returns the coefficient of the highest power of v.
func (p Poly) leadIn(v int) Poly {
	cs := p.coeffsIn(v)

	return cs[len(cs)-1]
}

// varPow returns x_v^k.
func varPow(v, k int) Poly {
	if k == 0 {
		return NewInt(1)
	}
	m := make(monomial, v+1)
	m[v] = uint16(k)

	return Poly{terms: []term{{mono: m, coef: big.NewRat(1, 1)}}}
}

func fromTerms(acc map[string]*term) Poly {
	out := make([]term, 0, len(acc))
	for _, t := range acc {
		if t.coef.Sign() != 0 {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return cmpMono(out[i].mono, out[j].mono) > 0 })

	return Poly{terms: out}
}

// Format renders p with the given variable names; variables without a
// name print as x<i>.
func (p Poly) Format(names []string) string {
	if p.IsZero() {
		return "0"
	}
	var sb strings.Builder
	for i, t := range p.terms {
		c := new(big.Rat).Set(t.coef)
		switch {
		case i == 0 && c.Sign() < 0:
			sb.WriteString("-")
			c.Neg(c)
		case i > 0 && c.Sign() < 0:
			sb.WriteString(" - ")
			c.Neg(c)
		case i > 0:
			sb.WriteString(" + ")
		}
		factors := make([]string, 0, len(t.mono)+1)
		if len(t.mono) == 0 || c.Cmp(big.NewRat(1, 1)) != 0 {
			factors = append(factors, c.RatString())
		}
		for v, e := range t.mono {
			if e == 0 {
				continue
			}
			name := fmt.Sprintf("x%d", v)
			if v < len(names) && names[v] != "" {
				name = names[v]
			}
			if e > 1 {
				name = fmt.Sprintf("%s^%d", name, e)
			}
			factors = append(factors, name)
		}
		sb.WriteString(strings.Join(factors, "*"))
	}

	return sb.String()
}

// String renders p with default variable names.
func (p Poly) String() string { return p.Format(nil) }
