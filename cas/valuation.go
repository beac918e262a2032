// SPDX-License-Identifier: MIT
// Package: geodiscover/cas
//
// valuation.go - numeric snapshot of a tower.

package cas

import "math"

// Valuation assigns floats to the parameters and to every generator of a
// Field. Generators take the non-negative root of their radicand; a
// negative radicand yields NaN for that generator and everything built on it.
type Valuation struct {
	params []float64
	roots  []float64
}

// NewValuation starts a valuation of the base field; generators are
// appended as the tower grows through SquareRoot.
func NewValuation(params []float64) *Valuation {
	return &Valuation{params: append([]float64(nil), params...)}
}

// Valuate recomputes all generator values for new parameter values.
func (f *Field) Valuate(params []float64) *Valuation {
	v := NewValuation(params)
	v.roots = make([]float64, 0, len(f.rads))
	for _, d := range f.rads {
		dv := v.Eval(d)
		if dv < 0 {
			v.roots = append(v.roots, math.NaN())
			continue
		}
		v.roots = append(v.roots, math.Sqrt(dv))
	}

	return v
}

// Params returns a copy of the parameter values.
func (v *Valuation) Params() []float64 { return append([]float64(nil), v.params...) }

// Eval returns the numeric value of x.
func (v *Valuation) Eval(x Elem) float64 {
	if x.level == 0 {
		return x.rf.Eval(v.params)
	}
	if x.level > len(v.roots) {
		return math.NaN()
	}

	return v.Eval(*x.a) + v.Eval(*x.b)*v.roots[x.level-1]
}
