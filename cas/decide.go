// SPDX-License-Identifier: MIT
// Package: geodiscover/cas
//
// decide.go - budgeted substitution and exact zero decisions.
//
// Contract: Decide(ctx, field, env, conditions, limits) answers Holds when
// every condition reduces to exactly zero after substituting the solved
// forms from env, DoesNotHold when one of them reduces to a non-zero
// element, and Inconclusive when the context expires or an intermediate
// element grows past the limits. It never approximates.

package cas

import (
	"context"
	"fmt"
)

// Limits caps the size of intermediate elements.
type Limits struct {
	// MaxTerms bounds the total number of polynomial terms in one element.
	MaxTerms int
	// MaxDegree bounds the total degree of any numerator or denominator.
	MaxDegree int
}

// DefaultLimits returns generous limits for planar constructions.
func DefaultLimits() Limits { return Limits{MaxTerms: 20000, MaxDegree: 64} }

// Env resolves variable names to field elements.
type Env interface {
	Lookup(name string) (Elem, bool)
}

// MapEnv is an Env backed by a map.
type MapEnv map[string]Elem

// Lookup implements Env.
func (m MapEnv) Lookup(name string) (Elem, bool) {
	x, ok := m[name]

	return x, ok
}

// Scope runs field arithmetic under a context and Limits. The first
// failure is sticky: later operations return zero and Err reports it.
type Scope struct {
	ctx context.Context
	f   *Field
	lim Limits
	err error
}

// NewScope returns a scope over f.
func NewScope(ctx context.Context, f *Field, lim Limits) *Scope {
	if ctx == nil {
		ctx = context.Background()
	}

	return &Scope{ctx: ctx, f: f, lim: lim}
}

// Err returns the first failure observed by the scope.
func (s *Scope) Err() error { return s.err }

// Field returns the underlying field.
func (s *Scope) Field() *Field { return s.f }

func (s *Scope) check(x Elem) Elem {
	if s.err != nil {
		return Elem{}
	}
	if err := s.ctx.Err(); err != nil {
		s.err = err
		return Elem{}
	}
	if s.lim.MaxTerms > 0 && x.size() > s.lim.MaxTerms {
		s.err = fmt.Errorf("%d terms: %w", x.size(), ErrBudgetExceeded)
		return Elem{}
	}
	if s.lim.MaxDegree > 0 && x.degree() > s.lim.MaxDegree {
		s.err = fmt.Errorf("degree %d: %w", x.degree(), ErrBudgetExceeded)
		return Elem{}
	}

	return x
}

// Add returns x+y.
func (s *Scope) Add(x, y Elem) Elem {
	if s.err != nil {
		return Elem{}
	}

	return s.check(s.f.Add(x, y))
}

// Sub returns x-y.
func (s *Scope) Sub(x, y Elem) Elem {
	if s.err != nil {
		return Elem{}
	}

	return s.check(s.f.Sub(x, y))
}

// Neg returns -x.
func (s *Scope) Neg(x Elem) Elem {
	if s.err != nil {
		return Elem{}
	}

	return s.f.Neg(x)
}

// Mul returns x·y.
func (s *Scope) Mul(x, y Elem) Elem {
	if s.err != nil {
		return Elem{}
	}

	return s.check(s.f.Mul(x, y))
}

// Div returns x/y; division by zero is recorded as the scope error.
func (s *Scope) Div(x, y Elem) Elem {
	if s.err != nil {
		return Elem{}
	}
	q, err := s.f.Div(x, y)
	if err != nil {
		s.err = err
		return Elem{}
	}

	return s.check(q)
}

// Eval substitutes env into e.
func (s *Scope) Eval(e *Expr, env Env) Elem {
	if s.err != nil {
		return Elem{}
	}
	switch e.op {
	case OpVar:
		x, ok := env.Lookup(e.name)
		if !ok {
			s.err = fmt.Errorf("Eval: %s: %w", e.name, ErrUnboundVariable)
			return Elem{}
		}

		return x
	case OpConst:
		return s.f.Rat(e.num)
	case OpLit:
		return e.lit
	case OpNeg:
		return s.Neg(s.Eval(e.args[0], env))
	case OpMul:
		acc := s.f.One()
		for _, a := range e.args {
			acc = s.Mul(acc, s.Eval(a, env))
		}

		return acc
	}
	var acc Elem
	for _, a := range e.args {
		acc = s.Add(acc, s.Eval(a, env))
	}

	return acc
}

// Decision is the outcome of Decide.
type Decision int

const (
	// Inconclusive means the budget or deadline ran out.
	Inconclusive Decision = iota
	// Holds means every condition is identically zero.
	Holds
	// DoesNotHold means some condition is a non-zero element.
	DoesNotHold
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case Holds:
		return "holds"
	case DoesNotHold:
		return "does-not-hold"
	}

	return "inconclusive"
}

// Decide substitutes env into every condition and tests exact zero.
// The returned error is non-nil only with Inconclusive.
func Decide(ctx context.Context, f *Field, env Env, conds []*Expr, lim Limits) (Decision, error) {
	s := NewScope(ctx, f, lim)
	for _, c := range conds {
		x := s.Eval(c, env)
		if err := s.Err(); err != nil {
			return Inconclusive, fmt.Errorf("Decide: %w", err)
		}
		if !f.IsZero(x) {
			return DoesNotHold, nil
		}
	}

	return Holds, nil
}
