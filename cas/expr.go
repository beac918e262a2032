// SPDX-License-Identifier: MIT
// Package: geodiscover/cas
//
// expr.go - expression trees over named variables.
//
// Expr is the carrier for hypothesis residuals ("x_M*2 - x_B - x_C") and
// relation conditions. It stays symbolic in variable names so the same
// tree can be printed, evaluated numerically, or substituted with exact
// solved forms.

package cas

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Op is an expression node kind.
type Op uint8

const (
	OpVar Op = iota
	OpConst
	OpLit
	OpAdd
	OpMul
	OpNeg
)

// Expr is an immutable expression node.
type Expr struct {
	op   Op
	name string
	num  *big.Rat
	lit  Elem
	args []*Expr
}

// Var returns the variable node name.
func Var(name string) *Expr { return &Expr{op: OpVar, name: name} }

// Const returns a rational constant node.
func Const(r *big.Rat) *Expr { return &Expr{op: OpConst, num: new(big.Rat).Set(r)} }

// Int returns an integer constant node.
func Int(n int64) *Expr { return Const(new(big.Rat).SetInt64(n)) }

// Lit embeds a field element (for example cos(2π/5)) as a constant.
func Lit(x Elem) *Expr { return &Expr{op: OpLit, lit: x} }

// Add returns the sum of xs.
func Add(xs ...*Expr) *Expr { return &Expr{op: OpAdd, args: xs} }

// Mul returns the product of xs.
func Mul(xs ...*Expr) *Expr { return &Expr{op: OpMul, args: xs} }

// Neg returns -x.
func Neg(x *Expr) *Expr { return &Expr{op: OpNeg, args: []*Expr{x}} }

// Sub returns x-y.
func Sub(x, y *Expr) *Expr { return Add(x, Neg(y)) }

// Square returns x·x.
func Square(x *Expr) *Expr { return Mul(x, x) }

// Op returns the node kind.
func (e *Expr) Op() Op { return e.op }

// Vars returns the sorted set of variable names in e.
func (e *Expr) Vars() []string {
	seen := map[string]struct{}{}
	var walk func(*Expr)
	walk = func(x *Expr) {
		if x.op == OpVar {
			seen[x.name] = struct{}{}
		}
		for _, a := range x.args {
			walk(a)
		}
	}
	walk(e)
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}

// Float evaluates e numerically; lookup resolves variables and lits are
// evaluated through v.
func (e *Expr) Float(lookup func(string) (float64, bool), v *Valuation) (float64, error) {
	switch e.op {
	case OpVar:
		x, ok := lookup(e.name)
		if !ok {
			return 0, fmt.Errorf("Float: %s: %w", e.name, ErrUnboundVariable)
		}

		return x, nil
	case OpConst:
		x, _ := e.num.Float64()

		return x, nil
	case OpLit:
		return v.Eval(e.lit), nil
	case OpNeg:
		x, err := e.args[0].Float(lookup, v)

		return -x, err
	}
	acc := 0.0
	if e.op == OpMul {
		acc = 1
	}
	for _, a := range e.args {
		x, err := a.Float(lookup, v)
		if err != nil {
			return 0, err
		}
		if e.op == OpMul {
			acc *= x
		} else {
			acc += x
		}
	}

	return acc, nil
}

// String renders e in infix form.
func (e *Expr) String() string { return e.format(0) }

// format prints e; prec is the binding strength of the parent
// (0 top, 1 sum, 2 product).
func (e *Expr) format(prec int) string {
	switch e.op {
	case OpVar:
		return e.name
	case OpConst:
		s := e.num.RatString()
		if e.num.Sign() < 0 || (prec >= 2 && strings.Contains(s, "/")) {
			return "(" + s + ")"
		}

		return s
	case OpLit:
		if r, ok := e.lit.Rat(); ok {
			return Const(r).format(prec)
		}

		return fmt.Sprintf("[%s]", (&Field{}).Format(e.lit))
	case OpNeg:
		s := "-" + e.args[0].format(2)
		if prec >= 1 {
			return "(" + s + ")"
		}

		return s
	case OpMul:
		parts := make([]string, len(e.args))
		for i, a := range e.args {
			parts[i] = a.format(2)
		}

		return strings.Join(parts, "*")
	}
	var sb strings.Builder
	for i, a := range e.args {
		if a.op == OpNeg {
			if i > 0 {
				sb.WriteString(" - ")
			} else {
				sb.WriteString("-")
			}
			sb.WriteString(a.args[0].format(2))
			continue
		}
		if i > 0 {
			sb.WriteString(" + ")
		}
		sb.WriteString(a.format(1))
	}
	if prec >= 2 {
		return "(" + sb.String() + ")"
	}

	return sb.String()
}
