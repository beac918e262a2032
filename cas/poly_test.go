// SPDX-License-Identifier: MIT

package cas_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/geodiscover/cas"
)

var (
	x = cas.NewVar(0)
	y = cas.NewVar(1)
)

func TestPoly_ZeroValue(t *testing.T) {
	var p cas.Poly
	assert.True(t, p.IsZero())
	assert.Equal(t, -1, p.Degree())
	assert.Equal(t, "0", p.String())
}

func TestPoly_ArithmeticAndFormat(t *testing.T) {
	p := x.Add(cas.NewInt(1)).Pow(2)
	assert.Equal(t, "x0^2 + 2*x0 + 1", p.String())
	assert.Equal(t, 2, p.Degree())

	q := x.Sub(y).Mul(x.Add(y))
	assert.Equal(t, "x0^2 - x1^2", q.String())
	assert.Equal(t, "u^2 - v^2", q.Format([]string{"u", "v"}))

	assert.True(t, q.Sub(q).IsZero())
	assert.True(t, p.Mul(cas.Poly{}).IsZero())
	assert.Equal(t, "3/2*x0", x.Scale(big.NewRat(3, 2)).String())
}

func TestPoly_DivExact(t *testing.T) {
	a := x.Add(y)
	b := x.Sub(cas.NewInt(2)).Mul(y)
	q, ok := a.Mul(b).DivExact(a)
	require.True(t, ok)
	assert.True(t, q.Equal(b))

	_, ok = x.Mul(x).Add(cas.NewInt(1)).DivExact(a)
	assert.False(t, ok)

	_, ok = a.DivExact(cas.Poly{})
	assert.False(t, ok)
}

func TestPoly_Eval(t *testing.T) {
	p := x.Mul(x).Sub(y.Scale(big.NewRat(1, 2)))
	assert.InDelta(t, 9-1.0, p.Eval([]float64{3, 2}), 1e-12)
	// missing variables evaluate as zero
	assert.InDelta(t, 9.0, p.Eval([]float64{3}), 1e-12)
}

func TestPoly_Const(t *testing.T) {
	r, ok := cas.NewInt(7).Const()
	require.True(t, ok)
	assert.Equal(t, "7", r.RatString())
	_, ok = x.Const()
	assert.False(t, ok)
}

func TestGCD(t *testing.T) {
	tests := []struct {
		name string
		a, b cas.Poly
		want cas.Poly
	}{
		{"common linear factor", x.Add(y).Mul(x.Sub(y)), x.Add(y).Pow(2), x.Add(y)},
		{"coprime", x.Add(cas.NewInt(1)), y.Sub(cas.NewInt(1)), cas.NewInt(1)},
		{"content only", x.Mul(y).Scale(big.NewRat(4, 1)), y.Scale(big.NewRat(6, 1)), y},
		{"zero operand", cas.Poly{}, x.Scale(big.NewRat(3, 1)), x},
		{
			"bivariate quadratic",
			x.Mul(x).Sub(y.Mul(y)).Mul(x.Add(cas.NewInt(3))),
			x.Sub(y).Mul(y.Add(cas.NewInt(1))),
			x.Sub(y),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, ok := cas.GCD(tc.a, tc.b)
			require.True(t, ok)
			assert.True(t, g.Equal(tc.want), "got %s want %s", g, tc.want)
		})
	}
}

func TestRatFunc_Reduce(t *testing.T) {
	r, err := cas.NewRatFunc(x.Mul(x).Sub(cas.NewInt(1)), x.Sub(cas.NewInt(1)).Scale(big.NewRat(2, 1)))
	require.NoError(t, err)
	assert.Equal(t, "1/2*x0 + 1/2", r.Format(nil))

	_, err = cas.NewRatFunc(x, cas.Poly{})
	assert.ErrorIs(t, err, cas.ErrDivisionByZero)

	s, _ := cas.NewRatFunc(cas.NewInt(1), x)
	sum := s.Add(s.Neg())
	assert.True(t, sum.IsZero())
	assert.True(t, s.Mul(cas.PolyFunc(x)).Equal(cas.PolyFunc(cas.NewInt(1))))
}
