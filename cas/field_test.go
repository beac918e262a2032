// SPDX-License-Identifier: MIT

package cas_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/geodiscover/cas"
)

func TestField_AdjoinAndArithmetic(t *testing.T) {
	f := cas.NewField(nil)
	v := cas.NewValuation(nil)

	s2, err := f.SquareRoot(f.Int(2), v)
	require.NoError(t, err)
	assert.Equal(t, 1, f.Depth())
	assert.InDelta(t, math.Sqrt2, v.Eval(s2), 1e-12)

	// (1+√2)(1-√2) = -1
	p := f.Mul(f.Add(f.One(), s2), f.Sub(f.One(), s2))
	r, ok := p.Rat()
	require.True(t, ok)
	assert.Equal(t, "-1", r.RatString())

	inv, err := f.Inv(f.Add(f.One(), s2))
	require.NoError(t, err)
	assert.True(t, f.Equal(f.Mul(inv, f.Add(f.One(), s2)), f.One()))

	_, err = f.Inv(f.Sub(s2, s2))
	assert.ErrorIs(t, err, cas.ErrDivisionByZero)
}

func TestField_SquareRootReusesTower(t *testing.T) {
	f := cas.NewField(nil)
	v := cas.NewValuation(nil)

	s3, err := f.SquareRoot(f.Int(3), v)
	require.NoError(t, err)

	// √12 = 2√3 must not extend the tower.
	r, err := f.SquareRoot(f.Int(12), v)
	require.NoError(t, err)
	assert.Equal(t, 1, f.Depth())
	assert.True(t, f.Equal(r, f.Mul(f.Int(2), s3)))

	// √(3/4) = √3/2 with positive sign.
	h, err := f.SquareRoot(f.Frac(3, 4), v)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(3)/2, v.Eval(h), 1e-12)

	// 4 is a rational square.
	two, err := f.SquareRoot(f.Int(4), v)
	require.NoError(t, err)
	assert.Equal(t, 0, two.Level())
}

func TestField_FindSqrtNested(t *testing.T) {
	f := cas.NewField(nil)
	v := cas.NewValuation(nil)
	s2, err := f.SquareRoot(f.Int(2), v)
	require.NoError(t, err)

	// 3 + 2√2 = (1 + √2)²
	x := f.Add(f.Int(3), f.Mul(f.Int(2), s2))
	r, ok := f.FindSqrt(x)
	require.True(t, ok)
	assert.True(t, f.Equal(f.Square(r), x))

	_, ok = f.FindSqrt(f.Add(f.Int(1), s2))
	assert.False(t, ok)
}

func TestField_ParametricSquares(t *testing.T) {
	f := cas.NewField([]string{"u", "v"})
	val := cas.NewValuation([]float64{2, -3})
	u, w := f.Param(0), f.Param(1)

	// (u-v)² + 0 is a square: no new generator, positive root at the snapshot.
	sq := f.Square(f.Sub(u, w))
	r, err := f.SquareRoot(sq, val)
	require.NoError(t, err)
	assert.Equal(t, 0, f.Depth())
	assert.InDelta(t, 5.0, val.Eval(r), 1e-12)

	// u²+v² is not a square.
	g, err := f.SquareRoot(f.Add(f.Square(u), f.Square(w)), val)
	require.NoError(t, err)
	assert.Equal(t, 1, f.Depth())
	assert.InDelta(t, math.Sqrt(13), val.Eval(g), 1e-12)

	// Negative at the snapshot.
	_, err = f.SquareRoot(f.Neg(f.Add(f.Square(u), f.One())), val)
	assert.ErrorIs(t, err, cas.ErrNoRealRoot)

	// Revaluation recomputes the generator.
	val2 := f.Valuate([]float64{3, 4})
	assert.InDelta(t, 5.0, val2.Eval(g), 1e-12)
}

func TestField_Describe(t *testing.T) {
	f := cas.NewField(nil)
	v := cas.NewValuation(nil)
	_, err := f.SquareRoot(f.Int(5), v)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1 = sqrt(5)"}, f.Describe())
}
