package numeric_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/geodiscover/numeric"
)

func TestDet(t *testing.T) {
	tests := []struct {
		name string
		in   [][]float64
		want float64
	}{
		{"empty", [][]float64{}, 1},
		{"identity", [][]float64{{1, 0}, {0, 1}}, 1},
		{"needs pivot", [][]float64{{0, 1}, {1, 0}}, -1},
		{"singular", [][]float64{{1, 2}, {2, 4}}, 0},
		{"3x3", [][]float64{{2, 0, 1}, {1, 3, 2}, {1, 1, 2}}, 6},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := numeric.Det(tc.in)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-12)
		})
	}

	_, err := numeric.Det([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, numeric.ErrNonSquare)
}

func TestMeasures(t *testing.T) {
	o, ex, ey := numeric.Vec{}, numeric.Vec{X: 1}, numeric.Vec{Y: 1}
	assert.InDelta(t, 0, numeric.ParallelMeasure(o, ex, ey, numeric.Vec{X: 3, Y: 1}), 1e-12)
	assert.InDelta(t, 1, numeric.ParallelMeasure(o, ex, o, ey), 1e-12)
	assert.InDelta(t, 0, numeric.PerpendicularMeasure(o, ex, o, ey), 1e-12)
	assert.InDelta(t, 0, numeric.EqualLengthMeasure(o, ex, o, ey), 1e-12)
	assert.InDelta(t, 0, numeric.CollinearMeasure(o, ex, numeric.Vec{X: 5}), 1e-12)
	assert.Greater(t, numeric.CollinearMeasure(o, ex, ey), 0.1)

	// unit circle points
	c := func(a float64) numeric.Vec { return numeric.Vec{X: math.Cos(a), Y: math.Sin(a)} }
	assert.InDelta(t, 0, numeric.ConcyclicMeasure(c(0.1), c(1), c(2.5), c(4)), 1e-12)
	assert.Greater(t, numeric.ConcyclicMeasure(c(0.1), c(1), c(2.5), o), 0.01)

	assert.True(t, math.IsInf(numeric.ParallelMeasure(o, o, o, ex), 1))
}
