package numeric

import (
	"errors"
	"fmt"
	"math"
)

// ErrNonSquare indicates that Det received a ragged or non-square matrix.
var ErrNonSquare = errors.New("numeric: matrix is not square")

// Det returns the determinant of the square matrix a.
// The input is not modified.
//
// Implementation:
//   - Stage 1: validate shape and copy rows.
//   - Stage 2: Doolittle elimination with partial pivoting; each row swap
//     flips the sign.
//   - Stage 3: the determinant is the signed product of U's diagonal.
//
// Time Complexity: O(n³); Memory: O(n²) for the working copy.
func Det(a [][]float64) (float64, error) {
	// Stage 1: Validate input is square
	n := len(a)
	w := make([][]float64, n)
	for i, row := range a {
		if len(row) != n {
			return 0, fmt.Errorf("Det: row %d has %d columns, want %d: %w", i, len(row), n, ErrNonSquare)
		}
		w[i] = append([]float64(nil), row...)
	}

	// Stage 2: Eliminate below each pivot
	det := 1.0
	for k := 0; k < n; k++ {
		p := k // pivot row with the largest magnitude in column k
		for i := k + 1; i < n; i++ {
			if math.Abs(w[i][k]) > math.Abs(w[p][k]) {
				p = i
			}
		}
		if w[p][k] == 0 {
			return 0, nil
		}
		if p != k {
			w[p], w[k] = w[k], w[p]
			det = -det
		}
		for i := k + 1; i < n; i++ {
			l := w[i][k] / w[k][k] // multiplier L[i][k]
			for j := k; j < n; j++ {
				w[i][j] -= l * w[k][j]
			}
		}
		// Stage 3: accumulate U[k][k]
		det *= w[k][k]
	}

	return det, nil
}
