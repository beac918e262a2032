// Package numeric holds the floating-point side of geodiscover: small dense
// determinants and the scale-free measures used by the prover's numeric
// pre-filter.
//
// Every measure is normalized so one tolerance fits all relation kinds:
//
//   - Sine of the angle between two directions (parallelism).
//   - Cosine of the angle between two directions (perpendicularity).
//   - Relative difference of squared lengths (equal length).
//   - Twice the triangle area divided by the longest squared side
//     (collinearity).
//   - The concyclicity determinant divided by the fourth power of the
//     spread of the points.
//
// Complexity: all measures are O(1) except Det, which is O(n³).
package numeric
