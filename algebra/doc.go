// Package algebra is the Algebraizer: it turns a construction snapshot
// into a ConstraintSet.
//
// Every construction step contributes hypothesis equations (polynomial
// residuals over coordinate variables x_P, y_P and a few auxiliary
// variables) together with a triangular solved form: each variable is an
// element of a quadratic tower field over the free parameters. Relation
// conditions substitute those solved forms and are decided by exact zero
// testing in package cas.
//
// Frame: the first two free points are fixed at (0,0) and (1,0). All
// relations searched for are similarity invariant, so this loses no
// generality and removes four parameters. Other free points contribute
// x_P, y_P; points on objects contribute t_P.
//
// Branches: Intersect(circle, line, k) and Intersect(circle, circle, k)
// keep an explicit Branch record. Branch 1 is t = (-b + √Δ)/2a along the
// line direction, branch 2 uses -√Δ. √Δ is a fresh tower generator unless
// Δ is already a square, in which case the root's sign is taken from the
// snapshot and re-checked on every Refresh.
//
// Degeneracy: a step whose defining data collapses (coincident points,
// parallel lines intersected, no real intersection) is marked with
// ErrDegenerateConstruction; dependents inherit the mark and the rest of
// the set stays usable.
package algebra
