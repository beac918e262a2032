// Package prover decides candidate relations.
//
// Verify runs a candidate through four gates, cheapest first:
//
//  1. Definition: relations that hold by construction are accepted as is.
//  2. Degeneracy: a candidate over a collapsed or unplaced point is set
//     aside.
//  3. Numeric: the scale-free measure of the relation is evaluated at the
//     current drawing; anything above the tolerance is rejected.
//  4. Symbolic: the relation's polynomial condition is evaluated on the
//     exact solved forms and tested for zero in the tower field.
//
// Only the symbolic gate can accept a non-trivial relation. Its verdicts are
// cached per graph and keyed by the exact forms involved, so a drag that
// keeps the construction reuses them and a redefinition does not.
package prover
