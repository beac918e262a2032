// SPDX-License-Identifier: MIT

// Package cas is the exact algebra kernel behind geodiscover's prover.
//
// It provides, leaves first:
//
//   - Poly: sparse multivariate polynomials with big.Rat coefficients,
//     terms sorted in graded lexicographic order.
//   - RatFunc: quotients of polynomials, reduced by a budgeted
//     primitive-PRS gcd.
//   - Field: a tower Q(params)(√d1)(√d2)... of quadratic extensions.
//     Each generator is adjoined only when its radicand is not already a
//     square in the tower, so the tower stays a field and the zero test
//     a + b·√d = 0 ⇔ a = 0 ∧ b = 0 is exact.
//   - Valuation: numeric values of the parameters and of every generator
//     (the positive root), used for snapshots and root-sign decisions.
//   - Expr: small expression trees over named variables, the carrier for
//     hypothesis residuals and relation conditions.
//   - Decide: substitute solved forms into conditions and decide exact
//     zero under a term/degree budget and a context deadline.
//
// Determinism: every operation is a pure function of its inputs; map
// iteration never leaks into results (terms are re-sorted).
//
// Concurrency: Poly, RatFunc and Elem values are immutable. A Field is
// grown only while a constraint set is being built and is read-only
// afterwards, so it can be shared by concurrent Decide calls.
package cas
