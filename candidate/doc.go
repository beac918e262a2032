// Package candidate proposes relations worth proving.
//
// A Generator walks the points near a focus and yields Candidates lazily,
// one relation kind after another:
//
//	Identical → Collinear → Concyclic → Parallel → EqualLength → Perpendicular
//
// Point-group kinds come first so that the consumer can fold their
// verdicts into a View before metric and directional candidates are
// formed over the merged classes. Relations that already follow from the
// View are never proposed, and every relation is proposed at most once.
//
// Candidates that hold by construction (a midpoint on its segment, an
// intersection on its carrier line) are flagged Trivial.
package candidate
