// Package aggregate folds proven relations into maximal theorems and
// renders them.
//
// An Aggregator keeps every relation that holds and derives, on demand:
//
//   - identity classes of points (union-find, canonical label = the
//     lexicographically earliest member);
//   - maximal collinear groups (two groups sharing two points merge) and
//     maximal concyclic groups (sharing three points);
//   - directions: classes of lines under parallelism, and the
//     perpendicular pairs between them;
//   - classes of segments under equal length.
//
// Derived state is recomputed from the facts to a fixed point whenever a
// fact is added or dropped, so the order in which verdicts arrive changes
// only the order of the statements, never the theorems. The Aggregator also serves as the candidate.View
// of the generator, which is how relations already implied by earlier
// verdicts are kept from being proposed again.
package aggregate
