// Package discover runs discovery over a construction graph.
//
// An Engine owns one graph and a persistent pool of proven relations. Each
// Discover call:
//
//  1. snapshots the graph and fetches its constraint set;
//  2. drops pooled relations over points redefined since they were proved;
//  3. walks the candidates around the focus, verifying each one and folding
//     every relation that holds back into the pool, so later candidates
//     see it;
//  4. renders what the pool knows about the focus.
//
// A structural edit during a run cancels and restarts it; after
// MaxRestarts the call fails with ErrConstructionChanged. Edits made
// through Apply wait for the run in flight to stop first.
//
// Because the pool survives between calls, a second Discover after new
// objects were added extends the earlier result instead of starting over.
// Extend does the same after confirming or changing a branch choice.
package discover
