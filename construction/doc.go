// Package construction defines the Construction Graph: a typed, acyclic
// dependency graph of geometric objects built incrementally from commands.
//
// Objects are points, lines, segments, circles and polygons. Each object
// carries a Definition (command plus arguments) and owner edges to its
// inputs. The graph:
//
//   - rejects definitions that reference unknown ids (ErrUndefinedReference)
//     or would make an object depend on itself (ErrCyclicDefinition);
//   - cascades removals to dependents (ErrInUse when cascading is disabled);
//   - bumps a monotonic structural Version on every edit and stamps the
//     edited object so downstream caches can tell stale data apart;
//   - moves free points and point-on-object parameters without a
//     structural bump (drag).
//
// Read paths go through Snapshot, an immutable copy that also answers
// locality (BFS radius), definitional incidences and structural
// fingerprints. Graph is safe for concurrent use; Snapshot needs no locks.
//
// Scripts: LoadScript reads YAML construction scripts (nested definitions
// allowed) and Script.Apply replays them onto a Graph.
package construction
