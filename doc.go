// Package geodiscover discovers Euclidean theorems in dynamic-geometry
// constructions and confirms each one symbolically.
//
// 🚀 What is geodiscover?
//
//	Given a construction (free points, midpoints, lines, circles,
//	intersections, regular polygons, ...) and a focus point, the engine
//	reports what holds around the focus:
//		• Identical points: G=H=I
//		• Collinear and concyclic groups: ABCD, CFG
//		• Parallel and perpendicular lines: AB ∥ CFG ∥ DE ⟂ AE
//		• Congruent segments: AD = BE = CF
//
//	Candidates are filtered numerically, then decided exactly over a
//	tower of quadratic extensions of ℚ. Nothing is reported on numeric
//	evidence alone.
//
// Under the hood, everything is organized in subpackages:
//
//	cas/          - polynomials, rational functions, quadratic towers, Decide
//	numeric/      - float determinants and tolerances for the pre-filter
//	construction/ - the construction graph, snapshots and YAML scripts
//	algebra/      - hypothesis equations and exact solved forms
//	candidate/    - lazy candidate generation around a focus
//	prover/       - numeric filter, symbolic confirmation, verdict cache
//	aggregate/    - union-find identities, maximal groups, statement rendering
//	report/       - the structured and textual report
//	discover/     - the Engine: Discover, Extend, restart on edits
//	store/        - SQLite verdict archive
//	scenario/     - built-in constructions with known theorems
//	config/, logging/, metrics/ - viper, zap and Prometheus wiring
//
// Quick ASCII example (midline of a triangle):
//
//	        C
//	       / \
//	    E ●───● D
//	     /     \
//	    A───────B
//
//	Discover(B) reports "AB ∥ DE" and "BD = CD".
//
//	go install github.com/katalvlaran/geodiscover/cmd/geodiscover@latest
package geodiscover
