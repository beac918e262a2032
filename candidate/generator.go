package candidate

import (
	"iter"
	"slices"
	"strings"

	"github.com/katalvlaran/geodiscover/algebra"
	"github.com/katalvlaran/geodiscover/construction"
	"github.com/katalvlaran/geodiscover/numeric"
)

// View answers what is already known. Every method takes point ids and
// treats identical points as one.
type View interface {
	// Canonical returns the representative of id's identity class.
	Canonical(id string) string
	Identical(a, b string) bool
	Collinear(a, b, c string) bool
	Concyclic(a, b, c, d string) bool
	// LineOf returns the canonical members of the known line through a
	// and b, or just the two canonical labels.
	LineOf(a, b string) []string
	// Parallel reports whether lines ab and cd share a direction.
	Parallel(a, b, c, d string) bool
	EqualLength(a, b, c, d string) bool
	// Paired reports whether the direction of ab already has a
	// perpendicular partner.
	Paired(a, b string) bool
}

// Generator proposes candidates around a focus point.
type Generator struct {
	cs     *algebra.ConstraintSet
	snap   *construction.Snapshot
	view   View
	radius int
	tol    float64
}

// Option configures a Generator.
type Option func(*Generator)

// WithRadius bounds the hop distance from the focus and between the
// points of one candidate (default 8; negative means unbounded).
func WithRadius(r int) Option {
	return func(g *Generator) { g.radius = r }
}

// WithTolerance sets the numeric threshold used to skip concyclic
// quadruples with three collinear points (default 1e-8).
func WithTolerance(tol float64) Option {
	if tol <= 0 {
		panic("candidate: WithTolerance needs tol > 0")
	}

	return func(g *Generator) { g.tol = tol }
}

// NewGenerator returns a Generator over cs consulting view.
func NewGenerator(cs *algebra.ConstraintSet, view View, opts ...Option) *Generator {
	g := &Generator{cs: cs, snap: cs.Snapshot(), view: view, radius: 8, tol: 1e-8}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Scope returns the visible, non-degenerate points within the radius of
// focus, in construction order. Unknown or degenerate focus yields nil.
func (g *Generator) Scope(focus string) []string {
	dist, err := g.snap.Distances(focus, g.radius)
	if err != nil || g.cs.Degenerate(focus) != nil {
		return nil
	}
	var out []string
	for _, id := range g.snap.Points() {
		if _, ok := dist[id]; !ok || g.cs.Degenerate(id) != nil {
			continue
		}
		if _, ok := g.cs.Position(id); ok {
			out = append(out, id)
		}
	}

	return out
}

// Candidates lazily yields the candidates for focus, kind by kind in the
// order of Kinds. The View is consulted right before each candidate, so
// verdicts folded in by the consumer between two steps prune the rest.
//
// Implementation:
//   - Stage 1: identical pairs over the whole scope.
//   - Stage 2: scope points collapse to one representative per identity
//     class; construction incidences are mapped onto them. A relation is
//     definitional only when it holds by construction for every member.
//   - Stage 3: collinear triples (all), concyclic quadruples through the
//     focus, parallel and equal-length pairs against lines and segments
//     through the focus, perpendicular directions with a focus line.
//
// Every point of a candidate lies within the radius of the focus and of
// every other point of the candidate.
//
// The sequence is finite and never repeats a signature.
func (g *Generator) Candidates(focus string) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		scope := g.Scope(focus)
		if !slices.Contains(scope, focus) {
			return
		}
		r := &run{g: g, focus: focus, scope: scope, yield: yield, seen: make(map[string]struct{}), hops: make(map[string]map[string]int)}
		for _, phase := range []func() bool{r.identical, r.collinear, r.concyclic, r.parallel, r.equalLength, r.perpendicular} {
			if !phase() {
				return
			}
		}
	}
}

// run is the state of one Candidates walk.
type run struct {
	g     *Generator
	focus string
	scope []string
	yield func(Candidate) bool
	seen  map[string]struct{}
	hops  map[string]map[string]int

	reps    []string            // one point per identity class, construction order
	byRoot  map[string]string   // canonical label -> representative
	members map[string][]string // representative -> visible class members
	f       string              // representative of the focus
	lines   [][]string          // mapped incidence lines
	cycles  [][]string          // mapped incidence circles
	defLine [][]string          // incidence lines over the original labels
	defCirc [][]string          // incidence circles over the original labels
}

// emit yields c once per signature; false stops the walk. Candidates
// whose points are not pairwise within the radius are dropped.
func (r *run) emit(c Candidate) bool {
	sig := c.Signature()
	if _, dup := r.seen[sig]; dup || !r.near(c.Points...) {
		return true
	}
	r.seen[sig] = struct{}{}

	return r.yield(c)
}

// near reports whether every two of pts are within the radius of each
// other. Identity classes count as close when any two members are.
func (r *run) near(pts ...string) bool {
	if r.g.radius < 0 {
		return true
	}
	for i, a := range pts {
		for _, b := range pts[i+1:] {
			if !r.linked(a, b) {
				return false
			}
		}
	}

	return true
}

func (r *run) linked(a, b string) bool {
	class := func(p string) []string {
		if ms := r.members[p]; len(ms) > 0 {
			return ms
		}
		return []string{p}
	}
	for _, m := range class(a) {
		d, ok := r.hops[m]
		if !ok {
			d, _ = r.g.snap.Distances(m, r.g.radius)
			r.hops[m] = d
		}
		for _, n := range class(b) {
			if _, ok := d[n]; ok {
				return true
			}
		}
	}

	return false
}

func (r *run) identical() bool {
	v := r.g.view
	for i, a := range r.scope {
		for _, b := range r.scope[i+1:] {
			if v.Identical(a, b) {
				continue
			}
			if !r.emit(Candidate{Kind: Identical, Points: []string{a, b}}) {
				return false
			}
		}
	}

	return true
}

// classes collapses the scope to one representative per identity class
// and maps the construction incidences onto the representatives.
func (r *run) classes() {
	v := r.g.view
	r.byRoot = make(map[string]string)
	members := make(map[string][]string)
	var roots []string
	for _, p := range r.scope {
		root := v.Canonical(p)
		if _, ok := members[root]; !ok {
			roots = append(roots, root)
		}
		members[root] = append(members[root], p)
	}
	r.reps = r.reps[:0]
	for _, root := range roots {
		rep := members[root][0]
		if slices.Contains(members[root], root) {
			rep = root
		}
		r.byRoot[root] = rep
		r.reps = append(r.reps, rep)
	}
	r.g.snap.SortBySeq(r.reps)
	r.f = r.byRoot[v.Canonical(r.focus)]
	r.members = make(map[string][]string)
	for _, p := range r.g.snap.Points() {
		if rep, ok := r.byRoot[v.Canonical(p)]; ok {
			r.members[rep] = append(r.members[rep], p)
		}
	}

	inc := r.g.snap.Incidences()
	r.lines = mergeSets(r.mapSets(inc.Lines), 2)
	r.cycles = mergeSets(r.mapSets(inc.Circles), 3)
	r.defLine = mergeSets(rawSets(inc.Lines), 2)
	r.defCirc = mergeSets(rawSets(inc.Circles), 3)
	for _, s := range append(append([][]string(nil), r.lines...), r.cycles...) {
		r.g.snap.SortBySeq(s)
	}
}

// rep maps a point (or canonical label) to its representative.
func (r *run) rep(p string) (string, bool) {
	q, ok := r.byRoot[r.g.view.Canonical(p)]

	return q, ok
}

func (r *run) mapSets(sets []construction.PointSet) [][]string {
	var out [][]string
	for _, s := range sets {
		var pts []string
		for _, p := range s.Points {
			if q, ok := r.rep(p); ok && !slices.Contains(pts, q) {
				pts = append(pts, q)
			}
		}
		out = append(out, r.g.snap.SortBySeq(pts))
	}

	return out
}

func rawSets(sets []construction.PointSet) [][]string {
	out := make([][]string, 0, len(sets))
	for _, s := range sets {
		out = append(out, slices.Clone(s.Points))
	}

	return out
}

// definitional reports whether pts lie on one of sets for every choice of
// members from their identity classes. A relation that only holds through
// a proven identity is a theorem.
func (r *run) definitional(sets [][]string, pts ...string) bool {
	choice := make([]string, len(pts))
	var walk func(i int) bool
	walk = func(i int) bool {
		if i == len(pts) {
			return within(sets, choice...)
		}
		ms := r.members[pts[i]]
		if len(ms) == 0 {
			ms = pts[i : i+1]
		}
		for _, m := range ms {
			choice[i] = m
			if !walk(i + 1) {
				return false
			}
		}

		return true
	}

	return walk(0)
}

// mergeSets joins sets sharing at least k members until no pair does.
func mergeSets(sets [][]string, k int) [][]string {
	for changed := true; changed; {
		changed = false
	outer:
		for i := range sets {
			for j := i + 1; j < len(sets); j++ {
				n := 0
				for _, p := range sets[j] {
					if slices.Contains(sets[i], p) {
						n++
					}
				}
				if n < k {
					continue
				}
				for _, p := range sets[j] {
					if !slices.Contains(sets[i], p) {
						sets[i] = append(sets[i], p)
					}
				}
				sets = slices.Delete(sets, j, j+1)
				changed = true
				break outer
			}
		}
	}

	return sets
}

func within(sets [][]string, pts ...string) bool {
	for _, s := range sets {
		all := true
		for _, p := range pts {
			if !slices.Contains(s, p) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}

	return false
}

func (r *run) collinear() bool {
	r.classes()
	v := r.g.view
	// construction incidences first, so definitional groups exist before
	// anything has to be proved
	for _, s := range r.lines {
		for k := 2; k < len(s); k++ {
			if v.Collinear(s[0], s[1], s[k]) {
				continue
			}
			if !r.emit(Candidate{Kind: Collinear, Points: []string{s[0], s[1], s[k]}, Trivial: r.definitional(r.defLine, s[0], s[1], s[k])}) {
				return false
			}
		}
	}
	n := len(r.reps)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				a, b, c := r.reps[i], r.reps[j], r.reps[k]
				if v.Collinear(a, b, c) {
					continue
				}
				if !r.emit(Candidate{Kind: Collinear, Points: []string{a, b, c}, Trivial: r.definitional(r.defLine, a, b, c)}) {
					return false
				}
			}
		}
	}

	return true
}

func (r *run) concyclic() bool {
	v := r.g.view
	for _, s := range r.cycles {
		for k := 3; k < len(s); k++ {
			if v.Concyclic(s[0], s[1], s[2], s[k]) {
				continue
			}
			if !r.emit(Candidate{Kind: Concyclic, Points: []string{s[0], s[1], s[2], s[k]}, Trivial: r.definitional(r.defCirc, s[0], s[1], s[2], s[k])}) {
				return false
			}
		}
	}
	others := r.others()
	n := len(others)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				a, b, c := others[i], others[j], others[k]
				if v.Concyclic(r.f, a, b, c) || r.threeCollinear(r.f, a, b, c) {
					continue
				}
				if !r.emit(Candidate{Kind: Concyclic, Points: []string{r.f, a, b, c}, Trivial: r.definitional(r.defCirc, r.f, a, b, c)}) {
					return false
				}
			}
		}
	}

	return true
}

// threeCollinear reports whether any three of the points are numerically
// collinear at the snapshot.
func (r *run) threeCollinear(ps ...string) bool {
	pos := make([]numeric.Vec, len(ps))
	for i, p := range ps {
		pos[i], _ = r.g.cs.Position(p)
	}
	for i := 0; i < len(pos); i++ {
		for j := i + 1; j < len(pos); j++ {
			for k := j + 1; k < len(pos); k++ {
				if numeric.CollinearMeasure(pos[i], pos[j], pos[k]) < r.g.tol {
					return true
				}
			}
		}
	}

	return false
}

func (r *run) others() []string {
	out := make([]string, 0, len(r.reps))
	for _, p := range r.reps {
		if p != r.f {
			out = append(out, p)
		}
	}

	return out
}

// knownLines returns the distinct lines through two representatives, each
// as its representatives in construction order.
func (r *run) knownLines() [][]string {
	v := r.g.view
	var out [][]string
	keys := make(map[string]struct{})
	for i, a := range r.reps {
		for _, b := range r.reps[i+1:] {
			var pts []string
			for _, m := range v.LineOf(a, b) {
				if q, ok := r.rep(m); ok && !slices.Contains(pts, q) {
					pts = append(pts, q)
				}
			}
			for _, q := range []string{a, b} {
				if !slices.Contains(pts, q) {
					pts = append(pts, q)
				}
			}
			r.g.snap.SortBySeq(pts)
			key := strings.Join(pts, ",")
			if _, dup := keys[key]; dup {
				continue
			}
			keys[key] = struct{}{}
			out = append(out, pts)
		}
	}

	return out
}

func shares(a, b []string) bool {
	for _, p := range a {
		if slices.Contains(b, p) {
			return true
		}
	}

	return false
}

// through returns two points of l, the focus first when l passes through it.
func (r *run) through(l []string) (string, string) {
	if l[0] != r.f && slices.Contains(l, r.f) {
		return r.f, l[0]
	}

	return l[0], l[1]
}

func (r *run) parallel() bool {
	v := r.g.view
	lines := r.knownLines()
	var focal [][]string
	for _, l := range lines {
		if slices.Contains(l, r.f) {
			focal = append(focal, l)
		}
	}
	for _, l1 := range lines {
		if slices.Contains(l1, r.f) {
			continue
		}
		for _, l2 := range focal {
			if shares(l1, l2) {
				continue
			}
			a, b := r.through(l1)
			c, d := r.through(l2)
			if v.Parallel(a, b, c, d) {
				continue
			}
			if !r.emit(Candidate{Kind: Parallel, Points: []string{a, b, c, d}}) {
				return false
			}
		}
	}

	return true
}

func (r *run) equalLength() bool {
	v := r.g.view
	others := r.others()
	for i, a := range r.reps {
		for _, b := range r.reps[i+1:] {
			for _, c := range others {
				if (a == r.f && b == c) || (b == r.f && a == c) {
					continue
				}
				if v.EqualLength(a, b, r.f, c) {
					continue
				}
				if !r.emit(Candidate{Kind: EqualLength, Points: []string{a, b, r.f, c}}) {
					return false
				}
			}
		}
	}

	return true
}

func (r *run) perpendicular() bool {
	v := r.g.view
	lines := r.knownLines()
	for i, l1 := range lines {
		for _, l2 := range lines[i+1:] {
			if !slices.Contains(l1, r.f) && !slices.Contains(l2, r.f) {
				continue
			}
			a, b := r.through(l1)
			c, d := r.through(l2)
			if v.Parallel(a, b, c, d) || v.Paired(a, b) || v.Paired(c, d) {
				continue
			}
			if !r.emit(Candidate{Kind: Perpendicular, Points: []string{a, b, c, d}}) {
				return false
			}
		}
	}

	return true
}
