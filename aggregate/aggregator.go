package aggregate

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/katalvlaran/geodiscover/algebra"
	"github.com/katalvlaran/geodiscover/candidate"
	"github.com/katalvlaran/geodiscover/prover"
)

// fact is one relation that holds.
type fact struct {
	kind    candidate.Kind
	points  []string
	trivial bool
	pending []string
	stamp   uint64
	order   int
}

// group is a maximal collinear or concyclic point set.
type group struct {
	members []string // canonical labels
	theorem bool     // some member fact is not definitional
	order   int
	pending pendingSet
}

// class is a union-find class with its earliest fact and branch needs.
type class struct {
	keys    []string
	order   int
	pending pendingSet
}

// pair is a perpendicular pair of direction roots.
type pair struct {
	a, b    string
	order   int
	pending pendingSet
}

// Aggregator accumulates relations that hold. It is safe for concurrent
// use and implements candidate.View.
type Aggregator struct {
	mu    sync.Mutex
	facts []fact
	sigs  map[string]struct{}
	next  int
	dirty bool

	ids     *unionFind
	canon   map[string]string
	idents  map[string]*class // identity root -> class
	lines   []*group
	circles []*group
	members map[string][]string // line key -> canonical members
	dirs    *unionFind          // over line keys
	dirOf   map[string]*class   // direction root -> class
	perps   []*pair
	paired  map[string]bool
	segs    *unionFind
	segOf   map[string]*class
}

// New returns an empty Aggregator.
func New() *Aggregator {
	a := &Aggregator{sigs: make(map[string]struct{})}
	a.rebuild()

	return a
}

// Len returns the number of stored facts.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.facts)
}

// Add stores vr when it holds. It reports whether vr was new.
func (a *Aggregator) Add(vr prover.VerifiedRelation) bool {
	if vr.Verdict != prover.Holds {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	sig := vr.Candidate.Signature()
	if _, dup := a.sigs[sig]; dup {
		return false
	}
	a.sigs[sig] = struct{}{}
	a.facts = append(a.facts, fact{
		kind:    vr.Candidate.Kind,
		points:  slices.Clone(vr.Candidate.Points),
		trivial: vr.Candidate.Trivial,
		pending: slices.Clone(vr.Pending),
		stamp:   vr.Stamp,
		order:   a.next,
	})
	a.next++
	a.dirty = true

	return true
}

// Invalidate drops the facts over points that were removed or redefined
// since they were proved, and refreshes the branch needs of the others.
// It returns the number of dropped facts.
func (a *Aggregator) Invalidate(cs *algebra.ConstraintSet) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := cs.Snapshot()
	kept := a.facts[:0]
	dropped := 0
	for _, f := range a.facts {
		stale := false
		for _, p := range f.points {
			if _, ok := snap.Object(p); !ok || snap.Stamp(p) > f.stamp {
				stale = true
				break
			}
		}
		if stale {
			delete(a.sigs, (candidate.Candidate{Kind: f.kind, Points: f.points}).Signature())
			dropped++
			continue
		}
		if p := cs.Pending(f.points...); !slices.Equal(p, f.pending) {
			f.pending = p
			a.dirty = true
		}
		kept = append(kept, f)
	}
	a.facts = kept
	if dropped > 0 {
		a.dirty = true
	}

	return dropped
}

// ensure rebuilds the derived state when facts changed. Callers hold mu.
func (a *Aggregator) ensure() {
	if a.dirty {
		a.rebuild()
		a.dirty = false
	}
}

// rebuild derives every class from the facts.
//
// Implementation:
//   - Stage 1: identity classes; everything below uses canonical labels.
//   - Stage 2: collinear and concyclic groups, merged until no two groups
//     share two (resp. three) points.
//   - Stage 3: line keys, directions under parallelism, then perpendicular
//     pairs between direction roots.
//   - Stage 4: segment classes under equal length.
func (a *Aggregator) rebuild() {
	// Stage 1
	a.ids = newUnionFind()
	for _, f := range a.facts {
		if f.kind == candidate.Identical {
			a.ids.union(f.points[0], f.points[1])
		}
	}
	a.canon = make(map[string]string)
	a.idents = make(map[string]*class)
	for root, ms := range a.ids.classes() {
		sort.Strings(ms)
		for _, m := range ms {
			a.canon[m] = ms[0]
		}
		a.idents[root] = &class{keys: ms, order: -1, pending: pendingSet{}}
	}
	for _, f := range a.facts {
		if f.kind == candidate.Identical {
			a.idents[a.ids.find(f.points[0])].note(f)
		}
	}

	// Stage 2
	a.lines, a.circles = nil, nil
	for _, f := range a.facts {
		switch f.kind {
		case candidate.Collinear:
			a.lines = a.insert(a.lines, f, 2)
		case candidate.Concyclic:
			a.circles = a.insert(a.circles, f, 3)
		}
	}

	// Stage 3
	a.members = make(map[string][]string)
	a.dirs = newUnionFind()
	for _, f := range a.facts {
		if f.kind != candidate.Parallel {
			continue
		}
		k1, k2 := a.lineKey(f.points[0], f.points[1]), a.lineKey(f.points[2], f.points[3])
		if k1 != "" && k2 != "" {
			a.dirs.union(k1, k2)
		}
	}
	a.dirOf = make(map[string]*class)
	for root, keys := range a.dirs.classes() {
		a.dirOf[root] = &class{keys: keys, order: -1, pending: pendingSet{}}
	}
	for _, f := range a.facts {
		if f.kind != candidate.Parallel {
			continue
		}
		if k := a.lineKey(f.points[0], f.points[1]); k != "" {
			if c := a.dirOf[a.direction(k)]; c != nil {
				c.note(f)
			}
		}
	}
	a.perps, a.paired = nil, make(map[string]bool)
	seen := make(map[string]*pair)
	for _, f := range a.facts {
		if f.kind != candidate.Perpendicular {
			continue
		}
		k1, k2 := a.lineKey(f.points[0], f.points[1]), a.lineKey(f.points[2], f.points[3])
		if k1 == "" || k2 == "" {
			continue
		}
		r1, r2 := a.direction(k1), a.direction(k2)
		if r1 == r2 {
			continue
		}
		if r2 < r1 {
			r1, r2 = r2, r1
		}
		if p, ok := seen[r1+"|"+r2]; ok {
			p.pending.add(f.pending...)
			continue
		}
		p := &pair{a: r1, b: r2, order: f.order, pending: pendingSet{}}
		p.pending.add(f.pending...)
		seen[r1+"|"+r2] = p
		a.perps = append(a.perps, p)
		a.paired[r1], a.paired[r2] = true, true
	}

	// Stage 4
	a.segs = newUnionFind()
	for _, f := range a.facts {
		if f.kind != candidate.EqualLength {
			continue
		}
		s1, s2 := a.segKey(f.points[0], f.points[1]), a.segKey(f.points[2], f.points[3])
		if s1 != "" && s2 != "" {
			a.segs.union(s1, s2)
		}
	}
	a.segOf = make(map[string]*class)
	for root, keys := range a.segs.classes() {
		a.segOf[root] = &class{keys: keys, order: -1, pending: pendingSet{}}
	}
	for _, f := range a.facts {
		if f.kind != candidate.EqualLength {
			continue
		}
		if k := a.segKey(f.points[0], f.points[1]); k != "" {
			if c := a.segOf[a.segs.find(k)]; c != nil {
				c.note(f)
			}
		}
	}
}

// note records f in c.
func (c *class) note(f fact) {
	if c.order < 0 || f.order < c.order {
		c.order = f.order
	}
	c.pending.add(f.pending...)
}

// insert adds the group of f to groups and merges groups sharing at least
// k points until none do.
func (a *Aggregator) insert(groups []*group, f fact, k int) []*group {
	var pts []string
	for _, p := range f.points {
		if c := a.canonical(p); !slices.Contains(pts, c) {
			pts = append(pts, c)
		}
	}
	if len(pts) <= k {
		// collapsed by identities
		return groups
	}
	g := &group{members: pts, theorem: !f.trivial, order: f.order, pending: pendingSet{}}
	g.pending.add(f.pending...)
	for merged := true; merged; {
		merged = false
		for i, h := range groups {
			if overlap(g.members, h.members) < k {
				continue
			}
			first, second := h, g
			if g.order < h.order {
				first, second = g, h
			}
			u := &group{
				members: slices.Clone(first.members),
				theorem: g.theorem || h.theorem,
				order:   first.order,
				pending: pendingSet{},
			}
			for _, m := range second.members {
				if !slices.Contains(u.members, m) {
					u.members = append(u.members, m)
				}
			}
			u.pending.merge(g.pending)
			u.pending.merge(h.pending)
			g = u
			groups = slices.Delete(groups, i, i+1)
			merged = true
			break
		}
	}

	return append(groups, g)
}

func overlap(a, b []string) int {
	n := 0
	for _, p := range a {
		if slices.Contains(b, p) {
			n++
		}
	}

	return n
}

func (a *Aggregator) canonical(id string) string {
	if c, ok := a.canon[id]; ok {
		return c
	}

	return id
}

// containing returns the group holding every point, or nil.
func containing(groups []*group, pts ...string) *group {
	for _, g := range groups {
		all := true
		for _, p := range pts {
			if !slices.Contains(g.members, p) {
				all = false
				break
			}
		}
		if all {
			return g
		}
	}

	return nil
}

// lineKey names the line through the canonical points of a and b: a
// collinear group when one holds both, else the sorted pair. Coinciding
// points have no line and yield "".
func (a *Aggregator) lineKey(p, q string) string {
	p, q = a.canonical(p), a.canonical(q)
	if p == q {
		return ""
	}
	if g := containing(a.lines, p, q); g != nil {
		key := fmt.Sprintf("L%d", g.order)
		a.members[key] = g.members
		return key
	}
	if q < p {
		p, q = q, p
	}
	key := p + "," + q
	a.members[key] = []string{p, q}

	return key
}

// direction returns the direction root of a line key without adding it.
func (a *Aggregator) direction(key string) string {
	if _, ok := a.dirs.parent[key]; !ok {
		return key
	}

	return a.dirs.find(key)
}

// segKey names the segment between the canonical points of a and b.
func (a *Aggregator) segKey(p, q string) string {
	p, q = a.canonical(p), a.canonical(q)
	if p == q {
		return ""
	}
	if q < p {
		p, q = q, p
	}

	return p + "," + q
}

// --- candidate.View ---

// Canonical returns the canonical label of id's identity class.
func (a *Aggregator) Canonical(id string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ensure()

	return a.canonical(id)
}

// Identical reports whether p and q are proven identical.
func (a *Aggregator) Identical(p, q string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ensure()

	return a.canonical(p) == a.canonical(q)
}

// Collinear reports whether the points lie on a known line.
func (a *Aggregator) Collinear(p, q, r string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ensure()

	return a.within(a.lines, 3, p, q, r)
}

// Concyclic reports whether the points lie on a known circle.
func (a *Aggregator) Concyclic(p, q, r, s string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ensure()

	return a.within(a.circles, 4, p, q, r, s)
}

// within maps pts to canonical labels; fewer than n distinct labels hold
// trivially.
func (a *Aggregator) within(groups []*group, n int, pts ...string) bool {
	var cs []string
	for _, p := range pts {
		if c := a.canonical(p); !slices.Contains(cs, c) {
			cs = append(cs, c)
		}
	}
	if len(cs) < n {
		return true
	}

	return containing(groups, cs...) != nil
}

// LineOf returns the canonical members of the known line through p and
// q, or the two canonical labels.
func (a *Aggregator) LineOf(p, q string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ensure()

	cp, cq := a.canonical(p), a.canonical(q)
	if g := containing(a.lines, cp, cq); g != nil && cp != cq {
		return slices.Clone(g.members)
	}

	return []string{cp, cq}
}

// Parallel reports whether lines pq and rs are known to share a direction.
func (a *Aggregator) Parallel(p, q, r, s string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ensure()

	k1, k2 := a.lineKey(p, q), a.lineKey(r, s)
	if k1 == "" || k2 == "" {
		return false
	}

	return a.direction(k1) == a.direction(k2)
}

// EqualLength reports whether segments pq and rs are known to be equal.
func (a *Aggregator) EqualLength(p, q, r, s string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ensure()

	k1, k2 := a.segKey(p, q), a.segKey(r, s)
	if k1 == "" || k2 == "" {
		return false
	}
	if k1 == k2 {
		return true
	}
	if _, ok := a.segs.parent[k1]; !ok {
		return false
	}
	if _, ok := a.segs.parent[k2]; !ok {
		return false
	}

	return a.segs.same(k1, k2)
}

// Paired reports whether the direction of pq has a perpendicular partner.
func (a *Aggregator) Paired(p, q string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ensure()

	k := a.lineKey(p, q)

	return k != "" && a.paired[a.direction(k)]
}

var _ candidate.View = (*Aggregator)(nil)

// pendingSet collects unresolved branch objects.
type pendingSet map[string]struct{}

func (s pendingSet) add(ids ...string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

func (s pendingSet) merge(o pendingSet) {
	for id := range o {
		s[id] = struct{}{}
	}
}

func (s pendingSet) sorted() []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)

	return out
}
