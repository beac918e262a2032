package construction

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Graph is the construction graph. All methods are safe for concurrent use.
//
// Concurrency:
//   - A single RWMutex guards the object catalog and both adjacency maps;
//     edits take the write lock, queries and Snapshot the read lock.
//
// Determinism:
//   - Auto labels, Objects() and Snapshot order depend only on the sequence
//     of edits, never on map iteration.
type Graph struct {
	mu      sync.RWMutex
	opts    graphOptions
	objects map[string]*Object
	inputs  map[string][]string            // id -> unique inputs in argument order
	outputs map[string]map[string]struct{} // id -> direct dependents
	seq     int
	auxSeq  int
	version uint64 // structural edits
	moves   uint64 // drags
}

// NewGraph returns an empty graph; cascading removals are on by default.
func NewGraph(opts ...GraphOption) *Graph {
	o := graphOptions{cascade: true, defaultParam: 0.3}
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}

	return &Graph{
		opts:    o,
		objects: make(map[string]*Object),
		inputs:  make(map[string][]string),
		outputs: make(map[string]map[string]struct{}),
	}
}

// ID returns the graph identity used to scope caches.
func (g *Graph) ID() string { return g.opts.id }

// Version returns the structural version; it grows on every accepted edit.
func (g *Graph) Version() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.version
}

// Moves returns the drag counter; it grows on Move and SetParameter.
func (g *Graph) Moves() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.moves
}

// Len returns the number of objects, auxiliaries included.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.objects)
}

// Add inserts the object described by def and returns its id.
// A def whose label already exists redefines that object (see Redefine).
//
// Errors:
//   - ErrUndefinedReference: an argument names an unknown id.
//   - ErrCyclicDefinition: a redefinition would depend on itself.
//   - ErrBadDefinition: unknown command, wrong arity or argument kinds.
func (g *Graph) Add(def Definition) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.objects[def.Label]; ok && def.Label != "" {
		if err := g.redefineLocked(def); err != nil {
			return "", err
		}

		return def.Label, nil
	}
	tx := g.begin()
	id, err := tx.create(def, false)
	if err != nil {
		return "", fmt.Errorf("Add %s: %w", def, err)
	}
	g.version++
	tx.commit(g.version)

	return id, nil
}

// Redefine replaces the definition of an existing object, keeping its id
// and construction order. The object and everything downstream get a new
// stamp. Polygons and their vertices cannot be redefined.
func (g *Graph) Redefine(def Definition) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.redefineLocked(def)
}

func (g *Graph) redefineLocked(def Definition) error {
	old, ok := g.objects[def.Label]
	if !ok {
		return fmt.Errorf("Redefine %s: %w", def.Label, ErrUnknownObject)
	}
	if old.Kind == KindPolygon || old.Def.Command == CmdVertex || def.Command == CmdPolygon {
		return fmt.Errorf("Redefine %s: polygon objects are fixed: %w", def.Label, ErrBadDefinition)
	}

	// 1. Build the replacement inside a transaction (nested args become staged aux objects).
	tx := g.begin()
	obj, ins, err := tx.build(def, false)
	if err != nil {
		return fmt.Errorf("Redefine %s: %w", def, err)
	}
	if obj.Kind != old.Kind && !(obj.Kind.Linear() && old.Kind.Linear()) {
		return fmt.Errorf("Redefine %s: kind %s cannot replace %s: %w", def.Label, obj.Kind, old.Kind, ErrBadDefinition)
	}

	// 2. Reject cycles on the tentative adjacency.
	tx.inputs[old.ID] = ins
	if _, err = topoOrder(tx.allIDs(), tx.inputsOf); err != nil {
		return fmt.Errorf("Redefine %s: %w", def, err)
	}

	// 3. Commit: aux objects first, then swap the definition in place.
	g.version++
	delete(tx.inputs, old.ID)
	tx.commit(g.version)
	for _, in := range g.inputs[old.ID] {
		delete(g.outputs[in], old.ID)
	}
	obj.ID, obj.Seq, obj.Stamp = old.ID, old.Seq, g.version
	g.objects[old.ID] = obj
	g.link(old.ID, ins)

	return nil
}

// Remove deletes id and, by default, every object that depends on it.
// Auxiliary objects left without dependents are removed as well.
// It returns the removed ids, dependents first.
func (g *Graph) Remove(id string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.objects[id]; !ok {
		return nil, fmt.Errorf("Remove %s: %w", id, ErrUnknownObject)
	}
	doomed := g.descendantsLocked(id)
	if !g.opts.cascade && len(doomed) > 0 {
		return nil, fmt.Errorf("Remove %s: %d dependents: %w", id, len(doomed), ErrInUse)
	}
	doomed[id] = struct{}{}

	// Sweep auxiliaries that only served doomed objects.
	for changed := true; changed; {
		changed = false
		for d := range doomed {
			for _, in := range g.inputs[d] {
				if _, gone := doomed[in]; gone || !g.objects[in].Aux {
					continue
				}
				if g.onlyFeeds(in, doomed) {
					doomed[in] = struct{}{}
					changed = true
				}
			}
		}
	}

	ids := make([]string, 0, len(doomed))
	for d := range doomed {
		ids = append(ids, d)
	}
	order, _ := topoOrder(g.sortedBySeq(ids), func(x string) []string {
		var out []string
		for _, in := range g.inputs[x] {
			if _, ok := doomed[in]; ok {
				out = append(out, in)
			}
		}

		return out
	})
	removed := make([]string, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		g.unlinkLocked(order[i])
		removed = append(removed, order[i])
	}
	g.version++

	return removed, nil
}

// Move drags a free point to (x, y). It is not a structural edit.
func (g *Graph) Move(id string, x, y float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	o, ok := g.objects[id]
	if !ok {
		return fmt.Errorf("Move %s: %w", id, ErrUnknownObject)
	}
	if !o.IsFree() {
		return fmt.Errorf("Move %s: %w", id, ErrNotMovable)
	}
	o.X, o.Y = x, y
	g.moves++

	return nil
}

// SetParameter moves a point along its path. It is not a structural edit.
func (g *Graph) SetParameter(id string, t float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	o, ok := g.objects[id]
	if !ok {
		return fmt.Errorf("SetParameter %s: %w", id, ErrUnknownObject)
	}
	if !o.OnPath() {
		return fmt.Errorf("SetParameter %s: %w", id, ErrNotMovable)
	}
	o.T = t
	g.moves++

	return nil
}

// ResolveBranch fixes the branch of a multi-valued intersection. Choosing
// the branch already in use only marks it resolved and counts as a drag;
// choosing the other one is a structural edit. It reports whether the
// geometry changed.
func (g *Graph) ResolveBranch(id string, index int) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	o, ok := g.objects[id]
	if !ok {
		return false, fmt.Errorf("ResolveBranch %s: %w", id, ErrUnknownObject)
	}
	if !o.Multivalued() || (index != 1 && index != 2) {
		return false, fmt.Errorf("ResolveBranch %s(%d): %w", id, index, ErrBadDefinition)
	}
	o.IndexGiven = true
	if o.Index == index {
		g.moves++

		return false, nil
	}
	o.Index = index
	g.version++
	o.Stamp = g.version

	return true, nil
}

// Object returns a copy of the object id.
func (g *Graph) Object(id string) (Object, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	o, ok := g.objects[id]
	if !ok {
		return Object{}, false
	}

	return *o, true
}

// Objects returns copies of all objects in construction order.
func (g *Graph) Objects() []Object {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Object, 0, len(g.objects))
	for _, id := range g.sortedBySeq(g.idsLocked()) {
		out = append(out, *g.objects[id])
	}

	return out
}

// Dependents returns the direct dependents of id in construction order.
func (g *Graph) Dependents(id string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.objects[id]; !ok {
		return nil, fmt.Errorf("Dependents %s: %w", id, ErrUnknownObject)
	}
	out := make([]string, 0, len(g.outputs[id]))
	for d := range g.outputs[id] {
		out = append(out, d)
	}

	return g.sortedBySeq(out), nil
}

// DependenciesOf returns every transitive input of id, inputs first.
func (g *Graph) DependenciesOf(id string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.objects[id]; !ok {
		return nil, fmt.Errorf("DependenciesOf %s: %w", id, ErrUnknownObject)
	}
	order, err := topoOrder([]string{id}, func(x string) []string { return g.inputs[x] })
	if err != nil {
		return nil, err
	}

	return order[:len(order)-1], nil
}

// FreeParametersOf returns the free points and points-on-paths whose
// values feed id (id included when it is one), in construction order.
func (g *Graph) FreeParametersOf(id string) ([]string, error) {
	deps, err := g.DependenciesOf(id)
	if err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []string
	for _, d := range append(deps, id) {
		if o := g.objects[d]; o.IsFree() || o.OnPath() {
			out = append(out, d)
		}
	}

	return g.sortedBySeq(out), nil
}

// Stamp returns the newest definition stamp over id and its dependencies.
func (g *Graph) Stamp(id string) (uint64, error) {
	deps, err := g.DependenciesOf(id)
	if err != nil {
		return 0, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	s := g.objects[id].Stamp
	for _, d := range deps {
		if st := g.objects[d].Stamp; st > s {
			s = st
		}
	}

	return s, nil
}

// --- internals (callers hold g.mu) ---

func (g *Graph) idsLocked() []string {
	ids := make([]string, 0, len(g.objects))
	for id := range g.objects {
		ids = append(ids, id)
	}

	return ids
}

func (g *Graph) sortedBySeq(ids []string) []string {
	sort.Slice(ids, func(i, j int) bool { return g.objects[ids[i]].Seq < g.objects[ids[j]].Seq })

	return ids
}

func (g *Graph) link(id string, ins []string) {
	g.inputs[id] = ins
	for _, in := range ins {
		if g.outputs[in] == nil {
			g.outputs[in] = make(map[string]struct{})
		}
		g.outputs[in][id] = struct{}{}
	}
}

func (g *Graph) unlinkLocked(id string) {
	for _, in := range g.inputs[id] {
		delete(g.outputs[in], id)
	}
	delete(g.inputs, id)
	delete(g.outputs, id)
	delete(g.objects, id)
}

// descendantsLocked walks dependents breadth-first.
func (g *Graph) descendantsLocked(id string) map[string]struct{} {
	seen := make(map[string]struct{})
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for d := range g.outputs[cur] {
			if _, ok := seen[d]; !ok {
				seen[d] = struct{}{}
				queue = append(queue, d)
			}
		}
	}

	return seen
}

func (g *Graph) onlyFeeds(id string, set map[string]struct{}) bool {
	for d := range g.outputs[id] {
		if _, ok := set[d]; !ok {
			return false
		}
	}

	return true
}
