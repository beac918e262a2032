package construction

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sort"
)

// Snapshot is an immutable copy of a Graph taken under its read lock.
// Algebraization and candidate generation work on snapshots so that a
// concurrent edit can never be observed half-way.
type Snapshot struct {
	GraphID string
	Version uint64
	Moves   uint64

	objects map[string]Object
	order   []string // topological: inputs first, ties by construction order
	bySeq   []string
	inputs  map[string][]string
	outputs map[string][]string
	stamps  map[string]uint64 // newest stamp over the closure
	prints  map[string]string
}

// Snapshot copies the graph.
func (g *Graph) Snapshot() *Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s := &Snapshot{
		GraphID: g.opts.id,
		Version: g.version,
		Moves:   g.moves,
		objects: make(map[string]Object, len(g.objects)),
		inputs:  make(map[string][]string, len(g.objects)),
		outputs: make(map[string][]string, len(g.objects)),
		stamps:  make(map[string]uint64, len(g.objects)),
		prints:  make(map[string]string, len(g.objects)),
	}
	s.bySeq = g.sortedBySeq(g.idsLocked())
	for _, id := range s.bySeq {
		s.objects[id] = *g.objects[id]
		s.inputs[id] = append([]string(nil), g.inputs[id]...)
	}
	for _, id := range s.bySeq {
		for _, in := range s.inputs[id] {
			s.outputs[in] = append(s.outputs[in], id)
		}
	}
	// The graph never holds a cycle, so the error is impossible here.
	s.order, _ = topoOrder(s.bySeq, func(x string) []string { return s.inputs[x] })
	for _, id := range s.order {
		st := s.objects[id].Stamp
		for _, in := range s.inputs[id] {
			st = max(st, s.stamps[in])
		}
		s.stamps[id] = st
		s.prints[id] = s.fingerprint(id)
	}

	return s
}

// Len returns the number of objects.
func (s *Snapshot) Len() int { return len(s.objects) }

// Object returns the object id.
func (s *Snapshot) Object(id string) (Object, bool) {
	o, ok := s.objects[id]

	return o, ok
}

// Objects returns all objects, inputs before dependents.
func (s *Snapshot) Objects() []Object {
	out := make([]Object, len(s.order))
	for i, id := range s.order {
		out[i] = s.objects[id]
	}

	return out
}

// Order returns all ids, inputs before dependents.
func (s *Snapshot) Order() []string { return append([]string(nil), s.order...) }

// Inputs returns the direct inputs of id.
func (s *Snapshot) Inputs(id string) []string { return s.inputs[id] }

// Dependents returns the direct dependents of id in construction order.
func (s *Snapshot) Dependents(id string) []string { return s.outputs[id] }

// Seq returns the construction index of id (0 when unknown).
func (s *Snapshot) Seq(id string) int { return s.objects[id].Seq }

// Stamp returns the newest definition stamp over id and its inputs.
func (s *Snapshot) Stamp(id string) uint64 { return s.stamps[id] }

// Fingerprint returns a hash of the structure of id's closure. Free
// coordinates and path parameters are excluded, so the fingerprint
// survives drags; branch indices and polygon shapes are included.
func (s *Snapshot) Fingerprint(id string) string { return s.prints[id] }

// Points returns the visible points in construction order.
func (s *Snapshot) Points() []string {
	var out []string
	for _, id := range s.bySeq {
		if o := s.objects[id]; o.Kind == KindPoint && !o.Hidden && !o.Aux {
			out = append(out, id)
		}
	}

	return out
}

// SortBySeq orders ids by construction index in place and returns them.
func (s *Snapshot) SortBySeq(ids []string) []string {
	sort.SliceStable(ids, func(i, j int) bool { return s.objects[ids[i]].Seq < s.objects[ids[j]].Seq })

	return ids
}

// fingerprint hashes command, structural numbers and input fingerprints.
// Inputs are hashed in argument order, so Midpoint(A, B) and
// Midpoint(B, A) differ; the caller only needs equal structure to imply
// equal fingerprints.
func (s *Snapshot) fingerprint(id string) string {
	o := s.objects[id]
	h := sha256.New()
	h.Write([]byte(o.Def.Command))
	h.Write([]byte{0})
	if o.IsFree() || o.OnPath() {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	var buf [8]byte
	num := func(v float64) {
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	for i, a := range o.Def.Args {
		switch {
		case !a.IsNum:
			h.Write([]byte(s.prints[a.Ref]))
		case o.Def.Command == CmdPoint:
			// coordinates and path parameters move freely
		case o.Def.Command == CmdIntersect && i == 2:
			// the branch is hashed below
		default:
			num(a.Num)
		}
		h.Write([]byte{0})
	}
	num(float64(o.Index))

	return hex.EncodeToString(h.Sum(nil))
}
