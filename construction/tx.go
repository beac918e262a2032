package construction

import (
	"fmt"
	"math"
)

// txn stages the objects of one edit. Nothing touches the graph until
// commit, so a failed edit leaves it unchanged.
type txn struct {
	g      *Graph
	staged []*Object
	byID   map[string]*Object
	inputs map[string][]string
	seq    int
	auxSeq int
}

func (g *Graph) begin() *txn {
	return &txn{
		g:      g,
		byID:   make(map[string]*Object),
		inputs: make(map[string][]string),
		seq:    g.seq,
		auxSeq: g.auxSeq,
	}
}

func (t *txn) lookup(id string) (*Object, bool) {
	if o, ok := t.byID[id]; ok {
		return o, true
	}
	o, ok := t.g.objects[id]

	return o, ok
}

func (t *txn) taken(label string) bool {
	_, ok := t.lookup(label)

	return ok
}

func (t *txn) inputsOf(id string) []string {
	if ins, ok := t.inputs[id]; ok {
		return ins
	}

	return t.g.inputs[id]
}

func (t *txn) allIDs() []string {
	ids := t.g.sortedBySeq(t.g.idsLocked())
	for _, o := range t.staged {
		ids = append(ids, o.ID)
	}

	return ids
}

// create builds, labels and stages def; polygons stage their vertices too.
func (t *txn) create(def Definition, aux bool) (string, error) {
	obj, ins, err := t.build(def, aux)
	if err != nil {
		return "", err
	}
	switch {
	case def.Label != "":
		if t.taken(def.Label) {
			return "", fmt.Errorf("label %s already used: %w", def.Label, ErrBadDefinition)
		}
		obj.ID = def.Label
	case aux:
		for obj.ID == "" || t.taken(obj.ID) {
			t.auxSeq++
			obj.ID = fmt.Sprintf("aux%d", t.auxSeq)
		}
	default:
		obj.ID = t.autoLabel(obj.Kind)
	}
	obj.Def.Label = obj.ID
	t.stage(obj, ins)
	if obj.Kind == KindPolygon {
		if err = t.vertices(obj, def.Outputs); err != nil {
			return "", err
		}
	}

	return obj.ID, nil
}

// build resolves arguments and validates def without labelling it.
func (t *txn) build(def Definition, aux bool) (*Object, []string, error) {
	if def.Command == CmdVertex {
		return nil, nil, fmt.Errorf("%s is created by Polygon only: %w", CmdVertex, ErrBadDefinition)
	}
	args := make([]Arg, len(def.Args))
	kinds := make([]Kind, len(def.Args))
	for i, a := range def.Args {
		switch {
		case a.Def != nil:
			nd := *a.Def
			nd.Hidden = true
			id, err := t.create(nd, true)
			if err != nil {
				return nil, nil, err
			}
			args[i], kinds[i] = Ref(id), t.byID[id].Kind
		case a.IsNum:
			if math.IsNaN(a.Num) || math.IsInf(a.Num, 0) {
				return nil, nil, fmt.Errorf("argument %d is not finite: %w", i+1, ErrBadDefinition)
			}
			args[i] = a
		case a.Ref != "":
			o, ok := t.lookup(a.Ref)
			if !ok {
				return nil, nil, fmt.Errorf("%s: %w", a.Ref, ErrUndefinedReference)
			}
			args[i], kinds[i] = a, o.Kind
		default:
			return nil, nil, fmt.Errorf("argument %d is empty: %w", i+1, ErrBadDefinition)
		}
	}
	kind, err := check(def.Command, args, kinds)
	if err != nil {
		return nil, nil, err
	}

	obj := &Object{
		Kind:   kind,
		Def:    Definition{Label: def.Label, Command: def.Command, Args: args, Hidden: def.Hidden},
		Hidden: def.Hidden,
		Aux:    aux,
	}
	switch def.Command {
	case CmdPoint:
		if obj.IsFree() {
			obj.X, obj.Y = args[0].Num, args[1].Num
			break
		}
		obj.T = t.g.opts.defaultParam
		if len(args) == 2 {
			obj.T = args[1].Num
		}
	case CmdIntersect:
		if kinds[0] == KindCircle || kinds[1] == KindCircle {
			obj.Index = 1
			if len(args) == 3 {
				obj.Index, obj.IndexGiven = int(args[2].Num), true
			}
		}
	case CmdPolygon:
		obj.Sides = int(args[2].Num)
	}

	return obj, uniqueRefs(args), nil
}

func (t *txn) stage(obj *Object, ins []string) {
	t.seq++
	obj.Seq = t.seq
	t.staged = append(t.staged, obj)
	t.byID[obj.ID] = obj
	t.inputs[obj.ID] = ins
}

// vertices stages the third to n-th vertex of a regular polygon.
func (t *txn) vertices(poly *Object, labels []string) error {
	if len(labels) > poly.Sides-2 {
		return fmt.Errorf("polygon %s has %d new vertices, %d labels given: %w", poly.ID, poly.Sides-2, len(labels), ErrBadDefinition)
	}
	for i := 3; i <= poly.Sides; i++ {
		id := ""
		if k := i - 3; k < len(labels) && labels[k] != "" {
			if t.taken(labels[k]) {
				return fmt.Errorf("label %s already used: %w", labels[k], ErrBadDefinition)
			}
			id = labels[k]
		} else {
			id = t.autoLabel(KindPoint)
		}
		v := &Object{
			ID:     id,
			Kind:   KindPoint,
			Def:    Definition{Label: id, Command: CmdVertex, Args: []Arg{Ref(poly.ID), Num(float64(i))}, Hidden: poly.Hidden},
			Hidden: poly.Hidden,
			Sides:  i,
		}
		t.stage(v, []string{poly.ID})
	}

	return nil
}

func (t *txn) commit(version uint64) {
	for _, o := range t.staged {
		o.Stamp = version
		t.g.objects[o.ID] = o
		t.g.link(o.ID, t.inputs[o.ID])
	}
	t.g.seq = t.seq
	t.g.auxSeq = t.auxSeq
}

func (t *txn) autoLabel(k Kind) string {
	first := byte('a')
	if k == KindPoint {
		first = 'A'
	}

	return nextLabel(first, t.taken)
}

func uniqueRefs(args []Arg) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, a := range args {
		if a.IsNum || a.Ref == "" {
			continue
		}
		if _, ok := seen[a.Ref]; !ok {
			seen[a.Ref] = struct{}{}
			out = append(out, a.Ref)
		}
	}

	return out
}
