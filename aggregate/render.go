package aggregate

import (
	"slices"
	"sort"
	"strings"

	"github.com/katalvlaran/geodiscover/candidate"
	"github.com/katalvlaran/geodiscover/prover"
	"github.com/katalvlaran/geodiscover/report"
)

// Sequencer orders labels by construction; *construction.Snapshot
// implements it.
type Sequencer interface {
	Seq(id string) int
}

// Render folds a one-shot sequence of verdicts and renders the
// statements about focus.
func Render(focus string, rels []prover.VerifiedRelation, seq Sequencer) (settled, provisional []report.Statement) {
	a := New()
	for _, vr := range rels {
		a.Add(vr)
	}

	return a.Statements(focus, seq)
}

// item is a statement before it is split by branch needs.
type item struct {
	text    string
	order   int
	pending []string
}

// Statements renders what is known about focus. Statements relying on an
// unresolved branch are returned separately as provisional.
//
// Identity classes are always listed. Collinear and concyclic groups are
// listed when they contain the focus and are not purely definitional;
// directions and segment classes when one of their lines or segments
// passes through the focus. Within a kind, statements keep the order in
// which their first fact was found.
func (a *Aggregator) Statements(focus string, seq Sequencer) (settled, provisional []report.Statement) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ensure()

	f := a.canonical(focus)
	bySeq := func(ids []string) []string {
		out := slices.Clone(ids)
		sort.SliceStable(out, func(i, j int) bool { return seq.Seq(out[i]) < seq.Seq(out[j]) })
		return out
	}
	emit := func(kind candidate.Kind, items []item, prefix string) {
		sort.SliceStable(items, func(i, j int) bool { return items[i].order < items[j].order })
		if prefix == "" {
			for _, it := range items {
				st := report.Statement{Kind: kind, Text: it.text, Pending: it.pending}
				if len(it.pending) > 0 {
					provisional = append(provisional, st)
				} else {
					settled = append(settled, st)
				}
			}
			return
		}
		var now, later []string
		nowP, laterP := pendingSet{}, pendingSet{}
		for _, it := range items {
			if len(it.pending) > 0 {
				later = append(later, it.text)
				laterP.add(it.pending...)
			} else {
				now = append(now, it.text)
				nowP.add(it.pending...)
			}
		}
		if len(now) > 0 {
			settled = append(settled, report.Statement{Kind: kind, Text: prefix + strings.Join(now, ", "), Groups: now})
		}
		if len(later) > 0 {
			provisional = append(provisional, report.Statement{Kind: kind, Text: prefix + strings.Join(later, ", "), Groups: later, Pending: laterP.sorted()})
		}
	}

	// identity classes
	var items []item
	for _, c := range a.idents {
		items = append(items, item{text: strings.Join(bySeq(c.keys), "="), order: c.order, pending: c.pending.sorted()})
	}
	emit(candidate.Identical, items, "Identical points: ")

	// point groups
	for _, k := range []struct {
		kind   candidate.Kind
		groups []*group
		prefix string
	}{
		{candidate.Collinear, a.lines, "Collinear points: "},
		{candidate.Concyclic, a.circles, "Concyclic points: "},
	} {
		items = items[:0]
		for _, g := range k.groups {
			if g.theorem && slices.Contains(g.members, f) {
				items = append(items, item{text: strings.Join(bySeq(g.members), ""), order: g.order, pending: g.pending.sorted()})
			}
		}
		emit(k.kind, items, k.prefix)
	}

	// directions
	lineLabel := func(key string) string { return strings.Join(bySeq(a.members[key]), "") }
	dirKeys := func(root string) []string {
		keys := []string{root}
		if c, ok := a.dirOf[root]; ok {
			keys = c.keys
		}
		sort.SliceStable(keys, func(i, j int) bool {
			return seqLess(seq, bySeq(a.members[keys[i]]), bySeq(a.members[keys[j]]))
		})
		return keys
	}
	dirLabel := func(root string) string {
		keys := dirKeys(root)
		labels := make([]string, len(keys))
		for i, k := range keys {
			labels[i] = lineLabel(k)
		}
		return strings.Join(labels, " ∥ ")
	}
	touches := func(root string) bool {
		for _, k := range dirKeys(root) {
			if slices.Contains(a.members[k], f) {
				return true
			}
		}
		return false
	}
	dirPending := func(root string) pendingSet {
		ps := pendingSet{}
		if c, ok := a.dirOf[root]; ok {
			ps.merge(c.pending)
		}
		for _, k := range dirKeys(root) {
			if g := containing(a.lines, a.members[k]...); g != nil && len(a.members[k]) > 2 {
				ps.merge(g.pending)
			}
		}
		return ps
	}
	var dirItems []item
	for root, c := range a.dirOf {
		if len(c.keys) < 2 || a.paired[root] || !touches(root) {
			continue
		}
		dirItems = append(dirItems, item{text: dirLabel(root), order: c.order, pending: dirPending(root).sorted()})
	}
	var perpItems []item
	for _, p := range a.perps {
		if !touches(p.a) && !touches(p.b) {
			continue
		}
		l1, l2 := dirLabel(p.a), dirLabel(p.b)
		if l2 < l1 {
			l1, l2 = l2, l1
		}
		ps := pendingSet{}
		ps.merge(p.pending)
		ps.merge(dirPending(p.a))
		ps.merge(dirPending(p.b))
		perpItems = append(perpItems, item{text: l1 + " ⟂ " + l2, order: p.order, pending: ps.sorted()})
	}
	emit(candidate.Parallel, dirItems, "")
	emit(candidate.Perpendicular, perpItems, "")

	// congruences
	items = items[:0]
	for _, c := range a.segOf {
		if len(c.keys) < 2 {
			continue
		}
		labels := make([]string, len(c.keys))
		through := false
		for i, k := range c.keys {
			ends := strings.Split(k, ",")
			through = through || slices.Contains(ends, f)
			labels[i] = ends[0] + ends[1]
		}
		if !through {
			continue
		}
		sort.Strings(labels)
		items = append(items, item{text: strings.Join(labels, " = "), order: c.order, pending: c.pending.sorted()})
	}
	emit(candidate.EqualLength, items, "")

	return settled, provisional
}

// seqLess compares two label lists by construction order, element-wise.
func seqLess(seq Sequencer, a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if sa, sb := seq.Seq(a[i]), seq.Seq(b[i]); sa != sb {
			return sa < sb
		}
	}

	return len(a) < len(b)
}
