package construction

// PointSet is a group of points known to lie on one line or one circle
// because the construction put them there.
type PointSet struct {
	// Objects are the line, segment or circle ids carrying the set; empty
	// for sets implied by Midpoint, Mirror or Dilate.
	Objects []string
	// Points in construction order.
	Points []string
}

// Incidences lists collinear and concyclic point sets that hold by
// construction. Line sets sharing two points and circle sets sharing
// three are merged.
type Incidences struct {
	Lines   []PointSet
	Circles []PointSet
}

// Incidences derives the construction incidences of s.
func (s *Snapshot) Incidences() Incidences {
	lines := map[string][]string{}
	circles := map[string][]string{}
	var virtual [][]string
	on := func(m map[string][]string, carrier, p string) {
		m[carrier] = append(m[carrier], p)
	}

	for _, id := range s.bySeq {
		o := s.objects[id]
		a := o.Def.Args
		switch o.Def.Command {
		case CmdLine, CmdSegment:
			for _, r := range o.Refs() {
				if s.objects[r].Kind == KindPoint {
					on(lines, id, r)
				}
			}
		case CmdPerpendicularLine:
			on(lines, id, a[0].Ref)
		case CmdAngularBisector:
			on(lines, id, a[1].Ref)
		case CmdCircle:
			if len(a) == 2 {
				on(circles, id, a[1].Ref)
			} else {
				for _, r := range o.Refs() {
					on(circles, id, r)
				}
			}
		case CmdPoint:
			if !o.OnPath() {
				break
			}
			if s.objects[a[0].Ref].Kind == KindCircle {
				on(circles, a[0].Ref, id)
			} else {
				on(lines, a[0].Ref, id)
			}
		case CmdIntersect:
			for _, r := range o.Refs() {
				if s.objects[r].Kind == KindCircle {
					on(circles, r, id)
				} else {
					on(lines, r, id)
				}
			}
		case CmdMidpoint:
			virtual = append(virtual, []string{a[0].Ref, a[1].Ref, id})
		case CmdMirror:
			if s.objects[a[1].Ref].Kind == KindPoint {
				virtual = append(virtual, []string{a[0].Ref, a[1].Ref, id})
			}
		case CmdDilate:
			virtual = append(virtual, []string{a[0].Ref, a[2].Ref, id})
		}
	}

	var out Incidences
	var lsets, csets []PointSet
	for _, id := range s.bySeq {
		if pts, ok := lines[id]; ok {
			lsets = append(lsets, PointSet{Objects: []string{id}, Points: pts})
		}
		if pts, ok := circles[id]; ok {
			csets = append(csets, PointSet{Objects: []string{id}, Points: pts})
		}
	}
	for _, v := range virtual {
		lsets = append(lsets, PointSet{Points: v})
	}
	out.Lines = s.mergeSets(lsets, 2)
	out.Circles = s.mergeSets(csets, 3)

	return out
}

// mergeSets joins sets sharing at least k points until no pair does.
func (s *Snapshot) mergeSets(sets []PointSet, k int) []PointSet {
	for i := range sets {
		sets[i].Points = s.uniqueSorted(sets[i].Points)
	}
	for merged := true; merged; {
		merged = false
		for i := 0; i < len(sets) && !merged; i++ {
			for j := i + 1; j < len(sets); j++ {
				if shared(sets[i].Points, sets[j].Points) < k {
					continue
				}
				sets[i].Objects = append(sets[i].Objects, sets[j].Objects...)
				sets[i].Points = s.uniqueSorted(append(sets[i].Points, sets[j].Points...))
				sets = append(sets[:j], sets[j+1:]...)
				merged = true
				break
			}
		}
	}

	return sets
}

func (s *Snapshot) uniqueSorted(ids []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}

	return s.SortBySeq(out)
}

func shared(a, b []string) int {
	n := 0
	for _, x := range a {
		for _, y := range b {
			if x == y {
				n++
				break
			}
		}
	}

	return n
}
