package algebra

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/katalvlaran/geodiscover/cas"
	"github.com/katalvlaran/geodiscover/construction"
)

// encode dispatches one construction step.
func (b *builder) encode(o construction.Object) error {
	switch o.Def.Command {
	case construction.CmdPoint:
		if o.IsFree() {
			return b.free(o)
		}

		return b.onPath(o)
	case construction.CmdMidpoint:
		return b.midpoint(o)
	case construction.CmdLine, construction.CmdSegment:
		return b.line(o)
	case construction.CmdPerpendicularLine:
		return b.perpendicularLine(o)
	case construction.CmdPerpendicularBisector:
		return b.perpendicularBisector(o)
	case construction.CmdAngularBisector:
		return b.angularBisector(o)
	case construction.CmdCircle:
		return b.circle(o)
	case construction.CmdCenter:
		return b.center(o)
	case construction.CmdIntersect:
		return b.intersect(o)
	case construction.CmdPolygon:
		return b.polygon(o)
	case construction.CmdVertex:
		return b.vertex(o)
	case construction.CmdMirror:
		return b.mirror(o)
	case construction.CmdDilate:
		return b.dilate(o)
	}

	return fmt.Errorf("command %s: %w", o.Def.Command, ErrUnsupported)
}

func (b *builder) ref(o construction.Object, i int) *form { return b.forms[o.Def.Args[i].Ref] }

func (b *builder) free(o construction.Object) error {
	v := pointVar(o.ID)
	switch {
	case o.ID == b.cs.frame[0]:
		b.point(o.ID, vec{})
		b.eq(o, v.x)
		b.eq(o, v.y)
	case len(b.cs.frame) > 1 && o.ID == b.cs.frame[1]:
		b.point(o.ID, vec{x: b.f.One()})
		b.eq(o, cas.Sub(v.x, cas.Int(1)))
		b.eq(o, v.y)
	default:
		b.point(o.ID, vec{b.f.Param(b.pidx["x_"+o.ID]), b.f.Param(b.pidx["y_"+o.ID])})
	}

	return nil
}

// onPath places a point on a line (base + t·dir) or on a circle (the
// start point turned by the rational rotation ((1-t²), 2t)/(1+t²)).
func (b *builder) onPath(o construction.Object) error {
	path := b.ref(o, 0)
	name := "t_" + o.ID
	t := b.f.Param(b.pidx[name])
	te := cas.Var(name)
	b.solve(name, t)
	pv := pointVar(o.ID)

	if path.kind != construction.KindCircle {
		b.point(o.ID, b.add(path.base, b.scale(t, path.dir)))
		d := pv.sub(path.baseE.add(path.dirE.scale(te)))
		b.eq(o, d.x)
		b.eq(o, d.y)

		return nil
	}

	one := b.f.One()
	t2 := b.s.Mul(t, t)
	q := b.s.Add(one, t2)
	c := b.s.Div(b.s.Sub(one, t2), q)
	s := b.s.Div(b.s.Mul(b.f.Int(2), t), q)
	b.point(o.ID, b.add(path.center, b.rotate(b.sub(path.start, path.center), c, s)))

	t2e := cas.Square(te)
	qe, ce, se := cas.Add(cas.Int(1), t2e), cas.Sub(cas.Int(1), t2e), cas.Mul(cas.Int(2), te)
	u := path.startE.sub(path.centerE)
	d := pv.sub(path.centerE)
	b.eq(o, cas.Sub(cas.Mul(qe, d.x), cas.Sub(cas.Mul(ce, u.x), cas.Mul(se, u.y))))
	b.eq(o, cas.Sub(cas.Mul(qe, d.y), cas.Add(cas.Mul(se, u.x), cas.Mul(ce, u.y))))

	return nil
}

func (b *builder) midpoint(o construction.Object) error {
	p, q := b.ref(o, 0).p, b.ref(o, 1).p
	b.point(o.ID, b.scale(b.f.Frac(1, 2), b.add(p, q)))

	sum := pointVar(o.Def.Args[0].Ref).add(pointVar(o.Def.Args[1].Ref))
	pv := pointVar(o.ID).scale(cas.Int(2))
	b.eq(o, cas.Sub(pv.x, sum.x))
	b.eq(o, cas.Sub(pv.y, sum.y))

	return nil
}

// line handles Line(P, Q), Segment(P, Q) and Line(P, l).
func (b *builder) line(o construction.Object) error {
	p, other := b.ref(o, 0), b.ref(o, 1)
	fm := &form{kind: o.Kind, base: p.p, baseE: pointVar(o.Def.Args[0].Ref)}
	if other.kind == construction.KindPoint {
		fm.dir = b.sub(other.p, p.p)
		fm.dirE = pointVar(o.Def.Args[1].Ref).sub(fm.baseE)
	} else {
		fm.dir, fm.dirE = other.dir, other.dirE
	}
	if err := b.nonzero(o.ID, b.dot(fm.dir, fm.dir), "direction"); err != nil {
		return err
	}
	b.forms[o.ID] = fm

	return nil
}

func (b *builder) perpendicularLine(o construction.Object) error {
	p, l := b.ref(o, 0), b.ref(o, 1)
	b.forms[o.ID] = &form{
		kind:  construction.KindLine,
		base:  p.p,
		dir:   b.perp(l.dir),
		baseE: pointVar(o.Def.Args[0].Ref),
		dirE:  l.dirE.perp(),
	}

	return nil
}

func (b *builder) perpendicularBisector(o construction.Object) error {
	p, q := b.ref(o, 0).p, b.ref(o, 1).p
	d := b.sub(q, p)
	if err := b.nonzero(o.ID, b.dot(d, d), "segment length"); err != nil {
		return err
	}
	pe, qe := pointVar(o.Def.Args[0].Ref), pointVar(o.Def.Args[1].Ref)
	b.forms[o.ID] = &form{
		kind:  construction.KindLine,
		base:  b.scale(b.f.Frac(1, 2), b.add(p, q)),
		dir:   b.perp(d),
		baseE: pe.add(qe).scale(cas.Const(big.NewRat(1, 2))),
		dirE:  qe.sub(pe).perp(),
	}

	return nil
}

// angularBisector is the internal bisector of angle ABC: through B along
// |BC|·(A-B) + |BA|·(C-B). The two lengths are auxiliary variables.
func (b *builder) angularBisector(o construction.Object) error {
	pa, pb, pc := b.ref(o, 0).p, b.ref(o, 1).p, b.ref(o, 2).p
	u, v := b.sub(pa, pb), b.sub(pc, pb)
	nu, nv := b.dot(u, u), b.dot(v, v)
	if err := b.nonzero(o.ID, nu, "first arm"); err != nil {
		return err
	}
	if err := b.nonzero(o.ID, nv, "second arm"); err != nil {
		return err
	}
	ru, err := b.sqrt(o.ID, nu, "first arm length")
	if err != nil {
		return err
	}
	rv, err := b.sqrt(o.ID, nv, "second arm length")
	if err != nil {
		return err
	}
	dir := b.add(b.scale(rv, u), b.scale(ru, v))
	if err = b.nonzero(o.ID, b.dot(dir, dir), "bisector direction"); err != nil {
		return err
	}

	r1, r2 := "r1_"+o.ID, "r2_"+o.ID
	b.solve(r1, ru)
	b.solve(r2, rv)
	be := pointVar(o.Def.Args[1].Ref)
	ue := pointVar(o.Def.Args[0].Ref).sub(be)
	ve := pointVar(o.Def.Args[2].Ref).sub(be)
	b.eq(o, cas.Sub(cas.Square(cas.Var(r1)), ue.norm2()))
	b.eq(o, cas.Sub(cas.Square(cas.Var(r2)), ve.norm2()))
	b.forms[o.ID] = &form{
		kind:  construction.KindLine,
		base:  pb,
		dir:   dir,
		baseE: be,
		dirE:  ue.scale(cas.Var(r2)).add(ve.scale(cas.Var(r1))),
	}

	return nil
}

// circle handles Circle(O, P) and the circumcircle Circle(A, B, C).
func (b *builder) circle(o construction.Object) error {
	args := o.Def.Args
	if len(args) == 2 {
		center, start := b.ref(o, 0).p, b.ref(o, 1).p
		fm := &form{
			kind:    construction.KindCircle,
			center:  center,
			start:   start,
			centerE: pointVar(args[0].Ref),
			startE:  pointVar(args[1].Ref),
		}
		d := b.sub(start, center)
		fm.r2 = b.dot(d, d)
		if err := b.nonzero(o.ID, fm.r2, "radius"); err != nil {
			return err
		}
		fm.r2E = fm.startE.sub(fm.centerE).norm2()
		b.forms[o.ID] = fm

		return nil
	}

	pa, pb, pc := b.ref(o, 0).p, b.ref(o, 1).p, b.ref(o, 2).p
	e1, e2 := b.sub(pb, pa), b.sub(pc, pa)
	det := b.s.Mul(b.f.Int(2), b.cross(e1, e2))
	if err := b.nonzero(o.ID, det, "triangle area"); err != nil {
		return err
	}
	n1, n2 := b.dot(e1, e1), b.dot(e2, e2)
	w := vec{
		b.s.Div(b.s.Sub(b.s.Mul(n1, e2.y), b.s.Mul(n2, e1.y)), det),
		b.s.Div(b.s.Sub(b.s.Mul(n2, e1.x), b.s.Mul(n1, e2.x)), det),
	}
	center := b.add(pa, w)
	xo, yo := "xo_"+o.ID, "yo_"+o.ID
	b.solve(xo, center.x)
	b.solve(yo, center.y)

	ce := evec{cas.Var(xo), cas.Var(yo)}
	ae, be, cce := pointVar(args[0].Ref), pointVar(args[1].Ref), pointVar(args[2].Ref)
	b.eq(o, cas.Sub(ae.sub(ce).norm2(), be.sub(ce).norm2()))
	b.eq(o, cas.Sub(ae.sub(ce).norm2(), cce.sub(ce).norm2()))
	r := b.sub(pa, center)
	b.forms[o.ID] = &form{
		kind:    construction.KindCircle,
		center:  center,
		start:   pa,
		r2:      b.dot(r, r),
		centerE: ce,
		startE:  ae,
		r2E:     ae.sub(ce).norm2(),
	}

	return nil
}

func (b *builder) center(o construction.Object) error {
	c := b.ref(o, 0)
	b.point(o.ID, c.center)
	d := pointVar(o.ID).sub(c.centerE)
	b.eq(o, d.x)
	b.eq(o, d.y)

	return nil
}

func (b *builder) intersect(o construction.Object) error {
	f1, f2 := b.ref(o, 0), b.ref(o, 1)
	switch {
	case f1.kind.Linear() && f2.kind.Linear():
		return b.intersectLines(o, f1, f2)
	case f1.kind == construction.KindCircle && f2.kind == construction.KindCircle:
		return b.intersectCircles(o, f1, f2)
	case f1.kind == construction.KindCircle:
		return b.lineCircle(o, f2.base, f2.dir, f2.baseE, f2.dirE, f1)
	}

	return b.lineCircle(o, f1.base, f1.dir, f1.baseE, f1.dirE, f2)
}

// intersectLines solves base1 + s·dir1 on the second line.
func (b *builder) intersectLines(o construction.Object, l1, l2 *form) error {
	den := b.cross(l1.dir, l2.dir)
	if err := b.nonzero(o.ID, den, "direction cross product"); err != nil {
		return err
	}
	s := b.s.Div(b.cross(b.sub(l2.base, l1.base), l2.dir), den)
	b.point(o.ID, b.add(l1.base, b.scale(s, l1.dir)))

	pv := pointVar(o.ID)
	b.eq(o, pv.sub(l1.baseE).cross(l1.dirE))
	b.eq(o, pv.sub(l2.baseE).cross(l2.dirE))

	return nil
}

// lineCircle solves |base + t·dir - O|² = r² and picks the branch:
// t = (-b ± √Δ)/2a, "+" for index 1.
func (b *builder) lineCircle(o construction.Object, base, dir vec, baseE, dirE evec, c *form) error {
	w := b.sub(base, c.center)
	qa := b.dot(dir, dir)
	if err := b.nonzero(o.ID, qa, "direction"); err != nil {
		return err
	}
	qb := b.s.Mul(b.f.Int(2), b.dot(dir, w))
	qc := b.s.Sub(b.dot(w, w), c.r2)
	disc := b.s.Sub(b.s.Mul(qb, qb), b.s.Mul(b.f.Int(4), b.s.Mul(qa, qc)))
	r, err := b.sqrt(o.ID, disc, "discriminant")
	if err != nil {
		return err
	}
	index := max(o.Index, 1)
	signed := r
	if index == 2 {
		signed = b.s.Neg(r)
	}
	t := b.s.Div(b.s.Add(b.s.Neg(qb), signed), b.s.Mul(b.f.Int(2), qa))
	b.point(o.ID, b.add(base, b.scale(t, dir)))

	root := "d_" + o.ID
	b.solve(root, r)
	we := baseE.sub(c.centerE)
	ae := dirE.norm2()
	be := cas.Mul(cas.Int(2), dirE.dot(we))
	ce := cas.Sub(we.norm2(), c.r2E)
	de := cas.Var(root)
	b.eq(o, cas.Sub(cas.Square(de), cas.Sub(cas.Square(be), cas.Mul(cas.Int(4), ae, ce))))
	signedE := de
	if index == 2 {
		signedE = cas.Neg(de)
	}
	k := cas.Add(cas.Neg(be), signedE)
	off := pointVar(o.ID).sub(baseE)
	b.eq(o, cas.Sub(cas.Mul(cas.Int(2), ae, off.x), cas.Mul(k, dirE.x)))
	b.eq(o, cas.Sub(cas.Mul(cas.Int(2), ae, off.y), cas.Mul(k, dirE.y)))
	b.eq(o, cas.Sub(pointVar(o.ID).sub(c.centerE).norm2(), c.r2E))

	b.cs.branches = append(b.cs.branches, Branch{
		Object:   o.ID,
		Index:    index,
		Of:       2,
		Resolved: o.IndexGiven,
		Root:     root,
	})

	return nil
}

// intersectCircles reduces to the radical line of the two circles.
func (b *builder) intersectCircles(o construction.Object, c1, c2 *form) error {
	e := b.sub(c2.center, c1.center)
	ne := b.dot(e, e)
	if err := b.nonzero(o.ID, ne, "center distance"); err != nil {
		return err
	}
	lam := b.s.Div(b.s.Add(b.s.Sub(c1.r2, c2.r2), ne), b.s.Mul(b.f.Int(2), ne))
	base := b.add(c1.center, b.scale(lam, e))
	xb, yb := "xb_"+o.ID, "yb_"+o.ID
	b.solve(xb, base.x)
	b.solve(yb, base.y)

	baseE := evec{cas.Var(xb), cas.Var(yb)}
	ee := c2.centerE.sub(c1.centerE)
	k := cas.Add(cas.Sub(c1.r2E, c2.r2E), ee.norm2())
	off := baseE.sub(c1.centerE)
	b.eq(o, cas.Sub(cas.Mul(cas.Int(2), ee.norm2(), off.x), cas.Mul(k, ee.x)))
	b.eq(o, cas.Sub(cas.Mul(cas.Int(2), ee.norm2(), off.y), cas.Mul(k, ee.y)))
	if err := b.lineCircle(o, base, b.perp(e), baseE, ee.perp(), c1); err != nil {
		return err
	}
	b.eq(o, cas.Sub(pointVar(o.ID).sub(c2.centerE).norm2(), c2.r2E))

	return nil
}

// polygon places a regular, counter-clockwise polygon on its first side:
// V(i+1) = V(i) + R(2π/n)·(V(i) - V(i-1)).
func (b *builder) polygon(o construction.Object) error {
	n := o.Sides
	c, s, err := b.rotation(o.ID, n)
	if err != nil {
		return err
	}
	pa, pb := b.ref(o, 0).p, b.ref(o, 1).p
	side := b.sub(pb, pa)
	if err = b.nonzero(o.ID, b.dot(side, side), "side"); err != nil {
		return err
	}
	verts := []vec{pa, pb}
	for i := 2; i < n; i++ {
		verts = append(verts, b.add(verts[i-1], b.rotate(b.sub(verts[i-1], verts[i-2]), c, s)))
	}
	ids := make([]string, n)
	ids[0], ids[1] = o.Def.Args[0].Ref, o.Def.Args[1].Ref
	for _, d := range b.snap.Dependents(o.ID) {
		if v, ok := b.snap.Object(d); ok && v.Def.Command == construction.CmdVertex {
			ids[v.Sides-1] = d
		}
	}
	b.forms[o.ID] = &form{kind: construction.KindPolygon, verts: verts, vertIDs: ids, cos: c, sin: s}

	return nil
}

// vertex reads the position computed by its polygon.
func (b *builder) vertex(o construction.Object) error {
	poly := b.ref(o, 0)
	i := o.Sides - 1
	b.point(o.ID, poly.verts[i])

	prev, prev2 := b.vertexExpr(poly, i-1), b.vertexExpr(poly, i-2)
	d := prev.sub(prev2)
	ce, se := cas.Lit(poly.cos), cas.Lit(poly.sin)
	rot := evec{cas.Sub(cas.Mul(ce, d.x), cas.Mul(se, d.y)), cas.Add(cas.Mul(se, d.x), cas.Mul(ce, d.y))}
	r := pointVar(o.ID).sub(prev).sub(rot)
	b.eq(o, r.x)
	b.eq(o, r.y)

	return nil
}

// vertexExpr names vertex i, or embeds its value when the vertex object is gone.
func (b *builder) vertexExpr(poly *form, i int) evec {
	if id := poly.vertIDs[i]; id != "" {
		return pointVar(id)
	}

	return evec{cas.Lit(poly.verts[i].x), cas.Lit(poly.verts[i].y)}
}

// mirror reflects a point in a point or in a line.
func (b *builder) mirror(o construction.Object) error {
	p, other := b.ref(o, 0), b.ref(o, 1)
	pe, pv := pointVar(o.Def.Args[0].Ref), pointVar(o.ID)
	two := b.f.Int(2)
	if other.kind == construction.KindPoint {
		b.point(o.ID, b.sub(b.scale(two, other.p), p.p))
		r := pv.add(pe).sub(pointVar(o.Def.Args[1].Ref).scale(cas.Int(2)))
		b.eq(o, r.x)
		b.eq(o, r.y)

		return nil
	}

	w := b.sub(p.p, other.base)
	k := b.s.Div(b.dot(w, other.dir), b.dot(other.dir, other.dir))
	proj := b.add(other.base, b.scale(k, other.dir))
	b.point(o.ID, b.sub(b.scale(two, proj), p.p))
	b.eq(o, pv.sub(pe).dot(other.dirE))
	b.eq(o, pv.add(pe).sub(other.baseE.scale(cas.Int(2))).cross(other.dirE))

	return nil
}

// dilate scales P from O by the rational factor k.
func (b *builder) dilate(o construction.Object) error {
	k, ok := new(big.Rat).SetString(strconv.FormatFloat(o.Def.Args[1].Num, 'g', -1, 64))
	if !ok {
		return fmt.Errorf("factor %g: %w", o.Def.Args[1].Num, ErrUnsupported)
	}
	p, c := b.ref(o, 0).p, b.ref(o, 2).p
	b.point(o.ID, b.add(c, b.scale(b.f.Rat(k), b.sub(p, c))))

	pe, ce := pointVar(o.Def.Args[0].Ref), pointVar(o.Def.Args[2].Ref)
	r := pointVar(o.ID).sub(ce.add(pe.sub(ce).scale(cas.Const(k))))
	b.eq(o, r.x)
	b.eq(o, r.y)

	return nil
}
