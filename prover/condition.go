package prover

import (
	"math"

	"github.com/katalvlaran/geodiscover/candidate"
	"github.com/katalvlaran/geodiscover/cas"
	"github.com/katalvlaran/geodiscover/numeric"
)

// point is the symbolic position of a labelled point.
type point struct{ x, y *cas.Expr }

func pointOf(id string) point { return point{cas.Var("x_" + id), cas.Var("y_" + id)} }

func (p point) sub(q point) point { return point{cas.Sub(p.x, q.x), cas.Sub(p.y, q.y)} }

func (p point) cross(q point) *cas.Expr { return cas.Sub(cas.Mul(p.x, q.y), cas.Mul(p.y, q.x)) }

func (p point) dot(q point) *cas.Expr { return cas.Add(cas.Mul(p.x, q.x), cas.Mul(p.y, q.y)) }

func (p point) norm2() *cas.Expr { return p.dot(p) }

// Conditions returns the polynomial conditions whose joint vanishing is
// the relation c, over the variables x_P and y_P of its points.
//
//	Identical      x_a - x_b, y_a - y_b
//	Collinear      (b-a) × (c-a)
//	Concyclic      |b'|²(c'×d') - |c'|²(b'×d') + |d'|²(b'×c'), primes relative to a
//	Parallel       (b-a) × (d-c)
//	Perpendicular  (b-a) · (d-c)
//	EqualLength    |b-a|² - |d-c|²
func Conditions(c candidate.Candidate) []*cas.Expr {
	p := make([]point, len(c.Points))
	for i, id := range c.Points {
		p[i] = pointOf(id)
	}
	switch c.Kind {
	case candidate.Identical:
		return []*cas.Expr{cas.Sub(p[0].x, p[1].x), cas.Sub(p[0].y, p[1].y)}
	case candidate.Collinear:
		return []*cas.Expr{p[1].sub(p[0]).cross(p[2].sub(p[0]))}
	case candidate.Concyclic:
		b, cc, d := p[1].sub(p[0]), p[2].sub(p[0]), p[3].sub(p[0])
		return []*cas.Expr{cas.Add(
			cas.Mul(b.norm2(), cc.cross(d)),
			cas.Neg(cas.Mul(cc.norm2(), b.cross(d))),
			cas.Mul(d.norm2(), b.cross(cc)),
		)}
	case candidate.Parallel:
		return []*cas.Expr{p[1].sub(p[0]).cross(p[3].sub(p[2]))}
	case candidate.Perpendicular:
		return []*cas.Expr{p[1].sub(p[0]).dot(p[3].sub(p[2]))}
	case candidate.EqualLength:
		return []*cas.Expr{cas.Sub(p[1].sub(p[0]).norm2(), p[3].sub(p[2]).norm2())}
	}

	return nil
}

// measure evaluates the scale-free numeric measure of c; 0 means the
// relation holds exactly at the drawing.
func measure(c candidate.Candidate, v []numeric.Vec) float64 {
	switch c.Kind {
	case candidate.Identical:
		return numeric.Dist(v[0], v[1])
	case candidate.Collinear:
		return numeric.CollinearMeasure(v[0], v[1], v[2])
	case candidate.Concyclic:
		return numeric.ConcyclicMeasure(v[0], v[1], v[2], v[3])
	case candidate.Parallel:
		return numeric.ParallelMeasure(v[0], v[1], v[2], v[3])
	case candidate.Perpendicular:
		return numeric.PerpendicularMeasure(v[0], v[1], v[2], v[3])
	case candidate.EqualLength:
		return numeric.EqualLengthMeasure(v[0], v[1], v[2], v[3])
	}

	return math.Inf(1)
}
