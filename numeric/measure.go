package numeric

import "math"

// Vec is a point or direction in the plane.
type Vec struct{ X, Y float64 }

// Sub returns a-b.
func (a Vec) Sub(b Vec) Vec { return Vec{a.X - b.X, a.Y - b.Y} }

// Dot returns a·b.
func (a Vec) Dot(b Vec) float64 { return a.X*b.X + a.Y*b.Y }

// Cross returns the z component of a×b.
func (a Vec) Cross(b Vec) float64 { return a.X*b.Y - a.Y*b.X }

// Norm2 returns |a|².
func (a Vec) Norm2() float64 { return a.Dot(a) }

// Finite reports whether both coordinates are finite.
func (a Vec) Finite() bool {
	return !math.IsNaN(a.X) && !math.IsNaN(a.Y) && !math.IsInf(a.X, 0) && !math.IsInf(a.Y, 0)
}

// Dist returns |a-b|.
func Dist(a, b Vec) float64 { return math.Sqrt(a.Sub(b).Norm2()) }

// ParallelMeasure returns |sin θ| between the directions p1p2 and p3p4.
// Degenerate directions yield +Inf.
func ParallelMeasure(p1, p2, p3, p4 Vec) float64 {
	d1, d2 := p2.Sub(p1), p4.Sub(p3)
	n := math.Sqrt(d1.Norm2() * d2.Norm2())
	if n == 0 {
		return math.Inf(1)
	}

	return math.Abs(d1.Cross(d2)) / n
}

// PerpendicularMeasure returns |cos θ| between the directions p1p2 and p3p4.
func PerpendicularMeasure(p1, p2, p3, p4 Vec) float64 {
	d1, d2 := p2.Sub(p1), p4.Sub(p3)
	n := math.Sqrt(d1.Norm2() * d2.Norm2())
	if n == 0 {
		return math.Inf(1)
	}

	return math.Abs(d1.Dot(d2)) / n
}

// EqualLengthMeasure returns the relative difference of |p1p2|² and |p3p4|².
func EqualLengthMeasure(p1, p2, p3, p4 Vec) float64 {
	a, b := p2.Sub(p1).Norm2(), p4.Sub(p3).Norm2()
	m := math.Max(a, b)
	if m == 0 {
		return math.Inf(1)
	}

	return math.Abs(a-b) / m
}

// CollinearMeasure returns twice the area of p1p2p3 over its longest
// squared side.
func CollinearMeasure(p1, p2, p3 Vec) float64 {
	m := math.Max(p2.Sub(p1).Norm2(), math.Max(p3.Sub(p1).Norm2(), p3.Sub(p2).Norm2()))
	if m == 0 {
		return math.Inf(1)
	}

	return math.Abs(p2.Sub(p1).Cross(p3.Sub(p1))) / m
}

// ConcyclicMeasure returns the normalized determinant
//
//	| |a|² a.x a.y |
//	| |b|² b.x b.y |    with a, b, c taken relative to p1,
//	| |c|² c.x c.y |
//
// which vanishes exactly when the four points are concyclic or collinear.
func ConcyclicMeasure(p1, p2, p3, p4 Vec) float64 {
	a, b, c := p2.Sub(p1), p3.Sub(p1), p4.Sub(p1)
	s := math.Max(a.Norm2(), math.Max(b.Norm2(), c.Norm2()))
	if s == 0 {
		return math.Inf(1)
	}
	d, _ := Det([][]float64{
		{a.Norm2(), a.X, a.Y},
		{b.Norm2(), b.X, b.Y},
		{c.Norm2(), c.X, c.Y},
	})

	return math.Abs(d) / (s * s)
}
