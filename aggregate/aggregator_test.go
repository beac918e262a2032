package aggregate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/geodiscover/aggregate"
	"github.com/katalvlaran/geodiscover/algebra"
	"github.com/katalvlaran/geodiscover/candidate"
	"github.com/katalvlaran/geodiscover/cas"
	"github.com/katalvlaran/geodiscover/construction"
	"github.com/katalvlaran/geodiscover/prover"
	"github.com/katalvlaran/geodiscover/report"
)

// alpha orders labels alphabetically, the construction order of the
// fixtures below.
type alpha struct{}

func (alpha) Seq(id string) int {
	n := 0
	for _, r := range id {
		n = n*128 + int(r)
	}

	return n
}

// seqOf orders labels as listed.
type seqOf map[string]int

func (s seqOf) Seq(id string) int { return s[id] }

func holds(k candidate.Kind, pts ...string) prover.VerifiedRelation {
	return prover.VerifiedRelation{Candidate: candidate.Candidate{Kind: k, Points: pts}, Verdict: prover.Holds}
}

func trivial(k candidate.Kind, pts ...string) prover.VerifiedRelation {
	vr := holds(k, pts...)
	vr.Candidate.Trivial = true

	return vr
}

func texts(sts []report.Statement) []string {
	out := make([]string, len(sts))
	for i, s := range sts {
		out[i] = s.Text
	}

	return out
}

func TestAdd(t *testing.T) {
	a := aggregate.New()
	assert.True(t, a.Add(holds(candidate.Parallel, "A", "B", "D", "E")))
	assert.False(t, a.Add(holds(candidate.Parallel, "E", "D", "B", "A")), "same signature")
	vr := holds(candidate.Parallel, "A", "C", "D", "E")
	vr.Verdict = prover.DoesNotHold
	assert.False(t, a.Add(vr))
	vr.Verdict = prover.Inconclusive
	assert.False(t, a.Add(vr))
	assert.Equal(t, 1, a.Len())
}

// TestIdentity merges identical points and answers through the classes.
func TestIdentity(t *testing.T) {
	a := aggregate.New()
	a.Add(holds(candidate.Identical, "H", "I"))
	a.Add(holds(candidate.Identical, "G", "H"))
	a.Add(holds(candidate.Identical, "K", "J"))

	assert.Equal(t, "G", a.Canonical("I"))
	assert.Equal(t, "J", a.Canonical("K"))
	assert.Equal(t, "A", a.Canonical("A"))
	assert.True(t, a.Identical("I", "G"))
	assert.False(t, a.Identical("I", "J"))
	assert.True(t, a.Collinear("G", "H", "A"), "two coinciding points are always collinear")
	assert.Equal(t, []string{"A", "G"}, a.LineOf("A", "I"))

	settled, provisional := a.Statements("A", alpha{})
	assert.Empty(t, provisional)
	require.Len(t, settled, 1)
	assert.Equal(t, "Identical points: G=H=I, J=K", settled[0].Text)
	assert.Equal(t, []string{"G=H=I", "J=K"}, settled[0].Groups)
}

// TestGroups merges collinear and concyclic facts into maximal groups.
func TestGroups(t *testing.T) {
	a := aggregate.New()
	a.Add(trivial(candidate.Collinear, "A", "B", "C"))
	a.Add(holds(candidate.Collinear, "B", "C", "D"))
	a.Add(trivial(candidate.Collinear, "E", "F", "G"))
	a.Add(holds(candidate.Concyclic, "A", "E", "F", "H"))
	a.Add(holds(candidate.Concyclic, "E", "F", "H", "I"))

	assert.True(t, a.Collinear("A", "B", "D"))
	assert.True(t, a.Collinear("D", "A", "C"))
	assert.False(t, a.Collinear("A", "B", "E"))
	assert.Equal(t, []string{"A", "B", "C", "D"}, a.LineOf("D", "A"))
	assert.True(t, a.Concyclic("A", "I", "H", "E"))
	assert.False(t, a.Concyclic("A", "B", "E", "F"))

	settled, _ := a.Statements("A", alpha{})
	assert.Equal(t, []string{"Collinear points: ABCD", "Concyclic points: AEFHI"}, texts(settled))

	// E, F, G only hold by construction
	settled, _ = a.Statements("G", alpha{})
	assert.Empty(t, settled)

	// an identity can join two lines
	a.Add(holds(candidate.Identical, "D", "G"))
	a.Add(holds(candidate.Collinear, "A", "D", "E"))
	settled, _ = a.Statements("A", alpha{})
	assert.Equal(t, "Identical points: D=G", settled[0].Text)
	assert.Equal(t, "Collinear points: ABCDEF", settled[1].Text)
}

// TestDirections renders parallel classes over merged lines and
// perpendicular pairs of directions.
func TestDirections(t *testing.T) {
	seq := seqOf{"A": 1, "B": 2, "C": 3, "D": 4, "E": 5, "F": 6, "G": 7, "H": 8}
	a := aggregate.New()
	a.Add(holds(candidate.Identical, "G", "H"))
	a.Add(trivial(candidate.Collinear, "C", "F", "H"))
	a.Add(holds(candidate.Parallel, "A", "B", "D", "E"))
	a.Add(holds(candidate.Parallel, "D", "E", "C", "G"))

	assert.True(t, a.Parallel("A", "B", "F", "G"))
	assert.True(t, a.Parallel("C", "F", "C", "H"), "same line")
	assert.False(t, a.Parallel("C", "F", "G", "H"), "coinciding points span no line")
	assert.False(t, a.Parallel("A", "D", "B", "E"))
	assert.False(t, a.Paired("A", "B"))

	settled, _ := a.Statements("G", seq)
	assert.Contains(t, texts(settled), "AB ∥ CFG ∥ DE")
	settled, _ = a.Statements("A", seq)
	assert.Contains(t, texts(settled), "AB ∥ CFG ∥ DE")

	a.Add(holds(candidate.Perpendicular, "A", "D", "A", "B"))
	assert.True(t, a.Paired("D", "E"))
	assert.True(t, a.Paired("A", "D"))
	assert.False(t, a.Paired("A", "C"))
	settled, _ = a.Statements("A", seq)
	assert.Equal(t, []string{"Identical points: G=H", "AB ∥ CFG ∥ DE ⟂ AD"}, texts(settled))
}

// TestPerpendicularText orders both sides alphabetically.
func TestPerpendicularText(t *testing.T) {
	seq := seqOf{"A": 1, "B": 2, "D": 3, "C": 4}
	settled, _ := aggregate.Render("D", []prover.VerifiedRelation{
		holds(candidate.Perpendicular, "D", "C", "B", "D"),
	}, seq)
	assert.Equal(t, []string{"BD ⟂ DC"}, texts(settled))
}

// TestCongruences unifies segments and keeps classes through the focus.
func TestCongruences(t *testing.T) {
	a := aggregate.New()
	a.Add(holds(candidate.EqualLength, "D", "A", "B", "E"))
	a.Add(holds(candidate.EqualLength, "B", "E", "F", "C"))
	a.Add(holds(candidate.EqualLength, "A", "B", "A", "C"))

	assert.True(t, a.EqualLength("A", "D", "F", "C"))
	assert.True(t, a.EqualLength("A", "D", "D", "A"))
	assert.False(t, a.EqualLength("A", "D", "A", "B"))
	assert.False(t, a.EqualLength("X", "Y", "A", "B"))

	settled, _ := a.Statements("A", alpha{})
	assert.Equal(t, []string{"AD = BE = CF", "AB = AC"}, texts(settled))
	settled, _ = a.Statements("F", alpha{})
	assert.Equal(t, []string{"AD = BE = CF"}, texts(settled))
	settled, _ = a.Statements("G", alpha{})
	assert.Empty(t, settled)
}

// TestKindOrder lists point groups before directions and congruences.
func TestKindOrder(t *testing.T) {
	settled, _ := aggregate.Render("B", []prover.VerifiedRelation{
		holds(candidate.EqualLength, "B", "D", "C", "D"),
		holds(candidate.Parallel, "A", "B", "D", "E"),
		holds(candidate.Collinear, "B", "E", "F"),
		holds(candidate.Identical, "B", "G"),
	}, alpha{})
	assert.Equal(t, []string{"Identical points: B=G", "Collinear points: BEF", "AB ∥ DE", "BD = CD"}, texts(settled))
}

// TestProvisional splits statements relying on an unresolved branch.
func TestProvisional(t *testing.T) {
	vr := holds(candidate.Perpendicular, "B", "D", "D", "E")
	vr.Pending = []string{"E"}
	settled, provisional := aggregate.Render("D", []prover.VerifiedRelation{
		vr,
		holds(candidate.EqualLength, "A", "D", "A", "B"),
	}, alpha{})
	assert.Equal(t, []string{"AB = AD"}, texts(settled))
	require.Len(t, provisional, 1)
	assert.Equal(t, "BD ⟂ DE", provisional[0].Text)
	assert.Equal(t, []string{"E"}, provisional[0].Pending)
}

// TestStatementOrder keeps the order in which groups were found.
func TestStatementOrder(t *testing.T) {
	a := aggregate.New()
	a.Add(holds(candidate.Concyclic, "R", "X", "A", "B"))
	a.Add(holds(candidate.Concyclic, "P", "X", "B", "C"))
	a.Add(holds(candidate.Concyclic, "Q", "X", "A", "C"))
	seq := seqOf{"P": 1, "Q": 2, "R": 3, "X": 4, "A": 5, "B": 6, "C": 7}
	settled, _ := a.Statements("X", seq)
	assert.Equal(t, []string{"Concyclic points: RXAB, PXBC, QXAC"}, texts(settled))
}

// TestInvalidate drops facts over redefined points.
func TestInvalidate(t *testing.T) {
	g := construction.NewGraph()
	for _, d := range []construction.Definition{
		construction.Free("A", -4, 0),
		construction.Free("B", -1, 0),
		construction.Free("C", -2, 3),
		construction.Def("D", construction.CmdMidpoint, "B", "C"),
		construction.Def("E", construction.CmdMidpoint, "A", "C"),
	} {
		_, err := g.Add(d)
		require.NoError(t, err)
	}
	ctx := context.Background()
	cs, err := algebra.Build(ctx, g.Snapshot(), cas.DefaultLimits())
	require.NoError(t, err)

	p := prover.New()
	a := aggregate.New()
	for _, c := range []candidate.Candidate{
		{Kind: candidate.Parallel, Points: []string{"A", "B", "D", "E"}},
		{Kind: candidate.EqualLength, Points: []string{"A", "E", "C", "E"}},
	} {
		require.True(t, a.Add(p.Verify(ctx, c, cs)))
	}
	assert.Zero(t, a.Invalidate(cs))

	require.NoError(t, g.Move("C", 0, 5))
	cs, err = algebra.Refresh(ctx, cs, g.Snapshot(), cas.DefaultLimits())
	require.NoError(t, err)
	assert.Zero(t, a.Invalidate(cs))

	require.NoError(t, g.Redefine(construction.Def("D", construction.CmdMidpoint, "A", "B")))
	cs, err = algebra.Build(ctx, g.Snapshot(), cas.DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, 1, a.Invalidate(cs))
	assert.Equal(t, 1, a.Len())
	assert.False(t, a.Parallel("A", "B", "D", "E"))
	assert.True(t, a.EqualLength("A", "E", "E", "C"))

	// the dropped relation may be proved again
	assert.True(t, a.Add(holds(candidate.Parallel, "A", "B", "D", "E")))
}
