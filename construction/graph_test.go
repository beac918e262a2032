package construction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/geodiscover/construction"
)

// midline builds A, B, C free with D = Midpoint(B, C), E = Midpoint(A, C).
func midline(t *testing.T, opts ...construction.GraphOption) *construction.Graph {
	t.Helper()
	g := construction.NewGraph(opts...)
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

	return g
}

// TestAdd_AutoLabels verifies capital labels for points and lowercase for the rest.
func TestAdd_AutoLabels(t *testing.T) {
	g := construction.NewGraph()
	a, err := g.Add(construction.Free("", 0, 0))
	require.NoError(t, err)
	b, err := g.Add(construction.Free("", 1, 0))
	require.NoError(t, err)
	l, err := g.Add(construction.Def("", construction.CmdLine, a, b))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "a"}, []string{a, b, l})

	poly, err := g.Add(construction.Def("", construction.CmdPolygon, "A", "B", 4))
	require.NoError(t, err)
	assert.Equal(t, "b", poly)
	for _, v := range []string{"C", "D"} {
		o, ok := g.Object(v)
		require.True(t, ok, v)
		assert.Equal(t, construction.KindPoint, o.Kind)
		assert.Equal(t, construction.CmdVertex, o.Def.Command)
	}
}

// TestAdd_Errors covers rejected definitions; the graph must stay unchanged.
func TestAdd_Errors(t *testing.T) {
	g := midline(t)
	v := g.Version()

	cases := []struct {
		name string
		def  construction.Definition
		want error
	}{
		{"unknown ref", construction.Def("F", construction.CmdMidpoint, "B", "X"), construction.ErrUndefinedReference},
		{"same point", construction.Def("F", construction.CmdMidpoint, "B", "B"), construction.ErrBadDefinition},
		{"wrong kinds", construction.Def("F", construction.CmdCircle, "B", 2), construction.ErrBadDefinition},
		{"unknown command", construction.Def("F", "Spline", "A", "B"), construction.ErrBadDefinition},
		{"small polygon", construction.Def("p", construction.CmdPolygon, "A", "B", 2), construction.ErrBadDefinition},
		{"vertex", construction.Def("F", construction.CmdVertex, "A", 1), construction.ErrBadDefinition},
		{"bad nested", construction.Def("F", construction.CmdIntersect,
			construction.Def("", construction.CmdLine, "A", "Z"),
			construction.Def("", construction.CmdLine, "B", "C")), construction.ErrUndefinedReference},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.Add(tc.def)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Equal(t, v, g.Version())
	assert.Equal(t, 5, g.Len())
}

// TestIntersect_Index checks branch indices for line-line and circle-line intersections.
func TestIntersect_Index(t *testing.T) {
	g := midline(t)
	_, err := g.Add(construction.Def("l", construction.CmdLine, "A", "B"))
	require.NoError(t, err)
	_, err = g.Add(construction.Def("m", construction.CmdLine, "C", "D"))
	require.NoError(t, err)
	_, err = g.Add(construction.Def("c", construction.CmdCircle, "A", "C"))
	require.NoError(t, err)

	_, err = g.Add(construction.Def("P", construction.CmdIntersect, "l", "m", 2))
	assert.ErrorIs(t, err, construction.ErrBadDefinition)

	_, err = g.Add(construction.Def("P", construction.CmdIntersect, "l", "m"))
	require.NoError(t, err)
	p, _ := g.Object("P")
	assert.False(t, p.Multivalued())

	_, err = g.Add(construction.Def("Q", construction.CmdIntersect, "c", "l"))
	require.NoError(t, err)
	q, _ := g.Object("Q")
	assert.True(t, q.Multivalued())
	assert.Equal(t, 1, q.Index)
	assert.False(t, q.IndexGiven)

	v := g.Version()
	changed, err := g.ResolveBranch("Q", 1)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, v, g.Version())

	changed, err = g.ResolveBranch("Q", 2)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, v+1, g.Version())

	_, err = g.ResolveBranch("P", 2)
	assert.ErrorIs(t, err, construction.ErrBadDefinition)
}

// TestRedefine verifies that ids and order survive and cycles are refused.
func TestRedefine(t *testing.T) {
	g := midline(t)
	before, _ := g.Object("D")

	_, err := g.Add(construction.Def("D", construction.CmdMidpoint, "A", "B"))
	require.NoError(t, err)
	after, _ := g.Object("D")
	assert.Equal(t, before.Seq, after.Seq)
	assert.Equal(t, "D = Midpoint(A, B)", after.Def.String())

	deps, err := g.Dependents("C")
	require.NoError(t, err)
	assert.Equal(t, []string{"E"}, deps)

	st, err := g.Stamp("D")
	require.NoError(t, err)
	assert.Equal(t, g.Version(), st)

	err = g.Redefine(construction.Def("A", construction.CmdMidpoint, "D", "C"))
	assert.ErrorIs(t, err, construction.ErrCyclicDefinition)

	err = g.Redefine(construction.Def("D", construction.CmdCircle, "A", "B"))
	assert.ErrorIs(t, err, construction.ErrBadDefinition)
}

// TestRemove covers cascading, the non-cascading refusal and aux sweeping.
func TestRemove(t *testing.T) {
	g := midline(t)
	removed, err := g.Remove("C")
	require.NoError(t, err)
	assert.Equal(t, "C", removed[len(removed)-1])
	assert.ElementsMatch(t, []string{"C", "D", "E"}, removed)
	assert.Equal(t, 2, g.Len())

	strict := midline(t, construction.WithCascade(false))
	_, err = strict.Remove("C")
	assert.ErrorIs(t, err, construction.ErrInUse)
	_, err = strict.Remove("X")
	assert.ErrorIs(t, err, construction.ErrUnknownObject)

	g = midline(t)
	_, err = g.Add(construction.Def("G", construction.CmdIntersect,
		construction.Def("", construction.CmdLine, "A", "D"),
		construction.Def("", construction.CmdLine, "B", "E")))
	require.NoError(t, err)
	assert.Equal(t, 8, g.Len())
	aux, ok := g.Object("aux1")
	require.True(t, ok)
	assert.True(t, aux.Aux)
	assert.True(t, aux.Hidden)

	removed, err = g.Remove("G")
	require.NoError(t, err)
	assert.Equal(t, "G", removed[0])
	assert.ElementsMatch(t, []string{"G", "aux1", "aux2"}, removed)
	assert.Equal(t, 5, g.Len())
}

// TestMove checks that drags do not count as structural edits.
func TestMove(t *testing.T) {
	g := midline(t)
	v := g.Version()
	require.NoError(t, g.Move("A", 2, 2))
	assert.ErrorIs(t, g.Move("D", 0, 0), construction.ErrNotMovable)
	assert.ErrorIs(t, g.SetParameter("A", 0.5), construction.ErrNotMovable)
	assert.Equal(t, v, g.Version())
	assert.Equal(t, uint64(1), g.Moves())

	a, _ := g.Object("A")
	assert.Equal(t, 2.0, a.X)

	_, err := g.Add(construction.Def("l", construction.CmdLine, "A", "B"))
	require.NoError(t, err)
	_, err = g.Add(construction.Def("P", construction.CmdPoint, "l"))
	require.NoError(t, err)
	p, _ := g.Object("P")
	assert.True(t, p.OnPath())
	assert.Equal(t, 0.3, p.T)
	require.NoError(t, g.SetParameter("P", 0.7))
}

// TestFreeParametersOf lists the free inputs of a derived point.
func TestFreeParametersOf(t *testing.T) {
	g := midline(t)
	free, err := g.FreeParametersOf("E")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, free)

	deps, err := g.DependenciesOf("E")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, deps)
}
