package discover_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/geodiscover/construction"
	"github.com/katalvlaran/geodiscover/discover"
	"github.com/katalvlaran/geodiscover/logging"
	"github.com/katalvlaran/geodiscover/report"
	"github.com/katalvlaran/geodiscover/scenario"
)

// heavy scenarios need a second-level tower or many points.
var heavy = map[string]bool{
	"napoleon": true, "incircle": true, "euler": true, "pappus": true,
	"ninepoint": true, "imo2010": true,
}

func engineFor(t *testing.T, name string, opts ...discover.Option) (*discover.Engine, *construction.Script) {
	t.Helper()
	g, sc, err := scenario.Build(name)
	require.NoError(t, err)

	return discover.New(g, opts...), sc
}

func TestDiscover_Scenarios(t *testing.T) {
	for _, name := range scenario.Names() {
		t.Run(name, func(t *testing.T) {
			if heavy[name] && testing.Short() {
				t.Skip("heavy scenario")
			}
			e, sc := engineFor(t, name)
			rep, err := e.Discover(context.Background(), sc.Focus)
			require.NoError(t, err)
			text := rep.String()
			assert.Empty(t, scenario.Missing(sc, text), text)
			if !heavy[name] {
				assert.Empty(t, rep.Inconclusive)
			}
			assert.Empty(t, rep.Degenerate)
			assert.Positive(t, rep.Candidates)
			assert.NotEmpty(t, rep.RunID)
		})
	}
}

func TestDiscover_Midline(t *testing.T) {
	e, _ := engineFor(t, "midline")
	rep, err := e.Discover(context.Background(), "B")
	require.NoError(t, err)
	assert.Equal(t, "AB ∥ DE\nBD = CD\n", rep.String())
	assert.Empty(t, rep.Provisional)
	assert.Equal(t, e.Graph().Version(), rep.Version)
	assert.Equal(t, e.Graph().ID(), rep.GraphID)
}

func TestDiscover_Idempotent(t *testing.T) {
	e, sc := engineFor(t, "hexagon")
	first, err := e.Discover(context.Background(), sc.Focus)
	require.NoError(t, err)
	second, err := e.Discover(context.Background(), sc.Focus)
	require.NoError(t, err)
	if diff := cmp.Diff(first.Texts(), second.Texts()); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
	assert.NotEqual(t, first.RunID, second.RunID)
}

// TestDiscover_Drag checks that dragging a free point keeps the theorems.
func TestDiscover_Drag(t *testing.T) {
	e, _ := engineFor(t, "midline")
	ctx := context.Background()
	before, err := e.Discover(ctx, "B")
	require.NoError(t, err)

	require.NoError(t, e.Apply(ctx, func(g *construction.Graph) error { return g.Move("C", 1, 5) }))
	after, err := e.Discover(ctx, "B")
	require.NoError(t, err)
	if diff := cmp.Diff(before.Texts(), after.Texts()); diff != "" {
		t.Errorf("drag changed the report (-before +after):\n%s", diff)
	}
}

// TestDiscover_Perturbed rebuilds every light scenario with each free
// point and path parameter nudged and expects the same theorems.
func TestDiscover_Perturbed(t *testing.T) {
	for _, name := range scenario.Names() {
		if heavy[name] {
			continue
		}
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			e, sc := engineFor(t, name)
			want, err := e.Discover(ctx, sc.Focus)
			require.NoError(t, err)

			g, _, err := scenario.Build(name)
			require.NoError(t, err)
			for i, o := range g.Objects() {
				dx, dy := 0.05*float64(i%3+1), -0.03*float64(i%2+1)
				switch {
				case o.IsFree():
					require.NoError(t, g.Move(o.ID, o.X+dx, o.Y+dy))
				case o.OnPath():
					require.NoError(t, g.SetParameter(o.ID, o.T+dx))
				}
			}
			got, err := discover.New(g).Discover(ctx, sc.Focus)
			require.NoError(t, err)
			if diff := cmp.Diff(want.Texts(), got.Texts()); diff != "" {
				t.Errorf("perturbed figure differs (-original +perturbed):\n%s", diff)
			}
			assert.Empty(t, got.Inconclusive)
		})
	}
}

func TestDiscover_FocusErrors(t *testing.T) {
	e, _ := engineFor(t, "thales")
	_, err := e.Discover(context.Background(), "nope")
	assert.ErrorIs(t, err, construction.ErrUnknownObject)

	_, err = e.Discover(context.Background(), "c")
	assert.ErrorIs(t, err, discover.ErrNotPoint)
}

func TestDiscover_Canceled(t *testing.T) {
	e, _ := engineFor(t, "midline")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Discover(ctx, "B")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_Empty(t *testing.T) {
	g := construction.NewGraph()
	for _, d := range []construction.Definition{
		construction.Free("A", 0, 0),
		construction.Free("B", 3, 1),
		construction.Free("C", -1, 2),
	} {
		_, err := g.Add(d)
		require.NoError(t, err)
	}
	rep, err := discover.New(g).Discover(context.Background(), "A")
	require.NoError(t, err)
	assert.True(t, rep.Empty())
	assert.Equal(t, report.Empty+"\n", rep.String())
}

// TestDiscover_Edit drops relations over a redefined point.
func TestDiscover_Edit(t *testing.T) {
	e, _ := engineFor(t, "midline")
	ctx := context.Background()
	_, err := e.Discover(ctx, "B")
	require.NoError(t, err)

	require.NoError(t, e.Apply(ctx, func(g *construction.Graph) error {
		return g.Redefine(construction.Free("D", 5, 5))
	}))
	rep, err := e.Discover(ctx, "B")
	require.NoError(t, err)
	assert.NotContains(t, rep.String(), "AB ∥ DE")
	assert.NotContains(t, rep.String(), "BD = CD")
}

// TestExtend resolves the branch behind a provisional identity.
func TestExtend(t *testing.T) {
	g := construction.NewGraph()
	for _, d := range []construction.Definition{
		construction.Free("A", 0, -0.5),
		construction.Free("B", 2.5, -0.5),
		construction.Def("c", construction.CmdCircle, "A", "B"),
		construction.Def("d", construction.CmdLine, "A", "B"),
		construction.Def("D", construction.CmdPoint, "c", 0.6),
		construction.Def("C", construction.CmdIntersect, "c", "d"),
	} {
		_, err := g.Add(d)
		require.NoError(t, err)
	}
	e := discover.New(g)
	ctx := context.Background()

	_, err := e.Extend(ctx, nil, discover.BranchChoice{Object: "C", Index: 2})
	assert.ErrorIs(t, err, discover.ErrNoReport)

	rep, err := e.Discover(ctx, "D")
	require.NoError(t, err)
	require.NotEmpty(t, rep.Provisional)
	assert.Contains(t, rep.String(), "Identical points: B=C")
	require.Len(t, rep.Pending, 1)
	assert.Equal(t, "C", rep.Pending[0].Object)
	assert.False(t, rep.Pending[0].Resolved)

	ext, err := e.Extend(ctx, rep, discover.BranchChoice{Object: "C", Index: 2})
	require.NoError(t, err)
	assert.Empty(t, ext.Provisional)
	assert.Empty(t, ext.Pending)
	assert.Contains(t, ext.Texts(), "BD ⟂ DC")
	assert.NotContains(t, ext.String(), "B=C")

	_, err = e.Extend(ctx, ext, discover.BranchChoice{Object: "D", Index: 1})
	assert.ErrorIs(t, err, construction.ErrBadDefinition)
}

// TestDiscover_Incircle extends the incircle figure with a third tangent
// point and finds the new circles.
func TestDiscover_Incircle(t *testing.T) {
	if testing.Short() {
		t.Skip("heavy scenario")
	}
	e, _ := engineFor(t, "incircle")
	ctx := context.Background()
	rep, err := e.Discover(ctx, "X")
	require.NoError(t, err)
	assert.Contains(t, rep.Texts(), "Concyclic points: RXAB")

	require.NoError(t, e.Apply(ctx, func(g *construction.Graph) error {
		if _, err := g.Add(construction.Def("rx", construction.CmdPerpendicularLine, "X", "r")); err != nil {
			return err
		}
		_, err := g.Add(construction.Def("C", construction.CmdIntersect, "rx", "r"))
		return err
	}))
	rep, err = e.Discover(ctx, "X")
	require.NoError(t, err)
	assert.Contains(t, rep.Texts(), "Concyclic points: RXAB, PXBC, QXAC")
	assert.Contains(t, rep.Texts(), "AX = BX = CX")
}

func TestDiscover_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e, _ := engineFor(t, "midline", discover.WithLogger(logging.NewLoggerFromCore(core)))
	rep, err := e.Discover(context.Background(), "B")
	require.NoError(t, err)

	done := logs.FilterMessage("discovery finished").All()
	require.Len(t, done, 1)
	fields := done[0].ContextMap()
	assert.Equal(t, "B", fields["focus"])
	assert.Equal(t, rep.RunID, fields["run"])
	assert.EqualValues(t, rep.Candidates, fields["candidates"])
	assert.Equal(t, rep.Candidates, logs.FilterMessage("candidate verified").Len())
}

type runs struct {
	mu       sync.Mutex
	outcomes []string
	restarts int
}

func (r *runs) Run(outcome string, _ time.Duration, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *runs) Restart() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restarts++
}

// editor adds a free point to g each time a candidate is verified, up to n
// times.
func editor(g *construction.Graph, n int) zapcore.Core {
	core, _ := observer.New(zapcore.DebugLevel)
	added := 0

	return zapcore.RegisterHooks(core, func(ent zapcore.Entry) error {
		if ent.Message != "candidate verified" || added >= n {
			return nil
		}
		added++
		_, err := g.Add(construction.Free(fmt.Sprintf("Z%d", added), 9, float64(added)))

		return err
	})
}

func TestDiscover_Restart(t *testing.T) {
	g, _, err := scenario.Build("midline")
	require.NoError(t, err)
	rec := &runs{}
	e := discover.New(g, discover.WithLogger(logging.NewLoggerFromCore(editor(g, 1))), discover.WithMetrics(rec))

	rep, err := e.Discover(context.Background(), "B")
	require.NoError(t, err)
	assert.Equal(t, g.Version(), rep.Version)
	assert.Equal(t, 1, rec.restarts)
	assert.Equal(t, []string{"ok"}, rec.outcomes)
	assert.Contains(t, rep.Texts(), "AB ∥ DE")
}

func TestDiscover_ConstructionChanged(t *testing.T) {
	g, _, err := scenario.Build("midline")
	require.NoError(t, err)
	rec := &runs{}
	e := discover.New(g,
		discover.WithLogger(logging.NewLoggerFromCore(editor(g, 100))),
		discover.WithMaxRestarts(1),
		discover.WithMetrics(rec))

	_, err = e.Discover(context.Background(), "B")
	assert.ErrorIs(t, err, discover.ErrConstructionChanged)
	assert.Equal(t, 1, rec.restarts)
	assert.Equal(t, []string{"changed"}, rec.outcomes)
}

func TestOptionsPanic(t *testing.T) {
	assert.Panics(t, func() { discover.WithTolerance(0) })
	assert.Panics(t, func() { discover.WithMaxRestarts(-1) })
}
