package discover

import (
	"context"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/geodiscover/construction"
	"github.com/katalvlaran/geodiscover/logging"
	"github.com/katalvlaran/geodiscover/scenario"
)

// TestApply_DuringRun edits the graph through Apply while a run is
// verifying candidates; the run restarts against the edited graph.
func TestApply_DuringRun(t *testing.T) {
	g, _, err := scenario.Build("midline")
	require.NoError(t, err)

	var (
		e       *Engine
		wg      sync.WaitGroup
		once    sync.Once
		applied error
	)
	core, logs := observer.New(zapcore.DebugLevel)
	hooked := zapcore.RegisterHooks(core, func(ent zapcore.Entry) error {
		if ent.Message != "candidate verified" {
			return nil
		}
		once.Do(func() {
			wg.Add(1)
			go func() {
				defer wg.Done()
				applied = e.Apply(context.Background(), func(g *construction.Graph) error {
					_, err := g.Add(construction.Free("Z", 9, 1))
					return err
				})
			}()
			for e.applying.Load() == 0 {
				runtime.Gosched()
			}
		})

		return nil
	})
	e = New(g, WithLogger(logging.NewLoggerFromCore(hooked)))

	rep, err := e.Discover(context.Background(), "B")
	wg.Wait()
	require.NoError(t, err)
	require.NoError(t, applied)
	assert.Equal(t, g.Version(), rep.Version)
	assert.Equal(t, 1, logs.FilterMessage("discovery restarted").Len())
	assert.Contains(t, rep.Texts(), "AB ∥ DE")

	_, ok := g.Object("Z")
	assert.True(t, ok)
}

// TestApply_Canceled leaves the graph alone when ctx is done.
func TestApply_Canceled(t *testing.T) {
	g, _, err := scenario.Build("midline")
	require.NoError(t, err)
	e := New(g)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err = e.Apply(ctx, func(*construction.Graph) error { called = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
