package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/geodiscover/scenario"
)

// scriptFile writes the named scenario to a temporary YAML file.
func scriptFile(t *testing.T, dir, name string) string {
	t.Helper()
	sc, err := scenario.Load(name)
	require.NoError(t, err)
	data, err := sc.Marshal()
	require.NoError(t, err)
	path := filepath.Join(dir, name+".yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	return path
}

func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.ExecuteContext(ctx)

	return out.String(), err
}

func TestDiscoverCmd(t *testing.T) {
	path := scriptFile(t, t.TempDir(), "midline")
	out, err := execute(t, context.Background(), "discover", path)
	require.NoError(t, err)
	assert.Equal(t, "AB ∥ DE\nBD = CD\n", out)
}

func TestDiscoverCmd_JSON(t *testing.T) {
	path := scriptFile(t, t.TempDir(), "midline")
	out, err := execute(t, context.Background(), "discover", path, "--json")
	require.NoError(t, err)

	var rep struct {
		Focus      string `json:"focus"`
		Statements []struct {
			Kind string `json:"kind"`
			Text string `json:"text"`
		} `json:"statements"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "B", rep.Focus)
	require.Len(t, rep.Statements, 2)
	assert.Equal(t, "parallel", rep.Statements[0].Kind)
	assert.Equal(t, "BD = CD", rep.Statements[1].Text)
}

func TestDiscoverCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, context.Background(), "discover", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	path := scriptFile(t, dir, "midline")
	_, err = execute(t, context.Background(), "discover", path, "--focus", "Q")
	assert.Error(t, err)

	_, err = execute(t, context.Background(), "discover")
	assert.Error(t, err)
}

func TestDiscoverCmd_Store(t *testing.T) {
	dir := t.TempDir()
	path := scriptFile(t, dir, "midline")
	db := filepath.Join(dir, "cache", "verdicts.db")
	for range 2 {
		out, err := execute(t, context.Background(), "--store", db, "discover", path)
		require.NoError(t, err)
		assert.Equal(t, "AB ∥ DE\nBD = CD\n", out)
	}
	assert.FileExists(t, db)
}

func TestDiscoverCmd_Config(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "geodiscover.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("prover:\n  tolerance: -1\n"), 0o644))
	_, err := execute(t, context.Background(), "--config", cfg, "discover", scriptFile(t, dir, "midline"))
	assert.Error(t, err)
}

func TestScenarioCmd(t *testing.T) {
	out, err := execute(t, context.Background(), "scenario", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "midline")
	assert.Contains(t, out, "AB ∥ DE")

	out, err = execute(t, context.Background(), "scenario", "run", "square", "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "AB = AD = BC = CD")

	_, err = execute(t, context.Background(), "scenario", "run", "nope")
	assert.ErrorIs(t, err, scenario.ErrUnknownScenario)
}

func TestConstraintsCmd(t *testing.T) {
	path := scriptFile(t, t.TempDir(), "thales")
	out, err := execute(t, context.Background(), "constraints", path)
	require.NoError(t, err)
	assert.Contains(t, out, "frame: [A B]")
	assert.Contains(t, out, "hypotheses:")
	assert.Contains(t, out, "solved:")
	assert.Contains(t, out, "C: branch 2 of 2 (resolved)")
}

func TestBatchCmd(t *testing.T) {
	dir := t.TempDir()
	a := scriptFile(t, dir, "midline")
	b := scriptFile(t, dir, "triangle")
	out, err := execute(t, context.Background(), "batch", a, b, "--jobs", "2")
	require.NoError(t, err)
	assert.Equal(t, "# "+a+"\nAB ∥ DE\nBD = CD\n# "+b+"\nAB = AC = BC\n", out)

	_, err = execute(t, context.Background(), "batch", a, "--jobs", "0")
	assert.ErrorIs(t, err, errJobs)

	_, err = execute(t, context.Background(), "batch", a, filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

// syncBuffer is written by the watch loop and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchCmd(t *testing.T) {
	dir := t.TempDir()
	path := scriptFile(t, dir, "midline")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetArgs([]string{"--log-level", "error", "watch", path, "--debounce", "20ms"})
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool { return strings.Contains(out.String(), "BD = CD") }, 10*time.Second, 10*time.Millisecond)

	sc, err := scenario.Load("triangle")
	require.NoError(t, err)
	sc.Focus = "B"
	data, err := sc.Marshal()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	require.Eventually(t, func() bool { return strings.Contains(out.String(), "AB = AC = BC") }, 10*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
