package construction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTopoOrder_Chain verifies inputs precede dependents.
func TestTopoOrder_Chain(t *testing.T) {
	in := map[string][]string{"C": {"B"}, "B": {"A"}}
	order, err := topoOrder([]string{"C", "A"}, func(id string) []string { return in[id] })
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, order)
}

// TestTopoOrder_Cycle verifies a back edge is reported.
func TestTopoOrder_Cycle(t *testing.T) {
	in := map[string][]string{"A": {"B"}, "B": {"A"}}
	_, err := topoOrder([]string{"A"}, func(id string) []string { return in[id] })
	assert.ErrorIs(t, err, ErrCyclicDefinition)
}

// TestNextLabel covers wrap-around to suffixed labels.
func TestNextLabel(t *testing.T) {
	taken := map[string]bool{}
	for c := 'A'; c <= 'Z'; c++ {
		taken[string(c)] = true
	}
	assert.Equal(t, "A1", nextLabel('A', func(l string) bool { return taken[l] }))
	assert.Equal(t, "a", nextLabel('a', func(l string) bool { return taken[l] }))
}
