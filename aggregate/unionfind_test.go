package aggregate

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnionFind(t *testing.T) {
	s := newUnionFind()
	assert.True(t, s.union("a", "b"))
	assert.True(t, s.union("c", "d"))
	assert.False(t, s.union("b", "a"))
	assert.True(t, s.union("b", "d"))
	assert.True(t, s.same("a", "c"))
	assert.False(t, s.same("a", "e"))

	cls := s.classes()
	assert.Len(t, cls, 2, "e was added by same")
	for _, ms := range cls {
		if len(ms) == 1 {
			assert.Equal(t, []string{"e"}, ms)
			continue
		}
		sort.Strings(ms)
		assert.Equal(t, []string{"a", "b", "c", "d"}, ms)
	}
}
