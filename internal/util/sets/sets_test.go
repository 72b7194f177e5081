package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := New("b", "a")
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("c"))

	assert.True(t, s.Insert("c"))
	assert.False(t, s.Insert("c"))

	s.Delete("b")
	assert.Equal(t, []string{"a", "c"}, Sorted(s))
}

func TestSortedEmpty(t *testing.T) {
	assert.Nil(t, Sorted(New[int]()))
	var nilSet Set[string]
	assert.False(t, nilSet.Has("x"))
}
