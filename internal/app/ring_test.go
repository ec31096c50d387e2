package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingPushAndOrder(t *testing.T) {
	r := NewRing[int](3)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 3, r.Cap())

	r.Push(1)
	r.Push(2)
	assert.Equal(t, []int{1, 2}, r.Items())

	r.Push(3)
	r.Push(4) // evicts 1
	assert.Equal(t, []int{2, 3, 4}, r.Items())
	assert.Equal(t, 2, r.At(0))
	assert.Equal(t, 4, r.At(2))
}

func TestRingStaysBounded(t *testing.T) {
	r := NewRing[int](100)
	for i := 0; i < 10_000; i++ {
		r.Push(i)
	}
	require.Equal(t, 100, r.Len())
	// Oldest retained element is the first of the last 100 pushes.
	assert.Equal(t, 9_900, r.At(0))
	assert.Equal(t, 9_999, r.At(99))
}

func TestRingClear(t *testing.T) {
	r := NewRing[string](2)
	r.Push("a")
	r.Push("b")
	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Items())

	r.Push("c")
	assert.Equal(t, []string{"c"}, r.Items())
}

func TestRingPanics(t *testing.T) {
	assert.Panics(t, func() { NewRing[int](0) })

	r := NewRing[int](1)
	r.Push(1)
	assert.Panics(t, func() { r.At(1) })
	assert.Panics(t, func() { r.At(-1) })
}
