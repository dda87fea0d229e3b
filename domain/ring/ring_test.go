package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferEvictsOldest(t *testing.T) {
	b := New[int](3)
	for i := 1; i <= 5; i++ {
		b.Push(i)
	}
	assert.Equal(t, 3, b.Len())
	assert.True(t, b.Full())
	assert.Equal(t, []int{3, 4, 5}, b.Values())

	v, ok := b.Recent(0)
	assert.True(t, ok)
	assert.Equal(t, 5, v)
	v, ok = b.Recent(2)
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	_, ok = b.Recent(3)
	assert.False(t, ok)

	b.Reset()
	assert.Zero(t, b.Len())
	assert.Empty(t, b.Values())
}

func TestNewClampsCapacity(t *testing.T) {
	b := New[string](0)
	b.Push("a")
	b.Push("b")
	assert.Equal(t, 1, b.Cap())
	assert.Equal(t, []string{"b"}, b.Values())
}
