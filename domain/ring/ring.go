// Package ring provides the fixed-capacity FIFO used for the tracker's short
// histories.
package ring

// Buffer is a fixed-capacity FIFO that evicts the oldest value when full.
// The zero value has capacity 0 and drops everything; use New.
type Buffer[T any] struct {
	buf   []T
	start int
	n     int
}

// New returns a buffer holding at most capacity values (minimum 1).
func New[T any](capacity int) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer[T]{buf: make([]T, capacity)}
}

// Push appends v, evicting the oldest value when full.
func (b *Buffer[T]) Push(v T) {
	if len(b.buf) == 0 {
		return
	}
	if b.n < len(b.buf) {
		b.buf[(b.start+b.n)%len(b.buf)] = v
		b.n++
		return
	}
	b.buf[b.start] = v
	b.start = (b.start + 1) % len(b.buf)
}

// Len is the number of stored values.
func (b *Buffer[T]) Len() int { return b.n }

// Cap is the fixed capacity.
func (b *Buffer[T]) Cap() int { return len(b.buf) }

// Full reports whether the next Push evicts.
func (b *Buffer[T]) Full() bool { return b.n == len(b.buf) }

// Recent returns the i-th most recent value; Recent(0) is the newest.
func (b *Buffer[T]) Recent(i int) (T, bool) {
	var zero T
	if i < 0 || i >= b.n {
		return zero, false
	}
	return b.buf[(b.start+b.n-1-i)%len(b.buf)], true
}

// Values copies the stored values oldest first.
func (b *Buffer[T]) Values() []T {
	out := make([]T, b.n)
	for i := 0; i < b.n; i++ {
		out[i] = b.buf[(b.start+i)%len(b.buf)]
	}
	return out
}

// Reset drops all values.
func (b *Buffer[T]) Reset() {
	var zero T
	for i := range b.buf {
		b.buf[i] = zero
	}
	b.start, b.n = 0, 0
}
