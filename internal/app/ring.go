package app

// Ring is a fixed-capacity buffer that evicts its oldest element when a push
// would exceed capacity. Index 0 is always the oldest retained element.
type Ring[T any] struct {
	buf   []T
	start int
	size  int
}

// NewRing creates an empty ring with the given capacity.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		panic("ring capacity must be positive")
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

// Push appends v, evicting the oldest element if the ring is full.
func (r *Ring[T]) Push(v T) {
	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = v
		r.size++
		return
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
}

// Len returns the number of retained elements.
func (r *Ring[T]) Len() int { return r.size }

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int { return len(r.buf) }

// At returns the element at index i, where 0 is the oldest.
func (r *Ring[T]) At(i int) T {
	if i < 0 || i >= r.size {
		panic("ring index out of range")
	}
	return r.buf[(r.start+i)%len(r.buf)]
}

// Items returns the retained elements in arrival order.
func (r *Ring[T]) Items() []T {
	out := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	return out
}

// Clear removes all elements without changing capacity.
func (r *Ring[T]) Clear() {
	r.start = 0
	r.size = 0
}
