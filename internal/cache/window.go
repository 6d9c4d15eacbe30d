// Package cache holds the in-memory bounded state backing the tick
// pipeline: a generic ring window, the per-pair market cache and the
// per-pair indicator store. Everything here is memory-only; swapping in
// a remote backend later only requires another implementation of the
// domain interfaces.
package cache

// Window is a fixed-capacity FIFO ring buffer. Appending past capacity
// silently evicts the oldest element; eviction is the intended
// steady-state behavior, not an error.
type Window[T any] struct {
	items []T
	head  int // next write position; oldest element when full
	count int
}

// NewWindow creates a window with the given capacity. Capacity must be
// positive.
func NewWindow[T any](capacity int) *Window[T] {
	if capacity <= 0 {
		panic("cache: window capacity must be positive")
	}
	return &Window[T]{items: make([]T, capacity)}
}

// Append adds v, evicting the oldest element if the window is full.
func (w *Window[T]) Append(v T) {
	w.items[w.head] = v
	w.head = (w.head + 1) % len(w.items)
	if w.count < len(w.items) {
		w.count++
	}
}

// Len returns the number of stored elements.
func (w *Window[T]) Len() int {
	return w.count
}

// Cap returns the configured capacity.
func (w *Window[T]) Cap() int {
	return len(w.items)
}

// Items returns a copy of the stored elements in insertion order,
// oldest first.
func (w *Window[T]) Items() []T {
	out := make([]T, 0, w.count)
	start := 0
	if w.count == len(w.items) {
		start = w.head
	}
	for i := 0; i < w.count; i++ {
		out = append(out, w.items[(start+i)%len(w.items)])
	}
	return out
}

// Last returns the most recent n elements in chronological order.
// n <= 0 or n >= Len returns everything.
func (w *Window[T]) Last(n int) []T {
	all := w.Items()
	if n <= 0 || n >= len(all) {
		return all
	}
	return all[len(all)-n:]
}
