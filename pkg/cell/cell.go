// Package cell provides a single-value container that is safe for concurrent use.
package cell

import "sync"

// Cell holds one value of type T behind a reader-writer lock.
//
// Only single-cell atomicity is guaranteed: operations on different cells may
// interleave in any order.
type Cell[T any] interface {
	Load() T
	Store(value T)
}

type rwCell[T any] struct {
	mu    sync.RWMutex
	value T
}

// New creates a Cell holding initial.
func New[T any](initial T) Cell[T] {
	return &rwCell[T]{value: initial}
}

// Load implements Cell.
func (c *rwCell[T]) Load() T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.value
}

// Store implements Cell.
func (c *rwCell[T]) Store(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = value
}
