// Package guard provides scoped exclusive access to a shared value.
package guard

import "sync"

// Guard owns a value shared between a writer (the frame producer) and readers
// (the render consumer). The value is only reachable inside Update or Read, and
// the lock is released on every exit path, panics included.
type Guard[T any] struct {
	mu sync.RWMutex
	v  T
}

// New wraps v.
func New[T any](v T) *Guard[T] {
	return &Guard[T]{v: v}
}

// Update runs fn with exclusive access. A reader never observes the value
// while fn is running.
func (g *Guard[T]) Update(fn func(*T)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(&g.v)
}

// Read runs fn with shared access. fn must not modify the value or retain
// references into it after returning.
func (g *Guard[T]) Read(fn func(*T)) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	fn(&g.v)
}
