// Package bufpool provides a typed free list for reusable objects. The
// loader recycles its gzip buffers through it between batches.
package bufpool

import "sync"

// Resetter is implemented by objects that can be cleared for reuse.
type Resetter interface {
	Reset()
}

// Pool is a typed wrapper around sync.Pool for objects that implement
// Resetter. Objects are reset on Put, so Get always returns a clean value.
type Pool[T Resetter] struct {
	pool sync.Pool
}

// New creates a Pool whose values come from construct when the pool is empty.
func New[T Resetter](construct func() T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return construct()
			},
		},
	}
}

// Get retrieves a clean object from the pool.
func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

// Put resets obj and places it back into the pool.
func (p *Pool[T]) Put(obj T) {
	obj.Reset()
	p.pool.Put(obj)
}
