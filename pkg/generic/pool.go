package generic

import "sync"

// Pool is a typed wrapper over sync.Pool. Values handed back through Put are
// passed to reset first, so Get never observes stale contents.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
}

func NewPool[T any](generate func() T, reset func(T)) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return generate()
			},
		},
		reset: reset,
	}
}

// NewSetPool returns a pool of scratch sets that are emptied on Put.
func NewSetPool[T comparable](sizeHint int) *Pool[Set[T]] {
	return NewPool(func() Set[T] {
		return make(Set[T], sizeHint)
	}, func(s Set[T]) {
		clear(s)
	})
}

func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

func (p *Pool[T]) Put(value T) {
	if p.reset != nil {
		p.reset(value)
	}
	p.pool.Put(value)
}
