// Package cellpool provides a strongly typed, statistics-tracking
// wrapper around sync.Pool, used by nibtrie to recycle interior trie
// nodes and value cells instead of handing every insertion to the
// garbage collector.
//
// The wrapper itself is grounded on flier-goutil's internal/xsync.Pool,
// generalized from a single New/Reset pair to also track the allocation
// counters github.com/gaissmai/bart's pool.go exposes for diagnostics.
package cellpool

import (
	"sync"
	"sync/atomic"
)

// Pool recycles *T values. New is called to construct a value the pool
// has never seen before; Reset, if non-nil, is called on a value just
// before it re-enters the pool so a later Get doesn't observe stale
// contents from the previous tenant.
type Pool[T any] struct {
	New   func() *T
	Reset func(*T)

	pool sync.Pool

	totalAllocated atomic.Int64
	currentLive    atomic.Int64
}

// Allocate returns a *T, either recycled or freshly constructed. The error
// return always comes back nil for this allocator; it exists so Pool
// satisfies nibtrie's Allocator[T] interface alongside allocators that
// can genuinely fail (used to test nibtrie's allocation-failure and
// rollback paths).
func (p *Pool[T]) Allocate() (*T, error) {
	p.currentLive.Add(1)

	if v, _ := p.pool.Get().(*T); v != nil {
		return v, nil
	}

	p.totalAllocated.Add(1)
	if p.New != nil {
		return p.New(), nil
	}
	return new(T), nil
}

// Release returns v to the pool for reuse. Passing nil is a no-op.
func (p *Pool[T]) Release(v *T) {
	if v == nil {
		return
	}
	if p.Reset != nil {
		p.Reset(v)
	}
	p.currentLive.Add(-1)
	p.pool.Put(v)
}

// Stats reports the number of values currently checked out and the
// cumulative number of values ever constructed (as opposed to recycled).
func (p *Pool[T]) Stats() (live, total int64) {
	return p.currentLive.Load(), p.totalAllocated.Load()
}
