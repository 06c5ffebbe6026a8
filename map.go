package nibtrie

import (
	"github.com/pkg/errors"

	"github.com/gaissmueller/nibtrie/internal/cellpool"
)

// Allocator produces and recycles *T values for a Map's internal storage.
// internal/cellpool.Pool is the default implementation; a different
// allocation strategy (a fixed arena, an allocator that can be made to
// fail for testing Insert's rollback path) can be plugged in via
// WithValueAllocator. That option takes an Allocator[cell[V]], and cell
// is unexported, so only code inside this package can implement one.
type Allocator[T any] interface {
	Allocate() (*T, error)
	Release(*T)
}

// Cloner lets a value type customize what Clone (and Union, when it
// copies values from its non-receiver argument) does to duplicate a
// stored value. Types that don't implement Cloner are copied by Go's
// ordinary value-assignment semantics, which is correct for any value
// type holding no shared, mutable backing storage.
type Cloner[V any] interface {
	Clone() V
}

// Map is an ordered associative container from keys of type K to values
// of type V, backed by a fan-out-16 digital trie over the nibbles of an
// order-transformed key. Get, At, Contains, Insert, Emplace, TryEmplace
// and Delete all run in O(W) time and O(1) allocations, where W =
// 2*sizeof(K) is fixed for a given K and independent of how many entries
// the Map holds.
//
// A *V returned by At, Get, Insert or Emplace stays valid, and keeps
// pointing at the same value, until the key it names is deleted or the
// Map is cleared; it is never invalidated by inserting or deleting any
// other key. The zero Map is not usable; construct one with NewMap.
type Map[K Ordinal, V any] struct {
	_ noCopy

	root any

	transform Transform[K]
	width     int
	nibbles   int

	nodePool Allocator[node[K, V]]
	cellPool Allocator[cell[V]]

	size int

	probe *opProbe
}

// Option configures a Map at construction time.
type Option[K Ordinal, V any] func(*Map[K, V])

// WithTransform overrides the order transform a Map uses to map keys to
// and from their nibble representation. The default, used when this
// option is omitted, is DefaultTransform[K]().
func WithTransform[K Ordinal, V any](t Transform[K]) Option[K, V] {
	return func(m *Map[K, V]) { m.transform = t }
}

// WithValueAllocator overrides the allocator a Map uses for value cells.
// The default pools recycled *cell[V] values via internal/cellpool.
func WithValueAllocator[K Ordinal, V any](a Allocator[cell[V]]) Option[K, V] {
	return func(m *Map[K, V]) { m.cellPool = a }
}

// withNodeAllocator overrides the allocator used for interior trie
// nodes. Unexported: swapping the node allocator is an internal testing
// knob (used to exercise Insert's rollback-on-allocation-failure path at
// every possible depth), not part of the supported external API.
func withNodeAllocator[K Ordinal, V any](a Allocator[node[K, V]]) Option[K, V] {
	return func(m *Map[K, V]) { m.nodePool = a }
}

// withProbe attaches a slot-dereference counter for tests of the
// constant-time-in-Len() property. Unexported: an internal testing
// knob, not part of the supported API.
func withProbe[K Ordinal, V any](p *opProbe) Option[K, V] {
	return func(m *Map[K, V]) { m.probe = p }
}

func newDefaultNodePool[K Ordinal, V any]() Allocator[node[K, V]] {
	return &cellpool.Pool[node[K, V]]{
		New:   func() *node[K, V] { return newNode[K, V]() },
		Reset: func(n *node[K, V]) { n.reset() },
	}
}

func newDefaultCellPool[V any]() Allocator[cell[V]] {
	return &cellpool.Pool[cell[V]]{
		New:   func() *cell[V] { return newCell[V]() },
		Reset: func(c *cell[V]) { c.reset() },
	}
}

// NewMap constructs an empty Map. K's width (1, 2, 4 or 8 bytes) fixes
// the trie depth W = 2*width for the lifetime of the Map.
func NewMap[K Ordinal, V any](opts ...Option[K, V]) *Map[K, V] {
	_, width := classify[K]()

	m := &Map[K, V]{
		root:      sentinelSlot,
		transform: DefaultTransform[K](),
		width:     width,
		nibbles:   width * 2,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.nodePool == nil {
		m.nodePool = newDefaultNodePool[K, V]()
	}
	if m.cellPool == nil {
		m.cellPool = newDefaultCellPool[V]()
	}
	return m
}

// Len returns the number of keys currently stored.
func (m *Map[K, V]) Len() int { return m.size }

// Empty reports whether the Map holds no keys.
func (m *Map[K, V]) Empty() bool { return m.size == 0 }

// Contains reports whether k has a stored value.
func (m *Map[K, V]) Contains(k K) bool {
	w := m.trieFind(m.transform.Apply(k))
	return w.stop == 0 && w.present(0)
}

// At returns a pointer to k's stored value, or ErrKeyNotFound wrapped
// with a stack trace if k has none.
func (m *Map[K, V]) At(k K) (*V, error) {
	w := m.trieFind(m.transform.Apply(k))
	if w.stop == 0 && w.present(0) {
		c, ok := (*w.stack[0]).(*cell[V])
		if !ok {
			invariantf("nibtrie: leaf slot is not a value cell")
		}
		return &c.value, nil
	}
	return nil, errors.WithStack(ErrKeyNotFound)
}

// Get returns a pointer to k's stored value, inserting a zero value
// first if k is absent — the same subscript-with-autovivification
// behavior Go's builtin map gives a struct-valued map through
// m[k].Field = x, made explicit since V here isn't addressable through
// map indexing. Get panics (wrapping ErrAllocation) if the configured
// allocator fails; like the builtin map's own out-of-memory behavior,
// that failure has no sensible error-returning signature to report
// through a plain subscript.
func (m *Map[K, V]) Get(k K) *V {
	v, _, err := m.trieInsert(m.transform.Apply(k))
	if err != nil {
		panic(err)
	}
	return v
}

// Insert stores value for key if key is absent, or leaves the existing
// value untouched if key is already present. It returns a cursor naming
// key, whether a new entry was created, and a non-nil error only if
// allocation failed (in which case the Map is left exactly as it was
// before the call).
func (m *Map[K, V]) Insert(key K, value V) (Cursor[K, V], bool, error) {
	return m.TryEmplace(key, func() V { return value })
}

// Emplace is Insert, but only constructs the value (via build) when key
// is actually absent, avoiding the cost of constructing a throwaway
// value when key already exists.
func (m *Map[K, V]) Emplace(key K, build func() V) (Cursor[K, V], bool, error) {
	return m.TryEmplace(key, build)
}

// TryEmplace is Emplace; it exists as a distinct name matching the
// facade's documented operation set, for callers who want to make
// "construct lazily, never overwrite" explicit at the call site.
func (m *Map[K, V]) TryEmplace(key K, build func() V) (Cursor[K, V], bool, error) {
	bits := m.transform.Apply(key)
	v, created, err := m.trieInsert(bits)
	if err != nil {
		return Cursor[K, V]{}, false, err
	}
	if created {
		*v = build()
	}
	w := m.trieFind(bits)
	return m.cursorAt(bits, w), created, nil
}

// Modify is an atomic read-modify-insert-or-delete: cb is called with
// key's current value (the zero value if absent) and whether key was
// present, and returns the value to store plus whether key should be
// (or remain) deleted. Modify then performs exactly one of: no-op
// (absent, cb asked to delete), insert (absent, cb didn't ask to
// delete), update (present, cb didn't ask to delete), or delete
// (present, cb asked to delete). It returns the resulting stored value
// (the zero value for a no-op, the value key held just before removal
// for a delete) and whether key was deleted.
//
// Grounded on gaissmai-bart's Table.Modify, with one deliberate
// deviation: that implementation's "update" case returns the value the
// key held *before* the update, which reads like an oversight rather
// than an intended asymmetry with its own "insert" case (which returns
// the new value); Modify here returns the new value in both the insert
// and update cases, so its return value consistently answers "what is
// key's value after this call".
//
// Modify panics (wrapping ErrAllocation) if inserting a new key
// requires allocation that fails, the same contract Get documents.
func (m *Map[K, V]) Modify(key K, cb func(v V, found bool) (V, bool)) (V, bool) {
	var zero V

	bits := m.transform.Apply(key)
	w := m.trieFind(bits)
	found := w.stop == 0 && w.present(0)

	var current V
	if found {
		c, ok := (*w.stack[0]).(*cell[V])
		if !ok {
			invariantf("nibtrie: leaf slot is not a value cell")
		}
		current = c.value
	}

	newVal, del := cb(current, found)

	switch {
	case !found && del:
		return zero, false

	case found && del:
		m.trieRemoveAt(w)
		return current, true

	case !found:
		v, _, err := m.trieInsert(bits)
		if err != nil {
			panic(err)
		}
		*v = newVal
		return newVal, false

	default: // found, update
		c, ok := (*w.stack[0]).(*cell[V])
		if !ok {
			invariantf("nibtrie: leaf slot is not a value cell")
		}
		c.value = newVal
		return newVal, false
	}
}

// Delete removes key if present, reporting whether it was present.
func (m *Map[K, V]) Delete(key K) bool {
	w := m.trieFind(m.transform.Apply(key))
	if w.stop != 0 || !w.present(0) {
		return false
	}
	m.trieRemoveAt(w)
	return true
}

// DeleteCursor removes the key c names and returns the cursor for its
// in-order successor (End, if c named the last key). The successor is
// computed before the deletion actually happens: by the time an
// interior node becomes eligible for freeing, every slot in it is
// already sentinel, so nothing DeleteCursor still needs is ever freed
// out from under it.
func (m *Map[K, V]) DeleteCursor(c Cursor[K, V]) Cursor[K, V] {
	if !c.Valid() {
		invariantf("nibtrie: DeleteCursor called on a non-valid cursor")
	}
	next := m.advanceFrom(c.bits, c.w)
	m.trieRemoveAt(c.w)
	return next
}

// DeleteRange removes every key in [first, last) and returns the count
// removed. first and last must come from this Map. Each key's in-order
// successor is computed before that key is erased, so erasing the
// current key never disturbs the walk needed to find the next one.
func (m *Map[K, V]) DeleteRange(first, last Cursor[K, V]) int {
	n := 0
	for cur := first; !cur.Equal(last); n++ {
		next := m.advanceFrom(cur.bits, cur.w)
		m.trieRemoveAt(cur.w)
		cur = next
	}
	return n
}

// Clear removes every key, releasing all interior nodes and value cells
// back to their allocators.
func (m *Map[K, V]) Clear() {
	m.destroy(m.root, m.nibbles)
	m.root = sentinelSlot
	m.size = 0
}

// Find returns a cursor naming key if present, or End() if not.
func (m *Map[K, V]) Find(key K) Cursor[K, V] {
	return m.seek(m.transform.Apply(key), false, true)
}

// LowerBound returns a cursor naming the smallest stored key not less
// than key, or End() if every stored key is less than key.
func (m *Map[K, V]) LowerBound(key K) Cursor[K, V] {
	return m.seek(m.transform.Apply(key), true, true)
}

// UpperBound returns a cursor naming the smallest stored key strictly
// greater than key, or End() if no stored key is greater.
func (m *Map[K, V]) UpperBound(key K) Cursor[K, V] {
	bits := m.transform.Apply(key)
	w := m.trieFind(bits)
	return m.advanceFrom(bits, w)
}

// Begin returns a cursor naming the smallest stored key, or End() if the
// Map is empty.
func (m *Map[K, V]) Begin() Cursor[K, V] {
	return m.seek(0, true, true)
}

// End returns the forward end-of-range sentinel cursor.
func (m *Map[K, V]) End() Cursor[K, V] {
	return m.endCursor()
}

// RBegin returns a cursor naming the largest stored key, or REnd() if
// the Map is empty.
func (m *Map[K, V]) RBegin() Cursor[K, V] {
	return m.seek(allOnes(m.nibbles), true, false)
}

// REnd returns the reverse end-of-range sentinel cursor.
func (m *Map[K, V]) REnd() Cursor[K, V] {
	return m.rendCursor()
}
