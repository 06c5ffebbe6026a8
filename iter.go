package nibtrie

import "iter"

// All returns an iterator over every stored (key, value) pair in
// ascending key order, suitable for a range-over-func loop:
//
//	for k, v := range m.All() { ... }
//
// Mutating the Map from inside the loop body has the same validity rules
// as mutating a Cursor's underlying Map while holding other cursors:
// the entry currently being visited stays valid if erased via
// DeleteCursor-style traversal, but the iterator itself does not support
// resuming safely after a structural change made any other way.
func (m *Map[K, V]) All() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		for c := m.Begin(); c.Valid(); c = c.Next() {
			if !yield(c.Key(), c.Value()) {
				return
			}
		}
	}
}

// Keys returns an iterator over every stored key in ascending order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for c := m.Begin(); c.Valid(); c = c.Next() {
			if !yield(c.Key()) {
				return
			}
		}
	}
}

// Values returns an iterator over every stored value, in the order of
// their keys.
func (m *Map[K, V]) Values() iter.Seq[*V] {
	return func(yield func(*V) bool) {
		for c := m.Begin(); c.Valid(); c = c.Next() {
			if !yield(c.Value()) {
				return
			}
		}
	}
}

// Reverse returns an iterator over every stored (key, value) pair in
// descending key order.
func (m *Map[K, V]) Reverse() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		for c := m.RBegin(); c.Valid(); c = c.Prev() {
			if !yield(c.Key(), c.Value()) {
				return
			}
		}
	}
}
