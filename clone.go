package nibtrie

// cloneValue duplicates v using its Clone method if V implements
// Cloner[V], or returns v unchanged otherwise (the correct behavior for
// any value type that owns no shared, mutable backing storage — plain
// structs, numbers, strings, and so on).
func cloneValue[V any](v V) V {
	if c, ok := any(v).(Cloner[V]); ok {
		return c.Clone()
	}
	return v
}

// Clone returns a new Map holding the same keys and (cloned) values as
// m, with the same transform, but its own freshly constructed default
// allocators — cloning a Map never shares pool-managed nodes or cells
// between the original and the copy.
func (m *Map[K, V]) Clone() *Map[K, V] {
	out := NewMap[K, V](WithTransform[K, V](m.transform))
	for k, v := range m.All() {
		out.Insert(k, cloneValue(*v))
	}
	return out
}

// Union merges every entry of other into m, then empties other — the
// same splice semantics C++'s std::map::merge uses rather than a pure
// copy, which lets it reuse the teacher's overlaps.go "swap to the
// cheaper side" heuristic: walking the smaller of the two tries to
// build the result is always cheaper than walking the larger one, so
// when other holds more entries than m, Union absorbs m's (smaller) set
// of entries into other's trie instead and adopts that as the new m.
//
// On a key present in both, resolve is called with m's current value
// first and other's value second, and its result replaces m's stored
// value; resolve is never called for a key that exists in only one of
// the two maps. Union returns the number of colliding keys.
func (m *Map[K, V]) Union(other *Map[K, V], resolve func(a, b V) V) int {
	if other == m || other.Len() == 0 {
		return 0
	}
	if m.Len() == 0 {
		m.root, other.root = other.root, sentinelSlot
		m.size, other.size = other.size, 0
		return 0
	}
	if other.Len() > m.Len() {
		dup := 0
		for k, v := range m.All() {
			if existing, err := other.At(k); err == nil {
				*existing = resolve(cloneValue(*v), *existing)
				dup++
				continue
			}
			other.Insert(k, cloneValue(*v))
		}
		m.root, other.root = other.root, sentinelSlot
		m.size, other.size = other.size, 0
		return dup
	}
	dup := 0
	for k, v := range other.All() {
		if existing, err := m.At(k); err == nil {
			*existing = resolve(*existing, cloneValue(*v))
			dup++
			continue
		}
		m.Insert(k, cloneValue(*v))
	}
	other.Clear()
	return dup
}
