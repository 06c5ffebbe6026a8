package nibtrie

// overflow distinguishes the two degenerate cursor positions from a
// normal, key-naming one. Two cursors are equal iff their transformed
// key bits and overflow marker match byte for byte; the walk stack
// itself is never compared, since it is only a cache of how the cursor
// got there; two different descents can legitimately land on the same
// (bits, overflow) pair.
type overflow uint8

const (
	ovfNormal overflow = 0x00 // names a real nibble address
	ovfPast   overflow = 0x01 // forward end-of-range sentinel
	ovfBefore overflow = 0xFF // reverse end-of-range sentinel
)

// Cursor is a position in a Map's key order: either the key it names
// (when valid), or one of the two end sentinels returned by End and
// REnd. A Cursor obtained from one Map must never be used with another.
//
// The zero Cursor is not meaningful; Cursors are only produced by Map
// methods (Begin, End, Find, LowerBound, UpperBound, Next, Prev, ...).
type Cursor[K Ordinal, V any] struct {
	m    *Map[K, V]
	bits uint64
	ovf  overflow
	w    walk
}

// Valid reports whether the cursor names an actual key, as opposed to
// being the forward or reverse end sentinel.
func (c Cursor[K, V]) Valid() bool {
	return c.ovf == ovfNormal
}

// Key returns the key the cursor names. It panics if the cursor is not
// Valid, the same contract dereferencing an end iterator violates in
// C++.
func (c Cursor[K, V]) Key() K {
	if !c.Valid() {
		invariantf("nibtrie: Key called on a non-valid cursor")
	}
	return c.m.transform.Restore(c.bits)
}

// Value returns a pointer to the stored value the cursor names. The
// pointer remains valid until the named key is erased or the Map is
// cleared. It panics if the cursor is not Valid.
func (c Cursor[K, V]) Value() *V {
	if !c.Valid() {
		invariantf("nibtrie: Value called on a non-valid cursor")
	}
	cl, ok := (*c.w.stack[0]).(*cell[V])
	if !ok {
		invariantf("nibtrie: cursor's leaf slot is not a value cell")
	}
	return &cl.value
}

// Equal reports whether two cursors name the same position: either the
// same key, or the same end sentinel.
func (c Cursor[K, V]) Equal(o Cursor[K, V]) bool {
	return c.m == o.m && c.bits == o.bits && c.ovf == o.ovf
}

// Next returns the cursor for the in-order successor of c. Calling Next
// on End or REnd wraps once to the first element (or End again, if the
// Map is empty); calling Next a second time in a row on the result of
// that wrap behaves as ordinary forward iteration, since the wrap itself
// always lands on a normal (or genuinely empty) cursor.
func (c Cursor[K, V]) Next() Cursor[K, V] {
	if c.ovf != ovfNormal {
		return c.m.seek(0, true, true)
	}
	return c.m.advanceFrom(c.bits, c.w)
}

// Prev returns the cursor for the in-order predecessor of c, mirroring
// Next.
func (c Cursor[K, V]) Prev() Cursor[K, V] {
	if c.ovf != ovfNormal {
		return c.m.seek(allOnes(c.m.nibbles), true, false)
	}
	return c.m.retreatFrom(c.bits, c.w)
}

func allOnes(nibbles int) uint64 {
	if nibbles >= 16 {
		return ^uint64(0)
	}
	return uint64(1)<<(4*nibbles) - 1
}

// cursorAt builds a Valid cursor naming bits, using a walk already known
// to reach depth 0 with a present leaf.
func (m *Map[K, V]) cursorAt(bits uint64, w walk) Cursor[K, V] {
	w.stop = 0
	return Cursor[K, V]{m: m, bits: bits, ovf: ovfNormal, w: w}
}

func (m *Map[K, V]) endCursor() Cursor[K, V] {
	return Cursor[K, V]{m: m, bits: 0, ovf: ovfPast}
}

func (m *Map[K, V]) rendCursor() Cursor[K, V] {
	return Cursor[K, V]{m: m, bits: 0, ovf: ovfBefore}
}

// seek implements the shared construction rule behind Begin, RBegin,
// Find, and LowerBound: descend to bits; if the leaf is present, the
// cursor names it exactly. Otherwise, if findNext is false the cursor
// becomes the end sentinel on the requested side; if findNext is true,
// it advances (forward) or retreats (reverse) to the nearest present
// key instead.
func (m *Map[K, V]) seek(bits uint64, findNext, forward bool) Cursor[K, V] {
	w := m.trieFind(bits)
	if w.stop == 0 && w.present(0) {
		return m.cursorAt(bits, w)
	}
	if !findNext {
		if forward {
			return m.endCursor()
		}
		return m.rendCursor()
	}
	if forward {
		return m.advanceFrom(bits, w)
	}
	return m.retreatFrom(bits, w)
}

// advanceFrom finds the smallest present key whose transformed bits are
// strictly greater than the nibble address (bits, w) names, reusing
// whatever prefix of the descent in w is still valid. It implements the
// stack-based in-order-successor walk: while there's more trie left to
// examine, either descend into an already-present child one level
// deeper, or move to the next sibling at the current depth (carrying
// into shallower depths when the current depth's siblings are
// exhausted); stop as soon as depth 0 is reached and its slot is
// present.
func (m *Map[K, V]) advanceFrom(bits uint64, w walk) Cursor[K, V] {
	d := w.stop
	for d < m.nibbles {
		if d > 0 && w.present(d) {
			nd := nodeAt[K, V](&w, d)
			nib := nibbleAt(bits, d-1)
			w.stack[d-1] = &nd.slots[nib]
			w.nibs[d-1] = nib
			d--
		} else {
			nb, p, overflowed := incrementFrom(bits, d, m.nibbles)
			if overflowed {
				return m.endCursor()
			}
			bits = nb
			anc := nodeAt[K, V](&w, p+1)
			nib := nibbleAt(bits, p)
			w.stack[p] = &anc.slots[nib]
			w.nibs[p] = nib
			d = p
		}
		if d == 0 && w.present(0) {
			return m.cursorAt(bits, w)
		}
	}
	return m.endCursor()
}

// retreatFrom mirrors advanceFrom, finding the largest present key
// strictly less than (bits, w).
func (m *Map[K, V]) retreatFrom(bits uint64, w walk) Cursor[K, V] {
	d := w.stop
	for d < m.nibbles {
		if d > 0 && w.present(d) {
			nd := nodeAt[K, V](&w, d)
			nib := nibbleAt(bits, d-1)
			w.stack[d-1] = &nd.slots[nib]
			w.nibs[d-1] = nib
			d--
		} else {
			nb, p, underflowed := decrementFrom(bits, d, m.nibbles)
			if underflowed {
				return m.rendCursor()
			}
			bits = nb
			anc := nodeAt[K, V](&w, p+1)
			nib := nibbleAt(bits, p)
			w.stack[p] = &anc.slots[nib]
			w.nibs[p] = nib
			d = p
		}
		if d == 0 && w.present(0) {
			return m.cursorAt(bits, w)
		}
	}
	return m.rendCursor()
}
