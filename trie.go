package nibtrie

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

// opProbe counts trie slot dereferences. It exists purely to make the
// "find/insert/erase cost depends on key width, never on how many
// entries the Map holds" property something a test can observe
// directly, rather than infer from wall-clock timing; a Map with no
// probe attached pays nothing for this (every increment is guarded by
// a nil check).
type opProbe struct {
	derefs atomic.Int64
}

func (p *opProbe) tick() {
	if p != nil {
		p.derefs.Add(1)
	}
}

// walk records a single descent from the root: stack[d] is the address
// of the slot at trie depth d (0 = leaf level), for d in [0, nibbles);
// stack[nibbles] is always &Map.root, so every ancestor lookup during a
// later increment/decrement can go through the same array without a
// special case for the root. nibs[d] is the nibble value that selected
// stack[d] out of its parent's slots array, needed later to clear the
// parent's filled bit on deletion. stop is the depth the descent
// actually reached: 0 if it walked all the way to the leaf (whether or
// not that leaf is present), or d+1 if it stopped early because the
// slot at depth d+1 was the sentinel.
type walk struct {
	stack [maxNibbles + 1]*any
	nibs  [maxNibbles]uint8
	stop  int
}

func (w *walk) present(depth int) bool {
	return *w.stack[depth] != sentinelSlot
}

func nodeAt[K Ordinal, V any](w *walk, depth int) *node[K, V] {
	n, ok := (*w.stack[depth]).(*node[K, V])
	if !ok {
		invariantf("nibtrie: slot at depth %d is not an interior node", depth)
	}
	return n
}

// trieFind descends from m.root following the nibbles of bits, most
// significant nibble first, filling in w as it goes. It performs
// exactly m.nibbles slot dereferences unless it finds an absent interior
// slot first, which is the dereference count opProbe observes.
func (m *Map[K, V]) trieFind(bits uint64) walk {
	var w walk
	w.stack[m.nibbles] = &m.root

	parentRef := &m.root
	for d := m.nibbles - 1; d >= 0; d-- {
		m.probe.tick()
		parent := *parentRef
		if parent == sentinelSlot {
			w.stop = d + 1
			return w
		}
		nd, ok := parent.(*node[K, V])
		if !ok {
			invariantf("nibtrie: slot at depth %d is not an interior node", d+1)
		}

		nib := nibbleAt(bits, d)
		slotRef := &nd.slots[nib]
		w.stack[d] = slotRef
		w.nibs[d] = nib

		if d == 0 {
			w.stop = 0
			return w
		}
		parentRef = slotRef
	}

	w.stop = 0
	return w
}

// trieInsert walks as trieFind does, but materializes a sentinel-filled
// interior node at every level whose slot is currently the sentinel. At
// depth 0 it allocates a value cell if none exists yet. created reports
// whether a new cell was allocated (false means the key already had a
// value, in which case cell points at the existing one, unchanged).
//
// If node or cell allocation fails partway through, every node
// materialized by this call is unwound: its owning slot is reset to the
// sentinel and, if that slot lives in a node this same call also just
// materialized, nothing further is needed since that ancestor is itself
// being discarded; if it lives in a node that predates this call, its
// filled bit is cleared so the surviving trie is exactly as if this
// call had never happened.
func (m *Map[K, V]) trieInsert(bits uint64) (cell *V, created bool, err error) {
	type creation struct {
		ref   *any
		owner *node[K, V]
		nib   uint8
		n     *node[K, V]
	}
	var creations []creation

	rollback := func() {
		for i := len(creations) - 1; i >= 0; i-- {
			c := creations[i]
			*c.ref = sentinelSlot
			if c.owner != nil {
				c.owner.filled &^= 1 << c.nib
			}
			m.nodePool.Release(c.n)
		}
	}

	parentRef := &m.root
	var owner *node[K, V]
	var ownerNib uint8

	for d := m.nibbles - 1; d >= 0; d-- {
		m.probe.tick()
		if *parentRef == sentinelSlot {
			nd, aerr := m.nodePool.Allocate()
			if aerr != nil {
				rollback()
				return nil, false, errors.Wrap(ErrAllocation, aerr.Error())
			}
			*parentRef = nd
			if owner != nil {
				owner.filled |= 1 << ownerNib
			}
			creations = append(creations, creation{parentRef, owner, ownerNib, nd})
		}

		nd, ok := (*parentRef).(*node[K, V])
		if !ok {
			invariantf("nibtrie: slot is not an interior node during insert")
		}
		nib := nibbleAt(bits, d)
		slotRef := &nd.slots[nib]

		if d == 0 {
			if *slotRef != sentinelSlot {
				c, ok := (*slotRef).(*cell[V])
				if !ok {
					invariantf("nibtrie: leaf slot is not a value cell")
				}
				return &c.value, false, nil
			}
			c, aerr := m.cellPool.Allocate()
			if aerr != nil {
				rollback()
				return nil, false, errors.Wrap(ErrAllocation, aerr.Error())
			}
			*slotRef = c
			nd.filled |= 1 << nib
			m.size++
			return &c.value, true, nil
		}

		parentRef = slotRef
		owner = nd
		ownerNib = nib
	}

	invariantf("nibtrie: trieInsert fell through its descent loop")
	panic("unreachable")
}

// trieRemoveAt erases the value named by a fully-descended walk (one
// whose stop is 0 and whose leaf slot is present), then walks back up
// the stack freeing any interior node left with no remaining non-
// sentinel slots, stopping at the first ancestor that still has
// something else in it.
func (m *Map[K, V]) trieRemoveAt(w walk) {
	m.probe.tick()
	leafRef := w.stack[0]
	c, ok := (*leafRef).(*cell[V])
	if !ok {
		invariantf("nibtrie: trieRemoveAt on an absent key")
	}
	m.cellPool.Release(c)
	*leafRef = sentinelSlot
	m.size--

	for d := 0; d < m.nibbles; d++ {
		m.probe.tick()
		ownerRef := w.stack[d+1]
		owner, ok := (*ownerRef).(*node[K, V])
		if !ok {
			invariantf("nibtrie: ancestor slot at depth %d is not an interior node", d+1)
		}
		owner.filled &^= 1 << w.nibs[d]
		if owner.filled != 0 {
			return
		}
		*ownerRef = sentinelSlot
		m.nodePool.Release(owner)
	}
}

// destroy tears down the subtree rooted at slot (at the given depth,
// where depth equals m.nibbles for the root), releasing every node and
// cell back to their pools. Used by Clear.
func (m *Map[K, V]) destroy(slot any, depth int) {
	if slot == sentinelSlot {
		return
	}
	if depth == 0 {
		c, ok := slot.(*cell[V])
		if !ok {
			invariantf("nibtrie: leaf slot is not a value cell during destroy")
		}
		m.cellPool.Release(c)
		return
	}
	nd, ok := slot.(*node[K, V])
	if !ok {
		invariantf("nibtrie: slot at depth %d is not an interior node during destroy", depth)
	}
	for _, s := range nd.slots {
		m.destroy(s, depth-1)
	}
	m.nodePool.Release(nd)
}

// incrementFrom treats bits as a W-nibble unsigned integer, zeroes every
// nibble below d (the positions a caller is about to re-descend through,
// which should start again from their smallest value), and adds one
// starting at nibble d, propagating carry upward exactly like ordinary
// integer addition. It reports the nibble position where the carry
// stopped, the highest position it changed (which is d itself unless
// nibble d was already at its maximum), or overflow if the carry ran off
// the top of the key.
func incrementFrom(bits uint64, d, nibbles int) (newBits uint64, changed int, overflow bool) {
	mask := uint64(1)<<(4*d) - 1
	bits &^= mask

	for p := d; ; p++ {
		if p == nibbles {
			return 0, nibbles, true
		}
		if nibbleAt(bits, p) == 0xF {
			bits &^= uint64(0xF) << (4 * p)
			continue
		}
		bits += uint64(1) << (4 * p)
		return bits, p, false
	}
}

// decrementFrom is incrementFrom's mirror: it sets every nibble below d
// to its maximum value (0xF) and subtracts one starting at nibble d,
// borrowing upward. It reports underflow if the borrow ran off the top
// of the key (every nibble was already zero).
func decrementFrom(bits uint64, d, nibbles int) (newBits uint64, changed int, underflow bool) {
	mask := uint64(1)<<(4*d) - 1
	bits |= mask

	for p := d; ; p++ {
		if p == nibbles {
			return 0, nibbles, true
		}
		if nibbleAt(bits, p) == 0 {
			bits |= uint64(0xF) << (4 * p)
			continue
		}
		bits -= uint64(1) << (4 * p)
		return bits, p, false
	}
}
