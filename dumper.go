// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package nibtrie

import (
	"fmt"
	"io"
	"strings"
)

// ##################################################
//  useful during development, debugging and testing
// ##################################################

// String is just a wrapper for Fprint.
func (m *Map[K, V]) String() string {
	w := new(strings.Builder)
	// Fprint's only failure mode is the underlying writer's; a
	// strings.Builder's Write never errors.
	_ = m.Fprint(w)
	return w.String()
}

// Fprint writes a structural dump of the trie to w: one block per
// interior node, indented by depth, showing which of its 16 nibble
// slots are populated and whether each leads to another interior node
// or a value cell. Meant for debugging and tests, not for logging
// production-sized maps.
func (m *Map[K, V]) Fprint(w io.Writer) error {
	fmt.Fprintf(w, "### size(%d) nibbles(%d)\n", m.size, m.nibbles)
	if m.root == sentinelSlot {
		_, err := fmt.Fprintln(w, "(empty)")
		return err
	}
	return dumpRec[K, V](w, m.root, m.nibbles, nil)
}

// dumpRec, rec-descent the trie.
func dumpRec[K Ordinal, V any](w io.Writer, slot any, depth int, path []uint8) error {
	nd, ok := slot.(*node[K, V])
	if !ok {
		invariantf("nibtrie: dump encountered a non-interior slot above depth 0")
	}

	if err := dumpNode[K, V](w, nd, depth, path); err != nil {
		return err
	}

	for nib := 0; nib < 16; nib++ {
		s := nd.slots[nib]
		if s == sentinelSlot {
			continue
		}
		childPath := append(append([]uint8(nil), path...), uint8(nib))
		if depth == 1 {
			continue // leaves are printed by dumpNode itself
		}
		if err := dumpRec[K, V](w, s, depth-1, childPath); err != nil {
			return err
		}
	}
	return nil
}

// dumpNode dumps one node to w.
func dumpNode[K Ordinal, V any](w io.Writer, nd *node[K, V], depth int, path []uint8) error {
	indent := strings.Repeat(".", len(path))

	if _, err := fmt.Fprintf(w, "\n%s[depth %d] path: %s\n", indent, depth, nibblePathString(path)); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%sslots(#%d): %s\n", indent, popcount16(nd.filled), nibbleMaskString(nd.filled)); err != nil {
		return err
	}

	if depth != 1 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "%svalues:", indent); err != nil {
		return err
	}
	for nib, s := range nd.slots {
		if s == sentinelSlot {
			continue
		}
		c, ok := s.(*cell[V])
		if !ok {
			invariantf("nibtrie: dump encountered a non-leaf slot at depth 1")
		}
		if _, err := fmt.Fprintf(w, " %X:%v", nib, c.value); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// nibbleMaskString renders a node's filled bitmask as the set of
// populated hex nibble values, e.g. "{0 3 A F}".
func nibbleMaskString(filled uint16) string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for nib := uint16(0); nib < 16; nib++ {
		if filled&(1<<nib) == 0 {
			continue
		}
		if !first {
			b.WriteByte(' ')
		}
		first = false
		fmt.Fprintf(&b, "%X", nib)
	}
	b.WriteByte('}')
	return b.String()
}

// nibblePathString renders the nibble path taken from the root to reach
// a node, most significant nibble first, e.g. "3.A.0".
func nibblePathString(path []uint8) string {
	if len(path) == 0 {
		return "(root)"
	}
	var b strings.Builder
	for i, nib := range path {
		if i != 0 {
			b.WriteByte('.')
		}
		fmt.Fprintf(&b, "%X", nib)
	}
	return b.String()
}

func popcount16(v uint16) int {
	n := 0
	for v != 0 {
		v &= v - 1
		n++
	}
	return n
}
