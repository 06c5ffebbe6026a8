package nibtrie

import "testing"

func buildOrderedMap(t *testing.T, keys ...uint16) *Map[uint16, int] {
	t.Helper()
	m := NewMap[uint16, int]()
	for _, k := range keys {
		*m.Get(k) = int(k)
	}
	return m
}

func TestCursorBeginEndOnEmptyMap(t *testing.T) {
	m := NewMap[uint16, int]()
	if b := m.Begin(); b.Valid() {
		t.Fatal("Begin() on empty map is Valid")
	}
	if !m.Begin().Equal(m.End()) {
		t.Fatal("Begin() != End() on empty map")
	}
	if r := m.RBegin(); r.Valid() {
		t.Fatal("RBegin() on empty map is Valid")
	}
	if !m.RBegin().Equal(m.REnd()) {
		t.Fatal("RBegin() != REnd() on empty map")
	}
}

func TestCursorBeginIsSmallestRBeginIsLargest(t *testing.T) {
	m := buildOrderedMap(t, 50, 10, 200, 1, 999)
	if k := m.Begin().Key(); k != 1 {
		t.Fatalf("Begin().Key() = %d, want 1", k)
	}
	if k := m.RBegin().Key(); k != 999 {
		t.Fatalf("RBegin().Key() = %d, want 999", k)
	}
}

func TestCursorForwardIterationIsSorted(t *testing.T) {
	keys := []uint16{50, 10, 200, 1, 999, 7, 3}
	m := buildOrderedMap(t, keys...)

	var got []uint16
	for c := m.Begin(); c.Valid(); c = c.Next() {
		got = append(got, c.Key())
	}
	want := []uint16{1, 3, 7, 10, 50, 200, 999}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestCursorReverseIterationIsSorted(t *testing.T) {
	keys := []uint16{50, 10, 200, 1, 999, 7, 3}
	m := buildOrderedMap(t, keys...)

	var got []uint16
	for c := m.RBegin(); c.Valid(); c = c.Prev() {
		got = append(got, c.Key())
	}
	want := []uint16{999, 200, 50, 10, 7, 3, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestCursorNextOnEndWrapsToBeginOnce(t *testing.T) {
	m := buildOrderedMap(t, 1, 2, 3)
	end := m.End()
	first := end.Next()
	if !first.Valid() || first.Key() != 1 {
		t.Fatalf("End().Next() = %+v, want key 1", first)
	}
	second := first.Next()
	if !second.Valid() || second.Key() != 2 {
		t.Fatalf("End().Next().Next() = %+v, want key 2", second)
	}
}

func TestCursorPrevOnREndWrapsToRBeginOnce(t *testing.T) {
	m := buildOrderedMap(t, 1, 2, 3)
	rend := m.REnd()
	last := rend.Prev()
	if !last.Valid() || last.Key() != 3 {
		t.Fatalf("REnd().Prev() = %+v, want key 3", last)
	}
	second := last.Prev()
	if !second.Valid() || second.Key() != 2 {
		t.Fatalf("REnd().Prev().Prev() = %+v, want key 2", second)
	}
}

func TestCursorNextPastLastReturnsEnd(t *testing.T) {
	m := buildOrderedMap(t, 1, 2, 3)
	c := m.Find(3)
	next := c.Next()
	if next.Valid() || !next.Equal(m.End()) {
		t.Fatalf("Next() past the last key = %+v, want End()", next)
	}
}

func TestCursorPrevBeforeFirstReturnsREnd(t *testing.T) {
	m := buildOrderedMap(t, 1, 2, 3)
	c := m.Find(1)
	prev := c.Prev()
	if prev.Valid() || !prev.Equal(m.REnd()) {
		t.Fatalf("Prev() before the first key = %+v, want REnd()", prev)
	}
}

func TestCursorFindPresentAndAbsent(t *testing.T) {
	m := buildOrderedMap(t, 10, 20, 30)
	if c := m.Find(20); !c.Valid() || c.Key() != 20 {
		t.Fatalf("Find(20) = %+v", c)
	}
	if c := m.Find(25); c.Valid() {
		t.Fatalf("Find(25) on absent key = %+v, want End()", c)
	}
}

func TestCursorLowerBoundAndUpperBound(t *testing.T) {
	m := buildOrderedMap(t, 10, 20, 30)

	// present key: LowerBound stays on it, UpperBound advances past it.
	if c := m.LowerBound(20); !c.Valid() || c.Key() != 20 {
		t.Fatalf("LowerBound(20) = %+v, want key 20", c)
	}
	if c := m.UpperBound(20); !c.Valid() || c.Key() != 30 {
		t.Fatalf("UpperBound(20) = %+v, want key 30", c)
	}

	// absent key between two present ones: both land on the next key up.
	if c := m.LowerBound(15); !c.Valid() || c.Key() != 20 {
		t.Fatalf("LowerBound(15) = %+v, want key 20", c)
	}
	if c := m.UpperBound(15); !c.Valid() || c.Key() != 20 {
		t.Fatalf("UpperBound(15) = %+v, want key 20", c)
	}

	// past the last key: both hit End().
	if c := m.LowerBound(31); c.Valid() {
		t.Fatalf("LowerBound(31) = %+v, want End()", c)
	}
	if c := m.UpperBound(30); c.Valid() {
		t.Fatalf("UpperBound(30) = %+v, want End()", c)
	}
}

func TestCursorEqualIgnoresWalkStack(t *testing.T) {
	m := buildOrderedMap(t, 1, 2, 3)
	a := m.Find(2)
	b := m.Begin().Next()
	if !a.Equal(b) {
		t.Fatal("two cursors naming the same key via different descents are not Equal")
	}
}

func TestCursorValueReflectsStoredPointer(t *testing.T) {
	m := NewMap[uint16, int]()
	p := m.Get(5)
	*p = 77

	c := m.Find(5)
	if *c.Value() != 77 {
		t.Fatalf("cursor Value() = %d, want 77", *c.Value())
	}
	if c.Value() != p {
		t.Fatal("cursor Value() does not point at the same cell Get returned")
	}
}

func TestCursorDeleteCursorReturnsSuccessor(t *testing.T) {
	m := buildOrderedMap(t, 1, 2, 3)
	c := m.Find(2)
	next := m.DeleteCursor(c)
	if !next.Valid() || next.Key() != 3 {
		t.Fatalf("DeleteCursor(2) successor = %+v, want key 3", next)
	}
	if m.Contains(2) {
		t.Fatal("key 2 still present after DeleteCursor")
	}
	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}
}

func TestCursorDeleteCursorOnLastReturnsEnd(t *testing.T) {
	m := buildOrderedMap(t, 1, 2, 3)
	next := m.DeleteCursor(m.Find(3))
	if !next.Equal(m.End()) {
		t.Fatalf("DeleteCursor on the last key = %+v, want End()", next)
	}
}

func TestMapDeleteRange(t *testing.T) {
	m := buildOrderedMap(t, 1, 2, 3, 4, 5)
	removed := m.DeleteRange(m.Find(2), m.Find(4))
	if removed != 2 {
		t.Fatalf("DeleteRange removed %d, want 2", removed)
	}
	var got []uint16
	for c := m.Begin(); c.Valid(); c = c.Next() {
		got = append(got, c.Key())
	}
	want := []uint16{1, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestMapDeleteRangeFullRangeEmptiesMap(t *testing.T) {
	m := buildOrderedMap(t, 1, 2, 3)
	removed := m.DeleteRange(m.Begin(), m.End())
	if removed != 3 {
		t.Fatalf("DeleteRange removed %d, want 3", removed)
	}
	if !m.Empty() {
		t.Fatal("map not empty after deleting the full range")
	}
}
