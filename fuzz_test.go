package nibtrie

import (
	"math/rand"
	"sync"
	"testing"
)

// lockedSource wraps a math/rand.Source so the same seeded generator can
// be shared safely across parallel fuzz workers, keeping a fuzz corpus
// reproducible regardless of GOMAXPROCS.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func newLockedRand(seed int64) *rand.Rand {
	return rand.New(&lockedSource{src: rand.NewSource(seed)})
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

// FuzzMapInsertDelete drives Insert/Delete through a byte-string derived
// op sequence. After every operation it checks that Delete's result and
// Insert's created flag match a reference set, and that an inserted key
// is reachable via Contains; at the end it checks that Len, Contains and
// forward iteration all agree with the reference set.
func FuzzMapInsertDelete(f *testing.F) {
	f.Add([]byte{0x01, 0x02, 0x03, 0x00, 0x01})
	f.Add([]byte{})
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF})

	f.Fuzz(func(t *testing.T, ops []byte) {
		m := NewMap[uint8, int]()
		present := make(map[uint8]bool)

		for i := 0; i+1 < len(ops); i += 2 {
			key := ops[i]
			wantDelete := ops[i+1]%2 == 0

			if wantDelete {
				had := m.Delete(key)
				if had != present[key] {
					t.Fatalf("Delete(%d) = %v, want %v", key, had, present[key])
				}
				delete(present, key)
				continue
			}

			_, created, err := m.Insert(key, int(key))
			if err != nil {
				t.Fatalf("Insert(%d): %v", key, err)
			}
			if created == present[key] {
				t.Fatalf("Insert(%d) created=%v, want %v", key, created, !present[key])
			}
			present[key] = true

			if !m.Contains(key) {
				t.Fatalf("Contains(%d) = false right after Insert", key)
			}
		}

		if m.Len() != len(present) {
			t.Fatalf("Len() = %d, want %d", m.Len(), len(present))
		}
		for k := range present {
			if !m.Contains(k) {
				t.Fatalf("key %d should be present but Contains returns false", k)
			}
		}

		count := 0
		for c := m.Begin(); c.Valid(); c = c.Next() {
			count++
		}
		if count != len(present) {
			t.Fatalf("forward iteration visited %d keys, want %d", count, len(present))
		}
	})
}

func TestFuzzCorpusSeedsReplayCleanly(t *testing.T) {
	rng := newLockedRand(1)
	m := NewMap[uint16, int]()
	for i := 0; i < 2000; i++ {
		k := uint16(rng.Intn(1000))
		if rng.Intn(4) == 0 {
			m.Delete(k)
		} else {
			m.Insert(k, i)
		}
	}
	// no crash, and the map must still be internally consistent: every
	// key reachable by iteration must also answer Contains and At.
	for c := m.Begin(); c.Valid(); c = c.Next() {
		if !m.Contains(c.Key()) {
			t.Fatalf("key %d reachable by iteration but Contains says false", c.Key())
		}
		if _, err := m.At(c.Key()); err != nil {
			t.Fatalf("At(%d): %v", c.Key(), err)
		}
	}
}
