package cellpool

import "testing"

func TestPoolRecycles(t *testing.T) {
	resets := 0
	p := &Pool[int]{
		New:   func() *int { v := 0; return &v },
		Reset: func(v *int) { *v = 0; resets++ },
	}

	a, err := p.Allocate()
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	*a = 42

	if live, total := p.Stats(); live != 1 || total != 1 {
		t.Fatalf("Stats after first Allocate = (%d,%d), want (1,1)", live, total)
	}

	p.Release(a)
	if live, _ := p.Stats(); live != 0 {
		t.Fatalf("Stats.live after Release = %d, want 0", live)
	}
	if resets != 1 {
		t.Fatalf("resets = %d, want 1", resets)
	}

	b, err := p.Allocate()
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if *b != 0 {
		t.Fatalf("recycled value = %d, want 0 (reset before reuse)", *b)
	}
	if _, total := p.Stats(); total != 1 {
		t.Fatalf("total after recycle = %d, want 1 (no new construction)", total)
	}
}

func TestPoolReleaseNil(t *testing.T) {
	p := &Pool[int]{}
	p.Release(nil) // must not panic
}
