package typegen

import "testing"

func TestRandStable(t *testing.T) {
	seeds := []float64{0, 1, 42, 1337.5, -3.25, 1e6}
	for _, seed := range seeds {
		first := Rand(seed)
		for i := 0; i < 10; i++ {
			if got := Rand(seed); got != first {
				t.Errorf("Rand(%v) call %d = %v, want %v (must be stable)", seed, i, got, first)
			}
		}
	}
}

func TestRandRange(t *testing.T) {
	for seed := -500.0; seed < 500; seed += 0.37 {
		got := Rand(seed)
		if got < 0 || got >= 1 {
			t.Errorf("Rand(%v) = %v, want value in [0, 1)", seed, got)
		}
	}
}

func TestRandDecorrelatedDraws(t *testing.T) {
	// The four per-anchor draw slots must yield distinct values for the
	// small index counts the metaball field uses.
	seen := map[float64]bool{}
	for i := 0; i < 20; i++ {
		for _, slot := range []int{100, 200, 300, 400} {
			v := Rand(anchorSeed(1, i, slot))
			if seen[v] {
				t.Errorf("duplicate draw %v for index %d slot %d", v, i, slot)
			}
			seen[v] = true
		}
	}
}

func TestAnchorSeedDistinctSlots(t *testing.T) {
	for i := 0; i < 20; i++ {
		seen := map[float64]bool{}
		for _, slot := range []int{100, 200, 300, 400} {
			s := anchorSeed(7, i, slot)
			if seen[s] {
				t.Errorf("anchorSeed(7, %d, %d) collides with another slot", i, slot)
			}
			seen[s] = true
		}
	}
}
