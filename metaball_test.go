package typegen

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestDeriveAnchorsEmpty(t *testing.T) {
	if got := DeriveAnchors(0, 40, 1); len(got) != 0 {
		t.Errorf("DeriveAnchors(0, ...) = %d anchors, want 0", len(got))
	}
	if got := DeriveAnchors(-3, 40, 1); len(got) != 0 {
		t.Errorf("DeriveAnchors(-3, ...) = %d anchors, want 0", len(got))
	}
}

func TestDeriveAnchorsDeterministic(t *testing.T) {
	a := DeriveAnchors(8, 35, 12)
	b := DeriveAnchors(8, 35, 12)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("anchor %d differs across derivations: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestDeriveAnchorsBounds(t *testing.T) {
	const (
		count  = 5
		spread = 40.0
		seed   = 1
	)
	anchors := DeriveAnchors(count, spread, seed)
	if len(anchors) != count {
		t.Fatalf("got %d anchors, want %d", len(anchors), count)
	}
	for i, a := range anchors {
		if a.Index != i {
			t.Errorf("anchor %d has Index %d", i, a.Index)
		}
		if a.BaseX < 50-spread/2 || a.BaseX > 50+spread/2 {
			t.Errorf("anchor %d BaseX = %v, want within 50 ± %v", i, a.BaseX, spread/2)
		}
		if a.BaseY < 50-spread/2 || a.BaseY > 50+spread/2 {
			t.Errorf("anchor %d BaseY = %v, want within 50 ± %v", i, a.BaseY, spread/2)
		}
		if a.Radius < 20 || a.Radius > 80 {
			t.Errorf("anchor %d Radius = %v, want in [20, 80]", i, a.Radius)
		}
		if a.Phase < 0 || a.Phase >= 2*math.Pi {
			t.Errorf("anchor %d Phase = %v, want in [0, 2π)", i, a.Phase)
		}
		if a.SpeedFactor < 0.5 || a.SpeedFactor > 1.0 {
			t.Errorf("anchor %d SpeedFactor = %v, want in [0.5, 1.0]", i, a.SpeedFactor)
		}
	}
}

func TestDeriveAnchorsZeroSpread(t *testing.T) {
	for _, a := range DeriveAnchors(6, 0, 3) {
		assertNear(t, "BaseX at zero spread", a.BaseX, 50)
		assertNear(t, "BaseY at zero spread", a.BaseY, 50)
	}
}

func TestDeriveAnchorsSeedVariation(t *testing.T) {
	a := DeriveAnchors(5, 40, 1)
	b := DeriveAnchors(5, 40, 2)
	same := true
	for i := range a {
		if a[i].BaseX != b[i].BaseX || a[i].BaseY != b[i].BaseY {
			same = false
		}
	}
	if same {
		t.Error("seeds 1 and 2 produced identical layouts")
	}
}

func TestAnimatedPositionOrbit(t *testing.T) {
	a := DeriveAnchors(1, 40, 9)[0]
	for _, clock := range []float64{0, 0.5, 3.7, 120} {
		x, y := AnimatedPosition(a, clock)
		dist := math.Hypot(x-a.BaseX, y-a.BaseY)
		assertNear(t, "orbit distance", dist, jitterAmplitude)
	}
}

func TestFramePositionFrozen(t *testing.T) {
	s := DefaultSettings()
	s.MetaballSpeed = 0

	a := DeriveAnchors(3, 40, 1)[1]
	// Regardless of how far a (stale) clock value claims time has advanced,
	// a frozen field pins every ball to its exact base position.
	for _, clock := range []float64{0, 1, 57.3} {
		x, y := FramePosition(a, s, clock)
		if x != a.BaseX || y != a.BaseY {
			t.Errorf("FramePosition frozen at t=%v = (%v, %v), want base (%v, %v)",
				clock, x, y, a.BaseX, a.BaseY)
		}
	}

	s.MetaballSpeed = 1
	s.NumMetaballs = 0
	if x, y := FramePosition(a, s, 2); x != a.BaseX || y != a.BaseY {
		t.Errorf("FramePosition with no metaballs = (%v, %v), want base", x, y)
	}
}

func TestFramePositionAnimated(t *testing.T) {
	s := DefaultSettings()
	a := DeriveAnchors(1, 40, 4)[0]
	wantX, wantY := AnimatedPosition(a, 1.5)
	x, y := FramePosition(a, s, 1.5)
	if x != wantX || y != wantY {
		t.Errorf("FramePosition active = (%v, %v), want animated (%v, %v)", x, y, wantX, wantY)
	}
}
