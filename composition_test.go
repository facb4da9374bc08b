package typegen

import "testing"

// newTestComposition builds a session without allocating GPU images: the
// source buffer is only needed by Draw, which these tests never call.
func newTestComposition() *Composition {
	c := &Composition{
		text:     NewTextShape(NewFontLibrary()),
		renderer: NewGraphRenderer(960, 540),
	}
	c.SetSettings(DefaultSettings())
	return c
}

func TestCompositionClampsAtBoundary(t *testing.T) {
	c := newTestComposition()
	s := DefaultSettings()
	s.Contrast = -5
	s.NumMetaballs = -2
	c.SetSettings(s)

	got := c.Settings()
	if got.Contrast != 1 || got.NumMetaballs != 0 {
		t.Errorf("settings not clamped at the boundary: %+v", got)
	}
}

func TestCompositionRecompilesGraph(t *testing.T) {
	c := newTestComposition()

	s := c.Settings()
	s.TextureMode = TextureNeon
	c.SetSettings(s)
	if got := c.Graph().BufferName(c.Graph().Output); got != "neon" {
		t.Errorf("graph output = %q after mode change, want \"neon\"", got)
	}
}

func TestCompositionAnchorCaching(t *testing.T) {
	c := newTestComposition()
	before := c.Anchors()
	if len(before) == 0 {
		t.Fatal("default settings derived no anchors")
	}

	// Changing an unrelated field keeps the cached slice.
	s := c.Settings()
	s.BlurStdDev += 1
	c.SetSettings(s)
	if &c.Anchors()[0] != &before[0] {
		t.Error("anchors regenerated although their derivation inputs did not change")
	}

	// Changing a derivation input regenerates wholesale.
	s = c.Settings()
	s.NoiseSeed++
	c.SetSettings(s)
	after := c.Anchors()
	if len(after) != len(before) {
		t.Fatalf("anchor count changed from %d to %d on seed change", len(before), len(after))
	}
	if &after[0] == &before[0] {
		t.Error("anchors not regenerated after a seed change")
	}

	s = c.Settings()
	s.NumMetaballs = 0
	c.SetSettings(s)
	if len(c.Anchors()) != 0 {
		t.Errorf("got %d anchors with NumMetaballs = 0, want 0", len(c.Anchors()))
	}
}

func TestCompositionClockGating(t *testing.T) {
	c := newTestComposition()
	if !c.Clock().Running() {
		t.Fatal("clock stopped although the defaults animate")
	}

	c.Update()
	moved := c.Clock().Time()
	if moved == 0 {
		t.Fatal("Update did not advance a running clock")
	}

	// Crossing the zero boundary tears the subscription down; ticks while
	// stopped leave the time untouched.
	s := c.Settings()
	s.MetaballSpeed = 0
	c.SetSettings(s)
	if c.Clock().Running() {
		t.Error("clock still running at MetaballSpeed = 0")
	}
	c.Update()
	if got := c.Clock().Time(); got != moved {
		t.Errorf("stopped clock advanced from %v to %v", moved, got)
	}

	// Crossing back restarts it.
	s.MetaballSpeed = 2
	c.SetSettings(s)
	if !c.Clock().Running() {
		t.Error("clock not restarted after speed became positive")
	}

	s.MetaballSpeed = 1
	s.NumMetaballs = 0
	c.SetSettings(s)
	if c.Clock().Running() {
		t.Error("clock running with no metaballs to animate")
	}
}
