package typegen

import "math"

// Anchor is the derived rest state of one metaball slot. Coordinates and
// radii are in normalized percentage units of the canvas (0..100).
type Anchor struct {
	Index       int
	BaseX       float64
	BaseY       float64
	Radius      float64
	Phase       float64 // animation phase offset in [0, 2π)
	SpeedFactor float64 // per-ball clock multiplier in [0.5, 1.0]
}

// anchorCenter is the rest position all anchors jitter around, in
// normalized percentage units.
const anchorCenter = 50.0

// jitterAmplitude is the orbit radius of the per-frame animation, in
// normalized units. It is deliberately independent of MetaballSpread so
// circles orbit their anchor instead of drifting across the canvas.
const jitterAmplitude = 5.0

// DeriveAnchors computes the full anchor set for the given metaball
// parameters. It is a pure function: the same (count, spread, seed) triple
// always yields element-wise identical anchors, in index order. A count of
// zero yields an empty (nil) slice.
//
// Anchors are regenerated wholesale whenever any of the three inputs
// changes; there is no incremental patching.
func DeriveAnchors(count int, spread float64, seed int) []Anchor {
	if count <= 0 {
		return nil
	}
	anchors := make([]Anchor, count)
	for i := range anchors {
		dx := Rand(anchorSeed(seed, i, 100))
		dy := Rand(anchorSeed(seed, i, 200))
		dr := Rand(anchorSeed(seed, i, 300))
		dp := Rand(anchorSeed(seed, i, 400))
		anchors[i] = Anchor{
			Index:       i,
			BaseX:       anchorCenter + (dx-0.5)*spread,
			BaseY:       anchorCenter + (dy-0.5)*spread,
			Radius:      20 + dr*60,
			Phase:       dp * 2 * math.Pi,
			SpeedFactor: 0.5 + dp*0.5,
		}
	}
	return anchors
}

// AnimatedPosition returns the anchor's position at the given clock time.
// At t == 0 with phase 0 the ball sits exactly jitterAmplitude to the
// right and below its base; a frozen clock keeps the position constant.
func AnimatedPosition(a Anchor, clockTime float64) (x, y float64) {
	arg := clockTime*a.SpeedFactor + a.Phase
	x = a.BaseX + math.Sin(arg)*jitterAmplitude
	y = a.BaseY + math.Cos(arg)*jitterAmplitude
	return x, y
}

// FramePosition resolves an anchor's draw position for one frame: the
// animated orbit while the settings keep the clock running, the exact base
// position otherwise. Any number of ticks at speed zero leaves the ball
// pinned to its base, not merely frozen mid-orbit.
func FramePosition(a Anchor, s TypeSettings, clockTime float64) (x, y float64) {
	if !s.AnimationActive() {
		return a.BaseX, a.BaseY
	}
	return AnimatedPosition(a, clockTime)
}
