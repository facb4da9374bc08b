package typegen

import "math"

// Rand is a pure, stateless pseudo-random function mapping a seed to a value
// in [0, 1). Identical seeds produce identical values across calls and
// process restarts. It is not cryptographic; the pipeline only needs
// reproducibility and enough decorrelation to avoid visible periodicity for
// the handful of draws per metaball anchor.
func Rand(seed float64) float64 {
	v := math.Sin(seed) * 10000
	return v - math.Floor(v)
}

// anchorSeed combines the document noise seed with an anchor index and a
// draw-slot offset. The four slots (100, 200, 300, 400) keep the four draws
// per index decorrelated from each other. The scheme is ad hoc but must not
// change: anchor layouts are seed-stable across versions.
func anchorSeed(noiseSeed, index, slot int) float64 {
	return float64(noiseSeed*slot + index)
}
