package typegen

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// NoiseField synthesizes the two-channel displacement texture for the noise
// stage. Channel one drives horizontal offsets, channel two vertical; both
// are sampled from the same simplex source at decorrelated z slices so the
// axes do not move in lockstep.
type NoiseField struct {
	noise   opensimplex.Noise
	kind    NoiseKind
	freqX   float64
	freqY   float64
	octaves int
}

// NewNoiseField creates a field from the noise stage's parameters.
// The seed fully determines the field; equal parameters yield equal samples.
func NewNoiseField(p StageParams) *NoiseField {
	octaves := p.Octaves
	if octaves < 1 {
		octaves = 1
	}
	return &NoiseField{
		noise:   opensimplex.New(int64(p.Seed)),
		kind:    p.Kind,
		freqX:   p.Freq.X,
		freqY:   p.Freq.Y,
		octaves: octaves,
	}
}

// fbm accumulates signed octaves with halving amplitude and doubling
// frequency, normalized to [-1, 1].
func (f *NoiseField) fbm(x, y, z float64) float64 {
	var total, maxValue float64
	frequency, amplitude := 1.0, 1.0
	for i := 0; i < f.octaves; i++ {
		total += f.noise.Eval3(x*frequency, y*frequency, z) * amplitude
		maxValue += amplitude
		amplitude *= 0.5
		frequency *= 2
	}
	return total / maxValue
}

// turbulence accumulates absolute-value octaves, yielding [0, 1].
func (f *NoiseField) turbulence(x, y, z float64) float64 {
	var total, maxValue float64
	frequency, amplitude := 1.0, 1.0
	for i := 0; i < f.octaves; i++ {
		total += math.Abs(f.noise.Eval3(x*frequency, y*frequency, z)) * amplitude
		maxValue += amplitude
		amplitude *= 0.5
		frequency *= 2
	}
	return total / maxValue
}

// Sample returns the two displacement channels at pixel (x, y), each in
// [0, 1] with 0.5 meaning no displacement.
func (f *NoiseField) Sample(x, y float64) (cx, cy float64) {
	sx := x * f.freqX
	sy := y * f.freqY
	// The two channels read offset z slices of the same 3D noise.
	if f.kind == NoiseTurbulence {
		cx = f.turbulence(sx, sy, 0)
		cy = f.turbulence(sx, sy, 7.3)
	} else {
		cx = (f.fbm(sx, sy, 0) + 1) / 2
		cy = (f.fbm(sx, sy, 7.3) + 1) / 2
	}
	return cx, cy
}

// Pixels fills a w*h RGBA byte buffer with the field: R carries the
// horizontal channel, G the vertical, B is zero, A is opaque. The buffer
// layout matches ebiten's WritePixels.
func (f *NoiseField) Pixels(w, h int) []byte {
	pix := make([]byte, 4*w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cx, cy := f.Sample(float64(x), float64(y))
			i := (y*w + x) * 4
			pix[i+0] = byte(clamp01(cx)*255 + 0.5)
			pix[i+1] = byte(clamp01(cy)*255 + 0.5)
			pix[i+2] = 0
			pix[i+3] = 255
		}
	}
	return pix
}
