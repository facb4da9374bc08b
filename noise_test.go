package typegen

import "testing"

func noiseParams(kind NoiseKind, seed int) StageParams {
	return StageParams{Kind: kind, Freq: Vec2{0.02, 0.02}, Seed: seed, Octaves: 2}
}

func TestNoiseFieldDeterministic(t *testing.T) {
	a := NewNoiseField(noiseParams(NoiseTurbulence, 5))
	b := NewNoiseField(noiseParams(NoiseTurbulence, 5))
	for y := 0.0; y < 50; y += 7 {
		for x := 0.0; x < 50; x += 7 {
			ax, ay := a.Sample(x, y)
			bx, by := b.Sample(x, y)
			if ax != bx || ay != by {
				t.Fatalf("fields with equal params differ at (%v, %v)", x, y)
			}
		}
	}
}

func TestNoiseFieldSampleRange(t *testing.T) {
	for _, kind := range []NoiseKind{NoiseTurbulence, NoiseFractal} {
		f := NewNoiseField(noiseParams(kind, 11))
		for y := 0.0; y < 200; y += 13 {
			for x := 0.0; x < 200; x += 13 {
				cx, cy := f.Sample(x, y)
				if cx < 0 || cx > 1 || cy < 0 || cy > 1 {
					t.Fatalf("%v sample (%v, %v) = (%v, %v), want channels in [0, 1]",
						kind, x, y, cx, cy)
				}
			}
		}
	}
}

func TestNoiseFieldSeedVariation(t *testing.T) {
	a := NewNoiseField(noiseParams(NoiseTurbulence, 1))
	b := NewNoiseField(noiseParams(NoiseTurbulence, 2))
	differs := false
	for x := 0.0; x < 100 && !differs; x += 3 {
		ax, _ := a.Sample(x, 10)
		bx, _ := b.Sample(x, 10)
		if ax != bx {
			differs = true
		}
	}
	if !differs {
		t.Error("seeds 1 and 2 produced identical fields")
	}
}

func TestNoiseFieldChannelsDecorrelated(t *testing.T) {
	f := NewNoiseField(noiseParams(NoiseFractal, 3))
	same := true
	for x := 0.0; x < 100 && same; x += 3 {
		cx, cy := f.Sample(x, 42)
		if cx != cy {
			same = false
		}
	}
	if same {
		t.Error("horizontal and vertical channels are identical")
	}
}

func TestNoiseFieldPixels(t *testing.T) {
	const w, h = 16, 9
	f := NewNoiseField(noiseParams(NoiseTurbulence, 8))
	pix := f.Pixels(w, h)
	if len(pix) != 4*w*h {
		t.Fatalf("pixel buffer length = %d, want %d", len(pix), 4*w*h)
	}
	for i := 0; i < len(pix); i += 4 {
		if pix[i+2] != 0 {
			t.Fatalf("pixel %d blue channel = %d, want 0", i/4, pix[i+2])
		}
		if pix[i+3] != 255 {
			t.Fatalf("pixel %d alpha = %d, want 255", i/4, pix[i+3])
		}
	}
}

func TestNoiseFieldOctaveFloor(t *testing.T) {
	p := noiseParams(NoiseTurbulence, 1)
	p.Octaves = 0
	f := NewNoiseField(p)
	if f.octaves != 1 {
		t.Errorf("octaves = %d, want floor of 1", f.octaves)
	}
}
