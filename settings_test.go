package typegen

import "testing"

func TestDefaultSettingsAlreadyClamped(t *testing.T) {
	def := DefaultSettings()
	if got := def.Clamp(); got != def {
		t.Errorf("Clamp changed the defaults:\n got %+v\nwant %+v", got, def)
	}
}

func TestClampForcesRanges(t *testing.T) {
	s := TypeSettings{
		FontSize:           -10,
		LineHeight:         0,
		MorphRadius:        -2,
		DistortionX:        -1,
		DistortionY:        -0.5,
		DistortionStrength: -8,
		NoiseSeed:          0,
		BlurStdDev:         -3,
		Contrast:           0.2,
		NumMetaballs:       -4,
		MetaballSpread:     -10,
		MetaballSpeed:      -1,
		StrokeWidth:        -2,
	}
	got := s.Clamp()

	if got.FontSize < 1 {
		t.Errorf("FontSize = %v, want >= 1", got.FontSize)
	}
	if got.LineHeight < 0.1 {
		t.Errorf("LineHeight = %v, want >= 0.1", got.LineHeight)
	}
	if got.MorphRadius != 0 {
		t.Errorf("MorphRadius = %v, want 0", got.MorphRadius)
	}
	if got.DistortionX != 0 || got.DistortionY != 0 {
		t.Errorf("Distortion = (%v, %v), want (0, 0)", got.DistortionX, got.DistortionY)
	}
	if got.DistortionStrength != 0 {
		t.Errorf("DistortionStrength = %v, want 0", got.DistortionStrength)
	}
	if got.NoiseSeed != 1 {
		t.Errorf("NoiseSeed = %v, want 1", got.NoiseSeed)
	}
	if got.BlurStdDev != 0 {
		t.Errorf("BlurStdDev = %v, want 0", got.BlurStdDev)
	}
	if got.Contrast != 1 {
		t.Errorf("Contrast = %v, want 1", got.Contrast)
	}
	if got.NumMetaballs != 0 {
		t.Errorf("NumMetaballs = %v, want 0", got.NumMetaballs)
	}
	if got.MetaballSpread != 0 {
		t.Errorf("MetaballSpread = %v, want 0", got.MetaballSpread)
	}
	if got.MetaballSpeed != 0 {
		t.Errorf("MetaballSpeed = %v, want 0", got.MetaballSpeed)
	}
	if got.StrokeWidth != 0 {
		t.Errorf("StrokeWidth = %v, want 0", got.StrokeWidth)
	}
}

func TestClampColors(t *testing.T) {
	s := DefaultSettings()
	s.FillColor = Color{R: 2, G: -1, B: 0.5, A: 1.5}
	got := s.Clamp().FillColor
	want := Color{R: 1, G: 0, B: 0.5, A: 1}
	if got != want {
		t.Errorf("clamped FillColor = %+v, want %+v", got, want)
	}
}

func TestAnimationActive(t *testing.T) {
	tests := []struct {
		name  string
		count int
		speed float64
		want  bool
	}{
		{"both positive", 5, 1, true},
		{"zero speed", 5, 0, false},
		{"zero count", 0, 1, false},
		{"both zero", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			s.NumMetaballs = tt.count
			s.MetaballSpeed = tt.speed
			if got := s.AnimationActive(); got != tt.want {
				t.Errorf("AnimationActive() = %v, want %v", got, tt.want)
			}
		})
	}
}
