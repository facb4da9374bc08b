package typegen

import "math"

// TypeSettings is the flat parameter record driving the whole pipeline.
// It is treated as an immutable snapshot: callers replace the whole value
// rather than mutating fields of a shared instance, so compile and anchor
// derivation never observe a partial update.
//
// The JSON tags define the wire schema used by the suggestion service.
type TypeSettings struct {
	// Content
	Text          string     `json:"text"`
	FontFamily    FontFamily `json:"fontFamily"`
	FontSize      float64    `json:"fontSize"`
	LetterSpacing float64    `json:"letterSpacing"`
	LineHeight    float64    `json:"lineHeight"` // multiplier of FontSize

	// Transform, degrees, about the shape's own bounding-box center.
	Rotation float64 `json:"rotation"`
	SkewX    float64 `json:"skewX"`
	SkewY    float64 `json:"skewY"`

	// Morphology. Zero radius elides the stage entirely.
	MorphRadius   float64       `json:"morphRadius"`
	MorphOperator MorphOperator `json:"morphOperator"`

	// Distortion
	DistortionX        float64   `json:"distortionX"` // spatial frequency per axis
	DistortionY        float64   `json:"distortionY"`
	DistortionStrength float64   `json:"distortionStrength"`
	NoiseType          NoiseKind `json:"noiseType"`
	NoiseSeed          int       `json:"noiseSeed"` // shared by noise stage and metaball layout

	// Liquification
	BlurStdDev float64 `json:"blurStdDev"`
	Contrast   float64 `json:"contrast"` // alpha gain post-blur; >=1

	// Material
	TextureMode TextureMode `json:"textureMode"`

	// Metaballs
	NumMetaballs   int     `json:"numMetaballs"`
	MetaballSpread float64 `json:"metaballSpread"` // percentage-space jitter magnitude
	MetaballSpeed  float64 `json:"metaballSpeed"`  // 0 freezes the animation clock

	// Style
	FillColor       Color   `json:"fillColor"`
	StrokeColor     Color   `json:"strokeColor"`
	BackgroundColor Color   `json:"backgroundColor"`
	StrokeWidth     float64 `json:"strokeWidth"`
	ShowFill        bool    `json:"showFill"`
	ShowStroke      bool    `json:"showStroke"`
}

// DefaultSettings returns the parameter record for a freshly opened document.
func DefaultSettings() TypeSettings {
	return TypeSettings{
		Text:          "Goo",
		FontFamily:    FontInter,
		FontSize:      120,
		LetterSpacing: 0,
		LineHeight:    1.1,

		MorphRadius:   0,
		MorphOperator: MorphDilate,

		DistortionX:        0.01,
		DistortionY:        0.01,
		DistortionStrength: 12,
		NoiseType:          NoiseTurbulence,
		NoiseSeed:          1,

		BlurStdDev: 6,
		Contrast:   20,

		TextureMode: TextureSolid,

		NumMetaballs:   6,
		MetaballSpread: 40,
		MetaballSpeed:  1,

		FillColor:       ColorWhite,
		StrokeColor:     ColorBlack,
		BackgroundColor: Color{0.07, 0.07, 0.09, 1},
		StrokeWidth:     0,
		ShowFill:        true,
		ShowStroke:      false,
	}
}

// Clamp returns a copy of s with every field forced into its valid range.
// This is the single validation boundary: Compile and DeriveAnchors assume
// a clamped record and are total over it.
func (s TypeSettings) Clamp() TypeSettings {
	s.FontSize = math.Max(s.FontSize, 1)
	s.LineHeight = math.Max(s.LineHeight, 0.1)

	s.MorphRadius = math.Max(s.MorphRadius, 0)
	s.DistortionX = math.Max(s.DistortionX, 0)
	s.DistortionY = math.Max(s.DistortionY, 0)
	s.DistortionStrength = math.Max(s.DistortionStrength, 0)
	if s.NoiseSeed < 1 {
		s.NoiseSeed = 1
	}

	s.BlurStdDev = math.Max(s.BlurStdDev, 0)
	s.Contrast = math.Max(s.Contrast, 1)

	if s.NumMetaballs < 0 {
		s.NumMetaballs = 0
	}
	s.MetaballSpread = math.Max(s.MetaballSpread, 0)
	s.MetaballSpeed = math.Max(s.MetaballSpeed, 0)

	s.StrokeWidth = math.Max(s.StrokeWidth, 0)

	s.FillColor = s.FillColor.clamp()
	s.StrokeColor = s.StrokeColor.clamp()
	s.BackgroundColor = s.BackgroundColor.clamp()
	return s
}

// clamp forces each color component into [0, 1].
func (c Color) clamp() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
}

// AnimationActive reports whether the metaball animation clock should run
// for this parameter record. When false the refresh subscription must be
// torn down, not merely skipped.
func (s TypeSettings) AnimationActive() bool {
	return s.NumMetaballs > 0 && s.MetaballSpeed > 0
}
