package typegen

import (
	"encoding/json"
	"fmt"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default fill (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorBlack is the default stroke and background.
var ColorBlack = Color{0, 0, 0, 1}

// Vec2 is a 2D vector used for positions, offsets, and frequencies
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// FontFamily selects one of the bundled typeface slots. Faces are resolved
// through a FontLibrary at draw time; the enum itself carries no font data.
type FontFamily uint8

const (
	FontInter FontFamily = iota
	FontPlayfair
	FontSpaceGrotesk
	FontJetBrainsMono
	FontBodoni
)

// String returns the canonical family name used in exports and the
// suggestion protocol.
func (f FontFamily) String() string {
	switch f {
	case FontInter:
		return "Inter"
	case FontPlayfair:
		return "Playfair Display"
	case FontSpaceGrotesk:
		return "Space Grotesk"
	case FontJetBrainsMono:
		return "JetBrains Mono"
	case FontBodoni:
		return "Bodoni Moda"
	default:
		return "Inter"
	}
}

// MarshalJSON encodes the family as its canonical name, matching the
// suggestion-service wire schema.
func (f FontFamily) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// ParseFontFamily maps a canonical family name back to its enum value.
func ParseFontFamily(name string) (FontFamily, error) {
	for f := FontInter; f <= FontBodoni; f++ {
		if f.String() == name {
			return f, nil
		}
	}
	return FontInter, fmt.Errorf("unknown font family %q", name)
}

// MorphOperator selects the morphology operation.
type MorphOperator uint8

const (
	MorphDilate MorphOperator = iota // thicken the silhouette
	MorphErode                       // thin the silhouette
)

// String returns the operator name as used in exports.
func (m MorphOperator) String() string {
	if m == MorphErode {
		return "erode"
	}
	return "dilate"
}

// MarshalJSON encodes the operator as its name.
func (m MorphOperator) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// ParseMorphOperator maps an operator name back to its enum value.
func ParseMorphOperator(name string) (MorphOperator, error) {
	switch name {
	case "dilate":
		return MorphDilate, nil
	case "erode":
		return MorphErode, nil
	}
	return MorphDilate, fmt.Errorf("unknown morph operator %q", name)
}

// NoiseKind selects the statistical flavor of the distortion noise field.
type NoiseKind uint8

const (
	// NoiseTurbulence takes the absolute value of each octave, producing
	// billowy, always-positive ridges.
	NoiseTurbulence NoiseKind = iota
	// NoiseFractal sums signed octaves, producing smoother rolling noise.
	NoiseFractal
)

// String returns the noise kind name as used in exports.
func (n NoiseKind) String() string {
	if n == NoiseFractal {
		return "fractalNoise"
	}
	return "turbulence"
}

// MarshalJSON encodes the kind as its name.
func (n NoiseKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.String())
}

// ParseNoiseKind maps a noise kind name back to its enum value.
func ParseNoiseKind(name string) (NoiseKind, error) {
	switch name {
	case "turbulence":
		return NoiseTurbulence, nil
	case "fractalNoise":
		return NoiseFractal, nil
	}
	return NoiseTurbulence, fmt.Errorf("unknown noise kind %q", name)
}

// TextureMode selects the material branch of the compiled filter graph.
type TextureMode uint8

const (
	TextureSolid TextureMode = iota // flat fill, no lighting
	TextureChrome                   // hard metallic specular highlight
	TextureGlass                    // translucent base under a soft highlight
	TextureNeon                     // layered glow halos around a bright core
)

// String returns the texture mode name as used in exports.
func (t TextureMode) String() string {
	switch t {
	case TextureChrome:
		return "chrome"
	case TextureGlass:
		return "glass"
	case TextureNeon:
		return "neon"
	default:
		return "solid"
	}
}

// MarshalJSON encodes the mode as its name.
func (t TextureMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// ParseTextureMode maps a texture mode name back to its enum value.
func ParseTextureMode(name string) (TextureMode, error) {
	switch name {
	case "solid":
		return TextureSolid, nil
	case "chrome":
		return TextureChrome, nil
	case "glass":
		return TextureGlass, nil
	case "neon":
		return TextureNeon, nil
	}
	return TextureSolid, fmt.Errorf("unknown texture mode %q", name)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
