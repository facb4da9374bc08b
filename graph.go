package typegen

// OpKind identifies an image-processing operation in the compiled graph.
type OpKind uint8

const (
	OpMorphology   OpKind = iota // dilate or erode the silhouette
	OpNoise                      // synthesize a two-channel noise field
	OpDisplacement               // offset shape pixels by the noise field
	OpBlur                       // Gaussian blur (σ = 0 is identity)
	OpColorMatrix                // 4x5 affine per-channel remap
	OpSpecular                   // point-light specular over a height field
	OpComposite                  // Porter-Duff or arithmetic combine of two buffers
	OpMerge                      // stack N buffers back-to-front
)

// String returns the operation name as used in exports and logs.
func (k OpKind) String() string {
	switch k {
	case OpMorphology:
		return "morphology"
	case OpNoise:
		return "noise"
	case OpDisplacement:
		return "displacement"
	case OpBlur:
		return "blur"
	case OpColorMatrix:
		return "colorMatrix"
	case OpSpecular:
		return "specular"
	case OpComposite:
		return "composite"
	case OpMerge:
		return "merge"
	default:
		return "unknown"
	}
}

// CompositeOp selects how OpComposite combines its two inputs.
type CompositeOp uint8

const (
	// CompositeIn keeps the first input masked to the second's alpha.
	CompositeIn CompositeOp = iota
	// CompositeOver draws the first input over the second.
	CompositeOver
	// CompositeArithmetic computes k1*a*b + k2*a + k3*b + k4 per channel.
	CompositeArithmetic
)

// String returns the composite operator name as used in exports.
func (c CompositeOp) String() string {
	switch c {
	case CompositeIn:
		return "in"
	case CompositeOver:
		return "over"
	default:
		return "arithmetic"
	}
}

// BufferRef is a typed handle to an intermediate buffer. Refs index the
// Graph's buffer arena, so a stage can never reference the output of an
// elided stage: the handle simply does not exist in that graph.
type BufferRef int

// SourceGraphic is the raw shape buffer every graph starts from.
const SourceGraphic BufferRef = 0

// Stage is one node of the compiled filter graph. Inputs and Output are
// buffer handles; Params carries the operation's numeric settings. Unused
// param fields are zero.
type Stage struct {
	Op     OpKind
	Inputs []BufferRef
	Output BufferRef
	Params StageParams
}

// StageParams is the union of per-operation settings. Which fields are
// meaningful depends on the stage's OpKind.
type StageParams struct {
	// OpMorphology
	Operator MorphOperator
	Radius   float64

	// OpNoise
	Kind    NoiseKind
	Freq    Vec2
	Seed    int
	Octaves int

	// OpDisplacement
	Scale float64

	// OpBlur
	StdDev float64

	// OpColorMatrix: 4x5 row-major, offsets in elements 4, 9, 14, 19.
	Matrix [20]float64

	// OpSpecular
	SurfaceScale     float64
	SpecularConstant float64
	SpecularExponent float64
	LightX           float64
	LightY           float64
	LightZ           float64

	// OpComposite
	CompOp CompositeOp
	K      [4]float64
}

// Graph is a compiled, single-output filter DAG. Stages are listed in
// execution order; every stage reads only handles produced by earlier
// stages (or SourceGraphic). Output is the handle of the composite result.
type Graph struct {
	names  []string
	Stages []Stage
	Output BufferRef
}

// BufferName returns the debug/export name of a buffer handle.
func (g *Graph) BufferName(ref BufferRef) string {
	return g.names[ref]
}

// BufferCount returns the number of buffers the graph allocates, including
// the source graphic.
func (g *Graph) BufferCount() int {
	return len(g.names)
}

// newBuffer appends a buffer descriptor and returns its handle.
func (g *Graph) newBuffer(name string) BufferRef {
	g.names = append(g.names, name)
	return BufferRef(len(g.names) - 1)
}

// add appends a stage writing a fresh buffer with the given name and
// returns that buffer's handle.
func (g *Graph) add(op OpKind, inputs []BufferRef, name string, p StageParams) BufferRef {
	out := g.newBuffer(name)
	g.Stages = append(g.Stages, Stage{Op: op, Inputs: inputs, Output: out, Params: p})
	return out
}

// identityRGB returns a color matrix that leaves RGB untouched and remaps
// alpha as alpha' = gain*alpha + offset.
func identityRGB(gain, offset float64) [20]float64 {
	return [20]float64{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, gain, offset,
	}
}

// Material lighting constants. These are tuned values, not derived; the
// chrome highlight is deliberately hard and the glass one soft.
const (
	chromeBumpBlur   = 1.0
	chromeSurface    = 4.0
	chromeSpecConst  = 1.2
	chromeSpecExp    = 24.0
	glassBumpBlur    = 3.0
	glassSurface     = 3.0
	glassSpecConst   = 0.8
	glassSpecExp     = 8.0
	glassBaseAlpha   = 0.4
	neonGlowSmall    = 2.0
	neonGlowMedium   = 6.0
	neonGlowLarge    = 12.0
	lightPosX        = -120.0
	lightPosY        = -180.0
	lightPosZ        = 320.0
	noiseOctaveCount = 2
)

// Compile maps a clamped TypeSettings record to its filter graph. The
// mapping is pure and total: the same settings always yield an identical
// graph, and no valid settings value can fail to compile. Stages 2-5
// (noise, displacement, blur, contrast remap) are always present; the
// morphology stage is elided entirely when MorphRadius is zero, and
// exactly one material branch is emitted for the selected TextureMode.
func Compile(s TypeSettings) Graph {
	var g Graph
	g.newBuffer("source") // SourceGraphic

	shape := SourceGraphic
	if s.MorphRadius > 0 {
		shape = g.add(OpMorphology, []BufferRef{SourceGraphic}, "morphed", StageParams{
			Operator: s.MorphOperator,
			Radius:   s.MorphRadius,
		})
	}

	noise := g.add(OpNoise, nil, "noise", StageParams{
		Kind:    s.NoiseType,
		Freq:    Vec2{s.DistortionX, s.DistortionY},
		Seed:    s.NoiseSeed,
		Octaves: noiseOctaveCount,
	})

	distorted := g.add(OpDisplacement, []BufferRef{shape, noise}, "distorted", StageParams{
		Scale: s.DistortionStrength,
	})

	// Always emitted, even at σ = 0 (identity blur): the material branches
	// read "blurred" unconditionally.
	blurred := g.add(OpBlur, []BufferRef{distorted}, "blurred", StageParams{
		StdDev: s.BlurStdDev,
	})

	// The gain/offset pair recenters the blur falloff around its midpoint
	// before sharpening, which is what merges overlapping soft edges into
	// a single blob.
	goo := g.add(OpColorMatrix, []BufferRef{blurred}, "gooShape", StageParams{
		Matrix: identityRGB(s.Contrast, -(s.Contrast * 0.5)),
	})

	g.Output = compileMaterial(&g, s.TextureMode, goo)
	return g
}

// compileMaterial emits the material branch for mode and returns the final
// buffer handle. The switch is exhaustive over TextureMode.
func compileMaterial(g *Graph, mode TextureMode, goo BufferRef) BufferRef {
	switch mode {
	case TextureChrome:
		bump := g.add(OpBlur, []BufferRef{goo}, "bump", StageParams{StdDev: chromeBumpBlur})
		spec := g.add(OpSpecular, []BufferRef{bump}, "specular", StageParams{
			SurfaceScale:     chromeSurface,
			SpecularConstant: chromeSpecConst,
			SpecularExponent: chromeSpecExp,
			LightX:           lightPosX,
			LightY:           lightPosY,
			LightZ:           lightPosZ,
		})
		masked := g.add(OpComposite, []BufferRef{spec, goo}, "litSpecular", StageParams{
			CompOp: CompositeIn,
		})
		return g.add(OpComposite, []BufferRef{masked, goo}, "chrome", StageParams{
			CompOp: CompositeArithmetic,
			K:      [4]float64{0, 1, 1, 0},
		})

	case TextureGlass:
		bump := g.add(OpBlur, []BufferRef{goo}, "bump", StageParams{StdDev: glassBumpBlur})
		spec := g.add(OpSpecular, []BufferRef{bump}, "specular", StageParams{
			SurfaceScale:     glassSurface,
			SpecularConstant: glassSpecConst,
			SpecularExponent: glassSpecExp,
			LightX:           lightPosX,
			LightY:           lightPosY,
			LightZ:           lightPosZ,
		})
		masked := g.add(OpComposite, []BufferRef{spec, goo}, "litSpecular", StageParams{
			CompOp: CompositeIn,
		})
		base := g.add(OpColorMatrix, []BufferRef{goo}, "glassBase", StageParams{
			Matrix: identityRGB(glassBaseAlpha, 0),
		})
		return g.add(OpComposite, []BufferRef{masked, base}, "glass", StageParams{
			CompOp: CompositeOver,
		})

	case TextureNeon:
		glow1 := g.add(OpBlur, []BufferRef{goo}, "glow1", StageParams{StdDev: neonGlowSmall})
		glow2 := g.add(OpBlur, []BufferRef{goo}, "glow2", StageParams{StdDev: neonGlowMedium})
		glow3 := g.add(OpBlur, []BufferRef{goo}, "glow3", StageParams{StdDev: neonGlowLarge})
		// Largest halo at the back; the doubled sharp shape saturates the core.
		return g.add(OpMerge, []BufferRef{glow3, glow2, glow1, goo, goo}, "neon", StageParams{})

	default: // TextureSolid
		return goo
	}
}
