package typegen

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Kage shader sources ---
// All shaders use //kage:unit pixels as required by Ebitengine.
// Ebitengine uses premultiplied alpha; the color matrix shader
// un-premultiplies before processing and re-premultiplies its output.

const colorMatrixShaderSrc = `//kage:unit pixels
package main

var Matrix [20]float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	// Un-premultiply alpha.
	if c.a > 0 {
		c.rgb /= c.a
	}
	// Apply 4x5 color matrix (row-major, offset in elements 4, 9, 14, 19).
	r := Matrix[0]*c.r + Matrix[1]*c.g + Matrix[2]*c.b + Matrix[3]*c.a + Matrix[4]
	g := Matrix[5]*c.r + Matrix[6]*c.g + Matrix[7]*c.b + Matrix[8]*c.a + Matrix[9]
	b := Matrix[10]*c.r + Matrix[11]*c.g + Matrix[12]*c.b + Matrix[13]*c.a + Matrix[14]
	a := Matrix[15]*c.r + Matrix[16]*c.g + Matrix[17]*c.b + Matrix[18]*c.a + Matrix[19]
	// Clamp and re-premultiply.
	r = clamp(r, 0, 1)
	g = clamp(g, 0, 1)
	b = clamp(b, 0, 1)
	a = clamp(a, 0, 1)
	return vec4(r*a, g*a, b*a, a)
}
`

const displacementShaderSrc = `//kage:unit pixels
package main

var Scale float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	n := imageSrc1At(src)
	// Channel values of 0.5 mean no displacement.
	offset := vec2(n.r-0.5, n.g-0.5) * Scale
	return imageSrc0At(src + offset)
}
`

// The morphology kernel is capped at maxRadius taps because Kage loop
// bounds must be constants; the Radius uniform gates which taps contribute.
const morphologyShaderSrc = `//kage:unit pixels
package main

var Radius float
var Erode float

const maxRadius = 12

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	best := imageSrc0At(src)
	r2 := Radius * Radius
	for dy := -maxRadius; dy <= maxRadius; dy++ {
		for dx := -maxRadius; dx <= maxRadius; dx++ {
			d2 := float(dx*dx + dy*dy)
			if d2 > r2 {
				continue
			}
			c := imageSrc0At(src + vec2(float(dx), float(dy)))
			if Erode > 0.5 {
				best = min(best, c)
			} else {
				best = max(best, c)
			}
		}
	}
	return best
}
`

const specularShaderSrc = `//kage:unit pixels
package main

var SurfaceScale float
var SpecConst float
var SpecExp float
var Light vec3

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	// Height field from the alpha channel; finite-difference normal.
	hl := imageSrc0At(src + vec2(-1, 0)).a
	hr := imageSrc0At(src + vec2(1, 0)).a
	ht := imageSrc0At(src + vec2(0, -1)).a
	hb := imageSrc0At(src + vec2(0, 1)).a
	n := normalize(vec3(-SurfaceScale*(hr-hl)*0.5, -SurfaceScale*(hb-ht)*0.5, 1))

	h := imageSrc0At(src).a
	p := vec3(src.x, src.y, SurfaceScale*h)
	l := normalize(Light - p)
	// Blinn-Phong half vector with the eye on +Z.
	hv := normalize(l + vec3(0, 0, 1))
	s := SpecConst * pow(max(dot(n, hv), 0), SpecExp)
	a := clamp(s, 0, 1)
	// White light, premultiplied output.
	return vec4(a, a, a, a)
}
`

const arithmeticShaderSrc = `//kage:unit pixels
package main

var K vec4

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	a := imageSrc0At(src)
	b := imageSrc1At(src)
	r := K.x*a*b + K.y*a + K.z*b + vec4(K.w)
	return clamp(r, vec4(0), vec4(1))
}
`

// --- Lazy shader compilation (no sync.Once — rendering is single-threaded) ---

var (
	colorMatrixShader  *ebiten.Shader
	displacementShader *ebiten.Shader
	morphologyShader   *ebiten.Shader
	specularShader     *ebiten.Shader
	arithmeticShader   *ebiten.Shader
)

func ensureShader(cached **ebiten.Shader, name, src string) *ebiten.Shader {
	if *cached == nil {
		s, err := ebiten.NewShader([]byte(src))
		if err != nil {
			panic("typegen: failed to compile " + name + " shader: " + err.Error())
		}
		*cached = s
	}
	return *cached
}

// compositeInBlend implements Porter-Duff "in": source masked to the
// destination's alpha, destination discarded.
var compositeInBlend = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorDestinationAlpha,
	BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
	BlendFactorDestinationRGB:   ebiten.BlendFactorZero,
	BlendFactorDestinationAlpha: ebiten.BlendFactorZero,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// --- Buffer pool ---

// bufferPool recycles canvas-sized offscreen images between graph
// executions. After warmup, Render performs no image allocations.
type bufferPool struct {
	w, h int
	free []*ebiten.Image
}

// acquire returns a cleared canvas-sized image.
func (p *bufferPool) acquire() *ebiten.Image {
	if n := len(p.free); n > 0 {
		img := p.free[n-1]
		p.free = p.free[:n-1]
		img.Clear()
		return img
	}
	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, p.w, p.h),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// release returns an image to the pool. The image is cleared on next
// acquire, not here (avoids redundant GPU work if released then
// immediately re-acquired).
func (p *bufferPool) release(img *ebiten.Image) {
	if img != nil {
		p.free = append(p.free, img)
	}
}

// dispose deallocates all pooled images.
func (p *bufferPool) dispose() {
	for _, img := range p.free {
		img.Deallocate()
	}
	p.free = p.free[:0]
}

// --- GraphRenderer ---

// noiseKey identifies a synthesized noise texture for caching. The CPU
// synthesis is the expensive part of the pipeline, so the texture is
// reused until the noise stage's parameters change.
type noiseKey struct {
	kind    NoiseKind
	seed    int
	freqX   float64
	freqY   float64
	octaves int
}

// GraphRenderer executes compiled filter graphs on an ebiten substrate.
// All intermediate buffers share the renderer's canvas size and come from
// an internal pool. A renderer is not safe for concurrent use.
type GraphRenderer struct {
	w, h int
	pool bufferPool

	noiseImg *ebiten.Image
	noiseFor noiseKey

	buffers  []*ebiten.Image // scratch, indexed by BufferRef during Render
	uniforms map[string]any
	shaderOp ebiten.DrawRectShaderOptions
	imgOp    ebiten.DrawImageOptions
	blur     blurPass
}

// NewGraphRenderer creates a renderer for a w x h canvas.
func NewGraphRenderer(w, h int) *GraphRenderer {
	return &GraphRenderer{
		w: w, h: h,
		pool:     bufferPool{w: w, h: h},
		uniforms: make(map[string]any, 4),
	}
}

// Size returns the canvas dimensions.
func (r *GraphRenderer) Size() (w, h int) { return r.w, r.h }

// Render executes g with source as the SourceGraphic buffer and draws the
// graph's output into dst. Intermediate buffers are pooled and recycled
// before returning.
func (r *GraphRenderer) Render(g *Graph, source, dst *ebiten.Image) {
	if cap(r.buffers) < g.BufferCount() {
		r.buffers = make([]*ebiten.Image, g.BufferCount())
	}
	r.buffers = r.buffers[:g.BufferCount()]
	for i := range r.buffers {
		r.buffers[i] = nil
	}
	r.buffers[SourceGraphic] = source

	for i := range g.Stages {
		st := &g.Stages[i]
		out := r.pool.acquire()
		r.buffers[st.Output] = out
		r.runStage(st, out)
	}

	r.imgOp.GeoM.Reset()
	r.imgOp.ColorScale.Reset()
	r.imgOp.Blend = ebiten.BlendSourceOver
	r.imgOp.Filter = ebiten.FilterNearest
	dst.DrawImage(r.buffers[g.Output], &r.imgOp)

	// Recycle everything but the caller-owned source.
	for i := 1; i < len(r.buffers); i++ {
		r.pool.release(r.buffers[i])
		r.buffers[i] = nil
	}

	logger().Debug("graph rendered", "stages", len(g.Stages), "buffers", g.BufferCount())
}

// Dispose releases all pooled GPU images. The renderer may be reused after
// disposal; the pool simply refills.
func (r *GraphRenderer) Dispose() {
	r.pool.dispose()
	if r.noiseImg != nil {
		r.noiseImg.Deallocate()
		r.noiseImg = nil
		r.noiseFor = noiseKey{}
	}
}

// runStage dispatches one stage to its operation implementation.
func (r *GraphRenderer) runStage(st *Stage, out *ebiten.Image) {
	switch st.Op {
	case OpMorphology:
		r.runMorphology(st, out)
	case OpNoise:
		r.runNoise(st, out)
	case OpDisplacement:
		r.runDisplacement(st, out)
	case OpBlur:
		r.blur.apply(r.input(st, 0), out, st.Params.StdDev, &r.imgOp)
	case OpColorMatrix:
		r.runColorMatrix(st, out)
	case OpSpecular:
		r.runSpecular(st, out)
	case OpComposite:
		r.runComposite(st, out)
	case OpMerge:
		r.runMerge(st, out)
	}
}

// input returns the resolved image for a stage's n-th input handle.
func (r *GraphRenderer) input(st *Stage, n int) *ebiten.Image {
	return r.buffers[st.Inputs[n]]
}

func (r *GraphRenderer) resetUniforms() {
	for k := range r.uniforms {
		delete(r.uniforms, k)
	}
}

func (r *GraphRenderer) runMorphology(st *Stage, out *ebiten.Image) {
	shader := ensureShader(&morphologyShader, "morphology", morphologyShaderSrc)
	erode := float32(0)
	if st.Params.Operator == MorphErode {
		erode = 1
	}
	r.resetUniforms()
	r.uniforms["Radius"] = float32(math.Min(st.Params.Radius, 12))
	r.uniforms["Erode"] = erode
	r.drawShader(shader, out, r.input(st, 0), nil)
}

func (r *GraphRenderer) runNoise(st *Stage, out *ebiten.Image) {
	key := noiseKey{
		kind:    st.Params.Kind,
		seed:    st.Params.Seed,
		freqX:   st.Params.Freq.X,
		freqY:   st.Params.Freq.Y,
		octaves: st.Params.Octaves,
	}
	if r.noiseImg == nil {
		r.noiseImg = ebiten.NewImage(r.w, r.h)
		r.noiseFor = noiseKey{octaves: -1} // force first synthesis
	}
	if key != r.noiseFor {
		field := NewNoiseField(st.Params)
		r.noiseImg.WritePixels(field.Pixels(r.w, r.h))
		r.noiseFor = key
	}
	r.imgOp.GeoM.Reset()
	r.imgOp.ColorScale.Reset()
	r.imgOp.Blend = ebiten.BlendCopy
	r.imgOp.Filter = ebiten.FilterNearest
	out.DrawImage(r.noiseImg, &r.imgOp)
}

func (r *GraphRenderer) runDisplacement(st *Stage, out *ebiten.Image) {
	shader := ensureShader(&displacementShader, "displacement", displacementShaderSrc)
	r.resetUniforms()
	r.uniforms["Scale"] = float32(st.Params.Scale)
	r.drawShader(shader, out, r.input(st, 0), r.input(st, 1))
}

func (r *GraphRenderer) runColorMatrix(st *Stage, out *ebiten.Image) {
	shader := ensureShader(&colorMatrixShader, "color matrix", colorMatrixShaderSrc)
	m := make([]float32, 20)
	for i, v := range st.Params.Matrix {
		m[i] = float32(v)
	}
	r.resetUniforms()
	r.uniforms["Matrix"] = m
	r.drawShader(shader, out, r.input(st, 0), nil)
}

func (r *GraphRenderer) runSpecular(st *Stage, out *ebiten.Image) {
	shader := ensureShader(&specularShader, "specular", specularShaderSrc)
	r.resetUniforms()
	r.uniforms["SurfaceScale"] = float32(st.Params.SurfaceScale)
	r.uniforms["SpecConst"] = float32(st.Params.SpecularConstant)
	r.uniforms["SpecExp"] = float32(st.Params.SpecularExponent)
	r.uniforms["Light"] = []float32{
		float32(st.Params.LightX),
		float32(st.Params.LightY),
		float32(st.Params.LightZ),
	}
	r.drawShader(shader, out, r.input(st, 0), nil)
}

func (r *GraphRenderer) runComposite(st *Stage, out *ebiten.Image) {
	a, b := r.input(st, 0), r.input(st, 1)
	switch st.Params.CompOp {
	case CompositeIn:
		// Fill out with b's alpha, then draw a masked to it.
		r.imgOp.GeoM.Reset()
		r.imgOp.ColorScale.Reset()
		r.imgOp.Blend = ebiten.BlendCopy
		r.imgOp.Filter = ebiten.FilterNearest
		out.DrawImage(b, &r.imgOp)
		r.imgOp.Blend = compositeInBlend
		out.DrawImage(a, &r.imgOp)
	case CompositeOver:
		r.imgOp.GeoM.Reset()
		r.imgOp.ColorScale.Reset()
		r.imgOp.Blend = ebiten.BlendCopy
		r.imgOp.Filter = ebiten.FilterNearest
		out.DrawImage(b, &r.imgOp)
		r.imgOp.Blend = ebiten.BlendSourceOver
		out.DrawImage(a, &r.imgOp)
	case CompositeArithmetic:
		shader := ensureShader(&arithmeticShader, "arithmetic", arithmeticShaderSrc)
		r.resetUniforms()
		r.uniforms["K"] = []float32{
			float32(st.Params.K[0]),
			float32(st.Params.K[1]),
			float32(st.Params.K[2]),
			float32(st.Params.K[3]),
		}
		r.drawShader(shader, out, a, b)
	}
}

func (r *GraphRenderer) runMerge(st *Stage, out *ebiten.Image) {
	r.imgOp.GeoM.Reset()
	r.imgOp.ColorScale.Reset()
	r.imgOp.Blend = ebiten.BlendSourceOver
	r.imgOp.Filter = ebiten.FilterNearest
	for _, in := range st.Inputs {
		out.DrawImage(r.buffers[in], &r.imgOp)
	}
}

// drawShader runs a full-canvas shader pass with up to two source images.
func (r *GraphRenderer) drawShader(shader *ebiten.Shader, out, src0, src1 *ebiten.Image) {
	r.shaderOp.Images[0] = src0
	r.shaderOp.Images[1] = src1
	r.shaderOp.Uniforms = r.uniforms
	out.DrawRectShader(r.w, r.h, shader, &r.shaderOp)
	r.shaderOp.Images[0] = nil
	r.shaderOp.Images[1] = nil
}

// --- Blur pass ---

// blurPass applies a Kawase iterative blur using downscale/upscale passes.
// No Kage shader needed — bilinear filtering during DrawImage does the
// work. A zero std-deviation is an identity copy, never an elided pass.
type blurPass struct {
	temps []*ebiten.Image
}

// radiusFor converts a Gaussian std-deviation to an equivalent Kawase
// pixel radius.
func radiusFor(stdDev float64) int {
	return int(math.Ceil(stdDev * 2))
}

func (bp *blurPass) apply(src, dst *ebiten.Image, stdDev float64, op *ebiten.DrawImageOptions) {
	radius := radiusFor(stdDev)
	if radius <= 0 {
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.Blend = ebiten.BlendCopy
		op.Filter = ebiten.FilterNearest
		dst.DrawImage(src, op)
		return
	}

	// Number of iterations: log2(radius), minimum 1.
	passes := int(math.Ceil(math.Log2(float64(radius))))
	if passes < 1 {
		passes = 1
	}

	srcBounds := src.Bounds()
	w, h := srcBounds.Dx(), srcBounds.Dy()

	// Grow/shrink the temp chain; the downscale chain is reused upscaling.
	for len(bp.temps) < passes {
		bp.temps = append(bp.temps, nil)
	}
	for i := passes; i < len(bp.temps); i++ {
		if bp.temps[i] != nil {
			bp.temps[i].Deallocate()
			bp.temps[i] = nil
		}
	}
	bp.temps = bp.temps[:passes]

	op.Blend = ebiten.BlendSourceOver
	current := src
	for i := 0; i < passes; i++ {
		w = max(w/2, 1)
		h = max(h/2, 1)
		if bp.temps[i] == nil || bp.temps[i].Bounds().Dx() != w || bp.temps[i].Bounds().Dy() != h {
			if bp.temps[i] != nil {
				bp.temps[i].Deallocate()
			}
			bp.temps[i] = ebiten.NewImage(w, h)
		} else {
			bp.temps[i].Clear()
		}
		op.GeoM.Reset()
		op.ColorScale.Reset()
		sw := float64(current.Bounds().Dx())
		sh := float64(current.Bounds().Dy())
		op.GeoM.Scale(float64(w)/sw, float64(h)/sh)
		op.Filter = ebiten.FilterLinear
		bp.temps[i].DrawImage(current, op)
		current = bp.temps[i]
	}

	for i := passes - 2; i >= 0; i-- {
		bp.temps[i].Clear()
		op.GeoM.Reset()
		op.ColorScale.Reset()
		sw := float64(current.Bounds().Dx())
		sh := float64(current.Bounds().Dy())
		tw := float64(bp.temps[i].Bounds().Dx())
		th := float64(bp.temps[i].Bounds().Dy())
		op.GeoM.Scale(tw/sw, th/sh)
		op.Filter = ebiten.FilterLinear
		bp.temps[i].DrawImage(current, op)
		current = bp.temps[i]
	}

	op.GeoM.Reset()
	op.ColorScale.Reset()
	sw := float64(current.Bounds().Dx())
	sh := float64(current.Bounds().Dy())
	tw := float64(dst.Bounds().Dx())
	th := float64(dst.Bounds().Dy())
	op.GeoM.Scale(tw/sw, th/sh)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(current, op)
}
