package typegen

import (
	"encoding/xml"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- SVG export ---

// svgWriter collects output and remembers the first write error, so the
// serialization code can stay free of per-line error checks.
type svgWriter struct {
	w   io.Writer
	err error
}

func (sw *svgWriter) printf(format string, args ...any) {
	if sw.err != nil {
		return
	}
	_, sw.err = fmt.Fprintf(sw.w, format, args...)
}

// num formats a float for an SVG attribute without trailing zeros.
func num(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}

// hexRGB returns the color as a #rrggbb hex triplet; the alpha component is
// expressed separately through *-opacity attributes.
func (c Color) hexRGB() string {
	return fmt.Sprintf("#%02x%02x%02x",
		uint8(clamp01(c.R)*255+0.5),
		uint8(clamp01(c.G)*255+0.5),
		uint8(clamp01(c.B)*255+0.5))
}

// inputName resolves a buffer handle to its SVG primitive reference.
func inputName(g *Graph, ref BufferRef) string {
	if ref == SourceGraphic {
		return "SourceGraphic"
	}
	return g.BufferName(ref)
}

// writeFilterPrimitives serializes every stage of g as an SVG filter
// primitive, one per stage, in execution order. Buffer names become
// result/in attributes, so the emitted filter mirrors the compiled graph
// exactly.
func writeFilterPrimitives(sw *svgWriter, g *Graph) {
	for i := range g.Stages {
		st := &g.Stages[i]
		p := &st.Params
		out := g.BufferName(st.Output)

		switch st.Op {
		case OpMorphology:
			sw.printf("      <feMorphology in=%q operator=%q radius=%q result=%q/>\n",
				inputName(g, st.Inputs[0]), p.Operator, num(p.Radius), out)

		case OpNoise:
			sw.printf("      <feTurbulence type=%q baseFrequency=\"%s %s\" numOctaves=\"%d\" seed=\"%d\" result=%q/>\n",
				p.Kind, num(p.Freq.X), num(p.Freq.Y), p.Octaves, p.Seed, out)

		case OpDisplacement:
			sw.printf("      <feDisplacementMap in=%q in2=%q scale=%q xChannelSelector=\"R\" yChannelSelector=\"G\" result=%q/>\n",
				inputName(g, st.Inputs[0]), inputName(g, st.Inputs[1]), num(p.Scale), out)

		case OpBlur:
			sw.printf("      <feGaussianBlur in=%q stdDeviation=%q result=%q/>\n",
				inputName(g, st.Inputs[0]), num(p.StdDev), out)

		case OpColorMatrix:
			vals := make([]string, len(p.Matrix))
			for j, v := range p.Matrix {
				vals[j] = num(v)
			}
			sw.printf("      <feColorMatrix in=%q type=\"matrix\" values=%q result=%q/>\n",
				inputName(g, st.Inputs[0]), strings.Join(vals, " "), out)

		case OpSpecular:
			sw.printf("      <feSpecularLighting in=%q surfaceScale=%q specularConstant=%q specularExponent=%q lighting-color=\"#ffffff\" result=%q>\n",
				inputName(g, st.Inputs[0]), num(p.SurfaceScale), num(p.SpecularConstant), num(p.SpecularExponent), out)
			sw.printf("        <fePointLight x=%q y=%q z=%q/>\n", num(p.LightX), num(p.LightY), num(p.LightZ))
			sw.printf("      </feSpecularLighting>\n")

		case OpComposite:
			if p.CompOp == CompositeArithmetic {
				sw.printf("      <feComposite in=%q in2=%q operator=\"arithmetic\" k1=%q k2=%q k3=%q k4=%q result=%q/>\n",
					inputName(g, st.Inputs[0]), inputName(g, st.Inputs[1]),
					num(p.K[0]), num(p.K[1]), num(p.K[2]), num(p.K[3]), out)
			} else {
				sw.printf("      <feComposite in=%q in2=%q operator=%q result=%q/>\n",
					inputName(g, st.Inputs[0]), inputName(g, st.Inputs[1]), p.CompOp, out)
			}

		case OpMerge:
			sw.printf("      <feMerge result=%q>\n", out)
			for _, in := range st.Inputs {
				sw.printf("        <feMergeNode in=%q/>\n", inputName(g, in))
			}
			sw.printf("      </feMerge>\n")
		}
	}
}

// blockTransform builds the rotate/skew-about-center transform attribute,
// or an empty string when the block is untransformed.
func blockTransform(s TypeSettings, cx, cy float64) string {
	if s.Rotation == 0 && s.SkewX == 0 && s.SkewY == 0 {
		return ""
	}
	var parts []string
	parts = append(parts, fmt.Sprintf("translate(%s %s)", num(cx), num(cy)))
	if s.Rotation != 0 {
		parts = append(parts, fmt.Sprintf("rotate(%s)", num(s.Rotation)))
	}
	if s.SkewX != 0 {
		parts = append(parts, fmt.Sprintf("skewX(%s)", num(s.SkewX)))
	}
	if s.SkewY != 0 {
		parts = append(parts, fmt.Sprintf("skewY(%s)", num(s.SkewY)))
	}
	parts = append(parts, fmt.Sprintf("translate(%s %s)", num(-cx), num(-cy)))
	return strings.Join(parts, " ")
}

// RenderSVG serializes the composite described by s as a standalone SVG
// document of the given pixel size: the compiled filter graph as filter
// primitives, the metaball circles at their positions for clockTime, and
// the text block, all under the filter. The output is deterministic for
// equal inputs.
func RenderSVG(w io.Writer, s TypeSettings, anchors []Anchor, clockTime float64, width, height int) error {
	s = s.Clamp()
	g := Compile(s)
	sw := &svgWriter{w: w}

	fw, fh := float64(width), float64(height)
	cx, cy := fw/2, fh/2

	sw.printf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	sw.printf("<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\">\n",
		width, height, width, height)

	// The filter region is widened so blur and displacement are not clipped
	// at the shape's bounding box.
	sw.printf("  <defs>\n")
	sw.printf("    <filter id=\"typegen\" x=\"-50%%\" y=\"-50%%\" width=\"200%%\" height=\"200%%\" color-interpolation-filters=\"sRGB\">\n")
	writeFilterPrimitives(sw, &g)
	sw.printf("    </filter>\n")
	sw.printf("  </defs>\n")

	sw.printf("  <rect width=\"100%%\" height=\"100%%\" fill=%q fill-opacity=%q/>\n",
		s.BackgroundColor.hexRGB(), num(s.BackgroundColor.A))

	sw.printf("  <g filter=\"url(#typegen)\">\n")

	rScale := fw
	if fh < fw {
		rScale = fh
	}
	for _, a := range anchors {
		x, y := FramePosition(a, s, clockTime)
		sw.printf("    <circle cx=%q cy=%q r=%q fill=%q fill-opacity=%q/>\n",
			num(x/100*fw), num(y/100*fh), num(a.Radius/100*rScale),
			s.FillColor.hexRGB(), num(s.FillColor.A))
	}

	writeSVGText(sw, s, cx, cy)

	sw.printf("  </g>\n")
	sw.printf("</svg>\n")
	return sw.err
}

// writeSVGText emits one <text> element per line, block vertically centered
// on (cx, cy) with leading = LineHeight * FontSize.
func writeSVGText(sw *svgWriter, s TypeSettings, cx, cy float64) {
	if s.Text == "" || (!s.ShowFill && !s.ShowStroke) {
		return
	}

	lines := splitLines(s.Text)
	leading := s.LineHeight * s.FontSize
	offsets := lineOffsets(len(lines), leading)

	style := fmt.Sprintf("font-family=%q font-size=%q letter-spacing=%q text-anchor=\"middle\"",
		s.FontFamily, num(s.FontSize), num(s.LetterSpacing))
	if s.ShowFill {
		style += fmt.Sprintf(" fill=%q fill-opacity=%q", s.FillColor.hexRGB(), num(s.FillColor.A))
	} else {
		style += " fill=\"none\""
	}
	if s.ShowStroke && s.StrokeWidth > 0 {
		style += fmt.Sprintf(" stroke=%q stroke-opacity=%q stroke-width=%q",
			s.StrokeColor.hexRGB(), num(s.StrokeColor.A), num(s.StrokeWidth))
	}
	if tr := blockTransform(s, cx, cy); tr != "" {
		style += fmt.Sprintf(" transform=%q", tr)
	}

	for i, line := range lines {
		var escaped strings.Builder
		if err := xml.EscapeText(&escaped, []byte(line)); err != nil && sw.err == nil {
			sw.err = fmt.Errorf("escape text line: %w", err)
			return
		}
		sw.printf("    <text x=%q y=%q %s>%s</text>\n",
			num(cx), num(cy+offsets[i]), style, escaped.String())
	}
}

// ExportSVG writes the session's current composite as an SVG file. The
// emitted filter primitives mirror the compiled graph, so an SVG renderer
// reproduces the same logical pipeline.
func (c *Composition) ExportSVG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w, h := c.renderer.Size()
	if err := RenderSVG(f, c.settings, c.anchors, c.clock.Time(), w, h); err != nil {
		f.Close()
		logger().Error("svg export failed", "path", path, "error", err)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	logger().Debug("svg exported", "path", path)
	return nil
}

// --- PNG export ---

// scaleForExport returns s adjusted for rasterization at k times the
// canvas resolution: pixel-denominated fields grow with the canvas and the
// noise frequencies shrink so the distortion pattern keeps its on-screen
// size.
func scaleForExport(s TypeSettings, k float64) TypeSettings {
	s.FontSize *= k
	s.LetterSpacing *= k
	s.StrokeWidth *= k
	s.MorphRadius *= k
	s.BlurStdDev *= k
	s.DistortionStrength *= k
	s.DistortionX /= k
	s.DistortionY /= k
	return s
}

// unpremultiply converts a premultiplied RGBA pixel buffer (ebiten's
// ReadPixels layout) into a straight-alpha NRGBA image.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// ExportPNG rasterizes the session's current composite at scale times the
// canvas resolution and writes it as a PNG file. The live render state is
// untouched: the export draws into its own scratch buffers and releases
// them before returning. Reading pixels forces a GPU sync, so expect a
// frame hitch at large scales.
func (c *Composition) ExportPNG(path string, scale int) error {
	if scale < 1 {
		scale = 1
	}
	w, h := c.renderer.Size()
	ew, eh := w*scale, h*scale
	s := scaleForExport(c.settings, float64(scale))

	renderer := NewGraphRenderer(ew, eh)
	source := ebiten.NewImage(ew, eh)
	target := ebiten.NewImage(ew, eh)
	defer func() {
		renderer.Dispose()
		source.Deallocate()
		target.Deallocate()
	}()

	target.Fill(s.BackgroundColor.toRGBA())

	rScale := float64(min(ew, eh)) / 100
	fill := s.FillColor.toRGBA()
	for _, a := range c.anchors {
		x, y := FramePosition(a, s, c.clock.Time())
		drawFilledCircle(source,
			float32(x/100*float64(ew)), float32(y/100*float64(eh)),
			float32(a.Radius*rScale), fill)
	}
	c.text.Draw(source, s)

	g := Compile(s)
	renderer.Render(&g, source, target)

	pixels := make([]byte, 4*ew*eh)
	target.ReadPixels(pixels)

	if err := writePNG(path, unpremultiply(pixels, ew, eh)); err != nil {
		logger().Error("png export failed", "path", path, "error", err)
		return err
	}
	logger().Debug("png exported", "path", path, "scale", scale)
	return nil
}
