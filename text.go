package typegen

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// FontLibrary resolves the closed FontFamily set to loaded typeface
// sources. The library ships no font data; hosts register a source per
// family slot at startup (typically from embedded TTF bytes).
type FontLibrary struct {
	sources map[FontFamily]*text.GoTextFaceSource
}

// NewFontLibrary creates an empty library.
func NewFontLibrary() *FontLibrary {
	return &FontLibrary{sources: make(map[FontFamily]*text.GoTextFaceSource)}
}

// Register binds a typeface source to a family slot, replacing any
// previous binding.
func (l *FontLibrary) Register(family FontFamily, src *text.GoTextFaceSource) {
	l.sources[family] = src
}

// face returns a sized face for the family, or nil when the slot is empty.
func (l *FontLibrary) face(family FontFamily, size float64) *text.GoTextFace {
	src := l.sources[family]
	if src == nil {
		return nil
	}
	return &text.GoTextFace{Source: src, Size: size}
}

// splitLines breaks multi-line content on the line-break character.
// A trailing newline does not produce a phantom empty line.
func splitLines(content string) []string {
	return strings.Split(strings.TrimRight(content, "\n"), "\n")
}

// lineOffsets returns the vertical baseline offset of each of n lines
// relative to the block center, with the block vertically centered:
// the first line sits at -(n-1)*leading/2 and each following line one
// leading below.
func lineOffsets(n int, leading float64) []float64 {
	offsets := make([]float64, n)
	first := -float64(n-1) * leading / 2
	for i := range offsets {
		offsets[i] = first + float64(i)*leading
	}
	return offsets
}

// TextShape renders the settings' text block as a filled/stroked shape,
// anchored at the canvas center, forming the typographic part of the
// SourceGraphic buffer.
//
// Glyphs are rasterized white into a scratch canvas and then stamped with
// the transform and tint, so the stroke can reuse the same raster via
// offset copies.
type TextShape struct {
	lib     *FontLibrary
	scratch *ebiten.Image
	textOp  text.DrawOptions
	imgOp   ebiten.DrawImageOptions
}

// NewTextShape creates a text shape renderer backed by the given library.
func NewTextShape(lib *FontLibrary) *TextShape {
	return &TextShape{lib: lib}
}

// Draw renders the text described by s into dst. Unregistered font slots
// draw nothing. The rotation and skew are applied about the text block's
// center, which coincides with the canvas center.
func (t *TextShape) Draw(dst *ebiten.Image, s TypeSettings) {
	face := t.lib.face(s.FontFamily, s.FontSize)
	if face == nil || s.Text == "" {
		return
	}
	if !s.ShowFill && !s.ShowStroke {
		return
	}

	bounds := dst.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if t.scratch == nil || t.scratch.Bounds().Dx() != w || t.scratch.Bounds().Dy() != h {
		if t.scratch != nil {
			t.scratch.Deallocate()
		}
		t.scratch = ebiten.NewImage(w, h)
	} else {
		t.scratch.Clear()
	}

	t.rasterize(face, s, float64(w)/2, float64(h)/2)
	t.stamp(dst, s, float64(w)/2, float64(h)/2)
}

// rasterize draws all lines in white into the scratch canvas, block
// vertically centered at (cx, cy).
func (t *TextShape) rasterize(face *text.GoTextFace, s TypeSettings, cx, cy float64) {
	lines := splitLines(s.Text)
	leading := s.LineHeight * s.FontSize
	offsets := lineOffsets(len(lines), leading)
	ascent := face.Metrics().HAscent

	for i, line := range lines {
		if line == "" {
			continue
		}
		width := t.lineWidth(line, face, s.LetterSpacing)
		x := cx - width/2
		baseline := cy + offsets[i]

		// Per-rune placement so letter spacing applies between glyphs.
		for _, r := range line {
			glyph := string(r)
			t.textOp.GeoM.Reset()
			t.textOp.GeoM.Translate(x, baseline-ascent)
			t.textOp.ColorScale.Reset()
			text.Draw(t.scratch, glyph, face, &t.textOp)
			x += text.Advance(glyph, face) + s.LetterSpacing
		}
	}
}

// lineWidth measures a line's advance including letter spacing.
func (t *TextShape) lineWidth(line string, face *text.GoTextFace, spacing float64) float64 {
	var w float64
	n := 0
	for _, r := range line {
		w += text.Advance(string(r), face)
		n++
	}
	if n > 1 {
		w += spacing * float64(n-1)
	}
	return w
}

// stamp composites the white raster onto dst with the block transform and
// style colors. The stroke uses 8-direction offset copies behind the fill;
// any thickness works.
func (t *TextShape) stamp(dst *ebiten.Image, s TypeSettings, cx, cy float64) {
	op := &t.imgOp

	if s.ShowStroke && s.StrokeWidth > 0 {
		sw := s.StrokeWidth
		offsets := [8][2]float64{
			{-sw, 0}, {sw, 0}, {0, -sw}, {0, sw},
			{-sw, -sw}, {sw, -sw}, {-sw, sw}, {sw, sw},
		}
		for _, off := range offsets {
			t.blockGeoM(op, s, cx, cy, off[0], off[1])
			op.ColorScale.Reset()
			tint(op, s.StrokeColor)
			dst.DrawImage(t.scratch, op)
		}
	}

	if s.ShowFill {
		t.blockGeoM(op, s, cx, cy, 0, 0)
		op.ColorScale.Reset()
		tint(op, s.FillColor)
		dst.DrawImage(t.scratch, op)
	}
}

// blockGeoM builds the skew/rotate-about-center transform plus an offset.
func (t *TextShape) blockGeoM(op *ebiten.DrawImageOptions, s TypeSettings, cx, cy, dx, dy float64) {
	op.GeoM.Reset()
	op.GeoM.Translate(-cx, -cy)
	if s.SkewX != 0 || s.SkewY != 0 {
		op.GeoM.Skew(degToRad(s.SkewX), degToRad(s.SkewY))
	}
	if s.Rotation != 0 {
		op.GeoM.Rotate(degToRad(s.Rotation))
	}
	op.GeoM.Translate(cx+dx, cy+dy)
}

// tint sets a premultiplied color scale for a white source raster.
func tint(op *ebiten.DrawImageOptions, c Color) {
	op.ColorScale.Scale(
		float32(c.R*c.A),
		float32(c.G*c.A),
		float32(c.B*c.A),
		float32(c.A),
	)
}
