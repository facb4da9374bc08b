package typegen

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// anchorKey is the derivation input triple for the metaball anchor set.
// Anchors are regenerated wholesale when any element changes.
type anchorKey struct {
	count  int
	spread float64
	seed   int
}

// Composition is a rendering session: the current validated settings
// snapshot, the graph compiled from it, the cached metaball anchors, and
// the animation clock. It is single-threaded — the only caller is the
// host's refresh loop.
type Composition struct {
	settings TypeSettings
	graph    Graph
	anchors  []Anchor
	key      anchorKey
	clock    Clock

	text     *TextShape
	renderer *GraphRenderer
	source   *ebiten.Image
}

// NewComposition creates a session for a w x h canvas using fonts from lib.
// The initial settings are the defaults.
func NewComposition(w, h int, lib *FontLibrary) *Composition {
	c := &Composition{
		text:     NewTextShape(lib),
		renderer: NewGraphRenderer(w, h),
		source:   ebiten.NewImage(w, h),
	}
	c.SetSettings(DefaultSettings())
	return c
}

// SetSettings replaces the settings snapshot wholesale. The record is
// clamped at this boundary, the filter graph is recompiled, anchors are
// regenerated if their derivation inputs changed, and the animation clock
// is started or stopped when the active state crosses the zero boundary.
func (c *Composition) SetSettings(s TypeSettings) {
	s = s.Clamp()
	c.settings = s
	c.graph = Compile(s)

	key := anchorKey{count: s.NumMetaballs, spread: s.MetaballSpread, seed: s.NoiseSeed}
	if key != c.key {
		c.anchors = DeriveAnchors(key.count, key.spread, key.seed)
		c.key = key
	}

	if s.AnimationActive() {
		if !c.clock.Running() {
			c.clock.Start()
		}
	} else if c.clock.Running() {
		c.clock.Stop()
	}
}

// Settings returns the current clamped snapshot.
func (c *Composition) Settings() TypeSettings { return c.settings }

// Graph returns the graph compiled from the current snapshot.
func (c *Composition) Graph() *Graph { return &c.graph }

// Anchors returns the cached metaball anchors. Callers must not mutate
// the returned slice.
func (c *Composition) Anchors() []Anchor { return c.anchors }

// Clock exposes the animation clock, mainly for hosts that simulate ticks.
func (c *Composition) Clock() *Clock { return &c.clock }

// Update advances the animation clock by one refresh tick. When animation
// is inactive the clock is stopped and this is a no-op.
func (c *Composition) Update() {
	c.clock.Tick(c.settings.MetaballSpeed)
}

// Draw renders the full composite into screen: background fill, then the
// metaball circles and the text shape through the compiled filter graph.
func (c *Composition) Draw(screen *ebiten.Image) {
	s := c.settings
	screen.Fill(s.BackgroundColor.toRGBA())

	c.source.Clear()
	c.drawMetaballs()
	c.text.Draw(c.source, s)

	c.renderer.Render(&c.graph, c.source, screen)
}

// drawMetaballs draws the anchor circles into the source buffer. Positions
// and radii are normalized percentage units; positions scale per axis and
// radii by the smaller canvas dimension.
func (c *Composition) drawMetaballs() {
	if len(c.anchors) == 0 {
		return
	}
	w, h := c.renderer.Size()
	rScale := float64(min(w, h)) / 100
	fill := c.settings.FillColor.toRGBA()
	for _, a := range c.anchors {
		x, y := FramePosition(a, c.settings, c.clock.Time())
		drawFilledCircle(
			c.source,
			float32(x/100*float64(w)),
			float32(y/100*float64(h)),
			float32(a.Radius*rScale),
			fill,
		)
	}
}

// drawFilledCircle draws an antialiased filled circle into dst.
func drawFilledCircle(dst *ebiten.Image, x, y, r float32, fill colorRGBA) {
	vector.DrawFilledCircle(dst, x, y, r, fill, true)
}

// Dispose releases the session's GPU resources.
func (c *Composition) Dispose() {
	c.renderer.Dispose()
	if c.source != nil {
		c.source.Deallocate()
		c.source = nil
	}
}

// toRGBA converts a Color to a color.RGBA-compatible value (premultiplied).
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface for image fills.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}
