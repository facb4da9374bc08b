package typegen

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// SettingsTween animates the numeric fields of a TypeSettings record from
// one snapshot to another. Create one via NewSettingsTween and call
// Update(dt) each frame; the returned snapshot is ready for
// [Composition.SetSettings]. Discrete fields (text, enums, booleans, the
// metaball count, and the noise seed) snap to the target immediately —
// interpolating a seed or an enum has no sensible midpoint.
//
// There is no global animation manager — callers drive Update themselves.
type SettingsTween struct {
	current TypeSettings
	tweens  []*gween.Tween
	fields  []*float64
	Done    bool
}

// NewSettingsTween creates a tween from one snapshot to another over the
// given duration in seconds, using the easing function fn.
func NewSettingsTween(from, to TypeSettings, duration float32, fn ease.TweenFunc) *SettingsTween {
	st := &SettingsTween{current: to}

	add := func(field *float64, fromVal, toVal float64) {
		if fromVal == toVal {
			return
		}
		*field = fromVal
		st.tweens = append(st.tweens, gween.New(float32(fromVal), float32(toVal), duration, fn))
		st.fields = append(st.fields, field)
	}

	c := &st.current
	add(&c.FontSize, from.FontSize, to.FontSize)
	add(&c.LetterSpacing, from.LetterSpacing, to.LetterSpacing)
	add(&c.LineHeight, from.LineHeight, to.LineHeight)
	add(&c.Rotation, from.Rotation, to.Rotation)
	add(&c.SkewX, from.SkewX, to.SkewX)
	add(&c.SkewY, from.SkewY, to.SkewY)
	add(&c.MorphRadius, from.MorphRadius, to.MorphRadius)
	add(&c.DistortionX, from.DistortionX, to.DistortionX)
	add(&c.DistortionY, from.DistortionY, to.DistortionY)
	add(&c.DistortionStrength, from.DistortionStrength, to.DistortionStrength)
	add(&c.BlurStdDev, from.BlurStdDev, to.BlurStdDev)
	add(&c.Contrast, from.Contrast, to.Contrast)
	add(&c.MetaballSpread, from.MetaballSpread, to.MetaballSpread)
	add(&c.MetaballSpeed, from.MetaballSpeed, to.MetaballSpeed)
	add(&c.StrokeWidth, from.StrokeWidth, to.StrokeWidth)

	add(&c.FillColor.R, from.FillColor.R, to.FillColor.R)
	add(&c.FillColor.G, from.FillColor.G, to.FillColor.G)
	add(&c.FillColor.B, from.FillColor.B, to.FillColor.B)
	add(&c.FillColor.A, from.FillColor.A, to.FillColor.A)
	add(&c.StrokeColor.R, from.StrokeColor.R, to.StrokeColor.R)
	add(&c.StrokeColor.G, from.StrokeColor.G, to.StrokeColor.G)
	add(&c.StrokeColor.B, from.StrokeColor.B, to.StrokeColor.B)
	add(&c.StrokeColor.A, from.StrokeColor.A, to.StrokeColor.A)
	add(&c.BackgroundColor.R, from.BackgroundColor.R, to.BackgroundColor.R)
	add(&c.BackgroundColor.G, from.BackgroundColor.G, to.BackgroundColor.G)
	add(&c.BackgroundColor.B, from.BackgroundColor.B, to.BackgroundColor.B)
	add(&c.BackgroundColor.A, from.BackgroundColor.A, to.BackgroundColor.A)

	st.Done = len(st.tweens) == 0
	return st
}

// Update advances all tweens by dt seconds and returns the interpolated
// snapshot, clamped. Once every tween has finished, Done is set and the
// target snapshot is returned unchanged on every further call.
func (st *SettingsTween) Update(dt float32) TypeSettings {
	if st.Done {
		return st.current
	}

	allDone := true
	for i, tw := range st.tweens {
		val, finished := tw.Update(dt)
		*st.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	st.Done = allDone

	return st.current.Clamp()
}

// Value returns the most recent snapshot without advancing the tween.
func (st *SettingsTween) Value() TypeSettings {
	return st.current.Clamp()
}
