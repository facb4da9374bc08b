// Package typegen renders stylized typography by composing a chain of
// image-processing operations over vector text and a set of animated blob
// shapes, driven entirely by a flat parameter record.
//
// Typegen compiles a [TypeSettings] value into a filter graph (morphology,
// noise displacement, blur, alpha-contrast "gooification", and a material
// branch), derives a seed-deterministic metaball layout, and executes the
// result on an [Ebitengine] substrate.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	lib := typegen.NewFontLibrary()
//	lib.Register(typegen.FontInter, src) // a *text.GoTextFaceSource
//
//	comp := typegen.NewComposition(960, 540, lib)
//	typegen.Run(comp, typegen.RunConfig{
//		Title: "Goo", Width: 960, Height: 540,
//	})
//
// For full control, implement [ebiten.Game] yourself and call
// [Composition.Update] and [Composition.Draw] directly:
//
//	type Game struct{ comp *typegen.Composition }
//
//	func (g *Game) Update() error              { g.comp.Update(); return nil }
//	func (g *Game) Draw(s *ebiten.Image)       { g.comp.Draw(s) }
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// # The pipeline
//
// Everything the renderer does is determined by a [TypeSettings] snapshot.
// [Compile] maps a snapshot to a [Graph]: an ordered list of stages threaded
// by typed buffer handles, always containing noise synthesis, displacement,
// blur, and the alpha contrast remap, optionally prefixed by a morphology
// stage, and finished by exactly one material branch (solid, chrome, glass,
// or neon). [DeriveAnchors] maps the metaball parameters to a stable set of
// anchor circles; [AnimatedPosition] orbits each circle around its anchor as
// the [Clock] advances.
//
// Both functions are pure: the same settings always produce the same graph
// and the same layout, across calls and across process restarts.
//
// [Composition] ties the pieces together for interactive use — replace the
// snapshot wholesale with [Composition.SetSettings]; it clamps the record,
// recompiles the graph, regenerates anchors when their inputs changed, and
// gates the animation clock.
//
// # Styling and export
//
// [SettingsTween] animates smoothly between two snapshots (used when
// applying patches from the style-suggestion service via [Suggester]).
// [Composition.ExportSVG] serializes the current composite as an SVG
// document whose filter primitives mirror the compiled graph;
// [Composition.ExportPNG] rasterizes it at a pixel-density multiplier.
//
// Typegen produces no log output by default; pass a [log/slog.Logger] to
// [SetLogger] to observe degraded operations and export failures.
//
// [Ebitengine]: https://ebitengine.org
package typegen
