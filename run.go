package typegen

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool

	// OnUpdate, when set, runs once per tick before the composition
	// updates. Returning an error stops the loop and is returned by Run.
	OnUpdate func() error
}

// viewer adapts a Composition to the ebiten.Game interface.
type viewer struct {
	comp *Composition
	cfg  RunConfig

	fpsImg     *ebiten.Image
	fpsElapsed float64
}

func (v *viewer) Update() error {
	if v.cfg.OnUpdate != nil {
		if err := v.cfg.OnUpdate(); err != nil {
			return err
		}
	}
	v.comp.Update()

	if v.cfg.ShowFPS {
		v.updateFPS()
	}
	return nil
}

// updateFPS refreshes the overlay text every ~0.5 seconds.
func (v *viewer) updateFPS() {
	v.fpsElapsed += 1.0 / float64(ebiten.TPS())
	if v.fpsImg != nil && v.fpsElapsed < 0.5 {
		return
	}
	v.fpsElapsed = 0

	if v.fpsImg == nil {
		// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
		v.fpsImg = ebiten.NewImage(100, 32)
	}
	v.fpsImg.Clear()
	// Semi-transparent background for readability
	v.fpsImg.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(v.fpsImg, fmt.Sprintf("FPS: %.1f\nTPS: %.1f",
		ebiten.ActualFPS(), ebiten.ActualTPS()))
}

func (v *viewer) Draw(screen *ebiten.Image) {
	v.comp.Draw(screen)
	if v.cfg.ShowFPS && v.fpsImg != nil {
		var op ebiten.DrawImageOptions
		screen.DrawImage(v.fpsImg, &op)
	}
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.cfg.Width, v.cfg.Height
}

// Run opens a window and drives the composition's update/draw loop until
// the window closes or OnUpdate returns an error. Zero Width/Height default
// to the composition's canvas size.
func Run(comp *Composition, cfg RunConfig) error {
	w, h := comp.renderer.Size()
	if cfg.Width <= 0 {
		cfg.Width = w
	}
	if cfg.Height <= 0 {
		cfg.Height = h
	}
	if cfg.Title == "" {
		cfg.Title = "typegen"
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)

	if err := ebiten.RunGame(&viewer{comp: comp, cfg: cfg}); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
