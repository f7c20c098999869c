package ebitenhost

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsOverlay displays the current FPS and TPS in the top-left corner. The
// text is re-rendered every ~0.5 seconds into its own image.
type fpsOverlay struct {
	img        *ebiten.Image
	op         ebiten.DrawImageOptions
	lastUpdate float64
	dirty      bool
}

func newFPSOverlay() *fpsOverlay {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	return &fpsOverlay{img: ebiten.NewImage(100, 32), dirty: true}
}

func (f *fpsOverlay) update(dt float64) {
	f.lastUpdate += dt
	if f.lastUpdate < 0.5 {
		return
	}
	f.lastUpdate = 0
	f.dirty = true
}

func (f *fpsOverlay) draw(screen *ebiten.Image) {
	if f.dirty {
		f.dirty = false
		f.img.Clear()
		// Semi-transparent background for readability
		f.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(f.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	screen.DrawImage(f.img, &f.op)
}
