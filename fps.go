package globe

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// FPSWidget shows the current FPS and TPS in the top-left corner, refreshed
// about twice a second. It draws straight to the screen so it never forces
// a globe re-render.
type FPSWidget struct {
	img     *ebiten.Image
	elapsed float64
	dirty   bool
}

// NewFPSWidget creates an FPS overlay.
func NewFPSWidget() *FPSWidget {
	return &FPSWidget{dirty: true}
}

// Update advances the refresh timer by dt seconds.
func (w *FPSWidget) Update(dt float64) {
	w.elapsed += dt
	if w.elapsed >= 0.5 {
		w.elapsed = 0
		w.dirty = true
	}
}

// Draw paints the widget onto screen.
func (w *FPSWidget) Draw(screen *ebiten.Image) {
	if w.img == nil {
		// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
		w.img = ebiten.NewImage(100, 32)
	}
	if w.dirty {
		w.dirty = false
		w.img.Clear()
		w.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(w.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	screen.DrawImage(w.img, nil)
}

// SetShowFPS toggles the FPS overlay.
func (g *Globe) SetShowFPS(show bool) {
	if !show {
		g.fps = nil
		return
	}
	if g.fps == nil {
		g.fps = NewFPSWidget()
	}
}
