package globe

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	Resizable     bool
	ShowFPS       bool
	Debug         bool
	// Game, when set, is run instead of the globe itself. It must forward
	// Update, Draw and Layout to the globe.
	Game ebiten.Game
}

// Run opens a window and runs g until the window is closed.
func Run(g *Globe, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 1024
	}
	if cfg.Height <= 0 {
		cfg.Height = 768
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	g.SetShowFPS(cfg.ShowFPS)
	g.SetDebugMode(cfg.Debug)
	var game ebiten.Game = g
	if cfg.Game != nil {
		game = cfg.Game
	}
	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("run globe: %w", err)
	}
	return nil
}
