package globe

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// inputPoller turns Ebitengine's polled input state into the discrete
// events the Gesture controller expects.
type inputPoller struct {
	inside       bool
	mouseDown    bool
	lastX, lastY float64

	touchIDs    []ebiten.TouchID
	pressedIDs  []ebiten.TouchID
	releasedIDs []ebiten.TouchID
	touches     []Touch
	released    []Touch
}

// poll reads this tick's mouse, wheel and touch state and forwards it to g.
func (p *inputPoller) poll(g *Gesture, now time.Time, v View) {
	p.pollMouse(g, now, v)
	p.pollTouches(g, now)
}

func (p *inputPoller) pollMouse(g *Gesture, now time.Time, v View) {
	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx), float64(cy)
	inside := ebiten.IsFocused() &&
		x >= 0 && y >= 0 && x < v.Width && y < v.Height

	if p.inside && !inside {
		p.inside = false
		p.mouseDown = false
		g.PointerLeave()
		return
	}
	p.inside = inside
	if !inside {
		return
	}

	moved := x != p.lastX || y != p.lastY
	p.lastX, p.lastY = x, y

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		p.mouseDown = true
		g.PointerDown(x, y, now)
	case p.mouseDown && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		p.mouseDown = false
		if moved {
			g.PointerMove(x, y, now)
		}
		g.PointerUp(x, y, now)
	case moved:
		g.PointerMove(x, y, now)
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		// Ebitengine reports scrolling up as positive; the controller
		// zooms out on positive values.
		g.Wheel(-wy)
	}
}

func (p *inputPoller) pollTouches(g *Gesture, now time.Time) {
	p.touchIDs = ebiten.AppendTouchIDs(p.touchIDs[:0])
	p.pressedIDs = inpututil.AppendJustPressedTouchIDs(p.pressedIDs[:0])
	p.releasedIDs = inpututil.AppendJustReleasedTouchIDs(p.releasedIDs[:0])

	prev := len(p.touches)
	moved := false
	p.touches = p.touches[:0]
	for _, id := range p.touchIDs {
		tx, ty := ebiten.TouchPosition(id)
		px, py := inpututil.TouchPositionInPreviousTick(id)
		if tx != px || ty != py {
			moved = true
		}
		p.touches = append(p.touches, Touch{ID: int(id), X: float64(tx), Y: float64(ty)})
	}

	p.released = p.released[:0]
	for _, id := range p.releasedIDs {
		tx, ty := inpututil.TouchPositionInPreviousTick(id)
		p.released = append(p.released, Touch{ID: int(id), X: float64(tx), Y: float64(ty)})
	}

	switch {
	case len(p.pressedIDs) > 0:
		g.TouchStart(p.touches, now)
	case moved && len(p.touches) > 0:
		g.TouchMove(p.touches, now)
	}
	if len(p.released) > 0 {
		g.TouchEnd(p.touches, p.released, now)
	} else if prev > 0 && len(p.touches) == 0 {
		g.TouchCancel()
	}
}
