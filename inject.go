package globe

import "time"

type pointerPhase uint8

const (
	phasePress pointerPhase = iota
	phaseMove
	phaseRelease
	phaseWheel
	phaseLeave
)

// syntheticPointerEvent represents a single injected pointer event in screen
// coordinates, matching what a person sees in a screenshot.
type syntheticPointerEvent struct {
	x, y  float64
	phase pointerPhase
	wheel float64
}

// InjectPress queues a pointer press at the given screen coordinates. The
// event is consumed on the next Update.
func (g *Globe) InjectPress(x, y float64) {
	g.injectQ = append(g.injectQ, syntheticPointerEvent{x: x, y: y, phase: phasePress})
}

// InjectMove queues a pointer move. Between InjectPress and InjectRelease it
// drags; otherwise it hovers.
func (g *Globe) InjectMove(x, y float64) {
	g.injectQ = append(g.injectQ, syntheticPointerEvent{x: x, y: y, phase: phaseMove})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (g *Globe) InjectRelease(x, y float64) {
	g.injectQ = append(g.injectQ, syntheticPointerEvent{x: x, y: y, phase: phaseRelease})
}

// InjectWheel queues one wheel event. Positive dy zooms out.
func (g *Globe) InjectWheel(dy float64) {
	g.injectQ = append(g.injectQ, syntheticPointerEvent{phase: phaseWheel, wheel: dy})
}

// InjectLeave queues the pointer leaving the canvas.
func (g *Globe) InjectLeave() {
	g.injectQ = append(g.injectQ, syntheticPointerEvent{phase: phaseLeave})
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two frames.
func (g *Globe) InjectClick(x, y float64) {
	g.InjectPress(x, y)
	g.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY), linearly
// interpolated moves over frames-2 intermediate frames, and release at
// (toX, toY). The sequence consumes frames frames; the minimum is 2.
func (g *Globe) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	g.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		g.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	g.InjectRelease(toX, toY)
}

// processInjectedInput pops one event from the inject queue and feeds it to
// the gesture controller. It reports whether an event was consumed, in which
// case real input is skipped for the frame.
func (g *Globe) processInjectedInput(now time.Time) bool {
	if len(g.injectQ) == 0 {
		return false
	}
	evt := g.injectQ[0]
	copy(g.injectQ, g.injectQ[1:])
	g.injectQ = g.injectQ[:len(g.injectQ)-1]

	gs := g.gesture
	switch evt.phase {
	case phasePress:
		gs.PointerDown(evt.x, evt.y, now)
	case phaseMove:
		gs.PointerMove(evt.x, evt.y, now)
	case phaseRelease:
		gs.PointerUp(evt.x, evt.y, now)
	case phaseWheel:
		gs.Wheel(evt.wheel)
	case phaseLeave:
		gs.PointerLeave()
	}
	return true
}
