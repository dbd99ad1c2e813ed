package globe

import (
	"math"
	"time"
)

// Gesture tuning.
const (
	DragThreshold = 5.0                    // pixels of travel before a press becomes a drag
	ClickTimeout  = 200 * time.Millisecond // a press held longer is never a click
	RotateSpeed   = 0.01                   // radians per pixel
	DampingRamp   = 200 * time.Millisecond // drag responsiveness ramps up over this window
	MaxVelocity   = 0.1                    // radians per frame
	ZoomSpeed     = 0.1                    // zoom change per wheel event
	TwistSpeed    = 1.0                    // yaw radians per radian of two-finger twist

	velocityKeep = 0.8
	velocityGain = 0.2
)

// Touch is one active touch point.
type Touch struct {
	ID   int
	X, Y float64
}

// Gesture interprets pointer, touch and wheel events into view rotation,
// zoom, clicks and hover probes. Time is passed in explicitly with every
// event so the state machine is deterministic under test.
//
// The hooks are optional and wired by the Globe.
type Gesture struct {
	view  *ViewState
	sched *Scheduler
	state GestureState

	startX, startY float64
	lastX, lastY   float64
	startTime      time.Time
	moved          bool
	velX, velY     float64

	pinchDist  float64
	pinchAngle float64
	pinchZoom  float64
	pinchRotY  float64

	inertia TaskHandle

	// Click is called with the release position when a press resolves to a
	// click rather than a drag.
	Click func(x, y float64)
	// Hover is called for pointer moves that are not part of a drag.
	Hover func(x, y float64)
	// Leave is called when the pointer leaves the canvas.
	Leave func()
	// Interrupt is called on every new press, before the drag starts. The
	// Globe uses it to cancel programmatic flights.
	Interrupt func()
}

// NewGesture creates a gesture controller that mutates vs and runs inertia
// on sched.
func NewGesture(vs *ViewState, sched *Scheduler) *Gesture {
	return &Gesture{view: vs, sched: sched}
}

// State returns the current gesture state.
func (g *Gesture) State() GestureState {
	if g.state == GestureCoasting && !g.inertia.Active() {
		g.state = GestureIdle
	}
	return g.state
}

// Velocity returns the smoothed rotation velocity of the current or last
// drag, in radians per move event.
func (g *Gesture) Velocity() (vx, vy float64) {
	return g.velX, g.velY
}

// PointerDown starts a potential drag or click at (x, y).
func (g *Gesture) PointerDown(x, y float64, t time.Time) {
	g.interrupt()
	g.state = GestureDragging
	g.startX, g.startY = x, y
	g.lastX, g.lastY = x, y
	g.startTime = t
	g.moved = false
	g.velX, g.velY = 0, 0
}

// PointerMove rotates the globe while dragging and probes hover otherwise.
func (g *Gesture) PointerMove(x, y float64, t time.Time) {
	switch g.State() {
	case GestureDragging:
		g.drag(x, y, t)
	case GesturePinching:
	default:
		if g.Hover != nil {
			g.Hover(x, y)
		}
	}
}

// PointerUp ends a drag. A short press that never travelled past
// DragThreshold becomes a click; a drag with residual velocity starts
// coasting.
func (g *Gesture) PointerUp(x, y float64, t time.Time) {
	if g.state != GestureDragging {
		return
	}
	if !g.moved && t.Sub(g.startTime) < ClickTimeout {
		g.state = GestureIdle
		g.view.MarkDirty()
		if g.Click != nil {
			g.Click(x, y)
		}
		return
	}
	g.release()
}

// PointerLeave abandons any drag without a click or inertia and clears
// hover.
func (g *Gesture) PointerLeave() {
	if g.state == GestureDragging || g.state == GesturePinching {
		g.state = GestureIdle
		g.view.MarkDirty()
	}
	if g.Leave != nil {
		g.Leave()
	}
}

// TouchStart handles touches being added. One touch behaves like a pointer
// press; two or more start a pinch using the first two.
func (g *Gesture) TouchStart(touches []Touch, t time.Time) {
	switch {
	case len(touches) == 1 && g.state != GesturePinching:
		g.PointerDown(touches[0].X, touches[0].Y, t)
	case len(touches) >= 2:
		g.interrupt()
		g.startPinch(touches[0], touches[1])
	}
}

// TouchMove updates a drag or pinch from the current touch set.
func (g *Gesture) TouchMove(touches []Touch, t time.Time) {
	switch g.state {
	case GestureDragging:
		if len(touches) >= 1 {
			g.drag(touches[0].X, touches[0].Y, t)
		}
	case GesturePinching:
		if len(touches) < 2 {
			g.cancelPinch()
			return
		}
		g.pinch(touches[0], touches[1])
	}
}

// TouchEnd handles touches being lifted. remaining holds the touches still
// down; changed holds the ones that were lifted. A pinch that loses a finger
// is discarded and the controller returns to idle rather than turning the
// remaining finger into a drag.
func (g *Gesture) TouchEnd(remaining, changed []Touch, t time.Time) {
	switch g.state {
	case GestureDragging:
		if len(remaining) == 0 && len(changed) == 1 {
			g.PointerUp(changed[0].X, changed[0].Y, t)
			return
		}
		if len(remaining) == 0 {
			g.release()
		}
	case GesturePinching:
		if len(remaining) < 2 {
			g.cancelPinch()
		}
	}
}

// TouchCancel discards any touch gesture without a click or inertia.
func (g *Gesture) TouchCancel() {
	if g.state == GestureDragging || g.state == GesturePinching {
		g.state = GestureIdle
		g.view.MarkDirty()
	}
}

// Wheel zooms by one discrete ZoomSpeed step. Positive dy scrolls down and
// zooms out; the magnitude is ignored.
func (g *Gesture) Wheel(dy float64) {
	switch {
	case dy > 0:
		g.view.ZoomBy(-ZoomSpeed)
	case dy < 0:
		g.view.ZoomBy(ZoomSpeed)
	}
}

// StopInertia halts coasting immediately.
func (g *Gesture) StopInertia() {
	g.inertia.Cancel()
	g.inertia = TaskHandle{}
	if g.state == GestureCoasting {
		g.state = GestureIdle
	}
}

func (g *Gesture) interrupt() {
	g.inertia.Cancel()
	g.inertia = TaskHandle{}
	if g.Interrupt != nil {
		g.Interrupt()
	}
}

func (g *Gesture) drag(x, y float64, t time.Time) {
	dx := x - g.lastX
	dy := y - g.lastY
	g.lastX, g.lastY = x, y
	if dx == 0 && dy == 0 {
		return
	}
	if !g.moved && math.Hypot(x-g.startX, y-g.startY) > DragThreshold {
		g.moved = true
	}

	damping := math.Min(1, float64(t.Sub(g.startTime))/float64(DampingRamp))
	if damping < 0 {
		damping = 0
	}
	rotX := dy * RotateSpeed * damping
	rotY := dx * RotateSpeed * damping
	g.view.Rotate(rotX, rotY)

	g.velX = velocityKeep*g.velX + velocityGain*rotX
	g.velY = velocityKeep*g.velY + velocityGain*rotY
	if m := math.Hypot(g.velX, g.velY); m > MaxVelocity {
		g.velX *= MaxVelocity / m
		g.velY *= MaxVelocity / m
	}
}

func (g *Gesture) release() {
	g.state = GestureIdle
	g.view.MarkDirty()
	if !g.moved || g.sched == nil {
		return
	}
	if math.Hypot(g.velX, g.velY) <= InertiaEpsilon {
		return
	}
	g.inertia = g.sched.Start(&inertiaTask{view: g.view, velX: g.velX, velY: g.velY})
	g.state = GestureCoasting
}

func (g *Gesture) startPinch(a, b Touch) {
	g.state = GesturePinching
	g.moved = true
	g.pinchDist = math.Hypot(b.X-a.X, b.Y-a.Y)
	g.pinchAngle = math.Atan2(b.Y-a.Y, b.X-a.X)
	g.pinchZoom = g.view.Zoom()
	g.pinchRotY = g.view.RotationY()
}

func (g *Gesture) pinch(a, b Touch) {
	if g.pinchDist <= 0 {
		// Both fingers started on the same spot; rebase on this frame.
		g.startPinch(a, b)
		return
	}
	dist := math.Hypot(b.X-a.X, b.Y-a.Y)
	angle := math.Atan2(b.Y-a.Y, b.X-a.X)
	g.view.SetZoom(g.pinchZoom * dist / g.pinchDist)
	twist := math.Remainder(angle-g.pinchAngle, 2*math.Pi)
	g.view.SetRotation(g.view.RotationX(), g.pinchRotY+twist*TwistSpeed)
}

func (g *Gesture) cancelPinch() {
	g.state = GestureIdle
	g.pinchDist, g.pinchAngle = 0, 0
	g.view.MarkDirty()
}
