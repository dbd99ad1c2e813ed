package globe

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Inertia tuning.
const (
	InertiaDecay   = 0.92
	InertiaEpsilon = 1e-4
)

// Default animation durations, in seconds.
const (
	DefaultFlightDuration = 1.2
	DefaultPlaneDuration  = 3.0
	planeHoldDuration     = 0.5
)

// inertiaTask keeps the globe turning after a drag is released. Velocity is
// in radians per frame; dt is ignored so the decay is frame-based.
type inertiaTask struct {
	view       *ViewState
	velX, velY float64
}

func (t *inertiaTask) Step(float64) bool {
	if math.Hypot(t.velX, t.velY) < InertiaEpsilon {
		return false
	}
	t.view.Rotate(t.velX, t.velY)
	t.velX *= InertiaDecay
	t.velY *= InertiaDecay
	return math.Hypot(t.velX, t.velY) >= InertiaEpsilon
}

// progress wraps a 0→1 gween tween so the eased value can be mapped onto
// float64 quantities without float32 drift.
type progress struct {
	tween *gween.Tween
	value float64
	done  bool
}

func newProgress(duration float64, fn ease.TweenFunc) *progress {
	if duration <= 0 {
		return &progress{value: 1, done: true}
	}
	return &progress{tween: gween.New(0, 1, float32(duration), fn)}
}

func (p *progress) update(dt float64) {
	if p.done {
		return
	}
	v, finished := p.tween.Update(float32(dt))
	p.value = float64(v)
	if finished {
		p.value = 1
		p.done = true
	}
}

// flightTask eases the view rotation, and optionally the zoom, to a target.
type flightTask struct {
	view             *ViewState
	fromRX, fromRY   float64
	toRX, toRY       float64
	fromZoom, toZoom float64
	p                *progress
}

func newFlightTask(vs *ViewState, rx, ry, zoom, duration float64) *flightTask {
	cur := vs.RotationY()
	// Take the short way round.
	ry = cur + math.Remainder(ry-cur, 2*math.Pi)
	if zoom <= 0 {
		zoom = vs.Zoom()
	}
	return &flightTask{
		view:     vs,
		fromRX:   vs.RotationX(),
		fromRY:   cur,
		toRX:     clampRotationX(rx),
		toRY:     ry,
		fromZoom: vs.Zoom(),
		toZoom:   clampZoom(zoom),
		p:        newProgress(duration, ease.InOutCubic),
	}
}

func (t *flightTask) Step(dt float64) bool {
	t.p.update(dt)
	k := t.p.value
	t.view.SetRotation(
		t.fromRX+(t.toRX-t.fromRX)*k,
		t.fromRY+(t.toRY-t.fromRY)*k,
	)
	t.view.SetZoom(t.fromZoom + (t.toZoom-t.fromZoom)*k)
	return !t.p.done
}

// Plane is the state of an animated flight between two locations, drawn on
// top of the globe while the route task runs.
type Plane struct {
	From, To LatLng
	Pos      LatLng
	Heading  float64 // degrees clockwise from north
	Progress float64 // eased, 0..1
}

// planeTask moves a Plane along the great circle from From to To, then holds
// at the destination briefly before finishing.
type planeTask struct {
	view  *ViewState
	plane *Plane
	p     *progress
	hold  float64
}

func newPlaneTask(vs *ViewState, from, to LatLng, duration float64) *planeTask {
	return &planeTask{
		view:  vs,
		plane: &Plane{From: from, To: to, Pos: from, Heading: Heading(from, to)},
		p:     newProgress(duration, ease.InOutCubic),
		hold:  planeHoldDuration,
	}
}

func (t *planeTask) Step(dt float64) bool {
	pl := t.plane
	if pl.Progress >= 1 {
		t.hold -= dt
		return t.hold > 0
	}
	t.p.update(dt)
	pl.Progress = t.p.value
	pl.Pos = Interpolate(pl.From, pl.To, pl.Progress)
	if pl.Progress < 1 {
		pl.Heading = Heading(pl.Pos, pl.To)
	}
	t.view.MarkDirty()
	return true
}
