package globe

import (
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Options configures a Globe. Zero values pick sensible defaults.
type Options struct {
	Width, Height int
	Stars         int    // number of background stars; 0 means DefaultStars
	StarSeed      uint64 // seed for the star field
	Logger        *slog.Logger
	// Clock supplies event timestamps. Defaults to time.Now.
	Clock func() time.Time
}

// DefaultStars is the star count used when Options.Stars is zero.
const DefaultStars = 200

// Globe is the top-level object: it owns the view state, the gesture
// controller, the animation scheduler, the feature set and the cached frame.
// It implements ebiten.Game.
type Globe struct {
	view     *ViewState
	gesture  *Gesture
	sched    Scheduler
	renderer Renderer

	features []*Feature
	palette  *Palette
	scheme   ColorScheme
	highs    []HighlightSet

	hovered *Feature
	clicked *Feature
	marker  *Marker
	tooltip Tooltip
	stars   []Star

	flight    TaskHandle
	planeTask TaskHandle
	plane     *Plane

	handlers handlerRegistry
	sink     EventSink
	log      *slog.Logger
	debug    bool
	clock    func() time.Time

	// Render-on-demand cache.
	frame  *ebiten.Image
	canvas *EbitenCanvas
	screen *EbitenCanvas

	input      inputPoller
	injectQ    []syntheticPointerEvent
	testRunner *TestRunner

	screenshotQueue []string
	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir string

	fps *FPSWidget
}

// NewGlobe creates a globe with no features loaded. It draws and hit-tests
// an empty set until SetFeatures is called.
func NewGlobe(opts Options) *Globe {
	if opts.Width <= 0 {
		opts.Width = 1024
	}
	if opts.Height <= 0 {
		opts.Height = 768
	}
	if opts.Stars <= 0 {
		opts.Stars = DefaultStars
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	g := &Globe{
		view:          NewViewState(float64(opts.Width), float64(opts.Height)),
		stars:         GenerateStars(opts.Stars, opts.StarSeed),
		log:           opts.Logger,
		clock:         opts.Clock,
		palette:       NewPalette(nil, nil),
		ScreenshotDir: "screenshots",
	}
	g.gesture = NewGesture(g.view, &g.sched)
	g.gesture.Click = g.handleClick
	g.gesture.Hover = g.handleHover
	g.gesture.Leave = g.handleLeave
	g.gesture.Interrupt = g.StopFlight
	g.view.MarkDirty()
	return g
}

// View returns a snapshot of the current view.
func (g *Globe) View() View { return g.view.Snapshot() }

// ViewState returns the mutable view state.
func (g *Globe) ViewState() *ViewState { return g.view }

// Gesture returns the gesture controller, for hosts that deliver their own
// input events.
func (g *Globe) Gesture() *Gesture { return g.gesture }

// Scheduler returns the animation scheduler ticked from Update.
func (g *Globe) Scheduler() *Scheduler { return &g.sched }

// SetFeatures swaps in a new feature set and recomputes base colors.
func (g *Globe) SetFeatures(feats []*Feature) {
	g.features = feats
	g.palette = NewPalette(feats, nil)
	if g.hovered != nil && !containsFeature(feats, g.hovered) {
		g.hovered = nil
		g.tooltip.Hide()
	}
	if g.clicked != nil && !containsFeature(feats, g.clicked) {
		g.clicked = nil
	}
	g.view.MarkDirty()
	g.log.Debug("features set", "count", len(feats))
}

// SetPalette replaces the base color palette.
func (g *Globe) SetPalette(p *Palette) {
	g.palette = p
	g.view.MarkDirty()
}

// Features returns the current feature set.
func (g *Globe) Features() []*Feature { return g.features }

// FeatureByID returns the feature with the given id, or nil.
func (g *Globe) FeatureByID(id string) *Feature {
	for _, f := range g.features {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// SetColorScheme selects the base color scheme.
func (g *Globe) SetColorScheme(s ColorScheme) {
	if s == g.scheme {
		return
	}
	g.scheme = s
	g.view.MarkDirty()
}

// ColorScheme returns the current base color scheme.
func (g *Globe) ColorScheme() ColorScheme { return g.scheme }

// SetHighlights replaces the highlight sets the renderer reads. Call it
// again whenever a set's contents change.
func (g *Globe) SetHighlights(sets ...HighlightSet) {
	g.highs = append(g.highs[:0], sets...)
	g.view.MarkDirty()
}

// SetMarker sets or, with nil, clears the last-clicked marker.
func (g *Globe) SetMarker(m *Marker) {
	g.marker = m
	g.view.MarkDirty()
}

// Marker returns the current marker, or nil.
func (g *Globe) Marker() *Marker { return g.marker }

// Hovered returns the hovered feature, or nil.
func (g *Globe) Hovered() *Feature { return g.hovered }

// Clicked returns the last clicked feature, or nil.
func (g *Globe) Clicked() *Feature { return g.clicked }

// Tooltip returns the hover tooltip.
func (g *Globe) Tooltip() *Tooltip { return &g.tooltip }

// SetEventSink forwards every outbound event to sink as well as to the
// registered callbacks. Pass nil to detach.
func (g *Globe) SetEventSink(sink EventSink) {
	g.sink = sink
}

// SetDebugMode enables or disables per-frame render stats logging.
func (g *Globe) SetDebugMode(enabled bool) {
	g.debug = enabled
}

// FlyTo eases the view so (lat, lng) ends up at the front centre. A zoom of
// zero keeps the current zoom. Any running flight or inertia is stopped.
func (g *Globe) FlyTo(lat, lng, zoom, duration float64) TaskHandle {
	g.StopFlight()
	g.gesture.StopInertia()
	rx, ry := RotationFor(lat, lng)
	g.flight = g.sched.Start(newFlightTask(g.view, rx, ry, zoom, duration))
	return g.flight
}

// StopFlight cancels a running FlyTo.
func (g *Globe) StopFlight() {
	g.flight.Cancel()
	g.flight = TaskHandle{}
}

// FlyPlane animates a plane along the great circle from one location to
// another. onEnd runs once the plane has landed and is hidden; it does not
// run if the flight is canceled.
func (g *Globe) FlyPlane(from, to LatLng, duration float64, onEnd func()) TaskHandle {
	g.StopPlane()
	t := newPlaneTask(g.view, from, to, duration)
	g.plane = t.plane
	g.planeTask = g.sched.StartFunc(t, func() {
		g.plane = nil
		g.view.MarkDirty()
		if onEnd != nil {
			onEnd()
		}
	})
	return g.planeTask
}

// StopPlane cancels and hides a running plane animation.
func (g *Globe) StopPlane() {
	if g.planeTask.Active() {
		g.planeTask.Cancel()
		g.view.MarkDirty()
	}
	g.planeTask = TaskHandle{}
	g.plane = nil
}

// Plane returns the animated plane, or nil when none is flying.
func (g *Globe) Plane() *Plane { return g.plane }

// Frame assembles the inputs of one render pass.
func (g *Globe) Frame() Frame {
	style := StyleInputs{Highlights: g.highs}
	if g.palette != nil {
		style.BaseColors = g.palette.Colors(g.scheme)
	}
	if g.hovered != nil {
		style.HoveredID = g.hovered.ID
	}
	if g.clicked != nil {
		style.ClickedID = g.clicked.ID
	}
	return Frame{
		View:     g.view.Snapshot(),
		Features: g.features,
		Style:    style,
		Stars:    g.stars,
		Marker:   g.marker,
		Plane:    g.plane,
	}
}

// Update polls input, steps animations and fires view-change callbacks.
func (g *Globe) Update() error {
	g.update(g.clock(), 1/float64(ebiten.TPS()), true)
	return nil
}

// update is Update with the clock, frame time and input source explicit.
// With live false only injected input is processed.
func (g *Globe) update(now time.Time, dt float64, live bool) {
	if g.testRunner != nil {
		g.testRunner.step(g)
	}
	if !g.processInjectedInput(now) && live {
		g.input.poll(g.gesture, now, g.view.Snapshot())
	}
	g.sched.Tick(dt)
	if g.view.takeViewChange() {
		g.fireViewChange(g.view.Snapshot())
	}
	if g.fps != nil {
		g.fps.Update(dt)
	}
}

// Draw re-renders the cached frame only when something visible changed,
// then blits it with the overlays on top.
func (g *Globe) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	if g.frame == nil || g.frame.Bounds() != b {
		if g.frame != nil {
			g.frame.Deallocate()
		}
		g.frame = ebiten.NewImage(b.Dx(), b.Dy())
		g.canvas = NewEbitenCanvas(g.frame)
		g.view.MarkDirty()
	}
	if g.view.NeedsRedraw() {
		var start time.Time
		if g.debug {
			start = time.Now()
		}
		stats := g.renderer.Render(g.canvas, g.Frame())
		g.view.ClearRedraw()
		if g.debug {
			g.debugLog(stats, time.Since(start))
		}
	}

	screen.DrawImage(g.frame, nil)

	if g.screen == nil {
		g.screen = NewEbitenCanvas(screen)
	} else {
		g.screen.Target(screen)
	}
	g.tooltip.Draw(g.screen)
	if g.fps != nil {
		g.fps.Draw(screen)
	}
	g.flushScreenshots(screen)
}

// Layout tracks the outside size so the sphere stays centred on resize.
func (g *Globe) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.view.Resize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

func (g *Globe) handleClick(x, y float64) {
	f, at, ok := HitTest(x, y, g.features, g.view.Snapshot())
	g.fireClick(ClickContext{X: x, Y: y, Feature: f, At: at, OnSphere: ok})
	if f == nil {
		return
	}
	g.clicked = f
	g.setHovered(f, x, y)
	g.marker = &Marker{At: at, Label: f.Name}
	g.view.MarkDirty()
	g.fireFeatureClick(FeatureClickContext{Feature: f, At: at, X: x, Y: y})
}

func (g *Globe) handleHover(x, y float64) {
	f, _, _ := HitTest(x, y, g.features, g.view.Snapshot())
	g.setHovered(f, x, y)
	if f != nil {
		w, h := measureLabel(tooltipText(f))
		v := g.view.Snapshot()
		g.tooltip.Show(tooltipText(f), x, y, w+2*tooltipPadding, h+2*tooltipPadding, v.Width, v.Height)
	}
}

func (g *Globe) handleLeave() {
	g.tooltip.Hide()
	g.setHovered(nil, 0, 0)
}

func (g *Globe) setHovered(f *Feature, x, y float64) {
	if f == nil {
		g.tooltip.Hide()
	}
	if f == g.hovered {
		return
	}
	prev := g.hovered
	g.hovered = f
	g.view.MarkDirty()
	g.fireHover(HoverContext{Feature: f, Previous: prev, X: x, Y: y})
}

func containsFeature(feats []*Feature, f *Feature) bool {
	for _, x := range feats {
		if x == f {
			return true
		}
	}
	return false
}
