package globe

// ClickContext describes a click on the canvas. Feature is nil when the
// click missed every feature; OnSphere is false when it missed the sphere.
type ClickContext struct {
	X, Y     float64
	Feature  *Feature
	At       LatLng
	OnSphere bool
}

// FeatureClickContext describes a click that resolved to a feature.
type FeatureClickContext struct {
	Feature *Feature
	At      LatLng
	X, Y    float64
}

// HoverContext describes a change of hovered feature. Either side may be nil.
type HoverContext struct {
	Feature  *Feature
	Previous *Feature
	X, Y     float64
}

// ViewContext carries the view after a rotation or zoom change.
type ViewContext struct {
	View View
}

// Event is the flat form of every outbound event, handed to an EventSink.
type Event struct {
	Type      EventType
	FeatureID string
	Lat, Lng  float64
	X, Y      float64
	RotationX float64
	RotationY float64
	Zoom      float64
}

// EventSink receives every outbound event in flat form. See the ecs package
// for a Donburi-backed sink.
type EventSink interface {
	EmitEvent(Event)
}

type clickHandler struct {
	id uint32
	fn func(ClickContext)
}

type featureClickHandler struct {
	id uint32
	fn func(FeatureClickContext)
}

type hoverHandler struct {
	id uint32
	fn func(HoverContext)
}

type viewHandler struct {
	id uint32
	fn func(ViewContext)
}

type handlerRegistry struct {
	click        []clickHandler
	featureClick []featureClickHandler
	hover        []hoverHandler
	view         []viewHandler
	nextID       uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventClick:
		h.reg.click = removeHandler(h.reg.click, func(c clickHandler) bool { return c.id == h.id })
	case EventFeatureClick:
		h.reg.featureClick = removeHandler(h.reg.featureClick, func(c featureClickHandler) bool { return c.id == h.id })
	case EventHoverChange:
		h.reg.hover = removeHandler(h.reg.hover, func(c hoverHandler) bool { return c.id == h.id })
	case EventViewChange:
		h.reg.view = removeHandler(h.reg.view, func(c viewHandler) bool { return c.id == h.id })
	}
}

func removeHandler[T any](s []T, match func(T) bool) []T {
	for i := range s {
		if match(s[i]) {
			var zero T
			copy(s[i:], s[i+1:])
			s[len(s)-1] = zero
			return s[:len(s)-1]
		}
	}
	return s
}

// OnClick registers a callback for every click, hit or miss.
func (g *Globe) OnClick(fn func(ClickContext)) CallbackHandle {
	g.handlers.nextID++
	id := g.handlers.nextID
	g.handlers.click = append(g.handlers.click, clickHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &g.handlers, event: EventClick}
}

// OnFeatureClick registers a callback for clicks that resolve to a feature.
func (g *Globe) OnFeatureClick(fn func(FeatureClickContext)) CallbackHandle {
	g.handlers.nextID++
	id := g.handlers.nextID
	g.handlers.featureClick = append(g.handlers.featureClick, featureClickHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &g.handlers, event: EventFeatureClick}
}

// OnHoverChange registers a callback for changes of the hovered feature.
func (g *Globe) OnHoverChange(fn func(HoverContext)) CallbackHandle {
	g.handlers.nextID++
	id := g.handlers.nextID
	g.handlers.hover = append(g.handlers.hover, hoverHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &g.handlers, event: EventHoverChange}
}

// OnViewChange registers a callback fired once per frame in which rotation
// or zoom changed.
func (g *Globe) OnViewChange(fn func(ViewContext)) CallbackHandle {
	g.handlers.nextID++
	id := g.handlers.nextID
	g.handlers.view = append(g.handlers.view, viewHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &g.handlers, event: EventViewChange}
}

// --- Event dispatch ---

func (g *Globe) fireClick(ctx ClickContext) {
	for _, h := range g.handlers.click {
		h.fn(ctx)
	}
	ev := Event{Type: EventClick, X: ctx.X, Y: ctx.Y, Lat: ctx.At.Lat, Lng: ctx.At.Lng}
	if ctx.Feature != nil {
		ev.FeatureID = ctx.Feature.ID
	}
	g.emit(ev)
}

func (g *Globe) fireFeatureClick(ctx FeatureClickContext) {
	for _, h := range g.handlers.featureClick {
		h.fn(ctx)
	}
	g.emit(Event{
		Type: EventFeatureClick, FeatureID: ctx.Feature.ID,
		Lat: ctx.At.Lat, Lng: ctx.At.Lng, X: ctx.X, Y: ctx.Y,
	})
}

func (g *Globe) fireHover(ctx HoverContext) {
	for _, h := range g.handlers.hover {
		h.fn(ctx)
	}
	ev := Event{Type: EventHoverChange, X: ctx.X, Y: ctx.Y}
	if ctx.Feature != nil {
		ev.FeatureID = ctx.Feature.ID
	}
	g.emit(ev)
}

func (g *Globe) fireViewChange(v View) {
	ctx := ViewContext{View: v}
	for _, h := range g.handlers.view {
		h.fn(ctx)
	}
	g.emit(Event{
		Type: EventViewChange, X: v.CenterX, Y: v.CenterY,
		RotationX: v.RotationX, RotationY: v.RotationY, Zoom: v.Zoom,
	})
}

func (g *Globe) emit(ev Event) {
	if g.sink == nil {
		return
	}
	g.sink.EmitEvent(ev)
}
