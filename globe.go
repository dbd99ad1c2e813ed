package globe

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at draw submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is opaque white.
var ColorWhite = Color{1, 1, 1, 1}

// WithAlpha returns a copy of c with the alpha component replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// RGB8 builds an opaque Color from 8-bit channel values.
func RGB8(r, g, b uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, 1}
}

// toRGBA converts a Color to a premultiplied 8-bit color.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface for image.Fill and the
// vector helpers.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for screen positions and deltas.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// GestureState is the current state of the gesture controller.
type GestureState uint8

const (
	GestureIdle     GestureState = iota // no pointer held, no coasting
	GestureDragging                     // single pointer held, rotating the globe
	GesturePinching                     // two touches held, zooming/twisting
	GestureCoasting                     // released with momentum, inertia running
)

// String returns the lower-case state name.
func (s GestureState) String() string {
	switch s {
	case GestureIdle:
		return "idle"
	case GestureDragging:
		return "dragging"
	case GesturePinching:
		return "pinching"
	case GestureCoasting:
		return "coasting"
	default:
		return "unknown"
	}
}

// EventType identifies a kind of outbound globe event.
type EventType uint8

const (
	EventClick        EventType = iota // fires on every click, hit or miss
	EventFeatureClick                  // fires when a click resolves to a feature
	EventHoverChange                   // fires when the hovered feature changes
	EventViewChange                    // fires when rotation or zoom changes
)

// StyleTier is the render style a feature is drawn with. Higher tiers win.
type StyleTier uint8

const (
	TierNormal        StyleTier = iota // base color at partial alpha, thin dark outline
	TierHovered                        // hovered or last clicked: white outline
	TierGameSelected                   // picked in the population game: gold outline
	TierQuizSelected                   // picked in the quiz: orange fill
	TierQuizCorrect                    // revealed quiz answer: green fill
)

// HighlightSet maps feature ids to a style tier. Sets are owned by game
// adapters and only read by the renderer.
type HighlightSet map[string]StyleTier
