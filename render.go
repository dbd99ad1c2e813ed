package globe

import (
	"math"
	"math/rand/v2"
)

// Palette.
var (
	backgroundInner = RGB8(0x1a, 0x20, 0x40)
	backgroundOuter = RGB8(0x00, 0x05, 0x10)
	sphereColor     = RGB8(0x00, 0x77, 0xD6)
	starColor       = RGB8(0xF5, 0xF5, 0xF5)
	gridColor       = ColorWhite.WithAlpha(0.2)
	markerColor     = RGB8(255, 215, 0).WithAlpha(0.8)
	markerGlow      = RGB8(255, 215, 0).WithAlpha(0.25)
	routeColor      = ColorWhite.WithAlpha(0.7)
	planeColor      = ColorWhite

	// DefaultFeatureColor is used for features without a base color.
	DefaultFeatureColor = RGB8(0xCC, 0xCC, 0xCC)
)

const (
	gridStep       = 20.0
	gridSample     = 5.0
	gridWidth      = 0.5
	markerRadius   = 5.0
	markerGlowSize = 12.0
	routeSamples   = 30
)

// Star is one background star. X and Y are fractions of the canvas size so
// the field survives a resize.
type Star struct {
	X, Y    float64
	Size    float64
	Opacity float64
}

// GenerateStars returns a fixed random star field. The same seed always
// produces the same field.
func GenerateStars(n int, seed uint64) []Star {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	stars := make([]Star, n)
	for i := range stars {
		stars[i] = Star{
			X:       rng.Float64(),
			Y:       rng.Float64(),
			Size:    rng.Float64(),
			Opacity: rng.Float64()*0.8 + 0.2,
		}
	}
	return stars
}

// Marker marks the last clicked location.
type Marker struct {
	At    LatLng
	Label string
}

// StyleInputs are the read-only per-frame inputs that pick each feature's
// look. They are supplied by the host and the game adapters.
type StyleInputs struct {
	BaseColors map[string]Color
	HoveredID  string
	ClickedID  string
	Highlights []HighlightSet
}

// Tier returns the style tier for a feature id. The highest tier across the
// highlight sets and the hover/click state wins.
func (s StyleInputs) Tier(id string) StyleTier {
	tier := TierNormal
	if id != "" && (id == s.HoveredID || id == s.ClickedID) {
		tier = TierHovered
	}
	for _, hs := range s.Highlights {
		if t, ok := hs[id]; ok && t > tier {
			tier = t
		}
	}
	return tier
}

// BaseColor returns the feature's base color or DefaultFeatureColor.
func (s StyleInputs) BaseColor(id string) Color {
	if c, ok := s.BaseColors[id]; ok {
		return c
	}
	return DefaultFeatureColor
}

// FeatureStyle is the fill and outline a feature is drawn with.
type FeatureStyle struct {
	Fill        Color
	Stroke      Color
	StrokeWidth float64
}

// StyleFor resolves the drawing style of a tier for a given base color.
func StyleFor(tier StyleTier, base Color) FeatureStyle {
	switch tier {
	case TierQuizCorrect:
		return FeatureStyle{RGB8(76, 175, 80).WithAlpha(0.8), ColorWhite, 3}
	case TierQuizSelected:
		return FeatureStyle{RGB8(255, 140, 0).WithAlpha(0.8), ColorWhite, 3}
	case TierGameSelected:
		return FeatureStyle{base.WithAlpha(0xEE / 255.0), RGB8(255, 215, 0), 4}
	case TierHovered:
		return FeatureStyle{base.WithAlpha(0xEE / 255.0), ColorWhite, 3}
	default:
		return FeatureStyle{base.WithAlpha(0xAA / 255.0), Color{0, 0, 0, 0.5}, 0.8}
	}
}

// Frame bundles everything one render pass reads.
type Frame struct {
	View     View
	Features []*Feature
	Style    StyleInputs
	Stars    []Star
	Marker   *Marker
	Plane    *Plane
}

// RenderStats counts what a render pass drew.
type RenderStats struct {
	Features     int // features with at least one visible segment
	Rings        int // rings projected
	SkippedRings int // degenerate rings ignored
	Subpaths     int // path pieces after breaking at the horizon
}

// Renderer draws a Frame onto a Canvas. It keeps scratch buffers between
// passes but no globe state.
type Renderer struct {
	path Path
}

// Render draws f onto c, back to front.
func (r *Renderer) Render(c Canvas, f Frame) RenderStats {
	var stats RenderStats
	w, h := c.Size()
	v := f.View

	c.Clear(backgroundOuter)
	c.FillRadialGradient(v.CenterX, v.CenterY, w/1.5, backgroundInner, backgroundOuter)

	for _, s := range f.Stars {
		c.FillCircle(s.X*w, s.Y*h, math.Max(s.Size, 0.5), starColor.WithAlpha(s.Opacity))
	}

	c.FillCircle(v.CenterX, v.CenterY, v.SilhouetteRadius(), sphereColor)

	for _, feat := range f.Features {
		if feat == nil {
			continue
		}
		r.path.Reset()
		for _, part := range feat.Parts {
			if len(part.Outer) < 3 {
				stats.SkippedRings++
				continue
			}
			stats.Rings++
			appendRing(&r.path, part.Outer, v)
		}
		if r.path.Empty() {
			continue
		}
		stats.Features++
		stats.Subpaths += r.path.Subpaths()
		st := StyleFor(f.Style.Tier(feat.ID), f.Style.BaseColor(feat.ID))
		c.FillPath(&r.path, st.Fill)
		c.StrokePath(&r.path, st.Stroke, st.StrokeWidth)
	}

	r.drawGrid(c, v)

	if f.Plane != nil {
		r.drawPlane(c, v, f.Plane)
	}
	if f.Marker != nil {
		drawMarker(c, v, f.Marker)
	}
	return stats
}

// appendRing projects ring and appends its front-facing spans to p. Where an
// edge crosses the horizon the span is cut at the crossing so no segment runs
// across the far side of the sphere.
func appendRing(p *Path, ring Ring, v View) {
	start := p.Subpaths()
	var prev, first ScreenPoint
	havePrev, haveFirst := false, false
	open := false
	allFront := true
	for _, ll := range ring {
		if !finite(ll.Lat) || !finite(ll.Lng) {
			allFront = false
			open = false
			havePrev = false
			continue
		}
		pt := Project(ll.Lat, ll.Lng, v)
		if !haveFirst {
			first, haveFirst = pt, true
		}
		front := pt.FrontFacing()
		switch {
		case front && open:
			p.LineTo(pt.X, pt.Y)
		case front:
			if havePrev {
				hx, hy := horizonCrossing(prev, pt, v)
				p.MoveTo(hx, hy)
				p.LineTo(pt.X, pt.Y)
			} else {
				p.MoveTo(pt.X, pt.Y)
			}
			open = true
		case open:
			allFront = false
			hx, hy := horizonCrossing(prev, pt, v)
			p.LineTo(hx, hy)
			open = false
		default:
			allFront = false
		}
		prev = pt
		havePrev = true
	}
	end := p.Subpaths()
	switch {
	case allFront && end == start+1:
		p.Close()
	case !haveFirst || !havePrev || end == start:
	case open && first.FrontFacing() && end > start+1:
		// The last span wraps around into the first one.
		p.join(end-1, start)
	case open && !first.FrontFacing():
		// The closing edge runs from the last vertex back to a hidden first one.
		hx, hy := horizonCrossing(prev, first, v)
		p.LineTo(hx, hy)
	case !open && first.FrontFacing() && !prev.FrontFacing():
		hx, hy := horizonCrossing(prev, first, v)
		p.prepend(start, hx, hy)
	}
}

// horizonCrossing returns the point on the silhouette where the great
// circle arc a→b crosses depth zero.
func horizonCrossing(a, b ScreenPoint, v View) (x, y float64) {
	d := a.Depth - b.Depth
	if d == 0 {
		return b.X, b.Y
	}
	t := a.Depth / d
	x = a.X + (b.X-a.X)*t
	y = a.Y + (b.Y-a.Y)*t
	// The chord crosses inside the sphere; push it out to the rim.
	dx, dy := x-v.CenterX, y-v.CenterY
	if l := math.Hypot(dx, dy); l > 0 {
		k := v.SilhouetteRadius() / l
		x, y = v.CenterX+dx*k, v.CenterY+dy*k
	}
	return x, y
}

// drawGrid draws latitude rings every 20° (poles skipped) and meridians
// every 20°, front-facing parts only.
func (r *Renderer) drawGrid(c Canvas, v View) {
	r.path.Reset()
	for lat := -90 + gridStep; lat < 90; lat += gridStep {
		appendPolyline(&r.path, v, func(i int) (LatLng, bool) {
			lng := -180 + float64(i)*gridSample
			return LatLng{Lat: lat, Lng: lng}, lng <= 180
		})
	}
	for lng := -180.0; lng < 180; lng += gridStep {
		appendPolyline(&r.path, v, func(i int) (LatLng, bool) {
			lat := -90 + float64(i)*gridSample
			return LatLng{Lat: lat, Lng: lng}, lat <= 90
		})
	}
	if !r.path.Empty() {
		c.StrokePath(&r.path, gridColor, gridWidth)
	}
}

// appendPolyline projects the open polyline produced by next and appends
// its front-facing spans to p.
func appendPolyline(p *Path, v View, next func(i int) (LatLng, bool)) {
	open := false
	for i := 0; ; i++ {
		ll, ok := next(i)
		if !ok {
			return
		}
		pt := Project(ll.Lat, ll.Lng, v)
		if !pt.FrontFacing() {
			open = false
			continue
		}
		if open {
			p.LineTo(pt.X, pt.Y)
		} else {
			p.MoveTo(pt.X, pt.Y)
			open = true
		}
	}
}

func drawMarker(c Canvas, v View, m *Marker) {
	pt := Project(m.At.Lat, m.At.Lng, v)
	if !pt.FrontFacing() {
		return
	}
	c.FillCircle(pt.X, pt.Y, markerGlowSize, markerGlow)
	c.FillCircle(pt.X, pt.Y, markerRadius, markerColor)
	if m.Label != "" {
		_, th := c.MeasureText(m.Label)
		c.DrawText(m.Label, pt.X+markerGlowSize, pt.Y-th/2, ColorWhite)
	}
}

func (r *Renderer) drawPlane(c Canvas, v View, pl *Plane) {
	r.path.Reset()
	appendPolyline(&r.path, v, func(i int) (LatLng, bool) {
		if i > routeSamples {
			return LatLng{}, false
		}
		return Interpolate(pl.From, pl.To, float64(i)/routeSamples), true
	})
	if !r.path.Empty() {
		c.StrokePath(&r.path, routeColor, 2)
	}

	pt := Project(pl.Pos.Lat, pl.Pos.Lng, v)
	if !pt.FrontFacing() {
		return
	}
	// Aim along the route on screen.
	ahead := Project(pl.To.Lat, pl.To.Lng, v)
	if pl.Progress < 0.98 {
		a := Interpolate(pl.Pos, pl.To, 0.05)
		ahead = Project(a.Lat, a.Lng, v)
	}
	angle := math.Atan2(ahead.Y-pt.Y, ahead.X-pt.X)
	size := math.Max(8, 12*(1+(v.Zoom-1)*0.5))

	r.path.Reset()
	cos, sin := math.Cos(angle), math.Sin(angle)
	tip := func(dx, dy float64) (float64, float64) {
		return pt.X + dx*cos - dy*sin, pt.Y + dx*sin + dy*cos
	}
	r.path.MoveTo(tip(size, 0))
	r.path.LineTo(tip(-size*0.6, size*0.5))
	r.path.LineTo(tip(-size*0.3, 0))
	r.path.LineTo(tip(-size*0.6, -size*0.5))
	r.path.Close()
	c.FillPath(&r.path, planeColor.WithAlpha(math.Max(0.2, pt.Depth)))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
