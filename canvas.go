package globe

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// Path is a sequence of polylines in screen space. Each MoveTo starts a new
// subpath.
type Path struct {
	subpaths []subpath
}

type subpath struct {
	pts    []Vec2
	closed bool
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	p.subpaths = append(p.subpaths, subpath{pts: []Vec2{{x, y}}})
}

// LineTo extends the current subpath. Without a current subpath it behaves
// like MoveTo.
func (p *Path) LineTo(x, y float64) {
	if len(p.subpaths) == 0 {
		p.MoveTo(x, y)
		return
	}
	last := &p.subpaths[len(p.subpaths)-1]
	last.pts = append(last.pts, Vec2{x, y})
}

// Close closes the current subpath.
func (p *Path) Close() {
	if len(p.subpaths) == 0 {
		return
	}
	p.subpaths[len(p.subpaths)-1].closed = true
}

// Reset empties the path, keeping its storage.
func (p *Path) Reset() {
	p.subpaths = p.subpaths[:0]
}

// Empty reports whether the path has no drawable segment.
func (p *Path) Empty() bool {
	for _, sp := range p.subpaths {
		if len(sp.pts) >= 2 {
			return false
		}
	}
	return true
}

// Subpaths returns the number of subpaths.
func (p *Path) Subpaths() int {
	return len(p.subpaths)
}

// join appends subpath src to the end of subpath dst and removes src.
func (p *Path) join(dst, src int) {
	pts := p.subpaths[src].pts
	d := &p.subpaths[dst]
	if n := len(d.pts); n > 0 && len(pts) > 0 && d.pts[n-1] == pts[0] {
		pts = pts[1:]
	}
	d.pts = append(d.pts, pts...)
	p.subpaths = append(p.subpaths[:src], p.subpaths[src+1:]...)
}

// prepend inserts (x, y) at the start of subpath i.
func (p *Path) prepend(i int, x, y float64) {
	sp := &p.subpaths[i]
	sp.pts = append([]Vec2{{x, y}}, sp.pts...)
}

// Points returns the vertices of subpath i.
func (p *Path) Points(i int) []Vec2 {
	return p.subpaths[i].pts
}

// Canvas is the drawing surface the Renderer paints on.
type Canvas interface {
	Size() (w, h float64)
	Clear(c Color)
	FillRadialGradient(cx, cy, r float64, inner, outer Color)
	FillCircle(cx, cy, r float64, c Color)
	FillRect(x, y, w, h float64, c Color)
	FillPath(p *Path, c Color)
	StrokePath(p *Path, c Color, width float64)
	DrawText(s string, x, y float64, c Color)
	MeasureText(s string) (w, h float64)
}

// gradientSteps is the number of rings used to approximate a radial
// gradient.
const gradientSteps = 48

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)

	labelFace = text.NewGoXFace(basicfont.Face7x13)
)

func init() {
	whiteImage.Fill(color.White)
}

// EbitenCanvas draws onto an *ebiten.Image with vector paths.
type EbitenCanvas struct {
	dst   *ebiten.Image
	verts []ebiten.Vertex
	inds  []uint16
}

// NewEbitenCanvas wraps dst.
func NewEbitenCanvas(dst *ebiten.Image) *EbitenCanvas {
	return &EbitenCanvas{dst: dst}
}

// Target replaces the destination image, keeping vertex buffers.
func (c *EbitenCanvas) Target(dst *ebiten.Image) {
	c.dst = dst
}

// Size returns the destination size in pixels.
func (c *EbitenCanvas) Size() (w, h float64) {
	b := c.dst.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// Clear fills the whole destination with col.
func (c *EbitenCanvas) Clear(col Color) {
	c.dst.Fill(col.toRGBA())
}

// FillRadialGradient paints concentric circles from outer at radius r to
// inner at the centre. The area outside r is left to the caller.
func (c *EbitenCanvas) FillRadialGradient(cx, cy, r float64, inner, outer Color) {
	for i := 0; i < gradientSteps; i++ {
		k := float64(i) / float64(gradientSteps-1)
		rr := r * (1 - k)
		if rr <= 0 {
			break
		}
		c.FillCircle(cx, cy, rr, lerpColor(outer, inner, k))
	}
}

// FillCircle fills a circle.
func (c *EbitenCanvas) FillCircle(cx, cy, r float64, col Color) {
	var vp vector.Path
	vp.Arc(float32(cx), float32(cy), float32(r), 0, 2*math.Pi, vector.Clockwise)
	vp.Close()
	c.verts, c.inds = vp.AppendVerticesAndIndicesForFilling(c.verts[:0], c.inds[:0])
	c.submit(col, ebiten.FillRuleNonZero)
}

// FillRect fills an axis-aligned rectangle.
func (c *EbitenCanvas) FillRect(x, y, w, h float64, col Color) {
	var vp vector.Path
	vp.MoveTo(float32(x), float32(y))
	vp.LineTo(float32(x+w), float32(y))
	vp.LineTo(float32(x+w), float32(y+h))
	vp.LineTo(float32(x), float32(y+h))
	vp.Close()
	c.verts, c.inds = vp.AppendVerticesAndIndicesForFilling(c.verts[:0], c.inds[:0])
	c.submit(col, ebiten.FillRuleNonZero)
}

// FillPath fills every subpath of p with the even-odd rule, matching the
// hit-test.
func (c *EbitenCanvas) FillPath(p *Path, col Color) {
	vp := toVectorPath(p, true)
	c.verts, c.inds = vp.AppendVerticesAndIndicesForFilling(c.verts[:0], c.inds[:0])
	c.submit(col, ebiten.FillRuleEvenOdd)
}

// StrokePath strokes every subpath of p.
func (c *EbitenCanvas) StrokePath(p *Path, col Color, width float64) {
	vp := toVectorPath(p, false)
	op := &vector.StrokeOptions{
		Width:    float32(width),
		LineJoin: vector.LineJoinRound,
		LineCap:  vector.LineCapRound,
	}
	c.verts, c.inds = vp.AppendVerticesAndIndicesForStroke(c.verts[:0], c.inds[:0], op)
	c.submit(col, ebiten.FillRuleFillAll)
}

// DrawText draws s with its top-left corner at (x, y).
func (c *EbitenCanvas) DrawText(s string, x, y float64, col Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.Scale(float32(col.R), float32(col.G), float32(col.B), float32(col.A))
	op.LineSpacing = labelFace.Metrics().HAscent + labelFace.Metrics().HDescent
	text.Draw(c.dst, s, labelFace, op)
}

// MeasureText returns the size s would take when drawn.
func (c *EbitenCanvas) MeasureText(s string) (w, h float64) {
	return measureLabel(s)
}

func measureLabel(s string) (w, h float64) {
	m := labelFace.Metrics()
	return text.Measure(s, labelFace, m.HAscent+m.HDescent)
}

func (c *EbitenCanvas) submit(col Color, rule ebiten.FillRule) {
	if len(c.inds) == 0 {
		return
	}
	for i := range c.verts {
		v := &c.verts[i]
		v.SrcX, v.SrcY = 1, 1
		v.ColorR = float32(col.R)
		v.ColorG = float32(col.G)
		v.ColorB = float32(col.B)
		v.ColorA = float32(col.A)
	}
	op := &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
		FillRule:  rule,
	}
	c.dst.DrawTriangles(c.verts, c.inds, whiteSubImage, op)
}

func toVectorPath(p *Path, close bool) *vector.Path {
	var vp vector.Path
	for _, sp := range p.subpaths {
		if len(sp.pts) < 2 {
			continue
		}
		vp.MoveTo(float32(sp.pts[0].X), float32(sp.pts[0].Y))
		for _, pt := range sp.pts[1:] {
			vp.LineTo(float32(pt.X), float32(pt.Y))
		}
		if close || sp.closed {
			vp.Close()
		}
	}
	return &vp
}

func lerpColor(a, b Color, k float64) Color {
	return Color{
		R: a.R + (b.R-a.R)*k,
		G: a.G + (b.G-a.G)*k,
		B: a.B + (b.B-a.B)*k,
		A: a.A + (b.A-a.A)*k,
	}
}
