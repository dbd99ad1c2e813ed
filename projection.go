package globe

import "math"

// Radius is the sphere radius in canvas units at zoom 1.
const Radius = 240.0

// EarthRadiusKm is the mean Earth radius used for distances.
const EarthRadiusKm = 6371.0

const degToRad = math.Pi / 180

// LatLng is a geographic coordinate in degrees.
type LatLng struct {
	Lat, Lng float64
}

// Vec3 is a point in the sphere's 3D frame. +Y is north, +Z faces the viewer
// before rotation.
type Vec3 struct {
	X, Y, Z float64
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// ScreenPoint is a projected point. Depth is the rotated z divided by Radius:
// positive values face the viewer.
type ScreenPoint struct {
	X, Y, Depth float64
}

// FrontFacing reports whether the point is on the visible hemisphere.
func (p ScreenPoint) FrontFacing() bool {
	return p.Depth > 0
}

// LatLngToCartesian converts a coordinate to a point on a sphere of the
// given radius.
func LatLngToCartesian(lat, lng, radius float64) Vec3 {
	latRad := lat * degToRad
	lngRad := lng * degToRad
	return Vec3{
		X: radius * math.Cos(latRad) * math.Sin(lngRad),
		Y: radius * math.Sin(latRad),
		Z: radius * math.Cos(latRad) * math.Cos(lngRad),
	}
}

// CartesianToLatLng converts a 3D point of any length back to a coordinate.
// Returns false for the zero vector.
func CartesianToLatLng(p Vec3) (LatLng, bool) {
	r := p.Len()
	if r == 0 {
		return LatLng{}, false
	}
	x, y, z := p.X/r, p.Y/r, p.Z/r
	// Rounding can push |y| a hair past 1.
	y = math.Max(-1, math.Min(1, y))
	return LatLng{
		Lat: math.Asin(y) / degToRad,
		Lng: math.Atan2(x, z) / degToRad,
	}, true
}

// RotatePoint applies the view rotation: about X by rx, then about Y by ry.
func RotatePoint(p Vec3, rx, ry float64) Vec3 {
	cx, sx := math.Cos(rx), math.Sin(rx)
	cy, sy := math.Cos(ry), math.Sin(ry)

	y1 := p.Y*cx - p.Z*sx
	z1 := p.Y*sx + p.Z*cx

	x2 := p.X*cy + z1*sy
	z2 := -p.X*sy + z1*cy
	return Vec3{X: x2, Y: y1, Z: z2}
}

// InverseRotatePoint undoes RotatePoint: about Y by -ry, then about X by -rx.
// The order must mirror the forward transform or hit-testing drifts away
// from what is drawn.
func InverseRotatePoint(p Vec3, rx, ry float64) Vec3 {
	cy, sy := math.Cos(-ry), math.Sin(-ry)
	cx, sx := math.Cos(-rx), math.Sin(-rx)

	x1 := p.X*cy + p.Z*sy
	z1 := -p.X*sy + p.Z*cy

	y2 := p.Y*cx - z1*sx
	z2 := p.Y*sx + z1*cx
	return Vec3{X: x1, Y: y2, Z: z2}
}

// Project maps a coordinate to the screen for the given view.
func Project(lat, lng float64, v View) ScreenPoint {
	p := RotatePoint(LatLngToCartesian(lat, lng, Radius), v.RotationX, v.RotationY)
	return ScreenPoint{
		X:     v.CenterX + p.X*v.Zoom,
		Y:     v.CenterY - p.Y*v.Zoom,
		Depth: p.Z / Radius,
	}
}

// ScreenToSphere maps a screen point to the front-facing point of the
// unrotated sphere. Returns false outside the silhouette.
func ScreenToSphere(sx, sy float64, v View) (Vec3, bool) {
	if v.Zoom <= 0 {
		return Vec3{}, false
	}
	x := (sx - v.CenterX) / v.Zoom
	y := -(sy - v.CenterY) / v.Zoom
	distSq := x*x + y*y
	if distSq > Radius*Radius {
		return Vec3{}, false
	}
	z := math.Sqrt(Radius*Radius - distSq)
	return InverseRotatePoint(Vec3{X: x, Y: y, Z: z}, v.RotationX, v.RotationY), true
}

// Unproject maps a screen point back to a coordinate. Returns false when the
// point lies outside the sphere's silhouette; callers treat that as "nothing
// under the pointer".
func Unproject(sx, sy float64, v View) (LatLng, bool) {
	p, ok := ScreenToSphere(sx, sy, v)
	if !ok {
		return LatLng{}, false
	}
	return CartesianToLatLng(p)
}

// RotationFor returns the view rotation that brings (lat, lng) to the front
// centre of the sphere. The X angle is clamped to the view's pitch range, so
// coordinates near the poles end up as close to centre as the clamp allows.
func RotationFor(lat, lng float64) (rx, ry float64) {
	p := LatLngToCartesian(lat, lng, 1)
	switch {
	case p.Z != 0:
		rx = math.Atan(p.Y / p.Z)
	case p.Y > 0:
		rx = MaxRotationX
	case p.Y < 0:
		rx = -MaxRotationX
	}
	rx = clampRotationX(rx)
	z1 := p.Y*math.Sin(rx) + p.Z*math.Cos(rx)
	ry = math.Atan2(-p.X, z1)
	return rx, ry
}

// GreatCircleDistance returns the haversine distance between two coordinates
// on a sphere of the given radius (EarthRadiusKm for kilometres).
func GreatCircleDistance(a, b LatLng, radius float64) float64 {
	lat1 := a.Lat * degToRad
	lat2 := b.Lat * degToRad
	dLat := lat2 - lat1
	dLng := (b.Lng - a.Lng) * degToRad
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return radius * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Interpolate moves t of the way from a to b along the great circle joining
// them. t is clamped to [0, 1]. Antipodal endpoints fall back to a linear
// blend of the coordinates.
func Interpolate(a, b LatLng, t float64) LatLng {
	t = clamp01(t)
	pa := LatLngToCartesian(a.Lat, a.Lng, 1)
	pb := LatLngToCartesian(b.Lat, b.Lng, 1)
	dot := pa.X*pb.X + pa.Y*pb.Y + pa.Z*pb.Z
	dot = math.Max(-1, math.Min(1, dot))
	omega := math.Acos(dot)
	if omega < 1e-9 {
		return a
	}
	so := math.Sin(omega)
	if so < 1e-9 {
		return LatLng{Lat: a.Lat + (b.Lat-a.Lat)*t, Lng: a.Lng + (b.Lng-a.Lng)*t}
	}
	wa := math.Sin((1-t)*omega) / so
	wb := math.Sin(t*omega) / so
	ll, _ := CartesianToLatLng(Vec3{
		X: wa*pa.X + wb*pb.X,
		Y: wa*pa.Y + wb*pb.Y,
		Z: wa*pa.Z + wb*pb.Z,
	})
	return ll
}

// Heading returns the initial bearing in degrees (0 = north, clockwise) for
// travelling from a to b.
func Heading(a, b LatLng) float64 {
	lat1 := a.Lat * degToRad
	lat2 := b.Lat * degToRad
	dLng := (b.Lng - a.Lng) * degToRad
	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	deg := math.Atan2(y, x) / degToRad
	return math.Mod(deg+360, 360)
}
