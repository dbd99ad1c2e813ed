package globe

import (
	"math"
	"testing"
)

const epsilon = 1e-6

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func testViews() []View {
	return []View{
		{Zoom: 1, CenterX: 400, CenterY: 300, Width: 800, Height: 600},
		{RotationX: 0.4, RotationY: -1.2, Zoom: 2.5, CenterX: 512, CenterY: 384, Width: 1024, Height: 768},
		{RotationX: -MaxRotationX, RotationY: 7.3, Zoom: MinZoom, CenterX: 100, CenterY: 80},
		{RotationX: MaxRotationX, RotationY: -20, Zoom: MaxZoom, CenterX: 0, CenterY: 0},
	}
}

func TestProjectCentre(t *testing.T) {
	v := View{Zoom: 1, CenterX: 400, CenterY: 300}
	p := Project(0, 0, v)
	if !approxEqual(p.X, 400, epsilon) || !approxEqual(p.Y, 300, epsilon) {
		t.Errorf("Project(0,0) = (%f,%f), want (400,300)", p.X, p.Y)
	}
	if !approxEqual(p.Depth, 1, epsilon) {
		t.Errorf("Depth = %f, want 1", p.Depth)
	}
}

func TestProjectAxes(t *testing.T) {
	v := View{Zoom: 2, CenterX: 0, CenterY: 0}
	tests := []struct {
		name       string
		lat, lng   float64
		x, y, dept float64
	}{
		{"north pole is up", 90, 0, 0, -2 * Radius, 0},
		{"east is right", 0, 90, 2 * Radius, 0, 0},
		{"west is left", 0, -90, -2 * Radius, 0, 0},
		{"antipode is behind", 0, 180, 0, 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Project(tt.lat, tt.lng, v)
			if !approxEqual(p.X, tt.x, epsilon) || !approxEqual(p.Y, tt.y, epsilon) || !approxEqual(p.Depth, tt.dept, epsilon) {
				t.Errorf("Project(%v,%v) = %+v, want (%v,%v,%v)", tt.lat, tt.lng, p, tt.x, tt.y, tt.dept)
			}
		})
	}
}

func TestProjectUnprojectRoundTrip(t *testing.T) {
	for vi, v := range testViews() {
		checked := 0
		for lat := -85.0; lat <= 85; lat += 8.5 {
			for lng := -175.0; lng <= 175; lng += 12.5 {
				p := Project(lat, lng, v)
				if p.Depth <= 0.05 {
					continue
				}
				ll, ok := Unproject(p.X, p.Y, v)
				if !ok {
					t.Fatalf("view %d: Unproject(Project(%v,%v)) = none", vi, lat, lng)
				}
				if !approxEqual(ll.Lat, lat, epsilon) || !approxEqual(ll.Lng, lng, epsilon) {
					t.Errorf("view %d: round trip (%v,%v) -> (%v,%v)", vi, lat, lng, ll.Lat, ll.Lng)
				}
				checked++
			}
		}
		if checked == 0 {
			t.Errorf("view %d: no front-facing samples", vi)
		}
	}
}

func TestRotatePointInverse(t *testing.T) {
	p := Vec3{X: 12, Y: -80, Z: 200}
	for _, v := range testViews() {
		q := InverseRotatePoint(RotatePoint(p, v.RotationX, v.RotationY), v.RotationX, v.RotationY)
		if !approxEqual(q.X, p.X, epsilon) || !approxEqual(q.Y, p.Y, epsilon) || !approxEqual(q.Z, p.Z, epsilon) {
			t.Errorf("inverse(rotate(%+v)) = %+v", p, q)
		}
	}
}

func TestRotationOrderMatters(t *testing.T) {
	// Undoing X before Y must not recover the point once both angles are set.
	p := Vec3{X: 0, Y: 100, Z: 200}
	rx, ry := 0.6, 1.1
	r := RotatePoint(p, rx, ry)
	wrong := RotatePoint(RotatePoint(r, -rx, 0), 0, -ry)
	if approxEqual(wrong.X, p.X, 1e-3) && approxEqual(wrong.Y, p.Y, 1e-3) && approxEqual(wrong.Z, p.Z, 1e-3) {
		t.Fatal("expected swapped inverse order to disagree")
	}
}

func TestUnprojectSilhouetteReject(t *testing.T) {
	for _, v := range testViews() {
		r := Radius * v.Zoom
		for a := 0.0; a < 2*math.Pi; a += math.Pi / 7 {
			sx := v.CenterX + math.Cos(a)*(r+0.5)
			sy := v.CenterY + math.Sin(a)*(r+0.5)
			if _, ok := Unproject(sx, sy, v); ok {
				t.Errorf("Unproject(%v,%v) outside silhouette r=%v returned a point", sx, sy, r)
			}
		}
	}
}

func TestUnprojectZeroZoom(t *testing.T) {
	if _, ok := Unproject(0, 0, View{}); ok {
		t.Error("zero zoom should never unproject")
	}
}

func TestCartesianToLatLngZero(t *testing.T) {
	if _, ok := CartesianToLatLng(Vec3{}); ok {
		t.Error("zero vector should have no coordinate")
	}
}

func TestCartesianRoundTrip(t *testing.T) {
	tests := []LatLng{{0, 0}, {45, 45}, {-60, 170}, {10, -120}, {89, 1}}
	for _, ll := range tests {
		p := LatLngToCartesian(ll.Lat, ll.Lng, 3)
		if !approxEqual(p.Len(), 3, epsilon) {
			t.Errorf("radius = %f, want 3", p.Len())
		}
		got, ok := CartesianToLatLng(p)
		if !ok || !approxEqual(got.Lat, ll.Lat, epsilon) || !approxEqual(got.Lng, ll.Lng, epsilon) {
			t.Errorf("round trip %+v -> %+v", ll, got)
		}
	}
}

func TestResizeShiftsProjection(t *testing.T) {
	vs := NewViewState(800, 600)
	vs.SetRotation(0.3, 0.9)
	vs.SetZoom(1.7)
	before := Project(20, 30, vs.Snapshot())
	vs.Resize(1000, 500)
	after := Project(20, 30, vs.Snapshot())
	// Centre moves by (+100, -50).
	if !approxEqual(after.X-before.X, 100, epsilon) || !approxEqual(after.Y-before.Y, -50, epsilon) {
		t.Errorf("shift = (%f,%f), want (100,-50)", after.X-before.X, after.Y-before.Y)
	}
	if after.Depth != before.Depth {
		t.Errorf("depth changed on resize: %f -> %f", before.Depth, after.Depth)
	}
}

func TestRotationForCentresCoordinate(t *testing.T) {
	tests := []LatLng{{0, 0}, {40, -3}, {-33, 151}, {35, 139}, {-20, -60}}
	for _, ll := range tests {
		rx, ry := RotationFor(ll.Lat, ll.Lng)
		v := View{RotationX: rx, RotationY: ry, Zoom: 1, CenterX: 400, CenterY: 300}
		p := Project(ll.Lat, ll.Lng, v)
		if !approxEqual(p.X, 400, 1e-6) || !approxEqual(p.Y, 300, 1e-6) || !approxEqual(p.Depth, 1, 1e-9) {
			t.Errorf("RotationFor(%v) puts it at %+v", ll, p)
		}
	}
}

func TestRotationForClampsNearPoles(t *testing.T) {
	rx, _ := RotationFor(89, 10)
	if math.Abs(rx) > MaxRotationX+1e-12 {
		t.Errorf("rx = %f exceeds clamp %f", rx, MaxRotationX)
	}
	rx, _ = RotationFor(90, 0)
	if !approxEqual(rx, MaxRotationX, epsilon) && !approxEqual(rx, -MaxRotationX, epsilon) {
		t.Errorf("pole rx = %f, want ±%f", rx, MaxRotationX)
	}
}

func TestGreatCircleDistance(t *testing.T) {
	london := LatLng{51.5074, -0.1278}
	paris := LatLng{48.8566, 2.3522}
	d := GreatCircleDistance(london, paris, EarthRadiusKm)
	if d < 340 || d > 346 {
		t.Errorf("London-Paris = %f km, want ~343", d)
	}
	if GreatCircleDistance(paris, paris, EarthRadiusKm) != 0 {
		t.Error("distance to self should be 0")
	}
	half := GreatCircleDistance(LatLng{0, 0}, LatLng{0, 180}, 1)
	if !approxEqual(half, math.Pi, epsilon) {
		t.Errorf("antipodal distance = %f, want pi", half)
	}
}

func TestInterpolate(t *testing.T) {
	a := LatLng{0, 0}
	b := LatLng{0, 90}
	tests := []struct {
		t    float64
		want LatLng
	}{
		{0, a},
		{1, b},
		{0.5, LatLng{0, 45}},
		{-1, a},
		{2, b},
	}
	for _, tt := range tests {
		got := Interpolate(a, b, tt.t)
		if !approxEqual(got.Lat, tt.want.Lat, epsilon) || !approxEqual(got.Lng, tt.want.Lng, epsilon) {
			t.Errorf("Interpolate(t=%v) = %+v, want %+v", tt.t, got, tt.want)
		}
	}

	// Midpoint of a route along a meridian stays on it.
	mid := Interpolate(LatLng{-30, 20}, LatLng{30, 20}, 0.5)
	if !approxEqual(mid.Lat, 0, epsilon) || !approxEqual(mid.Lng, 20, epsilon) {
		t.Errorf("meridian midpoint = %+v", mid)
	}
}

func TestHeading(t *testing.T) {
	tests := []struct {
		name string
		a, b LatLng
		want float64
	}{
		{"north", LatLng{0, 0}, LatLng{10, 0}, 0},
		{"east", LatLng{0, 0}, LatLng{0, 10}, 90},
		{"south", LatLng{10, 0}, LatLng{0, 0}, 180},
		{"west", LatLng{0, 10}, LatLng{0, 0}, 270},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Heading(tt.a, tt.b); !approxEqual(got, tt.want, 1e-9) {
				t.Errorf("Heading = %f, want %f", got, tt.want)
			}
		})
	}
}
