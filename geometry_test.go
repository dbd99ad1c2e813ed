package globe

import "testing"

func square(lo, hi float64) Ring {
	return Ring{{lo, lo}, {lo, hi}, {hi, hi}, {hi, lo}, {lo, lo}}
}

func TestPointInRing(t *testing.T) {
	ring := square(0, 10)
	tests := []struct {
		name     string
		lat, lng float64
		want     bool
	}{
		{"centre", 5, 5, true},
		{"outside", 15, 15, false},
		{"left of ring", 5, -1, false},
		{"below ring", -1, 5, false},
		{"near inner corner", 0.001, 0.001, true},
		{"near outer corner", 9.999, 9.999, true},
		// Half-open edges: left and bottom are in, right and top are out.
		{"bottom-left vertex", 0, 0, true},
		{"top-right vertex", 10, 10, false},
		{"left edge", 5, 0, true},
		{"right edge", 5, 10, false},
		{"bottom edge", 0, 5, true},
		{"top edge", 10, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInRing(tt.lat, tt.lng, ring); got != tt.want {
				t.Errorf("PointInRing(%v, %v) = %v, want %v", tt.lat, tt.lng, got, tt.want)
			}
		})
	}
}

func TestPointInRingOpenForm(t *testing.T) {
	closed := square(0, 10)
	open := closed[:len(closed)-1]
	for lat := -2.5; lat <= 12.5; lat += 2.5 {
		for lng := -2.5; lng <= 12.5; lng += 2.5 {
			if PointInRing(lat, lng, closed) != PointInRing(lat, lng, open) {
				t.Errorf("(%v,%v): open and closed rings disagree", lat, lng)
			}
		}
	}
}

func TestPointInRingConcave(t *testing.T) {
	// A "U" opening to the north.
	u := Ring{{0, 0}, {0, 30}, {30, 30}, {30, 20}, {10, 20}, {10, 10}, {30, 10}, {30, 0}}
	if !PointInRing(5, 15, u) {
		t.Error("base of U should be inside")
	}
	if PointInRing(20, 15, u) {
		t.Error("notch of U should be outside")
	}
	if !PointInRing(20, 25, u) {
		t.Error("right arm of U should be inside")
	}
}

func TestPointInRingDegenerate(t *testing.T) {
	tests := []struct {
		name string
		ring Ring
	}{
		{"nil", nil},
		{"single", Ring{{1, 1}}},
		{"segment", Ring{{0, 0}, {10, 10}}},
		{"collinear", Ring{{0, 0}, {5, 5}, {10, 10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if PointInRing(5, 5, tt.ring) {
				t.Error("degenerate ring should contain nothing")
			}
		})
	}
}

func TestPointInFeature(t *testing.T) {
	f := &Feature{ID: "MULTI", Parts: []Polygon{
		{Outer: square(0, 10)},
		{Outer: square(20, 30)},
		{Outer: Ring{{50, 50}}},
	}}
	if !PointInFeature(5, 5, f) {
		t.Error("first part should hit")
	}
	if !PointInFeature(25, 25, f) {
		t.Error("second part should hit")
	}
	if PointInFeature(15, 15, f) {
		t.Error("gap between parts should miss")
	}
	if PointInFeature(5, 5, nil) {
		t.Error("nil feature should miss")
	}
	if PointInFeature(5, 5, &Feature{ID: "EMPTY"}) {
		t.Error("feature without parts should miss")
	}
}

func TestPointInFeatureIgnoresHoles(t *testing.T) {
	f := &Feature{Parts: []Polygon{{Outer: square(0, 10), Holes: []Ring{square(4, 6)}}}}
	if !PointInFeature(5, 5, f) {
		t.Error("points in a hole still hit the outer ring")
	}
}

func TestPointInRingAntimeridian(t *testing.T) {
	// Rings are tested in plain longitude space, so a ring spanning the
	// antimeridian covers the long way round.
	ring := Ring{{-10, 170}, {-10, -170}, {10, -170}, {10, 170}}
	if PointInRing(0, 179, ring) {
		t.Error("point near the antimeridian unexpectedly inside")
	}
	if !PointInRing(0, 0, ring) {
		t.Error("point on the far side unexpectedly outside")
	}
}

func TestFeatureBounds(t *testing.T) {
	f := &Feature{Parts: []Polygon{{Outer: square(0, 10)}, {Outer: Ring{{-5, 20}, {3, 25}, {1, 22}}}}}
	min, max, ok := f.Bounds()
	if !ok {
		t.Fatal("expected bounds")
	}
	if min != (LatLng{-5, 0}) || max != (LatLng{10, 25}) {
		t.Errorf("Bounds = %+v..%+v", min, max)
	}
	if _, _, ok := (&Feature{}).Bounds(); ok {
		t.Error("empty feature should have no bounds")
	}
}

func TestFeatureCentroid(t *testing.T) {
	f := &Feature{Parts: []Polygon{
		{Outer: Ring{{50, 50}, {51, 50}, {50, 51}}},
		{Outer: Ring{{0, 0}, {0, 10}, {10, 10}, {10, 0}}},
	}}
	c, ok := f.Centroid()
	if !ok {
		t.Fatal("expected centroid")
	}
	if !approxEqual(c.Lat, 5, epsilon) || !approxEqual(c.Lng, 5, epsilon) {
		t.Errorf("Centroid = %+v, want (5,5)", c)
	}
	if _, ok := (&Feature{}).Centroid(); ok {
		t.Error("empty feature should have no centroid")
	}
}
