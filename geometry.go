package globe

// Ring is a closed sequence of coordinates. The closing vertex may or may not
// repeat the first one; both forms hit-test the same.
type Ring []LatLng

// Polygon is one part of a feature: an outer boundary plus optional holes.
// Holes are kept for completeness but neither drawn nor hit-tested.
type Polygon struct {
	Outer Ring
	Holes []Ring
}

// Feature is a named geographic region normalised from GeoJSON. A single
// Polygon geometry becomes one part; a MultiPolygon becomes several.
type Feature struct {
	ID         string
	Name       string
	Parts      []Polygon
	Population int64
	Continent  string
}

// PointInRing reports whether (lat, lng) lies inside ring using even-odd ray
// casting in the plane with longitude as x and latitude as y. Rings with
// fewer than three vertices never contain anything.
//
// Edges follow the half-open crossing rule: a vertex counts for the edge
// above it but not the edge below it, and a point exactly on a left or
// bottom edge is inside while one on a right or top edge is outside.
func PointInRing(lat, lng float64, ring Ring) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	x, y := lng, lat
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i].Lng, ring[i].Lat
		xj, yj := ring[j].Lng, ring[j].Lat
		if (yi > y) != (yj > y) &&
			x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// PointInFeature reports whether (lat, lng) lies inside the outer ring of any
// part of f. Holes are ignored, and rings crossing the antimeridian are
// tested as drawn in plain longitude space.
func PointInFeature(lat, lng float64, f *Feature) bool {
	if f == nil {
		return false
	}
	for i := range f.Parts {
		if PointInRing(lat, lng, f.Parts[i].Outer) {
			return true
		}
	}
	return false
}

// Bounds returns the lat/lng bounding box of all outer rings. ok is false
// when the feature has no vertices.
func (f *Feature) Bounds() (min, max LatLng, ok bool) {
	for _, p := range f.Parts {
		for _, c := range p.Outer {
			if !ok {
				min, max, ok = c, c, true
				continue
			}
			if c.Lat < min.Lat {
				min.Lat = c.Lat
			}
			if c.Lng < min.Lng {
				min.Lng = c.Lng
			}
			if c.Lat > max.Lat {
				max.Lat = c.Lat
			}
			if c.Lng > max.Lng {
				max.Lng = c.Lng
			}
		}
	}
	return min, max, ok
}

// Centroid returns the vertex average of the largest outer ring. It is only
// used to aim fly-to and label placement, so no area weighting is done.
func (f *Feature) Centroid() (LatLng, bool) {
	var best Ring
	for _, p := range f.Parts {
		if len(p.Outer) > len(best) {
			best = p.Outer
		}
	}
	if len(best) == 0 {
		return LatLng{}, false
	}
	var sum LatLng
	for _, c := range best {
		sum.Lat += c.Lat
		sum.Lng += c.Lng
	}
	n := float64(len(best))
	return LatLng{Lat: sum.Lat / n, Lng: sum.Lng / n}, true
}
