package globe

// HitTest resolves the feature under screen point (sx, sy). It returns the
// first feature, in input order, whose outer rings contain the unprojected
// coordinate, along with that coordinate. ok is false when the point is off
// the sphere; in that case the feature is nil and the coordinate zero.
// A point on the sphere that hits no feature returns a nil feature, the
// coordinate, and ok true.
func HitTest(sx, sy float64, features []*Feature, v View) (f *Feature, at LatLng, ok bool) {
	dx := sx - v.CenterX
	dy := sy - v.CenterY
	r := Radius * v.Zoom
	if dx*dx+dy*dy > r*r {
		return nil, LatLng{}, false
	}
	at, ok = Unproject(sx, sy, v)
	if !ok {
		return nil, LatLng{}, false
	}
	for _, feat := range features {
		if PointInFeature(at.Lat, at.Lng, feat) {
			return feat, at, true
		}
	}
	return nil, at, true
}
