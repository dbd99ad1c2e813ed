package globe

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// MaxRingPoints is the vertex count above which rings are decimated at load.
const MaxRingPoints = 1000

// ErrNoFeatures is returned when a feature source parses but yields nothing
// drawable.
var ErrNoFeatures = errors.New("globe: no usable features")

// Property names probed during normalisation, in priority order.
var (
	idKeys         = []string{"code", "ISO_A3", "iso_a3", "adm0_a3_gb", "ADM0_A3"}
	nameKeys       = []string{"name", "NAME", "ADMIN", "admin"}
	populationKeys = []string{"pop_est", "population", "POP_EST"}
	continentKeys  = []string{"continent", "CONTINENT"}
)

// LoadFeatures reads and normalises a GeoJSON FeatureCollection file.
func LoadFeatures(path string) ([]*Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load features: %w", err)
	}
	feats, err := ParseFeatures(data)
	if err != nil {
		return nil, fmt.Errorf("load features %s: %w", path, err)
	}
	return feats, nil
}

// ParseFeatures normalises a GeoJSON FeatureCollection into Features. Every
// returned feature has a non-empty ID and at least one ring of three or more
// points; anything else is dropped.
func ParseFeatures(data []byte) ([]*Feature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	feats := make([]*Feature, 0, len(fc.Features))
	for i, gf := range fc.Features {
		f := normalizeFeature(gf, i)
		if f == nil {
			continue
		}
		feats = append(feats, f)
	}
	if len(feats) == 0 {
		return nil, ErrNoFeatures
	}
	return feats, nil
}

// LoadFeaturesOrFallback loads path, falling back to FallbackFeatures on any
// error. An empty path goes straight to the fallback.
func LoadFeaturesOrFallback(path string, log *slog.Logger) []*Feature {
	if path == "" {
		return FallbackFeatures()
	}
	feats, err := LoadFeatures(path)
	if err != nil {
		if log != nil {
			log.Warn("feature load failed, using fallback", "path", path, "err", err)
		}
		return FallbackFeatures()
	}
	if log != nil {
		log.Info("features loaded", "path", path, "count", len(feats))
	}
	return feats
}

func normalizeFeature(gf *geojson.Feature, index int) *Feature {
	if gf == nil || gf.Geometry == nil {
		return nil
	}
	var parts []Polygon
	switch g := gf.Geometry.(type) {
	case orb.Polygon:
		if p, ok := toPolygon(g); ok {
			parts = append(parts, p)
		}
	case orb.MultiPolygon:
		for _, poly := range g {
			if p, ok := toPolygon(poly); ok {
				parts = append(parts, p)
			}
		}
	default:
		return nil
	}
	if len(parts) == 0 {
		return nil
	}

	props := gf.Properties
	id := firstString(props, idKeys)
	if id == "" {
		id = idString(gf.ID)
	}
	if id == "" {
		id = "UNK" + strconv.Itoa(index)
	}
	name := firstString(props, nameKeys)
	if name == "" {
		name = id
	}
	return &Feature{
		ID:         id,
		Name:       name,
		Parts:      parts,
		Population: int64(firstNumber(props, populationKeys)),
		Continent:  firstString(props, continentKeys),
	}
}

func toPolygon(p orb.Polygon) (Polygon, bool) {
	if len(p) == 0 {
		return Polygon{}, false
	}
	outer := toRing(p[0])
	if len(outer) < 3 {
		return Polygon{}, false
	}
	poly := Polygon{Outer: outer}
	for _, h := range p[1:] {
		if r := toRing(h); len(r) >= 3 {
			poly.Holes = append(poly.Holes, r)
		}
	}
	return poly, true
}

func toRing(r orb.Ring) Ring {
	step := 1
	if len(r) > MaxRingPoints {
		step = (len(r) + MaxRingPoints - 1) / MaxRingPoints
	}
	out := make(Ring, 0, len(r)/step+1)
	for i := 0; i < len(r); i += step {
		pt := r[i]
		if !finite(pt.Lon()) || !finite(pt.Lat()) {
			continue
		}
		out = append(out, LatLng{Lat: pt.Lat(), Lng: pt.Lon()})
	}
	return out
}

func firstString(props geojson.Properties, keys []string) string {
	for _, k := range keys {
		v, ok := props[k]
		if !ok || v == nil {
			continue
		}
		s := strings.TrimSpace(fmt.Sprint(v))
		// Natural Earth marks missing codes with -99.
		if s == "" || s == "-99" {
			continue
		}
		return s
	}
	return ""
}

func firstNumber(props geojson.Properties, keys []string) float64 {
	for _, k := range keys {
		switch v := props[k].(type) {
		case float64:
			if v > 0 {
				return v
			}
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
				return f
			}
		}
	}
	return 0
}

func idString(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return fmt.Sprint(v)
	}
}

// FallbackFeatures returns a small built-in dataset used when real data is
// unavailable.
func FallbackFeatures() []*Feature {
	box := func(id, name, continent string, pop int64, west, south, east, north float64) *Feature {
		return &Feature{
			ID:         id,
			Name:       name,
			Population: pop,
			Continent:  continent,
			Parts: []Polygon{{Outer: Ring{
				{Lat: south, Lng: west},
				{Lat: south, Lng: east},
				{Lat: north, Lng: east},
				{Lat: north, Lng: west},
				{Lat: south, Lng: west},
			}}},
		}
	}
	return []*Feature{
		box("USA", "United States", "North America", 331_000_000, -125, 24, -66, 49),
		box("ESP", "Spain", "Europe", 47_000_000, -10, 35, 3, 45),
		box("CHN", "China", "Asia", 1_402_000_000, 112, 18, 135, 53),
	}
}

// ColorScheme selects how base colors are assigned to features.
type ColorScheme uint8

const (
	SchemeCountry ColorScheme = iota // random muted pastel per feature
	SchemeHeat                       // population heat map, blue to red
)

// String returns the scheme name.
func (s ColorScheme) String() string {
	if s == SchemeHeat {
		return "heat"
	}
	return "country"
}

// Palette holds both base color sets so switching scheme does not
// reshuffle the random colors.
type Palette struct {
	country map[string]Color
	heat    map[string]Color
}

// NewPalette computes the country and heat colors for feats. rng drives the
// country colors; nil uses a fresh random source.
func NewPalette(feats []*Feature, rng *rand.Rand) *Palette {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	p := &Palette{
		country: make(map[string]Color, len(feats)),
		heat:    make(map[string]Color, len(feats)),
	}
	for _, f := range feats {
		p.country[f.ID] = randomPastel(rng)
		p.heat[f.ID] = HeatColor(f.Population)
	}
	return p
}

// Colors returns the base colors for a scheme.
func (p *Palette) Colors(s ColorScheme) map[string]Color {
	if s == SchemeHeat {
		return p.heat
	}
	return p.country
}

// HeatColor maps a population onto a blue→green→red ramp using a log scale
// that saturates at 1.5 billion.
func HeatColor(pop int64) Color {
	v := math.Min(math.Log(float64(max(pop, 0))+1)/math.Log(1.5e9), 1)
	return Color{
		R: math.Min(1, v*2),
		G: math.Min(1, 2-v*2),
		B: 1 - v,
		A: 1,
	}
}

func randomPastel(rng *rand.Rand) Color {
	h := float64(rng.IntN(360))
	s := float64(rng.IntN(30)+20) / 100
	l := float64(rng.IntN(30)+50) / 100
	return hsl(h, s, l)
}

// hsl converts hue in degrees and saturation/lightness in [0, 1] to RGB.
func hsl(h, s, l float64) Color {
	c := (1 - math.Abs(2*l-1)) * s
	hp := math.Mod(h, 360) / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := l - c/2
	return Color{R: r + m, G: g + m, B: b + m, A: 1}
}
