package score

import (
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// Located is the approximate position of an IP address. HasCoords is false
// when the database only knows the country; callers then centre on the
// country's shape instead.
type Located struct {
	IP        string  `json:"ip"`
	Country   string  `json:"country"`
	Name      string  `json:"name,omitempty"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	HasCoords bool    `json:"hasCoords"`
}

// Locator resolves an IP address to a place.
type Locator interface {
	Locate(ip net.IP) (Located, error)
}

// GeoIPLocator reads a MaxMind GeoLite2 or GeoIP2 database, either the City
// or the Country edition.
type GeoIPLocator struct {
	r    *geoip2.Reader
	city bool
}

// OpenGeoIP opens the database at path.
func OpenGeoIP(path string) (*GeoIPLocator, error) {
	r, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("score: open geoip %s: %w", path, err)
	}
	return &GeoIPLocator{r: r, city: strings.Contains(r.Metadata().DatabaseType, "City")}, nil
}

// Locate looks ip up. Addresses the database does not know return
// ErrNotFound.
func (l *GeoIPLocator) Locate(ip net.IP) (Located, error) {
	out := Located{IP: ip.String()}
	if l.city {
		rec, err := l.r.City(ip)
		if err != nil {
			return Located{}, fmt.Errorf("score: geoip city: %w", err)
		}
		out.Country = rec.Country.IsoCode
		out.Name = rec.Country.Names["en"]
		out.Lat, out.Lng = rec.Location.Latitude, rec.Location.Longitude
		out.HasCoords = rec.Location.Latitude != 0 || rec.Location.Longitude != 0
	} else {
		rec, err := l.r.Country(ip)
		if err != nil {
			return Located{}, fmt.Errorf("score: geoip country: %w", err)
		}
		out.Country = rec.Country.IsoCode
		out.Name = rec.Country.Names["en"]
	}
	if out.Country == "" {
		return Located{}, ErrNotFound
	}
	return out, nil
}

// Close releases the database.
func (l *GeoIPLocator) Close() error { return l.r.Close() }

// ParseIP extracts the address from a RemoteAddr style "host:port" or a
// bare address.
func ParseIP(s string) net.IP {
	s = strings.TrimSpace(s)
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}
	return net.ParseIP(strings.Trim(s, "[]"))
}
