// Package geo resolves a client IP to a coarse location for click analytics.
// The default resolver is a stub; a MaxMind database can be plugged in via
// configuration without touching the recording path.
package geo

import (
	"net"

	"github.com/oschwald/geoip2-golang"
)

// Resolver maps a client IP to a country/city pair. Implementations never
// fail: unresolvable addresses fall back to the stub values.
type Resolver interface {
	Resolve(ip string) (country, city string)
}

func isLoopback(ip string) bool {
	if ip == "" {
		return true
	}
	parsed := net.ParseIP(ip)
	return parsed != nil && parsed.IsLoopback()
}

// Stub is the default resolver: loopback addresses map to Local/Development,
// everything else to Unknown/Unknown.
type Stub struct{}

func (Stub) Resolve(ip string) (string, string) {
	if isLoopback(ip) {
		return "Local", "Development"
	}
	return "Unknown", "Unknown"
}

// MaxMind resolves locations from a GeoLite2 city database.
type MaxMind struct {
	reader *geoip2.Reader
}

func OpenMaxMind(path string) (*MaxMind, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	return &MaxMind{reader: reader}, nil
}

func (m *MaxMind) Resolve(ip string) (string, string) {
	if isLoopback(ip) {
		return "Local", "Development"
	}

	country, city := "Unknown", "Unknown"
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return country, city
	}

	record, err := m.reader.City(parsed)
	if err != nil {
		return country, city
	}
	if name, ok := record.Country.Names["en"]; ok && name != "" {
		country = name
	}
	if name, ok := record.City.Names["en"]; ok && name != "" {
		city = name
	}

	return country, city
}

func (m *MaxMind) Close() error {
	return m.reader.Close()
}
