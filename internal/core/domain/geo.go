package domain

import "github.com/samirrijal/railwatch/internal/pkg/geospatial"

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point can take part in distance math.
func (p GeoPoint) Valid() bool {
	return geospatial.ValidCoordinates(p.Lat, p.Lon)
}

// DistanceTo returns the great-circle distance to q in meters.
func (p GeoPoint) DistanceTo(q GeoPoint) float64 {
	return geospatial.Haversine(p.Lat, p.Lon, q.Lat, q.Lon)
}
