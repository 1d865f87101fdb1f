// Package geo provides great-circle distance calculations and distance
// formatting for coordinates expressed in WGS84 decimal degrees.
package geo

import (
	"math"
)

const (
	// EarthRadiusKm is the mean Earth radius used by the Haversine formula
	EarthRadiusKm = 6371.0

	// MilesPerKm converts kilometers to statute miles
	MilesPerKm = 0.621371

	feetPerMile    = 5280.0
	metersPerKm    = 1000.0
	equalityMargin = 1e-9
)

// Coordinate represents a geographical point
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate lies within WGS84 ranges.
// DistanceKm does not call it; callers that accept user input should.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Equal reports whether two coordinates are the same point within a small margin
func (c Coordinate) Equal(other Coordinate) bool {
	return math.Abs(c.Latitude-other.Latitude) < equalityMargin &&
		math.Abs(c.Longitude-other.Longitude) < equalityMargin
}

// DistanceKm calculates the great-circle distance between two points using the Haversine formula
func DistanceKm(a, b Coordinate) float64 {
	dLat := degreesToRadians(b.Latitude - a.Latitude)
	dLon := degreesToRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(a.Latitude))*math.Cos(degreesToRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// DistanceMiles calculates the great-circle distance in statute miles
func DistanceMiles(a, b Coordinate) float64 {
	return KmToMiles(DistanceKm(a, b))
}

// KmToMiles converts kilometers to miles
func KmToMiles(km float64) float64 {
	return km * MilesPerKm
}

// MilesToKm converts miles to kilometers
func MilesToKm(miles float64) float64 {
	return miles / MilesPerKm
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
