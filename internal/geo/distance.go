// Package geo ranks railway stations by great-circle distance from an observer.
package geo

import (
	"math"

	"github.com/kaipandu/pandu/backend-go/internal/models"
)

const earthRadiusKm = 6371.0

// DistanceKm returns the haversine distance between two points in kilometres
func DistanceKm(a, b models.Location) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// ValidateLocation rejects NaN, infinite and out-of-range coordinates
func ValidateLocation(loc models.Location) error {
	switch {
	case math.IsNaN(loc.Lat) || math.IsNaN(loc.Lng):
		return NewInvalidCoordinatesError(loc, "coordinate is NaN")
	case math.IsInf(loc.Lat, 0) || math.IsInf(loc.Lng, 0):
		return NewInvalidCoordinatesError(loc, "coordinate is infinite")
	case loc.Lat < -90 || loc.Lat > 90:
		return NewInvalidCoordinatesError(loc, "latitude must be within [-90, 90]")
	case loc.Lng < -180 || loc.Lng > 180:
		return NewInvalidCoordinatesError(loc, "longitude must be within [-180, 180]")
	}
	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
