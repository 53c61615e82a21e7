package geo

import (
	"fmt"
	"math"
	"sort"

	"github.com/kaipandu/pandu/backend-go/internal/models"
)

// RankStations annotates every station with its distance from observer and
// returns them nearest first. Ties keep input order; stations is not modified.
func RankStations(observer models.Location, stations []models.Station) []models.RankedStation {
	ranked := make([]models.RankedStation, len(stations))
	for i, station := range stations {
		ranked[i] = models.RankedStation{
			Station:    station,
			DistanceKm: DistanceKm(observer, station.Location()),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})

	return ranked
}

// IsNearAnyStation reports whether the closest station lies within radiusKm
func IsNearAnyStation(observer models.Location, stations []models.Station, radiusKm float64) bool {
	if len(stations) == 0 {
		return false
	}

	minDistance := math.Inf(1)
	for _, station := range stations {
		if d := DistanceKm(observer, station.Location()); d < minDistance {
			minDistance = d
		}
	}
	return minDistance <= radiusKm
}

// NearestStation returns the closest station, or false for an empty list
func NearestStation(observer models.Location, stations []models.Station) (models.RankedStation, bool) {
	if len(stations) == 0 {
		return models.RankedStation{}, false
	}
	return RankStations(observer, stations)[0], true
}

// RankStationsChecked validates observer before ranking
func RankStationsChecked(observer models.Location, stations []models.Station) ([]models.RankedStation, error) {
	if err := ValidateLocation(observer); err != nil {
		return nil, fmt.Errorf("ranking stations: %w", err)
	}
	return RankStations(observer, stations), nil
}

// IsNearAnyStationChecked validates observer and radius before deciding
func IsNearAnyStationChecked(observer models.Location, stations []models.Station, radiusKm float64) (bool, error) {
	if err := ValidateLocation(observer); err != nil {
		return false, fmt.Errorf("checking station radius: %w", err)
	}
	if !ValidRadius(radiusKm) {
		return false, fmt.Errorf("checking station radius: %w: %v", ErrInvalidRadius, radiusKm)
	}
	return IsNearAnyStation(observer, stations, radiusKm), nil
}

// ValidRadius reports whether radiusKm is usable as a station radius
func ValidRadius(radiusKm float64) bool {
	return !math.IsNaN(radiusKm) && radiusKm >= 0
}
