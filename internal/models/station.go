package models

// Location is an observer coordinate in WGS84 degrees
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Station is a static railway station reference record
type Station struct {
	Name string  `json:"name"`
	Code string  `json:"code"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Location returns the station coordinate
func (s Station) Location() Location {
	return Location{Lat: s.Lat, Lng: s.Lng}
}

// RankedStation is a Station with its distance from an observer
type RankedStation struct {
	Station
	DistanceKm float64 `json:"distanceKm"`
	MapsURL    string  `json:"mapsUrl,omitempty"`
}

// StationPresence is the outcome of a "am I at a station" check
type StationPresence struct {
	Observer       Location        `json:"observer"`
	RadiusKm       float64         `json:"radiusKm"`
	InStationArea  bool            `json:"inStationArea"`
	CurrentStation *RankedStation  `json:"currentStation,omitempty"`
	Nearby         []RankedStation `json:"nearbyStations"`
}
