package geo

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/kaipandu/pandu/backend-go/internal/models"
)

const mapsDirectionsBase = "https://www.google.com/maps/dir/"

// MapsDirectionsURL builds a Google Maps directions link to the station
func MapsDirectionsURL(station models.Station) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("destination", fmt.Sprintf("%s,%s",
		strconv.FormatFloat(station.Lat, 'f', -1, 64),
		strconv.FormatFloat(station.Lng, 'f', -1, 64)))
	q.Set("destination_place_id", station.Name+" Station")
	return mapsDirectionsBase + "?" + q.Encode()
}
