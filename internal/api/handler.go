package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/kaipandu/pandu/backend-go/internal/geo"
	"github.com/kaipandu/pandu/backend-go/internal/models"
)

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

func (r APIResponse) GetResponseType() string {
	return r.ResponseType
}

type StationsResponse struct {
	APIResponse
	models.StationPresence
}

type StationResponse struct {
	APIResponse
	Station models.Station `json:"station"`
	MapsURL string         `json:"mapsUrl"`
}

type OrderResponse struct {
	APIResponse
	Order models.OrderRecord `json:"order"`
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

func NewStationsResponse(presence models.StationPresence) *StationsResponse {
	return &StationsResponse{
		APIResponse:     APIResponse{ResponseType: "stations"},
		StationPresence: presence,
	}
}

func NewStationResponse(station models.Station) *StationResponse {
	return &StationResponse{
		APIResponse: APIResponse{ResponseType: "station"},
		Station:     station,
		MapsURL:     geo.MapsDirectionsURL(station),
	}
}

func NewOrderResponse(order models.OrderRecord) *OrderResponse {
	return &OrderResponse{
		APIResponse: APIResponse{ResponseType: "order"},
		Order:       order,
	}
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: "error"},
		Error:       message,
	}
}

var defaultHeaders = map[string]string{
	"Content-Type":                "application/json",
	"Access-Control-Allow-Origin": "*",
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	return JSON(http.StatusOK, body)
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	return JSON(statusCode, NewErrorResponse(message))
}

// JSON encodes body with the given status code and the standard headers
func JSON(statusCode int, body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		statusCode = http.StatusInternalServerError
		jsonBody, _ = json.Marshal(NewErrorResponse("Internal Server Error"))
	}

	headers := make(map[string]string, len(defaultHeaders))
	for k, v := range defaultHeaders {
		headers[k] = v
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(jsonBody),
	}, nil
}

// ErrMissingCoordinates is returned when lat or lng is absent
var ErrMissingCoordinates = errors.New("lat and lng are required")

// ParseCoordinates reads lat and lng (or lon) from query parameters
func ParseCoordinates(params map[string]string) (models.Location, error) {
	latStr, hasLat := params["lat"]
	lngStr, hasLng := params["lng"]
	if !hasLng {
		lngStr, hasLng = params["lon"]
	}

	if !hasLat || !hasLng {
		return models.Location{}, ErrMissingCoordinates
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("parsing lat: %w", err)
	}

	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("parsing lng: %w", err)
	}

	loc := models.Location{Lat: lat, Lng: lng}
	if err := geo.ValidateLocation(loc); err != nil {
		return models.Location{}, err
	}
	return loc, nil
}

// ParsePositiveFloat returns the named parameter, or def when it is absent
func ParsePositiveFloat(params map[string]string, name string, def float64) (float64, error) {
	raw, ok := params[name]
	if !ok || raw == "" {
		return def, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || !geo.ValidRadius(value) {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return value, nil
}

// ParseLimit returns the limit parameter, or def when it is absent or not a positive integer
func ParseLimit(params map[string]string, def int) int {
	if limitStr, ok := params["limit"]; ok {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			return parsedLimit
		}
	}
	return def
}
