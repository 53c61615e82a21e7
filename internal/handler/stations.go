package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/kaipandu/pandu/backend-go/internal/api"
	"github.com/kaipandu/pandu/backend-go/internal/geo"
	"github.com/kaipandu/pandu/backend-go/internal/models"
)

type StationsHandler struct {
	stationFinder models.StationFinder
	radiusKm      float64
	limit         int
}

func NewStationsHandler(finder models.StationFinder, radiusKm float64, limit int) *StationsHandler {
	return &StationsHandler{
		stationFinder: finder,
		radiusKm:      radiusKm,
		limit:         limit,
	}
}

func (h *StationsHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters

	// Check if we're looking up by station code or coordinates
	if code, ok := params["code"]; ok {
		station, err := h.stationFinder.FindStation(ctx, code)
		if err != nil {
			log.Error().Err(err).Str("code", code).Msg("Error finding station")
			return api.Error("Error finding station", http.StatusInternalServerError)
		}
		if station == nil {
			return api.Error("Station not found", http.StatusNotFound)
		}
		return api.Success(api.NewStationResponse(*station))
	}

	loc, err := api.ParseCoordinates(params)
	if err != nil {
		var invalidCoordErr *geo.InvalidCoordinatesError
		switch {
		case errors.As(err, &invalidCoordErr):
			return api.Error("Invalid coordinates", http.StatusBadRequest)
		case errors.Is(err, api.ErrMissingCoordinates):
			return api.Error("Missing coordinates", http.StatusBadRequest)
		default:
			return api.Error("Invalid parameters", http.StatusBadRequest)
		}
	}

	radius, err := api.ParsePositiveFloat(params, "radius", h.radiusKm)
	if err != nil {
		return api.Error("Invalid radius", http.StatusBadRequest)
	}
	limit := api.ParseLimit(params, h.limit)

	presence, err := h.stationFinder.CheckPresence(ctx, loc, radius, limit)
	if err != nil {
		log.Error().Err(err).Msg("Error finding stations")
		return api.Error("Error finding stations", http.StatusInternalServerError)
	}

	return api.Success(api.NewStationsResponse(*presence))
}
