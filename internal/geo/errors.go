package geo

import (
	"errors"
	"fmt"

	"github.com/kaipandu/pandu/backend-go/internal/models"
)

// ErrInvalidRadius is returned for a NaN or negative station radius
var ErrInvalidRadius = errors.New("invalid station radius")

// InvalidCoordinatesError is returned for NaN or out-of-range coordinates
type InvalidCoordinatesError struct {
	Location models.Location
	Reason   string
}

func (e *InvalidCoordinatesError) Error() string {
	return fmt.Sprintf("invalid coordinates (%v, %v): %s", e.Location.Lat, e.Location.Lng, e.Reason)
}

func NewInvalidCoordinatesError(loc models.Location, reason string) *InvalidCoordinatesError {
	return &InvalidCoordinatesError{
		Location: loc,
		Reason:   reason,
	}
}
