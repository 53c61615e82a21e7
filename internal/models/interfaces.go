package models

import "context"

type StationFinder interface {
	FindStation(ctx context.Context, code string) (*Station, error)
	FindNearestStations(ctx context.Context, loc Location, limit int) ([]RankedStation, error)
	CheckPresence(ctx context.Context, loc Location, radiusKm float64, limit int) (*StationPresence, error)
}

// OrderSink receives orders created from webhook deliveries
type OrderSink interface {
	Accept(ctx context.Context, order OrderRecord) error
}

// OrderReader looks orders up by id. A missing order is nil without error.
type OrderReader interface {
	Get(ctx context.Context, orderID string) (*OrderRecord, error)
}
