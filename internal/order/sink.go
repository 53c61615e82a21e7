package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/kaipandu/pandu/backend-go/internal/models"
)

// Sink validates an order, saves it and then announces it. Either the store
// or the publisher may be nil.
type Sink struct {
	store     Store
	publisher Publisher
}

var _ models.OrderSink = (*Sink)(nil)

func NewSink(store Store, publisher Publisher) *Sink {
	return &Sink{
		store:     store,
		publisher: publisher,
	}
}

// Accept fails only when the order is invalid or cannot be saved. Publishing
// errors are logged, since the order already exists at that point.
func (s *Sink) Accept(ctx context.Context, order models.OrderRecord) error {
	if err := order.Validate(); err != nil {
		return fmt.Errorf("invalid order record: %w", err)
	}

	if s.store != nil {
		if err := s.store.Save(ctx, order); err != nil {
			if errors.Is(err, ErrDuplicateOrder) {
				log.Warn().Str("order_id", order.OrderID).Msg("Order already stored, skipping publish")
				return nil
			}
			return fmt.Errorf("saving order: %w", err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, order); err != nil {
			log.Error().Err(err).Str("order_id", order.OrderID).Msg("Failed to publish order event")
		}
	}

	return nil
}
