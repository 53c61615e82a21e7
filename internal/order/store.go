// Package order persists and announces orders created from webhook deliveries.
package order

import (
	"context"
	"errors"

	"github.com/kaipandu/pandu/backend-go/internal/models"
)

// ErrDuplicateOrder is returned by a Store when the order id already exists
var ErrDuplicateOrder = errors.New("order already exists")

// Store persists OrderRecords. Get returns nil without error for unknown ids.
type Store interface {
	Save(ctx context.Context, order models.OrderRecord) error
	Get(ctx context.Context, orderID string) (*models.OrderRecord, error)
}

// Publisher announces OrderRecords to downstream consumers
type Publisher interface {
	Publish(ctx context.Context, order models.OrderRecord) error
}
