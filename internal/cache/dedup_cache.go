package cache

import (
	"errors"
	"fmt"

	"github.com/bluele/gcache"
	"github.com/rs/zerolog/log"

	"github.com/kaipandu/pandu/backend-go/internal/config"
	"github.com/kaipandu/pandu/backend-go/internal/models"
)

// DeliveryCache remembers the order created for each conversation so that
// redelivered webhooks do not create a second order.
type DeliveryCache struct {
	cache gcache.Cache
}

func NewDeliveryCache(cfg *config.CacheConfig) *DeliveryCache {
	return newDeliveryCache(cfg, gcache.NewRealClock())
}

func newDeliveryCache(cfg *config.CacheConfig, clk gcache.Clock) *DeliveryCache {
	size := cfg.DedupSize
	if size <= 0 {
		size = 1
	}
	return &DeliveryCache{
		cache: gcache.New(size).
			LRU().
			Expiration(cfg.GetDedupTTL()).
			Clock(clk).
			Build(),
	}
}

// Lookup returns the order previously created for conversationID
func (c *DeliveryCache) Lookup(conversationID string) (models.OrderRecord, bool) {
	if conversationID == "" {
		return models.OrderRecord{}, false
	}

	cached, err := c.cache.Get(conversationID)
	if err != nil {
		if !errors.Is(err, gcache.KeyNotFoundError) {
			log.Warn().Err(err).Str("conversation_id", conversationID).Msg("Delivery cache lookup failed")
		}
		return models.OrderRecord{}, false
	}

	order, ok := cached.(models.OrderRecord)
	return order, ok
}

// Remember records order as the result of conversationID. Empty ids are ignored.
func (c *DeliveryCache) Remember(conversationID string, order models.OrderRecord) error {
	if conversationID == "" {
		return nil
	}
	if err := c.cache.Set(conversationID, order); err != nil {
		return fmt.Errorf("caching delivery %s: %w", conversationID, err)
	}
	return nil
}

func (c *DeliveryCache) Len() int {
	return c.cache.Len(false)
}
