package cache

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kaipandu/pandu/backend-go/internal/config"
	"github.com/kaipandu/pandu/backend-go/internal/models"
)

// RankingCacheEntry wraps a ranked station list with its expiry
type RankingCacheEntry struct {
	Data      []models.RankedStation
	ExpiresAt time.Time
}

// RankingCache memoizes full station rankings per observer, with observers
// quantized to 4 decimal places (about 11 m).
type RankingCache struct {
	lru    *lru.Cache[string, *RankingCacheEntry]
	ttl    time.Duration
	clock  clock
	mu     sync.RWMutex
	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewRankingCache(cfg *config.CacheConfig) (*RankingCache, error) {
	lruCache, err := lru.New[string, *RankingCacheEntry](cfg.RankingLRUSize)
	if err != nil {
		return nil, fmt.Errorf("creating ranking LRU cache: %w", err)
	}

	return &RankingCache{
		lru:   lruCache,
		ttl:   cfg.GetRankingTTL(),
		clock: systemClock{},
	}, nil
}

// quantizeCoord rounds a coordinate to 4 decimal places
func quantizeCoord(coord float64) float64 {
	return math.Round(coord*10000) / 10000
}

// RankingKey is the cache key shared by every observer in the same ~11 m cell
func RankingKey(loc models.Location) string {
	return fmt.Sprintf("%.4f,%.4f", quantizeCoord(loc.Lat), quantizeCoord(loc.Lng))
}

func (c *RankingCache) Get(loc models.Location) ([]models.RankedStation, bool) {
	key := RankingKey(loc)

	c.mu.RLock()
	entry, ok := c.lru.Get(key)
	c.mu.RUnlock()

	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	if c.clock.Now().After(entry.ExpiresAt) {
		c.mu.Lock()
		c.lru.Remove(key)
		c.mu.Unlock()
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return entry.Data, true
}

func (c *RankingCache) Add(loc models.Location, ranked []models.RankedStation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(RankingKey(loc), &RankingCacheEntry{
		Data:      ranked,
		ExpiresAt: c.clock.Now().Add(c.ttl),
	})
}

// GetCacheStats returns statistics about cache hits and misses
func (c *RankingCache) GetCacheStats() map[string]uint64 {
	return map[string]uint64{
		"ranking_hits":   c.hits.Load(),
		"ranking_misses": c.misses.Load(),
	}
}

// Clear removes all entries, e.g. after the station catalogue changes
func (c *RankingCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}
