package cache

import (
	"sync"
	"time"

	"github.com/kaipandu/pandu/backend-go/internal/models"
)

// StationCache keeps the active station catalogue in memory
type StationCache struct {
	stations    []models.Station
	lastUpdated time.Time
	ttl         time.Duration
	clock       clock
	mu          sync.RWMutex
}

func NewStationCache(ttl time.Duration) *StationCache {
	return &StationCache{
		stations:    make([]models.Station, 0),
		lastUpdated: time.Time{}, // Zero time to ensure first fetch
		ttl:         ttl,
		clock:       systemClock{},
	}
}

// GetStations returns nil until SetStations is called and again once the TTL lapses
func (c *StationCache) GetStations() []models.Station {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.isExpired() {
		return nil
	}
	return c.stations
}

func (c *StationCache) SetStations(stations []models.Station) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stations = stations
	c.lastUpdated = c.clock.Now()
}

func (c *StationCache) isExpired() bool {
	if c.lastUpdated.IsZero() {
		return true
	}
	return c.ttl > 0 && c.clock.Now().Sub(c.lastUpdated) > c.ttl
}
