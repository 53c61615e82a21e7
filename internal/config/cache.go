package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// Nearest-station ranking LRU
	RankingLRUSize       int
	RankingLRUTTLMinutes int

	// Webhook de-duplication by conversation id
	DedupSize       int
	DedupTTLMinutes int

	// Station catalogue loaded from S3
	StationListTTLDays int

	// General settings
	EnableRankingCache bool
	EnableDedup        bool
}

const (
	// Default values
	defaultRankingLRUSize       = 1000
	defaultRankingLRUTTLMinutes = 10
	defaultDedupSize            = 5000
	defaultDedupTTLMinutes      = 60
	defaultStationListTTLDays   = 2
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		RankingLRUSize:       getEnvInt("CACHE_RANKING_LRU_SIZE", defaultRankingLRUSize),
		RankingLRUTTLMinutes: getEnvInt("CACHE_RANKING_LRU_TTL_MINUTES", defaultRankingLRUTTLMinutes),
		DedupSize:            getEnvInt("CACHE_DEDUP_SIZE", defaultDedupSize),
		DedupTTLMinutes:      getEnvInt("CACHE_DEDUP_TTL_MINUTES", defaultDedupTTLMinutes),
		StationListTTLDays:   getEnvInt("CACHE_STATION_LIST_TTL_DAYS", defaultStationListTTLDays),
		EnableRankingCache:   getEnvBool("CACHE_ENABLE_RANKING", true),
		EnableDedup:          getEnvBool("CACHE_ENABLE_DEDUP", true),
	}

	log.Debug().
		Int("RankingLRUSize", config.RankingLRUSize).
		Int("RankingLRUTTLMinutes", config.RankingLRUTTLMinutes).
		Int("DedupSize", config.DedupSize).
		Int("DedupTTLMinutes", config.DedupTTLMinutes).
		Int("StationListTTLDays", config.StationListTTLDays).
		Bool("EnableRankingCache", config.EnableRankingCache).
		Bool("EnableDedup", config.EnableDedup).
		Msg("Cache configuration loaded")

	return config
}

// Helper methods for the CacheConfig struct
func (c *CacheConfig) GetRankingTTL() time.Duration {
	return time.Duration(c.RankingLRUTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetDedupTTL() time.Duration {
	return time.Duration(c.DedupTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetStationListTTL() time.Duration {
	return time.Duration(c.StationListTTLDays) * 24 * time.Hour
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
