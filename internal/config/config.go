package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Order store backends
const (
	OrderStoreNone     = "none"
	OrderStoreDynamo   = "dynamo"
	OrderStorePostgres = "postgres"
)

type Config struct {
	Environment string
	LogLevel    zerolog.Level
	HTTPTimeout time.Duration
	Port        string

	// Station lookup
	StationRadiusKm float64
	NearbyLimit     int
	StationBucket   string
	StationKey      string

	// Webhook and orders
	OrderIDPrefix    string
	OrderStore       string
	OrderTable       string
	DatabaseURL      string
	AMQPURL          string
	OrderExchange    string
	WebhookSecret    string
	SignatureMaxSkew time.Duration
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

func WithPort(port string) Option {
	return func(c *Config) {
		c.Port = port
	}
}

// WithStationRadius sets the "inside a station" threshold; non-positive values are ignored
func WithStationRadius(km float64) Option {
	return func(c *Config) {
		if km > 0 {
			c.StationRadiusKm = km
		}
	}
}

func WithNearbyLimit(limit int) Option {
	return func(c *Config) {
		if limit > 0 {
			c.NearbyLimit = limit
		}
	}
}

// WithStationSource points the station catalogue at an S3 object
func WithStationSource(bucket, key string) Option {
	return func(c *Config) {
		c.StationBucket = bucket
		if key != "" {
			c.StationKey = key
		}
	}
}

func WithOrderIDPrefix(prefix string) Option {
	return func(c *Config) {
		if prefix != "" {
			c.OrderIDPrefix = prefix
		}
	}
}

// WithOrderStore selects the order persistence backend
func WithOrderStore(store, table, databaseURL string) Option {
	return func(c *Config) {
		switch strings.ToLower(store) {
		case OrderStoreDynamo, OrderStorePostgres:
			c.OrderStore = strings.ToLower(store)
		default:
			c.OrderStore = OrderStoreNone
		}
		if table != "" {
			c.OrderTable = table
		}
		c.DatabaseURL = databaseURL
	}
}

// WithOrderEvents enables publishing of order events to an AMQP exchange
func WithOrderEvents(amqpURL, exchange string) Option {
	return func(c *Config) {
		c.AMQPURL = amqpURL
		if exchange != "" {
			c.OrderExchange = exchange
		}
	}
}

// WithWebhookSecret enables signature verification of webhook deliveries
func WithWebhookSecret(secret string) Option {
	return func(c *Config) {
		c.WebhookSecret = secret
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:      "production",
		LogLevel:         zerolog.InfoLevel,
		HTTPTimeout:      10 * time.Second,
		Port:             "8080",
		StationRadiusKm:  0.5,
		NearbyLimit:      5,
		StationKey:       "stations.json",
		OrderIDPrefix:    "KAI",
		OrderStore:       OrderStoreNone,
		OrderTable:       "kai-pandu-orders",
		OrderExchange:    "orders",
		SignatureMaxSkew: 30 * time.Minute,
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// IsLocal reports whether the service runs on a developer machine
func (c *Config) IsLocal() bool {
	return c.Environment == "local" || c.Environment == "development"
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	// Setup console logger for development environments
	if c.IsLocal() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 10*time.Second)),
		WithPort(getEnvOrDefault("PORT", "8080")),
		WithStationRadius(getFloatEnvOrDefault("STATION_RADIUS_KM", 0.5)),
		WithNearbyLimit(getEnvInt("NEARBY_LIMIT", 5)),
		WithStationSource(os.Getenv("STATION_BUCKET"), os.Getenv("STATION_KEY")),
		WithOrderIDPrefix(os.Getenv("ORDER_ID_PREFIX")),
		WithOrderStore(getEnvOrDefault("ORDER_STORE", OrderStoreNone), os.Getenv("ORDER_TABLE"), os.Getenv("DATABASE_URL")),
		WithOrderEvents(os.Getenv("AMQP_URL"), os.Getenv("ORDER_EXCHANGE")),
		WithWebhookSecret(os.Getenv("WEBHOOK_SECRET")),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getFloatEnvOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Warn().Str("key", key).Msg("Invalid float value in environment variable, using default")
	}
	return defaultValue
}
