// Package app builds the request handlers from configuration. The Lambda
// entry points and the local server share it.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/kaipandu/pandu/backend-go/internal/cache"
	"github.com/kaipandu/pandu/backend-go/internal/config"
	"github.com/kaipandu/pandu/backend-go/internal/handler"
	"github.com/kaipandu/pandu/backend-go/internal/models"
	"github.com/kaipandu/pandu/backend-go/internal/order"
	"github.com/kaipandu/pandu/backend-go/internal/station"
	"github.com/kaipandu/pandu/backend-go/internal/webhook"
)

// Handlers groups everything a process serves. Close releases store and
// broker connections.
type Handlers struct {
	Stations *handler.StationsHandler
	Webhook  *handler.WebhookHandler
	Orders   *handler.OrdersHandler
	Close    func()
}

func NewStationFinder(ctx context.Context, cfg *config.Config, cacheCfg *config.CacheConfig) (*station.Finder, error) {
	var opts []station.FinderOption

	if cfg.StationBucket != "" {
		s3Client, err := cache.NewS3Client(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating S3 client: %w", err)
		}
		opts = append(opts, station.WithS3Cache(
			cache.NewS3StationCache(s3Client, cfg.StationBucket, cfg.StationKey, cacheCfg.GetStationListTTL())))
	}

	if cacheCfg.EnableRankingCache {
		ranking, err := cache.NewRankingCache(cacheCfg)
		if err != nil {
			return nil, fmt.Errorf("creating ranking cache: %w", err)
		}
		opts = append(opts, station.WithRankingCache(ranking))
	}

	return station.NewFinder(cache.NewStationCache(cacheCfg.GetStationListTTL()), opts...), nil
}

func NewStationsHandler(ctx context.Context, cfg *config.Config, cacheCfg *config.CacheConfig) (*handler.StationsHandler, error) {
	finder, err := NewStationFinder(ctx, cfg, cacheCfg)
	if err != nil {
		return nil, err
	}
	return handler.NewStationsHandler(finder, cfg.StationRadiusKm, cfg.NearbyLimit), nil
}

// NewWebhookHandler also returns the order store so callers can serve lookups
// from it. The store is nil when ORDER_STORE is "none".
func NewWebhookHandler(ctx context.Context, cfg *config.Config, cacheCfg *config.CacheConfig) (*handler.WebhookHandler, order.Store, func(), error) {
	sink, store, cleanup, err := order.NewSinkFromConfig(ctx, cfg)
	if err != nil {
		return nil, nil, func() {}, fmt.Errorf("creating order sink: %w", err)
	}

	var opts []handler.WebhookOption
	if cfg.WebhookSecret != "" {
		opts = append(opts, handler.WithSignatureVerifier(
			webhook.NewSignatureVerifier(cfg.WebhookSecret, cfg.SignatureMaxSkew)))
	} else {
		log.Warn().Msg("WEBHOOK_SECRET is not set, signatures will not be verified")
	}
	if cacheCfg.EnableDedup {
		opts = append(opts, handler.WithDeliveryCache(cache.NewDeliveryCache(cacheCfg)))
	}

	h := handler.NewWebhookHandler(webhook.NewBuilder(cfg.OrderIDPrefix), sink, opts...)
	return h, store, cleanup, nil
}

// NewOrdersHandler serves lookups from the store selected by cfg.OrderStore
func NewOrdersHandler(ctx context.Context, cfg *config.Config) (*handler.OrdersHandler, func(), error) {
	store, cleanup, err := order.NewStoreFromConfig(ctx, cfg)
	if err != nil {
		return nil, func() {}, fmt.Errorf("creating order store: %w", err)
	}

	var reader models.OrderReader
	if store != nil {
		reader = store
	}
	return handler.NewOrdersHandler(reader), cleanup, nil
}

// New builds every handler
func New(ctx context.Context, cfg *config.Config, cacheCfg *config.CacheConfig) (*Handlers, error) {
	stations, err := NewStationsHandler(ctx, cfg, cacheCfg)
	if err != nil {
		return nil, fmt.Errorf("initializing stations handler: %w", err)
	}

	webhookHandler, store, cleanup, err := NewWebhookHandler(ctx, cfg, cacheCfg)
	if err != nil {
		return nil, fmt.Errorf("initializing webhook handler: %w", err)
	}

	var reader models.OrderReader
	if store != nil {
		reader = store
	}

	return &Handlers{
		Stations: stations,
		Webhook:  webhookHandler,
		Orders:   handler.NewOrdersHandler(reader),
		Close:    cleanup,
	}, nil
}
