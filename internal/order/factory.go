package order

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/kaipandu/pandu/backend-go/internal/cache"
	"github.com/kaipandu/pandu/backend-go/internal/config"
)

// NewStoreFromConfig returns the store selected by cfg.OrderStore, or nil for
// "none". The returned cleanup function is never nil.
func NewStoreFromConfig(ctx context.Context, cfg *config.Config) (Store, func(), error) {
	switch cfg.OrderStore {
	case config.OrderStoreDynamo:
		client, err := cache.NewDynamoClient(ctx)
		if err != nil {
			return nil, func() {}, fmt.Errorf("creating DynamoDB client: %w", err)
		}
		return NewDynamoStore(client, cfg.OrderTable), func() {}, nil
	case config.OrderStorePostgres:
		pool, err := ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, func() {}, err
		}
		return NewPostgresStore(pool), pool.Close, nil
	default:
		return nil, func() {}, nil
	}
}

// NewPublisherFromConfig connects to cfg.AMQPURL, or returns nil when it is unset
func NewPublisherFromConfig(cfg *config.Config) (Publisher, func(), error) {
	if cfg.AMQPURL == "" {
		return nil, func() {}, nil
	}

	events, closeFn, err := DialEventPublisher(cfg.AMQPURL, cfg.OrderExchange)
	if err != nil {
		return nil, func() {}, err
	}
	return events, func() {
		if err := closeFn(); err != nil {
			log.Warn().Err(err).Msg("Error closing AMQP connection")
		}
	}, nil
}

// NewSinkFromConfig builds the store and publisher selected by cfg
func NewSinkFromConfig(ctx context.Context, cfg *config.Config) (*Sink, Store, func(), error) {
	store, closeStore, err := NewStoreFromConfig(ctx, cfg)
	if err != nil {
		return nil, nil, func() {}, err
	}

	publisher, closePublisher, err := NewPublisherFromConfig(cfg)
	if err != nil {
		closeStore()
		return nil, nil, func() {}, err
	}

	log.Info().
		Str("store", cfg.OrderStore).
		Bool("events", publisher != nil).
		Msg("Order sink configured")

	cleanup := func() {
		closePublisher()
		closeStore()
	}
	return NewSink(store, publisher), store, cleanup, nil
}
