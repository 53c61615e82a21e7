package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/kaipandu/pandu/backend-go/internal/models"
)

// RoutingKeyOrderCreated is used for every newly created order
const RoutingKeyOrderCreated = "order.created"

const publishTimeout = 5 * time.Second

// AMQPChannel is the subset of *amqp.Channel used by EventPublisher
type AMQPChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// EventPublisher sends order events to a durable topic exchange
type EventPublisher struct {
	channel  AMQPChannel
	exchange string
	clock    func() time.Time
}

var _ Publisher = (*EventPublisher)(nil)

// NewEventPublisher declares exchange on channel and returns a publisher for it
func NewEventPublisher(channel AMQPChannel, exchange string) (*EventPublisher, error) {
	err := channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("declaring exchange %s: %w", exchange, err)
	}

	return &EventPublisher{
		channel:  channel,
		exchange: exchange,
		clock:    time.Now,
	}, nil
}

// DialEventPublisher connects to the broker at url. The returned close
// function releases both the channel and the connection.
func DialEventPublisher(url, exchange string) (*EventPublisher, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to AMQP broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("opening AMQP channel: %w", err)
	}

	publisher, err := NewEventPublisher(ch, exchange)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}

	closeFn := func() error {
		if err := ch.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing AMQP channel")
		}
		return conn.Close()
	}
	return publisher, closeFn, nil
}

// Publish sends order as a persistent JSON message routed by order.created
func (p *EventPublisher) Publish(ctx context.Context, order models.OrderRecord) error {
	body, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encoding order event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,             // exchange
		RoutingKeyOrderCreated, // routing key
		false,                  // mandatory
		false,                  // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    order.OrderID,
			Timestamp:    p.clock(),
			Type:         RoutingKeyOrderCreated,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publishing order event: %w", err)
	}

	log.Debug().
		Str("order_id", order.OrderID).
		Str("exchange", p.exchange).
		Msg("Published order event")
	return nil
}
