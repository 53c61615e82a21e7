package order

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaipandu/pandu/backend-go/internal/models"
)

func TestNewEventPublisherDeclaresExchange(t *testing.T) {
	ch := &mockChannel{}

	_, err := NewEventPublisher(ch, "orders")
	require.NoError(t, err)

	require.Len(t, ch.declared, 1)
	assert.Equal(t, declaredExchange{name: "orders", kind: "topic", durable: true}, ch.declared[0])
}

func TestNewEventPublisherDeclareError(t *testing.T) {
	ch := &mockChannel{declareErr: errors.New("access refused")}

	_, err := NewEventPublisher(ch, "orders")
	assert.Error(t, err)
}

func TestEventPublisherPublish(t *testing.T) {
	ch := &mockChannel{}
	publisher, err := NewEventPublisher(ch, "orders")
	require.NoError(t, err)
	publishedAt := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	publisher.clock = func() time.Time { return publishedAt }

	require.NoError(t, publisher.Publish(context.Background(), testOrder()))

	require.Len(t, ch.published, 1)
	msg := ch.published[0]
	assert.Equal(t, "orders", msg.exchange)
	assert.Equal(t, RoutingKeyOrderCreated, msg.key)
	assert.Equal(t, "application/json", msg.msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.msg.DeliveryMode)
	assert.Equal(t, testOrder().OrderID, msg.msg.MessageId)
	assert.Equal(t, publishedAt, msg.msg.Timestamp)

	var decoded models.OrderRecord
	require.NoError(t, json.Unmarshal(msg.msg.Body, &decoded))
	assert.Equal(t, testOrder(), decoded)
}

func TestEventPublisherPublishError(t *testing.T) {
	ch := &mockChannel{}
	publisher, err := NewEventPublisher(ch, "orders")
	require.NoError(t, err)

	ch.publishErr = amqp.ErrClosed
	err = publisher.Publish(context.Background(), testOrder())
	assert.ErrorIs(t, err, amqp.ErrClosed)
}
