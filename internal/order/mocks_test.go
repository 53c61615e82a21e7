package order

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/kaipandu/pandu/backend-go/internal/models"
)

type mockDynamoClient struct {
	putItemFunc func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	getItemFunc func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

var _ DynamoDBClient = (*mockDynamoClient)(nil)

func (m *mockDynamoClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if m.putItemFunc != nil {
		return m.putItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDynamoClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.getItemFunc != nil {
		return m.getItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.GetItemOutput{}, nil
}

type mockPgxConn struct {
	execFunc     func(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	queryRowFunc func(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

var _ PgxConn = (*mockPgxConn)(nil)

func (m *mockPgxConn) Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	if m.execFunc != nil {
		return m.execFunc(ctx, sql, arguments...)
	}
	return pgconn.CommandTag("INSERT 0 1"), nil
}

func (m *mockPgxConn) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return m.queryRowFunc(ctx, sql, args...)
}

// mockRow implements pgx.Row
type mockRow struct {
	scanFunc func(dest ...interface{}) error
}

func (r mockRow) Scan(dest ...interface{}) error {
	return r.scanFunc(dest...)
}

type declaredExchange struct {
	name    string
	kind    string
	durable bool
}

type publishedMessage struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type mockChannel struct {
	declareErr error
	publishErr error
	declared   []declaredExchange
	published  []publishedMessage
	closed     bool
}

var _ AMQPChannel = (*mockChannel)(nil)

func (m *mockChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	m.declared = append(m.declared, declaredExchange{name: name, kind: kind, durable: durable})
	return m.declareErr
}

func (m *mockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, publishedMessage{exchange: exchange, key: key, msg: msg})
	return nil
}

func (m *mockChannel) Close() error {
	m.closed = true
	return nil
}

type mockStore struct {
	saveFunc func(ctx context.Context, order models.OrderRecord) error
	saved    []models.OrderRecord
}

var _ Store = (*mockStore)(nil)

func (m *mockStore) Get(ctx context.Context, orderID string) (*models.OrderRecord, error) {
	for _, o := range m.saved {
		if o.OrderID == orderID {
			found := o
			return &found, nil
		}
	}
	return nil, nil
}

func (m *mockStore) Save(ctx context.Context, order models.OrderRecord) error {
	if m.saveFunc != nil {
		if err := m.saveFunc(ctx, order); err != nil {
			return err
		}
	}
	m.saved = append(m.saved, order)
	return nil
}

type mockPublisher struct {
	err       error
	published []models.OrderRecord
}

func (m *mockPublisher) Publish(ctx context.Context, order models.OrderRecord) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, order)
	return nil
}

func testOrder() models.OrderRecord {
	return models.OrderRecord{
		OrderID:            "KAI-0192c4a1-7d3e-7b2a-9f10-3c5e8a1b2c3d",
		Status:             models.OrderStatusPendingPayment,
		OriginStation:      "Gambir",
		DestinationStation: "Bandung",
		DepartureDate:      "2026-10-20",
		DepartureTime:      "08:00",
		PassengerCount:     2,
		PaymentMethod:      "QRIS",
		CreatedAt:          "2026-10-19T02:30:15.123Z",
		ConversationID:     "conv_1",
	}
}
