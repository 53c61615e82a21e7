package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/kaipandu/pandu/backend-go/internal/models"
)

const createOrdersTable = `
CREATE TABLE IF NOT EXISTS ticket_order (
	order_id            TEXT PRIMARY KEY,
	status              TEXT NOT NULL,
	origin_station      TEXT,
	destination_station TEXT,
	departure_date      TEXT,
	departure_time      TEXT,
	passenger_count     INTEGER NOT NULL,
	payment_method      TEXT,
	conversation_id     TEXT,
	created_at          TIMESTAMPTZ NOT NULL
)`

const insertOrder = `
INSERT INTO ticket_order (order_id, status, origin_station, destination_station, departure_date,
	departure_time, passenger_count, payment_method, conversation_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (order_id) DO NOTHING`

const selectOrder = `
SELECT order_id, status, origin_station, destination_station, departure_date,
	departure_time, passenger_count, payment_method, conversation_id, created_at
FROM ticket_order WHERE order_id = $1`

// PgxConn is the subset of *pgxpool.Pool used by PostgresStore
type PgxConn interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// PostgresStore keeps orders in the ticket_order table
type PostgresStore struct {
	conn PgxConn
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(conn PgxConn) *PostgresStore {
	return &PostgresStore{conn: conn}
}

// ConnectPostgres opens a pool and makes sure the orders table exists
func ConnectPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to Postgres: %w", err)
	}

	if err := NewPostgresStore(pool).EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.conn.Exec(ctx, createOrdersTable); err != nil {
		return fmt.Errorf("creating ticket_order table: %w", err)
	}
	return nil
}

// Save inserts order. An existing row with the same id yields ErrDuplicateOrder.
func (s *PostgresStore) Save(ctx context.Context, order models.OrderRecord) error {
	createdAt, err := time.Parse(time.RFC3339, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("parsing createdAt: %w", err)
	}

	tag, err := s.conn.Exec(ctx, insertOrder,
		order.OrderID,
		string(order.Status),
		nullable(order.OriginStation),
		nullable(order.DestinationStation),
		nullable(order.DepartureDate),
		nullable(order.DepartureTime),
		order.PassengerCount,
		nullable(order.PaymentMethod),
		nullable(order.ConversationID),
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateOrder, order.OrderID)
	}

	log.Debug().Str("order_id", order.OrderID).Msg("Saved order to Postgres")
	return nil
}

// Get returns the stored order, or nil when it does not exist
func (s *PostgresStore) Get(ctx context.Context, orderID string) (*models.OrderRecord, error) {
	var (
		record                               models.OrderRecord
		status                               string
		origin, destination, date, departure *string
		payment, conversation                *string
		createdAt                            time.Time
	)

	err := s.conn.QueryRow(ctx, selectOrder, orderID).Scan(
		&record.OrderID, &status, &origin, &destination, &date,
		&departure, &record.PassengerCount, &payment, &conversation, &createdAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("selecting order: %w", err)
	}

	record.Status = models.OrderStatus(status)
	record.OriginStation = deref(origin)
	record.DestinationStation = deref(destination)
	record.DepartureDate = deref(date)
	record.DepartureTime = deref(departure)
	record.PaymentMethod = deref(payment)
	record.ConversationID = deref(conversation)
	record.CreatedAt = createdAt.UTC().Format(models.CreatedAtLayout)
	return &record, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
