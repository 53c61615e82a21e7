package webhook

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaipandu/pandu/backend-go/internal/models"
)

// mockClock implements clock for testing
type mockClock struct {
	now time.Time
}

func (m *mockClock) Now() time.Time {
	return m.now
}

func (m *mockClock) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}

func TestToOrderRecordProjectsFields(t *testing.T) {
	builder := NewBuilder("KAI")
	builder.clock = &mockClock{now: time.Date(2026, 10, 19, 9, 30, 15, 123456789, time.FixedZone("WIB", 7*3600))}

	order := builder.ToOrderRecord(NormalizedFields{
		FieldOriginStation:      "Gambir",
		FieldDestinationStation: "Bandung",
		FieldDepartureDate:      "2026-10-20",
		FieldDepartureTime:      "08:00",
		FieldPaymentMethod:      "QRIS",
		FieldPassengerCount:     json.Number("3"),
	})

	assert.True(t, strings.HasPrefix(order.OrderID, "KAI-"))
	_, err := uuid.Parse(strings.TrimPrefix(order.OrderID, "KAI-"))
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPendingPayment, order.Status)
	assert.Equal(t, "Gambir", order.OriginStation)
	assert.Equal(t, "Bandung", order.DestinationStation)
	assert.Equal(t, "2026-10-20", order.DepartureDate)
	assert.Equal(t, "08:00", order.DepartureTime)
	assert.Equal(t, "QRIS", order.PaymentMethod)
	assert.Equal(t, 3, order.PassengerCount)
	assert.Equal(t, "2026-10-19T02:30:15.123Z", order.CreatedAt)
	assert.NoError(t, order.Validate())
}

func TestToOrderRecordPassengerCountDefaults(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  int
	}{
		{name: "absent", value: nil, want: 1},
		{name: "zero is treated as absent", value: json.Number("0"), want: 1},
		{name: "float zero", value: 0.0, want: 1},
		{name: "empty string", value: "", want: 1},
		{name: "false", value: false, want: 1},
		{name: "two", value: json.Number("2"), want: 2},
		{name: "numeric string", value: "4", want: 4},
		{name: "zero string", value: "0", want: 1},
		{name: "negative", value: json.Number("-1"), want: 1},
		{name: "negative string", value: "-3", want: 1},
		{name: "fraction below one", value: json.Number("0.5"), want: 1},
		{name: "huge", value: json.Number("1e12"), want: 1},
		{name: "word", value: "dua", want: 1},
		{name: "fraction truncates", value: 2.7, want: 2},
		{name: "true", value: true, want: 1},
	}

	builder := NewBuilder("")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := NormalizedFields{FieldOriginStation: "Gambir"}
			if tt.value != nil {
				fields[FieldPassengerCount] = tt.value
			}
			assert.Equal(t, tt.want, builder.ToOrderRecord(fields).PassengerCount)
		})
	}
}

func TestNormalizeThenProjectZeroPassengers(t *testing.T) {
	payload, err := DecodePayload([]byte(`{"analysis":{"data_collection_results":{"stasiun_asal":{"value":"Gambir"},"jumlah_penumpang":{"value":0}}}}`))
	require.NoError(t, err)

	fields := Normalize(payload)
	require.NotNil(t, fields)
	assert.Equal(t, "Gambir", fields[FieldOriginStation])
	assert.Equal(t, json.Number("0"), fields[FieldPassengerCount])

	order := NewBuilder("KAI").ToOrderRecord(fields)
	assert.Equal(t, 1, order.PassengerCount)
	assert.Equal(t, "Gambir", order.OriginStation)
	assert.Empty(t, order.DestinationStation)
}

func TestToOrderRecordUniqueIDsAndOrderedTimestamps(t *testing.T) {
	clk := &mockClock{now: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
	builder := NewBuilder("KAI")
	builder.clock = clk

	fields := NormalizedFields{FieldOriginStation: "Gambir"}
	seen := make(map[string]bool)
	prev := ""
	for i := 0; i < 100; i++ {
		order := builder.ToOrderRecord(fields)
		assert.False(t, seen[order.OrderID], "duplicate order id %s", order.OrderID)
		seen[order.OrderID] = true
		assert.GreaterOrEqual(t, order.CreatedAt, prev)
		prev = order.CreatedAt
		if i%10 == 0 {
			clk.Advance(time.Millisecond)
		}
	}
}

func TestToOrderRecordWithRealClock(t *testing.T) {
	builder := NewBuilder("KAI")
	fields := NormalizedFields{FieldOriginStation: "Gambir"}

	first := builder.ToOrderRecord(fields)
	second := builder.ToOrderRecord(fields)

	assert.NotEqual(t, first.OrderID, second.OrderID)

	t1, err := time.Parse(time.RFC3339, first.CreatedAt)
	require.NoError(t, err)
	t2, err := time.Parse(time.RFC3339, second.CreatedAt)
	require.NoError(t, err)
	assert.False(t, t2.Before(t1))
}

func TestToOrderRecordFallsBackWhenIDGenerationFails(t *testing.T) {
	builder := NewBuilder("KAI")
	builder.newID = func() (uuid.UUID, error) {
		return uuid.Nil, errors.New("entropy exhausted")
	}

	order := builder.ToOrderRecord(NormalizedFields{})

	assert.NotEqual(t, "KAI-"+uuid.Nil.String(), order.OrderID)
	assert.True(t, strings.HasPrefix(order.OrderID, "KAI-"))
}

func TestStringValue(t *testing.T) {
	assert.Equal(t, "", stringValue(nil))
	assert.Equal(t, "Gambir", stringValue("Gambir"))
	assert.Equal(t, "12", stringValue(json.Number("12")))
	assert.Equal(t, "8.5", stringValue(8.5))
	assert.Equal(t, "true", stringValue(true))
	assert.Equal(t, `["a","b"]`, stringValue([]interface{}{"a", "b"}))
}
