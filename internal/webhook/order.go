package webhook

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kaipandu/pandu/backend-go/internal/models"
)

const defaultPassengerCount = 1

type clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Builder projects NormalizedFields into OrderRecords
type Builder struct {
	prefix string
	clock  clock
	newID  func() (uuid.UUID, error)
}

func NewBuilder(prefix string) *Builder {
	if prefix == "" {
		prefix = "KAI"
	}
	return &Builder{
		prefix: prefix,
		clock:  systemClock{},
		newID:  uuid.NewV7,
	}
}

// ToOrderRecord maps the collected fields onto a fresh pending order.
// A falsy, missing or sub-one passenger count becomes 1, including an explicit 0.
func (b *Builder) ToOrderRecord(fields NormalizedFields) models.OrderRecord {
	return models.OrderRecord{
		OrderID:            b.nextOrderID(),
		Status:             models.OrderStatusPendingPayment,
		OriginStation:      stringValue(fields[FieldOriginStation]),
		DestinationStation: stringValue(fields[FieldDestinationStation]),
		DepartureDate:      stringValue(fields[FieldDepartureDate]),
		DepartureTime:      stringValue(fields[FieldDepartureTime]),
		PassengerCount:     passengerCount(fields[FieldPassengerCount]),
		PaymentMethod:      stringValue(fields[FieldPaymentMethod]),
		CreatedAt:          b.clock.Now().UTC().Format(models.CreatedAtLayout),
	}
}

func (b *Builder) nextOrderID() string {
	id, err := b.newID()
	if err != nil {
		log.Warn().Err(err).Msg("UUIDv7 generation failed, falling back to random UUID")
		id = uuid.New()
	}
	return b.prefix + "-" + id.String()
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

func passengerCount(v interface{}) int {
	if isFalsy(v) {
		return defaultPassengerCount
	}

	var f float64
	switch val := v.(type) {
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return defaultPassengerCount
		}
		f = parsed
	case float64:
		f = val
	case int:
		if val < 1 {
			return defaultPassengerCount
		}
		return val
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			log.Warn().Str("value", val).Msg("Non-numeric passenger count, using default")
			return defaultPassengerCount
		}
		f = parsed
	default:
		return defaultPassengerCount
	}

	// Negative and fractional counts below one are not bookable
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 1 || f > math.MaxInt32 {
		return defaultPassengerCount
	}
	return int(f)
}

// isFalsy treats nil, false, "", 0 and NaN as absent
func isFalsy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return val == ""
	case json.Number:
		f, err := val.Float64()
		return err == nil && (f == 0 || math.IsNaN(f))
	case float64:
		return val == 0 || math.IsNaN(val)
	case int:
		return val == 0
	}
	return false
}
