package models

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "PENDING_PAYMENT"
	OrderStatusPaid           OrderStatus = "PAID"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

// CreatedAtLayout is the ISO-8601 form used for OrderRecord.CreatedAt
const CreatedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// OrderRecord is the ticket order derived from a voice assistant conversation
type OrderRecord struct {
	OrderID            string      `json:"orderId" dynamodbav:"orderId"`
	Status             OrderStatus `json:"status" dynamodbav:"status"`
	OriginStation      string      `json:"originStation,omitempty" dynamodbav:"originStation,omitempty"`
	DestinationStation string      `json:"destinationStation,omitempty" dynamodbav:"destinationStation,omitempty"`
	DepartureDate      string      `json:"departureDate,omitempty" dynamodbav:"departureDate,omitempty"`
	DepartureTime      string      `json:"departureTime,omitempty" dynamodbav:"departureTime,omitempty"`
	PassengerCount     int         `json:"passengerCount" dynamodbav:"passengerCount"`
	PaymentMethod      string      `json:"paymentMethod,omitempty" dynamodbav:"paymentMethod,omitempty"`
	CreatedAt          string      `json:"createdAt" dynamodbav:"createdAt"`
	ConversationID     string      `json:"conversationId,omitempty" dynamodbav:"conversationId,omitempty"`
}

// Validate checks that an OrderRecord is fit for persistence
func (o *OrderRecord) Validate() error {
	if o.OrderID == "" {
		return fmt.Errorf("order ID is required")
	}

	switch o.Status {
	case OrderStatusPendingPayment, OrderStatusPaid, OrderStatusCancelled:
		// Valid status
	default:
		return fmt.Errorf("invalid order status: %s", o.Status)
	}

	if o.PassengerCount < 0 {
		return fmt.Errorf("invalid passenger count: %d", o.PassengerCount)
	}

	if _, err := time.Parse(time.RFC3339, o.CreatedAt); err != nil {
		return fmt.Errorf("invalid createdAt: %s", o.CreatedAt)
	}

	return nil
}
