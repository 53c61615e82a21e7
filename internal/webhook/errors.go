package webhook

import (
	"errors"
	"fmt"
)

// ErrInvalidSignature is returned when a delivery fails signature verification
var ErrInvalidSignature = errors.New("invalid webhook signature")

// MalformedPayloadError is returned when a request body is not a JSON object
type MalformedPayloadError struct {
	Message string
	Err     error
}

func (e *MalformedPayloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed webhook payload: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("malformed webhook payload: %s", e.Message)
}

func (e *MalformedPayloadError) Unwrap() error {
	return e.Err
}

func NewMalformedPayloadError(message string, err error) *MalformedPayloadError {
	return &MalformedPayloadError{
		Message: message,
		Err:     err,
	}
}
