// Package webhook turns voice assistant post-call analysis payloads into ticket orders.
package webhook

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
)

// Field names collected by the voice agent
const (
	FieldOriginStation      = "stasiun_asal"
	FieldDestinationStation = "stasiun_tujuan"
	FieldDepartureDate      = "tanggal_keberangkatan"
	FieldDepartureTime      = "jam_keberangkatan"
	FieldPaymentMethod      = "metode_pembayaran"
	FieldPassengerCount     = "jumlah_penumpang"
)

// NormalizedFields maps collected field names to their unwrapped values
type NormalizedFields map[string]interface{}

// DecodePayload parses a webhook body. Numbers are kept as json.Number.
func DecodePayload(body []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload interface{}
	if err := dec.Decode(&payload); err != nil {
		return nil, NewMalformedPayloadError("decoding body", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, NewMalformedPayloadError("trailing data after JSON value", nil)
	}
	if _, ok := payload.(map[string]interface{}); !ok {
		return nil, NewMalformedPayloadError("top-level value is not an object", nil)
	}

	return payload, nil
}

// Normalize flattens analysis.data_collection_results into a map of values.
// It returns nil when the path is missing or no entry carries a value.
func Normalize(payload interface{}) NormalizedFields {
	root, ok := payload.(map[string]interface{})
	if !ok {
		return nil
	}
	analysis, ok := root["analysis"].(map[string]interface{})
	if !ok {
		return nil
	}

	fields := NormalizedFields{}
	switch results := analysis["data_collection_results"].(type) {
	case map[string]interface{}:
		for key, entry := range results {
			if value, ok := unwrapValue(entry); ok {
				fields[key] = value
			}
		}
	case []interface{}:
		for i, entry := range results {
			if value, ok := unwrapValue(entry); ok {
				fields[strconv.Itoa(i)] = value
			}
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

// ConversationID returns the delivery's conversation id, top-level or under "data"
func ConversationID(payload interface{}) string {
	root, ok := payload.(map[string]interface{})
	if !ok {
		return ""
	}
	if id, ok := root["conversation_id"].(string); ok {
		return id
	}
	if data, ok := root["data"].(map[string]interface{}); ok {
		if id, ok := data["conversation_id"].(string); ok {
			return id
		}
	}
	return ""
}

// unwrapValue returns entry.value when entry is an object with a "value" member.
// An explicit JSON null counts as a value.
func unwrapValue(entry interface{}) (interface{}, bool) {
	wrapper, ok := entry.(map[string]interface{})
	if !ok {
		return nil, false
	}
	value, ok := wrapper["value"]
	return value, ok
}
