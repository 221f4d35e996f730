package intake

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bookline/internal/config"
	scheduledomain "github.com/smallbiznis/bookline/internal/schedule/domain"
)

// PayloadLine is one requested line item before catalog resolution.
type PayloadLine struct {
	ItemID   snowflake.ID
	Quantity int
}

// BookingPayload is the validated shape of a reservation/appointment request.
type BookingPayload struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Date          string
	TimeMinutes   int
	Notes         string
	Lines         []PayloadLine
}

// OrderPayload is the validated shape of a pickup order request.
type OrderPayload struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	PickupDate    string
	PickupMinutes int
	Notes         string
	Lines         []PayloadLine
}

var bookingKeys = map[string]struct{}{
	"customer_name":  {},
	"customer_phone": {},
	"customer_email": {},
	"date":           {},
	"time":           {},
	"notes":          {},
	"items":          {},
}

var orderKeys = map[string]struct{}{
	"customer_name":  {},
	"customer_phone": {},
	"customer_email": {},
	"pickup_date":    {},
	"pickup_time":    {},
	"notes":          {},
	"items":          {},
}

var lineKeys = map[string]struct{}{
	"item_id":  {},
	"quantity": {},
}

// ParseBookingPayload decodes and validates a raw booking body. Any key
// outside the allow-list rejects the whole payload.
func ParseBookingPayload(raw []byte, limits config.IntakeConfig) (BookingPayload, error) {
	fields, err := decodeObject(raw, bookingKeys)
	if err != nil {
		return BookingPayload{}, err
	}

	var payload BookingPayload
	if payload.CustomerName, err = stringField(fields, "customer_name", true); err != nil {
		return BookingPayload{}, err
	}
	if payload.CustomerPhone, err = stringField(fields, "customer_phone", true); err != nil {
		return BookingPayload{}, err
	}
	if payload.CustomerEmail, err = stringField(fields, "customer_email", false); err != nil {
		return BookingPayload{}, err
	}
	if payload.Date, err = dateField(fields, "date"); err != nil {
		return BookingPayload{}, err
	}
	if payload.TimeMinutes, err = clockField(fields, "time"); err != nil {
		return BookingPayload{}, err
	}
	if payload.Notes, err = notesField(fields, limits.MaxNoteLength); err != nil {
		return BookingPayload{}, err
	}
	if payload.Lines, err = lineField(fields, false); err != nil {
		return BookingPayload{}, err
	}
	return payload, nil
}

// ParseOrderPayload decodes and validates a raw order body. Orders require at
// least one line item.
func ParseOrderPayload(raw []byte, limits config.IntakeConfig) (OrderPayload, error) {
	fields, err := decodeObject(raw, orderKeys)
	if err != nil {
		return OrderPayload{}, err
	}

	var payload OrderPayload
	if payload.CustomerName, err = stringField(fields, "customer_name", true); err != nil {
		return OrderPayload{}, err
	}
	if payload.CustomerPhone, err = stringField(fields, "customer_phone", true); err != nil {
		return OrderPayload{}, err
	}
	if payload.CustomerEmail, err = stringField(fields, "customer_email", false); err != nil {
		return OrderPayload{}, err
	}
	if payload.PickupDate, err = dateField(fields, "pickup_date"); err != nil {
		return OrderPayload{}, err
	}
	if payload.PickupMinutes, err = clockField(fields, "pickup_time"); err != nil {
		return OrderPayload{}, err
	}
	if payload.Notes, err = notesField(fields, limits.MaxNoteLength); err != nil {
		return OrderPayload{}, err
	}
	if payload.Lines, err = lineField(fields, true); err != nil {
		return OrderPayload{}, err
	}
	return payload, nil
}

// NormalizeLines collapses duplicate item ids by summing quantities, drops
// non-positive quantities, and enforces the configured list cap. First-seen
// order is preserved.
func NormalizeLines(lines []PayloadLine, maxLines int) ([]PayloadLine, error) {
	merged := make([]PayloadLine, 0, len(lines))
	index := make(map[snowflake.ID]int, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		if at, seen := index[line.ItemID]; seen {
			merged[at].Quantity += line.Quantity
			continue
		}
		index[line.ItemID] = len(merged)
		merged = append(merged, line)
	}
	if len(merged) == 0 {
		return nil, Validation("no valid line items")
	}
	if maxLines > 0 && len(merged) > maxLines {
		return nil, Validationf("too many line items (max %d)", maxLines)
	}
	return merged, nil
}

func decodeObject(raw []byte, allowed map[string]struct{}) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, Validation("payload must be a JSON object")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, Validation("malformed JSON payload")
	}
	for key := range fields {
		if _, ok := allowed[key]; !ok {
			return nil, Validationf("unknown field %q", key)
		}
	}
	return fields, nil
}

func stringField(fields map[string]json.RawMessage, key string, required bool) (string, error) {
	raw, present := fields[key]
	if !present || isNull(raw) {
		if required {
			return "", Validationf("missing field %q", key)
		}
		return "", nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", Validationf("field %q must be a string", key)
	}
	value = strings.TrimSpace(value)
	if required && value == "" {
		return "", Validationf("missing field %q", key)
	}
	return value, nil
}

func dateField(fields map[string]json.RawMessage, key string) (string, error) {
	value, err := stringField(fields, key, true)
	if err != nil {
		return "", err
	}
	if _, err := time.Parse(scheduledomain.DateLayout, value); err != nil {
		return "", Validationf("field %q must be a date (YYYY-MM-DD)", key)
	}
	return value, nil
}

func clockField(fields map[string]json.RawMessage, key string) (int, error) {
	value, err := stringField(fields, key, true)
	if err != nil {
		return 0, err
	}
	minutes, err := scheduledomain.ParseClock(value)
	if err != nil {
		return 0, Validationf("field %q must be a time (HH:MM)", key)
	}
	return minutes, nil
}

func notesField(fields map[string]json.RawMessage, maxLength int) (string, error) {
	value, err := stringField(fields, "notes", false)
	if err != nil {
		return "", err
	}
	if maxLength > 0 {
		// Cap by rune so a multibyte character is never split mid-sequence.
		if runes := []rune(value); len(runes) > maxLength {
			value = string(runes[:maxLength])
		}
	}
	return value, nil
}

func lineField(fields map[string]json.RawMessage, required bool) ([]PayloadLine, error) {
	raw, present := fields["items"]
	if !present || isNull(raw) {
		if required {
			return nil, Validation(`missing field "items"`)
		}
		return nil, nil
	}
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, Validation(`field "items" must be an array of objects`)
	}
	if required && len(entries) == 0 {
		return nil, Validation(`field "items" must not be empty`)
	}
	lines := make([]PayloadLine, 0, len(entries))
	for _, entry := range entries {
		for key := range entry {
			if _, ok := lineKeys[key]; !ok {
				return nil, Validationf("unknown field %q in item", key)
			}
		}
		idRaw, ok := entry["item_id"]
		if !ok || isNull(idRaw) {
			return nil, Validation(`missing field "item_id" in item`)
		}
		var id snowflake.ID
		if err := json.Unmarshal(idRaw, &id); err != nil {
			return nil, Validation(`field "item_id" must be an id string`)
		}
		quantity := 1
		if qtyRaw, ok := entry["quantity"]; ok && !isNull(qtyRaw) {
			if err := json.Unmarshal(qtyRaw, &quantity); err != nil {
				return nil, Validation(`field "quantity" must be an integer`)
			}
		}
		lines = append(lines, PayloadLine{ItemID: id, Quantity: quantity})
	}
	return lines, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
