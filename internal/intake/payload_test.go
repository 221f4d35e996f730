package intake

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bookline/internal/config"
	"github.com/stretchr/testify/assert"
)

func testLimits() config.IntakeConfig {
	return config.IntakeConfig{MaxLineItems: 3, MaxNoteLength: 20}
}

func TestParseBookingPayloadValid(t *testing.T) {
	raw := []byte(`{
		"customer_name": "  Ada Lovelace  ",
		"customer_phone": "+33123456789",
		"customer_email": "ada@example.com",
		"date": "2024-06-10",
		"time": "12:30",
		"notes": "window seat",
		"items": [{"item_id": "101", "quantity": 2}]
	}`)

	payload, err := ParseBookingPayload(raw, testLimits())
	assert.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", payload.CustomerName)
	assert.Equal(t, "2024-06-10", payload.Date)
	assert.Equal(t, 750, payload.TimeMinutes)
	assert.Equal(t, []PayloadLine{{ItemID: snowflake.ID(101), Quantity: 2}}, payload.Lines)
}

func TestParseBookingPayloadRejectsUnknownKey(t *testing.T) {
	raw := []byte(`{
		"customer_name": "Ada",
		"customer_phone": "+331",
		"date": "2024-06-10",
		"time": "12:30",
		"is_admin": true
	}`)

	_, err := ParseBookingPayload(raw, testLimits())
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Message, "is_admin")
}

func TestParseBookingPayloadRejectsUnknownItemKey(t *testing.T) {
	raw := []byte(`{
		"customer_name": "Ada",
		"customer_phone": "+331",
		"date": "2024-06-10",
		"time": "12:30",
		"items": [{"item_id": "101", "price_cents": 1}]
	}`)

	_, err := ParseBookingPayload(raw, testLimits())
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Message, "price_cents")
}

func TestParseBookingPayloadRejectsNonObject(t *testing.T) {
	for _, raw := range []string{`[]`, `"hi"`, `42`, ``, `{"customer_name": }`} {
		_, err := ParseBookingPayload([]byte(raw), testLimits())
		var validation *ValidationError
		assert.ErrorAs(t, err, &validation, "payload: %s", raw)
	}
}

func TestParseBookingPayloadRequiredFields(t *testing.T) {
	cases := map[string]string{
		"customer_name":  `{"customer_phone":"+331","date":"2024-06-10","time":"12:30"}`,
		"customer_phone": `{"customer_name":"Ada","date":"2024-06-10","time":"12:30"}`,
		"date":           `{"customer_name":"Ada","customer_phone":"+331","time":"12:30"}`,
		"time":           `{"customer_name":"Ada","customer_phone":"+331","date":"2024-06-10"}`,
	}
	for field, raw := range cases {
		_, err := ParseBookingPayload([]byte(raw), testLimits())
		var validation *ValidationError
		assert.ErrorAs(t, err, &validation, "missing %s", field)
		assert.Contains(t, validation.Message, field)
	}

	// Whitespace-only required string counts as missing.
	_, err := ParseBookingPayload([]byte(`{"customer_name":"   ","customer_phone":"+331","date":"2024-06-10","time":"12:30"}`), testLimits())
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestParseBookingPayloadTypeChecks(t *testing.T) {
	_, err := ParseBookingPayload([]byte(`{"customer_name":42,"customer_phone":"+331","date":"2024-06-10","time":"12:30"}`), testLimits())
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)

	_, err = ParseBookingPayload([]byte(`{"customer_name":"Ada","customer_phone":"+331","date":"June 10","time":"12:30"}`), testLimits())
	assert.ErrorAs(t, err, &validation)

	_, err = ParseBookingPayload([]byte(`{"customer_name":"Ada","customer_phone":"+331","date":"2024-06-10","time":"25:00"}`), testLimits())
	assert.ErrorAs(t, err, &validation)

	_, err = ParseBookingPayload([]byte(`{"customer_name":"Ada","customer_phone":"+331","date":"2024-06-10","time":"12:30","items":[{"item_id":"101","quantity":1.5}]}`), testLimits())
	assert.ErrorAs(t, err, &validation)
}

func TestParseBookingPayloadCapsNotes(t *testing.T) {
	raw := []byte(`{"customer_name":"Ada","customer_phone":"+331","date":"2024-06-10","time":"12:30","notes":"` + strings.Repeat("x", 50) + `"}`)

	payload, err := ParseBookingPayload(raw, testLimits())
	assert.NoError(t, err)
	assert.Len(t, payload.Notes, 20)
}

func TestParseBookingPayloadCapsNotesOnRuneBoundary(t *testing.T) {
	raw := []byte(`{"customer_name":"Ada","customer_phone":"+331","date":"2024-06-10","time":"12:30","notes":"` + strings.Repeat("é", 50) + `"}`)

	payload, err := ParseBookingPayload(raw, testLimits())
	assert.NoError(t, err)
	assert.True(t, utf8.ValidString(payload.Notes))
	assert.Equal(t, strings.Repeat("é", 20), payload.Notes)
}

func TestParseOrderPayloadRequiresItems(t *testing.T) {
	base := `"customer_name":"Ada","customer_phone":"+331","pickup_date":"2024-06-10","pickup_time":"12:30"`

	var validation *ValidationError
	_, err := ParseOrderPayload([]byte(`{`+base+`}`), testLimits())
	assert.ErrorAs(t, err, &validation)

	_, err = ParseOrderPayload([]byte(`{`+base+`,"items":[]}`), testLimits())
	assert.ErrorAs(t, err, &validation)

	payload, err := ParseOrderPayload([]byte(`{`+base+`,"items":[{"item_id":"7"}]}`), testLimits())
	assert.NoError(t, err)
	assert.Equal(t, []PayloadLine{{ItemID: snowflake.ID(7), Quantity: 1}}, payload.Lines, "quantity defaults to 1")
}

func TestNormalizeLines(t *testing.T) {
	lines := []PayloadLine{
		{ItemID: 1, Quantity: 2},
		{ItemID: 2, Quantity: 0},
		{ItemID: 1, Quantity: 3},
		{ItemID: 3, Quantity: -1},
		{ItemID: 4, Quantity: 1},
	}

	normalized, err := NormalizeLines(lines, 10)
	assert.NoError(t, err)
	assert.Equal(t, []PayloadLine{
		{ItemID: 1, Quantity: 5},
		{ItemID: 4, Quantity: 1},
	}, normalized, "duplicates collapse, non-positive dropped, order preserved")
}

func TestNormalizeLinesRejectsEmptyAndOversized(t *testing.T) {
	_, err := NormalizeLines([]PayloadLine{{ItemID: 1, Quantity: 0}}, 10)
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)

	lines := make([]PayloadLine, 4)
	for i := range lines {
		lines[i] = PayloadLine{ItemID: snowflake.ID(i + 1), Quantity: 1}
	}
	_, err = NormalizeLines(lines, 3)
	assert.ErrorAs(t, err, &validation)
}
