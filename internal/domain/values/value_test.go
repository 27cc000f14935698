package values

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"tradereg/internal/core/apperror"
	"tradereg/internal/domain/schema"
)

func numberField() *schema.FieldDef {
	return &schema.FieldDef{FieldName: "fee", FieldType: schema.TypeNumber}
}

func boolField() *schema.FieldDef {
	return &schema.FieldDef{FieldName: "halal", FieldType: schema.TypeBoolean}
}

func dateField() *schema.FieldDef {
	return &schema.FieldDef{FieldName: "opened_on", FieldType: schema.TypeDate}
}

func textField() *schema.FieldDef {
	return &schema.FieldDef{FieldName: "note", FieldType: schema.TypeText}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNumber, KindOf(schema.TypeNumber))
	assert.Equal(t, KindBool, KindOf(schema.TypeBoolean))
	assert.Equal(t, KindDate, KindOf(schema.TypeDate))

	// Everything else stores as text.
	for _, ft := range []schema.FieldType{
		schema.TypeText, schema.TypeSelect, schema.TypeTextarea,
		schema.TypeEmail, schema.TypePhone, schema.TypeURL,
	} {
		assert.Equal(t, KindText, KindOf(ft), string(ft))
	}
}

func TestCoerce_Number(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		expected string
	}{
		{"decimal string", "12.50", "12.5"},
		{"padded string", " 100 ", "100"},
		{"json number", json.Number("3.14"), "3.14"},
		{"float", float64(7), "7"},
		{"int", 42, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Coerce(numberField(), tt.raw)
			assert.NoError(t, err)
			assert.Equal(t, KindNumber, v.Kind())
			assert.Equal(t, tt.expected, v.NumberValue().String())
		})
	}
}

func TestCoerce_NumberRejectsGarbage(t *testing.T) {
	_, err := Coerce(numberField(), "abc")
	assert.Error(t, err)
	assert.True(t, apperror.IsTypeCoercion(err))
}

func TestCoerce_Bool(t *testing.T) {
	truthy := []any{true, "true", "TRUE", "1", "yes", "on", json.Number("1"), float64(1)}
	for _, raw := range truthy {
		v, err := Coerce(boolField(), raw)
		assert.NoError(t, err)
		assert.True(t, v.BoolValue())
	}

	falsy := []any{false, "false", "0", "no", "off", json.Number("0"), float64(0)}
	for _, raw := range falsy {
		v, err := Coerce(boolField(), raw)
		assert.NoError(t, err)
		assert.False(t, v.BoolValue())
	}

	// Anything outside 0/1 is a coercion error, not a silent false.
	for _, raw := range []any{"maybe", json.Number("2"), float64(2), json.Number("-1")} {
		_, err := Coerce(boolField(), raw)
		assert.True(t, apperror.IsTypeCoercion(err), "input %v", raw)
	}
}

func TestCoerce_Date(t *testing.T) {
	v, err := Coerce(dateField(), "2026-01-31")
	assert.NoError(t, err)
	assert.Equal(t, "2026-01-31", v.String())

	// RFC3339 input is truncated to day precision.
	v, err = Coerce(dateField(), "2026-01-31T18:45:00Z")
	assert.NoError(t, err)
	assert.Equal(t, "2026-01-31", v.String())
	assert.True(t, v.DateValue().Equal(time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)))

	_, err = Coerce(dateField(), "31/01/2026")
	assert.True(t, apperror.IsTypeCoercion(err))
}

func TestCoerce_EmptyMeansNoValue(t *testing.T) {
	for _, field := range []*schema.FieldDef{textField(), numberField(), boolField(), dateField()} {
		v, err := Coerce(field, nil)
		assert.NoError(t, err)
		assert.True(t, v.IsZero())

		v, err = Coerce(field, "   ")
		assert.NoError(t, err)
		assert.True(t, v.IsZero())
	}
}

func TestCoerce_Text(t *testing.T) {
	v, err := Coerce(textField(), "ร้านขายของชำ")
	assert.NoError(t, err)
	assert.Equal(t, "ร้านขายของชำ", v.TextValue())

	// Non-string scalars stringify rather than fail.
	v, err = Coerce(textField(), json.Number("42"))
	assert.NoError(t, err)
	assert.Equal(t, "42", v.TextValue())
}

// Every kind must survive the canonical-string round trip: the legacy store
// persists String() and reads back through Parse.
func TestStringRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		field *schema.FieldDef
		value Value
	}{
		{"text", textField(), Text("สมชาย ใจดี")},
		{"number", numberField(), Number(decimal.RequireFromString("1250.75"))},
		{"bool true", boolField(), Bool(true)},
		{"bool false", boolField(), Bool(false)},
		{"date", dateField(), Date(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(tt.field, tt.value.String())
			assert.NoError(t, err)
			assert.Equal(t, tt.value.Kind(), parsed.Kind())
			assert.Equal(t, tt.value.String(), parsed.String())
		})
	}
}

func TestParse_EmptyAndMalformed(t *testing.T) {
	// Empty canonical form parses to "no value" for non-text kinds.
	for _, field := range []*schema.FieldDef{numberField(), boolField(), dateField()} {
		v, err := Parse(field, "")
		assert.NoError(t, err)
		assert.True(t, v.IsZero())
	}

	// A stored cell that no longer matches its declared type fails loudly;
	// the store decides whether to skip it.
	_, err := Parse(numberField(), "not a number")
	assert.True(t, apperror.IsTypeCoercion(err))
}

func TestNative(t *testing.T) {
	assert.Equal(t, "2026-08-31", Date(time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)).Native())
	assert.Equal(t, true, Bool(true).Native())
	assert.Equal(t, "abc", Text("abc").Native())
	assert.Nil(t, Value{}.Native())
}

func TestRuleInput(t *testing.T) {
	assert.Equal(t, 12.5, Number(decimal.RequireFromString("12.50")).RuleInput())
	assert.Equal(t, true, Bool(true).RuleInput())
	assert.Equal(t, "2026-08-31", Date(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)).RuleInput())
	assert.Equal(t, "abc", Text("abc").RuleInput())
}

func TestValueMarshalJSON(t *testing.T) {
	b, err := json.Marshal(Date(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)))
	assert.NoError(t, err)
	assert.Equal(t, `"2026-08-31"`, string(b))

	b, err = json.Marshal(Number(decimal.RequireFromString("12.50")))
	assert.NoError(t, err)
	assert.Equal(t, `"12.5"`, string(b))
}
