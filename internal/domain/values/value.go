// Package values provides the typed value store: per-record cells for
// runtime-defined fields, with type fidelity across both storage models.
package values

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tradereg/internal/core/apperror"
	"tradereg/internal/domain/schema"
)

// Kind is the storage representation of a value.
type Kind string

const (
	KindText   Kind = "text"
	KindNumber Kind = "number"
	KindBool   Kind = "bool"
	KindDate   Kind = "date"
)

// KindOf maps a declared field type to its storage representation.
// This mapping is the only way a field type selects a value column.
func KindOf(t schema.FieldType) Kind {
	switch t {
	case schema.TypeNumber:
		return KindNumber
	case schema.TypeBoolean:
		return KindBool
	case schema.TypeDate:
		return KindDate
	default:
		// text, select, textarea, email, phone, url
		return KindText
	}
}

// DateFormat is the canonical wire and storage form for date values.
const DateFormat = "2006-01-02"

// Value is a tagged union: exactly one payload is populated, selected by kind.
// The zero Value has empty kind and represents "no value".
type Value struct {
	kind    Kind
	text    string
	number  decimal.Decimal
	boolean bool
	date    time.Time
}

// Text creates a text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number creates a number value with full decimal precision.
func Number(d decimal.Decimal) Value { return Value{kind: KindNumber, number: d} }

// Bool creates a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Date creates a date value truncated to day precision in UTC.
func Date(t time.Time) Value {
	return Value{kind: KindDate, date: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// Kind returns the storage representation tag; empty for the zero Value.
func (v Value) Kind() Kind { return v.kind }

// IsZero reports whether the value is absent.
func (v Value) IsZero() bool { return v.kind == "" }

// Text returns the text payload (valid for KindText).
func (v Value) TextValue() string { return v.text }

// NumberValue returns the decimal payload (valid for KindNumber).
func (v Value) NumberValue() decimal.Decimal { return v.number }

// BoolValue returns the boolean payload (valid for KindBool).
func (v Value) BoolValue() bool { return v.boolean }

// DateValue returns the date payload (valid for KindDate).
func (v Value) DateValue() time.Time { return v.date }

// Native returns the payload as a plain Go value for JSON responses:
// string, decimal.Decimal, bool or "YYYY-MM-DD" string.
func (v Value) Native() any {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return v.number
	case KindBool:
		return v.boolean
	case KindDate:
		return v.date.Format(DateFormat)
	}
	return nil
}

// RuleInput returns the payload in the form the rule engine evaluates
// natively: float64 for numbers, bool for booleans, canonical strings for
// text and dates. Decimal precision does not matter for range checks.
func (v Value) RuleInput() any {
	switch v.kind {
	case KindNumber:
		f, _ := v.number.Float64()
		return f
	case KindBool:
		return v.boolean
	case KindDate:
		return v.date.Format(DateFormat)
	default:
		return v.text
	}
}

// String returns the canonical string form. Numbers, dates and booleans
// round-trip through this form in the single-text-column model.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return v.number.String()
	case KindBool:
		if v.boolean {
			return "true"
		}
		return "false"
	case KindDate:
		return v.date.Format(DateFormat)
	}
	return ""
}

// MarshalJSON emits the native payload.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Native())
}

// NullFor returns the type-appropriate "no value" for projections: JSON null
// for every kind, but callers that need typed zero defaults use this hook.
func NullFor(t schema.FieldType) any {
	return nil
}

// Coerce converts a raw client value to the field's declared type.
// Returns the zero Value for nil/empty input (the adapters decide whether
// that means "delete the cell" or "store empty string").
func Coerce(field *schema.FieldDef, raw any) (Value, error) {
	if raw == nil {
		return Value{}, nil
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return Value{}, nil
	}

	switch KindOf(field.FieldType) {
	case KindNumber:
		d, err := toDecimal(raw)
		if err != nil {
			return Value{}, apperror.NewTypeCoercion(field.FieldName, string(field.FieldType), raw)
		}
		return Number(d), nil

	case KindBool:
		b, err := toBool(raw)
		if err != nil {
			return Value{}, apperror.NewTypeCoercion(field.FieldName, string(field.FieldType), raw)
		}
		return Bool(b), nil

	case KindDate:
		t, err := toDate(raw)
		if err != nil {
			return Value{}, apperror.NewTypeCoercion(field.FieldName, string(field.FieldType), raw)
		}
		return Date(t), nil

	default:
		return Text(toText(raw)), nil
	}
}

// Parse reconstructs a typed value from its canonical string form.
// Used by the single-text-column adapter on read.
func Parse(field *schema.FieldDef, raw string) (Value, error) {
	switch KindOf(field.FieldType) {
	case KindNumber:
		if raw == "" {
			return Value{}, nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return Value{}, apperror.NewTypeCoercion(field.FieldName, string(field.FieldType), raw)
		}
		return Number(d), nil

	case KindBool:
		if raw == "" {
			return Value{}, nil
		}
		b, err := toBool(raw)
		if err != nil {
			return Value{}, apperror.NewTypeCoercion(field.FieldName, string(field.FieldType), raw)
		}
		return Bool(b), nil

	case KindDate:
		if raw == "" {
			return Value{}, nil
		}
		t, err := time.Parse(DateFormat, raw)
		if err != nil {
			return Value{}, apperror.NewTypeCoercion(field.FieldName, string(field.FieldType), raw)
		}
		return Date(t), nil

	default:
		return Text(raw), nil
	}
}

// --- Coercion helpers ---

func toText(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func toDecimal(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case decimal.Decimal:
		return v, nil
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	}
	return decimal.Zero, fmt.Errorf("unsupported number source %T", raw)
}

func toBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "on":
			return true, nil
		case "false", "0", "no", "off":
			return false, nil
		}
	case json.Number:
		switch v.String() {
		case "1":
			return true, nil
		case "0":
			return false, nil
		}
	case float64:
		switch v {
		case 1:
			return true, nil
		case 0:
			return false, nil
		}
	}
	return false, fmt.Errorf("unsupported boolean source %T", raw)
}

func toDate(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		if t, err := time.Parse(DateFormat, s); err == nil {
			return t, nil
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("unparseable date %q", s)
	}
	return time.Time{}, fmt.Errorf("unsupported date source %T", raw)
}
