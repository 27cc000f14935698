package schema

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Options is the ordered option list of a select field.
// Implements sql.Scanner and driver.Valuer for PostgreSQL JSONB mapping.
type Options []FieldOption

// Scan implements sql.Scanner for reading from PostgreSQL JSONB.
func (o *Options) Scan(src any) error {
	if src == nil {
		*o = nil
		return nil
	}

	var source []byte
	switch v := src.(type) {
	case []byte:
		source = v
	case string:
		source = []byte(v)
	default:
		return fmt.Errorf("unsupported type for Options: %T", src)
	}

	if len(source) == 0 {
		*o = nil
		return nil
	}

	var result []FieldOption
	if err := json.Unmarshal(source, &result); err != nil {
		return fmt.Errorf("failed to decode Options: %w", err)
	}

	*o = result
	return nil
}

// Value implements driver.Valuer for writing to PostgreSQL JSONB.
func (o Options) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}
