// Package filter defines the comparison operators accepted by list endpoints.
package filter

// ComparisonType identifies a comparison operator.
type ComparisonType string

const (
	Equal          ComparisonType = "eq"
	NotEqual       ComparisonType = "neq"
	Less           ComparisonType = "lt"
	Greater        ComparisonType = "gt"
	LessOrEqual    ComparisonType = "lte"
	GreaterOrEqual ComparisonType = "gte"
	InList         ComparisonType = "in"
	NotInList      ComparisonType = "nin"
	Contains       ComparisonType = "contains"  // ILIKE %val%
	NotContains    ComparisonType = "ncontains" // NOT ILIKE %val%
	IsNull         ComparisonType = "null"
	IsNotNull      ComparisonType = "not_null"
)

// Item represents one filter line.
type Item struct {
	Field    string         `json:"field"`    // column name (snake_case)
	Operator ComparisonType `json:"operator"` // comparison type
	Value    any            `json:"value"`    // value (string, number, ID list)
}
