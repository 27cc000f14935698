// Package query builds parameterized predicates spanning fixed columns and
// dynamic field values. Every user-supplied value enters as a bound
// parameter; every variable column or table name comes from the fixed
// allow-lists declared at compile time.
package query

import (
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"tradereg/internal/core/apperror"
	"tradereg/internal/domain/filter"
)

// Builder returns a squirrel builder with PostgreSQL placeholders.
func Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// ValueSearch describes how to reach a values table from a base table.
// Instances are package-level constants in the repositories; the struct
// never carries request input.
type ValueSearch struct {
	// Table is the value-cell table.
	Table string
	// RecordCol is the cell column referencing the base row's id.
	RecordCol string
	// KindCol optionally discriminates by entity kind (legacy model).
	KindCol string
	// TextExpr is a SQL expression producing the cell's text form.
	TextExpr string
}

// Search builds the free-text predicate: case-insensitive substring over the
// fixed base columns OR existence of at least one matching value cell.
// baseIDCol is the qualified id column of the base table (e.g. "shops.id").
func Search(baseCols []string, baseIDCol string, vs *ValueSearch, kind string, term string) squirrel.Sqlizer {
	pattern := "%" + term + "%"

	or := make(squirrel.Or, 0, len(baseCols)+1)
	for _, col := range baseCols {
		or = append(or, squirrel.ILike{col: pattern})
	}

	if vs != nil {
		sql := fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s v WHERE v.%s = %s",
			vs.Table, vs.RecordCol, baseIDCol,
		)
		args := []any{}
		if vs.KindCol != "" {
			sql += fmt.Sprintf(" AND v.%s = ?", vs.KindCol)
			args = append(args, kind)
		}
		sql += fmt.Sprintf(" AND %s ILIKE ?)", vs.TextExpr)
		args = append(args, pattern)
		or = append(or, squirrel.Expr(sql, args...))
	}

	return or
}

// ApplyFilters adds advanced filter items to a select builder. Column names
// are checked against the caller's allow-list before they touch the builder.
func ApplyFilters(q squirrel.SelectBuilder, items []filter.Item, allowed map[string]bool) (squirrel.SelectBuilder, error) {
	for _, item := range items {
		if !allowed[item.Field] {
			return q, apperror.NewValidation("invalid filter column").
				WithDetail("field", item.Field)
		}

		switch item.Operator {
		case filter.Equal:
			q = q.Where(squirrel.Eq{item.Field: item.Value})
		case filter.NotEqual:
			q = q.Where(squirrel.NotEq{item.Field: item.Value})
		case filter.Less:
			q = q.Where(squirrel.Lt{item.Field: item.Value})
		case filter.Greater:
			q = q.Where(squirrel.Gt{item.Field: item.Value})
		case filter.LessOrEqual:
			q = q.Where(squirrel.LtOrEq{item.Field: item.Value})
		case filter.GreaterOrEqual:
			q = q.Where(squirrel.GtOrEq{item.Field: item.Value})
		case filter.InList:
			q = q.Where(squirrel.Eq{item.Field: item.Value})
		case filter.NotInList:
			q = q.Where(squirrel.NotEq{item.Field: item.Value})
		case filter.IsNull:
			q = q.Where(squirrel.Eq{item.Field: nil})
		case filter.IsNotNull:
			q = q.Where(squirrel.NotEq{item.Field: nil})
		case filter.Contains:
			q = q.Where(squirrel.ILike{item.Field: fmt.Sprintf("%%%v%%", item.Value)})
		case filter.NotContains:
			q = q.Where(squirrel.NotILike{item.Field: fmt.Sprintf("%%%v%%", item.Value)})
		default:
			return q, apperror.NewValidation("unknown filter operator").
				WithDetail("operator", string(item.Operator))
		}
	}
	return q, nil
}

// Derived builds a predicate that is a pure function of other columns,
// evaluated at query time. Used for status filters like "expired" that have
// no stored literal.
type Derived func(now time.Time) squirrel.Sqlizer

// Expired returns a Derived predicate: the date column is past now and the
// status column is not in the excluded set (e.g. already-cancelled rows
// never count as expired).
func Expired(dateCol, statusCol string, excluded []string) Derived {
	return func(now time.Time) squirrel.Sqlizer {
		and := squirrel.And{squirrel.Lt{dateCol: now}}
		if len(excluded) > 0 {
			and = append(and, squirrel.NotEq{statusCol: excluded})
		}
		return and
	}
}

// NotExpired returns the complement of Expired for the same columns.
func NotExpired(dateCol string) Derived {
	return func(now time.Time) squirrel.Sqlizer {
		return squirrel.GtOrEq{dateCol: now}
	}
}

// OrderBy validates an "-column" / "column" ordering spec against an
// allow-list and returns the ORDER BY clause.
func OrderBy(spec, fallback string, allowed map[string]bool) (string, error) {
	if spec == "" {
		spec = fallback
	}
	direction := "ASC"
	field := spec
	if len(spec) > 0 && spec[0] == '-' {
		direction = "DESC"
		field = spec[1:]
	} else if len(spec) > 0 && spec[0] == '+' {
		field = spec[1:]
	}
	if field == "" || !allowed[field] {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", spec)
	}
	return field + " " + direction, nil
}
