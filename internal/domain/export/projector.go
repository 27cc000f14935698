// Package export turns projected records into tabular output for CSV and PDF
// reports. It reuses the schema registry's ordering so list views and exports
// never disagree on column order.
package export

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tradereg/internal/domain/records"
	"tradereg/internal/domain/schema"
	"tradereg/internal/domain/values"
)

// Column is one output column: stable key plus display label.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Table is the format-agnostic export payload.
type Table struct {
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// BuildInput configures one table build.
type BuildInput struct {
	// BaseColumns are the fixed columns of the entity, in display order.
	BaseColumns []Column

	// Fields is the full catalog for the entity kind, already sorted.
	Fields []*schema.FieldDef

	// FieldKeys optionally restricts and orders the dynamic columns. Base
	// columns are never dropped by a subset; only dynamic fields are
	// selectable. Empty means "all active table-visible fields".
	FieldKeys []string

	// Records is the projected page from the record projector.
	Records []*records.Record
}

// Build produces the ordered column list and formatted row matrix.
// Base and dynamic columns are de-duplicated by key (base wins); a malformed
// cell renders as an empty placeholder rather than failing the export.
func Build(in BuildInput) Table {
	byName := make(map[string]*schema.FieldDef, len(in.Fields))
	for _, f := range in.Fields {
		byName[f.FieldName] = f
	}

	baseKeys := make(map[string]bool, len(in.BaseColumns))
	columns := make([]Column, 0, len(in.BaseColumns)+len(in.Fields))
	for _, c := range in.BaseColumns {
		baseKeys[c.Key] = true
		columns = append(columns, c)
	}

	// Resolve the dynamic column selection.
	var selected []*schema.FieldDef
	if len(in.FieldKeys) > 0 {
		for _, key := range in.FieldKeys {
			f, ok := byName[key]
			if !ok || !f.IsActive {
				continue
			}
			if baseKeys[key] {
				// Same-named dynamic field would duplicate a fixed column.
				continue
			}
			selected = append(selected, f)
		}
	} else {
		for _, f := range in.Fields {
			if !f.IsActive || !f.ShowInTable || baseKeys[f.FieldName] {
				continue
			}
			selected = append(selected, f)
		}
	}

	seen := make(map[string]bool, len(selected))
	for _, f := range selected {
		if seen[f.FieldName] {
			continue
		}
		seen[f.FieldName] = true
		columns = append(columns, Column{Key: f.FieldName, Label: f.FieldLabel})
	}

	rows := make([][]string, 0, len(in.Records))
	for _, rec := range in.Records {
		row := make([]string, len(columns))
		for i, col := range columns {
			v, ok := rec.Get(col.Key)
			if !ok || v == nil {
				row[i] = ""
				continue
			}
			if f, isField := byName[col.Key]; isField && !baseKeys[col.Key] {
				row[i] = formatFieldCell(f, v)
			} else {
				row[i] = formatBaseCell(v)
			}
		}
		rows = append(rows, row)
	}

	return Table{Columns: columns, Rows: rows}
}

// formatFieldCell renders a dynamic value under its field definition.
func formatFieldCell(f *schema.FieldDef, v any) string {
	switch f.FieldType {
	case schema.TypeDate:
		return formatDateCell(v)
	case schema.TypeSelect:
		return f.OptionLabel(fmt.Sprint(v))
	case schema.TypeNumber:
		switch n := v.(type) {
		case decimal.Decimal:
			return n.String()
		case string:
			d, err := decimal.NewFromString(n)
			if err != nil {
				return ""
			}
			return d.String()
		default:
			return fmt.Sprint(v)
		}
	case schema.TypeBoolean:
		switch b := v.(type) {
		case bool:
			if b {
				return "yes"
			}
			return "no"
		default:
			return ""
		}
	default:
		return fmt.Sprint(v)
	}
}

// formatBaseCell renders a fixed column value.
func formatBaseCell(v any) string {
	switch t := v.(type) {
	case time.Time:
		return FormatThaiDate(t)
	case *time.Time:
		if t == nil {
			return ""
		}
		return FormatThaiDate(*t)
	case decimal.Decimal:
		return t.String()
	case bool:
		if t {
			return "yes"
		}
		return "no"
	case string:
		return t
	default:
		return fmt.Sprint(v)
	}
}

func formatDateCell(v any) string {
	switch t := v.(type) {
	case time.Time:
		return FormatThaiDate(t)
	case string:
		parsed, err := time.Parse(values.DateFormat, t)
		if err != nil {
			// Unparseable date: placeholder, never a failed export.
			return ""
		}
		return FormatThaiDate(parsed)
	default:
		return ""
	}
}

// FormatThaiDate renders a date as DD/MM/YYYY with the Buddhist-era year,
// the convention the reports are read in.
func FormatThaiDate(t time.Time) string {
	return fmt.Sprintf("%02d/%02d/%04d", t.Day(), int(t.Month()), t.Year()+543)
}
