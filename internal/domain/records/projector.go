package records

import (
	"tradereg/internal/core/id"
	"tradereg/internal/domain/schema"
	"tradereg/internal/domain/values"
)

// BaseCol is one fixed column of a base row, in display order.
type BaseCol struct {
	Key   string
	Value any
}

// BaseRow is one already-filtered, already-paginated base record.
type BaseRow struct {
	ID   id.ID
	Cols []BaseCol
}

// Project merges base rows with value cells into flat records: base columns
// first, then every active catalog field initialized to null and overwritten
// by its cell when present. Runs in O(rows + cells) — cells arrive pre-indexed
// by record from the batched fetch, so there is no per-row query and no
// rows×fields scan beyond the single merge pass.
func Project(rows []BaseRow, fields []*schema.FieldDef, cells map[id.ID]map[string]values.Value) []*Record {
	active := make([]*schema.FieldDef, 0, len(fields))
	for _, f := range fields {
		if f.IsActive {
			active = append(active, f)
		}
	}

	out := make([]*Record, 0, len(rows))
	for _, row := range rows {
		rec := NewRecord()
		for _, col := range row.Cols {
			rec.Set(col.Key, col.Value)
		}
		rowCells := cells[row.ID]
		for _, f := range active {
			if _, taken := rec.Get(f.FieldName); taken {
				// Base column shadows a same-named dynamic field; base wins
				// even when the field has a stored cell.
				continue
			}
			if cell, ok := rowCells[f.FieldName]; ok && !cell.IsZero() {
				rec.Set(f.FieldName, cell.Native())
				continue
			}
			rec.Set(f.FieldName, values.NullFor(f.FieldType))
		}
		out = append(out, rec)
	}
	return out
}
