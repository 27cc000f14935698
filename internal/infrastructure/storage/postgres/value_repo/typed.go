package value_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"tradereg/internal/core/id"
	"tradereg/internal/domain/query"
	"tradereg/internal/domain/schema"
	"tradereg/internal/domain/values"
	"tradereg/internal/infrastructure/storage/postgres"
)

// kindColumns maps each storage kind to its column in entity_values. The
// declared field type selects the column through this map and nothing else;
// no request input can ever name a column.
var kindColumns = map[values.Kind]string{
	values.KindText:   "value_text",
	values.KindNumber: "value_number",
	values.KindBool:   "value_bool",
	values.KindDate:   "value_date",
}

// Compile-time check.
var _ values.Store = (*TypedStore)(nil)

// TypedStore keeps each cell in the column matching its declared type in
// entity_values. Empty-value policy: an empty write deletes the cell.
type TypedStore struct {
	txManager *postgres.TxManager
}

// NewTypedStore creates the four-typed-column store.
func NewTypedStore(txManager *postgres.TxManager) *TypedStore {
	return &TypedStore{txManager: txManager}
}

// Put upserts one cell into its type column, clearing the other three so a
// field whose definition changed can never carry two payloads. A zero Value
// deletes the cell.
func (s *TypedStore) Put(ctx context.Context, field *schema.FieldDef, recordID id.ID, value values.Value) error {
	if value.IsZero() {
		return s.deleteCell(ctx, field.ID, recordID)
	}

	col, ok := kindColumns[value.Kind()]
	if !ok {
		return fmt.Errorf("no storage column for kind %q", value.Kind())
	}

	cell := map[string]any{
		"value_text":   nil,
		"value_number": nil,
		"value_bool":   nil,
		"value_date":   nil,
	}
	cell[col] = typedPayload(value)

	now := time.Now().UTC()
	q := query.Builder().
		Insert("entity_values").
		Columns("id", "field_id", "record_id",
			"value_text", "value_number", "value_bool", "value_date",
			"created_at", "updated_at").
		Values(id.New(), field.ID, recordID,
			cell["value_text"], cell["value_number"], cell["value_bool"], cell["value_date"],
			now, now).
		Suffix(`ON CONFLICT (record_id, field_id) DO UPDATE SET
			value_text = EXCLUDED.value_text,
			value_number = EXCLUDED.value_number,
			value_bool = EXCLUDED.value_bool,
			value_date = EXCLUDED.value_date,
			updated_at = EXCLUDED.updated_at`)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err := s.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert cell: %w", err)
	}
	return nil
}

func (s *TypedStore) deleteCell(ctx context.Context, fieldID, recordID id.ID) error {
	q := query.Builder().
		Delete("entity_values").
		Where(squirrel.Eq{"field_id": fieldID, "record_id": recordID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := s.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("clear cell: %w", err)
	}
	return nil
}

type typedCellRow struct {
	RecordID    id.ID            `db:"record_id"`
	FieldName   string           `db:"field_name"`
	FieldType   schema.FieldType `db:"field_type"`
	ValueText   *string          `db:"value_text"`
	ValueNumber *decimal.Decimal `db:"value_number"`
	ValueBool   *bool            `db:"value_bool"`
	ValueDate   *time.Time       `db:"value_date"`
}

// GetValues fetches all cells of the batch in one query joined with their
// field definitions. The value comes back from the column the declared type
// selects; the other columns are ignored even if populated.
func (s *TypedStore) GetValues(ctx context.Context, kind schema.EntityKindSlug, recordIDs []id.ID) (map[id.ID]map[string]values.Value, error) {
	out := make(map[id.ID]map[string]values.Value, len(recordIDs))
	if len(recordIDs) == 0 {
		return out, nil
	}

	q := query.Builder().
		Select("v.record_id", "f.field_name", "f.field_type",
			"v.value_text", "v.value_number", "v.value_bool", "v.value_date").
		From("entity_values v").
		Join("custom_fields f ON f.id = v.field_id").
		Where(squirrel.Eq{"f.entity_kind": string(kind)}).
		Where(squirrel.Eq{"v.record_id": recordIDs})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []typedCellRow
	querier := s.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("fetch cells: %w", err)
	}

	for _, row := range rows {
		v := row.value()
		if v.IsZero() {
			continue
		}
		cells := out[row.RecordID]
		if cells == nil {
			cells = make(map[string]values.Value)
			out[row.RecordID] = cells
		}
		cells[row.FieldName] = v
	}
	return out, nil
}

func (r typedCellRow) value() values.Value {
	switch values.KindOf(r.FieldType) {
	case values.KindNumber:
		if r.ValueNumber != nil {
			return values.Number(*r.ValueNumber)
		}
	case values.KindBool:
		if r.ValueBool != nil {
			return values.Bool(*r.ValueBool)
		}
	case values.KindDate:
		if r.ValueDate != nil {
			return values.Date(*r.ValueDate)
		}
	default:
		if r.ValueText != nil {
			return values.Text(*r.ValueText)
		}
	}
	return values.Value{}
}

// DeleteByField removes all cells of one field.
func (s *TypedStore) DeleteByField(ctx context.Context, fieldID id.ID) (int64, error) {
	q := query.Builder().
		Delete("entity_values").
		Where(squirrel.Eq{"field_id": fieldID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}
	result, err := s.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete cells by field: %w", err)
	}
	return result.RowsAffected(), nil
}

// DeleteByRecord removes all cells of one record.
func (s *TypedStore) DeleteByRecord(ctx context.Context, kind schema.EntityKindSlug, recordID id.ID) (int64, error) {
	q := query.Builder().
		Delete("entity_values").
		Where(squirrel.Eq{"record_id": recordID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}
	result, err := s.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete cells by record: %w", err)
	}
	return result.RowsAffected(), nil
}

// FindRecordByValue returns the record currently holding value for the field.
func (s *TypedStore) FindRecordByValue(ctx context.Context, field *schema.FieldDef, value values.Value) (id.ID, bool, error) {
	col, ok := kindColumns[value.Kind()]
	if !ok {
		return id.Nil(), false, fmt.Errorf("no storage column for kind %q", value.Kind())
	}

	q := query.Builder().
		Select("record_id").
		From("entity_values").
		Where(squirrel.Eq{"field_id": field.ID}).
		Where(squirrel.Eq{col: typedPayload(value)}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return id.Nil(), false, fmt.Errorf("build query: %w", err)
	}

	var recordID id.ID
	err = s.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&recordID)
	if errors.Is(err, pgx.ErrNoRows) {
		return id.Nil(), false, nil
	}
	if err != nil {
		return id.Nil(), false, fmt.Errorf("find record by value: %w", err)
	}
	return recordID, true, nil
}

// CountOrphans counts cells whose record header no longer exists, without
// touching them.
func (s *TypedStore) CountOrphans(ctx context.Context) (int64, error) {
	sql := `
		SELECT COUNT(*)
		FROM entity_values v
		WHERE NOT EXISTS (SELECT 1 FROM entity_records r WHERE r.id = v.record_id)`

	var count int64
	if err := s.txManager.GetQuerier(ctx).QueryRow(ctx, sql).Scan(&count); err != nil {
		return 0, fmt.Errorf("count orphans: %w", err)
	}
	return count, nil
}

// SweepOrphans deletes cells whose record header no longer exists.
func (s *TypedStore) SweepOrphans(ctx context.Context) (int64, error) {
	sql := `
		DELETE FROM entity_values v
		WHERE NOT EXISTS (SELECT 1 FROM entity_records r WHERE r.id = v.record_id)`

	result, err := s.txManager.GetQuerier(ctx).Exec(ctx, sql)
	if err != nil {
		return 0, fmt.Errorf("sweep cells: %w", err)
	}
	return result.RowsAffected(), nil
}

// typedPayload converts a Value to its database representation.
func typedPayload(v values.Value) any {
	switch v.Kind() {
	case values.KindNumber:
		return v.NumberValue()
	case values.KindBool:
		return v.BoolValue()
	case values.KindDate:
		return v.DateValue()
	default:
		return v.TextValue()
	}
}
