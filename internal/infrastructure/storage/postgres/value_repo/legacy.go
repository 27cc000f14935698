// Package value_repo provides the two PostgreSQL value-cell stores: the
// single-text-column model (custom_field_values) used by the fixed catalogs
// and the four-typed-column model (entity_values) used by generic records.
// Both implement values.Store; they differ only in layout and in the
// documented empty-value policy.
package value_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"tradereg/internal/core/id"
	"tradereg/internal/domain/query"
	"tradereg/internal/domain/schema"
	"tradereg/internal/domain/values"
	"tradereg/internal/infrastructure/storage/postgres"
	"tradereg/pkg/logger"
)

// kindTables maps each fixed entity kind to its base table. The map is the
// complete set of tables the legacy sweeper may touch; nothing request-derived
// ever selects a table name.
var kindTables = map[schema.EntityKindSlug]string{
	schema.KindShop:        "shops",
	schema.KindLicense:     "licenses",
	schema.KindUser:        "users",
	schema.KindLicenseType: "license_types",
}

// Compile-time check.
var _ values.Store = (*LegacyStore)(nil)

// LegacyStore keeps every cell as canonical text in custom_field_values.
// Empty-value policy: an empty write stores an empty string cell.
type LegacyStore struct {
	txManager *postgres.TxManager
}

// NewLegacyStore creates the single-text-column store.
func NewLegacyStore(txManager *postgres.TxManager) *LegacyStore {
	return &LegacyStore{txManager: txManager}
}

// Put upserts one cell; last writer wins on the (record, field) pair.
func (s *LegacyStore) Put(ctx context.Context, field *schema.FieldDef, recordID id.ID, value values.Value) error {
	now := time.Now().UTC()
	q := query.Builder().
		Insert("custom_field_values").
		Columns("id", "field_id", "record_id", "value", "created_at", "updated_at").
		Values(id.New(), field.ID, recordID, value.String(), now, now).
		Suffix("ON CONFLICT (record_id, field_id) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err := s.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert cell: %w", err)
	}
	return nil
}

type legacyCellRow struct {
	RecordID  id.ID            `db:"record_id"`
	FieldName string           `db:"field_name"`
	FieldType schema.FieldType `db:"field_type"`
	Value     string           `db:"value"`
}

// GetValues fetches all cells of the batch in one query joined with their
// field definitions, then parses each back to its declared type.
func (s *LegacyStore) GetValues(ctx context.Context, kind schema.EntityKindSlug, recordIDs []id.ID) (map[id.ID]map[string]values.Value, error) {
	out := make(map[id.ID]map[string]values.Value, len(recordIDs))
	if len(recordIDs) == 0 {
		return out, nil
	}

	q := query.Builder().
		Select("v.record_id", "f.field_name", "f.field_type", "v.value").
		From("custom_field_values v").
		Join("custom_fields f ON f.id = v.field_id").
		Where(squirrel.Eq{"f.entity_kind": string(kind)}).
		Where(squirrel.Eq{"v.record_id": recordIDs})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []legacyCellRow
	querier := s.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("fetch cells: %w", err)
	}

	for _, row := range rows {
		// Parse failures mean a stored cell no longer matches its declared
		// type (e.g. the text "abc" under a number field from old data).
		// The cell is skipped, not fatal: readers see "no value".
		v, err := values.Parse(&schema.FieldDef{FieldName: row.FieldName, FieldType: row.FieldType}, row.Value)
		if err != nil {
			logger.Warn(ctx, "malformed stored cell skipped",
				"field", row.FieldName, "record_id", row.RecordID.String())
			continue
		}
		if v.IsZero() && row.Value != "" {
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

// DeleteByField removes all cells of one field.
func (s *LegacyStore) DeleteByField(ctx context.Context, fieldID id.ID) (int64, error) {
	q := query.Builder().
		Delete("custom_field_values").
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

// DeleteByRecord removes all cells of one record under the kind.
func (s *LegacyStore) DeleteByRecord(ctx context.Context, kind schema.EntityKindSlug, recordID id.ID) (int64, error) {
	sub := query.Builder().
		Select("id").
		From("custom_fields").
		Where(squirrel.Eq{"entity_kind": string(kind)})
	subSQL, subArgs, err := sub.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build subquery: %w", err)
	}

	q := query.Builder().
		Delete("custom_field_values").
		Where(squirrel.Eq{"record_id": recordID}).
		Where(squirrel.Expr("field_id IN ("+subSQL+")", subArgs...))

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
func (s *LegacyStore) FindRecordByValue(ctx context.Context, field *schema.FieldDef, value values.Value) (id.ID, bool, error) {
	q := query.Builder().
		Select("record_id").
		From("custom_field_values").
		Where(squirrel.Eq{"field_id": field.ID, "value": value.String()}).
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

// CountOrphans counts cells whose base record no longer exists, without
// touching them.
func (s *LegacyStore) CountOrphans(ctx context.Context) (int64, error) {
	var total int64
	querier := s.txManager.GetQuerier(ctx)
	for kind, table := range kindTables {
		sql := fmt.Sprintf(`
			SELECT COUNT(*)
			FROM custom_field_values v
			JOIN custom_fields f ON f.id = v.field_id
			WHERE f.entity_kind = $1
			  AND NOT EXISTS (SELECT 1 FROM %s t WHERE t.id = v.record_id)`, table)

		var count int64
		if err := querier.QueryRow(ctx, sql, string(kind)).Scan(&count); err != nil {
			return total, fmt.Errorf("count %s orphans: %w", kind, err)
		}
		total += count
	}
	return total, nil
}

// SweepOrphans deletes cells whose base record no longer exists. One
// statement per fixed kind; the table names come from the compile-time map.
func (s *LegacyStore) SweepOrphans(ctx context.Context) (int64, error) {
	var total int64
	querier := s.txManager.GetQuerier(ctx)
	for kind, table := range kindTables {
		sql := fmt.Sprintf(`
			DELETE FROM custom_field_values v
			USING custom_fields f
			WHERE v.field_id = f.id
			  AND f.entity_kind = $1
			  AND NOT EXISTS (SELECT 1 FROM %s t WHERE t.id = v.record_id)`, table)

		result, err := querier.Exec(ctx, sql, string(kind))
		if err != nil {
			return total, fmt.Errorf("sweep %s cells: %w", kind, err)
		}
		total += result.RowsAffected()
	}
	return total, nil
}
