// Package record_repo persists generic-model record headers.
package record_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tradereg/internal/core/apperror"
	"tradereg/internal/core/id"
	"tradereg/internal/domain/query"
	"tradereg/internal/domain/records"
	"tradereg/internal/domain/schema"
	"tradereg/internal/infrastructure/storage/postgres"
)

const recordsTable = "entity_records"

var headerCols = postgres.ExtractDBColumns[records.Header]()

// typedValueSearch reaches the four-typed-column cell table. The COALESCE
// renders whichever payload column is populated as text for matching.
var typedValueSearch = &query.ValueSearch{
	Table:     "entity_values",
	RecordCol: "record_id",
	TextExpr: "COALESCE(v.value_text, v.value_number::text, " +
		"to_char(v.value_date, 'YYYY-MM-DD'), v.value_bool::text)",
}

// Compile-time check.
var _ records.Repository = (*RecordRepo)(nil)

// RecordRepo implements records.Repository.
type RecordRepo struct {
	txManager *postgres.TxManager
}

// NewRecordRepo creates a new record header repository.
func NewRecordRepo(txManager *postgres.TxManager) *RecordRepo {
	return &RecordRepo{txManager: txManager}
}

// Create inserts a record header.
func (r *RecordRepo) Create(ctx context.Context, h *records.Header) error {
	q := query.Builder().
		Insert(recordsTable).
		SetMap(postgres.StructToMap(h))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert record header: %w", err)
	}
	return nil
}

// GetByID retrieves a header, scoped to its kind so a record of one kind is
// never addressable under another.
func (r *RecordRepo) GetByID(ctx context.Context, kind schema.EntityKindSlug, recordID id.ID) (*records.Header, error) {
	q := query.Builder().
		Select(headerCols...).
		From(recordsTable).
		Where(squirrel.Eq{"id": recordID, "entity_kind": string(kind)}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	header := &records.Header{}
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, header, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("record", recordID.String())
		}
		return nil, fmt.Errorf("get record header: %w", err)
	}
	return header, nil
}

// Touch bumps updated_at after a value write.
func (r *RecordRepo) Touch(ctx context.Context, recordID id.ID, at time.Time) error {
	q := query.Builder().
		Update(recordsTable).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": recordID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("touch record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("record", recordID.String())
	}
	return nil
}

// List returns a page of headers; search matches any value cell.
func (r *RecordRepo) List(ctx context.Context, kind schema.EntityKindSlug, search string, limit, offset int) ([]*records.Header, int64, error) {
	q := query.Builder().
		Select(headerCols...).
		From(recordsTable).
		Where(squirrel.Eq{"entity_kind": string(kind)})

	if search != "" {
		// Headers carry no business columns; search lives in the cells.
		q = q.Where(query.Search(nil, recordsTable+".id", typedValueSearch, string(kind), search))
	}

	countQ := query.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count records: %w", err)
	}

	q = q.OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var headers []*records.Header
	if err := pgxscan.Select(ctx, querier, &headers, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	return headers, total, nil
}

// Delete removes the header.
func (r *RecordRepo) Delete(ctx context.Context, recordID id.ID) error {
	q := query.Builder().
		Delete(recordsTable).
		Where(squirrel.Eq{"id": recordID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("record", recordID.String())
	}
	return nil
}
