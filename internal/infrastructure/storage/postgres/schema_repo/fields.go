// Package schema_repo provides PostgreSQL persistence for the field catalog:
// field definitions in custom_fields, runtime entity kinds in entity_kinds.
package schema_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"tradereg/internal/core/apperror"
	"tradereg/internal/core/id"
	"tradereg/internal/domain/query"
	"tradereg/internal/domain/schema"
	"tradereg/internal/infrastructure/storage/postgres"
)

const fieldsTable = "custom_fields"

var fieldCols = postgres.ExtractDBColumns[schema.FieldDef]()

// FieldRepo implements schema.FieldRepository.
type FieldRepo struct {
	txManager *postgres.TxManager
}

// NewFieldRepo creates a new field definition repository.
func NewFieldRepo(txManager *postgres.TxManager) *FieldRepo {
	return &FieldRepo{txManager: txManager}
}

// Create inserts a new field definition.
func (r *FieldRepo) Create(ctx context.Context, field *schema.FieldDef) error {
	q := query.Builder().
		Insert(fieldsTable).
		SetMap(postgres.StructToMap(field))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	_, err = r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		// 23505: (entity_kind, field_name) already taken
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("custom_field", "field_name", field.FieldName)
		}
		return fmt.Errorf("insert field definition: %w", err)
	}
	return nil
}

// GetByID retrieves a field definition by ID.
func (r *FieldRepo) GetByID(ctx context.Context, fieldID id.ID) (*schema.FieldDef, error) {
	q := query.Builder().
		Select(fieldCols...).
		From(fieldsTable).
		Where(squirrel.Eq{"id": fieldID}).
		Limit(1)

	return r.getOne(ctx, q, fieldID.String())
}

// GetByName retrieves a field definition by (entity kind, field name).
func (r *FieldRepo) GetByName(ctx context.Context, kind schema.EntityKindSlug, name string) (*schema.FieldDef, error) {
	q := query.Builder().
		Select(fieldCols...).
		From(fieldsTable).
		Where(squirrel.Eq{"entity_kind": string(kind), "field_name": name}).
		Limit(1)

	return r.getOne(ctx, q, name)
}

// listByKindQuery builds the catalog listing: display_order first, the
// time-ordered ID as a stable tie-break between equal orders.
func listByKindQuery(kind schema.EntityKindSlug, activeOnly bool) squirrel.SelectBuilder {
	q := query.Builder().
		Select(fieldCols...).
		From(fieldsTable).
		Where(squirrel.Eq{"entity_kind": string(kind)}).
		OrderBy("display_order ASC", "id ASC")

	if activeOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}
	return q
}

// ListByKind returns field definitions ordered by display_order, with the
// time-ordered ID as a stable tie-break.
func (r *FieldRepo) ListByKind(ctx context.Context, kind schema.EntityKindSlug, activeOnly bool) ([]*schema.FieldDef, error) {
	sql, args, err := listByKindQuery(kind, activeOnly).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var fields []*schema.FieldDef
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &fields, sql, args...); err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	return fields, nil
}

// Update persists a full field definition.
func (r *FieldRepo) Update(ctx context.Context, field *schema.FieldDef) error {
	data := postgres.StructToMap(field)
	delete(data, "id")
	delete(data, "created_at")

	q := query.Builder().
		Update(fieldsTable).
		SetMap(data).
		Where(squirrel.Eq{"id": field.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update field definition: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("custom_field", field.ID.String())
	}
	return nil
}

// Delete removes the definition.
func (r *FieldRepo) Delete(ctx context.Context, fieldID id.ID) error {
	q := query.Builder().
		Delete(fieldsTable).
		Where(squirrel.Eq{"id": fieldID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete field definition: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("custom_field", fieldID.String())
	}
	return nil
}

func (r *FieldRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*schema.FieldDef, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	field := &schema.FieldDef{}
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, field, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("custom_field", key)
		}
		return nil, fmt.Errorf("get field definition: %w", err)
	}
	return field, nil
}
