package schema_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"tradereg/internal/core/apperror"
	"tradereg/internal/domain/query"
	"tradereg/internal/domain/schema"
	"tradereg/internal/infrastructure/storage/postgres"
)

const kindsTable = "entity_kinds"

var kindCols = postgres.ExtractDBColumns[schema.EntityKind]()

// KindRepo implements schema.KindRepository.
type KindRepo struct {
	txManager *postgres.TxManager
}

// NewKindRepo creates a new entity kind repository.
func NewKindRepo(txManager *postgres.TxManager) *KindRepo {
	return &KindRepo{txManager: txManager}
}

// Create inserts a runtime entity kind.
func (r *KindRepo) Create(ctx context.Context, kind *schema.EntityKind) error {
	q := query.Builder().
		Insert(kindsTable).
		SetMap(postgres.StructToMap(kind))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	_, err = r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("entity_kind", "slug", kind.Slug)
		}
		return fmt.Errorf("insert entity kind: %w", err)
	}
	return nil
}

// GetBySlug retrieves a kind by its slug.
func (r *KindRepo) GetBySlug(ctx context.Context, slug string) (*schema.EntityKind, error) {
	q := query.Builder().
		Select(kindCols...).
		From(kindsTable).
		Where(squirrel.Eq{"slug": slug}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	kind := &schema.EntityKind{}
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, kind, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("entity_kind", slug)
		}
		return nil, fmt.Errorf("get entity kind: %w", err)
	}
	return kind, nil
}

// List returns all runtime kinds in display order.
func (r *KindRepo) List(ctx context.Context, activeOnly bool) ([]*schema.EntityKind, error) {
	q := query.Builder().
		Select(kindCols...).
		From(kindsTable).
		OrderBy("display_order ASC", "slug ASC")

	if activeOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var kinds []*schema.EntityKind
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &kinds, sql, args...); err != nil {
		return nil, fmt.Errorf("list entity kinds: %w", err)
	}
	return kinds, nil
}

// Update persists a full entity kind.
func (r *KindRepo) Update(ctx context.Context, kind *schema.EntityKind) error {
	data := postgres.StructToMap(kind)
	delete(data, "id")
	delete(data, "created_at")

	q := query.Builder().
		Update(kindsTable).
		SetMap(data).
		Where(squirrel.Eq{"id": kind.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update entity kind: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("entity_kind", kind.ID.String())
	}
	return nil
}
