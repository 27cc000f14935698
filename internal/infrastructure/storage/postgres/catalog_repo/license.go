package catalog_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"tradereg/internal/domain/catalogs/license"
	"tradereg/internal/domain/query"
	"tradereg/internal/domain/schema"
	"tradereg/internal/infrastructure/storage/postgres"
)

// LicenseRepo implements license.Repository. The "expired" status is a
// derived predicate over expire_date, never a stored column.
type LicenseRepo struct {
	*BaseCatalogRepo[*license.License]
}

// NewLicenseRepo creates a new License repository.
func NewLicenseRepo(txManager *postgres.TxManager) *LicenseRepo {
	base := NewBaseCatalogRepo(
		txManager,
		"licenses",
		postgres.ExtractDBColumns[license.License](),
		[]string{"licenses.license_no"},
		string(schema.KindLicense),
		legacyValueSearch,
		func() *license.License { return &license.License{} },
	)
	base.RegisterDerived(license.DerivedExpired,
		query.Expired("expire_date", "status", []string{string(license.StatusCancelled)}))
	return &LicenseRepo{BaseCatalogRepo: base}
}

// FindByNumber retrieves a license by its printed number.
func (r *LicenseRepo) FindByNumber(ctx context.Context, licenseNo string) (*license.License, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[license.License]()...).
		From("licenses").
		Where(squirrel.Eq{"license_no": licenseNo}).
		Limit(1)
	return r.FindOne(ctx, q)
}

// CountExpiring counts non-cancelled licenses expiring within days.
func (r *LicenseRepo) CountExpiring(ctx context.Context, days int) (int64, error) {
	now := time.Now().UTC()
	q := r.Builder().
		Select("COUNT(*)").
		From("licenses").
		Where(squirrel.GtOrEq{"expire_date": now}).
		Where(squirrel.Lt{"expire_date": now.AddDate(0, 0, days)}).
		Where(squirrel.NotEq{"status": string(license.StatusCancelled)})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count expiring: %w", err)
	}
	return count, nil
}
