package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"tradereg/internal/domain/catalogs/licensetype"
	"tradereg/internal/domain/schema"
	"tradereg/internal/infrastructure/storage/postgres"
)

// LicenseTypeRepo implements licensetype.Repository.
type LicenseTypeRepo struct {
	*BaseCatalogRepo[*licensetype.LicenseType]
}

// NewLicenseTypeRepo creates a new LicenseType repository.
func NewLicenseTypeRepo(txManager *postgres.TxManager) *LicenseTypeRepo {
	return &LicenseTypeRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"license_types",
			postgres.ExtractDBColumns[licensetype.LicenseType](),
			[]string{"license_types.name", "license_types.description"},
			string(schema.KindLicenseType),
			legacyValueSearch,
			func() *licensetype.LicenseType { return &licensetype.LicenseType{} },
		),
	}
}

// FindByName retrieves a license type by exact name.
func (r *LicenseTypeRepo) FindByName(ctx context.Context, name string) (*licensetype.LicenseType, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[licensetype.LicenseType]()...).
		From("license_types").
		Where(squirrel.Eq{"name": name}).
		Limit(1)
	return r.FindOne(ctx, q)
}
