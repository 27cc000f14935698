package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"tradereg/internal/domain/catalogs/shop"
	"tradereg/internal/domain/query"
	"tradereg/internal/domain/schema"
	"tradereg/internal/infrastructure/storage/postgres"
)

// legacyValueSearch reaches the single-text-column value table shared by all
// catalog entities. Record ids are UUIDs, so no kind discriminator is needed.
var legacyValueSearch = &query.ValueSearch{
	Table:     "custom_field_values",
	RecordCol: "record_id",
	TextExpr:  "v.value",
}

// ShopRepo implements shop.Repository.
type ShopRepo struct {
	*BaseCatalogRepo[*shop.Shop]
}

// NewShopRepo creates a new Shop repository.
func NewShopRepo(txManager *postgres.TxManager) *ShopRepo {
	return &ShopRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"shops",
			postgres.ExtractDBColumns[shop.Shop](),
			[]string{"shops.name", "shops.owner_name", "shops.address", "shops.phone"},
			string(schema.KindShop),
			legacyValueSearch,
			func() *shop.Shop { return &shop.Shop{} },
		),
	}
}

// FindByName retrieves a shop by exact trading name.
func (r *ShopRepo) FindByName(ctx context.Context, name string) (*shop.Shop, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[shop.Shop]()...).
		From("shops").
		Where(squirrel.Eq{"name": name}).
		Limit(1)
	return r.FindOne(ctx, q)
}
