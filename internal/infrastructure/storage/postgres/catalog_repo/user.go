package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"tradereg/internal/domain/catalogs/user"
	"tradereg/internal/domain/schema"
	"tradereg/internal/infrastructure/storage/postgres"
)

// UserRepo implements user.Repository.
type UserRepo struct {
	*BaseCatalogRepo[*user.User]
}

// NewUserRepo creates a new User repository.
func NewUserRepo(txManager *postgres.TxManager) *UserRepo {
	return &UserRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"users",
			postgres.ExtractDBColumns[user.User](),
			[]string{"users.username", "users.full_name"},
			string(schema.KindUser),
			legacyValueSearch,
			func() *user.User { return &user.User{} },
		),
	}
}

// FindByUsername retrieves a user by login name.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[user.User]()...).
		From("users").
		Where(squirrel.Eq{"username": username}).
		Limit(1)
	return r.FindOne(ctx, q)
}
