package user

import (
	"context"

	"tradereg/internal/domain"
)

// Repository defines the interface for User persistence.
type Repository interface {
	domain.CatalogRepository[*User]

	// FindByUsername retrieves a user by login name.
	FindByUsername(ctx context.Context, username string) (*User, error)
}
