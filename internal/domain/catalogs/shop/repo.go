package shop

import (
	"context"

	"tradereg/internal/domain"
)

// Repository defines the interface for Shop persistence.
type Repository interface {
	domain.CatalogRepository[*Shop]

	// FindByName retrieves a shop by exact trading name.
	FindByName(ctx context.Context, name string) (*Shop, error)
}
