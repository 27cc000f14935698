package licensetype

import (
	"context"

	"tradereg/internal/domain"
)

// Repository defines the interface for LicenseType persistence.
type Repository interface {
	domain.CatalogRepository[*LicenseType]

	// FindByName retrieves a license type by exact name.
	FindByName(ctx context.Context, name string) (*LicenseType, error)
}
