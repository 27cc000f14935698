package license

import (
	"context"

	"tradereg/internal/domain"
)

// Repository defines the interface for License persistence. List understands
// the "expired" derived status in ListFilter.DerivedStatus.
type Repository interface {
	domain.CatalogRepository[*License]

	// FindByNumber retrieves a license by its printed number.
	FindByNumber(ctx context.Context, licenseNo string) (*License, error)

	// CountExpiring counts non-cancelled licenses expiring within days.
	CountExpiring(ctx context.Context, days int) (int64, error)
}
