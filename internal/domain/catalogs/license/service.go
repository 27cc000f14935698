package license

import (
	"context"
	"time"

	"tradereg/internal/core/apperror"
	"tradereg/internal/core/id"
	"tradereg/internal/core/tx"
	"tradereg/internal/domain"
	"tradereg/internal/domain/schema"
	"tradereg/internal/domain/values"
)

// ReferenceChecker verifies that a referenced catalog row exists.
type ReferenceChecker interface {
	Exists(ctx context.Context, entityID id.ID) (bool, error)
}

// Service provides business logic for the License catalog.
type Service struct {
	*domain.CatalogService[*License]
	repo  Repository
	shops ReferenceChecker
	types ReferenceChecker
}

// NewService creates a new License service.
func NewService(repo Repository, shops, types ReferenceChecker, txManager tx.Manager, valueSvc *values.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*License]{
		Repo:       repo,
		TxManager:  txManager,
		Values:     valueSvc,
		Kind:       schema.KindLicense,
		EntityName: "license",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		shops:          shops,
		types:          types,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkReferences)
	base.Hooks().On(domain.BeforeCreate, svc.checkNumberUnique)
	base.Hooks().On(domain.BeforeUpdate, svc.checkReferences)
	base.Hooks().On(domain.BeforeUpdate, svc.checkNumberUnique)

	return svc
}

// FindByNumber retrieves a license by its printed number.
func (s *Service) FindByNumber(ctx context.Context, licenseNo string) (*License, error) {
	return s.repo.FindByNumber(ctx, licenseNo)
}

// ListExpired returns the page of licenses whose expire date has passed.
func (s *Service) ListExpired(ctx context.Context, f domain.ListFilter) (domain.ListResult[*License], error) {
	f.DerivedStatus = DerivedExpired
	return s.List(ctx, f)
}

// CountExpiring counts non-cancelled licenses expiring within the window.
func (s *Service) CountExpiring(ctx context.Context, days int) (int64, error) {
	return s.repo.CountExpiring(ctx, days)
}

// Renew extends a license by the given validity period and reactivates it.
func (s *Service) Renew(ctx context.Context, licenseID id.ID, months int) (*License, error) {
	if months <= 0 {
		return nil, apperror.NewValidation("renewal period must be positive").
			WithDetail("months", months)
	}
	lic, err := s.GetByID(ctx, licenseID)
	if err != nil {
		return nil, err
	}
	if lic.Status == StatusCancelled {
		return nil, apperror.NewConflict("cancelled license cannot be renewed").
			WithDetail("licenseNo", lic.LicenseNo)
	}

	// Renewal counts from the later of today and the current expiry.
	from := time.Now().UTC()
	if lic.ExpireDate.After(from) {
		from = lic.ExpireDate
	}
	lic.ExpireDate = from.AddDate(0, months, 0)
	lic.Status = StatusActive
	lic.Touch()

	if _, err := s.Update(ctx, lic, nil); err != nil {
		return nil, err
	}
	return lic, nil
}

func (s *Service) checkReferences(ctx context.Context, l *License) error {
	ok, err := s.shops.Exists(ctx, l.ShopID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewNotFound("shop", l.ShopID.String())
	}
	ok, err = s.types.Exists(ctx, l.LicenseTypeID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewNotFound("license_type", l.LicenseTypeID.String())
	}
	return nil
}

func (s *Service) checkNumberUnique(ctx context.Context, l *License) error {
	existing, err := s.repo.FindByNumber(ctx, l.LicenseNo)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != l.ID {
		return apperror.NewDuplicate("license", "license_no", l.LicenseNo)
	}
	return nil
}
