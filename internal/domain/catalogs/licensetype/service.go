package licensetype

import (
	"context"

	"tradereg/internal/core/apperror"
	"tradereg/internal/core/tx"
	"tradereg/internal/domain"
	"tradereg/internal/domain/schema"
	"tradereg/internal/domain/values"
)

// Service provides business logic for the LicenseType catalog.
type Service struct {
	*domain.CatalogService[*LicenseType]
	repo Repository
}

// NewService creates a new LicenseType service.
func NewService(repo Repository, txManager tx.Manager, valueSvc *values.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*LicenseType]{
		Repo:       repo,
		TxManager:  txManager,
		Values:     valueSvc,
		Kind:       schema.KindLicenseType,
		EntityName: "license_type",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkNameUnique)
	base.Hooks().On(domain.BeforeUpdate, svc.checkNameUnique)

	return svc
}

// checkNameUnique rejects a second type with the same name.
func (s *Service) checkNameUnique(ctx context.Context, t *LicenseType) error {
	existing, err := s.repo.FindByName(ctx, t.Name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != t.ID {
		return apperror.NewDuplicate("license_type", "name", t.Name)
	}
	return nil
}
