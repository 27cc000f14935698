package shop

import (
	"tradereg/internal/core/tx"
	"tradereg/internal/domain"
	"tradereg/internal/domain/schema"
	"tradereg/internal/domain/values"
)

// Service provides business logic for the Shop catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Shop]
	repo Repository
}

// NewService creates a new Shop service.
func NewService(repo Repository, txManager tx.Manager, valueSvc *values.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Shop]{
		Repo:       repo,
		TxManager:  txManager,
		Values:     valueSvc,
		Kind:       schema.KindShop,
		EntityName: "shop",
	})
	return &Service{
		CatalogService: base,
		repo:           repo,
	}
}
