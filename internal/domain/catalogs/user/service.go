package user

import (
	"context"

	"tradereg/internal/core/apperror"
	"tradereg/internal/core/tx"
	"tradereg/internal/domain"
	"tradereg/internal/domain/schema"
	"tradereg/internal/domain/values"
)

// Service provides business logic for the User catalog.
type Service struct {
	*domain.CatalogService[*User]
	repo Repository
}

// NewService creates a new User service.
func NewService(repo Repository, txManager tx.Manager, valueSvc *values.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*User]{
		Repo:       repo,
		TxManager:  txManager,
		Values:     valueSvc,
		Kind:       schema.KindUser,
		EntityName: "user",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkUsernameUnique)
	base.Hooks().On(domain.BeforeCreate, requirePassword)
	base.Hooks().On(domain.BeforeUpdate, svc.checkUsernameUnique)

	return svc
}

// FindByUsername retrieves a user by login name.
func (s *Service) FindByUsername(ctx context.Context, username string) (*User, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *Service) checkUsernameUnique(ctx context.Context, u *User) error {
	existing, err := s.repo.FindByUsername(ctx, u.Username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != u.ID {
		return apperror.NewDuplicate("user", "username", u.Username)
	}
	return nil
}

func requirePassword(_ context.Context, u *User) error {
	if u.PasswordHash == "" {
		return apperror.NewValidation("password is required").
			WithDetail("field", "password")
	}
	return nil
}
