package domain

import (
	"context"
	"fmt"

	"tradereg/internal/core/apperror"
	"tradereg/internal/core/id"
	"tradereg/internal/core/tx"
	"tradereg/internal/domain/schema"
	"tradereg/internal/domain/values"
	"tradereg/pkg/logger"
)

// CatalogService provides business logic for catalog entities. Every catalog
// row can carry dynamic value cells under its entity kind; the service keeps
// the fixed columns and the cells consistent across create/update/delete.
type CatalogService[T Validatable] struct {
	repo      CatalogRepository[T]
	txManager tx.Manager
	values    *values.Service
	hooks     *HookRegistry[T]

	// kind is the entity kind the dynamic cells are stored under.
	kind schema.EntityKindSlug
	// entityName for error messages
	entityName string
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T Validatable] struct {
	Repo       CatalogRepository[T]
	TxManager  tx.Manager
	Values     *values.Service
	Kind       schema.EntityKindSlug
	EntityName string
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T Validatable](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	return &CatalogService[T]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		values:     cfg.Values,
		hooks:      NewHookRegistry[T](),
		kind:       cfg.Kind,
		entityName: cfg.EntityName,
	}
}

// Hooks returns the hook registry for external registration.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

func (s *CatalogService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *CatalogService[T]) normalizeGetErr(err error, entityID any) error {
	if err == nil {
		return nil
	}
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, entityID)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", entityID)
}

// Create creates a new catalog entity and writes its dynamic payload. The row
// itself is transactional; the payload follows the per-cell batch policy so a
// bad cell reports a partial failure instead of losing the row.
func (s *CatalogService[T]) Create(ctx context.Context, entity T, custom map[string]any) (values.WriteResult, error) {
	if err := entity.Validate(ctx); err != nil {
		return values.WriteResult{}, s.normalizeValidationErr(err)
	}
	if err := s.hooks.Run(ctx, BeforeCreate, entity); err != nil {
		return values.WriteResult{}, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, entity); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return values.WriteResult{}, err
	}

	result := values.WriteResult{}
	if len(custom) > 0 {
		result, err = s.values.PutValues(ctx, s.kind, entity.GetID(), custom, false)
		if err != nil {
			return result, err
		}
	}

	if err := s.hooks.Run(ctx, AfterCreate, entity); err != nil {
		logger.Warn(ctx, "after-create hook failed", "entity", s.entityName, "error", err)
	}
	return result, nil
}

// GetByID retrieves entity by ID.
func (s *CatalogService[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	entity, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return entity, s.normalizeGetErr(err, entityID.String())
	}
	return entity, nil
}

// GetCustomValues returns the entity's dynamic cells keyed by field name.
func (s *CatalogService[T]) GetCustomValues(ctx context.Context, entityID id.ID) (map[string]values.Value, error) {
	return s.values.GetRecordValues(ctx, s.kind, entityID)
}

// Update updates an existing entity and its dynamic payload.
func (s *CatalogService[T]) Update(ctx context.Context, entity T, custom map[string]any) (values.WriteResult, error) {
	if err := entity.Validate(ctx); err != nil {
		return values.WriteResult{}, s.normalizeValidationErr(err)
	}
	if err := s.hooks.Run(ctx, BeforeUpdate, entity); err != nil {
		return values.WriteResult{}, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, entity); err != nil {
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return values.WriteResult{}, err
	}

	result := values.WriteResult{}
	if len(custom) > 0 {
		result, err = s.values.PutValues(ctx, s.kind, entity.GetID(), custom, false)
		if err != nil {
			return result, err
		}
	}

	if err := s.hooks.Run(ctx, AfterUpdate, entity); err != nil {
		logger.Warn(ctx, "after-update hook failed", "entity", s.entityName, "error", err)
	}
	return result, nil
}

// Delete removes the entity row together with all of its value cells. Both
// sides go in one transaction so no orphaned cells survive the delete.
func (s *CatalogService[T]) Delete(ctx context.Context, entityID id.ID) error {
	entity, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return s.normalizeGetErr(err, entityID.String())
	}
	if err := s.hooks.Run(ctx, BeforeDelete, entity); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		dropped, err := s.values.DeleteByRecord(ctx, s.kind, entityID)
		if err != nil {
			return fmt.Errorf("cascade cells for %s %s: %w", s.entityName, entityID, err)
		}
		if err := s.repo.Delete(ctx, entityID); err != nil {
			return fmt.Errorf("delete %s: %w", s.entityName, err)
		}
		if dropped > 0 {
			logger.Info(ctx, "catalog entity cells dropped",
				"entity", s.entityName, "id", entityID.String(), "cells", dropped)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, AfterDelete, entity); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "entity", s.entityName, "error", err)
	}
	return nil
}

// List retrieves entities with filtering.
func (s *CatalogService[T]) List(ctx context.Context, filter ListFilter) (ListResult[T], error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultListFilter().Limit
	}
	return s.repo.List(ctx, filter)
}

// Exists checks if entity exists.
func (s *CatalogService[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	return s.repo.Exists(ctx, entityID)
}
