package schema

import (
	"context"
	"fmt"

	"tradereg/internal/core/apperror"
	"tradereg/internal/core/id"
	"tradereg/internal/core/tx"
	"tradereg/pkg/logger"
)

// Service is the schema registry: it owns field-definition and entity-kind
// mutations and keeps the field-catalog cache coherent with them.
type Service struct {
	fields    FieldRepository
	kinds     KindRepository
	txManager tx.Manager

	// cascaders delete value cells when a field is deleted; one per value
	// store (legacy text model, typed-column model).
	cascaders []ValueCascader

	// invalidator is notified synchronously after each committed mutation,
	// before the request is reported successful.
	invalidator CatalogInvalidator
}

// ServiceConfig configures the registry service.
type ServiceConfig struct {
	Fields      FieldRepository
	Kinds       KindRepository
	TxManager   tx.Manager
	Cascaders   []ValueCascader
	Invalidator CatalogInvalidator
}

// NewService creates the schema registry service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		fields:      cfg.Fields,
		kinds:       cfg.Kinds,
		txManager:   cfg.TxManager,
		cascaders:   cfg.Cascaders,
		invalidator: cfg.Invalidator,
	}
}

// DefineFieldInput carries the attributes of a new field definition.
type DefineFieldInput struct {
	EntityKind     EntityKindSlug
	FieldName      string
	FieldLabel     string
	FieldType      FieldType
	FieldOptions   Options
	IsRequired     bool
	IsUnique       bool
	DisplayOrder   int
	ShowInTable    bool
	ShowInForm     bool
	DefaultValue   *string
	ValidationRule *string
}

// DefineField creates a new field definition. The whole operation is atomic:
// either the field exists with all its attributes or nothing was written.
func (s *Service) DefineField(ctx context.Context, in DefineFieldInput) (*FieldDef, error) {
	if err := s.resolveKind(ctx, in.EntityKind); err != nil {
		return nil, err
	}

	field := NewFieldDef(in.EntityKind, in.FieldName, in.FieldLabel, in.FieldType)
	field.FieldOptions = in.FieldOptions
	field.IsRequired = in.IsRequired
	field.IsUnique = in.IsUnique
	field.DisplayOrder = in.DisplayOrder
	field.ShowInTable = in.ShowInTable
	field.ShowInForm = in.ShowInForm
	field.DefaultValue = in.DefaultValue
	field.ValidationRule = in.ValidationRule

	if err := field.Validate(ctx); err != nil {
		return nil, err
	}
	if field.ValidationRule != nil && *field.ValidationRule != "" {
		if _, err := CompileRule(*field.ValidationRule); err != nil {
			return nil, apperror.NewValidation("invalid validation rule").
				WithDetail("field", field.FieldName).
				WithDetail("error", err.Error())
		}
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.fields.GetByName(ctx, field.EntityKind, field.FieldName)
		if err != nil && !apperror.IsNotFound(err) {
			return fmt.Errorf("check duplicate field: %w", err)
		}
		if existing != nil {
			return apperror.NewDuplicate("field", "name", field.FieldName).
				WithDetail("entity_kind", string(field.EntityKind))
		}
		if err := s.fields.Create(ctx, field); err != nil {
			return fmt.Errorf("create field %s.%s: %w", field.EntityKind, field.FieldName, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, field.EntityKind)
	return field, nil
}

// GetField retrieves a field definition by ID.
func (s *Service) GetField(ctx context.Context, fieldID id.ID) (*FieldDef, error) {
	return s.fields.GetByID(ctx, fieldID)
}

// ListFields returns the field catalog for an entity kind, ordered by
// display_order then creation order.
func (s *Service) ListFields(ctx context.Context, kind EntityKindSlug, activeOnly bool) ([]*FieldDef, error) {
	if err := s.resolveKind(ctx, kind); err != nil {
		return nil, err
	}
	return s.fields.ListByKind(ctx, kind, activeOnly)
}

// UpdateField applies a partial update. Nil patch members leave the stored
// attribute untouched; field name and type cannot change.
func (s *Service) UpdateField(ctx context.Context, fieldID id.ID, patch FieldPatch) (*FieldDef, error) {
	var field *FieldDef
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		field, err = s.fields.GetByID(ctx, fieldID)
		if err != nil {
			return err
		}
		patch.Apply(field)
		if err := field.Validate(ctx); err != nil {
			return err
		}
		if field.ValidationRule != nil && *field.ValidationRule != "" {
			if _, err := CompileRule(*field.ValidationRule); err != nil {
				return apperror.NewValidation("invalid validation rule").
					WithDetail("field", field.FieldName).
					WithDetail("error", err.Error())
			}
		}
		if err := s.fields.Update(ctx, field); err != nil {
			return fmt.Errorf("update field %s: %w", fieldID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, field.EntityKind)
	return field, nil
}

// DeactivateField hides the field from read projections but keeps its values.
// This is the safe alternative to DeleteField.
func (s *Service) DeactivateField(ctx context.Context, fieldID id.ID) error {
	active := false
	_, err := s.UpdateField(ctx, fieldID, FieldPatch{IsActive: &active})
	return err
}

// DeleteField removes the definition and cascades to all its value cells.
// Destructive: already-written values are dropped with the field.
func (s *Service) DeleteField(ctx context.Context, fieldID id.ID) error {
	var kind EntityKindSlug
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		field, err := s.fields.GetByID(ctx, fieldID)
		if err != nil {
			return err
		}
		kind = field.EntityKind

		var dropped int64
		for _, c := range s.cascaders {
			n, err := c.DeleteByField(ctx, fieldID)
			if err != nil {
				return fmt.Errorf("cascade values for field %s: %w", fieldID, err)
			}
			dropped += n
		}
		if err := s.fields.Delete(ctx, fieldID); err != nil {
			return fmt.Errorf("delete field %s: %w", fieldID, err)
		}
		logger.Info(ctx, "field deleted with value cascade",
			"field_id", fieldID.String(),
			"entity_kind", string(kind),
			"cells_dropped", dropped,
		)
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, kind)
	return nil
}

// --- Entity kinds (generic model) ---

// CreateKind registers a runtime-created entity kind.
func (s *Service) CreateKind(ctx context.Context, kind *EntityKind) error {
	if err := kind.Validate(ctx); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.kinds.GetBySlug(ctx, kind.Slug)
		if err != nil && !apperror.IsNotFound(err) {
			return fmt.Errorf("check duplicate kind: %w", err)
		}
		if existing != nil {
			return apperror.NewDuplicate("entity kind", "slug", kind.Slug)
		}
		if err := s.kinds.Create(ctx, kind); err != nil {
			return fmt.Errorf("create entity kind %s: %w", kind.Slug, err)
		}
		return nil
	})
}

// GetKind retrieves an entity kind by slug.
func (s *Service) GetKind(ctx context.Context, slug string) (*EntityKind, error) {
	return s.kinds.GetBySlug(ctx, slug)
}

// ListKinds returns registered entity kinds ordered by display_order.
func (s *Service) ListKinds(ctx context.Context, activeOnly bool) ([]*EntityKind, error) {
	return s.kinds.List(ctx, activeOnly)
}

// UpdateKind persists kind changes. Deactivation hides the kind from listings
// but keeps its records and values readable.
func (s *Service) UpdateKind(ctx context.Context, kind *EntityKind) error {
	if err := kind.Validate(ctx); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.kinds.Update(ctx, kind)
	})
}

// resolveKind validates that the entity kind exists: either a built-in
// catalog or a registered generic kind.
func (s *Service) resolveKind(ctx context.Context, kind EntityKindSlug) error {
	if IsFixedKind(kind) {
		return nil
	}
	if !IsSafeIdentifier(string(kind)) {
		return apperror.NewInvalidIdentifier(string(kind))
	}
	if _, err := s.kinds.GetBySlug(ctx, string(kind)); err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewValidation("unknown entity kind").
				WithDetail("entity_kind", string(kind))
		}
		return err
	}
	return nil
}

// invalidate drops the cached catalog for kind. Runs after commit so a crash
// mid-write never evicts the cache for data that was never written.
func (s *Service) invalidate(ctx context.Context, kind EntityKindSlug) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, kind)
	}
}
