package schema

import (
	"context"

	"tradereg/internal/core/id"
)

// FieldRepository persists field definitions for both catalog models.
type FieldRepository interface {
	// Create inserts a new field definition.
	Create(ctx context.Context, field *FieldDef) error

	// GetByID retrieves a field definition by ID.
	GetByID(ctx context.Context, fieldID id.ID) (*FieldDef, error)

	// GetByName retrieves a field definition by (entity kind, field name).
	GetByName(ctx context.Context, kind EntityKindSlug, name string) (*FieldDef, error)

	// ListByKind returns field definitions ordered by display_order with the
	// time-ordered ID as a stable tie-break. List, export and PDF renderings
	// all consume this order.
	ListByKind(ctx context.Context, kind EntityKindSlug, activeOnly bool) ([]*FieldDef, error)

	// Update persists a full field definition (after patch application).
	Update(ctx context.Context, field *FieldDef) error

	// Delete removes the definition. Value-cell cascade is handled by the
	// caller inside the same transaction.
	Delete(ctx context.Context, fieldID id.ID) error
}

// KindRepository persists runtime-created entity kinds.
type KindRepository interface {
	Create(ctx context.Context, kind *EntityKind) error
	GetBySlug(ctx context.Context, slug string) (*EntityKind, error)
	List(ctx context.Context, activeOnly bool) ([]*EntityKind, error)
	Update(ctx context.Context, kind *EntityKind) error
}

// CatalogInvalidator is the cache hook the registry calls after a committed
// field mutation. Implemented by the process-wide catalog cache.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context, kind EntityKindSlug)
}

// ValueCascader deletes value cells when their field definition is removed.
// Implemented by the typed value stores; called inside the field-delete
// transaction so the definition and its cells go together or not at all.
type ValueCascader interface {
	DeleteByField(ctx context.Context, fieldID id.ID) (int64, error)
}
