package values

import (
	"context"
	"fmt"

	"tradereg/internal/core/apperror"
	"tradereg/internal/core/id"
	"tradereg/internal/core/tx"
	"tradereg/internal/domain/schema"
	"tradereg/pkg/logger"
)

// CatalogProvider serves the active field catalog for an entity kind.
// Implemented by the process-wide catalog cache; falls back to the store on
// cache timeout.
type CatalogProvider interface {
	Fields(ctx context.Context, kind schema.EntityKindSlug, activeOnly bool) ([]*schema.FieldDef, error)
}

// Service coordinates value writes: catalog resolution happens-before the
// upsert, which happens-before any cache work. It owns the per-cell failure
// policy for batch writes.
type Service struct {
	store     Store
	catalog   CatalogProvider
	txManager tx.Manager
}

// NewService creates a value service over one store adapter.
func NewService(store Store, catalog CatalogProvider, txManager tx.Manager) *Service {
	return &Service{store: store, catalog: catalog, txManager: txManager}
}

// PutValue writes a single cell by field ID semantics: the field must exist
// in the active catalog of the kind.
func (s *Service) PutValue(ctx context.Context, kind schema.EntityKindSlug, recordID id.ID, fieldName string, raw any) error {
	fields, err := s.catalog.Fields(ctx, kind, true)
	if err != nil {
		return fmt.Errorf("resolve catalog for %s: %w", kind, err)
	}
	field := fieldByName(fields, fieldName)
	if field == nil {
		return apperror.NewNotFound("field", fieldName).WithDetail("entity_kind", string(kind))
	}
	return s.putCell(ctx, field, recordID, raw)
}

// PutValues writes a name→value mapping for one record. Field names absent
// from the active catalog are ignored, not errors (partial client payloads
// are the norm). Coercion failures are reported per cell; the remaining
// cells still apply unless atomic is set, in which case the first failure
// rolls back everything.
func (s *Service) PutValues(ctx context.Context, kind schema.EntityKindSlug, recordID id.ID, payload map[string]any, atomic bool) (WriteResult, error) {
	fields, err := s.catalog.Fields(ctx, kind, true)
	if err != nil {
		return WriteResult{}, fmt.Errorf("resolve catalog for %s: %w", kind, err)
	}

	known := make(map[string]*schema.FieldDef, len(fields))
	for _, f := range fields {
		known[f.FieldName] = f
	}

	var result WriteResult
	for name := range payload {
		if _, ok := known[name]; !ok {
			result.Skipped = append(result.Skipped, name)
		}
	}

	write := func(ctx context.Context) error {
		// Iterate in catalog order for deterministic write sequence.
		for _, field := range fields {
			raw, present := payload[field.FieldName]
			if !present {
				continue
			}
			if err := s.putCell(ctx, field, recordID, raw); err != nil {
				if atomic {
					return err
				}
				result.Failed = append(result.Failed, CellError{
					FieldName: field.FieldName,
					Err:       err,
					Message:   err.Error(),
				})
				logger.Warn(ctx, "value cell write failed",
					"entity_kind", string(kind),
					"record_id", recordID.String(),
					"field", field.FieldName,
					"error", err,
				)
				continue
			}
			result.Applied = append(result.Applied, field.FieldName)
		}
		return nil
	}

	if atomic {
		if err := s.txManager.RunInTransaction(ctx, write); err != nil {
			return WriteResult{}, err
		}
		return result, nil
	}
	if err := write(ctx); err != nil {
		return result, err
	}
	return result, nil
}

// putCell coerces, validates and upserts one cell.
func (s *Service) putCell(ctx context.Context, field *schema.FieldDef, recordID id.ID, raw any) error {
	value, err := Coerce(field, raw)
	if err != nil {
		return err
	}

	if value.IsZero() {
		if field.IsRequired {
			return apperror.NewValidation("required field cannot be cleared").
				WithDetail("field", field.FieldName)
		}
		// Empty value: the adapter's policy decides delete-vs-empty-string.
		return s.store.Put(ctx, field, recordID, value)
	}

	if field.ValidationRule != nil && *field.ValidationRule != "" {
		rule, err := schema.CompileRule(*field.ValidationRule)
		if err != nil {
			// Rules are validated at definition time; a broken stored rule is
			// an integrity problem, not the client's fault.
			return apperror.NewIntegrity("stored validation rule does not compile").
				WithDetail("field", field.FieldName).WithCause(err)
		}
		ok, err := rule.Eval(value.RuleInput())
		if err != nil {
			return apperror.NewValidation("validation rule evaluation failed").
				WithDetail("field", field.FieldName).WithCause(err)
		}
		if !ok {
			return apperror.NewValidation("value rejected by validation rule").
				WithDetail("field", field.FieldName).
				WithDetail("rule", rule.Source())
		}
	}

	if field.FieldType == schema.TypeSelect && !selectAllows(field, value.TextValue()) {
		return apperror.NewValidation("value is not one of the field options").
			WithDetail("field", field.FieldName).
			WithDetail("value", value.TextValue())
	}

	if field.IsUnique {
		holder, found, err := s.store.FindRecordByValue(ctx, field, value)
		if err != nil {
			return fmt.Errorf("unique check for %s: %w", field.FieldName, err)
		}
		if found && holder != recordID {
			return apperror.NewDuplicate("value", field.FieldName, value.String())
		}
	}

	return s.store.Put(ctx, field, recordID, value)
}

// GetValues returns coerced values for a batch of records.
func (s *Service) GetValues(ctx context.Context, kind schema.EntityKindSlug, recordIDs []id.ID) (map[id.ID]map[string]Value, error) {
	if len(recordIDs) == 0 {
		return map[id.ID]map[string]Value{}, nil
	}
	return s.store.GetValues(ctx, kind, recordIDs)
}

// GetRecordValues returns values for a single record.
func (s *Service) GetRecordValues(ctx context.Context, kind schema.EntityKindSlug, recordID id.ID) (map[string]Value, error) {
	byRecord, err := s.store.GetValues(ctx, kind, []id.ID{recordID})
	if err != nil {
		return nil, err
	}
	vals := byRecord[recordID]
	if vals == nil {
		vals = map[string]Value{}
	}
	return vals, nil
}

// DeleteByRecord cascades cell deletion when a record is removed.
func (s *Service) DeleteByRecord(ctx context.Context, kind schema.EntityKindSlug, recordID id.ID) (int64, error) {
	return s.store.DeleteByRecord(ctx, kind, recordID)
}

// Sweep removes orphaned cells and logs each repair: orphans mean a record
// was deleted through a path that skipped the cascade.
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	n, err := s.store.SweepOrphans(ctx)
	if err != nil {
		return 0, fmt.Errorf("sweep orphan cells: %w", err)
	}
	if n > 0 {
		logger.Error(ctx, "integrity repair: orphaned value cells removed",
			"cells", n,
		)
	}
	return n, nil
}

func fieldByName(fields []*schema.FieldDef, name string) *schema.FieldDef {
	for _, f := range fields {
		if f.FieldName == name {
			return f
		}
	}
	return nil
}

func selectAllows(field *schema.FieldDef, value string) bool {
	for _, opt := range field.FieldOptions {
		if opt.Value == value {
			return true
		}
	}
	return false
}
