package records

import (
	"context"
	"fmt"
	"time"

	"tradereg/internal/core/apperror"
	"tradereg/internal/core/id"
	"tradereg/internal/core/tx"
	"tradereg/internal/domain/schema"
	"tradereg/internal/domain/values"
	"tradereg/pkg/logger"
)

// Service provides CRUD over generic-model records: a header row plus its
// value cells, read back as flat projections.
type Service struct {
	repo      Repository
	values    *values.Service
	catalog   values.CatalogProvider
	registry  *schema.Service
	txManager tx.Manager
}

// NewService creates a record service.
func NewService(repo Repository, valueSvc *values.Service, catalog values.CatalogProvider, registry *schema.Service, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		values:    valueSvc,
		catalog:   catalog,
		registry:  registry,
		txManager: txManager,
	}
}

// Create inserts a header and writes the initial payload. Header creation is
// atomic; value cells follow the per-cell batch policy and report partial
// failures without dropping the record.
func (s *Service) Create(ctx context.Context, kindSlug string, payload map[string]any) (*Header, values.WriteResult, error) {
	kind, err := s.activeKind(ctx, kindSlug)
	if err != nil {
		return nil, values.WriteResult{}, err
	}

	header := NewHeader(schema.EntityKindSlug(kind.Slug))
	if err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, header)
	}); err != nil {
		return nil, values.WriteResult{}, fmt.Errorf("create record header: %w", err)
	}

	result, err := s.values.PutValues(ctx, header.EntityKind, header.ID, payload, false)
	if err != nil {
		return nil, values.WriteResult{}, err
	}
	return header, result, nil
}

// Update writes a value payload against an existing record and bumps its
// updated_at. Unknown field names are ignored per the batch-write policy.
func (s *Service) Update(ctx context.Context, kindSlug string, recordID id.ID, payload map[string]any) (values.WriteResult, error) {
	kind := schema.EntityKindSlug(kindSlug)
	if _, err := s.repo.GetByID(ctx, kind, recordID); err != nil {
		return values.WriteResult{}, err
	}

	result, err := s.values.PutValues(ctx, kind, recordID, payload, false)
	if err != nil {
		return result, err
	}
	if len(result.Applied) > 0 {
		if err := s.repo.Touch(ctx, recordID, time.Now().UTC()); err != nil {
			logger.Warn(ctx, "record touch failed", "record_id", recordID.String(), "error", err)
		}
	}
	return result, nil
}

// Get returns one record as a flat projection.
func (s *Service) Get(ctx context.Context, kindSlug string, recordID id.ID) (*Record, error) {
	kind := schema.EntityKindSlug(kindSlug)
	header, err := s.repo.GetByID(ctx, kind, recordID)
	if err != nil {
		return nil, err
	}

	fields, err := s.catalog.Fields(ctx, kind, true)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog for %s: %w", kind, err)
	}
	cells, err := s.values.GetValues(ctx, kind, []id.ID{recordID})
	if err != nil {
		return nil, err
	}

	projected := Project([]BaseRow{headerRow(header)}, fields, cells)
	return projected[0], nil
}

// ListResult is a page of projected records.
type ListResult struct {
	Items      []*Record `json:"items"`
	TotalCount int64     `json:"totalCount"`
	Limit      int       `json:"limit"`
	Offset     int       `json:"offset"`
}

// List returns a page of projected records; search matches any value cell.
func (s *Service) List(ctx context.Context, kindSlug, search string, limit, offset int) (ListResult, error) {
	kind := schema.EntityKindSlug(kindSlug)
	if limit <= 0 {
		limit = 50
	}

	headers, total, err := s.repo.List(ctx, kind, search, limit, offset)
	if err != nil {
		return ListResult{}, err
	}

	fields, err := s.catalog.Fields(ctx, kind, true)
	if err != nil {
		return ListResult{}, fmt.Errorf("resolve catalog for %s: %w", kind, err)
	}

	ids := make([]id.ID, len(headers))
	rows := make([]BaseRow, len(headers))
	for i, h := range headers {
		ids[i] = h.ID
		rows[i] = headerRow(h)
	}

	cells, err := s.values.GetValues(ctx, kind, ids)
	if err != nil {
		return ListResult{}, err
	}

	return ListResult{
		Items:      Project(rows, fields, cells),
		TotalCount: total,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

// Delete removes the record and all its cells in one transaction.
func (s *Service) Delete(ctx context.Context, kindSlug string, recordID id.ID) error {
	kind := schema.EntityKindSlug(kindSlug)
	if _, err := s.repo.GetByID(ctx, kind, recordID); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		dropped, err := s.values.DeleteByRecord(ctx, kind, recordID)
		if err != nil {
			return fmt.Errorf("cascade cells for record %s: %w", recordID, err)
		}
		if err := s.repo.Delete(ctx, recordID); err != nil {
			return err
		}
		logger.Info(ctx, "record deleted",
			"entity_kind", string(kind),
			"record_id", recordID.String(),
			"cells_dropped", dropped,
		)
		return nil
	})
}

func (s *Service) activeKind(ctx context.Context, slug string) (*schema.EntityKind, error) {
	kind, err := s.registry.GetKind(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !kind.IsActive {
		return nil, apperror.NewValidation("entity kind is deactivated").
			WithDetail("entity_kind", slug)
	}
	return kind, nil
}

func headerRow(h *Header) BaseRow {
	return BaseRow{
		ID: h.ID,
		Cols: []BaseCol{
			{Key: "id", Value: h.ID.String()},
			{Key: "createdAt", Value: h.CreatedAt.UTC().Format(time.RFC3339)},
			{Key: "updatedAt", Value: h.UpdatedAt.UTC().Format(time.RFC3339)},
		},
	}
}
