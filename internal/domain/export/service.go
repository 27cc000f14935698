package export

import (
	"context"
	"fmt"

	"tradereg/internal/core/id"
	"tradereg/internal/domain/records"
	"tradereg/internal/domain/schema"
	"tradereg/internal/domain/values"
)

// exportLimit caps one export page when the caller does not say otherwise.
const exportLimit = 1000

// Source supplies the fixed part of an exportable entity: its base columns
// and already-filtered base rows. The four catalogs each register one; kinds
// without a source fall through to the generic record model.
type Source interface {
	BaseColumns() []Column
	BaseRows(ctx context.Context, search string, limit, offset int) ([]records.BaseRow, error)
}

// TableQuery selects what to export.
type TableQuery struct {
	Kind      string
	FieldKeys []string
	Search    string
	Limit     int
	Offset    int
}

// Service builds export tables for any entity kind by running the record
// projection and the table build over either a catalog source or the generic
// record store.
type Service struct {
	catalog values.CatalogProvider
	values  *values.Service
	records *records.Service
	sources map[schema.EntityKindSlug]Source
}

// NewService creates the export service.
func NewService(catalog values.CatalogProvider, valueSvc *values.Service, recordSvc *records.Service) *Service {
	return &Service{
		catalog: catalog,
		values:  valueSvc,
		records: recordSvc,
		sources: make(map[schema.EntityKindSlug]Source),
	}
}

// RegisterSource binds a catalog source to its entity kind.
func (s *Service) RegisterSource(kind schema.EntityKindSlug, src Source) {
	s.sources[kind] = src
}

// BuildTable produces the export table for the query.
func (s *Service) BuildTable(ctx context.Context, q TableQuery) (Table, error) {
	kind := schema.EntityKindSlug(q.Kind)
	if q.Limit <= 0 {
		q.Limit = exportLimit
	}

	fields, err := s.catalog.Fields(ctx, kind, true)
	if err != nil {
		return Table{}, fmt.Errorf("resolve catalog for %s: %w", kind, err)
	}

	src, ok := s.sources[kind]
	if !ok {
		return s.buildGeneric(ctx, q, fields)
	}

	rows, err := src.BaseRows(ctx, q.Search, q.Limit, q.Offset)
	if err != nil {
		return Table{}, err
	}

	ids := make([]id.ID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	cells, err := s.values.GetValues(ctx, kind, ids)
	if err != nil {
		return Table{}, err
	}

	return Build(BuildInput{
		BaseColumns: src.BaseColumns(),
		Fields:      fields,
		FieldKeys:   q.FieldKeys,
		Records:     records.Project(rows, fields, cells),
	}), nil
}

// genericBaseColumns are the header columns of the generic record model.
var genericBaseColumns = []Column{
	{Key: "id", Label: "ID"},
	{Key: "createdAt", Label: "Created"},
	{Key: "updatedAt", Label: "Updated"},
}

func (s *Service) buildGeneric(ctx context.Context, q TableQuery, fields []*schema.FieldDef) (Table, error) {
	page, err := s.records.List(ctx, q.Kind, q.Search, q.Limit, q.Offset)
	if err != nil {
		return Table{}, err
	}
	return Build(BuildInput{
		BaseColumns: genericBaseColumns,
		Fields:      fields,
		FieldKeys:   q.FieldKeys,
		Records:     page.Items,
	}), nil
}
