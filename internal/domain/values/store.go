package values

import (
	"context"

	"tradereg/internal/core/id"
	"tradereg/internal/domain/schema"
)

// Store persists and retrieves value cells. Two implementations exist:
// a single-text-column adapter over custom_field_values (legacy model) and a
// four-typed-column adapter over entity_values (generic model). Callers
// depend only on this interface; the adapters differ in one documented
// policy: what an empty value on write means.
//
//   - legacy adapter: empty value is stored as an empty string cell
//   - typed adapter: empty value deletes the cell ("clear" semantics)
type Store interface {
	// Put upserts one cell. The (record, field) pair is unique, so repeated
	// puts with the same value leave exactly one row (last writer wins).
	// A zero Value triggers the adapter's empty-value policy.
	Put(ctx context.Context, field *schema.FieldDef, recordID id.ID, value Value) error

	// GetValues fetches cells for a batch of records in a single query
	// joined with their field definitions, values already coerced to the
	// declared types. Never one query per record.
	GetValues(ctx context.Context, kind schema.EntityKindSlug, recordIDs []id.ID) (map[id.ID]map[string]Value, error)

	// DeleteByField removes all cells of one field (field-delete cascade).
	DeleteByField(ctx context.Context, fieldID id.ID) (int64, error)

	// DeleteByRecord removes all cells of one record (record-delete cascade).
	DeleteByRecord(ctx context.Context, kind schema.EntityKindSlug, recordID id.ID) (int64, error)

	// FindRecordByValue returns the record currently holding value for the
	// field, if any. Used to enforce is_unique before a write.
	FindRecordByValue(ctx context.Context, field *schema.FieldDef, value Value) (id.ID, bool, error)

	// SweepOrphans deletes cells whose record no longer exists. Orphans are
	// a data-integrity bug; every repair is logged by the caller.
	SweepOrphans(ctx context.Context) (int64, error)
}

// CellError reports one failed cell in a batch write.
type CellError struct {
	FieldName string `json:"fieldName"`
	Err       error  `json:"-"`
	Message   string `json:"message"`
}

// WriteResult summarizes a per-cell batch write.
type WriteResult struct {
	Applied []string    `json:"applied"`
	Skipped []string    `json:"skipped,omitempty"`
	Failed  []CellError `json:"failed,omitempty"`
}

// PartialFailure reports whether some cells failed while others applied.
func (r WriteResult) PartialFailure() bool {
	return len(r.Failed) > 0 && len(r.Applied) > 0
}
