// Package records provides record headers for the generic model and the
// projector that merges base columns with dynamic field values.
package records

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"tradereg/internal/core/id"
	"tradereg/internal/domain/schema"
)

// Header anchors a set of value cells in the generic model. It carries no
// business columns; all business data lives in the cells.
type Header struct {
	ID         id.ID                 `db:"id" json:"id"`
	EntityKind schema.EntityKindSlug `db:"entity_kind" json:"entityKind"`
	CreatedAt  time.Time             `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time             `db:"updated_at" json:"updatedAt"`
}

// NewHeader creates a record header with generated ID.
func NewHeader(kind schema.EntityKindSlug) *Header {
	now := time.Now().UTC()
	return &Header{
		ID:         id.New(),
		EntityKind: kind,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Repository persists record headers.
type Repository interface {
	Create(ctx context.Context, h *Header) error
	GetByID(ctx context.Context, kind schema.EntityKindSlug, recordID id.ID) (*Header, error)
	Touch(ctx context.Context, recordID id.ID, at time.Time) error

	// List returns headers for a kind. When search is non-empty only records
	// owning at least one matching value cell are returned; the predicate is
	// built by the query composer, never by string concatenation.
	List(ctx context.Context, kind schema.EntityKindSlug, search string, limit, offset int) ([]*Header, int64, error)

	// Delete removes the header. Cell cascade runs in the same transaction.
	Delete(ctx context.Context, recordID id.ID) error
}

// Record is a flat projection: base columns first, then dynamic fields in
// catalog order. Key order is preserved through JSON marshalling so the same
// input always produces byte-identical output.
type Record struct {
	keys []string
	vals map[string]any
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{vals: make(map[string]any)}
}

// Set stores a value under key. First insertion fixes the key's position;
// later writes overwrite in place, which also keeps a dynamic field that
// shadows a base column from producing a duplicate key.
func (r *Record) Set(key string, value any) {
	if _, ok := r.vals[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.vals[key] = value
}

// Get returns the value for key.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.vals[key]
	return v, ok
}

// Keys returns the key order.
func (r *Record) Keys() []string {
	return r.keys
}

// Len returns the number of keys.
func (r *Record) Len() int {
	return len(r.keys)
}

// MarshalJSON emits keys in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
