// Package entity provides base types for all domain entities.
package entity

import (
	"time"

	"tradereg/internal/core/id"
)

// Base contains the common fields of every catalog entity.
type Base struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBase creates a Base with a generated ID and current timestamps.
func NewBase() Base {
	now := time.Now().UTC()
	return Base{
		ID:        id.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetID returns the primary key.
func (b *Base) GetID() id.ID {
	return b.ID
}

// Touch updates the UpdatedAt timestamp.
func (b *Base) Touch() {
	b.UpdatedAt = time.Now().UTC()
}
