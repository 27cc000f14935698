// Package shop provides the Shop catalog: registered market stalls and
// storefronts, each extensible with dynamic fields under the "shop" kind.
package shop

import (
	"context"
	"strings"

	"tradereg/internal/core/apperror"
	"tradereg/internal/core/entity"
)

// Shop represents a registered trading premise.
type Shop struct {
	entity.Base

	// Name is the trading name, required
	Name string `db:"name" json:"name"`

	// OwnerName is the registered owner's full name
	OwnerName *string `db:"owner_name" json:"ownerName,omitempty"`

	// Address is the premise address
	Address *string `db:"address" json:"address,omitempty"`

	// Phone is the primary contact phone
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Comment is a free-form note
	Comment *string `db:"comment" json:"comment,omitempty"`
}

// NewShop creates a new Shop with required fields.
func NewShop(name string) *Shop {
	return &Shop{
		Base: entity.NewBase(),
		Name: name,
	}
}

// Validate implements domain.Validatable.
func (s *Shop) Validate(_ context.Context) error {
	if strings.TrimSpace(s.Name) == "" {
		return apperror.NewValidation("shop name is required").
			WithDetail("field", "name")
	}
	return nil
}
