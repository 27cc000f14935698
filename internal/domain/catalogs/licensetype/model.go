// Package licensetype provides the LicenseType catalog: the kinds of trading
// licenses that can be issued (food stall, alcohol, tobacco, ...).
package licensetype

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"tradereg/internal/core/apperror"
	"tradereg/internal/core/entity"
)

// LicenseType represents one issuable license kind.
type LicenseType struct {
	entity.Base

	// Name is the display name, required
	Name string `db:"name" json:"name"`

	// Description is a free-form explanation
	Description *string `db:"description" json:"description,omitempty"`

	// Fee is the issuance fee
	Fee decimal.Decimal `db:"fee" json:"fee"`

	// ValidityMonths is the default validity period for new licenses
	ValidityMonths int `db:"validity_months" json:"validityMonths"`

	// IsActive gates issuance of new licenses of this type
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewLicenseType creates a new active LicenseType.
func NewLicenseType(name string) *LicenseType {
	return &LicenseType{
		Base:     entity.NewBase(),
		Name:     name,
		IsActive: true,
	}
}

// Validate implements domain.Validatable.
func (t *LicenseType) Validate(_ context.Context) error {
	if strings.TrimSpace(t.Name) == "" {
		return apperror.NewValidation("license type name is required").
			WithDetail("field", "name")
	}
	if t.Fee.IsNegative() {
		return apperror.NewValidation("fee cannot be negative").
			WithDetail("field", "fee")
	}
	if t.ValidityMonths < 0 {
		return apperror.NewValidation("validity months cannot be negative").
			WithDetail("field", "validityMonths")
	}
	return nil
}
