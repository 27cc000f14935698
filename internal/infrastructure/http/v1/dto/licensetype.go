package dto

import (
	"github.com/shopspring/decimal"

	"tradereg/internal/domain/catalogs/licensetype"
)

// --- Request DTOs ---

// CreateLicenseTypeRequest is the request body for creating a license type.
type CreateLicenseTypeRequest struct {
	Name           string           `json:"name" binding:"required"`
	Description    *string          `json:"description"`
	Fee            *decimal.Decimal `json:"fee"`
	ValidityMonths int              `json:"validityMonths"`
	Custom         map[string]any   `json:"custom"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateLicenseTypeRequest) ToEntity() *licensetype.LicenseType {
	t := licensetype.NewLicenseType(r.Name)
	t.Description = r.Description
	if r.Fee != nil {
		t.Fee = *r.Fee
	}
	t.ValidityMonths = r.ValidityMonths
	return t
}

// UpdateLicenseTypeRequest is the request body for updating a license type.
type UpdateLicenseTypeRequest struct {
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	Fee            *decimal.Decimal `json:"fee"`
	ValidityMonths *int             `json:"validityMonths"`
	IsActive       *bool            `json:"isActive"`
	Custom         map[string]any   `json:"custom"`
}

// ApplyTo merges the update onto an existing entity.
func (r *UpdateLicenseTypeRequest) ApplyTo(t *licensetype.LicenseType) {
	if r.Name != nil {
		t.Name = *r.Name
	}
	if r.Description != nil {
		t.Description = r.Description
	}
	if r.Fee != nil {
		t.Fee = *r.Fee
	}
	if r.ValidityMonths != nil {
		t.ValidityMonths = *r.ValidityMonths
	}
	if r.IsActive != nil {
		t.IsActive = *r.IsActive
	}
	t.Touch()
}

// --- Response DTOs ---

// LicenseTypeResponse is the read view of a license type.
type LicenseTypeResponse struct {
	*licensetype.LicenseType
	Custom any `json:"custom,omitempty"`
}

// FromLicenseType converts a license type entity to its response DTO.
func FromLicenseType(t *licensetype.LicenseType, custom any) LicenseTypeResponse {
	return LicenseTypeResponse{LicenseType: t, Custom: custom}
}
