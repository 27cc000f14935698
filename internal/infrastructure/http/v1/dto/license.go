package dto

import (
	"time"

	"tradereg/internal/core/apperror"
	"tradereg/internal/core/id"
	"tradereg/internal/domain/catalogs/license"
)

// --- Request DTOs ---

// CreateLicenseRequest is the request body for issuing a license.
type CreateLicenseRequest struct {
	LicenseNo     string         `json:"licenseNo" binding:"required"`
	ShopID        string         `json:"shopId" binding:"required"`
	LicenseTypeID string         `json:"licenseTypeId" binding:"required"`
	IssueDate     time.Time      `json:"issueDate" binding:"required"`
	ExpireDate    time.Time      `json:"expireDate" binding:"required"`
	Comment       *string        `json:"comment"`
	Custom        map[string]any `json:"custom"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateLicenseRequest) ToEntity() (*license.License, error) {
	shopID, err := id.Parse(r.ShopID)
	if err != nil {
		return nil, apperror.NewValidation("invalid shop id").WithDetail("field", "shopId")
	}
	typeID, err := id.Parse(r.LicenseTypeID)
	if err != nil {
		return nil, apperror.NewValidation("invalid license type id").WithDetail("field", "licenseTypeId")
	}
	l := license.NewLicense(r.LicenseNo, shopID, typeID, r.IssueDate.UTC(), r.ExpireDate.UTC())
	l.Comment = r.Comment
	return l, nil
}

// UpdateLicenseRequest is the request body for updating a license.
type UpdateLicenseRequest struct {
	LicenseNo  *string         `json:"licenseNo"`
	IssueDate  *time.Time      `json:"issueDate"`
	ExpireDate *time.Time      `json:"expireDate"`
	Status     *license.Status `json:"status"`
	Comment    *string         `json:"comment"`
	Custom     map[string]any  `json:"custom"`
}

// ApplyTo merges the update onto an existing entity.
func (r *UpdateLicenseRequest) ApplyTo(l *license.License) {
	if r.LicenseNo != nil {
		l.LicenseNo = *r.LicenseNo
	}
	if r.IssueDate != nil {
		l.IssueDate = r.IssueDate.UTC()
	}
	if r.ExpireDate != nil {
		l.ExpireDate = r.ExpireDate.UTC()
	}
	if r.Status != nil {
		l.Status = *r.Status
	}
	if r.Comment != nil {
		l.Comment = r.Comment
	}
	l.Touch()
}

// RenewLicenseRequest extends a license by a validity period.
type RenewLicenseRequest struct {
	Months int `json:"months" binding:"required,min=1"`
}

// --- Response DTOs ---

// LicenseResponse is the read view of a license. Status carries the
// effective status: the stored one, overridden by derived expiry.
type LicenseResponse struct {
	ID            string    `json:"id"`
	LicenseNo     string    `json:"licenseNo"`
	ShopID        string    `json:"shopId"`
	LicenseTypeID string    `json:"licenseTypeId"`
	IssueDate     time.Time `json:"issueDate"`
	ExpireDate    time.Time `json:"expireDate"`
	Status        string    `json:"status"`
	StoredStatus  string    `json:"storedStatus"`
	Comment       *string   `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Custom        any       `json:"custom,omitempty"`
}

// FromLicense converts a license entity to its response DTO.
func FromLicense(l *license.License) LicenseResponse {
	now := time.Now().UTC()
	return LicenseResponse{
		ID:            l.ID.String(),
		LicenseNo:     l.LicenseNo,
		ShopID:        l.ShopID.String(),
		LicenseTypeID: l.LicenseTypeID.String(),
		IssueDate:     l.IssueDate,
		ExpireDate:    l.ExpireDate,
		Status:        l.EffectiveStatus(now),
		StoredStatus:  string(l.Status),
		Comment:       l.Comment,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}
