// Package license provides the License catalog: trading licenses issued to
// shops. "Expired" is never stored; it is derived from expire_date at read
// time so a row can never go stale.
package license

import (
	"context"
	"strings"
	"time"

	"tradereg/internal/core/apperror"
	"tradereg/internal/core/entity"
	"tradereg/internal/core/id"
)

// Status is the stored lifecycle state of a license.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusCancelled Status = "cancelled"
)

// DerivedExpired is the read-time status name usable in list filters. It is
// not a stored Status value.
const DerivedExpired = "expired"

// License represents one issued trading license.
type License struct {
	entity.Base

	// LicenseNo is the printed license number, unique
	LicenseNo string `db:"license_no" json:"licenseNo"`

	// ShopID references the licensed shop
	ShopID id.ID `db:"shop_id" json:"shopId"`

	// LicenseTypeID references the issued type
	LicenseTypeID id.ID `db:"license_type_id" json:"licenseTypeId"`

	// IssueDate is the day the license was issued
	IssueDate time.Time `db:"issue_date" json:"issueDate"`

	// ExpireDate is the day the license stops being valid
	ExpireDate time.Time `db:"expire_date" json:"expireDate"`

	// Status is the stored state; expiry is computed, never written here
	Status Status `db:"status" json:"status"`

	// Comment is a free-form note
	Comment *string `db:"comment" json:"comment,omitempty"`
}

// NewLicense creates a new active License.
func NewLicense(licenseNo string, shopID, typeID id.ID, issue, expire time.Time) *License {
	return &License{
		Base:          entity.NewBase(),
		LicenseNo:     licenseNo,
		ShopID:        shopID,
		LicenseTypeID: typeID,
		IssueDate:     issue,
		ExpireDate:    expire,
		Status:        StatusActive,
	}
}

// Validate implements domain.Validatable.
func (l *License) Validate(_ context.Context) error {
	if strings.TrimSpace(l.LicenseNo) == "" {
		return apperror.NewValidation("license number is required").
			WithDetail("field", "licenseNo")
	}
	if id.IsNil(l.ShopID) {
		return apperror.NewValidation("shop is required").
			WithDetail("field", "shopId")
	}
	if id.IsNil(l.LicenseTypeID) {
		return apperror.NewValidation("license type is required").
			WithDetail("field", "licenseTypeId")
	}
	if !isValidStatus(l.Status) {
		return apperror.NewValidation("invalid license status").
			WithDetail("field", "status").
			WithDetail("value", string(l.Status))
	}
	if !l.ExpireDate.IsZero() && !l.IssueDate.IsZero() && l.ExpireDate.Before(l.IssueDate) {
		return apperror.NewValidation("expire date is before issue date").
			WithDetail("field", "expireDate")
	}
	return nil
}

// IsExpired reports whether the license is past its expire date. Cancelled
// licenses are never reported as expired; cancellation wins.
func (l *License) IsExpired(now time.Time) bool {
	if l.Status == StatusCancelled {
		return false
	}
	return l.ExpireDate.Before(now)
}

// EffectiveStatus is the status shown to readers: stored status, overridden
// by the derived expired state.
func (l *License) EffectiveStatus(now time.Time) string {
	if l.IsExpired(now) {
		return DerivedExpired
	}
	return string(l.Status)
}

func isValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusSuspended, StatusCancelled:
		return true
	}
	return false
}
