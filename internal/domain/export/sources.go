package export

import (
	"context"
	"time"

	"tradereg/internal/domain"
	"tradereg/internal/domain/catalogs/license"
	"tradereg/internal/domain/catalogs/licensetype"
	"tradereg/internal/domain/catalogs/shop"
	"tradereg/internal/domain/catalogs/user"
	"tradereg/internal/domain/records"
)

// The catalog sources turn each fixed catalog's list page into base rows for
// the record projector, so catalog exports flow through the same pipeline as
// generic-model exports.

func listFilter(search string, limit, offset int, orderBy string) domain.ListFilter {
	f := domain.DefaultListFilter()
	f.Search = search
	f.Limit = limit
	f.Offset = offset
	f.OrderBy = orderBy
	return f
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// --- Shops ---

// ShopSource exports the shop catalog.
type ShopSource struct {
	svc *shop.Service
}

// NewShopSource creates a shop export source.
func NewShopSource(svc *shop.Service) *ShopSource {
	return &ShopSource{svc: svc}
}

func (s *ShopSource) BaseColumns() []Column {
	return []Column{
		{Key: "name", Label: "Shop name"},
		{Key: "ownerName", Label: "Owner"},
		{Key: "address", Label: "Address"},
		{Key: "phone", Label: "Phone"},
	}
}

func (s *ShopSource) BaseRows(ctx context.Context, search string, limit, offset int) ([]records.BaseRow, error) {
	page, err := s.svc.List(ctx, listFilter(search, limit, offset, "name"))
	if err != nil {
		return nil, err
	}
	rows := make([]records.BaseRow, len(page.Items))
	for i, it := range page.Items {
		rows[i] = records.BaseRow{ID: it.ID, Cols: []records.BaseCol{
			{Key: "name", Value: it.Name},
			{Key: "ownerName", Value: deref(it.OwnerName)},
			{Key: "address", Value: deref(it.Address)},
			{Key: "phone", Value: deref(it.Phone)},
		}}
	}
	return rows, nil
}

// --- Licenses ---

// LicenseSource exports the license catalog. Status carries the effective
// status so an export never shows "active" for a lapsed license.
type LicenseSource struct {
	svc *license.Service
}

// NewLicenseSource creates a license export source.
func NewLicenseSource(svc *license.Service) *LicenseSource {
	return &LicenseSource{svc: svc}
}

func (s *LicenseSource) BaseColumns() []Column {
	return []Column{
		{Key: "licenseNo", Label: "License no."},
		{Key: "issueDate", Label: "Issued"},
		{Key: "expireDate", Label: "Expires"},
		{Key: "status", Label: "Status"},
	}
}

func (s *LicenseSource) BaseRows(ctx context.Context, search string, limit, offset int) ([]records.BaseRow, error) {
	page, err := s.svc.List(ctx, listFilter(search, limit, offset, "license_no"))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	rows := make([]records.BaseRow, len(page.Items))
	for i, it := range page.Items {
		rows[i] = records.BaseRow{ID: it.ID, Cols: []records.BaseCol{
			{Key: "licenseNo", Value: it.LicenseNo},
			{Key: "issueDate", Value: it.IssueDate},
			{Key: "expireDate", Value: it.ExpireDate},
			{Key: "status", Value: it.EffectiveStatus(now)},
		}}
	}
	return rows, nil
}

// --- License types ---

// LicenseTypeSource exports the license type catalog.
type LicenseTypeSource struct {
	svc *licensetype.Service
}

// NewLicenseTypeSource creates a license type export source.
func NewLicenseTypeSource(svc *licensetype.Service) *LicenseTypeSource {
	return &LicenseTypeSource{svc: svc}
}

func (s *LicenseTypeSource) BaseColumns() []Column {
	return []Column{
		{Key: "name", Label: "License type"},
		{Key: "fee", Label: "Fee"},
		{Key: "validityMonths", Label: "Validity (months)"},
	}
}

func (s *LicenseTypeSource) BaseRows(ctx context.Context, search string, limit, offset int) ([]records.BaseRow, error) {
	page, err := s.svc.List(ctx, listFilter(search, limit, offset, "name"))
	if err != nil {
		return nil, err
	}
	rows := make([]records.BaseRow, len(page.Items))
	for i, it := range page.Items {
		rows[i] = records.BaseRow{ID: it.ID, Cols: []records.BaseCol{
			{Key: "name", Value: it.Name},
			{Key: "fee", Value: it.Fee},
			{Key: "validityMonths", Value: it.ValidityMonths},
		}}
	}
	return rows, nil
}

// --- Users ---

// UserSource exports the staff user catalog. Only public attributes export;
// password hashes never reach a report.
type UserSource struct {
	svc *user.Service
}

// NewUserSource creates a user export source.
func NewUserSource(svc *user.Service) *UserSource {
	return &UserSource{svc: svc}
}

func (s *UserSource) BaseColumns() []Column {
	return []Column{
		{Key: "username", Label: "Username"},
		{Key: "fullName", Label: "Full name"},
		{Key: "role", Label: "Role"},
	}
}

func (s *UserSource) BaseRows(ctx context.Context, search string, limit, offset int) ([]records.BaseRow, error) {
	page, err := s.svc.List(ctx, listFilter(search, limit, offset, "username"))
	if err != nil {
		return nil, err
	}
	rows := make([]records.BaseRow, len(page.Items))
	for i, it := range page.Items {
		rows[i] = records.BaseRow{ID: it.ID, Cols: []records.BaseCol{
			{Key: "username", Value: it.Username},
			{Key: "fullName", Value: it.FullName},
			{Key: "role", Value: string(it.Role)},
		}}
	}
	return rows, nil
}
