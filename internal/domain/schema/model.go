// Package schema provides the field-catalog registry: runtime-defined field
// definitions attached to entity kinds, for both the fixed catalogs
// (shops, licenses, users, license types) and runtime-created entity kinds.
package schema

import (
	"context"
	"regexp"
	"time"

	"tradereg/internal/core/apperror"
	"tradereg/internal/core/id"
)

// EntityKindSlug identifies a category of records that can carry dynamic fields.
type EntityKindSlug string

// Fixed entity kinds. Runtime-created kinds extend this set; their slugs are
// validated with the same identifier rule as field names.
const (
	KindShop        EntityKindSlug = "shop"
	KindLicense     EntityKindSlug = "license"
	KindUser        EntityKindSlug = "user"
	KindLicenseType EntityKindSlug = "license_type"
)

// FixedKinds lists the built-in entity kinds backed by their own tables.
var FixedKinds = []EntityKindSlug{KindShop, KindLicense, KindUser, KindLicenseType}

// IsFixedKind reports whether the slug names a built-in catalog.
func IsFixedKind(kind EntityKindSlug) bool {
	switch kind {
	case KindShop, KindLicense, KindUser, KindLicenseType:
		return true
	}
	return false
}

// FieldType is the closed enum of supported field types.
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeNumber   FieldType = "number"
	TypeDate     FieldType = "date"
	TypeBoolean  FieldType = "boolean"
	TypeSelect   FieldType = "select"
	TypeTextarea FieldType = "textarea"
	TypeEmail    FieldType = "email"
	TypePhone    FieldType = "phone"
	TypeURL      FieldType = "url"
)

// IsValidFieldType checks membership in the closed enum.
func IsValidFieldType(t FieldType) bool {
	switch t {
	case TypeText, TypeNumber, TypeDate, TypeBoolean, TypeSelect,
		TypeTextarea, TypeEmail, TypePhone, TypeURL:
		return true
	}
	return false
}

// identifierRE accepts unicode letters, combining marks, digits and
// underscore. Thai names need the marks: vowel and tone signs (ั ่ ้ ื)
// are category Mn, not letters. Everything else, quotes, dashes, spaces,
// SQL metacharacters, is rejected before a name can reach any query builder.
var identifierRE = regexp.MustCompile(`^[\p{L}\p{M}\p{N}_]+$`)

// IsSafeIdentifier reports whether name may be used as a field name.
func IsSafeIdentifier(name string) bool {
	return name != "" && len(name) <= 64 && identifierRE.MatchString(name)
}

// FieldOption is one choice of a select field.
type FieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldDef is one row of the field catalog.
type FieldDef struct {
	ID             id.ID          `db:"id" json:"id"`
	EntityKind     EntityKindSlug `db:"entity_kind" json:"entityKind"`
	FieldName      string         `db:"field_name" json:"fieldName"`
	FieldLabel     string         `db:"field_label" json:"fieldLabel"`
	FieldType      FieldType      `db:"field_type" json:"fieldType"`
	FieldOptions   Options        `db:"field_options" json:"fieldOptions,omitempty"`
	IsRequired     bool           `db:"is_required" json:"isRequired"`
	IsUnique       bool           `db:"is_unique" json:"isUnique"`
	DisplayOrder   int            `db:"display_order" json:"displayOrder"`
	ShowInTable    bool           `db:"show_in_table" json:"showInTable"`
	ShowInForm     bool           `db:"show_in_form" json:"showInForm"`
	IsActive       bool           `db:"is_active" json:"isActive"`
	DefaultValue   *string        `db:"default_value" json:"defaultValue,omitempty"`
	ValidationRule *string        `db:"validation_rule" json:"validationRule,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updatedAt"`
}

// NewFieldDef creates a field definition with generated ID and defaults.
func NewFieldDef(kind EntityKindSlug, name, label string, fieldType FieldType) *FieldDef {
	now := time.Now().UTC()
	return &FieldDef{
		ID:          id.New(),
		EntityKind:  kind,
		FieldName:   name,
		FieldLabel:  label,
		FieldType:   fieldType,
		ShowInTable: true,
		ShowInForm:  true,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate checks field definition invariants.
func (f *FieldDef) Validate(ctx context.Context) error {
	if !IsSafeIdentifier(f.FieldName) {
		return apperror.NewInvalidIdentifier(f.FieldName)
	}
	if !IsValidFieldType(f.FieldType) {
		return apperror.NewInvalidFieldType(string(f.FieldType))
	}
	if f.FieldLabel == "" {
		return apperror.NewValidation("field label is required").
			WithDetail("field", "fieldLabel")
	}
	if f.FieldType == TypeSelect && len(f.FieldOptions) == 0 {
		return apperror.NewValidation("select fields require at least one option").
			WithDetail("field", f.FieldName)
	}
	for _, opt := range f.FieldOptions {
		if opt.Value == "" {
			return apperror.NewValidation("select option value must not be empty").
				WithDetail("field", f.FieldName)
		}
	}
	return nil
}

// OptionLabel resolves a stored select value to its display label.
// Unknown values render as themselves.
func (f *FieldDef) OptionLabel(value string) string {
	for _, opt := range f.FieldOptions {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}

// FieldPatch carries a partial update. Nil pointers mean "leave unchanged";
// a pointer to the zero value is an explicit clear. This keeps
// "clear label to empty" distinguishable from "don't touch label".
type FieldPatch struct {
	FieldLabel     *string    `json:"fieldLabel"`
	FieldOptions   *Options   `json:"fieldOptions"`
	IsRequired     *bool      `json:"isRequired"`
	IsUnique       *bool      `json:"isUnique"`
	DisplayOrder   *int       `json:"displayOrder"`
	ShowInTable    *bool      `json:"showInTable"`
	ShowInForm     *bool      `json:"showInForm"`
	IsActive       *bool      `json:"isActive"`
	DefaultValue   *string    `json:"defaultValue"`
	ValidationRule *string    `json:"validationRule"`
}

// Apply merges the patch into f. Field name and type are immutable after
// creation (type changes would strand stored values).
func (p FieldPatch) Apply(f *FieldDef) {
	if p.FieldLabel != nil {
		f.FieldLabel = *p.FieldLabel
	}
	if p.FieldOptions != nil {
		f.FieldOptions = *p.FieldOptions
	}
	if p.IsRequired != nil {
		f.IsRequired = *p.IsRequired
	}
	if p.IsUnique != nil {
		f.IsUnique = *p.IsUnique
	}
	if p.DisplayOrder != nil {
		f.DisplayOrder = *p.DisplayOrder
	}
	if p.ShowInTable != nil {
		f.ShowInTable = *p.ShowInTable
	}
	if p.ShowInForm != nil {
		f.ShowInForm = *p.ShowInForm
	}
	if p.IsActive != nil {
		f.IsActive = *p.IsActive
	}
	if p.DefaultValue != nil {
		f.DefaultValue = p.DefaultValue
	}
	if p.ValidationRule != nil {
		f.ValidationRule = p.ValidationRule
	}
	f.UpdatedAt = time.Now().UTC()
}

// EntityKind describes a runtime-created record category (generic model).
type EntityKind struct {
	ID           id.ID     `db:"id" json:"id"`
	Slug         string    `db:"slug" json:"slug"`
	Label        string    `db:"label" json:"label"`
	Icon         string    `db:"icon" json:"icon,omitempty"`
	Description  string    `db:"description" json:"description,omitempty"`
	DisplayOrder int       `db:"display_order" json:"displayOrder"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// NewEntityKind creates an entity kind with generated ID.
func NewEntityKind(slug, label string) *EntityKind {
	now := time.Now().UTC()
	return &EntityKind{
		ID:        id.New(),
		Slug:      slug,
		Label:     label,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks entity kind invariants. Slugs share the identifier rule so
// they stay URL-safe and never leak unsafe text into table discriminators.
func (k *EntityKind) Validate(ctx context.Context) error {
	if !IsSafeIdentifier(k.Slug) {
		return apperror.NewInvalidIdentifier(k.Slug)
	}
	if IsFixedKind(EntityKindSlug(k.Slug)) {
		return apperror.NewConflict("slug collides with a built-in entity kind").
			WithDetail("slug", k.Slug)
	}
	if k.Label == "" {
		return apperror.NewValidation("label is required").WithDetail("field", "label")
	}
	return nil
}
