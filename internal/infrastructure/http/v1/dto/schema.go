package dto

import (
	"tradereg/internal/domain/schema"
)

// --- Field definitions ---

// DefineFieldRequest is the request body for adding a field to a catalog.
type DefineFieldRequest struct {
	FieldName      string           `json:"fieldName" binding:"required"`
	FieldLabel     string           `json:"fieldLabel" binding:"required"`
	FieldType      schema.FieldType `json:"fieldType" binding:"required"`
	FieldOptions   schema.Options   `json:"fieldOptions"`
	IsRequired     bool             `json:"isRequired"`
	IsUnique       bool             `json:"isUnique"`
	DisplayOrder   int              `json:"displayOrder"`
	ShowInTable    *bool            `json:"showInTable"`
	ShowInForm     *bool            `json:"showInForm"`
	DefaultValue   *string          `json:"defaultValue"`
	ValidationRule *string          `json:"validationRule"`
}

// ToInput converts the request to the registry input for the given kind.
// Visibility flags default to true when omitted.
func (r *DefineFieldRequest) ToInput(kind schema.EntityKindSlug) schema.DefineFieldInput {
	in := schema.DefineFieldInput{
		EntityKind:     kind,
		FieldName:      r.FieldName,
		FieldLabel:     r.FieldLabel,
		FieldType:      r.FieldType,
		FieldOptions:   r.FieldOptions,
		IsRequired:     r.IsRequired,
		IsUnique:       r.IsUnique,
		DisplayOrder:   r.DisplayOrder,
		ShowInTable:    true,
		ShowInForm:     true,
		DefaultValue:   r.DefaultValue,
		ValidationRule: r.ValidationRule,
	}
	if r.ShowInTable != nil {
		in.ShowInTable = *r.ShowInTable
	}
	if r.ShowInForm != nil {
		in.ShowInForm = *r.ShowInForm
	}
	return in
}

// --- Entity kinds ---

// CreateKindRequest registers a runtime entity kind.
type CreateKindRequest struct {
	Slug         string `json:"slug" binding:"required"`
	Label        string `json:"label" binding:"required"`
	Icon         string `json:"icon"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"displayOrder"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateKindRequest) ToEntity() *schema.EntityKind {
	k := schema.NewEntityKind(r.Slug, r.Label)
	k.Icon = r.Icon
	k.Description = r.Description
	k.DisplayOrder = r.DisplayOrder
	return k
}

// UpdateKindRequest is the request body for updating an entity kind.
type UpdateKindRequest struct {
	Label        *string `json:"label"`
	Icon         *string `json:"icon"`
	Description  *string `json:"description"`
	DisplayOrder *int    `json:"displayOrder"`
	IsActive     *bool   `json:"isActive"`
}

// ApplyTo merges the update onto an existing kind. The slug is immutable.
func (r *UpdateKindRequest) ApplyTo(k *schema.EntityKind) {
	if r.Label != nil {
		k.Label = *r.Label
	}
	if r.Icon != nil {
		k.Icon = *r.Icon
	}
	if r.Description != nil {
		k.Description = *r.Description
	}
	if r.DisplayOrder != nil {
		k.DisplayOrder = *r.DisplayOrder
	}
	if r.IsActive != nil {
		k.IsActive = *r.IsActive
	}
}
