package dto

import (
	"tradereg/internal/domain/catalogs/shop"
)

// --- Request DTOs ---

// CreateShopRequest is the request body for registering a shop.
type CreateShopRequest struct {
	Name      string         `json:"name" binding:"required"`
	OwnerName *string        `json:"ownerName"`
	Address   *string        `json:"address"`
	Phone     *string        `json:"phone"`
	Comment   *string        `json:"comment"`
	Custom    map[string]any `json:"custom"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateShopRequest) ToEntity() *shop.Shop {
	s := shop.NewShop(r.Name)
	s.OwnerName = r.OwnerName
	s.Address = r.Address
	s.Phone = r.Phone
	s.Comment = r.Comment
	return s
}

// UpdateShopRequest is the request body for updating a shop.
// Nil pointers leave the stored value untouched.
type UpdateShopRequest struct {
	Name      *string        `json:"name"`
	OwnerName *string        `json:"ownerName"`
	Address   *string        `json:"address"`
	Phone     *string        `json:"phone"`
	Comment   *string        `json:"comment"`
	Custom    map[string]any `json:"custom"`
}

// ApplyTo merges the update onto an existing entity.
func (r *UpdateShopRequest) ApplyTo(s *shop.Shop) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.OwnerName != nil {
		s.OwnerName = r.OwnerName
	}
	if r.Address != nil {
		s.Address = r.Address
	}
	if r.Phone != nil {
		s.Phone = r.Phone
	}
	if r.Comment != nil {
		s.Comment = r.Comment
	}
	s.Touch()
}

// --- Response DTOs ---

// ShopResponse is the read view of a shop.
type ShopResponse struct {
	*shop.Shop
	Custom any `json:"custom,omitempty"`
}

// FromShop converts a shop entity to its response DTO.
func FromShop(s *shop.Shop, custom any) ShopResponse {
	return ShopResponse{Shop: s, Custom: custom}
}
