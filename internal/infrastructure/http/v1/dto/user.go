package dto

import (
	"tradereg/internal/domain/catalogs/user"
)

// --- Request DTOs ---

// CreateUserRequest is the request body for creating a staff user.
type CreateUserRequest struct {
	Username string         `json:"username" binding:"required"`
	Password string         `json:"password" binding:"required"`
	FullName string         `json:"fullName" binding:"required"`
	Role     user.Role      `json:"role" binding:"required"`
	Custom   map[string]any `json:"custom"`
}

// ToEntity converts DTO to domain entity. Password hashing happens here so
// the plain password never leaves the handler layer.
func (r *CreateUserRequest) ToEntity() (*user.User, error) {
	u := user.NewUser(r.Username, r.FullName, r.Role)
	if err := u.SetPassword(r.Password); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUserRequest is the request body for updating a staff user.
type UpdateUserRequest struct {
	FullName *string        `json:"fullName"`
	Role     *user.Role     `json:"role"`
	IsActive *bool          `json:"isActive"`
	Password *string        `json:"password"`
	Custom   map[string]any `json:"custom"`
}

// ApplyTo merges the update onto an existing entity.
func (r *UpdateUserRequest) ApplyTo(u *user.User) error {
	if r.FullName != nil {
		u.FullName = *r.FullName
	}
	if r.Role != nil {
		u.Role = *r.Role
	}
	if r.IsActive != nil {
		u.IsActive = *r.IsActive
	}
	if r.Password != nil {
		if err := u.SetPassword(*r.Password); err != nil {
			return err
		}
	}
	u.Touch()
	return nil
}
