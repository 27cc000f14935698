package dto

import (
	"time"

	"tradereg/internal/domain/catalogs/user"
)

// LoginRequest is the request body for authentication.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the authenticated user.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}

// MeResponse is the authenticated principal as seen by the token.
type MeResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// UserResponse is the public view of a staff user.
type UserResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	FullName    string     `json:"fullName"`
	Role        user.Role  `json:"role"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Custom      any        `json:"custom,omitempty"`
}

// FromUser converts a user entity to its response DTO.
func FromUser(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		Username:    u.Username,
		FullName:    u.FullName,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
