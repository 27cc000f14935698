// Package user provides the staff user catalog. Users log in to manage the
// registry; like every other catalog entity they can carry dynamic fields.
package user

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tradereg/internal/core/apperror"
	"tradereg/internal/core/entity"
)

// Role defines the access level of a staff user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleViewer Role = "viewer"
)

// User represents a staff account.
type User struct {
	entity.Base

	// Username is the login name, unique
	Username string `db:"username" json:"username"`

	// PasswordHash is the bcrypt hash; never serialized
	PasswordHash string `db:"password_hash" json:"-"`

	// FullName is the display name
	FullName string `db:"full_name" json:"fullName"`

	// Role defines the access level
	Role Role `db:"role" json:"role"`

	// IsActive gates login
	IsActive bool `db:"is_active" json:"isActive"`

	// LastLoginAt records the most recent successful login
	LastLoginAt *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
}

// NewUser creates a new active user without a password. Callers must call
// SetPassword before the user can log in.
func NewUser(username, fullName string, role Role) *User {
	return &User{
		Base:     entity.NewBase(),
		Username: username,
		FullName: fullName,
		Role:     role,
		IsActive: true,
	}
}

// Validate implements domain.Validatable.
func (u *User) Validate(_ context.Context) error {
	if strings.TrimSpace(u.Username) == "" {
		return apperror.NewValidation("username is required").
			WithDetail("field", "username")
	}
	if !isValidRole(u.Role) {
		return apperror.NewValidation("invalid role").
			WithDetail("field", "role").
			WithDetail("value", string(u.Role))
	}
	return nil
}

// SetPassword hashes and stores the password.
func (u *User) SetPassword(plain string) error {
	if len(plain) < 8 {
		return apperror.NewValidation("password must be at least 8 characters").
			WithDetail("field", "password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return apperror.NewInternal(err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares a candidate password against the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// CanLogin checks whether the account may authenticate.
func (u *User) CanLogin() error {
	if !u.IsActive {
		return apperror.NewForbidden("account is disabled")
	}
	return nil
}

// RecordLogin stamps the successful login time.
func (u *User) RecordLogin() {
	now := time.Now().UTC()
	u.LastLoginAt = &now
}

func isValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleViewer:
		return true
	}
	return false
}
