package auth

import (
	"context"
	"time"

	"tradereg/internal/core/apperror"
	"tradereg/internal/domain/catalogs/user"
	"tradereg/pkg/logger"
)

// Credentials for login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Token is a signed access token plus its expiry.
type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TokenType   string    `json:"tokenType"`
}

// Service authenticates staff users against the user catalog.
type Service struct {
	users      *user.Service
	jwtService *JWTService
}

// NewService creates a new auth service.
func NewService(users *user.Service, jwtService *JWTService) *Service {
	return &Service{
		users:      users,
		jwtService: jwtService,
	}
}

// Login authenticates a user and returns an access token. Unknown username
// and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Token, *user.User, error) {
	u, err := s.users.FindByUsername(ctx, creds.Username)
	if err != nil {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}
	if err := u.CanLogin(); err != nil {
		return nil, nil, err
	}
	if !u.CheckPassword(creds.Password) {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(
		u.ID.String(), u.Username, string(u.Role))
	if err != nil {
		return nil, nil, apperror.NewInternal(err)
	}

	u.RecordLogin()
	if _, err := s.users.Update(ctx, u, nil); err != nil {
		logger.Warn(ctx, "record login failed", "username", u.Username, "error", err)
	}

	logger.Info(ctx, "user logged in", "user_id", u.ID.String(), "username", u.Username)

	return &Token{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
	}, u, nil
}
