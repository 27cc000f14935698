package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradereg/internal/core/apperror"
	appctx "tradereg/internal/core/context"
	"tradereg/internal/domain/auth"
	"tradereg/internal/infrastructure/http/v1/dto"
)

// AuthHandler provides authentication endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	token, u, err := h.service.Login(c.Request.Context(), auth.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		User:        dto.FromUser(u),
	})
}

// Me handles GET /auth/me - the principal behind the presented token.
func (h *AuthHandler) Me(c *gin.Context) {
	u := appctx.GetUser(c.Request.Context())
	if u == nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	c.JSON(http.StatusOK, dto.MeResponse{
		UserID:   u.UserID,
		Username: u.Username,
		Role:     u.Role,
	})
}

// RegisterRoutes wires auth endpoints: login on the public group, me on the
// protected one.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/login", h.Login)
	protected.GET("/me", h.Me)
}
