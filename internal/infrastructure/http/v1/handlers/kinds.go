package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradereg/internal/domain/schema"
	"tradereg/internal/infrastructure/http/v1/dto"
)

// KindHandler manages runtime-created entity kinds of the generic model.
type KindHandler struct {
	*BaseHandler
	registry *schema.Service
}

// NewKindHandler creates an entity kind handler.
func NewKindHandler(base *BaseHandler, registry *schema.Service) *KindHandler {
	return &KindHandler{BaseHandler: base, registry: registry}
}

// List handles GET /kinds - registered entity kinds.
func (h *KindHandler) List(c *gin.Context) {
	activeOnly := c.DefaultQuery("activeOnly", "true") != "false"

	kinds, err := h.registry.ListKinds(c.Request.Context(), activeOnly)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": kinds, "totalCount": len(kinds)})
}

// Create handles POST /kinds - register a new entity kind.
func (h *KindHandler) Create(c *gin.Context) {
	var req dto.CreateKindRequest
	if !h.BindJSON(c, &req) {
		return
	}

	kind := req.ToEntity()
	if err := h.registry.CreateKind(c.Request.Context(), kind); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, kind)
}

// Get handles GET /kinds/:slug - one entity kind.
func (h *KindHandler) Get(c *gin.Context) {
	kind, err := h.registry.GetKind(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, kind)
}

// Update handles PATCH /kinds/:slug - update a kind. Deactivation hides the
// kind from listings but keeps its records readable.
func (h *KindHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	kind, err := h.registry.GetKind(ctx, c.Param("slug"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.UpdateKindRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.ApplyTo(kind)

	if err := h.registry.UpdateKind(ctx, kind); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, kind)
}

// RegisterRoutes wires the kind routes.
func (h *KindHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:slug", h.Get)
	rg.PATCH("/:slug", h.Update)
}
