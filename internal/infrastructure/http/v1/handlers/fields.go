package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradereg/internal/core/apperror"
	"tradereg/internal/core/id"
	"tradereg/internal/domain/schema"
	"tradereg/internal/infrastructure/http/v1/dto"
)

// FieldHandler exposes the field-catalog registry: per-kind field definitions
// for the fixed catalogs and for runtime entity kinds.
type FieldHandler struct {
	*BaseHandler
	registry *schema.Service
}

// NewFieldHandler creates a field registry handler.
func NewFieldHandler(base *BaseHandler, registry *schema.Service) *FieldHandler {
	return &FieldHandler{BaseHandler: base, registry: registry}
}

// List handles GET /schema/:kind/fields - the ordered field catalog.
func (h *FieldHandler) List(c *gin.Context) {
	kind := schema.EntityKindSlug(c.Param("kind"))
	activeOnly := c.DefaultQuery("activeOnly", "true") != "false"

	fields, err := h.registry.ListFields(c.Request.Context(), kind, activeOnly)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": fields, "totalCount": len(fields)})
}

// Define handles POST /schema/:kind/fields - add a field definition.
func (h *FieldHandler) Define(c *gin.Context) {
	kind := schema.EntityKindSlug(c.Param("kind"))

	var req dto.DefineFieldRequest
	if !h.BindJSON(c, &req) {
		return
	}

	field, err := h.registry.DefineField(c.Request.Context(), req.ToInput(kind))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, field)
}

// Get handles GET /schema/fields/:id - one field definition.
func (h *FieldHandler) Get(c *gin.Context) {
	fieldID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	field, err := h.registry.GetField(c.Request.Context(), fieldID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, field)
}

// Update handles PATCH /schema/fields/:id - partial update. Field name and
// type are immutable; the patch carries only mutable attributes.
func (h *FieldHandler) Update(c *gin.Context) {
	fieldID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var patch schema.FieldPatch
	if !h.BindJSON(c, &patch) {
		return
	}

	field, err := h.registry.UpdateField(c.Request.Context(), fieldID, patch)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, field)
}

// Deactivate handles POST /schema/fields/:id/deactivate - the safe removal:
// the field disappears from projections but its values stay.
func (h *FieldHandler) Deactivate(c *gin.Context) {
	fieldID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.registry.DeactivateField(c.Request.Context(), fieldID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "field deactivated")
}

// Delete handles DELETE /schema/fields/:id - destructive removal cascading
// to every stored value of the field.
func (h *FieldHandler) Delete(c *gin.Context) {
	fieldID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.registry.DeleteField(c.Request.Context(), fieldID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes wires the registry routes.
func (h *FieldHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:kind/fields", h.List)
	rg.POST("/:kind/fields", h.Define)
	rg.GET("/fields/:id", h.Get)
	rg.PATCH("/fields/:id", h.Update)
	rg.POST("/fields/:id/deactivate", h.Deactivate)
	rg.DELETE("/fields/:id", h.Delete)
}
