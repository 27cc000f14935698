package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradereg/internal/core/apperror"
	"tradereg/internal/core/id"
	"tradereg/internal/domain/records"
	"tradereg/internal/infrastructure/http/v1/dto"
)

// RecordHandler provides CRUD over generic-model records. The payload is a
// raw field-name map; typing and validation happen against the field catalog
// in the value layer, so there is no per-kind DTO.
type RecordHandler struct {
	*BaseHandler
	service *records.Service
}

// NewRecordHandler creates a generic record handler.
func NewRecordHandler(base *BaseHandler, service *records.Service) *RecordHandler {
	return &RecordHandler{BaseHandler: base, service: service}
}

// List handles GET /records/:kind - projected record page.
func (h *RecordHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(),
		c.Param("kind"),
		c.Query("search"),
		h.ParseIntQuery(c, "limit", 50),
		h.ParseIntQuery(c, "offset", 0),
	)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles GET /records/:kind/:id - one projected record.
func (h *RecordHandler) Get(c *gin.Context) {
	recordID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	record, err := h.service.Get(c.Request.Context(), c.Param("kind"), recordID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// Create handles POST /records/:kind - new record from a field-name payload.
func (h *RecordHandler) Create(c *gin.Context) {
	var payload map[string]any
	if !h.BindJSON(c, &payload) {
		return
	}

	header, result, err := h.service.Create(c.Request.Context(), c.Param("kind"), payload)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MutationResponse{Item: header, Cells: result})
}

// Update handles PUT /records/:kind/:id - write a value payload.
func (h *RecordHandler) Update(c *gin.Context) {
	recordID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var payload map[string]any
	if !h.BindJSON(c, &payload) {
		return
	}

	result, err := h.service.Update(c.Request.Context(), c.Param("kind"), recordID, payload)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cells": result})
}

// Delete handles DELETE /records/:kind/:id - record and cells together.
func (h *RecordHandler) Delete(c *gin.Context) {
	recordID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("kind"), recordID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes wires the record routes.
func (h *RecordHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:kind", h.List)
	rg.POST("/:kind", h.Create)
	rg.GET("/:kind/:id", h.Get)
	rg.PUT("/:kind/:id", h.Update)
	rg.DELETE("/:kind/:id", h.Delete)
}
