package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradereg/internal/core/apperror"
	"tradereg/internal/core/id"
	"tradereg/internal/domain"
	"tradereg/internal/domain/catalogs/license"
	"tradereg/internal/domain/values"
	"tradereg/internal/infrastructure/http/v1/dto"
)

// LicenseHandler extends the generic catalog handler with the
// license-specific operations: expired listing, expiring count and renewal.
type LicenseHandler struct {
	*CatalogHandler[*license.License, dto.CreateLicenseRequest, dto.UpdateLicenseRequest]
	service *license.Service
}

// NewLicenseHandler wires the license service into the generic catalog
// handler plus its domain routes.
func NewLicenseHandler(base *BaseHandler, service *license.Service) *LicenseHandler {
	config := CatalogHandlerConfig[
		*license.License,
		dto.CreateLicenseRequest,
		dto.UpdateLicenseRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "license",

		MapCreateDTO: func(req dto.CreateLicenseRequest) (*license.License, error) {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateLicenseRequest, existing *license.License) (*license.License, error) {
			req.ApplyTo(existing)
			return existing, nil
		},
		MapCustom:    func(req dto.CreateLicenseRequest) map[string]any { return req.Custom },
		MapCustomUpd: func(req dto.UpdateLicenseRequest) map[string]any { return req.Custom },
		MapToDTO: func(entity *license.License, custom map[string]values.Value) any {
			resp := dto.FromLicense(entity)
			resp.Custom = customPayload(custom)
			return resp
		},
	}

	return &LicenseHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// ListExpired handles GET /licenses/expired - licenses past their expire date.
func (h *LicenseHandler) ListExpired(c *gin.Context) {
	ctx := c.Request.Context()

	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", filter.Limit)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "expire_date")

	result, err := h.service.ListExpired(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, item := range result.Items {
		items[i] = dto.FromLicense(item)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// CountExpiring handles GET /licenses/expiring - count within a day window.
func (h *LicenseHandler) CountExpiring(c *gin.Context) {
	days := h.ParseIntQuery(c, "days", 30)
	if days <= 0 {
		h.Error(c, apperror.NewValidation("days must be positive").WithDetail("days", days))
		return
	}

	count, err := h.service.CountExpiring(c.Request.Context(), days)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": days, "count": count})
}

// Renew handles POST /licenses/:id/renew - extend validity and reactivate.
func (h *LicenseHandler) Renew(c *gin.Context) {
	licenseID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.RenewLicenseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	renewed, err := h.service.Renew(c.Request.Context(), licenseID, req.Months)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromLicense(renewed))
}

// RegisterRoutes wires the catalog routes plus the license-specific ones.
// The static paths register before the parameterized CRUD paths.
func (h *LicenseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/expired", h.ListExpired)
	rg.GET("/expiring", h.CountExpiring)
	rg.POST("/:id/renew", h.Renew)
	h.CatalogHandler.RegisterRoutes(rg)
}
