package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"tradereg/internal/core/apperror"
	"tradereg/internal/core/id"
	"tradereg/internal/domain"
	domainFilter "tradereg/internal/domain/filter"
	"tradereg/internal/domain/values"
	"tradereg/internal/infrastructure/http/v1/dto"
)

// CatalogHandler provides generic HTTP handlers for catalog entities. Every
// catalog shares the same surface: CRUD on the fixed columns plus a "custom"
// payload of dynamic cells written through the value store.
type CatalogHandler[T domain.Validatable, CreateDTO any, UpdateDTO any] struct {
	*BaseHandler
	service    *domain.CatalogService[T]
	entityName string

	// Mapper functions
	mapCreateDTO func(dto CreateDTO) (T, error)
	mapUpdateDTO func(dto UpdateDTO, existing T) (T, error)
	mapCustom    func(dto CreateDTO) map[string]any
	mapCustomUpd func(dto UpdateDTO) map[string]any
	mapToDTO     func(entity T, custom map[string]values.Value) any
}

// CatalogHandlerConfig configures the catalog handler.
type CatalogHandlerConfig[T domain.Validatable, CreateDTO any, UpdateDTO any] struct {
	Service      *domain.CatalogService[T]
	EntityName   string
	MapCreateDTO func(dto CreateDTO) (T, error)
	MapUpdateDTO func(dto UpdateDTO, existing T) (T, error)
	MapCustom    func(dto CreateDTO) map[string]any
	MapCustomUpd func(dto UpdateDTO) map[string]any
	MapToDTO     func(entity T, custom map[string]values.Value) any
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T domain.Validatable, CreateDTO any, UpdateDTO any](
	base *BaseHandler,
	cfg CatalogHandlerConfig[T, CreateDTO, UpdateDTO],
) *CatalogHandler[T, CreateDTO, UpdateDTO] {
	return &CatalogHandler[T, CreateDTO, UpdateDTO]{
		BaseHandler:  base,
		service:      cfg.Service,
		entityName:   cfg.EntityName,
		mapCreateDTO: cfg.MapCreateDTO,
		mapUpdateDTO: cfg.MapUpdateDTO,
		mapCustom:    cfg.MapCustom,
		mapCustomUpd: cfg.MapCustomUpd,
		mapToDTO:     cfg.MapToDTO,
	}
}

// List handles GET /{entity} - list with filtering and pagination.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter, ok := h.parseListFilter(c)
	if !ok {
		return
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, item := range result.Items {
		items[i] = h.mapToDTO(item, nil)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// parseListFilter reads the common list query parameters.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) parseListFilter(c *gin.Context) (domain.ListFilter, bool) {
	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", filter.Limit)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", filter.OrderBy)
	filter.DerivedStatus = c.Query("status")

	if filterJSON := c.Query("filter"); filterJSON != "" {
		var advFilters []domainFilter.Item
		if err := json.Unmarshal([]byte(filterJSON), &advFilters); err != nil {
			h.Error(c, apperror.NewValidation("invalid filter format (json expected)"))
			return filter, false
		}
		filter.AdvancedFilters = advFilters
	}
	return filter, true
}

// Get handles GET /{entity}/:id - get single entity with its dynamic cells.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Get(c *gin.Context) {
	ctx := c.Request.Context()

	entityID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	entity, err := h.service.GetByID(ctx, entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	custom, err := h.service.GetCustomValues(ctx, entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, h.mapToDTO(entity, custom))
}

// Create handles POST /{entity} - create new entity with dynamic payload.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	entity, err := h.mapCreateDTO(req)
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.Create(ctx, entity, h.mapCustom(req))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MutationResponse{
		Item:  h.mapToDTO(entity, nil),
		Cells: result,
	})
}

// Update handles PUT /{entity}/:id - update existing entity.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	entityID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(ctx, entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	updated, err := h.mapUpdateDTO(req, existing)
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.Update(ctx, updated, h.mapCustomUpd(req))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MutationResponse{
		Item:  h.mapToDTO(updated, nil),
		Cells: result,
	})
}

// Delete handles DELETE /{entity}/:id - delete entity and its cells.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	entityID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(ctx, entityID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes wires the standard catalog routes onto a group.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
