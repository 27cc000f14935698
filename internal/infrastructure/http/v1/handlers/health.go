package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradereg/internal/infrastructure/cache"
	"tradereg/internal/infrastructure/storage/postgres"
)

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	pool  *postgres.Pool
	cache *cache.CatalogCache
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(pool *postgres.Pool, catalogCache *cache.CatalogCache) *HealthHandler {
	return &HealthHandler{pool: pool, cache: catalogCache}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.pool.Unwrap().Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"checks": map[string]string{
				"database": "unhealthy: " + err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": map[string]string{
			"database": "healthy",
		},
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	stat := h.pool.Unwrap().Stat()

	c.JSON(http.StatusOK, gin.H{
		"app":     "tradereg",
		"version": "0.1.0",
		"database": map[string]any{
			"total_conns":    stat.TotalConns(),
			"acquired_conns": stat.AcquiredConns(),
			"idle_conns":     stat.IdleConns(),
			"max_conns":      stat.MaxConns(),
		},
		"field_catalog_cache": h.cache.GetStats(),
	})
}
