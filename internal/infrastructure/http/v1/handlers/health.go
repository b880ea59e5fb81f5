package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"crudcenter/internal/domain/resource"
	"crudcenter/internal/infrastructure/storage/dbrouter"
)

// ConnectionStatus reports on database connections.
type ConnectionStatus interface {
	Prewarm(ctx context.Context) error
	Stats() dbrouter.Stats
}

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	conns     ConnectionStatus
	resources *resource.Registry
	app       string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(app string, conns ConnectionStatus, resources *resource.Registry) *HealthHandler {
	return &HealthHandler{conns: conns, resources: resources, app: app}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe: every configured connection must open.
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.conns.Prewarm(c.Request.Context()); err != nil {
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

// Info returns application information with connection stats.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	stats := h.conns.Stats()

	conns := make([]gin.H, 0, len(stats.Connections))
	for _, s := range stats.Connections {
		conns = append(conns, gin.H{
			"name":        s.Name,
			"driver":      s.Driver,
			"healthy":     s.Healthy,
			"active_refs": s.ActiveRefs,
			"last_used":   s.LastUsed,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"app":              h.app,
		"resources":        h.resources.Names(),
		"open_connections": stats.Open,
		"connections":      conns,
	})
}
