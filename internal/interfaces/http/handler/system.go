package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pharmadash/backend/internal/infrastructure/persistence"
)

// SystemHandler exposes liveness and readiness checks
type SystemHandler struct {
	BaseHandler
	db *persistence.Database
}

// NewSystemHandler creates a system handler
func NewSystemHandler(db *persistence.Database) *SystemHandler {
	return &SystemHandler{db: db}
}

// Health reports process and database health.
// GET /healthz
func (h *SystemHandler) Health(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		c.JSON(503, gin.H{"status": "degraded", "database": "unreachable"})
		return
	}
	c.JSON(200, gin.H{"status": "ok"})
}
