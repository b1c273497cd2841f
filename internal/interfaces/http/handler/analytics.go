package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pharmadash/backend/internal/application/analytics"
	"github.com/pharmadash/backend/internal/interfaces/http/dto"
)

// AnalyticsProvider is what the handler needs from the analytics engine
type AnalyticsProvider interface {
	ComputeProductsAnalytics(ctx context.Context, from, to time.Time) ([]analytics.ProductAnalytics, error)
	ComputeReplenishment(ctx context.Context, from, to time.Time) ([]analytics.ProductAnalytics, error)
}

// AnalyticsHandler exposes the per-product analytics views
type AnalyticsHandler struct {
	BaseHandler
	engine AnalyticsProvider
	logger *zap.Logger
}

// NewAnalyticsHandler creates an analytics handler
func NewAnalyticsHandler(engine AnalyticsProvider, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		engine: engine,
		logger: logger.Named("analytics_handler"),
	}
}

// Products returns margin and consumption analytics for all visible
// products over the requested window.
// GET /api/analytics/products?from=2025-06-01&to=2025-06-30
func (h *AnalyticsHandler) Products(c *gin.Context) {
	req, err := dto.BindRange(c)
	if err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	from, to, err := req.Window(time.Now())
	if err != nil {
		h.BadRequest(c, "dates must be in YYYY-MM-DD format")
		return
	}

	result, err := h.engine.ComputeProductsAnalytics(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("Analytics computation failed", zap.Error(err))
		h.InternalError(c, "failed to compute analytics")
		return
	}
	h.Success(c, result)
}

// Replenishment returns only the products needing purchasing attention.
// GET /api/analytics/replenishment?from=2025-06-01&to=2025-06-30
func (h *AnalyticsHandler) Replenishment(c *gin.Context) {
	req, err := dto.BindRange(c)
	if err != nil {
		h.BadRequest(c, "invalid query parameters")
		return
	}
	from, to, err := req.Window(time.Now())
	if err != nil {
		h.BadRequest(c, "dates must be in YYYY-MM-DD format")
		return
	}

	result, err := h.engine.ComputeReplenishment(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("Replenishment computation failed", zap.Error(err))
		h.InternalError(c, "failed to compute replenishment")
		return
	}
	h.Success(c, result)
}
