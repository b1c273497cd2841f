package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appintegration "github.com/pharmadash/backend/internal/application/integration"
	"github.com/pharmadash/backend/internal/infrastructure/scheduler"
	"github.com/pharmadash/backend/internal/interfaces/http/dto"
)

// SyncControl is what the handler needs from the scheduler
type SyncControl interface {
	TriggerManualRun(ctx context.Context) (appintegration.RunReport, error)
	Status() scheduler.Status
}

// SyncHandler exposes manual sync triggering and scheduler status
type SyncHandler struct {
	BaseHandler
	control SyncControl
	logger  *zap.Logger
}

// NewSyncHandler creates a sync handler
func NewSyncHandler(control SyncControl, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		control: control,
		logger:  logger.Named("sync_handler"),
	}
}

// Trigger runs a sync outside the timer cadence.
// POST /api/sync/trigger
func (h *SyncHandler) Trigger(c *gin.Context) {
	report, err := h.control.TriggerManualRun(c.Request.Context())
	if err != nil {
		if errors.Is(err, scheduler.ErrRunInProgress) {
			h.Conflict(c, dto.ErrCodeSyncInProgress, "a sync run is already in progress")
			return
		}
		h.logger.Error("Manual sync trigger failed", zap.Error(err))
		h.InternalError(c, "failed to trigger sync")
		return
	}
	h.Accepted(c, report)
}

// Status returns the scheduler state and the last run outcome.
// GET /api/sync/status
func (h *SyncHandler) Status(c *gin.Context) {
	h.Success(c, h.control.Status())
}
