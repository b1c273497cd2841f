package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pharmadash/backend/internal/domain/finance"
	"github.com/pharmadash/backend/internal/domain/shared"
)

// RateView is the resolved exchange rate as served to clients
type RateView struct {
	Currency       string          `json:"currency"`
	Rate           decimal.Decimal `json:"rate"`
	RateWithBuffer decimal.Decimal `json:"rate_with_buffer"`
	Source         string          `json:"source"`
	EffectiveDate  *time.Time      `json:"effective_date,omitempty"`
}

// RatesHandler exposes the currently effective TRY to RUB rate
type RatesHandler struct {
	BaseHandler
	rates  finance.ExchangeRateRepository
	logger *zap.Logger
}

// NewRatesHandler creates a rates handler
func NewRatesHandler(rates finance.ExchangeRateRepository, logger *zap.Logger) *RatesHandler {
	return &RatesHandler{
		rates:  rates,
		logger: logger.Named("rates_handler"),
	}
}

// Current returns the latest persisted rate, or the documented fallback
// when no rate has ever been persisted.
// GET /api/rates/current
func (h *RatesHandler) Current(c *gin.Context) {
	latest, err := h.rates.Latest(c.Request.Context(), "TRY")
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.Success(c, RateView{
				Currency:       "TRY",
				Rate:           finance.FallbackTRYRUB,
				RateWithBuffer: finance.FallbackTRYRUB,
				Source:         "fallback",
			})
			return
		}
		h.logger.Error("Failed to read exchange rate", zap.Error(err))
		h.InternalError(c, "failed to read exchange rate")
		return
	}

	effective := latest.EffectiveDate
	h.Success(c, RateView{
		Currency:       latest.Currency,
		Rate:           latest.Rate,
		RateWithBuffer: latest.RateWithBuffer,
		Source:         latest.Source,
		EffectiveDate:  &effective,
	})
}
