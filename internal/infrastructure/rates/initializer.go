package rates

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pharmadash/backend/internal/domain/finance"
	"github.com/pharmadash/backend/internal/domain/shared"
)

// Initializer fetches the current exchange rate once at process startup and
// appends it to the persisted series. It is invoked explicitly from main,
// never as an import side effect, so startup ordering stays deterministic.
type Initializer struct {
	source        Source
	repo          finance.ExchangeRateRepository
	bufferPercent decimal.Decimal
	logger        *zap.Logger
}

// NewInitializer creates a rate initializer
func NewInitializer(source Source, repo finance.ExchangeRateRepository, bufferPercent float64, logger *zap.Logger) *Initializer {
	return &Initializer{
		source:        source,
		repo:          repo,
		bufferPercent: decimal.NewFromFloat(bufferPercent),
		logger:        logger.Named("rates"),
	}
}

// Run fetches and persists one rate observation. A fetch failure is not
// fatal: the process continues on the latest persisted observation, or on
// the documented fallback rate when the series is still empty.
func (i *Initializer) Run(ctx context.Context) error {
	raw, err := i.source.Fetch(ctx)
	if err != nil {
		i.logFetchFailure(ctx, err)
		return nil
	}

	rate, err := finance.NewExchangeRate("TRY", raw, i.bufferPercent, i.source.Name(), time.Now())
	if err != nil {
		i.logger.Warn("Rate source returned an unusable rate", zap.Error(err))
		return nil
	}

	if err := i.repo.Append(ctx, rate); err != nil {
		return err
	}

	i.logger.Info("Exchange rate refreshed",
		zap.String("currency", rate.Currency),
		zap.String("rate", rate.Rate.String()),
		zap.String("rate_with_buffer", rate.RateWithBuffer.String()),
		zap.String("source", rate.Source),
	)
	return nil
}

func (i *Initializer) logFetchFailure(ctx context.Context, fetchErr error) {
	latest, err := i.repo.Latest(ctx, "TRY")
	switch {
	case err == nil:
		i.logger.Warn("Rate fetch failed, continuing on last persisted rate",
			zap.Error(fetchErr),
			zap.String("rate_with_buffer", latest.RateWithBuffer.String()),
			zap.Time("effective_date", latest.EffectiveDate),
		)
	case errors.Is(err, shared.ErrNotFound):
		i.logger.Warn("Rate fetch failed and no persisted rate exists, analytics will use the fallback rate",
			zap.Error(fetchErr),
			zap.String("fallback", finance.FallbackTRYRUB.String()),
		)
	default:
		i.logger.Warn("Rate fetch failed and rate lookup errored", zap.Error(fetchErr), zap.NamedError("lookup_error", err))
	}
}
