package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pharmadash/backend/internal/domain/finance"
	"github.com/pharmadash/backend/internal/domain/shared"
)

// GormExchangeRateRepository implements finance.ExchangeRateRepository using GORM
type GormExchangeRateRepository struct {
	db *gorm.DB
}

// NewGormExchangeRateRepository creates a new GormExchangeRateRepository
func NewGormExchangeRateRepository(db *gorm.DB) *GormExchangeRateRepository {
	return &GormExchangeRateRepository{db: db}
}

// Append inserts a new rate observation. The series is append-only; rows
// are never updated or deleted.
func (r *GormExchangeRateRepository) Append(ctx context.Context, rate *finance.ExchangeRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

// Latest returns the most recent observation by effective date for the currency
func (r *GormExchangeRateRepository) Latest(ctx context.Context, currency string) (*finance.ExchangeRate, error) {
	var rate finance.ExchangeRate
	if err := r.db.WithContext(ctx).
		Where("currency = ?", currency).
		Order("effective_date DESC").
		First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rate, nil
}
