package finance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharmadash/backend/internal/domain/shared"
)

// ExchangeRate is one observation in an append-only currency rate series.
// Rows are never mutated; consumers always read the latest row by effective
// date for a currency.
type ExchangeRate struct {
	shared.BaseEntity
	Currency       string          `gorm:"type:varchar(10);not null;index:idx_rates_currency_date,priority:1"`
	Rate           decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	RateWithBuffer decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	BufferPercent  decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	Source         string          `gorm:"type:varchar(100)"`
	EffectiveDate  time.Time       `gorm:"not null;index:idx_rates_currency_date,priority:2"`
}

// TableName returns the table name for GORM
func (ExchangeRate) TableName() string {
	return "exchange_rates"
}

// NewExchangeRate creates a rate observation, deriving the buffered rate
// from the raw rate and buffer percent.
func NewExchangeRate(currency string, rate, bufferPercent decimal.Decimal, source string, effectiveDate time.Time) (*ExchangeRate, error) {
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}
	if !rate.IsPositive() {
		return nil, shared.NewDomainError("INVALID_RATE", "Exchange rate must be positive")
	}
	hundred := decimal.NewFromInt(100)
	withBuffer := rate.Mul(hundred.Add(bufferPercent)).Div(hundred)
	return &ExchangeRate{
		BaseEntity:     shared.NewBaseEntity(),
		Currency:       currency,
		Rate:           rate,
		RateWithBuffer: withBuffer,
		BufferPercent:  bufferPercent,
		Source:         source,
		EffectiveDate:  effectiveDate,
	}, nil
}

// ExchangeRateRepository defines persistence for the append-only rate series
type ExchangeRateRepository interface {
	// Append inserts a new observation; existing rows are never touched.
	Append(ctx context.Context, rate *ExchangeRate) error
	// Latest returns the most recent observation by effective date for the
	// currency, or shared.ErrNotFound when the series is empty.
	Latest(ctx context.Context, currency string) (*ExchangeRate, error)
}

// FallbackTRYRUB is the buffered TRY→RUB rate used when no observation has
// ever been persisted, e.g. on first boot with the rate source down.
var FallbackTRYRUB = decimal.NewFromFloat(2.5)
