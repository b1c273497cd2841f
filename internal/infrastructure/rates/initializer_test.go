package rates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pharmadash/backend/internal/domain/finance"
	"github.com/pharmadash/backend/internal/domain/shared"
)

type stubSource struct {
	rate decimal.Decimal
	err  error
}

func (s *stubSource) Fetch(ctx context.Context) (decimal.Decimal, error) {
	return s.rate, s.err
}

func (s *stubSource) Name() string { return "stub" }

type mockRateRepo struct {
	mock.Mock
}

func (m *mockRateRepo) Append(ctx context.Context, rate *finance.ExchangeRate) error {
	return m.Called(ctx, rate).Error(0)
}

func (m *mockRateRepo) Latest(ctx context.Context, currency string) (*finance.ExchangeRate, error) {
	args := m.Called(ctx, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.ExchangeRate), args.Error(1)
}

func TestInitializer_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("persists a buffered observation on success", func(t *testing.T) {
		repo := new(mockRateRepo)
		var appended *finance.ExchangeRate
		repo.On("Append", ctx, mock.AnythingOfType("*finance.ExchangeRate")).
			Run(func(args mock.Arguments) {
				appended = args.Get(1).(*finance.ExchangeRate)
			}).
			Return(nil)

		init := NewInitializer(&stubSource{rate: decimal.NewFromFloat(2.0)}, repo, 5, zap.NewNop())
		require.NoError(t, init.Run(ctx))

		require.NotNil(t, appended)
		assert.Equal(t, "TRY", appended.Currency)
		assert.True(t, appended.Rate.Equal(decimal.NewFromFloat(2.0)))
		assert.True(t, appended.RateWithBuffer.Equal(decimal.NewFromFloat(2.1)),
			"buffered rate %s", appended.RateWithBuffer)
		assert.Equal(t, "stub", appended.Source)
	})

	t.Run("fetch failure degrades to the persisted rate without an error", func(t *testing.T) {
		repo := new(mockRateRepo)
		persisted, err := finance.NewExchangeRate("TRY", decimal.NewFromFloat(2.3), decimal.NewFromInt(5), "api", time.Now())
		require.NoError(t, err)
		repo.On("Latest", ctx, "TRY").Return(persisted, nil)

		init := NewInitializer(&stubSource{err: errors.New("timeout")}, repo, 5, zap.NewNop())
		assert.NoError(t, init.Run(ctx))
		repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("fetch failure with an empty series still starts up", func(t *testing.T) {
		repo := new(mockRateRepo)
		repo.On("Latest", ctx, "TRY").Return(nil, shared.ErrNotFound)

		init := NewInitializer(&stubSource{err: errors.New("timeout")}, repo, 5, zap.NewNop())
		assert.NoError(t, init.Run(ctx))
	})

	t.Run("persistence failure is fatal", func(t *testing.T) {
		repo := new(mockRateRepo)
		repo.On("Append", ctx, mock.Anything).Return(errors.New("db down"))

		init := NewInitializer(&stubSource{rate: decimal.NewFromFloat(2.0)}, repo, 5, zap.NewNop())
		assert.Error(t, init.Run(ctx))
	})
}
