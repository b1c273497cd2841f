package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pharmadash/backend/internal/domain/catalog"
	"github.com/pharmadash/backend/internal/domain/finance"
	"github.com/pharmadash/backend/internal/domain/trade"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByExternalID(ctx context.Context, externalID string) (*catalog.Product, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindVisible(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByExternalID(ctx context.Context, externalID string) (*trade.Order, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindInRange(ctx context.Context, from, to time.Time) ([]trade.Order, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *trade.Order, items []trade.OrderItem) error {
	return m.Called(ctx, order, items).Error(0)
}

type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) Append(ctx context.Context, rate *finance.ExchangeRate) error {
	return m.Called(ctx, rate).Error(0)
}

func (m *MockExchangeRateRepository) Latest(ctx context.Context, currency string) (*finance.ExchangeRate, error) {
	args := m.Called(ctx, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.ExchangeRate), args.Error(1)
}

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *finance.Expense) error {
	return m.Called(ctx, expense).Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockExpenseRepository) FindInRange(ctx context.Context, from, to time.Time) ([]finance.Expense, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) SumByCategory(ctx context.Context, from, to time.Time) ([]finance.CategoryTotal, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.CategoryTotal), args.Error(1)
}
