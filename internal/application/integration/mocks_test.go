package integration

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pharmadash/backend/internal/domain/catalog"
	"github.com/pharmadash/backend/internal/domain/integration"
	"github.com/pharmadash/backend/internal/domain/trade"
)

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
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *trade.Order, items []trade.OrderItem) error {
	args := m.Called(ctx, order, items)
	return args.Error(0)
}

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
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

type MockCommercePlatform struct {
	mock.Mock
}

func (m *MockCommercePlatform) FetchOrders(ctx context.Context) ([]integration.RawOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.RawOrder), args.Error(1)
}

func (m *MockCommercePlatform) FetchProducts(ctx context.Context) ([]integration.RawProduct, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.RawProduct), args.Error(1)
}
