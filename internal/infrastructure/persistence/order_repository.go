package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pharmadash/backend/internal/domain/shared"
	"github.com/pharmadash/backend/internal/domain/trade"
)

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByExternalID finds an order by its upstream identifier, with items
func (r *GormOrderRepository) FindByExternalID(ctx context.Context, externalID string) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("external_id = ?", externalID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindInRange returns orders whose order date falls within [from, to], with items
func (r *GormOrderRepository) FindInRange(ctx context.Context, from, to time.Time) ([]trade.Order, error) {
	var orders []trade.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_date >= ? AND order_date <= ?", from, to).
		Order("order_date").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Create inserts an order together with its line items
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// Update overwrites the order's mutable fields and replaces its line items
// with the given set. Delete and insert run in one transaction so a reader
// never observes the order with half-replaced items.
func (r *GormOrderRepository) Update(ctx context.Context, order *trade.Order, items []trade.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&trade.OrderItem{}).Error; err != nil {
			return err
		}
		order.Items = nil
		if err := tx.Model(order).Select(
			"status", "total", "order_date", "paid_at", "shipped_at",
			"customer_name", "customer_city", "bonus", "delivery_cost",
			"bank_card", "updated_at",
		).Updates(order).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			for i := range items {
				items[i].OrderID = order.ID
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		order.Items = items
		return nil
	})
}
