package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pharmadash/backend/internal/domain/finance"
)

// GormExpenseRepository implements finance.ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// Create inserts a new expense record
func (r *GormExpenseRepository) Create(ctx context.Context, expense *finance.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

// Delete removes an expense record by ID
func (r *GormExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&finance.Expense{}, "id = ?", id).Error
}

// FindInRange returns expenses dated within [from, to]
func (r *GormExpenseRepository) FindInRange(ctx context.Context, from, to time.Time) ([]finance.Expense, error) {
	var expenses []finance.Expense
	if err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date DESC").
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// SumByCategory returns grouped expense totals for [from, to]
func (r *GormExpenseRepository) SumByCategory(ctx context.Context, from, to time.Time) ([]finance.CategoryTotal, error) {
	rows := make([]struct {
		Category string
		Total    decimal.Decimal
	}, 0)
	if err := r.db.WithContext(ctx).
		Model(&finance.Expense{}).
		Select("category, SUM(amount) AS total").
		Where("date >= ? AND date <= ?", from, to).
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make([]finance.CategoryTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, finance.CategoryTotal{Category: row.Category, Total: row.Total})
	}
	return totals, nil
}
