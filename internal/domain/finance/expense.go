package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadash/backend/internal/domain/shared"
)

// Expense categories with dedicated analytics buckets. Anything else rolls
// into the "other" bucket.
const (
	ExpenseCategoryLogistics   = "Logistics"
	ExpenseCategoryAdvertising = "Advertising"
	ExpenseCategoryOther       = "Other"
)

// Expense is an operating expense, optionally linked to a product. The
// analytics engine only ever consumes expenses as category sums over a
// date range.
type Expense struct {
	shared.BaseEntity
	Category  string          `gorm:"type:varchar(100);not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Date      time.Time       `gorm:"not null;index"`
	Comment   string          `gorm:"type:text"`
	ProductID *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}

// NewExpense creates an expense record
func NewExpense(category string, amount decimal.Decimal, date time.Time) (*Expense, error) {
	if category == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Expense category cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	return &Expense{
		BaseEntity: shared.NewBaseEntity(),
		Category:   category,
		Amount:     amount,
		Date:       date,
	}, nil
}

// CategoryTotal is a grouped expense sum for one category
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// ExpenseRepository defines persistence operations for expenses
type ExpenseRepository interface {
	Create(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindInRange(ctx context.Context, from, to time.Time) ([]Expense, error)
	// SumByCategory returns grouped expense totals for [from, to]
	SumByCategory(ctx context.Context, from, to time.Time) ([]CategoryTotal, error)
}
