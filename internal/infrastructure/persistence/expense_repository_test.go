package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmadash/backend/internal/domain/finance"
)

func mustExpense(t *testing.T, category string, amount int64, date time.Time) *finance.Expense {
	t.Helper()
	expense, err := finance.NewExpense(category, decimal.NewFromInt(amount), date)
	require.NoError(t, err)
	return expense
}

func TestGormExpenseRepository(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("sums by category within the window", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormExpenseRepository(db)

		require.NoError(t, repo.Create(ctx, mustExpense(t, finance.ExpenseCategoryLogistics, 300, base)))
		require.NoError(t, repo.Create(ctx, mustExpense(t, finance.ExpenseCategoryLogistics, 400, base.AddDate(0, 0, 1))))
		require.NoError(t, repo.Create(ctx, mustExpense(t, finance.ExpenseCategoryAdvertising, 100, base)))
		// Outside the window, must not be counted.
		require.NoError(t, repo.Create(ctx, mustExpense(t, finance.ExpenseCategoryLogistics, 9999, base.AddDate(0, 2, 0))))

		totals, err := repo.SumByCategory(ctx, base.AddDate(0, 0, -1), base.AddDate(0, 0, 2))
		require.NoError(t, err)

		byCategory := make(map[string]decimal.Decimal, len(totals))
		for _, total := range totals {
			byCategory[total.Category] = total.Total
		}
		assert.True(t, byCategory[finance.ExpenseCategoryLogistics].Equal(decimal.NewFromInt(700)))
		assert.True(t, byCategory[finance.ExpenseCategoryAdvertising].Equal(decimal.NewFromInt(100)))
	})

	t.Run("find in range respects bounds", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormExpenseRepository(db)

		require.NoError(t, repo.Create(ctx, mustExpense(t, finance.ExpenseCategoryOther, 50, base)))
		require.NoError(t, repo.Create(ctx, mustExpense(t, finance.ExpenseCategoryOther, 60, base.AddDate(0, 1, 0))))

		found, err := repo.FindInRange(ctx, base.AddDate(0, 0, -1), base.AddDate(0, 0, 1))
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.True(t, found[0].Amount.Equal(decimal.NewFromInt(50)))
	})

	t.Run("deleted expenses disappear from queries", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewGormExpenseRepository(db)

		expense := mustExpense(t, finance.ExpenseCategoryOther, 50, base)
		require.NoError(t, repo.Create(ctx, expense))
		require.NoError(t, repo.Delete(ctx, expense.ID))

		found, err := repo.FindInRange(ctx, base.AddDate(0, 0, -1), base.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}
