package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pharmadash/backend/internal/domain/catalog"
	"github.com/pharmadash/backend/internal/domain/finance"
	"github.com/pharmadash/backend/internal/domain/trade"
)

// setupTestDB opens an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&catalog.Product{},
		&trade.Order{},
		&trade.OrderItem{},
		&finance.ExchangeRate{},
		&finance.Expense{},
	))
	return db
}
