package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pharmadash/backend/internal/domain/catalog"
	"github.com/pharmadash/backend/internal/domain/shared"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByExternalID finds a product by its upstream identifier
func (r *GormProductRepository) FindByExternalID(ctx context.Context, externalID string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindVisible returns all products not hidden from analytics views
func (r *GormProductRepository) FindVisible(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("is_hidden = ?", false).
		Order("name").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts a new product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update persists changes to an existing product
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}
