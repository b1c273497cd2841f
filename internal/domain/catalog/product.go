package catalog

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pharmadash/backend/internal/domain/shared"
)

// Product represents a sellable product imported from the upstream
// commerce platform. It is never hard-deleted by the sync path; hiding a
// product only removes it from analytics views.
type Product struct {
	shared.BaseEntity
	ExternalID      string           `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name            string           `gorm:"type:varchar(300);not null"`
	Brand           string           `gorm:"type:varchar(200)"`
	Description     string           `gorm:"type:text"`
	Price           decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	CostPriceTRY    *decimal.Decimal `gorm:"type:decimal(18,4)"`
	CostPrice       *decimal.Decimal `gorm:"type:decimal(18,4)"` // cost in local currency (RUB), derived
	StockQuantity   int              `gorm:"not null;default:0"`
	MainIngredient  string           `gorm:"type:varchar(200)"`
	DosageForm      string           `gorm:"type:varchar(100)"`
	PackageQuantity int              `gorm:"not null;default:0"`
	Weight          string           `gorm:"type:varchar(50)"`
	IsHidden        bool             `gorm:"not null;default:false"`
	InTransit       int              `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with the given external identity
func NewProduct(externalID, name string, price decimal.Decimal) (*Product, error) {
	if externalID == "" {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "External ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		ExternalID: externalID,
		Name:       name,
		Price:      price,
	}, nil
}

// UpdateFromUpstream overwrites the mutable fields with upstream values.
// Stock may legitimately drop to zero; negative values are clamped.
func (p *Product) UpdateFromUpstream(name, description, brand, ingredient, dosageForm string, price decimal.Decimal, stock, packageQuantity int, weight string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	if stock < 0 {
		stock = 0
	}
	p.Name = name
	p.Description = description
	p.Brand = brand
	p.MainIngredient = ingredient
	p.DosageForm = dosageForm
	p.Price = price
	p.StockQuantity = stock
	p.PackageQuantity = packageQuantity
	p.Weight = weight
	p.Touch()
	return nil
}

// SetCostPrices sets the source-currency cost and its local-currency equivalent
func (p *Product) SetCostPrices(costTRY, costRUB decimal.Decimal) {
	p.CostPriceTRY = &costTRY
	p.CostPrice = &costRUB
	p.Touch()
}

// Hide removes the product from analytics views without deleting it
func (p *Product) Hide() {
	p.IsHidden = true
	p.Touch()
}

// Show makes the product visible to analytics views again
func (p *Product) Show() {
	p.IsHidden = false
	p.Touch()
}

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	FindByExternalID(ctx context.Context, externalID string) (*Product, error)
	FindVisible(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
}
