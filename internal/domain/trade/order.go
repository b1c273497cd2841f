package trade

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadash/backend/internal/domain/shared"
)

// Order represents a customer order reconciled from the upstream commerce
// platform. Orders are created or updated only by the order sync leg; line
// items are owned by the order and replaced wholesale on every re-sync.
type Order struct {
	shared.BaseEntity
	ExternalID   string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Status       string          `gorm:"type:varchar(100);not null"`
	Total        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Currency     string          `gorm:"type:varchar(10);not null;default:'RUB'"`
	OrderDate    time.Time       `gorm:"not null;index"`
	PaidAt       *time.Time
	ShippedAt    *time.Time
	CustomerName string          `gorm:"type:varchar(200)"`
	CustomerCity string          `gorm:"type:varchar(100)"`
	Bonus        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DeliveryCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BankCard     string          `gorm:"type:varchar(100)"`
	Items        []OrderItem     `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a single line item of an order. Items reference products by
// free-text name only; there is no foreign key to the catalog.
type OrderItem struct {
	shared.BaseEntity
	OrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name     string          `gorm:"type:varchar(300);not null"`
	Quantity int             `gorm:"not null"`
	Price    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrder creates a new order with the given external identity
func NewOrder(externalID, status string, total decimal.Decimal, orderDate time.Time) (*Order, error) {
	if externalID == "" {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "External ID cannot be empty")
	}
	if total.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TOTAL", "Order total cannot be negative")
	}
	return &Order{
		BaseEntity: shared.NewBaseEntity(),
		ExternalID: externalID,
		Status:     status,
		Total:      total,
		Currency:   "RUB",
		OrderDate:  orderDate,
	}, nil
}

// NewOrderItem creates a line item; the total is derived from price and quantity
func NewOrderItem(orderID uuid.UUID, name string, quantity int, price decimal.Decimal) (*OrderItem, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Item price cannot be negative")
	}
	return &OrderItem{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
		Name:       name,
		Quantity:   quantity,
		Price:      price,
		Total:      price.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// ApplyUpstream overwrites the mutable fields with upstream values
func (o *Order) ApplyUpstream(status string, total decimal.Decimal, orderDate time.Time, paidAt, shippedAt *time.Time, customerName, customerCity string, bonus, deliveryCost decimal.Decimal, bankCard string) {
	o.Status = status
	o.Total = total
	o.OrderDate = orderDate
	o.PaidAt = paidAt
	o.ShippedAt = shippedAt
	o.CustomerName = customerName
	o.CustomerCity = customerCity
	o.Bonus = bonus
	o.DeliveryCost = deliveryCost
	o.BankCard = bankCard
	o.Touch()
}

// excludedAnalyticsStatuses are upstream statuses whose orders carry no
// realized revenue. The upstream status field is free text, so matching is
// by normalized substring.
var excludedAnalyticsStatuses = []string{"cancel", "refund", "отмен", "возврат"}

// IsRevenueBearing reports whether the order's status counts toward sales
// analytics. Cancelled and refunded orders are kept in storage for history
// but excluded from revenue.
func IsRevenueBearing(status string) bool {
	normalized := strings.ToLower(status)
	for _, excluded := range excludedAnalyticsStatuses {
		if strings.Contains(normalized, excluded) {
			return false
		}
	}
	return true
}

// OrderRepository defines persistence operations for orders
type OrderRepository interface {
	FindByExternalID(ctx context.Context, externalID string) (*Order, error)
	// FindInRange returns orders whose order date falls within [from, to],
	// with line items preloaded.
	FindInRange(ctx context.Context, from, to time.Time) ([]Order, error)
	Create(ctx context.Context, order *Order) error
	// Update overwrites the order's mutable fields and replaces its line
	// items with the given set inside a single transaction, so concurrent
	// readers never observe an order with zero items mid-update.
	Update(ctx context.Context, order *Order, items []OrderItem) error
}
