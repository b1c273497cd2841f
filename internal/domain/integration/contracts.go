package integration

import "context"

// Wire contracts of the upstream commerce API. Monetary amounts arrive as
// strings, timestamps as "DD.MM.YYYY HH:MM:SS"; both are validated by the
// sync legs, never here.

// RawOrder is an order record as served by the upstream API
type RawOrder struct {
	ID           int            `json:"id"`
	Status       string         `json:"status"`
	TotalAmount  string         `json:"total_amount"`
	Bonus        float64        `json:"bonus"`
	BankCard     *string        `json:"bank_card"`
	DeliveryCost float64        `json:"delivery_cost"`
	PaidAt       *string        `json:"paid_at"`
	ShippedAt    *string        `json:"shipped_at"`
	CreatedAt    string         `json:"created_at"`
	User         *RawUser       `json:"user"`
	OrderItems   []RawOrderItem `json:"order_items"`
}

// RawOrderItem is a single line item within a raw order
type RawOrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

// RawUser is the customer block attached to a raw order
type RawUser struct {
	ID       int    `json:"id"`
	City     string `json:"city"`
	FullName string `json:"full_name"`
}

// RawProduct is a product record as served by the upstream API
type RawProduct struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           *string `json:"price"`
	StockQuantity   int     `json:"stock_quantity"`
	Brand           string  `json:"brand"`
	MainIngredient  string  `json:"main_ingredient"`
	DosageForm      string  `json:"dosage_form"`
	PackageQuantity int     `json:"package_quantity"`
	Weight          string  `json:"weight"`
}

// CommercePlatform is the port to the upstream commerce API. Adapters must
// carry an explicit timeout so a hung upstream cannot block the scheduler.
type CommercePlatform interface {
	FetchOrders(ctx context.Context) ([]RawOrder, error)
	FetchProducts(ctx context.Context) ([]RawProduct, error)
}
