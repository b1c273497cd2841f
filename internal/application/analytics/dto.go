package analytics

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DaysUntilZeroSentinel is reported when consumption is zero and the stock
// runway is effectively infinite.
const DaysUntilZeroSentinel = 9999

// UrgencyLevel is the categorical purchasing signal derived from stock
// runway versus lead time.
type UrgencyLevel string

const (
	UrgencyCritical UrgencyLevel = "critical"
	UrgencyWarning  UrgencyLevel = "warning"
	UrgencyNormal   UrgencyLevel = "normal"
)

// ExpenseBreakdown is the per-unit share of window expenses allocated to a
// product, plus the fixed delivery cost.
type ExpenseBreakdown struct {
	Delivery    decimal.Decimal `json:"delivery"`
	Logistics   decimal.Decimal `json:"logistics"`
	Advertising decimal.Decimal `json:"advertising"`
	Other       decimal.Decimal `json:"other"`
	Total       decimal.Decimal `json:"total"`
}

// ProductAnalytics is the per-product replenishment view computed for one
// date window. It is recomputed on every request and never persisted.
type ProductAnalytics struct {
	ProductID           uuid.UUID       `json:"product_id"`
	ExternalID          string          `json:"external_id"`
	Name                string          `json:"name"`
	Stock               int             `json:"stock"`
	InTransit           int             `json:"in_transit"`
	CostTRY             decimal.Decimal `json:"cost_try"`
	CostRUB             decimal.Decimal `json:"cost_rub"`
	AvgRetailPrice      decimal.Decimal `json:"avg_retail_price"`
	AvgDailyConsumption decimal.Decimal `json:"avg_daily_consumption"`
	DaysUntilZero       int             `json:"days_until_zero"`
	UnitsSold           int             `json:"units_sold"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	Expenses            ExpenseBreakdown `json:"expenses"`
	FullUnitCost        decimal.Decimal `json:"full_unit_cost"`
	Margin              decimal.Decimal `json:"margin"`
	MarginPercent       decimal.Decimal `json:"margin_percent"`
	// HasSalesData distinguishes "no sales in window" from real numbers;
	// consumers must not fabricate values for products without sales.
	HasSalesData           bool         `json:"has_sales_data"`
	Urgency                UrgencyLevel `json:"urgency"`
	RecommendedPurchaseQty int          `json:"recommended_purchase_qty"`
}
