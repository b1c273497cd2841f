package analytics

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pharmadash/backend/internal/domain/catalog"
	"github.com/pharmadash/backend/internal/domain/finance"
	"github.com/pharmadash/backend/internal/domain/shared"
	"github.com/pharmadash/backend/internal/domain/trade"
)

// Config holds the purchasing-signal parameters
type Config struct {
	LeadTimeDays    int
	MinStock        int
	DeliveryPerUnit decimal.Decimal
}

// Engine computes per-product financial and inventory analytics over a
// date window. Any repository failure fails the whole computation; there
// is no partial-analytics fallback, because purchasing decisions depend on
// the output being complete.
type Engine struct {
	products catalog.ProductRepository
	orders   trade.OrderRepository
	rates    finance.ExchangeRateRepository
	expenses finance.ExpenseRepository
	config   Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewEngine creates an analytics engine
func NewEngine(
	products catalog.ProductRepository,
	orders trade.OrderRepository,
	rates finance.ExchangeRateRepository,
	expenses finance.ExpenseRepository,
	config Config,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		products: products,
		orders:   orders,
		rates:    rates,
		expenses: expenses,
		config:   config,
		logger:   logger.Named("analytics"),
		now:      time.Now,
	}
}

// salesAggregate accumulates the sales observed for one normalized item name
type salesAggregate struct {
	units   int
	revenue decimal.Decimal
	prices  []decimal.Decimal
}

// ComputeProductsAnalytics computes the replenishment view for all visible
// products over [from, to], sorted by margin percent descending.
func (e *Engine) ComputeProductsAnalytics(ctx context.Context, from, to time.Time) ([]ProductAnalytics, error) {
	rate, err := e.resolveRate(ctx)
	if err != nil {
		return nil, err
	}

	buckets, err := e.resolveExpenseBuckets(ctx, from, to)
	if err != nil {
		return nil, err
	}

	products, err := e.products.FindVisible(ctx)
	if err != nil {
		return nil, err
	}

	sales, totalUnitsSold, err := e.aggregateSales(ctx, from, to)
	if err != nil {
		return nil, err
	}

	// Shared window expenses are spread evenly across every unit sold in
	// the window, regardless of which product the unit belonged to.
	unitsDivisor := decimal.NewFromInt(int64(totalUnitsSold))
	perUnit := func(total decimal.Decimal) decimal.Decimal {
		if totalUnitsSold == 0 {
			return decimal.Zero
		}
		return total.Div(unitsDivisor)
	}
	logisticsPerUnit := perUnit(buckets[finance.ExpenseCategoryLogistics])
	advertisingPerUnit := perUnit(buckets[finance.ExpenseCategoryAdvertising])
	otherPerUnit := perUnit(buckets[finance.ExpenseCategoryOther])

	elapsedDays := elapsedWindowDays(from, to, e.now())

	result := make([]ProductAnalytics, 0, len(products))
	for _, product := range products {
		result = append(result, e.computeOne(&product, sales[normalizeName(product.Name)], rate, elapsedDays, logisticsPerUnit, advertisingPerUnit, otherPerUnit))
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].MarginPercent.GreaterThan(result[j].MarginPercent)
	})
	return result, nil
}

// ComputeReplenishment returns only the products needing purchasing
// attention, most urgent first.
func (e *Engine) ComputeReplenishment(ctx context.Context, from, to time.Time) ([]ProductAnalytics, error) {
	all, err := e.ComputeProductsAnalytics(ctx, from, to)
	if err != nil {
		return nil, err
	}
	urgent := make([]ProductAnalytics, 0)
	for _, pa := range all {
		if pa.Urgency != UrgencyNormal {
			urgent = append(urgent, pa)
		}
	}
	sort.SliceStable(urgent, func(i, j int) bool {
		return urgent[i].DaysUntilZero < urgent[j].DaysUntilZero
	})
	return urgent, nil
}

// resolveRate returns the buffered TRY→RUB rate: the latest persisted
// observation, or the documented fallback when the series is empty.
func (e *Engine) resolveRate(ctx context.Context) (decimal.Decimal, error) {
	latest, err := e.rates.Latest(ctx, "TRY")
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			e.logger.Warn("No persisted exchange rate, using fallback",
				zap.String("fallback", finance.FallbackTRYRUB.String()),
			)
			return finance.FallbackTRYRUB, nil
		}
		return decimal.Zero, err
	}
	return latest.RateWithBuffer, nil
}

// resolveExpenseBuckets maps the fixed expense categories to their window
// totals, defaulting to zero for absent categories.
func (e *Engine) resolveExpenseBuckets(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error) {
	totals, err := e.expenses.SumByCategory(ctx, from, to)
	if err != nil {
		return nil, err
	}
	buckets := map[string]decimal.Decimal{
		finance.ExpenseCategoryLogistics:   decimal.Zero,
		finance.ExpenseCategoryAdvertising: decimal.Zero,
		finance.ExpenseCategoryOther:       decimal.Zero,
	}
	for _, t := range totals {
		if _, ok := buckets[t.Category]; ok {
			buckets[t.Category] = t.Total
		}
	}
	return buckets, nil
}

// aggregateSales groups revenue-bearing sales in the window by normalized
// item name and returns the total units sold across all names.
func (e *Engine) aggregateSales(ctx context.Context, from, to time.Time) (map[string]*salesAggregate, int, error) {
	orders, err := e.orders.FindInRange(ctx, from, to)
	if err != nil {
		return nil, 0, err
	}

	sales := make(map[string]*salesAggregate)
	totalUnits := 0
	for _, order := range orders {
		if !trade.IsRevenueBearing(order.Status) {
			continue
		}
		for _, item := range order.Items {
			key := normalizeName(item.Name)
			agg, ok := sales[key]
			if !ok {
				agg = &salesAggregate{revenue: decimal.Zero}
				sales[key] = agg
			}
			agg.units += item.Quantity
			agg.revenue = agg.revenue.Add(item.Total)
			agg.prices = append(agg.prices, item.Price)
			totalUnits += item.Quantity
		}
	}
	return sales, totalUnits, nil
}

// computeOne derives the analytics row for a single product
func (e *Engine) computeOne(
	product *catalog.Product,
	sales *salesAggregate,
	rate decimal.Decimal,
	elapsedDays int,
	logisticsPerUnit, advertisingPerUnit, otherPerUnit decimal.Decimal,
) ProductAnalytics {
	pa := ProductAnalytics{
		ProductID:  product.ID,
		ExternalID: product.ExternalID,
		Name:       product.Name,
		Stock:      product.StockQuantity,
		InTransit:  product.InTransit,
	}

	if product.CostPriceTRY != nil {
		pa.CostTRY = *product.CostPriceTRY
	}
	pa.CostRUB = pa.CostTRY.Mul(rate)

	pa.Expenses = ExpenseBreakdown{
		Delivery:    e.config.DeliveryPerUnit,
		Logistics:   logisticsPerUnit,
		Advertising: advertisingPerUnit,
		Other:       otherPerUnit,
	}
	pa.Expenses.Total = pa.Expenses.Delivery.
		Add(pa.Expenses.Logistics).
		Add(pa.Expenses.Advertising).
		Add(pa.Expenses.Other)

	pa.FullUnitCost = pa.CostRUB.Add(pa.Expenses.Total)

	if sales != nil && sales.units > 0 {
		pa.HasSalesData = true
		pa.UnitsSold = sales.units
		pa.TotalRevenue = sales.revenue
		pa.AvgRetailPrice = meanPrice(sales.prices)
		pa.AvgDailyConsumption = decimal.NewFromInt(int64(sales.units)).
			Div(decimal.NewFromInt(int64(elapsedDays)))
	} else {
		// No matching sales: report the list price and an explicit
		// zero-consumption state instead of fabricating numbers.
		pa.TotalRevenue = decimal.Zero
		pa.AvgRetailPrice = product.Price
		pa.AvgDailyConsumption = decimal.Zero
	}

	if pa.AvgDailyConsumption.IsPositive() {
		pa.DaysUntilZero = int(decimal.NewFromInt(int64(product.StockQuantity)).
			Div(pa.AvgDailyConsumption).IntPart())
	} else {
		pa.DaysUntilZero = DaysUntilZeroSentinel
	}

	pa.Margin = pa.AvgRetailPrice.Sub(pa.FullUnitCost)
	if pa.FullUnitCost.IsPositive() {
		pa.MarginPercent = pa.Margin.Div(pa.FullUnitCost).Mul(decimal.NewFromInt(100))
	} else {
		pa.MarginPercent = decimal.Zero
	}

	pa.Urgency = e.classifyUrgency(pa.DaysUntilZero, product.StockQuantity)
	pa.RecommendedPurchaseQty = e.recommendPurchaseQty(pa.Urgency, pa.AvgDailyConsumption, product.StockQuantity)
	return pa
}

// classifyUrgency derives the categorical purchasing signal
func (e *Engine) classifyUrgency(daysUntilZero, stock int) UrgencyLevel {
	leadTime := float64(e.config.LeadTimeDays)
	minStock := float64(e.config.MinStock)
	days := float64(daysUntilZero)

	switch {
	case days <= leadTime/2 || float64(stock) <= minStock:
		return UrgencyCritical
	case days <= leadTime || float64(stock) <= minStock*1.5:
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}

// recommendPurchaseQty computes the suggested order size for products near
// depletion: enough to cover consumption through the lead time plus twice
// the minimum stock, net of what is already on hand.
func (e *Engine) recommendPurchaseQty(urgency UrgencyLevel, avgDaily decimal.Decimal, stock int) int {
	if urgency == UrgencyNormal {
		return 0
	}
	needed := avgDaily.Mul(decimal.NewFromInt(int64(e.config.LeadTimeDays))).
		Add(decimal.NewFromInt(int64(e.config.MinStock * 2))).
		Sub(decimal.NewFromInt(int64(stock)))
	if needed.IsNegative() {
		return 0
	}
	qty, _ := needed.Ceil().Float64()
	return int(qty)
}

// elapsedWindowDays returns ceil((min(to, now) - from) / 1 day), floored at
// 1 so a window ending in the future does not deflate daily averages.
func elapsedWindowDays(from, to, now time.Time) int {
	end := to
	if now.Before(end) {
		end = now
	}
	days := int(math.Ceil(end.Sub(from).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// meanPrice returns the arithmetic mean of the observed sale unit prices
func meanPrice(prices []decimal.Decimal) decimal.Decimal {
	if len(prices) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, p := range prices {
		sum = sum.Add(p)
	}
	return sum.Div(decimal.NewFromInt(int64(len(prices))))
}

// normalizeName is the single place where free-text item names are matched
// against catalog products. Two spellings that normalize differently will
// split analytics; joining by a stable identifier captured at import time
// is the known fix.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
