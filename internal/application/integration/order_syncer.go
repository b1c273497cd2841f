package integration

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pharmadash/backend/internal/domain/integration"
	"github.com/pharmadash/backend/internal/domain/shared"
	"github.com/pharmadash/backend/internal/domain/trade"
)

// OrderSyncer reconciles upstream orders into local storage. Every order is
// processed independently: validation failures skip the order, write
// failures count it as errored, and neither ever aborts the batch.
type OrderSyncer struct {
	orders trade.OrderRepository
	logger *zap.Logger
}

// NewOrderSyncer creates an order syncer
func NewOrderSyncer(orders trade.OrderRepository, logger *zap.Logger) *OrderSyncer {
	return &OrderSyncer{
		orders: orders,
		logger: logger.Named("order-sync"),
	}
}

// Sync upserts the given raw orders by external ID and returns per-batch counts
func (s *OrderSyncer) Sync(ctx context.Context, rawOrders []integration.RawOrder) OrderSyncResult {
	var result OrderSyncResult

	for _, raw := range rawOrders {
		externalID := upstreamID(raw.ID)

		total, err := decimal.NewFromString(raw.TotalAmount)
		if err != nil || total.IsNegative() {
			s.logger.Warn("Skipping order with unparsable total",
				zap.String("external_id", externalID),
				zap.String("total_amount", raw.TotalAmount),
			)
			result.Skipped++
			continue
		}

		orderDate, err := integration.EffectiveOrderDate(raw.PaidAt, raw.CreatedAt)
		if err != nil {
			s.logger.Warn("Skipping order with unparsable date",
				zap.String("external_id", externalID),
				zap.Error(err),
			)
			result.Skipped++
			continue
		}

		items := s.buildItems(externalID, raw.OrderItems)

		if err := s.upsert(ctx, externalID, raw, total, orderDate, items); err != nil {
			s.logger.Error("Failed to upsert order",
				zap.String("external_id", externalID),
				zap.Error(err),
			)
			result.Errored++
			continue
		}
		result.Imported++
	}

	s.logger.Info("Order sync finished",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("errored", result.Errored),
	)
	return result
}

// buildItems converts raw line items, dropping any with a non-numeric price
// or non-positive quantity. Dropped items do not fail the order.
func (s *OrderSyncer) buildItems(externalID string, rawItems []integration.RawOrderItem) []trade.OrderItem {
	items := make([]trade.OrderItem, 0, len(rawItems))
	for _, rawItem := range rawItems {
		price, err := decimal.NewFromString(rawItem.Price)
		if err != nil || price.IsNegative() || rawItem.Quantity <= 0 {
			s.logger.Warn("Dropping invalid order item",
				zap.String("order_external_id", externalID),
				zap.String("item_name", rawItem.Name),
				zap.String("price", rawItem.Price),
				zap.Int("quantity", rawItem.Quantity),
			)
			continue
		}
		items = append(items, trade.OrderItem{
			BaseEntity: shared.NewBaseEntity(),
			Name:       rawItem.Name,
			Quantity:   rawItem.Quantity,
			Price:      price,
			Total:      price.Mul(decimal.NewFromInt(int64(rawItem.Quantity))),
		})
	}
	return items
}

func (s *OrderSyncer) upsert(ctx context.Context, externalID string, raw integration.RawOrder, total decimal.Decimal, orderDate time.Time, items []trade.OrderItem) error {
	paidAt := parseOptionalDate(raw.PaidAt)
	shippedAt := parseOptionalDate(raw.ShippedAt)

	var customerName, customerCity string
	if raw.User != nil {
		customerName = raw.User.FullName
		customerCity = raw.User.City
	}
	var bankCard string
	if raw.BankCard != nil {
		bankCard = *raw.BankCard
	}
	bonus := decimal.NewFromFloat(raw.Bonus)
	deliveryCost := decimal.NewFromFloat(raw.DeliveryCost)

	existing, err := s.orders.FindByExternalID(ctx, externalID)
	switch {
	case err == nil:
		existing.ApplyUpstream(raw.Status, total, orderDate, paidAt, shippedAt, customerName, customerCity, bonus, deliveryCost, bankCard)
		return s.orders.Update(ctx, existing, items)
	case errors.Is(err, shared.ErrNotFound):
		order, err := trade.NewOrder(externalID, raw.Status, total, orderDate)
		if err != nil {
			return err
		}
		order.ApplyUpstream(raw.Status, total, orderDate, paidAt, shippedAt, customerName, customerCity, bonus, deliveryCost, bankCard)
		for i := range items {
			items[i].OrderID = order.ID
		}
		order.Items = items
		return s.orders.Create(ctx, order)
	default:
		return err
	}
}
