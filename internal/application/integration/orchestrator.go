package integration

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pharmadash/backend/internal/domain/integration"
)

// SyncOrchestrator runs the order and product legs as independent units of
// work. A failure in one leg is captured in that leg's report; the other
// leg still executes. RunAll never returns a Go error - callers always get
// a structured report describing both legs.
type SyncOrchestrator struct {
	platform integration.CommercePlatform
	orders   *OrderSyncer
	products *ProductSyncer
	logger   *zap.Logger
}

// NewSyncOrchestrator creates a sync orchestrator
func NewSyncOrchestrator(platform integration.CommercePlatform, orders *OrderSyncer, products *ProductSyncer, logger *zap.Logger) *SyncOrchestrator {
	return &SyncOrchestrator{
		platform: platform,
		orders:   orders,
		products: products,
		logger:   logger.Named("sync"),
	}
}

// RunAll executes both legs sequentially, orders first, and aggregates a report
func (o *SyncOrchestrator) RunAll(ctx context.Context) RunReport {
	report := RunReport{StartedAt: time.Now()}

	report.Orders = o.runOrderLeg(ctx)
	report.Products = o.runProductLeg(ctx)

	report.FinishedAt = time.Now()
	o.logger.Info("Sync run finished",
		zap.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
		zap.Bool("orders_failed", report.Orders.Failed()),
		zap.Bool("products_failed", report.Products.Failed()),
	)
	return report
}

func (o *SyncOrchestrator) runOrderLeg(ctx context.Context) (report OrderLegReport) {
	defer func() {
		if r := recover(); r != nil {
			report = OrderLegReport{Error: fmt.Sprintf("order leg panicked: %v", r)}
			o.logger.Error("Order leg panicked", zap.Any("panic", r))
		}
	}()

	rawOrders, err := o.platform.FetchOrders(ctx)
	if err != nil {
		o.logger.Error("Order leg failed to fetch upstream orders", zap.Error(err))
		return OrderLegReport{Error: err.Error()}
	}

	result := o.orders.Sync(ctx, rawOrders)
	return OrderLegReport{Result: &result}
}

func (o *SyncOrchestrator) runProductLeg(ctx context.Context) (report ProductLegReport) {
	defer func() {
		if r := recover(); r != nil {
			report = ProductLegReport{Error: fmt.Sprintf("product leg panicked: %v", r)}
			o.logger.Error("Product leg panicked", zap.Any("panic", r))
		}
	}()

	rawProducts, err := o.platform.FetchProducts(ctx)
	if err != nil {
		o.logger.Error("Product leg failed to fetch upstream products", zap.Error(err))
		return ProductLegReport{Error: err.Error()}
	}

	result := o.products.Sync(ctx, rawProducts)
	return ProductLegReport{Result: &result}
}
