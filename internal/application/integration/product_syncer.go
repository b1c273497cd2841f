package integration

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pharmadash/backend/internal/domain/catalog"
	"github.com/pharmadash/backend/internal/domain/integration"
	"github.com/pharmadash/backend/internal/domain/shared"
)

// ProductSyncer reconciles upstream products into the local catalog.
// Products without a usable price are skipped rather than created as
// placeholders; per-item write failures never abort the batch.
type ProductSyncer struct {
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewProductSyncer creates a product syncer
func NewProductSyncer(products catalog.ProductRepository, logger *zap.Logger) *ProductSyncer {
	return &ProductSyncer{
		products: products,
		logger:   logger.Named("product-sync"),
	}
}

// Sync upserts the given raw products by external ID and returns per-batch counts
func (s *ProductSyncer) Sync(ctx context.Context, rawProducts []integration.RawProduct) ProductSyncResult {
	var result ProductSyncResult

	for _, raw := range rawProducts {
		externalID := upstreamID(raw.ID)

		price, ok := parseProductPrice(raw.Price)
		if !ok {
			s.logger.Warn("Skipping product without a usable price",
				zap.String("external_id", externalID),
				zap.String("name", raw.Name),
			)
			result.Skipped++
			continue
		}

		existing, err := s.products.FindByExternalID(ctx, externalID)
		switch {
		case err == nil:
			if err := s.update(ctx, existing, raw, price); err != nil {
				s.logger.Error("Failed to update product",
					zap.String("external_id", externalID),
					zap.Error(err),
				)
				result.Errored++
				continue
			}
			result.Updated++
		case errors.Is(err, shared.ErrNotFound):
			if err := s.create(ctx, externalID, raw, price); err != nil {
				s.logger.Error("Failed to create product",
					zap.String("external_id", externalID),
					zap.Error(err),
				)
				result.Errored++
				continue
			}
			result.Created++
		default:
			s.logger.Error("Failed to look up product",
				zap.String("external_id", externalID),
				zap.Error(err),
			)
			result.Errored++
		}
	}

	s.logger.Info("Product sync finished",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("errored", result.Errored),
	)
	return result
}

func (s *ProductSyncer) create(ctx context.Context, externalID string, raw integration.RawProduct, price decimal.Decimal) error {
	product, err := catalog.NewProduct(externalID, raw.Name, price)
	if err != nil {
		return err
	}
	if err := product.UpdateFromUpstream(raw.Name, raw.Description, raw.Brand, raw.MainIngredient, raw.DosageForm, price, raw.StockQuantity, raw.PackageQuantity, raw.Weight); err != nil {
		return err
	}
	return s.products.Create(ctx, product)
}

func (s *ProductSyncer) update(ctx context.Context, product *catalog.Product, raw integration.RawProduct, price decimal.Decimal) error {
	if err := product.UpdateFromUpstream(raw.Name, raw.Description, raw.Brand, raw.MainIngredient, raw.DosageForm, price, raw.StockQuantity, raw.PackageQuantity, raw.Weight); err != nil {
		return err
	}
	return s.products.Update(ctx, product)
}

// parseProductPrice parses the optional upstream price. A missing, zero or
// unparsable price means the product is not importable.
func parseProductPrice(raw *string) (decimal.Decimal, bool) {
	if raw == nil || *raw == "" {
		return decimal.Zero, false
	}
	price, err := decimal.NewFromString(*raw)
	if err != nil || !price.IsPositive() {
		return decimal.Zero, false
	}
	return price, true
}
