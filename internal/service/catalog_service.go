package service

import (
	"context"
	"fmt"

	"github.com/mhafiz71/linkup-gadgets/internal/auth"
	"github.com/mhafiz71/linkup-gadgets/internal/domain"
	"github.com/mhafiz71/linkup-gadgets/internal/repository"
	"go.uber.org/zap"
)

// CatalogService is the storefront and vendor surface of the product catalog.
// Reads are public; stock adjustment requires the vendor capability and is
// scoped to the vendor's own products.
type CatalogService struct {
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewCatalogService(products repository.ProductRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		products: products,
		logger:   logger,
	}
}

func (s *CatalogService) ProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	product, err := s.products.GetProductBySlug(ctx, slug)
	if err != nil {
		return domain.Product{}, fmt.Errorf("products.GetProductBySlug: %w", err)
	}
	return product, nil
}

// SetStock overwrites a product's stock level. The repository scopes the
// update to the caller's vendor id, so a foreign product reads as not found.
func (s *CatalogService) SetStock(ctx context.Context, actor auth.Actor, productID int64, quantity int32) (domain.Product, error) {
	if actor.IsAnonymous() {
		return domain.Product{}, ErrNotAuthenticated
	}
	if !actor.HasCapability(auth.CapabilityVendor) {
		return domain.Product{}, ErrForbidden
	}
	if quantity < 0 {
		return domain.Product{}, fmt.Errorf("%w: quantity must be non-negative", ErrInvalidInput)
	}

	if err := s.products.SetStock(ctx, actor.VendorID, productID, quantity); err != nil {
		return domain.Product{}, fmt.Errorf("products.SetStock: %w", err)
	}

	s.logger.Info("vendor stock adjusted",
		zap.Int64("vendor_id", actor.VendorID),
		zap.Int64("product_id", productID),
		zap.Int32("quantity", quantity),
	)

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("products.GetProduct: %w", err)
	}
	return product, nil
}
