package service

import (
	"context"
	"fmt"

	"github.com/mhafiz71/linkup-gadgets/internal/cart"
	"github.com/mhafiz71/linkup-gadgets/internal/domain"
	"github.com/mhafiz71/linkup-gadgets/internal/repository"
	"github.com/shopspring/decimal"
)

// CartEngine is the slice of the cart engine the services consume.
type CartEngine interface {
	Add(ctx context.Context, sessionID string, product domain.Product, quantity int32, override bool) error
	Remove(ctx context.Context, sessionID string, productID int64) error
	ItemQuantity(ctx context.Context, sessionID string, productID int64) (int32, error)
	Items(ctx context.Context, sessionID string) ([]cart.Item, error)
	TotalPrice(ctx context.Context, sessionID string) (decimal.Decimal, error)
	Len(ctx context.Context, sessionID string) (int32, error)
	Clear(ctx context.Context, sessionID string) error
}

// CartService is the add-to-cart boundary. Stock validation happens here,
// against the live catalog plus whatever the cart already holds; the engine
// underneath only mutates session state.
type CartService struct {
	engine   CartEngine
	products repository.ProductRepository
}

func NewCartService(engine CartEngine, products repository.ProductRepository) *CartService {
	return &CartService{
		engine:   engine,
		products: products,
	}
}

// CartView is the cart joined against the catalog, ready for rendering.
type CartView struct {
	Items []cart.Item
	Total decimal.Decimal
	Count int32
}

func (s *CartService) AddItem(ctx context.Context, sessionID string, productID int64, quantity int32) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("products.GetProduct: %w", err)
	}

	inCart, err := s.engine.ItemQuantity(ctx, sessionID, productID)
	if err != nil {
		return fmt.Errorf("engine.ItemQuantity: %w", err)
	}

	if quantity > product.StockQuantity-inCart {
		return repository.ErrInsufficientStock
	}

	if err := s.engine.Add(ctx, sessionID, product, quantity, false); err != nil {
		return fmt.Errorf("engine.Add: %w", err)
	}
	return nil
}

// UpdateQuantity replaces the stored quantity outright (override semantics).
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, productID int64, quantity int32) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("products.GetProduct: %w", err)
	}

	if quantity > product.StockQuantity {
		return repository.ErrInsufficientStock
	}

	if err := s.engine.Add(ctx, sessionID, product, quantity, true); err != nil {
		return fmt.Errorf("engine.Add: %w", err)
	}
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID string, productID int64) error {
	if err := s.engine.Remove(ctx, sessionID, productID); err != nil {
		return fmt.Errorf("engine.Remove: %w", err)
	}
	return nil
}

func (s *CartService) View(ctx context.Context, sessionID string) (*CartView, error) {
	items, err := s.engine.Items(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("engine.Items: %w", err)
	}

	count, err := s.engine.Len(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("engine.Len: %w", err)
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalPrice)
	}

	return &CartView{
		Items: items,
		Total: total,
		Count: count,
	}, nil
}

func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	if err := s.engine.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("engine.Clear: %w", err)
	}
	return nil
}
