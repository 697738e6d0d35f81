package cart

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/mhafiz71/linkup-gadgets/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CatalogReader is the slice of the product catalog the cart needs: one
// batched lookup for the item join. Consumers define this interface, not the
// Postgres implementation.
type CatalogReader interface {
	GetProductsByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
}

// Engine mutates the session-backed cart. It performs no stock checks; those
// belong to the add-to-cart boundary which can see both the live catalog and
// the quantity already held in the cart.
type Engine struct {
	store   SessionStore
	catalog CatalogReader
}

// Item is one line of the cart joined against the live catalog. It is a fresh
// copy per iteration; holding or mutating it has no effect on the stored cart.
type Item struct {
	Product    domain.Product
	Quantity   int32
	Price      decimal.Decimal
	TotalPrice decimal.Decimal
}

func NewEngine(store SessionStore, catalog CatalogReader) *Engine {
	return &Engine{
		store:   store,
		catalog: catalog,
	}
}

// Add inserts the product on first sight, capturing its current price as a
// string, then either overrides or increments the quantity. A line that would
// end up at zero or below is removed rather than stored.
func (e *Engine) Add(ctx context.Context, sessionID string, product domain.Product, quantity int32, override bool) error {
	cart, err := e.load(ctx, sessionID)
	if err != nil {
		return err
	}

	key := domain.LineKey(product.ID)
	line, ok := cart.Lines[key]
	if !ok {
		line = domain.CartLine{Quantity: 0, UnitPrice: product.Price.Amount.String()}
	}

	if override {
		line.Quantity = quantity
	} else {
		line.Quantity += quantity
	}

	if line.Quantity <= 0 {
		delete(cart.Lines, key)
	} else {
		cart.Lines[key] = line
	}

	if err := e.store.Set(ctx, sessionID, cart); err != nil {
		return fmt.Errorf("store.Set: %w", err)
	}
	return nil
}

// Remove deletes the product's line entirely. Removing an absent product is a
// no-op.
func (e *Engine) Remove(ctx context.Context, sessionID string, productID int64) error {
	cart, err := e.load(ctx, sessionID)
	if err != nil {
		return err
	}

	key := domain.LineKey(productID)
	if _, ok := cart.Lines[key]; !ok {
		return nil
	}
	delete(cart.Lines, key)

	if err := e.store.Set(ctx, sessionID, cart); err != nil {
		return fmt.Errorf("store.Set: %w", err)
	}
	return nil
}

// ItemQuantity reports the stored quantity for a product, zero when absent.
// It never mutates the session.
func (e *Engine) ItemQuantity(ctx context.Context, sessionID string, productID int64) (int32, error) {
	cart, err := e.load(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	return cart.Lines[domain.LineKey(productID)].Quantity, nil
}

// Items joins the stored lines against the live catalog in a single batched
// lookup and returns fresh copies. Products deleted from the catalog since
// they were added are silently skipped: the cart degrades instead of erroring.
// Calling Items twice yields identical results; the stored blob is never
// touched.
func (e *Engine) Items(ctx context.Context, sessionID string) ([]Item, error) {
	cart, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, nil
	}

	ids := make([]int64, 0, len(cart.Lines))
	for key := range cart.Lines {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed cart key %q: %w", key, err)
		}
		ids = append(ids, id)
	}

	products, err := e.catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("catalog.GetProductsByIDs: %w", err)
	}
	productMap := lo.KeyBy(products, func(p domain.Product) string {
		return domain.LineKey(p.ID)
	})

	items := make([]Item, 0, len(cart.Lines))
	for key, line := range cart.Lines {
		product, ok := productMap[key]
		if !ok {
			continue
		}

		price, err := decimal.NewFromString(line.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("malformed cart price %q: %w", line.UnitPrice, err)
		}

		items = append(items, Item{
			Product:    product,
			Quantity:   line.Quantity,
			Price:      price,
			TotalPrice: price.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}

	return items, nil
}

// TotalPrice sums locked-in price times quantity over the stored lines. The
// live catalog is never consulted, so later price changes do not move the
// total.
func (e *Engine) TotalPrice(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	cart, err := e.load(ctx, sessionID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, line := range cart.Lines {
		price, err := decimal.NewFromString(line.UnitPrice)
		if err != nil {
			return decimal.Zero, fmt.Errorf("malformed cart price %q: %w", line.UnitPrice, err)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return total, nil
}

// Len counts items across all lines.
func (e *Engine) Len(ctx context.Context, sessionID string) (int32, error) {
	cart, err := e.load(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return cart.Len(), nil
}

// Clear removes the cart blob from the session entirely.
func (e *Engine) Clear(ctx context.Context, sessionID string) error {
	if err := e.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("store.Delete: %w", err)
	}
	return nil
}

func (e *Engine) load(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := e.store.Get(ctx, sessionID)
	if errors.Is(err, ErrNoCart) {
		return domain.NewCart(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("store.Get: %w", err)
	}
	return cart, nil
}
