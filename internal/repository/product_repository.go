package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mhafiz71/linkup-gadgets/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductRepository is the catalog surface the rest of the system consumes.
// Stock moves only by increments and decrements, never by direct overwrite
// from the cart/order core; SetStock exists for the vendor catalog surface.
type ProductRepository interface {
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (domain.Product, error)
	GetProductsByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (int64, error)
	SetStock(ctx context.Context, vendorID, productID int64, quantity int32) error
}

type productRepository struct {
	pool *pgxpool.Pool
}

func NewProduct(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

const productColumns = `id, vendor_id, name, slug, price_amount, price_currency, stock_quantity, is_featured, created_at`

func (r *productRepository) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("query product by id: %w", err)
	}

	return product, nil
}

func (r *productRepository) GetProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE slug = $1`

	product, err := scanProduct(r.pool.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("query product by slug: %w", err)
	}

	return product, nil
}

// GetProductsByIDs is the batched lookup behind cart iteration: one query for
// however many lines the cart holds. Ids missing from the catalog are simply
// absent from the result.
func (r *productRepository) GetProductsByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("query products by ids: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product domain.Product) (int64, error) {
	query := `INSERT INTO products (vendor_id, name, slug, price_amount, price_currency, stock_quantity, is_featured)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		product.VendorID,
		product.Name,
		product.Slug,
		product.Price.Amount,
		product.Price.Currency.String(),
		product.StockQuantity,
		product.IsFeatured,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}

	return id, nil
}

// SetStock overwrites a product's stock level, scoped to the owning vendor.
// This is the vendor catalog surface and deliberately not reachable from the
// order workflow.
func (r *productRepository) SetStock(ctx context.Context, vendorID, productID int64, quantity int32) error {
	if quantity < 0 {
		return fmt.Errorf("quantity must be non-negative")
	}

	query := `UPDATE products SET stock_quantity = $3 WHERE id = $1 AND vendor_id = $2`

	cmdTag, err := r.pool.Exec(ctx, query, productID, vendorID, quantity)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

// reserveStock decrements inside the caller's transaction. The stock check
// lives in the WHERE clause, so two concurrent orders can never drive the
// count negative.
func reserveStock(ctx context.Context, tx pgx.Tx, productID int64, quantity int32) error {
	query := `UPDATE products SET stock_quantity = stock_quantity - $2
	          WHERE id = $1 AND stock_quantity >= $2`

	cmdTag, err := tx.Exec(ctx, query, productID, quantity)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Distinguish a vanished product from one that is simply out of stock.
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
			return fmt.Errorf("check product existence: %w", err)
		}
		if !exists {
			return ErrProductNotFound
		}
		return ErrInsufficientStock
	}

	return nil
}

// restoreStock increments inside the caller's transaction. A product deleted
// since the order was placed is skipped; there is nothing to restore to.
func restoreStock(ctx context.Context, tx pgx.Tx, productID int64, quantity int32) error {
	query := `UPDATE products SET stock_quantity = stock_quantity + $2 WHERE id = $1`

	if _, err := tx.Exec(ctx, query, productID, quantity); err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}

	return nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p             domain.Product
		priceAmount   decimal.Decimal
		priceCurrency string
	)

	err := row.Scan(
		&p.ID,
		&p.VendorID,
		&p.Name,
		&p.Slug,
		&priceAmount,
		&priceCurrency,
		&p.StockQuantity,
		&p.IsFeatured,
		&p.CreatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}

	parsedCurrency, err := currency.ParseISO(priceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", priceCurrency, err)
	}
	p.Price = domain.Money{Amount: priceAmount, Currency: parsedCurrency}

	return p, nil
}
