package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mhafiz71/linkup-gadgets/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderAlreadyPaid    = errors.New("order is already paid")
	ErrCancelWindowExpired = errors.New("cancellation window has expired")
)

type OrderRepository interface {
	// CreateOrder persists the order header, its item snapshots and the stock
	// decrements in one transaction. Items must be non-empty.
	CreateOrder(ctx context.Context, order *domain.Order) error

	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	// GetUserOrder scopes the lookup to the owning user; a foreign order is
	// indistinguishable from a missing one.
	GetUserOrder(ctx context.Context, id uuid.UUID, userID string) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)

	// MarkPaid flips the paid flag exactly once. The boolean reports whether
	// this call performed the transition; a duplicate invocation gets false.
	MarkPaid(ctx context.Context, id uuid.UUID, reference string) (bool, error)

	// CancelOrder restores stock for every item and deletes the order in one
	// transaction. Orders paid, foreign, or created before cutoff are rejected.
	CancelOrder(ctx context.Context, id uuid.UUID, userID string, cutoff time.Time) (*domain.Order, error)

	// ListVendorSales returns item snapshots of paid orders that reference the
	// vendor's products.
	ListVendorSales(ctx context.Context, vendorID int64) ([]domain.OrderItem, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

func NewOrder(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	if len(order.Items) == 0 {
		return errors.New("no items in order")
	}

	_, err := withTx(ctx, r.pool, func(tx pgx.Tx) (struct{}, error) {
		query := `INSERT INTO orders (id, user_id, full_name, email, phone, address, city,
		                              total_paid_amount, total_paid_currency, paid, status, payment_reference)
		          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

		_, err := tx.Exec(ctx, query,
			order.ID,
			order.UserID,
			order.FullName,
			order.Email,
			order.Phone,
			order.Address,
			order.City,
			order.TotalPaid.Amount,
			order.TotalPaid.Currency.String(),
			order.Paid,
			order.Status.String(),
			order.PaymentReference,
		)
		if err != nil {
			return struct{}{}, fmt.Errorf("insert order: %w", err)
		}

		itemQuery := `INSERT INTO order_items (order_id, product_id, product_name, price_amount, price_currency, quantity)
		              VALUES ($1, $2, $3, $4, $5, $6)`

		for _, item := range order.Items {
			if _, err := tx.Exec(ctx, itemQuery,
				order.ID,
				item.ProductID,
				item.ProductName,
				item.Price.Amount,
				item.Price.Currency.String(),
				item.Quantity,
			); err != nil {
				return struct{}{}, fmt.Errorf("insert order item: %w", err)
			}

			if err := reserveStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return struct{}{}, fmt.Errorf("reserve stock for product %d: %w", item.ProductID, err)
			}
		}

		return struct{}{}, nil
	})
	if err != nil {
		return err
	}

	return nil
}

const orderColumns = `id, user_id, full_name, email, phone, address, city,
	total_paid_amount, total_paid_currency, paid, status, payment_reference, created_at, updated_at`

func (r *orderRepository) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.getOrder(ctx, query, id)
}

func (r *orderRepository) GetUserOrder(ctx context.Context, id uuid.UUID, userID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND user_id = $2`
	return r.getOrder(ctx, query, id, userID)
}

func (r *orderRepository) getOrder(ctx context.Context, query string, args ...any) (*domain.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	items, err := r.getOrderItems(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	order.Items = items

	return order, nil
}

func (r *orderRepository) getOrderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `SELECT product_id, product_name, price_amount, price_currency, quantity
	          FROM order_items WHERE order_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrderItems(rows)
}

func (r *orderRepository) ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders by user id: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, order := range orders {
		items, err := r.getOrderItems(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("query order items: %w", err)
		}
		order.Items = items
	}

	return orders, nil
}

func (r *orderRepository) MarkPaid(ctx context.Context, id uuid.UUID, reference string) (bool, error) {
	query := `UPDATE orders SET paid = TRUE, status = $2, payment_reference = $3, updated_at = now()
	          WHERE id = $1 AND paid = FALSE`

	cmdTag, err := r.pool.Exec(ctx, query, id, domain.OrderStatusPaid.String(), reference)
	if err != nil {
		return false, fmt.Errorf("mark order paid: %w", err)
	}
	if cmdTag.RowsAffected() > 0 {
		return true, nil
	}

	// Zero rows: either the order is gone or a duplicate callback got here
	// after the first one already flipped the flag.
	var paid bool
	err = r.pool.QueryRow(ctx, `SELECT paid FROM orders WHERE id = $1`, id).Scan(&paid)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, ErrOrderNotFound
	}
	if err != nil {
		return false, fmt.Errorf("query order paid flag: %w", err)
	}

	return false, nil
}

func (r *orderRepository) CancelOrder(ctx context.Context, id uuid.UUID, userID string, cutoff time.Time) (*domain.Order, error) {
	order, err := withTx(ctx, r.pool, func(tx pgx.Tx) (*domain.Order, error) {
		// Lock the row so two concurrent cancellations serialize; the loser
		// finds the row already deleted.
		query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND user_id = $2 FOR UPDATE`

		order, err := scanOrder(tx.QueryRow(ctx, query, id, userID))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("query order for cancel: %w", err)
		}

		if order.Paid {
			return nil, ErrOrderAlreadyPaid
		}
		if order.CreatedAt.Before(cutoff) {
			return nil, ErrCancelWindowExpired
		}

		itemsQuery := `SELECT product_id, product_name, price_amount, price_currency, quantity
		               FROM order_items WHERE order_id = $1 ORDER BY id`
		rows, err := tx.Query(ctx, itemsQuery, id)
		if err != nil {
			return nil, fmt.Errorf("query order items for cancel: %w", err)
		}
		items, err := scanOrderItems(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		order.Items = items

		for _, item := range items {
			if err := restoreStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return nil, fmt.Errorf("restore stock for product %d: %w", item.ProductID, err)
			}
		}

		// Items cascade with the order row.
		cmdTag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
		if err != nil {
			return nil, fmt.Errorf("delete order: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return nil, ErrOrderNotFound
		}

		order.Status = domain.OrderStatusCancelled
		return order, nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) ListVendorSales(ctx context.Context, vendorID int64) ([]domain.OrderItem, error) {
	query := `SELECT oi.product_id, oi.product_name, oi.price_amount, oi.price_currency, oi.quantity
	          FROM order_items oi
	          JOIN orders o ON o.id = oi.order_id
	          JOIN products p ON p.id = oi.product_id
	          WHERE p.vendor_id = $1 AND o.paid = TRUE
	          ORDER BY o.created_at DESC, oi.id`

	rows, err := r.pool.Query(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("query vendor sales: %w", err)
	}
	defer rows.Close()

	return scanOrderItems(rows)
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		order         domain.Order
		paidAmount    decimal.Decimal
		paidCurrency  string
		statusLiteral string
	)

	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.FullName,
		&order.Email,
		&order.Phone,
		&order.Address,
		&order.City,
		&paidAmount,
		&paidCurrency,
		&order.Paid,
		&statusLiteral,
		&order.PaymentReference,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	parsedCurrency, err := currency.ParseISO(paidCurrency)
	if err != nil {
		return nil, fmt.Errorf("currency[%s] is not valid: %w", paidCurrency, err)
	}
	order.TotalPaid = domain.Money{Amount: paidAmount, Currency: parsedCurrency}

	status, err := domain.ToOrderStatus(statusLiteral)
	if err != nil {
		return nil, fmt.Errorf("domain.ToOrderStatus[%s]: %w", statusLiteral, err)
	}
	order.Status = status

	return &order, nil
}

func scanOrderItems(rows pgx.Rows) ([]domain.OrderItem, error) {
	var items []domain.OrderItem

	for rows.Next() {
		var (
			item          domain.OrderItem
			priceAmount   decimal.Decimal
			priceCurrency string
		)
		if err := rows.Scan(&item.ProductID, &item.ProductName, &priceAmount, &priceCurrency, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}

		parsedCurrency, err := currency.ParseISO(priceCurrency)
		if err != nil {
			return nil, fmt.Errorf("currency[%s] is not valid: %w", priceCurrency, err)
		}
		item.Price = domain.Money{Amount: priceAmount, Currency: parsedCurrency}

		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}
