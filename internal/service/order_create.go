package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mhafiz71/linkup-gadgets/internal/auth"
	"github.com/mhafiz71/linkup-gadgets/internal/domain"
	"go.uber.org/zap"
)

// CreateOrder converts the session cart into a persisted order plus item
// snapshots, all or nothing. Stock is reserved inside the same transaction.
// The cart is deliberately left intact and no notification is sent here; both
// belong to payment confirmation, so an abandoned unpaid order has no side
// effects to undo.
func (s *OrderService) CreateOrder(ctx context.Context, actor auth.Actor, sessionID string, info CustomerInfo) (*domain.Order, error) {
	if actor.IsAnonymous() {
		return nil, ErrNotAuthenticated
	}
	if err := info.Validate(); err != nil {
		return nil, err
	}

	items, err := s.engine.Items(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("engine.Items: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	order := &domain.Order{
		ID:       uuid.New(),
		UserID:   actor.UserID,
		FullName: info.FullName,
		Email:    info.Email,
		Phone:    info.Phone,
		Address:  info.Address,
		City:     info.City,
		Paid:     false,
		Status:   domain.OrderStatusPending,
	}

	// Total is computed from the same joined lines the items come from, so it
	// always equals the sum of the snapshots even when a product vanished
	// from the catalog after being added to the cart.
	total := domain.Money{Currency: items[0].Product.Price.Currency}
	for _, item := range items {
		// Money.Add keeps the receiver's currency, so a mixed-currency cart
		// must be rejected before the total is accumulated.
		if item.Product.Price.Currency != total.Currency {
			return nil, fmt.Errorf("%w: cart mixes currencies %s and %s",
				ErrInvalidInput, total.Currency, item.Product.Price.Currency)
		}
		snapshot := domain.OrderItem{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Price:       domain.Money{Amount: item.Price, Currency: item.Product.Price.Currency},
			Quantity:    item.Quantity,
		}
		order.Items = append(order.Items, snapshot)
		total = total.Add(snapshot.TotalPrice())
	}
	order.TotalPaid = total

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("orders.CreateOrder: %w", err)
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", actor.UserID),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.TotalPaid.Amount.String()),
	)

	return order, nil
}
