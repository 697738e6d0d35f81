package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mhafiz71/linkup-gadgets/internal/auth"
	"github.com/mhafiz71/linkup-gadgets/internal/domain"
	"github.com/mhafiz71/linkup-gadgets/internal/repository"
	"go.uber.org/zap"
)

// CancelOrder rolls back an unpaid order inside the cancellation window:
// every item's quantity goes back to its product's stock and the order is
// deleted, atomically. Of two concurrent cancellations exactly one succeeds;
// the other observes the order already gone.
func (s *OrderService) CancelOrder(ctx context.Context, actor auth.Actor, orderID uuid.UUID) (*domain.Order, error) {
	if actor.IsAnonymous() {
		return nil, ErrNotAuthenticated
	}

	cutoff := time.Now().Add(-s.cancelWindow)

	order, err := s.orders.CancelOrder(ctx, orderID, actor.UserID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("orders.CancelOrder: %w", err)
	}

	s.logger.Info("order cancelled",
		zap.String("order_id", orderID.String()),
		zap.String("user_id", actor.UserID),
		zap.Int("items_restored", len(order.Items)),
	)

	// Status-update mail is best effort, unlike the confirmation mail.
	if err := s.notifier.SendOrderStatusUpdate(ctx, order); err != nil {
		s.logger.Warn("order status notification failed",
			zap.String("order_id", orderID.String()), zap.Error(err))
	}

	return order, nil
}

// CancelPreview returns the order a confirmation page should show before the
// destructive step runs (read-then-confirm, never a single GET-triggered
// deletion). The real eligibility checks re-run inside CancelOrder's
// transaction; these exist to give the user an early answer.
func (s *OrderService) CancelPreview(ctx context.Context, actor auth.Actor, orderID uuid.UUID) (*domain.Order, error) {
	if actor.IsAnonymous() {
		return nil, ErrNotAuthenticated
	}

	order, err := s.orders.GetUserOrder(ctx, orderID, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("orders.GetUserOrder: %w", err)
	}

	if order.Paid {
		return nil, repository.ErrOrderAlreadyPaid
	}
	if order.CreatedAt.Before(time.Now().Add(-s.cancelWindow)) {
		return nil, repository.ErrCancelWindowExpired
	}

	return order, nil
}
