package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mhafiz71/linkup-gadgets/internal/auth"
	"github.com/mhafiz71/linkup-gadgets/internal/domain"
	"go.uber.org/zap"
)

// ConfirmPayment handles the provider callback: pending -> paid. The
// transition itself is a guarded update, so a duplicate callback finds the
// flag already flipped and neither re-persists nor re-sends the confirmation
// mail. The paid state commits before any notification is attempted;
// a notification failure surfaces as ErrNotifyFailed alongside the paid
// order, never as a payment failure.
func (s *OrderService) ConfirmPayment(ctx context.Context, actor auth.Actor, sessionID string, orderID uuid.UUID, reference string) (*domain.Order, error) {
	if actor.IsAnonymous() {
		return nil, ErrNotAuthenticated
	}
	if strings.TrimSpace(reference) == "" {
		return nil, fmt.Errorf("%w: missing payment reference", ErrInvalidInput)
	}

	// Scoped lookup: a callback carrying someone else's order id gets
	// not-found, not a state change.
	order, err := s.orders.GetUserOrder(ctx, orderID, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("orders.GetUserOrder: %w", err)
	}

	if s.verifier != nil {
		if err := s.verifier.VerifyTransaction(ctx, reference, order.TotalPaid.SubunitAmount()); err != nil {
			return nil, fmt.Errorf("verifier.VerifyTransaction: %w", err)
		}
	}

	transitioned, err := s.orders.MarkPaid(ctx, orderID, reference)
	if err != nil {
		return nil, fmt.Errorf("orders.MarkPaid: %w", err)
	}

	order.Paid = true
	order.Status = domain.OrderStatusPaid
	// Only this call's transition persists the reference; on a duplicate the
	// order keeps the reference the first callback stored.
	if transitioned {
		order.PaymentReference = reference
	}

	// The checkout is finished either way; clearing the cart is best effort.
	if err := s.engine.Clear(ctx, sessionID); err != nil {
		s.logger.Warn("failed to clear cart after payment",
			zap.String("order_id", orderID.String()), zap.Error(err))
	}

	if !transitioned {
		s.logger.Info("duplicate payment callback ignored",
			zap.String("order_id", orderID.String()), zap.String("reference", reference))
		return order, nil
	}

	if err := s.notifier.SendOrderConfirmation(ctx, order); err != nil {
		s.logger.Error("order confirmation notification failed",
			zap.String("order_id", orderID.String()), zap.Error(err))
		return order, fmt.Errorf("%w: %w", ErrNotifyFailed, err)
	}

	return order, nil
}
