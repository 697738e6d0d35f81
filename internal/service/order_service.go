package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mhafiz71/linkup-gadgets/internal/auth"
	"github.com/mhafiz71/linkup-gadgets/internal/domain"
	"github.com/mhafiz71/linkup-gadgets/internal/notification"
	"github.com/mhafiz71/linkup-gadgets/internal/payment"
	"github.com/mhafiz71/linkup-gadgets/internal/repository"
	"go.uber.org/zap"
)

const DefaultCancelWindow = 24 * time.Hour

// OrderService owns the order lifecycle: assembly from the cart, the payment
// confirmation transition and user-initiated cancellation.
type OrderService struct {
	engine       CartEngine
	orders       repository.OrderRepository
	notifier     notification.Notifier
	verifier     payment.Verifier // nil disables out-of-band verification
	logger       *zap.Logger
	cancelWindow time.Duration
}

func NewOrderService(
	engine CartEngine,
	orders repository.OrderRepository,
	notifier notification.Notifier,
	verifier payment.Verifier,
	logger *zap.Logger,
	cancelWindow time.Duration,
) *OrderService {
	if cancelWindow <= 0 {
		cancelWindow = DefaultCancelWindow
	}
	return &OrderService{
		engine:       engine,
		orders:       orders,
		notifier:     notifier,
		verifier:     verifier,
		logger:       logger,
		cancelWindow: cancelWindow,
	}
}

// CustomerInfo carries the contact fields collected at checkout.
type CustomerInfo struct {
	FullName string
	Email    string
	Phone    string
	Address  string
	City     string
}

func (c CustomerInfo) Validate() error {
	var missing []string
	for field, value := range map[string]string{
		"full_name": c.FullName,
		"email":     c.Email,
		"phone":     c.Phone,
		"address":   c.Address,
		"city":      c.City,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing fields: %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	if !strings.Contains(c.Email, "@") {
		return fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	return nil
}

func (s *OrderService) GetOrder(ctx context.Context, actor auth.Actor, orderID uuid.UUID) (*domain.Order, error) {
	if actor.IsAnonymous() {
		return nil, ErrNotAuthenticated
	}
	return s.orders.GetUserOrder(ctx, orderID, actor.UserID)
}

func (s *OrderService) ListOrders(ctx context.Context, actor auth.Actor) ([]*domain.Order, error) {
	if actor.IsAnonymous() {
		return nil, ErrNotAuthenticated
	}
	return s.orders.ListOrdersByUserID(ctx, actor.UserID)
}

// VendorSales lists item snapshots of paid orders referencing the vendor's
// products. Explicit capability check, not handler wrapping.
func (s *OrderService) VendorSales(ctx context.Context, actor auth.Actor) ([]domain.OrderItem, error) {
	if actor.IsAnonymous() {
		return nil, ErrNotAuthenticated
	}
	if !actor.HasCapability(auth.CapabilityVendor) {
		return nil, ErrForbidden
	}
	return s.orders.ListVendorSales(ctx, actor.VendorID)
}
