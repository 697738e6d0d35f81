package notification

import (
	"context"

	"github.com/mhafiz71/linkup-gadgets/internal/domain"
)

// Notifier is the transactional-mail collaborator. Confirmation failures must
// propagate to the caller; status updates are best effort and the caller is
// expected to log-and-continue.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, order *domain.Order) error
	SendOrderStatusUpdate(ctx context.Context, order *domain.Order) error
}
