package service

import "errors"

var (
	ErrEmptyCart        = errors.New("cart is empty, nothing to checkout")
	ErrNotAuthenticated = errors.New("authentication required")
	ErrForbidden        = errors.New("operation not permitted for this actor")
	ErrInvalidInput     = errors.New("invalid input")

	// ErrNotifyFailed marks a confirmation-mail failure on an order that IS
	// paid. Callers must report it separately from payment failure; the paid
	// state has already committed and is never rolled back for this.
	ErrNotifyFailed = errors.New("order confirmation notification failed")
)
