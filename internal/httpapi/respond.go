package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mhafiz71/linkup-gadgets/internal/cart"
	"github.com/mhafiz71/linkup-gadgets/internal/payment"
	"github.com/mhafiz71/linkup-gadgets/internal/repository"
	"github.com/mhafiz71/linkup-gadgets/internal/service"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// respondServiceError maps domain sentinels onto HTTP statuses. Not-found and
// foreign-owner cases share a status so order existence never leaks.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, service.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
	case errors.Is(err, repository.ErrInsufficientStock):
		respondError(w, http.StatusConflict, "stock_exceeded", "requested quantity exceeds available stock")
	case errors.Is(err, repository.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
	case errors.Is(err, repository.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
	case errors.Is(err, repository.ErrOrderAlreadyPaid):
		respondError(w, http.StatusConflict, "already_paid", "paid orders cannot be cancelled")
	case errors.Is(err, repository.ErrCancelWindowExpired):
		respondError(w, http.StatusConflict, "cancel_window_expired", "cancellation window has expired")
	case errors.Is(err, payment.ErrVerificationFailed), errors.Is(err, payment.ErrAmountMismatch):
		respondError(w, http.StatusBadGateway, "verification_failed", "payment could not be verified")
	case errors.Is(err, service.ErrNotAuthenticated):
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, "forbidden", "operation not permitted")
	case errors.Is(err, cart.ErrNoCart):
		respondError(w, http.StatusNotFound, "empty_cart", "cart is empty")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
