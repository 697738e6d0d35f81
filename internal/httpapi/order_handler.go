package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mhafiz71/linkup-gadgets/internal/domain"
	"github.com/mhafiz71/linkup-gadgets/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type CreateOrderRequestDTO struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
}

type OrderItemDTO struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Price       string `json:"price"`
	Quantity    int32  `json:"quantity"`
}

type OrderResponseDTO struct {
	ID               string         `json:"id"`
	Status           string         `json:"status"`
	Paid             bool           `json:"paid"`
	TotalPaid        string         `json:"total_paid"`
	Currency         string         `json:"currency"`
	AmountSubunits   int64          `json:"amount_subunits"`
	PaymentReference string         `json:"payment_reference,omitempty"`
	Items            []OrderItemDTO `json:"items"`
	CreatedAt        time.Time      `json:"created_at"`
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	sessionID := sessionFromContext(r.Context())

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), actor, sessionID, service.CustomerInfo{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		City:     req.City,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, orderToDTO(order))
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(r.Context(), actor, orderID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orderToDTO(order))
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	orders, err := h.orders.ListOrders(r.Context(), actor)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	dtos := make([]OrderResponseDTO, 0, len(orders))
	for _, order := range orders {
		dtos = append(dtos, orderToDTO(order))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// PaymentCallback is the inbound gateway callback. The order id comes from
// the caller's own session-scoped order, never from an unchecked parameter.
func (h *OrderHandler) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	sessionID := sessionFromContext(r.Context())

	reference := r.URL.Query().Get("reference")
	if reference == "" {
		respondError(w, http.StatusBadRequest, "missing_reference", "reference query parameter is required")
		return
	}

	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	order, err := h.orders.ConfirmPayment(r.Context(), actor, sessionID, orderID, reference)
	if errors.Is(err, service.ErrNotifyFailed) {
		// The order IS paid; surface the mail failure without failing the
		// payment from the user's point of view.
		respondJSON(w, http.StatusOK, struct {
			Order   OrderResponseDTO `json:"order"`
			Warning string           `json:"warning"`
		}{orderToDTO(order), "confirmation email could not be sent"})
		return
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orderToDTO(order))
}

// CancelPreview is the read half of the read-then-confirm protocol.
func (h *OrderHandler) CancelPreview(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	order, err := h.orders.CancelPreview(r.Context(), actor, orderID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orderToDTO(order))
}

// CancelOrder is the confirmed, mutating half.
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	order, err := h.orders.CancelOrder(r.Context(), actor, orderID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, orderToDTO(order))
}

func (h *OrderHandler) VendorSales(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	sales, err := h.orders.VendorSales(r.Context(), actor)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	dtos := make([]OrderItemDTO, 0, len(sales))
	for _, item := range sales {
		dtos = append(dtos, orderItemToDTO(item))
	}
	respondJSON(w, http.StatusOK, dtos)
}

func orderIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return uuid.Nil, false
	}
	return orderID, true
}

func orderToDTO(order *domain.Order) OrderResponseDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemToDTO(item))
	}
	return OrderResponseDTO{
		ID:               order.ID.String(),
		Status:           order.Status.String(),
		Paid:             order.Paid,
		TotalPaid:        order.TotalPaid.Amount.String(),
		Currency:         order.TotalPaid.Currency.String(),
		AmountSubunits:   order.TotalPaid.SubunitAmount(),
		PaymentReference: order.PaymentReference,
		Items:            items,
		CreatedAt:        order.CreatedAt,
	}
}

func orderItemToDTO(item domain.OrderItem) OrderItemDTO {
	return OrderItemDTO{
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Price:       item.Price.Amount.String(),
		Quantity:    item.Quantity,
	}
}
