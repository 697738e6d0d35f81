package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mhafiz71/linkup-gadgets/internal/service"
)

type CartHandler struct {
	carts *service.CartService
}

func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int32 `json:"quantity"`
}

type CartItemDTO struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Slug        string `json:"slug"`
	Quantity    int32  `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TotalPrice  string `json:"total_price"`
}

type CartResponseDTO struct {
	Items []CartItemDTO `json:"items"`
	Total string        `json:"total"`
	Count int32         `json:"count"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFromContext(r.Context())

	view, err := h.carts.View(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cartViewToDTO(view))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFromContext(r.Context())

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	if err := h.carts.AddItem(r.Context(), sessionID, req.ProductID, req.Quantity); err != nil {
		respondServiceError(w, err)
		return
	}

	view, err := h.carts.View(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, cartViewToDTO(view))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFromContext(r.Context())

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	if err := h.carts.UpdateQuantity(r.Context(), sessionID, productID, req.Quantity); err != nil {
		respondServiceError(w, err)
		return
	}

	view, err := h.carts.View(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cartViewToDTO(view))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFromContext(r.Context())

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	if err := h.carts.RemoveItem(r.Context(), sessionID, productID); err != nil {
		respondServiceError(w, err)
		return
	}

	view, err := h.carts.View(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cartViewToDTO(view))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFromContext(r.Context())

	if err := h.carts.Clear(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Items: []CartItemDTO{}, Total: "0", Count: 0})
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}

func cartViewToDTO(view *service.CartView) CartResponseDTO {
	items := make([]CartItemDTO, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, CartItemDTO{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Slug:        item.Product.Slug,
			Quantity:    item.Quantity,
			UnitPrice:   item.Price.String(),
			TotalPrice:  item.TotalPrice.String(),
		})
	}
	return CartResponseDTO{
		Items: items,
		Total: view.Total.String(),
		Count: view.Count,
	}
}
