package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mhafiz71/linkup-gadgets/internal/domain"
	"github.com/mhafiz71/linkup-gadgets/internal/service"
)

type ProductHandler struct {
	catalog *service.CatalogService
}

func NewProductHandler(catalog *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

type ProductResponseDTO struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Price         string `json:"price"`
	Currency      string `json:"currency"`
	StockQuantity int32  `json:"stock_quantity"`
	IsFeatured    bool   `json:"is_featured"`
}

type SetStockRequestDTO struct {
	Quantity int32 `json:"quantity"`
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		respondError(w, http.StatusBadRequest, "invalid_slug", "slug is required")
		return
	}

	product, err := h.catalog.ProductBySlug(r.Context(), slug)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, productToDTO(product))
}

// SetStock is the vendor stock adjustment surface; the capability check and
// vendor scoping live in the service.
func (h *ProductHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req SetStockRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be non-negative")
		return
	}

	product, err := h.catalog.SetStock(r.Context(), actor, productID, req.Quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, productToDTO(product))
}

func productToDTO(product domain.Product) ProductResponseDTO {
	return ProductResponseDTO{
		ID:            product.ID,
		Name:          product.Name,
		Slug:          product.Slug,
		Price:         product.Price.Amount.String(),
		Currency:      product.Price.Currency.String(),
		StockQuantity: product.StockQuantity,
		IsFeatured:    product.IsFeatured,
	}
}
