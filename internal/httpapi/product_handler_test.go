package httpapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProductBySlug(t *testing.T) {
	env := setupEnv(t)
	c := newClient(t, env)
	product := env.addProduct(t, "100.00", 5)

	rec := c.do(http.MethodGet, "/api/v1/products/"+product.Slug, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[ProductResponseDTO](t, rec)
	assert.Equal(t, product.ID, got.ID)
	assert.Equal(t, "Test Gadget", got.Name)
	assert.Equal(t, "100", got.Price)
	assert.Equal(t, "NGN", got.Currency)
	assert.Equal(t, int32(5), got.StockQuantity)

	rec = c.do(http.MethodGet, "/api/v1/products/no-such-slug", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "product_not_found", decodeBody[ErrorResponse](t, rec).Code)
}

func TestVendorSetStock(t *testing.T) {
	env := setupEnv(t)
	c := newClient(t, env)
	product := env.addProduct(t, "100.00", 5)

	rec := c.do(http.MethodPut, "/api/v1/vendor/products/1/stock", SetStockRequestDTO{Quantity: 42})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(42), decodeBody[ProductResponseDTO](t, rec).StockQuantity)

	got, err := env.products.GetProduct(t.Context(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(42), got.StockQuantity)

	// The new level is what the cart boundary checks against.
	rec = c.do(http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: product.ID, Quantity: 43})
	require.Equal(t, http.StatusConflict, rec.Code)
	rec = c.do(http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: product.ID, Quantity: 42})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestVendorSetStock_Validation(t *testing.T) {
	env := setupEnv(t)
	c := newClient(t, env)
	env.addProduct(t, "100.00", 5)

	rec := c.do(http.MethodPut, "/api/v1/vendor/products/1/stock", SetStockRequestDTO{Quantity: -1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_quantity", decodeBody[ErrorResponse](t, rec).Code)

	rec = c.do(http.MethodPut, "/api/v1/vendor/products/0/stock", SetStockRequestDTO{Quantity: 1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_product_id", decodeBody[ErrorResponse](t, rec).Code)

	// Product owned by another vendor reads as not found.
	rec = c.do(http.MethodPut, "/api/v1/vendor/products/999/stock", SetStockRequestDTO{Quantity: 1})
	require.Equal(t, http.StatusNotFound, rec.Code)
}
