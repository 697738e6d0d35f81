package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/currency"

	"github.com/mhafiz71/linkup-gadgets/internal/cart"
	"github.com/mhafiz71/linkup-gadgets/internal/domain"
	"github.com/mhafiz71/linkup-gadgets/internal/service"
)

type testEnv struct {
	router   *chi.Mux
	products *fakeProductRepo
	orders   *fakeOrderRepo
	notifier *fakeNotifier
}

// setupEnv wires the handlers over a miniredis-backed cart and in-memory
// repositories, behind the same middleware chain the server uses.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = redisClient.Close()
	})

	products := newFakeProductRepo()
	orders := newFakeOrderRepo(products)
	notifier := &fakeNotifier{}

	engine := cart.NewEngine(cart.NewRedisStore(redisClient), products)
	cartService := service.NewCartService(engine, products)
	orderService := service.NewOrderService(engine, orders, notifier, nil, zap.NewNop(), service.DefaultCancelWindow)
	catalogService := service.NewCatalogService(products, zap.NewNop())

	cartHandler := NewCartHandler(cartService)
	orderHandler := NewOrderHandler(orderService)
	productHandler := NewProductHandler(catalogService)

	r := chi.NewRouter()
	r.Use(SessionMiddleware)
	r.Use(MockAuthMiddleware)
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			r.Delete("/", cartHandler.ClearCart)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderHandler.CreateOrder)
			r.Get("/", orderHandler.ListOrders)
			r.Get("/{order_id}", orderHandler.GetOrder)
			r.Get("/{order_id}/payment/callback", orderHandler.PaymentCallback)
			r.Get("/{order_id}/cancel", orderHandler.CancelPreview)
			r.Post("/{order_id}/cancel", orderHandler.CancelOrder)
		})
		r.Get("/products/{slug}", productHandler.GetProduct)
		r.Route("/vendor", func(r chi.Router) {
			r.Get("/sales", orderHandler.VendorSales)
			r.Put("/products/{product_id}/stock", productHandler.SetStock)
		})
	})

	return &testEnv{router: r, products: products, orders: orders, notifier: notifier}
}

func (e *testEnv) addProduct(t *testing.T, price string, stock int32) domain.Product {
	t.Helper()

	product := domain.Product{
		VendorID:      1,
		Name:          "Test Gadget",
		Slug:          "test-gadget",
		Price:         domain.Money{Amount: decimal.RequireFromString(price), Currency: currency.MustParseISO("NGN")},
		StockQuantity: stock,
	}
	id, err := e.products.CreateProduct(t.Context(), product)
	require.NoError(t, err)
	product.ID = id
	return product
}

// client keeps the session cookie across requests, like a browser would.
type client struct {
	t       *testing.T
	router  *chi.Mux
	cookies []*http.Cookie
}

func newClient(t *testing.T, env *testEnv) *client {
	return &client{t: t, router: env.router}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		c.cookies = cookies
	}
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
