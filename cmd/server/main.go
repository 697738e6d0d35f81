package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mhafiz71/linkup-gadgets/internal/cart"
	"github.com/mhafiz71/linkup-gadgets/internal/config"
	"github.com/mhafiz71/linkup-gadgets/internal/httpapi"
	"github.com/mhafiz71/linkup-gadgets/internal/notification"
	"github.com/mhafiz71/linkup-gadgets/internal/payment"
	"github.com/mhafiz71/linkup-gadgets/internal/repository"
	"github.com/mhafiz71/linkup-gadgets/internal/service"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx := context.Background()

	if err := repository.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDirPath); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	productRepo := repository.NewProduct(pool)
	orderRepo := repository.NewOrder(pool)

	sessionStore := cart.NewRedisStore(redisClient)
	engine := cart.NewEngine(sessionStore, productRepo)

	notifier := notification.NewKafkaNotifier(cfg.KafkaBrokers...)

	var verifier payment.Verifier
	if cfg.PaystackSecretKey != "" {
		verifier = payment.NewPaystackClient(cfg.PaystackSecretKey)
	} else {
		logger.Warn("PAYSTACK_SECRET_KEY not set, payment callbacks will not be verified")
	}

	cartService := service.NewCartService(engine, productRepo)
	orderService := service.NewOrderService(engine, orderRepo, notifier, verifier, logger, cfg.CancelWindow)
	catalogService := service.NewCatalogService(productRepo, logger)

	cartHandler := httpapi.NewCartHandler(cartService)
	orderHandler := httpapi.NewOrderHandler(orderService)
	productHandler := httpapi.NewProductHandler(catalogService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(httpapi.SessionMiddleware)
	r.Use(httpapi.MockAuthMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

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

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
