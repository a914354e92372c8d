package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ferreinti-backend/config"
	"ferreinti-backend/internal/delivery/http/middleware"
	v1 "ferreinti-backend/internal/delivery/http/v1"
	"ferreinti-backend/internal/domain"
	"ferreinti-backend/internal/infrastructure/cache"
	"ferreinti-backend/internal/infrastructure/payments"
	"ferreinti-backend/internal/repository/postgres"
	"ferreinti-backend/internal/usecase"
	"ferreinti-backend/pkg/logger"
	"ferreinti-backend/pkg/utils"

	"github.com/NYTimes/gziphandler"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	// Initialize Database
	pgxPool, err := postgres.NewPgxPool(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Successfully connected to PostgreSQL via pgx")

	// Initialize Repositories
	userRepo := postgres.NewUserRepository(pgxPool)
	productRepo := postgres.NewProductRepository(pgxPool)
	orderRepo := postgres.NewOrderRepository(pgxPool)
	settingsRepo := postgres.NewSettingsRepository(pgxPool)
	contentRepo := postgres.NewContentRepository(pgxPool)
	wishlistRepo := postgres.NewWishlistRepository(pgxPool)
	txManager := postgres.NewTransactionManager(pgxPool)

	// Initialize Cache (In-Memory)
	// Default expiration 30m, cleanup every 60m
	memCache := cache.NewMemoryCache(30*time.Minute, 60*time.Minute)

	// Payment gateway (nil when unconfigured; checkout returns 503)
	var provider domain.PaymentProvider
	if c := payments.NewCheckoutClient(cfg.CheckoutAPIURL, cfg.CheckoutAPIKey); c != nil {
		provider = c
	}

	// Set up Router
	mux := http.NewServeMux()

	// --- Modules Initialization ---

	// Auth Module
	authUC := usecase.NewAuthUsecase(userRepo, cfg.TokenExpiry)
	authHandler := v1.NewAuthHandler(authUC, cfg.TokenExpiry, cfg.Env)

	// Shipping Module. One calculator feeds the standalone endpoint,
	// order creation and checkout.
	shippingUC := usecase.NewShippingUsecase(settingsRepo)
	shippingHandler := v1.NewShippingHandler(shippingUC)
	adminShippingHandler := v1.NewAdminShippingHandler(shippingUC)

	// Catalog Module
	catalogUC := usecase.NewCatalogUsecase(productRepo, memCache, cfg.CacheCategoryTTL)
	catalogHandler := v1.NewCatalogHandler(catalogUC)
	adminCatalogHandler := v1.NewAdminCatalogHandler(catalogUC)

	// Order Module
	orderUC := usecase.NewOrderUsecase(orderRepo, productRepo, userRepo, shippingUC, txManager)
	orderHandler := v1.NewOrderHandler(orderUC, cfg.MaxCartQuantity)
	adminOrderHandler := v1.NewAdminOrderHandler(orderUC)

	// Payment Module
	paymentUC := usecase.NewPaymentUsecase(orderRepo, productRepo, userRepo, shippingUC, provider, cfg)
	paymentHandler := v1.NewPaymentHandler(paymentUC)

	// Content Module
	contentUC := usecase.NewContentUsecase(contentRepo)
	contentHandler := v1.NewContentHandler(contentUC)

	// Wishlist Module
	wishlistUC := usecase.NewWishlistUsecase(wishlistRepo, productRepo)
	wishlistHandler := v1.NewWishlistHandler(wishlistUC)

	// Stats Module
	statsUC := usecase.NewStatsUsecase(pgxPool, memCache, cfg.CacheStatsTTL, cfg.LowStockThreshold)
	adminStatsHandler := v1.NewAdminStatsHandler(statsUC)

	// Stricter limiter for credential endpoints: 5 req/s, burst 10
	authLimiter := middleware.NewRateLimiter(
		context.Background(),
		5,
		10,
		time.Minute,
		3*time.Minute,
	)

	// Auth
	mux.Handle("POST /api/v1/auth/register", authLimiter.Handler(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/v1/auth/login", authLimiter.Handler(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("POST /api/v1/auth/logout", authHandler.Logout)
	mux.Handle("GET /api/v1/auth/me", middleware.AuthMiddleware(http.HandlerFunc(authHandler.Me)))

	// Shipping (Public)
	mux.HandleFunc("POST /api/v1/shipping/calculate", shippingHandler.Calculate)
	mux.HandleFunc("GET /api/v1/shipping/config", shippingHandler.GetConfig)

	// Catalog (Public)
	mux.HandleFunc("GET /api/v1/categories", catalogHandler.GetCategories)
	mux.HandleFunc("GET /api/v1/products", catalogHandler.ListProducts)
	mux.HandleFunc("GET /api/v1/products/{id}", catalogHandler.GetProduct)
	mux.HandleFunc("GET /api/v1/products/{id}/reviews", catalogHandler.GetReviews)
	mux.Handle("POST /api/v1/products/{id}/reviews", middleware.AuthMiddleware(http.HandlerFunc(catalogHandler.AddReview)))

	// Content (Public)
	mux.HandleFunc("GET /api/v1/content/{key}", contentHandler.GetSection)

	// Cart & Orders (Protected)
	mux.Handle("GET /api/v1/cart", middleware.AuthMiddleware(http.HandlerFunc(orderHandler.GetCart)))
	mux.Handle("PUT /api/v1/cart", middleware.AuthMiddleware(http.HandlerFunc(orderHandler.SetCart)))
	mux.Handle("POST /api/v1/orders", middleware.AuthMiddleware(http.HandlerFunc(orderHandler.CreateOrder)))
	mux.Handle("GET /api/v1/orders", middleware.AuthMiddleware(http.HandlerFunc(orderHandler.GetMyOrders)))

	// Checkout (Protected)
	mux.Handle("POST /api/v1/checkout", middleware.AuthMiddleware(http.HandlerFunc(paymentHandler.CreateCheckout)))
	mux.Handle("GET /api/v1/checkout/{sessionId}", middleware.AuthMiddleware(http.HandlerFunc(paymentHandler.CheckStatus)))

	// Wishlist (Protected)
	mux.Handle("GET /api/v1/wishlist", middleware.AuthMiddleware(http.HandlerFunc(wishlistHandler.GetWishlist)))
	mux.Handle("POST /api/v1/wishlist/{productId}", middleware.AuthMiddleware(http.HandlerFunc(wishlistHandler.AddProduct)))
	mux.Handle("DELETE /api/v1/wishlist/{productId}", middleware.AuthMiddleware(http.HandlerFunc(wishlistHandler.RemoveProduct)))

	// Admin (Protected)
	// Must chain: AuthMiddleware -> AdminMiddleware -> Handler
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(middleware.AdminMiddleware(h))
	}

	// Admin Shipping Config
	mux.Handle("GET /api/v1/admin/shipping/config", adminOnly(adminShippingHandler.GetConfig))
	mux.Handle("PUT /api/v1/admin/shipping/config", adminOnly(adminShippingHandler.UpdateConfig))

	// Admin Catalog
	mux.Handle("POST /api/v1/admin/categories", adminOnly(adminCatalogHandler.CreateCategory))
	mux.Handle("PUT /api/v1/admin/categories/{id}", adminOnly(adminCatalogHandler.UpdateCategory))
	mux.Handle("DELETE /api/v1/admin/categories/{id}", adminOnly(adminCatalogHandler.DeleteCategory))
	mux.Handle("POST /api/v1/admin/products", adminOnly(adminCatalogHandler.CreateProduct))
	mux.Handle("PUT /api/v1/admin/products/{id}", adminOnly(adminCatalogHandler.UpdateProduct))
	mux.Handle("DELETE /api/v1/admin/products/{id}", adminOnly(adminCatalogHandler.DeleteProduct))

	// Admin Orders
	mux.Handle("GET /api/v1/admin/orders", adminOnly(adminOrderHandler.ListOrders))
	mux.Handle("GET /api/v1/admin/orders/{id}", adminOnly(adminOrderHandler.GetOrder))
	mux.Handle("PATCH /api/v1/admin/orders/{id}/status", adminOnly(adminOrderHandler.UpdateStatus))

	// Admin Users / Content / Stats
	mux.Handle("GET /api/v1/admin/users", adminOnly(authHandler.ListUsers))
	mux.Handle("PUT /api/v1/admin/content/{key}", adminOnly(contentHandler.UpdateSection))
	mux.Handle("GET /api/v1/admin/stats/dashboard", adminOnly(adminStatsHandler.GetDashboard))

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok", "db": "connected"}`))
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler) // Support root health check for Load Balancers

	addr := fmt.Sprintf(":%s", cfg.Port)

	// Global Rate Limiter
	// 50 req/s, burst 100, cleanup every minute, TTL 3 minutes
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		50,
		100,
		time.Minute,
		3*time.Minute,
	)

	// Apply CORS (with config injection), Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	log.Info().Msgf("Server starting on %s", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()
	authLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	pgxPool.Close()
	log.Info().Msg("Server exited properly")
}
