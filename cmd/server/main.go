package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	cartapp "github.com/marketplace/backend/internal/application/cart"
	paymentapp "github.com/marketplace/backend/internal/application/payment"
	shippingapp "github.com/marketplace/backend/internal/application/shipping"
	userapp "github.com/marketplace/backend/internal/application/user"
	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/cache"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/courier"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/marketplace"
	"github.com/marketplace/backend/internal/infrastructure/payment"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	"github.com/marketplace/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Marketplace platform API stores (orders + user profiles)
	mpConfig := marketplace.NewConfig(cfg.Marketplace.BaseURL, cfg.Marketplace.APIToken)
	if cfg.Marketplace.TimeoutSeconds > 0 {
		mpConfig.TimeoutSeconds = cfg.Marketplace.TimeoutSeconds
	}
	orderStore, err := marketplace.NewOrderStore(mpConfig)
	if err != nil {
		log.Fatal("Failed to create order store", zap.Error(err))
	}
	userStore, err := marketplace.NewUserStore(mpConfig)
	if err != nil {
		log.Fatal("Failed to create user store", zap.Error(err))
	}

	// Courier platform adapters (shipments + address validation)
	courierCfg := courier.NewMyParcelConfig(cfg.Courier.APIKey)
	if cfg.Courier.APIBaseURL != "" {
		courierCfg.APIBaseURL = cfg.Courier.APIBaseURL
	}
	if cfg.Courier.AddressAPIBaseURL != "" {
		courierCfg.AddressAPIBaseURL = cfg.Courier.AddressAPIBaseURL
	}
	if cfg.Courier.TimeoutSeconds > 0 {
		courierCfg.TimeoutSeconds = cfg.Courier.TimeoutSeconds
	}
	courierGateway, err := courier.NewMyParcelAdapter(courierCfg)
	if err != nil {
		log.Fatal("Failed to create courier gateway", zap.Error(err))
	}
	addressValidator, err := courier.NewAddressAdapter(courierCfg)
	if err != nil {
		log.Fatal("Failed to create address validator", zap.Error(err))
	}

	// Session cart storage: Redis when enabled, in-memory otherwise.
	// Production refuses the in-memory fallback since anonymous carts must
	// survive instance restarts and load balancing.
	cartStores := cache.NewCartStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithSessionTTL(cfg.Cart.SessionTTL),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	)
	var sessionStore cart.SessionStore
	if cfg.Redis.Enabled {
		sessionStore, err = cartStores.CreateStore()
		if err != nil {
			log.Fatal("Failed to create session cart store", zap.Error(err))
		}
	} else {
		sessionStore = cartStores.CreateInMemoryStore()
		log.Info("Redis disabled, using in-memory session cart store")
	}

	// Webhook event dedup, sharing the Redis instance with session carts
	dedupFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithIdempotencyLogger(log),
		cache.WithIdempotencyFallback(cfg.App.Env != "production"),
	)
	var dedupStore shared.IdempotencyStore
	if cfg.Redis.Enabled {
		dedupStore, err = dedupFactory.CreateStore()
		if err != nil {
			log.Fatal("Failed to create webhook dedup store", zap.Error(err))
		}
	} else {
		dedupStore = dedupFactory.CreateInMemoryStore()
	}
	defer func() { _ = dedupStore.Close() }()

	// Identity token verification (tokens are minted by the marketplace
	// platform; this service only verifies them)
	tokenVerifier := auth.NewTokenVerifier(cfg.JWT)

	// Application services
	rateService := shippingapp.NewRateService(userStore, log)
	shipmentService := shippingapp.NewShipmentService(orderStore, userStore, courierGateway, addressValidator, log)
	cartService := cartapp.NewService(userStore, sessionStore, log)
	profileService := userapp.NewProfileService(userStore, log)
	confirmService := paymentapp.NewConfirmService(orderStore, userStore, shipmentService, log,
		paymentapp.WithEventDedup(dedupStore, shared.DefaultIdempotencyConfig().TTL))

	// HTTP handlers
	shippingHandler := handler.NewShippingHandler(rateService, shipmentService, cartService, addressValidator)
	cartHandler := handler.NewCartHandler(cartService)
	profileHandler := handler.NewProfileHandler(profileService)
	courierWebhookHandler := handler.NewCourierWebhookHandler(shipmentService)
	systemHandler := handler.NewSystemHandler()

	var stripeWebhookHandler *handler.StripeWebhookHandler
	if cfg.Payment.StripeWebhookSecret != "" {
		decoder, err := payment.NewStripeWebhookDecoder(&payment.StripeConfig{
			WebhookSecret: cfg.Payment.StripeWebhookSecret,
		})
		if err != nil {
			log.Fatal("Failed to create Stripe webhook decoder", zap.Error(err))
		}
		stripeWebhookHandler = handler.NewStripeWebhookHandler(decoder, confirmService)
	} else {
		log.Warn("Stripe webhook secret not configured, payment webhook endpoint disabled")
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler())

	// Webhook endpoints. External platforms authenticate these calls with
	// payload signatures, not marketplace identity, so they sit outside the
	// identity middleware.
	webhooks := engine.Group("/api/v1/webhooks")
	if stripeWebhookHandler != nil {
		webhooks.POST("/stripe", stripeWebhookHandler.HandleStripeWebhook)
	}
	webhooks.POST("/courier", courierWebhookHandler.HandleLabelCreated)

	identity := middleware.Identity(middleware.IdentityConfig{
		Verifier: tokenVerifier,
		Logger:   log,
	})

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Shipping routes: rate catalog is public, quoting requires a user with
	// a shipping address on file
	shippingRoutes := router.NewDomainGroup("shipping", "/shipping")
	shippingRoutes.Use(identity)
	shippingRoutes.GET("/rates", shippingHandler.ListRates)
	shippingRoutes.GET("/rates/:id", shippingHandler.GetRate)
	shippingRoutes.POST("/rates/quote", middleware.RequireUser(), shippingHandler.QuoteRates)
	shippingRoutes.POST("/address/validate", shippingHandler.ValidateAddress)

	// Order shipment routes
	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.Use(identity, middleware.RequireUser())
	orderRoutes.POST("/:id/shipment", shippingHandler.CreateShipment)
	orderRoutes.GET("/:id/shipment/label", shippingHandler.GetShipmentLabel)

	// Cart routes: available to authenticated users and anonymous sessions
	cartRoutes := router.NewDomainGroup("cart", "/cart")
	cartRoutes.Use(identity, middleware.RequireIdentity())
	cartRoutes.GET("", cartHandler.GetCart)
	cartRoutes.PUT("", cartHandler.UpdateCart)
	cartRoutes.DELETE("/sellers/:id", cartHandler.ClearSeller)
	cartRoutes.POST("/listings/remove", cartHandler.RemoveListings)
	cartRoutes.POST("/stock-check", cartHandler.CheckStock)

	// Profile routes
	profileRoutes := router.NewDomainGroup("profile", "/profile")
	profileRoutes.Use(identity, middleware.RequireUser())
	profileRoutes.GET("/shipping-address", profileHandler.GetShippingAddress)
	profileRoutes.PUT("/shipping-address", profileHandler.UpdateShippingAddress)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(shippingRoutes).
		Register(orderRoutes).
		Register(cartRoutes).
		Register(profileRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}
