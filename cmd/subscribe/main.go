package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	shippingapp "github.com/marketplace/backend/internal/application/shipping"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/courier"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/marketplace"
)

// Registers the label-created webhook subscription with the courier
// platform. Run once per environment after the callback URL changes; the
// courier keeps the subscription until it is replaced.
func main() {
	var (
		callbackURL string
		logLevel    string
	)

	flag.StringVar(&callbackURL, "url", "", "Webhook callback URL (default: courier.webhook_callback_url from config)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if callbackURL == "" {
		callbackURL = cfg.Courier.WebhookCallbackURL
	}
	if callbackURL == "" {
		log.Fatal("No callback URL: pass -url or set courier.webhook_callback_url")
	}

	mpConfig := marketplace.NewConfig(cfg.Marketplace.BaseURL, cfg.Marketplace.APIToken)
	orderStore, err := marketplace.NewOrderStore(mpConfig)
	if err != nil {
		log.Fatal("Failed to create order store", zap.Error(err))
	}
	userStore, err := marketplace.NewUserStore(mpConfig)
	if err != nil {
		log.Fatal("Failed to create user store", zap.Error(err))
	}

	courierCfg := courier.NewMyParcelConfig(cfg.Courier.APIKey)
	if cfg.Courier.APIBaseURL != "" {
		courierCfg.APIBaseURL = cfg.Courier.APIBaseURL
	}
	gateway, err := courier.NewMyParcelAdapter(courierCfg)
	if err != nil {
		log.Fatal("Failed to create courier gateway", zap.Error(err))
	}
	addressValidator, err := courier.NewAddressAdapter(courierCfg)
	if err != nil {
		log.Fatal("Failed to create address validator", zap.Error(err))
	}

	shipments := shippingapp.NewShipmentService(orderStore, userStore, gateway, addressValidator, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ids, err := shipments.SubscribeLabelWebhook(ctx, callbackURL)
	if err != nil {
		log.Fatal("Webhook subscription failed", zap.Error(err))
	}

	log.Info("Webhook subscription registered",
		zap.String("callback_url", callbackURL),
		zap.Int64s("subscription_ids", ids))
}
