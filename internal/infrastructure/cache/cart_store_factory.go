package cache

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/infrastructure/config"
)

// CartStoreFactory creates session cart stores based on configuration
type CartStoreFactory struct {
	redisConfig           config.RedisConfig
	ttl                   time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// CartStoreFactoryOption is a functional option for configuring the factory
type CartStoreFactoryOption func(*CartStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) CartStoreFactoryOption {
	return func(f *CartStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory store when Redis is unavailable
// Default is true (allow fallback)
func WithInMemoryFallback(allow bool) CartStoreFactoryOption {
	return func(f *CartStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithSessionTTL sets the session cart TTL
func WithSessionTTL(ttl time.Duration) CartStoreFactoryOption {
	return func(f *CartStoreFactory) {
		f.ttl = ttl
	}
}

// NewCartStoreFactory creates a new factory
func NewCartStoreFactory(cfg config.RedisConfig, opts ...CartStoreFactoryOption) *CartStoreFactory {
	f := &CartStoreFactory{
		redisConfig:           cfg,
		ttl:                   defaultCartTTL,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true, // Default to allowing fallback
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisStore creates a Redis-based session cart store
func (f *CartStoreFactory) CreateRedisStore() (cart.SessionStore, error) {
	redisCfg := RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}

	store, err := NewRedisCartStore(redisCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis cart store: %w", err)
	}
	store.ttl = f.ttl

	return store, nil
}

// CreateInMemoryStore creates an in-memory session cart store
// This is suitable for single-instance deployments and testing
// WARNING: In-memory stores do not share state across process instances,
// so anonymous carts are lost when requests land on a different instance
func (f *CartStoreFactory) CreateInMemoryStore() cart.SessionStore {
	store := NewInMemoryCartStore()
	store.ttl = f.ttl
	return store
}

// CreateStore creates a session cart store based on whether Redis is available
// It tries to create a Redis store first, and falls back to in-memory if Redis
// is not available and AllowInMemoryFallback is true
func (f *CartStoreFactory) CreateStore() (cart.SessionStore, error) {
	// Try Redis first
	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("using Redis session cart store")
		return store, nil
	}

	// Check if fallback is allowed
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for session carts but unavailable: %w", err)
	}

	// Fall back to in-memory with warning
	f.logger.Warn("Redis unavailable, falling back to in-memory session cart store. "+
		"Anonymous carts will not be shared across instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryStore(), nil
}
