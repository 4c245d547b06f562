package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marketplace/backend/internal/domain/cart"
)

const defaultCartTTL = 30 * 24 * time.Hour

// RedisCartStore implements cart.SessionStore using Redis. It holds the
// carts of anonymous sessions, which have no profile record to persist
// into. Suitable for distributed deployments where multiple instances
// serve the same session.
type RedisCartStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisCartStore creates a new Redis-backed session cart store.
func NewRedisCartStore(cfg RedisConfig) (*RedisCartStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCartStore{
		client:    client,
		keyPrefix: "cart:session:",
		ttl:       defaultCartTTL,
	}, nil
}

// NewRedisCartStoreWithClient creates a store with an existing Redis client
// This is useful for testing or when sharing a client across components
func NewRedisCartStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisCartStore {
	if keyPrefix == "" {
		keyPrefix = "cart:session:"
	}
	if ttl <= 0 {
		ttl = defaultCartTTL
	}
	return &RedisCartStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Get returns the session's cart. An unknown session yields an empty cart,
// not an error.
func (s *RedisCartStore) Get(ctx context.Context, sessionID string) (cart.Cart, error) {
	data, err := s.client.Get(ctx, s.keyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return cart.Cart{}, nil
		}
		return nil, fmt.Errorf("failed to load session cart: %w", err)
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode session cart: %w", err)
	}
	return c, nil
}

// Save replaces the session's cart wholesale and refreshes its TTL.
func (s *RedisCartStore) Save(ctx context.Context, sessionID string, c cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode session cart: %w", err)
	}

	if err := s.client.Set(ctx, s.keyPrefix+sessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session cart: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisCartStore) Close() error {
	return s.client.Close()
}

// Ensure RedisCartStore implements SessionStore
var _ cart.SessionStore = (*RedisCartStore)(nil)
