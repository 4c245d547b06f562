package cache

import (
	"context"
	"sync"
	"time"

	"github.com/marketplace/backend/internal/domain/cart"
)

// cartEntry represents a stored session cart with expiration
type cartEntry struct {
	cart      cart.Cart
	expiresAt time.Time
}

// InMemoryCartStore implements cart.SessionStore using an in-memory map
// This is suitable for single-instance deployments and testing
type InMemoryCartStore struct {
	mu        sync.RWMutex
	entries   map[string]cartEntry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryCartStore creates a new in-memory session cart store
// It starts a background goroutine to clean up expired entries
func NewInMemoryCartStore() *InMemoryCartStore {
	store := &InMemoryCartStore{
		entries:  make(map[string]cartEntry),
		ttl:      defaultCartTTL,
		stopChan: make(chan struct{}),
	}

	// Start cleanup goroutine
	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Get returns the session's cart. An unknown or expired session yields an
// empty cart, not an error.
func (s *InMemoryCartStore) Get(ctx context.Context, sessionID string) (cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[sessionID]
	if !exists || time.Now().After(e.expiresAt) {
		return cart.Cart{}, nil
	}
	return e.cart.Clone(), nil
}

// Save replaces the session's cart wholesale and refreshes its TTL.
func (s *InMemoryCartStore) Save(ctx context.Context, sessionID string, c cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[sessionID] = cartEntry{
		cart:      c.Clone(),
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

// Close stops the cleanup goroutine and releases resources
// Safe to call multiple times
func (s *InMemoryCartStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (s *InMemoryCartStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup removes expired entries from the store
func (s *InMemoryCartStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for sessionID, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, sessionID)
		}
	}
}

// Size returns the number of entries in the store (for testing/monitoring)
func (s *InMemoryCartStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ensure InMemoryCartStore implements SessionStore
var _ cart.SessionStore = (*InMemoryCartStore)(nil)
