package cart

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/user"
)

// Identity names the cart owner: an authenticated user, or an anonymous
// session when no user is present. Exactly one of the two fields is set.
type Identity struct {
	UserID    string
	SessionID string
}

// IsAnonymous reports whether the identity is session-only.
func (id Identity) IsAnonymous() bool {
	return id.UserID == ""
}

// Valid reports whether the identity names any cart owner.
func (id Identity) Valid() bool {
	return id.UserID != "" || id.SessionID != ""
}

// Service owns cart reads and writes. Authenticated carts live on the user
// profile; anonymous carts live in the session store. Every write re-reads
// the freshest stored cart before applying its change, so concurrent writers
// lose at most their own line.
type Service struct {
	users    user.Store
	sessions cart.SessionStore
	logger   *zap.Logger
}

// NewService creates a new cart Service
func NewService(users user.Store, sessions cart.SessionStore, logger *zap.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

// GetCart returns the identity's current cart.
func (s *Service) GetCart(ctx context.Context, id Identity) (cart.Cart, error) {
	if !id.Valid() {
		return nil, shared.ErrUnauthorized
	}
	return s.load(ctx, id)
}

// Update sets the quantity of one listing line and returns the resulting
// cart. A zero quantity removes the line, and the seller bucket with it when
// the line was its last.
func (s *Service) Update(ctx context.Context, id Identity, sellerID, listingID string, quantity int) (cart.Cart, error) {
	if !id.Valid() {
		return nil, shared.ErrUnauthorized
	}
	if sellerID == "" || listingID == "" || quantity < 0 {
		return nil, shared.ErrInvalidInput
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := cart.Update(current, sellerID, listingID, quantity)
	if err := s.save(ctx, id, updated); err != nil {
		return nil, err
	}

	s.logger.Debug("cart updated",
		zap.String("seller_id", sellerID),
		zap.String("listing_id", listingID),
		zap.Int("quantity", quantity),
		zap.Int("total_count", cart.TotalCount(updated)))

	return updated, nil
}

// ClearSeller drops the identity's whole bucket for one seller and returns
// the resulting cart. Clearing an absent bucket is a no-op.
func (s *Service) ClearSeller(ctx context.Context, id Identity, sellerID string) (cart.Cart, error) {
	if !id.Valid() {
		return nil, shared.ErrUnauthorized
	}
	if sellerID == "" {
		return nil, shared.ErrInvalidInput
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := cart.ClearSeller(current, sellerID)
	if err := s.save(ctx, id, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// RemoveListings drops the given listings from the identity's cart wherever
// they appear, across all seller buckets.
func (s *Service) RemoveListings(ctx context.Context, id Identity, listingIDs []string) (cart.Cart, error) {
	if !id.Valid() {
		return nil, shared.ErrUnauthorized
	}
	if len(listingIDs) == 0 {
		return s.load(ctx, id)
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := cart.RemoveListings(current, listingIDs)
	if err := s.save(ctx, id, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// CheckStock reports which cart lines exceed the known stock of their
// listing. An empty result means the whole bucket is orderable.
func (s *Service) CheckStock(ctx context.Context, listings []cart.Listing, providerCart cart.SellerCart) (map[string]cart.OutOfStock, error) {
	return cart.ValidateStock(listings, providerCart)
}

func (s *Service) load(ctx context.Context, id Identity) (cart.Cart, error) {
	if id.IsAnonymous() {
		c, err := s.sessions.Get(ctx, id.SessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load session cart: %w", err)
		}
		return c, nil
	}

	u, err := s.users.Get(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", id.UserID, err)
	}
	if u.Profile.PrivateData.Cart == nil {
		return cart.Cart{}, nil
	}
	return u.Profile.PrivateData.Cart, nil
}

func (s *Service) save(ctx context.Context, id Identity, c cart.Cart) error {
	if id.IsAnonymous() {
		if err := s.sessions.Save(ctx, id.SessionID, c); err != nil {
			return fmt.Errorf("failed to save session cart: %w", err)
		}
		return nil
	}

	if err := s.users.UpdateProfile(ctx, id.UserID, user.CartPatch(c)); err != nil {
		return fmt.Errorf("failed to save cart for user %s: %w", id.UserID, err)
	}
	return nil
}
