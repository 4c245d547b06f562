package user

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/user"
)

// ProfileService reads and updates the profile fields this backend owns:
// the shipping address. Partial addresses may be saved; completeness only
// gates rate quoting and shipment creation, not storage.
type ProfileService struct {
	users  user.Store
	logger *zap.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(users user.Store, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		users:  users,
		logger: logger,
	}
}

// ShippingAddressResult is a stored address with its completeness verdict.
type ShippingAddressResult struct {
	Address  *user.Address `json:"address"`
	Complete bool          `json:"complete"`
}

// GetShippingAddress returns the user's stored shipping address. A user
// without one yields a nil address rather than an error.
func (s *ProfileService) GetShippingAddress(ctx context.Context, userID string) (*ShippingAddressResult, error) {
	if userID == "" {
		return nil, shared.ErrUnauthorized
	}

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	addr := u.ShippingAddress()
	return &ShippingAddressResult{
		Address:  addr,
		Complete: addr != nil && addr.IsComplete(),
	}, nil
}

// UpdateShippingAddress replaces the user's stored shipping address
// wholesale and reports whether the new address is complete enough for
// checkout.
func (s *ProfileService) UpdateShippingAddress(ctx context.Context, userID string, addr user.Address) (*ShippingAddressResult, error) {
	if userID == "" {
		return nil, shared.ErrUnauthorized
	}

	if err := s.users.UpdateProfile(ctx, userID, user.ShippingAddressPatch(addr)); err != nil {
		return nil, fmt.Errorf("failed to update shipping address for user %s: %w", userID, err)
	}

	s.logger.Info("shipping address updated",
		zap.String("user_id", userID),
		zap.Bool("complete", addr.IsComplete()))

	return &ShippingAddressResult{
		Address:  &addr,
		Complete: addr.IsComplete(),
	}, nil
}
