package user

import (
	"context"

	"github.com/marketplace/backend/internal/domain/cart"
)

// ProfilePatch is a partial profile update. Nil sections are left untouched;
// a non-nil section replaces the corresponding profile field wholesale. The
// user store offers no per-field optimistic locking, so writers re-read the
// latest profile immediately before patching to keep the overwrite window
// small.
type ProfilePatch struct {
	ProtectedData map[string]any `json:"protectedData,omitempty"`
	PrivateData   map[string]any `json:"privateData,omitempty"`
}

// CartPatch builds a profile patch that replaces the stored cart.
func CartPatch(c cart.Cart) ProfilePatch {
	return ProfilePatch{
		PrivateData: map[string]any{"cart": c},
	}
}

// ShippingAddressPatch builds a profile patch that replaces the stored
// shipping address.
func ShippingAddressPatch(a Address) ProfilePatch {
	return ProfilePatch{
		ProtectedData: map[string]any{"shippingAddress": a},
	}
}

// Store is the external user/profile store. It is the authoritative owner of
// profile data; this core only reads it and applies whole-field patches.
type Store interface {
	Get(ctx context.Context, userID string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) error
}
