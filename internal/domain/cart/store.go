package cart

import "context"

// SessionStore persists carts for anonymous identities, keyed by an opaque
// session ID. Authenticated carts live in the user profile instead and do
// not pass through this store. Implementations offer no cross-device
// consistency guarantee.
type SessionStore interface {
	// Get returns the cart for the session, or an empty cart if none exists.
	Get(ctx context.Context, sessionID string) (Cart, error)
	// Save replaces the cart for the session (whole-document semantics).
	Save(ctx context.Context, sessionID string, c Cart) error
}
