package order

import "context"

// Store is the external authoritative order/transaction store. Metadata
// patches use whole-field merge semantics; the store exposes no
// conditional-write primitive, so writers guard with a fresh read instead.
type Store interface {
	Get(ctx context.Context, orderID string) (*Order, error)
	Transition(ctx context.Context, orderID, transition string) error
	UpdateMetadata(ctx context.Context, orderID string, patch map[string]any) error
}
