package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/marketplace/backend/internal/domain/order"
)

// OrderStore implements order.Store against the marketplace platform API.
// The platform is the authoritative owner of order records; this adapter
// reads them and applies transition and metadata-merge requests.
type OrderStore struct {
	client *client
}

// NewOrderStore creates a new order store adapter.
func NewOrderStore(config *Config) (*OrderStore, error) {
	c, err := newClient(config)
	if err != nil {
		return nil, err
	}
	return &OrderStore{client: c}, nil
}

type orderEnvelope struct {
	Data order.Order `json:"data"`
}

type transitionRequest struct {
	Transition string `json:"transition"`
}

type metadataRequest struct {
	Metadata map[string]any `json:"metadata"`
}

// Get fetches an order by id.
func (s *OrderStore) Get(ctx context.Context, orderID string) (*order.Order, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return nil, err
	}

	var envelope orderEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse order response: %w", err)
	}
	return &envelope.Data, nil
}

// Transition requests a named state transition on the order.
func (s *OrderStore) Transition(ctx context.Context, orderID, transition string) error {
	_, err := s.client.doRequest(ctx, http.MethodPost,
		"/orders/"+url.PathEscape(orderID)+"/transition",
		transitionRequest{Transition: transition})
	return err
}

// UpdateMetadata merges the patch into the order's metadata map field-wise.
// Keys absent from the patch are left untouched by the platform.
func (s *OrderStore) UpdateMetadata(ctx context.Context, orderID string, patch map[string]any) error {
	_, err := s.client.doRequest(ctx, http.MethodPost,
		"/orders/"+url.PathEscape(orderID)+"/metadata",
		metadataRequest{Metadata: patch})
	return err
}

// Ensure OrderStore implements the order.Store interface
var _ order.Store = (*OrderStore)(nil)
