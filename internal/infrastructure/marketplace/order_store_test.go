package marketplace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shared"
)

func newTestOrderStore(t *testing.T, handler http.HandlerFunc) *OrderStore {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store, err := NewOrderStore(NewConfig(server.URL, "test-token"))
	require.NoError(t, err)
	return store
}

func TestOrderStore_Get(t *testing.T) {
	store := newTestOrderStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/orders/order-1", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":{
			"id":"order-1",
			"customer":{"id":"buyer-1","displayName":"Buyer","email":"buyer@example.com"},
			"provider":{"id":"seller-1","displayName":"Seller","email":"seller@example.com"},
			"protectedData":{"providerCart":{"listing-1":{"quantity":2}}},
			"metadata":{"shipmentId":12345}
		}}`))
	})

	got, err := store.Get(context.Background(), "order-1")

	require.NoError(t, err)
	assert.Equal(t, "order-1", got.ID)
	assert.Equal(t, "buyer-1", got.Customer.ID)
	assert.Equal(t, "seller-1", got.Provider.ID)
	assert.Equal(t, 2, got.ProtectedData.ProviderCart["listing-1"].Quantity)
	assert.Equal(t, int64(12345), got.Metadata.ShipmentID)
	assert.Equal(t, order.ShipmentCreated, got.Metadata.ShipmentState())
}

func TestOrderStore_Get_NotFound(t *testing.T) {
	store := newTestOrderStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := store.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOrderStore_Transition(t *testing.T) {
	var gotBody transitionRequest
	store := newTestOrderStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders/order-1/transition", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"data":{}}`))
	})

	err := store.Transition(context.Background(), "order-1", order.TransitionConfirmPushPayment)

	require.NoError(t, err)
	assert.Equal(t, "transition/confirm-push-payment", gotBody.Transition)
}

func TestOrderStore_UpdateMetadata(t *testing.T) {
	var gotBody metadataRequest
	store := newTestOrderStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/order-1/metadata", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"data":{}}`))
	})

	err := store.UpdateMetadata(context.Background(), "order-1", map[string]any{
		order.MetadataKeyShipmentID: int64(12345),
	})

	require.NoError(t, err)
	assert.EqualValues(t, 12345, gotBody.Metadata[order.MetadataKeyShipmentID])
}

func TestOrderStore_ServerError(t *testing.T) {
	store := newTestOrderStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"errors":["boom"]}`))
	})

	err := store.Transition(context.Background(), "order-1", order.TransitionConfirmPushPayment)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
}
