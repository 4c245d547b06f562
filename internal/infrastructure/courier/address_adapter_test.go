package courier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/backend/internal/domain/shipping"
)

func newTestAddressAdapter(t *testing.T, handler http.HandlerFunc) *AddressAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := NewMyParcelConfig("dGVzdA==")
	cfg.AddressAPIBaseURL = server.URL
	adapter, err := NewAddressAdapter(cfg)
	require.NoError(t, err)
	return adapter
}

func TestAddressAdapter_Validate(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     bool
	}{
		{name: "valid address", response: `{"valid":true}`, want: true},
		{name: "invalid address", response: `{"valid":false}`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := newTestAddressAdapter(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/validate", r.URL.Path)
				assert.Equal(t, "NL", r.URL.Query().Get("countryCode"))
				assert.Equal(t, "1015CJ", r.URL.Query().Get("postalCode"))
				assert.Equal(t, "1", r.URL.Query().Get("houseNumber"))
				assert.False(t, r.URL.Query().Has("region"))
				_, _ = w.Write([]byte(tt.response))
			})

			valid, err := adapter.Validate(context.Background(), shipping.AddressQuery{
				CountryCode: "NL",
				PostalCode:  "1015CJ",
				City:        "Amsterdam",
				Street:      "Keizersgracht",
				HouseNumber: "1",
			})

			require.NoError(t, err)
			assert.Equal(t, tt.want, valid)
		})
	}
}

func TestAddressAdapter_Validate_MissingCountryCode(t *testing.T) {
	adapter := newTestAddressAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := adapter.Validate(context.Background(), shipping.AddressQuery{PostalCode: "1015CJ"})

	var svcErr *shipping.ValidationServiceError
	require.ErrorAs(t, err, &svcErr)
}

func TestAddressAdapter_Validate_ServerError(t *testing.T) {
	adapter := newTestAddressAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := adapter.Validate(context.Background(), shipping.AddressQuery{CountryCode: "NL"})

	var svcErr *shipping.ValidationServiceError
	require.ErrorAs(t, err, &svcErr)
}

func TestAddressAdapter_Validate_MalformedResponse(t *testing.T) {
	adapter := newTestAddressAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := adapter.Validate(context.Background(), shipping.AddressQuery{CountryCode: "NL"})

	var svcErr *shipping.ValidationServiceError
	require.ErrorAs(t, err, &svcErr)
}
