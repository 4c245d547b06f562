package shipping

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/user"
)

func completeAddress() *user.Address {
	return &user.Address{
		CountryCode: "NL",
		PostalCode:  "1015CJ",
		City:        "Amsterdam",
		Street:      "Keizersgracht",
		HouseNumber: "1",
		Phone:       "+31600000000",
	}
}

func userWithAddress(id string, addr *user.Address) *user.User {
	return &user.User{
		ID: id,
		Profile: user.Profile{
			ProtectedData: user.ProtectedData{ShippingAddress: addr},
		},
	}
}

func TestCartWeight(t *testing.T) {
	tests := []struct {
		name string
		cart cart.SellerCart
		want float64
	}{
		{
			name: "single light item floors at one kg",
			cart: cart.SellerCart{"listing-1": cart.Line{Quantity: 1}},
			want: 1,
		},
		{
			name: "two items exactly one kg",
			cart: cart.SellerCart{"listing-1": cart.Line{Quantity: 2}},
			want: 1,
		},
		{
			name: "five items across lines",
			cart: cart.SellerCart{
				"listing-1": cart.Line{Quantity: 3},
				"listing-2": cart.Line{Quantity: 2},
			},
			want: 2.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CartWeight(tt.cart))
		})
	}
}

func TestRateService_QuoteForCart(t *testing.T) {
	ctx := context.Background()
	params := QuoteParams{
		CustomerID:       "buyer-1",
		ProviderID:       "seller-1",
		Cart:             cart.SellerCart{"listing-1": cart.Line{Quantity: 2}},
		MonthlyShipments: 100,
	}

	t.Run("returns rates for complete addresses", func(t *testing.T) {
		users := new(MockUserStore)
		users.On("Get", mock.Anything, "buyer-1").Return(userWithAddress("buyer-1", completeAddress()), nil)
		users.On("Get", mock.Anything, "seller-1").Return(userWithAddress("seller-1", completeAddress()), nil)
		service := NewRateService(users, zap.NewNop())

		rates, err := service.QuoteForCart(ctx, params)

		require.NoError(t, err)
		assert.NotEmpty(t, rates)
		for _, r := range rates {
			assert.Equal(t, "1-250", r.VolumeTier)
			assert.Positive(t, r.Price)
		}
		users.AssertExpectations(t)
	})

	t.Run("missing buyer address", func(t *testing.T) {
		users := new(MockUserStore)
		users.On("Get", mock.Anything, "buyer-1").Return(userWithAddress("buyer-1", nil), nil)
		users.On("Get", mock.Anything, "seller-1").Return(userWithAddress("seller-1", completeAddress()), nil)
		service := NewRateService(users, zap.NewNop())

		_, err := service.QuoteForCart(ctx, params)

		assert.ErrorIs(t, err, ErrIncompleteAddress)
	})

	t.Run("incomplete seller address", func(t *testing.T) {
		partial := completeAddress()
		partial.Phone = ""
		users := new(MockUserStore)
		users.On("Get", mock.Anything, "buyer-1").Return(userWithAddress("buyer-1", completeAddress()), nil)
		users.On("Get", mock.Anything, "seller-1").Return(userWithAddress("seller-1", partial), nil)
		service := NewRateService(users, zap.NewNop())

		_, err := service.QuoteForCart(ctx, params)

		assert.ErrorIs(t, err, ErrIncompleteAddress)
	})

	t.Run("empty cart", func(t *testing.T) {
		service := NewRateService(new(MockUserStore), zap.NewNop())

		_, err := service.QuoteForCart(ctx, QuoteParams{CustomerID: "buyer-1", ProviderID: "seller-1"})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("user store failure", func(t *testing.T) {
		users := new(MockUserStore)
		users.On("Get", mock.Anything, "buyer-1").Return(nil, shared.ErrNotFound)
		users.On("Get", mock.Anything, "seller-1").Return(userWithAddress("seller-1", completeAddress()), nil).Maybe()
		service := NewRateService(users, zap.NewNop())

		_, err := service.QuoteForCart(ctx, params)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestRateService_RateByID(t *testing.T) {
	ctx := context.Background()
	service := NewRateService(new(MockUserStore), zap.NewNop())
	params := QuoteParams{
		Cart:             cart.SellerCart{"listing-1": cart.Line{Quantity: 1}},
		MonthlyShipments: 100,
	}

	t.Run("known id", func(t *testing.T) {
		rate, err := service.RateByID(ctx, "1-1-250-Tariff", params)

		require.NoError(t, err)
		assert.Equal(t, "PostNL", rate.Carrier.Label)
		assert.Equal(t, "1-250", rate.VolumeTier)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := service.RateByID(ctx, "99-1-250-Tariff", params)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
