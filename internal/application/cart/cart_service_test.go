package cart

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

// MockUserStore is a mock implementation of user.Store
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Get(ctx context.Context, userID string) (*user.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserStore) UpdateProfile(ctx context.Context, userID string, patch user.ProfilePatch) error {
	args := m.Called(ctx, userID, patch)
	return args.Error(0)
}

// MockSessionStore is a mock implementation of cart.SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Get(ctx context.Context, sessionID string) (cart.Cart, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cart.Cart), args.Error(1)
}

func (m *MockSessionStore) Save(ctx context.Context, sessionID string, c cart.Cart) error {
	args := m.Called(ctx, sessionID, c)
	return args.Error(0)
}

func userWithCart(id string, c cart.Cart) *user.User {
	return &user.User{
		ID: id,
		Profile: user.Profile{
			PrivateData: user.PrivateData{Cart: c},
		},
	}
}

func TestIdentity(t *testing.T) {
	assert.False(t, Identity{}.Valid())
	assert.True(t, Identity{UserID: "user-1"}.Valid())
	assert.True(t, Identity{SessionID: "session-1"}.Valid())
	assert.True(t, Identity{SessionID: "session-1"}.IsAnonymous())
	assert.False(t, Identity{UserID: "user-1"}.IsAnonymous())
}

func TestService_Update_Authenticated(t *testing.T) {
	ctx := context.Background()
	id := Identity{UserID: "user-1"}

	t.Run("adds line to stored cart", func(t *testing.T) {
		users := new(MockUserStore)
		stored := cart.Cart{"seller-1": cart.SellerCart{"listing-1": cart.Line{Quantity: 1}}}
		users.On("Get", mock.Anything, "user-1").Return(userWithCart("user-1", stored), nil)
		expected := cart.Cart{"seller-1": cart.SellerCart{
			"listing-1": cart.Line{Quantity: 1},
			"listing-2": cart.Line{Quantity: 3},
		}}
		users.On("UpdateProfile", mock.Anything, "user-1", user.CartPatch(expected)).Return(nil)
		service := NewService(users, new(MockSessionStore), zap.NewNop())

		got, err := service.Update(ctx, id, "seller-1", "listing-2", 3)

		require.NoError(t, err)
		assert.Equal(t, expected, got)
		users.AssertExpectations(t)
	})

	t.Run("zero quantity removes line and empty bucket", func(t *testing.T) {
		users := new(MockUserStore)
		stored := cart.Cart{"seller-1": cart.SellerCart{"listing-1": cart.Line{Quantity: 1}}}
		users.On("Get", mock.Anything, "user-1").Return(userWithCart("user-1", stored), nil)
		users.On("UpdateProfile", mock.Anything, "user-1", user.CartPatch(cart.Cart{})).Return(nil)
		service := NewService(users, new(MockSessionStore), zap.NewNop())

		got, err := service.Update(ctx, id, "seller-1", "listing-1", 0)

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("nil stored cart starts empty", func(t *testing.T) {
		users := new(MockUserStore)
		users.On("Get", mock.Anything, "user-1").Return(userWithCart("user-1", nil), nil)
		expected := cart.Cart{"seller-1": cart.SellerCart{"listing-1": cart.Line{Quantity: 2}}}
		users.On("UpdateProfile", mock.Anything, "user-1", user.CartPatch(expected)).Return(nil)
		service := NewService(users, new(MockSessionStore), zap.NewNop())

		got, err := service.Update(ctx, id, "seller-1", "listing-1", 2)

		require.NoError(t, err)
		assert.Equal(t, expected, got)
	})

	t.Run("negative quantity rejected", func(t *testing.T) {
		service := NewService(new(MockUserStore), new(MockSessionStore), zap.NewNop())

		_, err := service.Update(ctx, id, "seller-1", "listing-1", -1)

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestService_Update_Anonymous(t *testing.T) {
	ctx := context.Background()
	id := Identity{SessionID: "session-1"}

	sessions := new(MockSessionStore)
	sessions.On("Get", mock.Anything, "session-1").Return(cart.Cart{}, nil)
	expected := cart.Cart{"seller-1": cart.SellerCart{"listing-1": cart.Line{Quantity: 1}}}
	sessions.On("Save", mock.Anything, "session-1", expected).Return(nil)
	service := NewService(new(MockUserStore), sessions, zap.NewNop())

	got, err := service.Update(ctx, id, "seller-1", "listing-1", 1)

	require.NoError(t, err)
	assert.Equal(t, expected, got)
	sessions.AssertExpectations(t)
}

func TestService_Update_NoIdentity(t *testing.T) {
	service := NewService(new(MockUserStore), new(MockSessionStore), zap.NewNop())

	_, err := service.Update(context.Background(), Identity{}, "seller-1", "listing-1", 1)

	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestService_ClearSeller(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserStore)
	stored := cart.Cart{
		"seller-1": cart.SellerCart{"listing-1": cart.Line{Quantity: 1}},
		"seller-2": cart.SellerCart{"listing-9": cart.Line{Quantity: 4}},
	}
	users.On("Get", mock.Anything, "user-1").Return(userWithCart("user-1", stored), nil)
	expected := cart.Cart{"seller-2": cart.SellerCart{"listing-9": cart.Line{Quantity: 4}}}
	users.On("UpdateProfile", mock.Anything, "user-1", user.CartPatch(expected)).Return(nil)
	service := NewService(users, new(MockSessionStore), zap.NewNop())

	got, err := service.ClearSeller(ctx, Identity{UserID: "user-1"}, "seller-1")

	require.NoError(t, err)
	assert.Equal(t, expected, got)
	users.AssertExpectations(t)
}

func TestService_RemoveListings(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserStore)
	stored := cart.Cart{
		"seller-1": cart.SellerCart{
			"listing-1": cart.Line{Quantity: 1},
			"listing-2": cart.Line{Quantity: 2},
		},
		"seller-2": cart.SellerCart{"listing-1": cart.Line{Quantity: 3}},
	}
	users.On("Get", mock.Anything, "user-1").Return(userWithCart("user-1", stored), nil)
	expected := cart.Cart{"seller-1": cart.SellerCart{"listing-2": cart.Line{Quantity: 2}}}
	users.On("UpdateProfile", mock.Anything, "user-1", user.CartPatch(expected)).Return(nil)
	service := NewService(users, new(MockSessionStore), zap.NewNop())

	got, err := service.RemoveListings(ctx, Identity{UserID: "user-1"}, []string{"listing-1"})

	require.NoError(t, err)
	assert.Equal(t, expected, got)
}

func TestService_GetCart(t *testing.T) {
	ctx := context.Background()

	t.Run("authenticated", func(t *testing.T) {
		users := new(MockUserStore)
		stored := cart.Cart{"seller-1": cart.SellerCart{"listing-1": cart.Line{Quantity: 1}}}
		users.On("Get", mock.Anything, "user-1").Return(userWithCart("user-1", stored), nil)
		service := NewService(users, new(MockSessionStore), zap.NewNop())

		got, err := service.GetCart(ctx, Identity{UserID: "user-1"})

		require.NoError(t, err)
		assert.Equal(t, stored, got)
	})

	t.Run("anonymous", func(t *testing.T) {
		sessions := new(MockSessionStore)
		sessions.On("Get", mock.Anything, "session-1").Return(cart.Cart{}, nil)
		service := NewService(new(MockUserStore), sessions, zap.NewNop())

		got, err := service.GetCart(ctx, Identity{SessionID: "session-1"})

		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestService_CheckStock(t *testing.T) {
	service := NewService(new(MockUserStore), new(MockSessionStore), zap.NewNop())
	stock := int64(2)

	flags, err := service.CheckStock(context.Background(),
		[]cart.Listing{{ID: "listing-1", CurrentStock: &stock}},
		cart.SellerCart{"listing-1": cart.Line{Quantity: 5}})

	require.NoError(t, err)
	require.Contains(t, flags, "listing-1")
	assert.Equal(t, int64(2), flags["listing-1"].CurrentStockQuantity)
	assert.Equal(t, 5, flags["listing-1"].OrderedQuantity)
}
