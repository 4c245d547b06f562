package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/marketplace/backend/internal/domain/user"
)

// MockUserStore is a testify mock for user.Store
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

// MockSessionStore is a testify mock for cart.SessionStore
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

// MockOrderStore is a testify mock for order.Store
type MockOrderStore struct {
	mock.Mock
}

func (m *MockOrderStore) Get(ctx context.Context, orderID string) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderStore) Transition(ctx context.Context, orderID, transition string) error {
	args := m.Called(ctx, orderID, transition)
	return args.Error(0)
}

func (m *MockOrderStore) UpdateMetadata(ctx context.Context, orderID string, patch map[string]any) error {
	args := m.Called(ctx, orderID, patch)
	return args.Error(0)
}

// MockCourierGateway is a testify mock for shipping.CourierGateway
type MockCourierGateway struct {
	mock.Mock
}

func (m *MockCourierGateway) CreateShipment(ctx context.Context, params shipping.CreateShipmentParams) (*shipping.CreatedShipment, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.CreatedShipment), args.Error(1)
}

func (m *MockCourierGateway) GetShipment(ctx context.Context, shipmentID int64) (*shipping.ShipmentDetail, error) {
	args := m.Called(ctx, shipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.ShipmentDetail), args.Error(1)
}

func (m *MockCourierGateway) GetLabel(ctx context.Context, shipmentID int64) (*shipping.Label, error) {
	args := m.Called(ctx, shipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Label), args.Error(1)
}

func (m *MockCourierGateway) GetTracking(ctx context.Context, shipmentID int64) (*shipping.Tracking, error) {
	args := m.Called(ctx, shipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Tracking), args.Error(1)
}

func (m *MockCourierGateway) SubscribeWebhook(ctx context.Context, hook, callbackURL string) ([]int64, error) {
	args := m.Called(ctx, hook, callbackURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockCourierGateway) LabelBaseURL() string {
	args := m.Called()
	return args.String(0)
}

// MockAddressValidator is a testify mock for shipping.AddressValidator
type MockAddressValidator struct {
	mock.Mock
}

func (m *MockAddressValidator) Validate(ctx context.Context, query shipping.AddressQuery) (bool, error) {
	args := m.Called(ctx, query)
	return args.Bool(0), args.Error(1)
}
