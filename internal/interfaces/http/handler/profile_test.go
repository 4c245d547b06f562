package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	userapp "github.com/marketplace/backend/internal/application/user"
	"github.com/marketplace/backend/internal/domain/user"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

type profileHandlerEnv struct {
	users  *MockUserStore
	router *gin.Engine
}

func newProfileHandlerEnv(t *testing.T, identity gin.HandlerFunc) *profileHandlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := new(MockUserStore)
	svc := userapp.NewProfileService(users, zap.NewNop())
	h := NewProfileHandler(svc)

	r := gin.New()
	if identity != nil {
		r.Use(identity)
	}
	r.GET("/profile/shipping-address", h.GetShippingAddress)
	r.PUT("/profile/shipping-address", h.UpdateShippingAddress)

	return &profileHandlerEnv{users: users, router: r}
}

func TestProfileHandler_GetShippingAddress(t *testing.T) {
	env := newProfileHandlerEnv(t, asUser("user-1"))

	env.users.On("Get", mock.Anything, "user-1").
		Return(userWithAddressAndCart("user-1", nil), nil)

	w := doJSON(t, env.router, http.MethodGet, "/profile/shipping-address", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["complete"])
}

func TestProfileHandler_GetShippingAddress_Anonymous(t *testing.T) {
	env := newProfileHandlerEnv(t, nil)

	w := doJSON(t, env.router, http.MethodGet, "/profile/shipping-address", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileHandler_UpdateShippingAddress(t *testing.T) {
	env := newProfileHandlerEnv(t, asUser("user-1"))

	addr := user.Address{
		CountryCode: "NL",
		PostalCode:  "1012 AB",
		City:        "Amsterdam",
		Street:      "Damstraat",
		HouseNumber: "1",
		Phone:       "+31612345678",
	}
	env.users.On("UpdateProfile", mock.Anything, "user-1", user.ShippingAddressPatch(addr)).
		Return(nil)

	w := doJSON(t, env.router, http.MethodPut, "/profile/shipping-address", UpdateShippingAddressRequest{
		CountryCode: "NL",
		PostalCode:  "1012 AB",
		City:        "Amsterdam",
		Street:      "Damstraat",
		HouseNumber: "1",
		Phone:       "+31612345678",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["complete"])
	env.users.AssertExpectations(t)
}

func TestProfileHandler_UpdateShippingAddress_PartialSaved(t *testing.T) {
	env := newProfileHandlerEnv(t, asUser("user-1"))

	addr := user.Address{CountryCode: "NL", PostalCode: "1012 AB"}
	env.users.On("UpdateProfile", mock.Anything, "user-1", user.ShippingAddressPatch(addr)).
		Return(nil)

	w := doJSON(t, env.router, http.MethodPut, "/profile/shipping-address", UpdateShippingAddressRequest{
		CountryCode: "NL",
		PostalCode:  "1012 AB",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, false, data["complete"])
}
