package handler

import (
	"github.com/gin-gonic/gin"

	userapp "github.com/marketplace/backend/internal/application/user"
	"github.com/marketplace/backend/internal/domain/user"
)

// ProfileHandler handles the caller's own profile endpoints
type ProfileHandler struct {
	BaseHandler
	profiles *userapp.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profiles *userapp.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetShippingAddress returns the caller's shipping address and whether it is
// complete enough to ship to
func (h *ProfileHandler) GetShippingAddress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.profiles.GetShippingAddress(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateShippingAddressRequest replaces the caller's shipping address.
// Partial addresses are accepted and saved; completeness is reported back.
type UpdateShippingAddressRequest struct {
	CountryCode       string `json:"countryCode" binding:"omitempty,len=2"`
	PostalCode        string `json:"postalCode"`
	City              string `json:"city"`
	Street            string `json:"street"`
	HouseNumber       string `json:"houseNumber"`
	HouseNumberSuffix string `json:"houseNumberSuffix"`
	Region            string `json:"region"`
	Phone             string `json:"phone"`
}

// UpdateShippingAddress stores the caller's shipping address
func (h *ProfileHandler) UpdateShippingAddress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateShippingAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid address: "+err.Error())
		return
	}

	result, err := h.profiles.UpdateShippingAddress(c.Request.Context(), userID, user.Address{
		CountryCode:       req.CountryCode,
		PostalCode:        req.PostalCode,
		City:              req.City,
		Street:            req.Street,
		HouseNumber:       req.HouseNumber,
		HouseNumberSuffix: req.HouseNumberSuffix,
		Region:            req.Region,
		Phone:             req.Phone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
