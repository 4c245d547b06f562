package handler

import (
	"github.com/gin-gonic/gin"

	cartapp "github.com/marketplace/backend/internal/application/cart"
	shippingapp "github.com/marketplace/backend/internal/application/shipping"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

// ShippingHandler handles rate quoting, shipment lifecycle, and address
// validation endpoints
type ShippingHandler struct {
	BaseHandler
	rates     *shippingapp.RateService
	shipments *shippingapp.ShipmentService
	carts     *cartapp.Service
	validator shipping.AddressValidator
}

// NewShippingHandler creates a new ShippingHandler
func NewShippingHandler(
	rates *shippingapp.RateService,
	shipments *shippingapp.ShipmentService,
	carts *cartapp.Service,
	validator shipping.AddressValidator,
) *ShippingHandler {
	return &ShippingHandler{
		rates:     rates,
		shipments: shipments,
		carts:     carts,
		validator: validator,
	}
}

// ListRatesRequest holds the optional query inputs to the rate catalog
type ListRatesRequest struct {
	Weight             float64 `form:"weight" binding:"omitempty,gt=0"`
	Volume             float64 `form:"volume" binding:"omitempty,gt=0"`
	MonthlyShipments   int     `form:"monthlyShipments" binding:"omitempty,min=0"`
	UseDiscountedRates bool    `form:"discounted"`
}

// ListRates returns the full rate catalog for the given parcel parameters.
// Unset parameters fall back to the standard parcel defaults.
func (h *ShippingHandler) ListRates(c *gin.Context) {
	var req ListRatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid rate parameters: "+err.Error())
		return
	}

	params := shipping.DefaultRateParams()
	if req.Weight > 0 {
		params.Weight = req.Weight
	}
	if req.Volume > 0 {
		params.Volume = req.Volume
	}
	if req.MonthlyShipments > 0 {
		params.MonthlyShipments = req.MonthlyShipments
	}
	params.UseDiscountedRates = req.UseDiscountedRates

	h.Success(c, shipping.ComputeRates(params))
}

// QuoteRatesRequest is the body of a checkout rate quote
type QuoteRatesRequest struct {
	ProviderID         string `json:"providerId" binding:"required"`
	MonthlyShipments   int    `json:"monthlyShipments" binding:"omitempty,min=0"`
	UseDiscountedRates bool   `json:"useDiscountedRates"`
}

// QuoteRates computes the rate options for the caller's cart bucket with a
// single provider. Both parties must have complete shipping addresses.
func (h *ShippingHandler) QuoteRates(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req QuoteRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid quote request: "+err.Error())
		return
	}

	userCart, err := h.carts.GetCart(c.Request.Context(), cartapp.Identity{UserID: userID})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	rates, err := h.rates.QuoteForCart(c.Request.Context(), shippingapp.QuoteParams{
		CustomerID:         userID,
		ProviderID:         req.ProviderID,
		Cart:               userCart[req.ProviderID],
		MonthlyShipments:   req.MonthlyShipments,
		UseDiscountedRates: req.UseDiscountedRates,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rates)
}

// GetRate returns a single rate from the catalog by its composite ID
func (h *ShippingHandler) GetRate(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid rate ID")
		return
	}

	rate := shipping.RateByID(req.ID, shipping.DefaultRateParams())
	if rate == nil {
		h.NotFound(c, "Rate not found")
		return
	}

	h.Success(c, rate)
}

// CreateShipment registers a shipment with the courier for a paid order and
// returns the order's shipment metadata. Calling it again after the
// shipment exists completes any missing label or tracking data instead of
// creating a duplicate.
func (h *ShippingHandler) CreateShipment(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	meta, err := h.shipments.CreateShipment(c.Request.Context(), req.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, meta)
}

// ShipmentLabelResponse carries the resolved label download URL and the
// consumer tracking link. The tracking link may be empty when the courier
// has not released it yet.
type ShipmentLabelResponse struct {
	LabelURL     string `json:"labelUrl"`
	TrackingLink string `json:"trackingLink"`
}

// GetShipmentLabel returns the label download URL and tracking link for an
// order's shipment
func (h *ShippingHandler) GetShipmentLabel(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	meta, err := h.shipments.GetLabel(c.Request.Context(), req.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ShipmentLabelResponse{
		LabelURL:     meta.ShipmentLabelURL,
		TrackingLink: meta.LinkTraceTraceURL,
	})
}

// ValidateAddressRequest is the body of an address validation check. Older
// clients still send the courier's legacy field names (cc, postal_code,
// number); they are accepted as aliases, with the canonical name winning
// when both are present.
type ValidateAddressRequest struct {
	CountryCode       string `json:"countryCode" binding:"omitempty,len=2"`
	CC                string `json:"cc" binding:"omitempty,len=2"`
	PostalCode        string `json:"postalCode"`
	PostalCodeLegacy  string `json:"postal_code"`
	City              string `json:"city"`
	Street            string `json:"street"`
	HouseNumber       string `json:"houseNumber"`
	Number            string `json:"number"`
	HouseNumberSuffix string `json:"houseNumberSuffix"`
	BoxNumber         string `json:"boxNumber"`
	Region            string `json:"region"`
}

// query canonicalizes the request onto the validator's address shape.
func (r ValidateAddressRequest) query() shipping.AddressQuery {
	return shipping.AddressQuery{
		CountryCode:       firstNonEmpty(r.CountryCode, r.CC),
		PostalCode:        firstNonEmpty(r.PostalCode, r.PostalCodeLegacy),
		City:              r.City,
		Street:            r.Street,
		HouseNumber:       firstNonEmpty(r.HouseNumber, r.Number),
		HouseNumberSuffix: r.HouseNumberSuffix,
		BoxNumber:         r.BoxNumber,
		Region:            r.Region,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ValidateAddressResponse carries the validator verdict
type ValidateAddressResponse struct {
	Valid bool `json:"valid"`
}

// ValidateAddress checks an address against the external address service
func (h *ShippingHandler) ValidateAddress(c *gin.Context) {
	var req ValidateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid address: "+err.Error())
		return
	}

	query := req.query()
	if query.CountryCode == "" {
		h.BadRequest(c, "Address requires a countryCode")
		return
	}
	if query.PostalCode == "" {
		h.BadRequest(c, "Address requires a postalCode")
		return
	}

	valid, err := h.validator.Validate(c.Request.Context(), query)
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeUpstreamUnavailable, "Address validation service is unavailable")
		return
	}

	h.Success(c, ValidateAddressResponse{Valid: valid})
}
