package handler

import (
	"github.com/gin-gonic/gin"

	cartapp "github.com/marketplace/backend/internal/application/cart"
	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

// CartHandler handles cart read, mutation, and stock check endpoints. All
// endpoints accept either an authenticated user or an anonymous session.
type CartHandler struct {
	BaseHandler
	carts *cartapp.Service
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts *cartapp.Service) *CartHandler {
	return &CartHandler{carts: carts}
}

// CartResponse wraps a cart with its total item count
type CartResponse struct {
	Cart  cart.Cart `json:"cart"`
	Count int       `json:"count"`
}

func newCartResponse(c cart.Cart) CartResponse {
	return CartResponse{Cart: c, Count: cart.TotalCount(c)}
}

// GetCart returns the caller's current cart
func (h *CartHandler) GetCart(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication or session header required")
		return
	}

	current, err := h.carts.GetCart(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newCartResponse(current))
}

// UpdateCartRequest sets the quantity for one (seller, listing) entry.
// Quantity zero removes the entry.
type UpdateCartRequest struct {
	SellerID  string `json:"sellerId" binding:"required"`
	ListingID string `json:"listingId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"min=0"`
}

// UpdateCart upserts or removes a single cart entry and returns the merged
// cart
func (h *CartHandler) UpdateCart(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication or session header required")
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid cart update: "+err.Error())
		return
	}

	updated, err := h.carts.Update(c.Request.Context(), id, req.SellerID, req.ListingID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newCartResponse(updated))
}

// ClearSeller removes an entire seller bucket from the caller's cart
func (h *CartHandler) ClearSeller(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication or session header required")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid seller ID")
		return
	}

	updated, err := h.carts.ClearSeller(c.Request.Context(), id, req.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newCartResponse(updated))
}

// RemoveListingsRequest prunes listings from every seller bucket, used when
// listings have been sold or withdrawn
type RemoveListingsRequest struct {
	ListingIDs []string `json:"listingIds" binding:"required,min=1"`
}

// RemoveListings removes the given listings from the caller's cart
func (h *CartHandler) RemoveListings(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication or session header required")
		return
	}

	var req RemoveListingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	updated, err := h.carts.RemoveListings(c.Request.Context(), id, req.ListingIDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newCartResponse(updated))
}

// StockCheckListing carries the live stock snapshot the caller fetched for a
// single listing
type StockCheckListing struct {
	ID           string `json:"id" binding:"required"`
	CurrentStock *int64 `json:"currentStock"`
}

// CheckStockRequest compares fresh listing stock against an order's provider
// cart
type CheckStockRequest struct {
	Listings     []StockCheckListing `json:"listings" binding:"required"`
	ProviderCart cart.SellerCart     `json:"providerCart" binding:"required"`
}

// CheckStockResponse lists the over-requested listings, keyed by listing ID.
// An empty map means the order can proceed.
type CheckStockResponse struct {
	OutOfStock map[string]cart.OutOfStock `json:"outOfStock"`
}

// CheckStock verifies that an order's requested quantities are still covered
// by current stock
func (h *CartHandler) CheckStock(c *gin.Context) {
	var req CheckStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid stock check: "+err.Error())
		return
	}

	listings := make([]cart.Listing, len(req.Listings))
	for i, l := range req.Listings {
		listings[i] = cart.Listing{ID: l.ID, CurrentStock: l.CurrentStock}
	}

	outOfStock, err := h.carts.CheckStock(c.Request.Context(), listings, req.ProviderCart)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CheckStockResponse{OutOfStock: outOfStock})
}
