package order

import (
	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/marketplace/backend/internal/domain/user"
)

// Transition names understood by the order store.
const (
	TransitionConfirmPushPayment = "transition/confirm-push-payment"
)

// Metadata patch keys. The order store merges metadata patches field-wise
// into the order's metadata map.
const (
	MetadataKeyShipmentID        = "shipmentId"
	MetadataKeyShipmentLabelURL  = "shipmentLabelUrl"
	MetadataKeyLinkTraceTraceURL = "linkTraceTraceUrl"
)

// Party is one side of an order with its denormalized address snapshot.
type Party struct {
	ID          string       `json:"id"`
	DisplayName string       `json:"displayName"`
	Email       string       `json:"email"`
	Address     *user.Address `json:"address,omitempty"`
}

// ProtectedData carries the order fields locked in during checkout. The
// shipping rate is immutable once the order enters payment.
type ProtectedData struct {
	ShippingRate *shipping.Rate  `json:"shippingRate,omitempty"`
	ProviderCart cart.SellerCart `json:"providerCart,omitempty"`
}

// Metadata is the fulfillment sub-map this core patches on an order. Once
// ShipmentID is set it is never overwritten by a different value; once the
// label and tracking URLs are non-empty they are terminal for the order.
type Metadata struct {
	ShipmentID        int64  `json:"shipmentId,omitempty"`
	ShipmentLabelURL  string `json:"shipmentLabelUrl,omitempty"`
	LinkTraceTraceURL string `json:"linkTraceTraceUrl,omitempty"`
}

// Order is an order record as served by the order store. The store owns the
// record; this core only reads it and patches the metadata sub-map.
type Order struct {
	ID            string        `json:"id"`
	Customer      Party         `json:"customer"`
	Provider      Party         `json:"provider"`
	ProtectedData ProtectedData `json:"protectedData"`
	Metadata      Metadata      `json:"metadata"`
}

// ShipmentState is the fulfillment state of an order, derived from which
// metadata fields are set.
type ShipmentState int

const (
	// NoShipment means no courier shipment exists for the order yet.
	NoShipment ShipmentState = iota
	// ShipmentCreated means a shipment exists but label and tracking data
	// are not both persisted yet.
	ShipmentCreated
	// ShipmentComplete means shipment, label and tracking are all persisted;
	// no component fetches them again.
	ShipmentComplete
)

func (s ShipmentState) String() string {
	switch s {
	case NoShipment:
		return "no_shipment"
	case ShipmentCreated:
		return "shipment_created"
	case ShipmentComplete:
		return "shipment_complete"
	default:
		return "unknown"
	}
}

// ShipmentState derives the fulfillment state from metadata field presence.
func (m Metadata) ShipmentState() ShipmentState {
	if m.ShipmentID == 0 {
		return NoShipment
	}
	if m.ShipmentLabelURL != "" && m.LinkTraceTraceURL != "" {
		return ShipmentComplete
	}
	return ShipmentCreated
}
