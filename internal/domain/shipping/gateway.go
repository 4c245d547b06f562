package shipping

import "context"

// ShipmentParty is one side of a shipment in courier wire terms.
type ShipmentParty struct {
	CountryCode string
	Region      string
	City        string
	Street      string
	Number      string
	PostalCode  string
	Person      string
	Email       string
}

// CreateShipmentParams describes the shipment to create with the courier
// aggregator. ReferenceIdentifier must be built with BuildOrderReference so
// the shipment can later be joined back to its order.
type CreateShipmentParams struct {
	ReferenceIdentifier string
	Sender              ShipmentParty
	Recipient           ShipmentParty
	CarrierID           int
}

// CreatedShipment is the courier's answer to a shipment creation. PDFURL may
// be empty when the label is not yet available.
type CreatedShipment struct {
	ID     int64
	PDFURL string
}

// ShipmentDetail is a courier-side shipment record.
type ShipmentDetail struct {
	ID                  int64
	ReferenceIdentifier string
	CarrierID           int
	Status              int
}

// Label is a downloadable shipping label artifact.
type Label struct {
	URL string
}

// Tracking is a courier-hosted transit status link.
type Tracking struct {
	LinkTrackTrace string
}

// CourierGateway is a thin typed client over the courier aggregator. Each
// call is a single round trip with a bounded timeout; retry policy belongs
// to the caller, not the gateway.
type CourierGateway interface {
	CreateShipment(ctx context.Context, params CreateShipmentParams) (*CreatedShipment, error)
	GetShipment(ctx context.Context, shipmentID int64) (*ShipmentDetail, error)
	GetLabel(ctx context.Context, shipmentID int64) (*Label, error)
	GetTracking(ctx context.Context, shipmentID int64) (*Tracking, error)
	SubscribeWebhook(ctx context.Context, hook, callbackURL string) ([]int64, error)
	// LabelBaseURL is the fixed origin used to complete relative label URLs.
	LabelBaseURL() string
}

// AddressQuery is the canonical input to the external address check.
type AddressQuery struct {
	CountryCode       string
	PostalCode        string
	City              string
	Street            string
	HouseNumber       string
	HouseNumberSuffix string
	BoxNumber         string
	Region            string
}

// AddressValidator wraps the external address existence check. A non-nil
// error means the validator itself failed and the caller should proceed as
// if validation were skipped; valid=false with a nil error is an
// authoritative rejection.
type AddressValidator interface {
	Validate(ctx context.Context, query AddressQuery) (bool, error)
}
