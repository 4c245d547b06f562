package courier

// Wire types for the MyParcel shipment API (v1.1 shipment media type).

// myParcelAddress is an address on the shipment wire format.
type myParcelAddress struct {
	CC         string `json:"cc"`
	Region     string `json:"region,omitempty"`
	City       string `json:"city"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	PostalCode string `json:"postal_code"`
	Person     string `json:"person"`
	Email      string `json:"email,omitempty"`
}

// myParcelShipmentOptions carries the fixed package and delivery type for
// standard parcel delivery.
type myParcelShipmentOptions struct {
	PackageType  int `json:"package_type"`
	DeliveryType int `json:"delivery_type"`
}

type myParcelShipment struct {
	ReferenceIdentifier string                  `json:"reference_identifier"`
	Sender              myParcelAddress         `json:"sender"`
	Recipient           myParcelAddress         `json:"recipient"`
	Options             myParcelShipmentOptions `json:"options"`
	Carrier             int                     `json:"carrier"`
}

type myParcelCreateShipmentRequest struct {
	Data struct {
		Shipments []myParcelShipment `json:"shipments"`
	} `json:"data"`
}

type myParcelCreateShipmentResponse struct {
	Data struct {
		IDs []struct {
			ID                  int64  `json:"id"`
			ReferenceIdentifier string `json:"reference_identifier"`
		} `json:"ids"`
		PDF struct {
			URL string `json:"url"`
		} `json:"pdf"`
	} `json:"data"`
}

type myParcelShipmentDetail struct {
	ID                  int64  `json:"id"`
	ReferenceIdentifier string `json:"reference_identifier"`
	Carrier             int    `json:"carrier"`
	Status              int    `json:"status"`
}

type myParcelGetShipmentResponse struct {
	Data struct {
		Shipments []myParcelShipmentDetail `json:"shipments"`
	} `json:"data"`
}

type myParcelLabelResponse struct {
	Data struct {
		PDFs struct {
			URL string `json:"url"`
		} `json:"pdfs"`
	} `json:"data"`
}

type myParcelTrackTrace struct {
	ShipmentID     int64  `json:"shipment_id"`
	LinkTrackTrace string `json:"link_tracktrace"`
}

type myParcelTrackingResponse struct {
	Data struct {
		TrackTraces []myParcelTrackTrace `json:"tracktraces"`
	} `json:"data"`
}

type myParcelWebhookSubscription struct {
	Hook string `json:"hook"`
	URL  string `json:"url"`
}

type myParcelSubscribeRequest struct {
	Data struct {
		WebhookSubscriptions []myParcelWebhookSubscription `json:"webhook_subscriptions"`
	} `json:"data"`
}

type myParcelSubscribeResponse struct {
	Data struct {
		IDs []struct {
			ID int64 `json:"id"`
		} `json:"ids"`
	} `json:"data"`
}

// myParcelAddressValidation is the address API answer. Only the validity
// flag is consumed.
type myParcelAddressValidation struct {
	Valid bool `json:"valid"`
}
