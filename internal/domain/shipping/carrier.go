package shipping

// Carrier identifies a delivery company supported by the courier aggregator.
// The IDs are the aggregator's own carrier identifiers.
type Carrier struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// Supported carriers.
var (
	CarrierPostNL = Carrier{ID: 1, Label: "PostNL"}
	CarrierDHL    = Carrier{ID: 9, Label: "DHL"}
	CarrierDPD    = Carrier{ID: 4, Label: "DPD"}
	CarrierUPS    = Carrier{ID: 12, Label: "UPS"}
)

// AllCarriers lists every supported carrier in stable order.
var AllCarriers = []Carrier{CarrierPostNL, CarrierDHL, CarrierDPD, CarrierUPS}

// CarrierByID returns the carrier with the given aggregator ID.
func CarrierByID(id int) (Carrier, bool) {
	for _, c := range AllCarriers {
		if c.ID == id {
			return c, true
		}
	}
	return Carrier{}, false
}
