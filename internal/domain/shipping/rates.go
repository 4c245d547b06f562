package shipping

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Volume tiers by expected monthly shipment count. The premium tier has no
// published price for any carrier; it signals "request quote".
const (
	Tier1To250     = "1-250"
	Tier250To500   = "250-500"
	Tier500To1000  = "500-1000"
	Tier1000To2500 = "1000-2500"
	Tier2500To5000 = "2500-5000"
	TierPremium    = "premium"
)

// Rate types. The discounted rate includes a EUR 0.10 label contribution.
const (
	RateTypeTariff     = "Tariff"
	RateTypeDiscounted = "MyParcel Parcel*"
)

const rateDestination = "Netherlands"

// Rate is a priced carrier option for a parcel shipment within the
// Netherlands. Price is in integer minor-currency units. ID is a
// deterministic composite of carrier, tier, size bucket and rate type, so
// identical inputs always yield the same ID.
type Rate struct {
	ID            string  `json:"id"`
	Carrier       Carrier `json:"carrier"`
	Service       string  `json:"service"`
	Destination   string  `json:"destination"`
	Price         int64   `json:"price"`
	Currency      string  `json:"currency"`
	VolumeTier    string  `json:"volumeTier"`
	Size          string  `json:"size,omitempty"`
	RateType      string  `json:"rateType"`
	EstimatedDays int     `json:"estimatedDays"`
	Description   string  `json:"description"`
}

// RateParams are the inputs to the rate computation. Zero-valued fields fall
// back to the defaults of DefaultRateParams.
type RateParams struct {
	Weight             float64 // kg
	Volume             float64 // dm3
	MonthlyShipments   int
	Carriers           []Carrier
	UseDiscountedRates bool
}

// DefaultRateParams returns the defaults used when a caller leaves rate
// inputs unset: a typical 12" vinyl record mailer at the base volume tier.
func DefaultRateParams() RateParams {
	return RateParams{
		Weight:           1,   // kg
		Volume:           3.5, // dm3, ~32cm x 32cm x 3.5cm mailer
		MonthlyShipments: 249,
		Carriers:         AllCarriers,
	}
}

// VolumeTier maps a monthly shipment count onto a discrete pricing tier.
func VolumeTier(monthlyShipments int) string {
	switch {
	case monthlyShipments >= 5000:
		return TierPremium
	case monthlyShipments >= 2500:
		return Tier2500To5000
	case monthlyShipments >= 1000:
		return Tier1000To2500
	case monthlyShipments >= 500:
		return Tier500To1000
	case monthlyShipments >= 250:
		return Tier250To500
	default:
		return Tier1To250
	}
}

// dhlSize maps (volume, weight) onto DHL's five size classes.
func dhlSize(volume, weight float64) string {
	switch {
	case volume < 10 && weight < 5:
		return "S"
	case volume < 24 && weight < 10:
		return "M"
	case volume < 60 && weight < 15:
		return "L"
	case volume < 240 && weight < 20:
		return "XL"
	default:
		return "XXL"
	}
}

// upsSize maps (volume, weight) onto UPS's six volume/weight combinations.
func upsSize(volume, weight float64) string {
	switch {
	case volume <= 15 && weight <= 3:
		return "15dm3-0-3kg"
	case volume <= 25 && weight <= 5:
		return "25dm3-3-5kg"
	case volume <= 50 && weight <= 10:
		return "50dm3-5-10kg"
	case volume <= 75 && weight <= 15:
		return "75dm3-10-15kg"
	case volume <= 100 && weight <= 20:
		return "100dm3-15-20kg"
	default:
		return "150dm3-20-30kg"
	}
}

// Per-tier flat prices in EUR. A missing tier entry means quote-only.
type flatTable map[string]decimal.Decimal

// Per-tier, per-size prices in EUR.
type sizedTable map[string]map[string]decimal.Decimal

func eur(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// PostNL parcel shipment Netherlands, 2026 tariff.
var postNLTariff = flatTable{
	Tier1To250:     eur("7.45"),
	Tier250To500:   eur("7.30"),
	Tier500To1000:  eur("7.10"),
	Tier1000To2500: eur("6.90"),
	Tier2500To5000: eur("6.70"),
}

var postNLDiscounted = flatTable{
	Tier1To250:     eur("7.20"),
	Tier250To500:   eur("7.05"),
	Tier500To1000:  eur("6.85"),
	Tier1000To2500: eur("6.65"),
	Tier2500To5000: eur("6.45"),
}

// DHL For You consumer delivery, 2026 tariff.
var dhlTariff = sizedTable{
	Tier1To250:     {"S": eur("6.25"), "M": eur("6.55"), "L": eur("7.50"), "XL": eur("10.90"), "XXL": eur("19.80")},
	Tier250To500:   {"S": eur("6.00"), "M": eur("6.35"), "L": eur("7.30"), "XL": eur("10.65"), "XXL": eur("19.45")},
	Tier500To1000:  {"S": eur("5.80"), "M": eur("6.15"), "L": eur("7.10"), "XL": eur("10.45"), "XXL": eur("19.20")},
	Tier1000To2500: {"S": eur("5.55"), "M": eur("5.95"), "L": eur("6.90"), "XL": eur("10.25"), "XXL": eur("19.00")},
	Tier2500To5000: {"S": eur("5.40"), "M": eur("5.80"), "L": eur("6.65"), "XL": eur("10.05"), "XXL": eur("18.80")},
}

var dhlDiscounted = sizedTable{
	Tier1To250:     {"S": eur("6.00"), "M": eur("6.30"), "L": eur("7.25"), "XL": eur("10.65"), "XXL": eur("19.55")},
	Tier250To500:   {"S": eur("5.75"), "M": eur("6.10"), "L": eur("7.05"), "XL": eur("10.40"), "XXL": eur("19.20")},
	Tier500To1000:  {"S": eur("5.55"), "M": eur("5.90"), "L": eur("6.85"), "XL": eur("10.20"), "XXL": eur("18.95")},
	Tier1000To2500: {"S": eur("5.30"), "M": eur("5.70"), "L": eur("6.65"), "XL": eur("10.00"), "XXL": eur("18.75")},
	Tier2500To5000: {"S": eur("5.15"), "M": eur("5.55"), "L": eur("6.40"), "XL": eur("9.80"), "XXL": eur("18.55")},
}

// DPD parcel shipment Netherlands, 2026 tariff.
var dpdTariff = flatTable{
	Tier1To250:     eur("6.95"),
	Tier250To500:   eur("6.75"),
	Tier500To1000:  eur("6.55"),
	Tier1000To2500: eur("6.35"),
	Tier2500To5000: eur("6.20"),
}

var dpdDiscounted = flatTable{
	Tier1To250:     eur("6.70"),
	Tier250To500:   eur("6.50"),
	Tier500To1000:  eur("6.30"),
	Tier1000To2500: eur("6.10"),
	Tier2500To5000: eur("5.95"),
}

// UPS Package Netherlands, standard delivery, 2026 tariff.
var upsTariff = sizedTable{
	Tier1To250:     {"15dm3-0-3kg": eur("6.45"), "25dm3-3-5kg": eur("6.45"), "50dm3-5-10kg": eur("6.45"), "75dm3-10-15kg": eur("6.75"), "100dm3-15-20kg": eur("7.25"), "150dm3-20-30kg": eur("7.65")},
	Tier250To500:   {"15dm3-0-3kg": eur("6.25"), "25dm3-3-5kg": eur("6.25"), "50dm3-5-10kg": eur("6.25"), "75dm3-10-15kg": eur("6.55"), "100dm3-15-20kg": eur("7.05"), "150dm3-20-30kg": eur("7.45")},
	Tier500To1000:  {"15dm3-0-3kg": eur("6.10"), "25dm3-3-5kg": eur("6.10"), "50dm3-5-10kg": eur("6.10"), "75dm3-10-15kg": eur("6.40"), "100dm3-15-20kg": eur("6.90"), "150dm3-20-30kg": eur("7.30")},
	Tier1000To2500: {"15dm3-0-3kg": eur("5.90"), "25dm3-3-5kg": eur("5.90"), "50dm3-5-10kg": eur("5.90"), "75dm3-10-15kg": eur("6.20"), "100dm3-15-20kg": eur("6.70"), "150dm3-20-30kg": eur("7.10")},
	Tier2500To5000: {"15dm3-0-3kg": eur("5.80"), "25dm3-3-5kg": eur("5.80"), "50dm3-5-10kg": eur("5.80"), "75dm3-10-15kg": eur("6.10"), "100dm3-15-20kg": eur("6.60"), "150dm3-20-30kg": eur("7.00")},
}

var upsDiscounted = sizedTable{
	Tier1To250:     {"15dm3-0-3kg": eur("6.20"), "25dm3-3-5kg": eur("6.20"), "50dm3-5-10kg": eur("6.20"), "75dm3-10-15kg": eur("6.50"), "100dm3-15-20kg": eur("7.00"), "150dm3-20-30kg": eur("7.40")},
	Tier250To500:   {"15dm3-0-3kg": eur("6.00"), "25dm3-3-5kg": eur("6.00"), "50dm3-5-10kg": eur("6.00"), "75dm3-10-15kg": eur("6.30"), "100dm3-15-20kg": eur("6.80"), "150dm3-20-30kg": eur("7.20")},
	Tier500To1000:  {"15dm3-0-3kg": eur("5.85"), "25dm3-3-5kg": eur("5.85"), "50dm3-5-10kg": eur("5.85"), "75dm3-10-15kg": eur("6.15"), "100dm3-15-20kg": eur("6.65"), "150dm3-20-30kg": eur("7.05")},
	Tier1000To2500: {"15dm3-0-3kg": eur("5.65"), "25dm3-3-5kg": eur("5.65"), "50dm3-5-10kg": eur("5.65"), "75dm3-10-15kg": eur("5.95"), "100dm3-15-20kg": eur("6.45"), "150dm3-20-30kg": eur("6.85")},
	Tier2500To5000: {"15dm3-0-3kg": eur("5.55"), "25dm3-3-5kg": eur("5.55"), "50dm3-5-10kg": eur("5.55"), "75dm3-10-15kg": eur("5.85"), "100dm3-15-20kg": eur("6.35"), "150dm3-20-30kg": eur("6.75")},
}

// toCents converts a EUR price to integer cents, rounding half up on
// price*100 to keep downstream totals free of floating point drift.
func toCents(price decimal.Decimal) int64 {
	return price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// rateTypeSlug normalizes a rate type for use inside a composite rate ID.
func rateTypeSlug(rateType string) string {
	slug := strings.ReplaceAll(rateType, " ", "-")
	return strings.ReplaceAll(slug, "*", "")
}

// ComputeRates returns the priced carrier options for the given inputs. It is
// a pure function: no external calls, no randomness, and the result order
// follows the fixed carrier order, so identical inputs always produce an
// identical result set. Quote-only tiers and unrecognized carriers are
// silently omitted; no recognized carrier yields an empty list, never an
// error.
func ComputeRates(params RateParams) []Rate {
	defaults := DefaultRateParams()
	if params.Weight <= 0 {
		params.Weight = defaults.Weight
	}
	if params.Volume <= 0 {
		params.Volume = defaults.Volume
	}
	if params.MonthlyShipments <= 0 {
		params.MonthlyShipments = defaults.MonthlyShipments
	}
	if len(params.Carriers) == 0 {
		params.Carriers = defaults.Carriers
	}

	requested := make(map[int]bool, len(params.Carriers))
	for _, c := range params.Carriers {
		if _, ok := CarrierByID(c.ID); ok {
			requested[c.ID] = true
		}
	}
	if len(requested) == 0 {
		return []Rate{}
	}

	tier := VolumeTier(params.MonthlyShipments)
	rateType := RateTypeTariff
	if params.UseDiscountedRates {
		rateType = RateTypeDiscounted
	}

	flatDescription := "Standard parcel delivery within Netherlands (Tariff rate)"
	if params.UseDiscountedRates {
		flatDescription = "Standard parcel delivery within Netherlands (MyParcel Parcel rate, includes EUR 0.10 label contribution)"
	}

	rates := make([]Rate, 0, 4)

	if requested[CarrierPostNL.ID] {
		table := postNLTariff
		if params.UseDiscountedRates {
			table = postNLDiscounted
		}
		if price, ok := table[tier]; ok {
			rates = append(rates, Rate{
				ID:            fmt.Sprintf("%d-%s-%s", CarrierPostNL.ID, tier, rateTypeSlug(rateType)),
				Carrier:       CarrierPostNL,
				Service:       "Parcel Shipment",
				Destination:   rateDestination,
				Price:         toCents(price),
				Currency:      "EUR",
				VolumeTier:    tier,
				RateType:      rateType,
				EstimatedDays: 1,
				Description:   flatDescription,
			})
		}
	}

	if requested[CarrierDHL.ID] {
		table := dhlTariff
		if params.UseDiscountedRates {
			table = dhlDiscounted
		}
		size := dhlSize(params.Volume, params.Weight)
		if price, ok := table[tier][size]; ok {
			rates = append(rates, Rate{
				ID:            fmt.Sprintf("%d-%s-%s-%s", CarrierDHL.ID, tier, size, rateTypeSlug(rateType)),
				Carrier:       CarrierDHL,
				Service:       "DHL For You",
				Destination:   rateDestination,
				Price:         toCents(price),
				Currency:      "EUR",
				VolumeTier:    tier,
				Size:          size,
				RateType:      rateType,
				EstimatedDays: 1,
				Description:   "DHL For You - consumer delivery (Monday to Saturday)",
			})
		}
	}

	if requested[CarrierDPD.ID] {
		table := dpdTariff
		if params.UseDiscountedRates {
			table = dpdDiscounted
		}
		if price, ok := table[tier]; ok {
			rates = append(rates, Rate{
				ID:            fmt.Sprintf("%d-%s-%s", CarrierDPD.ID, tier, rateTypeSlug(rateType)),
				Carrier:       CarrierDPD,
				Service:       "Parcel Shipment",
				Destination:   rateDestination,
				Price:         toCents(price),
				Currency:      "EUR",
				VolumeTier:    tier,
				RateType:      rateType,
				EstimatedDays: 1,
				Description:   flatDescription,
			})
		}
	}

	if requested[CarrierUPS.ID] {
		table := upsTariff
		if params.UseDiscountedRates {
			table = upsDiscounted
		}
		size := upsSize(params.Volume, params.Weight)
		if price, ok := table[tier][size]; ok {
			rates = append(rates, Rate{
				ID:            fmt.Sprintf("%d-%s-%s-%s", CarrierUPS.ID, tier, size, rateTypeSlug(rateType)),
				Carrier:       CarrierUPS,
				Service:       "Standard",
				Destination:   rateDestination,
				Price:         toCents(price),
				Currency:      "EUR",
				VolumeTier:    tier,
				Size:          size,
				RateType:      rateType,
				EstimatedDays: 1,
				Description:   "UPS Standard delivery within Netherlands",
			})
		}
	}

	return rates
}

// RateByID recomputes the deterministic rate set for the given params and
// selects the rate with the given composite ID. Returns nil when no rate
// matches; rate IDs are stable lookup keys, so this re-validates a
// client-selected rate without any server-side state.
func RateByID(id string, params RateParams) *Rate {
	for _, rate := range ComputeRates(params) {
		if rate.ID == id {
			r := rate
			return &r
		}
	}
	return nil
}
