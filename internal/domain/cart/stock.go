package cart

import "github.com/marketplace/backend/internal/domain/shared"

// ErrMissingProviderCart indicates that an order-building request did not
// carry the provider cart. This is a caller contract violation, not a stock
// problem.
var ErrMissingProviderCart = shared.NewDomainError(
	"INVALID_INPUT",
	"Order data is missing the following information: providerCart",
)

// Listing carries the live stock snapshot for a single listing. CurrentStock
// is nil when the listing has no stock metadata at all.
type Listing struct {
	ID           string
	CurrentStock *int64
}

// OutOfStock describes a cart entry whose requested quantity exceeds the
// listing's current stock.
type OutOfStock struct {
	CurrentStockQuantity int64 `json:"currentStockQuantity"`
	OrderedQuantity      int   `json:"orderedQuantity"`
}

// ValidateStock compares cart-requested quantities against the freshest
// fetched stock and returns the over-requested listings keyed by listing ID.
// Listings with unknown or zero stock metadata are treated as unconstrained
// and skipped. A nil providerCart fails fast with ErrMissingProviderCart.
func ValidateStock(listings []Listing, providerCart SellerCart) (map[string]OutOfStock, error) {
	if providerCart == nil {
		return nil, ErrMissingProviderCart
	}

	outOfStock := make(map[string]OutOfStock)
	for _, listing := range listings {
		if listing.CurrentStock == nil || *listing.CurrentStock == 0 {
			continue
		}
		line, ok := providerCart[listing.ID]
		if !ok {
			continue
		}
		if *listing.CurrentStock < int64(line.Quantity) {
			outOfStock[listing.ID] = OutOfStock{
				CurrentStockQuantity: *listing.CurrentStock,
				OrderedQuantity:      line.Quantity,
			}
		}
	}
	return outOfStock, nil
}
