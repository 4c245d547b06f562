package shipping

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/marketplace/backend/internal/domain/user"
)

// itemWeightKg is the flat per-item weight estimate used for rate
// computation. Parcels lighter than minParcelWeightKg are priced as
// minParcelWeightKg.
const (
	itemWeightKg      = 0.5
	minParcelWeightKg = 1.0
)

// ErrIncompleteAddress is returned when a party's shipping address is
// missing fields required for rating or shipment creation.
var ErrIncompleteAddress = shared.NewDomainError("INCOMPLETE_ADDRESS", "Shipping address is incomplete")

// RateService computes carrier rate quotes for a checkout between two
// marketplace parties.
type RateService struct {
	users  user.Store
	logger *zap.Logger
}

// NewRateService creates a new RateService
func NewRateService(users user.Store, logger *zap.Logger) *RateService {
	return &RateService{
		users:  users,
		logger: logger,
	}
}

// QuoteParams identifies the checkout a quote is for.
type QuoteParams struct {
	// CustomerID is the buying party, ProviderID the selling party.
	CustomerID string
	ProviderID string
	// Cart is the buyer's bucket for this provider; item count drives the
	// weight estimate.
	Cart cart.SellerCart
	// MonthlyShipments selects the provider's volume pricing tier.
	MonthlyShipments   int
	UseDiscountedRates bool
}

// QuoteForCart computes rate options for a checkout. Both parties must have
// complete shipping addresses on file; the two profile reads run
// concurrently.
func (s *RateService) QuoteForCart(ctx context.Context, params QuoteParams) ([]shipping.Rate, error) {
	if len(params.Cart) == 0 {
		return nil, shared.ErrInvalidInput
	}

	var customer, provider *user.User
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.users.Get(gctx, params.CustomerID)
		if err != nil {
			return fmt.Errorf("failed to load customer %s: %w", params.CustomerID, err)
		}
		customer = u
		return nil
	})
	g.Go(func() error {
		u, err := s.users.Get(gctx, params.ProviderID)
		if err != nil {
			return fmt.Errorf("failed to load provider %s: %w", params.ProviderID, err)
		}
		provider = u
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, party := range []*user.User{customer, provider} {
		addr := party.ShippingAddress()
		if addr == nil || !addr.IsComplete() {
			s.logger.Info("rate quote rejected, address incomplete",
				zap.String("user_id", party.ID))
			return nil, ErrIncompleteAddress
		}
	}

	rates := shipping.ComputeRates(shipping.RateParams{
		Weight:             CartWeight(params.Cart),
		MonthlyShipments:   params.MonthlyShipments,
		UseDiscountedRates: params.UseDiscountedRates,
	})

	s.logger.Debug("computed rate quote",
		zap.String("customer_id", params.CustomerID),
		zap.String("provider_id", params.ProviderID),
		zap.Int("rate_count", len(rates)))

	return rates, nil
}

// RateByID resolves a single rate by its composite id using the same
// parameters the quote was computed with. Unknown ids yield ErrNotFound.
func (s *RateService) RateByID(ctx context.Context, id string, params QuoteParams) (*shipping.Rate, error) {
	rate := shipping.RateByID(id, shipping.RateParams{
		Weight:             CartWeight(params.Cart),
		MonthlyShipments:   params.MonthlyShipments,
		UseDiscountedRates: params.UseDiscountedRates,
	})
	if rate == nil {
		return nil, shared.ErrNotFound
	}
	return rate, nil
}

// CartWeight estimates the parcel weight in kg for a provider bucket. The
// estimate is a flat per-item weight with a one-kilogram floor.
func CartWeight(c cart.SellerCart) float64 {
	total := 0
	for _, line := range c {
		total += line.Quantity
	}
	weight := float64(total) * itemWeightKg
	if weight < minParcelWeightKg {
		return minParcelWeightKg
	}
	return weight
}
