package payment

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/user"
	"github.com/marketplace/backend/internal/infrastructure/payment"
)

// ShipmentCreator registers a courier shipment for a paid order.
// *shipping.ShipmentService satisfies it.
type ShipmentCreator interface {
	CreateShipment(ctx context.Context, orderID string) (*order.Metadata, error)
}

// ConfirmService reacts to verified push-payment confirmations: it
// transitions the order, clears the paid seller's bucket from the buyer's
// cart, and kicks off shipment creation.
type ConfirmService struct {
	orders    order.Store
	users     user.Store
	shipments ShipmentCreator
	dedup     shared.IdempotencyStore
	dedupTTL  time.Duration
	logger    *zap.Logger
}

// ConfirmOption is a functional option for configuring the service
type ConfirmOption func(*ConfirmService)

// WithEventDedup enables duplicate delivery suppression. Stripe redelivers
// events until they are acknowledged, and a failed confirmation is answered
// with a 5xx on purpose, so the same event id can arrive more than once.
func WithEventDedup(store shared.IdempotencyStore, ttl time.Duration) ConfirmOption {
	return func(s *ConfirmService) {
		s.dedup = store
		s.dedupTTL = ttl
	}
}

// NewConfirmService creates a new ConfirmService
func NewConfirmService(
	orders order.Store,
	users user.Store,
	shipments ShipmentCreator,
	logger *zap.Logger,
	opts ...ConfirmOption,
) *ConfirmService {
	s := &ConfirmService{
		orders:    orders,
		users:     users,
		shipments: shipments,
		dedupTTL:  24 * time.Hour,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Confirm processes one verified payment confirmation. Push payments settle
// asynchronously, so the order transition happens here rather than in the
// checkout request. Only iDEAL payments take this path; other methods
// confirm synchronously during checkout and are skipped.
//
// Cart clearing and shipment creation are best-effort follow-ups: once the
// transition has been recorded, their failures are logged but do not fail
// the confirmation, since retrying the webhook would re-run the transition.
func (s *ConfirmService) Confirm(ctx context.Context, ev payment.ConfirmedEvent) error {
	if ev.PaymentMethod != payment.PaymentMethodIDeal {
		s.logger.Debug("ignoring confirmation for non-push payment method",
			zap.String("order_id", ev.OrderID),
			zap.String("payment_method", ev.PaymentMethod))
		return nil
	}

	if s.alreadyProcessed(ctx, ev.EventID) {
		s.logger.Info("skipping duplicate payment confirmation",
			zap.String("order_id", ev.OrderID),
			zap.String("event_id", ev.EventID))
		return nil
	}

	if err := s.orders.Transition(ctx, ev.OrderID, order.TransitionConfirmPushPayment); err != nil {
		return fmt.Errorf("failed to confirm payment for order %s: %w", ev.OrderID, err)
	}

	s.logger.Info("push payment confirmed",
		zap.String("order_id", ev.OrderID),
		zap.String("event_id", ev.EventID))

	s.markProcessed(ctx, ev.EventID)

	ord, err := s.orders.Get(ctx, ev.OrderID)
	if err != nil {
		s.logger.Error("payment confirmed but order reload failed",
			zap.String("order_id", ev.OrderID),
			zap.Error(err))
		return nil
	}

	s.clearSellerBucket(ctx, ord)

	if _, err := s.shipments.CreateShipment(ctx, ord.ID); err != nil {
		s.logger.Error("payment confirmed but shipment creation failed",
			zap.String("order_id", ord.ID),
			zap.Error(err))
	}

	return nil
}

// alreadyProcessed reports whether this event id has been confirmed before.
// A dedup store lookup failure is treated as not-processed; re-running a
// confirmation is safer than dropping one.
func (s *ConfirmService) alreadyProcessed(ctx context.Context, eventID string) bool {
	if s.dedup == nil || eventID == "" {
		return false
	}
	processed, err := s.dedup.IsProcessed(ctx, eventID)
	if err != nil {
		s.logger.Warn("event dedup lookup failed",
			zap.String("event_id", eventID),
			zap.Error(err))
		return false
	}
	return processed
}

// markProcessed records the event id after a successful transition. The
// follow-ups are best-effort, so they are covered by the mark as well.
func (s *ConfirmService) markProcessed(ctx context.Context, eventID string) {
	if s.dedup == nil || eventID == "" {
		return
	}
	if _, err := s.dedup.MarkProcessed(ctx, eventID, s.dedupTTL); err != nil {
		s.logger.Warn("failed to mark event as processed",
			zap.String("event_id", eventID),
			zap.Error(err))
	}
}

// clearSellerBucket removes the paid seller's bucket from the buyer's cart.
// The rest of the cart, buckets for other sellers, stays as it is.
func (s *ConfirmService) clearSellerBucket(ctx context.Context, ord *order.Order) {
	buyer, err := s.users.Get(ctx, ord.Customer.ID)
	if err != nil {
		s.logger.Error("failed to load buyer for cart clearing",
			zap.String("order_id", ord.ID),
			zap.String("user_id", ord.Customer.ID),
			zap.Error(err))
		return
	}

	current := buyer.Profile.PrivateData.Cart
	if _, ok := current[ord.Provider.ID]; !ok {
		return
	}

	cleared := cart.ClearSeller(current, ord.Provider.ID)
	if err := s.users.UpdateProfile(ctx, buyer.ID, user.CartPatch(cleared)); err != nil {
		s.logger.Error("failed to clear seller bucket from buyer cart",
			zap.String("order_id", ord.ID),
			zap.String("user_id", buyer.ID),
			zap.String("seller_id", ord.Provider.ID),
			zap.Error(err))
	}
}
