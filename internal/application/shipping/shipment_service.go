package shipping

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/marketplace/backend/internal/domain/user"
)

// labelCreatedHook is the courier-side event the webhook subscription
// listens for.
const labelCreatedHook = "shipment_label_created"

// Shipment lifecycle errors
var (
	// ErrNoShippingRate means the order reached fulfillment without a
	// selected shipping rate, so no carrier can be chosen.
	ErrNoShippingRate = shared.NewDomainError("NO_SHIPPING_RATE", "Order has no shipping rate selected")
	// ErrInvalidAddress is the authoritative rejection from the address
	// check, as opposed to a validator outage which is advisory.
	ErrInvalidAddress = shared.NewDomainError("INVALID_ADDRESS", "Shipping address failed validation")
	// ErrUnresolvableShipment means a courier notification references a
	// shipment that cannot be joined back to an order.
	ErrUnresolvableShipment = shared.NewDomainError("UNRESOLVABLE_SHIPMENT", "Shipment cannot be resolved to an order")
)

// ShipmentService drives the courier shipment lifecycle for paid orders:
// creation, label and tracking completion, and webhook-driven catch-up.
type ShipmentService struct {
	orders    order.Store
	users     user.Store
	gateway   shipping.CourierGateway
	validator shipping.AddressValidator
	logger    *zap.Logger
}

// NewShipmentService creates a new ShipmentService
func NewShipmentService(
	orders order.Store,
	users user.Store,
	gateway shipping.CourierGateway,
	validator shipping.AddressValidator,
	logger *zap.Logger,
) *ShipmentService {
	return &ShipmentService{
		orders:    orders,
		users:     users,
		gateway:   gateway,
		validator: validator,
		logger:    logger,
	}
}

// CreateShipment registers a courier shipment for a paid order. The call is
// idempotent: an order that already carries a shipment id skips creation and
// only attempts to complete missing label and tracking data. The shipment id
// is persisted before any label or tracking fetch, so a partial failure
// leaves the order resumable instead of orphaning the courier shipment.
func (s *ShipmentService) CreateShipment(ctx context.Context, orderID string) (*order.Metadata, error) {
	ord, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}

	switch ord.Metadata.ShipmentState() {
	case order.ShipmentComplete:
		return &ord.Metadata, nil
	case order.ShipmentCreated:
		s.logger.Info("shipment already exists, completing label and tracking",
			zap.String("order_id", orderID),
			zap.Int64("shipment_id", ord.Metadata.ShipmentID))
		meta, err := s.completeLabelAndTracking(ctx, ord, "")
		if err != nil {
			return nil, err
		}
		return meta, nil
	}

	rate := ord.ProtectedData.ShippingRate
	if rate == nil {
		return nil, ErrNoShippingRate
	}

	sender, err := shipmentParty(ord.Provider)
	if err != nil {
		return nil, err
	}
	recipient, err := shipmentParty(ord.Customer)
	if err != nil {
		return nil, err
	}

	s.checkRecipientAddress(ctx, ord)

	created, err := s.gateway.CreateShipment(ctx, shipping.CreateShipmentParams{
		ReferenceIdentifier: shipping.BuildOrderReference(orderID),
		Sender:              sender,
		Recipient:           recipient,
		CarrierID:           rate.Carrier.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create shipment for order %s: %w", orderID, err)
	}

	// Persist the shipment id before anything else can fail.
	if err := s.orders.UpdateMetadata(ctx, orderID, map[string]any{
		order.MetadataKeyShipmentID: created.ID,
	}); err != nil {
		return nil, fmt.Errorf("failed to persist shipment id for order %s: %w", orderID, err)
	}

	s.logger.Info("shipment created",
		zap.String("order_id", orderID),
		zap.Int64("shipment_id", created.ID),
		zap.String("carrier", rate.Carrier.Label))

	ord.Metadata.ShipmentID = created.ID

	// Label and tracking completion is best-effort here; the courier webhook
	// and later reads catch up on whatever is still missing.
	meta, err := s.completeLabelAndTracking(ctx, ord, created.PDFURL)
	if err != nil {
		s.logger.Warn("shipment created but label/tracking completion pending",
			zap.String("order_id", orderID),
			zap.Int64("shipment_id", created.ID),
			zap.Error(err))
		return &ord.Metadata, nil
	}
	return meta, nil
}

// checkRecipientAddress runs the advisory address check. An authoritative
// invalid answer is only logged: the order is already paid at this point, so
// fulfillment proceeds and the operator resolves delivery issues out of band.
func (s *ShipmentService) checkRecipientAddress(ctx context.Context, ord *order.Order) {
	addr := ord.Customer.Address
	if addr == nil {
		return
	}

	valid, err := s.validator.Validate(ctx, shipping.AddressQuery{
		CountryCode:       addr.CountryCode,
		PostalCode:        addr.PostalCode,
		City:              addr.City,
		Street:            addr.Street,
		HouseNumber:       addr.HouseNumber,
		HouseNumberSuffix: addr.HouseNumberSuffix,
		Region:            addr.Region,
	})
	if err != nil {
		var svcErr *shipping.ValidationServiceError
		if errors.As(err, &svcErr) {
			s.logger.Warn("address validation unavailable, proceeding",
				zap.String("order_id", ord.ID),
				zap.Error(err))
			return
		}
		s.logger.Warn("address validation failed, proceeding",
			zap.String("order_id", ord.ID),
			zap.Error(err))
		return
	}
	if !valid {
		s.logger.Warn("recipient address reported invalid by address check",
			zap.String("order_id", ord.ID),
			zap.String("postal_code", addr.PostalCode))
	}
}

// GetLabel returns the order's label and tracking metadata, fetching and
// persisting whichever of the two URLs is not stored yet.
func (s *ShipmentService) GetLabel(ctx context.Context, orderID string) (*order.Metadata, error) {
	ord, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}
	if ord.Metadata.ShipmentState() == order.NoShipment {
		return nil, shared.ErrInvalidState
	}

	meta, err := s.completeLabelAndTracking(ctx, ord, "")
	if err != nil {
		return nil, err
	}
	if meta.ShipmentLabelURL == "" {
		return nil, shared.ErrUpstreamUnavailable
	}
	return meta, nil
}

// HandleLabelCreated processes a courier label notification. The shipment is
// resolved back to its order through the reference identifier; notifications
// for shipments created outside this marketplace yield
// ErrUnresolvableShipment and should be acknowledged without retry.
func (s *ShipmentService) HandleLabelCreated(ctx context.Context, shipmentID int64, pdfURL string) error {
	detail, err := s.gateway.GetShipment(ctx, shipmentID)
	if err != nil {
		return fmt.Errorf("failed to load shipment %d: %w", shipmentID, err)
	}

	orderID, ok := shipping.ParseOrderIDFromReference(detail.ReferenceIdentifier)
	if !ok {
		s.logger.Warn("label notification for foreign shipment",
			zap.Int64("shipment_id", shipmentID),
			zap.String("reference", detail.ReferenceIdentifier))
		return ErrUnresolvableShipment
	}

	ord, err := s.orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrUnresolvableShipment
		}
		return fmt.Errorf("failed to load order %s: %w", orderID, err)
	}

	if ord.Metadata.ShipmentID == 0 {
		// The webhook outran the create flow's metadata write. Adopt the
		// shipment id so completion can proceed.
		if err := s.orders.UpdateMetadata(ctx, orderID, map[string]any{
			order.MetadataKeyShipmentID: shipmentID,
		}); err != nil {
			return fmt.Errorf("failed to persist shipment id for order %s: %w", orderID, err)
		}
		ord.Metadata.ShipmentID = shipmentID
	}

	if _, err := s.completeLabelAndTracking(ctx, ord, pdfURL); err != nil {
		return err
	}
	return nil
}

// SubscribeLabelWebhook registers the label notification subscription with
// the courier platform. The courier only accepts HTTPS callback URLs and
// lowercases them on its side, so a mixed-case URL would never match.
func (s *ShipmentService) SubscribeLabelWebhook(ctx context.Context, callbackURL string) ([]int64, error) {
	if !strings.HasPrefix(callbackURL, "https://") {
		return nil, shared.NewDomainError("INVALID_INPUT", "Webhook callback URL must use https")
	}
	if callbackURL != strings.ToLower(callbackURL) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Webhook callback URL must be lowercase")
	}

	ids, err := s.gateway.SubscribeWebhook(ctx, labelCreatedHook, callbackURL)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe label webhook: %w", err)
	}

	s.logger.Info("label webhook subscribed",
		zap.String("callback_url", callbackURL),
		zap.Int64s("subscription_ids", ids))
	return ids, nil
}

// completeLabelAndTracking fills in whichever of the label and tracking URLs
// the order is still missing. Stored values are never re-fetched; a non-empty
// knownPDFURL short-circuits the label fetch. Only the newly resolved fields
// are patched.
func (s *ShipmentService) completeLabelAndTracking(ctx context.Context, ord *order.Order, knownPDFURL string) (*order.Metadata, error) {
	meta := ord.Metadata
	patch := map[string]any{}

	if meta.ShipmentLabelURL == "" {
		labelURL := knownPDFURL
		if labelURL == "" {
			label, err := s.gateway.GetLabel(ctx, meta.ShipmentID)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch label for shipment %d: %w", meta.ShipmentID, err)
			}
			labelURL = label.URL
		}
		if labelURL != "" {
			meta.ShipmentLabelURL = completeURL(s.gateway.LabelBaseURL(), labelURL)
			patch[order.MetadataKeyShipmentLabelURL] = meta.ShipmentLabelURL
		}
	}

	if meta.LinkTraceTraceURL == "" {
		tracking, err := s.gateway.GetTracking(ctx, meta.ShipmentID)
		if err != nil {
			// Keep whatever was resolved so far.
			if len(patch) > 0 {
				if patchErr := s.orders.UpdateMetadata(ctx, ord.ID, patch); patchErr != nil {
					return nil, fmt.Errorf("failed to persist shipment metadata for order %s: %w", ord.ID, patchErr)
				}
				ord.Metadata = meta
			}
			return nil, fmt.Errorf("failed to fetch tracking for shipment %d: %w", meta.ShipmentID, err)
		}
		if tracking.LinkTrackTrace != "" {
			meta.LinkTraceTraceURL = tracking.LinkTrackTrace
			patch[order.MetadataKeyLinkTraceTraceURL] = meta.LinkTraceTraceURL
		}
	}

	if len(patch) > 0 {
		if err := s.orders.UpdateMetadata(ctx, ord.ID, patch); err != nil {
			return nil, fmt.Errorf("failed to persist shipment metadata for order %s: %w", ord.ID, err)
		}
		ord.Metadata = meta
	}

	return &meta, nil
}

// shipmentParty maps an order party onto courier wire terms. The address
// must be complete; orders only reach fulfillment through checkout, which
// gates on completeness, but denormalized snapshots can still drift.
func shipmentParty(p order.Party) (shipping.ShipmentParty, error) {
	if p.Address == nil || !p.Address.IsComplete() {
		return shipping.ShipmentParty{}, ErrIncompleteAddress
	}
	number := p.Address.HouseNumber
	if p.Address.HouseNumberSuffix != "" {
		number += " " + p.Address.HouseNumberSuffix
	}
	return shipping.ShipmentParty{
		CountryCode: p.Address.CountryCode,
		Region:      p.Address.Region,
		City:        p.Address.City,
		Street:      p.Address.Street,
		Number:      number,
		PostalCode:  p.Address.PostalCode,
		Person:      p.DisplayName,
		Email:       p.Email,
	}, nil
}

// completeURL resolves a possibly relative courier artifact URL against the
// courier's fixed origin.
func completeURL(base, raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(raw, "/")
}
