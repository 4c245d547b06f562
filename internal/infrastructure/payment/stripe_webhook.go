package payment

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
)

// PaymentMethodIDeal is the only push-payment method the confirmation flow
// acts on.
const PaymentMethodIDeal = "ideal"

// metadataOrderIDKey is the payment-intent metadata key carrying the
// marketplace order id the payment belongs to.
const metadataOrderIDKey = "marketplace-order-id"

// ErrInvalidSignature indicates the webhook payload failed Stripe signature
// verification and must be rejected.
var ErrInvalidSignature = errors.New("stripe webhook signature verification failed")

// StripeConfig holds the webhook verification settings.
type StripeConfig struct {
	WebhookSecret string `json:"webhook_secret" mapstructure:"webhook_secret"`
}

// Validate validates the Stripe configuration.
func (c *StripeConfig) Validate() error {
	if c.WebhookSecret == "" {
		return fmt.Errorf("stripe: webhook secret is required")
	}
	return nil
}

// ConfirmedEvent is a verified payment confirmation extracted from a Stripe
// webhook. OrderID names the marketplace order the payment belongs to.
type ConfirmedEvent struct {
	EventID       string
	OrderID       string
	PaymentMethod string
}

// StripeWebhookDecoder verifies and decodes Stripe webhook payloads into
// payment confirmations.
type StripeWebhookDecoder struct {
	config *StripeConfig
}

// NewStripeWebhookDecoder creates a new webhook decoder.
func NewStripeWebhookDecoder(config *StripeConfig) (*StripeWebhookDecoder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &StripeWebhookDecoder{config: config}, nil
}

// Decode verifies the payload signature and extracts a payment confirmation.
// A nil event with nil error means the webhook was valid but is not a
// payment confirmation this core acts on; callers acknowledge and discard.
// The endpoint's event API version is pinned in the Stripe dashboard, not by
// this SDK, so version mismatches are not treated as errors.
func (d *StripeWebhookDecoder) Decode(payload []byte, signature string) (*ConfirmedEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, d.config.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return confirmedFromEvent(event)
}

// confirmedFromEvent maps a verified Stripe event onto a payment
// confirmation. Only payment_intent.succeeded events carrying an order id
// produce one.
func confirmedFromEvent(event stripe.Event) (*ConfirmedEvent, error) {
	if event.Type != "payment_intent.succeeded" {
		return nil, nil
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment intent: %w", err)
	}

	orderID := intent.Metadata[metadataOrderIDKey]
	if orderID == "" {
		return nil, nil
	}

	method := ""
	if len(intent.PaymentMethodTypes) > 0 {
		method = intent.PaymentMethodTypes[0]
	}

	return &ConfirmedEvent{
		EventID:       event.ID,
		OrderID:       orderID,
		PaymentMethod: method,
	}, nil
}
