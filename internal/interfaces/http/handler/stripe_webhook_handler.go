package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	paymentapp "github.com/marketplace/backend/internal/application/payment"
	"github.com/marketplace/backend/internal/infrastructure/payment"
)

// Maximum webhook payload size (64KB - Stripe webhooks are typically small)
const maxWebhookPayloadSize = 65536

// StripeWebhookHandler handles Stripe webhook endpoints. These endpoints are
// called by Stripe and authenticate with the webhook signature instead of a
// bearer token.
type StripeWebhookHandler struct {
	BaseHandler
	decoder *payment.StripeWebhookDecoder
	confirm *paymentapp.ConfirmService
}

// NewStripeWebhookHandler creates a new StripeWebhookHandler
func NewStripeWebhookHandler(decoder *payment.StripeWebhookDecoder, confirm *paymentapp.ConfirmService) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		decoder: decoder,
		confirm: confirm,
	}
}

// StripeWebhookResponse represents the response for Stripe webhook
type StripeWebhookResponse struct {
	Received bool   `json:"received"`
	EventID  string `json:"event_id,omitempty"`
	Message  string `json:"message,omitempty"`
}

// HandleStripeWebhook receives payment events from Stripe. Payment
// confirmations for push payments drive the order transition, cart cleanup,
// and eager shipment creation. Transition failures return a 5xx so Stripe
// redelivers the event.
func (h *StripeWebhookHandler) HandleStripeWebhook(c *gin.Context) {
	// Stripe requires the raw body for signature verification
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, StripeWebhookResponse{
			Received: false,
			Message:  "Failed to read request body",
		})
		return
	}

	if len(payload) > maxWebhookPayloadSize {
		c.JSON(http.StatusRequestEntityTooLarge, StripeWebhookResponse{
			Received: false,
			Message:  "Payload too large",
		})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusUnauthorized, StripeWebhookResponse{
			Received: false,
			Message:  "Missing Stripe-Signature header",
		})
		return
	}

	event, err := h.decoder.Decode(payload, signature)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			c.JSON(http.StatusUnauthorized, StripeWebhookResponse{
				Received: false,
				Message:  "Webhook signature verification failed",
			})
			return
		}
		// Malformed but authentic payload: acknowledge so Stripe does not
		// redeliver something we will never be able to parse
		c.JSON(http.StatusOK, StripeWebhookResponse{
			Received: true,
			Message:  "Webhook received but could not be decoded",
		})
		return
	}

	// Events that are not push-payment confirmations decode to nil
	if event == nil {
		c.JSON(http.StatusOK, StripeWebhookResponse{
			Received: true,
			Message:  "Event ignored",
		})
		return
	}

	if err := h.confirm.Confirm(c.Request.Context(), *event); err != nil {
		c.JSON(http.StatusInternalServerError, StripeWebhookResponse{
			Received: false,
			EventID:  event.EventID,
			Message:  "Payment confirmation failed",
		})
		return
	}

	c.JSON(http.StatusOK, StripeWebhookResponse{
		Received: true,
		EventID:  event.EventID,
		Message:  "Webhook processed successfully",
	})
}
