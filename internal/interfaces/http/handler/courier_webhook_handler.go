package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	shippingapp "github.com/marketplace/backend/internal/application/shipping"
	"github.com/marketplace/backend/internal/infrastructure/logger"
)

// CourierWebhookHandler handles callbacks from the courier platform. These
// endpoints are called by the courier and do not require authentication.
type CourierWebhookHandler struct {
	BaseHandler
	shipments *shippingapp.ShipmentService
}

// NewCourierWebhookHandler creates a new CourierWebhookHandler
func NewCourierWebhookHandler(shipments *shippingapp.ShipmentService) *CourierWebhookHandler {
	return &CourierWebhookHandler{shipments: shipments}
}

// courierHook is a single hook entry in a courier webhook delivery
type courierHook struct {
	Event       string  `json:"event"`
	ShipmentIDs []int64 `json:"shipment_ids"`
	PDF         string  `json:"pdf"`
}

// CourierWebhookRequest is the courier's webhook envelope
type CourierWebhookRequest struct {
	Data *struct {
		Hooks []courierHook `json:"hooks"`
	} `json:"data"`
}

// HandleLabelCreated receives label-created notifications from the courier
// and backfills the owning order's label and tracking metadata. Deliveries
// that cannot be mapped to any order are acknowledged, redelivery cannot
// fix them; transient downstream failures answer 5xx so the courier
// redelivers.
func (h *CourierWebhookHandler) HandleLabelCreated(c *gin.Context) {
	var req CourierWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Data == nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if len(req.Data.Hooks) == 0 || len(req.Data.Hooks[0].ShipmentIDs) == 0 {
		logger.L(c.Request.Context()).Warn("Courier webhook carried no shipment ids")
		c.Status(http.StatusOK)
		return
	}

	hook := req.Data.Hooks[0]
	shipmentID := hook.ShipmentIDs[0]

	if err := h.shipments.HandleLabelCreated(c.Request.Context(), shipmentID, hook.PDF); err != nil {
		logger.L(c.Request.Context()).Warn("Courier webhook processing failed",
			zap.Int64("shipment_id", shipmentID),
			zap.Error(err))
		if !errors.Is(err, shippingapp.ErrUnresolvableShipment) {
			c.Status(http.StatusInternalServerError)
			return
		}
	}

	c.Status(http.StatusOK)
}
