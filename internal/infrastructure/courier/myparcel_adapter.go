package courier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/marketplace/backend/internal/domain/shipping"
)

// Constants for the MyParcel API
const (
	// maxMyParcelResponseSize limits the response body size to prevent memory exhaustion
	maxMyParcelResponseSize = 10 * 1024 * 1024 // 10MB max response

	// shipmentContentType is the versioned media type the shipment API expects
	shipmentContentType = "application/vnd.shipment+json;charset=utf-8;version=1.1"
	// jsonContentType is used where MyParcel expects plain JSON (webhooks)
	jsonContentType = "application/json; charset=utf-8"
	// featureFlagsHeader enables the custom sender feature
	featureFlagsHeader = "x-dmp-set-custom-sender"

	// Fixed package and delivery type for standard parcel delivery
	packageTypeParcel    = 1
	deliveryTypeStandard = 2
)

// MyParcelAdapter implements the shipping.CourierGateway interface for the
// MyParcel courier aggregator. Each method is a single round trip; retry
// policy belongs to the caller.
type MyParcelAdapter struct {
	config     *MyParcelConfig
	httpClient *http.Client
}

// NewMyParcelAdapter creates a new MyParcel adapter with the given configuration.
func NewMyParcelAdapter(config *MyParcelConfig) (*MyParcelAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &MyParcelAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// LabelBaseURL returns the fixed origin used to complete relative label URLs.
func (a *MyParcelAdapter) LabelBaseURL() string {
	return a.config.APIBaseURL
}

// CreateShipment registers a shipment with MyParcel and returns its ID plus
// the label PDF URL when the API already produced one.
func (a *MyParcelAdapter) CreateShipment(ctx context.Context, params shipping.CreateShipmentParams) (*shipping.CreatedShipment, error) {
	var reqBody myParcelCreateShipmentRequest
	reqBody.Data.Shipments = []myParcelShipment{
		{
			ReferenceIdentifier: params.ReferenceIdentifier,
			Sender:              toWireAddress(params.Sender),
			Recipient:           toWireAddress(params.Recipient),
			Options: myParcelShipmentOptions{
				PackageType:  packageTypeParcel,
				DeliveryType: deliveryTypeStandard,
			},
			Carrier: params.CarrierID,
		},
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, "/shipments", reqBody, shipmentContentType, nil)
	if err != nil {
		return nil, err
	}

	var resp myParcelCreateShipmentResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("myparcel: failed to parse response: %w", err)
	}
	if len(resp.Data.IDs) == 0 {
		return nil, fmt.Errorf("myparcel: create shipment returned no shipment id")
	}

	return &shipping.CreatedShipment{
		ID:     resp.Data.IDs[0].ID,
		PDFURL: resp.Data.PDF.URL,
	}, nil
}

// GetShipment retrieves a shipment record, including its reference identifier.
func (a *MyParcelAdapter) GetShipment(ctx context.Context, shipmentID int64) (*shipping.ShipmentDetail, error) {
	path := fmt.Sprintf("/shipments/%d", shipmentID)
	respBody, err := a.doRequest(ctx, http.MethodGet, path, nil, shipmentContentType, nil)
	if err != nil {
		return nil, err
	}

	var resp myParcelGetShipmentResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("myparcel: failed to parse response: %w", err)
	}
	if len(resp.Data.Shipments) == 0 {
		return nil, fmt.Errorf("myparcel: shipment %d not found in response", shipmentID)
	}

	detail := resp.Data.Shipments[0]
	return &shipping.ShipmentDetail{
		ID:                  detail.ID,
		ReferenceIdentifier: detail.ReferenceIdentifier,
		CarrierID:           detail.Carrier,
		Status:              detail.Status,
	}, nil
}

// GetLabel fetches the label download URL for a shipment. The Accept header
// asks for the URL only instead of the PDF bytes.
func (a *MyParcelAdapter) GetLabel(ctx context.Context, shipmentID int64) (*shipping.Label, error) {
	path := fmt.Sprintf("/shipment_labels/%d?format=A4&position=3", shipmentID)
	headers := map[string]string{
		"Accept": "application/json;charset=utf-8",
	}
	respBody, err := a.doRequest(ctx, http.MethodGet, path, nil, shipmentContentType, headers)
	if err != nil {
		return nil, err
	}

	var resp myParcelLabelResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("myparcel: failed to parse response: %w", err)
	}

	return &shipping.Label{URL: resp.Data.PDFs.URL}, nil
}

// GetTracking fetches the track & trace link for a shipment.
func (a *MyParcelAdapter) GetTracking(ctx context.Context, shipmentID int64) (*shipping.Tracking, error) {
	path := fmt.Sprintf("/tracktraces/%d?extra_info=delivery_moment", shipmentID)
	headers := map[string]string{
		"Accept-Language": "en_GB",
	}
	respBody, err := a.doRequest(ctx, http.MethodGet, path, nil, shipmentContentType, headers)
	if err != nil {
		return nil, err
	}

	var resp myParcelTrackingResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("myparcel: failed to parse response: %w", err)
	}
	if len(resp.Data.TrackTraces) == 0 {
		return nil, fmt.Errorf("myparcel: no tracking data for shipment %d", shipmentID)
	}

	return &shipping.Tracking{LinkTrackTrace: resp.Data.TrackTraces[0].LinkTrackTrace}, nil
}

// SubscribeWebhook registers a callback URL for the given hook and returns
// the subscription IDs. MyParcel expects plain JSON here, not the shipment
// media type.
func (a *MyParcelAdapter) SubscribeWebhook(ctx context.Context, hook, callbackURL string) ([]int64, error) {
	var reqBody myParcelSubscribeRequest
	reqBody.Data.WebhookSubscriptions = []myParcelWebhookSubscription{
		{Hook: hook, URL: callbackURL},
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, "/webhook_subscriptions", reqBody, jsonContentType, nil)
	if err != nil {
		return nil, err
	}

	var resp myParcelSubscribeResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("myparcel: failed to parse response: %w", err)
	}

	ids := make([]int64, 0, len(resp.Data.IDs))
	for _, id := range resp.Data.IDs {
		ids = append(ids, id.ID)
	}
	return ids, nil
}

// doRequest performs a single HTTP round trip against the shipment API.
func (a *MyParcelAdapter) doRequest(ctx context.Context, method, path string, body any, contentType string, headers map[string]string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("myparcel: failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.config.APIBaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("myparcel: failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "bearer "+a.config.APIKey)
	req.Header.Set("User-Agent", a.config.UserAgent)
	req.Header.Set("x-dmp-feature-flags", featureFlagsHeader)
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("myparcel: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxMyParcelResponseSize))
	if err != nil {
		return nil, fmt.Errorf("myparcel: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &shipping.CourierAPIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}

func toWireAddress(p shipping.ShipmentParty) myParcelAddress {
	return myParcelAddress{
		CC:         p.CountryCode,
		Region:     p.Region,
		City:       p.City,
		Street:     p.Street,
		Number:     p.Number,
		PostalCode: p.PostalCode,
		Person:     p.Person,
		Email:      p.Email,
	}
}

// Ensure MyParcelAdapter implements the CourierGateway interface
var _ shipping.CourierGateway = (*MyParcelAdapter)(nil)
