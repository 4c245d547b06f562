package courier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/marketplace/backend/internal/domain/shipping"
)

// AddressAdapter implements the shipping.AddressValidator interface for the
// MyParcel address API. The address check is advisory: a transport or server
// failure is wrapped in ValidationServiceError so callers can distinguish it
// from an authoritative valid=false answer.
type AddressAdapter struct {
	config     *MyParcelConfig
	httpClient *http.Client
}

// NewAddressAdapter creates a new address validation adapter.
func NewAddressAdapter(config *MyParcelConfig) (*AddressAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &AddressAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// Validate checks whether the address exists. Optional fields are only sent
// when present.
func (a *AddressAdapter) Validate(ctx context.Context, query shipping.AddressQuery) (bool, error) {
	if query.CountryCode == "" {
		return false, &shipping.ValidationServiceError{
			Err: fmt.Errorf("address with countryCode is required"),
		}
	}

	params := url.Values{}
	params.Set("countryCode", query.CountryCode)
	setIfPresent(params, "postalCode", query.PostalCode)
	setIfPresent(params, "city", query.City)
	setIfPresent(params, "street", query.Street)
	setIfPresent(params, "houseNumber", query.HouseNumber)
	setIfPresent(params, "houseNumberSuffix", query.HouseNumberSuffix)
	setIfPresent(params, "boxNumber", query.BoxNumber)
	setIfPresent(params, "region", query.Region)

	endpoint := a.config.AddressAPIBaseURL + "/validate?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, &shipping.ValidationServiceError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "bearer "+a.config.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return false, &shipping.ValidationServiceError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMyParcelResponseSize))
	if err != nil {
		return false, &shipping.ValidationServiceError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, &shipping.ValidationServiceError{
			Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body)),
		}
	}

	var result myParcelAddressValidation
	if err := json.Unmarshal(body, &result); err != nil {
		return false, &shipping.ValidationServiceError{Err: err}
	}

	return result.Valid, nil
}

func setIfPresent(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}

// Ensure AddressAdapter implements the AddressValidator interface
var _ shipping.AddressValidator = (*AddressAdapter)(nil)
