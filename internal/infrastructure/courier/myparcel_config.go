package courier

import "errors"

// MyParcelConfig holds configuration for the MyParcel shipment API.
type MyParcelConfig struct {
	// APIKey is the base64-encoded MyParcel API key used as bearer token
	APIKey string
	// APIBaseURL is the base URL for the shipment API
	APIBaseURL string
	// AddressAPIBaseURL is the base URL for the address validation API
	AddressAPIBaseURL string
	// UserAgent is sent on every request; MyParcel requires a custom agent
	UserAgent string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

const (
	// MyParcelAPIURL is the production shipment API endpoint
	MyParcelAPIURL = "https://api.myparcel.nl"
	// MyParcelAddressAPIURL is the production address API endpoint
	MyParcelAddressAPIURL = "https://address.api.myparcel.nl"

	defaultUserAgent = "CustomApiCall/2"
)

// ErrMyParcelConfigMissingAPIKey means no API key was configured.
var ErrMyParcelConfigMissingAPIKey = errors.New("myparcel: API key is required")

// NewMyParcelConfig creates a new MyParcel configuration with defaults.
func NewMyParcelConfig(apiKey string) *MyParcelConfig {
	return &MyParcelConfig{
		APIKey:            apiKey,
		APIBaseURL:        MyParcelAPIURL,
		AddressAPIBaseURL: MyParcelAddressAPIURL,
		UserAgent:         defaultUserAgent,
		TimeoutSeconds:    30,
	}
}

// Validate validates the configuration and fills in defaults.
func (c *MyParcelConfig) Validate() error {
	if c.APIKey == "" {
		return ErrMyParcelConfigMissingAPIKey
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = MyParcelAPIURL
	}
	if c.AddressAPIBaseURL == "" {
		c.AddressAPIBaseURL = MyParcelAddressAPIURL
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
