package marketplace

import (
	"errors"
)

// Config errors
var (
	ErrConfigMissingBaseURL  = errors.New("marketplace config: BaseURL is required")
	ErrConfigMissingAPIToken = errors.New("marketplace config: APIToken is required")
)

const defaultTimeoutSeconds = 15

// Config holds the connection settings for the marketplace platform API, the
// authoritative store for orders and user profiles.
type Config struct {
	BaseURL        string
	APIToken       string
	TimeoutSeconds int
}

// NewConfig creates a marketplace API config with default timeout.
func NewConfig(baseURL, apiToken string) *Config {
	return &Config{
		BaseURL:        baseURL,
		APIToken:       apiToken,
		TimeoutSeconds: defaultTimeoutSeconds,
	}
}

// Validate checks required fields and fills in defaults.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if c.APIToken == "" {
		return ErrConfigMissingAPIToken
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
	return nil
}
