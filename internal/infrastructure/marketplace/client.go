package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/marketplace/backend/internal/domain/shared"
)

const maxResponseSize = 10 << 20 // 10MB

// client is the shared HTTP plumbing for the marketplace API adapters. Both
// the order store and the user store speak the same JSON dialect and use the
// same bearer token.
type client struct {
	config     *Config
	httpClient *http.Client
}

func newClient(config *Config) (*client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// doRequest performs an authenticated JSON request against the marketplace
// API. A 404 answer maps to shared.ErrNotFound so callers can branch on it
// without inspecting status codes.
func (c *client) doRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("marketplace API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, shared.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("marketplace API returned HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
