package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/marketplace/backend/internal/domain/user"
)

// UserStore implements user.Store against the marketplace platform API.
type UserStore struct {
	client *client
}

// NewUserStore creates a new user store adapter.
func NewUserStore(config *Config) (*UserStore, error) {
	c, err := newClient(config)
	if err != nil {
		return nil, err
	}
	return &UserStore{client: c}, nil
}

type userEnvelope struct {
	Data user.User `json:"data"`
}

// Get fetches a user and their full profile by id.
func (s *UserStore) Get(ctx context.Context, userID string) (*user.User, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, err
	}

	var envelope userEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse user response: %w", err)
	}
	return &envelope.Data, nil
}

// UpdateProfile applies a partial profile update. Sections absent from the
// patch are left untouched; present sections replace the stored field
// wholesale.
func (s *UserStore) UpdateProfile(ctx context.Context, userID string, patch user.ProfilePatch) error {
	_, err := s.client.doRequest(ctx, http.MethodPost,
		"/users/"+url.PathEscape(userID)+"/profile", patch)
	return err
}

// Ensure UserStore implements the user.Store interface
var _ user.Store = (*UserStore)(nil)
