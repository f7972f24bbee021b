package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mvickers/tubetui/internal/domain"
)

// Login exchanges credentials for an access token and the user profile.
// The returned token is also installed on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	payload := map[string]string{"email": email, "password": password}
	body, err := c.doRequest(ctx, http.MethodPost, "/users/login", nil, payload)
	if err != nil {
		return nil, "", err
	}

	raw := unwrapData(body)
	if raw == nil {
		return nil, "", fmt.Errorf("no session returned from server")
	}
	var dto loginResponseDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, "", fmt.Errorf("failed to parse login response: %w", err)
	}

	c.SetToken(dto.AccessToken)
	return mapUser(dto.User), dto.AccessToken, nil
}

// CurrentUser validates the stored token and returns the profile.
func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	if c.getToken() == "" {
		return nil, domain.ErrNotAuthenticated
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/users/current-user", nil, nil)
	if err != nil {
		return nil, err
	}

	raw := unwrapData(body)
	if raw == nil {
		return nil, domain.ErrSessionExpired
	}
	var dto userDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("failed to parse user: %w", err)
	}
	return mapUser(dto), nil
}

// Logout invalidates the server-side session. The local token is cleared
// regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/users/logout", nil, nil)
	c.SetToken("")
	return err
}
