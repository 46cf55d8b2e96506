package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lmendo/tripdesk/internal/app/models"
)

// Credentials is a login attempt forwarded verbatim to the auth endpoint.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is a new account request.
type Registration struct {
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	Role      models.Role `json:"role"`
}

// Login exchanges credentials for a bearer token and the authenticated user.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, *models.User, error) {
	payload := map[string]string{
		"email":       creds.Email,
		"password":    creds.Password,
		"device_name": "WebApp",
	}
	raw, err := c.do(ctx, "", http.MethodPost, "/auth/login", payload)
	if err != nil {
		return "", nil, err
	}

	var resp struct {
		Token string   `json:"token"`
		User  wireUser `json:"user"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", nil, fmt.Errorf("decode login response: %w", err)
	}
	if resp.Token == "" {
		return "", nil, fmt.Errorf("login response missing token")
	}
	return resp.Token, resp.User.toUser(), nil
}

// Logout revokes the bearer token server-side.
func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.do(ctx, token, http.MethodPost, "/auth/logout", struct{}{})
	return err
}

// Me fetches the profile behind a token. Used both after login and to
// silently rehydrate a persisted session at startup.
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	raw, err := c.do(ctx, token, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, err
	}

	obj, err := unwrapObject(raw)
	if err != nil {
		return nil, fmt.Errorf("profile response: %w", err)
	}
	var u wireUser
	if err := json.Unmarshal(obj, &u); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return u.toUser(), nil
}

// RegisterUser creates a new account and returns the created profile.
func (c *Client) RegisterUser(ctx context.Context, reg Registration) (*models.User, error) {
	payload := map[string]string{
		"nombre":   reg.FirstName,
		"apellido": reg.LastName,
		"email":    reg.Email,
		"password": reg.Password,
		"rol":      roleToWire(reg.Role),
	}
	raw, err := c.do(ctx, "", http.MethodPost, "/usuarios", payload)
	if err != nil {
		return nil, err
	}

	obj, err := unwrapObject(raw)
	if err != nil {
		return nil, fmt.Errorf("register response: %w", err)
	}
	var u wireUser
	if err := json.Unmarshal(obj, &u); err != nil {
		return nil, fmt.Errorf("decode registered user: %w", err)
	}
	return u.toUser(), nil
}
