package api

import (
	"context"

	"jobping-client-go/internal/models"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a new account. On success the returned token is pushed
// into the session store before this returns, so callers never need to
// persist it themselves.
func (c *Client) Register(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	return c.authenticate(ctx, "/api/register", username, password)
}

// Login authenticates an existing account. Token handling matches Register.
func (c *Client) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	return c.authenticate(ctx, "/api/login", username, password)
}

func (c *Client) authenticate(ctx context.Context, path, username, password string) (*models.AuthResponse, error) {
	if username == "" {
		return nil, required("username")
	}
	if password == "" {
		return nil, required("password")
	}

	var resp models.AuthResponse
	if err := c.post(ctx, path, credentialsRequest{Username: username, Password: password}, &resp); err != nil {
		return nil, err
	}

	c.tokens.SetToken(resp.Token)
	return &resp, nil
}

// Logout clears the stored credential. Purely local: the backend is not
// notified, its token simply stops being sent. Safe to call when already
// logged out.
func (c *Client) Logout() {
	c.tokens.SetToken("")
}
