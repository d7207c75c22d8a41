package api

import (
	"context"
	"fmt"
)

// GetUsers returns every registered user with their live status.
func (c *Client) GetUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.Get(ctx, "/users", &users); err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

// UpdateStatus sets the authenticated user's status.
func (c *Client) UpdateStatus(ctx context.Context, status UserStatus) error {
	if !status.Valid() {
		return fmt.Errorf("failed to update status: unknown status %q", status)
	}
	if err := c.Patch(ctx, "/users/status", UpdateStatusRequest{Status: status}, nil); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// Register creates a new account. A taken email surfaces as a 409 APIError.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	if err := c.Post(ctx, "/register", req, nil); err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}
	return nil
}

// Login exchanges credentials for a bearer token and the user record.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.Post(ctx, "/login", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("failed to login: empty token in response")
	}
	return &resp, nil
}
