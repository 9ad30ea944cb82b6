package api

import (
	"context"

	"coworkly/types"
)

func (c *Client) Register(ctx context.Context, req types.RegisterRequest) (*types.AuthResponse, error) {
	var out types.AuthResponse
	if err := c.request(ctx, "POST", "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, req types.LoginRequest) (*types.AuthResponse, error) {
	var out types.AuthResponse
	if err := c.request(ctx, "POST", "/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*types.UserProfile, error) {
	var out types.UserProfile
	if err := c.request(ctx, "GET", "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
