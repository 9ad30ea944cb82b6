package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"coworkly/types"
)

// PenaltyFilter narrows an admin penalty listing.
type PenaltyFilter struct {
	UserID     *int64
	ActiveOnly bool
}

func (c *Client) AdminPenalties(ctx context.Context, filter PenaltyFilter) ([]types.PenaltyResponse, error) {
	query := url.Values{}
	if filter.UserID != nil {
		query.Set("userId", strconv.FormatInt(*filter.UserID, 10))
	}
	if filter.ActiveOnly {
		query.Set("activeOnly", "true")
	}

	path := "/admin/penalties"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out []types.PenaltyResponse
	if err := c.request(ctx, "GET", path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreatePenalty(ctx context.Context, req types.PenaltyRequest) (*types.PenaltyResponse, error) {
	var out types.PenaltyResponse
	if err := c.request(ctx, "POST", "/admin/penalties", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RevokePenalty(ctx context.Context, penaltyID int64) error {
	path := fmt.Sprintf("/admin/penalties/%d", penaltyID)
	return c.request(ctx, "DELETE", path, nil, nil)
}

func (c *Client) MyPenalties(ctx context.Context) ([]types.PenaltyResponse, error) {
	var out []types.PenaltyResponse
	if err := c.request(ctx, "GET", "/penalties/me", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
