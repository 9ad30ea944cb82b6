package api

import (
	"context"

	"coworkly/types"
)

func (c *Client) CreateWalkIn(ctx context.Context, req types.WalkInBookingRequest) (*types.WalkInBookingResponse, error) {
	var out types.WalkInBookingResponse
	if err := c.request(ctx, "POST", "/admin/walkin", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Report(ctx context.Context, req types.ReportRequest) (*types.ReportResponse, error) {
	var out types.ReportResponse
	if err := c.request(ctx, "POST", "/admin/reports", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
