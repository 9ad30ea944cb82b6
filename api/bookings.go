package api

import (
	"context"
	"fmt"

	"coworkly/types"
)

func (c *Client) BookingsForUser(ctx context.Context, userID int64) ([]types.BookingResponse, error) {
	var out []types.BookingResponse
	path := fmt.Sprintf("/bookings/user/%d", userID)
	if err := c.request(ctx, "GET", path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBooking(ctx context.Context, req types.CreateBookingRequest) (*types.CreateBookingResponse, error) {
	var out types.CreateBookingResponse
	if err := c.request(ctx, "POST", "/bookings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ConfirmBooking(ctx context.Context, bookingID int64) error {
	path := fmt.Sprintf("/bookings/%d/confirm", bookingID)
	return c.request(ctx, "POST", path, nil, nil)
}
