package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"coworkly/types"
)

func (c *Client) Locations(ctx context.Context) ([]types.Location, error) {
	var out []types.Location
	if err := c.request(ctx, "GET", "/locations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Spaces(ctx context.Context) ([]types.SpaceResponse, error) {
	var out []types.SpaceResponse
	if err := c.request(ctx, "GET", "/spaces", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SpacesByLocation(ctx context.Context, locationID int64) ([]types.SpaceResponse, error) {
	var out []types.SpaceResponse
	path := fmt.Sprintf("/spaces/location/%d", locationID)
	if err := c.request(ctx, "GET", path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FreeSpaceParams filters an availability search. From and To are ISO-8601
// instants; Capacity is only sent when set.
type FreeSpaceParams struct {
	LocationID int64
	From       string
	To         string
	Capacity   *int
}

func (c *Client) FreeSpaces(ctx context.Context, params FreeSpaceParams) ([]types.FreeSpaceResponse, error) {
	query := url.Values{}
	query.Set("locationId", strconv.FormatInt(params.LocationID, 10))
	query.Set("from", params.From)
	query.Set("to", params.To)
	if params.Capacity != nil {
		query.Set("capacity", strconv.Itoa(*params.Capacity))
	}

	var out []types.FreeSpaceResponse
	if err := c.request(ctx, "GET", "/spaces/free?"+query.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
