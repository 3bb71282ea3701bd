package bingx

import "context"

// GetServerTime returns the exchange's current server time.
func (c *Client) GetServerTime(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/openApi/swap/v2/server/time", nil, false)
}
