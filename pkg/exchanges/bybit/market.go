package bybit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/veiloq/trading-sdk/pkg/exchanges/interfaces"
)

// GetServerTime returns the exchange server time. Public endpoint.
func (c *Client) GetServerTime(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/v5/market/time", nil, false)
}

// GetKline returns historical candles for a symbol.
func (c *Client) GetKline(ctx context.Context, req KlineParams) (*Response, error) {
	if req.Symbol == "" || req.Interval == "" {
		return nil, fmt.Errorf("%w: symbol and interval are required", interfaces.ErrValidation)
	}

	params := Params{
		"symbol":   req.Symbol,
		"interval": req.Interval,
	}
	if req.Category != "" {
		params["category"] = string(req.Category)
	}
	if req.Start > 0 {
		params["start"] = strconv.FormatInt(req.Start, 10)
	}
	if req.End > 0 {
		params["end"] = strconv.FormatInt(req.End, 10)
	}
	if req.Limit > 0 {
		params["limit"] = strconv.Itoa(req.Limit)
	}

	return c.get(ctx, "/v5/market/kline", params, false)
}

// GetInstrumentsInfo returns the instrument specifications for a category.
func (c *Client) GetInstrumentsInfo(ctx context.Context, req InstrumentsInfoParams) (*Response, error) {
	if req.Category == "" {
		return nil, fmt.Errorf("%w: category is required", interfaces.ErrValidation)
	}

	params := Params{
		"category": string(req.Category),
	}
	if req.Symbol != "" {
		params["symbol"] = req.Symbol
	}
	if req.Status != "" {
		params["status"] = string(req.Status)
	}
	if req.BaseCoin != "" {
		params["baseCoin"] = req.BaseCoin
	}
	if req.Limit > 0 {
		params["limit"] = strconv.Itoa(req.Limit)
	}
	if req.Cursor != "" {
		params["cursor"] = req.Cursor
	}

	return c.get(ctx, "/v5/market/instruments-info", params, false)
}

// GetTickers returns the latest price snapshot for a category, optionally
// narrowed to one symbol.
func (c *Client) GetTickers(ctx context.Context, category Category, symbol string) (*Response, error) {
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", interfaces.ErrValidation)
	}

	params := Params{
		"category": string(category),
	}
	if symbol != "" {
		params["symbol"] = symbol
	}

	return c.get(ctx, "/v5/market/tickers", params, false)
}

// GetOrderbook returns the order book for a symbol up to limit levels per side.
func (c *Client) GetOrderbook(ctx context.Context, category Category, symbol string, limit int) (*Response, error) {
	if category == "" || symbol == "" {
		return nil, fmt.Errorf("%w: category and symbol are required", interfaces.ErrValidation)
	}

	params := Params{
		"category": string(category),
		"symbol":   symbol,
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}

	return c.get(ctx, "/v5/market/orderbook", params, false)
}
