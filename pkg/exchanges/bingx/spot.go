package bingx

import (
	"context"
	"fmt"
	"strings"

	"github.com/veiloq/trading-sdk/pkg/exchanges/interfaces"
)

// GetSpotSymbols returns spot trading symbols, optionally filtered by symbol.
func (c *Client) GetSpotSymbols(ctx context.Context, symbol string) (*Response, error) {
	params := Params{}
	if symbol != "" {
		params["symbol"] = symbol
	}
	return c.get(ctx, "/openApi/spot/v1/common/symbols", params, false)
}

// GetSpotKline returns spot candlestick data.
func (c *Client) GetSpotKline(ctx context.Context, p SpotKlineParams) (*Response, error) {
	if p.Symbol == "" || p.Interval == "" {
		return nil, fmt.Errorf("%w: symbol and interval are required", interfaces.ErrValidation)
	}
	params := Params{
		"symbol":   p.Symbol,
		"interval": p.Interval,
	}
	if p.StartTime > 0 {
		params["startTime"] = p.StartTime
	}
	if p.EndTime > 0 {
		params["endTime"] = p.EndTime
	}
	if p.Limit > 0 {
		params["limit"] = p.Limit
	}
	return c.get(ctx, "/openApi/spot/v2/market/kline", params, false)
}

// GetSpotBalances returns the spot account's asset balances.
func (c *Client) GetSpotBalances(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/openApi/spot/v1/account/balance", nil, true)
}

// GetSpotOpenOrders returns open spot orders, optionally scoped to a symbol.
func (c *Client) GetSpotOpenOrders(ctx context.Context, symbol string) (*Response, error) {
	params := Params{}
	if symbol != "" {
		params["symbol"] = symbol
	}
	return c.get(ctx, "/openApi/spot/v1/trade/openOrders", params, true)
}

// GetSpotOrder returns details of a single spot order, identified by its
// exchange order ID or client order ID.
func (c *Client) GetSpotOrder(ctx context.Context, symbol string, orderID int64, clientOrderID string) (*Response, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", interfaces.ErrValidation)
	}
	params := Params{"symbol": symbol}
	if orderID > 0 {
		params["orderId"] = orderID
	}
	if clientOrderID != "" {
		params["clientOrderID"] = clientOrderID
	}
	return c.get(ctx, "/openApi/spot/v1/trade/query", params, true)
}

// GetSpotOrderHistory returns finished spot orders.
func (c *Client) GetSpotOrderHistory(ctx context.Context, p SpotOrderHistoryParams) (*Response, error) {
	params := Params{}
	if err := mergeStructParams(params, p); err != nil {
		return nil, err
	}
	return c.get(ctx, "/openApi/spot/v1/trade/historyOrders", params, true)
}

// GetSpotTrades returns the account's fills for a symbol.
func (c *Client) GetSpotTrades(ctx context.Context, symbol string, orderID int64, limit int) (*Response, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", interfaces.ErrValidation)
	}
	if limit <= 0 {
		limit = 500
	}
	params := Params{
		"symbol": symbol,
		"limit":  limit,
	}
	if orderID > 0 {
		params["orderId"] = orderID
	}
	return c.get(ctx, "/openApi/spot/v1/trade/myTrades", params, true)
}

// CancelSpotOrders cancels spot orders in batch by exchange order IDs or
// client order IDs. At least one list must be non-empty.
func (c *Client) CancelSpotOrders(ctx context.Context, symbol string, orderIDs, clientOrderIDs []string) (*Response, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", interfaces.ErrValidation)
	}
	if len(orderIDs) == 0 && len(clientOrderIDs) == 0 {
		return nil, fmt.Errorf("%w: either orderIDs or clientOrderIDs must be provided", interfaces.ErrValidation)
	}
	params := Params{"symbol": symbol}
	if len(orderIDs) > 0 {
		params["orderIds"] = strings.Join(orderIDs, ",")
	}
	if len(clientOrderIDs) > 0 {
		params["clientOrderIDs"] = strings.Join(clientOrderIDs, ",")
	}
	return c.post(ctx, "/openApi/spot/v1/trade/cancelOrders", params, true)
}

// CancelAllSpotOrders cancels all open spot orders, optionally scoped to a
// symbol.
func (c *Client) CancelAllSpotOrders(ctx context.Context, symbol string) (*Response, error) {
	params := Params{}
	if symbol != "" {
		params["symbol"] = symbol
	}
	return c.post(ctx, "/openApi/spot/v1/trade/cancelOpenOrders", params, true)
}
