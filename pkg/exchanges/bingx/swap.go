package bingx

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/veiloq/trading-sdk/pkg/exchanges/interfaces"
)

// GetSwapContracts returns perpetual swap contract specifications, optionally
// filtered by symbol.
func (c *Client) GetSwapContracts(ctx context.Context, symbol string) (*Response, error) {
	params := Params{}
	if symbol != "" {
		params["symbol"] = symbol
	}
	return c.get(ctx, "/openApi/swap/v2/quote/contracts", params, false)
}

// GetSwapKline returns swap candlestick data.
func (c *Client) GetSwapKline(ctx context.Context, p SwapKlineParams) (*Response, error) {
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
	return c.get(ctx, "/openApi/swap/v3/quote/klines", params, false)
}

// GetSwapBalance returns the perpetual swap account balance.
func (c *Client) GetSwapBalance(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/openApi/swap/v3/user/balance", nil, true)
}

// GetSwapPositions returns open swap positions, optionally scoped to a symbol.
func (c *Client) GetSwapPositions(ctx context.Context, symbol string) (*Response, error) {
	params := Params{}
	if symbol != "" {
		params["symbol"] = symbol
	}
	return c.get(ctx, "/openApi/swap/v2/user/positions", params, true)
}

// PlaceSwapOrder submits one perpetual swap order.
func (c *Client) PlaceSwapOrder(ctx context.Context, p PlaceSwapOrderParams) (*Response, error) {
	if p.Symbol == "" || !strings.Contains(p.Symbol, "-") {
		return nil, fmt.Errorf("%w: symbol must use the hyphenated form, e.g. BTC-USDT", interfaces.ErrValidation)
	}
	if p.Type == "" || p.Side == "" {
		return nil, fmt.Errorf("%w: type and side are required", interfaces.ErrValidation)
	}
	params := Params{}
	if err := mergeStructParams(params, p); err != nil {
		return nil, err
	}
	return c.post(ctx, "/openApi/swap/v2/trade/order", params, true)
}

// CloseSwapPosition closes the position with the given exchange position ID
// at market price.
func (c *Client) CloseSwapPosition(ctx context.Context, positionID string) (*Response, error) {
	if positionID == "" {
		return nil, fmt.Errorf("%w: positionID is required", interfaces.ErrValidation)
	}
	params := Params{"positionId": positionID}
	return c.post(ctx, "/openApi/swap/v1/trade/closePosition", params, true)
}

// GetSwapOrder returns details of a single swap order, identified by its
// exchange order ID or client order ID.
func (c *Client) GetSwapOrder(ctx context.Context, symbol string, orderID int64, clientOrderID string) (*Response, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", interfaces.ErrValidation)
	}
	params := Params{"symbol": symbol}
	if orderID > 0 {
		params["orderId"] = orderID
	}
	if clientOrderID != "" {
		params["clientOrderId"] = clientOrderID
	}
	return c.get(ctx, "/openApi/swap/v2/trade/order", params, true)
}

// GetSwapOpenOrders returns pending swap orders, optionally filtered by
// symbol and order type.
func (c *Client) GetSwapOpenOrders(ctx context.Context, symbol string, orderType SwapOrderType) (*Response, error) {
	params := Params{}
	if symbol != "" {
		params["symbol"] = symbol
	}
	if orderType != "" {
		params["type"] = string(orderType)
	}
	return c.get(ctx, "/openApi/swap/v2/trade/openOrders", params, true)
}

// GetSwapOrderHistory returns finished swap orders.
func (c *Client) GetSwapOrderHistory(ctx context.Context, symbol string, startTime, endTime int64, limit int) (*Response, error) {
	if limit <= 0 {
		limit = 500
	}
	params := Params{"limit": limit}
	if symbol != "" {
		params["symbol"] = symbol
	}
	if startTime > 0 {
		params["startTime"] = startTime
	}
	if endTime > 0 {
		params["endTime"] = endTime
	}
	return c.get(ctx, "/openApi/swap/v2/trade/allOrders", params, true)
}

// GetSwapPositionHistory returns closed positions for a symbol within the
// given time range.
func (c *Client) GetSwapPositionHistory(ctx context.Context, symbol string, startTS, endTS int64, pageIndex, pageSize int) (*Response, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", interfaces.ErrValidation)
	}
	params := Params{"symbol": symbol}
	if startTS > 0 {
		params["startTs"] = startTS
	}
	if endTS > 0 {
		params["endTs"] = endTS
	}
	if pageIndex > 0 {
		params["pageIndex"] = pageIndex
	}
	if pageSize > 0 {
		params["pageSize"] = pageSize
	}
	return c.get(ctx, "/openApi/swap/v1/trade/positionHistory", params, true)
}

// CancelSwapOrders cancels swap orders in batch by exchange order IDs or
// client order IDs. At least one list must be non-empty.
func (c *Client) CancelSwapOrders(ctx context.Context, symbol string, orderIDs []int64, clientOrderIDs []string) (*Response, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", interfaces.ErrValidation)
	}
	if len(orderIDs) == 0 && len(clientOrderIDs) == 0 {
		return nil, fmt.Errorf("%w: either orderIDs or clientOrderIDs must be provided", interfaces.ErrValidation)
	}
	params := Params{"symbol": symbol}
	if len(orderIDs) > 0 {
		params["orderIdList"] = orderIDs
	}
	if len(clientOrderIDs) > 0 {
		params["clientOrderIdList"] = clientOrderIDs
	}
	return c.delete(ctx, "/openApi/swap/v2/trade/batchOrders", params, true)
}

// CancelAllSwapOrders cancels all pending swap orders, optionally filtered by
// symbol and order type.
func (c *Client) CancelAllSwapOrders(ctx context.Context, symbol string, orderType SwapOrderType) (*Response, error) {
	params := Params{}
	if symbol != "" {
		params["symbol"] = symbol
	}
	if orderType != "" {
		params["type"] = string(orderType)
	}
	return c.delete(ctx, "/openApi/swap/v2/trade/allOpenOrders", params, true)
}

// SetSwapLeverage sets the leverage for one side of a symbol's position.
func (c *Client) SetSwapLeverage(ctx context.Context, symbol string, side PositionSide, leverage int) (*Response, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", interfaces.ErrValidation)
	}
	if leverage <= 0 {
		return nil, fmt.Errorf("%w: leverage must be positive", interfaces.ErrValidation)
	}
	params := Params{
		"symbol":   symbol,
		"side":     string(side),
		"leverage": leverage,
	}
	return c.post(ctx, "/openApi/swap/v2/trade/leverage", params, true)
}

// GetSwapLeverage returns the current leverage and available position
// headroom for a symbol.
func (c *Client) GetSwapLeverage(ctx context.Context, symbol string) (*Response, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", interfaces.ErrValidation)
	}
	return c.get(ctx, "/openApi/swap/v2/trade/leverage", Params{"symbol": symbol}, true)
}

// SetSwapPositionMode switches the account between one-way and hedge
// position modes.
func (c *Client) SetSwapPositionMode(ctx context.Context, dualSidePosition bool) (*Response, error) {
	params := Params{"dualSidePosition": strconv.FormatBool(dualSidePosition)}
	return c.post(ctx, "/openApi/swap/v1/positionSide/dual", params, true)
}

// GetSwapPositionMode returns the account's current position mode.
func (c *Client) GetSwapPositionMode(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/openApi/swap/v1/positionSide/dual", nil, true)
}

// SetSwapMarginType sets the margin mode for a symbol.
func (c *Client) SetSwapMarginType(ctx context.Context, symbol string, marginType MarginType) (*Response, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", interfaces.ErrValidation)
	}
	params := Params{
		"symbol":     symbol,
		"marginType": string(marginType),
	}
	return c.post(ctx, "/openApi/swap/v2/trade/marginType", params, true)
}

// GetSwapMarginType returns the margin mode configured for a symbol.
func (c *Client) GetSwapMarginType(ctx context.Context, symbol string) (*Response, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", interfaces.ErrValidation)
	}
	return c.get(ctx, "/openApi/swap/v2/trade/marginType", Params{"symbol": symbol}, true)
}
