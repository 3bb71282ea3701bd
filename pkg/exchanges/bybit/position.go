package bybit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/veiloq/trading-sdk/pkg/exchanges/interfaces"
)

// GetPositions returns open positions. One of Symbol or SettleCoin is
// required for linear and inverse categories.
func (c *Client) GetPositions(ctx context.Context, req PositionListParams) (*Response, error) {
	if req.Category == "" {
		return nil, fmt.Errorf("%w: category is required", interfaces.ErrValidation)
	}

	params := Params{
		"category": string(req.Category),
	}
	if req.Symbol != "" {
		params["symbol"] = req.Symbol
	}
	if req.BaseCoin != "" {
		params["baseCoin"] = req.BaseCoin
	}
	if req.SettleCoin != "" {
		params["settleCoin"] = req.SettleCoin
	}
	if req.Limit > 0 {
		params["limit"] = strconv.Itoa(req.Limit)
	}
	if req.Cursor != "" {
		params["cursor"] = req.Cursor
	}

	return c.get(ctx, "/v5/position/list", params, true)
}

// SetLeverage sets buy and sell leverage for a symbol. Both values must be
// equal under one-way mode.
func (c *Client) SetLeverage(ctx context.Context, category Category, symbol, buyLeverage, sellLeverage string) (*Response, error) {
	if category == "" || symbol == "" || buyLeverage == "" || sellLeverage == "" {
		return nil, fmt.Errorf("%w: category, symbol and both leverage values are required", interfaces.ErrValidation)
	}

	params := Params{
		"category":     string(category),
		"symbol":       symbol,
		"buyLeverage":  buyLeverage,
		"sellLeverage": sellLeverage,
	}
	return c.post(ctx, "/v5/position/set-leverage", params, true)
}

// SwitchPositionMode switches between one-way and hedge mode for a symbol or
// a settle coin. Exactly one of symbol and coin should be set.
func (c *Client) SwitchPositionMode(ctx context.Context, category Category, symbol, coin string, mode PositionMode) (*Response, error) {
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", interfaces.ErrValidation)
	}
	if (symbol == "") == (coin == "") {
		return nil, fmt.Errorf("%w: exactly one of symbol or coin must be set", interfaces.ErrValidation)
	}

	params := Params{
		"category": string(category),
		"mode":     strconv.Itoa(int(mode)),
	}
	if symbol != "" {
		params["symbol"] = symbol
	}
	if coin != "" {
		params["coin"] = coin
	}

	return c.post(ctx, "/v5/position/switch-mode", params, true)
}

// SetTradingStop sets take-profit, stop-loss or trailing stop on an open
// position.
func (c *Client) SetTradingStop(ctx context.Context, category Category, req TradingStopParams) (*Response, error) {
	if category == "" || req.Symbol == "" {
		return nil, fmt.Errorf("%w: category and symbol are required", interfaces.ErrValidation)
	}

	params := Params{
		"category": string(category),
	}
	if err := mergeStructParams(params, req); err != nil {
		return nil, err
	}

	return c.post(ctx, "/v5/position/trading-stop", params, true)
}

// GetClosedPnL returns closed profit and loss records within a time range.
func (c *Client) GetClosedPnL(ctx context.Context, category Category, symbol string, startTime, endTime int64, limit int, cursor string) (*Response, error) {
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", interfaces.ErrValidation)
	}

	params := Params{
		"category": string(category),
	}
	if symbol != "" {
		params["symbol"] = symbol
	}
	if startTime > 0 {
		params["startTime"] = strconv.FormatInt(startTime, 10)
	}
	if endTime > 0 {
		params["endTime"] = strconv.FormatInt(endTime, 10)
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	if cursor != "" {
		params["cursor"] = cursor
	}

	return c.get(ctx, "/v5/position/closed-pnl", params, true)
}
