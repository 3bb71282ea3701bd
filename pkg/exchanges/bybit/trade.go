package bybit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/veiloq/trading-sdk/pkg/exchanges/interfaces"
)

// PlaceOrder submits a new order.
func (c *Client) PlaceOrder(ctx context.Context, category Category, order PlaceOrderParams) (*Response, error) {
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", interfaces.ErrValidation)
	}
	if order.Symbol == "" || order.Side == "" || order.OrderType == "" || order.Qty == "" {
		return nil, fmt.Errorf("%w: symbol, side, orderType and qty are required", interfaces.ErrValidation)
	}

	params := Params{
		"category": string(category),
	}
	if err := mergeStructParams(params, order); err != nil {
		return nil, err
	}

	return c.post(ctx, "/v5/order/create", params, true)
}

// CancelOrder cancels one order by exchange order ID or client order link ID.
func (c *Client) CancelOrder(ctx context.Context, category Category, symbol, orderID, orderLinkID string, filter OrderFilter) (*Response, error) {
	if category == "" || symbol == "" {
		return nil, fmt.Errorf("%w: category and symbol are required", interfaces.ErrValidation)
	}
	if orderID == "" && orderLinkID == "" {
		return nil, fmt.Errorf("%w: either orderId or orderLinkId must be provided", interfaces.ErrValidation)
	}

	params := Params{
		"category": string(category),
		"symbol":   symbol,
	}
	if orderID != "" {
		params["orderId"] = orderID
	}
	if orderLinkID != "" {
		params["orderLinkId"] = orderLinkID
	}
	if filter != "" {
		params["orderFilter"] = string(filter)
	}

	return c.post(ctx, "/v5/order/cancel", params, true)
}

// GetOpenOrders returns open and recently closed orders in real time.
func (c *Client) GetOpenOrders(ctx context.Context, category Category, symbol, baseCoin, settleCoin string, openOnly int, limit int, cursor string) (*Response, error) {
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", interfaces.ErrValidation)
	}

	params := Params{
		"category": string(category),
	}
	if symbol != "" {
		params["symbol"] = symbol
	}
	if baseCoin != "" {
		params["baseCoin"] = baseCoin
	}
	if settleCoin != "" {
		params["settleCoin"] = settleCoin
	}
	if openOnly > 0 {
		params["openOnly"] = strconv.Itoa(openOnly)
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	if cursor != "" {
		params["cursor"] = cursor
	}

	return c.get(ctx, "/v5/order/realtime", params, true)
}

// CancelAllOrders cancels every open order matching the filter. At least one
// of symbol, baseCoin or settleCoin is required for linear and inverse.
func (c *Client) CancelAllOrders(ctx context.Context, category Category, symbol, baseCoin, settleCoin string) (*Response, error) {
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", interfaces.ErrValidation)
	}

	params := Params{
		"category": string(category),
	}
	if symbol != "" {
		params["symbol"] = symbol
	}
	if baseCoin != "" {
		params["baseCoin"] = baseCoin
	}
	if settleCoin != "" {
		params["settleCoin"] = settleCoin
	}

	return c.post(ctx, "/v5/order/cancel-all", params, true)
}

// GetOrderHistory returns completed order records.
func (c *Client) GetOrderHistory(ctx context.Context, req OrderHistoryParams) (*Response, error) {
	if req.Category == "" {
		return nil, fmt.Errorf("%w: category is required", interfaces.ErrValidation)
	}

	params := Params{}
	if err := mergeStructParams(params, req); err != nil {
		return nil, err
	}

	return c.get(ctx, "/v5/order/history", params, true)
}

// BatchPlaceOrder submits up to 20 orders in one request.
func (c *Client) BatchPlaceOrder(ctx context.Context, category Category, orders []PlaceOrderParams) (*Response, error) {
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", interfaces.ErrValidation)
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: at least one order is required", interfaces.ErrValidation)
	}

	params := Params{
		"category": string(category),
		"request":  orders,
	}
	return c.post(ctx, "/v5/order/create-batch", params, true)
}

// BatchCancelRequest identifies one order within BatchCancelOrder.
type BatchCancelRequest struct {
	Symbol      string `json:"symbol"`
	OrderID     string `json:"orderId,omitempty"`
	OrderLinkID string `json:"orderLinkId,omitempty"`
}

// BatchCancelOrder cancels up to 20 orders in one request.
func (c *Client) BatchCancelOrder(ctx context.Context, category Category, cancels []BatchCancelRequest) (*Response, error) {
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", interfaces.ErrValidation)
	}
	if len(cancels) == 0 {
		return nil, fmt.Errorf("%w: at least one cancel is required", interfaces.ErrValidation)
	}

	params := Params{
		"category": string(category),
		"request":  cancels,
	}
	return c.post(ctx, "/v5/order/cancel-batch", params, true)
}
