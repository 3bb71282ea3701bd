package bingx

import (
	"encoding/json"
	"fmt"
)

// OrderSide is the order direction.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// PositionSide is the position direction under hedge mode.
type PositionSide string

const (
	PositionSideBoth  PositionSide = "BOTH"
	PositionSideLong  PositionSide = "LONG"
	PositionSideShort PositionSide = "SHORT"
)

// SpotOrderType is the execution type of a spot order.
type SpotOrderType string

const (
	SpotOrderTypeMarket        SpotOrderType = "MARKET"
	SpotOrderTypeLimit         SpotOrderType = "LIMIT"
	SpotOrderTypeTakeStopLimit SpotOrderType = "TAKE_STOP_LIMIT"
	SpotOrderTypeTriggerLimit  SpotOrderType = "TRIGGER_LIMIT"
	SpotOrderTypeTriggerMarket SpotOrderType = "TRIGGER_MARKET"
)

// SwapOrderType is the execution type of a perpetual swap order.
type SwapOrderType string

const (
	SwapOrderTypeLimit              SwapOrderType = "LIMIT"
	SwapOrderTypeMarket             SwapOrderType = "MARKET"
	SwapOrderTypeStopMarket         SwapOrderType = "STOP_MARKET"
	SwapOrderTypeTakeProfitMarket   SwapOrderType = "TAKE_PROFIT_MARKET"
	SwapOrderTypeStop               SwapOrderType = "STOP"
	SwapOrderTypeTakeProfit         SwapOrderType = "TAKE_PROFIT"
	SwapOrderTypeTriggerLimit       SwapOrderType = "TRIGGER_LIMIT"
	SwapOrderTypeTriggerMarket      SwapOrderType = "TRIGGER_MARKET"
	SwapOrderTypeTrailingStopMarket SwapOrderType = "TRAILING_STOP_MARKET"
)

// MarginType is the margin configuration of a swap symbol.
type MarginType string

const (
	MarginTypeIsolated MarginType = "ISOLATED"
	MarginTypeCrossed  MarginType = "CROSSED"
)

// TimeInForce controls how long an order stays active.
type TimeInForce string

const (
	TimeInForceGTC      TimeInForce = "GTC"
	TimeInForceIOC      TimeInForce = "IOC"
	TimeInForceFOK      TimeInForce = "FOK"
	TimeInForcePostOnly TimeInForce = "PostOnly"
)

// TriggerPriceType selects the price feed evaluated for conditional orders.
type TriggerPriceType string

const (
	TriggerPriceMark     TriggerPriceType = "MARK_PRICE"
	TriggerPriceContract TriggerPriceType = "CONTRACT_PRICE"
	TriggerPriceIndex    TriggerPriceType = "INDEX_PRICE"
)

// TpSl describes a take-profit or stop-loss attachment on a swap order.
// BingX expects it embedded as a JSON string inside the order parameters,
// which MarshalJSON produces.
type TpSl struct {
	Type        SwapOrderType    `json:"type"`
	StopPrice   float64          `json:"stopPrice"`
	Price       float64          `json:"price"`
	WorkingType TriggerPriceType `json:"workingType"`
}

// MarshalJSON encodes the struct as an embedded JSON string, per the
// exchange's wire format for takeProfit/stopLoss fields.
func (t TpSl) MarshalJSON() ([]byte, error) {
	type plain TpSl
	inner, err := json.Marshal(plain(t))
	if err != nil {
		return nil, fmt.Errorf("error encoding tp/sl: %w", err)
	}
	return json.Marshal(string(inner))
}

// PlaceSwapOrderParams describe one perpetual swap order. The symbol must
// contain a hyphen (e.g. BTC-USDT).
type PlaceSwapOrderParams struct {
	Symbol          string        `json:"symbol"`
	Type            SwapOrderType `json:"type"`
	Side            OrderSide     `json:"side"`
	PositionSide    PositionSide  `json:"positionSide,omitempty"`
	ReduceOnly      string        `json:"reduceOnly,omitempty"`
	Price           *float64      `json:"price,omitempty"`
	Quantity        *float64      `json:"quantity,omitempty"`
	QuoteOrderQty   *float64      `json:"quoteOrderQty,omitempty"`
	StopPrice       *float64      `json:"stopPrice,omitempty"`
	PriceRate       *float64      `json:"priceRate,omitempty"`
	WorkingType     string        `json:"workingType,omitempty"`
	TakeProfit      *TpSl         `json:"takeProfit,omitempty"`
	StopLoss        *TpSl         `json:"stopLoss,omitempty"`
	ClientOrderID   string        `json:"clientOrderId,omitempty"`
	TimeInForce     TimeInForce   `json:"timeInForce,omitempty"`
	ClosePosition   string        `json:"closePosition,omitempty"`
	ActivationPrice *float64      `json:"activationPrice,omitempty"`
	PositionID      *int64        `json:"positionId,omitempty"`
}

// SpotKlineParams are the parameters for GetSpotKline.
type SpotKlineParams struct {
	Symbol    string
	Interval  string
	StartTime int64
	EndTime   int64
	Limit     int
}

// SwapKlineParams are the parameters for GetSwapKline.
type SwapKlineParams struct {
	Symbol    string
	Interval  string
	StartTime int64
	EndTime   int64
	Limit     int
}

// SpotOrderHistoryParams are the parameters for GetSpotOrderHistory.
type SpotOrderHistoryParams struct {
	Symbol    string `json:"symbol,omitempty"`
	OrderID   *int64 `json:"orderId,omitempty"`
	StartTime int64  `json:"startTime,omitempty"`
	EndTime   int64  `json:"endTime,omitempty"`
	PageIndex int    `json:"pageIndex,omitempty"`
	PageSize  int    `json:"pageSize,omitempty"`
	Status    string `json:"status,omitempty"`
}
