package bybit

// Category identifies the product type of an instrument.
type Category string

const (
	CategorySpot    Category = "spot"
	CategoryLinear  Category = "linear"
	CategoryInverse Category = "inverse"
	CategoryOption  Category = "option"
)

// AccountType selects the wallet queried by account endpoints.
type AccountType string

const (
	AccountTypeUnified AccountType = "UNIFIED"
	AccountTypeFund    AccountType = "FUND"
)

// MarginMode is the account-level margin configuration.
type MarginMode string

const (
	MarginModeIsolated  MarginMode = "ISOLATED_MARGIN"
	MarginModeRegular   MarginMode = "REGULAR_MARGIN"
	MarginModePortfolio MarginMode = "PORTFOLIO_MARGIN"
)

// InstrumentStatus filters instruments-info queries.
type InstrumentStatus string

const (
	InstrumentStatusTrading    InstrumentStatus = "Trading"
	InstrumentStatusPreLaunch  InstrumentStatus = "PreLaunch"
	InstrumentStatusDelivering InstrumentStatus = "Delivering"
)

// Side is the order direction.
type Side string

const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"
)

// OrderType is the execution type of an order.
type OrderType string

const (
	OrderTypeMarket OrderType = "Market"
	OrderTypeLimit  OrderType = "Limit"
)

// TimeInForce controls how long an order stays active.
type TimeInForce string

const (
	TimeInForceGTC      TimeInForce = "GTC"
	TimeInForceIOC      TimeInForce = "IOC"
	TimeInForceFOK      TimeInForce = "FOK"
	TimeInForcePostOnly TimeInForce = "PostOnly"
)

// TriggerBy selects the price feed evaluated for conditional orders.
type TriggerBy string

const (
	TriggerByLastPrice  TriggerBy = "LastPrice"
	TriggerByIndexPrice TriggerBy = "IndexPrice"
	TriggerByMarkPrice  TriggerBy = "MarkPrice"
)

// PositionIdx disambiguates positions under hedge mode.
type PositionIdx int

const (
	PositionIdxOneWay    PositionIdx = 0
	PositionIdxHedgeBuy  PositionIdx = 1
	PositionIdxHedgeSell PositionIdx = 2
)

// OrderFilter narrows order queries and cancels to an order class.
type OrderFilter string

const (
	OrderFilterOrder     OrderFilter = "Order"
	OrderFilterTpSlOrder OrderFilter = "tpslOrder"
	OrderFilterStopOrder OrderFilter = "StopOrder"
)

// PositionMode is the position mode of a symbol or coin.
type PositionMode int

const (
	PositionModeOneWay PositionMode = 0
	PositionModeHedge  PositionMode = 3
)

// KlineParams are the parameters for GetKline. Symbol and Interval are
// required; zero-valued optional fields are omitted from the request.
type KlineParams struct {
	Category Category
	Symbol   string
	Interval string
	Start    int64
	End      int64
	Limit    int
}

// InstrumentsInfoParams are the parameters for GetInstrumentsInfo.
type InstrumentsInfoParams struct {
	Category Category
	Symbol   string
	Status   InstrumentStatus
	BaseCoin string
	Limit    int
	Cursor   string
}

// PositionListParams are the parameters for GetPositions.
type PositionListParams struct {
	Category   Category
	Symbol     string
	BaseCoin   string
	SettleCoin string
	Limit      int
	Cursor     string
}

// PlaceOrderParams describe one order for PlaceOrder and BatchPlaceOrder.
// Prices and quantities are decimal strings, matching the wire format.
type PlaceOrderParams struct {
	Symbol         string      `json:"symbol"`
	Side           Side        `json:"side"`
	OrderType      OrderType   `json:"orderType"`
	Qty            string      `json:"qty"`
	Price          string      `json:"price,omitempty"`
	TimeInForce    TimeInForce `json:"timeInForce,omitempty"`
	OrderLinkID    string      `json:"orderLinkId,omitempty"`
	IsLeverage     *int        `json:"isLeverage,omitempty"`
	PositionIdx    *int        `json:"positionIdx,omitempty"`
	TriggerPrice   string      `json:"triggerPrice,omitempty"`
	TriggerBy      TriggerBy   `json:"triggerBy,omitempty"`
	TriggerDir     *int        `json:"triggerDirection,omitempty"`
	TakeProfit     string      `json:"takeProfit,omitempty"`
	StopLoss       string      `json:"stopLoss,omitempty"`
	TpTriggerBy    TriggerBy   `json:"tpTriggerBy,omitempty"`
	SlTriggerBy    TriggerBy   `json:"slTriggerBy,omitempty"`
	TpLimitPrice   string      `json:"tpLimitPrice,omitempty"`
	SlLimitPrice   string      `json:"slLimitPrice,omitempty"`
	TpslMode       string      `json:"tpslMode,omitempty"`
	ReduceOnly     *bool       `json:"reduceOnly,omitempty"`
	CloseOnTrigger *bool       `json:"closeOnTrigger,omitempty"`
	MarketUnit     string      `json:"marketUnit,omitempty"`
}

// OrderHistoryParams are the parameters for GetOrderHistory.
type OrderHistoryParams struct {
	Category    Category    `json:"category"`
	Symbol      string      `json:"symbol,omitempty"`
	BaseCoin    string      `json:"baseCoin,omitempty"`
	SettleCoin  string      `json:"settleCoin,omitempty"`
	OrderID     string      `json:"orderId,omitempty"`
	OrderLinkID string      `json:"orderLinkId,omitempty"`
	OrderFilter OrderFilter `json:"orderFilter,omitempty"`
	OrderStatus string      `json:"orderStatus,omitempty"`
	StartTime   int64       `json:"startTime,omitempty,string"`
	EndTime     int64       `json:"endTime,omitempty,string"`
	Limit       int         `json:"limit,omitempty,string"`
	Cursor      string      `json:"cursor,omitempty"`
}

// TradingStopParams set take-profit, stop-loss or trailing stop on a position.
type TradingStopParams struct {
	Symbol       string      `json:"symbol"`
	TakeProfit   string      `json:"takeProfit,omitempty"`
	StopLoss     string      `json:"stopLoss,omitempty"`
	TrailingStop string      `json:"trailingStop,omitempty"`
	TpTriggerBy  TriggerBy   `json:"tpTriggerBy,omitempty"`
	SlTriggerBy  TriggerBy   `json:"slTriggerBy,omitempty"`
	ActivePrice  string      `json:"activePrice,omitempty"`
	TpslMode     string      `json:"tpslMode,omitempty"`
	TpSize       string      `json:"tpSize,omitempty"`
	SlSize       string      `json:"slSize,omitempty"`
	TpLimitPrice string      `json:"tpLimitPrice,omitempty"`
	SlLimitPrice string      `json:"slLimitPrice,omitempty"`
	PositionIdx  PositionIdx `json:"positionIdx"`
}

// ServerTimeResult is the typed result of GetServerTime.
type ServerTimeResult struct {
	TimeSecond string `json:"timeSecond"`
	TimeNano   string `json:"timeNano"`
}
