package types

type OrderSide string

type OrderType string

type OrderStatus string

type TimeInForce string

type PositionSide string

type PositionStatus string

type SortDirection string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

const (
	OrderTypeLimit      OrderType = "LIMIT"
	OrderTypeMarket     OrderType = "MARKET"
	OrderTypeStopLimit  OrderType = "STOP_LIMIT"
	OrderTypeStopMarket OrderType = "STOP_MARKET"
)

const (
	OrderStatusOpen             OrderStatus = "OPEN"
	OrderStatusFilled           OrderStatus = "FILLED"
	OrderStatusCanceled         OrderStatus = "CANCELED"
	OrderStatusBestEffortOpened OrderStatus = "BEST_EFFORT_OPENED"
	OrderStatusUntriggered      OrderStatus = "UNTRIGGERED"
)

const (
	TimeInForceGTT      TimeInForce = "GTT"
	TimeInForceIOC      TimeInForce = "IOC"
	TimeInForceFOK      TimeInForce = "FOK"
	TimeInForcePostOnly TimeInForce = "POST_ONLY"
)

const (
	PositionSideLong  PositionSide = "LONG"
	PositionSideShort PositionSide = "SHORT"
)

const (
	PositionStatusOpen       PositionStatus = "OPEN"
	PositionStatusClosed     PositionStatus = "CLOSED"
	PositionStatusLiquidated PositionStatus = "LIQUIDATED"
)

const (
	SortAscending  SortDirection = "ASC"
	SortDescending SortDirection = "DESC"
)
