package order

import "errors"

var (
	// ErrOrderNotFound is returned when a ticket or position index does not
	// resolve to any order.
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderClosed is returned when a mutation is attempted on an order
	// that has already been closed.
	ErrOrderClosed = errors.New("order is closed")

	// ErrMarketOrderRepriced is returned when a modify attempts to change
	// the open price of an already filled market order.
	ErrMarketOrderRepriced = errors.New("open price of market order modified")

	// ErrMarketOrderActivated is returned when activation is attempted on an
	// order that is not pending.
	ErrMarketOrderActivated = errors.New("market order activated")

	// ErrInvalidStopLevels is returned when a requested take profit or stop
	// loss violates the directional or minimum distance constraint.
	ErrInvalidStopLevels = errors.New("invalid stop levels")

	// ErrInvalidOpenPrice is returned when a pending order's resting price is
	// on the wrong side of the current market price for its type.
	ErrInvalidOpenPrice = errors.New("invalid open price")

	// ErrInsufficientBalance is reserved for margin checks.
	ErrInsufficientBalance = errors.New("insufficient balance")
)
