package engine

import (
	"fmt"

	"github.com/TheodoreKrypton/pytrade/pkg/order"
	"github.com/TheodoreKrypton/pytrade/pkg/utility/fixed"
)

// TradeOption carries the optional levels of an OrderSend request.
type TradeOption func(*tradeRequest)

type tradeRequest struct {
	takeProfit fixed.Point
	stopLoss   fixed.Point
	expiry     int
}

func WithTakeProfit(tp fixed.Point) TradeOption {
	return func(r *tradeRequest) {
		r.takeProfit = tp
	}
}

func WithStopLoss(sl fixed.Point) TradeOption {
	return func(r *tradeRequest) {
		r.stopLoss = sl
	}
}

// WithExpiry sets the bar index at which a pending order expires.
func WithExpiry(t int) TradeOption {
	return func(r *tradeRequest) {
		r.expiry = t
	}
}

// OrderSend validates and places a new order. Market orders fill at the
// current market price and openPrice is ignored; pending orders rest at
// openPrice until activation. The returned ticket is unique for the run.
func (e *Engine) OrderSend(op order.Operation, openPrice, lot fixed.Point, options ...TradeOption) (order.ID, error) {
	req := tradeRequest{expiry: order.NoExpiry}
	for _, option := range options {
		option(&req)
	}

	if op.IsMarket() {
		if err := e.validateMarketStops(op, req.takeProfit, req.stopLoss); err != nil {
			return 0, err
		}
		openPrice = e.marketPrice
	} else {
		if err := e.validatePendingStops(op, openPrice, req.takeProfit, req.stopLoss); err != nil {
			return 0, err
		}
		if err := e.validateRestingPrice(op, openPrice); err != nil {
			return 0, err
		}
	}

	ticket := e.book.Send(op, e.time, openPrice, lot, req.expiry, order.OpenAtMarket, req.takeProfit, req.stopLoss)
	return ticket, nil
}

// OrderClose closes an active order at the current market price.
func (e *Engine) OrderClose(ticket order.ID) error {
	return e.closeOrder(ticket, e.marketPrice, order.CloseAtMarket)
}

// OrderSelect resolves an order by position or ticket and remembers it for
// OrderInfo, OrderModify and later calls.
func (e *Engine) OrderSelect(ref int64, mode order.SelectMode) (*order.Order, error) {
	return e.book.Select(ref, mode)
}

// OrderInfo returns one field of the currently selected order.
func (e *Engine) OrderInfo(field order.InfoField) (any, error) {
	return e.book.Info(field)
}

// OrdersTotal is the number of active orders, pending included.
func (e *Engine) OrdersTotal() int {
	return e.book.ActiveCount()
}

// OrderModify validates and applies a modification to the addressed order.
// A zero ticket addresses the current selection.
func (e *Engine) OrderModify(ticket order.ID, mod order.Modification) error {
	if ticket != 0 {
		if _, err := e.book.Select(int64(ticket), order.ByTicket); err != nil {
			return err
		}
	}
	selected := e.book.Selected()
	if selected == nil {
		return fmt.Errorf("no order selected: %w", order.ErrOrderNotFound)
	}

	if selected.Op.IsBuy() {
		if mod.TakeProfit != nil && mod.TakeProfit.Lt(e.marketPrice) {
			return e.stopLevelError(mod.TakeProfit, mod.StopLoss)
		}
		if mod.StopLoss != nil && e.marketPrice.Sub(*mod.StopLoss).Lt(e.stopDistance()) {
			return e.stopLevelError(mod.TakeProfit, mod.StopLoss)
		}
	} else {
		if mod.TakeProfit != nil && mod.TakeProfit.Gt(e.marketPrice) {
			return e.stopLevelError(mod.TakeProfit, mod.StopLoss)
		}
		if mod.StopLoss != nil && mod.StopLoss.Sub(e.marketPrice).Lt(e.stopDistance()) {
			return e.stopLevelError(mod.TakeProfit, mod.StopLoss)
		}
	}

	if !selected.Op.IsMarket() {
		if err := e.validateRestingPrice(selected.Op, selected.OpenPrice); err != nil {
			return err
		}
	}

	return e.book.Modify(ticket, mod)
}

func (e *Engine) validateMarketStops(op order.Operation, tp, sl fixed.Point) error {
	if op == order.Buy {
		if !tp.IsZero() && tp.Lt(e.marketPrice) {
			return e.stopLevelError(&tp, &sl)
		}
		if !sl.IsZero() && e.marketPrice.Sub(sl).Lt(e.stopDistance()) {
			return e.stopLevelError(&tp, &sl)
		}
	} else {
		if !tp.IsZero() && tp.Gt(e.marketPrice) {
			return e.stopLevelError(&tp, &sl)
		}
		if !sl.IsZero() && sl.Sub(e.marketPrice).Lt(e.stopDistance()) {
			return e.stopLevelError(&tp, &sl)
		}
	}
	return nil
}

func (e *Engine) validatePendingStops(op order.Operation, openPrice, tp, sl fixed.Point) error {
	if op.IsBuy() {
		if !tp.IsZero() && tp.Lt(openPrice) {
			return e.stopLevelError(&tp, &sl)
		}
		if !sl.IsZero() && openPrice.Sub(sl).Lt(e.stopDistance()) {
			return e.stopLevelError(&tp, &sl)
		}
	} else {
		if !tp.IsZero() && tp.Gt(openPrice) {
			return e.stopLevelError(&tp, &sl)
		}
		if !sl.IsZero() && sl.Sub(openPrice).Lt(e.stopDistance()) {
			return e.stopLevelError(&tp, &sl)
		}
	}
	return nil
}

// validateRestingPrice checks that a pending order's resting price sits on
// the correct side of the current market price for its type.
func (e *Engine) validateRestingPrice(op order.Operation, openPrice fixed.Point) error {
	wrongSide := false
	if op.ActivatesOnFall() {
		wrongSide = openPrice.Gt(e.marketPrice)
	} else if op.ActivatesOnRise() {
		wrongSide = openPrice.Lt(e.marketPrice)
	}
	if wrongSide {
		return fmt.Errorf("operation %s, market price %s, open price %s: %w",
			op, e.marketPrice, openPrice, order.ErrInvalidOpenPrice)
	}
	return nil
}

func (e *Engine) stopDistance() fixed.Point {
	return e.point.MulInt(e.nearestSL)
}

func (e *Engine) stopLevelError(tp, sl *fixed.Point) error {
	format := func(p *fixed.Point) string {
		if p == nil {
			return "unset"
		}
		return p.String()
	}
	return fmt.Errorf("take profit %s, stop loss %s: %w", format(tp), format(sl), order.ErrInvalidStopLevels)
}

// Open returns the open of the bar shift steps before the current time.
func (e *Engine) Open(shift int) (fixed.Point, error) {
	bar, err := e.series.Get(e.time - shift)
	return bar.Open, err
}

// High returns the high of the bar shift steps before the current time.
func (e *Engine) High(shift int) (fixed.Point, error) {
	bar, err := e.series.Get(e.time - shift)
	return bar.High, err
}

// Low returns the low of the bar shift steps before the current time.
func (e *Engine) Low(shift int) (fixed.Point, error) {
	bar, err := e.series.Get(e.time - shift)
	return bar.Low, err
}

// Close returns the close of the bar shift steps before the current time.
func (e *Engine) Close(shift int) (fixed.Point, error) {
	bar, err := e.series.Get(e.time - shift)
	return bar.Close, err
}

// CurrentTime is the index of the bar being simulated.
func (e *Engine) CurrentTime() int {
	return e.time
}

// MarketPrice is the close of the last processed bar.
func (e *Engine) MarketPrice() fixed.Point {
	return e.marketPrice
}

// Balance is the append-only balance history, one entry per step plus the
// initial balance at index zero. Callers must not mutate it.
func (e *Engine) Balance() []fixed.Point {
	return e.balance
}

// Leverage is the configured account leverage.
func (e *Engine) Leverage() fixed.Point {
	return e.leverage
}

// Book exposes the order book, mainly for reporting after a run.
func (e *Engine) Book() *order.Book {
	return e.book
}
