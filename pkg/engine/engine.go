// Package engine drives a backtest: it replays a price series bar by bar,
// marks the account balance to market, applies activation and exit rules to
// the order book and invokes the strategy callbacks.
package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/TheodoreKrypton/pytrade/pkg/order"
	"github.com/TheodoreKrypton/pytrade/pkg/series"
	"github.com/TheodoreKrypton/pytrade/pkg/utility/fixed"
)

// Engine owns one simulation run: the order book, the clock and the balance
// history. Everything runs on the caller's goroutine; an Engine must not be
// shared between concurrent runs.
type Engine struct {
	logger   *zap.Logger
	series   series.Provider
	strategy Strategy
	book     *order.Book
	recorder Recorder

	point      fixed.Point
	nearestSL  int
	leverage   fixed.Point
	closeAtEnd bool

	time        int
	marketPrice fixed.Point
	balance     []fixed.Point
}

func New(logger *zap.Logger, provider series.Provider, strategy Strategy, initialBalance fixed.Point, options ...Option) *Engine {
	e := &Engine{
		logger:   logger,
		series:   provider,
		strategy: strategy,
		book:     order.NewBook(),
		point:    fixed.One,
		leverage: fixed.One,
		balance:  []fixed.Point{initialBalance},
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run replays the series from the first bar to the second to last one. The
// loop stops one bar early so a current and a next close are always
// available. Any error from a strategy hook aborts the run.
func (e *Engine) Run() error {
	first, err := e.series.Get(0)
	if err != nil {
		return fmt.Errorf("error reading first bar: %w", err)
	}
	newPrice := first.Close
	e.marketPrice = newPrice

	if err := e.strategy.OnInit(e); err != nil {
		return fmt.Errorf("error during on init: %w", err)
	}

	total := e.series.TotalRows()
	for e.time < total-1 {
		prevPrice := newPrice
		bar, err := e.series.Get(e.time)
		if err != nil {
			return fmt.Errorf("error reading bar %d: %w", e.time, err)
		}
		newPrice = bar.Close

		// Mark the balance with the exposure held going into the bar.
		last := e.balance[len(e.balance)-1]
		e.balance = append(e.balance, last.Add(newPrice.Sub(prevPrice).Mul(e.book.Naked())))

		if err := e.scan(prevPrice, newPrice); err != nil {
			return fmt.Errorf("error scanning orders at %d: %w", e.time, err)
		}

		e.marketPrice = newPrice
		if err := e.strategy.OnBar(e); err != nil {
			return fmt.Errorf("error during on bar at %d: %w", e.time, err)
		}
		e.time++
	}

	if e.closeAtEnd {
		if err := e.closeRemaining(); err != nil {
			return fmt.Errorf("error closing remaining orders: %w", err)
		}
	}

	if err := e.strategy.OnDeinit(e); err != nil {
		return fmt.Errorf("error during on deinit: %w", err)
	}
	return nil
}

// scan walks the active orders in ticket order and applies at most one
// activation-or-close action per order, branching on the price direction
// since the previous bar. An order activated this bar is not also eligible
// to close in the same pass.
func (e *Engine) scan(prevPrice, newPrice fixed.Point) error {
	rising := newPrice.Gt(prevPrice)

	for _, ticket := range e.book.ActiveTickets() {
		o := e.book.Active(ticket)
		if o == nil {
			continue
		}

		if rising {
			switch {
			case o.Op.ActivatesOnRise() && o.OpenPrice.Lt(newPrice):
				if err := e.activateOrder(ticket, newPrice); err != nil {
					return err
				}
			case o.Op == order.Buy && !o.TakeProfit.IsZero() && o.TakeProfit.Lt(newPrice):
				if err := e.autoClose(ticket, newPrice, order.CloseAtTakeProfit); err != nil {
					return err
				}
			case o.Op == order.Sell && !o.StopLoss.IsZero() && o.StopLoss.Lt(newPrice):
				if err := e.autoClose(ticket, newPrice, order.CloseAtStopLoss); err != nil {
					return err
				}
			}
		} else {
			switch {
			case o.Op.ActivatesOnFall() && o.OpenPrice.Gt(newPrice):
				if err := e.activateOrder(ticket, newPrice); err != nil {
					return err
				}
			case o.Op == order.Buy && !o.StopLoss.IsZero() && o.StopLoss.Gt(newPrice):
				if err := e.autoClose(ticket, newPrice, order.CloseAtStopLoss); err != nil {
					return err
				}
			case o.Op == order.Sell && !o.TakeProfit.IsZero() && o.TakeProfit.Gt(newPrice):
				if err := e.autoClose(ticket, newPrice, order.CloseAtTakeProfit); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (e *Engine) activateOrder(ticket order.ID, price fixed.Point) error {
	if err := e.book.Activate(ticket, price); err != nil {
		return fmt.Errorf("error activating order #%d: %w", ticket, err)
	}
	reason := e.book.Active(ticket).OpenReason
	if err := e.strategy.OnEvents(e, ticket, reason); err != nil {
		return fmt.Errorf("error during on events: %w", err)
	}
	return nil
}

func (e *Engine) autoClose(ticket order.ID, price fixed.Point, reason order.Reason) error {
	if err := e.closeOrder(ticket, price, reason); err != nil {
		return err
	}
	if err := e.strategy.OnEvents(e, ticket, reason); err != nil {
		return fmt.Errorf("error during on events: %w", err)
	}
	return nil
}

func (e *Engine) closeOrder(ticket order.ID, price fixed.Point, reason order.Reason) error {
	o := e.book.Active(ticket)
	if err := e.book.Close(ticket, e.time, price, reason); err != nil {
		return fmt.Errorf("error closing order #%d: %w", ticket, err)
	}
	if e.recorder != nil {
		if err := e.recorder.RecordClose(o); err != nil {
			e.logger.Warn("unable to record closed order",
				zap.Int64("ticket", int64(ticket)), zap.Error(err))
		}
	}
	return nil
}

func (e *Engine) closeRemaining() error {
	for _, ticket := range e.book.ActiveTickets() {
		if err := e.autoClose(ticket, e.marketPrice, order.CloseAtEndOfData); err != nil {
			return err
		}
	}
	return nil
}
