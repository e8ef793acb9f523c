package order

import (
	"fmt"

	"github.com/TheodoreKrypton/pytrade/pkg/utility/fixed"
)

// ID is a unique, monotonically assigned order ticket. Tickets are 1-based
// and never reused, so the zero value is free to mean "no ticket".
type ID int64

// NoExpiry marks a pending order without an expiration time.
const NoExpiry = -1

// Order is one trading instruction and its lifecycle state. Times are bar
// indices of the driving price series. TakeProfit and StopLoss use the zero
// point as "unset".
//
// Mutations go through Close, Modify and Activate. Once Closed is set the
// order is immutable and every further mutation fails.
type Order struct {
	Ticket      ID
	Op          Operation
	OpenTime    int
	OpenPrice   fixed.Point
	Lot         fixed.Point
	ExpiredTime int
	OpenReason  Reason
	TakeProfit  fixed.Point
	StopLoss    fixed.Point

	Closed      bool
	CloseTime   int
	ClosePrice  fixed.Point
	CloseReason Reason
}

// Modification carries the optional fields of a modify request. Nil fields are
// left untouched.
type Modification struct {
	OpenPrice   *fixed.Point
	TakeProfit  *fixed.Point
	StopLoss    *fixed.Point
	ExpiredTime *int
}

func newOrder(ticket ID, op Operation, openTime int, openPrice, lot fixed.Point, expiredTime int, openReason Reason, tp, sl fixed.Point) *Order {
	return &Order{
		Ticket:      ticket,
		Op:          op,
		OpenTime:    openTime,
		OpenPrice:   openPrice,
		Lot:         lot,
		ExpiredTime: expiredTime,
		OpenReason:  openReason,
		TakeProfit:  tp,
		StopLoss:    sl,
	}
}

// Close records the exit fields and seals the order.
func (o *Order) Close(closeTime int, closePrice fixed.Point, reason Reason) error {
	if o.Closed {
		return fmt.Errorf("order #%d: %w", o.Ticket, ErrOrderClosed)
	}
	o.Closed = true
	o.CloseTime = closeTime
	o.ClosePrice = closePrice
	o.CloseReason = reason
	return nil
}

// Modify applies the present fields of the modification. Repricing is only
// allowed for pending orders.
func (o *Order) Modify(mod Modification) error {
	if o.Closed {
		return fmt.Errorf("order #%d: %w", o.Ticket, ErrOrderClosed)
	}
	if mod.OpenPrice != nil {
		if o.Op.IsMarket() {
			return fmt.Errorf("order #%d: %w", o.Ticket, ErrMarketOrderRepriced)
		}
		o.OpenPrice = *mod.OpenPrice
	}
	if mod.TakeProfit != nil {
		o.TakeProfit = *mod.TakeProfit
	}
	if mod.StopLoss != nil {
		o.StopLoss = *mod.StopLoss
	}
	if mod.ExpiredTime != nil {
		o.ExpiredTime = *mod.ExpiredTime
	}
	return nil
}

// Activate converts a pending order into its market counterpart at the given
// price, recording the matching open reason. An order activates at most once.
func (o *Order) Activate(price fixed.Point) error {
	if o.Closed {
		return fmt.Errorf("order #%d: %w", o.Ticket, ErrMarketOrderActivated)
	}
	switch o.Op {
	case BuyLimit:
		o.Op = Buy
		o.OpenReason = OpenAtBuyLimit
	case BuyStop:
		o.Op = Buy
		o.OpenReason = OpenAtBuyStop
	case SellLimit:
		o.Op = Sell
		o.OpenReason = OpenAtSellLimit
	case SellStop:
		o.Op = Sell
		o.OpenReason = OpenAtSellStop
	default:
		return fmt.Errorf("order #%d: %w", o.Ticket, ErrMarketOrderActivated)
	}
	o.OpenPrice = price
	return nil
}

// SignedLot is the order's contribution to net exposure, positive for buys
// and negative for sells. Pending orders contribute zero.
func (o *Order) SignedLot() fixed.Point {
	switch o.Op {
	case Buy:
		return o.Lot
	case Sell:
		return o.Lot.Neg()
	default:
		return fixed.Zero
	}
}

// Profit is the realised profit of a closed order, zero while open.
func (o *Order) Profit() fixed.Point {
	if !o.Closed {
		return fixed.Zero
	}
	return o.ClosePrice.Sub(o.OpenPrice).Mul(o.SignedLot())
}
