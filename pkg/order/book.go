package order

import (
	"fmt"
	"sort"

	"github.com/TheodoreKrypton/pytrade/pkg/utility/fixed"
)

// SelectMode addresses an order either by its rank among currently active
// orders or by its permanent ticket.
type SelectMode uint8

const (
	ByPosition SelectMode = iota
	ByTicket
)

// Book owns every order of one simulation run: the active set (pending and
// filled, not yet closed) and the append-only history of closed orders. It
// keeps the net exposure incrementally so the engine can mark balance to
// market each bar without rescanning.
//
// A Book is owned by exactly one engine and is not safe for concurrent use.
type Book struct {
	active  map[ID]*Order
	history map[ID]*Order

	// naked is the signed sum of lots of open market positions. Pending
	// orders contribute only after activation.
	naked fixed.Point

	selected *Order

	// byOpenTime caches the open-time ordering of active tickets for
	// position-based selection, nil whenever the active set changed.
	byOpenTime []ID

	lastTicket ID
}

func NewBook() *Book {
	return &Book{
		active:  make(map[ID]*Order),
		history: make(map[ID]*Order),
		naked:   fixed.Zero,
	}
}

// Send allocates a ticket and inserts a new order into the active set. Market
// orders immediately contribute to the net exposure, pending orders do not.
func (b *Book) Send(op Operation, openTime int, openPrice, lot fixed.Point, expiredTime int, openReason Reason, tp, sl fixed.Point) ID {
	b.lastTicket++
	ticket := b.lastTicket
	b.active[ticket] = newOrder(ticket, op, openTime, openPrice, lot, expiredTime, openReason, tp, sl)
	b.byOpenTime = nil

	switch op {
	case Buy:
		b.naked = b.naked.Add(lot)
	case Sell:
		b.naked = b.naked.Sub(lot)
	}
	return ticket
}

// Close seals an active order and moves it to the history. Closing a pending
// order cancels it without ever having touched the exposure.
func (b *Book) Close(ticket ID, closeTime int, closePrice fixed.Point, reason Reason) error {
	o, ok := b.active[ticket]
	if !ok {
		return fmt.Errorf("order #%d: %w", ticket, ErrOrderNotFound)
	}
	switch o.Op {
	case Buy:
		b.naked = b.naked.Sub(o.Lot)
	case Sell:
		b.naked = b.naked.Add(o.Lot)
	}
	if err := o.Close(closeTime, closePrice, reason); err != nil {
		return err
	}
	b.history[ticket] = o
	delete(b.active, ticket)
	b.byOpenTime = nil
	return nil
}

// Select resolves an order and remembers it for subsequent Info, Modify and
// Close calls. ByPosition indexes the open-time ordering of active orders,
// ByTicket searches the active set first and the history second.
func (b *Book) Select(ref int64, mode SelectMode) (*Order, error) {
	switch mode {
	case ByPosition:
		if ref < 0 || ref >= int64(len(b.active)) {
			return nil, fmt.Errorf("position %d: %w", ref, ErrOrderNotFound)
		}
		if b.byOpenTime == nil {
			b.byOpenTime = make([]ID, 0, len(b.active))
			for ticket := range b.active {
				b.byOpenTime = append(b.byOpenTime, ticket)
			}
			sort.Slice(b.byOpenTime, func(i, j int) bool {
				a, c := b.active[b.byOpenTime[i]], b.active[b.byOpenTime[j]]
				if a.OpenTime != c.OpenTime {
					return a.OpenTime < c.OpenTime
				}
				return a.Ticket < c.Ticket
			})
		}
		b.selected = b.active[b.byOpenTime[ref]]
	default:
		if o, ok := b.active[ID(ref)]; ok {
			b.selected = o
		} else if o, ok := b.history[ID(ref)]; ok {
			b.selected = o
		} else {
			return nil, fmt.Errorf("order #%d: %w", ref, ErrOrderNotFound)
		}
	}
	return b.selected, nil
}

// Modify applies a modification to the addressed order. A zero ticket reuses
// the current selection.
func (b *Book) Modify(ticket ID, mod Modification) error {
	if ticket != 0 {
		if _, err := b.Select(int64(ticket), ByTicket); err != nil {
			return err
		}
	}
	if b.selected == nil {
		return fmt.Errorf("no order selected: %w", ErrOrderNotFound)
	}
	if b.selected.Closed {
		return fmt.Errorf("order #%d: %w", b.selected.Ticket, ErrOrderClosed)
	}
	return b.selected.Modify(mod)
}

// Activate fills the addressed pending order at the given price and counts its
// full lot into the exposure. A zero ticket reuses the current selection.
func (b *Book) Activate(ticket ID, price fixed.Point) error {
	if ticket != 0 {
		if _, err := b.Select(int64(ticket), ByTicket); err != nil {
			return err
		}
	}
	if b.selected == nil {
		return fmt.Errorf("no order selected: %w", ErrOrderNotFound)
	}
	if b.selected.Closed {
		return fmt.Errorf("order #%d: %w", b.selected.Ticket, ErrMarketOrderActivated)
	}
	if err := b.selected.Activate(price); err != nil {
		return err
	}
	if b.selected.Op == Buy {
		b.naked = b.naked.Add(b.selected.Lot)
	} else {
		b.naked = b.naked.Sub(b.selected.Lot)
	}
	return nil
}

// Naked is the current net exposure.
func (b *Book) Naked() fixed.Point {
	return b.naked
}

// ActiveCount is the number of orders not yet closed, pending included.
func (b *Book) ActiveCount() int {
	return len(b.active)
}

// Selected returns the order addressed by the last Select, nil if none.
func (b *Book) Selected() *Order {
	return b.selected
}

// ActiveTickets returns the tickets of the active set in insertion order.
func (b *Book) ActiveTickets() []ID {
	tickets := make([]ID, 0, len(b.active))
	for ticket := range b.active {
		tickets = append(tickets, ticket)
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i] < tickets[j] })
	return tickets
}

// Active returns the active order with the given ticket, nil if absent.
func (b *Book) Active(ticket ID) *Order {
	return b.active[ticket]
}

// History returns the closed orders in ticket order.
func (b *Book) History() []*Order {
	tickets := make([]ID, 0, len(b.history))
	for ticket := range b.history {
		tickets = append(tickets, ticket)
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i] < tickets[j] })

	orders := make([]*Order, 0, len(tickets))
	for _, ticket := range tickets {
		orders = append(orders, b.history[ticket])
	}
	return orders
}
