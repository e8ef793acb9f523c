package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheodoreKrypton/pytrade/pkg/utility/fixed"
)

// nakedOf recomputes the exposure the slow way, for cross-checking the
// incrementally maintained value.
func nakedOf(b *Book) fixed.Point {
	sum := fixed.Zero
	for _, ticket := range b.ActiveTickets() {
		sum = sum.Add(b.Active(ticket).SignedLot())
	}
	return sum
}

func TestBook_TicketsMonotonic(t *testing.T) {
	b := NewBook()

	var last ID
	for i := 0; i < 5; i++ {
		ticket := b.Send(Buy, i, price(100), price(1), NoExpiry, OpenAtMarket, fixed.Zero, fixed.Zero)
		assert.Greater(t, ticket, last)
		last = ticket
	}
	require.NoError(t, b.Close(1, 5, price(101), CloseAtMarket))

	// Tickets are never reused after a close
	ticket := b.Send(Sell, 6, price(101), price(1), NoExpiry, OpenAtMarket, fixed.Zero, fixed.Zero)
	assert.Equal(t, ID(6), ticket)
}

func TestBook_NakedExposure(t *testing.T) {
	b := NewBook()

	buy := b.Send(Buy, 0, price(100), price(2), NoExpiry, OpenAtMarket, fixed.Zero, fixed.Zero)
	assert.Equal(t, "2", b.Naked().String())

	sell := b.Send(Sell, 0, price(100), price(0.5), NoExpiry, OpenAtMarket, fixed.Zero, fixed.Zero)
	assert.Equal(t, "1.5", b.Naked().String())

	// Pending orders contribute nothing until activated
	pending := b.Send(BuyStop, 0, price(102), price(3), NoExpiry, OpenAtMarket, fixed.Zero, fixed.Zero)
	assert.Equal(t, "1.5", b.Naked().String())
	assert.True(t, b.Naked().Eq(nakedOf(b)))

	require.NoError(t, b.Activate(pending, price(103)))
	assert.Equal(t, "4.5", b.Naked().String())
	assert.True(t, b.Naked().Eq(nakedOf(b)))

	require.NoError(t, b.Close(buy, 1, price(103), CloseAtMarket))
	assert.Equal(t, "2.5", b.Naked().String())

	require.NoError(t, b.Close(sell, 1, price(103), CloseAtMarket))
	require.NoError(t, b.Close(pending, 1, price(103), CloseAtMarket))
	assert.True(t, b.Naked().IsZero())
	assert.True(t, b.Naked().Eq(nakedOf(b)))
}

func TestBook_CancelPendingKeepsExposure(t *testing.T) {
	b := NewBook()

	pending := b.Send(SellLimit, 0, price(105), price(2), NoExpiry, OpenAtMarket, fixed.Zero, fixed.Zero)
	require.NoError(t, b.Close(pending, 1, price(100), CloseAtMarket))
	assert.True(t, b.Naked().IsZero())
	assert.Equal(t, 0, b.ActiveCount())
	assert.Len(t, b.History(), 1)
}

func TestBook_Close(t *testing.T) {
	b := NewBook()
	ticket := b.Send(Buy, 0, price(100), price(1), NoExpiry, OpenAtMarket, fixed.Zero, fixed.Zero)

	require.NoError(t, b.Close(ticket, 3, price(104), CloseAtTakeProfit))
	assert.Equal(t, 0, b.ActiveCount())

	history := b.History()
	require.Len(t, history, 1)
	assert.Equal(t, CloseAtTakeProfit, history[0].CloseReason)
	assert.True(t, history[0].ClosePrice.Eq(price(104)))

	// Closing again resolves nothing in the active set
	assert.ErrorIs(t, b.Close(ticket, 4, price(105), CloseAtMarket), ErrOrderNotFound)
	assert.ErrorIs(t, b.Close(99, 4, price(105), CloseAtMarket), ErrOrderNotFound)
}

func TestBook_SelectByTicket(t *testing.T) {
	b := NewBook()
	active := b.Send(Buy, 0, price(100), price(1), NoExpiry, OpenAtMarket, fixed.Zero, fixed.Zero)
	closed := b.Send(Sell, 1, price(100), price(1), NoExpiry, OpenAtMarket, fixed.Zero, fixed.Zero)
	require.NoError(t, b.Close(closed, 2, price(101), CloseAtMarket))

	o, err := b.Select(int64(active), ByTicket)
	require.NoError(t, err)
	assert.Equal(t, active, o.Ticket)

	// History is searched after the active set
	o, err = b.Select(int64(closed), ByTicket)
	require.NoError(t, err)
	assert.True(t, o.Closed)

	_, err = b.Select(42, ByTicket)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestBook_SelectByPosition(t *testing.T) {
	b := NewBook()
	first := b.Send(Buy, 5, price(100), price(1), NoExpiry, OpenAtMarket, fixed.Zero, fixed.Zero)
	second := b.Send(Sell, 2, price(100), price(1), NoExpiry, OpenAtMarket, fixed.Zero, fixed.Zero)
	third := b.Send(BuyLimit, 7, price(98), price(1), NoExpiry, OpenAtMarket, fixed.Zero, fixed.Zero)

	// Positions index the open-time ordering of active orders
	o, err := b.Select(0, ByPosition)
	require.NoError(t, err)
	assert.Equal(t, second, o.Ticket)

	o, err = b.Select(1, ByPosition)
	require.NoError(t, err)
	assert.Equal(t, first, o.Ticket)

	o, err = b.Select(2, ByPosition)
	require.NoError(t, err)
	assert.Equal(t, third, o.Ticket)

	_, err = b.Select(3, ByPosition)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	_, err = b.Select(-1, ByPosition)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	// The cached ordering is invalidated when the active set changes
	require.NoError(t, b.Close(second, 8, price(101), CloseAtMarket))
	o, err = b.Select(0, ByPosition)
	require.NoError(t, err)
	assert.Equal(t, first, o.Ticket)
}

func TestBook_Modify(t *testing.T) {
	b := NewBook()
	ticket := b.Send(Buy, 0, price(100), price(1), NoExpiry, OpenAtMarket, fixed.Zero, fixed.Zero)

	tp := price(110)
	require.NoError(t, b.Modify(ticket, Modification{TakeProfit: &tp}))
	assert.True(t, b.Active(ticket).TakeProfit.Eq(tp))

	// Zero ticket reuses the selection made by the modify above
	sl := price(95)
	require.NoError(t, b.Modify(0, Modification{StopLoss: &sl}))
	assert.True(t, b.Active(ticket).StopLoss.Eq(sl))

	require.NoError(t, b.Close(ticket, 1, price(101), CloseAtMarket))
	assert.ErrorIs(t, b.Modify(ticket, Modification{TakeProfit: &tp}), ErrOrderClosed)

	fresh := NewBook()
	assert.ErrorIs(t, fresh.Modify(0, Modification{TakeProfit: &tp}), ErrOrderNotFound)
}

func TestBook_Activate(t *testing.T) {
	b := NewBook()

	market := b.Send(Buy, 0, price(100), price(1), NoExpiry, OpenAtMarket, fixed.Zero, fixed.Zero)
	assert.ErrorIs(t, b.Activate(market, price(101)), ErrMarketOrderActivated)

	closed := b.Send(BuyStop, 0, price(102), price(1), NoExpiry, OpenAtMarket, fixed.Zero, fixed.Zero)
	require.NoError(t, b.Close(closed, 1, price(100), CloseAtMarket))
	assert.ErrorIs(t, b.Activate(closed, price(103)), ErrMarketOrderActivated)

	pending := b.Send(SellStop, 1, price(98), price(2), NoExpiry, OpenAtMarket, fixed.Zero, fixed.Zero)
	require.NoError(t, b.Activate(pending, price(97)))
	assert.Equal(t, Sell, b.Active(pending).Op)
	assert.Equal(t, "-1", b.Naked().String())
}

func TestBook_InfoRoundTrip(t *testing.T) {
	b := NewBook()
	ticket := b.Send(BuyStop, 3, price(102), price(1.5), 10, OpenAtMarket, price(110), price(99))

	_, err := b.Select(int64(ticket), ByTicket)
	require.NoError(t, err)

	fields := map[InfoField]any{
		InfoTicket:      ticket,
		InfoOpenPrice:   price(102),
		InfoOpenTime:    3,
		InfoOperation:   BuyStop,
		InfoLot:         price(1.5),
		InfoExpiredTime: 10,
		InfoOpenReason:  OpenAtMarket,
		InfoClosed:      false,
		InfoTakeProfit:  price(110),
		InfoStopLoss:    price(99),
	}
	for field, want := range fields {
		got, err := b.Info(field)
		require.NoError(t, err)
		assert.Equal(t, want, got, "field %d", field)
	}

	// Activation and close are reflected exactly
	require.NoError(t, b.Activate(ticket, price(103)))
	require.NoError(t, b.Close(ticket, 7, price(105), CloseAtTakeProfit))
	_, err = b.Select(int64(ticket), ByTicket)
	require.NoError(t, err)

	for field, want := range map[InfoField]any{
		InfoOperation:   Buy,
		InfoOpenPrice:   price(103),
		InfoOpenReason:  OpenAtBuyStop,
		InfoClosed:      true,
		InfoCloseTime:   7,
		InfoCloseReason: CloseAtTakeProfit,
	} {
		got, err := b.Info(field)
		require.NoError(t, err)
		assert.Equal(t, want, got, "field %d", field)
	}

	fresh := NewBook()
	_, err = fresh.Info(InfoTicket)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
