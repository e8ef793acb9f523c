package order

import "fmt"

// InfoField addresses one scalar field of the selected order.
type InfoField uint8

const (
	InfoTicket InfoField = iota
	InfoOpenPrice
	InfoOpenTime
	InfoOperation
	InfoLot
	InfoExpiredTime
	InfoOpenReason
	InfoCloseTime
	InfoClosed
	InfoTakeProfit
	InfoStopLoss
	InfoCloseReason
)

// Info returns the requested field of the currently selected order.
func (b *Book) Info(field InfoField) (any, error) {
	if b.selected == nil {
		return nil, fmt.Errorf("no order selected: %w", ErrOrderNotFound)
	}
	o := b.selected
	switch field {
	case InfoTicket:
		return o.Ticket, nil
	case InfoOpenPrice:
		return o.OpenPrice, nil
	case InfoOpenTime:
		return o.OpenTime, nil
	case InfoOperation:
		return o.Op, nil
	case InfoLot:
		return o.Lot, nil
	case InfoExpiredTime:
		return o.ExpiredTime, nil
	case InfoOpenReason:
		return o.OpenReason, nil
	case InfoCloseTime:
		return o.CloseTime, nil
	case InfoClosed:
		return o.Closed, nil
	case InfoTakeProfit:
		return o.TakeProfit, nil
	case InfoStopLoss:
		return o.StopLoss, nil
	case InfoCloseReason:
		return o.CloseReason, nil
	default:
		return nil, fmt.Errorf("unknown info field: %d", field)
	}
}
